package learner

import (
	"fmt"

	"tictactoe/game"
)

// StateKey encodes a board row-major, one digit per cell: '0' empty, '1' X
// and '2' O. Boards with equal cells always have equal keys.
type StateKey string

func KeyOf(board game.Board) StateKey {
	var key [game.Cells]byte
	for i := range key {
		switch board.At(game.MoveAt(i)) {
		case game.X:
			key[i] = '1'
		case game.O:
			key[i] = '2'
		default:
			key[i] = '0'
		}
	}
	return StateKey(key[:])
}

// ParseKey validates an encoded board.
func ParseKey(s string) (StateKey, error) {
	if len(s) != game.Cells {
		return "", fmt.Errorf("cannot parse key %q: want %d cells, got %d", s, game.Cells, len(s))
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '2' {
			return "", fmt.Errorf("cannot parse key %q: unknown cell %q", s, s[i])
		}
	}
	return StateKey(s), nil
}

// Board decodes the key. The key must be valid.
func (k StateKey) Board() game.Board {
	var board game.Board
	for i := 0; i < game.Cells; i++ {
		m := game.MoveAt(i)
		switch k[i] {
		case '1':
			board[m.Row][m.Col] = game.X
		case '2':
			board[m.Row][m.Col] = game.O
		}
	}
	return board
}

// empty reports whether the cell at a row-major index is empty.
func (k StateKey) empty(index int) bool {
	return k[index] == '0'
}
