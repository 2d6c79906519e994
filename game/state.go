package game

import (
	"fmt"
	"hash/fnv"
	"strings"
)

type StateHash uint64

// Board is a 3x3 grid of cells indexed [row][col].
type Board [Size][Size]Player

var lines = [8][3]Move{
	{{0, 0}, {0, 1}, {0, 2}},
	{{1, 0}, {1, 1}, {1, 2}},
	{{2, 0}, {2, 1}, {2, 2}},
	{{0, 0}, {1, 0}, {2, 0}},
	{{0, 1}, {1, 1}, {2, 1}},
	{{0, 2}, {1, 2}, {2, 2}},
	{{0, 0}, {1, 1}, {2, 2}},
	{{0, 2}, {1, 1}, {2, 0}},
}

func (b Board) At(m Move) Player {
	return b[m.Row][m.Col]
}

// Wins reports whether the player has three aligned pieces.
func (b Board) Wins(p Player) bool {
	if p == None {
		return false
	}
	for _, line := range lines {
		if b.At(line[0]) == p && b.At(line[1]) == p && b.At(line[2]) == p {
			return true
		}
	}
	return false
}

func (b Board) Count(p Player) int {
	n := 0
	for _, row := range b {
		for _, cell := range row {
			if cell == p {
				n++
			}
		}
	}
	return n
}

// String renders the board as rows separated by '/', e.g. "XOX/OXO/__X".
func (b Board) String() string {
	var sb strings.Builder
	for r, row := range b {
		if r > 0 {
			sb.WriteByte('/')
		}
		for _, cell := range row {
			sb.WriteString(cell.String())
		}
	}
	return sb.String()
}

// State is an immutable game state: operations on State always return a new
// copy, so search branches never observe each other's moves.
type State struct {
	board  Board
	player Player
}

// NewState returns the initial state: an empty board with X to move.
func NewState() State {
	return State{player: X}
}

// NewStateFrom returns a state with the given board and player to move.
func NewStateFrom(board Board, player Player) State {
	return State{board: board, player: player}
}

// ParseState reads a board in Board.String form. The player to move is O
// when X has more pieces on the board, otherwise X.
func ParseState(s string) (State, error) {
	rows := strings.Split(s, "/")
	if len(rows) != Size {
		return State{}, fmt.Errorf("cannot parse state %q: want %d rows, got %d", s, Size, len(rows))
	}
	var board Board
	for r, row := range rows {
		if len(row) != Size {
			return State{}, fmt.Errorf("cannot parse state %q: row %d has %d cells", s, r, len(row))
		}
		for c, ch := range row {
			switch ch {
			case 'X', 'x':
				board[r][c] = X
			case 'O', 'o':
				board[r][c] = O
			case '_', '.', ' ', '-':
				board[r][c] = None
			default:
				return State{}, fmt.Errorf("cannot parse state %q: unknown cell %q", s, ch)
			}
		}
	}
	if board.Count(X) > board.Count(O) {
		return NewStateFrom(board, O), nil
	}
	return NewStateFrom(board, X), nil
}

func (s State) Board() Board {
	return s.board
}

// Player returns the player to move.
func (s State) Player() Player {
	return s.player
}

// Copy returns an independent copy. State holds no references, so this is a
// plain value copy.
func (s State) Copy() State {
	return s
}

// EmptyCells returns all legal moves in row-major order.
func (s State) EmptyCells() []Move {
	moves := make([]Move, 0, Cells)
	for r := 0; r < Size; r++ {
		for c := 0; c < Size; c++ {
			if s.board[r][c] == None {
				moves = append(moves, Move{Row: r, Col: c})
			}
		}
	}
	return moves
}

func (s State) Wins(p Player) bool {
	return s.board.Wins(p)
}

// Winner returns the winning player, or None.
func (s State) Winner() Player {
	switch {
	case s.board.Wins(X):
		return X
	case s.board.Wins(O):
		return O
	}
	return None
}

// IsTerminal reports whether the game is won or the board is full.
func (s State) IsTerminal() bool {
	return s.Winner() != None || s.board.Count(None) == 0
}

// Play applies the move for the player to move and passes the turn.
func (s State) Play(m Move) (State, error) {
	return s.PlayAs(m, s.player)
}

// PlayAs applies the move for p and passes the turn to p's opponent. The
// receiver is left untouched.
func (s State) PlayAs(m Move, p Player) (State, error) {
	if !m.InRange() {
		return s, fmt.Errorf("cannot play %v: %w", m, ErrOutOfRange)
	}
	if s.IsTerminal() {
		return s, fmt.Errorf("cannot play %v: %w", m, ErrGameOver)
	}
	if s.board.At(m) != None {
		return s, fmt.Errorf("cannot play %v: %w", m, ErrCellOccupied)
	}
	next := s
	next.board[m.Row][m.Col] = p
	next.player = p.Opponent()
	return next, nil
}

// MustPlay is Play for moves already known to be legal, such as those taken
// from EmptyCells. It panics otherwise.
func (s State) MustPlay(m Move) State {
	next, err := s.Play(m)
	if err != nil {
		panic(err)
	}
	return next
}

// Hash identifies the player to move and the board, one byte each.
func (s State) Hash() StateHash {
	buf := [1 + Cells]byte{byte(s.player)}
	for i, row := range s.board {
		for j, cell := range row {
			buf[1+i*Size+j] = byte(cell)
		}
	}
	hasher := fnv.New64a()
	hasher.Write(buf[:])
	return StateHash(hasher.Sum64())
}

func (s State) String() string {
	return fmt.Sprintf("%v %v to move", s.board, s.player)
}
