package agent

import (
	"errors"

	"tictactoe/game"
)

var (
	ErrGameOver = errors.New("cannot choose a move: game is over")
	ErrNoMoves  = errors.New("cannot choose a move: no empty cells")
)

// Agent is a strategy that picks a move for the player to move in a state.
// Every strategy implements it, so any strategy can stand in as an opponent
// for any other, including during training.
type Agent interface {
	ChooseMove(state game.State) (game.Move, error)
}

// CheckState returns the legal moves of a state that a move may be chosen
// from, or ErrNoMoves on a full board and ErrGameOver on a won board.
func CheckState(state game.State) ([]game.Move, error) {
	moves := state.EmptyCells()
	if len(moves) == 0 {
		return nil, ErrNoMoves
	}
	if state.IsTerminal() {
		return nil, ErrGameOver
	}
	return moves, nil
}
