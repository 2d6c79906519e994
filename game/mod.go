package game

import "errors"

const Size = 3

// Cells is the number of cells on the board.
const Cells = Size * Size

// Player identifies a side, and doubles as the content of a board cell.
type Player int8

const (
	None Player = iota // Empty cell, or no winner
	X                  // First player, maximizer
	O                  // Second player, minimizer
)

func (p Player) Opponent() Player {
	switch p {
	case X:
		return O
	case O:
		return X
	}
	return None
}

func (p Player) String() string {
	switch p {
	case X:
		return "X"
	case O:
		return "O"
	}
	return "_"
}

var (
	ErrCellOccupied = errors.New("cell is occupied")
	ErrOutOfRange   = errors.New("move is out of range")
	ErrGameOver     = errors.New("game is over")
)
