package game

import "fmt"

// Move places a piece on the cell at (Row, Col).
type Move struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

// NoMove is returned when there is nothing to play.
var NoMove = Move{Row: -1, Col: -1}

// MoveAt returns the move for a row-major cell index in [0, Cells).
func MoveAt(index int) Move {
	return Move{Row: index / Size, Col: index % Size}
}

// Index returns the row-major cell index of the move.
func (m Move) Index() int {
	return m.Row*Size + m.Col
}

func (m Move) InRange() bool {
	return m.Row >= 0 && m.Row < Size && m.Col >= 0 && m.Col < Size
}

func (m Move) String() string {
	if m == NoMove {
		return "none"
	}
	return fmt.Sprintf("(%d,%d)", m.Row, m.Col)
}
