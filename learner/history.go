package learner

import "tictactoe/game"

// Transition is one move of the learner: the state it moved in, the move,
// and the state that move produced.
type Transition struct {
	State  StateKey
	Action game.Move
	Next   StateKey
}

// History is the learner's transitions of the current episode, in order.
type History []Transition

func (h *History) Record(state StateKey, action game.Move, next StateKey) {
	*h = append(*h, Transition{State: state, Action: action, Next: next})
}

func (h *History) Reset() {
	*h = (*h)[:0]
}
