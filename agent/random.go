package agent

import (
	"tictactoe/game"

	"golang.org/x/exp/rand"
)

type random struct {
	rng *rand.Rand
}

// NewRandom returns an agent that plays a uniformly random legal move.
func NewRandom(rng *rand.Rand) Agent {
	return &random{rng: rng}
}

func (a *random) ChooseMove(state game.State) (game.Move, error) {
	moves, err := CheckState(state)
	if err != nil {
		return game.NoMove, err
	}
	return moves[a.rng.Intn(len(moves))], nil
}

func (a *random) String() string {
	return "Random"
}
