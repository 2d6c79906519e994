package searcher

import (
	"math"
	"time"

	"tictactoe/experiments/metrics"
	"tictactoe/game"
	"tictactoe/meta"

	"golang.org/x/exp/rand"
)

// Scores of a finished game from the maximizer's (X) perspective
const (
	WinScore  = 1
	DrawScore = 0
	LossScore = -1
)

// Rewards credited to a tree node per simulation
const (
	WIN  = 1.0
	LOSS = 0.0
)

type Option func(s *settings)

type settings struct {
	rng         *rand.Rand
	simulations int
	cSquared    float64
	metrics     metrics.Collector
}

func newSettings(options []Option) settings {
	s := settings{ // Default values
		simulations: meta.MCTSSimulations,
		cSquared:    meta.MCTSExploration * meta.MCTSExploration,
		metrics:     metrics.NewDummyCollector(),
	}
	for _, option := range options {
		option(&s)
	}
	if s.rng == nil {
		s.rng = rand.New(rand.NewSource(uint64(time.Now().UnixNano())))
	}
	return s
}

// WithRand sets the source of all random choices, for reproducible searches.
func WithRand(rng *rand.Rand) Option {
	return func(s *settings) {
		if rng != nil {
			s.rng = rng
		}
	}
}

// WithSimulations sets the number of MCTS iterations per decision.
func WithSimulations(simulations int) Option {
	return func(s *settings) {
		if simulations > 0 {
			s.simulations = simulations
		}
	}
}

// WithExploration sets the UCB1 exploration constant c.
func WithExploration(c float64) Option {
	return func(s *settings) {
		if c >= 0 {
			s.cSquared = c * c
		}
	}
}

func WithMetrics(collector metrics.Collector) Option {
	return func(s *settings) {
		if collector != nil {
			s.metrics = collector
		}
	}
}

// Result is the outcome of a game-tree search.
type Result struct {
	Move  game.Move
	Score int
	Nodes int // Nodes visited
}

// evaluate scores a state: +1 if X has won, -1 if O has won, 0 otherwise.
func evaluate(state game.State) int {
	switch {
	case state.Wins(game.X):
		return WinScore
	case state.Wins(game.O):
		return LossScore
	}
	return DrawScore
}

func initialScore(player game.Player) int {
	if player == game.X {
		return math.MinInt
	}
	return math.MaxInt
}

func playAs(state game.State, move game.Move, player game.Player) game.State {
	next, err := state.PlayAs(move, player)
	if err != nil {
		panic(err)
	}
	return next
}
