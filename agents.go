package main

import (
	"fmt"
	"time"

	"tictactoe/agent"
	"tictactoe/experiments"
	"tictactoe/learner"
	"tictactoe/searcher"

	"golang.org/x/exp/rand"
)

// newRand offsets the configured seed so every agent of a run draws from its
// own source.
func newRand(offset uint64) *rand.Rand {
	if cfg.Seed == 0 {
		return rand.New(rand.NewSource(uint64(time.Now().UnixNano()) + offset))
	}
	return rand.New(rand.NewSource(cfg.Seed + offset))
}

func learnerOptions(offset uint64) []learner.Option {
	return []learner.Option{
		learner.WithAlpha(cfg.QLearning.Alpha),
		learner.WithGamma(cfg.QLearning.Gamma),
		learner.WithEpsilon(cfg.QLearning.Epsilon),
		learner.WithEpisodes(cfg.QLearning.Episodes),
		learner.WithReportInterval(cfg.QLearning.ReportInterval),
		learner.WithRand(newRand(offset)),
	}
}

// newAgent builds an agent of the given kind from the loaded config. A
// Q-learning agent is trained by self-play first.
func newAgent(kind string, offset uint64) (agent.Agent, error) {
	rng := newRand(offset)
	switch kind {
	case experiments.Minimax:
		return searcher.NewMinimax(searcher.WithRand(rng)), nil
	case experiments.AlphaBeta:
		return searcher.NewAlphaBeta(searcher.WithRand(rng)), nil
	case experiments.MCTS:
		return searcher.NewMCTS(
			searcher.WithRand(rng),
			searcher.WithSimulations(cfg.MCTS.Simulations),
			searcher.WithExploration(cfg.MCTS.Exploration),
		), nil
	case experiments.QLearning:
		l := learner.New(learnerOptions(offset)...)
		if _, err := l.Train(nil, 0); err != nil {
			return nil, fmt.Errorf("train %s: %w", kind, err)
		}
		return l, nil
	case experiments.Random:
		return agent.NewRandom(rng), nil
	}
	return nil, fmt.Errorf("unknown agent %q: want minimax, alphabeta, mcts, qlearning or random", kind)
}
