package learner

import (
	"errors"
	"fmt"
	"time"

	"tictactoe/agent"
	"tictactoe/game"

	"github.com/rs/zerolog/log"
	"golang.org/x/exp/rand"
)

// Rewards of a finished episode for the player who made the last move
const (
	WinReward  = 1.0
	DrawReward = 0.0
	LossReward = -1.0
)

var ErrSelfOpponent = errors.New("cannot train: learner cannot be its own opponent")

// TrainingStats counts episode outcomes from the learner's perspective.
type TrainingStats struct {
	Episodes int
	Wins     int
	Losses   int
	Draws    int
	Duration time.Duration
}

func (s TrainingStats) DrawRate() float64 {
	if s.Episodes == 0 {
		return 0
	}
	return float64(s.Draws) / float64(s.Episodes)
}

func (s *TrainingStats) add(outcome game.Player, side game.Player) {
	s.Episodes++
	switch outcome {
	case game.None:
		s.Draws++
	case side:
		s.Wins++
	default:
		s.Losses++
	}
}

// Train plays episodes of self-play against opponent and updates the table at
// the end of each one. A nil opponent falls back to the WithOpponent agent,
// then to a fresh learner with the same hyperparameters. episodes <= 0 uses
// the configured count. The learner plays X in the first episode and swaps
// sides every episode.
func (l *Learner) Train(opponent agent.Agent, episodes int) (TrainingStats, error) {
	if opponent == nil {
		opponent = l.opponent
	}
	if opponent == nil {
		opponent = l.sparringPartner()
	}
	if opponent == agent.Agent(l) {
		return TrainingStats{}, ErrSelfOpponent
	}
	if episodes <= 0 {
		episodes = l.episodes
	}

	log.Info().Msgf("training Q-learning agent for %d episodes against %v", episodes, opponent)

	start := time.Now()
	stats := TrainingStats{}
	side := game.X
	for episode := 1; episode <= episodes; episode++ {
		winner, err := l.playEpisode(opponent, side)
		if err != nil {
			return stats, fmt.Errorf("episode %d: %w", episode, err)
		}
		stats.add(winner, side)

		if episode%l.reportInterval == 0 {
			log.Info().
				Int("episode", episode).
				Int("wins", stats.Wins).
				Int("losses", stats.Losses).
				Int("draws", stats.Draws).
				Int("states", l.table.Len()).
				Msg("training progress")
		}
		side = side.Opponent()
	}
	stats.Duration = time.Since(start)

	log.Info().Msgf("completed training in %v: %d wins, %d losses, %d draws", stats.Duration, stats.Wins, stats.Losses, stats.Draws)
	return stats, nil
}

// playEpisode plays one game with the learner on side and returns the winner.
func (l *Learner) playEpisode(opponent agent.Agent, side game.Player) (game.Player, error) {
	sparring, isLearner := opponent.(*Learner)
	l.history.Reset()
	if isLearner {
		sparring.history.Reset()
	}

	state := game.NewState()
	for {
		mover := state.Player()
		var next game.State
		var err error
		switch {
		case mover == side:
			_, next, err = l.explore(state)
		case isLearner:
			_, next, err = sparring.explore(state)
		default:
			var move game.Move
			move, err = opponent.ChooseMove(state)
			if err == nil {
				next, err = state.Play(move)
			}
		}
		if err != nil {
			return game.None, err
		}

		if next.IsTerminal() {
			reward := DrawReward
			if next.Wins(mover) {
				reward = WinReward
			}
			l.finish(sparring, isLearner, mover == side, reward)
			return next.Winner(), nil
		}
		state = next
	}
}

// finish hands the terminal reward to the mover and the negated reward to
// the other side, for whichever of them is a learner.
func (l *Learner) finish(sparring *Learner, isLearner, learnerMoved bool, reward float64) {
	if learnerMoved {
		l.learn(reward)
		if isLearner {
			sparring.learn(-reward)
		}
		return
	}
	if isLearner {
		sparring.learn(reward)
	}
	l.learn(-reward)
}

func (l *Learner) sparringPartner() *Learner {
	return New(
		WithAlpha(l.alpha),
		WithGamma(l.gamma),
		WithEpsilon(l.epsilon),
		WithReportInterval(l.reportInterval),
		WithRand(rand.New(rand.NewSource(l.rng.Uint64()))),
	)
}
