package engine

import (
	"fmt"
	"time"

	"tictactoe/agent"
	"tictactoe/experiments/metrics"
	"tictactoe/game"
	"tictactoe/gamemaster"

	"github.com/rs/zerolog/log"
)

// Match is a game between two agents refereed by a game master.
type Match struct {
	X agent.Agent
	O agent.Agent
	// Start is the position to play from. The zero value is the empty board.
	Start game.State
	// Master referees the game. A new local engine is used when nil.
	Master gamemaster.Engine
}

// Run asks the agent of the player to move for a move until the game ends.
// Agents are never asked to move in a finished game.
func (m *Match) Run() (game.Player, metrics.GameMetric, []metrics.MoveMetric, error) {
	start := m.Start
	if start.Player() == game.None {
		start = game.NewState()
	}

	master := m.Master
	if master == nil {
		master = gamemaster.NewLocalEngine()
	}
	state, getUpdate := master.Init(start)

	gameMetric := metrics.GameMetric{
		StartingPlayer: state.Player().String(),
		StartTime:      time.Now(),
	}
	moveMetrics := []metrics.MoveMetric{}

	log.Debug().Msgf("%v is starting", state.Player())

	for step := 1; !master.GameOver(); step++ {
		mover := state.Player()
		a := m.agentFor(mover)

		begin := time.Now()
		move, err := a.ChooseMove(state)
		if err != nil {
			return game.None, gameMetric, moveMetrics, fmt.Errorf("%v failed to choose a move: %w", mover, err)
		}
		search := metrics.SearchMetric{}
		if reporter, ok := a.(metrics.Reporter); ok {
			search = reporter.LastMetric()
		}
		search.Duration = time.Since(begin)

		if err := master.Play(move); err != nil {
			return game.None, gameMetric, moveMetrics, fmt.Errorf("%v: %w", mover, err)
		}
		_, state, _ = getUpdate()

		moveMetrics = append(moveMetrics, metrics.MoveMetric{
			Step:         step,
			Player:       mover.String(),
			Move:         move.Index(),
			SearchMetric: search,
		})
	}

	winner := state.Winner()
	gameMetric.EndTime = time.Now()
	gameMetric.Duration = gameMetric.EndTime.Sub(gameMetric.StartTime)
	gameMetric.TotalMoves = len(moveMetrics)
	if winner != game.None {
		gameMetric.Winner = winner.String()
	}

	log.Debug().Msgf("game over after %d moves: %v", gameMetric.TotalMoves, state.Board())
	return winner, gameMetric, moveMetrics, nil
}

func (m *Match) agentFor(player game.Player) agent.Agent {
	if player == game.X {
		return m.X
	}
	return m.O
}
