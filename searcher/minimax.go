package searcher

import (
	"tictactoe/agent"
	"tictactoe/experiments/metrics"
	"tictactoe/game"

	"github.com/rs/zerolog/log"
)

// Minimax searches the full game tree. X maximizes and O minimizes the
// score; ties go to the first move in EmptyCells order.
type Minimax struct {
	settings
	last metrics.SearchMetric
}

func NewMinimax(options ...Option) *Minimax {
	return &Minimax{settings: newSettings(options)}
}

// ChooseMove returns a uniformly random cell on an empty board and the best
// move by full search otherwise.
func (m *Minimax) ChooseMove(state game.State) (game.Move, error) {
	moves, err := agent.CheckState(state)
	if err != nil {
		return game.NoMove, err
	}
	if len(moves) == game.Cells {
		m.last = metrics.SearchMetric{}
		return moves[m.rng.Intn(len(moves))], nil
	}

	m.metrics.Start()
	result := m.Search(state)
	m.metrics.AddNodes(result.Nodes)
	m.last = m.metrics.Complete()

	log.Debug().Msgf("minimax chose %v with score %d after %d nodes", result.Move, result.Score, result.Nodes)
	return result.Move, nil
}

// Search evaluates the state to full depth for the player to move.
func (m *Minimax) Search(state game.State) Result {
	nodes := 0
	depth := len(state.EmptyCells())
	move, score := minimax(state, depth, state.Player(), &nodes)
	return Result{Move: move, Score: score, Nodes: nodes}
}

func (m *Minimax) LastMetric() metrics.SearchMetric {
	return m.last
}

func (m *Minimax) String() string {
	return "Minimax"
}

func minimax(state game.State, depth int, player game.Player, nodes *int) (game.Move, int) {
	*nodes++
	if depth == 0 || state.IsTerminal() {
		return game.NoMove, evaluate(state)
	}

	best := game.NoMove
	bestScore := initialScore(player)
	for _, move := range state.EmptyCells() {
		child := playAs(state, move, player)
		_, score := minimax(child, depth-1, player.Opponent(), nodes)
		if (player == game.X && score > bestScore) || (player == game.O && score < bestScore) {
			best = move
			bestScore = score
		}
	}
	return best, bestScore
}
