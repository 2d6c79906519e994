package searcher

import (
	"tictactoe/agent"
	"tictactoe/experiments/metrics"
	"tictactoe/game"

	"github.com/rs/zerolog/log"
)

// AlphaBeta is Minimax with alpha-beta pruning. A child only replaces the
// best move when it strictly improves alpha (or beta), so it picks the same
// move as Minimax while visiting fewer nodes.
type AlphaBeta struct {
	settings
	last metrics.SearchMetric
}

func NewAlphaBeta(options ...Option) *AlphaBeta {
	return &AlphaBeta{settings: newSettings(options)}
}

func (a *AlphaBeta) ChooseMove(state game.State) (game.Move, error) {
	moves, err := agent.CheckState(state)
	if err != nil {
		return game.NoMove, err
	}
	if len(moves) == game.Cells {
		a.last = metrics.SearchMetric{}
		return moves[a.rng.Intn(len(moves))], nil
	}

	a.metrics.Start()
	result := a.Search(state)
	a.metrics.AddNodes(result.Nodes)
	a.last = a.metrics.Complete()

	log.Debug().Msgf("alpha-beta chose %v with score %d after %d nodes", result.Move, result.Score, result.Nodes)
	return result.Move, nil
}

func (a *AlphaBeta) Search(state game.State) Result {
	nodes := 0
	depth := len(state.EmptyCells())
	move, score := alphaBeta(state, depth, state.Player(), initialScore(game.X), initialScore(game.O), &nodes)
	return Result{Move: move, Score: score, Nodes: nodes}
}

func (a *AlphaBeta) LastMetric() metrics.SearchMetric {
	return a.last
}

func (a *AlphaBeta) String() string {
	return "AlphaBeta"
}

// alphaBeta returns alpha for X and beta for O. alpha is the best score X
// can guarantee so far and beta the best score O can guarantee.
func alphaBeta(state game.State, depth int, player game.Player, alpha, beta int, nodes *int) (game.Move, int) {
	*nodes++
	if depth == 0 || state.IsTerminal() {
		return game.NoMove, evaluate(state)
	}

	best := game.NoMove
	for _, move := range state.EmptyCells() {
		child := playAs(state, move, player)
		_, score := alphaBeta(child, depth-1, player.Opponent(), alpha, beta, nodes)
		if player == game.X {
			if score > alpha {
				alpha = score
				best = move
			}
		} else {
			if score < beta {
				beta = score
				best = move
			}
		}
		if alpha >= beta {
			break
		}
	}

	if player == game.X {
		return best, alpha
	}
	return best, beta
}
