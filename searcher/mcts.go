package searcher

import (
	"tictactoe/agent"
	"tictactoe/experiments/metrics"
	"tictactoe/game"

	"github.com/rs/zerolog/log"
	"golang.org/x/exp/rand"
)

// MCTS is a Monte Carlo tree search with UCB1 selection and uniformly random
// rollouts. A fresh tree is built for every decision.
type MCTS struct {
	settings
	last metrics.SearchMetric
}

func NewMCTS(options ...Option) *MCTS {
	return &MCTS{settings: newSettings(options)}
}

// ChooseMove runs the simulation budget and returns the move of the most
// visited root child.
func (m *MCTS) ChooseMove(state game.State) (game.Move, error) {
	if _, err := agent.CheckState(state); err != nil {
		return game.NoMove, err
	}

	root := m.buildTree(state)
	best := root.bestChild()

	log.Debug().Msgf("mcts chose %v with %d of %d visits", best.move, best.visits, root.visits)
	return best.move, nil
}

// Policy returns the visit count of every root move after a full search.
func (m *MCTS) Policy(state game.State) (map[game.Move]int, error) {
	if _, err := agent.CheckState(state); err != nil {
		return nil, err
	}

	root := m.buildTree(state)
	policy := make(map[game.Move]int, len(root.children))
	for _, child := range root.children {
		policy[child.move] = child.visits
	}
	return policy, nil
}

func (m *MCTS) LastMetric() metrics.SearchMetric {
	return m.last
}

func (m *MCTS) String() string {
	return "MCTS"
}

func (m *MCTS) buildTree(state game.State) *node {
	m.metrics.Start()
	root := newRoot(state)
	for i := 0; i < m.simulations; i++ {
		m.simulate(root)
		m.metrics.AddSimulation()
	}
	m.last = m.metrics.Complete()
	return root
}

func (m *MCTS) simulate(root *node) {
	leaf := root.selectLeaf(m.cSquared)
	chosen := leaf
	if !leaf.state.IsTerminal() {
		chosen = leaf.expand(m.rng)
		m.metrics.AddNodes(len(leaf.children))
	}
	winner := rollout(chosen.state, m.rng)
	m.metrics.AddFullPlayout()
	chosen.backup(winner)
}

// rollout plays uniformly random moves from state until the game ends and
// returns the winner, or None on a draw. state is a value, so the tree is
// never touched.
func rollout(state game.State, rng *rand.Rand) game.Player {
	for !state.IsTerminal() {
		moves := state.EmptyCells()
		state = state.MustPlay(moves[rng.Intn(len(moves))])
	}
	return state.Winner()
}
