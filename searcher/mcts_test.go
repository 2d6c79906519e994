package searcher

import (
	"testing"

	"tictactoe/agent"
	"tictactoe/experiments/metrics"
	"tictactoe/game"

	"github.com/stretchr/testify/require"
)

func TestMCTSChooseMove(t *testing.T) {
	t.Run("taking an immediate win", func(t *testing.T) {
		state := mustParse(t, "XX_/OO_/___")
		mcts := NewMCTS(WithSimulations(2000), WithRand(seeded(1)))

		move, err := mcts.ChooseMove(state)

		require.NoError(t, err)
		require.Equal(t, game.Move{Row: 0, Col: 2}, move)
	})

	t.Run("blocking an immediate loss", func(t *testing.T) {
		state := mustParse(t, "XO_/_O_/__X")
		mcts := NewMCTS(WithRand(seeded(2)))

		move, err := mcts.ChooseMove(state)

		require.NoError(t, err)
		require.Equal(t, game.Move{Row: 2, Col: 1}, move)
	})

	t.Run("rejecting a won board", func(t *testing.T) {
		state := mustParse(t, "XXX/OO_/___")

		move, err := NewMCTS(WithSimulations(10)).ChooseMove(state)

		require.ErrorIs(t, err, agent.ErrGameOver)
		require.Equal(t, game.NoMove, move)
	})

	t.Run("returning no move on a full board", func(t *testing.T) {
		move, err := NewMCTS(WithSimulations(10)).ChooseMove(mustParse(t, "XOX/XOO/OXX"))

		require.ErrorIs(t, err, agent.ErrNoMoves)
		require.Equal(t, game.NoMove, move)
	})

	t.Run("repeating decisions for the same seed", func(t *testing.T) {
		state := game.NewState().MustPlay(game.Move{Row: 0, Col: 0})
		a := NewMCTS(WithSimulations(500), WithRand(seeded(9)))
		b := NewMCTS(WithSimulations(500), WithRand(seeded(9)))

		policyA, err := a.Policy(state)
		require.NoError(t, err)
		policyB, err := b.Policy(state)
		require.NoError(t, err)

		require.Equal(t, policyA, policyB)
	})

	t.Run("never losing to a random player as X", func(t *testing.T) {
		for seed := uint64(0); seed < 10; seed++ {
			mcts := NewMCTS(WithRand(seeded(seed)))
			random := agent.NewRandom(seeded(seed + 1000))

			winner := playGame(t, mcts, random)

			require.NotEqual(t, game.O, winner, "MCTS lost game %d", seed)
		}
	})
}

func TestMCTSPolicy(t *testing.T) {
	t.Run("visiting every root move once before revisiting", func(t *testing.T) {
		mcts := NewMCTS(WithSimulations(game.Cells), WithRand(seeded(3)))

		policy, err := mcts.Policy(game.NewState())

		require.NoError(t, err)
		require.Len(t, policy, game.Cells)
		for move, visits := range policy {
			require.Equal(t, 1, visits, "move %v", move)
		}
	})

	t.Run("spending every simulation below exactly one root child", func(t *testing.T) {
		mcts := NewMCTS(WithSimulations(300), WithRand(seeded(4)))

		policy, err := mcts.Policy(game.NewState())

		require.NoError(t, err)
		total := 0
		for _, visits := range policy {
			total += visits
		}
		require.Equal(t, 300, total)
	})
}

func TestMCTSMetrics(t *testing.T) {
	t.Run("collecting simulations and playouts per decision", func(t *testing.T) {
		mcts := NewMCTS(WithSimulations(200), WithRand(seeded(5)), WithMetrics(metrics.NewCollector()))

		_, err := mcts.ChooseMove(game.NewState())
		require.NoError(t, err)

		metric := mcts.LastMetric()
		require.Equal(t, 200, metric.Simulations)
		require.Equal(t, 200, metric.FullPlayouts)
		require.Greater(t, metric.Nodes, 0)
	})

	t.Run("collecting nothing by default", func(t *testing.T) {
		mcts := NewMCTS(WithSimulations(50), WithRand(seeded(5)))

		_, err := mcts.ChooseMove(game.NewState())
		require.NoError(t, err)

		require.Equal(t, metrics.SearchMetric{}, mcts.LastMetric())
	})
}
