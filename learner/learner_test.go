package learner

import (
	"testing"

	"tictactoe/agent"
	"tictactoe/game"

	"github.com/stretchr/testify/require"
	"golang.org/x/exp/rand"
)

func seeded(seed uint64) *rand.Rand {
	return rand.New(rand.NewSource(seed))
}

func mustParse(t *testing.T, s string) game.State {
	t.Helper()
	state, err := game.ParseState(s)
	require.NoError(t, err)
	return state
}

func TestChooseMove(t *testing.T) {
	t.Run("falling back to the first empty cell on an unseen state", func(t *testing.T) {
		l := New(WithRand(seeded(1)))
		state := mustParse(t, "XO_/___/___")

		move, err := l.ChooseMove(state)

		require.NoError(t, err)
		require.Equal(t, game.Move{Row: 0, Col: 2}, move)
		require.Zero(t, l.Table().Len(), "Inference should not create table entries")
	})

	t.Run("choosing the empty cell with the highest value", func(t *testing.T) {
		l := New(WithRand(seeded(1)))
		state := mustParse(t, "XO_/___/___")
		key := KeyOf(state.Board())
		l.Table().Update(key, 4, 1.0, KeyOf(game.Board{}), 1.0, 0)
		l.Table().Update(key, 7, 0.5, KeyOf(game.Board{}), 1.0, 0)

		move, err := l.ChooseMove(state)

		require.NoError(t, err)
		require.Equal(t, game.Move{Row: 1, Col: 1}, move)
	})

	t.Run("ignoring values of occupied cells", func(t *testing.T) {
		l := New(WithRand(seeded(1)))
		state := mustParse(t, "XO_/___/___")
		key := KeyOf(state.Board())
		l.Table().Update(key, 0, 1.0, KeyOf(game.Board{}), 1.0, 0)
		l.Table().Update(key, 2, -0.5, KeyOf(game.Board{}), 1.0, 0)

		move, err := l.ChooseMove(state)

		require.NoError(t, err)
		require.Equal(t, game.Move{Row: 1, Col: 0}, move, "First unpenalized empty cell should win")
	})

	t.Run("never exploring during inference", func(t *testing.T) {
		l := New(WithEpsilon(1), WithRand(seeded(1)))
		state := game.NewState()

		for i := 0; i < 20; i++ {
			move, err := l.ChooseMove(state)
			require.NoError(t, err)
			require.Equal(t, game.Move{Row: 0, Col: 0}, move)
		}
	})

	t.Run("rejecting a won board", func(t *testing.T) {
		move, err := New().ChooseMove(mustParse(t, "XXX/OO_/___"))

		require.ErrorIs(t, err, agent.ErrGameOver)
		require.Equal(t, game.NoMove, move)
	})

	t.Run("returning no move on a full board", func(t *testing.T) {
		move, err := New().ChooseMove(mustParse(t, "XOX/XOO/OXX"))

		require.ErrorIs(t, err, agent.ErrNoMoves)
		require.Equal(t, game.NoMove, move)
	})
}

func TestChooseAction(t *testing.T) {
	t.Run("exploring only legal moves", func(t *testing.T) {
		l := New(WithRand(seeded(3)))
		state := mustParse(t, "XOX/O__/___")

		seen := map[game.Move]bool{}
		for i := 0; i < 100; i++ {
			move := l.chooseAction(state, 1)
			require.Contains(t, state.EmptyCells(), move)
			seen[move] = true
		}
		require.Greater(t, len(seen), 1, "Full exploration should vary moves")
	})
}

func TestExplore(t *testing.T) {
	t.Run("recording the state, move and next state", func(t *testing.T) {
		l := New(WithEpsilon(0), WithRand(seeded(1)))
		state := game.NewState()

		move, next, err := l.explore(state)

		require.NoError(t, err)
		require.Equal(t, History{{
			State:  KeyOf(state.Board()),
			Action: move,
			Next:   KeyOf(next.Board()),
		}}, l.History())
		require.Equal(t, game.X, next.Board().At(move))
	})
}

func TestLearn(t *testing.T) {
	t.Run("applying the final reward to every transition", func(t *testing.T) {
		l := New(WithAlpha(0.5), WithGamma(0.2), WithRand(seeded(1)))
		s0, s1 := StateKey("000000000"), StateKey("100000000")
		s2, s3 := StateKey("120000000"), StateKey("121000000")
		l.history.Record(s0, game.Move{Row: 0, Col: 0}, s1)
		l.history.Record(s2, game.Move{Row: 0, Col: 2}, s3)

		l.learn(LossReward)

		require.InDelta(t, -0.5, l.Table().Value(s0, 0), 1e-9)
		require.InDelta(t, -0.5, l.Table().Value(s2, 2), 1e-9)
	})
}

func TestHistory(t *testing.T) {
	t.Run("clearing recorded transitions", func(t *testing.T) {
		var h History
		h.Record("000000000", game.Move{Row: 1, Col: 1}, "000010000")
		require.Len(t, h, 1)

		h.Reset()

		require.Empty(t, h)
	})
}
