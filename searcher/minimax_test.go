package searcher

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

// playGame plays a full game from the initial state and returns the winner.
func playGame(t *testing.T, x, o agent.Agent) game.Player {
	t.Helper()
	state := game.NewState()
	for !state.IsTerminal() {
		player := x
		if state.Player() == game.O {
			player = o
		}
		move, err := player.ChooseMove(state)
		require.NoError(t, err)
		state, err = state.Play(move)
		require.NoError(t, err)
	}
	return state.Winner()
}

// reachableStates returns every distinct non-terminal state reachable from
// the initial state with at least one piece on the board.
func reachableStates() []game.State {
	seen := map[game.StateHash]bool{}
	var states []game.State
	var walk func(state game.State)
	walk = func(state game.State) {
		if seen[state.Hash()] || state.IsTerminal() {
			return
		}
		seen[state.Hash()] = true
		if len(state.EmptyCells()) < game.Cells {
			states = append(states, state)
		}
		for _, move := range state.EmptyCells() {
			walk(state.MustPlay(move))
		}
	}
	walk(game.NewState())
	return states
}

func TestMinimaxChooseMove(t *testing.T) {
	searchers := map[string]func(seed uint64) agent.Agent{
		"minimax":    func(seed uint64) agent.Agent { return NewMinimax(WithRand(seeded(seed))) },
		"alpha-beta": func(seed uint64) agent.Agent { return NewAlphaBeta(WithRand(seeded(seed))) },
	}

	for name, newSearcher := range searchers {
		t.Run(name+" picks the seeded random cell on an empty board", func(t *testing.T) {
			chosen := map[game.Move]bool{}
			for seed := uint64(0); seed < 30; seed++ {
				move, err := newSearcher(seed).ChooseMove(game.NewState())
				require.NoError(t, err)

				expected := game.NewState().EmptyCells()[seeded(seed).Intn(game.Cells)]
				require.Equal(t, expected, move, "First move should come from the injected random source")
				chosen[move] = true
			}
			require.Greater(t, len(chosen), 1, "First moves should vary across seeds")
		})

		t.Run(name+" takes an immediate win", func(t *testing.T) {
			state := mustParse(t, "XX_/OO_/___")

			move, err := newSearcher(1).ChooseMove(state)

			require.NoError(t, err)
			require.Equal(t, game.Move{Row: 0, Col: 2}, move)
		})

		t.Run(name+" blocks an immediate loss", func(t *testing.T) {
			state := mustParse(t, "XO_/_O_/__X")

			move, err := newSearcher(1).ChooseMove(state)

			require.NoError(t, err)
			require.Equal(t, game.Move{Row: 2, Col: 1}, move)
		})

		t.Run(name+" rejects a won board", func(t *testing.T) {
			board := game.Board{
				{game.X, game.O, game.X},
				{game.O, game.X, game.O},
				{game.None, game.None, game.X},
			}
			state := game.NewStateFrom(board, game.O)
			require.True(t, state.Wins(game.X))
			require.True(t, state.IsTerminal())

			move, err := newSearcher(1).ChooseMove(state)

			require.ErrorIs(t, err, agent.ErrGameOver)
			require.Equal(t, game.NoMove, move)
		})

		t.Run(name+" returns no move on a full board", func(t *testing.T) {
			move, err := newSearcher(1).ChooseMove(mustParse(t, "XOX/XOO/OXX"))

			require.ErrorIs(t, err, agent.ErrNoMoves)
			require.Equal(t, game.NoMove, move)
		})

		t.Run(name+" draws against itself", func(t *testing.T) {
			for seed := uint64(0); seed < 3; seed++ {
				winner := playGame(t, newSearcher(seed), newSearcher(seed+100))
				require.Equal(t, game.None, winner, "Optimal play should end in a draw")
			}
		})
	}
}

func TestMinimaxSearch(t *testing.T) {
	t.Run("scoring a forced win for X", func(t *testing.T) {
		// X to move with an open top row
		state := mustParse(t, "X_X/_O_/O__")

		result := NewMinimax().Search(state)

		require.Equal(t, WinScore, result.Score)
		require.Equal(t, game.Move{Row: 0, Col: 1}, result.Move)
	})

	t.Run("scoring a forced win for O", func(t *testing.T) {
		state := game.NewStateFrom(mustParse(t, "XX_/OO_/X__").Board(), game.O)

		result := NewMinimax().Search(state)

		require.Equal(t, LossScore, result.Score)
		require.Equal(t, game.Move{Row: 1, Col: 2}, result.Move)
	})

	t.Run("scoring the opening as a draw", func(t *testing.T) {
		state := game.NewState().MustPlay(game.Move{Row: 1, Col: 1})

		require.Equal(t, DrawScore, NewMinimax().Search(state).Score)
		require.Equal(t, DrawScore, NewAlphaBeta().Search(state).Score)
	})
}

func TestAlphaBetaMatchesMinimax(t *testing.T) {
	t.Run("choosing the same move and score on every reachable state", func(t *testing.T) {
		minimax := NewMinimax(WithRand(seeded(1)))
		alphaBeta := NewAlphaBeta(WithRand(seeded(1)))

		for _, state := range reachableStates() {
			want := minimax.Search(state)
			got := alphaBeta.Search(state)

			require.Equal(t, want.Move, got.Move, "state %v", state)
			require.Equal(t, want.Score, got.Score, "state %v", state)
			require.LessOrEqual(t, got.Nodes, want.Nodes, "Pruning should never visit more nodes")
		}
	})

	t.Run("choosing the same moves for the same seed", func(t *testing.T) {
		minimax := NewMinimax(WithRand(seeded(42)))
		alphaBeta := NewAlphaBeta(WithRand(seeded(42)))

		for i := 0; i < 5; i++ {
			want, err := minimax.ChooseMove(game.NewState())
			require.NoError(t, err)
			got, err := alphaBeta.ChooseMove(game.NewState())
			require.NoError(t, err)
			require.Equal(t, want, got)
		}
	})

	t.Run("pruning the tree after the first move", func(t *testing.T) {
		state := game.NewState().MustPlay(game.Move{Row: 0, Col: 0})

		want := NewMinimax().Search(state)
		got := NewAlphaBeta().Search(state)

		require.Less(t, got.Nodes, want.Nodes)
	})
}
