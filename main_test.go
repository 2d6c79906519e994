package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func execute(t *testing.T, args ...string) string {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs(append(args, "--log-level", "disabled"))
	require.NoError(t, rootCmd.Execute())
	return out.String()
}

func TestCLI(t *testing.T) {
	t.Run("playing games between two strategies", func(t *testing.T) {
		out := execute(t, "play", "--x", "random", "--o", "alphabeta", "--games", "2", "--seed", "1")

		require.Contains(t, out, "game 1:")
		require.Contains(t, out, "game 2:")
		require.Contains(t, out, "random (X) 0, alphabeta (O)")
	})

	t.Run("training and evaluating a learner", func(t *testing.T) {
		out := execute(t, "train", "--episodes", "300", "--eval-games", "4", "--against", "random", "--seed", "2")

		require.Contains(t, out, "trained 300 episodes")
		require.Contains(t, out, "against random over 4 games")
	})

	t.Run("running an experiment from a config file", func(t *testing.T) {
		dir := t.TempDir()
		path := filepath.Join(dir, "config.yaml")
		content := "mcts:\n  simulations: 100\nqlearning:\n  episodes: 100\nexperiment:\n  games: 2\n  concurrency: 2\n  output_dir: " + dir + "\n"
		require.NoError(t, os.WriteFile(path, []byte(content), 0644))

		out := execute(t, "experiment", "--config", path, "--name", "strength", "--format", "parquet", "--seed", "3")

		require.Contains(t, out, "agent 0 vs agent 1")
		require.Contains(t, out, "records stored in "+filepath.Join(dir, "strength"))
	})
}
