package main

import (
	"fmt"
	"strings"

	"tictactoe/engine"
	"tictactoe/experiments/metrics"
	"tictactoe/game"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var (
	playX     string
	playO     string
	playGames int

	playCmd = &cobra.Command{
		Use:   "play",
		Short: "Play games between two strategies and print the results",
		RunE:  runPlay,
	}
)

func init() {
	playCmd.Flags().StringVar(&playX, "x", "mcts", "strategy playing X")
	playCmd.Flags().StringVar(&playO, "o", "alphabeta", "strategy playing O")
	playCmd.Flags().IntVar(&playGames, "games", 1, "number of games")
}

func runPlay(cmd *cobra.Command, args []string) error {
	if playGames < 1 {
		return fmt.Errorf("--games must be positive, got %d", playGames)
	}
	x, err := newAgent(playX, 0)
	if err != nil {
		return err
	}
	o, err := newAgent(playO, 1)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	wins := map[game.Player]int{}
	for i := 1; i <= playGames; i++ {
		match := engine.Match{X: x, O: o}
		winner, gameMetric, moveMetrics, err := match.Run()
		if err != nil {
			return fmt.Errorf("game %d: %w", i, err)
		}
		wins[winner]++

		log.Info().Msgf("completed game %d of %d with winner: %v", i, playGames, winner)
		fmt.Fprintf(out, "game %d: %s after %d moves in %v\n%s\n", i, describe(winner), gameMetric.TotalMoves, gameMetric.Duration, render(moveMetrics))
	}
	fmt.Fprintf(out, "%s (X) %d, %s (O) %d, draws %d\n", playX, wins[game.X], playO, wins[game.O], wins[game.None])
	return nil
}

func describe(winner game.Player) string {
	if winner == game.None {
		return "draw"
	}
	return winner.String() + " wins"
}

// render replays the recorded moves and draws the final board.
func render(moveMetrics []metrics.MoveMetric) string {
	state := game.NewState()
	for _, mm := range moveMetrics {
		state = state.MustPlay(game.MoveAt(mm.Move))
	}
	return strings.ReplaceAll(state.Board().String(), "/", "\n")
}
