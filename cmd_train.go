package main

import (
	"fmt"

	"tictactoe/engine"
	"tictactoe/game"
	"tictactoe/learner"

	"github.com/spf13/cobra"
)

var (
	trainEpisodes  int
	trainEvalGames int
	trainAgainst   string

	trainCmd = &cobra.Command{
		Use:   "train",
		Short: "Train a Q-learning agent by self-play and evaluate it",
		RunE:  runTrain,
	}
)

func init() {
	trainCmd.Flags().IntVar(&trainEpisodes, "episodes", 0, "training episodes (0 uses the config)")
	trainCmd.Flags().IntVar(&trainEvalGames, "eval-games", 100, "evaluation games after training")
	trainCmd.Flags().StringVar(&trainAgainst, "against", "alphabeta", "strategy to evaluate against")
}

func runTrain(cmd *cobra.Command, args []string) error {
	l := learner.New(learnerOptions(0)...)
	stats, err := l.Train(nil, trainEpisodes)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "trained %d episodes in %v: %d wins, %d losses, %d draws, %d states\n",
		stats.Episodes, stats.Duration, stats.Wins, stats.Losses, stats.Draws, l.Table().Len())

	if trainEvalGames < 1 {
		return nil
	}
	opponent, err := newAgent(trainAgainst, 1)
	if err != nil {
		return err
	}

	// The learner alternates sides, starting as X
	eval := learner.TrainingStats{}
	side := game.X
	for i := 0; i < trainEvalGames; i++ {
		match := engine.Match{X: l, O: opponent}
		if side == game.O {
			match = engine.Match{X: opponent, O: l}
		}
		winner, gameMetric, _, err := match.Run()
		if err != nil {
			return fmt.Errorf("evaluation game %d: %w", i+1, err)
		}
		eval.Episodes++
		eval.Duration += gameMetric.Duration
		switch winner {
		case game.None:
			eval.Draws++
		case side:
			eval.Wins++
		default:
			eval.Losses++
		}
		side = side.Opponent()
	}
	fmt.Fprintf(out, "against %s over %d games: %d wins, %d losses, %d draws (draw rate %.2f)\n",
		trainAgainst, eval.Episodes, eval.Wins, eval.Losses, eval.Draws, eval.DrawRate())
	return nil
}
