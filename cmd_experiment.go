package main

import (
	"fmt"
	"sort"
	"strings"

	"tictactoe/experiments"
	"tictactoe/experiments/metrics"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var (
	experimentName   string
	experimentFormat string
	experimentGames  int

	experimentCmd = &cobra.Command{
		Use:   "experiment",
		Short: "Run a predefined experiment and store its records",
		RunE:  runExperiment,
	}
)

func init() {
	names := make([]string, 0, len(experiments.Experiments))
	for name := range experiments.Experiments {
		names = append(names, name)
	}
	sort.Strings(names)

	experimentCmd.Flags().StringVar(&experimentName, "name", "strength", "experiment to run: "+strings.Join(names, ", "))
	experimentCmd.Flags().StringVar(&experimentFormat, "format", "", "csv or parquet (empty uses the config)")
	experimentCmd.Flags().IntVar(&experimentGames, "games", 0, "games per match up (0 uses the config)")
}

func runExperiment(cmd *cobra.Command, args []string) error {
	experiment, ok := experiments.Experiments[experimentName]
	if !ok {
		return fmt.Errorf("unknown experiment %q", experimentName)
	}

	opts := experiments.Options{
		Games:       cfg.Experiment.Games,
		Concurrency: cfg.Experiment.Concurrency,
		OutputDir:   cfg.Experiment.OutputDir,
		Format:      metrics.Format(cfg.Experiment.Format),
		Learner:     learnerOptions(0),
	}
	if experimentFormat != "" {
		opts.Format = metrics.Format(experimentFormat)
	}
	if experimentGames > 0 {
		opts.Games = experimentGames
	}
	reg := prometheus.NewRegistry()
	opts.Prometheus = metrics.NewPrometheusMetrics(reg)

	configs, matchUps := experiment()
	for i := range configs {
		configs[i].Seed = cfg.Seed
		if configs[i].Kind == experiments.MCTS && configs[i].Simulations == 0 {
			configs[i].Simulations = cfg.MCTS.Simulations
		}
	}
	byID := map[int]metrics.AgentConfig{}
	for _, config := range configs {
		byID[config.ID] = config
	}
	for _, matchUp := range matchUps {
		for i := range matchUp {
			matchUp[i] = byID[matchUp[i].ID]
		}
	}

	report, err := experiments.Run(cmd.Context(), experimentName, configs, matchUps, opts)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	for _, tally := range report.Tallies {
		fmt.Fprintf(out, "agent %d vs agent %d: %d-%d, %d draws\n", tally.Agent1, tally.Agent2, tally.Wins1, tally.Wins2, tally.Draws)
	}
	fmt.Fprintf(out, "records stored in %s\n", report.Dir)

	families, err := reg.Gather()
	if err != nil {
		return fmt.Errorf("gather metrics: %w", err)
	}
	for _, family := range families {
		for _, m := range family.GetMetric() {
			labels := make([]string, 0, len(m.GetLabel()))
			for _, pair := range m.GetLabel() {
				labels = append(labels, pair.GetName()+"="+pair.GetValue())
			}
			value := m.GetCounter().GetValue()
			if m.GetHistogram() != nil {
				value = float64(m.GetHistogram().GetSampleCount())
			}
			log.Debug().Str("labels", strings.Join(labels, ",")).Float64("value", value).Msg(family.GetName())
		}
	}
	return nil
}
