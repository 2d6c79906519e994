package main

import (
	"fmt"
	"os"
	"time"

	"tictactoe/config"

	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var (
	configPath string
	seedFlag   uint64
	logLevel   string

	// cfg is loaded before any subcommand runs
	cfg config.Config

	rootCmd = &cobra.Command{
		Use:               "tictactoe",
		Short:             "Play, train and compare tic-tac-toe strategies",
		SilenceUsage:      true,
		PersistentPreRunE: setup,
	}
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "path to a YAML or JSON config file")
	rootCmd.PersistentFlags().Uint64Var(&seedFlag, "seed", 0, "seed of every random source (0 seeds from the clock)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "trace, debug, info, warn, error or disabled")

	rootCmd.AddCommand(playCmd, trainCmd, experimentCmd)
}

func setup(cmd *cobra.Command, args []string) error {
	loaded, err := config.Load(configPath)
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("seed") {
		loaded.Seed = seedFlag
	}
	if logLevel != "" {
		loaded.LogLevel = logLevel
	}
	if err := loaded.Validate(); err != nil {
		return fmt.Errorf("invalid flags: %w", err)
	}

	level, err := zerolog.ParseLevel(loaded.LogLevel)
	if err != nil {
		return err
	}
	zerolog.SetGlobalLevel(level)
	if isatty.IsTerminal(os.Stderr.Fd()) || isatty.IsCygwinTerminal(os.Stderr.Fd()) {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})
	}

	cfg = loaded
	log.Debug().Msgf("loaded config %+v", cfg)
	return nil
}
