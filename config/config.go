package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"

	"tictactoe/meta"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

var validate = validator.New()

// Config holds the settings of every strategy and of the experiment harness.
type Config struct {
	MCTS       MCTSConfig       `json:"mcts" yaml:"mcts"`
	QLearning  QLearningConfig  `json:"qlearning" yaml:"qlearning"`
	Experiment ExperimentConfig `json:"experiment" yaml:"experiment"`
	// Seed of every random source. Zero seeds from the clock.
	Seed     uint64 `json:"seed" yaml:"seed"`
	LogLevel string `json:"log_level" yaml:"log_level" validate:"oneof=trace debug info warn error disabled"`
}

type MCTSConfig struct {
	Simulations int     `json:"simulations" yaml:"simulations" validate:"gte=1"`
	Exploration float64 `json:"exploration" yaml:"exploration" validate:"gte=0"`
}

type QLearningConfig struct {
	Alpha          float64 `json:"alpha" yaml:"alpha" validate:"gt=0,lte=1"`
	Gamma          float64 `json:"gamma" yaml:"gamma" validate:"gte=0,lte=1"`
	Epsilon        float64 `json:"epsilon" yaml:"epsilon" validate:"gte=0,lte=1"`
	Episodes       int     `json:"episodes" yaml:"episodes" validate:"gte=1"`
	ReportInterval int     `json:"report_interval" yaml:"report_interval" validate:"gte=1"`
}

type ExperimentConfig struct {
	Games       int    `json:"games" yaml:"games" validate:"gte=1"`
	Concurrency int    `json:"concurrency" yaml:"concurrency" validate:"gte=1"`
	OutputDir   string `json:"output_dir" yaml:"output_dir" validate:"required"`
	Format      string `json:"format" yaml:"format" validate:"oneof=csv parquet"`
}

func Default() Config {
	return Config{
		MCTS: MCTSConfig{
			Simulations: meta.MCTSSimulations,
			Exploration: meta.MCTSExploration,
		},
		QLearning: QLearningConfig{
			Alpha:          meta.QAlpha,
			Gamma:          meta.QGamma,
			Epsilon:        meta.QEpsilon,
			Episodes:       meta.QEpisodes,
			ReportInterval: meta.QReportInterval,
		},
		Experiment: ExperimentConfig{
			Games:       meta.EXPERIMENT_GAMES,
			Concurrency: 1,
			OutputDir:   "experiments",
			Format:      "csv",
		},
		LogLevel: "info",
	}
}

// Load merges defaults, the file at path and environment overrides, in that
// order of priority from lowest. An empty path or a missing file leaves the
// defaults in place.
func Load(path string) (Config, error) {
	config := Default()

	if path != "" {
		if err := loadFile(path, &config); err != nil {
			return config, fmt.Errorf("load config file: %w", err)
		}
	}

	if err := loadEnv(&config); err != nil {
		return config, fmt.Errorf("load config env: %w", err)
	}

	if err := config.Validate(); err != nil {
		return config, fmt.Errorf("invalid config: %w", err)
	}
	return config, nil
}

func (c Config) Validate() error {
	return validate.Struct(c)
}

func loadFile(path string, config *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}

	// Try YAML first, then JSON
	if err := yaml.Unmarshal(data, config); err != nil {
		if jsonErr := json.Unmarshal(data, config); jsonErr != nil {
			return fmt.Errorf("parse config (tried YAML and JSON): YAML error: %v, JSON error: %w", err, jsonErr)
		}
	}
	return nil
}

func loadEnv(config *Config) error {
	if v := os.Getenv("TTT_SEED"); v != "" {
		seed, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			return fmt.Errorf("TTT_SEED: %w", err)
		}
		config.Seed = seed
	}
	if err := envInt("TTT_MCTS_SIMULATIONS", &config.MCTS.Simulations); err != nil {
		return err
	}
	if err := envInt("TTT_Q_EPISODES", &config.QLearning.Episodes); err != nil {
		return err
	}
	if err := envFloat("TTT_Q_ALPHA", &config.QLearning.Alpha); err != nil {
		return err
	}
	if err := envFloat("TTT_Q_GAMMA", &config.QLearning.Gamma); err != nil {
		return err
	}
	if err := envFloat("TTT_Q_EPSILON", &config.QLearning.Epsilon); err != nil {
		return err
	}
	if v := os.Getenv("TTT_LOG_LEVEL"); v != "" {
		config.LogLevel = v
	}
	return nil
}

func envInt(name string, dst *int) error {
	v := os.Getenv(name)
	if v == "" {
		return nil
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return fmt.Errorf("%s: %w", name, err)
	}
	*dst = i
	return nil
}

func envFloat(name string, dst *float64) error {
	v := os.Getenv(name)
	if v == "" {
		return nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return fmt.Errorf("%s: %w", name, err)
	}
	*dst = f
	return nil
}
