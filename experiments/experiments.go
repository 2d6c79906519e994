package experiments

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"tictactoe/agent"
	"tictactoe/engine"
	"tictactoe/experiments/metrics"
	"tictactoe/game"
	"tictactoe/learner"
	"tictactoe/searcher"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"golang.org/x/exp/rand"
	"golang.org/x/sync/errgroup"
)

const (
	Minimax   = "minimax"
	AlphaBeta = "alphabeta"
	MCTS      = "mcts"
	QLearning = "qlearning"
	Random    = "random"
)

var validate = validator.New()

type Options struct {
	Games       int // Per match up
	Concurrency int
	OutputDir   string
	Format      metrics.Format
	// Learner options applied before the per-agent episodes and seed
	Learner []learner.Option
	// Prometheus exports search and game counters when set
	Prometheus *metrics.PrometheusMetrics
}

// Tally counts the outcomes of one match up.
type Tally struct {
	Agent1 int
	Agent2 int
	Wins1  int
	Wins2  int
	Draws  int
}

type Report struct {
	RunID   string
	Dir     string
	Tallies []Tally
}

// Experiment returns the agents of an experiment and the match ups to play
// between them.
type Experiment func() (configs []metrics.AgentConfig, matchUps [][]metrics.AgentConfig)

var Experiments = map[string]Experiment{
	"strength":    strength,
	"mcts_budget": mctsBudget,
}

// strength pairs every strategy against the optimal alpha-beta baseline.
func strength() ([]metrics.AgentConfig, [][]metrics.AgentConfig) {
	baseline := metrics.AgentConfig{ID: 0, Kind: AlphaBeta}
	configs := []metrics.AgentConfig{
		baseline,
		{ID: 1, Kind: Random},
		{ID: 2, Kind: Minimax},
		{ID: 3, Kind: MCTS},
		{ID: 4, Kind: QLearning},
	}
	matchUps := [][]metrics.AgentConfig{}
	for _, config := range configs[1:] {
		matchUps = append(matchUps, []metrics.AgentConfig{baseline, config})
	}
	return configs, matchUps
}

// mctsBudget measures MCTS strength as the simulation budget grows.
func mctsBudget() ([]metrics.AgentConfig, [][]metrics.AgentConfig) {
	baseline := metrics.AgentConfig{ID: 0, Kind: AlphaBeta}
	configs := []metrics.AgentConfig{
		baseline,
		{ID: 1, Kind: MCTS, Simulations: 50},
		{ID: 2, Kind: MCTS, Simulations: 200},
		{ID: 3, Kind: MCTS, Simulations: 1000},
		{ID: 4, Kind: MCTS, Simulations: 5000},
	}
	matchUps := [][]metrics.AgentConfig{}
	for _, config := range configs[1:] {
		matchUps = append(matchUps, []metrics.AgentConfig{baseline, config})
	}
	return configs, matchUps
}

type result struct {
	record   metrics.GameRecord
	moves    []metrics.MoveRecord
	winner   game.Player
	matchUp  int
	firstIsX bool // The first agent of the match up played X
}

// Run plays opts.Games games per match up, alternating which agent plays X,
// and stores the agent configs, game records and move records under
// OutputDir/name/<run id>.
func Run(ctx context.Context, name string, configs []metrics.AgentConfig, matchUps [][]metrics.AgentConfig, opts Options) (Report, error) {
	if opts.Games < 1 {
		return Report{}, fmt.Errorf("games per match up must be positive, got %d", opts.Games)
	}
	for _, config := range configs {
		if err := validate.Struct(config); err != nil {
			return Report{}, fmt.Errorf("invalid agent config %d: %w", config.ID, err)
		}
	}
	for i, matchUp := range matchUps {
		if len(matchUp) != 2 {
			return Report{}, fmt.Errorf("match up %d has %d agents, want 2", i+1, len(matchUp))
		}
		for _, config := range matchUp {
			if err := validate.Struct(config); err != nil {
				return Report{}, fmt.Errorf("invalid agent config %d in match up %d: %w", config.ID, i+1, err)
			}
		}
	}

	runID := uuid.NewString()
	log.Info().Str("run", runID).Msgf("starting %s experiment...", name)

	learners, err := trainLearners(configs, opts)
	if err != nil {
		return Report{}, err
	}

	results := make([]result, len(matchUps)*opts.Games)
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(max(opts.Concurrency, 1))
	for mi, matchUp := range matchUps {
		for i := 0; i < opts.Games; i++ {
			id := mi*opts.Games + i + 1
			x, o := matchUp[0], matchUp[1]
			firstIsX := i%2 == 0
			if !firstIsX {
				x, o = o, x
			}
			g.Go(func() error {
				if err := ctx.Err(); err != nil {
					return err
				}
				r, err := runGame(id, x, o, learners, opts)
				if err != nil {
					return fmt.Errorf("match up %d game %d: %w", mi+1, i+1, err)
				}
				r.matchUp = mi
				r.firstIsX = firstIsX
				results[id-1] = r
				log.Info().Msgf("completed matchup %d of %d game %d of %d with winner: %v", mi+1, len(matchUps), i+1, opts.Games, r.winner)
				return nil
			})
		}
	}
	if err := g.Wait(); err != nil {
		return Report{}, err
	}

	log.Info().Msgf("completed %s experiment", name)

	report := Report{RunID: runID, Dir: filepath.Join(opts.OutputDir, name, runID)}
	report.Tallies = tally(matchUps, results)
	if err := store(report.Dir, opts.Format, configs, results); err != nil {
		return report, err
	}
	return report, nil
}

// trainLearners trains one Q-learning agent per config. Trained agents only
// read their table, so games may share them.
func trainLearners(configs []metrics.AgentConfig, opts Options) (map[int]*learner.Learner, error) {
	learners := map[int]*learner.Learner{}
	for _, config := range configs {
		if config.Kind != QLearning {
			continue
		}
		options := append([]learner.Option{}, opts.Learner...)
		options = append(options, learner.WithRand(newRand(config.Seed, 0)))
		l := learner.New(options...)
		if _, err := l.Train(nil, config.Episodes); err != nil {
			return nil, fmt.Errorf("train agent %d: %w", config.ID, err)
		}
		learners[config.ID] = l
	}
	return learners, nil
}

func runGame(id int, x, o metrics.AgentConfig, learners map[int]*learner.Learner, opts Options) (result, error) {
	agentX, err := newAgent(x, id, learners, opts.Prometheus)
	if err != nil {
		return result{}, err
	}
	agentO, err := newAgent(o, id, learners, opts.Prometheus)
	if err != nil {
		return result{}, err
	}

	match := engine.Match{X: agentX, O: agentO}
	winner, gameMetric, moveMetrics, err := match.Run()
	if err != nil {
		return result{}, err
	}

	if opts.Prometheus != nil {
		opts.Prometheus.RecordGame(label(x), outcome(winner, game.X))
		opts.Prometheus.RecordGame(label(o), outcome(winner, game.O))
	}

	r := result{
		record: metrics.GameRecord{
			ID:         id,
			AgentX:     x.ID,
			AgentO:     o.ID,
			GameMetric: gameMetric,
		},
		winner: winner,
	}
	for _, mm := range moveMetrics {
		r.moves = append(r.moves, metrics.MoveRecord{Game: id, MoveMetric: mm})
	}
	return r, nil
}

// newAgent builds a fresh agent for one game. Searchers keep per-decision
// state, so they are never shared between games.
func newAgent(config metrics.AgentConfig, gameID int, learners map[int]*learner.Learner, prom *metrics.PrometheusMetrics) (agent.Agent, error) {
	rng := newRand(config.Seed, gameID)
	collector := metrics.NewCollector()
	if prom != nil {
		collector = metrics.NewPrometheusCollector(prom, label(config))
	}
	options := []searcher.Option{searcher.WithRand(rng), searcher.WithMetrics(collector)}

	switch config.Kind {
	case Minimax:
		return searcher.NewMinimax(options...), nil
	case AlphaBeta:
		return searcher.NewAlphaBeta(options...), nil
	case MCTS:
		if config.Simulations > 0 {
			options = append(options, searcher.WithSimulations(config.Simulations))
		}
		if config.Exploration > 0 {
			options = append(options, searcher.WithExploration(config.Exploration))
		}
		return searcher.NewMCTS(options...), nil
	case QLearning:
		l, ok := learners[config.ID]
		if !ok {
			return nil, fmt.Errorf("agent %d: no trained learner", config.ID)
		}
		return l, nil
	case Random:
		return agent.NewRandom(rng), nil
	}
	return nil, fmt.Errorf("agent %d: unknown kind %q", config.ID, config.Kind)
}

// newRand derives a per-game source from a config seed. A zero seed draws
// from the clock.
func newRand(seed uint64, gameID int) *rand.Rand {
	if seed == 0 {
		return rand.New(rand.NewSource(uint64(time.Now().UnixNano())))
	}
	return rand.New(rand.NewSource(seed + uint64(gameID)))
}

func label(config metrics.AgentConfig) string {
	return fmt.Sprintf("%d:%s", config.ID, config.Kind)
}

func outcome(winner, side game.Player) string {
	switch winner {
	case game.None:
		return "draw"
	case side:
		return "win"
	}
	return "loss"
}

func tally(matchUps [][]metrics.AgentConfig, results []result) []Tally {
	tallies := make([]Tally, len(matchUps))
	for i, matchUp := range matchUps {
		tallies[i] = Tally{Agent1: matchUp[0].ID, Agent2: matchUp[1].ID}
	}
	for _, r := range results {
		t := &tallies[r.matchUp]
		switch {
		case r.winner == game.None:
			t.Draws++
		case (r.winner == game.X) == r.firstIsX:
			t.Wins1++
		default:
			t.Wins2++
		}
	}
	return tallies
}

func store(dir string, format metrics.Format, configs []metrics.AgentConfig, results []result) error {
	writer, err := metrics.NewWriter(dir, format)
	if err != nil {
		return fmt.Errorf("failed to create experiment writer: %w", err)
	}

	err = writer.WriteAgentConfigs(configs)
	if err != nil {
		return fmt.Errorf("failed to store agent configs: %w", err)
	}
	log.Info().Msg("stored agent configs")

	gameRecords := make([]metrics.GameRecord, 0, len(results))
	moveRecords := []metrics.MoveRecord{}
	for _, r := range results {
		gameRecords = append(gameRecords, r.record)
		moveRecords = append(moveRecords, r.moves...)
	}

	err = writer.WriteGameRecords(gameRecords)
	if err != nil {
		return fmt.Errorf("failed to write game records: %w", err)
	}
	log.Info().Msg("stored game records")

	err = writer.WriteMoveRecords(moveRecords)
	if err != nil {
		return fmt.Errorf("failed to write move records: %w", err)
	}
	log.Info().Msg("stored move records")
	return nil
}
