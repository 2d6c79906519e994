package metrics

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/parquet-go/parquet-go"
	"github.com/parquet-go/parquet-go/compress/zstd"
)

// AgentConfig describes one agent taking part in an experiment.
type AgentConfig struct {
	ID          int     `yaml:"id" json:"id" validate:"gte=0"`
	Kind        string  `yaml:"kind" json:"kind" validate:"oneof=minimax alphabeta mcts qlearning random"`
	Simulations int     `yaml:"simulations" json:"simulations" validate:"gte=0"`
	Exploration float64 `yaml:"exploration" json:"exploration" validate:"gte=0"`
	Episodes    int     `yaml:"episodes" json:"episodes" validate:"gte=0"`
	Seed        uint64  `yaml:"seed" json:"seed"`
}

type GameRecord struct {
	ID     int
	AgentX int // AgentConfig.ID
	AgentO int // AgentConfig.ID
	GameMetric
}

type MoveRecord struct {
	Game int // GameRecord.ID
	MoveMetric
}

type Format string

const (
	CSV     Format = "csv"
	Parquet Format = "parquet"
)

type Writer struct {
	baseDir string
	format  Format
}

// NewWriter creates baseDir and returns a writer storing records there in
// the given format.
func NewWriter(baseDir string, format Format) (*Writer, error) {
	if format != CSV && format != Parquet {
		return nil, fmt.Errorf("unsupported format %q", format)
	}
	err := os.MkdirAll(baseDir, 0755)
	if err != nil {
		return nil, fmt.Errorf("failed to create directory: %w", err)
	}

	return &Writer{
		baseDir: baseDir,
		format:  format,
	}, nil
}

func (w *Writer) Dir() string {
	return w.baseDir
}

func (w *Writer) WriteAgentConfigs(configs []AgentConfig) error {
	if w.format == Parquet {
		rows := make([]agentConfigRow, len(configs))
		for i, config := range configs {
			rows[i] = agentConfigRow{
				ID:          int32(config.ID),
				Kind:        config.Kind,
				Simulations: int32(config.Simulations),
				Exploration: config.Exploration,
				Episodes:    int32(config.Episodes),
				Seed:        int64(config.Seed),
			}
		}
		return writeParquet(w.path("agent_configs"), rows)
	}

	header := []string{"id", "kind", "simulations", "exploration", "episodes", "seed"}
	rows := make([][]string, len(configs))
	for i, config := range configs {
		rows[i] = []string{
			strconv.Itoa(config.ID),
			config.Kind,
			strconv.Itoa(config.Simulations),
			strconv.FormatFloat(config.Exploration, 'g', -1, 64),
			strconv.Itoa(config.Episodes),
			strconv.FormatUint(config.Seed, 10),
		}
	}
	return writeCSV(w.path("agent_configs"), header, rows)
}

func (w *Writer) WriteGameRecords(records []GameRecord) error {
	if w.format == Parquet {
		rows := make([]gameRow, len(records))
		for i, record := range records {
			rows[i] = gameRow{
				ID:             int32(record.ID),
				AgentX:         int32(record.AgentX),
				AgentO:         int32(record.AgentO),
				StartingPlayer: record.StartingPlayer,
				Winner:         record.Winner,
				StartNs:        record.StartTime.UnixNano(),
				EndNs:          record.EndTime.UnixNano(),
				DurationNs:     int64(record.Duration),
				TotalMoves:     int32(record.TotalMoves),
			}
		}
		return writeParquet(w.path("game_records"), rows)
	}

	header := []string{"id", "agent_x", "agent_o", "starting_player", "winner", "start_time", "end_time", "duration", "total_moves"}
	rows := make([][]string, len(records))
	for i, record := range records {
		rows[i] = []string{
			strconv.Itoa(record.ID),
			strconv.Itoa(record.AgentX),
			strconv.Itoa(record.AgentO),
			record.StartingPlayer,
			record.Winner,
			record.StartTime.Format(time.RFC3339Nano),
			record.EndTime.Format(time.RFC3339Nano),
			record.Duration.String(),
			strconv.Itoa(record.TotalMoves),
		}
	}
	return writeCSV(w.path("game_records"), header, rows)
}

func (w *Writer) WriteMoveRecords(records []MoveRecord) error {
	if w.format == Parquet {
		rows := make([]moveRow, len(records))
		for i, record := range records {
			rows[i] = moveRow{
				Game:         int32(record.Game),
				Step:         int32(record.Step),
				Player:       record.Player,
				Move:         int32(record.Move),
				DurationNs:   int64(record.Duration),
				Nodes:        int32(record.Nodes),
				Simulations:  int32(record.Simulations),
				FullPlayouts: int32(record.FullPlayouts),
			}
		}
		return writeParquet(w.path("move_records"), rows)
	}

	header := []string{"game", "step", "player", "move", "duration", "nodes", "simulations", "full_playouts"}
	rows := make([][]string, len(records))
	for i, record := range records {
		rows[i] = []string{
			strconv.Itoa(record.Game),
			strconv.Itoa(record.Step),
			record.Player,
			strconv.Itoa(record.Move),
			record.Duration.String(),
			strconv.Itoa(record.Nodes),
			strconv.Itoa(record.Simulations),
			strconv.Itoa(record.FullPlayouts),
		}
	}
	return writeCSV(w.path("move_records"), header, rows)
}

func (w *Writer) path(name string) string {
	return filepath.Join(w.baseDir, name+"."+string(w.format))
}

func writeCSV(path string, header []string, rows [][]string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", filepath.Base(path), err)
	}
	defer f.Close()

	writer := csv.NewWriter(f)
	err = writer.Write(header)
	if err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}
	err = writer.WriteAll(rows)
	if err != nil {
		return fmt.Errorf("failed to write rows: %w", err)
	}
	return nil
}

// writeParquet writes rows to a temporary file and renames it into place,
// so readers never see a partial file.
func writeParquet[T any](path string, rows []T) error {
	tmpPath := path + ".tmp"
	_ = os.Remove(tmpPath)

	if err := parquet.WriteFile(tmpPath, rows,
		parquet.Compression(&zstd.Codec{Level: zstd.SpeedBetterCompression}),
	); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("write parquet: %w", err)
	}

	if err := os.Rename(tmpPath, path); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("rename parquet: %w", err)
	}
	return nil
}

type agentConfigRow struct {
	ID          int32   `parquet:"id"`
	Kind        string  `parquet:"kind,dict"`
	Simulations int32   `parquet:"simulations"`
	Exploration float64 `parquet:"exploration"`
	Episodes    int32   `parquet:"episodes"`
	Seed        int64   `parquet:"seed"`
}

type gameRow struct {
	ID             int32  `parquet:"id"`
	AgentX         int32  `parquet:"agent_x"`
	AgentO         int32  `parquet:"agent_o"`
	StartingPlayer string `parquet:"starting_player,dict"`
	Winner         string `parquet:"winner,dict"`
	StartNs        int64  `parquet:"start_ns"`
	EndNs          int64  `parquet:"end_ns"`
	DurationNs     int64  `parquet:"duration_ns"`
	TotalMoves     int32  `parquet:"total_moves"`
}

type moveRow struct {
	Game         int32  `parquet:"game"`
	Step         int32  `parquet:"step"`
	Player       string `parquet:"player,dict"`
	Move         int32  `parquet:"move"`
	DurationNs   int64  `parquet:"duration_ns"`
	Nodes        int32  `parquet:"nodes"`
	Simulations  int32  `parquet:"simulations"`
	FullPlayouts int32  `parquet:"full_playouts"`
}
