package metrics

import (
	"sync/atomic"
	"time"
)

// SearchMetric describes the work done for one move decision.
type SearchMetric struct {
	Duration     time.Duration
	Nodes        int // Game-tree nodes visited or created
	Simulations  int // MCTS iterations
	FullPlayouts int // Rollouts played to a terminal state
}

type MoveMetric struct {
	Step   int
	Player string
	Move   int // Row-major cell index
	SearchMetric
}

type GameMetric struct {
	StartingPlayer string
	Winner         string // "" on a draw
	StartTime      time.Time
	EndTime        time.Time
	Duration       time.Duration
	TotalMoves     int
}

// Reporter is implemented by agents that collect a SearchMetric for their
// most recent decision.
type Reporter interface {
	LastMetric() SearchMetric
}

type Collector interface {
	Start()
	AddNodes(n int)
	AddSimulation()
	AddFullPlayout()
	Complete() SearchMetric
}

type collector struct {
	startTime    time.Time
	nodes        atomic.Int64
	simulations  atomic.Int64
	fullPlayouts atomic.Int64
}

func NewCollector() Collector {
	return &collector{}
}

// Start resets the counters for a new decision.
func (m *collector) Start() {
	m.startTime = time.Now()
	m.nodes.Store(0)
	m.simulations.Store(0)
	m.fullPlayouts.Store(0)
}

func (m *collector) AddNodes(n int) {
	m.nodes.Add(int64(n))
}

func (m *collector) AddSimulation() {
	m.simulations.Add(1)
}

func (m *collector) AddFullPlayout() {
	m.fullPlayouts.Add(1)
}

func (m *collector) Complete() SearchMetric {
	return SearchMetric{
		Duration:     time.Since(m.startTime),
		Nodes:        int(m.nodes.Load()),
		Simulations:  int(m.simulations.Load()),
		FullPlayouts: int(m.fullPlayouts.Load()),
	}
}

type dummyCollector struct{}

func NewDummyCollector() Collector {
	return &dummyCollector{}
}

func (m *dummyCollector) Start()                 {}
func (m *dummyCollector) AddNodes(n int)         {}
func (m *dummyCollector) AddSimulation()         {}
func (m *dummyCollector) AddFullPlayout()        {}
func (m *dummyCollector) Complete() SearchMetric { return SearchMetric{} }
