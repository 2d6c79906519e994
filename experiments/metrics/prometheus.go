package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// PrometheusMetrics holds the counters shared by every PrometheusCollector
// created from it. Each series is labelled by agent.
type PrometheusMetrics struct {
	decisions    *prometheus.CounterVec
	nodes        *prometheus.CounterVec
	simulations  *prometheus.CounterVec
	fullPlayouts *prometheus.CounterVec
	duration     *prometheus.HistogramVec
	games        *prometheus.CounterVec
}

// NewPrometheusMetrics creates the search and game counters and registers
// them with reg.
func NewPrometheusMetrics(reg prometheus.Registerer) *PrometheusMetrics {
	m := &PrometheusMetrics{
		decisions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "tictactoe_search_decisions_total",
			Help: "Total move decisions taken by an agent",
		}, []string{"agent"}),
		nodes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "tictactoe_search_nodes_total",
			Help: "Total game-tree nodes visited or created",
		}, []string{"agent"}),
		simulations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "tictactoe_search_simulations_total",
			Help: "Total MCTS iterations",
		}, []string{"agent"}),
		fullPlayouts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "tictactoe_search_full_playouts_total",
			Help: "Total rollouts played to a terminal state",
		}, []string{"agent"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "tictactoe_search_decision_duration_seconds",
			Help:    "Time taken per move decision",
			Buckets: prometheus.ExponentialBuckets(0.0001, 4, 10),
		}, []string{"agent"}),
		games: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "tictactoe_games_total",
			Help: "Total games finished, by outcome for the agent",
		}, []string{"agent", "outcome"}),
	}
	reg.MustRegister(m.decisions, m.nodes, m.simulations, m.fullPlayouts, m.duration, m.games)
	return m
}

// RecordGame counts a finished game for an agent. outcome is one of "win",
// "loss" or "draw".
func (m *PrometheusMetrics) RecordGame(agent, outcome string) {
	m.games.WithLabelValues(agent, outcome).Inc()
}

type prometheusCollector struct {
	collector
	agent   string
	metrics *PrometheusMetrics
}

// NewPrometheusCollector returns a Collector that also exports its counts
// under the given agent label.
func NewPrometheusCollector(m *PrometheusMetrics, agent string) Collector {
	return &prometheusCollector{agent: agent, metrics: m}
}

func (c *prometheusCollector) AddNodes(n int) {
	c.collector.AddNodes(n)
	c.metrics.nodes.WithLabelValues(c.agent).Add(float64(n))
}

func (c *prometheusCollector) AddSimulation() {
	c.collector.AddSimulation()
	c.metrics.simulations.WithLabelValues(c.agent).Inc()
}

func (c *prometheusCollector) AddFullPlayout() {
	c.collector.AddFullPlayout()
	c.metrics.fullPlayouts.WithLabelValues(c.agent).Inc()
}

func (c *prometheusCollector) Complete() SearchMetric {
	metric := c.collector.Complete()
	c.metrics.decisions.WithLabelValues(c.agent).Inc()
	c.metrics.duration.WithLabelValues(c.agent).Observe(metric.Duration.Seconds())
	return metric
}
