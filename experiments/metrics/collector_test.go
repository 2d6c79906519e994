package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
)

func TestCollector(t *testing.T) {
	t.Run("counting the work of one decision", func(t *testing.T) {
		c := NewCollector()

		c.Start()
		c.AddNodes(3)
		c.AddNodes(2)
		c.AddSimulation()
		c.AddFullPlayout()
		c.AddFullPlayout()
		metric := c.Complete()

		require.Equal(t, 5, metric.Nodes)
		require.Equal(t, 1, metric.Simulations)
		require.Equal(t, 2, metric.FullPlayouts)
		require.GreaterOrEqual(t, metric.Duration.Nanoseconds(), int64(0))
	})

	t.Run("resetting on start", func(t *testing.T) {
		c := NewCollector()
		c.Start()
		c.AddNodes(10)
		c.Complete()

		c.Start()
		metric := c.Complete()

		require.Zero(t, metric.Nodes)
	})

	t.Run("ignoring everything in the dummy collector", func(t *testing.T) {
		c := NewDummyCollector()

		c.Start()
		c.AddNodes(10)
		c.AddSimulation()

		require.Equal(t, SearchMetric{}, c.Complete())
	})
}

func TestPrometheusCollector(t *testing.T) {
	t.Run("exporting counts under the agent label", func(t *testing.T) {
		reg := prometheus.NewRegistry()
		m := NewPrometheusMetrics(reg)
		c := NewPrometheusCollector(m, "mcts")

		c.Start()
		c.AddNodes(4)
		c.AddSimulation()
		c.AddSimulation()
		c.AddFullPlayout()
		metric := c.Complete()

		require.Equal(t, 4, metric.Nodes)
		require.Equal(t, 2, metric.Simulations)
		require.Equal(t, 4.0, testutil.ToFloat64(m.nodes.WithLabelValues("mcts")))
		require.Equal(t, 2.0, testutil.ToFloat64(m.simulations.WithLabelValues("mcts")))
		require.Equal(t, 1.0, testutil.ToFloat64(m.fullPlayouts.WithLabelValues("mcts")))
		require.Equal(t, 1.0, testutil.ToFloat64(m.decisions.WithLabelValues("mcts")))
	})

	t.Run("keeping agents apart", func(t *testing.T) {
		m := NewPrometheusMetrics(prometheus.NewRegistry())
		a := NewPrometheusCollector(m, "minimax")
		b := NewPrometheusCollector(m, "alphabeta")

		a.Start()
		a.AddNodes(100)
		b.Start()
		b.AddNodes(10)

		require.Equal(t, 100.0, testutil.ToFloat64(m.nodes.WithLabelValues("minimax")))
		require.Equal(t, 10.0, testutil.ToFloat64(m.nodes.WithLabelValues("alphabeta")))
	})

	t.Run("recording game outcomes", func(t *testing.T) {
		m := NewPrometheusMetrics(prometheus.NewRegistry())

		m.RecordGame("mcts", "win")
		m.RecordGame("mcts", "win")
		m.RecordGame("mcts", "draw")

		require.Equal(t, 2.0, testutil.ToFloat64(m.games.WithLabelValues("mcts", "win")))
		require.Equal(t, 1.0, testutil.ToFloat64(m.games.WithLabelValues("mcts", "draw")))
	})
}
