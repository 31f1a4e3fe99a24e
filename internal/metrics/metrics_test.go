package metrics_test

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
	"github.com/tkilaker/magazine/internal/metrics"
)

func TestObserve(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := metrics.New(reg)

	m.ObserveFetch(true)
	m.ObserveFetch(false)
	m.ObserveFetch(false)
	m.ObserveRun("cached")

	require.Equal(t, 1.0, testutil.ToFloat64(m.Fetches.WithLabelValues("success")))
	require.Equal(t, 2.0, testutil.ToFloat64(m.Fetches.WithLabelValues("failure")))
	require.Equal(t, 1.0, testutil.ToFloat64(m.Runs.WithLabelValues("cached")))
}

func TestNilMetricsIsNoop(t *testing.T) {
	var m *metrics.Metrics
	require.NotPanics(t, func() {
		m.ObserveFetch(true)
		m.ObserveRun("fresh")
	})
}
