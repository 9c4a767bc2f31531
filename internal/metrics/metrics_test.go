package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestObserveSearch(t *testing.T) {
	m := New(prometheus.NewRegistry())

	m.ObserveSearch(StatusCompleted, 20*time.Millisecond)
	m.ObserveSearch(StatusCancelled, 5*time.Millisecond)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.SearchesTotal.WithLabelValues(StatusCompleted)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.SearchesTotal.WithLabelValues(StatusCancelled)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.CancellationsTotal))
}

func TestObserveVariableAndLookup(t *testing.T) {
	m := New(prometheus.NewRegistry())

	m.ObserveVariable(time.Millisecond, 40, 3)
	m.ObserveLookup(true)
	m.ObserveLookup(false)
	m.ObserveLookup(false)

	assert.Equal(t, 40.0, testutil.ToFloat64(m.NodesInspectedTotal))
	assert.Equal(t, 3.0, testutil.ToFloat64(m.MatchesTotal))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.VariableLookupsTotal.WithLabelValues("found")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.VariableLookupsTotal.WithLabelValues("miss")))
}

func TestNilMetricsIsSafe(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.ObserveSearch(StatusFailed, time.Second)
		m.ObserveVariable(time.Second, 1, 1)
		m.ObserveLookup(true)
	})
}
