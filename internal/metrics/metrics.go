// Package metrics provides Prometheus instruments for search timing
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus instruments for tokentrace
type Metrics struct {
	SearchesTotal         *prometheus.CounterVec
	SearchDuration        prometheus.Histogram
	VariableSearchSeconds prometheus.Histogram
	NodesInspectedTotal   prometheus.Counter
	MatchesTotal          prometheus.Counter
	VariableLookupsTotal  *prometheus.CounterVec
	CancellationsTotal    prometheus.Counter
}

// New creates the instruments and registers them with reg.
// A nil reg creates unregistered instruments.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		SearchesTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "tokentrace_searches_total",
				Help: "Total number of search requests",
			},
			[]string{"status"},
		),
		SearchDuration: factory.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "tokentrace_search_duration_seconds",
				Help:    "Duration of whole search requests in seconds",
				Buckets: []float64{.01, .05, .1, .25, .5, 1, 2.5, 5, 10, 30},
			},
		),
		VariableSearchSeconds: factory.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "tokentrace_variable_search_duration_seconds",
				Help:    "Duration of one variable's traversal in seconds",
				Buckets: prometheus.DefBuckets,
			},
		),
		NodesInspectedTotal: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "tokentrace_nodes_inspected_total",
				Help: "Total number of scene nodes inspected for bindings",
			},
		),
		MatchesTotal: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "tokentrace_matches_total",
				Help: "Total number of match records produced",
			},
		),
		VariableLookupsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "tokentrace_variable_lookups_total",
				Help: "Host variable lookups made by the identity matcher",
			},
			[]string{"result"},
		),
		CancellationsTotal: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "tokentrace_cancellations_total",
				Help: "Total number of cancelled search requests",
			},
		),
	}
}

// ObserveSearch records a finished request
func (m *Metrics) ObserveSearch(status string, duration time.Duration) {
	if m == nil {
		return
	}
	m.SearchesTotal.WithLabelValues(status).Inc()
	m.SearchDuration.Observe(duration.Seconds())
	if status == StatusCancelled {
		m.CancellationsTotal.Inc()
	}
}

// ObserveVariable records one variable's traversal
func (m *Metrics) ObserveVariable(duration time.Duration, inspected, matches int) {
	if m == nil {
		return
	}
	m.VariableSearchSeconds.Observe(duration.Seconds())
	m.NodesInspectedTotal.Add(float64(inspected))
	m.MatchesTotal.Add(float64(matches))
}

// ObserveLookup records a host variable lookup
func (m *Metrics) ObserveLookup(found bool) {
	if m == nil {
		return
	}
	if found {
		m.VariableLookupsTotal.WithLabelValues("found").Inc()
		return
	}
	m.VariableLookupsTotal.WithLabelValues("miss").Inc()
}

// Search status labels
const (
	StatusCompleted = "completed"
	StatusCancelled = "cancelled"
	StatusFailed    = "failed"
)
