// Package metrics defines the Prometheus collectors exported by the solver service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Label values for solve and cache outcomes.
const (
	Ok         = "ok"
	NoFeasible = "no_feasible"
	Invalid    = "invalid"
	Hit        = "hit"
	Miss       = "miss"
)

// Metrics groups the collectors registered for one service instance.
type Metrics struct {
	SolveTotal           *prometheus.CounterVec
	SolveDurationSeconds prometheus.Histogram
	IncubatorsUsed       prometheus.Histogram
	CacheLookupsTotal    *prometheus.CounterVec
}

// New registers the service collectors with reg.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		SolveTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "eggsolve_solve_total",
			Help: "Cumulative number of solve requests, by result.",
		}, []string{"result"}),
		SolveDurationSeconds: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "eggsolve_solve_duration_seconds",
			Help:    "Duration of successful solve calls.",
			Buckets: prometheus.ExponentialBuckets(0.00001, 4, 8),
		}),
		IncubatorsUsed: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "eggsolve_incubators_used",
			Help:    "Number of bounded incubators left in a solving result.",
			Buckets: prometheus.LinearBuckets(0, 1, 10),
		}),
		CacheLookupsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "eggsolve_cache_lookups_total",
			Help: "Cumulative number of result cache lookups, by result.",
		}, []string{"result"}),
	}
}
