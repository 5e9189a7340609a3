// Package metrics exposes Prometheus collectors for the refresh loop.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/sony/gobreaker"
)

const namespace = "irarb"

// Cycle results.
const (
	ResultOK      = "ok"
	ResultError   = "error"
	ResultSkipped = "skipped"
)

// Registry holds the collectors of the service.
type Registry struct {
	CycleDuration *prometheus.HistogramVec
	Cycles        *prometheus.CounterVec
	CollabErrors  *prometheus.CounterVec
	Opportunities prometheus.Gauge
	Maturities    prometheus.Gauge
	LastRefresh   prometheus.Gauge
	BreakerState  *prometheus.GaugeVec
	PersistErrors prometheus.Counter
}

// New creates the collectors and registers them on reg.
func New(reg prometheus.Registerer) *Registry {
	r := &Registry{
		CycleDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "cycle_duration_seconds",
				Help:      "Duration of each rate refresh cycle in seconds",
				Buckets:   []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0, 2.5},
			},
			[]string{"result"},
		),
		Cycles: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "cycles_total",
				Help:      "Total number of refresh cycles by result",
			},
			[]string{"result"},
		),
		CollabErrors: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "collaborator_errors_total",
				Help:      "Failed cycles by failing collaborator",
			},
			[]string{"source"},
		),
		Opportunities: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "opportunities",
			Help:      "Maturities with an arbitrage in the last published cycle",
		}),
		Maturities: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "maturities",
			Help:      "Maturities with at least one rate in the last published cycle",
		}),
		LastRefresh: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "last_refresh_timestamp_seconds",
			Help:      "Unix time of the last published cycle",
		}),
		BreakerState: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "breaker_state",
				Help:      "Circuit breaker state (0=closed, 1=half-open, 2=open)",
			},
			[]string{"name"},
		),
		PersistErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "opportunity_persist_errors_total",
			Help:      "Failures writing detected opportunities",
		}),
	}

	reg.MustRegister(
		r.CycleDuration,
		r.Cycles,
		r.CollabErrors,
		r.Opportunities,
		r.Maturities,
		r.LastRefresh,
		r.BreakerState,
		r.PersistErrors,
	)
	return r
}

// ObserveCycle records one cycle outcome.
func (r *Registry) ObserveCycle(result string, d time.Duration) {
	r.Cycles.WithLabelValues(result).Inc()
	if result != ResultSkipped {
		r.CycleDuration.WithLabelValues(result).Observe(d.Seconds())
	}
}

// ObserveSnapshot records the size of a freshly published cycle.
func (r *Registry) ObserveSnapshot(maturities, opportunities int, refreshedAt time.Time) {
	r.Maturities.Set(float64(maturities))
	r.Opportunities.Set(float64(opportunities))
	r.LastRefresh.Set(float64(refreshedAt.Unix()))
}

// ObserveBreaker matches the gobreaker OnStateChange signature.
func (r *Registry) ObserveBreaker(name string, _, to gobreaker.State) {
	r.BreakerState.WithLabelValues(name).Set(breakerValue(to))
}

func breakerValue(s gobreaker.State) float64 {
	switch s {
	case gobreaker.StateHalfOpen:
		return 1
	case gobreaker.StateOpen:
		return 2
	default:
		return 0
	}
}
