package market

import (
	"time"

	"github.com/zeromicro/go-zero/core/metric"
)

const metricNamespace = "coinsignals"

var (
	providerAttempts = metric.NewCounterVec(&metric.CounterVecOpts{
		Namespace: metricNamespace,
		Subsystem: "provider",
		Name:      "attempts_total",
		Help:      "Provider calls by operation and final status.",
		Labels:    []string{"provider", "op", "status"},
	})

	providerDuration = metric.NewHistogramVec(&metric.HistogramVecOpts{
		Namespace: metricNamespace,
		Subsystem: "provider",
		Name:      "call_duration_ms",
		Help:      "Duration of individual provider calls in milliseconds.",
		Labels:    []string{"provider", "op"},
		Buckets:   []float64{25, 50, 100, 250, 500, 1000, 2500, 5000, 10000},
	})

	cacheLookups = metric.NewCounterVec(&metric.CounterVecOpts{
		Namespace: metricNamespace,
		Subsystem: "cache",
		Name:      "lookups_total",
		Help:      "Cache lookups by kind and result.",
		Labels:    []string{"kind", "result"},
	})
)

func observeCall(provider, op string, started time.Time) {
	providerDuration.Observe(time.Since(started).Milliseconds(), provider, op)
}

func recordOutcome(op string, outcome Outcome) {
	providerAttempts.Inc(outcome.Provider, op, string(outcome.Status))
}

func recordCacheLookup(kind string, hit bool) {
	result := "miss"
	if hit {
		result = "hit"
	}
	cacheLookups.Inc(kind, result)
}
