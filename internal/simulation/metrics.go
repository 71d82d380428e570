// Copyright 2025 James Ross
package simulation

import "github.com/prometheus/client_golang/prometheus"

var (
	runsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "riskmc_simulation_runs_total",
		Help: "Total simulation runs by outcome.",
	}, []string{"outcome"})

	iterationsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "riskmc_simulation_iterations_total",
		Help: "Total Monte Carlo iterations executed across all runs.",
	})

	runDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "riskmc_simulation_duration_seconds",
		Help:    "Wall-clock duration of a simulation run.",
		Buckets: prometheus.DefBuckets,
	})

	cacheHits = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "riskmc_simulation_cache_total",
		Help: "Cache lookups by result.",
	}, []string{"result"})
)

func init() {
	prometheus.MustRegister(runsTotal, iterationsTotal, runDuration, cacheHits)
}
