// Copyright 2025 James Ross
// Package simulation is the engine's orchestration layer: it draws
// correlated samples from a risk set, accumulates cost and schedule
// outcomes iteration by iteration, tracks convergence, and exposes
// caching and escalation-aware variants of the core run operation.
package simulation

import (
	"github.com/riskforge/montecarlo/internal/escalation"
	"github.com/riskforge/montecarlo/internal/riskmodel"
)

// ProgressFunc receives the iteration count completed so far and a
// convergence snapshot. The sequential path calls it every 1000
// iterations and once at completion with the running metrics; the
// parallel path calls it as chunks finish (rate-limited, with empty
// metrics) and once at completion with the final metrics.
type ProgressFunc func(iteration int, convergence riskmodel.ConvergenceMetrics)

// Request bundles the inputs to a simulation run.
type Request struct {
	Risks          []*riskmodel.Risk
	Iterations     int
	Correlations   map[string]float64 // "riskA|riskB" -> coefficient, symmetric
	Seed           int64
	HasSeed        bool
	Progress       ProgressFunc
	BaselineCosts  float64
	Schedule       *riskmodel.ScheduleData
	EscalationSpan float64 // years, only meaningful when escalation factors are supplied
	Escalation     []escalation.Factor

	// MaxWorkers overrides Run's automatic worker-count selection when
	// positive: 1 forces the sequential path (an operator's explicit
	// Configuration.ParallelExecution=false), any higher value pins the
	// chunked parallel path to that many workers (Configuration.NumThreads).
	// Zero leaves the choice to maxWorkers().
	MaxWorkers int
}

// MinIterations is the floor below which a run is rejected: fewer
// iterations cannot produce a stable tail estimate.
const MinIterations = 10000

// Engine runs simulations and optionally caches results by parameter
// fingerprint.
type Engine struct {
	cache *resultCache
}

// NewEngine constructs an Engine with an empty result cache of the
// given capacity (0 disables caching).
func NewEngine(cacheCapacity int) *Engine {
	return &Engine{cache: newResultCache(cacheCapacity)}
}

