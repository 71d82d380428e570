// Copyright 2025 James Ross
package simulation

import (
	"math"
	"sort"

	"github.com/riskforge/montecarlo/internal/riskmodel"
)

// checkpointInterval is how often convergence is recomputed and the
// progress callback invoked.
const checkpointInterval = 1000

// stabilityThreshold is the level every tracked statistic must clear
// for the run to be reported as converged.
const stabilityThreshold = 0.95

// convergenceWindow is the number of trailing checkpoints each
// stability figure is computed over.
const convergenceWindow = 10

// convergenceTracker accumulates the running mean, variance, and
// tracked percentiles of cost outcomes at every checkpoint, and
// reports stability as 1 minus the coefficient of variation of each
// statistic's last-10-checkpoint window: a statistic that hasn't moved
// over that window scores close to 1.0, one that is still swinging
// scores low. Fewer than 10 checkpoints means no window yet, so every
// statistic reports 0 until then.
type convergenceTracker struct {
	percentileLevels []float64

	meanHistory       []float64
	varianceHistory   []float64
	percentileHistory map[float64][]float64

	// convergedAtIteration latches the first checkpoint at which every
	// tracked statistic cleared stabilityThreshold, so a later noisy
	// checkpoint dipping back below threshold cannot erase it.
	convergedAtIteration int
}

func newConvergenceTracker(percentileLevels []float64) *convergenceTracker {
	history := make(map[float64][]float64, len(percentileLevels))
	for _, p := range percentileLevels {
		history[p] = nil
	}
	return &convergenceTracker{percentileLevels: percentileLevels, percentileHistory: history}
}

// Checkpoint evaluates convergence against the cost outcomes recorded
// so far (iteration is the count of completed iterations, 1-indexed).
func (c *convergenceTracker) Checkpoint(iteration int, outcomes []float64) riskmodel.ConvergenceMetrics {
	mean, variance := meanVariance(outcomes)
	sorted := append([]float64(nil), outcomes...)
	sort.Float64s(sorted)

	c.meanHistory = append(c.meanHistory, mean)
	c.varianceHistory = append(c.varianceHistory, variance)
	for _, p := range c.percentileLevels {
		c.percentileHistory[p] = append(c.percentileHistory[p], percentileOf(sorted, p))
	}

	metrics := riskmodel.ConvergenceMetrics{
		MeanStability:       windowStability(c.meanHistory),
		VarianceStability:   windowStability(c.varianceHistory),
		PercentileStability: make(map[float64]float64, len(c.percentileLevels)),
	}

	allPercentilesStable := true
	for _, p := range c.percentileLevels {
		s := windowStability(c.percentileHistory[p])
		metrics.PercentileStability[p] = s
		if s < stabilityThreshold {
			allPercentilesStable = false
		}
	}

	qualifies := metrics.MeanStability >= stabilityThreshold &&
		metrics.VarianceStability >= stabilityThreshold &&
		allPercentilesStable
	if qualifies && c.convergedAtIteration == 0 {
		c.convergedAtIteration = iteration
	}

	metrics.Converged = c.convergedAtIteration != 0
	metrics.IterationConverged = c.convergedAtIteration

	return metrics
}

// windowStability scores how little a statistic has moved over its
// last 10 recorded checkpoints: 1 minus the coefficient of variation
// of that window, clamped to [0, 1]. Fewer than 10 checkpoints reports
// 0 since there is no full window yet to judge.
func windowStability(history []float64) float64 {
	if len(history) < convergenceWindow {
		return 0
	}
	window := history[len(history)-convergenceWindow:]
	mean, variance := meanVariance(window)
	if mean == 0 {
		if variance == 0 {
			return 1
		}
		return 0
	}
	cv := math.Sqrt(variance) / math.Abs(mean)
	if cv > 1 {
		cv = 1
	}
	return 1 - cv
}

func meanVariance(xs []float64) (mean, variance float64) {
	n := float64(len(xs))
	if n == 0 {
		return 0, 0
	}
	for _, x := range xs {
		mean += x
	}
	mean /= n
	for _, x := range xs {
		d := x - mean
		variance += d * d
	}
	variance /= n
	return mean, variance
}

func percentileOf(sorted []float64, p float64) float64 {
	if len(sorted) == 0 {
		return 0
	}
	rank := p / 100 * float64(len(sorted)-1)
	lo := int(math.Floor(rank))
	hi := int(math.Ceil(rank))
	if lo == hi {
		return sorted[lo]
	}
	frac := rank - float64(lo)
	return sorted[lo]*(1-frac) + sorted[hi]*frac
}
