// Copyright 2025 James Ross
package simulation

import (
	"context"
	"fmt"
	"math"
	"math/rand"
	"strings"
	"time"

	"github.com/riskforge/montecarlo/internal/correlation"
	"github.com/riskforge/montecarlo/internal/distribution"
	"github.com/riskforge/montecarlo/internal/errs"
	"github.com/riskforge/montecarlo/internal/riskmodel"
)

// reportedPercentiles are the percentile levels convergence tracking
// watches, matching the ones the results analyzer reports.
var reportedPercentiles = []float64{10, 25, 50, 75, 90, 95, 99}

// costFloorFraction is the minimum a single iteration's cost outcome
// may fall to relative to the baseline, preventing a pathological
// combination of negative-impact risks from producing a nonsensical
// negative or near-zero project cost.
const costFloorFraction = 0.10

// preparedRun holds everything derived once from a Request that every
// iteration (sequential or, via engine.go, parallel chunk) needs:
// validated distributions, the correlation matrix, and the schedule
// context.
type preparedRun struct {
	dists      []*distribution.Distribution
	corrMatrix *correlation.Matrix
	schedCtx   *scheduleContext
}

func prepareRun(req Request) (*preparedRun, error) {
	if req.Iterations < MinIterations {
		return nil, errs.NewValidationError(errs.ErrIterationsTooLow,
			fmt.Sprintf("iterations must be >= %d, got %d", MinIterations, req.Iterations), nil)
	}
	if err := riskmodel.ValidateRiskSet(req.Risks); err != nil {
		return nil, err
	}

	corrMatrix, err := buildCorrelationMatrix(req.Risks, req.Correlations)
	if err != nil {
		return nil, err
	}

	schedCtx, err := buildScheduleContext(req.Schedule)
	if err != nil {
		return nil, err
	}

	dists := make([]*distribution.Distribution, len(req.Risks))
	for i, r := range req.Risks {
		dists[i] = r.Distribution
	}

	return &preparedRun{
		dists:      dists,
		corrMatrix: corrMatrix,
		schedCtx:   schedCtx,
	}, nil
}

// newRNG returns a seeded generator when the request pins a seed, or a
// time-derived one otherwise. It drives the sequential path only; each
// parallel worker derives its own generator from a per-worker offset of
// the seed (see engine.go), so a pinned-seed run is reproducible for a
// given worker count and draws differently under a different count.
func newRNG(req Request) *rand.Rand {
	if req.HasSeed {
		return rand.New(rand.NewSource(req.Seed))
	}
	return rand.New(rand.NewSource(time.Now().UnixNano()))
}

func runCore(ctx context.Context, req Request) (*riskmodel.SimulationResults, error) {
	prep, err := prepareRun(req)
	if err != nil {
		return nil, err
	}
	corrMatrix, schedCtx, dists := prep.corrMatrix, prep.schedCtx, prep.dists
	rng := newRNG(req)

	costOutcomes := make([]float64, 0, req.Iterations)
	scheduleOutcomes := make([]float64, 0, req.Iterations)
	contributions := make(map[string][]float64, len(req.Risks))
	for _, r := range req.Risks {
		contributions[r.ID] = make([]float64, 0, req.Iterations)
	}

	tracker := newConvergenceTracker(reportedPercentiles)
	var convergence riskmodel.ConvergenceMetrics

	started := time.Now()

	for i := 0; i < req.Iterations; i++ {
		if i%256 == 0 {
			select {
			case <-ctx.Done():
				return nil, errs.NewCancelledError(i)
			default:
			}
		}

		costOutcome, scheduleOutcome, impacts, err := simulateOne(req.Risks, dists, corrMatrix, schedCtx, req.BaselineCosts, rng)
		if err != nil {
			return nil, err
		}
		for j, r := range req.Risks {
			contributions[r.ID] = append(contributions[r.ID], impacts[j])
		}

		costOutcomes = append(costOutcomes, costOutcome)
		scheduleOutcomes = append(scheduleOutcomes, scheduleOutcome)

		iteration := i + 1
		if iteration%checkpointInterval == 0 || iteration == req.Iterations {
			convergence = tracker.Checkpoint(iteration, costOutcomes)
			if req.Progress != nil {
				req.Progress(iteration, convergence)
			}
		}
	}

	return &riskmodel.SimulationResults{
		Iterations:        req.Iterations,
		CostOutcomes:      costOutcomes,
		ScheduleOutcomes:  scheduleOutcomes,
		RiskContributions: contributions,
		Convergence:       convergence,
		WallTime:          time.Since(started),
		Timestamp:         started,
	}, nil
}

// simulateOne draws one correlated (or independent) sample per risk,
// applies each risk's own correlation double-counting adjustment,
// partitions the resulting impacts into cost/schedule accumulators,
// applies the schedule overlay, and floors the cost outcome. It is the
// unit of work shared by the sequential loop in runCore and the
// chunked parallel workers in engine.go.
func simulateOne(risks []*riskmodel.Risk, dists []*distribution.Distribution, corrMatrix *correlation.Matrix, schedCtx *scheduleContext, baselineCosts float64, rng *rand.Rand) (costOutcome, scheduleOutcome float64, impacts []float64, err error) {
	samples, err := drawSamples(dists, corrMatrix, rng)
	if err != nil {
		return 0, 0, nil, err
	}

	impacts = make([]float64, len(risks))
	var costAccum, scheduleAccum float64
	for j, r := range risks {
		baseImpact := samples[j] * r.BaselineImpact
		impact := baseImpact * correlationAdjustmentFactor(corrMatrix, j)
		impacts[j] = impact

		switch r.ImpactType {
		case riskmodel.ImpactCost:
			costAccum += impact
		case riskmodel.ImpactSchedule:
			scheduleAccum += impact
		case riskmodel.ImpactBoth:
			costAccum += impact
			scheduleAccum += impact
		}
	}

	if schedCtx != nil {
		scheduleAccum += scheduleOverlayDays(schedCtx, scheduleAccum, rng)
	}

	costOutcome = baselineCosts + costAccum
	floor := baselineCosts * costFloorFraction
	if costOutcome < floor {
		costOutcome = floor
	}

	scheduleOutcome = scheduleAccum
	if schedCtx != nil {
		scheduleOutcome += float64(schedCtx.cpm.ProjectDuration)
	}

	return costOutcome, scheduleOutcome, impacts, nil
}

// drawSamples returns one per-risk draw, using the correlation matrix
// when every risk is a member of it, and independent sampling
// otherwise (a risk set with no declared correlations skips the
// Cholesky machinery entirely).
func drawSamples(dists []*distribution.Distribution, m *correlation.Matrix, rng *rand.Rand) ([]float64, error) {
	if m == nil {
		out := make([]float64, len(dists))
		for i, d := range dists {
			out[i] = d.Sample(1, rng)[0]
		}
		return out, nil
	}
	rows, err := correlation.GenerateCorrelatedSamples(dists, m, 1, rng)
	if err != nil {
		return nil, err
	}
	return rows[0], nil
}

// buildCorrelationMatrix turns the request's "riskA|riskB" -> rho map
// into a correlation.Matrix over the request's risk IDs, or returns
// nil when no correlations were supplied.
func buildCorrelationMatrix(risks []*riskmodel.Risk, correlations map[string]float64) (*correlation.Matrix, error) {
	if len(correlations) == 0 {
		return nil, nil
	}
	ids := make([]string, len(risks))
	for i, r := range risks {
		ids[i] = r.ID
	}

	pairs := make(map[correlation.Pair]float64, len(correlations))
	for key, rho := range correlations {
		parts := strings.SplitN(key, "|", 2)
		if len(parts) != 2 {
			return nil, errs.NewValidationError(errs.ErrInvalidCorrelation,
				fmt.Sprintf("correlation key %q must be of the form riskA|riskB", key), nil)
		}
		pairs[correlation.Pair{A: parts[0], B: parts[1]}] = rho
	}

	return correlation.New(ids, pairs)
}

// correlationMeaningfulThreshold is the minimum absolute correlation
// worth discounting for; weaker pairings are treated as independent.
const correlationMeaningfulThreshold = 0.1

// correlationAdjustmentFactor discounts risk j's impact for the share
// of variance it already shares, through correlation, with every risk
// processed earlier in the same risks slice (indices 0..j-1) — mirroring
// the order risks are drawn and accumulated each iteration. Only
// pairs with |rho| > 0.1 count, each contributing |rho|·0.1 of discount,
// with the cumulative discount capped at 0.5 so even a risk correlated
// with many others keeps a material impact. Risks with no meaningful
// correlation to anything already computed are left untouched.
func correlationAdjustmentFactor(m *correlation.Matrix, j int) float64 {
	if m == nil {
		return 1
	}
	var total float64
	for k := 0; k < j; k++ {
		rho := m.At(j, k)
		if math.Abs(rho) > correlationMeaningfulThreshold {
			total += math.Abs(rho) * 0.1
		}
	}
	if total > 0.5 {
		total = 0.5
	}
	return 1 - total
}
