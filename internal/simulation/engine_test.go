// Copyright 2025 James Ross
package simulation

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/riskforge/montecarlo/internal/distribution"
	"github.com/riskforge/montecarlo/internal/riskmodel"
)

func testRisk(t *testing.T, id string, impactType riskmodel.ImpactType) *riskmodel.Risk {
	t.Helper()
	d, err := distribution.NewNormal(1000, 100)
	require.NoError(t, err)
	return &riskmodel.Risk{
		ID:             id,
		Name:           "risk " + id,
		Category:       riskmodel.CategoryCost,
		ImpactType:     impactType,
		Distribution:   d,
		BaselineImpact: 1.0,
	}
}

func TestRunRejectsTooFewIterations(t *testing.T) {
	req := Request{
		Risks:      []*riskmodel.Risk{testRisk(t, "r1", riskmodel.ImpactCost)},
		Iterations: 100,
	}
	e := NewEngine(0)
	_, err := e.Run(context.Background(), req, nil)
	assert.Error(t, err)
}

func TestRunProducesIterationSizedOutcomes(t *testing.T) {
	req := Request{
		Risks:         []*riskmodel.Risk{testRisk(t, "r1", riskmodel.ImpactCost)},
		Iterations:    MinIterations,
		HasSeed:       true,
		Seed:          42,
		BaselineCosts: 1_000_000,
	}
	e := NewEngine(0)
	results, err := e.Run(context.Background(), req, nil)
	require.NoError(t, err)
	assert.Len(t, results.CostOutcomes, MinIterations)
	assert.Len(t, results.ScheduleOutcomes, MinIterations)
	assert.Contains(t, results.RiskContributions, "r1")
	assert.Len(t, results.RiskContributions["r1"], MinIterations)
}

func TestRunFloorsExtremeCostOutcomes(t *testing.T) {
	hugeNegative, err := distribution.NewNormal(-1_000_000, 1)
	require.NoError(t, err)
	risk := &riskmodel.Risk{
		ID: "catastrophic", Name: "catastrophic", Category: riskmodel.CategoryCost,
		ImpactType: riskmodel.ImpactCost, Distribution: hugeNegative, BaselineImpact: 1.0,
	}
	req := Request{
		Risks: []*riskmodel.Risk{risk}, Iterations: MinIterations,
		HasSeed: true, Seed: 1, BaselineCosts: 1000,
	}
	e := NewEngine(0)
	results, err := e.Run(context.Background(), req, nil)
	require.NoError(t, err)
	for _, cost := range results.CostOutcomes {
		assert.GreaterOrEqual(t, cost, 100.0) // 10% of baseline
	}
}

func TestRunWithCacheReturnsSameFingerprintedResult(t *testing.T) {
	req := Request{
		Risks:         []*riskmodel.Risk{testRisk(t, "r1", riskmodel.ImpactCost)},
		Iterations:    MinIterations,
		HasSeed:       true,
		Seed:          7,
		BaselineCosts: 500_000,
	}
	e := NewEngine(4)
	first, err := e.RunWithCache(context.Background(), req, nil)
	require.NoError(t, err)

	second, err := e.RunWithCache(context.Background(), req, nil)
	require.NoError(t, err)

	assert.Equal(t, first.CostOutcomes, second.CostOutcomes)
}

func TestFingerprintIsStableUnderCorrelationMapOrdering(t *testing.T) {
	risks := []*riskmodel.Risk{testRisk(t, "r1", riskmodel.ImpactCost), testRisk(t, "r2", riskmodel.ImpactCost)}
	req1 := Request{Risks: risks, Iterations: MinIterations, Correlations: map[string]float64{"r1|r2": 0.5}}
	req2 := Request{Risks: []*riskmodel.Risk{risks[1], risks[0]}, Iterations: MinIterations, Correlations: map[string]float64{"r1|r2": 0.5}}

	f1, err := Fingerprint(req1)
	require.NoError(t, err)
	f2, err := Fingerprint(req2)
	require.NoError(t, err)
	assert.Equal(t, f1, f2)
}

func TestRunRejectsUnknownCorrelationRisk(t *testing.T) {
	req := Request{
		Risks:        []*riskmodel.Risk{testRisk(t, "r1", riskmodel.ImpactCost)},
		Iterations:   MinIterations,
		Correlations: map[string]float64{"r1|ghost": 0.5},
	}
	e := NewEngine(0)
	_, err := e.Run(context.Background(), req, nil)
	assert.Error(t, err)
}

func TestRunHonorsExplicitMaxWorkersOverride(t *testing.T) {
	req := Request{
		Risks:         []*riskmodel.Risk{testRisk(t, "r1", riskmodel.ImpactCost)},
		Iterations:    MinIterations,
		HasSeed:       true,
		Seed:          9,
		BaselineCosts: 1_000_000,
		MaxWorkers:    1, // forces the sequential path regardless of runtime.NumCPU()
	}
	e := NewEngine(0)
	results, err := e.Run(context.Background(), req, nil)
	require.NoError(t, err)
	assert.Len(t, results.CostOutcomes, MinIterations)
}

func TestRunRespectsContextCancellation(t *testing.T) {
	req := Request{
		Risks:      []*riskmodel.Risk{testRisk(t, "r1", riskmodel.ImpactCost)},
		Iterations: MinIterations,
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	e := NewEngine(0)
	_, err := e.Run(ctx, req, nil)
	assert.Error(t, err)
	assert.True(t, riskmodel.IsKind(err, riskmodel.KindCancelled))
}
