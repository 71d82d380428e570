// Copyright 2025 James Ross
package simulation

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/riskforge/montecarlo/internal/correlation"
	"github.com/riskforge/montecarlo/internal/distribution"
	"github.com/riskforge/montecarlo/internal/riskmodel"
)

func TestCorrelationAdjustmentFactorIsOneWithoutMatrix(t *testing.T) {
	assert.Equal(t, 1.0, correlationAdjustmentFactor(nil, 0))
}

func TestCorrelationAdjustmentFactorIgnoresWeakCorrelation(t *testing.T) {
	m, err := correlation.New([]string{"a", "b"}, map[correlation.Pair]float64{
		{A: "a", B: "b"}: 0.05,
	})
	require.NoError(t, err)
	// risk at index 1 only has risk 0 "already computed"; 0.05 is below
	// the 0.1 meaningfulness threshold, so no discount applies.
	assert.Equal(t, 1.0, correlationAdjustmentFactor(m, 1))
}

func TestCorrelationAdjustmentFactorDiscountsPriorRisksOnly(t *testing.T) {
	m, err := correlation.New([]string{"a", "b", "c"}, map[correlation.Pair]float64{
		{A: "a", B: "b"}: 0.6,
		{A: "a", B: "c"}: 0.6,
		{A: "b", B: "c"}: 0.6,
	})
	require.NoError(t, err)

	// Risk 0 has no prior risks to discount against.
	assert.Equal(t, 1.0, correlationAdjustmentFactor(m, 0))
	// Risk 1 discounts only against risk 0: 1 - 0.6*0.1 = 0.94.
	assert.InDelta(t, 0.94, correlationAdjustmentFactor(m, 1), 1e-9)
	// Risk 2 discounts against risks 0 and 1: 1 - 2*0.6*0.1 = 0.88.
	assert.InDelta(t, 0.88, correlationAdjustmentFactor(m, 2), 1e-9)
}

func TestCorrelationAdjustmentFactorCapsCumulativeDiscountAtHalf(t *testing.T) {
	ids := []string{"a", "b", "c", "d", "e", "f", "g"}
	pairs := make(map[correlation.Pair]float64)
	for _, id := range ids[:6] {
		pairs[correlation.Pair{A: id, B: "g"}] = 0.95
	}
	m, err := correlation.New(ids, pairs)
	require.NoError(t, err)

	// "g" comes after all 6 others: 6*0.95*0.1 = 0.57, capped at 0.5.
	factor := correlationAdjustmentFactor(m, 6)
	assert.Equal(t, 0.5, factor)
}

func newDeterministicRisk(t *testing.T, id string, mean, std, baselineImpact float64, impactType riskmodel.ImpactType) *riskmodel.Risk {
	t.Helper()
	d, err := distribution.NewNormal(mean, std)
	require.NoError(t, err)
	return &riskmodel.Risk{
		ID: id, Name: id,
		Category:       riskmodel.CategoryTechnical,
		ImpactType:     impactType,
		Distribution:   d,
		BaselineImpact: baselineImpact,
	}
}

func TestSimulateOneRecordsCorrelationAdjustedContribution(t *testing.T) {
	risks := []*riskmodel.Risk{
		newDeterministicRisk(t, "a", 1, 1e-12, 100, riskmodel.ImpactCost),
		newDeterministicRisk(t, "b", 1, 1e-12, 100, riskmodel.ImpactCost),
	}
	dists := []*distribution.Distribution{risks[0].Distribution, risks[1].Distribution}
	m, err := correlation.New([]string{"a", "b"}, map[correlation.Pair]float64{
		{A: "a", B: "b"}: 0.6,
	})
	require.NoError(t, err)

	rng := rand.New(rand.NewSource(1))
	_, _, impacts, err := simulateOne(risks, dists, m, nil, 0, rng)
	require.NoError(t, err)

	require.Len(t, impacts, 2)
	// Risk a has nothing recorded before it: unadjusted.
	assert.InDelta(t, 100, impacts[0], 1e-6)
	// Risk b discounts against risk a: 100 * (1 - 0.6*0.1) = 94.
	assert.InDelta(t, 94, impacts[1], 1e-6)
}
