// Copyright 2025 James Ross
package escalation

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultFactorsCoverFourTypes(t *testing.T) {
	factors := DefaultFactors()
	require.Len(t, factors, 4)
}

func TestActiveFactorsOverridesAndRemoves(t *testing.T) {
	custom := []Factor{{Type: Inflation, AnnualRate: 0.10, Compounding: Annually}}
	removed := map[FactorType]bool{Currency: true}

	active := ActiveFactors(custom, removed)

	var sawInflation, sawCurrency bool
	for _, f := range active {
		if f.Type == Inflation {
			sawInflation = true
			assert.Equal(t, 0.10, f.AnnualRate)
		}
		if f.Type == Currency {
			sawCurrency = true
		}
	}
	assert.True(t, sawInflation)
	assert.False(t, sawCurrency)
}

func TestCompoundedMultiplierMatchesLinearNearZero(t *testing.T) {
	m := compoundedMultiplier(0, 1, 5)
	assert.InDelta(t, 0, m, 1e-12)
}

func TestCompoundedMultiplierCompoundsOverYears(t *testing.T) {
	m := compoundedMultiplier(0.05, 1, 10)
	assert.Greater(t, m, 0.05*10)
}

func TestApplyEscalatesBaseCostUpward(t *testing.T) {
	factors := []Factor{{Type: Inflation, AnnualRate: 0.03, Compounding: Annually}}
	rng := rand.New(rand.NewSource(1))

	result := Apply(factors, 1000, nil, 5, rng)

	assert.Greater(t, result.EscalatedCost, result.BaseCost)
	assert.InDelta(t, result.BaseCost+result.EscalationAmount, result.EscalatedCost, 1e-9)
}

func TestApplyWarnsOnExtremeRate(t *testing.T) {
	factors := []Factor{{Type: Inflation, AnnualRate: 0.9, Compounding: Annually}}
	rng := rand.New(rand.NewSource(1))

	result := Apply(factors, 1000, nil, 1, rng)

	assert.NotEmpty(t, result.Warnings)
}

func TestApplyWarnsOnCategoryWeightsOverLimit(t *testing.T) {
	factors := []Factor{{Type: Material, AnnualRate: 0.03, Compounding: Annually,
		CategoryWeights: map[string]float64{"concrete": 0.8, "steel": 0.5}}}
	rng := rand.New(rand.NewSource(1))

	result := Apply(factors, 1000, map[string]float64{"concrete": 400, "steel": 600}, 1, rng)

	assert.NotEmpty(t, result.Warnings)
}
