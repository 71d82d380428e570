// Copyright 2025 James Ross
package analysis

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRankContributionsOrdersByUncertaintyIndex(t *testing.T) {
	n := 500
	cost := make([]float64, n)
	dominant := make([]float64, n)
	weak := make([]float64, n)
	for i := 0; i < n; i++ {
		x := float64(i)
		dominant[i] = x
		weak[i] = float64(i % 3)
		cost[i] = x * 2
	}

	contributions := map[string][]float64{
		"dominant-risk": dominant,
		"weak-risk":     weak,
	}

	ranked := RankContributions(contributions, cost, 0)
	assert.Len(t, ranked, 2)
	assert.Equal(t, "dominant-risk", ranked[0].RiskID)
	assert.Greater(t, ranked[0].UncertaintyIndex, ranked[1].UncertaintyIndex)
}

func TestRankContributionsTopN(t *testing.T) {
	cost := []float64{1, 2, 3, 4, 5}
	contributions := map[string][]float64{
		"a": {1, 2, 3, 4, 5},
		"b": {5, 4, 3, 2, 1},
		"c": {1, 1, 1, 1, 1},
	}

	ranked := RankContributions(contributions, cost, 1)
	assert.Len(t, ranked, 1)
}

func TestRankContributionsZeroVarianceRisk(t *testing.T) {
	cost := []float64{1, 2, 3, 4, 5}
	contributions := map[string][]float64{
		"constant": {7, 7, 7, 7, 7},
	}

	ranked := RankContributions(contributions, cost, 0)
	assert.Len(t, ranked, 1)
	assert.Equal(t, 0.0, ranked[0].CostCorrelation)
}

func TestPearsonPerfectCorrelation(t *testing.T) {
	a := []float64{1, 2, 3, 4, 5}
	b := []float64{2, 4, 6, 8, 10}
	assert.InDelta(t, 1.0, pearson(a, b), 1e-9)
}

func TestPearsonInverseCorrelation(t *testing.T) {
	a := []float64{1, 2, 3, 4, 5}
	b := []float64{10, 8, 6, 4, 2}
	assert.InDelta(t, -1.0, pearson(a, b), 1e-9)
}

func TestPearsonZeroVariance(t *testing.T) {
	a := []float64{3, 3, 3}
	b := []float64{1, 2, 3}
	assert.Equal(t, 0.0, pearson(a, b))
}
