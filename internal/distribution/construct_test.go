// Copyright 2025 James Ross
package distribution

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateFromPERT(t *testing.T) {
	pert := &PERT{O: 10, M: 15, P: 30}

	for _, family := range DefaultCandidateFamilies {
		d, err := Create(CreationInput{Family: family, PERT: pert})
		require.NoError(t, err, "family %s", family)
		assert.Equal(t, family, d.Family)
	}
}

func TestCreateFromHistorical(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	samples := make([]float64, 200)
	for i := range samples {
		samples[i] = 100 + 15*rng.NormFloat64()
	}

	d, err := Create(CreationInput{Family: Normal, Historical: samples})
	require.NoError(t, err)
	assert.InDelta(t, 100, d.Mean, 5)
}

func TestCreateRequiresASource(t *testing.T) {
	_, err := Create(CreationInput{Family: Normal})
	assert.Error(t, err)
}

func TestCreateAppliesBoundsOverride(t *testing.T) {
	d, err := Create(CreationInput{
		Family: Normal,
		Params: map[string]float64{"mean": 0, "std": 1},
		Bounds: &Bounds{HasLower: true, Lower: -2, HasUpper: true, Upper: 2},
	})
	require.NoError(t, err)
	require.NotNil(t, d.Bounds)
	assert.Equal(t, -2.0, d.Bounds.Lower)
	assert.Equal(t, 2.0, d.Bounds.Upper)
}

func TestTriangularFromHistoricalHandlesConstantData(t *testing.T) {
	samples := make([]float64, 10)
	for i := range samples {
		samples[i] = 42
	}
	d, err := triangularFromHistorical(samples)
	require.NoError(t, err)
	assert.True(t, d.Min < d.Max)
}

func TestBetaFromHistoricalStaysWithinUnitVariance(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	samples := make([]float64, 500)
	for i := range samples {
		samples[i] = 50 + 10*rng.Float64()
	}
	d, err := betaFromHistorical(samples)
	require.NoError(t, err)
	assert.Greater(t, d.Alpha, 0.0)
	assert.Greater(t, d.Beta, 0.0)
}
