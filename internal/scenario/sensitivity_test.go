// Copyright 2025 James Ross
package scenario

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAnalyzeSensitivityBuildsLowHighPair(t *testing.T) {
	base := sampleRisks(t)
	results, err := AnalyzeSensitivity(base, map[string]float64{
		"r1": 0.2,
		"r2": 0.1,
	})
	require.NoError(t, err)
	require.Len(t, results, 2)

	// sorted by |ratio| descending: r1 (0.4) before r2 (0.2)
	assert.Equal(t, "r1", results[0].RiskID)
	assert.InDelta(t, 0.4, results[0].SensitivityRatio, 1e-9)

	low := results[0].LowScenario.RiskByID("r1")
	high := results[0].HighScenario.RiskByID("r1")
	baseline := findRisk(base, "r1")
	assert.InDelta(t, baseline.BaselineImpact*0.8, low.BaselineImpact, 1e-9)
	assert.InDelta(t, baseline.BaselineImpact*1.2, high.BaselineImpact, 1e-9)
}

func TestAnalyzeSensitivityRejectsOutOfRangeVariation(t *testing.T) {
	base := sampleRisks(t)
	_, err := AnalyzeSensitivity(base, map[string]float64{"r1": 1.5})
	assert.Error(t, err)

	_, err = AnalyzeSensitivity(base, map[string]float64{"r1": 0})
	assert.Error(t, err)
}

func TestAnalyzeSensitivityRejectsUnknownRisk(t *testing.T) {
	base := sampleRisks(t)
	_, err := AnalyzeSensitivity(base, map[string]float64{"ghost": 0.1})
	assert.Error(t, err)
}
