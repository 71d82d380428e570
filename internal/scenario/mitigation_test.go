// Copyright 2025 James Ross
package scenario

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAnalyzeMitigationBasicMath(t *testing.T) {
	result := AnalyzeMitigation(10000, 2000, 0.5, 1.0)

	assert.Equal(t, 10000.0, result.BaselineRisk)
	assert.Equal(t, 5000.0, result.MitigatedRisk)
	assert.Equal(t, 5000.0, result.Reduction)
	assert.Equal(t, 0.4, result.CostBenefit) // 2000/5000
	assert.Equal(t, 3000.0, result.NPV)      // 5000-2000
	assert.Equal(t, 1.5, result.ROI)          // (5000-2000)/2000
	assert.Equal(t, 3000.0, result.ExpectedValue)
}

func TestAnalyzeMitigationExpectedValueScalesByProbability(t *testing.T) {
	result := AnalyzeMitigation(10000, 2000, 0.5, 0.5)
	assert.Equal(t, 0.5*5000-2000, result.ExpectedValue)
}

func TestAnalyzeMitigationZeroReductionGivesInfiniteCostBenefit(t *testing.T) {
	result := AnalyzeMitigation(10000, 2000, 0, 1.0)
	assert.True(t, math.IsInf(result.CostBenefit, 1))
}

func TestAnalyzeMitigationZeroCostGivesInfiniteROI(t *testing.T) {
	result := AnalyzeMitigation(10000, 0, 0.5, 1.0)
	assert.True(t, math.IsInf(result.ROI, 1))
}
