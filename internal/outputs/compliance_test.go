// Copyright 2025 James Ross
package outputs

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAnalyzeBudgetComplianceAllWithinBudget(t *testing.T) {
	outcomes := []float64{90, 92, 95, 98, 99}
	result := AnalyzeBudgetCompliance(outcomes, 100)
	assert.Equal(t, 1.0, result.ComplianceProbability)
	assert.Equal(t, 0.0, result.CostAtRisk)
	assert.Equal(t, TierVeryHigh, result.Tier)
}

func TestAnalyzeBudgetComplianceWithOverruns(t *testing.T) {
	outcomes := []float64{80, 90, 110, 120, 100}
	result := AnalyzeBudgetCompliance(outcomes, 100)
	assert.InDelta(t, 0.6, result.ComplianceProbability, 1e-9)
	assert.InDelta(t, 15.0, result.CostAtRisk, 1e-9) // mean of (110-100),(120-100)
	assert.Equal(t, TierLow, result.Tier)
}

func TestComplianceTierBoundaries(t *testing.T) {
	assert.Equal(t, TierVeryHigh, complianceTier(0.95))
	assert.Equal(t, TierHigh, complianceTier(0.90))
	assert.Equal(t, TierMedium, complianceTier(0.70))
	assert.Equal(t, TierLow, complianceTier(0.69))
}

func TestAnalyzeScheduleComplianceWithMilestones(t *testing.T) {
	durations := []float64{50, 60, 70, 80, 200}
	milestones := []MilestoneTarget{
		{ID: "design-freeze", TargetDay: 60},
		{ID: "launch", TargetDay: 100},
	}

	result := AnalyzeScheduleCompliance(durations, 100, milestones)
	assert.InDelta(t, 0.8, result.ComplianceProbability, 1e-9)
	assert.InDelta(t, 100.0, result.DaysAtRisk, 1e-9)
	assert.InDelta(t, 0.4, result.MilestoneProbabilities["design-freeze"], 1e-9)
	assert.InDelta(t, 0.8, result.MilestoneProbabilities["launch"], 1e-9)
}

func TestAnalyzeScheduleComplianceEmptyOutcomes(t *testing.T) {
	result := AnalyzeScheduleCompliance(nil, 100, nil)
	assert.Equal(t, TierLow, result.Tier)
	assert.Nil(t, result.MilestoneProbabilities)
}
