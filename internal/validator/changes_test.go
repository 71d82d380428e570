// Copyright 2025 James Ross
package validator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/riskforge/montecarlo/internal/correlation"
	"github.com/riskforge/montecarlo/internal/distribution"
	"github.com/riskforge/montecarlo/internal/riskmodel"
)

func normalRisk(t *testing.T, id string, mean, std, baselineImpact float64) *riskmodel.Risk {
	t.Helper()
	dist, err := distribution.NewNormal(mean, std)
	require.NoError(t, err)
	return &riskmodel.Risk{
		ID: id, Name: "risk " + id,
		Category: riskmodel.CategoryCost, ImpactType: riskmodel.ImpactCost,
		Distribution: dist, BaselineImpact: baselineImpact,
	}
}

func TestDetectChangesRiskAddedAndRemoved(t *testing.T) {
	base := []*riskmodel.Risk{normalRisk(t, "r1", 100, 10, 100)}
	curr := []*riskmodel.Risk{normalRisk(t, "r2", 100, 10, 100)}

	report := DetectChanges(base, curr, nil, nil, 0)

	var kinds []ChangeKind
	for _, c := range report.Changes {
		kinds = append(kinds, c.Kind)
	}
	assert.Contains(t, kinds, ChangeRiskAdded)
	assert.Contains(t, kinds, ChangeRiskRemoved)
	assert.Equal(t, 1, report.CountsBySeverity[SeverityMedium])
	assert.Equal(t, 1, report.CountsBySeverity[SeverityHigh])
}

func TestDetectChangesDistributionFamilySwapIsCritical(t *testing.T) {
	base := []*riskmodel.Risk{normalRisk(t, "r1", 100, 10, 100)}
	triDist, err := distribution.NewTriangular(80, 100, 140)
	require.NoError(t, err)
	curr := []*riskmodel.Risk{{
		ID: "r1", Name: "risk r1", Category: riskmodel.CategoryCost, ImpactType: riskmodel.ImpactCost,
		Distribution: triDist, BaselineImpact: 100,
	}}

	report := DetectChanges(base, curr, nil, nil, 0)
	require.Len(t, report.Changes, 1)
	assert.Equal(t, ChangeDistributionFamily, report.Changes[0].Kind)
	assert.Equal(t, SeverityCritical, report.Changes[0].Severity)
}

func TestDetectChangesParameterDeltaBelowSensitivityIsIgnored(t *testing.T) {
	base := []*riskmodel.Risk{normalRisk(t, "r1", 100, 10, 100)}
	curr := []*riskmodel.Risk{normalRisk(t, "r1", 100+1e-9, 10, 100)}

	report := DetectChanges(base, curr, nil, nil, 0)
	assert.Empty(t, report.Changes)
}

func TestDetectChangesParameterDeltaSeverityLadder(t *testing.T) {
	base := []*riskmodel.Risk{normalRisk(t, "r1", 100, 10, 100)}
	curr := []*riskmodel.Risk{normalRisk(t, "r1", 160, 10, 100)} // +60% -> critical

	report := DetectChanges(base, curr, nil, nil, 0)
	var found bool
	for _, c := range report.Changes {
		if c.Kind == ChangeParameter && c.Field == "mean" {
			assert.Equal(t, SeverityCritical, c.Severity)
			found = true
		}
	}
	assert.True(t, found)
}

func TestDetectChangesBaselineImpactChange(t *testing.T) {
	base := []*riskmodel.Risk{normalRisk(t, "r1", 100, 10, 100)}
	curr := []*riskmodel.Risk{normalRisk(t, "r1", 100, 10, 125)} // +25% -> high

	report := DetectChanges(base, curr, nil, nil, 0)
	var found bool
	for _, c := range report.Changes {
		if c.Kind == ChangeBaselineImpact {
			assert.Equal(t, SeverityHigh, c.Severity)
			found = true
		}
	}
	assert.True(t, found)
}

func TestDetectChangesCategoryAndImpactTypeFlip(t *testing.T) {
	base := normalRisk(t, "r1", 100, 10, 100)
	curr := normalRisk(t, "r1", 100, 10, 100)
	curr.Category = riskmodel.CategoryTechnical
	curr.ImpactType = riskmodel.ImpactSchedule

	report := DetectChanges([]*riskmodel.Risk{base}, []*riskmodel.Risk{curr}, nil, nil, 0)

	var kinds []ChangeKind
	for _, c := range report.Changes {
		kinds = append(kinds, c.Kind)
	}
	assert.Contains(t, kinds, ChangeCategory)
	assert.Contains(t, kinds, ChangeImpactType)
}

func TestDetectChangesCorrelationDelta(t *testing.T) {
	base, err := correlation.New([]string{"r1", "r2"}, map[correlation.Pair]float64{
		{A: "r1", B: "r2"}: 0.2,
	})
	require.NoError(t, err)
	curr, err := correlation.New([]string{"r1", "r2"}, map[correlation.Pair]float64{
		{A: "r1", B: "r2"}: 0.75,
	})
	require.NoError(t, err)

	risks := []*riskmodel.Risk{normalRisk(t, "r1", 100, 10, 100), normalRisk(t, "r2", 100, 10, 100)}
	report := DetectChanges(risks, risks, base, curr, 0)

	require.Len(t, report.Changes, 1)
	assert.Equal(t, ChangeCorrelation, report.Changes[0].Kind)
	assert.Equal(t, SeverityCritical, report.Changes[0].Severity) // delta 0.55 >= 0.5
}

func TestDetectChangesNoChangesYieldsNoActionNextStep(t *testing.T) {
	risks := []*riskmodel.Risk{normalRisk(t, "r1", 100, 10, 100)}
	report := DetectChanges(risks, risks, nil, nil, 0)
	assert.Empty(t, report.Changes)
	assert.Contains(t, report.NextSteps, "No material changes detected; no action required")
}

func TestRelativeSeverityLadder(t *testing.T) {
	assert.Equal(t, SeverityCritical, relativeSeverity(0.51))
	assert.Equal(t, SeverityHigh, relativeSeverity(0.21))
	assert.Equal(t, SeverityMedium, relativeSeverity(0.06))
	assert.Equal(t, SeverityLow, relativeSeverity(0.01))
}

func TestCorrelationSeverityLadder(t *testing.T) {
	assert.Equal(t, SeverityCritical, correlationSeverity(0.5))
	assert.Equal(t, SeverityHigh, correlationSeverity(0.3))
	assert.Equal(t, SeverityMedium, correlationSeverity(0.1))
	assert.Equal(t, SeverityLow, correlationSeverity(0.05))
}
