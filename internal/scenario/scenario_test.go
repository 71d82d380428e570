// Copyright 2025 James Ross
package scenario

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/riskforge/montecarlo/internal/distribution"
	"github.com/riskforge/montecarlo/internal/riskmodel"
)

func sampleRisks(t *testing.T) []*riskmodel.Risk {
	t.Helper()
	tri, err := distribution.NewTriangular(10, 20, 40)
	require.NoError(t, err)
	norm, err := distribution.NewNormal(100, 10)
	require.NoError(t, err)

	return []*riskmodel.Risk{
		{
			ID: "r1", Name: "Vendor delay", Category: riskmodel.CategorySchedule,
			ImpactType: riskmodel.ImpactSchedule, Distribution: tri, BaselineImpact: 5000,
			Mitigations: []riskmodel.MitigationStrategy{
				{ID: "m1", Name: "Dual-source", Cost: 1000, ImpactReduction: 0.4},
			},
		},
		{
			ID: "r2", Name: "Scope creep", Category: riskmodel.CategoryTechnical,
			ImpactType: riskmodel.ImpactCost, Distribution: norm, BaselineImpact: 8000,
		},
	}
}

func TestNewDeepCopiesWithoutMutatingBase(t *testing.T) {
	base := sampleRisks(t)
	s, err := New("s1", "", base, map[string]riskmodel.RiskModification{
		"r2": {RiskID: "r2", ParameterDeltas: map[string]float64{ParamBaselineImpact: 2000}},
	})
	require.NoError(t, err)

	r2 := s.RiskByID("r2")
	require.NotNil(t, r2)
	assert.Equal(t, 10000.0, r2.BaselineImpact)

	baseR2 := findRisk(base, "r2")
	assert.Equal(t, 8000.0, baseR2.BaselineImpact)

	require.NoError(t, VerifyIsolation(base, s.Risks))
}

func TestNewReprojectsTriangularAfterDelta(t *testing.T) {
	base := sampleRisks(t)
	s, err := New("s1", "", base, map[string]riskmodel.RiskModification{
		"r1": {RiskID: "r1", ParameterDeltas: map[string]float64{ParamMin: 50, ParamMode: -100, ParamMax: 0}},
	})
	require.NoError(t, err)

	r1 := s.RiskByID("r1")
	assert.LessOrEqual(t, r1.Distribution.Min, r1.Distribution.Mode)
	assert.LessOrEqual(t, r1.Distribution.Mode, r1.Distribution.Max)
	assert.Less(t, r1.Distribution.Min, r1.Distribution.Max)
}

func TestNewAppliesNamedMitigation(t *testing.T) {
	base := sampleRisks(t)
	s, err := New("s1", "", base, map[string]riskmodel.RiskModification{
		"r1": {RiskID: "r1", AppliedMitigationID: "m1"},
	})
	require.NoError(t, err)

	r1 := s.RiskByID("r1")
	assert.InDelta(t, 3000.0, r1.BaselineImpact, 1e-9) // 5000 * (1 - 0.4)
}

func TestNewRejectsUnknownMitigation(t *testing.T) {
	base := sampleRisks(t)
	_, err := New("s1", "", base, map[string]riskmodel.RiskModification{
		"r1": {RiskID: "r1", AppliedMitigationID: "ghost"},
	})
	require.Error(t, err)
}

func TestApplyMitigationScalesTriangularShape(t *testing.T) {
	base := sampleRisks(t)
	r1 := findRisk(base, "r1")
	strategy := riskmodel.MitigationStrategy{ID: "m1", Cost: 1000, ImpactReduction: 0.6}

	ApplyMitigation(r1, strategy)

	assert.InDelta(t, 2000.0, r1.BaselineImpact, 1e-9) // 5000 * 0.4
	assert.LessOrEqual(t, r1.Distribution.Min, r1.Distribution.Mode)
	assert.LessOrEqual(t, r1.Distribution.Mode, r1.Distribution.Max)
}

func TestVerifyIsolationDetectsSharedRisk(t *testing.T) {
	base := sampleRisks(t)
	shared := []*riskmodel.Risk{base[0]}
	err := VerifyIsolation(base, shared)
	assert.Error(t, err)
}

func TestVerifyIsolationPassesForIndependentClones(t *testing.T) {
	base := sampleRisks(t)
	s, err := New("s1", "", base, nil)
	require.NoError(t, err)
	assert.NoError(t, VerifyIsolation(base, s.Risks))
}
