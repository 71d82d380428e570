// Copyright 2025 James Ross
package riskmodel

import (
	"math"
	"testing"

	"github.com/riskforge/montecarlo/internal/distribution"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRisk(t *testing.T, id string) *Risk {
	t.Helper()
	d, err := distribution.NewNormal(100, 10)
	require.NoError(t, err)
	return &Risk{
		ID:             id,
		Name:           "test risk " + id,
		Category:       CategoryCost,
		ImpactType:     ImpactCost,
		Distribution:   d,
		BaselineImpact: 1.0,
	}
}

func TestRiskValidateRejectsEmptyID(t *testing.T) {
	r := newTestRisk(t, "r1")
	r.ID = ""
	assert.Error(t, r.Validate())
}

func TestRiskValidateRejectsNilDistribution(t *testing.T) {
	r := newTestRisk(t, "r1")
	r.Distribution = nil
	assert.Error(t, r.Validate())
}

func TestRiskValidateRejectsNonFiniteBaselineImpact(t *testing.T) {
	r := newTestRisk(t, "r1")
	r.BaselineImpact = math.Inf(1)
	assert.Error(t, r.Validate())
}

func TestRiskCloneIsIndependent(t *testing.T) {
	r := newTestRisk(t, "r1")
	clone := r.Clone()
	clone.Name = "mutated"
	clone.Distribution.Mean = 999

	assert.Equal(t, "test risk r1", r.Name)
	assert.Equal(t, 100.0, r.Distribution.Mean)
}

func TestValidateRiskSetRejectsEmpty(t *testing.T) {
	assert.Error(t, ValidateRiskSet(nil))
}

func TestValidateRiskSetRejectsDuplicateID(t *testing.T) {
	r1 := newTestRisk(t, "dup")
	r2 := newTestRisk(t, "dup")
	assert.Error(t, ValidateRiskSet([]*Risk{r1, r2}))
}

func TestValidateRiskSetAcceptsValidSet(t *testing.T) {
	r1 := newTestRisk(t, "r1")
	r2 := newTestRisk(t, "r2")
	assert.NoError(t, ValidateRiskSet([]*Risk{r1, r2}))
}
