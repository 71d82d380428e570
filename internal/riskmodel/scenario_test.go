// Copyright 2025 James Ross
package riskmodel

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewScenarioIsolatesRisksFromSource(t *testing.T) {
	source := []*Risk{newTestRisk(t, "r1"), newTestRisk(t, "r2")}
	scenario := NewScenario("s1", "test scenario", source)

	assert.True(t, scenario.IsIsolatedFrom(source))
	assert.NotEmpty(t, scenario.ID)
	assert.Len(t, scenario.Risks, 2)

	scenario.RiskByID("r1").Distribution.Mean = 999
	assert.Equal(t, 100.0, source[0].Distribution.Mean)
}

func TestScenarioRiskByIDReturnsNilForUnknown(t *testing.T) {
	source := []*Risk{newTestRisk(t, "r1")}
	scenario := NewScenario("s1", "", source)
	assert.Nil(t, scenario.RiskByID("ghost"))
}

func TestIsIsolatedFromDetectsSharedPointer(t *testing.T) {
	source := []*Risk{newTestRisk(t, "r1")}
	scenario := &Scenario{ID: "s1", Risks: source}
	assert.False(t, scenario.IsIsolatedFrom(source))
}
