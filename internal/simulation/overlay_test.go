// Copyright 2025 James Ross
package simulation

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/riskforge/montecarlo/internal/riskmodel"
	"github.com/riskforge/montecarlo/internal/schedule"
)

func TestBuildScheduleContextNilForNoSchedule(t *testing.T) {
	ctx, err := buildScheduleContext(nil)
	require.NoError(t, err)
	assert.Nil(t, ctx)
}

func TestBuildScheduleContextWiresActivities(t *testing.T) {
	data := &riskmodel.ScheduleData{
		Activities: []riskmodel.Activity{
			{ID: "a1", BaselineDuration: 5},
			{ID: "a2", BaselineDuration: 3},
		},
		Dependencies: []riskmodel.DependencyEdge{
			{PredecessorID: "a1", SuccessorID: "a2"},
		},
	}
	ctx, err := buildScheduleContext(data)
	require.NoError(t, err)
	require.NotNil(t, ctx)
	assert.Equal(t, 8, ctx.cpm.ProjectDuration)
}

func TestScheduleOverlayDaysIsZeroWithoutSchedule(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	assert.Equal(t, 0.0, scheduleOverlayDays(nil, 10, rng))
}

func TestScheduleOverlayDaysScalesWithCriticalRatio(t *testing.T) {
	data := &riskmodel.ScheduleData{
		Activities: []riskmodel.Activity{
			{ID: "a1", BaselineDuration: 5},
		},
	}
	ctx, err := buildScheduleContext(data)
	require.NoError(t, err)
	rng := rand.New(rand.NewSource(1))
	overlay := scheduleOverlayDays(ctx, 10, rng)
	assert.Greater(t, overlay, 0.0)
}

func TestScheduleOverlayDaysNeverNegative(t *testing.T) {
	// A single, entirely non-critical, high-float activity makes
	// nonCriticalAbsorption's negative term outweigh the small
	// multiplicative and project-wide terms, which would otherwise
	// produce a negative overlay (time gained) absent the floor.
	ctx := &scheduleContext{
		data: &riskmodel.ScheduleData{
			Activities: []riskmodel.Activity{{ID: "a1", BaselineDuration: 1}},
		},
		cpm: &schedule.CPMResult{
			Critical:        []bool{false},
			TotalFloat:      []int{1000},
			ProjectDuration: 1,
		},
	}
	rng := rand.New(rand.NewSource(1))
	overlay := scheduleOverlayDays(ctx, 10, rng)
	assert.Equal(t, 0.0, overlay)
}
