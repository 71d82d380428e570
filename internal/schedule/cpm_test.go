// Copyright 2025 James Ross
package schedule

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildLinearGraph(t *testing.T) *Graph {
	t.Helper()
	g, err := NewGraph([]Task{
		{ID: "A", Duration: 3},
		{ID: "B", Duration: 5},
		{ID: "C", Duration: 2},
	})
	require.NoError(t, err)
	require.NoError(t, g.AddDependency("A", "B", FinishToStart, 0))
	require.NoError(t, g.AddDependency("B", "C", FinishToStart, 0))
	return g
}

func TestRunComputesCriticalPathOnLinearChain(t *testing.T) {
	g := buildLinearGraph(t)
	result, err := Run(g)
	require.NoError(t, err)

	for i := 0; i < g.N(); i++ {
		assert.True(t, result.Critical[i], "task %d should be critical in a linear chain", i)
		assert.Equal(t, 0, result.TotalFloat[i])
	}
	assert.Equal(t, 10, result.ProjectDuration) // 3 + 5 + 2
}

func TestRunComputesFloatOnBranchingGraph(t *testing.T) {
	g, err := NewGraph([]Task{
		{ID: "A", Duration: 2},
		{ID: "B", Duration: 10},
		{ID: "C", Duration: 3},
		{ID: "D", Duration: 1},
	})
	require.NoError(t, err)
	require.NoError(t, g.AddDependency("A", "B", FinishToStart, 0))
	require.NoError(t, g.AddDependency("A", "C", FinishToStart, 0))
	require.NoError(t, g.AddDependency("B", "D", FinishToStart, 0))
	require.NoError(t, g.AddDependency("C", "D", FinishToStart, 0))

	result, err := Run(g)
	require.NoError(t, err)

	bIdx, _ := g.IndexOf("B")
	cIdx, _ := g.IndexOf("C")
	assert.True(t, result.Critical[bIdx])
	assert.False(t, result.Critical[cIdx])
	assert.Greater(t, result.TotalFloat[cIdx], 0)
}

func TestAddDependencyRejectsCycle(t *testing.T) {
	g := buildLinearGraph(t)
	err := g.AddDependency("C", "A", FinishToStart, 0)
	assert.Error(t, err)
}

func TestAddDependencyRejectsDuplicate(t *testing.T) {
	g := buildLinearGraph(t)
	err := g.AddDependency("A", "B", FinishToStart, 0)
	assert.Error(t, err)
}

func TestAddDependencyRejectsUnknownTask(t *testing.T) {
	g := buildLinearGraph(t)
	err := g.AddDependency("A", "Z", FinishToStart, 0)
	assert.Error(t, err)
}

func TestDetectCyclesOnAcyclicGraphReturnsNil(t *testing.T) {
	g := buildLinearGraph(t)
	assert.NoError(t, DetectCycles(g))
}

func TestCompressionAnalysisFindsCrashAndFastTrackCandidates(t *testing.T) {
	g := buildLinearGraph(t)
	result, err := Run(g)
	require.NoError(t, err)

	crash, fastTrack := CompressionAnalysis(g, result)
	assert.NotEmpty(t, crash)
	assert.NotEmpty(t, fastTrack)
	for _, c := range crash {
		assert.Greater(t, c.MaxSavingDays, 0)
	}
}
