// Copyright 2025 James Ross
package calibration

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestProjectSimilarityComputesMatchRatio(t *testing.T) {
	a := CompletedProject{ID: "a", ProjectType: "construction", Characteristics: map[string]float64{
		"duration_months": 12, "team_size": 20, "budget": 1_000_000,
	}}
	b := CompletedProject{ID: "b", ProjectType: "infrastructure", Characteristics: map[string]float64{
		"duration_months": 12.5, "team_size": 50, "budget": 1_050_000,
	}}

	score := ProjectSimilarity(a, b)
	assert.InDelta(t, 2.0/3.0, score.Score, 1e-9) // duration and budget match within 20%, team_size doesn't
	assert.True(t, score.TypeMatch)
}

func TestProjectSimilarityNoCommonCharacteristics(t *testing.T) {
	a := CompletedProject{ID: "a", Characteristics: map[string]float64{"x": 1}}
	b := CompletedProject{ID: "b", Characteristics: map[string]float64{"y": 2}}
	score := ProjectSimilarity(a, b)
	assert.Equal(t, 0.0, score.Score)
}

func TestSimilarityCacheIsSymmetric(t *testing.T) {
	a := CompletedProject{ID: "a", Characteristics: map[string]float64{"x": 100}}
	b := CompletedProject{ID: "b", Characteristics: map[string]float64{"x": 105}}

	cache := NewSimilarityCache()
	s1 := cache.Similarity(a, b)
	s2 := cache.Similarity(b, a)
	assert.Equal(t, s1.Score, s2.Score)
	assert.Len(t, cache.entries, 1)
}

func TestFindSimilarProjectsSortsDescending(t *testing.T) {
	target := CompletedProject{ID: "target", Characteristics: map[string]float64{"x": 100, "y": 100}}
	candidates := []CompletedProject{
		{ID: "close", Characteristics: map[string]float64{"x": 101, "y": 101}},
		{ID: "far", Characteristics: map[string]float64{"x": 200, "y": 101}},
		{ID: "self-type", Characteristics: map[string]float64{"x": 100, "y": 100}},
	}

	results := FindSimilarProjects(NewSimilarityCache(), target, candidates, 0.4)
	require_ := assert.New(t)
	require_.GreaterOrEqual(len(results), 2)
	for i := 1; i < len(results); i++ {
		require_.GreaterOrEqual(results[i-1].Score, results[i].Score)
	}
}

func TestSameEquivalenceClass(t *testing.T) {
	assert.True(t, SameEquivalenceClass("construction", "infrastructure"))
	assert.True(t, SameEquivalenceClass("Software", "research"))
	assert.True(t, SameEquivalenceClass("Construction", "construction"))
	assert.False(t, SameEquivalenceClass("construction", "software"))
}
