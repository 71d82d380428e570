// Copyright 2025 James Ross
package calibration

import (
	"context"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func normalSamples(n int, mean, std float64, seed int64) []float64 {
	rng := rand.New(rand.NewSource(seed))
	out := make([]float64, n)
	for i := range out {
		out[i] = mean + std*rng.NormFloat64()
	}
	return out
}

type fakeStore struct {
	projects []CompletedProject
	err      error
}

func (f *fakeStore) LoadCompletedProjects(ctx context.Context) ([]CompletedProject, error) {
	return f.projects, f.err
}

func TestFitRiskFromProjectsRecoversNormalFamily(t *testing.T) {
	projects := []CompletedProject{
		{ID: "p1", ProjectType: "construction", RealizedImpacts: map[string][]float64{
			"r1": normalSamples(50, 1000, 100, 1),
		}},
		{ID: "p2", ProjectType: "infrastructure", RealizedImpacts: map[string][]float64{
			"r1": normalSamples(50, 1000, 100, 2),
		}},
	}

	fitted, err := FitRiskFromProjects(projects, "r1", "")
	require.NoError(t, err)
	assert.Equal(t, 100, fitted.SampleSize)
	assert.InDelta(t, 1000, fitted.Best.Distribution.Mean, 50)
}

func TestFitRiskFromProjectsRequiresMinimumSamples(t *testing.T) {
	projects := []CompletedProject{
		{ID: "p1", RealizedImpacts: map[string][]float64{"r1": {1, 2, 3}}},
	}
	_, err := FitRiskFromProjects(projects, "r1", "")
	require.Error(t, err)
}

func TestFitRiskFromProjectsFiltersByProjectType(t *testing.T) {
	projects := []CompletedProject{
		{ID: "p1", ProjectType: "software", RealizedImpacts: map[string][]float64{
			"r1": normalSamples(50, 1000, 100, 3),
		}},
		{ID: "p2", ProjectType: "construction", RealizedImpacts: map[string][]float64{
			"r1": normalSamples(50, 9000, 100, 4),
		}},
	}

	fitted, err := FitRiskFromProjects(projects, "r1", "research")
	require.NoError(t, err)
	assert.Equal(t, 50, fitted.SampleSize)
}

func TestCalibratorFitRiskUsesStore(t *testing.T) {
	store := &fakeStore{projects: []CompletedProject{
		{ID: "p1", RealizedImpacts: map[string][]float64{"r1": normalSamples(50, 500, 50, 5)}},
	}}
	c := NewCalibrator(store)
	fitted, err := c.FitRisk(context.Background(), "r1", "")
	require.NoError(t, err)
	assert.Equal(t, 50, fitted.SampleSize)
}
