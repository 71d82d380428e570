// Copyright 2025 James Ross
package distribution

import (
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSampleRespectsBounds(t *testing.T) {
	rng := rand.New(rand.NewSource(1))

	cases := []struct {
		name string
		d    *Distribution
	}{
		{"normal", mustDist(t, NewNormal(100, 20))},
		{"triangular", mustDist(t, NewTriangular(10, 50, 90))},
		{"uniform", mustDist(t, NewUniform(5, 15))},
		{"beta", mustDist(t, NewBeta(2, 5))},
		{"lognormal", mustDist(t, NewLognormal(0, 0.5))},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			samples := tc.d.Sample(5000, rng)
			require.Len(t, samples, 5000)
			for _, s := range samples {
				assert.False(t, math.IsNaN(s), "sample must not be NaN")
				assert.False(t, math.IsInf(s, 0), "sample must not be infinite")
			}
		})
	}
}

func TestSampleBoundsClip(t *testing.T) {
	rng := rand.New(rand.NewSource(2))
	d := mustDist(t, NewNormal(0, 1))
	d.Bounds = &Bounds{HasLower: true, Lower: -1, HasUpper: true, Upper: 1}

	samples := d.Sample(2000, rng)
	for _, s := range samples {
		assert.GreaterOrEqual(t, s, -1.0)
		assert.LessOrEqual(t, s, 1.0)
	}
}

func TestCDFQuantileRoundTrip(t *testing.T) {
	rng := rand.New(rand.NewSource(3))

	dists := []*Distribution{
		mustDist(t, NewNormal(50, 10)),
		mustDist(t, NewTriangular(0, 30, 100)),
		mustDist(t, NewUniform(-5, 5)),
		mustDist(t, NewBeta(2, 3)),
		mustDist(t, NewLognormal(1, 0.3)),
	}

	for _, d := range dists {
		for i := 0; i < 20; i++ {
			u := 0.01 + rng.Float64()*0.98
			x := d.Quantile(u)
			back := d.CDF(x)
			assert.InDelta(t, u, back, 1e-4, "family %s round trip at u=%f", d.Family, u)
		}
	}
}

func TestNewNormalRejectsNonPositiveStd(t *testing.T) {
	_, err := NewNormal(10, 0)
	assert.Error(t, err)
	_, err = NewNormal(10, -1)
	assert.Error(t, err)
}

func TestNewTriangularRejectsBadOrdering(t *testing.T) {
	_, err := NewTriangular(10, 5, 20)
	assert.Error(t, err)
	_, err = NewTriangular(10, 10, 10)
	assert.Error(t, err)
}

func TestNewBetaRejectsNonPositiveParams(t *testing.T) {
	_, err := NewBeta(0, 2)
	assert.Error(t, err)
	_, err = NewBeta(2, -1)
	assert.Error(t, err)
}

func TestCloneIsIndependent(t *testing.T) {
	d := mustDist(t, NewNormal(1, 2))
	d.Bounds = &Bounds{HasLower: true, Lower: -10, HasUpper: true, Upper: 10}

	clone := d.Clone()
	clone.Mean = 999
	clone.Bounds.Lower = -999

	assert.Equal(t, 1.0, d.Mean)
	assert.Equal(t, -10.0, d.Bounds.Lower)
}

func mustDist(t *testing.T, d *Distribution, err error) *Distribution {
	t.Helper()
	require.NoError(t, err)
	return d
}
