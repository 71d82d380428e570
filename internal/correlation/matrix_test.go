// Copyright 2025 James Ross
package correlation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewBuildsUnitDiagonal(t *testing.T) {
	m, err := New([]string{"r1", "r2", "r3"}, map[Pair]float64{
		{A: "r1", B: "r2"}: 0.5,
	})
	require.NoError(t, err)
	for i := 0; i < m.N(); i++ {
		assert.Equal(t, 1.0, m.At(i, i))
	}
	i1, _ := m.IndexOf("r1")
	i2, _ := m.IndexOf("r2")
	assert.Equal(t, 0.5, m.At(i1, i2))
	assert.Equal(t, 0.5, m.At(i2, i1))
}

func TestNewRejectsOutOfRangeCoefficient(t *testing.T) {
	_, err := New([]string{"r1", "r2"}, map[Pair]float64{
		{A: "r1", B: "r2"}: 1.5,
	})
	assert.Error(t, err)
}

func TestNewRejectsUnknownRiskID(t *testing.T) {
	_, err := New([]string{"r1", "r2"}, map[Pair]float64{
		{A: "r1", B: "r3"}: 0.2,
	})
	assert.Error(t, err)
}

func TestNewRejectsEmptyRiskList(t *testing.T) {
	_, err := New(nil, nil)
	assert.Error(t, err)
}

func TestCloneIsIndependent(t *testing.T) {
	m, err := New([]string{"r1", "r2"}, map[Pair]float64{{A: "r1", B: "r2"}: 0.3})
	require.NoError(t, err)

	clone := m.Clone()
	clone.dense[0][1] = 0.9

	assert.Equal(t, 0.3, m.At(0, 1))
	assert.Equal(t, 0.9, clone.At(0, 1))
}
