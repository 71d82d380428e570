// Copyright 2025 James Ross
package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaultsMatchBalancedPreset(t *testing.T) {
	cfg, err := Load("nonexistent.yaml")
	require.NoError(t, err)
	assert.Equal(t, 50000, cfg.Iterations)
	assert.Equal(t, ConvergenceCombined, cfg.ConvergenceCriteria)
	assert.Equal(t, 0.95, cfg.ConvergenceThreshold)
	assert.True(t, cfg.EnableCaching)
}

func TestPresetsDifferOnIterationsAndCriteria(t *testing.T) {
	assert.Equal(t, 10000, FastPreset().Iterations)
	assert.Equal(t, ConvergenceFixed, FastPreset().ConvergenceCriteria)

	assert.Equal(t, 100000, AccuratePreset().Iterations)
	assert.Equal(t, 0.98, AccuratePreset().ConvergenceThreshold)

	dev := DevelopmentPreset()
	assert.Equal(t, 5000, dev.Iterations)
	assert.False(t, dev.EnableCaching)
}

func TestValidateRejectsIterationsBelowFloor(t *testing.T) {
	cfg := BalancedPreset()
	cfg.Iterations = 999
	assert.Error(t, Validate(cfg))
}

func TestValidateRejectsInvertedIterationBounds(t *testing.T) {
	cfg := BalancedPreset()
	cfg.MinIterations = 5000
	cfg.MaxIterations = 1000
	assert.Error(t, Validate(cfg))
}

func TestValidateRejectsUnknownConvergenceCriteria(t *testing.T) {
	cfg := BalancedPreset()
	cfg.ConvergenceCriteria = "made_up"
	assert.Error(t, Validate(cfg))
}

func TestValidateRejectsThresholdOutOfRange(t *testing.T) {
	cfg := BalancedPreset()
	cfg.ConvergenceThreshold = 1.5
	assert.Error(t, Validate(cfg))
}

func TestValidateRejectsThreadsOutOfRange(t *testing.T) {
	cfg := BalancedPreset()
	cfg.NumThreads = 64
	assert.Error(t, Validate(cfg))
}

func TestValidateAllowsZeroThreads(t *testing.T) {
	cfg := BalancedPreset()
	cfg.NumThreads = 0
	assert.NoError(t, Validate(cfg))
}

func TestValidateRejectsOutOfRangeConfidenceLevel(t *testing.T) {
	cfg := BalancedPreset()
	cfg.ConfidenceLevels = []float64{0.95, 1.5}
	assert.Error(t, Validate(cfg))
}

func TestValidateRejectsSensitivityOutOfRange(t *testing.T) {
	cfg := BalancedPreset()
	cfg.ParameterChangeSensitivity = 1
	assert.Error(t, Validate(cfg))
}
