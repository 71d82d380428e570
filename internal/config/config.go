// Copyright 2025 James Ross
// Package config loads and validates the simulation engine's
// Configuration, the single option struct that governs iteration
// counts, convergence criteria, parallelism, caching, and output
// shaping for a run.
package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"
)

// ConvergenceCriteria names which convergence signal a run's stopping
// rule is based on.
type ConvergenceCriteria string

const (
	ConvergenceFixed               ConvergenceCriteria = "fixed"
	ConvergenceMeanStability       ConvergenceCriteria = "mean_stability"
	ConvergenceVarianceStability   ConvergenceCriteria = "variance_stability"
	ConvergencePercentileStability ConvergenceCriteria = "percentile_stability"
	ConvergenceCombined            ConvergenceCriteria = "combined"
)

// Configuration is the engine's single option structure, mirroring the
// External Interfaces option set exactly.
type Configuration struct {
	Iterations    int    `mapstructure:"iterations"`
	MinIterations int    `mapstructure:"min_iterations"`
	MaxIterations int    `mapstructure:"max_iterations"`
	RandomSeed    uint32 `mapstructure:"random_seed"`
	HasRandomSeed bool   `mapstructure:"-"`

	ConvergenceCriteria      ConvergenceCriteria `mapstructure:"convergence_criteria"`
	ConvergenceThreshold     float64             `mapstructure:"convergence_threshold"`
	ConvergenceCheckInterval int                 `mapstructure:"convergence_check_interval"`

	MaxExecutionTimeSeconds int  `mapstructure:"max_execution_time"`
	HasMaxExecutionTime     bool `mapstructure:"-"`

	ParallelExecution bool `mapstructure:"parallel_execution"`
	NumThreads        int  `mapstructure:"num_threads"` // 0 means "let the engine choose"

	ConfidenceLevels []float64 `mapstructure:"confidence_levels"`
	Percentiles      []float64 `mapstructure:"percentiles"`

	EnableCaching              bool    `mapstructure:"enable_caching"`
	CacheSizeLimit             int     `mapstructure:"cache_size_limit"`
	ParameterChangeSensitivity float64 `mapstructure:"parameter_change_sensitivity"`

	EnableProgressTracking     bool `mapstructure:"enable_progress_tracking"`
	ProgressCallbackInterval   int  `mapstructure:"progress_callback_interval"`
	EnableConvergenceMonitoring bool `mapstructure:"enable_convergence_monitoring"`
}

// defaultConfiguration holds every field at its spec default before a
// preset or a loaded file narrows it.
func defaultConfiguration() *Configuration {
	return &Configuration{
		Iterations:    10000,
		MinIterations: 1000,
		MaxIterations: 1000000,

		ConvergenceCriteria:      ConvergenceCombined,
		ConvergenceThreshold:     0.95,
		ConvergenceCheckInterval: 1000,

		ParallelExecution: true,

		ConfidenceLevels: []float64{0.80, 0.90, 0.95},
		Percentiles:      []float64{10, 25, 50, 75, 90, 95, 99},

		EnableCaching:              true,
		CacheSizeLimit:             100,
		ParameterChangeSensitivity: 1e-6,

		EnableProgressTracking:      true,
		ProgressCallbackInterval:    1000,
		EnableConvergenceMonitoring: true,
	}
}

// FastPreset favors turnaround over precision: the iteration floor and
// a fixed stopping rule. EnableConvergenceMonitoring keeps its default
// of true.
func FastPreset() *Configuration {
	cfg := defaultConfiguration()
	cfg.Iterations = 10000
	cfg.ConvergenceCriteria = ConvergenceFixed
	return cfg
}

// BalancedPreset is the default production setting: enough iterations
// and a combined stopping rule to catch both mean and tail drift.
func BalancedPreset() *Configuration {
	cfg := defaultConfiguration()
	cfg.Iterations = 50000
	cfg.ConvergenceCriteria = ConvergenceCombined
	cfg.ConvergenceThreshold = 0.95
	return cfg
}

// AccuratePreset trades runtime for tighter percentile estimates,
// intended for final sign-off runs rather than interactive exploration.
func AccuratePreset() *Configuration {
	cfg := defaultConfiguration()
	cfg.Iterations = 100000
	cfg.ConvergenceCriteria = ConvergenceCombined
	cfg.ConvergenceThreshold = 0.98
	return cfg
}

// DevelopmentPreset keeps iteration counts small and disables caching
// so repeated local runs against changing risk data never serve a
// stale cached result.
func DevelopmentPreset() *Configuration {
	cfg := defaultConfiguration()
	cfg.Iterations = 5000
	cfg.MinIterations = 500
	cfg.ConvergenceCriteria = ConvergenceFixed
	cfg.EnableCaching = false
	return cfg
}

// Load reads a Configuration from a YAML file layered over
// BalancedPreset's defaults, with environment variable overrides
// (e.g. ITERATIONS, CONVERGENCE_THRESHOLD).
func Load(path string) (*Configuration, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	v.SetEnvPrefix("")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	def := BalancedPreset()
	v.SetDefault("iterations", def.Iterations)
	v.SetDefault("min_iterations", def.MinIterations)
	v.SetDefault("max_iterations", def.MaxIterations)
	v.SetDefault("convergence_criteria", string(def.ConvergenceCriteria))
	v.SetDefault("convergence_threshold", def.ConvergenceThreshold)
	v.SetDefault("convergence_check_interval", def.ConvergenceCheckInterval)
	v.SetDefault("parallel_execution", def.ParallelExecution)
	v.SetDefault("num_threads", def.NumThreads)
	v.SetDefault("confidence_levels", def.ConfidenceLevels)
	v.SetDefault("percentiles", def.Percentiles)
	v.SetDefault("enable_caching", def.EnableCaching)
	v.SetDefault("cache_size_limit", def.CacheSizeLimit)
	v.SetDefault("parameter_change_sensitivity", def.ParameterChangeSensitivity)
	v.SetDefault("enable_progress_tracking", def.EnableProgressTracking)
	v.SetDefault("progress_callback_interval", def.ProgressCallbackInterval)
	v.SetDefault("enable_convergence_monitoring", def.EnableConvergenceMonitoring)

	if _, err := os.Stat(path); err == nil {
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Configuration
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if v.IsSet("random_seed") {
		cfg.RandomSeed = uint32(v.GetUint64("random_seed"))
		cfg.HasRandomSeed = true
	}
	if v.IsSet("max_execution_time") {
		cfg.MaxExecutionTimeSeconds = v.GetInt("max_execution_time")
		cfg.HasMaxExecutionTime = true
	}

	if err := Validate(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate enforces the bounds the option set documents; a
// Configuration built by Load or a preset constructor and then
// hand-edited should be re-validated before use.
func Validate(cfg *Configuration) error {
	if cfg.Iterations < 10000 {
		return fmt.Errorf("iterations must be >= 10000, got %d", cfg.Iterations)
	}
	if cfg.MinIterations < 1000 {
		return fmt.Errorf("min_iterations must be >= 1000, got %d", cfg.MinIterations)
	}
	if cfg.MaxIterations > 1000000 {
		return fmt.Errorf("max_iterations must be <= 1000000, got %d", cfg.MaxIterations)
	}
	if cfg.MinIterations > cfg.MaxIterations {
		return fmt.Errorf("min_iterations (%d) must be <= max_iterations (%d)", cfg.MinIterations, cfg.MaxIterations)
	}
	switch cfg.ConvergenceCriteria {
	case ConvergenceFixed, ConvergenceMeanStability, ConvergenceVarianceStability, ConvergencePercentileStability, ConvergenceCombined:
	default:
		return fmt.Errorf("convergence_criteria %q is not recognized", cfg.ConvergenceCriteria)
	}
	if cfg.ConvergenceThreshold < 0.5 || cfg.ConvergenceThreshold > 1.0 {
		return fmt.Errorf("convergence_threshold must be in [0.5, 1.0], got %v", cfg.ConvergenceThreshold)
	}
	if cfg.ConvergenceCheckInterval < 100 {
		return fmt.Errorf("convergence_check_interval must be >= 100, got %d", cfg.ConvergenceCheckInterval)
	}
	if cfg.NumThreads != 0 && (cfg.NumThreads < 1 || cfg.NumThreads > 32) {
		return fmt.Errorf("num_threads must be in [1, 32] when set, got %d", cfg.NumThreads)
	}
	for _, c := range cfg.ConfidenceLevels {
		if c < 0.5 || c > 0.99 {
			return fmt.Errorf("confidence_levels entries must be in [0.5, 0.99], got %v", c)
		}
	}
	for _, p := range cfg.Percentiles {
		if p < 1 || p > 99 {
			return fmt.Errorf("percentiles entries must be in [1, 99], got %v", p)
		}
	}
	if cfg.CacheSizeLimit < 0 {
		return fmt.Errorf("cache_size_limit must be >= 0, got %d", cfg.CacheSizeLimit)
	}
	if cfg.ParameterChangeSensitivity < 1e-10 || cfg.ParameterChangeSensitivity > 1e-3 {
		return fmt.Errorf("parameter_change_sensitivity must be in [1e-10, 1e-3], got %v", cfg.ParameterChangeSensitivity)
	}
	if cfg.ProgressCallbackInterval < 100 {
		return fmt.Errorf("progress_callback_interval must be >= 100, got %d", cfg.ProgressCallbackInterval)
	}
	return nil
}
