// Copyright 2025 James Ross
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/riskforge/montecarlo/internal/analysis"
	"github.com/riskforge/montecarlo/internal/config"
	"github.com/riskforge/montecarlo/internal/obs"
	"github.com/riskforge/montecarlo/internal/outputs"
	"github.com/riskforge/montecarlo/internal/persistence"
	"github.com/riskforge/montecarlo/internal/riskmodel"
	"github.com/riskforge/montecarlo/internal/simulation"
)

var version = "dev"

func main() {
	var (
		risksPath        string
		correlationsPath string
		configPath       string
		preset           string
		saveDir          string
		budgetTarget     float64
		varLevel         float64
		logLevel         string
		metricsPort      int
		showVersion      bool
	)

	fs := flag.NewFlagSet(os.Args[0], flag.ExitOnError)
	fs.StringVar(&risksPath, "risks", "", "Path to a JSON array of risk documents (required)")
	fs.StringVar(&correlationsPath, "correlations", "", "Path to a JSON object mapping \"riskA|riskB\" to a correlation coefficient")
	fs.StringVar(&configPath, "config", "", "Path to a YAML/JSON configuration file")
	fs.StringVar(&preset, "preset", "balanced", "Configuration preset when -config is not set: fast|balanced|accurate|development")
	fs.StringVar(&saveDir, "save", "", "Directory to persist the SimulationResults document under (skipped if empty)")
	fs.Float64Var(&budgetTarget, "budget-target", 0, "Budget target for compliance reporting (0 disables the report)")
	fs.Float64Var(&varLevel, "var-level", 0.95, "Confidence level for VaR/CVaR reporting")
	fs.StringVar(&logLevel, "log-level", "info", "Log level: debug|info|warn|error")
	fs.IntVar(&metricsPort, "metrics-port", 0, "Port to serve /metrics, /healthz, /readyz on (0 disables)")
	fs.BoolVar(&showVersion, "version", false, "Print version and exit")
	_ = fs.Parse(os.Args[1:])

	if showVersion {
		fmt.Println(version)
		return
	}

	logger, err := obs.NewLogger(logLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to init logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	if err := run(risksPath, correlationsPath, configPath, preset, saveDir, budgetTarget, varLevel, metricsPort, logger); err != nil {
		logger.Error("run failed", zap.Error(err))
		os.Exit(1)
	}
}

func run(risksPath, correlationsPath, configPath, preset, saveDir string, budgetTarget, varLevel float64, metricsPort int, logger *zap.Logger) error {
	if risksPath == "" {
		return fmt.Errorf("-risks is required")
	}

	risks, err := loadRisks(risksPath)
	if err != nil {
		return fmt.Errorf("load risks: %w", err)
	}
	correlations, err := loadCorrelations(correlationsPath)
	if err != nil {
		return fmt.Errorf("load correlations: %w", err)
	}

	cfg, err := loadConfiguration(configPath, preset)
	if err != nil {
		return fmt.Errorf("load configuration: %w", err)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if cfg.HasMaxExecutionTime && cfg.MaxExecutionTimeSeconds > 0 {
		var cancelTimeout context.CancelFunc
		ctx, cancelTimeout = context.WithTimeout(ctx, time.Duration(cfg.MaxExecutionTimeSeconds)*time.Second)
		defer cancelTimeout()
	}

	if metricsPort != 0 {
		srv := obs.StartHTTPServer(metricsPort, nil)
		defer srv.Close()
	}

	req := simulation.Request{
		Risks:        risks,
		Iterations:   cfg.Iterations,
		Correlations: correlations,
		Seed:         int64(cfg.RandomSeed),
		HasSeed:      cfg.HasRandomSeed,
		MaxWorkers:   resolveMaxWorkers(cfg),
		Progress: func(iteration int, convergence riskmodel.ConvergenceMetrics) {
			logger.Info("simulation progress",
				zap.Int("iteration", iteration),
				zap.Bool("converged", convergence.Converged))
		},
	}

	engine := simulation.NewEngine(cfg.CacheSizeLimit)
	results, err := engine.RunWithCache(ctx, req, logger)
	if err != nil {
		return fmt.Errorf("run simulation: %w", err)
	}
	if results.SimulationID == "" {
		results.SimulationID = uuid.New().String()
	}

	report(results, budgetTarget, varLevel, logger)

	if saveDir != "" {
		store, err := persistence.NewStore(saveDir, logger)
		if err != nil {
			return fmt.Errorf("open persistence store: %w", err)
		}
		if err := store.SaveResults(results); err != nil {
			return fmt.Errorf("save results: %w", err)
		}
		logger.Info("saved simulation results", zap.String("simulation_id", results.SimulationID), zap.String("dir", saveDir))
	}

	return nil
}

// resolveMaxWorkers honors an operator's explicit parallelism choice
// over the engine's automatic worker-count selection: sequential mode
// pins the run to one worker, a positive thread count pins it to that
// many, and parallel mode with NumThreads at zero defers to the engine.
func resolveMaxWorkers(cfg *config.Configuration) int {
	if !cfg.ParallelExecution {
		return 1
	}
	if cfg.NumThreads > 0 {
		return cfg.NumThreads
	}
	return 0
}

func loadRisks(path string) ([]*riskmodel.Risk, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var docs []persistence.RiskDocument
	if err := json.Unmarshal(raw, &docs); err != nil {
		return nil, err
	}
	risks := make([]*riskmodel.Risk, 0, len(docs))
	for _, doc := range docs {
		risks = append(risks, persistence.DocumentToRisk(doc))
	}
	if err := riskmodel.ValidateRiskSet(risks); err != nil {
		return nil, err
	}
	return risks, nil
}

func loadCorrelations(path string) (map[string]float64, error) {
	if path == "" {
		return nil, nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var m map[string]float64
	if err := json.Unmarshal(raw, &m); err != nil {
		return nil, err
	}
	return m, nil
}

func loadConfiguration(path, preset string) (*config.Configuration, error) {
	if path != "" {
		return config.Load(path)
	}
	switch strings.ToLower(preset) {
	case "fast":
		return config.FastPreset(), nil
	case "accurate":
		return config.AccuratePreset(), nil
	case "development":
		return config.DevelopmentPreset(), nil
	default:
		return config.BalancedPreset(), nil
	}
}

func report(results *riskmodel.SimulationResults, budgetTarget, varLevel float64, logger *zap.Logger) {
	summary, err := analysis.Analyze(results.CostOutcomes)
	if err != nil {
		logger.Warn("cost analysis skipped", zap.Error(err))
	} else {
		fmt.Printf("Cost: mean=%.2f median=%.2f p90=%.2f p95=%.2f\n",
			summary.Stats.Mean, summary.Stats.Median, summary.Percentiles[90], summary.Percentiles[95])
	}

	if budgetTarget > 0 {
		compliance := outputs.AnalyzeBudgetCompliance(results.CostOutcomes, budgetTarget)
		fmt.Printf("Budget compliance: target=%.2f probability=%.2f%% tier=%s cost-at-risk=%.2f\n",
			compliance.Target, compliance.ComplianceProbability*100, compliance.Tier, compliance.CostAtRisk)
	}

	metrics := outputs.AnalyzeRiskMetrics(results.CostOutcomes, varLevel)
	fmt.Printf("Risk metrics at %.0f%%: %+v\n", varLevel*100, metrics)

	fmt.Printf("Convergence: mean_stability=%.5f variance_stability=%.5f converged=%v\n",
		results.Convergence.MeanStability, results.Convergence.VarianceStability, results.Convergence.Converged)
}
