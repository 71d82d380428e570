// Copyright 2025 James Ross
package calibration

import (
	"context"
	"fmt"

	"github.com/riskforge/montecarlo/internal/distribution"
	"github.com/riskforge/montecarlo/internal/errs"
)

// FittedRisk is the distribution calibration extracted for one risk
// from historical realized impacts.
type FittedRisk struct {
	RiskID       string
	SampleSize   int
	Method       string // "mle" or "mle-fallback-mom", per distribution.FitResult.UsedFallback
	Best         *distribution.FitResult
	Alternatives []distribution.FitResult
}

// Calibrator fits risk distributions from a HistoricalStore's
// completed-project history.
type Calibrator struct {
	store HistoricalStore
}

// NewCalibrator constructs a Calibrator backed by store.
func NewCalibrator(store HistoricalStore) *Calibrator {
	return &Calibrator{store: store}
}

// FitRisk extracts realized-impact samples for riskID across every
// loaded completed project (optionally filtered to projectType when
// non-empty), requires at least MinFittingSamples, and fits the best
// candidate family.
func (c *Calibrator) FitRisk(ctx context.Context, riskID, projectType string) (*FittedRisk, error) {
	projects, err := c.store.LoadCompletedProjects(ctx)
	if err != nil {
		return nil, err
	}
	return FitRiskFromProjects(projects, riskID, projectType)
}

// FitRiskFromProjects is the pure function FitRisk delegates to,
// exposed directly so callers (and tests) can skip the store.
func FitRiskFromProjects(projects []CompletedProject, riskID, projectType string) (*FittedRisk, error) {
	var samples []float64
	for _, p := range projects {
		if projectType != "" && !SameEquivalenceClass(p.ProjectType, projectType) {
			continue
		}
		samples = append(samples, p.RealizedImpacts[riskID]...)
	}

	if len(samples) < MinFittingSamples {
		return nil, errs.NewDomainError(errs.ErrInsufficientHistory,
			fmt.Sprintf("risk %q: need at least %d realized-impact samples, have %d", riskID, MinFittingSamples, len(samples)), nil)
	}

	best, all, err := distribution.Fit(samples, distribution.DefaultCandidateFamilies)
	if err != nil {
		return nil, err
	}

	method := "mle"
	if best.UsedFallback {
		method = "mle-fallback-mom"
	}

	return &FittedRisk{
		RiskID:       riskID,
		SampleSize:   len(samples),
		Method:       method,
		Best:         best,
		Alternatives: all,
	}, nil
}
