// Copyright 2025 James Ross
// Package validator composes goodness-of-fit, correlation-matrix, and
// cross-risk consistency checks into one validation report, and
// detects what changed between two versions of a risk model.
package validator

import (
	"fmt"
	"math"

	"github.com/riskforge/montecarlo/internal/correlation"
	"github.com/riskforge/montecarlo/internal/distribution"
	"github.com/riskforge/montecarlo/internal/riskmodel"
)

// CrossImpactCorrelationWarn is the absolute correlation threshold
// above which two risks of different ImpactType draw an advisory —
// a high correlation between a pure-cost and a pure-schedule risk
// usually means one of them is mis-categorized.
const CrossImpactCorrelationWarn = 0.7

// ValidationReport is the composed result of fitting diagnostics,
// correlation-matrix checks, and model-level consistency rules.
type ValidationReport struct {
	Valid           bool
	Errors          []string
	Warnings        []string
	Recommendations []string

	GoodnessOfFit map[string]*distribution.GoodnessOfFit // risk ID -> diagnostics, when samples were supplied
	Correlation   *correlation.ValidationResult
}

// ValidateModel checks risks (individually and as a set), the optional
// correlation matrix (every risk ID referenced must exist among
// risks), and — when historicalSamples supplies realized-impact data
// for a risk — that risk's distribution goodness-of-fit.
func ValidateModel(risks []*riskmodel.Risk, corrMatrix *correlation.Matrix, historicalSamples map[string][]float64) *ValidationReport {
	report := &ValidationReport{Valid: true}

	if err := riskmodel.ValidateRiskSet(risks); err != nil {
		report.Errors = append(report.Errors, err.Error())
	}

	byID := make(map[string]*riskmodel.Risk, len(risks))
	for _, r := range risks {
		byID[r.ID] = r
	}

	if len(historicalSamples) > 0 {
		report.GoodnessOfFit = make(map[string]*distribution.GoodnessOfFit, len(historicalSamples))
		for riskID, samples := range historicalSamples {
			risk, ok := byID[riskID]
			if !ok {
				report.Warnings = append(report.Warnings, fmt.Sprintf("historical samples supplied for unknown risk %q", riskID))
				continue
			}
			gof, err := distribution.Evaluate(samples, risk.Distribution)
			if err != nil {
				report.Warnings = append(report.Warnings, fmt.Sprintf("risk %q: goodness-of-fit failed: %v", riskID, err))
				continue
			}
			report.GoodnessOfFit[riskID] = gof
			if gof.KSPValue < 0.05 {
				report.Recommendations = append(report.Recommendations,
					fmt.Sprintf("risk %q: KS p-value %.3f suggests a poor fit — re-examine with a Q-Q plot and consider refitting", riskID, gof.KSPValue))
			}
		}
	}

	if corrMatrix != nil {
		for _, id := range corrMatrix.RiskIDs {
			if _, ok := byID[id]; !ok {
				report.Errors = append(report.Errors, fmt.Sprintf("correlation matrix references unknown risk %q", id))
			}
		}

		corrResult := correlation.Validate(corrMatrix)
		report.Correlation = corrResult
		report.Errors = append(report.Errors, corrResult.Errors...)
		report.Warnings = append(report.Warnings, corrResult.Warnings...)
		report.Recommendations = append(report.Recommendations, corrResult.Recommendations...)

		report.Warnings = append(report.Warnings, crossImpactTypeAdvisories(risks, corrMatrix)...)
	}

	report.Valid = len(report.Errors) == 0
	return report
}

func crossImpactTypeAdvisories(risks []*riskmodel.Risk, m *correlation.Matrix) []string {
	byID := make(map[string]*riskmodel.Risk, len(risks))
	for _, r := range risks {
		byID[r.ID] = r
	}

	var warnings []string
	n := m.N()
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			ri, okI := byID[m.RiskIDs[i]]
			rj, okJ := byID[m.RiskIDs[j]]
			if !okI || !okJ || ri.ImpactType == rj.ImpactType {
				continue
			}
			if math.Abs(m.At(i, j)) >= CrossImpactCorrelationWarn {
				warnings = append(warnings, fmt.Sprintf(
					"high correlation (%.2f) between %s (%s) and %s (%s) spans different impact types",
					m.At(i, j), ri.ID, ri.ImpactType, rj.ID, rj.ImpactType))
			}
		}
	}
	return warnings
}
