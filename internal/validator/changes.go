// Copyright 2025 James Ross
package validator

import (
	"fmt"
	"math"

	"github.com/riskforge/montecarlo/internal/correlation"
	"github.com/riskforge/montecarlo/internal/distribution"
	"github.com/riskforge/montecarlo/internal/riskmodel"
)

// DefaultParameterSensitivity is the minimum absolute parameter delta
// that counts as a change at all; deltas below it are treated as
// noise from serialization round-tripping.
const DefaultParameterSensitivity = 1e-6

// Severity grades how disruptive a detected change is.
type Severity string

const (
	SeverityCritical Severity = "critical"
	SeverityHigh     Severity = "high"
	SeverityMedium   Severity = "medium"
	SeverityLow      Severity = "low"
)

// ChangeKind classifies what changed.
type ChangeKind string

const (
	ChangeRiskAdded           ChangeKind = "risk_added"
	ChangeRiskRemoved         ChangeKind = "risk_removed"
	ChangeDistributionFamily  ChangeKind = "distribution_family_changed"
	ChangeParameter           ChangeKind = "parameter_changed"
	ChangeBaselineImpact      ChangeKind = "baseline_impact_changed"
	ChangeCategory            ChangeKind = "category_changed"
	ChangeImpactType          ChangeKind = "impact_type_changed"
	ChangeCorrelation         ChangeKind = "correlation_changed"
)

// Change is one detected difference between a baseline and current
// model.
type Change struct {
	Kind        ChangeKind
	RiskID      string // for ChangeCorrelation, the first of the two risks
	RiskIDB     string // second risk ID, set only for ChangeCorrelation
	Field       string
	OldValue    string
	NewValue    string
	RelativeDelta float64
	Severity    Severity
	Description string
}

// ChangeReport aggregates every detected Change plus summary
// recommendations.
type ChangeReport struct {
	Changes          []Change
	CountsBySeverity map[Severity]int
	Recommendations  []string
	NextSteps        []string
}

// DetectChanges compares a baseline model against the current one.
// sensitivity is the minimum parameter delta worth reporting; pass 0
// to use DefaultParameterSensitivity.
func DetectChanges(baseline, current []*riskmodel.Risk, baselineCorr, currentCorr *correlation.Matrix, sensitivity float64) *ChangeReport {
	if sensitivity <= 0 {
		sensitivity = DefaultParameterSensitivity
	}

	report := &ChangeReport{CountsBySeverity: map[Severity]int{}}

	baseByID := make(map[string]*riskmodel.Risk, len(baseline))
	for _, r := range baseline {
		baseByID[r.ID] = r
	}
	currByID := make(map[string]*riskmodel.Risk, len(current))
	for _, r := range current {
		currByID[r.ID] = r
	}

	for id, r := range currByID {
		if _, ok := baseByID[id]; !ok {
			report.add(Change{
				Kind: ChangeRiskAdded, RiskID: id, Severity: SeverityMedium,
				Description: fmt.Sprintf("risk %q added", id),
			})
		} else {
			report.detectRiskChanges(baseByID[id], r, sensitivity)
		}
	}
	for id := range baseByID {
		if _, ok := currByID[id]; !ok {
			report.add(Change{
				Kind: ChangeRiskRemoved, RiskID: id, Severity: SeverityHigh,
				Description: fmt.Sprintf("risk %q removed", id),
			})
		}
	}

	if baselineCorr != nil && currentCorr != nil {
		report.detectCorrelationChanges(baselineCorr, currentCorr)
	}

	report.buildRecommendationsAndNextSteps()
	return report
}

func (r *ChangeReport) add(c Change) {
	r.Changes = append(r.Changes, c)
	r.CountsBySeverity[c.Severity]++
}

func (r *ChangeReport) detectRiskChanges(base, curr *riskmodel.Risk, sensitivity float64) {
	if base.Category != curr.Category {
		r.add(Change{
			Kind: ChangeCategory, RiskID: curr.ID, Field: "category",
			OldValue: string(base.Category), NewValue: string(curr.Category),
			Severity:    SeverityMedium,
			Description: fmt.Sprintf("risk %q category changed from %s to %s", curr.ID, base.Category, curr.Category),
		})
	}
	if base.ImpactType != curr.ImpactType {
		r.add(Change{
			Kind: ChangeImpactType, RiskID: curr.ID, Field: "impact_type",
			OldValue: string(base.ImpactType), NewValue: string(curr.ImpactType),
			Severity:    SeverityHigh,
			Description: fmt.Sprintf("risk %q impact type changed from %s to %s", curr.ID, base.ImpactType, curr.ImpactType),
		})
	}

	if delta := relativeChange(base.BaselineImpact, curr.BaselineImpact); math.Abs(curr.BaselineImpact-base.BaselineImpact) > sensitivity {
		r.add(Change{
			Kind: ChangeBaselineImpact, RiskID: curr.ID, Field: "baseline_impact",
			OldValue: fmt.Sprintf("%v", base.BaselineImpact), NewValue: fmt.Sprintf("%v", curr.BaselineImpact),
			RelativeDelta: delta,
			Severity:      relativeSeverity(delta),
			Description:   fmt.Sprintf("risk %q baseline impact changed by %.1f%%", curr.ID, delta*100),
		})
	}

	r.detectDistributionChanges(curr.ID, base.Distribution, curr.Distribution, sensitivity)
}

func (r *ChangeReport) detectDistributionChanges(riskID string, base, curr *distribution.Distribution, sensitivity float64) {
	if base == nil || curr == nil {
		return
	}
	if base.Family != curr.Family {
		r.add(Change{
			Kind: ChangeDistributionFamily, RiskID: riskID, Field: "family",
			OldValue: string(base.Family), NewValue: string(curr.Family),
			Severity:    SeverityCritical,
			Description: fmt.Sprintf("risk %q distribution family changed from %s to %s", riskID, base.Family, curr.Family),
		})
		return // parameter deltas are meaningless across a family swap
	}

	for _, p := range distributionParameters(base.Family) {
		oldVal, newVal := p.get(base), p.get(curr)
		if math.Abs(newVal-oldVal) <= sensitivity {
			continue
		}
		delta := relativeChange(oldVal, newVal)
		r.add(Change{
			Kind: ChangeParameter, RiskID: riskID, Field: p.name,
			OldValue: fmt.Sprintf("%v", oldVal), NewValue: fmt.Sprintf("%v", newVal),
			RelativeDelta: delta,
			Severity:      relativeSeverity(delta),
			Description:   fmt.Sprintf("risk %q %s parameter changed by %.1f%%", riskID, p.name, delta*100),
		})
	}
}

type distParam struct {
	name string
	get  func(*distribution.Distribution) float64
}

func distributionParameters(family distribution.Family) []distParam {
	switch family {
	case distribution.Normal:
		return []distParam{
			{"mean", func(d *distribution.Distribution) float64 { return d.Mean }},
			{"std", func(d *distribution.Distribution) float64 { return d.Std }},
		}
	case distribution.Triangular, distribution.Uniform:
		return []distParam{
			{"min", func(d *distribution.Distribution) float64 { return d.Min }},
			{"mode", func(d *distribution.Distribution) float64 { return d.Mode }},
			{"max", func(d *distribution.Distribution) float64 { return d.Max }},
		}
	case distribution.Beta:
		return []distParam{
			{"alpha", func(d *distribution.Distribution) float64 { return d.Alpha }},
			{"beta", func(d *distribution.Distribution) float64 { return d.Beta }},
		}
	case distribution.Lognormal:
		return []distParam{
			{"mu", func(d *distribution.Distribution) float64 { return d.Mu }},
			{"sigma", func(d *distribution.Distribution) float64 { return d.Sigma }},
		}
	default:
		return nil
	}
}

func (r *ChangeReport) detectCorrelationChanges(base, curr *correlation.Matrix) {
	for i, idA := range curr.RiskIDs {
		for j := i + 1; j < len(curr.RiskIDs); j++ {
			idB := curr.RiskIDs[j]
			baseI, okI := base.IndexOf(idA)
			baseJ, okJ := base.IndexOf(idB)
			if !okI || !okJ {
				continue
			}

			oldRho, newRho := base.At(baseI, baseJ), curr.At(i, j)
			delta := math.Abs(newRho - oldRho)
			if delta <= correlation.Tolerance {
				continue
			}
			r.add(Change{
				Kind: ChangeCorrelation, RiskID: idA, RiskIDB: idB, Field: "correlation",
				OldValue: fmt.Sprintf("%v", oldRho), NewValue: fmt.Sprintf("%v", newRho),
				RelativeDelta: delta,
				Severity:      correlationSeverity(delta),
				Description:   fmt.Sprintf("correlation between %s and %s changed by %.3f", idA, idB, delta),
			})
		}
	}
}

func relativeChange(old, new float64) float64 {
	if old == 0 {
		if new == 0 {
			return 0
		}
		return math.Inf(1)
	}
	return math.Abs(new-old) / math.Abs(old)
}

func relativeSeverity(relativeDelta float64) Severity {
	switch {
	case relativeDelta > 0.50:
		return SeverityCritical
	case relativeDelta > 0.20:
		return SeverityHigh
	case relativeDelta > 0.05:
		return SeverityMedium
	default:
		return SeverityLow
	}
}

func correlationSeverity(absDelta float64) Severity {
	switch {
	case absDelta >= 0.5:
		return SeverityCritical
	case absDelta >= 0.3:
		return SeverityHigh
	case absDelta >= 0.1:
		return SeverityMedium
	default:
		return SeverityLow
	}
}

func (r *ChangeReport) buildRecommendationsAndNextSteps() {
	hasFamilyChange, hasBaselineChange, hasCorrChange := false, false, false
	for _, c := range r.Changes {
		switch c.Kind {
		case ChangeDistributionFamily:
			hasFamilyChange = true
		case ChangeBaselineImpact, ChangeParameter:
			hasBaselineChange = true
		case ChangeCorrelation:
			hasCorrChange = true
		}
	}

	if hasFamilyChange {
		r.Recommendations = append(r.Recommendations, "Distribution fitting: re-run goodness-of-fit (KS and a Q-Q plot) against recent data before trusting the new family")
	}
	if hasBaselineChange {
		r.Recommendations = append(r.Recommendations, "Re-run the simulation to confirm updated parameters still produce a convergent result")
	}
	if hasCorrChange {
		r.Recommendations = append(r.Recommendations, "Re-validate the correlation matrix (Validate) after coefficient changes — a previously benign matrix can lose positive semidefiniteness")
	}

	if r.CountsBySeverity[SeverityCritical] > 0 {
		r.NextSteps = append(r.NextSteps, "Review critical changes with the risk owner before the next simulation run")
	}
	if len(r.Changes) == 0 {
		r.NextSteps = append(r.NextSteps, "No material changes detected; no action required")
	}
}
