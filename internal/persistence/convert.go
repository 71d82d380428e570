// Copyright 2025 James Ross
package persistence

import (
	"time"

	"github.com/riskforge/montecarlo/internal/distribution"
	"github.com/riskforge/montecarlo/internal/riskmodel"
	"github.com/riskforge/montecarlo/internal/validator"
)

func distributionToDocument(d *distribution.Distribution) DistributionDocument {
	doc := DistributionDocument{
		Family: string(d.Family),
		Mean:   d.Mean, Std: d.Std,
		Min: d.Min, Mode: d.Mode, Max: d.Max,
		Alpha: d.Alpha, Beta: d.Beta,
		Mu: d.Mu, Sigma: d.Sigma,
	}
	if d.Bounds != nil {
		doc.Bounds = &BoundsDocument{
			HasLower: d.Bounds.HasLower, Lower: d.Bounds.Lower,
			HasUpper: d.Bounds.HasUpper, Upper: d.Bounds.Upper,
		}
	}
	return doc
}

func documentToDistribution(doc DistributionDocument) *distribution.Distribution {
	d := &distribution.Distribution{
		Family: distribution.Family(doc.Family),
		Mean:   doc.Mean, Std: doc.Std,
		Min: doc.Min, Mode: doc.Mode, Max: doc.Max,
		Alpha: doc.Alpha, Beta: doc.Beta,
		Mu: doc.Mu, Sigma: doc.Sigma,
	}
	if doc.Bounds != nil {
		d.Bounds = &distribution.Bounds{
			HasLower: doc.Bounds.HasLower, Lower: doc.Bounds.Lower,
			HasUpper: doc.Bounds.HasUpper, Upper: doc.Bounds.Upper,
		}
	}
	return d
}

func RiskToDocument(r *riskmodel.Risk) RiskDocument {
	doc := RiskDocument{
		ID: r.ID, Name: r.Name,
		Category: string(r.Category), ImpactType: string(r.ImpactType),
		BaselineImpact: r.BaselineImpact,
		DependsOn:      append([]string(nil), r.DependsOn...),
	}
	if r.Distribution != nil {
		doc.Distribution = distributionToDocument(r.Distribution)
	}
	for _, m := range r.Mitigations {
		doc.Mitigations = append(doc.Mitigations, MitigationDocument{
			ID: m.ID, Name: m.Name, Cost: m.Cost,
			ImpactReduction: m.ImpactReduction, ProbabilityDelta: m.ProbabilityDelta,
		})
	}
	return doc
}

func DocumentToRisk(doc RiskDocument) *riskmodel.Risk {
	r := &riskmodel.Risk{
		ID: doc.ID, Name: doc.Name,
		Category: riskmodel.Category(doc.Category), ImpactType: riskmodel.ImpactType(doc.ImpactType),
		Distribution:   documentToDistribution(doc.Distribution),
		BaselineImpact: doc.BaselineImpact,
		DependsOn:      append([]string(nil), doc.DependsOn...),
	}
	for _, m := range doc.Mitigations {
		r.Mitigations = append(r.Mitigations, riskmodel.MitigationStrategy{
			ID: m.ID, Name: m.Name, Cost: m.Cost,
			ImpactReduction: m.ImpactReduction, ProbabilityDelta: m.ProbabilityDelta,
		})
	}
	return r
}

// ResultsToDocument converts a SimulationResults into its neutral form.
func ResultsToDocument(r *riskmodel.SimulationResults) ResultsDocument {
	percentiles := make(map[string]float64, len(r.Convergence.PercentileStability))
	for p, v := range r.Convergence.PercentileStability {
		percentiles[formatPercentileKey(p)] = v
	}
	return ResultsDocument{
		SimulationID:     r.SimulationID,
		Timestamp:        r.Timestamp.UTC().Format(time.RFC3339Nano),
		Iterations:       r.Iterations,
		CostOutcomes:     append([]float64(nil), r.CostOutcomes...),
		ScheduleOutcomes: append([]float64(nil), r.ScheduleOutcomes...),
		RiskContributions: cloneFloatSliceMap(r.RiskContributions),
		Convergence: ConvergenceDocument{
			MeanStability:       r.Convergence.MeanStability,
			VarianceStability:   r.Convergence.VarianceStability,
			PercentileStability: percentiles,
			Converged:           r.Convergence.Converged,
			IterationConverged:  r.Convergence.IterationConverged,
		},
		WallTimeSeconds: r.WallTime.Seconds(),
	}
}

// DocumentToResults converts a neutral document back into SimulationResults.
func DocumentToResults(doc ResultsDocument) (*riskmodel.SimulationResults, error) {
	ts, err := time.Parse(time.RFC3339Nano, doc.Timestamp)
	if err != nil {
		return nil, err
	}
	percentiles := make(map[float64]float64, len(doc.Convergence.PercentileStability))
	for key, v := range doc.Convergence.PercentileStability {
		p, err := parsePercentileKey(key)
		if err != nil {
			return nil, err
		}
		percentiles[p] = v
	}
	return &riskmodel.SimulationResults{
		SimulationID:     doc.SimulationID,
		Timestamp:        ts,
		Iterations:       doc.Iterations,
		CostOutcomes:     append([]float64(nil), doc.CostOutcomes...),
		ScheduleOutcomes: append([]float64(nil), doc.ScheduleOutcomes...),
		RiskContributions: cloneFloatSliceMap(doc.RiskContributions),
		Convergence: riskmodel.ConvergenceMetrics{
			MeanStability:       doc.Convergence.MeanStability,
			VarianceStability:   doc.Convergence.VarianceStability,
			PercentileStability: percentiles,
			Converged:           doc.Convergence.Converged,
			IterationConverged:  doc.Convergence.IterationConverged,
		},
		WallTime: time.Duration(doc.WallTimeSeconds * float64(time.Second)),
	}, nil
}

// ScenarioToDocument converts a Scenario into its neutral form.
func ScenarioToDocument(s *riskmodel.Scenario) ScenarioDocument {
	doc := ScenarioDocument{
		ID: s.ID, Name: s.Name, Description: s.Description,
	}
	for _, r := range s.Risks {
		doc.Risks = append(doc.Risks, RiskToDocument(r))
	}
	if len(s.Modifications) > 0 {
		doc.Modifications = make(map[string]RiskModificationDocument, len(s.Modifications))
		for id, mod := range s.Modifications {
			doc.Modifications[id] = RiskModificationDocument{
				RiskID:              mod.RiskID,
				ParameterDeltas:     mod.ParameterDeltas,
				NewFamily:           string(mod.NewFamily),
				AppliedMitigationID: mod.AppliedMitigationID,
			}
		}
	}
	if s.Results != nil {
		results := ResultsToDocument(s.Results)
		doc.Results = &results
	}
	return doc
}

// DocumentToScenario converts a neutral document back into a Scenario.
func DocumentToScenario(doc ScenarioDocument) (*riskmodel.Scenario, error) {
	s := &riskmodel.Scenario{
		ID: doc.ID, Name: doc.Name, Description: doc.Description,
		Modifications: make(map[string]riskmodel.RiskModification, len(doc.Modifications)),
	}
	for _, rd := range doc.Risks {
		s.Risks = append(s.Risks, DocumentToRisk(rd))
	}
	for id, mod := range doc.Modifications {
		s.Modifications[id] = riskmodel.RiskModification{
			RiskID:              mod.RiskID,
			ParameterDeltas:     mod.ParameterDeltas,
			NewFamily:           distribution.Family(mod.NewFamily),
			AppliedMitigationID: mod.AppliedMitigationID,
		}
	}
	if doc.Results != nil {
		results, err := DocumentToResults(*doc.Results)
		if err != nil {
			return nil, err
		}
		s.Results = results
	}
	return s, nil
}

// ChangeReportToDocument converts a ChangeReport into its neutral form.
func ChangeReportToDocument(r *validator.ChangeReport) ChangeReportDocument {
	doc := ChangeReportDocument{
		CountsBySeverity: make(map[string]int, len(r.CountsBySeverity)),
		Recommendations:  append([]string(nil), r.Recommendations...),
		NextSteps:        append([]string(nil), r.NextSteps...),
	}
	for sev, count := range r.CountsBySeverity {
		doc.CountsBySeverity[string(sev)] = count
	}
	for _, c := range r.Changes {
		doc.Changes = append(doc.Changes, ChangeDocument{
			Kind: string(c.Kind), RiskID: c.RiskID, RiskIDB: c.RiskIDB,
			Field: c.Field, OldValue: c.OldValue, NewValue: c.NewValue,
			RelativeDelta: c.RelativeDelta, Severity: string(c.Severity),
			Description: c.Description,
		})
	}
	return doc
}

// DocumentToChangeReport converts a neutral document back into a ChangeReport.
func DocumentToChangeReport(doc ChangeReportDocument) *validator.ChangeReport {
	report := &validator.ChangeReport{
		CountsBySeverity: make(map[validator.Severity]int, len(doc.CountsBySeverity)),
		Recommendations:  append([]string(nil), doc.Recommendations...),
		NextSteps:        append([]string(nil), doc.NextSteps...),
	}
	for sev, count := range doc.CountsBySeverity {
		report.CountsBySeverity[validator.Severity(sev)] = count
	}
	for _, c := range doc.Changes {
		report.Changes = append(report.Changes, validator.Change{
			Kind: validator.ChangeKind(c.Kind), RiskID: c.RiskID, RiskIDB: c.RiskIDB,
			Field: c.Field, OldValue: c.OldValue, NewValue: c.NewValue,
			RelativeDelta: c.RelativeDelta, Severity: validator.Severity(c.Severity),
			Description: c.Description,
		})
	}
	return report
}

func cloneFloatSliceMap(m map[string][]float64) map[string][]float64 {
	if m == nil {
		return nil
	}
	out := make(map[string][]float64, len(m))
	for k, v := range m {
		out[k] = append([]float64(nil), v...)
	}
	return out
}
