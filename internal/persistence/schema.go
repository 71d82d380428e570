// Copyright 2025 James Ross
// Package persistence implements the Persistence adapter (§6): a
// neutral, length-prefixed-array, lower-case-enum serialization schema
// for SimulationResults, Scenario, and change-detection reports, plus
// JSON Schema validation ahead of deserialization. It is reached only
// through the Store interface; nothing in internal/riskmodel,
// internal/simulation, or internal/validator imports it.
package persistence

// ResultsDocument is the neutral form of riskmodel.SimulationResults.
// Field names match the attribute names used in §3.
type ResultsDocument struct {
	SimulationID      string                 `json:"simulation_id"`
	Timestamp         string                 `json:"timestamp"` // RFC3339
	Iterations        int                    `json:"iterations"`
	CostOutcomes      []float64              `json:"cost_outcomes"`
	ScheduleOutcomes  []float64              `json:"schedule_outcomes"`
	RiskContributions map[string][]float64   `json:"risk_contributions"`
	Convergence       ConvergenceDocument    `json:"convergence"`
	WallTimeSeconds   float64                `json:"wall_time_seconds"`
}

// ConvergenceDocument is the neutral form of riskmodel.ConvergenceMetrics.
type ConvergenceDocument struct {
	MeanStability       float64            `json:"mean_stability"`
	VarianceStability   float64            `json:"variance_stability"`
	PercentileStability map[string]float64 `json:"percentile_stability"` // keys are stringified percentiles
	Converged           bool               `json:"converged"`
	IterationConverged  int                `json:"iteration_converged,omitempty"`
}

// DistributionDocument is the neutral form of distribution.Distribution.
// Only the fields relevant to Family carry meaning, matching the
// tagged-union semantics of the in-memory type.
type DistributionDocument struct {
	Family string   `json:"family"` // lower-case tag: normal, triangular, uniform, beta, lognormal
	Mean   float64  `json:"mean,omitempty"`
	Std    float64  `json:"std,omitempty"`
	Min    float64  `json:"min,omitempty"`
	Mode   float64  `json:"mode,omitempty"`
	Max    float64  `json:"max,omitempty"`
	Alpha  float64  `json:"alpha,omitempty"`
	Beta   float64  `json:"beta,omitempty"`
	Mu     float64  `json:"mu,omitempty"`
	Sigma  float64  `json:"sigma,omitempty"`
	Bounds *BoundsDocument `json:"bounds,omitempty"`
}

// BoundsDocument is the neutral form of distribution.Bounds.
type BoundsDocument struct {
	HasLower bool    `json:"has_lower"`
	Lower    float64 `json:"lower,omitempty"`
	HasUpper bool    `json:"has_upper"`
	Upper    float64 `json:"upper,omitempty"`
}

// MitigationDocument is the neutral form of riskmodel.MitigationStrategy.
type MitigationDocument struct {
	ID               string  `json:"id"`
	Name             string  `json:"name"`
	Cost             float64 `json:"cost"`
	ImpactReduction  float64 `json:"impact_reduction"`
	ProbabilityDelta float64 `json:"probability_delta"`
}

// RiskDocument is the neutral form of riskmodel.Risk.
type RiskDocument struct {
	ID             string                 `json:"id"`
	Name           string                 `json:"name"`
	Category       string                 `json:"category"`    // lower-case tag
	ImpactType     string                 `json:"impact_type"`  // lower-case tag
	Distribution   DistributionDocument   `json:"distribution"`
	BaselineImpact float64                `json:"baseline_impact"`
	DependsOn      []string               `json:"depends_on,omitempty"`
	Mitigations    []MitigationDocument   `json:"mitigations,omitempty"`
}

// RiskModificationDocument is the neutral form of riskmodel.RiskModification.
type RiskModificationDocument struct {
	RiskID              string             `json:"risk_id"`
	ParameterDeltas     map[string]float64 `json:"parameter_deltas,omitempty"`
	NewFamily           string             `json:"new_family,omitempty"`
	AppliedMitigationID string             `json:"applied_mitigation_id,omitempty"`
}

// ScenarioDocument is the neutral form of riskmodel.Scenario.
type ScenarioDocument struct {
	ID            string                              `json:"id"`
	Name          string                              `json:"name"`
	Description   string                              `json:"description,omitempty"`
	Risks         []RiskDocument                      `json:"risks"`
	Modifications map[string]RiskModificationDocument `json:"modifications,omitempty"`
	Results       *ResultsDocument                    `json:"results,omitempty"`
}

// ChangeDocument is the neutral form of validator.Change.
type ChangeDocument struct {
	Kind          string  `json:"kind"` // lower-case tag
	RiskID        string  `json:"risk_id,omitempty"`
	RiskIDB       string  `json:"risk_id_b,omitempty"`
	Field         string  `json:"field,omitempty"`
	OldValue      string  `json:"old_value,omitempty"`
	NewValue      string  `json:"new_value,omitempty"`
	RelativeDelta float64 `json:"relative_delta,omitempty"`
	Severity      string  `json:"severity"` // lower-case tag
	Description   string  `json:"description,omitempty"`
}

// ChangeReportDocument is the neutral form of validator.ChangeReport.
type ChangeReportDocument struct {
	Changes          []ChangeDocument  `json:"changes"`
	CountsBySeverity map[string]int    `json:"counts_by_severity"`
	Recommendations  []string          `json:"recommendations,omitempty"`
	NextSteps        []string          `json:"next_steps,omitempty"`
}
