// Copyright 2025 James Ross
package riskmodel

import (
	"fmt"
	"math"

	"github.com/riskforge/montecarlo/internal/distribution"
)

// Category classifies a risk's origin.
type Category string

const (
	CategoryTechnical  Category = "technical"
	CategorySchedule   Category = "schedule"
	CategoryCost       Category = "cost"
	CategoryResource   Category = "resource"
	CategoryExternal   Category = "external"
	CategoryQuality    Category = "quality"
	CategoryRegulatory Category = "regulatory"
)

// ImpactType classifies what a risk, once it materializes, affects.
type ImpactType string

const (
	ImpactCost     ImpactType = "cost"
	ImpactSchedule ImpactType = "schedule"
	ImpactBoth     ImpactType = "both"
)

// MitigationStrategy describes a candidate response to a risk: its
// cost, the reduction it applies to the risk's baseline impact or
// probability, and bookkeeping for cost-benefit analysis.
type MitigationStrategy struct {
	ID               string  `json:"id"`
	Name             string  `json:"name"`
	Cost             float64 `json:"cost"`
	ImpactReduction  float64 `json:"impact_reduction"`  // fraction in [0,1] applied to baseline impact
	ProbabilityDelta float64 `json:"probability_delta"` // fraction in [0,1] applied to likelihood, when modeled
}

// Risk is one identified cost/schedule/technical risk: a probability
// distribution over outcomes, a baseline impact scalar, and optional
// correlation/mitigation metadata.
type Risk struct {
	ID             string                     `json:"id"`
	Name           string                     `json:"name"`
	Category       Category                   `json:"category"`
	ImpactType     ImpactType                 `json:"impact_type"`
	Distribution   *distribution.Distribution `json:"distribution"`
	BaselineImpact float64                    `json:"baseline_impact"`
	DependsOn      []string                   `json:"depends_on,omitempty"`
	Mitigations    []MitigationStrategy       `json:"mitigations,omitempty"`
}

// Validate enforces the Risk invariants from §3: non-empty ID/name, a
// finite baseline impact, and a non-nil, already-validated distribution.
func (r *Risk) Validate() error {
	if r.ID == "" {
		return NewValidationError(ErrInvalidRisk, "risk ID must not be empty", nil)
	}
	if r.Name == "" {
		return NewValidationError(ErrInvalidRisk, fmt.Sprintf("risk %q: name must not be empty", r.ID), nil)
	}
	if math.IsNaN(r.BaselineImpact) || math.IsInf(r.BaselineImpact, 0) {
		return NewValidationError(ErrInvalidRisk, fmt.Sprintf("risk %q: baseline impact must be finite", r.ID), nil)
	}
	if r.Distribution == nil {
		return NewValidationError(ErrInvalidDistribution, fmt.Sprintf("risk %q: distribution is required", r.ID), nil)
	}
	return nil
}

// Clone returns a deep copy so a Scenario can own a mutated risk
// without sharing identity with the source list.
func (r *Risk) Clone() *Risk {
	out := *r
	out.Distribution = r.Distribution.Clone()
	out.DependsOn = append([]string(nil), r.DependsOn...)
	out.Mitigations = append([]MitigationStrategy(nil), r.Mitigations...)
	return &out
}

// ValidateRiskSet enforces the set-level invariants: non-empty,
// unique IDs, and each risk individually valid.
func ValidateRiskSet(risks []*Risk) error {
	if len(risks) == 0 {
		return NewValidationError(ErrEmptyRiskList, "risk list must not be empty", nil)
	}
	seen := make(map[string]bool, len(risks))
	for _, r := range risks {
		if err := r.Validate(); err != nil {
			return err
		}
		if seen[r.ID] {
			return NewValidationError(ErrDuplicateRiskID, fmt.Sprintf("duplicate risk ID %q", r.ID), nil)
		}
		seen[r.ID] = true
	}
	return nil
}
