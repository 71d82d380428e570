// Copyright 2025 James Ross
package riskmodel

import (
	"github.com/google/uuid"

	"github.com/riskforge/montecarlo/internal/distribution"
)

// RiskModification is a single change a Scenario applies to one of its
// own risk copies: parameter deltas, an optional distribution-family
// swap, and the mitigation that produced it, when applicable.
type RiskModification struct {
	RiskID              string              `json:"risk_id"`
	ParameterDeltas     map[string]float64  `json:"parameter_deltas,omitempty"`
	NewFamily           distribution.Family `json:"new_family,omitempty"`
	AppliedMitigationID string              `json:"applied_mitigation_id,omitempty"`
}

// Scenario owns a deep copy of the risk list it was created from; its
// modifications mutate only that copy, never the source risks, and its
// SimulationResults (once run) are cached alongside it.
type Scenario struct {
	ID            string
	Name          string
	Description   string
	Risks         []*Risk
	Modifications map[string]RiskModification
	Results       *SimulationResults
}

// NewScenario deep-copies source so the returned Scenario's risks are
// fully isolated: mutating the Scenario's risks (or the source risks)
// afterward cannot affect the other.
func NewScenario(name, description string, source []*Risk) *Scenario {
	risks := make([]*Risk, len(source))
	for i, r := range source {
		risks[i] = r.Clone()
	}
	return &Scenario{
		ID:            uuid.New().String(),
		Name:          name,
		Description:   description,
		Risks:         risks,
		Modifications: make(map[string]RiskModification),
	}
}

// RiskByID returns the scenario's own copy of a risk, or nil if absent.
func (s *Scenario) RiskByID(id string) *Risk {
	for _, r := range s.Risks {
		if r.ID == id {
			return r
		}
	}
	return nil
}

// IsIsolatedFrom reports whether no risk pointer in s.Risks is shared
// with other — a pointer-identity check rather than a deep comparison,
// matching how the engine verifies scenario isolation.
func (s *Scenario) IsIsolatedFrom(other []*Risk) bool {
	otherPtrs := make(map[*Risk]bool, len(other))
	for _, r := range other {
		otherPtrs[r] = true
	}
	for _, r := range s.Risks {
		if otherPtrs[r] {
			return false
		}
	}
	return true
}
