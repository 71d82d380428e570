// Copyright 2025 James Ross
package simulation

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"sort"

	"github.com/riskforge/montecarlo/internal/riskmodel"
)

// canonicalRequest is the subset of Request that determines a
// simulation's outcome distribution. Progress callbacks, MaxWorkers and
// the escalation span/factors are always excluded; RunWithCache runs
// Run, which does not apply escalation.
type canonicalRequest struct {
	Risks         []canonicalRisk `json:"risks"`
	Iterations    int              `json:"iterations"`
	Correlations  map[string]float64 `json:"correlations,omitempty"`
	Seed          int64            `json:"seed"`
	HasSeed       bool             `json:"has_seed"`
	BaselineCosts float64          `json:"baseline_costs"`
	Schedule      *riskmodel.ScheduleData `json:"schedule,omitempty"`
}

type canonicalRisk struct {
	ID             string                     `json:"id"`
	Category       riskmodel.Category         `json:"category"`
	ImpactType     riskmodel.ImpactType       `json:"impact_type"`
	Distribution   any                        `json:"distribution"`
	BaselineImpact float64                    `json:"baseline_impact"`
	DependsOn      []string                   `json:"depends_on,omitempty"`
}

// Fingerprint deterministically hashes the parameters that determine a
// simulation's outcome distribution, so RunWithCache can recognize a
// repeated request regardless of map iteration order.
func Fingerprint(req Request) (string, error) {
	risks := make([]canonicalRisk, len(req.Risks))
	for i, r := range req.Risks {
		risks[i] = canonicalRisk{
			ID:             r.ID,
			Category:       r.Category,
			ImpactType:     r.ImpactType,
			Distribution:   r.Distribution,
			BaselineImpact: r.BaselineImpact,
			DependsOn:      append([]string(nil), r.DependsOn...),
		}
	}
	sort.Slice(risks, func(i, j int) bool { return risks[i].ID < risks[j].ID })

	cr := canonicalRequest{
		Risks:         risks,
		Iterations:    req.Iterations,
		Correlations:  req.Correlations,
		Seed:          req.Seed,
		HasSeed:       req.HasSeed,
		BaselineCosts: req.BaselineCosts,
		Schedule:      req.Schedule,
	}

	payload, err := json.Marshal(cr)
	if err != nil {
		return "", err
	}
	sum := sha256.Sum256(payload)
	return hex.EncodeToString(sum[:]), nil
}
