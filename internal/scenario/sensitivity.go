// Copyright 2025 James Ross
package scenario

import (
	"fmt"
	"math"
	"sort"

	"github.com/riskforge/montecarlo/internal/errs"
	"github.com/riskforge/montecarlo/internal/riskmodel"
)

// SensitivityResult is the low/high scenario pair built for one risk
// at one variation level, plus the ratio used to rank it in a
// tornado diagram.
type SensitivityResult struct {
	RiskID           string
	Variation        float64
	SensitivityRatio float64 // 2 * Variation
	LowScenario      *riskmodel.Scenario
	HighScenario     *riskmodel.Scenario
}

// AnalyzeSensitivity builds a low/high scenario pair for each risk ID
// in targetVariations by scaling that risk's baseline impact by (1-v)
// and (1+v), v in (0,1]. The returned slice is sorted by
// |SensitivityRatio| descending, matching tornado-diagram convention —
// callers typically derive each v from the risk's own uncertainty
// (e.g. its distribution's coefficient of variation) so the ranking
// reflects which risk actually moves the outcome most.
func AnalyzeSensitivity(base []*riskmodel.Risk, targetVariations map[string]float64) ([]SensitivityResult, error) {
	results := make([]SensitivityResult, 0, len(targetVariations))
	for id, variation := range targetVariations {
		if variation <= 0 || variation > 1 {
			return nil, errs.NewValidationError(errs.ErrInvalidScenario, fmt.Sprintf("risk %q: sensitivity variation must be in (0,1], got %v", id, variation), nil)
		}

		baseline := findRisk(base, id)
		if baseline == nil {
			return nil, errs.NewValidationError(errs.ErrInvalidScenario, fmt.Sprintf("unknown risk ID %q", id), nil)
		}

		low, err := New("sensitivity-low", fmt.Sprintf("%s at -%.0f%%", id, variation*100), base, map[string]riskmodel.RiskModification{
			id: {RiskID: id, ParameterDeltas: map[string]float64{ParamBaselineImpact: -variation * baseline.BaselineImpact}},
		})
		if err != nil {
			return nil, err
		}
		high, err := New("sensitivity-high", fmt.Sprintf("%s at +%.0f%%", id, variation*100), base, map[string]riskmodel.RiskModification{
			id: {RiskID: id, ParameterDeltas: map[string]float64{ParamBaselineImpact: variation * baseline.BaselineImpact}},
		})
		if err != nil {
			return nil, err
		}

		results = append(results, SensitivityResult{
			RiskID:           id,
			Variation:        variation,
			SensitivityRatio: 2 * variation,
			LowScenario:      low,
			HighScenario:     high,
		})
	}

	sort.Slice(results, func(i, j int) bool {
		return math.Abs(results[i].SensitivityRatio) > math.Abs(results[j].SensitivityRatio)
	})
	return results, nil
}

func findRisk(risks []*riskmodel.Risk, id string) *riskmodel.Risk {
	for _, r := range risks {
		if r.ID == id {
			return r
		}
	}
	return nil
}
