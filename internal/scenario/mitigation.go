// Copyright 2025 James Ross
package scenario

import "math"

// MitigationAnalysis is the cost-benefit summary of applying one
// strategy to one risk's baseline impact.
type MitigationAnalysis struct {
	BaselineRisk   float64
	MitigatedRisk  float64
	Reduction      float64
	CostBenefit    float64 // cost / reduction; +Inf when reduction is 0
	NPV            float64 // reduction - cost, treated as an immediate, undiscounted benefit
	ROI            float64 // (reduction - cost) / cost
	ExpectedValue  float64 // realization-probability-weighted reduction minus cost
}

// AnalyzeMitigation computes the cost-benefit picture for a strategy
// with the given cost and effectiveness against a risk with the given
// baseline impact. realizationProbability (q) is the chance the risk
// would have materialized absent mitigation; pass 1 to ignore it.
func AnalyzeMitigation(baseline, cost, effectiveness, realizationProbability float64) MitigationAnalysis {
	mitigated := baseline * (1 - effectiveness)
	reduction := baseline * effectiveness

	costBenefit := math.Inf(1)
	if reduction != 0 {
		costBenefit = cost / reduction
	}

	npv := reduction - cost

	roi := math.Inf(1)
	if cost != 0 {
		roi = (reduction - cost) / cost
	}

	expectedValue := realizationProbability*reduction - cost

	return MitigationAnalysis{
		BaselineRisk:  baseline,
		MitigatedRisk: mitigated,
		Reduction:     reduction,
		CostBenefit:   costBenefit,
		NPV:           npv,
		ROI:           roi,
		ExpectedValue: expectedValue,
	}
}
