// Copyright 2025 James Ross
// Package outputs turns raw cost and schedule outcome arrays into the
// compliance and risk-metric artifacts a budget or schedule owner
// actually asks for: probability of hitting a target, expected
// overrun, and tail-risk measures.
package outputs

import "sort"

// ComplianceTier buckets a compliance probability into the four-tier
// ladder every compliance report uses.
type ComplianceTier string

const (
	TierVeryHigh ComplianceTier = "very-high"
	TierHigh     ComplianceTier = "high"
	TierMedium   ComplianceTier = "medium"
	TierLow      ComplianceTier = "low"
)

func complianceTier(p float64) ComplianceTier {
	switch {
	case p >= 0.95:
		return TierVeryHigh
	case p >= 0.90:
		return TierHigh
	case p >= 0.70:
		return TierMedium
	default:
		return TierLow
	}
}

// BudgetCompliance reports how a set of cost outcomes stacks up
// against a target budget.
type BudgetCompliance struct {
	Target              float64
	ComplianceProbability float64
	CostAtRisk          float64 // mean overrun among outcomes that exceed Target, 0 if none
	Tier                ComplianceTier
}

// AnalyzeBudgetCompliance computes BudgetCompliance over a cost
// outcome array.
func AnalyzeBudgetCompliance(costOutcomes []float64, target float64) BudgetCompliance {
	if len(costOutcomes) == 0 {
		return BudgetCompliance{Target: target, Tier: TierLow}
	}

	var withinCount int
	var overrunSum float64
	var overrunCount int
	for _, x := range costOutcomes {
		if x <= target {
			withinCount++
		} else {
			overrunSum += x - target
			overrunCount++
		}
	}

	prob := float64(withinCount) / float64(len(costOutcomes))
	var costAtRisk float64
	if overrunCount > 0 {
		costAtRisk = overrunSum / float64(overrunCount)
	}

	return BudgetCompliance{
		Target:                target,
		ComplianceProbability: prob,
		CostAtRisk:            costAtRisk,
		Tier:                  complianceTier(prob),
	}
}

// ScheduleCompliance mirrors BudgetCompliance for a schedule-duration
// array, with an optional set of per-milestone probabilities.
type ScheduleCompliance struct {
	TargetDuration        float64
	ComplianceProbability float64
	DaysAtRisk            float64 // mean overrun duration among late outcomes
	Tier                  ComplianceTier
	MilestoneProbabilities map[string]float64
}

// MilestoneTarget names a milestone and the day (relative to project
// start) it is due.
type MilestoneTarget struct {
	ID         string
	TargetDay  float64
}

// AnalyzeScheduleCompliance computes ScheduleCompliance over a
// schedule-duration outcome array against a target duration, plus one
// probability per milestone target supplied.
func AnalyzeScheduleCompliance(durationOutcomes []float64, targetDuration float64, milestones []MilestoneTarget) ScheduleCompliance {
	if len(durationOutcomes) == 0 {
		return ScheduleCompliance{TargetDuration: targetDuration, Tier: TierLow}
	}

	var withinCount int
	var overrunSum float64
	var overrunCount int
	for _, d := range durationOutcomes {
		if d <= targetDuration {
			withinCount++
		} else {
			overrunSum += d - targetDuration
			overrunCount++
		}
	}

	prob := float64(withinCount) / float64(len(durationOutcomes))
	var daysAtRisk float64
	if overrunCount > 0 {
		daysAtRisk = overrunSum / float64(overrunCount)
	}

	var milestoneProbs map[string]float64
	if len(milestones) > 0 {
		milestoneProbs = make(map[string]float64, len(milestones))
		for _, m := range milestones {
			var hit int
			for _, d := range durationOutcomes {
				if d <= m.TargetDay {
					hit++
				}
			}
			milestoneProbs[m.ID] = float64(hit) / float64(len(durationOutcomes))
		}
	}

	return ScheduleCompliance{
		TargetDuration:          targetDuration,
		ComplianceProbability:   prob,
		DaysAtRisk:              daysAtRisk,
		Tier:                    complianceTier(prob),
		MilestoneProbabilities: milestoneProbs,
	}
}

// percentile is the same linear-interpolation convention used
// throughout the engine (internal/analysis.Percentile,
// internal/simulation's convergence tracker).
func percentile(sorted []float64, p float64) float64 {
	if len(sorted) == 0 {
		return 0
	}
	if len(sorted) == 1 {
		return sorted[0]
	}
	rank := p / 100 * float64(len(sorted)-1)
	lo := int(rank)
	hi := lo + 1
	if hi >= len(sorted) {
		return sorted[len(sorted)-1]
	}
	frac := rank - float64(lo)
	return sorted[lo]*(1-frac) + sorted[hi]*frac
}

func sortedCopy(xs []float64) []float64 {
	out := append([]float64(nil), xs...)
	sort.Float64s(out)
	return out
}
