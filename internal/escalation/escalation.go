// Copyright 2025 James Ross
// Package escalation implements time-based compounded cost escalation:
// default and custom escalation factors, compounding, and
// category-weighted effective-cost application.
package escalation

import (
	"fmt"
	"math"
	"math/rand"

	"github.com/riskforge/montecarlo/internal/distribution"
)

// FactorType names what an escalation factor tracks.
type FactorType string

const (
	Inflation FactorType = "inflation"
	Currency  FactorType = "currency"
	Material  FactorType = "material"
	Labor     FactorType = "labor"
	Fuel      FactorType = "fuel"
)

// Frequency is how often an escalation rate compounds per year.
type Frequency string

const (
	Monthly   Frequency = "monthly"
	Quarterly Frequency = "quarterly"
	Annually  Frequency = "annually"
)

func (f Frequency) periodsPerYear() float64 {
	switch f {
	case Monthly:
		return 12
	case Quarterly:
		return 4
	default:
		return 1
	}
}

// Factor is one escalation driver: an annual rate (optionally sampled
// from a distribution for Monte Carlo draws), a compounding frequency,
// and the category weights it applies to.
type Factor struct {
	Type             FactorType
	AnnualRate       float64
	RateDistribution *distribution.Distribution
	Compounding      Frequency
	CategoryWeights  map[string]float64
}

// DefaultFactors returns the engine's built-in escalation factors. The
// active set a caller uses is this set minus any type the caller
// removes, unioned with any custom factors the caller supplies.
func DefaultFactors() []Factor {
	inflationDist, _ := distribution.NewNormal(0.025, 0.01)
	currencyDist, _ := distribution.NewNormal(0.0, 0.05)
	materialDist, _ := distribution.NewTriangular(0.01, 0.035, 0.08)
	laborDist, _ := distribution.NewTriangular(0.015, 0.03, 0.06)

	inflationBounded := inflationDist.WithBounds(distribution.Bounds{HasLower: true, Lower: 0, HasUpper: true, Upper: 0.10})
	currencyBounded := currencyDist.WithBounds(distribution.Bounds{HasLower: true, Lower: -0.20, HasUpper: true, Upper: 0.20})

	return []Factor{
		{Type: Inflation, AnnualRate: 0.025, RateDistribution: &inflationBounded, Compounding: Annually},
		{Type: Currency, AnnualRate: 0.0, RateDistribution: &currencyBounded, Compounding: Annually},
		{Type: Material, AnnualRate: 0.035, RateDistribution: materialDist, Compounding: Annually},
		{Type: Labor, AnnualRate: 0.03, RateDistribution: laborDist, Compounding: Annually},
	}
}

// ActiveFactors merges custom factors over the defaults: a custom
// factor whose Type matches a default overrides it; removed names
// drop the corresponding default.
func ActiveFactors(custom []Factor, removed map[FactorType]bool) []Factor {
	overridden := make(map[FactorType]bool, len(custom))
	for _, c := range custom {
		overridden[c.Type] = true
	}

	var active []Factor
	for _, d := range DefaultFactors() {
		if overridden[d.Type] || removed[d.Type] {
			continue
		}
		active = append(active, d)
	}
	active = append(active, custom...)
	return active
}

// FactorContribution is one factor's share of a Result.
type FactorContribution struct {
	Type        FactorType
	SampledRate float64
	Multiplier  float64
	Amount      float64
}

// Result is the escalation applied to one base cost (or cost
// breakdown) over a time span.
type Result struct {
	BaseCost         float64
	EscalatedCost    float64
	EscalationAmount float64
	Factors          []FactorContribution
	Warnings         []string
}

// Apply compounds every active factor over spanYears and applies the
// combined multiplier to baseCost (or, when breakdown is non-nil, to
// the category-weighted effective cost derived from it).
func Apply(factors []Factor, baseCost float64, breakdown map[string]float64, spanYears float64, rng *rand.Rand) Result {
	result := Result{BaseCost: baseCost}

	effectiveBase := baseCost
	if breakdown != nil {
		effectiveBase = categoryWeightedCost(factors, breakdown, &result.Warnings)
	}

	var totalMultiplier float64
	for _, f := range factors {
		rate := f.AnnualRate
		if f.RateDistribution != nil {
			samples := f.RateDistribution.Sample(1, rng)
			rate = samples[0]
			if math.IsNaN(rate) || math.IsInf(rate, 0) {
				result.Warnings = append(result.Warnings, fmt.Sprintf("%s: sampled rate is non-finite, falling back to annual rate", f.Type))
				rate = f.AnnualRate
			} else if rate < -1 || rate > 2 {
				result.Warnings = append(result.Warnings, fmt.Sprintf("%s: sampled rate %v is outside [-1, 2]", f.Type, rate))
			}
		}
		if math.Abs(rate) > 0.5 {
			result.Warnings = append(result.Warnings, fmt.Sprintf("%s: annual rate %v exceeds 0.5 in magnitude", f.Type, rate))
		}

		periods := f.Compounding.periodsPerYear()
		multiplier := compoundedMultiplier(rate, periods, spanYears)

		share := 1.0
		if breakdown != nil {
			share = weightSum(f.CategoryWeights)
		}
		amount := effectiveBase * multiplier * share
		totalMultiplier += multiplier * share

		result.Factors = append(result.Factors, FactorContribution{
			Type:        f.Type,
			SampledRate: rate,
			Multiplier:  multiplier,
			Amount:      amount,
		})
	}

	result.EscalationAmount = effectiveBase * totalMultiplier
	result.EscalatedCost = baseCost + result.EscalationAmount
	return result
}

// compoundedMultiplier computes (1+r/f)^(spanYears*f) - 1, falling back
// to the linear approximation r*spanYears when r/f is near zero (the
// compounded form loses precision there).
func compoundedMultiplier(rate, periodsPerYear, spanYears float64) float64 {
	periodRate := rate / periodsPerYear
	if math.Abs(periodRate) < 1e-10 {
		return rate * spanYears
	}
	return math.Pow(1+periodRate, spanYears*periodsPerYear) - 1
}

func categoryWeightedCost(factors []Factor, breakdown map[string]float64, warnings *[]string) float64 {
	var total float64
	for _, v := range breakdown {
		total += v
	}
	for _, f := range factors {
		sum := weightSum(f.CategoryWeights)
		if sum > 1.1 {
			*warnings = append(*warnings, fmt.Sprintf("%s: category weights sum to %v, above 1.1", f.Type, sum))
		}
		for _, w := range f.CategoryWeights {
			if w < 0 || w > 1 {
				*warnings = append(*warnings, fmt.Sprintf("%s: category weight %v outside [0,1]", f.Type, w))
			}
		}
	}
	return total
}

func weightSum(weights map[string]float64) float64 {
	if weights == nil {
		return 1.0
	}
	var sum float64
	for _, w := range weights {
		sum += w
	}
	return sum
}
