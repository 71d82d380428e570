// Copyright 2025 James Ross
package analysis

import (
	"math"
	"sort"
)

// RiskContribution is one risk's share of the outcome variance and its
// linear association with the overall cost outcome.
type RiskContribution struct {
	RiskID               string
	VarianceContribution float64 // fraction of total variance, in [0,1]
	CostCorrelation      float64 // Pearson correlation with cost outcomes
	UncertaintyIndex     float64 // VarianceContribution * |CostCorrelation|
}

// RankContributions scores every risk in contributions by its share of
// the combined variance and its correlation with the cost outcome,
// returning the top N sorted by descending uncertainty index. A topN
// of 0 or negative returns the full ranked list.
func RankContributions(contributions map[string][]float64, costOutcomes []float64, topN int) []RiskContribution {
	var totalVariance float64
	variances := make(map[string]float64, len(contributions))
	for id, values := range contributions {
		_, v := meanVariance(values)
		variances[id] = v
		totalVariance += v
	}

	out := make([]RiskContribution, 0, len(contributions))
	for id, values := range contributions {
		var varContribution float64
		if totalVariance > 0 {
			varContribution = variances[id] / totalVariance
		}
		corr := pearson(values, costOutcomes)
		out = append(out, RiskContribution{
			RiskID:               id,
			VarianceContribution: varContribution,
			CostCorrelation:      corr,
			UncertaintyIndex:     varContribution * math.Abs(corr),
		})
	}

	sort.Slice(out, func(i, j int) bool { return out[i].UncertaintyIndex > out[j].UncertaintyIndex })

	if topN > 0 && topN < len(out) {
		out = out[:topN]
	}
	return out
}

func meanVariance(xs []float64) (mean, variance float64) {
	n := float64(len(xs))
	if n == 0 {
		return 0, 0
	}
	for _, x := range xs {
		mean += x
	}
	mean /= n
	for _, x := range xs {
		d := x - mean
		variance += d * d
	}
	variance /= n
	return mean, variance
}

// pearson computes the Pearson correlation coefficient between two
// equal-length series, returning 0 when either has zero variance.
func pearson(a, b []float64) float64 {
	n := len(a)
	if n == 0 || n != len(b) {
		return 0
	}
	meanA, _ := meanVariance(a)
	meanB, _ := meanVariance(b)

	var cov, varA, varB float64
	for i := 0; i < n; i++ {
		da, db := a[i]-meanA, b[i]-meanB
		cov += da * db
		varA += da * da
		varB += db * db
	}
	if varA == 0 || varB == 0 {
		return 0
	}
	return cov / math.Sqrt(varA*varB)
}
