// Copyright 2025 James Ross
package analysis

import (
	"math"
	"sort"
)

// CohensDInterpretation buckets an effect size into the conventional
// small/medium/large ladder (Cohen 1988), with a negligible band below
// 0.2.
type CohensDInterpretation string

const (
	EffectNegligible CohensDInterpretation = "negligible"
	EffectSmall      CohensDInterpretation = "small"
	EffectMedium     CohensDInterpretation = "medium"
	EffectLarge      CohensDInterpretation = "large"
)

// Comparison is the full two-sample comparison between a baseline and
// a scenario's outcome distribution.
type Comparison struct {
	WelchT               float64
	WelchPValue          float64
	MannWhitneyU         float64
	MannWhitneyPValue    float64
	KSStatistic          float64
	KSPValue             float64
	CohensD              float64
	Interpretation       CohensDInterpretation
	PracticallySignificant bool // relative mean difference exceeds 5%
	MeanDifference       float64
	MeanDifferenceCI95   ConfidenceInterval
}

// Compare runs every comparison test between baseline and scenario
// outcome sets.
func Compare(baseline, scenario []float64) *Comparison {
	welchT, welchP := welchTTest(baseline, scenario)
	u, uP := mannWhitneyU(baseline, scenario)
	ksStat, ksP := twoSampleKS(baseline, scenario)
	d := cohensD(baseline, scenario)

	meanBase, _ := meanVariance(baseline)
	meanScen, _ := meanVariance(scenario)
	meanDiff := meanScen - meanBase

	relativeDiff := 0.0
	if meanBase != 0 {
		relativeDiff = math.Abs(meanDiff) / math.Abs(meanBase)
	}

	return &Comparison{
		WelchT:                 welchT,
		WelchPValue:            welchP,
		MannWhitneyU:           u,
		MannWhitneyPValue:      uP,
		KSStatistic:            ksStat,
		KSPValue:               ksP,
		CohensD:                d,
		Interpretation:         interpretCohensD(d),
		PracticallySignificant: relativeDiff > 0.05,
		MeanDifference:         meanDiff,
		MeanDifferenceCI95:     meanDifferenceCI(baseline, scenario, meanDiff),
	}
}

func interpretCohensD(d float64) CohensDInterpretation {
	abs := math.Abs(d)
	switch {
	case abs < 0.2:
		return EffectNegligible
	case abs < 0.5:
		return EffectSmall
	case abs < 0.8:
		return EffectMedium
	default:
		return EffectLarge
	}
}

// welchTTest computes Welch's t-statistic for unequal variances and
// approximates its p-value with the standard normal CDF, since no
// Student's t quantile function exists anywhere in the pack and the
// normal approximation is adequate at the sample sizes a Monte Carlo
// run produces (thousands of iterations per arm).
func welchTTest(a, b []float64) (t, pValue float64) {
	meanA, varA := meanVariance(a)
	meanB, varB := meanVariance(b)
	nA, nB := float64(len(a)), float64(len(b))
	if nA < 2 || nB < 2 {
		return 0, 1
	}
	// meanVariance divides by n (population variance); rescale to the
	// unbiased sample variance Welch's formula expects.
	varA *= nA / (nA - 1)
	varB *= nB / (nB - 1)

	se := math.Sqrt(varA/nA + varB/nB)
	if se == 0 {
		return 0, 1
	}
	t = (meanA - meanB) / se
	pValue = 2 * (1 - standardNormalCDF(math.Abs(t)))
	return t, pValue
}

// mannWhitneyU computes the U statistic via midranks over the pooled
// sample and approximates its p-value with the large-sample normal
// approximation (valid once both groups exceed ~20 observations,
// comfortably true at Monte Carlo sample sizes).
func mannWhitneyU(a, b []float64) (u, pValue float64) {
	nA, nB := len(a), len(b)
	if nA == 0 || nB == 0 {
		return 0, 1
	}

	type labeled struct {
		value float64
		group int
	}
	pooled := make([]labeled, 0, nA+nB)
	for _, v := range a {
		pooled = append(pooled, labeled{v, 0})
	}
	for _, v := range b {
		pooled = append(pooled, labeled{v, 1})
	}
	sort.Slice(pooled, func(i, j int) bool { return pooled[i].value < pooled[j].value })

	ranks := make([]float64, len(pooled))
	i := 0
	for i < len(pooled) {
		j := i
		for j < len(pooled) && pooled[j].value == pooled[i].value {
			j++
		}
		avgRank := float64(i+j+1) / 2 // ranks are 1-indexed
		for k := i; k < j; k++ {
			ranks[k] = avgRank
		}
		i = j
	}

	var rankSumA float64
	for idx, l := range pooled {
		if l.group == 0 {
			rankSumA += ranks[idx]
		}
	}

	nAf, nBf := float64(nA), float64(nB)
	uA := rankSumA - nAf*(nAf+1)/2
	u = math.Min(uA, nAf*nBf-uA)

	meanU := nAf * nBf / 2
	stdU := math.Sqrt(nAf * nBf * (nAf + nBf + 1) / 12)
	if stdU == 0 {
		return u, 1
	}
	z := (u - meanU) / stdU
	pValue = 2 * standardNormalCDF(-math.Abs(z))
	return u, pValue
}

// twoSampleKS computes the two-sample Kolmogorov-Smirnov statistic
// (max difference between the two empirical CDFs) and its asymptotic
// p-value via the same Kolmogorov-distribution series the
// one-sample goodness-of-fit test in internal/distribution uses,
// evaluated at the effective sample size n1*n2/(n1+n2).
func twoSampleKS(a, b []float64) (stat, pValue float64) {
	sortedA := append([]float64(nil), a...)
	sortedB := append([]float64(nil), b...)
	sort.Float64s(sortedA)
	sort.Float64s(sortedB)

	pooled := append(append([]float64(nil), sortedA...), sortedB...)
	sort.Float64s(pooled)

	var maxDiff float64
	for _, x := range pooled {
		cdfA := empiricalCDF(sortedA, x)
		cdfB := empiricalCDF(sortedB, x)
		if diff := math.Abs(cdfA - cdfB); diff > maxDiff {
			maxDiff = diff
		}
	}

	nA, nB := float64(len(a)), float64(len(b))
	if nA == 0 || nB == 0 {
		return maxDiff, 1
	}
	nEff := nA * nB / (nA + nB)
	lambda := (math.Sqrt(nEff) + 0.12 + 0.11/math.Sqrt(nEff)) * maxDiff
	if lambda < 0.2 {
		// The Kolmogorov survival function is 1 to within 1e-12 here,
		// and the truncated alternating series does not converge.
		return maxDiff, 1
	}

	var sum float64
	for k := 1; k <= 100; k++ {
		sign := 1.0
		if k%2 == 0 {
			sign = -1.0
		}
		sum += sign * math.Exp(-2*float64(k)*float64(k)*lambda*lambda)
	}
	p := 2 * sum
	if p < 0 {
		p = 0
	}
	if p > 1 {
		p = 1
	}
	return maxDiff, p
}

func empiricalCDF(sorted []float64, x float64) float64 {
	idx := sort.SearchFloat64s(sorted, x+1e-12)
	return float64(idx) / float64(len(sorted))
}

func cohensD(a, b []float64) float64 {
	meanA, varA := meanVariance(a)
	meanB, varB := meanVariance(b)
	nA, nB := float64(len(a)), float64(len(b))
	if nA < 2 || nB < 2 {
		return 0
	}
	pooledVar := ((nA-1)*varA*nA/(nA-1) + (nB-1)*varB*nB/(nB-1)) / (nA + nB - 2)
	pooledStd := math.Sqrt(pooledVar)
	if pooledStd == 0 {
		return 0
	}
	return (meanB - meanA) / pooledStd
}

func meanDifferenceCI(a, b []float64, diff float64) ConfidenceInterval {
	_, varA := meanVariance(a)
	_, varB := meanVariance(b)
	nA, nB := float64(len(a)), float64(len(b))
	se := math.Sqrt(varA/nA + varB/nB)
	margin := 1.96 * se
	return ConfidenceInterval{Level: 0.95, Lower: diff - margin, Upper: diff + margin}
}

func standardNormalCDF(x float64) float64 {
	return 0.5 * (1 + math.Erf(x/math.Sqrt2))
}
