// Copyright 2025 James Ross
package distribution

import (
	"math"
	"sort"
)

// GoodnessOfFit bundles the diagnostics §4.A requires: KS always,
// Anderson-Darling for normal fits, and chi-square over
// equal-probability bins (no bin merging) when there is enough data to
// support it.
type GoodnessOfFit struct {
	KSStatistic float64
	KSPValue    float64

	HasAD       bool
	ADStatistic float64
	ADPValue    float64

	ChiSquareSkipped   bool
	ChiSquareStatistic float64
	ChiSquareDF        int
	ChiSquarePValue    float64

	QualityScore float64
}

// Evaluate computes the goodness-of-fit diagnostics for samples against
// the fitted Distribution d.
func Evaluate(samples []float64, d *Distribution) (*GoodnessOfFit, error) {
	if len(samples) == 0 {
		return nil, invalidParam("goodness-of-fit requires at least one sample")
	}

	g := &GoodnessOfFit{}
	g.KSStatistic, g.KSPValue = kolmogorovSmirnov(samples, d)

	if d.Family == Normal {
		g.HasAD = true
		g.ADStatistic, g.ADPValue = andersonDarling(samples, d)
	}

	g.ChiSquareStatistic, g.ChiSquareDF, g.ChiSquarePValue, g.ChiSquareSkipped = chiSquareGOF(samples, d)

	g.QualityScore = qualityScore(g, samples, d)
	return g, nil
}

// andersonDarling computes the A² statistic (Stephens' correction for
// estimated parameters) and maps it to a p-value by linear
// interpolation across tabulated critical values, as called for by the
// spec rather than a closed-form asymptotic distribution.
func andersonDarling(samples []float64, d *Distribution) (stat, pValue float64) {
	sorted := append([]float64(nil), samples...)
	sort.Float64s(sorted)
	n := len(sorted)
	nf := float64(n)

	var sum float64
	for i := 0; i < n; i++ {
		fi := d.CDF(sorted[i])
		fni := d.CDF(sorted[n-1-i])
		fi = clampUnit(fi)
		fni = clampUnit(1 - fni)
		sum += float64(2*i+1) * (math.Log(fi) + math.Log(fni))
	}
	a2 := -nf - sum/nf
	corrected := a2 * (1 + 4/nf - 25/(nf*nf))
	return corrected, adPValue(corrected)
}

// adPValue interpolates across D'Agostino-Stephens tabulated critical
// values for the normal case with estimated mean and variance.
func adPValue(a2 float64) float64 {
	anchors := []struct{ A, P float64 }{
		{0.201, 0.990},
		{0.301, 0.900},
		{0.434, 0.500},
		{0.631, 0.100},
		{0.752, 0.050},
		{0.873, 0.025},
		{1.035, 0.010},
		{1.159, 0.005},
	}
	if a2 <= anchors[0].A {
		return 1.0
	}
	if a2 >= anchors[len(anchors)-1].A {
		return 0.001
	}
	for i := 0; i < len(anchors)-1; i++ {
		lo, hi := anchors[i], anchors[i+1]
		if a2 >= lo.A && a2 <= hi.A {
			t := (a2 - lo.A) / (hi.A - lo.A)
			return lo.P + t*(hi.P-lo.P)
		}
	}
	return 0.001
}

// chiSquareGOF bins samples into equal-probability bins under d (so
// expected counts are n/bins by construction) and computes the
// chi-square statistic; skipped when too little data remains to form
// bins with expected count >= 5 in each.
func chiSquareGOF(samples []float64, d *Distribution) (stat float64, df int, pValue float64, skipped bool) {
	n := len(samples)
	bins := n / 5
	if bins > 10 {
		bins = 10
	}
	if bins < 2 {
		return 0, 0, 0, true
	}

	edges := make([]float64, bins-1)
	for i := range edges {
		edges[i] = d.Quantile(float64(i+1) / float64(bins))
	}

	counts := make([]int, bins)
	for _, x := range samples {
		idx := sort.SearchFloat64s(edges, x)
		counts[idx]++
	}

	expected := float64(n) / float64(bins)
	if expected < 5 {
		return 0, 0, 0, true
	}

	degFree := bins - 1 - paramCount(d.Family)
	if degFree <= 0 {
		return 0, 0, 0, true
	}

	var chi2 float64
	for _, c := range counts {
		diff := float64(c) - expected
		chi2 += diff * diff / expected
	}
	return chi2, degFree, chiSquarePValue(chi2, float64(degFree)), false
}

// qualityScore blends the per-test p-values (renormalized over the
// tests that actually ran) 80/20 with a parameter-reasonableness score
// comparing the fitted distribution's first two moments against the
// sample's.
func qualityScore(g *GoodnessOfFit, samples []float64, d *Distribution) float64 {
	type weighted struct {
		p, w float64
	}
	terms := []weighted{{g.KSPValue, 0.4}}
	if g.HasAD {
		terms = append(terms, weighted{g.ADPValue, 0.3})
	}
	if !g.ChiSquareSkipped {
		terms = append(terms, weighted{g.ChiSquarePValue, 0.2})
	}

	var sumW, sumWP float64
	for _, t := range terms {
		sumW += t.w
		sumWP += t.w * t.p
	}
	fitScore := 0.5
	if sumW > 0 {
		fitScore = sumWP / sumW
	}

	reasonableness := parameterReasonableness(samples, d)
	return 0.8*fitScore + 0.2*reasonableness
}

// parameterReasonableness compares the fitted distribution's mean and
// standard deviation against the sample's, scoring 1.0 when they match
// exactly and decaying toward 0 as the relative error grows. This is
// an implementation decision (the original specifies only the 80/20
// blend, not the reasonableness formula) recorded in DESIGN.md.
func parameterReasonableness(samples []float64, d *Distribution) float64 {
	sampleMean, sampleStd := meanStd(samples)
	fittedMean, fittedStd := momentsOf(d)

	meanErr := relativeError(sampleMean, fittedMean)
	stdErr := relativeError(sampleStd, fittedStd)

	meanScore := math.Max(0, 1-meanErr)
	stdScore := math.Max(0, 1-stdErr)
	return (meanScore + stdScore) / 2
}

func relativeError(a, b float64) float64 {
	denom := math.Max(math.Abs(a), 1e-9)
	return math.Abs(a-b) / denom
}

func momentsOf(d *Distribution) (mean, std float64) {
	switch d.Family {
	case Normal:
		return d.Mean, d.Std
	case Uniform:
		return (d.Min + d.Max) / 2, (d.Max - d.Min) / math.Sqrt(12)
	case Triangular:
		mean = (d.Min + d.Mode + d.Max) / 3
		variance := (d.Min*d.Min + d.Mode*d.Mode + d.Max*d.Max - d.Min*d.Mode - d.Min*d.Max - d.Mode*d.Max) / 18
		return mean, math.Sqrt(variance)
	case Beta:
		a, b := d.Alpha, d.Beta
		m := a / (a + b)
		v := (a * b) / ((a + b) * (a + b) * (a + b + 1))
		lo, hi := 0.0, 1.0
		if d.Bounds != nil && d.Bounds.HasLower && d.Bounds.HasUpper {
			lo, hi = d.Bounds.Lower, d.Bounds.Upper
		}
		scale := hi - lo
		return lo + m*scale, math.Sqrt(v) * scale
	case Lognormal:
		mean = math.Exp(d.Mu + d.Sigma*d.Sigma/2)
		variance := (math.Exp(d.Sigma*d.Sigma) - 1) * math.Exp(2*d.Mu+d.Sigma*d.Sigma)
		return mean, math.Sqrt(variance)
	default:
		return 0, 0
	}
}
