// Copyright 2025 James Ross
package distribution

import (
	"math"
	"sort"
)

// FitResult summarizes one family's fit to a historical sample: its
// estimated Distribution, log-likelihood, information criteria, and
// the goodness-of-fit diagnostics used to compare candidate families.
type FitResult struct {
	Family        Family
	Distribution  *Distribution
	LogLikelihood float64
	AIC           float64
	BIC           float64
	KSStatistic   float64
	KSPValue      float64
	UsedFallback  bool // true when MLE did not converge and method-of-moments was used instead
}

// DefaultCandidateFamilies is the family set Fit tries when the caller
// does not restrict the search.
var DefaultCandidateFamilies = []Family{Normal, Triangular, Uniform, Beta, Lognormal}

// Fit estimates parameters for each candidate family by maximum
// likelihood (analytically for normal/uniform/lognormal, by
// mode-estimation for triangular, by bounded numerical optimization
// seeded from method-of-moments for beta), scores each fit by AIC/BIC
// and KS goodness-of-fit, and returns the family minimizing AIC
// alongside every candidate's result. Fails only when every candidate
// family fails to produce a valid distribution.
func Fit(samples []float64, families []Family) (best *FitResult, all []FitResult, err error) {
	if len(samples) == 0 {
		return nil, nil, invalidParam("fitting requires at least one historical sample")
	}
	if families == nil {
		families = DefaultCandidateFamilies
	}

	n := float64(len(samples))
	for _, family := range families {
		d, usedFallback, ferr := mleFit(samples, family)
		if ferr != nil {
			continue
		}
		ll := logLikelihood(samples, d)
		k := float64(paramCount(family))
		aic := 2*k - 2*ll
		bic := math.Log(n)*k - 2*ll
		ks, ksP := kolmogorovSmirnov(samples, d)

		all = append(all, FitResult{
			Family:        family,
			Distribution:  d,
			LogLikelihood: ll,
			AIC:           aic,
			BIC:           bic,
			KSStatistic:   ks,
			KSPValue:      ksP,
			UsedFallback:  usedFallback,
		})
	}

	if len(all) == 0 {
		return nil, nil, invalidParam("no candidate family converged for the supplied data")
	}

	bestIdx := 0
	for i := range all {
		if all[i].AIC < all[bestIdx].AIC {
			bestIdx = i
		}
	}
	return &all[bestIdx], all, nil
}

func paramCount(family Family) int {
	switch family {
	case Triangular:
		return 3
	default:
		return 2
	}
}

func mleFit(samples []float64, family Family) (*Distribution, bool, error) {
	switch family {
	case Normal:
		mean := avg(samples)
		var ss float64
		for _, s := range samples {
			d := s - mean
			ss += d * d
		}
		std := math.Sqrt(ss / float64(len(samples)))
		if std <= 0 {
			std = 1e-6
		}
		d, err := NewNormal(mean, std)
		return d, false, err
	case Uniform:
		min, max := minMax(samples)
		if max == min {
			max = min + 1e-6
		}
		d, err := NewUniform(min, max)
		return d, false, err
	case Triangular:
		return triangularMLE(samples)
	case Lognormal:
		for _, s := range samples {
			if s <= 0 {
				return nil, false, invalidParam("lognormal requires strictly positive samples")
			}
		}
		logs := make([]float64, len(samples))
		for i, s := range samples {
			logs[i] = math.Log(s)
		}
		mu := avg(logs)
		var ss float64
		for _, l := range logs {
			d := l - mu
			ss += d * d
		}
		sigma := math.Sqrt(ss / float64(len(logs)))
		if sigma <= 0 {
			sigma = 1e-6
		}
		d, err := NewLognormal(mu, sigma)
		return d, false, err
	case Beta:
		return betaMLE(samples)
	default:
		return nil, false, invalidParam("unknown distribution family")
	}
}

// triangularMLE estimates the mode by a Gaussian KDE peak over the
// sample range, falling back to the median when the data is constant
// (zero range — KDE bandwidth would be degenerate).
func triangularMLE(samples []float64) (*Distribution, bool, error) {
	min, max := minMax(samples)
	if max == min {
		d, err := NewTriangular(min-1e-6, min, min+1e-6)
		return d, true, err
	}

	mode := kdePeak(samples, min, max)
	const padFraction = 0.01
	rng := max - min
	pad := rng * padFraction
	lo, hi := min, max
	if mode <= lo {
		lo -= pad
	}
	if mode >= hi {
		hi += pad
	}
	d, err := NewTriangular(lo, mode, hi)
	return d, false, err
}

// kdePeak evaluates a Gaussian KDE (Silverman bandwidth) over a grid
// spanning [min,max] and returns the grid point of maximum density.
func kdePeak(samples []float64, min, max float64) float64 {
	n := float64(len(samples))
	_, variance := meanVariancePopulation(samples)
	std := math.Sqrt(variance)
	if std <= 0 {
		return median(samples)
	}
	bandwidth := 1.06 * std * math.Pow(n, -0.2)
	if bandwidth <= 0 {
		bandwidth = (max - min) / 20
	}

	const grid = 200
	bestX, bestDensity := min, -1.0
	for i := 0; i <= grid; i++ {
		x := min + (max-min)*float64(i)/grid
		density := 0.0
		for _, s := range samples {
			z := (x - s) / bandwidth
			density += math.Exp(-0.5 * z * z)
		}
		if density > bestDensity {
			bestDensity = density
			bestX = x
		}
	}
	return bestX
}

// betaMLE maximizes the Beta(alpha,beta) log-likelihood over data
// normalized to [0,1] via alternating golden-section search on each
// parameter, seeded from the method-of-moments estimate; a step is kept
// only when it raises the likelihood, so a search that never improves
// returns the seed unflagged. Falls back to the method-of-moments
// estimate (reporting UsedFallback) only when the result is non-finite.
func betaMLE(samples []float64) (*Distribution, bool, error) {
	seed, err := betaFromHistorical(samples)
	if err != nil {
		return nil, false, err
	}

	min, max := seed.Bounds.Lower, seed.Bounds.Upper
	norm := make([]float64, len(samples))
	for i, s := range samples {
		v := (s - min) / (max - min)
		if v <= 0 {
			v = 1e-6
		}
		if v >= 1 {
			v = 1 - 1e-6
		}
		norm[i] = v
	}

	alpha, beta := seed.Alpha, seed.Beta
	bestLL := betaLogLikelihood(norm, alpha, beta)

	for round := 0; round < 6; round++ {
		a2, ll2 := goldenSectionMax(0.01, 100, func(a float64) float64 {
			return betaLogLikelihood(norm, a, beta)
		})
		if ll2 > bestLL && isFiniteParam(a2) {
			alpha, bestLL = a2, ll2
		}
		b2, ll3 := goldenSectionMax(0.01, 100, func(b float64) float64 {
			return betaLogLikelihood(norm, alpha, b)
		})
		if ll3 > bestLL && isFiniteParam(b2) {
			beta, bestLL = b2, ll3
		}
	}

	usedFallback := false
	if !isFiniteParam(alpha) || !isFiniteParam(beta) || math.IsNaN(bestLL) {
		alpha, beta = seed.Alpha, seed.Beta
		usedFallback = true
	}

	d, err := NewBeta(alpha, beta)
	if err != nil {
		return nil, false, err
	}
	d.Bounds = &Bounds{HasLower: true, Lower: min, HasUpper: true, Upper: max}
	return d, usedFallback, nil
}

func isFiniteParam(x float64) bool { return !math.IsNaN(x) && !math.IsInf(x, 0) && x > 0 }

func betaLogLikelihood(normalized []float64, alpha, beta float64) float64 {
	if alpha <= 0 || beta <= 0 {
		return math.Inf(-1)
	}
	lbeta := lgamma(alpha) + lgamma(beta) - lgamma(alpha+beta)
	var ll float64
	for _, x := range normalized {
		ll += (alpha-1)*math.Log(x) + (beta-1)*math.Log(1-x) - lbeta
	}
	return ll
}

// goldenSectionMax searches [lo,hi] for the x maximizing f, returning
// (x, f(x)).
func goldenSectionMax(lo, hi float64, f func(float64) float64) (float64, float64) {
	const phi = 0.6180339887498949
	a, b := lo, hi
	c := b - phi*(b-a)
	d := a + phi*(b-a)
	fc, fd := f(c), f(d)
	for i := 0; i < 60 && b-a > 1e-8; i++ {
		if fc > fd {
			b, d, fd = d, c, fc
			c = b - phi*(b-a)
			fc = f(c)
		} else {
			a, c, fc = c, d, fd
			d = a + phi*(b-a)
			fd = f(d)
		}
	}
	x := (a + b) / 2
	return x, f(x)
}

func logLikelihood(samples []float64, d *Distribution) float64 {
	switch d.Family {
	case Normal:
		var ll float64
		for _, x := range samples {
			z := (x - d.Mean) / d.Std
			ll += -0.5*z*z - math.Log(d.Std) - 0.5*math.Log(2*math.Pi)
		}
		return ll
	case Uniform:
		width := d.Max - d.Min
		for _, x := range samples {
			if x < d.Min || x > d.Max {
				return math.Inf(-1)
			}
		}
		return -float64(len(samples)) * math.Log(width)
	case Triangular:
		var ll float64
		for _, x := range samples {
			pdf := triangularPDF(x, d.Min, d.Mode, d.Max)
			if pdf <= 0 {
				return math.Inf(-1)
			}
			ll += math.Log(pdf)
		}
		return ll
	case Beta:
		lo, hi := 0.0, 1.0
		if d.Bounds != nil && d.Bounds.HasLower && d.Bounds.HasUpper {
			lo, hi = d.Bounds.Lower, d.Bounds.Upper
		}
		lbeta := lgamma(d.Alpha) + lgamma(d.Beta) - lgamma(d.Alpha+d.Beta)
		var ll float64
		for _, x := range samples {
			v := (x - lo) / (hi - lo)
			if v <= 0 || v >= 1 {
				return math.Inf(-1)
			}
			ll += (d.Alpha-1)*math.Log(v) + (d.Beta-1)*math.Log(1-v) - lbeta - math.Log(hi-lo)
		}
		return ll
	case Lognormal:
		var ll float64
		for _, x := range samples {
			if x <= 0 {
				return math.Inf(-1)
			}
			lx := math.Log(x)
			z := (lx - d.Mu) / d.Sigma
			ll += -0.5*z*z - math.Log(d.Sigma) - 0.5*math.Log(2*math.Pi) - lx
		}
		return ll
	default:
		return math.Inf(-1)
	}
}

func triangularPDF(x, min, mode, max float64) float64 {
	if x < min || x > max {
		return 0
	}
	if x < mode {
		if mode == min {
			return 0
		}
		return 2 * (x - min) / ((max - min) * (mode - min))
	}
	if x > mode {
		if mode == max {
			return 0
		}
		return 2 * (max - x) / ((max - min) * (max - mode))
	}
	return 2 / (max - min)
}

// kolmogorovSmirnov computes the KS statistic of samples against d's
// CDF and its asymptotic p-value (the Kolmogorov-distribution series
// evaluated at (sqrt(n)+0.12+0.11/sqrt(n))*D).
func kolmogorovSmirnov(samples []float64, d *Distribution) (stat, pValue float64) {
	sorted := append([]float64(nil), samples...)
	sort.Float64s(sorted)
	n := float64(len(sorted))

	var maxDiff float64
	for i, x := range sorted {
		empiricalBefore := float64(i) / n
		empiricalAfter := float64(i+1) / n
		fitted := d.CDF(x)
		if diff := math.Abs(fitted - empiricalBefore); diff > maxDiff {
			maxDiff = diff
		}
		if diff := math.Abs(fitted - empiricalAfter); diff > maxDiff {
			maxDiff = diff
		}
	}

	lambda := (math.Sqrt(n) + 0.12 + 0.11/math.Sqrt(n)) * maxDiff
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
