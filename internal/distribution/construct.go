// Copyright 2025 James Ross
package distribution

import (
	"math"
	"sort"
)

// PERT is a three-point estimate: optimistic, most-likely, pessimistic.
type PERT struct {
	O, M, P float64
}

// CreationInput names the three sources a Distribution can be created
// from. Exactly one of Historical, PERT, or Params should be set;
// Create fails when none are.
type CreationInput struct {
	Family     Family
	Historical []float64
	PERT       *PERT
	Params     map[string]float64
	Bounds     *Bounds
}

// Create builds a Distribution of the requested Family from whichever
// source is populated, preferring Historical, then PERT, then Params.
func Create(in CreationInput) (*Distribution, error) {
	var d *Distribution
	var err error

	switch {
	case len(in.Historical) > 0:
		d, err = fromHistorical(in.Family, in.Historical)
	case in.PERT != nil:
		d, err = fromPERT(in.Family, *in.PERT)
	case in.Params != nil:
		d, err = fromParams(in.Family, in.Params)
	default:
		return nil, invalidParam("distribution creation requires historical samples, a PERT estimate, or a parameter map")
	}
	if err != nil {
		return nil, err
	}
	if in.Bounds != nil {
		d.Bounds = in.Bounds
	}
	return d, nil
}

func fromHistorical(family Family, samples []float64) (*Distribution, error) {
	switch family {
	case Normal:
		mean, std := meanStd(samples)
		return NewNormal(mean, std)
	case Triangular:
		return triangularFromHistorical(samples)
	case Uniform:
		min, max := minMax(samples)
		rng := max - min
		return NewUniform(min-0.05*rng, max+0.05*rng)
	case Beta:
		return betaFromHistorical(samples)
	case Lognormal:
		for _, s := range samples {
			if s <= 0 {
				return nil, invalidParam("lognormal requires strictly positive historical samples")
			}
		}
		logs := make([]float64, len(samples))
		for i, s := range samples {
			logs[i] = math.Log(s)
		}
		mu, sigma := meanStd(logs)
		return NewLognormal(mu, sigma)
	default:
		return nil, invalidParam("unknown distribution family")
	}
}

func fromPERT(family Family, pert PERT) (*Distribution, error) {
	o, m, p := pert.O, pert.M, pert.P
	switch family {
	case Normal:
		if p <= o {
			return nil, invalidParam("PERT requires pessimistic > optimistic")
		}
		mean := (o + 4*m + p) / 6
		std := (p - o) / 6
		return NewNormal(mean, std)
	case Triangular:
		return NewTriangular(o, m, p)
	case Uniform:
		return NewUniform(o, p)
	case Beta:
		if p <= o {
			return nil, invalidParam("PERT requires pessimistic > optimistic")
		}
		mNorm := (m - o) / (p - o)
		alpha := 6*mNorm + 1
		beta := 6*(1-mNorm) + 1
		d, err := NewBeta(alpha, beta)
		if err != nil {
			return nil, err
		}
		d.Bounds = &Bounds{HasLower: true, Lower: o, HasUpper: true, Upper: p}
		return d, nil
	case Lognormal:
		if o <= 0 || m <= 0 || p <= 0 {
			return nil, invalidParam("lognormal PERT requires all three points positive")
		}
		if p <= o {
			return nil, invalidParam("PERT requires pessimistic > optimistic")
		}
		geoMean := math.Exp((math.Log(o) + math.Log(m) + math.Log(p)) / 3)
		mu := math.Log(geoMean)
		sigma := (math.Log(p) - math.Log(o)) / 6
		if sigma < 0.1 {
			sigma = 0.1
		}
		return NewLognormal(mu, sigma)
	default:
		return nil, invalidParam("unknown distribution family")
	}
}

func fromParams(family Family, params map[string]float64) (*Distribution, error) {
	switch family {
	case Normal:
		return NewNormal(params["mean"], params["std"])
	case Triangular:
		return NewTriangular(params["min"], params["mode"], params["max"])
	case Uniform:
		return NewUniform(params["min"], params["max"])
	case Beta:
		return NewBeta(params["alpha"], params["beta"])
	case Lognormal:
		return NewLognormal(params["mu"], params["sigma"])
	default:
		return nil, invalidParam("unknown distribution family")
	}
}

func triangularFromHistorical(samples []float64) (*Distribution, error) {
	min, max := minMax(samples)
	mode := median(samples)

	const padFraction = 0.01
	rng := max - min
	if rng == 0 {
		// Constant data: widen support by a tiny epsilon rather than fail.
		rng = math.Max(math.Abs(min)*padFraction, 1e-6)
		min -= rng / 2
		max += rng / 2
		mode = (min + max) / 2
		return NewTriangular(min, mode, max)
	}
	pad := rng * padFraction
	if mode <= min {
		min -= pad
	}
	if mode >= max {
		max += pad
	}
	return NewTriangular(min, mode, max)
}

func betaFromHistorical(samples []float64) (*Distribution, error) {
	min, max := minMax(samples)
	if max == min {
		max = min + math.Max(math.Abs(min)*0.01, 1e-6)
	}
	norm := make([]float64, len(samples))
	for i, s := range samples {
		norm[i] = (s - min) / (max - min)
	}
	mean, variance := meanVariancePopulation(norm)
	upperBound := mean * (1 - mean)
	if variance >= upperBound {
		variance = 0.99 * upperBound
	}
	if variance <= 0 {
		variance = 1e-6
	}
	common := upperBound/variance - 1
	alpha := mean * common
	beta := (1 - mean) * common
	d, err := NewBeta(alpha, beta)
	if err != nil {
		return nil, err
	}
	d.Bounds = &Bounds{HasLower: true, Lower: min, HasUpper: true, Upper: max}
	return d, nil
}

func meanStd(samples []float64) (mean, std float64) {
	mean = avg(samples)
	if len(samples) < 2 {
		return mean, 0
	}
	var ss float64
	for _, s := range samples {
		d := s - mean
		ss += d * d
	}
	return mean, math.Sqrt(ss / float64(len(samples)-1))
}

func meanVariancePopulation(samples []float64) (mean, variance float64) {
	mean = avg(samples)
	var ss float64
	for _, s := range samples {
		d := s - mean
		ss += d * d
	}
	if len(samples) == 0 {
		return mean, 0
	}
	return mean, ss / float64(len(samples))
}

func avg(samples []float64) float64 {
	if len(samples) == 0 {
		return 0
	}
	var sum float64
	for _, s := range samples {
		sum += s
	}
	return sum / float64(len(samples))
}

func minMax(samples []float64) (min, max float64) {
	min, max = samples[0], samples[0]
	for _, s := range samples {
		if s < min {
			min = s
		}
		if s > max {
			max = s
		}
	}
	return min, max
}

func median(samples []float64) float64 {
	sorted := append([]float64(nil), samples...)
	sort.Float64s(sorted)
	n := len(sorted)
	if n%2 == 1 {
		return sorted[n/2]
	}
	return (sorted[n/2-1] + sorted[n/2]) / 2
}
