// Copyright 2025 James Ross
package correlation

import (
	"math"
	"math/rand"

	"github.com/riskforge/montecarlo/internal/distribution"
	"github.com/riskforge/montecarlo/internal/errs"
)

// GenerateCorrelatedSamples draws sampleCount correlated variates for
// n risks: validate the matrix (repairing once on a non-positive-definite
// Cholesky failure), factor it, drive n independent standard normals
// through the factor, map through the standard-normal CDF to uniforms,
// then through each risk's own quantile function. Each output column
// therefore has Dⱼ as its exact marginal while the columns jointly
// carry the matrix's correlation structure.
//
// dists must be ordered to match m.RiskIDs. The returned slice has
// sampleCount rows, each of length len(dists).
func GenerateCorrelatedSamples(dists []*distribution.Distribution, m *Matrix, sampleCount int, rng *rand.Rand) ([][]float64, error) {
	n := len(dists)
	if n != m.N() {
		return nil, errs.NewValidationError(errs.ErrInvalidCorrelation,
			"number of distributions must match number of risks in the correlation matrix", nil)
	}
	if sampleCount <= 0 {
		return nil, errs.NewValidationError(errs.ErrInvalidCorrelation, "sample count must be positive", nil)
	}

	result := Validate(m)
	working := m
	if !result.Valid {
		working = Repair(m)
		if !Validate(working).Valid {
			return nil, errs.NewDomainError(errs.ErrNonPSDMatrix, "correlation matrix could not be repaired to positive semidefinite", nil)
		}
	}

	l, err := Cholesky(working)
	if err != nil {
		working = Repair(working)
		l, err = Cholesky(working)
		if err != nil {
			return nil, err
		}
	}

	samples := make([][]float64, sampleCount)
	for row := 0; row < sampleCount; row++ {
		z := make([]float64, n)
		for j := 0; j < n; j++ {
			z[j] = rng.NormFloat64()
		}

		y := make([]float64, n)
		for i := 0; i < n; i++ {
			var sum float64
			for k := 0; k <= i; k++ {
				sum += l[i][k] * z[k]
			}
			y[i] = sum
		}

		out := make([]float64, n)
		for j := 0; j < n; j++ {
			u := standardNormalCDF(y[j])
			out[j] = dists[j].Quantile(u)
		}
		samples[row] = out
	}
	return samples, nil
}

func standardNormalCDF(x float64) float64 {
	return 0.5 * (1 + math.Erf(x/math.Sqrt2))
}
