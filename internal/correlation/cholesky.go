// Copyright 2025 James Ross
package correlation

import (
	"math"

	"github.com/riskforge/montecarlo/internal/errs"
)

// Cholesky computes the lower-triangular factor L such that L·Lᵀ = the
// matrix's dense form, via the Cholesky-Banachiewicz algorithm. Fails
// with a KindNumerical error (callers decide whether to Repair and
// retry or surface the failure) when a diagonal pivot is non-positive,
// which happens exactly when the matrix is not positive definite.
func Cholesky(m *Matrix) ([][]float64, error) {
	n := m.N()
	l := make([][]float64, n)
	for i := range l {
		l[i] = make([]float64, n)
	}

	for i := 0; i < n; i++ {
		for j := 0; j <= i; j++ {
			var sum float64
			for k := 0; k < j; k++ {
				sum += l[i][k] * l[j][k]
			}
			if i == j {
				pivot := m.At(i, i) - sum
				if pivot <= 0 {
					return nil, errs.NewNumericalError(errs.ErrCholeskyFailed,
						"correlation matrix is not positive definite", nil)
				}
				l[i][j] = math.Sqrt(pivot)
			} else {
				l[i][j] = (m.At(i, j) - sum) / l[j][j]
			}
		}
	}
	return l, nil
}
