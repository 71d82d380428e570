// Copyright 2025 James Ross
package correlation

import "math"

// Repair returns a new matrix with every negative eigenvalue clamped
// to Tolerance, the diagonal reset to 1, re-symmetrized, and clipped to
// [-1, 1] — the standard eigenvalue-adjustment fix for a correlation
// matrix rejected for non-positive-semidefiniteness. The input is never
// mutated.
func Repair(m *Matrix) *Matrix {
	eig, vec := jacobiEigen(m.dense)
	n := m.N()

	clamped := make([]float64, n)
	for i, e := range eig {
		if e < Tolerance {
			clamped[i] = Tolerance
		} else {
			clamped[i] = e
		}
	}

	// Reconstruct A' = V * diag(clamped) * V^T.
	repaired := make([][]float64, n)
	for i := range repaired {
		repaired[i] = make([]float64, n)
	}
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			var sum float64
			for k := 0; k < n; k++ {
				sum += vec[i][k] * clamped[k] * vec[j][k]
			}
			repaired[i][j] = sum
		}
	}

	// Rescale to correlation form (unit diagonal) then re-symmetrize
	// and clip, since the eigenvalue reconstruction alone does not
	// guarantee either.
	diag := make([]float64, n)
	for i := 0; i < n; i++ {
		diag[i] = math.Sqrt(math.Max(repaired[i][i], 1e-300))
	}
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			v := repaired[i][j] / (diag[i] * diag[j])
			repaired[i][j] = v
		}
	}
	for i := 0; i < n; i++ {
		repaired[i][i] = 1.0
	}
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			avg := (repaired[i][j] + repaired[j][i]) / 2
			avg = math.Max(-1, math.Min(1, avg))
			repaired[i][j] = avg
			repaired[j][i] = avg
		}
	}

	return m.withDense(repaired)
}
