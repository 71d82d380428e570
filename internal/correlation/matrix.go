// Copyright 2025 James Ross
// Package correlation implements the correlation kernel: matrix
// construction and validation, PSD repair by eigenvalue clamping,
// Cholesky decomposition, and the Cholesky-driven correlated-sampling
// pipeline that preserves each risk's marginal distribution.
package correlation

import (
	"fmt"
	"sort"

	"github.com/riskforge/montecarlo/internal/errs"
)

// Tolerance is the slack used for symmetry, unit-diagonal, and
// positive-semidefiniteness checks.
const Tolerance = 1e-8

// Pair identifies an unordered pair of risk IDs.
type Pair struct {
	A, B string
}

// Matrix is a dense correlation matrix over an ordered set of risk IDs.
// Coefficients default to 0 for unspecified pairs and 1 on the
// diagonal; the dense form is rebuilt from the sparse map at
// construction time so every downstream algorithm (eigen-decomposition,
// Cholesky) can work on a plain [][]float64.
type Matrix struct {
	RiskIDs []string
	index   map[string]int
	dense   [][]float64
}

// New builds a Matrix from sparse pairwise coefficients. Every
// coefficient must lie in [-1, 1]; pairs referencing an ID outside
// riskIDs are rejected rather than silently dropped.
func New(riskIDs []string, correlations map[Pair]float64) (*Matrix, error) {
	if len(riskIDs) == 0 {
		return nil, errs.NewValidationError(errs.ErrInvalidCorrelation, "correlation matrix requires at least one risk ID", nil)
	}

	index := make(map[string]int, len(riskIDs))
	for i, id := range riskIDs {
		index[id] = i
	}

	n := len(riskIDs)
	dense := make([][]float64, n)
	for i := range dense {
		dense[i] = make([]float64, n)
		dense[i][i] = 1.0
	}

	for pair, coeff := range correlations {
		if coeff < -1.0 || coeff > 1.0 {
			return nil, errs.NewValidationError(errs.ErrInvalidCorrelation,
				fmt.Sprintf("correlation between %s and %s must be in [-1, 1], got %v", pair.A, pair.B, coeff), nil)
		}
		i, ok1 := index[pair.A]
		j, ok2 := index[pair.B]
		if !ok1 || !ok2 {
			return nil, errs.NewValidationError(errs.ErrInvalidCorrelation,
				fmt.Sprintf("correlation pair (%s, %s) references an unknown risk ID", pair.A, pair.B), nil)
		}
		if i == j {
			continue // self-correlation is always 1, ignore redundant entries
		}
		dense[i][j] = coeff
		dense[j][i] = coeff
	}

	return &Matrix{RiskIDs: riskIDs, index: index, dense: dense}, nil
}

// Dense returns the full n×n matrix. Callers must not mutate the
// returned rows; use Clone for an owned copy.
func (m *Matrix) Dense() [][]float64 { return m.dense }

// N returns the matrix dimension.
func (m *Matrix) N() int { return len(m.RiskIDs) }

// At returns the coefficient at (i, j).
func (m *Matrix) At(i, j int) float64 { return m.dense[i][j] }

// IndexOf returns the row/column index of a risk ID.
func (m *Matrix) IndexOf(riskID string) (int, bool) {
	i, ok := m.index[riskID]
	return i, ok
}

// Clone returns a deep, independent copy.
func (m *Matrix) Clone() *Matrix {
	dense := make([][]float64, len(m.dense))
	for i, row := range m.dense {
		dense[i] = append([]float64(nil), row...)
	}
	index := make(map[string]int, len(m.index))
	for k, v := range m.index {
		index[k] = v
	}
	return &Matrix{RiskIDs: append([]string(nil), m.RiskIDs...), index: index, dense: dense}
}

// withDense returns a new Matrix sharing RiskIDs/index but with a
// replacement dense body, used by Repair to avoid mutating the input.
func (m *Matrix) withDense(dense [][]float64) *Matrix {
	return &Matrix{RiskIDs: m.RiskIDs, index: m.index, dense: dense}
}

// sortedTriples returns every (i, j, k) index triple with i<j<k, used
// by the triangular-inequality check.
func sortedTriples(n int) [][3]int {
	var triples [][3]int
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			for k := j + 1; k < n; k++ {
				triples = append(triples, [3]int{i, j, k})
			}
		}
	}
	sort.Slice(triples, func(a, b int) bool { return triples[a][0] < triples[b][0] })
	return triples
}
