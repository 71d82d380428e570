// Copyright 2025 James Ross
package correlation

import "math"

// jacobiEigen computes the eigenvalues and eigenvectors of a symmetric
// matrix via the classical cyclic Jacobi rotation method. No linear
// algebra package appears anywhere in the example pack, so this and
// the Cholesky routine in cholesky.go are the engine's only numerical
// fallbacks to the standard library for matrix work.
//
// Returns eigenvalues and the matrix of eigenvectors as columns, i.e.
// vectors[i][k] is the i-th component of the k-th eigenvector.
func jacobiEigen(a [][]float64) (eigenvalues []float64, vectors [][]float64) {
	n := len(a)
	m := make([][]float64, n)
	for i := range m {
		m[i] = append([]float64(nil), a[i]...)
	}

	v := make([][]float64, n)
	for i := range v {
		v[i] = make([]float64, n)
		v[i][i] = 1.0
	}

	const maxSweeps = 100
	for sweep := 0; sweep < maxSweeps; sweep++ {
		off := offDiagonalNorm(m)
		if off < 1e-14 {
			break
		}

		for p := 0; p < n-1; p++ {
			for q := p + 1; q < n; q++ {
				if math.Abs(m[p][q]) < 1e-300 {
					continue
				}
				theta := (m[q][q] - m[p][p]) / (2 * m[p][q])
				t := sign(theta) / (math.Abs(theta) + math.Sqrt(theta*theta+1))
				if theta == 0 {
					t = 1
				}
				c := 1 / math.Sqrt(t*t+1)
				s := t * c

				app, aqq, apq := m[p][p], m[q][q], m[p][q]
				m[p][p] = c*c*app - 2*s*c*apq + s*s*aqq
				m[q][q] = s*s*app + 2*s*c*apq + c*c*aqq
				m[p][q] = 0
				m[q][p] = 0

				for i := 0; i < n; i++ {
					if i != p && i != q {
						aip, aiq := m[i][p], m[i][q]
						m[i][p] = c*aip - s*aiq
						m[p][i] = m[i][p]
						m[i][q] = s*aip + c*aiq
						m[q][i] = m[i][q]
					}
				}
				for i := 0; i < n; i++ {
					vip, viq := v[i][p], v[i][q]
					v[i][p] = c*vip - s*viq
					v[i][q] = s*vip + c*viq
				}
			}
		}
	}

	eigenvalues = make([]float64, n)
	for i := 0; i < n; i++ {
		eigenvalues[i] = m[i][i]
	}
	return eigenvalues, v
}

func offDiagonalNorm(m [][]float64) float64 {
	var sum float64
	n := len(m)
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			sum += m[i][j] * m[i][j]
		}
	}
	return math.Sqrt(2 * sum)
}

func sign(x float64) float64 {
	if x < 0 {
		return -1
	}
	return 1
}

// minEigenvalue returns the smallest eigenvalue of a symmetric matrix.
func minEigenvalue(a [][]float64) float64 {
	eig, _ := jacobiEigen(a)
	min := eig[0]
	for _, e := range eig[1:] {
		if e < min {
			min = e
		}
	}
	return min
}

// conditionNumber returns max(|λ|)/min(|λ|) for a symmetric matrix,
// +Inf when the smallest magnitude eigenvalue is (numerically) zero.
func conditionNumber(a [][]float64) float64 {
	eig, _ := jacobiEigen(a)
	maxAbs, minAbs := math.Abs(eig[0]), math.Abs(eig[0])
	for _, e := range eig[1:] {
		abs := math.Abs(e)
		if abs > maxAbs {
			maxAbs = abs
		}
		if abs < minAbs {
			minAbs = abs
		}
	}
	if minAbs < 1e-300 {
		return math.Inf(1)
	}
	return maxAbs / minAbs
}
