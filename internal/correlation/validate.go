// Copyright 2025 James Ross
package correlation

import (
	"fmt"
	"math"
)

// ConditionNumberFatal and ConditionNumberWarn are the guard thresholds
// for the matrix's condition number (max|eigenvalue| / min|eigenvalue|).
const (
	ConditionNumberFatal = 1e12
	ConditionNumberWarn  = 1e6
	HighCorrelationWarn  = 0.95
)

// ValidationResult reports the outcome of validating a correlation
// matrix: hard errors that make the matrix unusable, soft warnings,
// and recommendations a caller can act on.
type ValidationResult struct {
	Valid           bool
	Errors          []string
	Warnings        []string
	Recommendations []string
	MinEigenvalue   float64
	ConditionNumber float64
}

// Validate checks m against every rule in the correlation kernel's
// contract: coefficient bounds were already enforced at construction
// time by New, so this focuses on symmetry, unit diagonal, positive
// semidefiniteness, condition number, and the softer multicollinearity
// and triangular-inequality warnings.
func Validate(m *Matrix) *ValidationResult {
	r := &ValidationResult{Valid: true}
	n := m.N()

	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			if math.Abs(m.At(i, j)-m.At(j, i)) > Tolerance {
				r.Errors = append(r.Errors, fmt.Sprintf("matrix is not symmetric at (%s, %s)", m.RiskIDs[i], m.RiskIDs[j]))
			}
		}
		if math.Abs(m.At(i, i)-1.0) > Tolerance {
			r.Errors = append(r.Errors, fmt.Sprintf("diagonal element for %s is %v, must be 1.0", m.RiskIDs[i], m.At(i, i)))
		}
	}

	minEig := minEigenvalue(m.dense)
	r.MinEigenvalue = minEig
	if minEig < -Tolerance {
		r.Errors = append(r.Errors, fmt.Sprintf("matrix is not positive semidefinite (min eigenvalue %v)", minEig))
		r.Recommendations = append(r.Recommendations, "reduce correlation magnitudes or remove conflicting correlations, or call Repair")
	} else if minEig < Tolerance {
		r.Warnings = append(r.Warnings, fmt.Sprintf("matrix is only marginally positive semidefinite (min eigenvalue %v)", minEig))
	}

	cond := conditionNumber(m.dense)
	r.ConditionNumber = cond
	if cond > ConditionNumberFatal {
		r.Errors = append(r.Errors, fmt.Sprintf("condition number %v exceeds fatal threshold %v", cond, ConditionNumberFatal))
	} else if cond > ConditionNumberWarn {
		r.Warnings = append(r.Warnings, fmt.Sprintf("condition number %v exceeds warn threshold %v", cond, ConditionNumberWarn))
	}

	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			rho := m.At(i, j)
			if math.Abs(rho) >= HighCorrelationWarn {
				r.Warnings = append(r.Warnings, fmt.Sprintf("very high correlation (%.3f) between %s and %s", rho, m.RiskIDs[i], m.RiskIDs[j]))
				r.Recommendations = append(r.Recommendations, fmt.Sprintf("consider whether %s and %s represent the same underlying risk", m.RiskIDs[i], m.RiskIDs[j]))
			}
		}
	}

	for _, t := range sortedTriples(n) {
		i, j, k := t[0], t[1], t[2]
		checkTriangleInequality(m, i, j, k, r)
	}

	r.Valid = len(r.Errors) == 0
	return r
}

// checkTriangleInequality warns when |ρ_ik − ρ_ij·ρ_jk| exceeds the
// bound implied by a valid correlation structure, a sign the three
// pairwise coefficients are mutually inconsistent even though each is
// individually within [-1, 1].
func checkTriangleInequality(m *Matrix, i, j, k int, r *ValidationResult) {
	rij, rjk, rik := m.At(i, j), m.At(j, k), m.At(i, k)
	bound := math.Sqrt((1 - rij*rij) * (1 - rjk*rjk))
	if math.Abs(rik-rij*rjk) > bound+Tolerance {
		r.Warnings = append(r.Warnings, fmt.Sprintf(
			"triangular inequality violated among %s, %s, %s", m.RiskIDs[i], m.RiskIDs[j], m.RiskIDs[k]))
	}
}
