// Copyright 2025 James Ross
// Package scenario applies what-if modifications to a riskmodel.Scenario:
// distribution-specific parameter deltas, family swaps, and mitigation
// application, plus the cost-benefit and sensitivity analyses built on
// top of those modified copies.
package scenario

import (
	"fmt"
	"math"

	"github.com/riskforge/montecarlo/internal/distribution"
	"github.com/riskforge/montecarlo/internal/errs"
	"github.com/riskforge/montecarlo/internal/riskmodel"
)

// Known keys for RiskModification.ParameterDeltas. A family's
// irrelevant keys are ignored; applying "min"/"mode"/"max" to a normal
// distribution, for instance, has no effect.
const (
	ParamMean           = "mean"
	ParamStd            = "std"
	ParamMin            = "min"
	ParamMode           = "mode"
	ParamMax            = "max"
	ParamAlpha          = "alpha"
	ParamBeta           = "beta"
	ParamMu             = "mu"
	ParamSigma          = "sigma"
	ParamBaselineImpact = "baseline_impact"
)

// New builds a named riskmodel.Scenario from base and applies every
// modification in mods (keyed by risk ID) to the scenario's own copy.
// base is never mutated.
func New(name, description string, base []*riskmodel.Risk, mods map[string]riskmodel.RiskModification) (*riskmodel.Scenario, error) {
	s := riskmodel.NewScenario(name, description, base)
	for id, mod := range mods {
		risk := s.RiskByID(id)
		if risk == nil {
			return nil, errs.NewValidationError(errs.ErrInvalidScenario, fmt.Sprintf("unknown risk ID %q", id), nil)
		}
		if err := Apply(risk, mod); err != nil {
			return nil, err
		}
		s.Modifications[id] = mod
	}
	return s, nil
}

// Apply mutates risk in place according to mod: baseline-impact delta,
// an optional family swap, per-family parameter deltas re-projected
// onto each family's valid region, and an optional mitigation lookup
// by ID against the risk's own Mitigations.
func Apply(risk *riskmodel.Risk, mod riskmodel.RiskModification) error {
	if delta, ok := mod.ParameterDeltas[ParamBaselineImpact]; ok {
		risk.BaselineImpact += delta
	}

	d := risk.Distribution
	if mod.NewFamily != "" && mod.NewFamily != d.Family {
		swapped, err := swapFamily(d, mod.NewFamily)
		if err != nil {
			return err
		}
		d = swapped
		risk.Distribution = d
	}

	if err := applyParameterDeltas(risk.ID, d, mod.ParameterDeltas); err != nil {
		return err
	}

	if mod.AppliedMitigationID != "" {
		strategy, found := findMitigation(risk.Mitigations, mod.AppliedMitigationID)
		if !found {
			return errs.NewValidationError(errs.ErrInvalidScenario, fmt.Sprintf("risk %q: unknown mitigation %q", risk.ID, mod.AppliedMitigationID), nil)
		}
		ApplyMitigation(risk, strategy)
	}
	return nil
}

func applyParameterDeltas(riskID string, d *distribution.Distribution, deltas map[string]float64) error {
	switch d.Family {
	case distribution.Normal:
		d.Mean += deltas[ParamMean]
		d.Std += deltas[ParamStd]
		if d.Std <= 0 {
			return errs.NewValidationError(errs.ErrInvalidScenario, fmt.Sprintf("risk %q: normal std must stay positive after delta", riskID), nil)
		}
	case distribution.Triangular:
		d.Min += deltas[ParamMin]
		d.Mode += deltas[ParamMode]
		d.Max += deltas[ParamMax]
		reprojectTriangular(d)
	case distribution.Uniform:
		d.Min += deltas[ParamMin]
		d.Max += deltas[ParamMax]
		if d.Min >= d.Max {
			d.Max = d.Min + 1e-9
		}
	case distribution.Beta:
		d.Alpha += deltas[ParamAlpha]
		d.Beta += deltas[ParamBeta]
		if d.Alpha <= 0 || d.Beta <= 0 {
			return errs.NewValidationError(errs.ErrInvalidScenario, fmt.Sprintf("risk %q: beta alpha/beta must stay positive after delta", riskID), nil)
		}
	case distribution.Lognormal:
		d.Mu += deltas[ParamMu]
		d.Sigma += deltas[ParamSigma]
		if d.Sigma <= 0 {
			return errs.NewValidationError(errs.ErrInvalidScenario, fmt.Sprintf("risk %q: lognormal sigma must stay positive after delta", riskID), nil)
		}
	}
	return nil
}

// reprojectTriangular restores min <= mode <= max (and min < max)
// after a delta has been applied, clamping mode into range rather than
// rejecting the modification outright.
func reprojectTriangular(d *distribution.Distribution) {
	if d.Min > d.Max {
		d.Min, d.Max = d.Max, d.Min
	}
	if d.Max-d.Min < 1e-9 {
		d.Max = d.Min + 1e-9
	}
	if d.Mode < d.Min {
		d.Mode = d.Min
	}
	if d.Mode > d.Max {
		d.Mode = d.Max
	}
}

func findMitigation(strategies []riskmodel.MitigationStrategy, id string) (riskmodel.MitigationStrategy, bool) {
	for _, s := range strategies {
		if s.ID == id {
			return s, true
		}
	}
	return riskmodel.MitigationStrategy{}, false
}

// ApplyMitigation reduces risk's baseline impact by the strategy's
// effectiveness and, for a triangular distribution, scales mode and
// max by (1-e) and min by max(0.5, 1-e) so the shape does not collapse
// at high effectiveness.
func ApplyMitigation(risk *riskmodel.Risk, strategy riskmodel.MitigationStrategy) {
	e := strategy.ImpactReduction
	risk.BaselineImpact *= 1 - e

	if risk.Distribution != nil && risk.Distribution.Family == distribution.Triangular {
		d := risk.Distribution
		minScale := e
		if minScale > 0.5 {
			minScale = 0.5
		}
		d.Mode *= 1 - e
		d.Max *= 1 - e
		d.Min *= 1 - minScale
		reprojectTriangular(d)
	}
}

func swapFamily(d *distribution.Distribution, family distribution.Family) (*distribution.Distribution, error) {
	mean, std := approximateMoments(d)
	switch family {
	case distribution.Normal:
		return distribution.NewNormal(mean, std)
	case distribution.Uniform:
		half := std * 1.732050808 // half-width of a uniform with this std, sqrt(3)
		return distribution.NewUniform(mean-half, mean+half)
	case distribution.Triangular:
		half := std * 2.449489743 // sqrt(6), matches a symmetric triangular's std
		return distribution.NewTriangular(mean-half, mean, mean+half)
	case distribution.Lognormal:
		if mean <= 0 {
			mean = 1
		}
		sigma := std / mean
		if sigma <= 0 {
			sigma = 0.1
		}
		return distribution.NewLognormal(0, sigma)
	case distribution.Beta:
		return distribution.NewBeta(2, 2)
	default:
		return nil, errs.NewValidationError(errs.ErrInvalidScenario, fmt.Sprintf("unknown distribution family %q", family), nil)
	}
}

// approximateMoments gives a coarse mean/std for a distribution. A swap
// to normal, uniform or triangular carries that mean and std across; a
// swap to lognormal keeps only std/mean as sigma (mu is 0), and a swap
// to beta ignores them and yields Beta(2,2).
func approximateMoments(d *distribution.Distribution) (mean, std float64) {
	switch d.Family {
	case distribution.Normal:
		return d.Mean, d.Std
	case distribution.Triangular:
		mean = (d.Min + d.Mode + d.Max) / 3
		variance := (d.Min*d.Min + d.Mode*d.Mode + d.Max*d.Max - d.Min*d.Mode - d.Min*d.Max - d.Mode*d.Max) / 18
		return mean, sqrtNonNeg(variance)
	case distribution.Uniform:
		mean = (d.Min + d.Max) / 2
		return mean, (d.Max - d.Min) / 3.464101615 // (max-min)/sqrt(12)
	case distribution.Lognormal:
		mean = math.Exp(d.Mu + d.Sigma*d.Sigma/2)
		variance := (math.Exp(d.Sigma*d.Sigma) - 1) * math.Exp(2*d.Mu+d.Sigma*d.Sigma)
		return mean, sqrtNonNeg(variance)
	case distribution.Beta:
		mean = d.Alpha / (d.Alpha + d.Beta)
		variance := (d.Alpha * d.Beta) / ((d.Alpha + d.Beta) * (d.Alpha + d.Beta) * (d.Alpha + d.Beta + 1))
		return mean, sqrtNonNeg(variance)
	default:
		return 0, 1
	}
}

func sqrtNonNeg(x float64) float64 {
	if x < 0 {
		return 0
	}
	return math.Sqrt(x)
}
