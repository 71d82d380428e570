// Copyright 2025 James Ross
package scenario

import (
	"fmt"
	"reflect"

	"github.com/riskforge/montecarlo/internal/errs"
	"github.com/riskforge/montecarlo/internal/riskmodel"
)

// VerifyIsolation confirms two risk slices share no pointer identity:
// neither a *Risk, its *Distribution, nor any risk's Mitigations
// backing array is the same allocation in both. Scenario construction
// should always pass this; a failure means a clone was skipped
// somewhere upstream.
func VerifyIsolation(a, b []*riskmodel.Risk) error {
	seenRisks := make(map[*riskmodel.Risk]string, len(a))
	for _, r := range a {
		seenRisks[r] = r.ID
	}
	for _, r := range b {
		if owner, ok := seenRisks[r]; ok {
			return errs.NewDomainError(errs.ErrInvalidScenario, fmt.Sprintf("risk %q shares identity across scenarios", owner), nil)
		}
	}

	seenDist := make(map[uintptr]string, len(a))
	for _, r := range a {
		if r.Distribution != nil {
			seenDist[pointerAddr(r.Distribution)] = r.ID
		}
	}
	for _, r := range b {
		if r.Distribution == nil {
			continue
		}
		if owner, ok := seenDist[pointerAddr(r.Distribution)]; ok {
			return errs.NewDomainError(errs.ErrInvalidScenario, fmt.Sprintf("distribution shared between risk %q and risk %q", owner, r.ID), nil)
		}
	}

	seenMitigations := make(map[uintptr]string, len(a))
	for _, r := range a {
		if len(r.Mitigations) > 0 {
			seenMitigations[sliceAddr(r.Mitigations)] = r.ID
		}
	}
	for _, r := range b {
		if len(r.Mitigations) == 0 {
			continue
		}
		if owner, ok := seenMitigations[sliceAddr(r.Mitigations)]; ok {
			return errs.NewDomainError(errs.ErrInvalidScenario, fmt.Sprintf("mitigation strategies shared between risk %q and risk %q", owner, r.ID), nil)
		}
	}
	return nil
}

func pointerAddr(p interface{}) uintptr {
	return reflect.ValueOf(p).Pointer()
}

func sliceAddr(s []riskmodel.MitigationStrategy) uintptr {
	return reflect.ValueOf(s).Pointer()
}
