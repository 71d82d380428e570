// Copyright 2025 James Ross
// Package riskmodel holds the canonical data types shared by every
// component of the risk-simulation engine: risks, distributions (by
// reference to internal/distribution), schedule data, and the artifacts
// the simulation engine produces. Correlation matrices live in
// internal/correlation.
package riskmodel

import "github.com/riskforge/montecarlo/internal/errs"

// Error, Kind, and the error codes live in internal/errs so that
// schedule, correlation, and resource can report errors of the same
// shape without importing riskmodel (which itself depends on schedule
// and resource). Aliased here so existing call sites in this package
// and its callers keep working unqualified.
type (
	Kind  = errs.Kind
	Error = errs.Error
)

const (
	KindValidation = errs.KindValidation
	KindDomain     = errs.KindDomain
	KindNumerical  = errs.KindNumerical
	KindCancelled  = errs.KindCancelled
)

const (
	ErrInvalidDistribution = errs.ErrInvalidDistribution
	ErrInvalidRisk         = errs.ErrInvalidRisk
	ErrDuplicateRiskID     = errs.ErrDuplicateRiskID
	ErrEmptyRiskList       = errs.ErrEmptyRiskList
	ErrUnknownRiskID       = errs.ErrUnknownRiskID
	ErrIterationsTooLow    = errs.ErrIterationsTooLow
	ErrInvalidCorrelation  = errs.ErrInvalidCorrelation
	ErrNonPSDMatrix        = errs.ErrNonPSDMatrix
	ErrCyclicDependency    = errs.ErrCyclicDependency
	ErrUnknownTask         = errs.ErrUnknownTask
	ErrDependencyExists    = errs.ErrDependencyExists
	ErrRemovalWhileRunning = errs.ErrRemovalWhileRunning
	ErrInsufficientHistory = errs.ErrInsufficientHistory
	ErrCholeskyFailed      = errs.ErrCholeskyFailed
	ErrMLEFailed           = errs.ErrMLEFailed
	ErrCancelled           = errs.ErrCancelled
	ErrInvalidResource     = errs.ErrInvalidResource
	ErrInvalidSchedule     = errs.ErrInvalidSchedule
	ErrInvalidScenario     = errs.ErrInvalidScenario
	ErrInvalidEscalation   = errs.ErrInvalidEscalation
	ErrInvalidAnalysis     = errs.ErrInvalidAnalysis
)

var (
	NewValidationError = errs.NewValidationError
	NewDomainError     = errs.NewDomainError
	NewNumericalError  = errs.NewNumericalError
	NewCancelledError  = errs.NewCancelledError
	IsKind             = errs.IsKind
)
