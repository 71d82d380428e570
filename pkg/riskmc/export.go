// Copyright 2025 James Ross
// Package riskmc re-exports the Monte Carlo cost and schedule risk
// engine's public API for external consumers, so callers depend on
// github.com/riskforge/montecarlo/pkg/riskmc instead of reaching into
// internal/*.
package riskmc

import (
	"github.com/riskforge/montecarlo/internal/analysis"
	"github.com/riskforge/montecarlo/internal/calibration"
	"github.com/riskforge/montecarlo/internal/config"
	"github.com/riskforge/montecarlo/internal/correlation"
	"github.com/riskforge/montecarlo/internal/distribution"
	"github.com/riskforge/montecarlo/internal/escalation"
	"github.com/riskforge/montecarlo/internal/historicalstore"
	"github.com/riskforge/montecarlo/internal/outputs"
	"github.com/riskforge/montecarlo/internal/persistence"
	"github.com/riskforge/montecarlo/internal/resource"
	"github.com/riskforge/montecarlo/internal/riskmodel"
	"github.com/riskforge/montecarlo/internal/schedule"
	"github.com/riskforge/montecarlo/internal/scenario"
	"github.com/riskforge/montecarlo/internal/simulation"
	"github.com/riskforge/montecarlo/internal/validator"
)

// §3 data model.
type (
	Risk                = riskmodel.Risk
	Category             = riskmodel.Category
	ImpactType           = riskmodel.ImpactType
	MitigationStrategy   = riskmodel.MitigationStrategy
	SimulationResults    = riskmodel.SimulationResults
	ConvergenceMetrics   = riskmodel.ConvergenceMetrics
	Scenario             = riskmodel.Scenario
	RiskModification     = riskmodel.RiskModification
	ScheduleData         = riskmodel.ScheduleData
	Milestone            = riskmodel.Milestone
	Activity             = riskmodel.Activity
	DependencyEdge       = riskmodel.DependencyEdge
)

const (
	CategoryTechnical  = riskmodel.CategoryTechnical
	CategorySchedule   = riskmodel.CategorySchedule
	CategoryCost       = riskmodel.CategoryCost
	CategoryResource   = riskmodel.CategoryResource
	CategoryExternal   = riskmodel.CategoryExternal
	CategoryQuality    = riskmodel.CategoryQuality
	CategoryRegulatory = riskmodel.CategoryRegulatory

	ImpactCost     = riskmodel.ImpactCost
	ImpactSchedule = riskmodel.ImpactSchedule
	ImpactBoth     = riskmodel.ImpactBoth
)

var ValidateRiskSet = riskmodel.ValidateRiskSet

// §4.A distributions.
type (
	Distribution  = distribution.Distribution
	Family        = distribution.Family
	Bounds        = distribution.Bounds
	GoodnessOfFit = distribution.GoodnessOfFit
	FitResult     = distribution.FitResult
	PERT          = distribution.PERT
	CreationInput = distribution.CreationInput
)

const (
	Normal     = distribution.Normal
	Triangular = distribution.Triangular
	Uniform    = distribution.Uniform
	Beta       = distribution.Beta
	Lognormal  = distribution.Lognormal
)

var (
	NewNormal          = distribution.NewNormal
	NewTriangular       = distribution.NewTriangular
	NewUniform          = distribution.NewUniform
	NewBeta             = distribution.NewBeta
	NewLognormal        = distribution.NewLognormal
	CreateDistribution  = distribution.Create
	FitDistribution     = distribution.Fit
	EvaluateGoodnessOfFit = distribution.Evaluate
)

// §4.B correlation.
type (
	CorrelationMatrix   = correlation.Matrix
	CorrelationPair     = correlation.Pair
	CorrelationValidity = correlation.ValidationResult
)

var (
	NewCorrelationMatrix     = correlation.New
	RepairCorrelationMatrix  = correlation.Repair
	ValidateCorrelationMatrix = correlation.Validate
	Cholesky                 = correlation.Cholesky
	GenerateCorrelatedSamples = correlation.GenerateCorrelatedSamples
)

// §4.C schedule (critical path method).
type (
	ScheduleGraph       = schedule.Graph
	ScheduleTask        = schedule.Task
	ScheduleEdge        = schedule.Edge
	RelationType        = schedule.RelationType
	CPMResult           = schedule.CPMResult
	CrashCandidate      = schedule.CrashCandidate
	FastTrackCandidate  = schedule.FastTrackCandidate
)

var (
	NewScheduleGraph    = schedule.NewGraph
	RunCPM              = schedule.Run
	DetectScheduleCycles = schedule.DetectCycles
	AnalyzeCompression  = schedule.CompressionAnalysis
)

// §4.D resource constraints.
type (
	ResourceConstraint       = resource.Constraint
	ResourceAvailability     = resource.AvailabilityPeriod
	ResourceActivityDemand   = resource.ActivityDemand
	ResourceImpact           = resource.Impact
	ResourceValidationResult = resource.ValidationResult
)

var (
	ValidateResourceConstraint = resource.Validate
	AnalyzeResourceImpact      = resource.AnalyzeImpact
)

// §4.E simulation engine.
type (
	Engine        = simulation.Engine
	Request       = simulation.Request
	ProgressFunc  = simulation.ProgressFunc
)

const MinIterations = simulation.MinIterations

var NewEngine = simulation.NewEngine

// §4.F analysis: descriptive stats, comparisons, risk ranking.
type (
	DescriptiveStats      = analysis.DescriptiveStats
	ConfidenceInterval    = analysis.ConfidenceInterval
	AnalysisSummary       = analysis.Summary
	ScenarioComparison    = analysis.Comparison
	CohensDInterpretation = analysis.CohensDInterpretation
	RiskContribution      = analysis.RiskContribution
)

var (
	Analyze            = analysis.Analyze
	Percentile         = analysis.Percentile
	CompareScenarios   = analysis.Compare
	RankContributions  = analysis.RankContributions
)

// §4.G cost escalation.
type (
	EscalationFactor       = escalation.Factor
	EscalationFactorType   = escalation.FactorType
	EscalationFrequency    = escalation.Frequency
	EscalationContribution = escalation.FactorContribution
	EscalationResult       = escalation.Result
)

var (
	DefaultEscalationFactors = escalation.DefaultFactors
	ActiveEscalationFactors  = escalation.ActiveFactors
	ApplyEscalation          = escalation.Apply
)

// §4.H output analyses: compliance and risk metrics.
type (
	ComplianceTier      = outputs.ComplianceTier
	BudgetCompliance    = outputs.BudgetCompliance
	ScheduleCompliance  = outputs.ScheduleCompliance
	MilestoneTarget     = outputs.MilestoneTarget
	RiskMetrics         = outputs.RiskMetrics
)

var (
	AnalyzeBudgetCompliance   = outputs.AnalyzeBudgetCompliance
	AnalyzeScheduleCompliance = outputs.AnalyzeScheduleCompliance
	AnalyzeRiskMetrics        = outputs.AnalyzeRiskMetrics
)

// §4.I scenario construction, mitigation, and sensitivity.
type (
	MitigationAnalysis = scenario.MitigationAnalysis
	SensitivityResult  = scenario.SensitivityResult
)

var (
	NewScenario          = scenario.New
	ApplyRiskModification = scenario.Apply
	ApplyMitigation      = scenario.ApplyMitigation
	AnalyzeMitigation    = scenario.AnalyzeMitigation
	AnalyzeSensitivity   = scenario.AnalyzeSensitivity
	VerifyScenarioIsolation = scenario.VerifyIsolation
)

// §4.J historical calibration.
type (
	CompletedProject    = calibration.CompletedProject
	HistoricalStore     = calibration.HistoricalStore
	FittedRisk          = calibration.FittedRisk
	Calibrator          = calibration.Calibrator
	SimilarityScore     = calibration.SimilarityScore
	SimilarityCache     = calibration.SimilarityCache
	ParameterSuggestion = calibration.ParameterSuggestion
	PredictionRecord    = calibration.PredictionRecord
	AccuracyReport      = calibration.AccuracyReport
)

var (
	NewCalibrator         = calibration.NewCalibrator
	FitRiskFromProjects   = calibration.FitRiskFromProjects
	NewSimilarityCache    = calibration.NewSimilarityCache
	ProjectSimilarity     = calibration.ProjectSimilarity
	FindSimilarProjects   = calibration.FindSimilarProjects
	SuggestParameters     = calibration.SuggestParameters
	SameEquivalenceClass  = calibration.SameEquivalenceClass
	AnalyzeAccuracy       = calibration.AnalyzeAccuracy
)

// §4.K model validation and change detection.
type (
	ValidationReport = validator.ValidationReport
	ChangeReport     = validator.ChangeReport
	Change           = validator.Change
	ChangeKind       = validator.ChangeKind
	Severity         = validator.Severity
)

const (
	SeverityCritical = validator.SeverityCritical
	SeverityHigh     = validator.SeverityHigh
	SeverityMedium   = validator.SeverityMedium
	SeverityLow      = validator.SeverityLow
)

var (
	ValidateModel = validator.ValidateModel
	DetectChanges = validator.DetectChanges
)

// §6 Configuration and external adapters.
type Configuration = config.Configuration

var (
	LoadConfiguration     = config.Load
	ValidateConfiguration = config.Validate
	FastPreset            = config.FastPreset
	BalancedPreset        = config.BalancedPreset
	AccuratePreset        = config.AccuratePreset
	DevelopmentPreset     = config.DevelopmentPreset
)

type (
	SQLiteHistoricalStore = historicalstore.SQLiteStore
	FileHistoricalStore   = historicalstore.FileStore
	HistoricalFieldMap    = historicalstore.FieldMap
)

var (
	OpenSQLiteHistoricalStore = historicalstore.Open
	NewFileHistoricalStore    = historicalstore.NewFileStore
	DefaultHistoricalFieldMap = historicalstore.DefaultFieldMap
)

type (
	PersistenceStore = persistence.Store
	DocumentKind     = persistence.DocumentKind
)

const (
	DocumentResults      = persistence.DocumentResults
	DocumentScenario     = persistence.DocumentScenario
	DocumentChangeReport = persistence.DocumentChangeReport
)

var (
	NewPersistenceStore = persistence.NewStore
	ValidateDocument    = persistence.ValidateDocument

	RiskToDocument   = persistence.RiskToDocument
	DocumentToRisk   = persistence.DocumentToRisk
	ResultsToDocument = persistence.ResultsToDocument
	DocumentToResults = persistence.DocumentToResults
	ScenarioToDocument = persistence.ScenarioToDocument
	DocumentToScenario = persistence.DocumentToScenario
	ChangeReportToDocument = persistence.ChangeReportToDocument
	DocumentToChangeReport = persistence.DocumentToChangeReport
)

type (
	RiskDocument         = persistence.RiskDocument
	DistributionDocument = persistence.DistributionDocument
	ResultsDocument      = persistence.ResultsDocument
	ScenarioDocument     = persistence.ScenarioDocument
	ChangeReportDocument = persistence.ChangeReportDocument
)
