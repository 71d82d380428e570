// Copyright 2025 James Ross
// Package calibration fits risk distributions from completed-project
// history, retrieves similar past projects, suggests parameter
// corrections, and scores how accurate a simulation's predictions
// turned out to be.
package calibration

import "context"

// CompletedProject is one finished project's actuals: what it cost,
// how long it took, what was baselined, and the realized impact of
// each risk that materialized.
type CompletedProject struct {
	ID                string
	ProjectType       string
	ActualCost        float64
	BaselineCost      float64
	ActualDuration    float64
	BaselineDuration  float64
	RealizedImpacts   map[string][]float64 // risk ID -> realized impact samples
	Characteristics   map[string]float64   // numeric project characteristics used for similarity
}

// HistoricalStore is the only way the calibration core reaches
// persisted project history — it never imports a storage driver
// directly. internal/historicalstore is one concrete implementation.
type HistoricalStore interface {
	LoadCompletedProjects(ctx context.Context) ([]CompletedProject, error)
}

const (
	// MinFittingSamples is the minimum realized-impact sample count
	// before a family can be fit for a risk.
	MinFittingSamples = 10

	// MinSuggestionSamples is the minimum realized-impact sample count
	// across similar projects before a parameter suggestion is made.
	MinSuggestionSamples = 3
)
