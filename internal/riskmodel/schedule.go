// Copyright 2025 James Ross
package riskmodel

import (
	"fmt"

	"github.com/riskforge/montecarlo/internal/resource"
	"github.com/riskforge/montecarlo/internal/schedule"
)

// Milestone is a zero-duration schedule event with its own dependency
// list, tracked separately from Activities because it carries a
// planned calendar date rather than a float-eligible duration.
type Milestone struct {
	ID               string   `json:"id"`
	PlannedDay       int      `json:"planned_day"`
	BaselineDuration int      `json:"baseline_duration"`
	CriticalPath     bool     `json:"critical_path"`
	DependsOn        []string `json:"depends_on,omitempty"`
}

// Activity is one CPM task: a duration plus the dates/float the engine
// computes, and the resources it draws on.
type Activity struct {
	ID                   string             `json:"id"`
	BaselineDuration     int                `json:"baseline_duration"`
	EarliestStart        int                `json:"earliest_start"`
	LatestStart          int                `json:"latest_start"`
	FloatTime            int                `json:"float_time"`
	CriticalPath         bool               `json:"critical_path"`
	ResourceRequirements map[string]float64 `json:"resource_requirements,omitempty"`
}

// DependencyEdge mirrors schedule.Edge at the data-model boundary,
// referencing task IDs rather than dense indices.
type DependencyEdge struct {
	PredecessorID string                `json:"predecessor_id"`
	SuccessorID   string                `json:"successor_id"`
	Type          schedule.RelationType `json:"type"`
	LagDays       int                   `json:"lag_days"`
}

// ScheduleData is the full schedule network: milestones, activities,
// the dependency edges between them, resource constraints, and the
// project's baseline duration.
type ScheduleData struct {
	Milestones              []Milestone
	Activities               []Activity
	Dependencies             []DependencyEdge
	ResourceConstraints      []resource.Constraint
	ProjectBaselineDuration  int
}

// Validate enforces §3's schedule invariants: milestone dependencies
// and activity resource requirements reference known entities,
// latest_start >= earliest_start, float_time >= 0.
func (s *ScheduleData) Validate() error {
	known := make(map[string]bool, len(s.Milestones)+len(s.Activities))
	for _, m := range s.Milestones {
		known[m.ID] = true
	}
	for _, a := range s.Activities {
		known[a.ID] = true
	}

	for _, m := range s.Milestones {
		for _, dep := range m.DependsOn {
			if !known[dep] {
				return NewValidationError(ErrInvalidSchedule, fmt.Sprintf("milestone %q depends on unknown task %q", m.ID, dep), nil)
			}
		}
	}

	knownResources := make(map[string]bool, len(s.ResourceConstraints))
	for _, r := range s.ResourceConstraints {
		knownResources[r.ID] = true
	}
	for _, a := range s.Activities {
		for resID := range a.ResourceRequirements {
			if !knownResources[resID] {
				return NewValidationError(ErrInvalidResource, fmt.Sprintf("activity %q references unknown resource %q", a.ID, resID), nil)
			}
		}
		if a.LatestStart < a.EarliestStart {
			return NewValidationError(ErrInvalidSchedule, fmt.Sprintf("activity %q: latest_start must be >= earliest_start", a.ID), nil)
		}
		if a.FloatTime < 0 {
			return NewValidationError(ErrInvalidSchedule, fmt.Sprintf("activity %q: float_time must be >= 0", a.ID), nil)
		}
	}
	return nil
}

// BuildGraph constructs the dense-indexed CPM graph for this schedule's
// activities and dependency edges (milestones are represented as
// zero-slack tasks of duration 1 so they participate in the same
// forward/backward pass).
func (s *ScheduleData) BuildGraph() (*schedule.Graph, error) {
	tasks := make([]schedule.Task, 0, len(s.Activities)+len(s.Milestones))
	for _, a := range s.Activities {
		tasks = append(tasks, schedule.Task{ID: a.ID, Duration: a.BaselineDuration})
	}
	for _, m := range s.Milestones {
		tasks = append(tasks, schedule.Task{
			ID:               m.ID,
			Duration:         1,
			HasBaselineEarly: true,
			BaselineEarly:    m.PlannedDay,
		})
	}

	g, err := schedule.NewGraph(tasks)
	if err != nil {
		return nil, err
	}

	for _, m := range s.Milestones {
		for _, dep := range m.DependsOn {
			if err := g.AddDependency(dep, m.ID, schedule.FinishToStart, 0); err != nil {
				return nil, err
			}
		}
	}
	for _, e := range s.Dependencies {
		if err := g.AddDependency(e.PredecessorID, e.SuccessorID, e.Type, e.LagDays); err != nil {
			return nil, err
		}
	}
	return g, nil
}
