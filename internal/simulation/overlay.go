// Copyright 2025 James Ross
package simulation

import (
	"math"
	"math/rand"

	"github.com/riskforge/montecarlo/internal/resource"
	"github.com/riskforge/montecarlo/internal/riskmodel"
	"github.com/riskforge/montecarlo/internal/schedule"
)

// scheduleContext is the precomputed, per-run state the overlay needs:
// the CPM result for the baseline network and the resource demand
// windows derived from it. Built once per run, reused every iteration.
type scheduleContext struct {
	data   *riskmodel.ScheduleData
	graph  *schedule.Graph
	cpm    *schedule.CPMResult
	demand map[string][]resource.ActivityDemand // resource ID -> demand windows
}

func buildScheduleContext(data *riskmodel.ScheduleData) (*scheduleContext, error) {
	if data == nil {
		return nil, nil
	}
	if err := data.Validate(); err != nil {
		return nil, err
	}
	graph, err := data.BuildGraph()
	if err != nil {
		return nil, err
	}
	cpm, err := schedule.Run(graph)
	if err != nil {
		return nil, err
	}

	demand := make(map[string][]resource.ActivityDemand)
	for i, a := range data.Activities {
		idx, ok := graph.IndexOf(a.ID)
		if !ok {
			continue
		}
		start := cpm.EarlyStart[idx]
		end := cpm.EarlyFinish[idx]
		for resID, amount := range data.Activities[i].ResourceRequirements {
			demand[resID] = append(demand[resID], resource.ActivityDemand{
				ActivityID: a.ID,
				StartDay:   start,
				EndDay:     end,
				Demand:     amount,
				IsCritical: cpm.Critical[idx],
			})
		}
	}

	return &scheduleContext{data: data, graph: graph, cpm: cpm, demand: demand}, nil
}

// scheduleOverlayDays computes the additional schedule days one
// iteration's risk draws contribute, given the per-risk schedule
// impacts already accumulated (scheduleRiskSum, in days) and each
// risk's absorbable float. The overlay has four terms: a critical-path
// multiplier on the risk sum, per-activity/per-milestone additive
// terms after risk absorption, a project-wide component, and the
// resource-constraint term from §4.D. The combination is floored at 0:
// float absorption can legitimately go negative, but the overlay as a
// whole never represents time gained.
func scheduleOverlayDays(ctx *scheduleContext, scheduleRiskSum float64, rng *rand.Rand) float64 {
	if ctx == nil {
		return 0
	}

	criticalMultiplier := criticalPathMultiplier(ctx)
	overlay := scheduleRiskSum * criticalMultiplier

	overlay += nonCriticalAbsorption(ctx, scheduleRiskSum)

	overlay += projectWideComponent(ctx, scheduleRiskSum)

	overlay += resourceConstraintDays(ctx, rng)

	if overlay < 0 {
		return 0
	}
	return overlay
}

// criticalPathMultiplier amplifies schedule-risk impact in proportion
// to how much of the network is on the critical path: a fully critical
// chain passes every day of delay straight through; a network with
// slack absorbs some of it before this function's non-critical term
// does the rest.
func criticalPathMultiplier(ctx *scheduleContext) float64 {
	if len(ctx.cpm.Critical) == 0 {
		return 1
	}
	var critical int
	for _, c := range ctx.cpm.Critical {
		if c {
			critical++
		}
	}
	ratio := float64(critical) / float64(len(ctx.cpm.Critical))
	return 0.5 + 0.5*ratio
}

// nonCriticalAbsorption gives each non-critical task an equal share of
// scheduleRiskSum and absorbs a fraction of that share equal to its
// total float over its duration, capped at 0.8. The summed absorption
// is divided by the number of tasks and returned as a non-positive term.
func nonCriticalAbsorption(ctx *scheduleContext, scheduleRiskSum float64) float64 {
	if scheduleRiskSum <= 0 || len(ctx.cpm.TotalFloat) == 0 {
		return 0
	}
	var nonCriticalCount int
	for _, critical := range ctx.cpm.Critical {
		if !critical {
			nonCriticalCount++
		}
	}
	if nonCriticalCount == 0 {
		return 0
	}

	var totalAbsorption float64
	for i, critical := range ctx.cpm.Critical {
		if critical {
			continue
		}
		duration := 1.0
		if i < len(ctx.data.Activities)+len(ctx.data.Milestones) {
			duration = activityDuration(ctx, i)
		}
		absorbable := math.Min(0.8, float64(ctx.cpm.TotalFloat[i])/math.Max(duration, 1))
		share := scheduleRiskSum / float64(nonCriticalCount)
		totalAbsorption -= share * absorbable
	}
	return totalAbsorption / float64(len(ctx.cpm.Critical))
}

func activityDuration(ctx *scheduleContext, taskIndex int) float64 {
	if taskIndex < len(ctx.data.Activities) {
		return float64(ctx.data.Activities[taskIndex].BaselineDuration)
	}
	return 1
}

// projectWideComponent adds a small fraction of the risk sum
// representing diffuse project-wide schedule drag (coordination
// overhead, administrative delay) that the per-task terms don't
// capture.
func projectWideComponent(ctx *scheduleContext, scheduleRiskSum float64) float64 {
	return scheduleRiskSum * 0.05
}

// resourceConstraintDays folds in the resource package's impact
// analysis for every constrained resource, converting its pressure
// score into additional schedule days proportional to the project's
// baseline duration.
func resourceConstraintDays(ctx *scheduleContext, rng *rand.Rand) float64 {
	if len(ctx.data.ResourceConstraints) == 0 {
		return 0
	}
	var days float64
	for _, c := range ctx.data.ResourceConstraints {
		impact := resource.AnalyzeImpact(c, ctx.demand[c.ID], rng)
		days += impact.TotalImpact * float64(ctx.cpm.ProjectDuration) * 0.1
	}
	return days
}
