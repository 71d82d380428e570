// Copyright 2025 James Ross
package simulation

import (
	"context"
	"math/rand"
	"runtime"
	"sync/atomic"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"github.com/riskforge/montecarlo/internal/escalation"
	"github.com/riskforge/montecarlo/internal/riskmodel"
)

var tracer = otel.Tracer("riskforge/montecarlo/simulation")

// maxWorkers caps chunked parallelism: more workers than CPUs-minus-one
// just adds scheduling overhead to a CPU-bound loop.
func maxWorkers() int {
	if n := runtime.NumCPU() - 1; n > 1 {
		return n
	}
	return 1
}

// Run executes req.Iterations Monte Carlo draws, chunked across
// workers, and returns the resulting SimulationResults. It never
// consults or populates the cache; use RunWithCache for that.
func (e *Engine) Run(ctx context.Context, req Request, log *zap.Logger) (*riskmodel.SimulationResults, error) {
	ctx, span := tracer.Start(ctx, "simulation.Run", trace.WithAttributes(
		attribute.Int("iterations", req.Iterations),
		attribute.Int("risks", len(req.Risks)),
	))
	defer span.End()

	started := time.Now()
	workers := maxWorkers()
	if req.MaxWorkers > 0 {
		workers = req.MaxWorkers
	}
	var results *riskmodel.SimulationResults
	var err error
	if workers <= 1 {
		// Single core: run sequentially so progress/convergence are
		// reported at the exact 1000-iteration cadence instead of the
		// parallel path's per-chunk approximation.
		results, err = runCore(ctx, req)
	} else {
		results, err = runParallel(ctx, req, workers)
	}
	runDuration.Observe(time.Since(started).Seconds())

	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		runsTotal.WithLabelValues(outcomeLabel(err)).Inc()
		if log != nil {
			log.Warn("simulation run failed", zap.Error(err), zap.Int("iterations", req.Iterations))
		}
		return nil, err
	}
	iterationsTotal.Add(float64(req.Iterations))
	runsTotal.WithLabelValues("success").Inc()
	return results, nil
}

func outcomeLabel(err error) string {
	if riskmodel.IsKind(err, riskmodel.KindCancelled) {
		return "cancelled"
	}
	return "error"
}

// RunWithCache looks up the request's parameter fingerprint in the
// engine's cache before running, and stores a successful result under
// that fingerprint afterward. Concurrent callers with the same
// fingerprint collapse onto a single run via singleflight.
func (e *Engine) RunWithCache(ctx context.Context, req Request, log *zap.Logger) (*riskmodel.SimulationResults, error) {
	if e.cache == nil {
		return e.Run(ctx, req, log)
	}

	fingerprint, err := Fingerprint(req)
	if err != nil {
		return nil, err
	}

	if cached, ok := e.cache.get(fingerprint); ok {
		cacheHits.WithLabelValues("hit").Inc()
		return cached, nil
	}
	cacheHits.WithLabelValues("miss").Inc()

	v, err, _ := e.cache.group.Do(fingerprint, func() (any, error) {
		results, err := e.Run(ctx, req, log)
		if err != nil {
			return nil, err
		}
		e.cache.put(fingerprint, results)
		return results, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*riskmodel.SimulationResults), nil
}

// RunWithEscalation runs the base simulation, then applies the active
// escalation factors to every cost outcome, sampling fresh rates per
// iteration from the same escalation factor set so the escalated
// distribution carries its own variance rather than a single scalar
// shift.
func (e *Engine) RunWithEscalation(ctx context.Context, req Request, log *zap.Logger) (*riskmodel.SimulationResults, error) {
	results, err := e.Run(ctx, req, log)
	if err != nil {
		return nil, err
	}
	if len(req.Escalation) == 0 {
		return results, nil
	}

	rng := newRNG(req)
	escalated := make([]float64, len(results.CostOutcomes))
	for i, cost := range results.CostOutcomes {
		applied := escalation.Apply(req.Escalation, cost, nil, req.EscalationSpan, rng)
		escalated[i] = applied.EscalatedCost
	}
	results.CostOutcomes = escalated
	return results, nil
}

// runParallel splits req.Iterations into per-worker chunks, each with
// its own deterministically-offset rng so a pinned seed is reproducible
// for a given worker count (a different count changes the chunk
// boundaries and seeds, and so the draws), runs them concurrently via
// errgroup, and writes each chunk into its own slice of the outputs in
// iteration order.
// Convergence is evaluated once over the full merged array rather than
// at the sequential path's rolling 1000-iteration cadence, since
// chunks complete out of order; progress is instead reported as each
// chunk finishes, rate-limited so a large worker count doesn't storm
// the callback.
func runParallel(ctx context.Context, req Request, workers int) (*riskmodel.SimulationResults, error) {
	prep, err := prepareRun(req)
	if err != nil {
		return nil, err
	}
	if workers < 1 {
		workers = 1
	}
	if workers > req.Iterations {
		workers = req.Iterations
	}

	chunkSize := req.Iterations / workers
	remainder := req.Iterations % workers

	costOutcomes := make([]float64, req.Iterations)
	scheduleOutcomes := make([]float64, req.Iterations)
	contributions := make(map[string][]float64, len(req.Risks))
	for _, r := range req.Risks {
		contributions[r.ID] = make([]float64, req.Iterations)
	}
	// Each worker only ever writes to its own disjoint [start, start+n)
	// slice region across all three arrays above, so no mutex is
	// needed despite the concurrent writers.

	limiter := rate.NewLimiter(rate.Every(200*time.Millisecond), 1)
	var completed int64
	started := time.Now()

	g, gctx := errgroup.WithContext(ctx)
	offset := 0
	for w := 0; w < workers; w++ {
		n := chunkSize
		if w < remainder {
			n++
		}
		start := offset
		offset += n
		workerSeed := req.Seed + int64(w)*2654435761 + 1

		g.Go(func() error {
			rng := newChunkRNG(req, workerSeed)
			for i := 0; i < n; i++ {
				if i%256 == 0 {
					select {
					case <-gctx.Done():
						return riskmodel.NewCancelledError(start + i)
					default:
					}
				}
				cost, sched, impacts, err := simulateOne(req.Risks, prep.dists, prep.corrMatrix, prep.schedCtx, req.BaselineCosts, rng)
				if err != nil {
					return err
				}
				costOutcomes[start+i] = cost
				scheduleOutcomes[start+i] = sched
				for j, r := range req.Risks {
					contributions[r.ID][start+i] = impacts[j]
				}
			}

			done := atomic.AddInt64(&completed, int64(n))
			if req.Progress != nil && limiter.Allow() {
				req.Progress(int(done), riskmodel.ConvergenceMetrics{})
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	tracker := newConvergenceTracker(reportedPercentiles)
	convergence := tracker.Checkpoint(req.Iterations, costOutcomes)
	if req.Progress != nil {
		req.Progress(req.Iterations, convergence)
	}

	return &riskmodel.SimulationResults{
		Iterations:        req.Iterations,
		CostOutcomes:      costOutcomes,
		ScheduleOutcomes:  scheduleOutcomes,
		RiskContributions: contributions,
		Convergence:       convergence,
		WallTime:          time.Since(started),
		Timestamp:         started,
	}, nil
}

// newChunkRNG seeds a worker's generator from workerSeed when the
// request pins a seed, keeping a pinned-seed run reproducible for a
// given worker count; unseeded requests fall back to a
// per-worker time-derived seed so concurrent workers don't draw
// identical sequences.
func newChunkRNG(req Request, workerSeed int64) *rand.Rand {
	if req.HasSeed {
		return rand.New(rand.NewSource(workerSeed))
	}
	return rand.New(rand.NewSource(time.Now().UnixNano() ^ workerSeed))
}
