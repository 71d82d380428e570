// Copyright 2025 James Ross
package schedule

// CPMResult holds the per-task early/late dates, float, and
// criticality produced by Run, plus the overall project duration.
type CPMResult struct {
	EarlyStart  []int
	EarlyFinish []int
	LateStart   []int
	LateFinish  []int
	TotalFloat  []int
	FreeFloat   []int
	Critical    []bool

	ProjectDuration int
	CriticalTaskIDs []string
}

// Run executes the full critical-path method over g: cycle detection,
// forward pass, backward pass, float computation, and critical-path
// identification. Cycle detection always runs first since CPM has no
// defined early/late dates over a cyclic graph.
func Run(g *Graph) (*CPMResult, error) {
	if err := DetectCycles(g); err != nil {
		return nil, err
	}

	order := topologicalOrder(g)
	es, ef := forwardPass(g, order)

	projectEnd := ef[0]
	for _, e := range ef {
		if e > projectEnd {
			projectEnd = e
		}
	}

	ls, lf := backwardPass(g, order, projectEnd)

	n := g.N()
	totalFloat := make([]int, n)
	freeFloat := make([]int, n)
	critical := make([]bool, n)
	var criticalIDs []string

	for i := 0; i < n; i++ {
		totalFloat[i] = ls[i] - es[i]
		freeFloat[i] = computeFreeFloat(g, i, ef, es, totalFloat)
		critical[i] = totalFloat[i] == 0
		if critical[i] {
			criticalIDs = append(criticalIDs, g.Task(i).ID)
		}
	}

	minES := es[0]
	for _, v := range es {
		if v < minES {
			minES = v
		}
	}

	return &CPMResult{
		EarlyStart:      es,
		EarlyFinish:     ef,
		LateStart:       ls,
		LateFinish:      lf,
		TotalFloat:      totalFloat,
		FreeFloat:       freeFloat,
		Critical:        critical,
		ProjectDuration: projectEnd - minES + 1,
		CriticalTaskIDs: criticalIDs,
	}, nil
}

// topologicalOrder computes a topological order over the task indices
// by Kahn's algorithm (repeatedly removing zero-in-degree vertices).
// The graph is assumed acyclic (callers run DetectCycles first).
func topologicalOrder(g *Graph) []int {
	n := g.N()
	inDegree := make([]int, n)
	for i := 0; i < n; i++ {
		inDegree[i] = len(g.InEdges(i))
	}

	var queue []int
	for i := 0; i < n; i++ {
		if inDegree[i] == 0 {
			queue = append(queue, i)
		}
	}

	order := make([]int, 0, n)
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		order = append(order, cur)
		for _, e := range g.OutEdges(cur) {
			inDegree[e.Successor]--
			if inDegree[e.Successor] == 0 {
				queue = append(queue, e.Successor)
			}
		}
	}
	return order
}

// forwardPass computes early-start/early-finish in topological order:
// ES = max(baseline ES, max over incoming edges of the constraint);
// EF = ES + duration - 1.
func forwardPass(g *Graph, order []int) (es, ef []int) {
	n := g.N()
	es = make([]int, n)
	ef = make([]int, n)

	for _, i := range order {
		task := g.Task(i)
		bound := 0
		if task.HasBaselineEarly {
			bound = task.BaselineEarly
		}
		for _, e := range g.InEdges(i) {
			p := e.Predecessor
			var constraint int
			switch e.Type {
			case FinishToStart:
				constraint = ef[p] + e.Lag + 1
			case StartToStart:
				constraint = es[p] + e.Lag
			case FinishToFinish:
				constraint = ef[p] + e.Lag - task.Duration + 1
			case StartToFinish:
				constraint = es[p] + e.Lag - task.Duration + 1
			}
			if constraint > bound {
				bound = constraint
			}
		}
		es[i] = bound
		ef[i] = es[i] + task.Duration - 1
	}
	return es, ef
}

// backwardPass computes late-start/late-finish in reverse topological
// order. A task with no successors is bounded only by the project end;
// the late-finish bound contributed by each outgoing edge mirrors its
// forward constraint with predecessor/successor and early/late dates
// swapped.
func backwardPass(g *Graph, order []int, projectEnd int) (ls, lf []int) {
	n := g.N()
	ls = make([]int, n)
	lf = make([]int, n)

	for idx := len(order) - 1; idx >= 0; idx-- {
		i := order[idx]
		task := g.Task(i)
		bound := projectEnd
		first := true
		for _, e := range g.OutEdges(i) {
			s := e.Successor
			succ := g.Task(s)
			var constraint int
			switch e.Type {
			case FinishToStart:
				constraint = ls[s] - e.Lag - 1
			case StartToStart:
				constraint = ls[s] - e.Lag + task.Duration - 1
			case FinishToFinish:
				constraint = lf[s] - e.Lag
			case StartToFinish:
				constraint = lf[s] - e.Lag + task.Duration - 1
			}
			_ = succ
			if first || constraint < bound {
				bound = constraint
				first = false
			}
		}
		lf[i] = bound
		ls[i] = lf[i] - task.Duration + 1
	}
	return ls, lf
}

// computeFreeFloat returns the minimum slack before this task's
// completion would delay any successor's early start, floored at 0;
// tasks with no successor inherit their total float.
func computeFreeFloat(g *Graph, i int, ef, es, totalFloat []int) int {
	out := g.OutEdges(i)
	if len(out) == 0 {
		return totalFloat[i]
	}
	min := -1
	for _, e := range out {
		slack := es[e.Successor] - ef[i] - 1
		if min == -1 || slack < min {
			min = slack
		}
	}
	if min < 0 {
		min = 0
	}
	return min
}
