// Copyright 2025 James Ross
package schedule

import "github.com/riskforge/montecarlo/internal/errs"

// CycleError carries the cycle path (task IDs) discovered during
// DetectCycles, most useful to the caller for diagnostics.
type CycleError struct {
	Path []string
}

func (e *CycleError) Error() string {
	msg := "cyclic dependency detected: "
	for i, id := range e.Path {
		if i > 0 {
			msg += " -> "
		}
		msg += id
	}
	return msg
}

// color marks a vertex's DFS state: white (unvisited), gray (on the
// current recursion stack), black (fully explored).
type color int

const (
	white color = iota
	gray
	black
)

// DetectCycles runs DFS over the dependency graph keeping an explicit
// recursion stack; re-visiting a gray vertex means the graph has a
// cycle, and must be run (and must find nothing) before any forward
// pass — CPM over a cyclic graph has no defined early/late dates.
func DetectCycles(g *Graph) error {
	n := g.N()
	colors := make([]color, n)
	var path []int

	var visit func(i int) *CycleError
	visit = func(i int) *CycleError {
		colors[i] = gray
		path = append(path, i)
		for _, e := range g.OutEdges(i) {
			s := e.Successor
			switch colors[s] {
			case gray:
				// Found the cycle: trim path back to where s first appears.
				start := 0
				for k, p := range path {
					if p == s {
						start = k
						break
					}
				}
				cyclePath := append([]int(nil), path[start:]...)
				cyclePath = append(cyclePath, s)
				ids := make([]string, len(cyclePath))
				for k, idx := range cyclePath {
					ids[k] = g.Task(idx).ID
				}
				return &CycleError{Path: ids}
			case white:
				if err := visit(s); err != nil {
					return err
				}
			}
		}
		path = path[:len(path)-1]
		colors[i] = black
		return nil
	}

	for i := 0; i < n; i++ {
		if colors[i] == white {
			if err := visit(i); err != nil {
				return errs.NewDomainError(errs.ErrCyclicDependency, err.Error(), err)
			}
		}
	}
	return nil
}
