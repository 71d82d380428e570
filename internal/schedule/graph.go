// Copyright 2025 James Ross
// Package schedule implements the critical-path method: a dense-indexed
// task/edge arena, forward and backward passes over the four
// dependency-relationship types, total/free float, critical-path
// identification, cycle detection, and schedule-compression analysis.
package schedule

import (
	"fmt"

	"github.com/riskforge/montecarlo/internal/errs"
)

// RelationType is one of the four CPM dependency relationships.
type RelationType string

const (
	FinishToStart  RelationType = "FS"
	StartToStart   RelationType = "SS"
	FinishToFinish RelationType = "FF"
	StartToFinish  RelationType = "SF"
)

// Task is one vertex in the dependency graph: a duration in days and an
// optional baseline early-start the forward pass will not undercut.
type Task struct {
	ID               string
	Duration         int
	BaselineEarly    int
	HasBaselineEarly bool
}

// Edge is a typed, lagged dependency between two tasks, identified by
// their dense indices.
type Edge struct {
	Predecessor int
	Successor   int
	Type        RelationType
	Lag         int
}

// Graph is the dense-indexed CPM arena: tasks are stored by index, IDs
// map to indices, and edges are stored both as a flat list and grouped
// per task for the forward/backward passes and reachability queries.
type Graph struct {
	tasks       []Task
	index       map[string]int
	edges       []Edge
	outEdges    [][]int // outEdges[i] = indices into edges where Predecessor == i
	inEdges     [][]int // inEdges[i] = indices into edges where Successor == i
}

// NewGraph builds an empty graph over the given tasks. Task IDs must be
// unique and non-empty.
func NewGraph(tasks []Task) (*Graph, error) {
	index := make(map[string]int, len(tasks))
	for i, t := range tasks {
		if t.ID == "" {
			return nil, errs.NewValidationError(errs.ErrInvalidSchedule, "task ID must not be empty", nil)
		}
		if _, exists := index[t.ID]; exists {
			return nil, errs.NewValidationError(errs.ErrInvalidSchedule, fmt.Sprintf("duplicate task ID %q", t.ID), nil)
		}
		if t.Duration <= 0 {
			return nil, errs.NewValidationError(errs.ErrInvalidSchedule, fmt.Sprintf("task %q duration must be positive", t.ID), nil)
		}
		index[t.ID] = i
	}
	g := &Graph{
		tasks:    append([]Task(nil), tasks...),
		index:    index,
		outEdges: make([][]int, len(tasks)),
		inEdges:  make([][]int, len(tasks)),
	}
	return g, nil
}

// N returns the number of tasks.
func (g *Graph) N() int { return len(g.tasks) }

// IndexOf returns the dense index of a task ID.
func (g *Graph) IndexOf(id string) (int, bool) {
	i, ok := g.index[id]
	return i, ok
}

// Task returns the task at index i.
func (g *Graph) Task(i int) Task { return g.tasks[i] }

// AddDependency implements the dependency-creation contract: both
// endpoints must exist, the edge must not already exist, and adding it
// must not create a cycle (checked by a reachability query from
// successor back to predecessor before insertion). An empty relType is
// stored as FinishToStart.
func (g *Graph) AddDependency(predecessorID, successorID string, relType RelationType, lag int) error {
	if relType == "" {
		relType = FinishToStart
	}
	p, ok := g.index[predecessorID]
	if !ok {
		return errs.NewValidationError(errs.ErrUnknownTask, fmt.Sprintf("unknown predecessor task %q", predecessorID), nil)
	}
	s, ok := g.index[successorID]
	if !ok {
		return errs.NewValidationError(errs.ErrUnknownTask, fmt.Sprintf("unknown successor task %q", successorID), nil)
	}
	for _, ei := range g.outEdges[p] {
		if g.edges[ei].Successor == s {
			return errs.NewDomainError(errs.ErrDependencyExists, fmt.Sprintf("dependency %q -> %q already exists", predecessorID, successorID), nil)
		}
	}
	if g.reaches(s, p) {
		return errs.NewDomainError(errs.ErrCyclicDependency, fmt.Sprintf("adding %q -> %q would create a cycle", predecessorID, successorID), nil)
	}

	idx := len(g.edges)
	g.edges = append(g.edges, Edge{Predecessor: p, Successor: s, Type: relType, Lag: lag})
	g.outEdges[p] = append(g.outEdges[p], idx)
	g.inEdges[s] = append(g.inEdges[s], idx)
	return nil
}

// reaches reports whether task to is reachable from task from by
// following successor edges — used to test whether adding an edge
// to->from (i.e. from depends on to) would close a cycle.
func (g *Graph) reaches(from, to int) bool {
	visited := make([]bool, g.N())
	stack := []int{from}
	for len(stack) > 0 {
		cur := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if cur == to {
			return true
		}
		if visited[cur] {
			continue
		}
		visited[cur] = true
		for _, ei := range g.outEdges[cur] {
			stack = append(stack, g.edges[ei].Successor)
		}
	}
	return false
}

// OutEdges returns the edges for which task i is the predecessor.
func (g *Graph) OutEdges(i int) []Edge {
	out := make([]Edge, len(g.outEdges[i]))
	for k, ei := range g.outEdges[i] {
		out[k] = g.edges[ei]
	}
	return out
}

// InEdges returns the edges for which task i is the successor.
func (g *Graph) InEdges(i int) []Edge {
	out := make([]Edge, len(g.inEdges[i]))
	for k, ei := range g.inEdges[i] {
		out[k] = g.edges[ei]
	}
	return out
}
