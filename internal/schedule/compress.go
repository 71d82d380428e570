// Copyright 2025 James Ross
package schedule

// CrashCandidate is a critical task whose duration could be reduced.
type CrashCandidate struct {
	TaskID        string
	Duration      int
	MaxSavingDays int
}

// FastTrackCandidate is a finish-to-start edge on the critical path
// whose endpoints could overlap instead of running sequentially.
type FastTrackCandidate struct {
	PredecessorID string
	SuccessorID   string
	OverlapDays   int
}

// CompressionAnalysis emits the two candidate lists a caller can use to
// shorten a schedule: crashing (shrinking critical task durations, each
// capped at 30% of its current duration) and fast-tracking (running a
// critical FS edge's endpoints partially in parallel).
func CompressionAnalysis(g *Graph, result *CPMResult) (crash []CrashCandidate, fastTrack []FastTrackCandidate) {
	for i := 0; i < g.N(); i++ {
		if !result.Critical[i] {
			continue
		}
		task := g.Task(i)
		if task.Duration <= 1 {
			continue
		}
		saving := int(float64(task.Duration) * 0.3)
		if saving < 1 {
			saving = 1
		}
		crash = append(crash, CrashCandidate{
			TaskID:        task.ID,
			Duration:      task.Duration,
			MaxSavingDays: saving,
		})

		for _, e := range g.OutEdges(i) {
			if e.Type != FinishToStart || !result.Critical[e.Successor] {
				continue
			}
			succ := g.Task(e.Successor)
			overlap := succ.Duration / 2
			if overlap <= 0 {
				continue
			}
			fastTrack = append(fastTrack, FastTrackCandidate{
				PredecessorID: task.ID,
				SuccessorID:   succ.ID,
				OverlapDays:   overlap,
			})
		}
	}
	return crash, fastTrack
}
