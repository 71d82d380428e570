// Copyright 2025 James Ross
package calibration

import (
	"math"
	"sort"
)

// SimilarityScore is |matching characteristics| / |common
// characteristics| between two projects, where a numeric field
// "matches" when it is within 20% relative of the other.
type SimilarityScore struct {
	ProjectAID string
	ProjectBID string
	Score      float64
	TypeMatch  bool
}

const relativeMatchTolerance = 0.20

// frozenPair is a symmetric cache key: (a,b) and (b,a) collide.
type frozenPair struct {
	lo, hi string
}

func newFrozenPair(a, b string) frozenPair {
	if a <= b {
		return frozenPair{lo: a, hi: b}
	}
	return frozenPair{lo: b, hi: a}
}

// SimilarityCache memoizes pairwise project similarity, keyed
// symmetrically so ProjectSimilarity(a, b) and ProjectSimilarity(b, a)
// share one cache entry.
type SimilarityCache struct {
	entries map[frozenPair]SimilarityScore
}

// NewSimilarityCache returns an empty cache.
func NewSimilarityCache() *SimilarityCache {
	return &SimilarityCache{entries: make(map[frozenPair]SimilarityScore)}
}

// Similarity computes (or returns the cached) SimilarityScore between
// a and b.
func (c *SimilarityCache) Similarity(a, b CompletedProject) SimilarityScore {
	key := newFrozenPair(a.ID, b.ID)
	if cached, ok := c.entries[key]; ok {
		return cached
	}
	score := ProjectSimilarity(a, b)
	c.entries[key] = score
	return score
}

// ProjectSimilarity computes the characteristic-matching ratio between
// two projects: of the characteristics both carry, the fraction whose
// numeric values agree within 20% relative.
func ProjectSimilarity(a, b CompletedProject) SimilarityScore {
	var common, matching int
	for key, av := range a.Characteristics {
		bv, ok := b.Characteristics[key]
		if !ok {
			continue
		}
		common++
		if withinRelativeTolerance(av, bv, relativeMatchTolerance) {
			matching++
		}
	}

	var score float64
	if common > 0 {
		score = float64(matching) / float64(common)
	}

	return SimilarityScore{
		ProjectAID: a.ID,
		ProjectBID: b.ID,
		Score:      score,
		TypeMatch:  SameEquivalenceClass(a.ProjectType, b.ProjectType),
	}
}

func withinRelativeTolerance(a, b, tolerance float64) bool {
	if a == 0 && b == 0 {
		return true
	}
	denom := math.Max(math.Abs(a), math.Abs(b))
	if denom == 0 {
		return true
	}
	return math.Abs(a-b)/denom <= tolerance
}

// FindSimilarProjects returns every project in candidates (other than
// target itself) whose SimilarityScore meets threshold, most similar
// first.
func FindSimilarProjects(cache *SimilarityCache, target CompletedProject, candidates []CompletedProject, threshold float64) []SimilarityScore {
	var out []SimilarityScore
	for _, candidate := range candidates {
		if candidate.ID == target.ID {
			continue
		}
		score := cache.Similarity(target, candidate)
		if score.Score >= threshold {
			out = append(out, score)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Score > out[j].Score })
	return out
}
