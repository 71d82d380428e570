// Copyright 2025 James Ross
package calibration

import "math"

// ParameterSuggestion flags that a risk's currently-modeled mean or
// std deviates enough from what similar completed projects realized to
// warrant a parameter update.
type ParameterSuggestion struct {
	RiskID          string
	CurrentMean     float64
	SuggestedMean   float64
	CurrentStd      float64
	SuggestedStd    float64
	MeanDeltaRatio  float64
	StdDeltaRatio   float64
	SampleSize      int
	Confidence      float64 // scales with sample count, capped at 1
}

const (
	meanSuggestionThreshold = 0.10
	stdSuggestionThreshold  = 0.15
	// confidenceSaturationSamples is the sample count at which
	// confidence reaches 1; confidence scales linearly below it.
	confidenceSaturationSamples = 30
)

// SuggestParameters finds projects similar to target (score >=
// threshold), pools their realized impacts for riskID, and — if at
// least MinSuggestionSamples are available and the pooled mean or std
// differs from current by more than the threshold — returns a
// suggestion.
func SuggestParameters(cache *SimilarityCache, target CompletedProject, candidates []CompletedProject, riskID string, threshold, currentMean, currentStd float64) (*ParameterSuggestion, bool) {
	similar := FindSimilarProjects(cache, target, candidates, threshold)

	var pooled []float64
	for _, s := range similar {
		for _, p := range candidates {
			if p.ID == s.ProjectBID {
				pooled = append(pooled, p.RealizedImpacts[riskID]...)
			}
		}
	}

	if len(pooled) < MinSuggestionSamples {
		return nil, false
	}

	mean, std := meanStd(pooled)
	meanRatio := relativeDelta(currentMean, mean)
	stdRatio := relativeDelta(currentStd, std)

	if meanRatio <= meanSuggestionThreshold && stdRatio <= stdSuggestionThreshold {
		return nil, false
	}

	confidence := float64(len(pooled)) / confidenceSaturationSamples
	if confidence > 1 {
		confidence = 1
	}

	return &ParameterSuggestion{
		RiskID:         riskID,
		CurrentMean:    currentMean,
		SuggestedMean:  mean,
		CurrentStd:     currentStd,
		SuggestedStd:   std,
		MeanDeltaRatio: meanRatio,
		StdDeltaRatio:  stdRatio,
		SampleSize:     len(pooled),
		Confidence:     confidence,
	}, true
}

func relativeDelta(current, suggested float64) float64 {
	if current == 0 {
		if suggested == 0 {
			return 0
		}
		return math.Inf(1)
	}
	return math.Abs(suggested-current) / math.Abs(current)
}

func meanStd(xs []float64) (mean, std float64) {
	n := float64(len(xs))
	for _, x := range xs {
		mean += x
	}
	mean /= n

	var variance float64
	for _, x := range xs {
		d := x - mean
		variance += d * d
	}
	variance /= n
	return mean, math.Sqrt(variance)
}
