// Copyright 2025 James Ross
package calibration

import "math"

// PredictionRecord pairs one simulation's predicted median outcome
// with the project's eventual actual, plus the confidence-interval
// bounds predicted at one level, so coverage can be checked alongside
// point-accuracy.
type PredictionRecord struct {
	PredictedMedian float64
	Actual          float64
	IntervalLower   float64
	IntervalUpper   float64
	IntervalLevel   float64 // e.g. 0.95
}

// AccuracyReport summarizes how well a set of predictions tracked
// their actuals.
type AccuracyReport struct {
	MAE   float64
	RMSE  float64
	MAPE  float64
	R2    float64
	Bias  float64 // mean(predicted - actual); positive means the model over-predicts
	// IntervalCoverage maps a confidence level to the fraction of
	// records whose actual fell within that level's predicted interval.
	IntervalCoverage map[float64]float64
}

// AnalyzeAccuracy computes AccuracyReport over records.
func AnalyzeAccuracy(records []PredictionRecord) AccuracyReport {
	if len(records) == 0 {
		return AccuracyReport{IntervalCoverage: map[float64]float64{}}
	}

	n := float64(len(records))
	var sumAbsErr, sumSqErr, sumPctErr, sumBias, sumActual float64
	for _, r := range records {
		err := r.PredictedMedian - r.Actual
		sumAbsErr += math.Abs(err)
		sumSqErr += err * err
		sumBias += err
		sumActual += r.Actual
		if r.Actual != 0 {
			sumPctErr += math.Abs(err / r.Actual)
		}
	}

	meanActual := sumActual / n
	var ssTot float64
	for _, r := range records {
		d := r.Actual - meanActual
		ssTot += d * d
	}

	r2 := 1.0
	if ssTot > 0 {
		r2 = 1 - sumSqErr/ssTot
	}

	coverageHits := make(map[float64]int)
	coverageCounts := make(map[float64]int)
	for _, r := range records {
		if r.IntervalLevel == 0 {
			continue
		}
		coverageCounts[r.IntervalLevel]++
		if r.Actual >= r.IntervalLower && r.Actual <= r.IntervalUpper {
			coverageHits[r.IntervalLevel]++
		}
	}
	coverage := make(map[float64]float64, len(coverageCounts))
	for level, count := range coverageCounts {
		coverage[level] = float64(coverageHits[level]) / float64(count)
	}

	return AccuracyReport{
		MAE:              sumAbsErr / n,
		RMSE:             math.Sqrt(sumSqErr / n),
		MAPE:             sumPctErr / n,
		R2:               r2,
		Bias:             sumBias / n,
		IntervalCoverage: coverage,
	}
}
