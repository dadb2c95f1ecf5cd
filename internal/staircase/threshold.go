package staircase

import (
	"errors"
	"sort"
)

// ThresholdPair is the (low, high) coherence pair the task draws main trials
// from. It is derived once per calibration group and consumed by the matching
// main group's pair validation.
type ThresholdPair struct {
	Low  float64
	High float64
}

// ErrEmptySequence is returned when a threshold is requested for an empty
// coherence sequence (a calibration group with no validated trials).
var ErrEmptySequence = errors.New("staircase: empty coherence sequence")

// Aggregate derives the threshold pair from a completed replay's coherence
// sequence. The median is taken over the most recent MedianWindow trials
// (full sequence when zero), rounded to EstimateDecimals, clamped to
// [ClampLow, ClampHigh], then scaled by the two multipliers.
//
// The median averages the two middle values for even-length input, matching
// the behavior the task's own analysis relied on. gonum's stat.Quantile
// interpolation types do not reproduce that averaging exactly, so the median
// is computed directly here.
func Aggregate(seq []float64, p Params) (ThresholdPair, error) {
	if len(seq) == 0 {
		return ThresholdPair{}, ErrEmptySequence
	}

	window := seq
	if p.MedianWindow > 0 && len(seq) > p.MedianWindow {
		window = seq[len(seq)-p.MedianWindow:]
	}

	kMed := roundTo(median(window), p.EstimateDecimals)
	if kMed < p.ClampLow {
		kMed = p.ClampLow
	} else if kMed > p.ClampHigh {
		kMed = p.ClampHigh
	}

	return ThresholdPair{
		Low:  roundTo(p.LowMultiplier*kMed, p.EstimateDecimals),
		High: roundTo(p.HighMultiplier*kMed, p.EstimateDecimals),
	}, nil
}

func median(vals []float64) float64 {
	sorted := make([]float64, len(vals))
	copy(sorted, vals)
	sort.Float64s(sorted)

	mid := len(sorted) / 2
	if len(sorted)%2 == 1 {
		return sorted[mid]
	}
	return (sorted[mid-1] + sorted[mid]) / 2
}
