package analysis

import (
	"math"
	"strconv"

	"gonum.org/v1/gonum/stat"

	"github.com/Brain-Development-and-Disorders-Lab/task-vr-rdk/internal/trials"
)

// Accuracy is a proportion-correct percentage for one trial group. Defined is
// false for an empty group: division by zero is an explicit, reported
// condition, never a silent NaN or zero.
type Accuracy struct {
	Percent float64
	Defined bool
}

// AccuracyDecimals is the rounding precision of reported accuracies.
const AccuracyDecimals = 3

// GroupAccuracy computes the percentage of correct selections in a group.
func GroupAccuracy(group trials.TrialGroup) Accuracy {
	if len(group) == 0 {
		return Accuracy{}
	}
	indicators := make([]float64, len(group))
	for i, rec := range group {
		if rec.CorrectSelection {
			indicators[i] = 1
		}
	}
	percent := stat.Mean(indicators, nil) * 100
	scale := math.Pow(10, AccuracyDecimals)
	return Accuracy{Percent: math.Round(percent*scale) / scale, Defined: true}
}

// String renders the accuracy for report output; undefined accuracies are
// spelled out rather than blanked so the table shows why the metric is absent.
func (a Accuracy) String() string {
	if !a.Defined {
		return "undefined"
	}
	return strconv.FormatFloat(a.Percent, 'f', -1, 64)
}
