// Package testutil provides shared test utilities and fixtures.
//
// This package centralises common test helpers to reduce code duplication
// across test files and improve test maintainability.
package testutil

import (
	"math"
	"testing"

	"github.com/Brain-Development-and-Disorders-Lab/task-vr-rdk/internal/trials"
)

// AssertNoError fails the test if err is not nil.
func AssertNoError(t *testing.T, err error) {
	t.Helper()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

// AssertError fails the test if err is nil.
func AssertError(t *testing.T, err error) {
	t.Helper()
	if err == nil {
		t.Fatal("expected error, got nil")
	}
}

// AssertFloatNear checks two floats agree within eps.
func AssertFloatNear(t *testing.T, got, want, eps float64) {
	t.Helper()
	if math.Abs(got-want) > eps {
		t.Errorf("got %g, want %g (eps %g)", got, want, eps)
	}
}

// TrainingTrials builds a calibration group from parallel coherence and
// correctness slices.
func TrainingTrials(trialType trials.TrialType, field trials.VisualField, coherences []float64, correct []bool) trials.TrialGroup {
	group := make(trials.TrialGroup, len(coherences))
	for i := range coherences {
		group[i] = trials.TrialRecord{
			TrialNumber:      i,
			TrialType:        trialType,
			ActiveField:      field,
			CorrectSelection: correct[i],
			Coherence:        coherences[i],
		}
	}
	return group
}

// MainTrials builds a main group whose records all carry one pair label.
func MainTrials(trialType trials.TrialType, field trials.VisualField, label string, correct []bool) trials.TrialGroup {
	group := make(trials.TrialGroup, len(correct))
	for i := range correct {
		group[i] = trials.TrialRecord{
			TrialNumber:      i,
			TrialType:        trialType,
			ActiveField:      field,
			CorrectSelection: correct[i],
			CoherencePair:    label,
		}
	}
	return group
}
