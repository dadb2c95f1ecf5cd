package staircase

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/Brain-Development-and-Disorders-Lab/task-vr-rdk/internal/trials"
)

// PairStatus classifies the outcome of validating one main group's recorded
// coherence-pair label.
type PairStatus string

const (
	// PairOK means the recorded label matched the computed pair.
	PairOK PairStatus = "ok"

	// PairMismatch means the label parsed but disagreed with the computed
	// pair at PairDecimals precision.
	PairMismatch PairStatus = "mismatch"

	// PairNoReference means the matching calibration group failed replay, so
	// no computed pair exists to check against. Distinct from a mismatch.
	PairNoReference PairStatus = "no_reference"

	// PairEmpty means the main group held no records.
	PairEmpty PairStatus = "empty"

	// PairInconsistentLabel means the records within one main group did not
	// all carry the same label. The task is supposed to fix the pair for a
	// whole block, so a varying label is its own corruption signal.
	PairInconsistentLabel PairStatus = "inconsistent_label"

	// PairBadLabel means the recorded label could not be parsed as
	// "low_high".
	PairBadLabel PairStatus = "bad_label"
)

// PairValidation is the outcome of one main-pair check.
type PairValidation struct {
	Status   PairStatus
	Label    string
	Expected ThresholdPair
	Actual   ThresholdPair
	Detail   string
}

// ValidatePair checks a main group's recorded coherence-pair label against
// the threshold pair computed from the matching calibration group. ref is nil
// when that calibration group failed replay. The label must be uniform across
// the whole group; a single varying record flags the group rather than being
// silently trusted.
//
// Comparison uses PairDecimals rounding on both sides: labels are formatted
// upstream with coarser precision than the internal 4-decimal computation.
func ValidatePair(group trials.TrialGroup, ref *ThresholdPair, p Params) PairValidation {
	if len(group) == 0 {
		return PairValidation{Status: PairEmpty}
	}

	label := group[0].CoherencePair
	for i, rec := range group[1:] {
		if rec.CoherencePair != label {
			return PairValidation{
				Status: PairInconsistentLabel,
				Label:  label,
				Detail: fmt.Sprintf("record %d has label %q, first record has %q", i+1, rec.CoherencePair, label),
			}
		}
	}

	if ref == nil {
		return PairValidation{Status: PairNoReference, Label: label}
	}

	actual, err := ParsePairLabel(label)
	if err != nil {
		return PairValidation{Status: PairBadLabel, Label: label, Detail: err.Error()}
	}

	expected := ThresholdPair{
		Low:  roundTo(ref.Low, p.PairDecimals),
		High: roundTo(ref.High, p.PairDecimals),
	}
	actual = ThresholdPair{
		Low:  roundTo(actual.Low, p.PairDecimals),
		High: roundTo(actual.High, p.PairDecimals),
	}

	if !withinEpsilon(expected.Low, actual.Low, p.Epsilon) || !withinEpsilon(expected.High, actual.High, p.Epsilon) {
		return PairValidation{
			Status:   PairMismatch,
			Label:    label,
			Expected: expected,
			Actual:   actual,
			Detail:   fmt.Sprintf("expected %s, recorded %s", FormatPair(expected), FormatPair(actual)),
		}
	}

	return PairValidation{Status: PairOK, Label: label, Expected: expected, Actual: actual}
}

// ParsePairLabel parses a recorded "low_high" coherence-pair label.
func ParsePairLabel(label string) (ThresholdPair, error) {
	parts := strings.Split(label, "_")
	if len(parts) != 2 {
		return ThresholdPair{}, fmt.Errorf("staircase: pair label %q is not of the form low_high", label)
	}
	low, err := strconv.ParseFloat(parts[0], 64)
	if err != nil {
		return ThresholdPair{}, fmt.Errorf("staircase: failed to parse low coherence in %q: %w", label, err)
	}
	high, err := strconv.ParseFloat(parts[1], 64)
	if err != nil {
		return ThresholdPair{}, fmt.Errorf("staircase: failed to parse high coherence in %q: %w", label, err)
	}
	return ThresholdPair{Low: low, High: high}, nil
}

// FormatPair renders a pair in the task's label format.
func FormatPair(p ThresholdPair) string {
	return trimFloat(p.Low) + "_" + trimFloat(p.High)
}

func trimFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
