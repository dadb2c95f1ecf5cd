package staircase

import (
	"strings"
	"testing"

	"github.com/Brain-Development-and-Disorders-Lab/task-vr-rdk/internal/trials"
)

func mainGroup(labels ...string) trials.TrialGroup {
	group := make(trials.TrialGroup, len(labels))
	for i, label := range labels {
		group[i] = trials.TrialRecord{
			TrialNumber:   i,
			TrialType:     trials.MainBinocular,
			CoherencePair: label,
		}
	}
	return group
}

func TestValidatePair(t *testing.T) {
	p := DefaultParams()

	t.Run("matching label", func(t *testing.T) {
		ref := &ThresholdPair{Low: 0.06, High: 0.24}
		got := ValidatePair(mainGroup("0.06_0.24", "0.06_0.24"), ref, p)
		if got.Status != PairOK {
			t.Fatalf("status = %s, want ok (detail: %s)", got.Status, got.Detail)
		}
	})

	t.Run("labels compare at two decimals", func(t *testing.T) {
		// Internal computation carries four decimals; the recorded label was
		// formatted at two, so 0.0615/0.246 still matches 0.06_0.25.
		ref := &ThresholdPair{Low: 0.0615, High: 0.246}
		got := ValidatePair(mainGroup("0.06_0.25"), ref, p)
		if got.Status != PairOK {
			t.Fatalf("status = %s, want ok (detail: %s)", got.Status, got.Detail)
		}
	})

	t.Run("mismatching label carries expected and actual", func(t *testing.T) {
		ref := &ThresholdPair{Low: 0.06, High: 0.24}
		got := ValidatePair(mainGroup("0.1_0.4"), ref, p)
		if got.Status != PairMismatch {
			t.Fatalf("status = %s, want mismatch", got.Status)
		}
		if got.Expected.Low != 0.06 || got.Actual.Low != 0.1 {
			t.Errorf("expected/actual = %+v / %+v", got.Expected, got.Actual)
		}
		if !strings.Contains(got.Detail, "0.06_0.24") || !strings.Contains(got.Detail, "0.1_0.4") {
			t.Errorf("detail missing pairs: %q", got.Detail)
		}
	})

	t.Run("no reference when training replay failed", func(t *testing.T) {
		got := ValidatePair(mainGroup("0.06_0.24"), nil, p)
		if got.Status != PairNoReference {
			t.Errorf("status = %s, want no_reference", got.Status)
		}
	})

	t.Run("empty group", func(t *testing.T) {
		got := ValidatePair(nil, &ThresholdPair{}, p)
		if got.Status != PairEmpty {
			t.Errorf("status = %s, want empty", got.Status)
		}
	})

	t.Run("varying labels flag the group", func(t *testing.T) {
		ref := &ThresholdPair{Low: 0.06, High: 0.24}
		got := ValidatePair(mainGroup("0.06_0.24", "0.06_0.24", "0.07_0.24"), ref, p)
		if got.Status != PairInconsistentLabel {
			t.Fatalf("status = %s, want inconsistent_label", got.Status)
		}
		if !strings.Contains(got.Detail, "0.07_0.24") {
			t.Errorf("detail missing offending label: %q", got.Detail)
		}
	})

	t.Run("unparsable label", func(t *testing.T) {
		ref := &ThresholdPair{Low: 0.06, High: 0.24}
		got := ValidatePair(mainGroup("not-a-pair"), ref, p)
		if got.Status != PairBadLabel {
			t.Errorf("status = %s, want bad_label", got.Status)
		}
	})
}

func TestParsePairLabel(t *testing.T) {
	pair, err := ParsePairLabel("0.105_0.42")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if pair.Low != 0.105 || pair.High != 0.42 {
		t.Errorf("pair = %+v", pair)
	}

	for _, bad := range []string{"", "0.1", "0.1_0.2_0.3", "a_b"} {
		if _, err := ParsePairLabel(bad); err == nil {
			t.Errorf("ParsePairLabel(%q) accepted a bad label", bad)
		}
	}
}

func TestFormatPair(t *testing.T) {
	if got := FormatPair(ThresholdPair{Low: 0.105, High: 0.42}); got != "0.105_0.42" {
		t.Errorf("FormatPair = %q", got)
	}
}
