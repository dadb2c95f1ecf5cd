package analysis

import (
	"testing"

	"github.com/Brain-Development-and-Disorders-Lab/task-vr-rdk/internal/monitoring"
	"github.com/Brain-Development-and-Disorders-Lab/task-vr-rdk/internal/staircase"
	"github.com/Brain-Development-and-Disorders-Lab/task-vr-rdk/internal/testutil"
	"github.com/Brain-Development-and-Disorders-Lab/task-vr-rdk/internal/trials"
)

// fixtureRecords builds a session with one fully valid binocular category and
// one monocular-left category whose calibration data was corrupted at trial 1.
func fixtureRecords() []trials.TrialRecord {
	var records []trials.TrialRecord
	records = append(records, testutil.TrainingTrials(
		trials.TrainingBinocular, trials.FieldNone,
		[]float64{0.2, 0.21, 0.21}, []bool{false, true, true})...)
	records = append(records, testutil.MainTrials(
		trials.MainBinocular, trials.FieldNone,
		"0.105_0.42", []bool{true, true, false, true})...)
	records = append(records, testutil.TrainingTrials(
		trials.TrainingMonocular, trials.FieldLeft,
		[]float64{0.2, 0.5}, []bool{false, true})...)
	records = append(records, testutil.MainTrials(
		trials.MainMonocular, trials.FieldLeft,
		"0.1_0.4", []bool{true, false})...)
	return records
}

func muteEvents(t *testing.T) *[]monitoring.Event {
	t.Helper()
	var events []monitoring.Event
	monitoring.SetEventSink(func(ev monitoring.Event) { events = append(events, ev) })
	t.Cleanup(func() { monitoring.SetEventSink(nil) })
	return &events
}

func TestBuilderBuild(t *testing.T) {
	_ = muteEvents(t)
	summary := NewBuilder(staircase.DefaultParams()).Build("S001", fixtureRecords())

	if summary.SessionID != "S001" {
		t.Fatalf("session id = %q", summary.SessionID)
	}
	if len(summary.Categories) != len(trials.Categories) {
		t.Fatalf("got %d categories, want %d", len(summary.Categories), len(trials.Categories))
	}

	t.Run("valid category", func(t *testing.T) {
		b := summary.Categories[0]
		if b.Category.Code != "b" {
			t.Fatalf("category order broken: %q", b.Category.Code)
		}
		if b.ReplayStatus() != "ok" {
			t.Errorf("replay status = %q", b.ReplayStatus())
		}
		if b.Threshold == nil {
			t.Fatal("no threshold for a completed replay")
		}
		testutil.AssertFloatNear(t, b.Threshold.Low, 0.105, 1e-12)
		testutil.AssertFloatNear(t, b.Threshold.High, 0.42, 1e-12)
		if b.Pair.Status != staircase.PairOK {
			t.Errorf("pair status = %s (%s)", b.Pair.Status, b.Pair.Detail)
		}
		testutil.AssertFloatNear(t, b.TrainingAccuracy.Percent, 66.667, 1e-9)
		testutil.AssertFloatNear(t, b.MainAccuracy.Percent, 75, 1e-9)
	})

	t.Run("corrupted category", func(t *testing.T) {
		ml := summary.Categories[1]
		if ml.Category.Code != "m_l" {
			t.Fatalf("category order broken: %q", ml.Category.Code)
		}
		if ml.Replay.Outcome != staircase.Failed || ml.Replay.FailIndex != 1 {
			t.Errorf("replay = %+v, want failure at 1", ml.Replay)
		}
		if ml.Threshold != nil {
			t.Error("threshold invented for a failed replay")
		}
		if ml.Pair.Status != staircase.PairNoReference {
			t.Errorf("pair status = %s, want no_reference", ml.Pair.Status)
		}
		// Accuracy still aggregates: the corruption excludes the group from
		// threshold work, not from counting.
		testutil.AssertFloatNear(t, ml.TrainingAccuracy.Percent, 50, 1e-9)
	})

	t.Run("absent categories are flagged, not fatal", func(t *testing.T) {
		for _, res := range summary.Categories[2:] {
			if res.TrainingCount != 0 || res.MainCount != 0 {
				t.Fatalf("%s: unexpected trials", res.Category.Code)
			}
			if res.ReplayStatus() != "empty" {
				t.Errorf("%s: replay status = %q", res.Category.Code, res.ReplayStatus())
			}
			if res.Pair.Status != staircase.PairEmpty {
				t.Errorf("%s: pair status = %s", res.Category.Code, res.Pair.Status)
			}
			if res.TrainingAccuracy.Defined || res.MainAccuracy.Defined {
				t.Errorf("%s: accuracy defined for empty group", res.Category.Code)
			}
		}
	})

	t.Run("phase unions", func(t *testing.T) {
		testutil.AssertFloatNear(t, summary.TrainingAccuracy.Percent, 60, 1e-9)
		testutil.AssertFloatNear(t, summary.MainAccuracy.Percent, 66.667, 1e-9)
	})
}

func TestBuildEmitsInvalidEvents(t *testing.T) {
	events := muteEvents(t)
	NewBuilder(staircase.DefaultParams()).Build("S001", fixtureRecords())

	found := false
	for _, ev := range *events {
		if ev.Check == "staircase" && ev.Status == "invalid" && ev.Category == "m_l" && ev.Index == 1 {
			found = true
		}
	}
	if !found {
		t.Errorf("no invalid staircase event for m_l at index 1; events: %+v", *events)
	}
}

func TestReplayStatusRendering(t *testing.T) {
	res := CategoryResult{
		TrainingCount: 3,
		Replay: staircase.ReplayResult{
			Outcome: staircase.Failed, FailIndex: 2, Expected: 0.21, Actual: 0.5,
		},
	}
	want := "mismatch[2] expected=0.21 actual=0.5"
	if got := res.ReplayStatus(); got != want {
		t.Errorf("ReplayStatus() = %q, want %q", got, want)
	}
}
