package analysis

import (
	"errors"
	"fmt"
	"testing"

	"github.com/Brain-Development-and-Disorders-Lab/task-vr-rdk/internal/staircase"
	"github.com/Brain-Development-and-Disorders-Lab/task-vr-rdk/internal/trials"
)

func TestRunBatch(t *testing.T) {
	_ = muteEvents(t)

	good := func() ([]trials.TrialRecord, error) { return fixtureRecords(), nil }
	bad := func() ([]trials.TrialRecord, error) {
		return nil, &SchemaError{Field: "trial_type", Err: errors.New("column missing")}
	}

	sources := []SessionSource{
		{ID: "s1", Load: good},
		{ID: "s2", Load: bad},
		{ID: "s3", Load: good},
	}

	batch := NewBuilder(staircase.DefaultParams()).RunBatch(sources, 2)

	if batch.RunID == "" {
		t.Error("batch has no run id")
	}
	if len(batch.Summaries) != 3 {
		t.Fatalf("got %d summaries, want 3", len(batch.Summaries))
	}

	for i, want := range []string{"s1", "s2", "s3"} {
		if batch.Summaries[i].SessionID != want {
			t.Errorf("summary %d is %q, want %q (input order lost)", i, batch.Summaries[i].SessionID, want)
		}
	}

	// The failing session keeps its row, flagged.
	if batch.Summaries[1].Err == "" {
		t.Error("schema failure not flagged on its summary")
	}
	if len(batch.Summaries[1].Categories) != 0 {
		t.Error("schema failure produced category results")
	}

	// The neighbours are untouched.
	for _, i := range []int{0, 2} {
		if batch.Summaries[i].Err != "" {
			t.Errorf("summary %d flagged: %s", i, batch.Summaries[i].Err)
		}
		if batch.Summaries[i].Categories[0].Pair.Status != staircase.PairOK {
			t.Errorf("summary %d lost its pair validation", i)
		}
	}
}

func TestRunBatchWorkerClamping(t *testing.T) {
	_ = muteEvents(t)

	var sources []SessionSource
	for i := 0; i < 5; i++ {
		id := fmt.Sprintf("s%d", i)
		sources = append(sources, SessionSource{
			ID:   id,
			Load: func() ([]trials.TrialRecord, error) { return fixtureRecords(), nil },
		})
	}

	for _, workers := range []int{0, 1, 64} {
		batch := NewBuilder(staircase.DefaultParams()).RunBatch(sources, workers)
		if len(batch.Summaries) != len(sources) {
			t.Fatalf("workers=%d: got %d summaries", workers, len(batch.Summaries))
		}
		for i, s := range batch.Summaries {
			if s.SessionID != sources[i].ID {
				t.Errorf("workers=%d: row %d out of order", workers, i)
			}
		}
	}
}

func TestIsSchemaError(t *testing.T) {
	err := fmt.Errorf("loading session: %w", &SchemaError{Field: "correct_selection"})
	if !IsSchemaError(err) {
		t.Error("wrapped SchemaError not detected")
	}
	if IsSchemaError(errors.New("plain")) {
		t.Error("plain error detected as SchemaError")
	}
}
