// Package analysis reduces one session's validated trial groups into a
// summary record and merges many sessions into a batch report. It orchestrates
// the classifier, the staircase replayer, the threshold aggregation, and the
// main-pair validation, converting every failure into an explicit flag on the
// summary instead of aborting the run.
package analysis

import (
	"fmt"
	"sync"

	"github.com/Brain-Development-and-Disorders-Lab/task-vr-rdk/internal/monitoring"
	"github.com/Brain-Development-and-Disorders-Lab/task-vr-rdk/internal/staircase"
	"github.com/Brain-Development-and-Disorders-Lab/task-vr-rdk/internal/trials"
)

// CategoryResult holds every metric computed for one validation category:
// the calibration replay, the derived threshold pair, the main-pair check,
// and accuracies for both phases.
type CategoryResult struct {
	Category      trials.Category
	TrainingCount int
	MainCount     int

	Replay    staircase.ReplayResult
	Threshold *staircase.ThresholdPair
	Pair      staircase.PairValidation

	TrainingAccuracy Accuracy
	MainAccuracy     Accuracy
}

// ReplayStatus renders the calibration replay outcome for report output.
func (r CategoryResult) ReplayStatus() string {
	if r.TrainingCount == 0 {
		return "empty"
	}
	if r.Replay.Outcome == staircase.Failed {
		return fmt.Sprintf("mismatch[%d] expected=%g actual=%g", r.Replay.FailIndex, r.Replay.Expected, r.Replay.Actual)
	}
	return "ok"
}

// PairStatus renders the main-pair check outcome for report output.
func (r CategoryResult) PairStatus() string {
	if r.Pair.Status == staircase.PairMismatch || r.Pair.Status == staircase.PairInconsistentLabel || r.Pair.Status == staircase.PairBadLabel {
		return fmt.Sprintf("%s %s", r.Pair.Status, r.Pair.Detail)
	}
	return string(r.Pair.Status)
}

// SessionSummary is the compact per-session record produced by the builder.
// Categories holds one result per entry of trials.Categories, in the same
// order. Err is non-empty when the session failed to load or parse; the
// summary still occupies its row in batch output.
type SessionSummary struct {
	SessionID  string
	Categories []CategoryResult

	TrainingAccuracy Accuracy
	MainAccuracy     Accuracy

	Err string
}

// Builder runs the per-session validation pipeline with one set of staircase
// parameters.
type Builder struct {
	Params staircase.Params
}

// NewBuilder returns a Builder with the given staircase tuning.
func NewBuilder(p staircase.Params) Builder {
	return Builder{Params: p}
}

// Build validates one session and assembles its summary. The five category
// validations are independent (no shared staircase state) and run
// concurrently; only the final assembly waits on all of them. A failure in
// one category flags its own metrics and never aborts the others.
func (b Builder) Build(sessionID string, records []trials.TrialRecord) SessionSummary {
	groups := trials.Classify(records)

	summary := SessionSummary{
		SessionID:  sessionID,
		Categories: make([]CategoryResult, len(trials.Categories)),
	}

	var wg sync.WaitGroup
	for i, cat := range trials.Categories {
		wg.Add(1)
		go func(i int, cat trials.Category) {
			defer wg.Done()
			summary.Categories[i] = b.buildCategory(sessionID, cat, groups)
		}(i, cat)
	}
	wg.Wait()

	summary.TrainingAccuracy = GroupAccuracy(trials.PhaseUnion(records, trials.PhaseTraining))
	summary.MainAccuracy = GroupAccuracy(trials.PhaseUnion(records, trials.PhaseMain))
	return summary
}

// SchemaFailure builds the flagged summary for a session that could not be
// loaded. Its row stays in the batch table with every metric blank.
func SchemaFailure(sessionID string, err error) SessionSummary {
	return SessionSummary{SessionID: sessionID, Err: err.Error()}
}

func (b Builder) buildCategory(sessionID string, cat trials.Category, groups map[trials.GroupKey]trials.TrialGroup) CategoryResult {
	training := groups[cat.Key(trials.PhaseTraining)]
	main := groups[cat.Key(trials.PhaseMain)]

	res := CategoryResult{
		Category:      cat,
		TrainingCount: len(training),
		MainCount:     len(main),
	}

	res.Replay = staircase.Replay(training, b.Params)
	switch {
	case len(training) == 0:
		monitoring.Emit(monitoring.Event{
			Session: sessionID, Category: cat.Code, Check: "staircase",
			Status: "skipped", Index: -1, Detail: "no calibration trials",
		})
	case res.Replay.Outcome == staircase.Failed:
		monitoring.Emit(monitoring.Event{
			Session: sessionID, Category: cat.Code, Check: "staircase",
			Status: "invalid", Index: res.Replay.FailIndex,
			Detail: fmt.Sprintf("expected %g, recorded %g", res.Replay.Expected, res.Replay.Actual),
		})
	default:
		monitoring.Emit(monitoring.Event{
			Session: sessionID, Category: cat.Code, Check: "staircase",
			Status: "valid", Index: -1,
			Detail: fmt.Sprintf("%d trials, final estimate %g", len(res.Replay.Sequence), res.Replay.FinalEstimate),
		})
	}

	// A failed replay yields no threshold pair; the main-pair check then
	// reports no_reference rather than inventing one.
	if res.Replay.Outcome == staircase.Completed {
		if pair, err := staircase.Aggregate(res.Replay.Sequence, b.Params); err == nil {
			res.Threshold = &pair
		}
	}

	res.Pair = staircase.ValidatePair(main, res.Threshold, b.Params)
	status := "valid"
	switch res.Pair.Status {
	case staircase.PairMismatch, staircase.PairInconsistentLabel, staircase.PairBadLabel:
		status = "invalid"
	case staircase.PairNoReference, staircase.PairEmpty:
		status = "skipped"
	}
	monitoring.Emit(monitoring.Event{
		Session: sessionID, Category: cat.Code, Check: "pair",
		Status: status, Index: -1,
		Detail: fmt.Sprintf("%s %s", res.Pair.Status, res.Pair.Detail),
	})

	res.TrainingAccuracy = GroupAccuracy(training)
	res.MainAccuracy = GroupAccuracy(main)
	return res
}
