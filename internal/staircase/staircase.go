// Package staircase replays the adaptive coherence-adjustment rule used by
// the RDK task's calibration blocks and validates recorded session data
// against it. The replay is a deterministic reconstruction of the bookkeeping
// the task performed at runtime: given the same responses, the staircase must
// produce the same coherence on every trial, so any divergence marks
// corrupted or mislabeled data.
package staircase

import (
	"math"

	"github.com/Brain-Development-and-Disorders-Lab/task-vr-rdk/internal/trials"
)

// Params holds the named tuning values of the staircase and threshold rules.
type Params struct {
	// InitialEstimate is the coherence every calibration block starts at.
	InitialEstimate float64

	// Step is the coherence increment/decrement applied by the rule.
	Step float64

	// ClampLow and ClampHigh bound the median coherence before the
	// threshold pair is derived from it.
	ClampLow  float64
	ClampHigh float64

	// LowMultiplier and HighMultiplier derive the threshold pair from the
	// clamped median.
	LowMultiplier  float64
	HighMultiplier float64

	// EstimateDecimals is the rounding precision applied after each
	// staircase update and to the median. Matches the 0.01 step granularity
	// and keeps binary floating point from drifting into false mismatches.
	EstimateDecimals int

	// PairDecimals is the coarser precision used when comparing a recorded
	// pair label against the computed pair. Labels are formatted upstream
	// with fewer decimals than the internal computation.
	PairDecimals int

	// Epsilon is the tolerance for comparing recorded coherences against
	// the replayed estimate. The task uses exact decimal steps, so this only
	// absorbs binary float artifacts.
	Epsilon float64

	// MedianWindow restricts the threshold median to the most recent N
	// validated trials. Zero means the full sequence.
	MedianWindow int
}

// DefaultParams returns the production tuning of the task.
func DefaultParams() Params {
	return Params{
		InitialEstimate:  0.2,
		Step:             0.01,
		ClampLow:         0.12,
		ClampHigh:        0.5,
		LowMultiplier:    0.5,
		HighMultiplier:   2.0,
		EstimateDecimals: 4,
		PairDecimals:     2,
		Epsilon:          1e-9,
		MedianWindow:     0,
	}
}

// State is the mutable replay state threaded through one calibration group.
// Each step is a pure function of (state, next record).
type State struct {
	Estimate          float64
	HasPrevious       bool
	PreviousCorrect   bool
	PreviousCoherence float64
}

// NewState returns the state at the start of a calibration block.
func NewState(p Params) State {
	return State{Estimate: p.InitialEstimate}
}

// Advance applies the adjustment rule for one trial and returns the state
// entering the next trial:
//   - incorrect response: estimate rises by Step (easier stimulus)
//   - two consecutive correct responses at equal coherence: estimate drops
//     by Step
//   - otherwise unchanged
//
// The estimate is rounded to EstimateDecimals after every update.
func Advance(s State, coherence float64, correct bool, p Params) State {
	est := s.Estimate
	switch {
	case !correct:
		est += p.Step
	case s.HasPrevious && s.PreviousCorrect && withinEpsilon(coherence, s.PreviousCoherence, p.Epsilon):
		est -= p.Step
	}
	return State{
		Estimate:          roundTo(est, p.EstimateDecimals),
		HasPrevious:       true,
		PreviousCorrect:   correct,
		PreviousCoherence: coherence,
	}
}

// Outcome is the terminal state of a replay.
type Outcome int

const (
	Completed Outcome = iota
	Failed
)

func (o Outcome) String() string {
	if o == Completed {
		return "completed"
	}
	return "failed"
}

// ReplayResult captures the outcome of replaying one calibration group.
// Sequence holds the coherences validated before the first mismatch (all of
// them when the replay completed); it feeds the threshold aggregation.
type ReplayResult struct {
	Outcome       Outcome
	Sequence      []float64
	FinalEstimate float64

	// Populated when Outcome is Failed.
	FailIndex int
	Expected  float64
	Actual    float64
}

// Replay walks a calibration group in presentation order, validating each
// recorded coherence against the running estimate before applying the
// adjustment rule. The first mismatch stops the group: no further trials are
// validated or appended to the sequence.
func Replay(group trials.TrialGroup, p Params) ReplayResult {
	s := NewState(p)
	seq := make([]float64, 0, len(group))
	for i, rec := range group {
		if !withinEpsilon(rec.Coherence, s.Estimate, p.Epsilon) {
			return ReplayResult{
				Outcome:       Failed,
				Sequence:      seq,
				FinalEstimate: s.Estimate,
				FailIndex:     i,
				Expected:      s.Estimate,
				Actual:        rec.Coherence,
			}
		}
		seq = append(seq, rec.Coherence)
		s = Advance(s, rec.Coherence, rec.CorrectSelection, p)
	}
	return ReplayResult{Outcome: Completed, Sequence: seq, FinalEstimate: s.Estimate}
}

func withinEpsilon(a, b, eps float64) bool {
	return math.Abs(a-b) <= eps
}

func roundTo(v float64, decimals int) float64 {
	scale := math.Pow(10, float64(decimals))
	return math.Round(v*scale) / scale
}
