// Package trials models the raw trial records exported by the RDK VR task
// and partitions them into the groups the validation pipeline operates on.
package trials

import "fmt"

// Phase distinguishes adaptive calibration trials from fixed-coherence main trials.
type Phase int

const (
	PhaseTraining Phase = iota
	PhaseMain
)

func (p Phase) String() string {
	switch p {
	case PhaseTraining:
		return "training"
	case PhaseMain:
		return "main"
	}
	return fmt.Sprintf("Phase(%d)", int(p))
}

// Layout is the stimulus presentation layout.
type Layout int

const (
	Binocular Layout = iota
	Monocular
	Lateralized
)

func (l Layout) String() string {
	switch l {
	case Binocular:
		return "binocular"
	case Monocular:
		return "monocular"
	case Lateralized:
		return "lateralized"
	}
	return fmt.Sprintf("Layout(%d)", int(l))
}

// VisualField is the active visual field for monocular and lateralized
// layouts. Binocular trials carry FieldNone.
type VisualField string

const (
	FieldLeft  VisualField = "Left"
	FieldRight VisualField = "Right"
	FieldNone  VisualField = "None"
)

// TrialType is the block label recorded by the task for each trial.
type TrialType string

const (
	TrainingBinocular   TrialType = "Training_Trials_Binocular"
	TrainingMonocular   TrialType = "Training_Trials_Monocular"
	TrainingLateralized TrialType = "Training_Trials_Lateralized"
	MainBinocular       TrialType = "Main_Trials_Binocular"
	MainMonocular       TrialType = "Main_Trials_Monocular"
	MainLateralized     TrialType = "Main_Trials_Lateralized"
)

// ParseTrialType maps a raw trial_type cell to a TrialType. The task also
// emits instruction and setup blocks; those are not trial types and return
// ok=false.
func ParseTrialType(s string) (TrialType, bool) {
	switch TrialType(s) {
	case TrainingBinocular, TrainingMonocular, TrainingLateralized,
		MainBinocular, MainMonocular, MainLateralized:
		return TrialType(s), true
	}
	return "", false
}

// Phase returns the phase encoded in the trial type.
func (t TrialType) Phase() Phase {
	switch t {
	case MainBinocular, MainMonocular, MainLateralized:
		return PhaseMain
	}
	return PhaseTraining
}

// Layout returns the stimulus layout encoded in the trial type.
func (t TrialType) Layout() Layout {
	switch t {
	case TrainingMonocular, MainMonocular:
		return Monocular
	case TrainingLateralized, MainLateralized:
		return Lateralized
	}
	return Binocular
}

// TrialRecord is one row of raw session data. Training rows carry a scalar
// Coherence; main rows carry the pre-baked CoherencePair label ("low_high").
// Records are immutable once loaded.
type TrialRecord struct {
	TrialNumber      int
	TrialType        TrialType
	ActiveField      VisualField
	CorrectSelection bool
	Coherence        float64
	CoherencePair    string
}

// GroupKey identifies one leaf trial group.
type GroupKey struct {
	Phase  Phase
	Layout Layout
	Field  VisualField
}

func (k GroupKey) String() string {
	if k.Field == FieldNone {
		return fmt.Sprintf("%s_%s", k.Phase, k.Layout)
	}
	return fmt.Sprintf("%s_%s_%s", k.Phase, k.Layout, k.Field)
}

// TrialGroup is an ordered sequence of records sharing one GroupKey. Order is
// the temporal presentation order; the staircase rule depends on it.
type TrialGroup []TrialRecord

// Category is one of the five layout/field pairings a session is validated
// under. Code is the short column prefix used in summary output ("b", "m_l",
// "m_r", "l_l", "l_r"); Name is the human-readable label.
type Category struct {
	Layout Layout
	Field  VisualField
	Code   string
	Name   string
}

// Categories lists the five validation categories in canonical order.
var Categories = []Category{
	{Binocular, FieldNone, "b", "Binocular"},
	{Monocular, FieldLeft, "m_l", "Monocular, Left"},
	{Monocular, FieldRight, "m_r", "Monocular, Right"},
	{Lateralized, FieldLeft, "l_l", "Lateralized, Left"},
	{Lateralized, FieldRight, "l_r", "Lateralized, Right"},
}

// Key returns the leaf group key for this category in the given phase.
func (c Category) Key(phase Phase) GroupKey {
	return GroupKey{Phase: phase, Layout: c.Layout, Field: c.Field}
}
