package trials

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func rec(t TrialType, f VisualField, n int) TrialRecord {
	return TrialRecord{TrialNumber: n, TrialType: t, ActiveField: f}
}

func TestClassify(t *testing.T) {
	t.Run("partitions by phase, layout and field", func(t *testing.T) {
		records := []TrialRecord{
			rec(TrainingBinocular, FieldNone, 0),
			rec(TrainingMonocular, FieldLeft, 1),
			rec(TrainingMonocular, FieldRight, 2),
			rec(MainBinocular, FieldNone, 3),
			rec(TrainingMonocular, FieldLeft, 4),
			rec(MainLateralized, FieldRight, 5),
		}

		groups := Classify(records)

		left := groups[GroupKey{PhaseTraining, Monocular, FieldLeft}]
		if len(left) != 2 {
			t.Fatalf("expected 2 monocular-left training trials, got %d", len(left))
		}
		if left[0].TrialNumber != 1 || left[1].TrialNumber != 4 {
			t.Errorf("group order not preserved: %v, %v", left[0].TrialNumber, left[1].TrialNumber)
		}

		if got := len(groups[GroupKey{PhaseMain, Lateralized, FieldRight}]); got != 1 {
			t.Errorf("expected 1 lateralized-right main trial, got %d", got)
		}

		total := 0
		for _, g := range groups {
			total += len(g)
		}
		if total != len(records) {
			t.Errorf("partition not exhaustive: %d records in groups, %d in", total, len(records))
		}
	})

	t.Run("binocular trials ignore a recorded field", func(t *testing.T) {
		records := []TrialRecord{
			{TrialType: TrainingBinocular, ActiveField: FieldLeft},
		}
		groups := Classify(records)
		if len(groups[GroupKey{PhaseTraining, Binocular, FieldNone}]) != 1 {
			t.Error("binocular trial not keyed on FieldNone")
		}
	})

	t.Run("phase unions keep original order", func(t *testing.T) {
		records := []TrialRecord{
			rec(TrainingBinocular, FieldNone, 0),
			rec(MainBinocular, FieldNone, 1),
			rec(TrainingMonocular, FieldLeft, 2),
			rec(MainMonocular, FieldLeft, 3),
		}

		training := PhaseUnion(records, PhaseTraining)
		want := TrialGroup{records[0], records[2]}
		if diff := cmp.Diff(want, training); diff != "" {
			t.Errorf("training union mismatch (-want +got):\n%s", diff)
		}

		main := PhaseUnion(records, PhaseMain)
		if len(main) != 2 || main[0].TrialNumber != 1 || main[1].TrialNumber != 3 {
			t.Errorf("main union wrong: %+v", main)
		}
	})
}

func TestParseTrialType(t *testing.T) {
	for _, valid := range []string{
		"Training_Trials_Binocular", "Training_Trials_Monocular", "Training_Trials_Lateralized",
		"Main_Trials_Binocular", "Main_Trials_Monocular", "Main_Trials_Lateralized",
	} {
		if _, ok := ParseTrialType(valid); !ok {
			t.Errorf("ParseTrialType(%q) rejected a trial block", valid)
		}
	}
	for _, invalid := range []string{"", "Instructions", "Training_Trials", "main_trials_binocular"} {
		if _, ok := ParseTrialType(invalid); ok {
			t.Errorf("ParseTrialType(%q) accepted a non-trial block", invalid)
		}
	}
}

func TestTrialTypePhaseLayout(t *testing.T) {
	cases := []struct {
		tt     TrialType
		phase  Phase
		layout Layout
	}{
		{TrainingBinocular, PhaseTraining, Binocular},
		{TrainingMonocular, PhaseTraining, Monocular},
		{TrainingLateralized, PhaseTraining, Lateralized},
		{MainBinocular, PhaseMain, Binocular},
		{MainMonocular, PhaseMain, Monocular},
		{MainLateralized, PhaseMain, Lateralized},
	}
	for _, c := range cases {
		if c.tt.Phase() != c.phase {
			t.Errorf("%s: phase = %v, want %v", c.tt, c.tt.Phase(), c.phase)
		}
		if c.tt.Layout() != c.layout {
			t.Errorf("%s: layout = %v, want %v", c.tt, c.tt.Layout(), c.layout)
		}
	}
}
