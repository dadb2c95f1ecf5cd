// Package sessionio adapts on-disk session exports (UXF trial_results CSV,
// raw JSON trial dumps) into the in-memory trial records the core operates
// on. It is a thin boundary layer: all validation logic lives elsewhere.
package sessionio

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/Brain-Development-and-Disorders-Lab/task-vr-rdk/internal/analysis"
	"github.com/Brain-Development-and-Disorders-Lab/task-vr-rdk/internal/trials"
)

// LoadTrialResults reads a trial_results.csv export into trial records.
// Rows whose trial_type is not one of the six trial blocks (instructions,
// setup, breaks) are skipped. A missing required column or an unparsable
// cell yields a SchemaError, which is fatal for this session only.
func LoadTrialResults(r io.Reader) ([]trials.TrialRecord, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err != nil {
		return nil, &analysis.SchemaError{Field: "header", Err: err}
	}
	cols := make(map[string]int, len(header))
	for i, name := range header {
		cols[strings.TrimSpace(name)] = i
	}
	for _, required := range []string{"trial_type", "correct_selection"} {
		if _, ok := cols[required]; !ok {
			return nil, &analysis.SchemaError{Field: required, Err: fmt.Errorf("column missing")}
		}
	}

	var records []trials.TrialRecord
	rowNum := 0
	for {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, &analysis.SchemaError{Field: "row", Err: err}
		}
		rowNum++

		trialType, ok := trials.ParseTrialType(cell(row, cols, "trial_type"))
		if !ok {
			continue
		}

		correct, err := parseBool(cell(row, cols, "correct_selection"))
		if err != nil {
			return nil, &analysis.SchemaError{Field: "correct_selection", Err: fmt.Errorf("row %d: %w", rowNum, err)}
		}

		rec := trials.TrialRecord{
			TrialNumber:      len(records),
			TrialType:        trialType,
			ActiveField:      parseField(cell(row, cols, "active_visual_field")),
			CorrectSelection: correct,
		}

		column := coherenceColumn(trialType, rec.ActiveField)
		idx, ok := cols[column]
		if !ok {
			return nil, &analysis.SchemaError{Field: column, Err: fmt.Errorf("column missing")}
		}
		if idx >= len(row) {
			return nil, &analysis.SchemaError{Field: column, Err: fmt.Errorf("row %d: %d cells, need %d", rowNum, len(row), idx+1)}
		}
		raw := strings.TrimSpace(row[idx])
		if trialType.Phase() == trials.PhaseTraining {
			coherence, err := strconv.ParseFloat(raw, 64)
			if err != nil {
				return nil, &analysis.SchemaError{Field: column, Err: fmt.Errorf("row %d: %w", rowNum, err)}
			}
			rec.Coherence = coherence
		} else {
			if raw == "" {
				return nil, &analysis.SchemaError{Field: column, Err: fmt.Errorf("row %d: empty pair label", rowNum)}
			}
			rec.CoherencePair = raw
		}

		records = append(records, rec)
	}
	return records, nil
}

// LoadFile loads a trial_results.csv from disk.
func LoadFile(path string) ([]trials.TrialRecord, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open session file: %w", err)
	}
	defer f.Close()
	return LoadTrialResults(f)
}

// coherenceColumn resolves the per-category coherence column for a trial.
// The export splits coherences across columns such as
// training_binocular_coherence and main_monocular_coherence_left.
func coherenceColumn(t trials.TrialType, f trials.VisualField) string {
	name := fmt.Sprintf("%s_%s_coherence", t.Phase(), t.Layout())
	switch f {
	case trials.FieldLeft:
		return name + "_left"
	case trials.FieldRight:
		return name + "_right"
	}
	return name
}

func cell(row []string, cols map[string]int, name string) string {
	idx, ok := cols[name]
	if !ok || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

func parseField(s string) trials.VisualField {
	switch s {
	case string(trials.FieldLeft):
		return trials.FieldLeft
	case string(trials.FieldRight):
		return trials.FieldRight
	}
	return trials.FieldNone
}

// parseBool accepts the export's Python-style booleans alongside the usual
// forms.
func parseBool(s string) (bool, error) {
	switch strings.ToLower(s) {
	case "true", "1":
		return true, nil
	case "false", "0":
		return false, nil
	}
	return false, fmt.Errorf("invalid boolean %q", s)
}
