// Package report turns session summaries into the merged batch output table
// and its presentation formats (CSV, charts).
package report

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/Brain-Development-and-Disorders-Lab/task-vr-rdk/internal/analysis"
	"github.com/Brain-Development-and-Disorders-Lab/task-vr-rdk/internal/staircase"
)

// Row is one ordered set of named cells. Column order is insertion order so
// the merged table keeps the layout of the first session that produced each
// column.
type Row struct {
	columns []string
	values  map[string]string
}

// NewRow returns an empty row.
func NewRow() *Row {
	return &Row{values: make(map[string]string)}
}

// Set adds or replaces a cell.
func (r *Row) Set(column, value string) {
	if _, ok := r.values[column]; !ok {
		r.columns = append(r.columns, column)
	}
	r.values[column] = value
}

// Get returns a cell value and whether the column is present.
func (r *Row) Get(column string) (string, bool) {
	v, ok := r.values[column]
	return v, ok
}

// Columns returns the row's columns in insertion order.
func (r *Row) Columns() []string {
	return r.columns
}

// SummaryRow flattens one session summary into report columns. Column names
// follow the task's historical output.csv layout (t_b_acc, t_b_c, ...,
// t_acc, m_acc) with status columns alongside each validated metric so the
// table distinguishes matched, mismatched, and not-computable outcomes.
func SummaryRow(s analysis.SessionSummary) *Row {
	row := NewRow()
	row.Set("id", s.SessionID)

	if s.Err != "" {
		row.Set("error", s.Err)
		return row
	}

	for _, res := range s.Categories {
		c := res.Category.Code
		row.Set(fmt.Sprintf("t_%s_acc", c), res.TrainingAccuracy.String())
		pair := ""
		if res.Threshold != nil {
			pair = staircase.FormatPair(*res.Threshold)
		}
		row.Set(fmt.Sprintf("t_%s_c", c), pair)
		row.Set(fmt.Sprintf("t_%s_replay", c), res.ReplayStatus())
		row.Set(fmt.Sprintf("m_%s_acc", c), res.MainAccuracy.String())
		row.Set(fmt.Sprintf("m_%s_c", c), res.Pair.Label)
		row.Set(fmt.Sprintf("m_%s_c_status", c), res.PairStatus())
	}

	row.Set("t_acc", s.TrainingAccuracy.String())
	row.Set("m_acc", s.MainAccuracy.String())
	return row
}

// Table is the merged batch output: one row per session, outer-joined on the
// union of all columns ever produced, missing cells blank.
type Table struct {
	Columns []string
	Cells   [][]string
}

// BuildTable outer-joins rows on their column union. Columns appear in
// first-seen order across rows; row order is preserved as given.
func BuildTable(rows []*Row) Table {
	var columns []string
	seen := make(map[string]bool)
	for _, row := range rows {
		for _, col := range row.Columns() {
			if !seen[col] {
				seen[col] = true
				columns = append(columns, col)
			}
		}
	}

	cells := make([][]string, len(rows))
	for i, row := range rows {
		line := make([]string, len(columns))
		for j, col := range columns {
			if v, ok := row.Get(col); ok {
				line[j] = v
			}
		}
		cells[i] = line
	}

	return Table{Columns: columns, Cells: cells}
}

// WriteCSV writes the table with a header line.
func (t Table) WriteCSV(w io.Writer) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(t.Columns); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}
	for _, line := range t.Cells {
		if err := cw.Write(line); err != nil {
			return fmt.Errorf("failed to write row: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}
