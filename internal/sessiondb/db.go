// Package sessiondb is the sqlite archive for loaded sessions and computed
// summary tables. Archiving is optional: the validation core never touches
// the database, but batch runs can persist their inputs and outputs here so
// reports can be regenerated without re-reading the raw exports.
package sessiondb

import (
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"

	"github.com/Brain-Development-and-Disorders-Lab/task-vr-rdk/internal/report"
	"github.com/Brain-Development-and-Disorders-Lab/task-vr-rdk/internal/trials"
)

type DB struct {
	*sql.DB
}

// Open opens (or creates) the archive at path. Run MigrateUp before first use.
func Open(path string) (*DB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open archive: %w", err)
	}
	return &DB{db}, nil
}

// SaveSession stores one session's trial records, replacing any prior copy.
func (db *DB) SaveSession(sessionID string, records []trials.TrialRecord) error {
	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM session_trials WHERE session_id = ?`, sessionID); err != nil {
		return fmt.Errorf("failed to clear prior trials: %w", err)
	}
	if _, err := tx.Exec(
		`INSERT INTO sessions (session_id) VALUES (?)
		 ON CONFLICT(session_id) DO UPDATE SET loaded_at = CURRENT_TIMESTAMP`,
		sessionID,
	); err != nil {
		return fmt.Errorf("failed to upsert session: %w", err)
	}

	stmt, err := tx.Prepare(
		`INSERT INTO session_trials (
			session_id, seq, trial_type, active_visual_field,
			correct_selection, coherence, coherence_pair
		) VALUES (?, ?, ?, ?, ?, ?, ?)`,
	)
	if err != nil {
		return fmt.Errorf("failed to prepare trial insert: %w", err)
	}
	defer stmt.Close()

	for i, rec := range records {
		correct := 0
		if rec.CorrectSelection {
			correct = 1
		}
		if _, err := stmt.Exec(
			sessionID, i, string(rec.TrialType), string(rec.ActiveField),
			correct, rec.Coherence, rec.CoherencePair,
		); err != nil {
			return fmt.Errorf("failed to insert trial %d: %w", i, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit session: %w", err)
	}
	return nil
}

// LoadSession reads one session's trial records back in presentation order.
func (db *DB) LoadSession(sessionID string) ([]trials.TrialRecord, error) {
	rows, err := db.Query(
		`SELECT seq, trial_type, active_visual_field, correct_selection, coherence, coherence_pair
		 FROM session_trials WHERE session_id = ? ORDER BY seq`,
		sessionID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query trials: %w", err)
	}
	defer rows.Close()

	var records []trials.TrialRecord
	for rows.Next() {
		var (
			seq       int
			trialType string
			field     string
			correct   int
			coherence float64
			pair      string
		)
		if err := rows.Scan(&seq, &trialType, &field, &correct, &coherence, &pair); err != nil {
			return nil, fmt.Errorf("failed to scan trial: %w", err)
		}
		tt, ok := trials.ParseTrialType(trialType)
		if !ok {
			return nil, fmt.Errorf("archive holds unknown trial type %q", trialType)
		}
		records = append(records, trials.TrialRecord{
			TrialNumber:      seq,
			TrialType:        tt,
			ActiveField:      trials.VisualField(field),
			CorrectSelection: correct != 0,
			Coherence:        coherence,
			CoherencePair:    pair,
		})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read trials: %w", err)
	}
	if records == nil {
		return nil, fmt.Errorf("no archived session %q", sessionID)
	}
	return records, nil
}

// SessionIDs lists archived sessions in load order.
func (db *DB) SessionIDs() ([]string, error) {
	rows, err := db.Query(`SELECT session_id FROM sessions ORDER BY loaded_at, session_id`)
	if err != nil {
		return nil, fmt.Errorf("failed to query sessions: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan session id: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// SaveSummaryRow stores one flattened summary row under a batch run ID.
func (db *DB) SaveSummaryRow(runID string, position int, row *report.Row) error {
	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(
		`INSERT INTO summary_cells (run_id, row_position, column_position, column_name, value)
		 VALUES (?, ?, ?, ?, ?)`,
	)
	if err != nil {
		return fmt.Errorf("failed to prepare summary insert: %w", err)
	}
	defer stmt.Close()

	for j, col := range row.Columns() {
		v, _ := row.Get(col)
		if _, err := stmt.Exec(runID, position, j, col, v); err != nil {
			return fmt.Errorf("failed to insert summary cell %s: %w", col, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit summary row: %w", err)
	}
	return nil
}

// SummaryRows reconstructs the summary rows of one batch run in row and
// column order, ready for report.BuildTable.
func (db *DB) SummaryRows(runID string) ([]*report.Row, error) {
	rows, err := db.Query(
		`SELECT row_position, column_name, value FROM summary_cells
		 WHERE run_id = ? ORDER BY row_position, column_position`,
		runID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query summary cells: %w", err)
	}
	defer rows.Close()

	var out []*report.Row
	lastPos := -1
	var current *report.Row
	for rows.Next() {
		var (
			pos   int
			col   string
			value string
		)
		if err := rows.Scan(&pos, &col, &value); err != nil {
			return nil, fmt.Errorf("failed to scan summary cell: %w", err)
		}
		if pos != lastPos {
			current = report.NewRow()
			out = append(out, current)
			lastPos = pos
		}
		current.Set(col, value)
	}
	return out, rows.Err()
}
