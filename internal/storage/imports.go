package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/waseemisle/hey-spruceapp-sub000/internal/common"
	"github.com/waseemisle/hey-spruceapp-sub000/internal/model"
)

const runColumns = `
	r.id, r.source_file, COALESCE(r.sheet, ''), r.started_at, r.total,
	(SELECT COUNT(*) FROM import_results x WHERE x.run_id = r.id AND x.status IN ('matched', 'resolved')),
	(SELECT COUNT(*) FROM import_results x WHERE x.run_id = r.id AND x.status = 'unmatched')`

const resultColumns = `
	ir.row_number, ir.search_name, COALESCE(ir.fields, ''), ir.location_id, COALESCE(l.name, ''),
	ir.score, ir.method, COALESCE(ir.rule, ''), ir.status`

// SaveImportRun persists a report and all of its row results atomically.
// On success report.RunID is set to the new run id.
func (s *SQLiteStorage) SaveImportRun(ctx context.Context, report *model.ImportReport) (runID int64, err error) {
	if err = validateContext(ctx); err != nil {
		return 0, err
	}
	if err = validateReport(report); err != nil {
		return 0, err
	}

	startedAt := report.StartedAt
	if startedAt.IsZero() {
		startedAt = time.Now()
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	res, err := tx.ExecContext(ctx, `
		INSERT INTO import_runs (source_file, sheet, started_at, total)
		VALUES (?, ?, ?, ?)
	`, report.SourceFile, nullString(report.Sheet), startedAt, len(report.Results))
	if err != nil {
		return 0, fmt.Errorf("failed to save import run: %w", err)
	}
	runID, err = res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get import run id: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO import_results
			(run_id, row_number, search_name, fields, location_id, score, method, rule, status)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return 0, fmt.Errorf("failed to prepare result insert: %w", err)
	}
	defer func() { _ = stmt.Close() }()

	for _, r := range report.Results {
		fields, marshalErr := encodeFields(r.Row.Fields)
		if marshalErr != nil {
			err = marshalErr
			return 0, err
		}
		if _, err = stmt.ExecContext(ctx,
			runID, r.Row.Number, r.Row.LocationName, fields, nullString(r.LocationID),
			r.Score, string(r.Method), nullString(r.Rule), string(r.Status),
		); err != nil {
			return 0, fmt.Errorf("failed to save row %d: %w", r.Row.Number, err)
		}
	}

	if err = tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit import run: %w", err)
	}

	report.RunID = runID
	return runID, nil
}

// GetImportRuns lists runs newest first. A non-positive limit returns all runs.
func (s *SQLiteStorage) GetImportRuns(ctx context.Context, limit int) ([]model.ImportRun, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = -1
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT `+runColumns+`
		FROM import_runs r
		ORDER BY r.started_at DESC, r.id DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query import runs: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var runs []model.ImportRun
	for rows.Next() {
		run, scanErr := scanRun(rows)
		if scanErr != nil {
			return nil, scanErr
		}
		runs = append(runs, *run)
	}
	return runs, rows.Err()
}

// GetImportRun returns the header of a single run.
func (s *SQLiteStorage) GetImportRun(ctx context.Context, id int64) (*model.ImportRun, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	row := s.db.QueryRowContext(ctx, `SELECT `+runColumns+` FROM import_runs r WHERE r.id = ?`, id)
	run, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("import run %d: %w", id, common.ErrNotFound)
	}
	return run, err
}

// GetImportResults returns every row of a run ordered by row number.
func (s *SQLiteStorage) GetImportResults(ctx context.Context, runID int64) ([]model.RowResult, error) {
	return s.queryResults(ctx, runID, false)
}

// GetUnmatchedResults returns the rows of a run still waiting for a decision.
func (s *SQLiteStorage) GetUnmatchedResults(ctx context.Context, runID int64) ([]model.RowResult, error) {
	return s.queryResults(ctx, runID, true)
}

func (s *SQLiteStorage) queryResults(ctx context.Context, runID int64, openOnly bool) ([]model.RowResult, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	query := `
		SELECT ` + resultColumns + `
		FROM import_results ir
		LEFT JOIN locations l ON l.id = ir.location_id
		WHERE ir.run_id = ?`
	args := []any{runID}
	if openOnly {
		query += ` AND ir.status = ?`
		args = append(args, string(model.RowUnmatched))
	}
	query += ` ORDER BY ir.row_number`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query import results: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var results []model.RowResult
	for rows.Next() {
		var (
			r          model.RowResult
			fields     string
			locationID sql.NullString
			method     string
			status     string
		)
		if err := rows.Scan(&r.Row.Number, &r.Row.LocationName, &fields, &locationID, &r.LocationName,
			&r.Score, &method, &r.Rule, &status); err != nil {
			return nil, fmt.Errorf("failed to scan import result: %w", err)
		}
		r.LocationID = locationID.String
		r.Method = model.MatchMethod(method)
		r.Status = model.RowStatus(status)
		if r.Row.Fields, err = decodeFields(fields); err != nil {
			return nil, fmt.Errorf("row %d: %w", r.Row.Number, err)
		}
		results = append(results, r)
	}
	return results, rows.Err()
}

// ResolveResult records an operator decision for one row.
// An empty locationID marks the row skipped.
func (s *SQLiteStorage) ResolveResult(ctx context.Context, runID int64, rowNumber int, locationID string, method model.MatchMethod) error {
	if err := validateContext(ctx); err != nil {
		return err
	}

	status := model.RowResolved
	if locationID == "" {
		status = model.RowSkipped
		method = model.MethodNone
	} else if _, err := s.GetLocation(ctx, locationID); err != nil {
		return err
	}

	result, err := s.db.ExecContext(ctx, `
		UPDATE import_results
		SET location_id = ?, method = ?, status = ?, rule = NULL, updated_at = ?
		WHERE run_id = ? AND row_number = ?
	`, nullString(locationID), string(method), string(status), time.Now(), runID, rowNumber)
	if err != nil {
		return fmt.Errorf("failed to resolve row %d: %w", rowNumber, err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check rows affected: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("run %d row %d: %w", runID, rowNumber, common.ErrNotFound)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRun(row rowScanner) (*model.ImportRun, error) {
	var run model.ImportRun
	err := row.Scan(&run.ID, &run.SourceFile, &run.Sheet, &run.StartedAt, &run.Total, &run.Matched, &run.Unmatched)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan import run: %w", err)
	}
	return &run, nil
}

func encodeFields(fields map[string]string) (any, error) {
	if len(fields) == 0 {
		return nil, nil
	}
	data, err := json.Marshal(fields)
	if err != nil {
		return nil, fmt.Errorf("failed to encode row fields: %w", err)
	}
	return string(data), nil
}

func decodeFields(data string) (map[string]string, error) {
	if data == "" {
		return nil, nil
	}
	var fields map[string]string
	if err := json.Unmarshal([]byte(data), &fields); err != nil {
		return nil, fmt.Errorf("failed to decode row fields: %w", err)
	}
	return fields, nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
