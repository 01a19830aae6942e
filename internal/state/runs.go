package state

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/inksmith-ai/inksmith/pkg/models"
)

// InsertRun records the start of a generation run.
func (db *DB) InsertRun(rec *models.RunRecord) error {
	db.mu.Lock()
	defer db.mu.Unlock()

	_, err := db.conn.Exec(
		`INSERT INTO runs (id, topic, slug, status, word_count, iterations,
			tokens_in, tokens_out, cost, output_dir, error, started_at, finished_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.ID, rec.Topic, rec.Slug, string(rec.Status),
		rec.WordCount, rec.Iterations, rec.TokensIn, rec.TokensOut, rec.Cost,
		nullString(rec.OutputDir), nullString(rec.Error),
		rec.StartedAt.UTC(), nullTime(rec.FinishedAt))
	if err != nil {
		return fmt.Errorf("insert run %s: %w", rec.ID, err)
	}
	return nil
}

// UpdateRun rewrites the mutable fields of a run row.
func (db *DB) UpdateRun(rec *models.RunRecord) error {
	db.mu.Lock()
	defer db.mu.Unlock()

	res, err := db.conn.Exec(
		`UPDATE runs SET status = ?, word_count = ?, iterations = ?,
			tokens_in = ?, tokens_out = ?, cost = ?, output_dir = ?,
			error = ?, finished_at = ?
		 WHERE id = ?`,
		string(rec.Status), rec.WordCount, rec.Iterations,
		rec.TokensIn, rec.TokensOut, rec.Cost, nullString(rec.OutputDir),
		nullString(rec.Error), nullTime(rec.FinishedAt), rec.ID)
	if err != nil {
		return fmt.Errorf("update run %s: %w", rec.ID, err)
	}

	n, err := res.RowsAffected()
	if err == nil && n == 0 {
		return fmt.Errorf("update run %s: not found", rec.ID)
	}
	return nil
}

// GetRun returns one run by ID.
func (db *DB) GetRun(id string) (*models.RunRecord, error) {
	db.mu.RLock()
	defer db.mu.RUnlock()

	row := db.conn.QueryRow(
		`SELECT id, topic, slug, status, word_count, iterations,
			tokens_in, tokens_out, cost, output_dir, error, started_at, finished_at
		 FROM runs WHERE id = ?`, id)

	rec, err := scanRun(row)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("run %s: not found", id)
	}
	if err != nil {
		return nil, fmt.Errorf("get run %s: %w", id, err)
	}
	return rec, nil
}

// RecentRuns returns the newest runs, most recent first.
func (db *DB) RecentRuns(limit int) ([]*models.RunRecord, error) {
	db.mu.RLock()
	defer db.mu.RUnlock()

	if limit <= 0 {
		limit = 20
	}

	rows, err := db.conn.Query(
		`SELECT id, topic, slug, status, word_count, iterations,
			tokens_in, tokens_out, cost, output_dir, error, started_at, finished_at
		 FROM runs ORDER BY started_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query recent runs: %w", err)
	}
	defer rows.Close()

	var recs []*models.RunRecord
	for rows.Next() {
		rec, err := scanRun(rows)
		if err != nil {
			return nil, fmt.Errorf("scan run row: %w", err)
		}
		recs = append(recs, rec)
	}
	return recs, rows.Err()
}

// CountByStatus returns how many runs are recorded per status.
func (db *DB) CountByStatus() (map[models.RunStatus]int, error) {
	db.mu.RLock()
	defer db.mu.RUnlock()

	rows, err := db.conn.Query(`SELECT status, COUNT(*) FROM runs GROUP BY status`)
	if err != nil {
		return nil, fmt.Errorf("count runs: %w", err)
	}
	defer rows.Close()

	counts := make(map[models.RunStatus]int)
	for rows.Next() {
		var status string
		var n int
		if err := rows.Scan(&status, &n); err != nil {
			return nil, fmt.Errorf("scan status count: %w", err)
		}
		counts[models.RunStatus(status)] = n
	}
	return counts, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRun(row rowScanner) (*models.RunRecord, error) {
	var rec models.RunRecord
	var status string
	var outputDir, runErr sql.NullString
	var startedAt time.Time
	var finishedAt sql.NullTime

	if err := row.Scan(&rec.ID, &rec.Topic, &rec.Slug, &status,
		&rec.WordCount, &rec.Iterations, &rec.TokensIn, &rec.TokensOut,
		&rec.Cost, &outputDir, &runErr, &startedAt, &finishedAt); err != nil {
		return nil, err
	}

	rec.Status = models.RunStatus(status)
	rec.OutputDir = outputDir.String
	rec.Error = runErr.String
	rec.StartedAt = startedAt
	if finishedAt.Valid {
		t := finishedAt.Time
		rec.FinishedAt = &t
	}
	return &rec, nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func nullTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: t.UTC(), Valid: true}
}
