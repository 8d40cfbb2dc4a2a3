// Package store persists spec run history in SQLite.
package store

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/mdspec/mdspec/runner"
)

// DefaultPath is where the CLI keeps its run history.
const DefaultPath = ".mdspec/history.db"

// timeFormat keeps fractional seconds fixed-width so run timestamps sort
// correctly as text.
const timeFormat = "2006-01-02T15:04:05.000000000Z07:00"

// Store records document run outcomes.
type Store struct {
	db *sql.DB
}

// Open opens (creating if needed) the history database at path and applies
// pending migrations.
func Open(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating %s: %w", dir, err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	if err := Migrate(db); err != nil {
		db.Close()
		return nil, err
	}
	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// RecordRun stores the outcome of one run over a set of documents and
// returns the run id.
func (s *Store) RecordRun(mode string, results []*runner.Result) (string, error) {
	runID := uuid.New().String()

	tx, err := s.db.Begin()
	if err != nil {
		return "", fmt.Errorf("beginning run transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(
		`INSERT INTO runs (id, mode, started_at) VALUES (?, ?, ?)`,
		runID, mode, time.Now().UTC().Format(timeFormat),
	); err != nil {
		return "", fmt.Errorf("inserting run: %w", err)
	}

	for _, res := range results {
		docID, err := ensureDocument(tx, res.Path)
		if err != nil {
			return "", err
		}
		for _, ex := range res.Examples {
			message := ""
			if ex.Err != nil {
				message = ex.Err.Error()
			}
			if _, err := tx.Exec(
				`INSERT INTO results (run_id, document_id, example, status, message) VALUES (?, ?, ?, ?, ?)`,
				runID, docID, ex.Title, ex.Status.String(), message,
			); err != nil {
				return "", fmt.Errorf("inserting result for %s: %w", res.Path, err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("committing run: %w", err)
	}
	return runID, nil
}

func ensureDocument(tx *sql.Tx, path string) (int64, error) {
	var id int64
	err := tx.QueryRow(`SELECT id FROM documents WHERE path = ?`, path).Scan(&id)
	if err == sql.ErrNoRows {
		res, err := tx.Exec(`INSERT INTO documents (path) VALUES (?)`, path)
		if err != nil {
			return 0, fmt.Errorf("inserting document %s: %w", path, err)
		}
		return res.LastInsertId()
	}
	if err != nil {
		return 0, fmt.Errorf("querying document %s: %w", path, err)
	}
	return id, nil
}

// DocumentStatus summarizes a document's outcome in its most recent run.
type DocumentStatus struct {
	Path    string
	Mode    string
	RunAt   string
	Passed  int
	Failed  int
	Skipped int
}

// Latest returns each tracked document's outcome in its most recent run,
// ordered by path.
func (s *Store) Latest() ([]DocumentStatus, error) {
	rows, err := s.db.Query(`
		SELECT d.path, r.mode, r.started_at,
			SUM(CASE WHEN res.status = 'passed' THEN 1 ELSE 0 END),
			SUM(CASE WHEN res.status = 'failed' THEN 1 ELSE 0 END),
			SUM(CASE WHEN res.status = 'skipped' THEN 1 ELSE 0 END)
		FROM documents d
		JOIN results res ON res.document_id = d.id
		JOIN runs r ON r.id = res.run_id
		WHERE r.started_at = (
			SELECT MAX(r2.started_at)
			FROM runs r2
			JOIN results res2 ON res2.run_id = r2.id
			WHERE res2.document_id = d.id
		)
		GROUP BY d.path, r.mode, r.started_at
		ORDER BY d.path
	`)
	if err != nil {
		return nil, fmt.Errorf("querying latest results: %w", err)
	}
	defer rows.Close()

	var out []DocumentStatus
	for rows.Next() {
		var ds DocumentStatus
		if err := rows.Scan(&ds.Path, &ds.Mode, &ds.RunAt, &ds.Passed, &ds.Failed, &ds.Skipped); err != nil {
			return nil, fmt.Errorf("scanning status row: %w", err)
		}
		out = append(out, ds)
	}
	return out, rows.Err()
}
