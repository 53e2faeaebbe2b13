/*
PURPOSE:
  Persists sweep history in a local sqlite database.
  One row per sweep, one row per run, so past experiments stay queryable
  after the console scrolls away.

REQUIREMENTS:
  User-specified:
  - `history` command must list past sweeps and per-seed outcomes.

  Implementation-discovered:
  - Pure-Go driver (modernc.org/sqlite) keeps the binary CGO-free.
  - Schema uses CREATE TABLE IF NOT EXISTS; the DB may outlive binary versions.

ARCHITECTURE INTEGRATION:
  - Called by: internal/engine (writes), internal/cli (reads)
  - Consumes: internal/model.Result

ERROR HANDLING:
  - All methods return explicit errors; callers decide whether a broken
    history DB should block the sweep (it should not).

IMPLEMENTATION RULES:
  - database/sql with the "sqlite" driver name.
  - Timestamps stored as RFC3339 TEXT.

USAGE:
  s, err := store.Open("sweep_history.db")
  id, err := s.BeginSweep(name, trainer, params, seeds)
  err = s.RecordRun(id, result)

SELF-HEALING INSTRUCTIONS:
  - Delete the DB file to reset history; it is regenerated on next run.

RELATED FILES:
  - internal/cli/history.go

MAINTENANCE:
  - Add ALTER TABLE migrations here when the schema grows columns.
*/

package store

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	_ "modernc.org/sqlite" // SQLite driver (pure Go)

	"github.com/ec-llm/sweep-runner/internal/model"
)

const schema = `
CREATE TABLE IF NOT EXISTS sweeps (
  id           INTEGER PRIMARY KEY AUTOINCREMENT,
  name         TEXT,
  trainer      TEXT,
  fixed_params TEXT,
  seeds        TEXT,
  status       TEXT,
  started_at   TEXT,
  finished_at  TEXT
);
CREATE TABLE IF NOT EXISTS runs (
  id          INTEGER PRIMARY KEY AUTOINCREMENT,
  sweep_id    INTEGER,
  seed        INTEGER,
  args        TEXT,
  status      TEXT,
  exit_code   INTEGER,
  attempts    INTEGER,
  started_at  TEXT,
  duration_ms INTEGER,
  log_path    TEXT,
  error       TEXT
);`

// Store wraps the sweep history database.
type Store struct {
	db *sql.DB
}

// Open opens (creating if necessary) the history database at path.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to init history schema: %w", err)
	}
	return &Store{db: db}, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

// BeginSweep records the start of a sweep and returns its row id.
func (s *Store) BeginSweep(name string, trainer []string, params []model.Param, seeds []int) (int64, error) {
	paramsJSON, err := json.Marshal(params)
	if err != nil {
		return 0, err
	}
	seedsJSON, err := json.Marshal(seeds)
	if err != nil {
		return 0, err
	}
	res, err := s.db.Exec(
		`INSERT INTO sweeps (name, trainer, fixed_params, seeds, status, started_at) VALUES (?, ?, ?, ?, ?, ?)`,
		name,
		strings.Join(trainer, " "),
		string(paramsJSON),
		string(seedsJSON),
		"running",
		time.Now().Format(time.RFC3339),
	)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

// RecordRun stores one run outcome under the given sweep.
func (s *Store) RecordRun(sweepID int64, r model.Result) error {
	_, err := s.db.Exec(
		`INSERT INTO runs (sweep_id, seed, args, status, exit_code, attempts, started_at, duration_ms, log_path, error)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		sweepID,
		r.Seed,
		strings.Join(r.Args, " "),
		string(r.Status),
		r.ExitCode,
		r.Attempts,
		r.Timestamp.Format(time.RFC3339),
		r.Duration.Milliseconds(),
		r.LogPath,
		r.Error,
	)
	return err
}

// FinishSweep marks a sweep row with its final status.
func (s *Store) FinishSweep(id int64, status string) error {
	_, err := s.db.Exec(
		`UPDATE sweeps SET status = ?, finished_at = ? WHERE id = ?`,
		status, time.Now().Format(time.RFC3339), id,
	)
	return err
}

// SweepRow is one sweep as read back from the history database.
type SweepRow struct {
	ID         int64
	Name       string
	Trainer    string
	Seeds      string
	Status     string
	StartedAt  string
	FinishedAt string
}

// RunRow is one run as read back from the history database.
type RunRow struct {
	ID         int64
	SweepID    int64
	Seed       int
	Status     string
	ExitCode   int
	Attempts   int
	StartedAt  string
	DurationMS int64
	LogPath    string
	Error      string
}

// ListSweeps returns the most recent sweeps, newest first.
func (s *Store) ListSweeps(limit int) ([]SweepRow, error) {
	rows, err := s.db.Query(
		`SELECT id, name, trainer, seeds, status, started_at, IFNULL(finished_at, '')
		 FROM sweeps ORDER BY id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []SweepRow
	for rows.Next() {
		var sw SweepRow
		if err := rows.Scan(&sw.ID, &sw.Name, &sw.Trainer, &sw.Seeds, &sw.Status, &sw.StartedAt, &sw.FinishedAt); err != nil {
			return nil, err
		}
		out = append(out, sw)
	}
	return out, rows.Err()
}

// ListRuns returns the runs of one sweep in execution order.
func (s *Store) ListRuns(sweepID int64) ([]RunRow, error) {
	rows, err := s.db.Query(
		`SELECT id, sweep_id, seed, status, exit_code, attempts, started_at, duration_ms, IFNULL(log_path, ''), IFNULL(error, '')
		 FROM runs WHERE sweep_id = ? ORDER BY id ASC`, sweepID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []RunRow
	for rows.Next() {
		var r RunRow
		if err := rows.Scan(&r.ID, &r.SweepID, &r.Seed, &r.Status, &r.ExitCode, &r.Attempts, &r.StartedAt, &r.DurationMS, &r.LogPath, &r.Error); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}
