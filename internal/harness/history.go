// seehuhn.de/go/rendertest - render, stream and compare raster images
// Copyright (C) 2026  Jochen Voss <voss@seehuhn.de>
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with this program.  If not, see <https://www.gnu.org/licenses/>.

package harness

import (
	"context"
	"database/sql"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"time"

	_ "modernc.org/sqlite"
)

// History persists run reports in a SQLite database.
type History struct {
	db   *sql.DB
	path string
	mu   sync.Mutex
}

// Run summarises one stored report.
type Run struct {
	ID       int64
	Started  time.Time
	Duration time.Duration
	Passed   int
	Failed   int
	Missing  int
	Updated  int
	Errors   int
	Bytes    int64
}

// OpenHistory opens or creates the database at path.
func OpenHistory(path string) (*History, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	h := &History{db: db, path: path}
	if err := h.init(); err != nil {
		db.Close()
		return nil, err
	}
	return h, nil
}

func (h *History) init() error {
	_, err := h.db.Exec(`CREATE TABLE IF NOT EXISTS runs (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		started TEXT,
		duration_ms INTEGER,
		passed INTEGER,
		failed INTEGER,
		missing INTEGER,
		updated INTEGER,
		errors INTEGER,
		bytes INTEGER
	);`)
	if err != nil {
		return err
	}
	_, err = h.db.Exec(`CREATE TABLE IF NOT EXISTS results (
		run_id INTEGER REFERENCES runs(id) ON DELETE CASCADE,
		name TEXT,
		status TEXT,
		mismatched INTEGER,
		bytes INTEGER,
		duration_ms INTEGER,
		error TEXT
	);`)
	return err
}

// Path returns the database file name.
func (h *History) Path() string {
	return h.path
}

// Close closes the database.
func (h *History) Close() error {
	return h.db.Close()
}

// Save stores rep and returns the new run ID.
func (h *History) Save(ctx context.Context, rep *Report) (id int64, err error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	tx, err := h.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	row, err := tx.ExecContext(ctx, `INSERT INTO runs
		(started, duration_ms, passed, failed, missing, updated, errors, bytes)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		rep.Started.UTC().Format(time.RFC3339Nano),
		rep.Duration.Milliseconds(),
		rep.Passed, rep.Failed, rep.Missing, rep.Updated, rep.Errors,
		rep.Bytes,
	)
	if err != nil {
		return 0, err
	}
	id, err = row.LastInsertId()
	if err != nil {
		return 0, err
	}

	stmt, err := tx.PrepareContext(ctx, `INSERT INTO results
		(run_id, name, status, mismatched, bytes, duration_ms, error)
		VALUES (?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return 0, err
	}
	defer stmt.Close()
	for _, res := range rep.Results {
		msg := ""
		if res.Err != nil {
			msg = res.Err.Error()
		}
		_, err = stmt.ExecContext(ctx, id, res.Name, res.Status.String(),
			res.Mismatched, res.Bytes, res.Duration.Milliseconds(), msg)
		if err != nil {
			return 0, err
		}
	}
	return id, tx.Commit()
}

// Runs returns the most recent runs, newest first.  A limit of zero or
// less returns all runs.
func (h *History) Runs(ctx context.Context, limit int) ([]Run, error) {
	query := `SELECT id, started, duration_ms, passed, failed, missing, updated, errors, bytes
		FROM runs ORDER BY id DESC`
	var args []any
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}
	rows, err := h.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var run Run
		var started string
		var ms int64
		err := rows.Scan(&run.ID, &started, &ms,
			&run.Passed, &run.Failed, &run.Missing, &run.Updated, &run.Errors,
			&run.Bytes)
		if err != nil {
			return nil, err
		}
		if t, err := time.Parse(time.RFC3339Nano, started); err == nil {
			run.Started = t
		}
		run.Duration = time.Duration(ms) * time.Millisecond
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

// Results returns the per-case results of a stored run, sorted by name.
func (h *History) Results(ctx context.Context, runID int64) ([]Result, error) {
	rows, err := h.db.QueryContext(ctx, `SELECT name, status, mismatched, bytes, duration_ms, error
		FROM results WHERE run_id = ? ORDER BY name`, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []Result
	for rows.Next() {
		var res Result
		var status, msg string
		var ms int64
		if err := rows.Scan(&res.Name, &status, &res.Mismatched, &res.Bytes, &ms, &msg); err != nil {
			return nil, err
		}
		res.Status, _ = ParseStatus(status)
		res.Duration = time.Duration(ms) * time.Millisecond
		if msg != "" {
			res.Err = errors.New(msg)
		}
		results = append(results, res)
	}
	return results, rows.Err()
}
