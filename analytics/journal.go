/*******************************************************************************
 * Copyright (c) 2026 Genome Research Ltd.
 *
 * Permission is hereby granted, free of charge, to any person obtaining
 * a copy of this software and associated documentation files (the
 * "Software"), to deal in the Software without restriction, including
 * without limitation the rights to use, copy, modify, merge, publish,
 * distribute, sublicense, and/or sell copies of the Software, and to
 * permit persons to whom the Software is furnished to do so, subject to
 * the following conditions:
 *
 * The above copyright notice and this permission notice shall be included
 * in all copies or substantial portions of the Software.
 *
 * THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND,
 * EXPRESS OR IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF
 * MERCHANTABILITY, FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT.
 * IN NO EVENT SHALL THE AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY
 * CLAIM, DAMAGES OR OTHER LIABILITY, WHETHER IN AN ACTION OF CONTRACT,
 * TORT OR OTHERWISE, ARISING FROM, OUT OF OR IN CONNECTION WITH THE
 * SOFTWARE OR THE USE OR OTHER DEALINGS IN THE SOFTWARE.
 ******************************************************************************/

// Package analytics keeps a sqlite journal of sync events: every fetch a
// resource starts, and whether it succeeded, failed or was discarded.
package analytics

import (
	"database/sql"
	"math"
	"time"

	"github.com/dentflow/clinicsync/synced"
	"github.com/google/uuid"
	"github.com/hashicorp/go-multierror"
	"github.com/inconshreveable/log15"
	_ "github.com/mattn/go-sqlite3" //nolint:revive
)

// Error is our custom error type.
type Error string

func (e Error) Error() string { return string(e) }

const ErrInvalidRange = Error("invalid date range")

// Journal is a synced.Recorder that writes events to a sqlite database. Each
// Journal gets its own run id, so events from separate invocations can be told
// apart.
type Journal struct {
	db     *sql.DB
	run    string
	logger log15.Logger

	insertStmt  *sql.Stmt
	summaryStmt *sql.Stmt
	recentStmt  *sql.Stmt
}

// Open opens (creating if necessary) the journal database at the given path.
// Failures to record events are logged to the given logger.
func Open(dbPath string, logger log15.Logger) (*Journal, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, err
	}

	db.SetMaxOpenConns(1)

	for _, table := range [...]string{
		`CREATE TABLE IF NOT EXISTS [events] (run TEXT, resource TEXT, kind TEXT, items INTEGER, error TEXT, time INTEGER)`,
		`CREATE INDEX IF NOT EXISTS runID ON [events] (run)`,
		`CREATE INDEX IF NOT EXISTS eventTime ON [events] (time)`,
	} {
		if _, err = db.Exec(table); err != nil {
			return nil, multierror.Append(err, db.Close())
		}
	}

	j := &Journal{db: db, run: uuid.NewString(), logger: logger}

	for stmt, query := range map[**sql.Stmt]string{
		&j.insertStmt: "INSERT INTO [events] (run, resource, kind, items, error, time) VALUES (?, ?, ?, ?, ?, ?);",
		&j.summaryStmt: "SELECT [run], [resource], [kind], [items], [error], [time] FROM [events] " +
			"WHERE [time] BETWEEN ? AND ? ORDER BY [time];",
		&j.recentStmt: "SELECT [run], [resource], [kind], [items], [error], [time] FROM [events] " +
			"ORDER BY [time] DESC, rowid DESC LIMIT ?;",
	} {
		if *stmt, err = db.Prepare(query); err != nil {
			return nil, multierror.Append(err, db.Close())
		}
	}

	return j, nil
}

// Run returns this Journal's run id.
func (j *Journal) Run() string {
	return j.run
}

// Record implements synced.Recorder.
func (j *Journal) Record(ev synced.Event) {
	var errStr string

	if ev.Err != nil {
		errStr = ev.Err.Error()
	}

	if _, err := j.insertStmt.Exec(j.run, ev.Resource, string(ev.Kind), ev.Items,
		errStr, ev.Time.UnixMilli()); err != nil {
		j.logger.Warn("failed to journal sync event", "resource", ev.Resource, "err", err)
	}
}

// Entry is one recorded event.
type Entry struct {
	Run      string
	Resource string
	Kind     synced.EventKind
	Items    int
	Error    string
	Time     time.Time
}

// ResourceStats summarises the events of one resource.
type ResourceStats struct {
	Fetches     uint64
	Successes   uint64
	Failures    uint64
	Discards    uint64
	Resets      uint64
	LastSuccess time.Time
	LastItems   int
	LastError   string
}

// Summary summarises the events in a time range.
type Summary struct {
	Runs      map[string]uint
	Resources map[string]*ResourceStats
}

func newSummary() *Summary {
	return &Summary{
		Runs:      make(map[string]uint),
		Resources: make(map[string]*ResourceStats),
	}
}

func (s *Summary) add(e Entry) {
	s.Runs[e.Run]++

	rs, ok := s.Resources[e.Resource]
	if !ok {
		rs = &ResourceStats{}
		s.Resources[e.Resource] = rs
	}

	switch e.Kind {
	case synced.EventFetch:
		rs.Fetches++
	case synced.EventSuccess:
		rs.Successes++
		rs.LastSuccess = e.Time
		rs.LastItems = e.Items
	case synced.EventFailure:
		rs.Failures++
		rs.LastError = e.Error
	case synced.EventDiscard:
		rs.Discards++
	case synced.EventReset:
		rs.Resets++
	}
}

// Summary summarises the events recorded between start and end, inclusive. A
// zero end means no upper limit.
func (j *Journal) Summary(start, end time.Time) (*Summary, error) {
	endMilli := int64(math.MaxInt64)
	if !end.IsZero() {
		endMilli = end.UnixMilli()
	}

	if start.UnixMilli() > endMilli {
		return nil, ErrInvalidRange
	}

	entries, err := j.query(j.summaryStmt, start.UnixMilli(), endMilli)
	if err != nil {
		return nil, err
	}

	s := newSummary()

	for _, e := range entries {
		s.add(e)
	}

	return s, nil
}

// Recent returns up to limit of the most recently recorded events, newest
// first.
func (j *Journal) Recent(limit int) ([]Entry, error) {
	return j.query(j.recentStmt, limit)
}

func (j *Journal) query(stmt *sql.Stmt, args ...any) ([]Entry, error) {
	rows, err := stmt.Query(args...)
	if err != nil {
		return nil, err
	}

	defer rows.Close()

	var entries []Entry

	for rows.Next() {
		var (
			e      Entry
			kind   string
			millis int64
		)

		if err := rows.Scan(&e.Run, &e.Resource, &kind, &e.Items, &e.Error, &millis); err != nil {
			return nil, err
		}

		e.Kind = synced.EventKind(kind)
		e.Time = time.UnixMilli(millis)

		entries = append(entries, e)
	}

	return entries, rows.Err()
}

// Close closes the database.
func (j *Journal) Close() error {
	var merr *multierror.Error

	for _, stmt := range [...]*sql.Stmt{j.insertStmt, j.summaryStmt, j.recentStmt} {
		if err := stmt.Close(); err != nil {
			merr = multierror.Append(merr, err)
		}
	}

	if err := j.db.Close(); err != nil {
		merr = multierror.Append(merr, err)
	}

	return merr.ErrorOrNil()
}
