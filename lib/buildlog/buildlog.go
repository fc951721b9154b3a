// Copyright 2026 The Pakdepot Authors
// SPDX-License-Identifier: Apache-2.0

// Package buildlog records manifest build history in SQLite. Every
// build attempt — successful or not — becomes one row, so an operator
// can answer "when did the manifest last change, and why" from the
// control socket without correlating server logs.
//
// The ledger is informational: the server never reads it to decide
// what to serve. Losing it loses history, nothing else.
package buildlog

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"zombiezen.com/go/sqlite"
	"zombiezen.com/go/sqlite/sqlitex"

	"github.com/pakdepot/pakdepot/lib/sqlitepool"
)

// Build reasons, stored verbatim in the reason column.
const (
	// ReasonStartup marks the initial build when the server boots.
	ReasonStartup = "startup"

	// ReasonControl marks a rebuild requested over the control socket.
	ReasonControl = "control"

	// ReasonRescan marks a periodic rescan of the content root.
	ReasonRescan = "rescan"
)

// DefaultRecentLimit is how many rows Recent returns when the caller
// passes a non-positive limit.
const DefaultRecentLimit = 20

const schema = `
	CREATE TABLE IF NOT EXISTS builds (
		id               INTEGER PRIMARY KEY AUTOINCREMENT,
		started_at       INTEGER NOT NULL,
		duration_ms      INTEGER NOT NULL,
		reason           TEXT NOT NULL,
		success          INTEGER NOT NULL,
		asset_count      INTEGER NOT NULL,
		total_bytes      INTEGER NOT NULL,
		total_compressed INTEGER NOT NULL,
		digest           TEXT NOT NULL,
		error            TEXT NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_builds_started ON builds(started_at);
`

// Record is one build attempt. For failed builds, Digest is empty,
// the counters are zero, and Error carries the failure text.
type Record struct {
	ID              int64
	StartedAt       time.Time
	Duration        time.Duration
	Reason          string
	Success         bool
	AssetCount      int
	TotalBytes      int64
	TotalCompressed int64
	Digest          string
	Error           string
}

// Config holds the parameters for opening a build log.
type Config struct {
	// Path is the filesystem path to the SQLite database file. The
	// parent directory must exist. Required.
	Path string

	// Logger receives operational messages. If nil, a no-op logger is
	// used.
	Logger *slog.Logger
}

// Log is a SQLite-backed build ledger. Safe for concurrent use.
type Log struct {
	pool *sqlitepool.Pool
}

// Open creates the build log, creating the database file and schema if
// needed.
func Open(cfg Config) (*Log, error) {
	pool, err := sqlitepool.Open(sqlitepool.Config{
		Path:   cfg.Path,
		Logger: cfg.Logger,
		OnConnect: func(conn *sqlite.Conn) error {
			return sqlitex.ExecuteScript(conn, schema, nil)
		},
	})
	if err != nil {
		return nil, fmt.Errorf("buildlog: %w", err)
	}
	return &Log{pool: pool}, nil
}

// Close closes the underlying connection pool.
func (l *Log) Close() error {
	return l.pool.Close()
}

// Append inserts one build record. The record's ID field is ignored;
// SQLite assigns it.
func (l *Log) Append(ctx context.Context, record Record) error {
	conn, err := l.pool.Take(ctx)
	if err != nil {
		return fmt.Errorf("buildlog: append: %w", err)
	}
	defer l.pool.Put(conn)

	err = sqlitex.Execute(conn, `INSERT INTO builds
		(started_at, duration_ms, reason, success, asset_count,
		 total_bytes, total_compressed, digest, error)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		&sqlitex.ExecOptions{
			Args: []any{
				record.StartedAt.UnixNano(),
				record.Duration.Milliseconds(),
				record.Reason,
				boolToInt(record.Success),
				record.AssetCount,
				record.TotalBytes,
				record.TotalCompressed,
				record.Digest,
				record.Error,
			},
		})
	if err != nil {
		return fmt.Errorf("buildlog: append: %w", err)
	}
	return nil
}

// Recent returns the most recent build records, newest first. A
// non-positive limit selects DefaultRecentLimit rows.
func (l *Log) Recent(ctx context.Context, limit int) ([]Record, error) {
	if limit <= 0 {
		limit = DefaultRecentLimit
	}

	conn, err := l.pool.Take(ctx)
	if err != nil {
		return nil, fmt.Errorf("buildlog: recent: %w", err)
	}
	defer l.pool.Put(conn)

	var records []Record
	err = sqlitex.Execute(conn, `SELECT
		id, started_at, duration_ms, reason, success, asset_count,
		total_bytes, total_compressed, digest, error
		FROM builds ORDER BY started_at DESC, id DESC LIMIT ?`,
		&sqlitex.ExecOptions{
			Args: []any{limit},
			ResultFunc: func(stmt *sqlite.Stmt) error {
				records = append(records, Record{
					ID:              stmt.ColumnInt64(0),
					StartedAt:       time.Unix(0, stmt.ColumnInt64(1)).UTC(),
					Duration:        time.Duration(stmt.ColumnInt64(2)) * time.Millisecond,
					Reason:          stmt.ColumnText(3),
					Success:         stmt.ColumnInt(4) != 0,
					AssetCount:      stmt.ColumnInt(5),
					TotalBytes:      stmt.ColumnInt64(6),
					TotalCompressed: stmt.ColumnInt64(7),
					Digest:          stmt.ColumnText(8),
					Error:           stmt.ColumnText(9),
				})
				return nil
			},
		})
	if err != nil {
		return nil, fmt.Errorf("buildlog: recent: %w", err)
	}
	return records, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
