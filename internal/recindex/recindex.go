// Package recindex implements a small SQLite-backed catalogue of closed
// sessions' cast recordings (§12, a supplement beyond anything the spec
// or original_source names): path, command, start time, and duration, so
// recordings survive process restarts and can be listed/searched without
// replaying every cast file. Grounded on internal/kb/kb.go's
// sql.Open+WAL-pragma Open/migrate pattern.
package recindex

import (
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/tstmcp/terminal-mcp/internal/txerr"
)

// Index wraps a SQLite database of recording metadata.
type Index struct {
	db *sql.DB
}

// Open opens (or creates) the index at path in WAL mode.
func Open(path string) (*Index, error) {
	dsn := path + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, txerr.Wrap(txerr.KindIO, err, "open recording index %s", path)
	}
	if err := migrate(db); err != nil {
		db.Close()
		return nil, err
	}
	return &Index{db: db}, nil
}

func migrate(db *sql.DB) error {
	_, err := db.Exec(`CREATE TABLE IF NOT EXISTS recordings (
		id         INTEGER PRIMARY KEY AUTOINCREMENT,
		session_id TEXT NOT NULL,
		command    TEXT NOT NULL,
		path       TEXT NOT NULL,
		started_at TEXT NOT NULL,
		duration_ms INTEGER NOT NULL
	)`)
	if err != nil {
		return txerr.Wrap(txerr.KindIO, err, "migrate recording index")
	}
	_, err = db.Exec(`CREATE INDEX IF NOT EXISTS idx_recordings_command ON recordings(command)`)
	if err != nil {
		return txerr.Wrap(txerr.KindIO, err, "migrate recording index")
	}
	return nil
}

// Close closes the underlying database.
func (idx *Index) Close() error { return idx.db.Close() }

// Record is one catalogued recording.
type Record struct {
	ID         int64
	SessionID  string
	Command    string
	Path       string
	StartedAt  time.Time
	DurationMs int64
}

// Insert catalogues one closed session's recording.
func (idx *Index) Insert(r Record) (int64, error) {
	res, err := idx.db.Exec(
		`INSERT INTO recordings (session_id, command, path, started_at, duration_ms) VALUES (?, ?, ?, ?, ?)`,
		r.SessionID, r.Command, r.Path, r.StartedAt.UTC().Format(time.RFC3339), r.DurationMs,
	)
	if err != nil {
		return 0, txerr.Wrap(txerr.KindIO, err, "insert recording")
	}
	return res.LastInsertId()
}

// Query lists recordings, optionally filtered by an exact command match
// and/or a [since, until) start-time range. Either bound may be zero to
// leave it open.
type Query struct {
	Command string
	Since   time.Time
	Until   time.Time
	Limit   int
}

// List returns recordings matching q, most recent first.
func (idx *Index) List(q Query) ([]Record, error) {
	sqlText := `SELECT id, session_id, command, path, started_at, duration_ms FROM recordings WHERE 1=1`
	var args []any

	if q.Command != "" {
		sqlText += ` AND command = ?`
		args = append(args, q.Command)
	}
	if !q.Since.IsZero() {
		sqlText += ` AND started_at >= ?`
		args = append(args, q.Since.UTC().Format(time.RFC3339))
	}
	if !q.Until.IsZero() {
		sqlText += ` AND started_at < ?`
		args = append(args, q.Until.UTC().Format(time.RFC3339))
	}
	sqlText += ` ORDER BY started_at DESC`
	if q.Limit > 0 {
		sqlText += fmt.Sprintf(` LIMIT %d`, q.Limit)
	}

	rows, err := idx.db.Query(sqlText, args...)
	if err != nil {
		return nil, txerr.Wrap(txerr.KindIO, err, "query recording index")
	}
	defer rows.Close()

	var out []Record
	for rows.Next() {
		var r Record
		var started string
		if err := rows.Scan(&r.ID, &r.SessionID, &r.Command, &r.Path, &started, &r.DurationMs); err != nil {
			return nil, txerr.Wrap(txerr.KindIO, err, "scan recording row")
		}
		r.StartedAt, _ = time.Parse(time.RFC3339, started)
		out = append(out, r)
	}
	return out, rows.Err()
}
