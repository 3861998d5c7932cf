// Package journal records mlagentctl invocations in a local SQLite database.
//
// Every agent call made through the CLI is appended as one entry: what ran,
// what it targeted, how it ended, and how long it took. The journal backs
// the history command and is best-effort: a journal failure never fails
// the invocation it records.
package journal

import (
	"context"
	"database/sql"
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/ainori-ai/mlagent/internal/ctxutil"
)

//go:embed schema.sql
var schemaSQL string

// Outcome values for an entry.
const (
	OutcomeOK    = "ok"
	OutcomeError = "error"
)

// Entry is one recorded CLI invocation.
type Entry struct {
	ID         uuid.UUID
	At         time.Time
	Command    string // Command path, e.g. "model register".
	Target     string // Name or instance id the command acted on.
	Outcome    string
	RemoteCode int32 // Agent status when the agent rejected the call.
	Error      string
	Duration   time.Duration
}

// Journal is an append-mostly log of agent invocations.
type Journal struct {
	db *sql.DB
}

// DefaultPath returns the per-user journal location.
func DefaultPath() (string, error) {
	dir, err := os.UserCacheDir()
	if err != nil {
		return "", fmt.Errorf("journal: resolve cache dir: %w", err)
	}
	return filepath.Join(dir, "mlagentctl", "journal.db"), nil
}

// Open creates or opens the journal database at path, creating parent
// directories as needed.
//
// The database is configured with WAL mode, NORMAL synchronous mode, and
// a 5-second busy timeout. SQLite supports one writer at a time, so the
// pool is capped at a single connection.
func Open(path string) (*Journal, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, fmt.Errorf("journal: create directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("journal: open database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("journal: connect: %w", err)
	}

	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if err := applyPragmas(db); err != nil {
		db.Close()
		return nil, err
	}
	if _, err := db.Exec(schemaSQL); err != nil {
		db.Close()
		return nil, fmt.Errorf("journal: apply schema: %w", err)
	}

	return &Journal{db: db}, nil
}

func applyPragmas(db *sql.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			return fmt.Errorf("journal: execute %q: %w", pragma, err)
		}
	}
	return nil
}

// Close closes the journal database.
func (j *Journal) Close() error {
	if j.db == nil {
		return nil
	}
	return j.db.Close()
}

// Record appends one invocation entry. A zero ID is taken from the
// context's invocation id when present, else minted fresh; a zero
// timestamp is filled in.
func (j *Journal) Record(ctx context.Context, e Entry) error {
	if e.ID == uuid.Nil {
		e.ID = ctxutil.InvocationIDFromContext(ctx)
	}
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	if e.At.IsZero() {
		e.At = time.Now()
	}

	_, err := j.db.ExecContext(ctx, `
		INSERT INTO invocations
		(id, at, command, target, outcome, remote_code, error, duration_ms)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`,
		e.ID.String(),
		e.At.UnixNano(),
		e.Command,
		e.Target,
		e.Outcome,
		e.RemoteCode,
		e.Error,
		e.Duration.Milliseconds(),
	)
	if err != nil {
		return fmt.Errorf("journal: record invocation: %w", err)
	}
	return nil
}

// Recent returns the latest entries, newest first. A non-positive limit
// defaults to 20.
//
// Returns an empty slice (not nil) when the journal holds no entries.
func (j *Journal) Recent(ctx context.Context, limit int) ([]Entry, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := j.db.QueryContext(ctx, `
		SELECT id, at, command, target, outcome, remote_code, error, duration_ms
		FROM invocations
		ORDER BY at DESC, id DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("journal: query invocations: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var (
			e          Entry
			id         string
			atNano     int64
			durationMS int64
		)
		if err := rows.Scan(&id, &atNano, &e.Command, &e.Target, &e.Outcome, &e.RemoteCode, &e.Error, &durationMS); err != nil {
			return nil, fmt.Errorf("journal: scan invocation: %w", err)
		}
		if e.ID, err = uuid.Parse(id); err != nil {
			return nil, fmt.Errorf("journal: invocation id: %w", err)
		}
		e.At = time.Unix(0, atNano)
		e.Duration = time.Duration(durationMS) * time.Millisecond
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("journal: iterate invocations: %w", err)
	}

	if entries == nil {
		entries = []Entry{}
	}
	return entries, nil
}

// Prune removes entries older than the retention window and reports how
// many were removed.
func (j *Journal) Prune(ctx context.Context, keep time.Duration) (int64, error) {
	cutoff := time.Now().Add(-keep).UnixNano()
	res, err := j.db.ExecContext(ctx, `DELETE FROM invocations WHERE at < ?`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("journal: prune invocations: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("journal: prune invocations: %w", err)
	}
	return n, nil
}
