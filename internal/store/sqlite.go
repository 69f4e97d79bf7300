package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/ugaemi/binsort-server/internal/result"

	_ "modernc.org/sqlite"
)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS results (
    id TEXT PRIMARY KEY,
    session_id TEXT NOT NULL,
    nickname TEXT NOT NULL DEFAULT '',
    outcome TEXT NOT NULL,
    final_balance REAL NOT NULL,
    peak_balance REAL NOT NULL,
    peak_tier INTEGER NOT NULL,
    spawned INTEGER NOT NULL,
    sorted_correct INTEGER NOT NULL,
    sorted_incorrect INTEGER NOT NULL,
    started_at TEXT NOT NULL,
    ended_at TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_results_final_balance ON results(final_balance DESC, ended_at);
`

// SQLiteStore implements ResultStore on a local SQLite file.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens (or creates) the database file and initializes the schema.
func NewSQLiteStore(ctx context.Context, path string) (*SQLiteStore, error) {
	if path == "" {
		return nil, fmt.Errorf("empty sqlite path")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	for _, p := range []string{
		"PRAGMA journal_mode=WAL;",
		"PRAGMA synchronous=NORMAL;",
		"PRAGMA busy_timeout=5000;",
	} {
		if _, err := db.ExecContext(ctx, p); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("sqlite pragma %q: %w", p, err)
		}
	}
	if _, err := db.ExecContext(ctx, sqliteSchema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("sqlite schema: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

// Record inserts a finished run.
func (s *SQLiteStore) Record(ctx context.Context, r *result.Result) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO results (`+resultColumns+`)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		r.ID, r.SessionID, r.Nickname, r.Outcome, r.FinalBalance, r.PeakBalance, r.PeakTier,
		r.Spawned, r.SortedCorrect, r.SortedIncorrect, formatTime(r.StartedAt), formatTime(r.EndedAt))
	return err
}

// FindByID looks up a result by id.
func (s *SQLiteStore) FindByID(ctx context.Context, id string) (*result.Result, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+resultColumns+` FROM results WHERE id = ?`, id)

	r, err := scanSQLiteResult(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	return r, err
}

// Top returns the best results.
func (s *SQLiteStore) Top(ctx context.Context, limit int) ([]result.Result, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+resultColumns+` FROM results
		 ORDER BY final_balance DESC, ended_at ASC LIMIT ?`, clampLimit(limit))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]result.Result, 0)
	for rows.Next() {
		r, err := scanSQLiteResult(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *r)
	}
	return out, rows.Err()
}

// Close releases database resources.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// Times are stored as fixed-width RFC 3339 text so they sort lexically.
const sqliteTimeLayout = "2006-01-02T15:04:05.000000000Z07:00"

func formatTime(t time.Time) string {
	return t.UTC().Format(sqliteTimeLayout)
}

func scanSQLiteResult(row rowScanner) (*result.Result, error) {
	var (
		r                  result.Result
		started, endedText string
	)
	err := row.Scan(&r.ID, &r.SessionID, &r.Nickname, &r.Outcome, &r.FinalBalance, &r.PeakBalance,
		&r.PeakTier, &r.Spawned, &r.SortedCorrect, &r.SortedIncorrect, &started, &endedText)
	if err != nil {
		return nil, err
	}
	if r.StartedAt, err = time.Parse(sqliteTimeLayout, started); err != nil {
		return nil, fmt.Errorf("started_at: %w", err)
	}
	if r.EndedAt, err = time.Parse(sqliteTimeLayout, endedText); err != nil {
		return nil, fmt.Errorf("ended_at: %w", err)
	}
	return &r, nil
}
