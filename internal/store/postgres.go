package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/ugaemi/binsort-server/internal/result"
)

const postgresSchema = `
CREATE TABLE IF NOT EXISTS results (
    id TEXT PRIMARY KEY,
    session_id TEXT NOT NULL,
    nickname TEXT NOT NULL DEFAULT '',
    outcome TEXT NOT NULL,
    final_balance DOUBLE PRECISION NOT NULL,
    peak_balance DOUBLE PRECISION NOT NULL,
    peak_tier INTEGER NOT NULL,
    spawned INTEGER NOT NULL,
    sorted_correct INTEGER NOT NULL,
    sorted_incorrect INTEGER NOT NULL,
    started_at TIMESTAMPTZ NOT NULL,
    ended_at TIMESTAMPTZ NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_results_final_balance ON results(final_balance DESC, ended_at);
`

const resultColumns = `id, session_id, nickname, outcome, final_balance, peak_balance, peak_tier,
    spawned, sorted_correct, sorted_incorrect, started_at, ended_at`

// PostgresStore implements ResultStore using PostgreSQL.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore connects to PostgreSQL and initializes the schema.
func NewPostgresStore(ctx context.Context, databaseURL string) (*PostgresStore, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("postgres connect: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("postgres ping: %w", err)
	}

	if _, err := pool.Exec(ctx, postgresSchema); err != nil {
		pool.Close()
		return nil, fmt.Errorf("postgres schema: %w", err)
	}

	return &PostgresStore{pool: pool}, nil
}

// Record inserts a finished run.
func (s *PostgresStore) Record(ctx context.Context, r *result.Result) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO results (`+resultColumns+`)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`,
		r.ID, r.SessionID, r.Nickname, r.Outcome, r.FinalBalance, r.PeakBalance, r.PeakTier,
		r.Spawned, r.SortedCorrect, r.SortedIncorrect, r.StartedAt, r.EndedAt)
	return err
}

// FindByID looks up a result by id.
func (s *PostgresStore) FindByID(ctx context.Context, id string) (*result.Result, error) {
	row := s.pool.QueryRow(ctx,
		`SELECT `+resultColumns+` FROM results WHERE id = $1`, id)

	r, err := scanResult(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	return r, err
}

// Top returns the best results.
func (s *PostgresStore) Top(ctx context.Context, limit int) ([]result.Result, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT `+resultColumns+` FROM results
		 ORDER BY final_balance DESC, ended_at ASC LIMIT $1`, clampLimit(limit))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]result.Result, 0)
	for rows.Next() {
		r, err := scanResult(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *r)
	}
	return out, rows.Err()
}

// Close releases database resources.
func (s *PostgresStore) Close() error {
	s.pool.Close()
	return nil
}

// rowScanner is satisfied by pgx.Row, pgx.Rows, *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanResult(row rowScanner) (*result.Result, error) {
	var r result.Result
	err := row.Scan(&r.ID, &r.SessionID, &r.Nickname, &r.Outcome, &r.FinalBalance, &r.PeakBalance,
		&r.PeakTier, &r.Spawned, &r.SortedCorrect, &r.SortedIncorrect, &r.StartedAt, &r.EndedAt)
	if err != nil {
		return nil, err
	}
	return &r, nil
}
