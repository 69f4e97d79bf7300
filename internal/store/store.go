package store

import (
	"context"

	"github.com/ugaemi/binsort-server/internal/result"
)

// DefaultTopLimit caps Top when the caller passes a non-positive limit.
const DefaultTopLimit = 10

// MaxTopLimit is the largest board a caller can request.
const MaxTopLimit = 100

// ResultStore defines the interface for persistent run results.
type ResultStore interface {
	// Record inserts a finished run.
	Record(ctx context.Context, r *result.Result) error
	// FindByID looks up a result by id. A missing result returns nil, nil.
	FindByID(ctx context.Context, id string) (*result.Result, error)
	// Top returns the best results ordered by final balance, then by earliest finish.
	Top(ctx context.Context, limit int) ([]result.Result, error)
	// Close releases database resources.
	Close() error
}

func clampLimit(limit int) int {
	switch {
	case limit <= 0:
		return DefaultTopLimit
	case limit > MaxTopLimit:
		return MaxTopLimit
	default:
		return limit
	}
}
