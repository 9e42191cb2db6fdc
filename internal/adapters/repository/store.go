// Package repository persists resolved runs.
package repository

import (
	"context"

	"github.com/okian/collide/internal/domain/types"
)

// Store provides read/write access to resolved runs.
type Store interface {
	// Save stores a run. Saving an existing ID replaces it.
	Save(ctx context.Context, run types.Run) error

	// Get returns the run with id, or ErrNotFound.
	Get(ctx context.Context, id string) (types.Run, error)

	// Recent returns up to n runs, newest first.
	// Returns ErrInvalidLimit if n < 1.
	Recent(ctx context.Context, n int) ([]types.Run, error)

	// Count returns the number of stored runs.
	Count(ctx context.Context) int

	Close() error
}
