package stock

import (
	"context"
	"time"
)

// Store is the journal-facing subset of the storage contract. Movements
// arrive in batches from the engine's flush worker.
type Store interface {
	InsertMovements(ctx context.Context, movements []*Movement) error
	QueryMovements(ctx context.Context, opts QueryOpts) ([]*Movement, error)

	// PurgeMovements deletes journal entries older than the given time
	// and returns how many were removed.
	PurgeMovements(ctx context.Context, before time.Time) (int64, error)
}
