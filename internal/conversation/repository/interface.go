package repository

import (
	"context"

	"ecodrive-query-api/internal/model"
)

// Store keeps conversation histories with a retention policy chosen at construction.
// Implementations must be safe for concurrent use.
type Store interface {
	// Load returns the history of id. found is false when the id is unknown or expired.
	Load(ctx context.Context, id string) (h model.History, found bool, err error)

	// Save replaces the history of id and refreshes its retention.
	Save(ctx context.Context, id string, h model.History) error

	// Delete removes id and reports whether it existed.
	Delete(ctx context.Context, id string) (bool, error)
}
