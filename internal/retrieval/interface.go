package retrieval

import (
	"context"

	"ecodrive-query-api/internal/model"
)

// UseCase turns a customer question into knowledge-base context.
type UseCase interface {
	// Reformulate rewrites query into a self-contained Spanish search query using history.
	Reformulate(ctx context.Context, query string, history model.History) (string, error)

	// Retrieve returns the context text for query. An empty string is a valid result.
	Retrieve(ctx context.Context, query string) (string, error)
}
