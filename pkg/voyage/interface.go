package voyage

import (
	"context"
)

// InputType tells Voyage whether the texts are stored documents or search queries.
type InputType string

const (
	InputDocument InputType = "document"
	InputQuery    InputType = "query"
)

// IVoyage defines the interface for Voyage AI embeddings.
// Implementations are safe for concurrent use.
type IVoyage interface {
	Embed(ctx context.Context, inputType InputType, texts []string) ([][]float32, error)
}
