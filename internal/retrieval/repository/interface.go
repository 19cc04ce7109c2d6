package repository

import "context"

// Payload keys written by the ingest command and read by every backend.
const (
	FieldDatasetID = "dataset_id"
	FieldTitle     = "title"
	FieldContent   = "content"
	FieldSource    = "source"
)

// Repository searches the knowledge base.
type Repository interface {
	Search(ctx context.Context, opt SearchOptions) ([]Passage, error)
}

// SearchOptions defines search parameters.
type SearchOptions struct {
	Query      string
	Limit      int
	DatasetIDs []string // empty means every dataset
}

// Passage is one retrieved knowledge chunk.
type Passage struct {
	ID        string
	DatasetID string
	Title     string
	Content   string
	Source    string
	Score     float64
}
