package qdrant

import (
	"context"
	"fmt"

	"ecodrive-query-api/internal/retrieval/repository"
	pkgLog "ecodrive-query-api/pkg/log"
	pkgQdrant "ecodrive-query-api/pkg/qdrant"
	"ecodrive-query-api/pkg/voyage"
)

type implRepository struct {
	client         *pkgQdrant.Client
	embedder       voyage.IVoyage
	collectionName string
	l              pkgLog.Logger
}

// New creates a new Qdrant knowledge repository.
func New(client *pkgQdrant.Client, embedder voyage.IVoyage, collectionName string, l pkgLog.Logger) repository.Repository {
	return &implRepository{
		client:         client,
		embedder:       embedder,
		collectionName: collectionName,
		l:              l,
	}
}

// Search embeds the query and returns the closest chunks of the allowed datasets.
func (r *implRepository) Search(ctx context.Context, opt repository.SearchOptions) ([]repository.Passage, error) {
	vectors, err := r.embedder.Embed(ctx, voyage.InputQuery, []string{opt.Query})
	if err != nil {
		return nil, fmt.Errorf("qdrant repository: embed query: %w", err)
	}
	if len(vectors) == 0 {
		return nil, fmt.Errorf("qdrant repository: embed query: no vector returned")
	}

	req := pkgQdrant.SearchRequest{
		Vector:      vectors[0],
		Limit:       opt.Limit,
		WithPayload: true,
	}
	if len(opt.DatasetIDs) > 0 {
		req.Filter = &pkgQdrant.Filter{
			Should: []pkgQdrant.Condition{pkgQdrant.MatchAny(repository.FieldDatasetID, opt.DatasetIDs...)},
		}
	}

	resp, err := r.client.SearchPoints(ctx, r.collectionName, req)
	if err != nil {
		return nil, fmt.Errorf("qdrant repository: search: %w", err)
	}

	passages := make([]repository.Passage, 0, len(resp.Result))
	for _, point := range resp.Result {
		content := point.PayloadString(repository.FieldContent)
		if content == "" {
			r.l.Warnf(ctx, "qdrant repository: point %v has no content, skipping", point.ID)
			continue
		}
		passages = append(passages, repository.Passage{
			ID:        fmt.Sprint(point.ID),
			DatasetID: point.PayloadString(repository.FieldDatasetID),
			Title:     point.PayloadString(repository.FieldTitle),
			Content:   content,
			Source:    point.PayloadString(repository.FieldSource),
			Score:     point.Score,
		})
	}

	r.l.Debugf(ctx, "qdrant repository: found %d passages for %q", len(passages), opt.Query)
	return passages, nil
}
