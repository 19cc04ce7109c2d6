package main

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/sourcegraph/conc/pool"

	"ecodrive-query-api/internal/knowledge"
	"ecodrive-query-api/internal/retrieval/repository"
	"ecodrive-query-api/pkg/log"
	pkgQdrant "ecodrive-query-api/pkg/qdrant"
	"ecodrive-query-api/pkg/voyage"
)

const (
	defaultUpsertBatch = 64
	maxParallelUpserts = 4
	distanceCosine     = "Cosine"
)

// pointNamespace scopes chunk ids so they never collide with ids written by other tools.
var pointNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("ecodrive-query-api/knowledge"))

// chunk is one embeddable slice of a knowledge document.
type chunk struct {
	DatasetID string
	Title     string
	Source    string
	Index     int
	Text      string
}

// plan splits every document into chunks, in document order.
func plan(docs []knowledge.Document, size, overlap int) []chunk {
	var out []chunk
	for _, doc := range docs {
		for i, text := range knowledge.Chunk(doc.Body, size, overlap) {
			out = append(out, chunk{
				DatasetID: doc.DatasetID,
				Title:     doc.Title,
				Source:    doc.Source,
				Index:     i,
				Text:      text,
			})
		}
	}
	return out
}

// pointID is stable across runs for the same source and position.
func pointID(c chunk) string {
	return uuid.NewSHA1(pointNamespace, fmt.Appendf(nil, "%s#%d", c.Source, c.Index)).String()
}

type ingester struct {
	embedder   voyage.IVoyage
	qdrant     *pkgQdrant.Client
	collection string
	vectorSize int
	batchSize  int
	l          log.Logger
}

// ingest embeds chunks and upserts them. It returns the number of points written.
func ingest(ctx context.Context, chunks []chunk, in ingester) (int, error) {
	if len(chunks) == 0 {
		return 0, nil
	}
	if in.batchSize <= 0 {
		in.batchSize = defaultUpsertBatch
	}

	if err := in.qdrant.EnsureCollection(ctx, pkgQdrant.CreateCollectionRequest{
		Name:    in.collection,
		Vectors: pkgQdrant.VectorConfig{Size: in.vectorSize, Distance: distanceCosine},
	}); err != nil {
		return 0, fmt.Errorf("ensure collection %s: %w", in.collection, err)
	}

	texts := make([]string, len(chunks))
	for i, c := range chunks {
		texts[i] = c.Text
	}
	vectors, err := in.embedder.Embed(ctx, voyage.InputDocument, texts)
	if err != nil {
		return 0, fmt.Errorf("embed chunks: %w", err)
	}
	if len(vectors) != len(chunks) {
		return 0, fmt.Errorf("embed chunks: got %d vectors for %d chunks", len(vectors), len(chunks))
	}

	points := make([]pkgQdrant.Point, len(chunks))
	for i, c := range chunks {
		points[i] = pkgQdrant.Point{
			ID:     pointID(c),
			Vector: vectors[i],
			Payload: map[string]any{
				repository.FieldDatasetID: c.DatasetID,
				repository.FieldTitle:     c.Title,
				repository.FieldContent:   c.Text,
				repository.FieldSource:    c.Source,
			},
		}
	}

	p := pool.New().WithMaxGoroutines(maxParallelUpserts).WithContext(ctx).WithCancelOnError()
	for start := 0; start < len(points); start += in.batchSize {
		end := min(start+in.batchSize, len(points))
		batch := points[start:end]
		p.Go(func(ctx context.Context) error {
			if err := in.qdrant.UpsertPoints(ctx, in.collection, pkgQdrant.UpsertPointsRequest{Points: batch}); err != nil {
				return fmt.Errorf("upsert points %d-%d: %w", start, end, err)
			}
			in.l.Debugf(ctx, "upserted points %d-%d", start, end)
			return nil
		})
	}
	if err := p.Wait(); err != nil {
		return 0, err
	}
	return len(points), nil
}
