// Package bleve is an in-memory full-text knowledge backend for deployments
// without a vector database.
package bleve

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/analysis/analyzer/keyword"
	"github.com/blevesearch/bleve/v2/analysis/lang/es"
	"github.com/blevesearch/bleve/v2/mapping"
	"github.com/blevesearch/bleve/v2/search/query"

	"ecodrive-query-api/internal/knowledge"
	"ecodrive-query-api/internal/retrieval/repository"
	pkgLog "ecodrive-query-api/pkg/log"
)

var ErrNotLoaded = errors.New("bleve repository: index not loaded")

// ChunkOptions controls how documents are split before indexing.
type ChunkOptions struct {
	Size    int
	Overlap int
}

type passageDoc struct {
	DatasetID string `json:"dataset_id"`
	Title     string `json:"title"`
	Content   string `json:"content"`
	Source    string `json:"source"`
}

// Index holds the current in-memory index. Reload swaps it atomically.
type Index struct {
	mu     sync.RWMutex
	index  bleve.Index
	chunks ChunkOptions
	l      pkgLog.Logger
}

var _ repository.Repository = (*Index)(nil)

func New(chunks ChunkOptions, l pkgLog.Logger) *Index {
	return &Index{chunks: chunks, l: l}
}

// Reload builds a fresh index from docs and replaces the current one.
func (x *Index) Reload(ctx context.Context, docs []knowledge.Document) error {
	idx, err := bleve.NewMemOnly(newMapping())
	if err != nil {
		return fmt.Errorf("bleve repository: create index: %w", err)
	}

	batch := idx.NewBatch()
	count := 0
	for _, doc := range docs {
		for i, chunk := range knowledge.Chunk(doc.Body, x.chunks.Size, x.chunks.Overlap) {
			id := fmt.Sprintf("%s#%d", doc.Source, i)
			if err := batch.Index(id, passageDoc{
				DatasetID: doc.DatasetID,
				Title:     doc.Title,
				Content:   chunk,
				Source:    doc.Source,
			}); err != nil {
				_ = idx.Close()
				return fmt.Errorf("bleve repository: index %s: %w", id, err)
			}
			count++
		}
	}
	if err := idx.Batch(batch); err != nil {
		_ = idx.Close()
		return fmt.Errorf("bleve repository: commit batch: %w", err)
	}

	x.mu.Lock()
	old := x.index
	x.index = idx
	x.mu.Unlock()

	if old != nil {
		if err := old.Close(); err != nil {
			x.l.Warnf(ctx, "bleve repository: close previous index: %v", err)
		}
	}

	x.l.Infof(ctx, "bleve repository: indexed %d chunks from %d documents", count, len(docs))
	return nil
}

// LoadDir reads the knowledge directory and reloads the index from it.
func (x *Index) LoadDir(ctx context.Context, dir, defaultDatasetID string) error {
	docs, err := knowledge.LoadDir(dir, defaultDatasetID)
	if err != nil {
		return err
	}
	return x.Reload(ctx, docs)
}

func (x *Index) Search(ctx context.Context, opt repository.SearchOptions) ([]repository.Passage, error) {
	x.mu.RLock()
	defer x.mu.RUnlock()
	if x.index == nil {
		return nil, ErrNotLoaded
	}

	content := bleve.NewMatchQuery(opt.Query)
	content.SetField(repository.FieldContent)
	title := bleve.NewMatchQuery(opt.Query)
	title.SetField(repository.FieldTitle)
	title.SetBoost(2)

	var q query.Query = bleve.NewDisjunctionQuery(content, title)
	if len(opt.DatasetIDs) > 0 {
		datasets := make([]query.Query, 0, len(opt.DatasetIDs))
		for _, id := range opt.DatasetIDs {
			term := bleve.NewTermQuery(id)
			term.SetField(repository.FieldDatasetID)
			datasets = append(datasets, term)
		}
		q = bleve.NewConjunctionQuery(q, bleve.NewDisjunctionQuery(datasets...))
	}

	limit := opt.Limit
	if limit <= 0 {
		limit = 10
	}
	req := bleve.NewSearchRequestOptions(q, limit, 0, false)
	req.Fields = []string{"*"}

	res, err := x.index.SearchInContext(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("bleve repository: search: %w", err)
	}

	passages := make([]repository.Passage, 0, len(res.Hits))
	for _, hit := range res.Hits {
		passages = append(passages, repository.Passage{
			ID:        hit.ID,
			DatasetID: field(hit.Fields, repository.FieldDatasetID),
			Title:     field(hit.Fields, repository.FieldTitle),
			Content:   field(hit.Fields, repository.FieldContent),
			Source:    field(hit.Fields, repository.FieldSource),
			Score:     hit.Score,
		})
	}
	return passages, nil
}

// Close releases the current index.
func (x *Index) Close() error {
	x.mu.Lock()
	defer x.mu.Unlock()
	if x.index == nil {
		return nil
	}
	err := x.index.Close()
	x.index = nil
	return err
}

func newMapping() mapping.IndexMapping {
	text := bleve.NewTextFieldMapping()
	text.Analyzer = es.AnalyzerName

	exact := bleve.NewTextFieldMapping()
	exact.Analyzer = keyword.Name

	doc := bleve.NewDocumentMapping()
	doc.AddFieldMappingsAt(repository.FieldContent, text)
	doc.AddFieldMappingsAt(repository.FieldTitle, text)
	doc.AddFieldMappingsAt(repository.FieldDatasetID, exact)
	doc.AddFieldMappingsAt(repository.FieldSource, exact)

	m := bleve.NewIndexMapping()
	m.DefaultMapping = doc
	m.DefaultAnalyzer = es.AnalyzerName
	return m
}

func field(fields map[string]interface{}, key string) string {
	if s, ok := fields[key].(string); ok {
		return s
	}
	return ""
}
