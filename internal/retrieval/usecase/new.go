package usecase

import (
	"context"

	"ecodrive-query-api/internal/retrieval"
	"ecodrive-query-api/internal/retrieval/repository"
	"ecodrive-query-api/pkg/cohere"
	"ecodrive-query-api/pkg/llmprovider"
	pkgLog "ecodrive-query-api/pkg/log"
)

// Reranker reorders candidate documents by relevance. *cohere.Client implements it.
type Reranker interface {
	Rerank(ctx context.Context, query string, documents []string, topN int) ([]cohere.RerankResult, error)
}

type implUseCase struct {
	llm      llmprovider.Generator
	repo     repository.Repository
	reranker Reranker
	opts     retrieval.Options
	l        pkgLog.Logger
}

// New creates the retrieval use case. repo may be nil to disable retrieval.
// reranker may be nil to keep the repository order.
func New(llm llmprovider.Generator, repo repository.Repository, reranker Reranker, opts retrieval.Options, l pkgLog.Logger) retrieval.UseCase {
	if opts.TopK <= 0 {
		opts.TopK = retrieval.DefaultTopK
	}
	if opts.MaxContextChars <= 0 {
		opts.MaxContextChars = retrieval.DefaultMaxContextChars
	}
	return &implUseCase{
		llm:      llm,
		repo:     repo,
		reranker: reranker,
		opts:     opts,
		l:        l,
	}
}
