package usecase

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"ecodrive-query-api/internal/retrieval"
	"ecodrive-query-api/internal/retrieval/repository"
)

func (uc *implUseCase) Retrieve(ctx context.Context, query string) (string, error) {
	if uc.repo == nil || strings.TrimSpace(query) == "" {
		return "", nil
	}

	passages, err := uc.repo.Search(ctx, repository.SearchOptions{
		Query:      query,
		Limit:      uc.opts.TopK,
		DatasetIDs: uc.opts.DatasetIDs,
	})
	if err != nil {
		return "", fmt.Errorf("%s: %w: %w", retrieval.LogPrefixRetrieve, retrieval.ErrSearchFailed, err)
	}

	passages = uc.rerank(ctx, query, passages)
	out := buildContext(passages, uc.opts.MaxContextChars)

	uc.l.Infof(ctx, "%s: %d passages, %d chars of context", retrieval.LogPrefixRetrieve, len(passages), utf8.RuneCountInString(out))
	return out, nil
}

// rerank reorders passages with the reranker. Rerank failures keep the search order.
func (uc *implUseCase) rerank(ctx context.Context, query string, passages []repository.Passage) []repository.Passage {
	if uc.reranker == nil || len(passages) < 2 {
		return passages
	}

	docs := make([]string, len(passages))
	for i, p := range passages {
		docs[i] = p.Content
	}

	results, err := uc.reranker.Rerank(ctx, query, docs, uc.opts.TopK)
	if err != nil {
		uc.l.Warnf(ctx, "%s: rerank failed, keeping search order: %v", retrieval.LogPrefixRetrieve, err)
		return passages
	}

	ordered := make([]repository.Passage, 0, len(results))
	for _, r := range results {
		if r.Index < 0 || r.Index >= len(passages) {
			continue
		}
		p := passages[r.Index]
		p.Score = r.RelevanceScore
		ordered = append(ordered, p)
	}
	if len(ordered) == 0 {
		return passages
	}
	return ordered
}

// buildContext joins passages in order and truncates the result to maxChars runes.
func buildContext(passages []repository.Passage, maxChars int) string {
	var b strings.Builder
	for i, p := range passages {
		if i > 0 {
			b.WriteString(passageSeparator)
		}
		if p.Title != "" {
			b.WriteString(p.Title)
			b.WriteString("\n")
		}
		b.WriteString(strings.TrimSpace(p.Content))
	}
	return truncateRunes(b.String(), maxChars)
}

func truncateRunes(s string, max int) string {
	if max <= 0 || utf8.RuneCountInString(s) <= max {
		return s
	}
	return string([]rune(s)[:max])
}

const passageSeparator = "\n\n---\n\n"
