package main

import (
	"context"

	"github.com/robfig/cron/v3"

	"ecodrive-query-api/config"
	"ecodrive-query-api/internal/retrieval"
	"ecodrive-query-api/internal/retrieval/repository"
	bleveRepo "ecodrive-query-api/internal/retrieval/repository/bleve"
	qdrantRepo "ecodrive-query-api/internal/retrieval/repository/qdrant"
	retrievalUC "ecodrive-query-api/internal/retrieval/usecase"
	"ecodrive-query-api/pkg/cohere"
	"ecodrive-query-api/pkg/llmprovider"
	"ecodrive-query-api/pkg/log"
	pkgQdrant "ecodrive-query-api/pkg/qdrant"
	"ecodrive-query-api/pkg/voyage"
)

const (
	backendQdrant = "qdrant"
	backendBleve  = "bleve"
	backendNone   = "none"

	defaultDatasetID = "ecodrive"
)

// newRetrieval wires the configured knowledge backend. The returned func
// releases whatever the backend holds (reload scheduler, in-memory index).
func newRetrieval(ctx context.Context, cfg *config.Config, llm llmprovider.Generator, logger log.Logger) (retrieval.UseCase, func(), error) {
	var (
		repo    repository.Repository
		cleanup = func() {}
	)

	switch cfg.Retrieval.Backend {
	case backendQdrant:
		embedder, err := voyage.New(cfg.Voyage.APIKey)
		if err != nil {
			logger.Warnf(ctx, "Qdrant retrieval disabled, Voyage not configured: %v", err)
			break
		}
		embedder.WithModel(cfg.Voyage.Model)
		client := pkgQdrant.NewClient(cfg.Qdrant.URL)
		repo = qdrantRepo.New(client, embedder, cfg.Qdrant.CollectionName, logger)
		logger.Infof(ctx, "Knowledge retrieval: qdrant collection %s at %s", cfg.Qdrant.CollectionName, cfg.Qdrant.URL)

	case backendBleve:
		index := bleveRepo.New(bleveRepo.ChunkOptions{
			Size:    cfg.Retrieval.ChunkSize,
			Overlap: cfg.Retrieval.ChunkOverlap,
		}, logger)
		datasetID := defaultDatasetID
		if len(cfg.Retrieval.DatasetIDs) > 0 {
			datasetID = cfg.Retrieval.DatasetIDs[0]
		}
		if err := index.LoadDir(ctx, cfg.Retrieval.KnowledgeDir, datasetID); err != nil {
			logger.Warnf(ctx, "Failed to load knowledge from %s: %v", cfg.Retrieval.KnowledgeDir, err)
		}

		scheduler := cron.New()
		if cfg.Retrieval.ReloadSchedule != "" {
			_, err := scheduler.AddFunc(cfg.Retrieval.ReloadSchedule, func() {
				reloadCtx := context.WithoutCancel(ctx)
				if err := index.LoadDir(reloadCtx, cfg.Retrieval.KnowledgeDir, datasetID); err != nil {
					logger.Warnf(reloadCtx, "Scheduled knowledge reload failed: %v", err)
				}
			})
			if err != nil {
				_ = index.Close()
				return nil, nil, err
			}
			scheduler.Start()
		}

		repo = index
		cleanup = func() {
			<-scheduler.Stop().Done()
			_ = index.Close()
		}
		logger.Infof(ctx, "Knowledge retrieval: bleve index over %s (reload %q)", cfg.Retrieval.KnowledgeDir, cfg.Retrieval.ReloadSchedule)

	case backendNone, "":
		logger.Warn(ctx, "Knowledge retrieval disabled: informative answers get no context")

	default:
		logger.Warnf(ctx, "Unknown retrieval backend %q, retrieval disabled", cfg.Retrieval.Backend)
	}

	var reranker retrievalUC.Reranker
	if repo != nil && cfg.Cohere.APIKey != "" {
		client, err := cohere.New(cfg.Cohere.APIKey)
		if err != nil {
			logger.Warnf(ctx, "Cohere reranker not available (optional): %v", err)
		} else {
			reranker = client.WithModel(cfg.Cohere.RerankModel)
		}
	}

	uc := retrievalUC.New(llm, repo, reranker, retrieval.Options{
		TopK:             cfg.Retrieval.TopK,
		DatasetIDs:       cfg.Retrieval.DatasetIDs,
		MaxContextChars:  cfg.Retrieval.MaxContextChars,
		ReformulateModel: cfg.LLM.Models.Chat,
		Temperature:      cfg.LLM.Temperature,
	}, logger)
	return uc, cleanup, nil
}
