package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"ecodrive-query-api/config"
	"ecodrive-query-api/internal/knowledge"
	"ecodrive-query-api/pkg/log"
	pkgQdrant "ecodrive-query-api/pkg/qdrant"
	"ecodrive-query-api/pkg/voyage"
)

var (
	ingestConfigPath string
	ingestDir        string
	ingestDataset    string
	ingestCollection string
	ingestBatchSize  int
	ingestDryRun     bool
)

var rootCmd = &cobra.Command{
	Use:   "ingest",
	Short: "Load the knowledge base into Qdrant",
	Long: `Reads every markdown document under the knowledge directory, splits it
into overlapping chunks, embeds them with Voyage and upserts them into the
Qdrant collection used by the query API.

Point ids derive from the document path and chunk position, so re-running
the command overwrites the previous points instead of duplicating them.

Examples:
  ingest                                  # use retrieval.knowledge_dir from config
  ingest --dir ./knowledge --dataset faq  # ingest a directory into a dataset
  ingest --dry-run                        # print the chunk plan only`,
	SilenceUsage: true,
	RunE:         runIngest,
}

func init() {
	rootCmd.Flags().StringVar(&ingestConfigPath, "config", "", "path to config.yaml (overrides CONFIG_PATH)")
	rootCmd.Flags().StringVar(&ingestDir, "dir", "", "knowledge directory (default retrieval.knowledge_dir)")
	rootCmd.Flags().StringVar(&ingestDataset, "dataset", "", "dataset id for documents without one in front matter")
	rootCmd.Flags().StringVar(&ingestCollection, "collection", "", "Qdrant collection (default qdrant.collection_name)")
	rootCmd.Flags().IntVar(&ingestBatchSize, "batch-size", defaultUpsertBatch, "points per upsert request")
	rootCmd.Flags().BoolVar(&ingestDryRun, "dry-run", false, "print the chunk plan without embedding or writing")
}

func runIngest(cmd *cobra.Command, _ []string) error {
	if ingestConfigPath != "" {
		if err := os.Setenv("CONFIG_PATH", ingestConfigPath); err != nil {
			return err
		}
	}
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logger := log.Init(log.ZapConfig{
		Level:        cfg.Logger.Level,
		Mode:         cfg.Logger.Mode,
		Encoding:     cfg.Logger.Encoding,
		ColorEnabled: cfg.Logger.ColorEnabled,
	})

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	dir := firstNonEmpty(ingestDir, cfg.Retrieval.KnowledgeDir)
	dataset := ingestDataset
	if dataset == "" && len(cfg.Retrieval.DatasetIDs) > 0 {
		dataset = cfg.Retrieval.DatasetIDs[0]
	}

	docs, err := knowledge.LoadDir(dir, dataset)
	if err != nil {
		return fmt.Errorf("load %s: %w", dir, err)
	}
	chunks := plan(docs, cfg.Retrieval.ChunkSize, cfg.Retrieval.ChunkOverlap)
	logger.Infof(ctx, "Planned %d chunks from %d documents in %s", len(chunks), len(docs), dir)

	if ingestDryRun {
		for _, c := range chunks {
			fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\t#%d\t%d runes\n", pointID(c), c.Source, c.Index, len([]rune(c.Text)))
		}
		return nil
	}

	embedder, err := voyage.New(cfg.Voyage.APIKey)
	if err != nil {
		return err
	}
	embedder.WithModel(cfg.Voyage.Model)

	n, err := ingest(ctx, chunks, ingester{
		embedder:   embedder,
		qdrant:     pkgQdrant.NewClient(cfg.Qdrant.URL),
		collection: firstNonEmpty(ingestCollection, cfg.Qdrant.CollectionName),
		vectorSize: cfg.Qdrant.VectorSize,
		batchSize:  ingestBatchSize,
		l:          logger,
	})
	if err != nil {
		return err
	}

	logger.Infof(ctx, "Ingest complete: %d points upserted", n)
	return nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
