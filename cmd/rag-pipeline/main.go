package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/mpetrun5/rag-docs/internal/chunking"
	"github.com/mpetrun5/rag-docs/internal/config"
	"github.com/mpetrun5/rag-docs/internal/domain"
	"github.com/mpetrun5/rag-docs/internal/embeddings"
	"github.com/mpetrun5/rag-docs/internal/logger"
	"github.com/mpetrun5/rag-docs/internal/pipeline"
	"github.com/mpetrun5/rag-docs/internal/source"
	"github.com/mpetrun5/rag-docs/internal/vectorstore"
)

// rag-pipeline ingests scraper output into the vector index in one shot
// and prints the run report as JSON.
func main() {
	var (
		input     = flag.String("input", "", "document file or spool directory (defaults to SPOOL_DIR)")
		namespace = flag.String("namespace", "", "index namespace (defaults to INDEX_NAMESPACE)")
		clear     = flag.Bool("clear", false, "clear the namespace before uploading")
	)
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	if err := logger.Init(logger.Config{
		Level:  logger.Level(cfg.LogLevel),
		Format: cfg.LogFormat,
	}); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}

	path := *input
	if path == "" {
		path = cfg.SpoolDir
	}
	ns := *namespace
	if ns == "" {
		ns = cfg.Namespace
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	docs, err := loadDocuments(path)
	if err != nil {
		logger.Error("Failed to load documents", "path", path, "error", err)
		os.Exit(1)
	}
	if len(docs) == 0 {
		logger.Error("No valid documents found", "path", path)
		os.Exit(1)
	}

	var apiProvider embeddings.Provider
	if cfg.OpenAIAPIKey != "" {
		apiProvider = embeddings.NewOpenAIProvider(cfg.OpenAIBaseURL, cfg.OpenAIAPIKey, cfg.EmbeddingModel)
	}
	statistical := embeddings.NewTFIDFProvider(cfg.EmbeddingDimension)
	random := embeddings.NewRandomProvider(cfg.EmbeddingDimension)
	chain := embeddings.NewChain(apiProvider, statistical, random, cfg.EmbeddingDimension, cfg.EmbeddingBatchSize)

	qStore, err := vectorstore.NewQdrantStore(cfg.VectorStoreURL, cfg.CollectionName)
	if err != nil {
		logger.Error("Failed to initialize Qdrant store", "error", err)
		os.Exit(1)
	}

	chunker := chunking.NewDocumentChunker(cfg.ChunkPolicies)
	pipe := pipeline.New(chunker, chain, qStore)

	result, err := pipe.Run(ctx, docs, pipeline.Options{
		Namespace:  ns,
		ClearFirst: *clear,
		BatchSize:  cfg.UploadBatchSize,
		Delay:      cfg.UploadDelay,
	})
	if err != nil {
		logger.Error("Pipeline run failed", "error", err)
		os.Exit(1)
	}

	out, _ := json.MarshalIndent(result, "", "  ")
	fmt.Println(string(out))
}

func loadDocuments(path string) ([]domain.Document, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	if info.IsDir() {
		return source.LoadDir(path)
	}
	return source.LoadFile(path)
}
