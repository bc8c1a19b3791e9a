package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/mpetrun5/rag-docs/internal/api"
	"github.com/mpetrun5/rag-docs/internal/chunking"
	"github.com/mpetrun5/rag-docs/internal/config"
	"github.com/mpetrun5/rag-docs/internal/embeddings"
	"github.com/mpetrun5/rag-docs/internal/history"
	"github.com/mpetrun5/rag-docs/internal/llm"
	"github.com/mpetrun5/rag-docs/internal/logger"
	"github.com/mpetrun5/rag-docs/internal/pipeline"
	"github.com/mpetrun5/rag-docs/internal/prompt"
	"github.com/mpetrun5/rag-docs/internal/retrieval"
	"github.com/mpetrun5/rag-docs/internal/source"
	"github.com/mpetrun5/rag-docs/internal/vectorstore"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize logger
	loggerCfg := logger.Config{
		Level:  logger.Level(cfg.LogLevel),
		Format: cfg.LogFormat,
	}
	if err := logger.Init(loggerCfg); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}

	logger.Info("Knowledge base server starting",
		"embedding_model", cfg.EmbeddingModel,
		"chat_model", cfg.ChatModel,
		"dimension", cfg.EmbeddingDimension,
		"vector_store", cfg.VectorStoreURL,
		"namespace", cfg.Namespace,
		"port", cfg.ServerPort,
	)

	// Root context, cancelled on SIGINT/SIGTERM for clean shutdown
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 1. Embedding provider chain
	var apiProvider embeddings.Provider
	if cfg.OpenAIAPIKey != "" {
		apiProvider = embeddings.NewOpenAIProvider(cfg.OpenAIBaseURL, cfg.OpenAIAPIKey, cfg.EmbeddingModel)
	} else {
		logger.Warn("No API key configured, embeddings fall back to the statistical provider")
	}
	statistical := embeddings.NewTFIDFProvider(cfg.EmbeddingDimension)
	random := embeddings.NewRandomProvider(cfg.EmbeddingDimension)
	chain := embeddings.NewChain(apiProvider, statistical, random, cfg.EmbeddingDimension, cfg.EmbeddingBatchSize)

	// 2. Qdrant vector store
	qStore, err := vectorstore.NewQdrantStore(cfg.VectorStoreURL, cfg.CollectionName)
	if err != nil {
		logger.Error("Failed to initialize Qdrant store", "error", err)
		os.Exit(1)
	}

	initCtx, initCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer initCancel()
	if err := qStore.EnsureCollection(initCtx, cfg.EmbeddingDimension); err != nil {
		logger.Error("Failed to initialize Qdrant collection", "error", err)
		os.Exit(1)
	}

	// 3. Redis conversation history
	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisURL,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	chats := history.NewStore(redisClient, cfg.HistoryLimit, cfg.HistoryTTL)

	// 4. Chunking and ingestion pipeline
	chunker := chunking.NewDocumentChunker(cfg.ChunkPolicies)
	pipe := pipeline.New(chunker, chain, qStore)

	// 5. Retrieval engine
	retr := retrieval.NewRetriever(chain, qStore, cfg.Namespace)

	// 6. LLM and prompt assembly for the chat endpoint
	var llmClient llm.Client
	if cfg.OpenAIAPIKey != "" {
		llmClient = llm.NewOpenAIClient(cfg.OpenAIBaseURL, cfg.OpenAIAPIKey, cfg.ChatModel)
	} else {
		logger.Warn("No API key configured, chat endpoint disabled")
	}

	var promptTemplate string
	if cfg.PromptTemplateFile != "" {
		raw, err := os.ReadFile(cfg.PromptTemplateFile)
		if err != nil {
			logger.Error("Failed to read prompt template", "path", cfg.PromptTemplateFile, "error", err)
			os.Exit(1)
		}
		promptTemplate = string(raw)
	}
	prompter, err := prompt.NewTemplateGenerator(promptTemplate)
	if err != nil {
		logger.Error("Failed to initialize prompt generator", "error", err)
		os.Exit(1)
	}

	ingestOpts := pipeline.Options{
		Namespace: cfg.Namespace,
		BatchSize: cfg.UploadBatchSize,
		Delay:     cfg.UploadDelay,
	}

	// 7. Spool watcher, ingests scraper output as it lands
	watcher, err := source.NewWatcher(func(watchCtx context.Context, path string) error {
		docs, err := source.LoadFile(path)
		if err != nil {
			return err
		}
		if len(docs) == 0 {
			return nil
		}
		_, err = pipe.Run(watchCtx, docs, ingestOpts)
		return err
	})
	if err != nil {
		logger.Error("Failed to create spool watcher", "error", err)
		os.Exit(1)
	}

	if err := watcher.AddPath(cfg.SpoolDir); err != nil {
		logger.Warn("Failed to watch spool directory, auto-ingest disabled",
			"path", cfg.SpoolDir, "error", err)
	} else {
		go func() {
			if err := watcher.Start(ctx); err != nil {
				logger.Error("Spool watcher stopped with error", "error", err)
			}
		}()
	}

	// 8. API server
	srv := api.NewServer(api.Options{
		Port:          cfg.ServerPort,
		Namespace:     cfg.Namespace,
		IngestOptions: ingestOpts,
	}, retr, pipe, qStore, llmClient, prompter, chats)

	logger.Info("All services initialized")

	if err := srv.Start(); err != nil {
		logger.Error("API server failed", "error", err)
		os.Exit(1)
	}
}
