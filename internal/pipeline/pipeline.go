package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/mpetrun5/rag-docs/internal/domain"
	"github.com/mpetrun5/rag-docs/internal/logger"
)

// Chunker splits documents into retrieval-sized chunks.
type Chunker interface {
	ChunkBatch(docs []domain.Document) []domain.Chunk
}

// Embedder attaches embeddings to chunks.
type Embedder interface {
	EmbedChunks(ctx context.Context, chunks []domain.Chunk) ([]domain.Chunk, error)
	Dimension() int
}

// Uploader persists embedded chunks into the vector index.
type Uploader interface {
	EnsureCollection(ctx context.Context, dimension int) error
	Upsert(ctx context.Context, chunks []domain.Chunk, namespace string) error
	ClearNamespace(ctx context.Context, namespace string) error
}

// Options tunes a single pipeline run.
type Options struct {
	// Namespace the chunks are written into.
	Namespace string
	// ClearFirst deletes the namespace contents before uploading.
	ClearFirst bool
	// BatchSize is the number of vectors per upsert call.
	BatchSize int
	// Delay is the pause between upsert calls.
	Delay time.Duration
}

// Pipeline runs the chunk, embed, upload sequence for a document batch.
// A failing document or upload batch is counted and skipped; the run
// continues with the rest.
type Pipeline struct {
	chunker  Chunker
	embedder Embedder
	uploader Uploader
}

func New(chunker Chunker, embedder Embedder, uploader Uploader) *Pipeline {
	return &Pipeline{
		chunker:  chunker,
		embedder: embedder,
		uploader: uploader,
	}
}

// Run ingests a document batch and reports itemized counts. The returned
// result always describes what actually happened; only setup failures
// (collection creation, embedding contract violations) abort the run.
func (p *Pipeline) Run(ctx context.Context, docs []domain.Document, opts Options) (*domain.PipelineResult, error) {
	start := time.Now()

	result := &domain.PipelineResult{
		Status:    domain.StatusSuccess,
		Namespace: opts.Namespace,
	}

	if len(docs) == 0 {
		result.Message = "no documents to process"
		result.ProcessingSeconds = time.Since(start).Seconds()
		return result, nil
	}

	if err := p.uploader.EnsureCollection(ctx, p.embedder.Dimension()); err != nil {
		return nil, fmt.Errorf("ensuring collection: %w", err)
	}

	if opts.ClearFirst && opts.Namespace != "" {
		if err := p.uploader.ClearNamespace(ctx, opts.Namespace); err != nil {
			return nil, fmt.Errorf("clearing namespace %q: %w", opts.Namespace, err)
		}
		logger.Info("Cleared namespace before ingest", "namespace", opts.Namespace)
	}

	chunks := p.chunker.ChunkBatch(docs)
	result.DocumentsProcessed = len(docs)
	result.ChunksCreated = len(chunks)

	if len(chunks) == 0 {
		result.Message = "no chunks produced from document batch"
		result.ProcessingSeconds = time.Since(start).Seconds()
		return result, nil
	}

	embedded, err := p.embedder.EmbedChunks(ctx, chunks)
	if err != nil {
		return nil, fmt.Errorf("embedding chunks: %w", err)
	}

	uploaded, failed := p.upload(ctx, embedded, opts)
	result.VectorsUploaded = uploaded
	result.UploadErrors = failed
	result.ProcessingSeconds = time.Since(start).Seconds()

	switch {
	case uploaded == 0 && failed > 0:
		result.Status = domain.StatusError
		result.Message = "all upload batches failed"
	case failed > 0:
		result.Message = fmt.Sprintf("uploaded with %d failed vectors", failed)
	default:
		result.Message = fmt.Sprintf("indexed %d vectors from %d documents", uploaded, len(docs))
	}

	logger.Info("Pipeline run finished",
		"documents", result.DocumentsProcessed,
		"chunks", result.ChunksCreated,
		"uploaded", result.VectorsUploaded,
		"failed", result.UploadErrors,
		"namespace", opts.Namespace,
		"seconds", result.ProcessingSeconds)

	return result, nil
}

// upload writes chunks in fixed-size batches with a pause between calls so
// the index is not hammered. A failed batch counts its vectors as errors and
// the loop moves on.
func (p *Pipeline) upload(ctx context.Context, chunks []domain.Chunk, opts Options) (uploaded, failed int) {
	batchSize := opts.BatchSize
	if batchSize <= 0 {
		batchSize = 100
	}

	for start := 0; start < len(chunks); start += batchSize {
		end := min(start+batchSize, len(chunks))
		batch := chunks[start:end]

		if err := p.uploader.Upsert(ctx, batch, opts.Namespace); err != nil {
			logger.Error("Upsert batch failed",
				"batch_start", start, "batch_size", len(batch), "error", err)
			failed += len(batch)
			continue
		}
		uploaded += len(batch)

		if opts.Delay > 0 && end < len(chunks) {
			select {
			case <-ctx.Done():
				failed += len(chunks) - end
				logger.Warn("Upload interrupted", "remaining", len(chunks)-end)
				return uploaded, failed
			case <-time.After(opts.Delay):
			}
		}
	}
	return uploaded, failed
}
