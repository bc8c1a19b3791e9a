package embeddings

import (
	"context"
	"fmt"

	"github.com/mpetrun5/rag-docs/internal/domain"
	"github.com/mpetrun5/rag-docs/internal/errors"
	"github.com/mpetrun5/rag-docs/internal/logger"
)

// Chain applies the layered embedding degradation order: external API,
// statistical fallback, random fallback. The dimension postcondition is
// checked once, here, after the chosen provider returns. Every vector that
// leaves the chain has exactly Dimension components or the whole batch is
// rejected with a contract error.
type Chain struct {
	api         Provider // nil when no API key is configured
	statistical *TFIDFProvider
	random      *RandomProvider
	dim         int
	batchSize   int
}

// NewChain wires the provider chain. api may be nil; statistical and random
// must not be.
func NewChain(api Provider, statistical *TFIDFProvider, random *RandomProvider, dim, batchSize int) *Chain {
	if batchSize <= 0 {
		batchSize = 100
	}
	return &Chain{
		api:         api,
		statistical: statistical,
		random:      random,
		dim:         dim,
		batchSize:   batchSize,
	}
}

// Dimension returns the target vector length.
func (c *Chain) Dimension() int { return c.dim }

// EmbedChunks attaches an embedding to every chunk. An API error degrades
// that batch to random vectors; a statistical failure degrades the whole
// corpus to random vectors. Chunks are never dropped for embedding reasons.
func (c *Chain) EmbedChunks(ctx context.Context, chunks []domain.Chunk) ([]domain.Chunk, error) {
	if len(chunks) == 0 {
		return chunks, nil
	}

	texts := make([]string, len(chunks))
	for i, ch := range chunks {
		texts[i] = ch.Text
	}

	var vectors [][]float32
	switch {
	case c.api != nil:
		vectors = c.embedViaAPI(ctx, texts)
	default:
		batch, err := c.statistical.EmbedBatch(ctx, texts)
		if err != nil {
			logger.Warn("Statistical embedding unavailable, using random fallback",
				"reason", err, "count", len(texts))
			batch, _ = c.random.EmbedBatch(ctx, texts)
		}
		vectors = batch
	}

	// Dimension normalization and postcondition, once, at the boundary.
	for i, vec := range vectors {
		if len(vec) != c.dim {
			logger.Warn("Embedding has wrong dimensionality, adjusting",
				"got", len(vec), "want", c.dim, "chunk", chunks[i].ID)
			vectors[i] = EnsureDimension(vec, c.dim)
		}
	}
	for i, vec := range vectors {
		if len(vec) != c.dim {
			return nil, errors.ContractError(
				fmt.Sprintf("embedding %d has %d dimensions after normalization, want %d", i, len(vec), c.dim))
		}
	}

	out := make([]domain.Chunk, len(chunks))
	for i, ch := range chunks {
		ch.Embedding = vectors[i]
		out[i] = ch
	}
	return out, nil
}

// embedViaAPI walks the corpus in fixed-size batches. A failed batch is
// degraded to random vectors; other batches are unaffected.
func (c *Chain) embedViaAPI(ctx context.Context, texts []string) [][]float32 {
	vectors := make([][]float32, 0, len(texts))
	for start := 0; start < len(texts); start += c.batchSize {
		end := min(start+c.batchSize, len(texts))
		batch, err := c.api.EmbedBatch(ctx, texts[start:end])
		if err != nil {
			logger.Error("Embedding API batch failed, using random fallback",
				"provider", c.api.Name(), "batch_start", start, "error", err)
			batch, _ = c.random.EmbedBatch(ctx, texts[start:end])
		}
		vectors = append(vectors, batch...)
	}
	return vectors
}

// EmbedQuery produces a query vector in the same space as ingestion: the API
// when configured, otherwise the fitted statistical model. With neither
// available the error is returned for the caller to surface as a structured
// error response.
func (c *Chain) EmbedQuery(ctx context.Context, text string) ([]float32, error) {
	var (
		vec []float32
		err error
	)

	switch {
	case c.api != nil:
		if qe, ok := c.api.(QueryEmbedder); ok {
			vec, err = qe.EmbedQuery(ctx, text)
		} else {
			var batch [][]float32
			batch, err = c.api.EmbedBatch(ctx, []string{text})
			if err == nil {
				vec = batch[0]
			}
		}
		if err != nil && c.statistical.Fitted() {
			logger.Warn("Query embedding API failed, using fitted statistical model", "error", err)
			vec, err = c.statistical.Transform(ctx, text)
		}
	case c.statistical.Fitted():
		vec, err = c.statistical.Transform(ctx, text)
	default:
		return nil, errors.New(errors.ErrorTypeExternal, "no embedding provider available for queries")
	}

	if err != nil {
		return nil, err
	}

	if len(vec) != c.dim {
		logger.Warn("Query embedding has wrong dimensionality, adjusting", "got", len(vec), "want", c.dim)
		vec = EnsureDimension(vec, c.dim)
	}
	return vec, nil
}
