package embeddings

import "context"

// Provider generates fixed-length embedding vectors for batches of text.
// Implementations may return vectors of a different length than the index
// dimension; the chain normalizes shape at its boundary.
type Provider interface {
	Name() string
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)
}

// QueryEmbedder produces a single query vector using the same vector space
// as ingestion. Mixing embedding sources between ingestion and query is
// unsupported: the spaces differ.
type QueryEmbedder interface {
	EmbedQuery(ctx context.Context, text string) ([]float32, error)
}
