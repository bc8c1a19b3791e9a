package retrieval

import (
	"context"

	"github.com/mpetrun5/rag-docs/internal/domain"
	"github.com/mpetrun5/rag-docs/internal/embeddings"
	"github.com/mpetrun5/rag-docs/internal/logger"
)

// VectorSearcher is the similarity-query slice of the vector index.
type VectorSearcher interface {
	Query(ctx context.Context, vector []float32, topK int, filter *domain.Filter, namespace string) ([]domain.SearchResult, error)
}

// DefaultMaxResults applies when a request leaves max_results unset.
const DefaultMaxResults = 5

// Retriever answers free-text queries against the vector index. Every
// operation returns a well-formed SearchResponse; embedding and index errors
// become structured error envelopes, never propagated panics.
type Retriever struct {
	embedder  embeddings.QueryEmbedder
	index     VectorSearcher
	namespace string
}

// NewRetriever creates a retriever bound to one index namespace. The
// embedder must share the ingestion vector space.
func NewRetriever(embedder embeddings.QueryEmbedder, index VectorSearcher, namespace string) *Retriever {
	return &Retriever{
		embedder:  embedder,
		index:     index,
		namespace: namespace,
	}
}

// SearchOptions carries the caller-supplied metadata constraints.
type SearchOptions struct {
	ContentType string
	Source      string
	Extra       *domain.Filter
}

// Search embeds the query, merges filters, and returns formatted ranked
// results.
func (r *Retriever) Search(ctx context.Context, query string, maxResults int, opts SearchOptions) domain.SearchResponse {
	if maxResults <= 0 {
		maxResults = DefaultMaxResults
	}

	filter := &domain.Filter{}
	if opts.ContentType != "" {
		filter.Match("content_type", opts.ContentType)
	}
	if opts.Source != "" {
		filter.Match("source", opts.Source)
	}
	if opts.Extra != nil {
		filter.Conditions = append(filter.Conditions, opts.Extra.Conditions...)
	}

	raw, err := r.query(ctx, query, maxResults, filter)
	if err != nil {
		logger.Error("Search failed", "query", query, "error", err)
		return errorResponse(query, err)
	}

	results := FormatResults(raw)
	return domain.SearchResponse{
		Query:          query,
		Results:        results,
		TotalResults:   len(results),
		FiltersApplied: filter.Fields(),
		Status:         domain.StatusSuccess,
	}
}

// query is the shared embed-then-search core used by all query variants.
func (r *Retriever) query(ctx context.Context, text string, topK int, filter *domain.Filter) ([]domain.SearchResult, error) {
	vector, err := r.embedder.EmbedQuery(ctx, text)
	if err != nil {
		return nil, err
	}
	if filter.IsEmpty() {
		filter = nil
	}
	return r.index.Query(ctx, vector, topK, filter, r.namespace)
}

func errorResponse(query string, err error) domain.SearchResponse {
	return domain.SearchResponse{
		Query:   query,
		Results: []domain.FormattedResult{},
		Status:  domain.StatusError,
		Error:   err.Error(),
	}
}
