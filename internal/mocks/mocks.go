package mocks

import (
	"context"

	"github.com/mpetrun5/rag-docs/internal/domain"
	"github.com/mpetrun5/rag-docs/internal/history"
	"github.com/mpetrun5/rag-docs/internal/llm"
	"github.com/mpetrun5/rag-docs/internal/pipeline"
	"github.com/mpetrun5/rag-docs/internal/retrieval"
)

// MockQueryEmbedder implements embeddings.QueryEmbedder
type MockQueryEmbedder struct {
	EmbedQueryFunc func(ctx context.Context, text string) ([]float32, error)
}

func (m *MockQueryEmbedder) EmbedQuery(ctx context.Context, text string) ([]float32, error) {
	if m.EmbedQueryFunc != nil {
		return m.EmbedQueryFunc(ctx, text)
	}
	return []float32{}, nil
}

// MockProvider implements embeddings.Provider
type MockProvider struct {
	NameFunc       func() string
	EmbedBatchFunc func(ctx context.Context, texts []string) ([][]float32, error)
}

func (m *MockProvider) Name() string {
	if m.NameFunc != nil {
		return m.NameFunc()
	}
	return "mock"
}

func (m *MockProvider) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	if m.EmbedBatchFunc != nil {
		return m.EmbedBatchFunc(ctx, texts)
	}
	return make([][]float32, len(texts)), nil
}

// MockVectorSearcher implements retrieval.VectorSearcher
type MockVectorSearcher struct {
	QueryFunc func(ctx context.Context, vector []float32, topK int, filter *domain.Filter, namespace string) ([]domain.SearchResult, error)
}

func (m *MockVectorSearcher) Query(ctx context.Context, vector []float32, topK int, filter *domain.Filter, namespace string) ([]domain.SearchResult, error) {
	if m.QueryFunc != nil {
		return m.QueryFunc(ctx, vector, topK, filter, namespace)
	}
	return nil, nil
}

// MockChunker implements pipeline.Chunker
type MockChunker struct {
	ChunkBatchFunc func(docs []domain.Document) []domain.Chunk
}

func (m *MockChunker) ChunkBatch(docs []domain.Document) []domain.Chunk {
	if m.ChunkBatchFunc != nil {
		return m.ChunkBatchFunc(docs)
	}
	return nil
}

// MockEmbedder implements pipeline.Embedder
type MockEmbedder struct {
	EmbedChunksFunc func(ctx context.Context, chunks []domain.Chunk) ([]domain.Chunk, error)
	DimensionFunc   func() int
}

func (m *MockEmbedder) EmbedChunks(ctx context.Context, chunks []domain.Chunk) ([]domain.Chunk, error) {
	if m.EmbedChunksFunc != nil {
		return m.EmbedChunksFunc(ctx, chunks)
	}
	return chunks, nil
}

func (m *MockEmbedder) Dimension() int {
	if m.DimensionFunc != nil {
		return m.DimensionFunc()
	}
	return 8
}

// MockUploader implements pipeline.Uploader
type MockUploader struct {
	EnsureCollectionFunc func(ctx context.Context, dimension int) error
	UpsertFunc           func(ctx context.Context, chunks []domain.Chunk, namespace string) error
	ClearNamespaceFunc   func(ctx context.Context, namespace string) error
}

func (m *MockUploader) EnsureCollection(ctx context.Context, dimension int) error {
	if m.EnsureCollectionFunc != nil {
		return m.EnsureCollectionFunc(ctx, dimension)
	}
	return nil
}

func (m *MockUploader) Upsert(ctx context.Context, chunks []domain.Chunk, namespace string) error {
	if m.UpsertFunc != nil {
		return m.UpsertFunc(ctx, chunks, namespace)
	}
	return nil
}

func (m *MockUploader) ClearNamespace(ctx context.Context, namespace string) error {
	if m.ClearNamespaceFunc != nil {
		return m.ClearNamespaceFunc(ctx, namespace)
	}
	return nil
}

// MockSearcher implements api.Searcher
type MockSearcher struct {
	SearchFunc          func(ctx context.Context, query string, maxResults int, opts retrieval.SearchOptions) domain.SearchResponse
	CodeExamplesFunc    func(ctx context.Context, apiName string, maxResults int) domain.SearchResponse
	RelatedConceptsFunc func(ctx context.Context, topic string, maxResults int) domain.SearchResponse
	ByCategoryFunc      func(ctx context.Context, query, category string, maxResults int) domain.SearchResponse
	ContextualDocsFunc  func(ctx context.Context, query, level string, maxResults int) domain.SearchResponse
}

func (m *MockSearcher) Search(ctx context.Context, query string, maxResults int, opts retrieval.SearchOptions) domain.SearchResponse {
	if m.SearchFunc != nil {
		return m.SearchFunc(ctx, query, maxResults, opts)
	}
	return domain.SearchResponse{Status: domain.StatusSuccess}
}

func (m *MockSearcher) CodeExamples(ctx context.Context, apiName string, maxResults int) domain.SearchResponse {
	if m.CodeExamplesFunc != nil {
		return m.CodeExamplesFunc(ctx, apiName, maxResults)
	}
	return domain.SearchResponse{Status: domain.StatusSuccess}
}

func (m *MockSearcher) RelatedConcepts(ctx context.Context, topic string, maxResults int) domain.SearchResponse {
	if m.RelatedConceptsFunc != nil {
		return m.RelatedConceptsFunc(ctx, topic, maxResults)
	}
	return domain.SearchResponse{Status: domain.StatusSuccess}
}

func (m *MockSearcher) ByCategory(ctx context.Context, query, category string, maxResults int) domain.SearchResponse {
	if m.ByCategoryFunc != nil {
		return m.ByCategoryFunc(ctx, query, category, maxResults)
	}
	return domain.SearchResponse{Status: domain.StatusSuccess}
}

func (m *MockSearcher) ContextualDocs(ctx context.Context, query, level string, maxResults int) domain.SearchResponse {
	if m.ContextualDocsFunc != nil {
		return m.ContextualDocsFunc(ctx, query, level, maxResults)
	}
	return domain.SearchResponse{Status: domain.StatusSuccess}
}

// MockIngester implements api.Ingester
type MockIngester struct {
	RunFunc func(ctx context.Context, docs []domain.Document, opts pipeline.Options) (*domain.PipelineResult, error)
}

func (m *MockIngester) Run(ctx context.Context, docs []domain.Document, opts pipeline.Options) (*domain.PipelineResult, error) {
	if m.RunFunc != nil {
		return m.RunFunc(ctx, docs, opts)
	}
	return &domain.PipelineResult{Status: domain.StatusSuccess}, nil
}

// MockStatsProvider implements api.StatsProvider
type MockStatsProvider struct {
	StatsFunc func(ctx context.Context, namespaces ...string) (*domain.IndexStats, error)
}

func (m *MockStatsProvider) Stats(ctx context.Context, namespaces ...string) (*domain.IndexStats, error) {
	if m.StatsFunc != nil {
		return m.StatsFunc(ctx, namespaces...)
	}
	return &domain.IndexStats{}, nil
}

// MockLLM implements llm.Client
type MockLLM struct {
	GenerateFunc func(ctx context.Context, messages []llm.ChatMessage) (string, error)
}

func (m *MockLLM) Generate(ctx context.Context, messages []llm.ChatMessage) (string, error) {
	if m.GenerateFunc != nil {
		return m.GenerateFunc(ctx, messages)
	}
	return "", nil
}

// MockPromptBuilder implements api.PromptBuilder
type MockPromptBuilder struct {
	GenerateFunc func(ctx context.Context, query string, results []domain.FormattedResult, conversation []history.Message) (string, error)
}

func (m *MockPromptBuilder) Generate(ctx context.Context, query string, results []domain.FormattedResult, conversation []history.Message) (string, error) {
	if m.GenerateFunc != nil {
		return m.GenerateFunc(ctx, query, results, conversation)
	}
	return "", nil
}

// MockChatStore implements api.ChatStore
type MockChatStore struct {
	AppendFunc func(ctx context.Context, sessionID, role, content string) (string, error)
	RecentFunc func(ctx context.Context, sessionID string, n int) ([]history.Message, error)
}

func (m *MockChatStore) Append(ctx context.Context, sessionID, role, content string) (string, error) {
	if m.AppendFunc != nil {
		return m.AppendFunc(ctx, sessionID, role, content)
	}
	return "id", nil
}

func (m *MockChatStore) Recent(ctx context.Context, sessionID string, n int) ([]history.Message, error) {
	if m.RecentFunc != nil {
		return m.RecentFunc(ctx, sessionID, n)
	}
	return nil, nil
}
