package embeddings

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	apperrors "github.com/mpetrun5/rag-docs/internal/errors"
)

func TestOpenAIProviderEmbedBatch(t *testing.T) {
	t.Run("success preserves input order", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path != "/v1/embeddings" {
				t.Errorf("Wrong path: %s", r.URL.Path)
			}
			if got := r.Header.Get("Authorization"); got != "Bearer test-key" {
				t.Errorf("Wrong auth header: %q", got)
			}

			var req embeddingRequest
			if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
				t.Errorf("Failed to decode request: %v", err)
			}
			if len(req.Input) != 2 {
				t.Errorf("Expected 2 inputs, got %d", len(req.Input))
			}

			// Return data out of order to exercise index-based reassembly.
			json.NewEncoder(w).Encode(embeddingResponse{
				Data: []embeddingData{
					{Index: 1, Embedding: []float32{0, 1}},
					{Index: 0, Embedding: []float32{1, 0}},
				},
			})
		}))
		defer server.Close()

		provider := NewOpenAIProvider(server.URL, "test-key", "text-embedding-3-small")
		vectors, err := provider.EmbedBatch(context.Background(), []string{"first", "second"})
		if err != nil {
			t.Fatalf("Expected no error, got %v", err)
		}
		if len(vectors) != 2 {
			t.Fatalf("Expected 2 vectors, got %d", len(vectors))
		}
		if vectors[0][0] != 1 || vectors[1][1] != 1 {
			t.Errorf("Vectors not reordered by index: %v", vectors)
		}
	})

	t.Run("empty input short-circuits", func(t *testing.T) {
		called := false
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			called = true
		}))
		defer server.Close()

		provider := NewOpenAIProvider(server.URL, "test-key", "text-embedding-3-small")
		vectors, err := provider.EmbedBatch(context.Background(), nil)
		if err != nil {
			t.Fatalf("Expected no error, got %v", err)
		}
		if len(vectors) != 0 {
			t.Errorf("Expected no vectors, got %d", len(vectors))
		}
		if called {
			t.Error("Expected no HTTP request for an empty batch")
		}
	})

	t.Run("count mismatch", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			json.NewEncoder(w).Encode(embeddingResponse{
				Data: []embeddingData{{Index: 0, Embedding: []float32{1}}},
			})
		}))
		defer server.Close()

		provider := NewOpenAIProvider(server.URL, "test-key", "text-embedding-3-small")
		_, err := provider.EmbedBatch(context.Background(), []string{"a", "b"})
		if err == nil {
			t.Fatal("Expected error for count mismatch")
		}
		if !apperrors.Is(err, apperrors.ErrorTypeExternal) {
			t.Errorf("Expected external error, got %v", err)
		}
	})

	t.Run("out-of-range index", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			json.NewEncoder(w).Encode(embeddingResponse{
				Data: []embeddingData{{Index: 5, Embedding: []float32{1}}},
			})
		}))
		defer server.Close()

		provider := NewOpenAIProvider(server.URL, "test-key", "text-embedding-3-small")
		_, err := provider.EmbedBatch(context.Background(), []string{"a"})
		if err == nil {
			t.Fatal("Expected error for out-of-range index")
		}
	})

	t.Run("non-200 status", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "bad key", http.StatusUnauthorized)
		}))
		defer server.Close()

		provider := NewOpenAIProvider(server.URL, "test-key", "text-embedding-3-small")
		_, err := provider.EmbedBatch(context.Background(), []string{"a"})
		if err == nil {
			t.Fatal("Expected error for non-200 status")
		}
		if !apperrors.Is(err, apperrors.ErrorTypeExternal) {
			t.Errorf("Expected external error, got %v", err)
		}
	})
}

func TestOpenAIProviderEmbedQuery(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(embeddingResponse{
			Data: []embeddingData{{Index: 0, Embedding: []float32{0.5, 0.5}}},
		})
	}))
	defer server.Close()

	provider := NewOpenAIProvider(server.URL, "test-key", "text-embedding-3-small")
	vector, err := provider.EmbedQuery(context.Background(), "query text")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if len(vector) != 2 {
		t.Errorf("Expected 2 dimensions, got %d", len(vector))
	}
}
