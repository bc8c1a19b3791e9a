package retrieval

import (
	"context"
	"errors"
	"testing"

	"github.com/mpetrun5/rag-docs/internal/domain"
)

// stubEmbedder implements embeddings.QueryEmbedder
type stubEmbedder struct {
	embedQuery func(ctx context.Context, text string) ([]float32, error)
}

func (s *stubEmbedder) EmbedQuery(ctx context.Context, text string) ([]float32, error) {
	if s.embedQuery != nil {
		return s.embedQuery(ctx, text)
	}
	return []float32{0.1, 0.2}, nil
}

// stubIndex implements VectorSearcher
type stubIndex struct {
	query func(ctx context.Context, vector []float32, topK int, filter *domain.Filter, namespace string) ([]domain.SearchResult, error)
}

func (s *stubIndex) Query(ctx context.Context, vector []float32, topK int, filter *domain.Filter, namespace string) ([]domain.SearchResult, error) {
	if s.query != nil {
		return s.query(ctx, vector, topK, filter, namespace)
	}
	return nil, nil
}

func resultWith(id, title, url, contentType string) domain.SearchResult {
	return domain.SearchResult{
		ID:    id,
		Score: 0.8,
		Metadata: map[string]any{
			"text_content":   "content for " + id,
			"original_title": title,
			"original_url":   url,
			"content_type":   contentType,
		},
	}
}

func TestSearch(t *testing.T) {
	ctx := context.Background()

	t.Run("success with filters", func(t *testing.T) {
		var gotFilter *domain.Filter
		var gotTopK int
		index := &stubIndex{query: func(ctx context.Context, vector []float32, topK int, filter *domain.Filter, namespace string) ([]domain.SearchResult, error) {
			gotFilter, gotTopK = filter, topK
			if namespace != "unity_docs" {
				t.Errorf("Wrong namespace: %q", namespace)
			}
			return []domain.SearchResult{resultWith("a", "Transform", "https://x/transform", "guide")}, nil
		}}

		r := NewRetriever(&stubEmbedder{}, index, "unity_docs")
		resp := r.Search(ctx, "how do transforms work", 7, SearchOptions{ContentType: "guide", Source: "example_docs"})

		if resp.Status != domain.StatusSuccess {
			t.Fatalf("Expected success, got %+v", resp)
		}
		if resp.TotalResults != 1 || len(resp.Results) != 1 {
			t.Errorf("Wrong result count: %+v", resp)
		}
		if gotTopK != 7 {
			t.Errorf("Expected topK 7, got %d", gotTopK)
		}
		if gotFilter == nil || len(gotFilter.Conditions) != 2 {
			t.Errorf("Expected two filter conditions, got %+v", gotFilter)
		}
		if resp.FiltersApplied["content_type"] != "guide" || resp.FiltersApplied["source"] != "example_docs" {
			t.Errorf("Filters not reported: %+v", resp.FiltersApplied)
		}
	})

	t.Run("default max results", func(t *testing.T) {
		index := &stubIndex{query: func(ctx context.Context, vector []float32, topK int, filter *domain.Filter, namespace string) ([]domain.SearchResult, error) {
			if topK != DefaultMaxResults {
				t.Errorf("Expected default topK %d, got %d", DefaultMaxResults, topK)
			}
			return nil, nil
		}}
		NewRetriever(&stubEmbedder{}, index, "").Search(ctx, "q", 0, SearchOptions{})
	})

	t.Run("unconstrained search sends nil filter", func(t *testing.T) {
		index := &stubIndex{query: func(ctx context.Context, vector []float32, topK int, filter *domain.Filter, namespace string) ([]domain.SearchResult, error) {
			if filter != nil {
				t.Errorf("Expected nil filter, got %+v", filter)
			}
			return nil, nil
		}}
		NewRetriever(&stubEmbedder{}, index, "").Search(ctx, "q", 5, SearchOptions{})
	})

	t.Run("embedding failure becomes structured error", func(t *testing.T) {
		embedder := &stubEmbedder{embedQuery: func(ctx context.Context, text string) ([]float32, error) {
			return nil, errors.New("no provider")
		}}
		resp := NewRetriever(embedder, &stubIndex{}, "").Search(ctx, "q", 5, SearchOptions{})
		if resp.Status != domain.StatusError {
			t.Fatalf("Expected error status, got %+v", resp)
		}
		if resp.Error == "" {
			t.Error("Expected error message in envelope")
		}
		if resp.Results == nil || len(resp.Results) != 0 {
			t.Error("Expected empty non-nil results on error")
		}
	})

	t.Run("index failure becomes structured error", func(t *testing.T) {
		index := &stubIndex{query: func(ctx context.Context, vector []float32, topK int, filter *domain.Filter, namespace string) ([]domain.SearchResult, error) {
			return nil, errors.New("index down")
		}}
		resp := NewRetriever(&stubEmbedder{}, index, "").Search(ctx, "q", 5, SearchOptions{})
		if resp.Status != domain.StatusError {
			t.Fatalf("Expected error status, got %+v", resp)
		}
	})
}

func TestCodeExamples(t *testing.T) {
	ctx := context.Background()

	t.Run("over-fetches and narrows by api name", func(t *testing.T) {
		index := &stubIndex{query: func(ctx context.Context, vector []float32, topK int, filter *domain.Filter, namespace string) ([]domain.SearchResult, error) {
			if topK != 6 {
				t.Errorf("Expected over-fetch of 6 for max 3, got %d", topK)
			}
			if filter == nil || len(filter.Conditions) != 1 || filter.Conditions[0].Field != "has_code_in_chunk" {
				t.Errorf("Expected code filter, got %+v", filter)
			}
			return []domain.SearchResult{
				resultWith("1", "Rigidbody overview", "https://x/rigidbody", "api_reference"),
				resultWith("2", "Audio basics", "https://x/audio", "guide"),
				resultWith("3", "Scripting rigidbody forces", "https://x/forces-rigidbody", "code_example"),
			}, nil
		}}

		resp := NewRetriever(&stubEmbedder{}, index, "").CodeExamples(ctx, "Rigidbody", 3)
		if resp.Status != domain.StatusSuccess {
			t.Fatalf("Expected success, got %+v", resp)
		}
		if resp.APIName != "Rigidbody" {
			t.Errorf("Wrong api name: %q", resp.APIName)
		}
		if resp.TotalResults != 2 {
			t.Fatalf("Expected 2 matching hits, got %d", resp.TotalResults)
		}
	})

	t.Run("respects max after narrowing", func(t *testing.T) {
		index := &stubIndex{query: func(ctx context.Context, vector []float32, topK int, filter *domain.Filter, namespace string) ([]domain.SearchResult, error) {
			return []domain.SearchResult{
				resultWith("1", "Rigidbody a", "https://x/1", "code_example"),
				resultWith("2", "Rigidbody b", "https://x/2", "code_example"),
				resultWith("3", "Rigidbody c", "https://x/3", "code_example"),
			}, nil
		}}
		resp := NewRetriever(&stubEmbedder{}, index, "").CodeExamples(ctx, "rigidbody", 2)
		if resp.TotalResults != 2 {
			t.Errorf("Expected max 2 results, got %d", resp.TotalResults)
		}
	})

	t.Run("error envelope carries api name", func(t *testing.T) {
		embedder := &stubEmbedder{embedQuery: func(ctx context.Context, text string) ([]float32, error) {
			return nil, errors.New("down")
		}}
		resp := NewRetriever(embedder, &stubIndex{}, "").CodeExamples(ctx, "Rigidbody", 3)
		if resp.Status != domain.StatusError || resp.APIName != "Rigidbody" {
			t.Errorf("Unexpected envelope: %+v", resp)
		}
	})
}

func TestRelatedConcepts(t *testing.T) {
	ctx := context.Background()

	index := &stubIndex{query: func(ctx context.Context, vector []float32, topK int, filter *domain.Filter, namespace string) ([]domain.SearchResult, error) {
		if filter == nil || len(filter.Conditions) != 1 {
			t.Fatalf("Expected one condition, got %+v", filter)
		}
		anyOf := filter.Conditions[0].AnyOf
		if len(anyOf) != 3 {
			t.Errorf("Expected three content types, got %v", anyOf)
		}
		return []domain.SearchResult{resultWith("1", "Physics", "https://x/physics", "guide")}, nil
	}}

	resp := NewRetriever(&stubEmbedder{}, index, "").RelatedConcepts(ctx, "physics", 5)
	if resp.Status != domain.StatusSuccess || resp.Topic != "physics" || resp.TotalResults != 1 {
		t.Errorf("Unexpected response: %+v", resp)
	}
}

func TestByCategory(t *testing.T) {
	ctx := context.Background()

	t.Run("category filter applied", func(t *testing.T) {
		index := &stubIndex{query: func(ctx context.Context, vector []float32, topK int, filter *domain.Filter, namespace string) ([]domain.SearchResult, error) {
			if filter == nil || filter.Conditions[0].Field != "category" {
				t.Errorf("Expected category filter, got %+v", filter)
			}
			return []domain.SearchResult{resultWith("1", "Scripting", "https://x/scripting", "guide")}, nil
		}}

		resp := NewRetriever(&stubEmbedder{}, index, "").ByCategory(ctx, "coroutines", "scripting", 5)
		if resp.Status != domain.StatusSuccess || resp.FilterRelaxed {
			t.Errorf("Unexpected response: %+v", resp)
		}
		if resp.Category != "scripting" {
			t.Errorf("Wrong category: %q", resp.Category)
		}
	})

	t.Run("relaxes filter on zero hits", func(t *testing.T) {
		var calls int
		var secondQuery string
		embedder := &stubEmbedder{embedQuery: func(ctx context.Context, text string) ([]float32, error) {
			calls++
			secondQuery = text
			return []float32{0.1}, nil
		}}
		index := &stubIndex{query: func(ctx context.Context, vector []float32, topK int, filter *domain.Filter, namespace string) ([]domain.SearchResult, error) {
			if filter != nil {
				return nil, nil // category filter finds nothing
			}
			return []domain.SearchResult{resultWith("1", "Scripting", "https://x/scripting", "guide")}, nil
		}}

		resp := NewRetriever(embedder, index, "").ByCategory(ctx, "coroutines", "scripting", 5)
		if resp.Status != domain.StatusSuccess {
			t.Fatalf("Expected success, got %+v", resp)
		}
		if !resp.FilterRelaxed {
			t.Error("Expected FilterRelaxed flag")
		}
		if resp.TotalResults != 1 {
			t.Errorf("Expected relaxed retry hits, got %d", resp.TotalResults)
		}
		if calls != 2 {
			t.Errorf("Expected two embed calls, got %d", calls)
		}
		if secondQuery != "coroutines scripting" {
			t.Errorf("Expected category folded into the retry query, got %q", secondQuery)
		}
	})

	t.Run("no relaxation flag when hits found", func(t *testing.T) {
		index := &stubIndex{query: func(ctx context.Context, vector []float32, topK int, filter *domain.Filter, namespace string) ([]domain.SearchResult, error) {
			return []domain.SearchResult{resultWith("1", "T", "https://x/t", "guide")}, nil
		}}
		resp := NewRetriever(&stubEmbedder{}, index, "").ByCategory(ctx, "q", "c", 5)
		if resp.FilterRelaxed {
			t.Error("FilterRelaxed set even though the filter matched")
		}
	})
}

func TestContextualDocs(t *testing.T) {
	ctx := context.Background()

	t.Run("known level enhances the query", func(t *testing.T) {
		var embedded string
		embedder := &stubEmbedder{embedQuery: func(ctx context.Context, text string) ([]float32, error) {
			embedded = text
			return []float32{0.1}, nil
		}}

		resp := NewRetriever(embedder, &stubIndex{}, "").ContextualDocs(ctx, "lighting", domain.AudienceBeginner, 5)
		if resp.Status != domain.StatusSuccess {
			t.Fatalf("Expected success, got %+v", resp)
		}
		if embedded != "lighting getting started tutorial basics" {
			t.Errorf("Unexpected enhanced query: %q", embedded)
		}
		if resp.Query != "lighting" || resp.ContextLevel != domain.AudienceBeginner {
			t.Errorf("Envelope fields wrong: %+v", resp)
		}
	})

	t.Run("unknown level leaves the query unchanged", func(t *testing.T) {
		var embedded string
		embedder := &stubEmbedder{embedQuery: func(ctx context.Context, text string) ([]float32, error) {
			embedded = text
			return []float32{0.1}, nil
		}}

		NewRetriever(embedder, &stubIndex{}, "").ContextualDocs(ctx, "lighting", "wizard", 5)
		if embedded != "lighting" {
			t.Errorf("Expected unmodified query, got %q", embedded)
		}
	})
}
