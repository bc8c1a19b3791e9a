package retrieval

import (
	"strings"
	"testing"

	"github.com/mpetrun5/rag-docs/internal/domain"
)

func hit(id string, score float32, md map[string]any) domain.SearchResult {
	return domain.SearchResult{ID: id, Score: score, Metadata: md}
}

func TestFormatResults(t *testing.T) {
	t.Run("full metadata", func(t *testing.T) {
		results := FormatResults([]domain.SearchResult{
			hit("c1", 0.87654, map[string]any{
				"text_content":      "The transform moves objects.",
				"original_title":    "Transform",
				"original_url":      "https://docs.example.com/transform",
				"content_type":      "api_reference",
				"has_code_in_chunk": true,
				"source":            "example_docs",
				"chunk_index":       1,
				"total_chunks":      3,
			}),
		})
		if len(results) != 1 {
			t.Fatalf("Expected 1 result, got %d", len(results))
		}

		r := results[0]
		if r.Content != "The transform moves objects." {
			t.Errorf("Wrong content: %q", r.Content)
		}
		if r.Title != "Transform" || r.SourceURL != "https://docs.example.com/transform" {
			t.Error("Identity fields wrong")
		}
		if r.RelevanceScore != 0.877 {
			t.Errorf("Expected score rounded to 0.877, got %v", r.RelevanceScore)
		}
		if !r.HasCodeExample {
			t.Error("Expected code flag set")
		}
		if r.ChunkInfo.ChunkIndex != 1 || r.ChunkInfo.TotalChunks != 3 {
			t.Errorf("Wrong chunk info: %+v", r.ChunkInfo)
		}
	})

	t.Run("duplicate ids keep the first hit", func(t *testing.T) {
		results := FormatResults([]domain.SearchResult{
			hit("dup", 0.9, map[string]any{"text_content": "first"}),
			hit("dup", 0.5, map[string]any{"text_content": "second"}),
			hit("other", 0.4, map[string]any{"text_content": "third"}),
		})
		if len(results) != 2 {
			t.Fatalf("Expected 2 results after dedup, got %d", len(results))
		}
		if results[0].Content != "first" {
			t.Errorf("Expected the higher-ranked duplicate kept, got %q", results[0].Content)
		}
	})

	t.Run("preview fallback chain", func(t *testing.T) {
		t.Run("text_preview", func(t *testing.T) {
			results := FormatResults([]domain.SearchResult{
				hit("p", 0.5, map[string]any{"text_preview": "preview text"}),
			})
			if results[0].Content != "preview text" {
				t.Errorf("Expected preview fallback, got %q", results[0].Content)
			}
		})

		t.Run("synthesized", func(t *testing.T) {
			results := FormatResults([]domain.SearchResult{
				hit("s", 0.5, map[string]any{
					"original_title": "Rigidbody",
					"content_type":   "guide",
					"original_url":   "https://docs.example.com/rigidbody",
				}),
			})
			content := results[0].Content
			if !strings.Contains(content, "Rigidbody") || !strings.Contains(content, "guide") {
				t.Errorf("Synthesized preview missing identity: %q", content)
			}
			if !strings.Contains(content, "https://docs.example.com/rigidbody") {
				t.Errorf("Synthesized preview missing url: %q", content)
			}
		})
	})

	t.Run("long content capped", func(t *testing.T) {
		results := FormatResults([]domain.SearchResult{
			hit("l", 0.5, map[string]any{"text_content": strings.Repeat("z", 900)}),
		})
		if len(results[0].Content) != previewCap+3 {
			t.Errorf("Expected %d chars, got %d", previewCap+3, len(results[0].Content))
		}
		if !strings.HasSuffix(results[0].Content, "...") {
			t.Error("Expected truncation marker")
		}
	})

	t.Run("defaults for sparse metadata", func(t *testing.T) {
		results := FormatResults([]domain.SearchResult{
			hit("d", 0.5, map[string]any{"text_content": "something"}),
		})
		r := results[0]
		if r.Title != "Documentation" {
			t.Errorf("Expected default title, got %q", r.Title)
		}
		if r.ContentType != domain.ContentTypeGeneral {
			t.Errorf("Expected default content type, got %q", r.ContentType)
		}
		if r.ChunkInfo.TotalChunks != 1 {
			t.Errorf("Expected default total_chunks 1, got %d", r.ChunkInfo.TotalChunks)
		}
	})

	t.Run("numeric widening tolerated", func(t *testing.T) {
		// Payload round-trips widen ints.
		results := FormatResults([]domain.SearchResult{
			hit("w", 0.5, map[string]any{
				"text_content": "x",
				"chunk_index":  int64(2),
				"total_chunks": float64(4),
			}),
		})
		if results[0].ChunkInfo.ChunkIndex != 2 || results[0].ChunkInfo.TotalChunks != 4 {
			t.Errorf("Wrong chunk info from widened values: %+v", results[0].ChunkInfo)
		}
	})

	t.Run("empty input", func(t *testing.T) {
		results := FormatResults(nil)
		if results == nil || len(results) != 0 {
			t.Errorf("Expected empty non-nil slice, got %v", results)
		}
	})
}
