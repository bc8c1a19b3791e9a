package chunking

import (
	"regexp"
	"testing"

	"github.com/mpetrun5/rag-docs/internal/domain"
)

var chunkIDRe = regexp.MustCompile(`^[0-9a-f]{32}_\d+$`)

func TestBuildChunk(t *testing.T) {
	doc := domain.Document{
		URL:         "https://docs.example.com/transform",
		Title:       "Transform Component",
		ContentType: domain.ContentTypeAPIReference,
		Metadata:    map[string]any{"source": "example_docs"},
	}

	t.Run("id format", func(t *testing.T) {
		chunk := BuildChunk(doc, "Moves an object in world space.", 0, 1)
		if !chunkIDRe.MatchString(chunk.ID) {
			t.Errorf("Unexpected id format: %q", chunk.ID)
		}
	})

	t.Run("deterministic for identical content", func(t *testing.T) {
		a := BuildChunk(doc, "Moves an object in world space.", 2, 5)
		b := BuildChunk(doc, "Moves an object in world space.", 2, 5)
		if a.ID != b.ID {
			t.Errorf("Expected identical ids, got %q and %q", a.ID, b.ID)
		}
	})

	t.Run("ordinal distinguishes identical content", func(t *testing.T) {
		a := BuildChunk(doc, "Moves an object in world space.", 0, 2)
		b := BuildChunk(doc, "Moves an object in world space.", 1, 2)
		if a.ID == b.ID {
			t.Error("Expected different ids for different ordinals")
		}
	})

	t.Run("metadata overlay", func(t *testing.T) {
		chunk := BuildChunk(doc, "Moves an object in world space.", 1, 3)
		md := chunk.Metadata

		if md["source"] != "example_docs" {
			t.Error("Document metadata not carried into the chunk")
		}
		if md["chunk_index"] != 1 || md["total_chunks"] != 3 {
			t.Errorf("Wrong position metadata: index=%v total=%v", md["chunk_index"], md["total_chunks"])
		}
		if md["content_type"] != domain.ContentTypeAPIReference {
			t.Errorf("Wrong content_type: %v", md["content_type"])
		}
		if md["original_title"] != doc.Title || md["original_url"] != doc.URL {
			t.Error("Document identity fields missing")
		}
		if md["chunk_id"] != chunk.ID {
			t.Error("chunk_id metadata does not match the chunk id")
		}
		if md["chunk_size"] != len("Moves an object in world space.") {
			t.Errorf("Wrong chunk_size: %v", md["chunk_size"])
		}
	})

	t.Run("does not mutate document metadata", func(t *testing.T) {
		chunk := BuildChunk(doc, "text body for the mutation check", 0, 1)
		chunk.Metadata["source"] = "changed"
		if doc.Metadata["source"] != "example_docs" {
			t.Error("Document metadata mutated through the chunk")
		}
	})

	t.Run("code detection", func(t *testing.T) {
		cases := []struct {
			name string
			text string
			want bool
		}{
			{"fenced block", "Example:\n```\nobj.Move()\n```", true},
			{"inline code", "Call `SetActive` to toggle it.", true},
			{"func keyword", "func main() prints a greeting", true},
			{"plain prose", "This page explains the physics system.", false},
		}
		for _, tc := range cases {
			t.Run(tc.name, func(t *testing.T) {
				chunk := BuildChunk(doc, tc.text, 0, 1)
				if chunk.Metadata["has_code_in_chunk"] != tc.want {
					t.Errorf("has_code_in_chunk = %v, want %v", chunk.Metadata["has_code_in_chunk"], tc.want)
				}
			})
		}
	})
}
