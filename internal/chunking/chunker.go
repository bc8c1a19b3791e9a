package chunking

import (
	"strings"

	"github.com/mpetrun5/rag-docs/internal/config"
	"github.com/mpetrun5/rag-docs/internal/domain"
	"github.com/mpetrun5/rag-docs/internal/errors"
	"github.com/mpetrun5/rag-docs/internal/logger"
)

// MinChunkChars is the minimum trimmed passage length kept for indexing.
const MinChunkChars = 50

// DocumentChunker turns scraped documents into chunk documents using the
// per-content-type policy table.
type DocumentChunker struct {
	policies config.PolicyTable
}

// NewDocumentChunker creates a chunker with the given policy table.
func NewDocumentChunker(policies config.PolicyTable) *DocumentChunker {
	return &DocumentChunker{policies: policies}
}

// ChunkDocument normalizes, splits, filters, and builds the chunks for one
// document. The minimum-length filter runs before ordinals are assigned, so
// chunk_index is a dense 0-based range and total_chunks equals the count of
// chunks actually retained.
func (c *DocumentChunker) ChunkDocument(doc domain.Document) ([]domain.Chunk, error) {
	if strings.TrimSpace(doc.Text) == "" {
		return nil, errors.ValidationError("document has no text").WithContext("url", doc.URL)
	}

	policy := c.policies.For(doc.ContentType)
	cleaned := Normalize(doc.Text)

	passages := ChunkText(cleaned, policy, doc.CodeBlocks)

	kept := passages[:0]
	for _, p := range passages {
		if len(strings.TrimSpace(p)) >= MinChunkChars {
			kept = append(kept, p)
		}
	}

	chunks := make([]domain.Chunk, len(kept))
	for i, text := range kept {
		chunks[i] = BuildChunk(doc, text, i, len(kept))
	}
	return chunks, nil
}

// ChunkBatch chunks a batch of documents, isolating per-document failures:
// a malformed document is logged and skipped, the batch continues.
func (c *DocumentChunker) ChunkBatch(docs []domain.Document) []domain.Chunk {
	var all []domain.Chunk
	for _, doc := range docs {
		chunks, err := c.ChunkDocument(doc)
		if err != nil {
			logger.Error("Failed to chunk document", "url", doc.URL, "title", doc.Title, "error", err)
			continue
		}
		logger.Debug("Chunked document", "title", doc.Title, "chunks", len(chunks))
		all = append(all, chunks...)
	}
	logger.Info("Chunking complete", "documents", len(docs), "chunks", len(all))
	return all
}
