package chunking

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"regexp"

	"github.com/mpetrun5/rag-docs/internal/domain"
)

// codeHintRe detects code-bearing passages: fenced blocks, inline code, or
// declaration keywords common across languages. A heuristic, not a parser;
// deterministic for identical input.
var codeHintRe = regexp.MustCompile("```|`[^`]+`|\\bclass\\b|\\bdef\\b|\\bfunc\\b|\\bfunction\\b")

// BuildChunk attaches deterministic identity and descriptive metadata to one
// passage. The id is the passage's content hash joined with its ordinal, so
// re-chunking identical content reproduces identical ids.
func BuildChunk(doc domain.Document, text string, ordinal, total int) domain.Chunk {
	sum := sha256.Sum256([]byte(text))
	hash := hex.EncodeToString(sum[:16])
	id := fmt.Sprintf("%s_%d", hash, ordinal)

	metadata := make(map[string]any, len(doc.Metadata)+9)
	for k, v := range doc.Metadata {
		metadata[k] = v
	}
	metadata["chunk_index"] = ordinal
	metadata["total_chunks"] = total
	metadata["chunk_id"] = id
	metadata["content_hash"] = hash
	metadata["content_type"] = doc.ContentType
	metadata["original_title"] = doc.Title
	metadata["original_url"] = doc.URL
	metadata["chunk_size"] = len(text)
	metadata["has_code_in_chunk"] = codeHintRe.MatchString(text)

	return domain.Chunk{
		ID:       id,
		Text:     text,
		Metadata: metadata,
	}
}
