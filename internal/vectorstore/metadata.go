package vectorstore

import (
	"fmt"

	"github.com/mpetrun5/rag-docs/internal/domain"
)

// Index metadata limits: only strings, numbers, booleans, and string lists
// are allowed per record, strings capped so the per-record metadata ceiling
// is respected.
const (
	maxMetadataString = 1000
	maxMetadataList   = 10
	maxStoredText     = 3000
	previewLength     = 200
)

// SanitizeMetadata converts arbitrary chunk metadata to index-safe values.
func SanitizeMetadata(metadata map[string]any) map[string]any {
	prepared := make(map[string]any, len(metadata))

	for key, value := range metadata {
		switch v := value.(type) {
		case string:
			prepared[key] = truncate(v, maxMetadataString)
		case bool, int, int32, int64, float32, float64:
			prepared[key] = v
		case []string:
			prepared[key] = capList(v)
		case []any:
			list := make([]string, 0, len(v))
			for _, item := range v {
				list = append(list, fmt.Sprint(item))
			}
			prepared[key] = capList(list)
		default:
			prepared[key] = truncate(fmt.Sprint(v), maxMetadataString)
		}
	}

	return prepared
}

// preparePayload builds the full index payload for a chunk: sanitized
// metadata plus the stored text fields the retrieval layer reads back
// (text_content with a preview fallback), and the namespace tag.
func preparePayload(chunk domain.Chunk, namespace string) map[string]any {
	payload := SanitizeMetadata(chunk.Metadata)

	payload["text_content"] = truncateRaw(chunk.Text, maxStoredText)
	payload["full_text_length"] = len(chunk.Text)
	payload["text_preview"] = truncate(chunk.Text, previewLength)
	payload["chunk_id"] = chunk.ID

	if namespace != "" {
		payload["namespace"] = namespace
	}

	return payload
}

func truncate(s string, limit int) string {
	if len(s) <= limit {
		return s
	}
	return s[:limit] + "..."
}

func truncateRaw(s string, limit int) string {
	if len(s) <= limit {
		return s
	}
	return s[:limit]
}

func capList(list []string) []string {
	if len(list) > maxMetadataList {
		list = list[:maxMetadataList]
	}
	out := make([]string, len(list))
	for i, item := range list {
		out[i] = truncate(item, maxMetadataString)
	}
	return out
}
