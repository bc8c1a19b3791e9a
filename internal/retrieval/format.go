package retrieval

import (
	"fmt"
	"math"

	"github.com/mpetrun5/rag-docs/internal/domain"
)

// previewCap bounds the content preview in a formatted result.
const previewCap = 500

// FormatResults reshapes raw index hits into display-ready records.
// Duplicate ids are dropped keeping the first (highest-ranked) occurrence.
func FormatResults(raw []domain.SearchResult) []domain.FormattedResult {
	seen := make(map[string]bool, len(raw))
	results := make([]domain.FormattedResult, 0, len(raw))

	for _, hit := range raw {
		if hit.ID != "" && seen[hit.ID] {
			continue
		}
		seen[hit.ID] = true

		md := hit.Metadata
		title := getString(md, "original_title")
		if title == "" {
			title = "Documentation"
		}

		results = append(results, domain.FormattedResult{
			Content:        contentPreview(md),
			SourceURL:      getString(md, "original_url"),
			Title:          title,
			RelevanceScore: math.Round(float64(hit.Score)*1000) / 1000,
			ContentType:    getStringDefault(md, "content_type", domain.ContentTypeGeneral),
			HasCodeExample: getBool(md, "has_code_in_chunk"),
			Source:         getString(md, "source"),
			ChunkInfo: domain.ChunkInfo{
				ChunkIndex:  getInt(md, "chunk_index", 0),
				TotalChunks: getInt(md, "total_chunks", 1),
			},
		})
	}

	return results
}

// contentPreview selects the best stored text for display: the full stored
// content, then the short preview, then a string synthesized from metadata.
func contentPreview(md map[string]any) string {
	content := getString(md, "text_content")
	if content == "" {
		content = getString(md, "text_preview")
	}
	if content == "" {
		content = fmt.Sprintf("Documentation: %s", getString(md, "original_title"))
		if ct := getString(md, "content_type"); ct != "" {
			content += fmt.Sprintf(" (%s)", ct)
		}
		if url := getString(md, "original_url"); url != "" {
			content += "\nSource: " + url
		}
	}

	if len(content) > previewCap {
		content = content[:previewCap] + "..."
	}
	return content
}

// Metadata readers tolerant of the numeric widenings a payload round-trip
// introduces.

func getString(md map[string]any, key string) string {
	if v, ok := md[key].(string); ok {
		return v
	}
	return ""
}

func getStringDefault(md map[string]any, key, def string) string {
	if v := getString(md, key); v != "" {
		return v
	}
	return def
}

func getBool(md map[string]any, key string) bool {
	if v, ok := md[key].(bool); ok {
		return v
	}
	return false
}

func getInt(md map[string]any, key string, def int) int {
	switch v := md[key].(type) {
	case int:
		return v
	case int64:
		return int(v)
	case float64:
		return int(v)
	default:
		return def
	}
}
