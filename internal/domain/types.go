package domain

// Document represents one scraped documentation page, produced by the
// external scraper and consumed once by the chunking pipeline.
type Document struct {
	URL         string         `json:"url"`
	Title       string         `json:"title"`
	Text        string         `json:"text"`
	CodeBlocks  []string       `json:"code_blocks,omitempty"`
	ContentType string         `json:"content_type"`
	Metadata    map[string]any `json:"metadata,omitempty"`
}

// Known content type classifications attached by the scraper.
const (
	ContentTypeAPIReference = "api_reference"
	ContentTypeTutorial     = "tutorial"
	ContentTypeGuide        = "guide"
	ContentTypeCodeExample  = "code_example"
	ContentTypeGeneral      = "general"
)

// Chunk is a retrieval-sized passage derived from exactly one Document.
// The ID is derived from the content hash plus the chunk ordinal, so
// re-chunking identical content reproduces identical ids.
type Chunk struct {
	ID        string         `json:"id"`
	Text      string         `json:"text"`
	Metadata  map[string]any `json:"metadata"`
	Embedding []float32      `json:"embedding,omitempty"`
}

// Condition constrains a single metadata field. Equals is an exact match;
// AnyOf is set membership. Exactly one of the two should be set.
type Condition struct {
	Field  string
	Equals any
	AnyOf  []string
}

// Filter is a conjunction of metadata conditions passed to the vector index.
// Constructed per query, never persisted.
type Filter struct {
	Conditions []Condition
}

// Match adds an equality condition.
func (f *Filter) Match(field string, value any) *Filter {
	f.Conditions = append(f.Conditions, Condition{Field: field, Equals: value})
	return f
}

// MatchAny adds a set-membership condition.
func (f *Filter) MatchAny(field string, values ...string) *Filter {
	f.Conditions = append(f.Conditions, Condition{Field: field, AnyOf: values})
	return f
}

// IsEmpty reports whether the filter has no conditions.
func (f *Filter) IsEmpty() bool {
	return f == nil || len(f.Conditions) == 0
}

// Fields returns a field -> constraint map for response reporting.
func (f *Filter) Fields() map[string]any {
	if f.IsEmpty() {
		return nil
	}
	out := make(map[string]any, len(f.Conditions))
	for _, c := range f.Conditions {
		if len(c.AnyOf) > 0 {
			out[c.Field] = c.AnyOf
		} else {
			out[c.Field] = c.Equals
		}
	}
	return out
}

// SearchResult is a raw similarity hit returned by the vector index.
type SearchResult struct {
	ID       string         `json:"id"`
	Score    float32        `json:"score"`
	Metadata map[string]any `json:"metadata"`
}

// ChunkInfo locates a chunk within its parent document.
type ChunkInfo struct {
	ChunkIndex  int `json:"chunk_index"`
	TotalChunks int `json:"total_chunks"`
}

// FormattedResult is the display-ready shape of a search hit.
type FormattedResult struct {
	Content        string    `json:"content"`
	SourceURL      string    `json:"source_url"`
	Title          string    `json:"title"`
	RelevanceScore float64   `json:"relevance_score"`
	ContentType    string    `json:"content_type"`
	HasCodeExample bool      `json:"has_code_example"`
	Source         string    `json:"source"`
	ChunkInfo      ChunkInfo `json:"chunk_info"`
}

// Response statuses. Search endpoints always return a well-formed
// SearchResponse; errors are reported through Status, never panics.
const (
	StatusSuccess = "success"
	StatusError   = "error"
)

// SearchResponse is the envelope returned by every retrieval operation.
type SearchResponse struct {
	Query          string            `json:"query,omitempty"`
	APIName        string            `json:"api_name,omitempty"`
	Topic          string            `json:"topic,omitempty"`
	Category       string            `json:"category,omitempty"`
	ContextLevel   string            `json:"context_level,omitempty"`
	Results        []FormattedResult `json:"results"`
	TotalResults   int               `json:"total_results"`
	FiltersApplied map[string]any    `json:"filters_applied,omitempty"`
	FilterRelaxed  bool              `json:"filter_relaxed,omitempty"`
	Status         string            `json:"status"`
	Error          string            `json:"error,omitempty"`
}

// PipelineResult reports itemized counts for a scrape-and-index run.
// Partial success is the norm: one bad document never aborts the batch.
type PipelineResult struct {
	Status             string  `json:"status"`
	Message            string  `json:"message,omitempty"`
	DocumentsProcessed int     `json:"documents_processed"`
	ChunksCreated      int     `json:"chunks_created"`
	VectorsUploaded    int     `json:"vectors_uploaded"`
	UploadErrors       int     `json:"upload_errors"`
	Namespace          string  `json:"namespace,omitempty"`
	ProcessingSeconds  float64 `json:"processing_seconds"`
}

// IndexStats mirrors the vector index's describe-stats call.
type IndexStats struct {
	TotalVectors uint64            `json:"total_vectors"`
	Dimension    uint64            `json:"dimension"`
	Namespaces   map[string]uint64 `json:"namespaces,omitempty"`
}

// Audience levels recognized by contextual search. Unrecognized levels
// leave the query text unchanged.
const (
	AudienceBeginner   = "beginner"
	AudienceAdvanced   = "advanced"
	AudienceProgrammer = "programmer"
	AudienceArtist     = "artist"
	AudienceDesigner   = "designer"
)
