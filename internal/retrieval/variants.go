package retrieval

import (
	"context"
	"strings"

	"github.com/mpetrun5/rag-docs/internal/domain"
	"github.com/mpetrun5/rag-docs/internal/logger"
)

// CodeExamples finds code-bearing passages for a named API. The index query
// over-fetches twice the requested count, then results are locally narrowed
// to hits naming the API in their title or URL.
func (r *Retriever) CodeExamples(ctx context.Context, apiName string, maxResults int) domain.SearchResponse {
	if maxResults <= 0 {
		maxResults = 3
	}

	query := apiName + " code example usage"
	filter := (&domain.Filter{}).Match("has_code_in_chunk", true)

	raw, err := r.query(ctx, query, maxResults*2, filter)
	if err != nil {
		logger.Error("Code example search failed", "api", apiName, "error", err)
		resp := errorResponse("", err)
		resp.APIName = apiName
		return resp
	}

	needle := strings.ToLower(apiName)
	matched := make([]domain.SearchResult, 0, maxResults)
	for _, hit := range raw {
		title := strings.ToLower(getString(hit.Metadata, "original_title"))
		url := strings.ToLower(getString(hit.Metadata, "original_url"))
		if strings.Contains(title, needle) || strings.Contains(url, needle) {
			matched = append(matched, hit)
			if len(matched) >= maxResults {
				break
			}
		}
	}

	results := FormatResults(matched)
	return domain.SearchResponse{
		APIName:      apiName,
		Results:      results,
		TotalResults: len(results),
		Status:       domain.StatusSuccess,
	}
}

// RelatedConcepts finds guides and workflows around a topic.
func (r *Retriever) RelatedConcepts(ctx context.Context, topic string, maxResults int) domain.SearchResponse {
	if maxResults <= 0 {
		maxResults = DefaultMaxResults
	}

	query := topic + " guide tutorial workflow"
	filter := (&domain.Filter{}).MatchAny("content_type",
		domain.ContentTypeGuide, domain.ContentTypeTutorial, domain.ContentTypeAPIReference)

	raw, err := r.query(ctx, query, maxResults, filter)
	if err != nil {
		logger.Error("Related concept search failed", "topic", topic, "error", err)
		resp := errorResponse("", err)
		resp.Topic = topic
		return resp
	}

	results := FormatResults(raw)
	return domain.SearchResponse{
		Topic:        topic,
		Results:      results,
		TotalResults: len(results),
		Status:       domain.StatusSuccess,
	}
}

// ByCategory searches within a metadata category. When the category filter
// yields nothing, the search retries once with the filter dropped and the
// category folded into the query text; the response flags the relaxation.
func (r *Retriever) ByCategory(ctx context.Context, query, category string, maxResults int) domain.SearchResponse {
	if maxResults <= 0 {
		maxResults = DefaultMaxResults
	}

	filter := (&domain.Filter{}).Match("category", category)
	relaxed := false

	raw, err := r.query(ctx, query, maxResults, filter)
	if err == nil && len(raw) == 0 {
		relaxed = true
		logger.Debug("Category filter yielded no hits, retrying without it", "category", category)
		raw, err = r.query(ctx, query+" "+category, maxResults, nil)
	}
	if err != nil {
		logger.Error("Category search failed", "query", query, "category", category, "error", err)
		resp := errorResponse(query, err)
		resp.Category = category
		return resp
	}

	results := FormatResults(raw)
	return domain.SearchResponse{
		Query:         query,
		Category:      category,
		Results:       results,
		TotalResults:  len(results),
		FilterRelaxed: relaxed,
		Status:        domain.StatusSuccess,
	}
}

// Audience-level query enhancements. Unrecognized levels leave the query
// text untouched.
var contextPhrases = map[string]string{
	domain.AudienceBeginner:   " getting started tutorial basics",
	domain.AudienceAdvanced:   " advanced techniques optimization",
	domain.AudienceProgrammer: " scripting code API",
	domain.AudienceArtist:     " visual art graphics rendering",
	domain.AudienceDesigner:   " design workflow UI UX",
}

// ContextualDocs rewrites the query for an audience level and searches
// without metadata constraints.
func (r *Retriever) ContextualDocs(ctx context.Context, query, level string, maxResults int) domain.SearchResponse {
	if maxResults <= 0 {
		maxResults = DefaultMaxResults
	}

	enhanced := query + contextPhrases[level]

	raw, err := r.query(ctx, enhanced, maxResults, nil)
	if err != nil {
		logger.Error("Contextual search failed", "query", query, "level", level, "error", err)
		resp := errorResponse(query, err)
		resp.ContextLevel = level
		return resp
	}

	results := FormatResults(raw)
	return domain.SearchResponse{
		Query:        query,
		ContextLevel: level,
		Results:      results,
		TotalResults: len(results),
		Status:       domain.StatusSuccess,
	}
}
