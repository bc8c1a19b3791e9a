package api

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/mpetrun5/rag-docs/internal/domain"
	"github.com/mpetrun5/rag-docs/internal/history"
	"github.com/mpetrun5/rag-docs/internal/llm"
	"github.com/mpetrun5/rag-docs/internal/logger"
	"github.com/mpetrun5/rag-docs/internal/pipeline"
	"github.com/mpetrun5/rag-docs/internal/retrieval"
	"github.com/mpetrun5/rag-docs/internal/source"
	"github.com/mpetrun5/rag-docs/internal/validator"
)

// Searcher is the retrieval surface the server exposes over HTTP.
type Searcher interface {
	Search(ctx context.Context, query string, maxResults int, opts retrieval.SearchOptions) domain.SearchResponse
	CodeExamples(ctx context.Context, apiName string, maxResults int) domain.SearchResponse
	RelatedConcepts(ctx context.Context, topic string, maxResults int) domain.SearchResponse
	ByCategory(ctx context.Context, query, category string, maxResults int) domain.SearchResponse
	ContextualDocs(ctx context.Context, query, level string, maxResults int) domain.SearchResponse
}

// Ingester runs a document batch through the indexing pipeline.
type Ingester interface {
	Run(ctx context.Context, docs []domain.Document, opts pipeline.Options) (*domain.PipelineResult, error)
}

// StatsProvider reports vector index statistics.
type StatsProvider interface {
	Stats(ctx context.Context, namespaces ...string) (*domain.IndexStats, error)
}

// ChatStore persists conversation turns.
type ChatStore interface {
	Append(ctx context.Context, sessionID, role, content string) (string, error)
	Recent(ctx context.Context, sessionID string, n int) ([]history.Message, error)
}

// PromptBuilder assembles the LLM prompt from retrieved documentation.
type PromptBuilder interface {
	Generate(ctx context.Context, query string, results []domain.FormattedResult, conversation []history.Message) (string, error)
}

// Options carries the server's runtime knobs.
type Options struct {
	Port      string
	Namespace string
	// IngestOptions is the pipeline configuration used for /api/ingest.
	IngestOptions pipeline.Options
}

// Server handles HTTP requests
type Server struct {
	router   *gin.Engine
	searcher Searcher
	ingester Ingester
	stats    StatsProvider
	llm      llm.Client
	prompter PromptBuilder
	chats    ChatStore
	opts     Options
}

// NewServer creates a new API server. llmClient, prompter, and chats may be
// nil, disabling the /api/chat endpoint.
func NewServer(opts Options, searcher Searcher, ingester Ingester, stats StatsProvider, llmClient llm.Client, prompter PromptBuilder, chats ChatStore) *Server {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())

	// Add simple logging middleware
	router.Use(func(c *gin.Context) {
		start := time.Now()
		c.Next()
		logger.Debug("Inbound request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"duration", time.Since(start),
		)
	})

	s := &Server{
		router:   router,
		searcher: searcher,
		ingester: ingester,
		stats:    stats,
		llm:      llmClient,
		prompter: prompter,
		chats:    chats,
		opts:     opts,
	}

	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	api := s.router.Group("/api")
	{
		api.POST("/search", s.handleSearch)
		api.POST("/search/code", s.handleCodeSearch)
		api.POST("/search/related", s.handleRelatedSearch)
		api.POST("/search/category", s.handleCategorySearch)
		api.POST("/search/context", s.handleContextSearch)
		api.POST("/ingest", s.handleIngest)
		api.POST("/chat", s.handleChat)
		api.GET("/stats", s.handleStats)
		api.GET("/health", s.handleHealth)
	}
}

// Start runs the HTTP server
func (s *Server) Start() error {
	logger.Info("Starting API server", "port", s.opts.Port)
	return s.router.Run(":" + s.opts.Port)
}

// Handler exposes the router for tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

type searchRequest struct {
	Query       string `json:"query"`
	APIName     string `json:"api_name"`
	Topic       string `json:"topic"`
	Category    string `json:"category"`
	Level       string `json:"context_level"`
	ContentType string `json:"content_type"`
	Source      string `json:"source"`
	MaxResults  int    `json:"max_results"`
}

// bindSearch parses the request body and validates the shared fields.
// A zero MaxResults means "use the endpoint default".
func bindSearch(c *gin.Context, required string) (searchRequest, bool) {
	var req searchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return req, false
	}

	var value string
	switch required {
	case "query":
		value = req.Query
	case "api_name":
		value = req.APIName
	case "topic":
		value = req.Topic
	}
	if err := validator.ValidateNonEmpty(value, required); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return req, false
	}

	if req.MaxResults != 0 {
		if err := validator.ValidateMaxResults(req.MaxResults); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return req, false
		}
	}
	return req, true
}

// respond maps the structured response status to an HTTP code. Retrieval
// failures are reported inside the envelope, not as transport errors, so
// they surface as 502 with the full response attached.
func respond(c *gin.Context, resp domain.SearchResponse) {
	if resp.Status == domain.StatusError {
		c.JSON(http.StatusBadGateway, resp)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (s *Server) handleSearch(c *gin.Context) {
	req, ok := bindSearch(c, "query")
	if !ok {
		return
	}
	resp := s.searcher.Search(c.Request.Context(), req.Query, req.MaxResults, retrieval.SearchOptions{
		ContentType: req.ContentType,
		Source:      req.Source,
	})
	respond(c, resp)
}

func (s *Server) handleCodeSearch(c *gin.Context) {
	req, ok := bindSearch(c, "api_name")
	if !ok {
		return
	}
	respond(c, s.searcher.CodeExamples(c.Request.Context(), req.APIName, req.MaxResults))
}

func (s *Server) handleRelatedSearch(c *gin.Context) {
	req, ok := bindSearch(c, "topic")
	if !ok {
		return
	}
	respond(c, s.searcher.RelatedConcepts(c.Request.Context(), req.Topic, req.MaxResults))
}

func (s *Server) handleCategorySearch(c *gin.Context) {
	req, ok := bindSearch(c, "query")
	if !ok {
		return
	}
	if err := validator.ValidateNonEmpty(req.Category, "category"); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	respond(c, s.searcher.ByCategory(c.Request.Context(), req.Query, req.Category, req.MaxResults))
}

func (s *Server) handleContextSearch(c *gin.Context) {
	req, ok := bindSearch(c, "query")
	if !ok {
		return
	}
	respond(c, s.searcher.ContextualDocs(c.Request.Context(), req.Query, req.Level, req.MaxResults))
}

type ingestRequest struct {
	// Path of a spool file or directory of scraper output. Ignored when
	// Documents carries an inline batch.
	Path string `json:"path"`
	// Documents is an inline batch, bypassing the spool.
	Documents []domain.Document `json:"documents"`
	// ClearFirst wipes the namespace before uploading.
	ClearFirst bool `json:"clear_first"`
}

func (s *Server) handleIngest(c *gin.Context) {
	var req ingestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	docs := req.Documents
	if len(docs) == 0 {
		if req.Path == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "either path or documents is required"})
			return
		}
		var err error
		docs, err = loadDocuments(req.Path)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		if len(docs) == 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "no valid documents found at " + req.Path})
			return
		}
	}

	opts := s.opts.IngestOptions
	opts.ClearFirst = req.ClearFirst

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
		defer cancel()

		result, err := s.ingester.Run(ctx, docs, opts)
		if err != nil {
			logger.Error("Background ingest failed", "path", req.Path, "error", err)
			return
		}
		logger.Info("Background ingest finished",
			"path", req.Path,
			"uploaded", result.VectorsUploaded,
			"errors", result.UploadErrors,
		)
	}()

	c.JSON(http.StatusAccepted, gin.H{
		"status":    "ingest_started",
		"path":      req.Path,
		"documents": len(docs),
	})
}

// loadDocuments accepts either a single spool file or a directory of them.
func loadDocuments(path string) ([]domain.Document, error) {
	if err := validator.ValidateDirPath(path); err == nil {
		return source.LoadDir(path)
	}
	return source.LoadFile(path)
}

type chatRequest struct {
	Message    string `json:"message" binding:"required"`
	SessionID  string `json:"session_id"`
	MaxResults int    `json:"max_results"`
}

func (s *Server) handleChat(c *gin.Context) {
	if s.llm == nil || s.prompter == nil {
		c.JSON(http.StatusNotImplemented, gin.H{"error": "chat is not configured"})
		return
	}

	var req chatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx := c.Request.Context()

	// 1. Retrieve relevant documentation
	searchResp := s.searcher.Search(ctx, req.Message, req.MaxResults, retrieval.SearchOptions{})
	if searchResp.Status == domain.StatusError {
		logger.Error("Retrieval failed", "error", searchResp.Error)
		c.JSON(http.StatusBadGateway, gin.H{"error": "failed to retrieve context"})
		return
	}

	// 2. Pull conversation history when a session is given
	var conversation []history.Message
	if req.SessionID != "" && s.chats != nil {
		msgs, err := s.chats.Recent(ctx, req.SessionID, 0)
		if err != nil {
			logger.Warn("Chat history unavailable", "session", req.SessionID, "error", err)
		} else {
			conversation = msgs
		}
	}

	// 3. Assemble the prompt
	promptText, err := s.prompter.Generate(ctx, req.Message, searchResp.Results, conversation)
	if err != nil {
		logger.Error("Prompt generation failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to build prompt"})
		return
	}

	// 4. Generate response
	answer, err := s.llm.Generate(ctx, []llm.ChatMessage{
		{Role: "user", Content: promptText},
	})
	if err != nil {
		logger.Error("LLM generation failed", "error", err)
		c.JSON(http.StatusBadGateway, gin.H{"error": "failed to generate response"})
		return
	}

	// 5. Record the exchange
	if req.SessionID != "" && s.chats != nil {
		if _, err := s.chats.Append(ctx, req.SessionID, history.RoleUser, req.Message); err != nil {
			logger.Warn("Failed to record user message", "session", req.SessionID, "error", err)
		}
		if _, err := s.chats.Append(ctx, req.SessionID, history.RoleAssistant, answer); err != nil {
			logger.Warn("Failed to record assistant message", "session", req.SessionID, "error", err)
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"response":   answer,
		"results":    searchResp.Results,
		"session_id": req.SessionID,
	})
}

func (s *Server) handleStats(c *gin.Context) {
	var namespaces []string
	if s.opts.Namespace != "" {
		namespaces = append(namespaces, s.opts.Namespace)
	}

	stats, err := s.stats.Stats(c.Request.Context(), namespaces...)
	if err != nil {
		logger.Error("Stats lookup failed", "error", err)
		c.JSON(http.StatusBadGateway, gin.H{"error": "failed to read index stats"})
		return
	}
	c.JSON(http.StatusOK, stats)
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "alive"})
}
