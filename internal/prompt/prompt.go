package prompt

import (
	"bytes"
	"context"
	"fmt"
	"text/template"

	"github.com/mpetrun5/rag-docs/internal/domain"
	"github.com/mpetrun5/rag-docs/internal/history"
)

// Generator defines the interface for prompt generation
type Generator interface {
	Generate(ctx context.Context, query string, results []domain.FormattedResult, conversation []history.Message) (string, error)
}

// TemplateGenerator implements Generator using Go templates
type TemplateGenerator struct {
	tmpl *template.Template
}

const DefaultPromptTemplate = `You are a helpful documentation assistant. Use the provided documentation excerpts to answer the user's question.
If the excerpts are insufficient, say what is missing instead of guessing.

Documentation:
{{range .Results}}
--- {{.Title}}{{if .SourceURL}} ({{.SourceURL}}){{end}} ---
{{.Content}}
{{end}}
{{if .Conversation}}
Conversation so far:
{{range .Conversation}}{{.Role}}: {{.Content}}
{{end}}{{end}}
Question: {{.Query}}
Answer:`

// NewTemplateGenerator creates a new template-based generator
func NewTemplateGenerator(tplString string) (*TemplateGenerator, error) {
	if tplString == "" {
		tplString = DefaultPromptTemplate
	}
	tmpl, err := template.New("prompt").Parse(tplString)
	if err != nil {
		return nil, fmt.Errorf("failed to parse template: %w", err)
	}
	return &TemplateGenerator{tmpl: tmpl}, nil
}

// Generate creates a prompt from the query, retrieved documentation, and
// prior conversation turns.
func (g *TemplateGenerator) Generate(ctx context.Context, query string, results []domain.FormattedResult, conversation []history.Message) (string, error) {
	data := struct {
		Query        string
		Results      []domain.FormattedResult
		Conversation []history.Message
	}{
		Query:        query,
		Results:      results,
		Conversation: conversation,
	}

	var buf bytes.Buffer
	if err := g.tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to execute template: %w", err)
	}

	return buf.String(), nil
}
