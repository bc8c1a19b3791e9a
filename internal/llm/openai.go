package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/mpetrun5/rag-docs/internal/errors"
)

// Client generates chat completions.
type Client interface {
	Generate(ctx context.Context, messages []ChatMessage) (string, error)
}

// OpenAIClient implements Client against the OpenAI chat completions API.
type OpenAIClient struct {
	baseURL string
	apiKey  string
	model   string
	client  *http.Client
}

// NewOpenAIClient creates a new OpenAI chat client
func NewOpenAIClient(baseURL, apiKey, model string) *OpenAIClient {
	return &OpenAIClient{
		baseURL: baseURL,
		apiKey:  apiKey,
		model:   model,
		client: &http.Client{
			// Generation can take longer
			Timeout: 2 * time.Minute,
		},
	}
}

type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model    string        `json:"model"`
	Messages []ChatMessage `json:"messages"`
}

type chatResponse struct {
	Choices []struct {
		Message ChatMessage `json:"message"`
	} `json:"choices"`
}

// Generate returns the completion for a conversation.
func (c *OpenAIClient) Generate(ctx context.Context, messages []ChatMessage) (string, error) {
	reqBody := chatRequest{
		Model:    c.model,
		Messages: messages,
	}

	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return "", errors.Wrap(err, errors.ErrorTypeInternal, "failed to marshal request")
	}

	url := fmt.Sprintf("%s/v1/chat/completions", c.baseURL)
	req, err := http.NewRequestWithContext(ctx, "POST", url, bytes.NewBuffer(jsonData))
	if err != nil {
		return "", errors.Wrap(err, errors.ErrorTypeInternal, "failed to create request")
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.client.Do(req)
	if err != nil {
		return "", errors.Wrap(err, errors.ErrorTypeExternal, "failed to send request to OpenAI")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return "", errors.New(errors.ErrorTypeExternal, fmt.Sprintf("OpenAI returned non-200 status: %d, body: %s", resp.StatusCode, string(body)))
	}

	var res chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&res); err != nil {
		return "", errors.Wrap(err, errors.ErrorTypeInternal, "failed to decode response")
	}

	if len(res.Choices) == 0 {
		return "", errors.New(errors.ErrorTypeExternal, "OpenAI returned no choices")
	}

	return res.Choices[0].Message.Content, nil
}
