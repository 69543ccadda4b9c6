// Package llm wraps the hosted large-language-model service behind a
// single-turn completion interface.
package llm

import (
	"context"
	"fmt"

	openai "github.com/sashabaranov/go-openai"
)

// DefaultBaseURL is Gemini's OpenAI-compatible endpoint, the hosted model
// family the extraction pipeline already uses. Any OpenAI-compatible service
// works via LLM_BASE_URL.
const DefaultBaseURL = "https://generativelanguage.googleapis.com/v1beta/openai"

// Client is the single-turn completion contract the chat service depends on.
type Client interface {
	// Complete sends one prompt and returns the raw generated text.
	// An empty reply is returned as-is; the caller decides the fallback.
	Complete(ctx context.Context, prompt string) (string, error)
}

// Config holds process-wide LLM settings. Model and credentials are not
// per-request.
type Config struct {
	APIKey  string
	Model   string
	BaseURL string
}

// OpenAIClient implements Client over any OpenAI-compatible completion API.
type OpenAIClient struct {
	client *openai.Client
	model  string
}

// NewOpenAIClient builds the client. The API key is assumed validated by the
// caller; requests fail with an auth error otherwise.
func NewOpenAIClient(cfg Config) *OpenAIClient {
	clientConfig := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientConfig.BaseURL = cfg.BaseURL
	}

	return &OpenAIClient{
		client: openai.NewClientWithConfig(clientConfig),
		model:  cfg.Model,
	}
}

// Complete issues one non-streaming chat completion with the prompt as a
// single user message.
func (c *OpenAIClient) Complete(ctx context.Context, prompt string) (string, error) {
	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
	})
	if err != nil {
		return "", fmt.Errorf("chat completion failed: %w", err)
	}

	if len(resp.Choices) == 0 {
		return "", nil
	}

	return resp.Choices[0].Message.Content, nil
}
