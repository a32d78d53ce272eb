// Package llm provides a chat completions client for any OpenAI-compatible
// endpoint (Gemini, OpenAI, DashScope and others).
package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/leeaandrob/matchsignals/internal/metrics"
	"github.com/leeaandrob/matchsignals/internal/models"
	"github.com/rs/zerolog/log"
	openai "github.com/sashabaranov/go-openai"
	"github.com/sashabaranov/go-openai/jsonschema"
)

const (
	// Gemini OpenAI-compatible endpoint
	DefaultEndpoint = "https://generativelanguage.googleapis.com/v1beta/openai/"

	DefaultModel = "gemini-2.5-flash"

	provider = "llm"
)

// Client wraps the OpenAI SDK configured for a compatible endpoint.
type Client struct {
	client *openai.Client
	model  string
}

// Config holds the configuration for the client.
type Config struct {
	APIKey   string
	Endpoint string
	Model    string
}

// NewClient creates a new client. It returns nil when no API key is set so
// callers can treat the model as unavailable.
func NewClient(cfg Config) *Client {
	if cfg.APIKey == "" {
		return nil
	}
	if cfg.Endpoint == "" {
		cfg.Endpoint = DefaultEndpoint
	}
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}

	config := openai.DefaultConfig(cfg.APIKey)
	config.BaseURL = cfg.Endpoint

	return &Client{
		client: openai.NewClientWithConfig(config),
		model:  cfg.Model,
	}
}

// Model returns the configured model name.
func (c *Client) Model() string {
	return c.model
}

// ChatRequest represents a chat completion request.
type ChatRequest struct {
	SystemPrompt string
	UserPrompt   string
	Temperature  float32
	MaxTokens    int
	JSONMode     bool

	// Schema, when set, requests structured output conforming to it.
	Schema     *jsonschema.Definition
	SchemaName string
}

// ChatResponse represents a chat completion response.
type ChatResponse struct {
	Content      string
	FinishReason string
	TokensUsed   TokenUsage
}

// TokenUsage represents token usage statistics.
type TokenUsage struct {
	PromptTokens     int
	CompletionTokens int
	TotalTokens      int
}

// Chat sends a chat completion request.
func (c *Client) Chat(ctx context.Context, req ChatRequest) (*ChatResponse, error) {
	messages := []openai.ChatCompletionMessage{}

	if req.SystemPrompt != "" {
		messages = append(messages, openai.ChatCompletionMessage{
			Role:    openai.ChatMessageRoleSystem,
			Content: req.SystemPrompt,
		})
	}

	messages = append(messages, openai.ChatCompletionMessage{
		Role:    openai.ChatMessageRoleUser,
		Content: req.UserPrompt,
	})

	chatReq := openai.ChatCompletionRequest{
		Model:       c.model,
		Messages:    messages,
		Temperature: req.Temperature,
	}

	if req.MaxTokens > 0 {
		chatReq.MaxTokens = req.MaxTokens
	}

	switch {
	case req.Schema != nil:
		chatReq.ResponseFormat = &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONSchema,
			JSONSchema: &openai.ChatCompletionResponseFormatJSONSchema{
				Name:   req.SchemaName,
				Schema: req.Schema,
				Strict: true,
			},
		}
	case req.JSONMode:
		chatReq.ResponseFormat = &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		}
	}

	log.Debug().
		Str("model", c.model).
		Int("messages", len(messages)).
		Bool("json_mode", req.JSONMode).
		Bool("schema", req.Schema != nil).
		Msg("Sending chat request")

	resp, err := c.client.CreateChatCompletion(ctx, chatReq)
	metrics.ObserveUpstream(provider, err)
	if err != nil {
		return nil, fmt.Errorf("chat completion failed: %w", err)
	}

	if len(resp.Choices) == 0 {
		return nil, models.ErrEmptyResponse
	}

	return &ChatResponse{
		Content:      resp.Choices[0].Message.Content,
		FinishReason: string(resp.Choices[0].FinishReason),
		TokensUsed: TokenUsage{
			PromptTokens:     resp.Usage.PromptTokens,
			CompletionTokens: resp.Usage.CompletionTokens,
			TotalTokens:      resp.Usage.TotalTokens,
		},
	}, nil
}

// ChatJSON sends a chat request and parses the response as JSON into result.
// Blank content yields models.ErrEmptyResponse, undecodable content
// models.ErrSchemaViolation.
func (c *Client) ChatJSON(ctx context.Context, req ChatRequest, result interface{}) error {
	if req.Schema == nil {
		req.JSONMode = true
	}

	resp, err := c.Chat(ctx, req)
	if err != nil {
		return err
	}

	content := stripCodeFence(resp.Content)
	if content == "" {
		return models.ErrEmptyResponse
	}

	if err := json.Unmarshal([]byte(content), result); err != nil {
		return fmt.Errorf("%w: %v", models.ErrSchemaViolation, err)
	}

	log.Debug().
		Int("total_tokens", resp.TokensUsed.TotalTokens).
		Str("finish_reason", resp.FinishReason).
		Msg("Chat JSON response parsed")

	return nil
}

// stripCodeFence removes a markdown ```json fence some models wrap output in.
func stripCodeFence(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}
