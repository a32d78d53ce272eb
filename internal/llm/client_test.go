package llm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/leeaandrob/matchsignals/internal/models"
	"github.com/sashabaranov/go-openai/jsonschema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// completionServer answers every chat completion with content.
func completionServer(t *testing.T, content string, captured *map[string]interface{}) *Client {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		if captured != nil {
			assert.NoError(t, json.NewDecoder(r.Body).Decode(captured))
		}

		payload, _ := json.Marshal(content)
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprintf(w, `{
			"id": "chatcmpl-1", "object": "chat.completion", "created": 1760518800, "model": "gemini-2.5-flash",
			"choices": [{"index": 0, "message": {"role": "assistant", "content": %s}, "finish_reason": "stop"}],
			"usage": {"prompt_tokens": 120, "completion_tokens": 40, "total_tokens": 160}
		}`, payload)
	}))
	t.Cleanup(srv.Close)

	return NewClient(Config{APIKey: "test-key", Endpoint: srv.URL + "/v1"})
}

type verdict struct {
	Winner     string `json:"winner"`
	Confidence int    `json:"confidence"`
}

func TestNewClientWithoutKey(t *testing.T) {
	assert.Nil(t, NewClient(Config{}))
}

func TestNewClientDefaults(t *testing.T) {
	c := NewClient(Config{APIKey: "k"})
	require.NotNil(t, c)
	assert.Equal(t, DefaultModel, c.Model())
}

func TestChatJSONWithSchema(t *testing.T) {
	var body map[string]interface{}
	c := completionServer(t, `{"winner": "DRAW", "confidence": 55}`, &body)

	schema := &jsonschema.Definition{
		Type: jsonschema.Object,
		Properties: map[string]jsonschema.Definition{
			"winner":     {Type: jsonschema.String},
			"confidence": {Type: jsonschema.Integer},
		},
		Required: []string{"confidence", "winner"},
	}

	var out verdict
	err := c.ChatJSON(context.Background(), ChatRequest{
		SystemPrompt: "system",
		UserPrompt:   "user",
		Temperature:  0.5,
		Schema:       schema,
		SchemaName:   "verdict",
	}, &out)
	require.NoError(t, err)

	assert.Equal(t, verdict{Winner: "DRAW", Confidence: 55}, out)

	assert.Equal(t, DefaultModel, body["model"])
	assert.Equal(t, 0.5, body["temperature"])
	messages, ok := body["messages"].([]interface{})
	require.True(t, ok)
	assert.Len(t, messages, 2)

	format, ok := body["response_format"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "json_schema", format["type"])
	jsonSchema, ok := format["json_schema"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "verdict", jsonSchema["name"])
	assert.Equal(t, true, jsonSchema["strict"])
}

func TestChatJSONWithoutSchemaUsesJSONMode(t *testing.T) {
	var body map[string]interface{}
	c := completionServer(t, `{"winner": "HOME_TEAM", "confidence": 70}`, &body)

	var out verdict
	require.NoError(t, c.ChatJSON(context.Background(), ChatRequest{UserPrompt: "user"}, &out))

	format, ok := body["response_format"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "json_object", format["type"])
}

func TestChatJSONCodeFence(t *testing.T) {
	c := completionServer(t, "```json\n{\"winner\": \"AWAY_TEAM\", \"confidence\": 61}\n```", nil)

	var out verdict
	require.NoError(t, c.ChatJSON(context.Background(), ChatRequest{UserPrompt: "user"}, &out))

	assert.Equal(t, "AWAY_TEAM", out.Winner)
}

func TestChatJSONEmptyContent(t *testing.T) {
	c := completionServer(t, "  \n", nil)

	var out verdict
	err := c.ChatJSON(context.Background(), ChatRequest{UserPrompt: "user"}, &out)

	assert.True(t, errors.Is(err, models.ErrEmptyResponse))
}

func TestChatJSONUndecodableContent(t *testing.T) {
	c := completionServer(t, "The home side should win comfortably.", nil)

	var out verdict
	err := c.ChatJSON(context.Background(), ChatRequest{UserPrompt: "user"}, &out)

	assert.True(t, errors.Is(err, models.ErrSchemaViolation))
}

func TestChatUpstreamFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
		fmt.Fprint(w, `{"error": {"message": "model overloaded", "code": 503}}`)
	}))
	defer srv.Close()

	c := NewClient(Config{APIKey: "test-key", Endpoint: srv.URL + "/v1"})
	_, err := c.Chat(context.Background(), ChatRequest{UserPrompt: "user"})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "chat completion failed")
}

func TestStripCodeFence(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{`{"a":1}`, `{"a":1}`},
		{"```json\n{\"a\":1}\n```", `{"a":1}`},
		{"```\n{\"a\":1}\n```", `{"a":1}`},
		{"  \n", ""},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, stripCodeFence(tt.in))
	}
}
