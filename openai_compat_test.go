package aisuite

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openAIStyleFixture() map[string]interface{} {
	return map[string]interface{}{
		"id": "cmpl-9", "model": "test-model",
		"choices": []interface{}{
			map[string]interface{}{
				"message":       map[string]interface{}{"role": "assistant", "content": "sure"},
				"finish_reason": "stop",
			},
		},
		"usage": map[string]interface{}{
			"prompt_tokens": float64(5), "completion_tokens": float64(1), "total_tokens": float64(6),
		},
	}
}

func TestGroqChatCompletionsCreate(t *testing.T) {
	var capturedBody map[string]interface{}
	var capturedAuth string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		capturedAuth = r.Header.Get("Authorization")
		assert.Equal(t, "/chat/completions", r.URL.Path)
		body, _ := io.ReadAll(r.Body)
		json.Unmarshal(body, &capturedBody)
		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(openAIStyleFixture())
	}))
	defer server.Close()

	adapter, err := NewGroqChatAdapter(Config{APIKey: "gsk-test", BaseURL: server.URL})
	require.NoError(t, err)

	resp, err := adapter.ChatCompletionsCreate(context.Background(), "llama3-70b",
		[]Message{{Role: RoleUser, Content: "Hi"}}, nil,
		map[string]interface{}{"temperature": 0.1})
	require.NoError(t, err)

	assert.Equal(t, "Bearer gsk-test", capturedAuth)
	// Model and options pass through verbatim.
	assert.Equal(t, "llama3-70b", capturedBody["model"])
	assert.Equal(t, 0.1, capturedBody["temperature"])
	assert.Equal(t, "sure", resp.Choices[0].Message.Content)
	assert.Equal(t, 6, resp.Usage.TotalTokens)
}

func TestGroqConstructorRequiresKey(t *testing.T) {
	t.Setenv("GROQ_API_KEY", "")
	_, err := NewGroqChatAdapter(Config{})
	require.Error(t, err)
	assert.IsType(t, &ConfigurationError{}, err)
	assert.Contains(t, err.Error(), "GROQ_API_KEY")
}

func TestMistralChatCompletionsCreate(t *testing.T) {
	var capturedBody map[string]interface{}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer mst-test", r.Header.Get("Authorization"))
		body, _ := io.ReadAll(r.Body)
		json.Unmarshal(body, &capturedBody)
		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(openAIStyleFixture())
	}))
	defer server.Close()

	adapter, err := NewMistralChatAdapter(Config{APIKey: "mst-test", BaseURL: server.URL})
	require.NoError(t, err)

	resp, err := adapter.ChatCompletionsCreate(context.Background(), "mistral-large",
		[]Message{{Role: RoleUser, Content: "Hi"}},
		[]ToolDescriptor{{Name: "search", Description: "Search", Args: map[string]ToolArg{
			"query": {Type: "string", Required: true},
		}}}, nil)
	require.NoError(t, err)
	assert.Equal(t, "sure", resp.Choices[0].Message.Content)

	// Tools rendered in the OpenAI function shape.
	tools := capturedBody["tools"].([]interface{})
	require.Len(t, tools, 1)
	tool := tools[0].(map[string]interface{})
	assert.Equal(t, "function", tool["type"])
	fn := tool["function"].(map[string]interface{})
	assert.Equal(t, "search", fn["name"])
	params := fn["parameters"].(map[string]interface{})
	assert.Equal(t, "object", params["type"])
	assert.Equal(t, []interface{}{"query"}, params["required"])
}

func TestMistralConstructorRequiresKey(t *testing.T) {
	t.Setenv("MISTRAL_API_KEY", "")
	_, err := NewMistralChatAdapter(Config{})
	require.Error(t, err)
	assert.IsType(t, &ConfigurationError{}, err)
	assert.Contains(t, err.Error(), "MISTRAL_API_KEY")
}

func TestOpenAICompatProviderError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		w.Write([]byte(`{"error":{"message":"slow down","code":"rate_limited"}}`))
	}))
	defer server.Close()

	adapter, err := NewGroqChatAdapter(Config{APIKey: "gsk-test", BaseURL: server.URL})
	require.NoError(t, err)

	_, err = adapter.ChatCompletionsCreate(context.Background(), "llama3-70b",
		[]Message{{Role: RoleUser, Content: "Hi"}}, nil, nil)
	require.Error(t, err)

	var rateErr *RateLimitError
	require.ErrorAs(t, err, &rateErr)
	assert.Equal(t, "groq", rateErr.Provider)
	assert.Equal(t, 429, rateErr.StatusCode)
	assert.Equal(t, "rate_limited", rateErr.Code)
	assert.Contains(t, rateErr.Message, "slow down")
}
