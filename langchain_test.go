package aisuite

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestLangchainAdapter(server *httptest.Server) *LangchainChatAdapter {
	return &LangchainChatAdapter{
		baseURL: server.URL,
		http:    newHTTPClient(0),
		clients: make(map[string]*langchainModelClient),
	}
}

func TestLangchainChatRouting(t *testing.T) {
	var capturedBody map[string]interface{}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/chat", r.URL.Path)
		body, _ := io.ReadAll(r.Body)
		require.NoError(t, json.Unmarshal(body, &capturedBody))

		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(map[string]interface{}{
			"model": "llama3",
			"message": map[string]interface{}{
				"role":    "assistant",
				"content": "Hi from local model",
			},
			"prompt_eval_count": float64(11),
			"eval_count":        float64(6),
		})
	}))
	defer server.Close()

	adapter := newTestLangchainAdapter(server)
	resp, err := adapter.ChatCompletionsCreate(context.Background(), "ollama_chat://llama3",
		[]Message{{Role: RoleUser, Content: "hi"}}, nil, nil)
	require.NoError(t, err)

	// The scheme is routing only; the backend sees the bare model name.
	assert.Equal(t, "llama3", capturedBody["model"])
	assert.Equal(t, false, capturedBody["stream"])
	messages := capturedBody["messages"].([]interface{})
	require.Len(t, messages, 1)

	assert.Equal(t, "Hi from local model", resp.Choices[0].Message.Content)
	assert.True(t, strings.HasPrefix(resp.ID, "chatcmpl-"))
	assert.Equal(t, "llama3", resp.Model)
	require.NotNil(t, resp.Usage)
	assert.Equal(t, 11, resp.Usage.PromptTokens)
	assert.Equal(t, 6, resp.Usage.CompletionTokens)
	assert.Equal(t, 17, resp.Usage.TotalTokens)
}

func TestLangchainTextRouting(t *testing.T) {
	var capturedBody map[string]interface{}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/generate", r.URL.Path)
		body, _ := io.ReadAll(r.Body)
		json.Unmarshal(body, &capturedBody)

		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(map[string]interface{}{
			"model":    "llama3",
			"response": "completed text",
		})
	}))
	defer server.Close()

	adapter := newTestLangchainAdapter(server)
	resp, err := adapter.ChatCompletionsCreate(context.Background(), "ollama_text://llama3",
		[]Message{
			{Role: RoleSystem, Content: "be brief"},
			{Role: RoleUser, Content: "hi"},
		}, nil, nil)
	require.NoError(t, err)

	// Text backends get the turns flattened into one prompt.
	assert.Equal(t, "system: be brief\nuser: hi", capturedBody["prompt"])
	_, hasMessages := capturedBody["messages"]
	assert.False(t, hasMessages)
	assert.Equal(t, "completed text", resp.Choices[0].Message.Content)
}

func TestLangchainToolCallsSideChannel(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(map[string]interface{}{
			"model": "llama3",
			"message": map[string]interface{}{
				"role":    "assistant",
				"content": "",
				"tool_calls": []interface{}{
					map[string]interface{}{
						"function": map[string]interface{}{
							"name":      "get_weather",
							"arguments": map[string]interface{}{"city": "NYC"},
						},
					},
				},
			},
		})
	}))
	defer server.Close()

	adapter := newTestLangchainAdapter(server)
	resp, err := adapter.ChatCompletionsCreate(context.Background(), "ollama_chat://llama3",
		[]Message{{Role: RoleUser, Content: "weather?"}},
		[]ToolDescriptor{{Name: "get_weather", Description: "Get weather"}}, nil)
	require.NoError(t, err)

	assert.Equal(t, "tool_calls", resp.Choices[0].FinishReason)
	calls := resp.Choices[0].Message.ToolCalls
	require.Len(t, calls, 1)
	assert.Equal(t, "call_0", calls[0].ID)
	assert.Equal(t, "get_weather", calls[0].Function.Name)
	assert.JSONEq(t, `{"city":"NYC"}`, string(calls[0].Function.Arguments))
}

func TestLangchainModelClientCache(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	defer server.Close()

	adapter := newTestLangchainAdapter(server)
	first, _, err := adapter.modelClient("ollama_chat://llama3")
	require.NoError(t, err)
	second, _, err := adapter.modelClient("ollama_chat://llama3")
	require.NoError(t, err)
	assert.Same(t, first, second)
}

func TestLangchainEmptyModel(t *testing.T) {
	adapter, err := NewLangchainChatAdapter(Config{})
	require.NoError(t, err)

	_, err = adapter.ChatCompletionsCreate(context.Background(), "",
		[]Message{{Role: RoleUser, Content: "hi"}}, nil, nil)
	require.Error(t, err)
	assert.IsType(t, &LLMError{}, err)
	assert.Equal(t, "No model specified for Langchain provider", err.Error())
}

func TestLangchainUnsupportedScheme(t *testing.T) {
	adapter, err := NewLangchainChatAdapter(Config{})
	require.NoError(t, err)

	_, err = adapter.ChatCompletionsCreate(context.Background(), "redis://whatever",
		[]Message{{Role: RoleUser, Content: "hi"}}, nil, nil)
	require.Error(t, err)
	assert.IsType(t, &LLMError{}, err)
	assert.Contains(t, err.Error(), "Unsupported Langchain model URI")
}

func TestLangchainWrapsStatusErrors(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"error":"model not loaded"}`))
	}))
	defer server.Close()

	adapter := newTestLangchainAdapter(server)
	_, err := adapter.ChatCompletionsCreate(context.Background(), "ollama_chat://llama3",
		[]Message{{Role: RoleUser, Content: "hi"}}, nil, nil)
	require.Error(t, err)
	assert.IsType(t, &LLMError{}, err)
	assert.Contains(t, err.Error(), "Langchain request failed:")
}
