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

func newTestGenAIClient(server *httptest.Server) *googleGenAIClient {
	return &googleGenAIClient{
		apiKey:  "genai-key",
		baseURL: server.URL,
		http:    newHTTPClient(0),
	}
}

func TestGoogleGenAIChatCompletionsCreate(t *testing.T) {
	var capturedBody map[string]interface{}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1beta/models/gemini-1.5-pro:generateContent", r.URL.Path)
		assert.Equal(t, "genai-key", r.URL.Query().Get("key"))

		body, _ := io.ReadAll(r.Body)
		json.Unmarshal(body, &capturedBody)

		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(map[string]interface{}{
			"modelVersion": "gemini-1.5-pro",
			"candidates": []interface{}{
				map[string]interface{}{
					"content": map[string]interface{}{
						"parts": []interface{}{map[string]interface{}{"text": "Bonjour"}},
					},
					"finishReason": "STOP",
				},
			},
		})
	}))
	defer server.Close()

	adapter := &GoogleGenAIChatAdapter{client: newTestGenAIClient(server)}

	resp, err := adapter.ChatCompletionsCreate(context.Background(), "gemini-1.5-pro", []Message{
		{Role: RoleSystem, Content: "translate to french"},
		{Role: RoleUser, Content: "hello"},
	}, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, "Bonjour", resp.Choices[0].Message.Content)

	// System prompt arrives as a user history turn; last message is live.
	contents := capturedBody["contents"].([]interface{})
	require.Len(t, contents, 2)
	first := contents[0].(map[string]interface{})
	assert.Equal(t, "user", first["role"])
	last := contents[1].(map[string]interface{})
	lastParts := last["parts"].([]interface{})
	assert.Equal(t, "hello", lastParts[0].(map[string]interface{})["text"])
}

func TestGoogleGenAIEmbeddingCreate(t *testing.T) {
	var capturedBody map[string]interface{}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1beta/models/text-embedding-004:embedContent", r.URL.Path)
		body, _ := io.ReadAll(r.Body)
		json.Unmarshal(body, &capturedBody)

		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(map[string]interface{}{
			"embedding": map[string]interface{}{
				"values": []interface{}{float64(0.1), float64(-0.2), float64(0.3)},
			},
		})
	}))
	defer server.Close()

	adapter := &GoogleGenAIEmbeddingAdapter{client: newTestGenAIClient(server)}

	vec, err := adapter.EmbeddingCreate(context.Background(), "text-embedding-004", "some text", nil)
	require.NoError(t, err)
	assert.Equal(t, []float64{0.1, -0.2, 0.3}, vec)

	assert.Equal(t, "models/text-embedding-004", capturedBody["model"])
	assert.Equal(t, float64(1024), capturedBody["outputDimensionality"])
	content := capturedBody["content"].(map[string]interface{})
	parts := content["parts"].([]interface{})
	assert.Equal(t, "some text", parts[0].(map[string]interface{})["text"])
}

func TestGoogleGenAIEmbeddingDimensionOverride(t *testing.T) {
	var capturedBody map[string]interface{}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		json.Unmarshal(body, &capturedBody)
		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(map[string]interface{}{
			"embedding": map[string]interface{}{"values": []interface{}{float64(1)}},
		})
	}))
	defer server.Close()

	adapter := &GoogleGenAIEmbeddingAdapter{client: newTestGenAIClient(server)}
	_, err := adapter.EmbeddingCreate(context.Background(), "text-embedding-004", "x",
		map[string]interface{}{"output_dimensionality": 256})
	require.NoError(t, err)
	assert.Equal(t, float64(256), capturedBody["outputDimensionality"])
}

func TestGoogleGenAIEmbeddingMissingValues(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(map[string]interface{}{})
	}))
	defer server.Close()

	adapter := &GoogleGenAIEmbeddingAdapter{client: newTestGenAIClient(server)}
	_, err := adapter.EmbeddingCreate(context.Background(), "text-embedding-004", "x", nil)
	require.Error(t, err)
	assert.IsType(t, &InvalidRequestError{}, err)
}

func TestGoogleGenAIConstructorRequiresKey(t *testing.T) {
	t.Setenv("GOOGLE_GEN_AI_API_KEY", "")
	_, err := NewGoogleGenAIChatAdapter(Config{})
	require.Error(t, err)
	assert.IsType(t, &ConfigurationError{}, err)
	assert.Contains(t, err.Error(), "API Key not provided for google Gen AI.")
}
