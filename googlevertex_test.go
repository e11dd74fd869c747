package aisuite

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"
)

func newTestVertexAdapter(server *httptest.Server) *GoogleVertexChatAdapter {
	return &GoogleVertexChatAdapter{
		projectID: "my-project",
		region:    "us-central1",
		baseURL:   server.URL,
		tokens:    oauth2.StaticTokenSource(&oauth2.Token{AccessToken: "test-token"}),
		http:      newHTTPClient(0),
	}
}

func TestGoogleVertexChatCompletionsCreate(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t,
			"/v1/projects/my-project/locations/us-central1/publishers/google/models/gemini-1.5-pro:generateContent",
			r.URL.Path)
		assert.Equal(t, "Bearer test-token", r.Header.Get("Authorization"))

		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(map[string]interface{}{
			"modelVersion": "gemini-1.5-pro",
			"candidates": []interface{}{
				map[string]interface{}{
					"content": map[string]interface{}{
						"parts": []interface{}{map[string]interface{}{"text": "Vertex says hi"}},
					},
					"finishReason": "STOP",
				},
			},
		})
	}))
	defer server.Close()

	adapter := newTestVertexAdapter(server)
	resp, err := adapter.ChatCompletionsCreate(context.Background(), "gemini-1.5-pro",
		[]Message{{Role: RoleUser, Content: "hi"}}, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, "Vertex says hi", resp.Choices[0].Message.Content)
	assert.Equal(t, "stop", resp.Choices[0].FinishReason)
}

func TestGoogleVertexProviderError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		w.Write([]byte(`{"error":{"message":"permission denied","code":"403"}}`))
	}))
	defer server.Close()

	adapter := newTestVertexAdapter(server)
	_, err := adapter.ChatCompletionsCreate(context.Background(), "gemini-1.5-pro",
		[]Message{{Role: RoleUser, Content: "hi"}}, nil, nil)
	require.Error(t, err)
	assert.IsType(t, &AuthenticationError{}, err)
}

func TestGoogleVertexConstructorRequiresConfig(t *testing.T) {
	t.Setenv("GOOGLE_PROJECT_ID", "")
	t.Setenv("GOOGLE_REGION", "")
	t.Setenv("GOOGLE_APPLICATION_CREDENTIALS", "")

	_, err := NewGoogleVertexChatAdapter(Config{})
	require.Error(t, err)
	assert.IsType(t, &ConfigurationError{}, err)
	assert.Contains(t, err.Error(), "Missing one or more required Google environment variables")
}
