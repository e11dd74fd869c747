package aisuite

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"strings"
)

// defaultEmbeddingDim is the output dimensionality used when the caller does
// not request one.
const defaultEmbeddingDim = 1024

// googleGenAIClient holds the connection settings shared by the GenAI chat
// and embedding adapters.
type googleGenAIClient struct {
	apiKey  string
	baseURL string
	http    *httpClient
}

func newGoogleGenAIClient(cfg Config) (*googleGenAIClient, error) {
	apiKey := cfg.APIKey
	if apiKey == "" {
		apiKey = os.Getenv("GOOGLE_GEN_AI_API_KEY")
	}
	if apiKey == "" {
		return nil, &ConfigurationError{SDKError: SDKError{
			Message: "API Key not provided for google Gen AI.",
		}}
	}

	baseURL := "https://generativelanguage.googleapis.com"
	if cfg.BaseURL != "" {
		baseURL = strings.TrimRight(cfg.BaseURL, "/")
	}

	return &googleGenAIClient{
		apiKey:  apiKey,
		baseURL: baseURL,
		http:    newHTTPClient(0),
	}, nil
}

func (c *googleGenAIClient) post(ctx context.Context, path string, body map[string]interface{}) (map[string]interface{}, error) {
	payload, err := json.Marshal(body)
	if err != nil {
		return nil, &InvalidRequestError{ProviderError: ProviderError{
			SDKError: SDKError{Message: "failed to encode request body", Cause: err},
			Provider: "googlegenai",
		}}
	}

	url := fmt.Sprintf("%s%s?key=%s", c.baseURL, path, c.apiKey)
	httpReq, err := http.NewRequestWithContext(ctx, "POST", url, bytes.NewReader(payload))
	if err != nil {
		return nil, &NetworkError{SDKError: SDKError{Message: "failed to create request", Cause: err}}
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return nil, &NetworkError{SDKError: SDKError{Message: "request failed", Cause: err}}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, buildErrorFromResponse(resp, "googlegenai")
	}
	return decodeJSONResponse(resp, "googlegenai")
}

// GoogleGenAIChatAdapter implements ChatAdapter for the Google GenAI
// generateContent API.
type GoogleGenAIChatAdapter struct {
	client *googleGenAIClient
}

// NewGoogleGenAIChatAdapter creates a GenAI chat adapter. The API key
// resolves from cfg then GOOGLE_GEN_AI_API_KEY.
func NewGoogleGenAIChatAdapter(cfg Config) (*GoogleGenAIChatAdapter, error) {
	client, err := newGoogleGenAIClient(cfg)
	if err != nil {
		return nil, err
	}
	return &GoogleGenAIChatAdapter{client: client}, nil
}

// ChatCompletionsCreate remaps every role into Google's vocabulary, sends
// all prior turns as chat history with the final message as the live turn,
// and normalizes the generateContent response.
func (a *GoogleGenAIChatAdapter) ChatCompletionsCreate(ctx context.Context, model string, messages []Message, tools []ToolDescriptor, options map[string]interface{}) (*ChatCompletionResponse, error) {
	body := buildGoogleChatBody(messages, tools, options)
	raw, err := a.client.post(ctx, "/v1beta/models/"+model+":generateContent", body)
	if err != nil {
		return nil, err
	}
	return normalizeGoogleResponse(raw), nil
}

// buildGoogleChatBody assembles the generateContent payload shared by the
// GenAI and Vertex chat adapters.
func buildGoogleChatBody(messages []Message, tools []ToolDescriptor, options map[string]interface{}) map[string]interface{} {
	transformed := transformGoogleRoles(messages)

	contents := []map[string]interface{}{}
	if len(transformed) > 0 {
		contents = convertToGoogleHistory(transformed[:len(transformed)-1])
		last := transformed[len(transformed)-1]
		contents = append(contents, map[string]interface{}{
			"role":  string(last.Role),
			"parts": []map[string]interface{}{{"text": last.Content}},
		})
	}

	temperature := DefaultTemperature
	if t, ok := options["temperature"].(float64); ok {
		temperature = t
	}

	body := map[string]interface{}{
		"contents":         contents,
		"generationConfig": map[string]interface{}{"temperature": temperature},
	}
	if len(tools) > 0 {
		body["tools"] = googleFunctionDeclarations(tools)
	}
	return body
}

// GoogleGenAIEmbeddingAdapter implements EmbeddingAdapter for the GenAI
// embedContent API.
type GoogleGenAIEmbeddingAdapter struct {
	client *googleGenAIClient
}

// NewGoogleGenAIEmbeddingAdapter creates a GenAI embedding adapter.
func NewGoogleGenAIEmbeddingAdapter(cfg Config) (*GoogleGenAIEmbeddingAdapter, error) {
	client, err := newGoogleGenAIClient(cfg)
	if err != nil {
		return nil, err
	}
	return &GoogleGenAIEmbeddingAdapter{client: client}, nil
}

// EmbeddingCreate embeds one input string. Output dimensionality defaults to
// 1024 and can be overridden with the output_dimensionality option.
func (a *GoogleGenAIEmbeddingAdapter) EmbeddingCreate(ctx context.Context, model string, input string, options map[string]interface{}) ([]float64, error) {
	dim := defaultEmbeddingDim
	if v, ok := options["output_dimensionality"].(int); ok {
		dim = v
	} else if v, ok := options["output_dimensionality"].(float64); ok {
		dim = int(v)
	}

	body := map[string]interface{}{
		"model": "models/" + model,
		"content": map[string]interface{}{
			"parts": []map[string]interface{}{{"text": input}},
		},
		"outputDimensionality": dim,
	}

	raw, err := a.client.post(ctx, "/v1beta/models/"+model+":embedContent", body)
	if err != nil {
		return nil, err
	}

	embedding, _ := raw["embedding"].(map[string]interface{})
	values, ok := embedding["values"].([]interface{})
	if !ok {
		return nil, &InvalidRequestError{ProviderError: ProviderError{
			SDKError: SDKError{Message: "embedding response missing values"},
			Provider: "googlegenai",
		}}
	}

	out := make([]float64, 0, len(values))
	for _, v := range values {
		if f, ok := v.(float64); ok {
			out = append(out, f)
		}
	}
	return out, nil
}
