package aisuite

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"sort"
	"strings"
)

// AzureChatAdapter implements ChatAdapter for Azure-hosted inference
// endpoints speaking the OpenAI chat-completions shape.
type AzureChatAdapter struct {
	apiKey  string
	baseURL string
	http    *httpClient
}

// NewAzureChatAdapter creates an Azure adapter. api_key and base_url resolve
// from cfg then AZURE_API_KEY / AZURE_BASE_URL; both are required.
func NewAzureChatAdapter(cfg Config) (*AzureChatAdapter, error) {
	apiKey := cfg.APIKey
	if apiKey == "" {
		apiKey = os.Getenv("AZURE_API_KEY")
	}
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = os.Getenv("AZURE_BASE_URL")
	}

	if apiKey == "" {
		return nil, &ConfigurationError{SDKError: SDKError{
			Message: "For Azure, api_key is required.",
		}}
	}
	if baseURL == "" {
		return nil, &ConfigurationError{SDKError: SDKError{
			Message: "For Azure, base_url is required. Check your deployment page for a URL like this - https://<model-deployment-name>.<region>.models.ai.azure.com",
		}}
	}

	return &AzureChatAdapter{
		apiKey:  apiKey,
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    newHTTPClient(0),
	}, nil
}

// ChatCompletionsCreate POSTs the conversation to {base_url}/chat/completions.
// The Authorization header carries the raw API key, which is what Azure
// serverless deployments expect (no "Bearer " prefix). The stream option is
// stripped unconditionally.
func (a *AzureChatAdapter) ChatCompletionsCreate(ctx context.Context, model string, messages []Message, tools []ToolDescriptor, options map[string]interface{}) (*ChatCompletionResponse, error) {
	body := map[string]interface{}{
		"messages": messages,
	}
	for k, v := range options {
		if k == "stream" {
			continue
		}
		body[k] = v
	}
	if len(tools) > 0 {
		body["tools"] = azureTools(tools)
	}

	payload, err := json.Marshal(body)
	if err != nil {
		return nil, &InvalidRequestError{ProviderError: ProviderError{
			SDKError: SDKError{Message: "failed to encode request body", Cause: err},
			Provider: "azure",
		}}
	}

	httpReq, err := http.NewRequestWithContext(ctx, "POST", a.baseURL+"/chat/completions", bytes.NewReader(payload))
	if err != nil {
		return nil, &NetworkError{SDKError: SDKError{Message: "failed to create request", Cause: err}}
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", a.apiKey)

	resp, err := a.http.Do(httpReq)
	if err != nil {
		return nil, &NetworkError{SDKError: SDKError{Message: "request failed", Cause: err}}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, a.errorFromResponse(resp)
	}

	raw, err := decodeJSONResponse(resp, "azure")
	if err != nil {
		return nil, err
	}
	return normalizeOpenAIStyleResponse(raw), nil
}

// errorFromResponse formats HTTP failures with status, headers, and body, the
// shape downstream log scrapers already match on.
func (a *AzureChatAdapter) errorFromResponse(resp *http.Response) error {
	body, _ := io.ReadAll(resp.Body)

	var headers strings.Builder
	for _, name := range sortedHeaderNames(resp.Header) {
		fmt.Fprintf(&headers, "%s: %s\n", name, strings.Join(resp.Header[name], ", "))
	}

	message := fmt.Sprintf("The request failed with status code: %d\nHeaders: %s\n%s",
		resp.StatusCode, headers.String(), string(body))
	return ErrorFromStatusCode(resp.StatusCode, message, "azure", "", string(body))
}

func sortedHeaderNames(h http.Header) []string {
	names := make([]string, 0, len(h))
	for name := range h {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func azureTools(tools []ToolDescriptor) []map[string]interface{} {
	out := make([]map[string]interface{}, 0, len(tools))
	for _, td := range tools {
		out = append(out, map[string]interface{}{
			"type": "function",
			"function": map[string]interface{}{
				"name":        td.Name,
				"description": td.Description,
				"parameters": map[string]interface{}{
					"type":       "object",
					"properties": td.argProperties(),
					"required":   td.requiredArgs(),
				},
			},
		})
	}
	return out
}
