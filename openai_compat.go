package aisuite

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
)

// openAICompatClient is the shared request/response core for vendors that
// expose an OpenAI-compatible chat-completions endpoint (Groq, Mistral,
// Fireworks). Caller options are forwarded near-verbatim.
type openAICompatClient struct {
	provider string
	endpoint string
	apiKey   string
	http     *httpClient
}

// buildBody assembles the OpenAI-style request payload. Tools are included
// only when present.
func (c *openAICompatClient) buildBody(model string, messages []Message, tools []ToolDescriptor, options map[string]interface{}) ([]byte, error) {
	body := map[string]interface{}{
		"model":    model,
		"messages": messages,
	}
	for k, v := range options {
		body[k] = v
	}
	if len(tools) > 0 {
		body["tools"] = azureTools(tools)
	}
	return json.Marshal(body)
}

// do POSTs the payload with bearer auth and returns the raw HTTP response.
func (c *openAICompatClient) do(ctx context.Context, payload []byte) (*http.Response, error) {
	httpReq, err := http.NewRequestWithContext(ctx, "POST", c.endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, &NetworkError{SDKError: SDKError{Message: "failed to create request", Cause: err}}
	}
	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)
	httpReq.Header.Set("Content-Type", "application/json")
	return c.http.Do(httpReq)
}

// chatCompletionsCreate runs the full build/call/normalize cycle with the
// default error policy: non-2xx becomes a typed provider error.
func (c *openAICompatClient) chatCompletionsCreate(ctx context.Context, model string, messages []Message, tools []ToolDescriptor, options map[string]interface{}) (*ChatCompletionResponse, error) {
	payload, err := c.buildBody(model, messages, tools, options)
	if err != nil {
		return nil, &InvalidRequestError{ProviderError: ProviderError{
			SDKError: SDKError{Message: "failed to encode request body", Cause: err},
			Provider: c.provider,
		}}
	}

	resp, err := c.do(ctx, payload)
	if err != nil {
		return nil, &NetworkError{SDKError: SDKError{Message: "request failed", Cause: err}}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, buildErrorFromResponse(resp, c.provider)
	}

	raw, err := decodeJSONResponse(resp, c.provider)
	if err != nil {
		return nil, err
	}
	return normalizeOpenAIStyleResponse(raw), nil
}
