package aisuite

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"os"
	"strings"
)

// defaultAnthropicMaxTokens applies when the caller does not supply
// max_tokens; the Messages API requires the field.
const defaultAnthropicMaxTokens = 4096

// AnthropicChatAdapter implements ChatAdapter for the Anthropic Messages API.
type AnthropicChatAdapter struct {
	apiKey  string
	baseURL string
	http    *httpClient
}

// NewAnthropicChatAdapter creates an Anthropic adapter. The API key is
// resolved from cfg then ANTHROPIC_API_KEY.
func NewAnthropicChatAdapter(cfg Config) (*AnthropicChatAdapter, error) {
	apiKey := cfg.APIKey
	if apiKey == "" {
		apiKey = os.Getenv("ANTHROPIC_API_KEY")
	}
	if apiKey == "" {
		return nil, &ConfigurationError{SDKError: SDKError{
			Message: "ANTHROPIC_API_KEY is required",
		}}
	}

	baseURL := "https://api.anthropic.com"
	if cfg.BaseURL != "" {
		baseURL = strings.TrimRight(cfg.BaseURL, "/")
	}

	return &AnthropicChatAdapter{
		apiKey:  apiKey,
		baseURL: baseURL,
		http:    newHTTPClient(0),
	}, nil
}

// ChatCompletionsCreate sends one blocking request to the Messages API and
// normalizes the result.
func (a *AnthropicChatAdapter) ChatCompletionsCreate(ctx context.Context, model string, messages []Message, tools []ToolDescriptor, options map[string]interface{}) (*ChatCompletionResponse, error) {
	body, err := a.buildRequestBody(model, messages, tools, options)
	if err != nil {
		return nil, err
	}

	httpReq, err := http.NewRequestWithContext(ctx, "POST", a.baseURL+"/v1/messages", bytes.NewReader(body))
	if err != nil {
		return nil, &NetworkError{SDKError: SDKError{Message: "failed to create request", Cause: err}}
	}
	httpReq.Header.Set("x-api-key", a.apiKey)
	httpReq.Header.Set("anthropic-version", "2023-06-01")
	httpReq.Header.Set("content-type", "application/json")

	resp, err := a.http.Do(httpReq)
	if err != nil {
		return nil, &NetworkError{SDKError: SDKError{Message: "request failed", Cause: err}}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, buildErrorFromResponse(resp, "anthropic")
	}

	raw, err := decodeJSONResponse(resp, "anthropic")
	if err != nil {
		return nil, err
	}
	return a.normalizeResponse(raw), nil
}

func (a *AnthropicChatAdapter) buildRequestBody(model string, messages []Message, tools []ToolDescriptor, options map[string]interface{}) ([]byte, error) {
	system, hasSystem, rest := extractSystemMessage(messages)

	apiMessages := make([]map[string]interface{}, 0, len(rest))
	for _, msg := range rest {
		apiMessages = append(apiMessages, map[string]interface{}{
			"role":    string(msg.Role),
			"content": msg.Content,
		})
	}

	body := map[string]interface{}{
		"model":    model,
		"messages": apiMessages,
	}
	if hasSystem {
		body["system"] = system
	}

	// Caller options forward verbatim; max_tokens is required by the API.
	for k, v := range options {
		body[k] = v
	}
	if _, ok := body["max_tokens"]; !ok {
		body["max_tokens"] = defaultAnthropicMaxTokens
	}

	if len(tools) > 0 {
		anthropicTools := make([]map[string]interface{}, 0, len(tools))
		for _, td := range tools {
			anthropicTools = append(anthropicTools, map[string]interface{}{
				"name":        td.Name,
				"description": td.Description,
				"input_schema": map[string]interface{}{
					"type":       "object",
					"properties": td.argProperties(),
					"required":   td.requiredArgs(),
				},
			})
		}
		body["tools"] = anthropicTools
	}

	return json.Marshal(body)
}

func (a *AnthropicChatAdapter) normalizeResponse(raw map[string]interface{}) *ChatCompletionResponse {
	resp := NewChatCompletionResponse()

	if id, ok := raw["id"].(string); ok {
		resp.ID = id
	}
	if model, ok := raw["model"].(string); ok {
		resp.Model = model
	}
	if usageMap, ok := raw["usage"].(map[string]interface{}); ok {
		usage := &Usage{}
		if v, ok := usageMap["input_tokens"].(float64); ok {
			usage.PromptTokens = int(v)
		}
		if v, ok := usageMap["output_tokens"].(float64); ok {
			usage.CompletionTokens = int(v)
		}
		usage.TotalTokens = usage.PromptTokens + usage.CompletionTokens
		resp.Usage = usage
	}

	var toolCalls []ToolCall
	content, _ := raw["content"].([]interface{})
	for i, block := range content {
		blockMap, ok := block.(map[string]interface{})
		if !ok {
			continue
		}
		switch blockMap["type"] {
		case "text":
			if text, ok := blockMap["text"].(string); ok && resp.Choices[0].Message.Content == "" {
				resp.Choices[0].Message.Content = text
			}
		case "tool_use":
			name, _ := blockMap["name"].(string)
			id, _ := blockMap["id"].(string)
			if id == "" {
				id = callIndexID(i)
			}
			toolCalls = append(toolCalls, ToolCall{
				ID:   id,
				Type: "function",
				Function: FunctionCall{
					Name:      name,
					Arguments: rawArguments(blockMap["input"]),
				},
			})
		}
	}

	if len(toolCalls) > 0 {
		resp.Choices[0].Message.ToolCalls = toolCalls
		resp.Choices[0].FinishReason = "tool_calls"
		return resp
	}

	switch raw["stop_reason"] {
	case "end_turn", "stop_sequence", nil:
		resp.Choices[0].FinishReason = "stop"
	case "max_tokens":
		resp.Choices[0].FinishReason = "length"
	default:
		if reason, ok := raw["stop_reason"].(string); ok {
			resp.Choices[0].FinishReason = reason
		}
	}
	return resp
}
