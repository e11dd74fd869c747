package aisuite

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// defaultLangchainTimeout bounds one bridge round trip.
const defaultLangchainTimeout = 60 * time.Second

// defaultOllamaHost is the local Ollama daemon used when no base URL is
// configured.
const defaultOllamaHost = "http://localhost:11434"

// langchainModelClient is one resolved backend for a model URI: the endpoint
// to post to and whether it speaks the chat or the plain-generate wire shape.
type langchainModelClient struct {
	endpoint string
	chat     bool
}

// LangchainChatAdapter implements ChatAdapter by bridging model URIs to
// locally hosted backends. The model string carries the routing scheme:
// ollama_chat://llama3 posts to the Ollama chat API, ollama_text://llama3 to
// the plain generate API. Resolved clients are cached per model URI so
// repeated calls with the same model skip the parse.
type LangchainChatAdapter struct {
	baseURL string
	http    *httpClient

	mu      sync.Mutex
	clients map[string]*langchainModelClient
}

// NewLangchainChatAdapter creates a bridge adapter. The backend host
// resolves from cfg.BaseURL, falling back to the local Ollama default.
func NewLangchainChatAdapter(cfg Config) (*LangchainChatAdapter, error) {
	baseURL := defaultOllamaHost
	if cfg.BaseURL != "" {
		baseURL = strings.TrimRight(cfg.BaseURL, "/")
	}
	timeout := defaultLangchainTimeout
	if cfg.Timeout > 0 {
		timeout = cfg.Timeout
	}
	return &LangchainChatAdapter{
		baseURL: baseURL,
		http:    newHTTPClient(timeout),
		clients: make(map[string]*langchainModelClient),
	}, nil
}

// modelClient resolves and caches the backend for one model URI.
func (a *LangchainChatAdapter) modelClient(model string) (*langchainModelClient, string, error) {
	if model == "" {
		return nil, "", NewLLMError("No model specified for Langchain provider")
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	if client, ok := a.clients[model]; ok {
		return client, modelName(model), nil
	}

	var client *langchainModelClient
	switch {
	case strings.HasPrefix(model, "ollama_chat://"):
		client = &langchainModelClient{endpoint: a.baseURL + "/api/chat", chat: true}
	case strings.HasPrefix(model, "ollama_text://"):
		client = &langchainModelClient{endpoint: a.baseURL + "/api/generate"}
	default:
		return nil, "", NewLLMError("Unsupported Langchain model URI: %s", model)
	}

	a.clients[model] = client
	return client, modelName(model), nil
}

// modelName strips the routing scheme off a model URI.
func modelName(model string) string {
	if i := strings.Index(model, "://"); i >= 0 {
		return model[i+3:]
	}
	return model
}

// ChatCompletionsCreate routes the conversation to the backend named by the
// model URI. Chat backends receive the message list as-is; text backends
// receive the turns flattened into a single prompt. Every failure surfaces as
// an LLMError.
func (a *LangchainChatAdapter) ChatCompletionsCreate(ctx context.Context, model string, messages []Message, tools []ToolDescriptor, options map[string]interface{}) (*ChatCompletionResponse, error) {
	client, name, err := a.modelClient(model)
	if err != nil {
		return nil, err
	}

	body := map[string]interface{}{
		"model":  name,
		"stream": false,
	}
	if client.chat {
		body["messages"] = messages
		if len(tools) > 0 {
			body["tools"] = azureTools(tools)
		}
	} else {
		body["prompt"] = flattenPrompt(messages)
	}
	if len(options) > 0 {
		body["options"] = options
	}

	payload, err := json.Marshal(body)
	if err != nil {
		return nil, NewLLMError("An error occurred: %v", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, "POST", client.endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, NewLLMError("An error occurred: %v", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := a.http.Do(httpReq)
	if err != nil {
		return nil, NewLLMError("An error occurred: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		baseErr := buildErrorFromResponse(resp, "langchain")
		return nil, NewLLMError("Langchain request failed: %v", baseErr)
	}

	var raw map[string]interface{}
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return nil, NewLLMError("An error occurred: %v", err)
	}
	return normalizeLangchainResponse(raw, client.chat), nil
}

// flattenPrompt renders the conversation as role-prefixed lines for backends
// that accept only a plain prompt string.
func flattenPrompt(messages []Message) string {
	var b strings.Builder
	for i, msg := range messages {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(string(msg.Role))
		b.WriteString(": ")
		b.WriteString(msg.Content)
	}
	return b.String()
}

// normalizeLangchainResponse maps an Ollama chat or generate payload into the
// canonical response. Backends carry no response id, so one is synthesized.
func normalizeLangchainResponse(raw map[string]interface{}, chat bool) *ChatCompletionResponse {
	resp := NewChatCompletionResponse()
	resp.ID = "chatcmpl-" + uuid.NewString()
	if model, ok := raw["model"].(string); ok {
		resp.Model = model
	}

	resp.Choices[0].FinishReason = "stop"
	if chat {
		message, _ := raw["message"].(map[string]interface{})
		if content, ok := message["content"].(string); ok {
			resp.Choices[0].Message.Content = content
		}
		if calls := langchainToolCalls(message["tool_calls"]); len(calls) > 0 {
			resp.Choices[0].Message.ToolCalls = calls
			resp.Choices[0].FinishReason = "tool_calls"
		}
	} else if content, ok := raw["response"].(string); ok {
		resp.Choices[0].Message.Content = content
	}

	var usage Usage
	if v, ok := raw["prompt_eval_count"].(float64); ok {
		usage.PromptTokens = int(v)
	}
	if v, ok := raw["eval_count"].(float64); ok {
		usage.CompletionTokens = int(v)
	}
	if usage.PromptTokens > 0 || usage.CompletionTokens > 0 {
		usage.TotalTokens = usage.PromptTokens + usage.CompletionTokens
		resp.Usage = &usage
	}
	return resp
}

// langchainToolCalls reads the tool-call side channel of an Ollama chat
// message. The backend supplies no call ids, so positional ones are
// synthesized.
func langchainToolCalls(v interface{}) []ToolCall {
	list, ok := v.([]interface{})
	if !ok {
		return nil
	}
	var calls []ToolCall
	for i, entry := range list {
		m, ok := entry.(map[string]interface{})
		if !ok {
			continue
		}
		fn, _ := m["function"].(map[string]interface{})
		tc := ToolCall{ID: callIndexID(i), Type: "function"}
		if name, ok := fn["name"].(string); ok {
			tc.Function.Name = name
		}
		tc.Function.Arguments = rawArguments(fn["arguments"])
		calls = append(calls, tc)
	}
	return calls
}
