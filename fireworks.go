package aisuite

import (
	"context"
	"net/http"
	"os"
	"strings"
	"time"
)

// defaultFireworksTimeout bounds each Fireworks request unless overridden.
const defaultFireworksTimeout = 30 * time.Second

// FireworksChatAdapter implements ChatAdapter for the Fireworks AI
// chat-completions endpoint. Unlike most adapters, every failure — HTTP
// status errors and transport errors alike — is collapsed into a single
// LLMError carrying a descriptive message.
type FireworksChatAdapter struct {
	compat *openAICompatClient
}

// NewFireworksChatAdapter creates a Fireworks adapter. The API key resolves
// from cfg then FIREWORKS_API_KEY; the request timeout defaults to 30s.
func NewFireworksChatAdapter(cfg Config) (*FireworksChatAdapter, error) {
	apiKey := cfg.APIKey
	if apiKey == "" {
		apiKey = os.Getenv("FIREWORKS_API_KEY")
	}
	if apiKey == "" {
		return nil, &ConfigurationError{SDKError: SDKError{
			Message: "Fireworks API key is missing. Please provide it in the config or set the FIREWORKS_API_KEY environment variable.",
		}}
	}

	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = defaultFireworksTimeout
	}

	endpoint := "https://api.fireworks.ai/inference/v1/chat/completions"
	if cfg.BaseURL != "" {
		endpoint = strings.TrimRight(cfg.BaseURL, "/") + "/chat/completions"
	}

	return &FireworksChatAdapter{compat: &openAICompatClient{
		provider: "fireworks",
		endpoint: endpoint,
		apiKey:   apiKey,
		http:     newHTTPClient(timeout),
	}}, nil
}

// ChatCompletionsCreate forwards the conversation to Fireworks and wraps any
// failure into an LLMError.
func (a *FireworksChatAdapter) ChatCompletionsCreate(ctx context.Context, model string, messages []Message, tools []ToolDescriptor, options map[string]interface{}) (*ChatCompletionResponse, error) {
	payload, err := a.compat.buildBody(model, messages, tools, options)
	if err != nil {
		return nil, NewLLMError("An error occurred: %v", err)
	}

	resp, err := a.compat.do(ctx, payload)
	if err != nil {
		return nil, NewLLMError("An error occurred: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		statusErr := buildErrorFromResponse(resp, "fireworks")
		return nil, NewLLMError("Fireworks AI request failed: %v", statusErr)
	}

	raw, err := decodeJSONResponse(resp, "fireworks")
	if err != nil {
		return nil, NewLLMError("An error occurred: %v", err)
	}
	return normalizeOpenAIStyleResponse(raw), nil
}
