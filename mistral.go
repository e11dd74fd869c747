package aisuite

import (
	"context"
	"os"
	"strings"
)

// MistralChatAdapter implements ChatAdapter for the Mistral OpenAI-compatible
// API.
type MistralChatAdapter struct {
	compat *openAICompatClient
}

// NewMistralChatAdapter creates a Mistral adapter. The API key resolves from
// cfg then MISTRAL_API_KEY.
func NewMistralChatAdapter(cfg Config) (*MistralChatAdapter, error) {
	apiKey := cfg.APIKey
	if apiKey == "" {
		apiKey = os.Getenv("MISTRAL_API_KEY")
	}
	if apiKey == "" {
		return nil, &ConfigurationError{SDKError: SDKError{
			Message: "API key is missing. Please provide it in the config or set the MISTRAL_API_KEY environment variable.",
		}}
	}

	endpoint := "https://api.mistral.ai/v1/chat/completions"
	if cfg.BaseURL != "" {
		endpoint = strings.TrimRight(cfg.BaseURL, "/") + "/chat/completions"
	}

	return &MistralChatAdapter{compat: &openAICompatClient{
		provider: "mistral",
		endpoint: endpoint,
		apiKey:   apiKey,
		http:     newHTTPClient(0),
	}}, nil
}

// ChatCompletionsCreate forwards the conversation and options verbatim to
// the Mistral endpoint.
func (a *MistralChatAdapter) ChatCompletionsCreate(ctx context.Context, model string, messages []Message, tools []ToolDescriptor, options map[string]interface{}) (*ChatCompletionResponse, error) {
	return a.compat.chatCompletionsCreate(ctx, model, messages, tools, options)
}
