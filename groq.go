package aisuite

import (
	"context"
	"os"
	"strings"
)

// GroqChatAdapter implements ChatAdapter for the Groq OpenAI-compatible API.
type GroqChatAdapter struct {
	compat *openAICompatClient
}

// NewGroqChatAdapter creates a Groq adapter. The API key resolves from cfg
// then GROQ_API_KEY.
func NewGroqChatAdapter(cfg Config) (*GroqChatAdapter, error) {
	apiKey := cfg.APIKey
	if apiKey == "" {
		apiKey = os.Getenv("GROQ_API_KEY")
	}
	if apiKey == "" {
		return nil, &ConfigurationError{SDKError: SDKError{
			Message: "API key is missing. Please provide it in the config or set the GROQ_API_KEY environment variable.",
		}}
	}

	endpoint := "https://api.groq.com/openai/v1/chat/completions"
	if cfg.BaseURL != "" {
		endpoint = strings.TrimRight(cfg.BaseURL, "/") + "/chat/completions"
	}

	return &GroqChatAdapter{compat: &openAICompatClient{
		provider: "groq",
		endpoint: endpoint,
		apiKey:   apiKey,
		http:     newHTTPClient(0),
	}}, nil
}

// ChatCompletionsCreate forwards the conversation and options verbatim to
// the Groq endpoint.
func (a *GroqChatAdapter) ChatCompletionsCreate(ctx context.Context, model string, messages []Message, tools []ToolDescriptor, options map[string]interface{}) (*ChatCompletionResponse, error) {
	return a.compat.chatCompletionsCreate(ctx, model, messages, tools, options)
}
