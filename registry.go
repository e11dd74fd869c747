package aisuite

import (
	"context"
	"fmt"
	"sort"
	"time"
)

// DefaultTemperature applies when the caller does not supply one, for
// vendors that expose a generation-config object.
const DefaultTemperature = 0.7

// Config carries adapter construction parameters. Explicit values win over
// the corresponding environment variables; a zero field means "resolve from
// the environment".
type Config struct {
	APIKey                 string
	BaseURL                string
	Region                 string
	ProjectID              string
	ApplicationCredentials string
	Timeout                time.Duration
}

// ChatAdapter is implemented by every per-vendor chat adapter. One call does
// one synchronous vendor round trip; this layer performs no retries.
type ChatAdapter interface {
	ChatCompletionsCreate(ctx context.Context, model string, messages []Message, tools []ToolDescriptor, options map[string]interface{}) (*ChatCompletionResponse, error)
}

// EmbeddingAdapter is implemented by providers with an embedding backend.
type EmbeddingAdapter interface {
	EmbeddingCreate(ctx context.Context, model string, input string, options map[string]interface{}) ([]float64, error)
}

// RerankAdapter is implemented by providers with a document-ranking backend.
type RerankAdapter interface {
	Rerank(ctx context.Context, model string, query string, docs DocumentInput, docIDs []string, metadata map[string]interface{}) (RankedResults, error)
}

// Registry resolves a provider key to a concrete adapter constructor. It is
// populated explicitly at process start; there is no reflection or dynamic
// module discovery.
type Registry struct {
	chat      map[string]func(Config) (ChatAdapter, error)
	embedding map[string]func(Config) (EmbeddingAdapter, error)
	rerank    map[string]func(Config) (RerankAdapter, error)
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		chat:      make(map[string]func(Config) (ChatAdapter, error)),
		embedding: make(map[string]func(Config) (EmbeddingAdapter, error)),
		rerank:    make(map[string]func(Config) (RerankAdapter, error)),
	}
}

// RegisterChat adds or replaces the chat constructor for a provider key.
func (r *Registry) RegisterChat(key string, ctor func(Config) (ChatAdapter, error)) {
	r.chat[key] = ctor
}

// RegisterEmbedding adds or replaces the embedding constructor for a key.
func (r *Registry) RegisterEmbedding(key string, ctor func(Config) (EmbeddingAdapter, error)) {
	r.embedding[key] = ctor
}

// RegisterRerank adds or replaces the rerank constructor for a key.
func (r *Registry) RegisterRerank(key string, ctor func(Config) (RerankAdapter, error)) {
	r.rerank[key] = ctor
}

// NewChatAdapter constructs the chat adapter registered under key.
func (r *Registry) NewChatAdapter(key string, cfg Config) (ChatAdapter, error) {
	ctor, ok := r.chat[key]
	if !ok {
		return nil, &ConfigurationError{SDKError: SDKError{
			Message: fmt.Sprintf("no chat provider registered for key %q", key),
		}}
	}
	return ctor(cfg)
}

// NewEmbeddingAdapter constructs the embedding adapter registered under key.
func (r *Registry) NewEmbeddingAdapter(key string, cfg Config) (EmbeddingAdapter, error) {
	ctor, ok := r.embedding[key]
	if !ok {
		return nil, &ConfigurationError{SDKError: SDKError{
			Message: fmt.Sprintf("no embedding provider registered for key %q", key),
		}}
	}
	return ctor(cfg)
}

// NewRerankAdapter constructs the rerank adapter registered under key.
func (r *Registry) NewRerankAdapter(key string, cfg Config) (RerankAdapter, error) {
	ctor, ok := r.rerank[key]
	if !ok {
		return nil, &ConfigurationError{SDKError: SDKError{
			Message: fmt.Sprintf("no rerank provider registered for key %q", key),
		}}
	}
	return ctor(cfg)
}

// ChatProviders returns the registered chat provider keys, sorted.
func (r *Registry) ChatProviders() []string {
	keys := make([]string, 0, len(r.chat))
	for k := range r.chat {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// DefaultRegistry returns a registry populated with every built-in provider.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	r.RegisterChat("anthropic", func(cfg Config) (ChatAdapter, error) { return NewAnthropicChatAdapter(cfg) })
	r.RegisterChat("aws", func(cfg Config) (ChatAdapter, error) { return NewAWSChatAdapter(cfg) })
	r.RegisterChat("azure", func(cfg Config) (ChatAdapter, error) { return NewAzureChatAdapter(cfg) })
	r.RegisterChat("fireworks", func(cfg Config) (ChatAdapter, error) { return NewFireworksChatAdapter(cfg) })
	r.RegisterChat("googlegenai", func(cfg Config) (ChatAdapter, error) { return NewGoogleGenAIChatAdapter(cfg) })
	r.RegisterChat("googlevertex", func(cfg Config) (ChatAdapter, error) { return NewGoogleVertexChatAdapter(cfg) })
	r.RegisterChat("googlecloud", func(cfg Config) (ChatAdapter, error) { return NewGoogleCloudChatAdapter(cfg) })
	r.RegisterChat("groq", func(cfg Config) (ChatAdapter, error) { return NewGroqChatAdapter(cfg) })
	r.RegisterChat("langchain", func(cfg Config) (ChatAdapter, error) { return NewLangchainChatAdapter(cfg) })
	r.RegisterChat("mistral", func(cfg Config) (ChatAdapter, error) { return NewMistralChatAdapter(cfg) })

	r.RegisterEmbedding("googlegenai", func(cfg Config) (EmbeddingAdapter, error) { return NewGoogleGenAIEmbeddingAdapter(cfg) })

	r.RegisterRerank("googlecloud", func(cfg Config) (RerankAdapter, error) { return NewGoogleCloudRerankAdapter(cfg) })
	return r
}
