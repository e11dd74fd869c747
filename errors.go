package aisuite

import "fmt"

// SDKError is the base error type for this layer. Concrete error kinds embed
// it so callers can classify with errors.As while still unwrapping the
// underlying cause.
type SDKError struct {
	Message string
	Cause   error
}

func (e *SDKError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *SDKError) Unwrap() error { return e.Cause }

// ConfigurationError reports a missing required credential or parameter at
// adapter construction time, before any network call.
type ConfigurationError struct {
	SDKError
}

// NetworkError reports a transport-level failure before a vendor response
// was received.
type NetworkError struct {
	SDKError
}

// ProviderError reports a non-success response from a vendor. Body carries
// the raw response payload for diagnostics.
type ProviderError struct {
	SDKError
	Provider   string
	StatusCode int
	Code       string
	Body       string
}

// AuthenticationError is a ProviderError for 401/403 responses.
type AuthenticationError struct {
	ProviderError
}

// RateLimitError is a ProviderError for 429 responses.
type RateLimitError struct {
	ProviderError
}

// InvalidRequestError is a ProviderError for other 4xx responses or
// unparseable vendor payloads.
type InvalidRequestError struct {
	ProviderError
}

// ServerError is a ProviderError for 5xx responses.
type ServerError struct {
	ProviderError
}

// LLMError is the single wrap-all error kind used by adapters that collapse
// every failure into one descriptive error (Fireworks, the bridge adapter).
type LLMError struct {
	SDKError
}

// NewLLMError builds an LLMError with a formatted message.
func NewLLMError(format string, args ...interface{}) *LLMError {
	return &LLMError{SDKError: SDKError{Message: fmt.Sprintf(format, args...)}}
}

// NotImplementedError signals an operation with no vendor backing, for
// example chat completions on a rerank-only provider.
type NotImplementedError struct {
	SDKError
}

// NewNotImplementedError builds the canonical "not implemented for this
// provider" error for the named provider and operation.
func NewNotImplementedError(provider, operation string) *NotImplementedError {
	return &NotImplementedError{SDKError: SDKError{
		Message: fmt.Sprintf("%s not implemented for provider %s", operation, provider),
	}}
}

// ErrorFromStatusCode classifies a non-success HTTP status into the typed
// provider error hierarchy.
func ErrorFromStatusCode(statusCode int, message, provider, code, body string) error {
	pe := ProviderError{
		SDKError:   SDKError{Message: message},
		Provider:   provider,
		StatusCode: statusCode,
		Code:       code,
		Body:       body,
	}
	switch {
	case statusCode == 401 || statusCode == 403:
		return &AuthenticationError{ProviderError: pe}
	case statusCode == 429:
		return &RateLimitError{ProviderError: pe}
	case statusCode >= 400 && statusCode < 500:
		return &InvalidRequestError{ProviderError: pe}
	default:
		return &ServerError{ProviderError: pe}
	}
}
