package aisuite

import (
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"time"
)

// httpClient is the shared HTTP client wrapper used by every adapter that
// speaks a vendor wire protocol directly.
type httpClient struct {
	client *http.Client
}

// newHTTPClient creates a client with the default transport timeouts. A zero
// requestTimeout means no overall deadline; cancellation then relies on the
// caller's context.
func newHTTPClient(requestTimeout time.Duration) *httpClient {
	transport := &http.Transport{
		DialContext: (&net.Dialer{
			Timeout: 10 * time.Second,
		}).DialContext,
		TLSHandshakeTimeout: 10 * time.Second,
		MaxIdleConns:        100,
		MaxIdleConnsPerHost: 10,
		IdleConnTimeout:     90 * time.Second,
	}
	return &httpClient{
		client: &http.Client{
			Transport: transport,
			Timeout:   requestTimeout,
		},
	}
}

// Do executes an HTTP request.
func (hc *httpClient) Do(req *http.Request) (*http.Response, error) {
	return hc.client.Do(req)
}

// buildErrorFromResponse drains a non-success vendor response and maps it to
// the typed error hierarchy. Handles the common {"error": {"message", "code"
// / "type"}} envelope; falls back to the raw body.
func buildErrorFromResponse(resp *http.Response, provider string) error {
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return &NetworkError{SDKError: SDKError{
			Message: fmt.Sprintf("failed to read error response body: %v", err),
			Cause:   err,
		}}
	}

	var message, errorCode string
	var raw map[string]interface{}
	if err := json.Unmarshal(body, &raw); err == nil {
		if errObj, ok := raw["error"].(map[string]interface{}); ok {
			if msg, ok := errObj["message"].(string); ok {
				message = msg
			}
			if code, ok := errObj["code"].(string); ok {
				errorCode = code
			}
			if code, ok := errObj["type"].(string); ok && errorCode == "" {
				errorCode = code
			}
		}
		if message == "" {
			if msg, ok := raw["message"].(string); ok {
				message = msg
			}
		}
	}

	if message == "" {
		message = fmt.Sprintf("HTTP %d: %s", resp.StatusCode, string(body))
	}

	return ErrorFromStatusCode(resp.StatusCode, message, provider, errorCode, string(body))
}

// decodeJSONResponse reads and unmarshals a success response body into a
// generic map for normalization.
func decodeJSONResponse(resp *http.Response, provider string) (map[string]interface{}, error) {
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &NetworkError{SDKError: SDKError{Message: "failed to read response", Cause: err}}
	}
	var raw map[string]interface{}
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, &InvalidRequestError{ProviderError: ProviderError{
			SDKError: SDKError{Message: "failed to parse response JSON", Cause: err},
			Provider: provider,
		}}
	}
	return raw, nil
}
