package aisuite

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"strings"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

// cloudPlatformScope is the OAuth2 scope for Vertex and Discovery Engine
// calls.
const cloudPlatformScope = "https://www.googleapis.com/auth/cloud-platform"

// GoogleVertexChatAdapter implements ChatAdapter for Vertex AI
// generateContent. Authentication uses an OAuth2 token source built from the
// service-account credentials file.
type GoogleVertexChatAdapter struct {
	projectID string
	region    string
	baseURL   string
	tokens    oauth2.TokenSource
	http      *httpClient
}

// NewGoogleVertexChatAdapter creates a Vertex adapter. project_id, region
// and the application-credentials path resolve from cfg then
// GOOGLE_PROJECT_ID, GOOGLE_REGION, GOOGLE_APPLICATION_CREDENTIALS; all
// three are required before any network call.
func NewGoogleVertexChatAdapter(cfg Config) (*GoogleVertexChatAdapter, error) {
	projectID := cfg.ProjectID
	if projectID == "" {
		projectID = os.Getenv("GOOGLE_PROJECT_ID")
	}
	region := cfg.Region
	if region == "" {
		region = os.Getenv("GOOGLE_REGION")
	}
	credsPath := cfg.ApplicationCredentials
	if credsPath == "" {
		credsPath = os.Getenv("GOOGLE_APPLICATION_CREDENTIALS")
	}

	if projectID == "" || region == "" || credsPath == "" {
		return nil, &ConfigurationError{SDKError: SDKError{
			Message: "Missing one or more required Google environment variables: " +
				"GOOGLE_PROJECT_ID, GOOGLE_REGION, GOOGLE_APPLICATION_CREDENTIALS. " +
				"Please refer to the setup guide: /guides/google.md.",
		}}
	}

	tokens, err := vertexTokenSource(credsPath)
	if err != nil {
		return nil, &ConfigurationError{SDKError: SDKError{
			Message: "failed to load Google application credentials",
			Cause:   err,
		}}
	}

	baseURL := fmt.Sprintf("https://%s-aiplatform.googleapis.com", region)
	if cfg.BaseURL != "" {
		baseURL = strings.TrimRight(cfg.BaseURL, "/")
	}

	return &GoogleVertexChatAdapter{
		projectID: projectID,
		region:    region,
		baseURL:   baseURL,
		tokens:    tokens,
		http:      newHTTPClient(0),
	}, nil
}

func vertexTokenSource(credsPath string) (oauth2.TokenSource, error) {
	data, err := os.ReadFile(credsPath)
	if err != nil {
		return nil, err
	}
	creds, err := google.CredentialsFromJSON(context.Background(), data, cloudPlatformScope)
	if err != nil {
		return nil, err
	}
	return creds.TokenSource, nil
}

// ChatCompletionsCreate sends the transformed conversation to the Vertex
// generateContent endpoint for the configured project and region.
func (a *GoogleVertexChatAdapter) ChatCompletionsCreate(ctx context.Context, model string, messages []Message, tools []ToolDescriptor, options map[string]interface{}) (*ChatCompletionResponse, error) {
	body := buildGoogleChatBody(messages, tools, options)
	payload, err := json.Marshal(body)
	if err != nil {
		return nil, &InvalidRequestError{ProviderError: ProviderError{
			SDKError: SDKError{Message: "failed to encode request body", Cause: err},
			Provider: "googlevertex",
		}}
	}

	url := fmt.Sprintf("%s/v1/projects/%s/locations/%s/publishers/google/models/%s:generateContent",
		a.baseURL, a.projectID, a.region, model)
	httpReq, err := http.NewRequestWithContext(ctx, "POST", url, bytes.NewReader(payload))
	if err != nil {
		return nil, &NetworkError{SDKError: SDKError{Message: "failed to create request", Cause: err}}
	}

	token, err := a.tokens.Token()
	if err != nil {
		return nil, &AuthenticationError{ProviderError: ProviderError{
			SDKError: SDKError{Message: "failed to obtain access token", Cause: err},
			Provider: "googlevertex",
		}}
	}
	token.SetAuthHeader(httpReq)
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := a.http.Do(httpReq)
	if err != nil {
		return nil, &NetworkError{SDKError: SDKError{Message: "request failed", Cause: err}}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, buildErrorFromResponse(resp, "googlevertex")
	}

	raw, err := decodeJSONResponse(resp, "googlevertex")
	if err != nil {
		return nil, err
	}
	return normalizeGoogleResponse(raw), nil
}
