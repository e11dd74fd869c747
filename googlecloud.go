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
)

// GoogleCloudRerankAdapter implements RerankAdapter against the Discovery
// Engine rank service.
type GoogleCloudRerankAdapter struct {
	projectID     string
	rankingConfig string
	baseURL       string
	tokens        oauth2.TokenSource
	http          *httpClient
}

// NewGoogleCloudRerankAdapter creates a Discovery Engine rerank adapter.
// project_id and the application-credential path resolve from cfg then
// GOOGLE_CLOUD_PROJECT_ID / GOOGLE_CLOUD_APPLICATION_CREDENTIAL.
func NewGoogleCloudRerankAdapter(cfg Config) (*GoogleCloudRerankAdapter, error) {
	projectID := cfg.ProjectID
	if projectID == "" {
		projectID = os.Getenv("GOOGLE_CLOUD_PROJECT_ID")
	}
	credsPath := cfg.ApplicationCredentials
	if credsPath == "" {
		credsPath = os.Getenv("GOOGLE_CLOUD_APPLICATION_CREDENTIAL")
	}

	if projectID == "" || credsPath == "" {
		return nil, &ConfigurationError{SDKError: SDKError{
			Message: "Missing required Google Cloud configuration: project_id and application_credential",
		}}
	}

	tokens, err := vertexTokenSource(credsPath)
	if err != nil {
		return nil, &ConfigurationError{SDKError: SDKError{
			Message: "failed to load Google application credentials",
			Cause:   err,
		}}
	}

	baseURL := "https://discoveryengine.googleapis.com"
	if cfg.BaseURL != "" {
		baseURL = strings.TrimRight(cfg.BaseURL, "/")
	}

	return &GoogleCloudRerankAdapter{
		projectID: projectID,
		rankingConfig: fmt.Sprintf(
			"projects/%s/locations/global/rankingConfigs/default_ranking_config", projectID),
		baseURL: baseURL,
		tokens:  tokens,
		http:    newHTTPClient(0),
	}, nil
}

// Rerank converts the document inputs into ranking records, calls the rank
// service, and walks the ranked records back in vendor order. An input that
// produces no valid records short-circuits to an empty result without a
// vendor call.
func (a *GoogleCloudRerankAdapter) Rerank(ctx context.Context, model, query string, docs DocumentInput, docIDs []string, metadata map[string]interface{}) (RankedResults, error) {
	records := CreateRankingRecords(docs, docIDs, metadata)
	if len(records) == 0 {
		return RankedResults{Query: query}, nil
	}

	body := map[string]interface{}{
		"model":   model,
		"query":   query,
		"topN":    len(records),
		"records": records,
	}
	payload, err := json.Marshal(body)
	if err != nil {
		return RankedResults{}, &InvalidRequestError{ProviderError: ProviderError{
			SDKError: SDKError{Message: "failed to encode rank request", Cause: err},
			Provider: "googlecloud",
		}}
	}

	url := fmt.Sprintf("%s/v1/%s:rank", a.baseURL, a.rankingConfig)
	httpReq, err := http.NewRequestWithContext(ctx, "POST", url, bytes.NewReader(payload))
	if err != nil {
		return RankedResults{}, &NetworkError{SDKError: SDKError{Message: "failed to create request", Cause: err}}
	}

	token, err := a.tokens.Token()
	if err != nil {
		return RankedResults{}, &AuthenticationError{ProviderError: ProviderError{
			SDKError: SDKError{Message: "failed to obtain access token", Cause: err},
			Provider: "googlecloud",
		}}
	}
	token.SetAuthHeader(httpReq)
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := a.http.Do(httpReq)
	if err != nil {
		return RankedResults{}, &NetworkError{SDKError: SDKError{Message: "request failed", Cause: err}}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return RankedResults{}, buildErrorFromResponse(resp, "googlecloud")
	}

	var ranked struct {
		Records []RankingRecord `json:"records"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&ranked); err != nil {
		return RankedResults{}, &InvalidRequestError{ProviderError: ProviderError{
			SDKError: SDKError{Message: "failed to parse rank response", Cause: err},
			Provider: "googlecloud",
		}}
	}

	return ParseRankedResults(query, ranked.Records), nil
}

// GoogleCloudChatAdapter exists so the googlecloud provider key resolves for
// chat as well; the vendor has no chat backend, so invocation fails with a
// not-implemented error.
type GoogleCloudChatAdapter struct{}

// NewGoogleCloudChatAdapter creates the chat surface of the googlecloud
// provider.
func NewGoogleCloudChatAdapter(cfg Config) (*GoogleCloudChatAdapter, error) {
	return &GoogleCloudChatAdapter{}, nil
}

// ChatCompletionsCreate always fails: google cloud is a rerank-only
// provider.
func (a *GoogleCloudChatAdapter) ChatCompletionsCreate(ctx context.Context, model string, messages []Message, tools []ToolDescriptor, options map[string]interface{}) (*ChatCompletionResponse, error) {
	return nil, NewNotImplementedError("googlecloud", "chat completions")
}
