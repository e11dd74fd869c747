package aisuite

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"
)

// defaultAWSRegion is used when neither config nor environment supplies one.
const defaultAWSRegion = "us-west-2"

// awsInferenceParameters are the caller options the Converse API accepts
// inside inferenceConfig. Everything else is forwarded through
// additionalModelRequestFields.
var awsInferenceParameters = map[string]bool{
	"maxTokens":     true,
	"temperature":   true,
	"topP":          true,
	"stopSequences": true,
}

// AWSChatAdapter implements ChatAdapter for the AWS Bedrock Converse API.
// Requests are signed with SigV4 and sent to the bedrock-runtime endpoint
// for the configured region.
type AWSChatAdapter struct {
	region  string
	baseURL string
	signer  *sigV4Signer
	http    *httpClient

	// now is swappable for deterministic request signing in tests.
	now func() time.Time
}

// NewAWSChatAdapter creates a Bedrock adapter. Region resolves from cfg,
// then AWS_REGION_NAME, then AWS_REGION, defaulting to us-west-2.
// Credentials resolve from the standard AWS environment variables.
func NewAWSChatAdapter(cfg Config) (*AWSChatAdapter, error) {
	region := cfg.Region
	if region == "" {
		region = os.Getenv("AWS_REGION_NAME")
	}
	if region == "" {
		region = os.Getenv("AWS_REGION")
	}
	if region == "" {
		region = defaultAWSRegion
	}

	creds := awsCredentials{
		AccessKeyID:     os.Getenv("AWS_ACCESS_KEY_ID"),
		SecretAccessKey: os.Getenv("AWS_SECRET_ACCESS_KEY"),
		SessionToken:    os.Getenv("AWS_SESSION_TOKEN"),
	}
	if creds.AccessKeyID == "" || creds.SecretAccessKey == "" {
		return nil, &ConfigurationError{SDKError: SDKError{
			Message: "AWS credentials are required: set AWS_ACCESS_KEY_ID and AWS_SECRET_ACCESS_KEY",
		}}
	}

	baseURL := fmt.Sprintf("https://bedrock-runtime.%s.amazonaws.com", region)
	if cfg.BaseURL != "" {
		baseURL = strings.TrimRight(cfg.BaseURL, "/")
	}

	return &AWSChatAdapter{
		region:  region,
		baseURL: baseURL,
		signer:  &sigV4Signer{creds: creds, region: region, service: "bedrock"},
		http:    newHTTPClient(0),
		now:     func() time.Time { return time.Now().UTC() },
	}, nil
}

// Region returns the resolved AWS region.
func (a *AWSChatAdapter) Region() string { return a.region }

// ChatCompletionsCreate sends one Converse call and normalizes the result.
// Vendor-side failures propagate as typed provider errors.
func (a *AWSChatAdapter) ChatCompletionsCreate(ctx context.Context, model string, messages []Message, tools []ToolDescriptor, options map[string]interface{}) (*ChatCompletionResponse, error) {
	body, err := a.buildRequestBody(model, messages, tools, options)
	if err != nil {
		return nil, err
	}

	endpoint := a.baseURL + "/model/" + model + "/converse"
	httpReq, err := http.NewRequestWithContext(ctx, "POST", endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, &NetworkError{SDKError: SDKError{Message: "failed to create request", Cause: err}}
	}
	httpReq.Header.Set("content-type", "application/json")
	httpReq.Header.Set("accept", "application/json")
	a.signer.Sign(httpReq, body, a.now())

	resp, err := a.http.Do(httpReq)
	if err != nil {
		return nil, &NetworkError{SDKError: SDKError{Message: "request failed", Cause: err}}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, buildErrorFromResponse(resp, "aws")
	}

	raw, err := decodeJSONResponse(resp, "aws")
	if err != nil {
		return nil, err
	}
	return a.normalizeResponse(raw), nil
}

func (a *AWSChatAdapter) buildRequestBody(model string, messages []Message, tools []ToolDescriptor, options map[string]interface{}) ([]byte, error) {
	system, hasSystem, rest := extractSystemMessage(messages)

	formatted := make([]map[string]interface{}, 0, len(rest))
	for _, msg := range rest {
		formatted = append(formatted, map[string]interface{}{
			"role":    string(msg.Role),
			"content": []map[string]interface{}{{"text": msg.Content}},
		})
	}

	systemBlocks := []map[string]interface{}{}
	if hasSystem {
		systemBlocks = append(systemBlocks, map[string]interface{}{"text": system})
	}

	inferenceConfig := map[string]interface{}{}
	additionalFields := map[string]interface{}{}
	for key, value := range options {
		if awsInferenceParameters[key] {
			inferenceConfig[key] = value
		} else {
			additionalFields[key] = value
		}
	}

	body := map[string]interface{}{
		"modelId":                     model,
		"messages":                    formatted,
		"system":                      systemBlocks,
		"inferenceConfig":             inferenceConfig,
		"additionalModelRequestFields": additionalFields,
	}

	// The tools key is added only when tools are present; Bedrock rejects
	// an empty list.
	if len(tools) > 0 {
		bedrockTools := make([]map[string]interface{}, 0, len(tools))
		for _, td := range tools {
			bedrockTools = append(bedrockTools, map[string]interface{}{
				"name":        td.Name,
				"description": td.Description,
				"inputSchema": map[string]interface{}{
					"json": map[string]interface{}{
						"type":       "object",
						"properties": td.argProperties(),
						"required":   td.requiredArgs(),
					},
				},
			})
		}
		body["tools"] = bedrockTools
	}

	return json.Marshal(body)
}

func (a *AWSChatAdapter) normalizeResponse(raw map[string]interface{}) *ChatCompletionResponse {
	resp := NewChatCompletionResponse()

	output, _ := raw["output"].(map[string]interface{})
	message, _ := output["message"].(map[string]interface{})

	if content, ok := message["content"].([]interface{}); ok && len(content) > 0 {
		if blockMap, ok := content[0].(map[string]interface{}); ok {
			if text, ok := blockMap["text"].(string); ok {
				resp.Choices[0].Message.Content = text
			}
		}
	}

	// Tool uses surface on the message itself, not as content blocks.
	// Bedrock supplies no call ids, so stable call_<index> ids are
	// synthesized.
	var toolCalls []ToolCall
	if toolUses, ok := message["toolUse"].([]interface{}); ok {
		for i, entry := range toolUses {
			toolUse, ok := entry.(map[string]interface{})
			if !ok {
				continue
			}
			name, _ := toolUse["toolName"].(string)
			toolCalls = append(toolCalls, ToolCall{
				ID:   callIndexID(i),
				Type: "function",
				Function: FunctionCall{
					Name:      name,
					Arguments: rawArguments(toolUse["input"]),
				},
			})
		}
	}

	if len(toolCalls) > 0 {
		resp.Choices[0].Message.ToolCalls = toolCalls
		resp.Choices[0].FinishReason = "tool_calls"
	} else if reason, ok := raw["stopReason"].(string); ok && reason != "" {
		switch reason {
		case "end_turn", "stop_sequence":
			resp.Choices[0].FinishReason = "stop"
		case "max_tokens":
			resp.Choices[0].FinishReason = "length"
		case "tool_use":
			resp.Choices[0].FinishReason = "tool_calls"
		default:
			resp.Choices[0].FinishReason = reason
		}
	} else {
		resp.Choices[0].FinishReason = "stop"
	}

	if usageMap, ok := raw["usage"].(map[string]interface{}); ok {
		usage := &Usage{}
		if v, ok := usageMap["inputTokens"].(float64); ok {
			usage.PromptTokens = int(v)
		}
		if v, ok := usageMap["outputTokens"].(float64); ok {
			usage.CompletionTokens = int(v)
		}
		if v, ok := usageMap["totalTokens"].(float64); ok {
			usage.TotalTokens = int(v)
		} else {
			usage.TotalTokens = usage.PromptTokens + usage.CompletionTokens
		}
		resp.Usage = usage
	}

	return resp
}
