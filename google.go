package aisuite

// Shared role/content transforms for the Google adapters (GenAI and Vertex).
// Both vendors speak the generateContent wire shape and use the same role
// vocabulary: no "system" or "assistant", only "user" and "model".

// googleRoleFor maps a canonical role onto Google's role vocabulary.
// System prompts become user turns; assistant turns become model turns.
// Roles without a mapping pass through unchanged.
var googleRoles = map[Role]Role{
	RoleSystem:    RoleUser,
	RoleAssistant: Role("model"),
}

// transformGoogleRoles returns a copy of messages with every role remapped
// into Google's vocabulary. The remapping applies to every message, not just
// the first system entry.
func transformGoogleRoles(messages []Message) []Message {
	transformed := make([]Message, len(messages))
	copy(transformed, messages)
	for i := range transformed {
		if mapped, ok := googleRoles[transformed[i].Role]; ok {
			transformed[i].Role = mapped
		}
	}
	return transformed
}

// convertToGoogleHistory renders already-transformed messages as
// generateContent history entries. Function calls and function responses are
// embedded as structured sub-fields of the entry rather than separate roles.
func convertToGoogleHistory(messages []Message) []map[string]interface{} {
	if len(messages) == 0 {
		return []map[string]interface{}{}
	}

	history := make([]map[string]interface{}, 0, len(messages))
	for _, msg := range messages {
		part := map[string]interface{}{"text": msg.Content}
		entry := map[string]interface{}{
			"role":  string(msg.Role),
			"parts": []map[string]interface{}{part},
		}

		if msg.Role == Role("model") && msg.FunctionCall != nil {
			entry["function_call"] = map[string]interface{}{
				"name": msg.FunctionCall.Name,
				"args": msg.FunctionCall.Arguments,
			}
		}
		if msg.Role == RoleFunction {
			part["function_response"] = map[string]interface{}{
				"name":     msg.Name,
				"response": msg.Content,
			}
		}

		history = append(history, entry)
	}
	return history
}

// googleFunctionDeclarations translates tool descriptors into the
// functionDeclarations shape shared by both Google chat backends.
func googleFunctionDeclarations(tools []ToolDescriptor) []map[string]interface{} {
	decls := make([]map[string]interface{}, 0, len(tools))
	for _, td := range tools {
		decls = append(decls, map[string]interface{}{
			"function_declarations": []map[string]interface{}{{
				"name":        td.Name,
				"description": td.Description,
				"parameters": map[string]interface{}{
					"type":       "OBJECT",
					"properties": td.argProperties(),
				},
			}},
		})
	}
	return decls
}

// normalizeGoogleResponse maps a generateContent payload into the canonical
// response. Google supplies no per-call ids, so tool calls get synthetic
// call_<index> ids.
func normalizeGoogleResponse(raw map[string]interface{}) *ChatCompletionResponse {
	resp := NewChatCompletionResponse()

	if model, ok := raw["modelVersion"].(string); ok {
		resp.Model = model
	}
	if usageMap, ok := raw["usageMetadata"].(map[string]interface{}); ok {
		usage := &Usage{}
		if v, ok := usageMap["promptTokenCount"].(float64); ok {
			usage.PromptTokens = int(v)
		}
		if v, ok := usageMap["candidatesTokenCount"].(float64); ok {
			usage.CompletionTokens = int(v)
		}
		if v, ok := usageMap["totalTokenCount"].(float64); ok {
			usage.TotalTokens = int(v)
		} else {
			usage.TotalTokens = usage.PromptTokens + usage.CompletionTokens
		}
		resp.Usage = usage
	}

	candidates, ok := raw["candidates"].([]interface{})
	if !ok || len(candidates) == 0 {
		resp.Choices[0].FinishReason = "stop"
		return resp
	}
	candidate, _ := candidates[0].(map[string]interface{})
	content, _ := candidate["content"].(map[string]interface{})
	parts, _ := content["parts"].([]interface{})

	var toolCalls []ToolCall
	for _, p := range parts {
		pm, ok := p.(map[string]interface{})
		if !ok {
			continue
		}
		if text, ok := pm["text"].(string); ok && resp.Choices[0].Message.Content == "" {
			resp.Choices[0].Message.Content = text
		}
		if fc, ok := pm["functionCall"].(map[string]interface{}); ok {
			name, _ := fc["name"].(string)
			toolCalls = append(toolCalls, ToolCall{
				ID:   callIndexID(len(toolCalls)),
				Type: "function",
				Function: FunctionCall{
					Name:      name,
					Arguments: rawArguments(fc["args"]),
				},
			})
		}
	}

	if len(toolCalls) > 0 {
		resp.Choices[0].Message.ToolCalls = toolCalls
		resp.Choices[0].FinishReason = "tool_calls"
		return resp
	}

	switch candidate["finishReason"] {
	case "STOP", nil:
		resp.Choices[0].FinishReason = "stop"
	case "MAX_TOKENS":
		resp.Choices[0].FinishReason = "length"
	default:
		if reason, ok := candidate["finishReason"].(string); ok {
			resp.Choices[0].FinishReason = reason
		}
	}
	return resp
}
