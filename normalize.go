package aisuite

import (
	"encoding/json"
	"fmt"
)

// callIndexID synthesizes the stable per-call id used for vendors that do
// not supply tool-call ids of their own.
func callIndexID(index int) string {
	return fmt.Sprintf("call_%d", index)
}

// extractSystemMessage splits a conversation into the first system message
// and the remaining turns, for vendors with a dedicated system-prompt
// channel. Any system message beyond the first is silently dropped: the
// vendors this applies to accept exactly one system prompt, and resubmitting
// later ones would reorder the conversation.
func extractSystemMessage(messages []Message) (system string, hasSystem bool, rest []Message) {
	if len(messages) > 0 && messages[0].Role == RoleSystem {
		system = messages[0].Content
		hasSystem = true
		messages = messages[1:]
	}
	rest = make([]Message, 0, len(messages))
	for _, msg := range messages {
		if msg.Role == RoleSystem {
			continue
		}
		rest = append(rest, msg)
	}
	return system, hasSystem, rest
}

// rawArguments preserves tool-call arguments exactly as the vendor returned
// them: JSON text stays JSON text, structured values are marshalled once.
func rawArguments(v interface{}) json.RawMessage {
	if v == nil {
		return nil
	}
	if s, ok := v.(string); ok {
		return json.RawMessage(s)
	}
	b, err := json.Marshal(v)
	if err != nil {
		return nil
	}
	return b
}

// parseToolCalls reads an OpenAI-style tool_calls array from a vendor
// payload.
func parseToolCalls(v interface{}) []ToolCall {
	list, ok := v.([]interface{})
	if !ok {
		return nil
	}
	var calls []ToolCall
	for _, entry := range list {
		m, ok := entry.(map[string]interface{})
		if !ok {
			continue
		}
		tc := ToolCall{Type: "function"}
		if id, ok := m["id"].(string); ok {
			tc.ID = id
		}
		if typ, ok := m["type"].(string); ok {
			tc.Type = typ
		}
		if fn, ok := m["function"].(map[string]interface{}); ok {
			if name, ok := fn["name"].(string); ok {
				tc.Function.Name = name
			}
			tc.Function.Arguments = rawArguments(fn["arguments"])
		}
		calls = append(calls, tc)
	}
	return calls
}

// normalizeOpenAIStyleResponse maps an OpenAI-compatible chat-completions
// payload (Azure, Fireworks, Groq, Mistral all speak this shape) into the
// canonical response.
func normalizeOpenAIStyleResponse(raw map[string]interface{}) *ChatCompletionResponse {
	resp := NewChatCompletionResponse()

	if id, ok := raw["id"].(string); ok {
		resp.ID = id
	}
	if model, ok := raw["model"].(string); ok {
		resp.Model = model
	}
	if created, ok := raw["created"].(float64); ok {
		resp.Created = int64(created)
	}
	if usageMap, ok := raw["usage"].(map[string]interface{}); ok {
		usage := &Usage{}
		if v, ok := usageMap["prompt_tokens"].(float64); ok {
			usage.PromptTokens = int(v)
		}
		if v, ok := usageMap["completion_tokens"].(float64); ok {
			usage.CompletionTokens = int(v)
		}
		if v, ok := usageMap["total_tokens"].(float64); ok {
			usage.TotalTokens = int(v)
		}
		resp.Usage = usage
	}

	choices, ok := raw["choices"].([]interface{})
	if !ok || len(choices) == 0 {
		return resp
	}
	choice, ok := choices[0].(map[string]interface{})
	if !ok {
		return resp
	}
	message, _ := choice["message"].(map[string]interface{})

	if content, ok := message["content"].(string); ok {
		resp.Choices[0].Message.Content = content
	}

	if calls := parseToolCalls(message["tool_calls"]); len(calls) > 0 {
		resp.Choices[0].Message.ToolCalls = calls
		resp.Choices[0].FinishReason = "tool_calls"
		return resp
	}

	if fn, ok := message["function_call"].(map[string]interface{}); ok {
		fc := &FunctionCall{}
		if name, ok := fn["name"].(string); ok {
			fc.Name = name
		}
		fc.Arguments = rawArguments(fn["arguments"])
		resp.Choices[0].Message.FunctionCall = fc
		resp.Choices[0].FinishReason = "function_call"
		return resp
	}

	if reason, ok := choice["finish_reason"].(string); ok && reason != "" {
		resp.Choices[0].FinishReason = reason
	} else {
		resp.Choices[0].FinishReason = "stop"
	}
	return resp
}
