package aisuite

import (
	"encoding/json"
	"sort"
)

// Role identifies the author of a chat message.
type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleFunction  Role = "function"
	RoleTool      Role = "tool"
)

// Message is one entry of a conversation history. Order within the history
// is conversation order. Messages are not mutated by adapters.
type Message struct {
	Role         Role          `json:"role"`
	Content      string        `json:"content"`
	Name         string        `json:"name,omitempty"`
	FunctionCall *FunctionCall `json:"function_call,omitempty"`
	ToolCalls    []ToolCall    `json:"tool_calls,omitempty"`
}

// FunctionCall is the legacy single-function-call shape. Arguments are kept
// exactly as the vendor returned them, JSON text or structured.
type FunctionCall struct {
	Name      string          `json:"name"`
	Arguments json.RawMessage `json:"arguments,omitempty"`
}

// ToolCall is a model-emitted instruction to invoke an external function.
type ToolCall struct {
	ID       string       `json:"id"`
	Type     string       `json:"type"`
	Function FunctionCall `json:"function"`
}

// Choice pairs a message with the reason the vendor stopped generating.
type Choice struct {
	Message      Message `json:"message"`
	FinishReason string  `json:"finish_reason,omitempty"`
}

// Usage reports token accounting when the vendor supplies it.
type Usage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

// ChatCompletionResponse is the canonical completion shape returned by every
// chat adapter. It is created fresh per call and owned by the caller.
type ChatCompletionResponse struct {
	ID      string   `json:"id,omitempty"`
	Model   string   `json:"model,omitempty"`
	Created int64    `json:"created,omitempty"`
	Choices []Choice `json:"choices"`
	Usage   *Usage   `json:"usage,omitempty"`
}

// NewChatCompletionResponse returns a response holding one empty default
// choice, ready for an adapter to fill in.
func NewChatCompletionResponse() *ChatCompletionResponse {
	return &ChatCompletionResponse{
		Choices: []Choice{{Message: Message{Role: RoleAssistant}}},
	}
}

// NewChatCompletionResponseFromChoices returns a response holding the given
// choices in order.
func NewChatCompletionResponseFromChoices(choices []Choice) *ChatCompletionResponse {
	return &ChatCompletionResponse{Choices: choices}
}

// ToolArg describes one parameter of a tool.
type ToolArg struct {
	Type        string `json:"type"`
	Description string `json:"description,omitempty"`
	Required    bool   `json:"required,omitempty"`
}

// ToolDescriptor is the single tool schema every adapter translates into its
// vendor's function/tool-declaration format.
type ToolDescriptor struct {
	Name        string             `json:"name"`
	Description string             `json:"description"`
	Args        map[string]ToolArg `json:"args"`
}

// requiredArgs returns the names of required parameters, sorted for stable
// request bodies.
func (t ToolDescriptor) requiredArgs() []string {
	var req []string
	for name, arg := range t.Args {
		if arg.Required {
			req = append(req, name)
		}
	}
	sort.Strings(req)
	return req
}

// argProperties returns the args map in the JSON-schema properties shape
// shared by several vendors.
func (t ToolDescriptor) argProperties() map[string]interface{} {
	props := make(map[string]interface{}, len(t.Args))
	for name, arg := range t.Args {
		prop := map[string]interface{}{"type": arg.Type}
		if arg.Description != "" {
			prop["description"] = arg.Description
		}
		props[name] = prop
	}
	return props
}
