package aisuite

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractSystemMessage(t *testing.T) {
	system, hasSystem, rest := extractSystemMessage([]Message{
		{Role: RoleSystem, Content: "first system"},
		{Role: RoleUser, Content: "hi"},
		{Role: RoleSystem, Content: "second system"},
		{Role: RoleAssistant, Content: "hello"},
	})

	assert.True(t, hasSystem)
	assert.Equal(t, "first system", system)
	// Later system messages are dropped, not merged.
	require.Len(t, rest, 2)
	assert.Equal(t, RoleUser, rest[0].Role)
	assert.Equal(t, RoleAssistant, rest[1].Role)
}

func TestExtractSystemMessageNoSystem(t *testing.T) {
	system, hasSystem, rest := extractSystemMessage([]Message{
		{Role: RoleUser, Content: "hi"},
	})
	assert.False(t, hasSystem)
	assert.Empty(t, system)
	require.Len(t, rest, 1)
}

func TestExtractSystemMessageEmpty(t *testing.T) {
	_, hasSystem, rest := extractSystemMessage(nil)
	assert.False(t, hasSystem)
	assert.Empty(t, rest)
}

func TestRawArguments(t *testing.T) {
	// JSON text passes through byte for byte.
	assert.Equal(t, `{"a": 1}`, string(rawArguments(`{"a": 1}`)))
	// Structured values are marshalled once.
	assert.JSONEq(t, `{"b":2}`, string(rawArguments(map[string]interface{}{"b": 2})))
	assert.Nil(t, rawArguments(nil))
}

func TestNormalizeOpenAIStyleResponseFunctionCall(t *testing.T) {
	resp := normalizeOpenAIStyleResponse(map[string]interface{}{
		"id": "cmpl-fc",
		"choices": []interface{}{
			map[string]interface{}{
				"message": map[string]interface{}{
					"role": "assistant",
					"function_call": map[string]interface{}{
						"name":      "legacy_fn",
						"arguments": `{"x":1}`,
					},
				},
				"finish_reason": "function_call",
			},
		},
	})

	assert.Equal(t, "function_call", resp.Choices[0].FinishReason)
	require.NotNil(t, resp.Choices[0].Message.FunctionCall)
	assert.Equal(t, "legacy_fn", resp.Choices[0].Message.FunctionCall.Name)
	assert.Equal(t, `{"x":1}`, string(resp.Choices[0].Message.FunctionCall.Arguments))
	assert.Empty(t, resp.Choices[0].Message.ToolCalls)
}

func TestNormalizeOpenAIStyleResponseToolCallsWinOverFunctionCall(t *testing.T) {
	resp := normalizeOpenAIStyleResponse(map[string]interface{}{
		"choices": []interface{}{
			map[string]interface{}{
				"message": map[string]interface{}{
					"role": "assistant",
					"tool_calls": []interface{}{
						map[string]interface{}{
							"id":   "call_1",
							"type": "function",
							"function": map[string]interface{}{
								"name": "modern", "arguments": `{}`,
							},
						},
					},
					"function_call": map[string]interface{}{
						"name": "legacy", "arguments": `{}`,
					},
				},
			},
		},
	})

	assert.Equal(t, "tool_calls", resp.Choices[0].FinishReason)
	require.Len(t, resp.Choices[0].Message.ToolCalls, 1)
	assert.Nil(t, resp.Choices[0].Message.FunctionCall)
}

func TestNormalizeOpenAIStyleResponseDefaultFinishReason(t *testing.T) {
	resp := normalizeOpenAIStyleResponse(map[string]interface{}{
		"choices": []interface{}{
			map[string]interface{}{
				"message": map[string]interface{}{"role": "assistant", "content": "ok"},
			},
		},
	})
	assert.Equal(t, "stop", resp.Choices[0].FinishReason)
}

func TestNormalizeOpenAIStyleResponseNoChoices(t *testing.T) {
	resp := normalizeOpenAIStyleResponse(map[string]interface{}{"id": "cmpl-empty"})
	require.Len(t, resp.Choices, 1)
	assert.Equal(t, RoleAssistant, resp.Choices[0].Message.Role)
	assert.Empty(t, resp.Choices[0].Message.Content)
}

func TestCallIndexID(t *testing.T) {
	assert.Equal(t, "call_0", callIndexID(0))
	assert.Equal(t, "call_3", callIndexID(3))
}

func TestToolDescriptorRequiredArgsSorted(t *testing.T) {
	td := ToolDescriptor{Args: map[string]ToolArg{
		"zeta":  {Type: "string", Required: true},
		"alpha": {Type: "string", Required: true},
		"mid":   {Type: "string"},
	}}
	assert.Equal(t, []string{"alpha", "zeta"}, td.requiredArgs())
}
