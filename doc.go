// Package aisuite provides a unified client layer for multiple LLM vendor
// APIs, presenting one OpenAI-style request/response shape and translating
// to and from each vendor's native protocol.
//
// # Architecture
//
// The package has three parts:
//
//   - Canonical model: Message, Choice, ChatCompletionResponse and the
//     ToolDescriptor schema every adapter translates from.
//   - Per-vendor chat adapters (Anthropic, AWS Bedrock, Azure, Fireworks,
//     Google GenAI, Google Vertex, Groq, Mistral, a local-runtime bridge)
//     that build the vendor request, invoke the vendor, and normalize the
//     vendor response back into the canonical shape.
//   - Rerank normalization: heterogeneous document inputs become vendor
//     ranking records, and vendor ranking responses become a canonical
//     ranked-result list (Google Cloud Discovery Engine backend).
//
// # Quick Start
//
//	adapter, err := aisuite.NewAnthropicChatAdapter(aisuite.Config{})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	resp, err := adapter.ChatCompletionsCreate(ctx, "claude-sonnet-4-5",
//	    []aisuite.Message{
//	        {Role: aisuite.RoleSystem, Content: "You are terse."},
//	        {Role: aisuite.RoleUser, Content: "Hello"},
//	    }, nil, nil)
//	fmt.Println(resp.Choices[0].Message.Content)
//
// Adapters are also reachable through the explicit registry:
//
//	reg := aisuite.DefaultRegistry()
//	adapter, err := reg.NewChatAdapter("groq", aisuite.Config{})
//
// Every call is synchronous and independent: one call, one vendor round
// trip, no retries and no shared state across calls (the bridge adapter's
// client cache is the single documented exception).
package aisuite
