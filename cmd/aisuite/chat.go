package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/haydenrear/aisuite"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var chatCmd = &cobra.Command{
	Use:   "chat <prompt>",
	Short: "Send a single chat completion request",
	Long:  "Send one user prompt to the selected provider and print the assistant reply.",
	Args:  cobra.ExactArgs(1),
	RunE:  runChat,
}

func init() {
	chatCmd.Flags().String("system", "", "System prompt to prepend")
	chatCmd.Flags().Float64("temperature", 0, "Sampling temperature (0 = provider default)")
	chatCmd.Flags().Int("max-tokens", 0, "Maximum completion tokens (0 = provider default)")

	rootCmd.AddCommand(chatCmd)
}

func runChat(cmd *cobra.Command, args []string) error {
	provider := viper.GetString("provider")
	model := viper.GetString("model")
	verbose := viper.GetBool("verbose")
	system, _ := cmd.Flags().GetString("system")
	temperature, _ := cmd.Flags().GetFloat64("temperature")
	maxTokens, _ := cmd.Flags().GetInt("max-tokens")

	if model == "" {
		return fmt.Errorf("no model specified; use --model")
	}

	adapter, err := aisuite.DefaultRegistry().NewChatAdapter(provider, providerConfig())
	if err != nil {
		return err
	}

	var messages []aisuite.Message
	if system != "" {
		messages = append(messages, aisuite.Message{Role: aisuite.RoleSystem, Content: system})
	}
	messages = append(messages, aisuite.Message{Role: aisuite.RoleUser, Content: args[0]})

	options := map[string]interface{}{}
	if temperature > 0 {
		options["temperature"] = temperature
	}
	if maxTokens > 0 {
		options["max_tokens"] = maxTokens
	}

	if verbose {
		fmt.Fprintf(os.Stderr, "[chat] provider=%s model=%s\n", provider, model)
	}

	resp, err := adapter.ChatCompletionsCreate(context.Background(), model, messages, nil, options)
	if err != nil {
		return err
	}

	if len(resp.Choices) == 0 {
		return fmt.Errorf("provider returned no choices")
	}
	choice := resp.Choices[0]
	fmt.Println(strings.TrimSpace(choice.Message.Content))

	if verbose {
		fmt.Fprintf(os.Stderr, "[chat] finish_reason=%s\n", choice.FinishReason)
		if resp.Usage != nil {
			fmt.Fprintf(os.Stderr, "[chat] tokens: prompt=%d completion=%d total=%d\n",
				resp.Usage.PromptTokens, resp.Usage.CompletionTokens, resp.Usage.TotalTokens)
		}
		for _, call := range choice.Message.ToolCalls {
			fmt.Fprintf(os.Stderr, "[chat] tool call %s: %s(%s)\n", call.ID, call.Function.Name, string(call.Function.Arguments))
		}
	}
	return nil
}

// providerConfig assembles the adapter config from flags and the AISUITE
// environment.
func providerConfig() aisuite.Config {
	return aisuite.Config{
		APIKey:  viper.GetString("api_key"),
		BaseURL: viper.GetString("base_url"),
	}
}
