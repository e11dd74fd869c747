package main

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var rootCmd = &cobra.Command{
	Use:   "aisuite",
	Short: "Unified LLM provider client",
	Long:  "aisuite talks to many LLM vendors through one OpenAI-style interface: chat completions, embeddings, and document reranking.",
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringP("provider", "p", "anthropic", "Provider key (see 'aisuite providers')")
	rootCmd.PersistentFlags().StringP("model", "m", "", "Model identifier to send to the provider")
	rootCmd.PersistentFlags().String("api-key", "", "API key override (default: provider environment variable)")
	rootCmd.PersistentFlags().String("base-url", "", "Base URL override for the provider endpoint")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Verbose output")

	_ = viper.BindPFlag("provider", rootCmd.PersistentFlags().Lookup("provider"))
	_ = viper.BindPFlag("model", rootCmd.PersistentFlags().Lookup("model"))
	_ = viper.BindPFlag("api_key", rootCmd.PersistentFlags().Lookup("api-key"))
	_ = viper.BindPFlag("base_url", rootCmd.PersistentFlags().Lookup("base-url"))
	_ = viper.BindPFlag("verbose", rootCmd.PersistentFlags().Lookup("verbose"))
}

func initConfig() {
	viper.SetEnvPrefix("AISUITE")
	viper.AutomaticEnv()
}
