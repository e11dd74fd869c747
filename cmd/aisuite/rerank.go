package main

import (
	"context"
	"fmt"
	"os"

	"github.com/haydenrear/aisuite"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var rerankCmd = &cobra.Command{
	Use:   "rerank <query> <document>...",
	Short: "Rank documents by relevance to a query",
	Long:  "Send a query and one or more documents to the selected rerank provider and print them in ranked order.",
	Args:  cobra.MinimumNArgs(2),
	RunE:  runRerank,
}

func init() {
	rerankCmd.Flags().StringSlice("doc-id", nil, "Document ids, in document order")

	rootCmd.AddCommand(rerankCmd)
}

func runRerank(cmd *cobra.Command, args []string) error {
	provider := viper.GetString("provider")
	model := viper.GetString("model")
	verbose := viper.GetBool("verbose")
	docIDs, _ := cmd.Flags().GetStringSlice("doc-id")

	adapter, err := aisuite.DefaultRegistry().NewRerankAdapter(provider, providerConfig())
	if err != nil {
		return err
	}

	query := args[0]
	docs := make(aisuite.ListInput, 0, len(args)-1)
	for _, doc := range args[1:] {
		docs = append(docs, aisuite.TextInput(doc))
	}

	if verbose {
		fmt.Fprintf(os.Stderr, "[rerank] provider=%s model=%s docs=%d\n", provider, model, len(docs))
	}

	ranked, err := adapter.Rerank(context.Background(), model, query, docs, docIDs, nil)
	if err != nil {
		return err
	}

	for _, result := range ranked.Results {
		score := "-"
		if result.RelevanceScore != nil {
			score = fmt.Sprintf("%.4f", *result.RelevanceScore)
		}
		fmt.Printf("%d\t%s\t%s\t%s\n", result.RankIndex, result.Document.ID, score, result.Document.Text)
	}
	return nil
}
