package main

import (
	"fmt"

	"github.com/haydenrear/aisuite"
	"github.com/spf13/cobra"
)

var providersCmd = &cobra.Command{
	Use:   "providers",
	Short: "List registered chat providers",
	RunE: func(cmd *cobra.Command, args []string) error {
		for _, key := range aisuite.DefaultRegistry().ChatProviders() {
			fmt.Println(key)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(providersCmd)
}
