package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/agentic-research/dataspec/jsonspec"
)

var queryDataPath string

func init() {
	queryCmd.Flags().StringVarP(&queryDataPath, "data", "d", "", "Path to JSON data file")
	queryCmd.MarkFlagRequired("data")
	rootCmd.AddCommand(queryCmd)
}

var queryCmd = &cobra.Command{
	Use:   "query [jsonpath]",
	Short: "Decompose JSONPath matches of a document into specs",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		raw, err := os.ReadFile(queryDataPath)
		if err != nil {
			return fmt.Errorf("read data: %w", err)
		}
		ss, err := jsonspec.Query(raw, args[0])
		if err != nil {
			return err
		}
		printSpecs(ss)
		return nil
	},
}
