package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "dataspec",
	Short: "Dataspec: declarative metadata specs for structured data",
	Long: `Dataspec decomposes annotated type schemas and JSON documents into
flat collections of specs addressed by hierarchical IDs, then lets you
select, group and merge them.`,
	SilenceUsage: true,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}
