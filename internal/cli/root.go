// Package cli implements the tsg command-line interface.
package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var (
	appVersion = "dev"
	appCommit  = "none"
	appDate    = "unknown"
)

// SetVersionInfo sets the version information injected via ldflags.
func SetVersionInfo(version, commit, date string) {
	appVersion = version
	appCommit = commit
	appDate = date
}

var rootCmd = &cobra.Command{
	Use:   "tsg",
	Short: "Trello job board to SankeyMATIC data generator",
	Long: `tsg analyzes card movements on a Trello job application board and
generates flow data in SankeyMATIC format.

It cleans each card's movement history (ignoring backward moves, filling
skipped pipeline stages, truncating at terminal outcomes), balances the
resulting flow graph with a synthetic Waiting sink for cards still in
flight, and prints the data ready to paste into sankeymatic.com.`,
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("tsg %s\ncommit: %s\nbuilt:  %s\n", appVersion, appCommit, appDate)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
