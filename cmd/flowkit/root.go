package main

import (
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "flowkit",
	Short: "LLM agent workflows from the command line",
	Long: `Flowkit runs LLM agent workflows against Gemini or Claude models.

Built-in workflows:
- gtd: a multi-agent Getting Things Done coordinator that captures,
  clarifies, organizes, reviews, and engages with tasks
- keep: summarizes Google Keep notes from a Takeout export, including
  image attachments
- web: fetches a webpage and produces a one-paragraph summary

Custom workflows can be defined in YAML and run with 'flowkit run'.`,
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddCommand(gtdCmd)
	rootCmd.AddCommand(keepCmd)
	rootCmd.AddCommand(webCmd)
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(versionCmd)
}
