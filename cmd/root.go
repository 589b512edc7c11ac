package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

// rootCmd represents the base command for the scheduling-agent application
var rootCmd = &cobra.Command{
	Use:   "scheduling-agent",
	Short: "Finds open meeting slots on a Google Calendar and books meetings",
	Long: `scheduling-agent looks up availability on the calendar owner's Google
Calendar, recommends meeting times inside working hours and books meetings
with email confirmations.

It can run as:
  - An MCP (Model Context Protocol) server for AI assistants (serve)
  - An offline slot finder over a file of busy periods (slots)`,
	SilenceUsage: true,
}

// version will be set by main
var version = "dev"

// SetVersion sets the version for the root command
func SetVersion(v string) {
	version = v
	rootCmd.Version = v
}

// Execute is the main entry point for the CLI application
func Execute() {
	rootCmd.SetVersionTemplate(`{{printf "scheduling-agent version %s\n" .Version}}`)

	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddCommand(newServeCmd())
	rootCmd.AddCommand(newSlotsCmd())
	rootCmd.AddCommand(newVersionCmd())
	rootCmd.AddCommand(newGenerateDocsCmd())
}
