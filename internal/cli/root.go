package cli

import (
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "deletion-guard",
	Short: "Zone-aware deletion policy hook for agent shell commands",
	Long: "Intercepts file-deletion commands before a host agent runs them.\n" +
		"Targets inside the workspace or whitelisted folders are backed up and\n" +
		"allowed; anything outside the trusted zones needs confirmation on the\n" +
		"controlling terminal. Internal errors always fail open.",
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
