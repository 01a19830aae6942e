package main

import (
	"errors"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "inksmith",
	Short: "Multi-agent investment article generator",
	Long: `Inksmith generates long-form investment articles through a pipeline
of cooperating agents: research over a knowledge base and the web,
synthesis into an outline, writing, fact-checked validation, bounded
revision, and distribution assets.

Every article passes a validation gate before publication: template
structure checks first, then an LLM fact check of extracted claims.
Rejected drafts get up to two revision rounds.

Typical usage:
  inksmith generate "The state of venture capital in 2025"
  inksmith quick "Fed rate cut implications"
  inksmith setup --kb-dir ./docs`,
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(exitCode(err))
	}
}

// exitCode distinguishes a rejected article (2) from an operational
// failure (1). Deferred cleanup in the commands runs before the error
// reaches here.
func exitCode(err error) int {
	if errors.Is(err, errRejected) {
		return 2
	}
	return 1
}

func init() {
	rootCmd.AddCommand(generateCmd)
	rootCmd.AddCommand(quickCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(setupCmd)
	rootCmd.AddCommand(doctorCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(runsCmd)
	rootCmd.AddCommand(versionCmd)
}
