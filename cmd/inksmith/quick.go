package main

import (
	"github.com/spf13/cobra"
)

var quickCmd = &cobra.Command{
	Use:   "quick <topic>",
	Short: "Generate an article from the knowledge base only",
	Long: `Generate an article using only knowledge-base research.

Quick mode skips web search, URL probes, and distribution assets. The
validation gate still runs in full. Useful for drafts and for working
offline from the indexed document set.`,
	Args:         cobra.ExactArgs(1),
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		generateQuick = true
		generateNoTUI = true
		return runGenerate(cmd, args)
	},
}

func init() {
	quickCmd.Flags().IntVar(&generateWords, "words", 0, "Target word count (default from config)")
	quickCmd.Flags().StringVar(&generateModel, "model", "", "Model override")
}
