package main

import (
	"fmt"
	"os"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/inksmith-ai/inksmith/internal/cache"
	"github.com/inksmith-ai/inksmith/internal/config"
	"github.com/inksmith-ai/inksmith/internal/state"
)

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Check configuration and connectivity",
	Long: `Diagnose the inksmith environment.

Checks each configured credential and backing service and reports what
a generation run would have available. Exits non-zero when a required
piece is missing.`,
	RunE: runDoctor,
}

func runDoctor(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	healthy := true

	// OpenAI API key is required for research, writing, and validation.
	key, keyErr := config.GetOpenAIKey(cfg)
	if keyErr != nil {
		printCheck(false, "OpenAI API key not configured (set OPENAI_API_KEY)")
		healthy = false
	} else if err := config.ValidateOpenAIKey(key); err != nil {
		printCheck(false, fmt.Sprintf("OpenAI API key invalid: %v", err))
		healthy = false
	} else {
		printCheck(true, fmt.Sprintf("OpenAI API key (%s, from %s)",
			config.MaskKey(key), config.GetOpenAIKeySource(cfg)))
	}

	// Vector store backs knowledge-base research.
	if storeID := config.GetVectorStoreID(cfg); storeID != "" {
		printCheck(true, fmt.Sprintf("Vector store configured (%s)", storeID))
	} else {
		printCheck(false, "No vector store configured (run 'inksmith setup')")
		healthy = false
	}

	// Web research degrades gracefully without a key.
	if cfg.Search.SerperAPIKey != "" {
		printCheck(true, "Serper API key configured (web research enabled)")
	} else {
		printWarn("SERPER_API_KEY not set; runs will use knowledge-base research only")
	}

	// Redis persists fact-check verdicts across runs.
	if cfg.Cache.RedisURL != "" {
		if r, err := cache.NewRedis(cfg.Cache.RedisURL, cfg.Cache.TTL); err != nil {
			printWarn(fmt.Sprintf("Redis unreachable: %v (verdict cache falls back to memory)", err))
		} else {
			r.Close()
			printCheck(true, "Redis verdict cache reachable")
		}
	} else {
		printWarn("REDIS_URL not set; verdict cache is in-process only")
	}

	// Run ledger.
	if db, err := state.OpenDefault(); err != nil {
		printWarn(fmt.Sprintf("Run ledger unavailable: %v", err))
	} else {
		db.Close()
		printCheck(true, fmt.Sprintf("Run ledger at %s", state.DefaultDBPath()))
	}

	// Anthropic is optional unless selected as the provider.
	if cfg.Defaults.Provider == "anthropic" {
		if cfg.Anthropic.UseBedrock {
			printCheck(true, "Anthropic provider via AWS Bedrock")
		} else if cfg.Anthropic.APIKey != "" || os.Getenv("ANTHROPIC_API_KEY") != "" {
			printCheck(true, "Anthropic API key configured")
		} else {
			printCheck(false, "Provider is 'anthropic' but no ANTHROPIC_API_KEY set")
			healthy = false
		}
	}

	fmt.Println()
	if !healthy {
		fmt.Printf("%s Some checks failed.\n", color.RedString("✗"))
		os.Exit(1)
	}
	fmt.Printf("%s Ready to generate. (checked %s)\n",
		color.GreenString("✓"), time.Now().Format("2006-01-02 15:04:05"))
	return nil
}

func printCheck(ok bool, message string) {
	if ok {
		fmt.Printf("%s %s\n", color.GreenString("✓"), message)
	} else {
		fmt.Printf("%s %s\n", color.RedString("✗"), message)
	}
}

func printWarn(message string) {
	fmt.Printf("%s %s\n", color.YellowString("⚠"), message)
}
