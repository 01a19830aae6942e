package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/fatih/color"
	"github.com/openai/openai-go/v2"
	"github.com/openai/openai-go/v2/option"
	"github.com/spf13/cobra"

	"github.com/inksmith-ai/inksmith/internal/config"
	"github.com/inksmith-ai/inksmith/internal/kb"
)

var (
	setupKBDir     string
	setupStoreName string
	setupWatch     bool
)

var setupCmd = &cobra.Command{
	Use:   "setup",
	Short: "Create and populate the knowledge-base vector store",
	Long: `Set up the knowledge base backing article research.

Creates a hosted vector store if none is configured, uploads the
documents from --kb-dir, and saves the store ID to the user config.
With --watch, keeps running and uploads documents as they change.

Examples:
  inksmith setup --kb-dir ./research-docs
  inksmith setup --kb-dir ./research-docs --watch`,
	RunE: runSetup,
}

func init() {
	setupCmd.Flags().StringVar(&setupKBDir, "kb-dir", "", "Directory of documents to index")
	setupCmd.Flags().StringVar(&setupStoreName, "store-name", "inksmith-knowledge-base", "Name for a newly created store")
	setupCmd.Flags().BoolVar(&setupWatch, "watch", false, "Keep watching --kb-dir and upload changes")
}

func runSetup(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	key, err := config.GetOpenAIKey(cfg)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	client := openai.NewClient(option.WithAPIKey(key))
	manager := kb.NewManager(client, config.GetVectorStoreID(cfg))

	storeID, err := manager.EnsureStore(ctx, setupStoreName)
	if err != nil {
		return err
	}
	fmt.Printf("%s Vector store: %s\n", color.GreenString("✓"), storeID)

	if storeID != cfg.OpenAI.VectorStoreID {
		cfg.OpenAI.VectorStoreID = storeID
		if err := config.Save(cfg); err != nil {
			return fmt.Errorf("saving store ID to config: %w", err)
		}
		fmt.Printf("%s Saved store ID to %s\n", color.GreenString("✓"), config.GetUserConfigPath())
	}

	if setupKBDir == "" {
		fmt.Println("\nNo --kb-dir given; store is ready but empty.")
		return nil
	}

	uploaded, err := manager.SyncDir(ctx, setupKBDir)
	if err != nil {
		return err
	}
	fmt.Printf("%s Uploaded %d documents from %s\n", color.GreenString("✓"), uploaded, setupKBDir)

	if !setupWatch {
		return nil
	}

	fmt.Printf("Watching %s for changes (ctrl+c to stop)...\n", setupKBDir)
	if err := manager.Watch(ctx, setupKBDir); err != nil && err != context.Canceled {
		return err
	}
	return nil
}
