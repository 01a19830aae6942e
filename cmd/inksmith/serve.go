package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/inksmith-ai/inksmith/internal/health"
	"github.com/inksmith-ai/inksmith/internal/state"
)

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the status HTTP server",
	Long: `Serve pipeline status over HTTP.

Endpoints:
  GET /health  liveness and version
  GET /ready   readiness (requires the run ledger)
  GET /runs    recent generation runs
  GET /stats   run counts by outcome`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "localhost:8750", "Listen address")
}

func runServe(cmd *cobra.Command, args []string) error {
	ledger, err := state.OpenDefault()
	if err != nil {
		log.Printf("[serve] run ledger unavailable: %v", err)
		ledger = nil
	} else {
		defer ledger.Close()
	}

	srv := health.NewServer(serveAddr, ledger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	fmt.Printf("inksmith status server on http://%s\n", serveAddr)

	select {
	case err := <-errCh:
		if err != nil && err != http.ErrServerClosed {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
