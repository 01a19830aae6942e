package main

import (
	"fmt"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/inksmith-ai/inksmith/internal/state"
	"github.com/inksmith-ai/inksmith/pkg/models"
)

var runsLimit int

var runsCmd = &cobra.Command{
	Use:   "runs",
	Short: "Show recent generation runs",
	Long:  `List recent runs from the ledger: topic, outcome, cost, and output location.`,
	RunE:  runRuns,
}

func init() {
	runsCmd.Flags().IntVar(&runsLimit, "limit", 20, "Number of runs to show")
}

func runRuns(cmd *cobra.Command, args []string) error {
	db, err := state.OpenDefault()
	if err != nil {
		return fmt.Errorf("opening run ledger: %w", err)
	}
	defer db.Close()

	runs, err := db.RecentRuns(runsLimit)
	if err != nil {
		return err
	}

	if len(runs) == 0 {
		fmt.Println("No runs recorded yet.")
		return nil
	}

	for _, run := range runs {
		fmt.Printf("%s  %s  %s\n", run.StartedAt.Local().Format("2006-01-02 15:04"),
			statusBadge(run.Status), run.Topic)
		fmt.Printf("    %d words, %d iterations, $%.4f", run.WordCount, run.Iterations, run.Cost)
		if run.FinishedAt != nil {
			fmt.Printf(", %s", run.FinishedAt.Sub(run.StartedAt).Round(time.Second))
		}
		fmt.Println()
		if run.OutputDir != "" {
			fmt.Printf("    %s\n", run.OutputDir)
		}
		if run.Error != "" {
			fmt.Printf("    %s %s\n", color.RedString("error:"), run.Error)
		}
	}
	return nil
}

func statusBadge(status models.RunStatus) string {
	switch status {
	case models.RunStatusApproved:
		return color.GreenString("%-8s", status)
	case models.RunStatusRejected:
		return color.YellowString("%-8s", status)
	case models.RunStatusFailed:
		return color.RedString("%-8s", status)
	default:
		return fmt.Sprintf("%-8s", status)
	}
}
