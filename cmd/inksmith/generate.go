package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/inksmith-ai/inksmith/internal/config"
	"github.com/inksmith-ai/inksmith/internal/llm"
	"github.com/inksmith-ai/inksmith/internal/pipeline"
	"github.com/inksmith-ai/inksmith/internal/state"
	"github.com/inksmith-ai/inksmith/internal/tui"
	"github.com/inksmith-ai/inksmith/pkg/models"
)

var (
	generateWords    int
	generateAudience string
	generateTone     string
	generateModel    string
	generateQuick    bool
	generateNoTUI    bool
	generateDebug    bool
)

var generateCmd = &cobra.Command{
	Use:   "generate <topic>",
	Short: "Generate a fact-checked investment article",
	Long: `Generate a complete article bundle for the given topic.

The pipeline researches the knowledge base and the web, plans and writes
the article, then runs the validation gate: template structure first,
then an LLM fact check of the extracted claims. Rejected drafts get up
to two revision rounds before the run is marked rejected.

Output lands in output/<date>-<topic-slug>/ as four Markdown documents
plus generation_metrics.json.

Examples:
  inksmith generate "The state of venture capital in 2025"
  inksmith generate "AI infrastructure capex" --words 2500 --tone conversational
  inksmith generate "Bond market outlook" --no-tui --debug`,
	Args:         cobra.ExactArgs(1),
	SilenceUsage: true,
	RunE:         runGenerate,
}

// errRejected maps to exit code 2 in Execute so scripts can tell a
// rejected article from an operational failure.
var errRejected = errors.New("article rejected by validation gate")

func init() {
	generateCmd.Flags().IntVar(&generateWords, "words", 0, "Target word count (default from config)")
	generateCmd.Flags().StringVar(&generateAudience, "audience", "", "Intended readership")
	generateCmd.Flags().StringVar(&generateTone, "tone", "", "Editorial tone")
	generateCmd.Flags().StringVar(&generateModel, "model", "", "Model override")
	generateCmd.Flags().BoolVar(&generateQuick, "quick", false, "Skip web research, URL probes, and distribution")
	generateCmd.Flags().BoolVar(&generateNoTUI, "no-tui", false, "Plain log output instead of the progress view")
	generateCmd.Flags().BoolVar(&generateDebug, "debug", false, "Verbose logging")
}

func runGenerate(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	req := buildRequest(cfg, args[0])
	if err := req.Validate(); err != nil {
		return err
	}

	client, err := buildClient(cfg)
	if err != nil {
		return err
	}

	ledger, err := state.OpenDefault()
	if err != nil {
		log.Printf("[cli] run ledger unavailable: %v", err)
		ledger = nil
	} else {
		defer ledger.Close()
	}

	opts := []pipeline.Option{}
	if ledger != nil {
		opts = append(opts, pipeline.WithLedger(ledger))
	}
	if generateQuick {
		opts = append(opts, pipeline.WithQuickMode())
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var result *pipeline.Result
	if generateNoTUI {
		p, err := pipeline.New(cfg, client, opts...)
		if err != nil {
			return err
		}
		result, err = p.Run(ctx, req)
		if err != nil {
			printResult(result)
			return err
		}
	} else {
		result, err = runWithTUI(ctx, cfg, client, req, opts)
		if err != nil {
			printResult(result)
			return err
		}
	}

	printResult(result)
	if result != nil && !result.Approved {
		return errRejected
	}
	return nil
}

// runWithTUI runs the pipeline under the progress view, streaming phase
// events into the bubbletea program.
func runWithTUI(ctx context.Context, cfg *config.Config, client *llm.Client, req models.ArticleRequest, opts []pipeline.Option) (*pipeline.Result, error) {
	// The TUI owns the terminal; silence package log output for the run.
	if !generateDebug {
		log.SetOutput(io.Discard)
		defer log.SetOutput(os.Stderr)
	}

	// Quitting the view cancels the run so the pipeline goroutine does
	// not keep burning tokens behind a dead terminal.
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	events := make(chan pipeline.Event, 64)
	opts = append(opts, pipeline.WithEvents(events))

	p, err := pipeline.New(cfg, client, opts...)
	if err != nil {
		return nil, err
	}

	prog, model := tui.NewProgram(req.Topic)
	go tui.Forward(prog, events)

	go func() {
		result, runErr := p.Run(ctx, req)
		close(events)
		prog.Send(tui.RunDoneMsg{Result: result, Err: runErr})
	}()

	if _, err := prog.Run(); err != nil {
		return nil, fmt.Errorf("progress view: %w", err)
	}
	cancel()

	return model.Result()
}

// buildRequest applies config defaults and flag overrides.
func buildRequest(cfg *config.Config, topic string) models.ArticleRequest {
	req := models.NewArticleRequest(topic)

	if cfg.Defaults.Words > 0 {
		req.WordCount = cfg.Defaults.Words
	}
	if cfg.Defaults.Audience != "" {
		req.Audience = cfg.Defaults.Audience
	}
	if cfg.Defaults.Tone != "" {
		req.Tone = cfg.Defaults.Tone
	}

	if generateWords > 0 {
		req.WordCount = generateWords
	}
	if generateAudience != "" {
		req.Audience = generateAudience
	}
	if generateTone != "" {
		req.Tone = generateTone
	}
	return req
}

// buildClient constructs the LLM client for the configured provider.
func buildClient(cfg *config.Config) (*llm.Client, error) {
	model := cfg.Defaults.Model
	if generateModel != "" {
		model = generateModel
	}

	if cfg.Defaults.Provider == "anthropic" {
		provider, err := llm.NewAnthropicProvider(llm.AnthropicConfig{
			Model:         model,
			APIKey:        cfg.Anthropic.APIKey,
			UseAWSBedrock: cfg.Anthropic.UseBedrock,
			AWSRegion:     cfg.Anthropic.AWSRegion,
			AWSProfile:    cfg.Anthropic.AWSProfile,
		})
		if err != nil {
			return nil, err
		}
		return llm.NewClient(provider), nil
	}

	key, err := config.GetOpenAIKey(cfg)
	if err != nil {
		return nil, fmt.Errorf("%w (set OPENAI_API_KEY or run 'inksmith config openai.api_key <key>')", err)
	}
	return llm.NewClient(llm.NewOpenAIProvider(key, model)), nil
}

// printResult renders the run summary table.
func printResult(result *pipeline.Result) {
	if result == nil {
		return
	}

	fmt.Println()
	if result.Approved {
		fmt.Printf("%s %s\n", color.GreenString("✓"), color.New(color.Bold).Sprint(result.Title))
	} else {
		fmt.Printf("%s %s\n", color.RedString("✗"), color.New(color.Bold).Sprint(result.Title))
	}

	fmt.Printf("  Output:     %s\n", result.OutputDir)
	if result.Metrics != nil {
		tolerance := color.GreenString("within 10%%")
		if !result.Metrics.WithinTolerance {
			tolerance = color.YellowString("outside 10%%")
		}
		fmt.Printf("  Words:      %d / %d target (%s)\n",
			result.Metrics.WordCount, result.Metrics.TargetWords, tolerance)
		fmt.Printf("  Citations:  %d across %d sections\n",
			result.Metrics.Citations, len(result.Metrics.Sections))
	}
	fmt.Printf("  Sources:    %d\n", result.Sources)
	fmt.Printf("  Iterations: %d\n", result.Iterations)
	fmt.Printf("  Tokens:     %d in / %d out ($%.4f)\n",
		result.TokensIn, result.TokensOut, result.Cost)
	fmt.Printf("  Duration:   %s\n", result.Duration.Round(time.Millisecond))

	if len(result.Issues) > 0 {
		fmt.Printf("\n  Open issues:\n")
		for _, issue := range result.Issues {
			marker := color.YellowString("⚠")
			if issue.Severity == "error" {
				marker = color.RedString("✗")
			}
			fmt.Printf("    %s [%s] %s\n", marker, issue.Check, issue.Detail)
		}
	}
}
