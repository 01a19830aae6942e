// Package pipeline orchestrates the article generation run: research
// fan-out, synthesis, writing, analysis, the validation gate, bounded
// revision, distribution, and the output bundle.
package pipeline

import (
	"time"

	"github.com/openai/openai-go/v2"
	"github.com/openai/openai-go/v2/option"

	"github.com/inksmith-ai/inksmith/internal/cache"
	"github.com/inksmith-ai/inksmith/internal/config"
	"github.com/inksmith-ai/inksmith/internal/distribute"
	"github.com/inksmith-ai/inksmith/internal/iterate"
	"github.com/inksmith-ai/inksmith/internal/llm"
	"github.com/inksmith-ai/inksmith/internal/research"
	"github.com/inksmith-ai/inksmith/internal/state"
	"github.com/inksmith-ai/inksmith/internal/synthesis"
	"github.com/inksmith-ai/inksmith/internal/validate"
	"github.com/inksmith-ai/inksmith/internal/writer"
	"github.com/inksmith-ai/inksmith/pkg/models"
)

// Pipeline wires the generation agents together and runs them in order.
type Pipeline struct {
	cfg    *config.Config
	client *llm.Client

	kb          *research.KBSearcher
	web         *research.WebSearcher
	synthesizer *synthesis.Synthesizer
	writer      *writer.Writer
	factChecker *validate.FactChecker
	urlChecker  *validate.URLChecker
	seo         *validate.SEOGenerator
	reviser     *iterate.Reviser
	distributor *distribute.Generator

	ledger *state.DB
	events chan<- Event

	// quick skips web research, URL probes, and distribution.
	quick bool
}

// Option configures optional pipeline behavior.
type Option func(*Pipeline)

// WithEvents streams progress events to ch. Sends never block; slow
// consumers drop events.
func WithEvents(ch chan<- Event) Option {
	return func(p *Pipeline) { p.events = ch }
}

// WithLedger records runs in the given database.
func WithLedger(db *state.DB) Option {
	return func(p *Pipeline) { p.ledger = db }
}

// WithQuickMode trims the run to KB research, writing, and validation.
func WithQuickMode() Option {
	return func(p *Pipeline) { p.quick = true }
}

// New builds a pipeline from configuration. The verdict cache is redis
// when configured and in-process memory otherwise.
func New(cfg *config.Config, client *llm.Client, opts ...Option) (*Pipeline, error) {
	var oaOpts []option.RequestOption
	if cfg.OpenAI.APIKey != "" {
		oaOpts = append(oaOpts, option.WithAPIKey(cfg.OpenAI.APIKey))
	}
	oaClient := openai.NewClient(oaOpts...)

	var verdicts validate.VerdictCache
	if cfg.Cache.RedisURL != "" {
		redisCache, err := cache.NewRedis(cfg.Cache.RedisURL, cfg.Cache.TTL)
		if err != nil {
			return nil, err
		}
		verdicts = redisCache
	} else {
		verdicts = cache.NewMemory()
	}

	p := &Pipeline{
		cfg:         cfg,
		client:      client,
		kb:          research.NewKBSearcher(oaClient, cfg.OpenAI.VectorStoreID),
		web:         research.NewWebSearcher(cfg.Search.SerperAPIKey, cfg.Search.MaxResults),
		synthesizer: synthesis.New(client),
		writer:      writer.New(client),
		factChecker: validate.NewFactChecker(client, verdicts, cfg.Validation.MinVerifiedRatio),
		urlChecker:  validate.NewURLChecker(cfg.Timeouts.URLCheck),
		seo:         validate.NewSEOGenerator(client),
		reviser:     iterate.NewReviser(client),
		distributor: distribute.New(client),
	}

	for _, opt := range opts {
		opt(p)
	}
	return p, nil
}

// Result is the outcome of one pipeline run.
type Result struct {
	// RunID identifies the run in the ledger.
	RunID string `json:"run_id"`
	// Approved is true when the article passed the validation gate.
	Approved bool `json:"approved"`
	// Title is the generated article title.
	Title string `json:"title"`
	// OutputDir is the bundle directory.
	OutputDir string `json:"output_dir"`
	// Iterations is how many revision rounds ran.
	Iterations int `json:"iterations"`
	// Metrics are the content metrics of the final article.
	Metrics *validate.Metrics `json:"metrics"`
	// Issues are the validation issues still open at the end of the run.
	Issues []models.ValidationIssue `json:"issues,omitempty"`
	// Phases are the per-phase results in execution order.
	Phases []models.PhaseResult `json:"phases"`
	// Sources is the number of deduplicated research sources used.
	Sources int `json:"sources"`
	// TokensIn and TokensOut are the run's total token usage.
	TokensIn  int64 `json:"tokens_in"`
	TokensOut int64 `json:"tokens_out"`
	// Cost is the estimated spend in USD.
	Cost float64 `json:"cost"`
	// Duration is the wall-clock run time.
	Duration time.Duration `json:"duration"`
}
