package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/inksmith-ai/inksmith/internal/iterate"
	"github.com/inksmith-ai/inksmith/internal/output"
	"github.com/inksmith-ai/inksmith/internal/synthesis"
	"github.com/inksmith-ai/inksmith/internal/validate"
	"github.com/inksmith-ai/inksmith/internal/writer"
	"github.com/inksmith-ai/inksmith/pkg/models"
)

// Run executes the full generation pipeline for one request.
// Phase errors abort the run; validation rejection does not, it triggers
// the bounded revision loop and a rejected run still writes its bundle.
func (p *Pipeline) Run(ctx context.Context, req models.ArticleRequest) (*Result, error) {
	start := time.Now()

	result := &Result{RunID: uuid.NewString()}
	rec := &models.RunRecord{
		ID:        result.RunID,
		Topic:     req.Topic,
		Slug:      output.Slugify(req.Topic),
		Status:    models.RunStatusRunning,
		StartedAt: start,
	}
	p.recordStart(rec)

	runErr := p.execute(ctx, req, result)

	result.TokensIn, result.TokensOut = p.client.Tracker().Total()
	result.Cost = p.client.Tracker().Cost()
	result.Duration = time.Since(start)

	p.recordFinish(rec, result, runErr)

	if runErr != nil {
		return result, runErr
	}
	return result, nil
}

// execute runs the phases in order, appending a PhaseResult per phase.
func (p *Pipeline) execute(ctx context.Context, req models.ArticleRequest, result *Result) error {
	// Setup.
	bundle, res := p.runSetup(req)
	result.Phases = append(result.Phases, res)
	if !res.Success {
		return errors.New(res.Error)
	}
	result.OutputDir = bundle.Dir

	// Research fan-out.
	sources, res := p.runResearch(ctx, req)
	result.Phases = append(result.Phases, res)
	if !res.Success {
		return errors.New(res.Error)
	}
	result.Sources = len(sources)

	// Synthesis.
	outline, res := p.runSynthesis(ctx, req, sources)
	result.Phases = append(result.Phases, res)
	if !res.Success {
		return errors.New(res.Error)
	}

	// Writing.
	draft, res := p.runWriting(ctx, req, outline, sources)
	result.Phases = append(result.Phases, res)
	if !res.Success {
		return errors.New(res.Error)
	}
	result.Title = draft.Title

	// Analysis: metrics and SEO side by side.
	seoSection, res := p.runAnalysis(ctx, req, draft, result)
	result.Phases = append(result.Phases, res)
	if !res.Success {
		return errors.New(res.Error)
	}

	// Validation and the bounded revision loop.
	approved, issues, err := p.validateAndRevise(ctx, draft, sources, result)
	if err != nil {
		return err
	}
	result.Approved = approved
	result.Issues = issues

	// Recompute metrics if revision changed the article.
	result.Metrics = validate.AnalyzeMetrics(draft.Article, req.WordCount)

	// Distribution only for approved articles outside quick mode.
	var social, summary string
	if approved && !p.quick {
		social, summary, res = p.runDistribution(ctx, draft)
		result.Phases = append(result.Phases, res)
		if !res.Success {
			// Distribution failure degrades the bundle, it does not
			// unpublish an approved article.
			log.Printf("[pipeline] distribution failed: %s", res.Error)
		}
	}

	// Finalize: write the bundle.
	res = p.runFinalize(bundle, draft, seoSection, social, summary, result, approved)
	result.Phases = append(result.Phases, res)
	if !res.Success {
		return errors.New(res.Error)
	}

	return nil
}

// runSetup validates the request and prepares the output directory.
func (p *Pipeline) runSetup(req models.ArticleRequest) (*output.Bundle, models.PhaseResult) {
	p.emit(PhaseStarted, models.PhaseSetup, "preparing output directory")
	start := time.Now()

	if err := req.Validate(); err != nil {
		return nil, p.fail(models.PhaseSetup, start, err)
	}

	bundle, err := output.NewBundle(p.cfg.Output.Dir, p.cfg.Output.Prefix, req.Topic, time.Now())
	if err != nil {
		return nil, p.fail(models.PhaseSetup, start, err)
	}

	return bundle, p.ok(models.PhaseSetup, start, map[string]any{"dir": bundle.Dir})
}

// runResearch queries the knowledge base and the web concurrently and
// merges the results, deduplicated by URL.
func (p *Pipeline) runResearch(ctx context.Context, req models.ArticleRequest) ([]models.Source, models.PhaseResult) {
	p.emit(PhaseStarted, models.PhaseResearch, "querying knowledge base and web")
	start := time.Now()

	ctx, cancel := context.WithTimeout(ctx, p.cfg.Timeouts.Research)
	defer cancel()

	var (
		wg      sync.WaitGroup
		results = make([][]models.Source, 2)
		errs    = make([]error, 2)
	)

	wg.Add(1)
	go func() {
		defer wg.Done()
		results[0], errs[0] = p.kb.Search(ctx, req.Topic)
	}()

	if !p.quick {
		wg.Add(1)
		go func() {
			defer wg.Done()
			results[1], errs[1] = p.web.Search(ctx, req.Topic)
		}()
	}

	wg.Wait()

	// One collaborator failing is survivable as long as the other found
	// something; both failing aborts the phase.
	if err := errors.Join(errs...); err != nil {
		if len(results[0]) == 0 && len(results[1]) == 0 {
			return nil, p.fail(models.PhaseResearch, start, fmt.Errorf("research failed: %w", err))
		}
		log.Printf("[pipeline] partial research failure: %v", err)
	}

	sources := models.DedupeSources(results[0], results[1])
	if len(sources) == 0 {
		return nil, p.fail(models.PhaseResearch, start, errors.New("no research sources found"))
	}
	if len(sources) < p.cfg.Validation.MinSources {
		log.Printf("[pipeline] only %d sources found, gate requires %d",
			len(sources), p.cfg.Validation.MinSources)
	}

	p.emit(Note, models.PhaseResearch, fmt.Sprintf("%d sources after dedup", len(sources)))
	return sources, p.ok(models.PhaseResearch, start, map[string]any{
		"kb_sources":  len(results[0]),
		"web_sources": len(results[1]),
		"merged":      len(sources),
	})
}

// runSynthesis produces the outline.
func (p *Pipeline) runSynthesis(ctx context.Context, req models.ArticleRequest, sources []models.Source) (*synthesis.Outline, models.PhaseResult) {
	p.emit(PhaseStarted, models.PhaseSynthesis, "planning article structure")
	start := time.Now()

	ctx, cancel := context.WithTimeout(ctx, p.cfg.Timeouts.Synthesis)
	defer cancel()

	outline, err := p.synthesizer.Synthesize(ctx, req, sources)
	if err != nil {
		return nil, p.fail(models.PhaseSynthesis, start, err)
	}

	return outline, p.ok(models.PhaseSynthesis, start, map[string]any{
		"angle":    outline.Angle,
		"sections": len(outline.Sections),
	})
}

// runWriting produces the article and metadata drafts.
func (p *Pipeline) runWriting(ctx context.Context, req models.ArticleRequest, outline *synthesis.Outline, sources []models.Source) (*writer.Draft, models.PhaseResult) {
	p.emit(PhaseStarted, models.PhaseWriting, "writing article body")
	start := time.Now()

	ctx, cancel := context.WithTimeout(ctx, p.cfg.Timeouts.Writing)
	defer cancel()

	draft, err := p.writer.Write(ctx, req, outline, sources)
	if err != nil {
		return nil, p.fail(models.PhaseWriting, start, err)
	}

	return draft, p.ok(models.PhaseWriting, start, map[string]any{
		"title": draft.Title,
		"words": writer.CountWords(draft.Article),
	})
}

// runAnalysis computes content metrics and SEO assets concurrently.
// Returns the rendered SEO section for the metadata document.
func (p *Pipeline) runAnalysis(ctx context.Context, req models.ArticleRequest, draft *writer.Draft, result *Result) (string, models.PhaseResult) {
	p.emit(PhaseStarted, models.PhaseAnalysis, "computing metrics and SEO assets")
	start := time.Now()

	result.Metrics = validate.AnalyzeMetrics(draft.Article, req.WordCount)

	if p.quick {
		return "", p.ok(models.PhaseAnalysis, start, map[string]any{
			"words": result.Metrics.WordCount,
		})
	}

	ctx, cancel := context.WithTimeout(ctx, p.cfg.Timeouts.Validation)
	defer cancel()

	assets, err := p.seo.Generate(ctx, draft.Title, req.Topic, draft.Article)
	if err != nil {
		// SEO assets are decoration on the metadata file; their absence
		// never blocks the article.
		log.Printf("[pipeline] seo generation failed: %v", err)
		return "", p.ok(models.PhaseAnalysis, start, map[string]any{
			"words": result.Metrics.WordCount,
		})
	}

	return assets.Render(), p.ok(models.PhaseAnalysis, start, map[string]any{
		"words":    result.Metrics.WordCount,
		"keywords": len(assets.Keywords),
	})
}

// validateAndRevise runs the validation gate, revising the draft in place
// up to the configured iteration bound.
func (p *Pipeline) validateAndRevise(ctx context.Context, draft *writer.Draft, sources []models.Source, result *Result) (bool, []models.ValidationIssue, error) {
	controller := iterate.NewController(p.cfg.Validation.MaxIterations)

	approved, issues, res, err := p.runValidation(ctx, draft, sources)
	result.Phases = append(result.Phases, res)
	if err != nil {
		return false, nil, err
	}

	for !approved && controller.ShouldContinue() {
		revisable := revisableIssues(issues)
		if len(revisable) == 0 {
			// Rewriting the article cannot add metadata citations; burning
			// revision rounds on it would change nothing.
			log.Printf("[pipeline] %d open issues, none addressable by revision", len(issues))
			break
		}

		controller.Increment()
		result.Iterations = controller.Iteration()

		p.emit(PhaseStarted, models.PhaseIteration,
			fmt.Sprintf("revision round %d of %d", controller.Iteration(), controller.Max()))
		iterStart := time.Now()

		revised, revErr := p.reviser.Revise(ctx, draft.Article, revisable)
		if revErr != nil {
			res := p.fail(models.PhaseIteration, iterStart, revErr)
			result.Phases = append(result.Phases, res)
			return false, issues, revErr
		}
		draft.Article = revised
		result.Phases = append(result.Phases, p.ok(models.PhaseIteration, iterStart, map[string]any{
			"round": controller.Iteration(),
		}))

		approved, issues, res, err = p.runValidation(ctx, draft, sources)
		result.Phases = append(result.Phases, res)
		if err != nil {
			return false, issues, err
		}
	}

	if !approved {
		log.Printf("[pipeline] rejected after %d revision rounds, %d open issues",
			controller.Iteration(), len(issues))
	}
	return approved, issues, nil
}

// revisableIssues drops issues that an article rewrite cannot address,
// such as metadata citation counts.
func revisableIssues(issues []models.ValidationIssue) []models.ValidationIssue {
	var out []models.ValidationIssue
	for _, issue := range issues {
		if issue.Check == "metadata" {
			continue
		}
		out = append(out, issue)
	}
	return out
}

// runValidation applies the gate: the template checks run first and a
// template failure short-circuits the fact checker entirely.
func (p *Pipeline) runValidation(ctx context.Context, draft *writer.Draft, sources []models.Source) (bool, []models.ValidationIssue, models.PhaseResult, error) {
	p.emit(PhaseStarted, models.PhaseValidation, "running validation gate")
	start := time.Now()

	articleOK, issues := validate.ValidateArticleTemplate(draft.Article)
	metaOK, metaIssues := validate.ValidateMetadataTemplate(draft.Metadata, p.cfg.Validation.MinSources)
	issues = append(issues, metaIssues...)

	if !articleOK || !metaOK {
		p.emit(Note, models.PhaseValidation, "Template validation failed")
		log.Printf("[pipeline] Template validation failed, skipping fact check (%d issues)", len(issues))
		res := p.ok(models.PhaseValidation, start, map[string]any{
			"approved": false,
			"gate":     "template",
			"issues":   len(issues),
		})
		return false, issues, res, nil
	}

	ctx, cancel := context.WithTimeout(ctx, p.cfg.Timeouts.Validation)
	defer cancel()

	verdict, err := p.factChecker.Check(ctx, draft.Article, sources)
	if err != nil {
		return false, issues, p.fail(models.PhaseValidation, start, err), err
	}
	issues = append(issues, verdict.Issues...)

	if p.cfg.Validation.CheckURLs && !p.quick {
		var urls []string
		for _, s := range sources {
			if !strings.HasPrefix(s.URL, "kb://") {
				urls = append(urls, s.URL)
			}
		}
		issues = append(issues, p.urlChecker.Check(ctx, urls)...)
	}

	res := p.ok(models.PhaseValidation, start, map[string]any{
		"approved":        verdict.Approved,
		"gate":            "factcheck",
		"claims_total":    verdict.ClaimsTotal,
		"claims_verified": verdict.ClaimsVerified,
	})
	return verdict.Approved, issues, res, nil
}

// runDistribution generates the social and summary documents concurrently.
func (p *Pipeline) runDistribution(ctx context.Context, draft *writer.Draft) (string, string, models.PhaseResult) {
	p.emit(PhaseStarted, models.PhaseDistribution, "generating social posts and summary")
	start := time.Now()

	ctx, cancel := context.WithTimeout(ctx, p.cfg.Timeouts.Distribution)
	defer cancel()

	var (
		wg              sync.WaitGroup
		social, summary string
		errs            = make([]error, 2)
	)

	wg.Add(2)
	go func() {
		defer wg.Done()
		social, errs[0] = p.distributor.Social(ctx, draft.Title, draft.Article)
	}()
	go func() {
		defer wg.Done()
		summary, errs[1] = p.distributor.Summary(ctx, draft.Title, draft.Article)
	}()
	wg.Wait()

	if err := errors.Join(errs...); err != nil {
		return social, summary, p.fail(models.PhaseDistribution, start, err)
	}

	return social, summary, p.ok(models.PhaseDistribution, start, nil)
}

// runFinalize writes the bundle files and the metrics JSON.
func (p *Pipeline) runFinalize(bundle *output.Bundle, draft *writer.Draft, seoSection, social, summary string, result *Result, approved bool) models.PhaseResult {
	p.emit(PhaseStarted, models.PhaseFinalize, "writing output bundle")
	start := time.Now()

	metadata := draft.Metadata
	if seoSection != "" {
		metadata += "\n" + seoSection
	}
	if approved {
		metadata = writer.MarkApproved(metadata)
	}

	if err := bundle.WriteArticle(draft.Article); err != nil {
		return p.fail(models.PhaseFinalize, start, err)
	}
	if err := bundle.WriteMetadata(metadata); err != nil {
		return p.fail(models.PhaseFinalize, start, err)
	}
	if social != "" {
		if err := bundle.WriteSocial(social); err != nil {
			return p.fail(models.PhaseFinalize, start, err)
		}
	}
	if summary != "" {
		if err := bundle.WriteSummary(summary); err != nil {
			return p.fail(models.PhaseFinalize, start, err)
		}
	}
	if err := bundle.WriteMetrics(result); err != nil {
		return p.fail(models.PhaseFinalize, start, err)
	}

	return p.ok(models.PhaseFinalize, start, map[string]any{"dir": bundle.Dir})
}

// ok builds a successful phase result with its duration and emits the
// completion event.
func (p *Pipeline) ok(phase models.Phase, start time.Time, data map[string]any) models.PhaseResult {
	res := models.PhaseOK(phase, data)
	res.Duration = time.Since(start)
	p.emit(PhaseCompleted, phase, "")
	return res
}

// fail builds a failed phase result with its duration and emits the
// failure event.
func (p *Pipeline) fail(phase models.Phase, start time.Time, err error) models.PhaseResult {
	res := models.PhaseFail(phase, err)
	res.Duration = time.Since(start)
	p.emit(PhaseFailed, phase, res.Error)
	log.Printf("[pipeline] %s failed: %v", phase, err)
	return res
}

// recordStart inserts the running row in the ledger, if one is attached.
func (p *Pipeline) recordStart(rec *models.RunRecord) {
	if p.ledger == nil {
		return
	}
	if err := p.ledger.InsertRun(rec); err != nil {
		log.Printf("[pipeline] ledger insert: %v", err)
	}
}

// recordFinish updates the ledger row with the run outcome.
func (p *Pipeline) recordFinish(rec *models.RunRecord, result *Result, runErr error) {
	if p.ledger == nil {
		return
	}

	now := time.Now()
	rec.FinishedAt = &now
	rec.Iterations = result.Iterations
	rec.TokensIn = result.TokensIn
	rec.TokensOut = result.TokensOut
	rec.Cost = result.Cost
	rec.OutputDir = result.OutputDir
	if result.Metrics != nil {
		rec.WordCount = result.Metrics.WordCount
	}

	switch {
	case runErr != nil:
		rec.Status = models.RunStatusFailed
		rec.Error = runErr.Error()
	case result.Approved:
		rec.Status = models.RunStatusApproved
	default:
		rec.Status = models.RunStatusRejected
	}

	if err := p.ledger.UpdateRun(rec); err != nil {
		log.Printf("[pipeline] ledger update: %v", err)
	}
}
