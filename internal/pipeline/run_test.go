package pipeline

import (
	"context"
	"strings"
	"testing"

	"github.com/inksmith-ai/inksmith/internal/config"
	"github.com/inksmith-ai/inksmith/internal/llm"
	"github.com/inksmith-ai/inksmith/internal/writer"
	"github.com/inksmith-ai/inksmith/pkg/models"
)

// scriptedProvider plays back responses in order and records requests.
type scriptedProvider struct {
	responses []string
	requests  []llm.Request
}

func (s *scriptedProvider) Complete(_ context.Context, req llm.Request) (*llm.Response, error) {
	s.requests = append(s.requests, req)
	text := "{}"
	if len(s.responses) > 0 {
		text = s.responses[0]
		s.responses = s.responses[1:]
	}
	return &llm.Response{Text: text, TokensIn: 10, TokensOut: 10}, nil
}

func (s *scriptedProvider) Model() string { return "test-model" }

// judgeCalls counts requests that went to the fact checker.
func judgeCalls(reqs []llm.Request) int {
	n := 0
	for _, r := range reqs {
		if strings.Contains(r.System, "fact checker") {
			n++
		}
	}
	return n
}

func newTestPipeline(t *testing.T, provider *scriptedProvider) *Pipeline {
	t.Helper()
	cfg := config.Default()
	p, err := New(cfg, llm.NewClient(provider))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return p
}

const passingArticle = `# Venture Capital in 2025

## Key Insights at a Glance
- Deal volume fell 18% year over year [1].

## Key Takeaways
- Discipline returned to late-stage pricing.

## Conclusion
The reset looks structural.
`

const brokenArticle = `# Venture Capital in 2025

## Overview
Some prose with a figure: volume fell 18% [1].
`

func passingMetadata() string {
	var b strings.Builder
	b.WriteString("# Metadata: Test\n\n## Sources and Citations\n\n")
	for i := 0; i < 5; i++ {
		b.WriteString("1. **Source**\n   **URL:** https://example.com/doc\n\n")
	}
	b.WriteString("Fact-checker approved: pending\n")
	return b.String()
}

func testSources() []models.Source {
	return []models.Source{
		{Title: "Report", URL: "https://example.com/doc", Snippet: "Volume fell 18%.", Authority: 2, Type: models.SourceWeb},
	}
}

func TestRunValidation_TemplateFailureSkipsFactChecker(t *testing.T) {
	provider := &scriptedProvider{}
	p := newTestPipeline(t, provider)

	events := make(chan Event, 16)
	p.events = events

	draft := &writer.Draft{Article: brokenArticle, Metadata: passingMetadata()}

	approved, issues, res, err := p.runValidation(context.Background(), draft, testSources())
	if err != nil {
		t.Fatalf("runValidation: %v", err)
	}
	if approved {
		t.Error("broken template must not approve")
	}
	if len(issues) == 0 {
		t.Error("no issues reported")
	}
	if len(provider.requests) != 0 {
		t.Errorf("fact checker ran despite template failure: %d calls", len(provider.requests))
	}
	if res.Data["gate"] != "template" {
		t.Errorf("gate = %v, want template", res.Data["gate"])
	}

	close(events)
	var sawShortCircuit bool
	for ev := range events {
		if ev.Detail == "Template validation failed" {
			sawShortCircuit = true
		}
	}
	if !sawShortCircuit {
		t.Error("missing short-circuit event")
	}
}

func TestRunValidation_TemplatePassRunsFactChecker(t *testing.T) {
	provider := &scriptedProvider{responses: []string{
		`{"verdicts": [{"claim": 1, "verified": true, "note": "ok"}]}`,
	}}
	p := newTestPipeline(t, provider)

	draft := &writer.Draft{Article: passingArticle, Metadata: passingMetadata()}

	approved, _, res, err := p.runValidation(context.Background(), draft, testSources())
	if err != nil {
		t.Fatalf("runValidation: %v", err)
	}
	if !approved {
		t.Error("clean draft should approve")
	}
	if judgeCalls(provider.requests) != 1 {
		t.Errorf("judge calls = %d, want 1", judgeCalls(provider.requests))
	}
	if res.Data["gate"] != "factcheck" {
		t.Errorf("gate = %v, want factcheck", res.Data["gate"])
	}
}

func TestValidateAndRevise_IterationBound(t *testing.T) {
	// Every revision still lacks the required sections, so the loop must
	// stop at the configured bound and report rejection.
	provider := &scriptedProvider{responses: []string{
		brokenArticle,
		brokenArticle,
	}}
	p := newTestPipeline(t, provider)

	draft := &writer.Draft{Article: brokenArticle, Metadata: passingMetadata()}
	result := &Result{}

	approved, issues, err := p.validateAndRevise(context.Background(), draft, testSources(), result)
	if err != nil {
		t.Fatalf("validateAndRevise: %v", err)
	}
	if approved {
		t.Error("unfixable draft must end rejected")
	}
	if result.Iterations != 2 {
		t.Errorf("iterations = %d, want 2", result.Iterations)
	}
	if len(issues) == 0 {
		t.Error("rejection must carry open issues")
	}
	if len(provider.requests) != 2 {
		t.Errorf("revision calls = %d, want exactly 2", len(provider.requests))
	}
	if judgeCalls(provider.requests) != 0 {
		t.Error("fact checker must never run while the template gate fails")
	}
}

func TestValidateAndRevise_RevisionFixesDraft(t *testing.T) {
	provider := &scriptedProvider{responses: []string{
		passingArticle,
		`{"verdicts": [{"claim": 1, "verified": true, "note": "ok"}]}`,
	}}
	p := newTestPipeline(t, provider)

	draft := &writer.Draft{Article: brokenArticle, Metadata: passingMetadata()}
	result := &Result{}

	approved, _, err := p.validateAndRevise(context.Background(), draft, testSources(), result)
	if err != nil {
		t.Fatalf("validateAndRevise: %v", err)
	}
	if !approved {
		t.Error("fixed draft should approve")
	}
	if result.Iterations != 1 {
		t.Errorf("iterations = %d, want 1", result.Iterations)
	}
	if !strings.Contains(draft.Article, "Key Takeaways") {
		t.Error("revision not written back into the draft")
	}
}

func TestValidateAndRevise_MetadataOnlyIssuesSkipRevision(t *testing.T) {
	// A rewrite of the article text cannot add metadata citations, so no
	// revision round (and no model call) should run.
	provider := &scriptedProvider{}
	p := newTestPipeline(t, provider)

	thinMetadata := "# Metadata: Test\n\n## Sources and Citations\n\n" +
		"1. **Source**\n   **URL:** https://example.com/doc\n\n" +
		"Fact-checker approved: pending\n"
	draft := &writer.Draft{Article: passingArticle, Metadata: thinMetadata}
	result := &Result{}

	approved, issues, err := p.validateAndRevise(context.Background(), draft, testSources(), result)
	if err != nil {
		t.Fatalf("validateAndRevise: %v", err)
	}
	if approved {
		t.Error("thin metadata must not approve")
	}
	if result.Iterations != 0 {
		t.Errorf("iterations = %d, want 0", result.Iterations)
	}
	if len(provider.requests) != 0 {
		t.Errorf("model calls = %d, want 0", len(provider.requests))
	}
	if len(issues) == 0 {
		t.Error("rejection must carry the metadata issues")
	}
	for _, issue := range issues {
		if issue.Check != "metadata" {
			t.Errorf("unexpected issue check %q", issue.Check)
		}
	}
}

func TestRunSetup_InvalidRequest(t *testing.T) {
	p := newTestPipeline(t, &scriptedProvider{})

	_, res := p.runSetup(models.ArticleRequest{Topic: "", WordCount: 1750})
	if res.Success {
		t.Error("empty topic must fail setup")
	}
	if res.Phase != models.PhaseSetup {
		t.Errorf("phase = %s", res.Phase)
	}
}
