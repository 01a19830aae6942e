package iterate

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/inksmith-ai/inksmith/internal/llm"
	"github.com/inksmith-ai/inksmith/pkg/models"
)

func TestController_Bound(t *testing.T) {
	c := NewController(2)

	if !c.ShouldContinue() {
		t.Fatal("fresh controller should allow a round")
	}

	c.Increment()
	if c.Iteration() != 1 || !c.ShouldContinue() {
		t.Errorf("after one round: iteration=%d shouldContinue=%v", c.Iteration(), c.ShouldContinue())
	}

	c.Increment()
	if c.ShouldContinue() {
		t.Error("controller must stop at the bound")
	}
	if !c.AtMax() {
		t.Error("AtMax should be true at the bound")
	}
}

func TestController_ZeroMax(t *testing.T) {
	c := NewController(0)
	if c.ShouldContinue() {
		t.Error("zero bound means no revision rounds")
	}
}

func TestController_NegativeMaxDefaults(t *testing.T) {
	c := NewController(-1)
	if c.Max() != DefaultMaxIterations {
		t.Errorf("Max() = %d, want %d", c.Max(), DefaultMaxIterations)
	}
}

// failingProvider errors on any call, proving no model round-trip happened.
type failingProvider struct{ calls int }

func (f *failingProvider) Complete(context.Context, llm.Request) (*llm.Response, error) {
	f.calls++
	return nil, fmt.Errorf("unexpected model call")
}

func (f *failingProvider) Model() string { return "test-model" }

func TestReviser_MechanicalFixOnly(t *testing.T) {
	provider := &failingProvider{}
	r := NewReviser(llm.NewClient(provider))

	article := "# Title\n\n## Introduction\n\nOpening prose.\n\n## Conclusion\n\nDone.\n"
	issues := []models.ValidationIssue{{
		Check:    "template",
		Detail:   `forbidden section "Introduction" present`,
		Severity: "error",
	}}

	revised, err := r.Revise(context.Background(), article, issues)
	if err != nil {
		t.Fatalf("Revise: %v", err)
	}
	if strings.Contains(revised, "## Introduction") {
		t.Error("forbidden heading survived the mechanical fix")
	}
	if !strings.Contains(revised, "Opening prose.") {
		t.Error("mechanical fix removed body text")
	}
	if provider.calls != 0 {
		t.Errorf("mechanical-only revision made %d model calls", provider.calls)
	}
}

// echoProvider returns a fixed revision.
type echoProvider struct{ reply string }

func (e *echoProvider) Complete(context.Context, llm.Request) (*llm.Response, error) {
	return &llm.Response{Text: e.reply, TokensIn: 1, TokensOut: 1}, nil
}

func (e *echoProvider) Model() string { return "test-model" }

func TestReviser_ContentIssueUsesModel(t *testing.T) {
	r := NewReviser(llm.NewClient(&echoProvider{reply: "# Better Article\n\nFixed."}))

	issues := []models.ValidationIssue{{
		Check:    "factcheck",
		Detail:   "unverified statistical claim: 42%",
		Severity: "error",
	}}

	revised, err := r.Revise(context.Background(), "# Article\n\nOld.", issues)
	if err != nil {
		t.Fatalf("Revise: %v", err)
	}
	if !strings.Contains(revised, "Better Article") {
		t.Errorf("revision not applied: %q", revised)
	}
}
