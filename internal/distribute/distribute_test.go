package distribute

import (
	"context"
	"strings"
	"testing"

	"github.com/inksmith-ai/inksmith/internal/llm"
)

// scriptedProvider plays back responses in order.
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

const socialJSON = `{
  "twitter_thread": ["VC funding fell 18% in 2025 [1]", "Late-stage rounds took the biggest hit"],
  "linkedin_post": "A closer look at the venture reset and what it means for founders."
}`

func TestSocial(t *testing.T) {
	provider := &scriptedProvider{responses: []string{socialJSON}}
	g := New(llm.NewClient(provider))

	doc, err := g.Social(context.Background(), "The Venture Reset", "article body")
	if err != nil {
		t.Fatalf("Social: %v", err)
	}

	for _, want := range []string{
		"# Social Posts: The Venture Reset",
		"## Twitter/X Thread",
		"1. VC funding fell 18% in 2025 [1]",
		"2. Late-stage rounds took the biggest hit",
		"## LinkedIn",
		"what it means for founders",
	} {
		if !strings.Contains(doc, want) {
			t.Errorf("document missing %q:\n%s", want, doc)
		}
	}
}

func TestSocial_FencedJSON(t *testing.T) {
	provider := &scriptedProvider{responses: []string{"```json\n" + socialJSON + "\n```"}}
	g := New(llm.NewClient(provider))

	doc, err := g.Social(context.Background(), "Title", "body")
	if err != nil {
		t.Fatalf("Social with fenced response: %v", err)
	}
	if !strings.Contains(doc, "## LinkedIn") {
		t.Errorf("document truncated:\n%s", doc)
	}
}

func TestSocial_BadJSON(t *testing.T) {
	provider := &scriptedProvider{responses: []string{"sorry, I cannot produce JSON"}}
	g := New(llm.NewClient(provider))

	if _, err := g.Social(context.Background(), "Title", "body"); err == nil {
		t.Error("unparseable response must error")
	}
}

func TestSummary(t *testing.T) {
	provider := &scriptedProvider{responses: []string{
		"Opening paragraph.\n\n## Highlights\n- One\n- Two\n\n**Bottom line:** hold.",
	}}
	g := New(llm.NewClient(provider))

	doc, err := g.Summary(context.Background(), "The Venture Reset", "article body")
	if err != nil {
		t.Fatalf("Summary: %v", err)
	}
	if !strings.Contains(doc, "# Summary: The Venture Reset") {
		t.Errorf("missing title heading:\n%s", doc)
	}
	if !strings.Contains(doc, "**Bottom line:** hold.") {
		t.Errorf("missing body:\n%s", doc)
	}
	if !strings.HasSuffix(doc, "\n") {
		t.Error("document must end with a newline")
	}
}

func TestClip(t *testing.T) {
	if got := clip("abcdef", 4); got != "abcd" {
		t.Errorf("clip = %q", got)
	}
	if got := clip("abc", 4); got != "abc" {
		t.Errorf("clip of short text = %q", got)
	}
}
