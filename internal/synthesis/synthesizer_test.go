package synthesis

import (
	"context"
	"strings"
	"testing"

	"github.com/inksmith-ai/inksmith/internal/llm"
	"github.com/inksmith-ai/inksmith/pkg/models"
)

const goodOutlineJSON = `{
  "angle": "The venture reset is structural, not cyclical",
  "themes": ["capital concentration", "valuation discipline"],
  "sections": [
    {"heading": "Key Insights at a Glance", "points": ["Deal volume fell 18% [1]"]},
    {"heading": "Capital Concentration", "points": ["Mega-funds dominate [2]"]},
    {"heading": "Key Takeaways", "points": ["Discipline is back"]},
    {"heading": "Conclusion", "points": ["The reset continues"]}
  ]
}`

// scriptedProvider plays back responses in order.
type scriptedProvider struct {
	responses []string
	calls     int
}

func (s *scriptedProvider) Complete(_ context.Context, _ llm.Request) (*llm.Response, error) {
	s.calls++
	if len(s.responses) == 0 {
		return &llm.Response{Text: "{}"}, nil
	}
	text := s.responses[0]
	s.responses = s.responses[1:]
	return &llm.Response{Text: text, TokensIn: 5, TokensOut: 5}, nil
}

func (s *scriptedProvider) Model() string { return "test-model" }

func testRequest() models.ArticleRequest {
	return models.ArticleRequest{Topic: "VC trends", Audience: "investors", Tone: "analytical", WordCount: 1750}
}

func TestSynthesize(t *testing.T) {
	provider := &scriptedProvider{responses: []string{goodOutlineJSON}}
	s := New(llm.NewClient(provider))

	outline, err := s.Synthesize(context.Background(), testRequest(), nil)
	if err != nil {
		t.Fatalf("Synthesize: %v", err)
	}
	if len(outline.Sections) != 4 {
		t.Errorf("sections = %d, want 4", len(outline.Sections))
	}
	if provider.calls != 1 {
		t.Errorf("made %d calls, want 1", provider.calls)
	}
}

func TestSynthesize_ReAsksOnceOnBadJSON(t *testing.T) {
	provider := &scriptedProvider{responses: []string{"not json at all", goodOutlineJSON}}
	s := New(llm.NewClient(provider))

	outline, err := s.Synthesize(context.Background(), testRequest(), nil)
	if err != nil {
		t.Fatalf("Synthesize after re-ask: %v", err)
	}
	if outline.Angle == "" {
		t.Error("outline missing angle")
	}
	if provider.calls != 2 {
		t.Errorf("made %d calls, want exactly 2", provider.calls)
	}
}

func TestSynthesize_FailsTwice(t *testing.T) {
	provider := &scriptedProvider{responses: []string{"garbage", "more garbage"}}
	s := New(llm.NewClient(provider))

	if _, err := s.Synthesize(context.Background(), testRequest(), nil); err == nil {
		t.Error("two malformed responses should fail")
	}
	if provider.calls != 2 {
		t.Errorf("made %d calls, want 2 (no third attempt)", provider.calls)
	}
}

func TestOutlineValidate(t *testing.T) {
	tests := []struct {
		name     string
		sections []Section
		wantErr  bool
	}{
		{
			"all required",
			[]Section{
				{Heading: "Key Insights at a Glance"},
				{Heading: "Key Takeaways"},
				{Heading: "Conclusion"},
			},
			false,
		},
		{
			"missing takeaways",
			[]Section{
				{Heading: "Key Insights at a Glance"},
				{Heading: "Conclusion"},
			},
			true,
		},
		{"no sections", nil, true},
		{
			"empty heading",
			[]Section{
				{Heading: "Key Insights at a Glance"},
				{Heading: ""},
				{Heading: "Key Takeaways"},
				{Heading: "Conclusion"},
			},
			true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			o := &Outline{Sections: tt.sections}
			err := o.validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestFormatSources(t *testing.T) {
	sources := []models.Source{
		{Title: "First", URL: "https://a.test", Snippet: "excerpt one", Date: "2024-01-01"},
		{Title: "Second", URL: "kb://file-2"},
	}

	block := FormatSources(sources)

	if !strings.Contains(block, "1. First") || !strings.Contains(block, "2. Second") {
		t.Errorf("numbering wrong:\n%s", block)
	}
	if !strings.Contains(block, "Excerpt: excerpt one") {
		t.Errorf("missing excerpt:\n%s", block)
	}

	if got := FormatSources(nil); got != "(no sources available)" {
		t.Errorf("empty sources = %q", got)
	}
}
