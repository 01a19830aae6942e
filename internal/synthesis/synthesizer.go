// Package synthesis merges research output into an article outline.
package synthesis

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/inksmith-ai/inksmith/internal/llm"
	"github.com/inksmith-ai/inksmith/pkg/models"
)

// Section is one planned section of the article.
type Section struct {
	// Heading is the H2 heading text.
	Heading string `json:"heading"`
	// Points are the talking points to cover under the heading.
	Points []string `json:"points"`
}

// Outline is the synthesized article plan.
type Outline struct {
	// Angle is the one-sentence editorial angle.
	Angle string `json:"angle"`
	// Themes are the recurring themes to weave through the piece.
	Themes []string `json:"themes"`
	// Sections are the planned body sections, in order.
	Sections []Section `json:"sections"`
}

// Synthesizer produces an outline from the merged research sources.
type Synthesizer struct {
	client *llm.Client
}

// New creates a Synthesizer using the given client.
func New(client *llm.Client) *Synthesizer {
	return &Synthesizer{client: client}
}

const synthesisSystemPrompt = `You are a senior investment editor planning a long-form article.
You respond with JSON only, no other text.`

const synthesisPromptTemplate = `Plan an article.

Topic: %s
Audience: %s
Tone: %s
Target length: %d words

Research sources (numbered):
%s

Produce a JSON object:
{
  "angle": "one-sentence editorial angle",
  "themes": ["theme", ...],
  "sections": [{"heading": "H2 heading", "points": ["point", ...]}, ...]
}

Requirements:
- The first section heading must be exactly "Key Insights at a Glance".
- Include sections headed exactly "Key Takeaways" and "Conclusion".
- Never use the headings "Introduction" or "Executive Summary".
- 5 to 8 sections total, each with 2 to 5 points grounded in the sources.
- Points that cite a source reference it as [N] by source number.`

// Synthesize runs one LLM call to produce the outline.
// A malformed response gets exactly one re-ask before failing.
func (s *Synthesizer) Synthesize(ctx context.Context, req models.ArticleRequest, sources []models.Source) (*Outline, error) {
	prompt := fmt.Sprintf(synthesisPromptTemplate,
		req.Topic, req.Audience, req.Tone, req.WordCount, FormatSources(sources))

	outline, err := s.ask(ctx, prompt)
	if err != nil {
		log.Printf("[synthesis] first attempt failed (%v), re-asking", err)
		outline, err = s.ask(ctx, prompt+"\n\nYour previous reply was not valid JSON. Reply with the JSON object only.")
		if err != nil {
			return nil, fmt.Errorf("synthesize outline: %w", err)
		}
	}

	if err := outline.validate(); err != nil {
		return nil, fmt.Errorf("synthesized outline invalid: %w", err)
	}

	return outline, nil
}

func (s *Synthesizer) ask(ctx context.Context, prompt string) (*Outline, error) {
	resp, err := s.client.Complete(ctx, llm.Request{
		System:      synthesisSystemPrompt,
		Prompt:      prompt,
		MaxTokens:   2048,
		Temperature: 0.4,
	})
	if err != nil {
		return nil, err
	}

	var outline Outline
	if err := llm.UnmarshalResponse(resp.Text, &outline); err != nil {
		return nil, err
	}
	return &outline, nil
}

// validate checks the structural requirements the writer depends on.
func (o *Outline) validate() error {
	if len(o.Sections) == 0 {
		return fmt.Errorf("no sections")
	}

	required := map[string]bool{
		"Key Insights at a Glance": false,
		"Key Takeaways":            false,
		"Conclusion":               false,
	}
	for _, sec := range o.Sections {
		heading := strings.TrimSpace(sec.Heading)
		if heading == "" {
			return fmt.Errorf("section with empty heading")
		}
		if _, ok := required[heading]; ok {
			required[heading] = true
		}
	}
	for heading, found := range required {
		if !found {
			return fmt.Errorf("missing required section %q", heading)
		}
	}
	return nil
}

// FormatSources renders sources as a numbered block for prompts.
// The numbering is 1-based and stable across all agents in a run.
func FormatSources(sources []models.Source) string {
	var b strings.Builder
	for i, src := range sources {
		fmt.Fprintf(&b, "%d. %s\n   URL: %s\n", i+1, src.Title, src.URL)
		if src.Date != "" {
			fmt.Fprintf(&b, "   Date: %s\n", src.Date)
		}
		if src.Snippet != "" {
			fmt.Fprintf(&b, "   Excerpt: %s\n", src.Snippet)
		}
	}
	if b.Len() == 0 {
		return "(no sources available)"
	}
	return b.String()
}
