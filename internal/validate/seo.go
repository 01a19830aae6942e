package validate

import (
	"context"
	"fmt"
	"strings"

	"github.com/inksmith-ai/inksmith/internal/llm"
)

// SEOAssets holds the search-optimization material appended to the
// metadata document.
type SEOAssets struct {
	// TitleVariants are alternative headline options.
	TitleVariants []string `json:"title_variants"`
	// MetaDescription is the 150-160 character page description.
	MetaDescription string `json:"meta_description"`
	// Keywords are the target search phrases.
	Keywords []string `json:"keywords"`
}

// SEOGenerator produces SEO assets with a single LLM call.
type SEOGenerator struct {
	client *llm.Client
}

// NewSEOGenerator creates an SEO generator using the given client.
func NewSEOGenerator(client *llm.Client) *SEOGenerator {
	return &SEOGenerator{client: client}
}

const seoPromptTemplate = `Generate SEO assets for this investment article.

Title: %s
Topic: %s

Article opening:
%s

Respond with a JSON object only:
{
  "title_variants": ["3 alternative headlines"],
  "meta_description": "150-160 character description",
  "keywords": ["5-8 search phrases"]
}`

// Generate runs the SEO call against the article.
func (g *SEOGenerator) Generate(ctx context.Context, title, topic, article string) (*SEOAssets, error) {
	opening := article
	if len(opening) > 2000 {
		opening = opening[:2000]
	}

	resp, err := g.client.Complete(ctx, llm.Request{
		System:      "You are an SEO specialist for financial publishing. Respond with JSON only.",
		Prompt:      fmt.Sprintf(seoPromptTemplate, title, topic, opening),
		MaxTokens:   1024,
		Temperature: 0.5,
	})
	if err != nil {
		return nil, fmt.Errorf("generate SEO assets: %w", err)
	}

	var assets SEOAssets
	if err := llm.UnmarshalResponse(resp.Text, &assets); err != nil {
		return nil, fmt.Errorf("parse SEO response: %w", err)
	}

	return &assets, nil
}

// Render formats the assets as a Markdown section for the metadata file.
func (a *SEOAssets) Render() string {
	var b strings.Builder

	b.WriteString("## SEO\n\n")
	if a.MetaDescription != "" {
		fmt.Fprintf(&b, "- **Meta Description:** %s\n", a.MetaDescription)
	}
	if len(a.Keywords) > 0 {
		fmt.Fprintf(&b, "- **Keywords:** %s\n", strings.Join(a.Keywords, ", "))
	}
	for _, t := range a.TitleVariants {
		fmt.Fprintf(&b, "- **Title Variant:** %s\n", t)
	}
	b.WriteString("\n")

	return b.String()
}
