// Package distribute generates the social posts and executive summary
// that accompany a published article.
package distribute

import (
	"context"
	"fmt"
	"strings"

	"github.com/inksmith-ai/inksmith/internal/llm"
)

// Generator produces the distribution documents, one LLM call each.
type Generator struct {
	client *llm.Client
}

// New creates a Generator using the given client.
func New(client *llm.Client) *Generator {
	return &Generator{client: client}
}

const socialPromptTemplate = `Create social posts for this investment article.

Title: %s

Article:
%s

Respond with a JSON object only:
{
  "twitter_thread": ["tweet 1", "tweet 2", ...5-7 tweets, each under 280 chars],
  "linkedin_post": "a 150-250 word LinkedIn post"
}
No financial advice language; analytical tone; no emoji spam.`

// socialResponse is the JSON structure of the social call.
type socialResponse struct {
	TwitterThread []string `json:"twitter_thread"`
	LinkedInPost  string   `json:"linkedin_post"`
}

// Social generates the social posts document.
func (g *Generator) Social(ctx context.Context, title, article string) (string, error) {
	resp, err := g.client.Complete(ctx, llm.Request{
		System:      "You are a social media editor for a financial publication. Respond with JSON only.",
		Prompt:      fmt.Sprintf(socialPromptTemplate, title, clip(article, 6000)),
		MaxTokens:   2048,
		Temperature: 0.7,
	})
	if err != nil {
		return "", fmt.Errorf("generate social posts: %w", err)
	}

	var parsed socialResponse
	if err := llm.UnmarshalResponse(resp.Text, &parsed); err != nil {
		return "", fmt.Errorf("parse social response: %w", err)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "# Social Posts: %s\n\n", title)

	b.WriteString("## Twitter/X Thread\n\n")
	for i, tweet := range parsed.TwitterThread {
		fmt.Fprintf(&b, "%d. %s\n\n", i+1, strings.TrimSpace(tweet))
	}

	b.WriteString("## LinkedIn\n\n")
	b.WriteString(strings.TrimSpace(parsed.LinkedInPost))
	b.WriteString("\n")

	return b.String(), nil
}

const summaryPromptTemplate = `Write an executive summary of this investment article.

Title: %s

Article:
%s

Format (Markdown):
- One opening paragraph (3-4 sentences).
- A "Highlights" bulleted list of 4-6 items.
- A one-sentence bottom line prefixed "**Bottom line:**".
Return the summary only.`

// Summary generates the executive summary document.
func (g *Generator) Summary(ctx context.Context, title, article string) (string, error) {
	resp, err := g.client.Complete(ctx, llm.Request{
		System:      "You are a financial editor writing for time-pressed readers.",
		Prompt:      fmt.Sprintf(summaryPromptTemplate, title, clip(article, 8000)),
		MaxTokens:   1024,
		Temperature: 0.5,
	})
	if err != nil {
		return "", fmt.Errorf("generate summary: %w", err)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "# Summary: %s\n\n", title)
	b.WriteString(strings.TrimSpace(resp.Text))
	b.WriteString("\n")

	return b.String(), nil
}

// clip truncates text for prompt budgets.
func clip(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
