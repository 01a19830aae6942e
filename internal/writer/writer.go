// Package writer turns a synthesized outline into the article and
// metadata documents.
package writer

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/inksmith-ai/inksmith/internal/llm"
	"github.com/inksmith-ai/inksmith/internal/synthesis"
	"github.com/inksmith-ai/inksmith/pkg/models"
)

// Draft is the writer's output: the full article file content plus the
// companion metadata document.
type Draft struct {
	// Article is the complete article file content, frontmatter included.
	Article string
	// Metadata is the companion metadata document.
	Metadata string
	// Title is the generated article title.
	Title string
}

// Writer produces the article body with a single LLM call and assembles
// the output documents with plain string work.
type Writer struct {
	client *llm.Client
	now    func() time.Time
}

// New creates a Writer using the given client.
func New(client *llm.Client) *Writer {
	return &Writer{client: client, now: time.Now}
}

const writerSystemPrompt = `You are a senior investment writer. You write precise,
well-sourced long-form analysis in Markdown. You never invent statistics;
every number comes from the provided sources and carries a bracketed
citation like [3].`

const writerPromptTemplate = `Write the article body in Markdown.

Topic: %s
Audience: %s
Tone: %s
Target length: %d words
Editorial angle: %s

Outline (use these exact H2 headings, in order):
%s

Sources (cite by number as [N]):
%s

Rules:
- Start with a single H1 title line, then the sections.
- Use the outline headings verbatim as ## headings. Do not add an
  "Introduction" or "Executive Summary" section.
- "Key Insights at a Glance" is a bulleted list of 4-6 insights.
- "Key Takeaways" is a bulleted list; "Conclusion" is prose.
- Cite sources inline as [N] wherever a fact or figure is used.
- Stay within 10%% of the target length.`

// Write runs the content-writing call and assembles the draft documents.
func (w *Writer) Write(ctx context.Context, req models.ArticleRequest, outline *synthesis.Outline, sources []models.Source) (*Draft, error) {
	prompt := fmt.Sprintf(writerPromptTemplate,
		req.Topic, req.Audience, req.Tone, req.WordCount, outline.Angle,
		renderOutline(outline), synthesis.FormatSources(sources))

	resp, err := w.client.Complete(ctx, llm.Request{
		System:      writerSystemPrompt,
		Prompt:      prompt,
		MaxTokens:   8192,
		Temperature: 0.7,
	})
	if err != nil {
		return nil, fmt.Errorf("write article body: %w", err)
	}

	body := strings.TrimSpace(resp.Text)
	title := extractTitle(body, req.Topic)

	fm := Frontmatter{
		Title:     title,
		Date:      w.now(),
		Audience:  req.Audience,
		Tone:      req.Tone,
		WordCount: CountWords(body),
		Tags:      outline.Themes,
	}
	header, err := fm.Render()
	if err != nil {
		return nil, err
	}

	return &Draft{
		Article:  header + "\n" + body + "\n",
		Metadata: BuildMetadata(title, req, sources),
		Title:    title,
	}, nil
}

// renderOutline flattens the outline into prompt text.
func renderOutline(outline *synthesis.Outline) string {
	var b strings.Builder
	for _, sec := range outline.Sections {
		fmt.Fprintf(&b, "## %s\n", sec.Heading)
		for _, p := range sec.Points {
			fmt.Fprintf(&b, "- %s\n", p)
		}
	}
	return b.String()
}

// extractTitle pulls the H1 from the body, falling back to the topic.
func extractTitle(body, topic string) string {
	for _, line := range strings.Split(body, "\n") {
		line = strings.TrimSpace(line)
		if strings.HasPrefix(line, "# ") {
			return strings.TrimSpace(strings.TrimPrefix(line, "# "))
		}
	}
	return topic
}

// BuildMetadata assembles the companion metadata document. The fact checker
// parses the "Sources and Citations" section by its numbered entries, so the
// entry format here is load-bearing.
func BuildMetadata(title string, req models.ArticleRequest, sources []models.Source) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# Metadata: %s\n\n", title)

	b.WriteString("## Article Details\n\n")
	fmt.Fprintf(&b, "- **Topic:** %s\n", req.Topic)
	fmt.Fprintf(&b, "- **Audience:** %s\n", req.Audience)
	fmt.Fprintf(&b, "- **Tone:** %s\n", req.Tone)
	fmt.Fprintf(&b, "- **Target Words:** %d\n\n", req.WordCount)

	b.WriteString("## Sources and Citations\n\n")
	for i, src := range sources {
		fmt.Fprintf(&b, "%d. **%s**\n", i+1, src.Title)
		fmt.Fprintf(&b, "   **URL:** %s\n", src.URL)
		if src.Snippet != "" {
			fmt.Fprintf(&b, "   **Key Data:** %s\n", firstSentence(src.Snippet))
		}
		if src.Date != "" {
			fmt.Fprintf(&b, "   **Date:** %s\n", src.Date)
		}
		b.WriteString("\n")
	}

	b.WriteString("## Verification\n\n")
	b.WriteString("Fact-checker approved: pending\n")

	return b.String()
}

// MarkApproved updates the verification line after the gate passes.
func MarkApproved(metadata string) string {
	return strings.Replace(metadata,
		"Fact-checker approved: pending",
		fmt.Sprintf("Fact-checker approved: yes (%s)", time.Now().Format("2006-01-02")),
		1)
}

// CountWords counts whitespace-separated words, skipping Markdown heading
// markers and frontmatter delimiters.
func CountWords(text string) int {
	count := 0
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "---" {
			continue
		}
		line = strings.TrimLeft(line, "#*- ")
		count += len(strings.Fields(line))
	}
	return count
}

// firstSentence returns the text up to the first sentence boundary.
func firstSentence(s string) string {
	s = strings.TrimSpace(s)
	for i, r := range s {
		if r == '.' || r == '!' || r == '?' {
			return s[:i+1]
		}
	}
	return s
}
