// Package iterate implements the bounded revision loop that runs after a
// rejected validation. There is no convergence guarantee; the loop simply
// stops when the counter is exhausted.
package iterate

import (
	"context"
	"fmt"
	"log"
	"regexp"
	"strings"

	"github.com/inksmith-ai/inksmith/internal/llm"
	"github.com/inksmith-ai/inksmith/pkg/models"
)

// DefaultMaxIterations bounds the revision loop when no configuration is
// supplied.
const DefaultMaxIterations = 2

// Controller tracks revision rounds and enforces the iteration bound.
type Controller struct {
	current int
	max     int
}

// NewController creates a controller with the given bound.
func NewController(maxIterations int) *Controller {
	if maxIterations < 0 {
		maxIterations = DefaultMaxIterations
	}
	return &Controller{max: maxIterations}
}

// ShouldContinue returns true if another revision round may run.
func (c *Controller) ShouldContinue() bool {
	return c.current < c.max
}

// Increment increases the round counter by one.
func (c *Controller) Increment() {
	c.current++
}

// Iteration returns the current round number.
func (c *Controller) Iteration() int {
	return c.current
}

// AtMax returns true when the bound has been reached.
func (c *Controller) AtMax() bool {
	return c.current >= c.max
}

// Max returns the configured bound.
func (c *Controller) Max() int {
	return c.max
}

// Reviser patches a rejected draft. Cheap mechanical fixes are applied
// with string surgery; content problems go through one LLM rewrite call.
type Reviser struct {
	client *llm.Client
}

// NewReviser creates a Reviser using the given client.
func NewReviser(client *llm.Client) *Reviser {
	return &Reviser{client: client}
}

var forbiddenHeadingPattern = regexp.MustCompile(`(?m)^#{1,3}\s+(Introduction|Executive Summary)\s*$`)

const revisePromptTemplate = `Revise this investment article to fix the listed issues.
Return the complete revised article in Markdown, nothing else.
Keep everything that is not flagged. Do not add an "Introduction" or
"Executive Summary" section. Keep all [N] citations that survive revision.

Issues:
%s

Article:
%s`

// Revise returns a patched article for the given issues.
// Mechanical issues (forbidden headings) are fixed directly; anything else
// is delegated to the rewrite call.
func (r *Reviser) Revise(ctx context.Context, article string, issues []models.ValidationIssue) (string, error) {
	patched, remaining := r.applyMechanicalFixes(article, issues)
	if len(remaining) == 0 {
		return patched, nil
	}

	var issueBlock strings.Builder
	for _, issue := range remaining {
		fmt.Fprintf(&issueBlock, "- [%s] %s\n", issue.Check, issue.Detail)
	}

	resp, err := r.client.Complete(ctx, llm.Request{
		System:      "You are a careful editor. You make the smallest change that fixes each issue.",
		Prompt:      fmt.Sprintf(revisePromptTemplate, issueBlock.String(), patched),
		MaxTokens:   8192,
		Temperature: 0.3,
	})
	if err != nil {
		return "", fmt.Errorf("revision call: %w", err)
	}

	revised := strings.TrimSpace(resp.Text)
	if revised == "" {
		return "", llm.ErrEmptyCompletion
	}

	log.Printf("[iterate] revised article for %d issues (%d fixed mechanically)",
		len(issues), len(issues)-len(remaining))
	return revised + "\n", nil
}

// applyMechanicalFixes handles issues that do not need a model: forbidden
// headings are demoted into the following paragraph's flow by deletion.
// Returns the patched text and the issues still requiring a rewrite.
func (r *Reviser) applyMechanicalFixes(article string, issues []models.ValidationIssue) (string, []models.ValidationIssue) {
	var remaining []models.ValidationIssue

	for _, issue := range issues {
		if issue.Check == "template" && strings.Contains(issue.Detail, "forbidden section") {
			article = forbiddenHeadingPattern.ReplaceAllString(article, "")
			continue
		}
		remaining = append(remaining, issue)
	}

	return article, remaining
}
