// Package validate implements the publication gate: template checks,
// claim extraction, LLM fact checking, URL liveness, and content metrics.
package validate

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/inksmith-ai/inksmith/pkg/models"
)

// Required and forbidden article section headings. The pipeline's writer
// prompt and the synthesizer's outline validation agree with this list.
var (
	requiredSections = []string{
		"Key Insights at a Glance",
		"Key Takeaways",
		"Conclusion",
	}
	forbiddenSections = []string{
		"Introduction",
		"Executive Summary",
	}
)

// urlEntryPattern matches the citation entry formats the metadata document
// uses. Format drift here silently breaks the fact checker, so both the
// bold and plain list forms are accepted.
var urlEntryPattern = regexp.MustCompile(`\*\*URL:\*\*|- URL:`)

// ValidateArticleTemplate checks the article text for required and
// forbidden section headings.
func ValidateArticleTemplate(article string) (bool, []models.ValidationIssue) {
	var issues []models.ValidationIssue

	for _, section := range requiredSections {
		if !strings.Contains(article, section) {
			issues = append(issues, models.ValidationIssue{
				Check:    "template",
				Detail:   fmt.Sprintf("missing required section %q", section),
				Severity: "error",
			})
		}
	}

	for _, section := range forbiddenSections {
		if containsHeading(article, section) {
			issues = append(issues, models.ValidationIssue{
				Check:    "template",
				Detail:   fmt.Sprintf("forbidden section %q present", section),
				Severity: "error",
			})
		}
	}

	return !hasErrors(issues), issues
}

// ValidateMetadataTemplate checks the metadata document: a sources section,
// at least minSources cited URLs, and the fact-checker line.
func ValidateMetadataTemplate(metadata string, minSources int) (bool, []models.ValidationIssue) {
	var issues []models.ValidationIssue

	if !strings.Contains(metadata, "Sources and Citations") {
		issues = append(issues, models.ValidationIssue{
			Check:    "metadata",
			Detail:   `missing "Sources and Citations" section`,
			Severity: "error",
		})
	}

	urls := len(urlEntryPattern.FindAllString(metadata, -1))
	if urls < minSources {
		issues = append(issues, models.ValidationIssue{
			Check:    "metadata",
			Detail:   fmt.Sprintf("only %d cited sources, need at least %d", urls, minSources),
			Severity: "error",
		})
	}

	if !strings.Contains(metadata, "Fact-checker approved") {
		issues = append(issues, models.ValidationIssue{
			Check:    "metadata",
			Detail:   "missing fact-checker verification line",
			Severity: "error",
		})
	}

	return !hasErrors(issues), issues
}

// containsHeading reports whether text has a Markdown heading with the
// given title. Plain mentions in prose do not count.
func containsHeading(text, title string) bool {
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if !strings.HasPrefix(line, "#") {
			continue
		}
		heading := strings.TrimSpace(strings.TrimLeft(line, "#"))
		if strings.EqualFold(heading, title) {
			return true
		}
	}
	return false
}

// hasErrors reports whether any issue has error severity.
func hasErrors(issues []models.ValidationIssue) bool {
	for _, issue := range issues {
		if issue.Severity == "error" {
			return true
		}
	}
	return false
}
