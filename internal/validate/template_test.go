package validate

import (
	"strings"
	"testing"
)

const validArticle = `# The State of Venture Capital

## Key Insights at a Glance
- Deal volume fell 18% year over year [1].

## Market Structure
Funds are concentrating into fewer, larger vehicles.

## Key Takeaways
- Late-stage valuations remain under pressure.

## Conclusion
The reset continues into next year.
`

func TestValidateArticleTemplate(t *testing.T) {
	tests := []struct {
		name    string
		article string
		want    bool
	}{
		{"all required present", validArticle, true},
		{"missing key takeaways", strings.Replace(validArticle, "## Key Takeaways", "## Other", 1), false},
		{"missing conclusion", strings.Replace(validArticle, "## Conclusion", "## Wrap", 1), false},
		{"missing insights", strings.Replace(validArticle, "## Key Insights at a Glance", "## Overview", 1), false},
		{"forbidden introduction heading", validArticle + "\n## Introduction\nOpening text.\n", false},
		{"forbidden executive summary heading", "## Executive Summary\nSummary.\n" + validArticle, false},
		{"introduction mentioned in prose only", strings.Replace(validArticle,
			"The reset continues", "The introduction of new rules means the reset continues", 1), true},
		{"forbidden heading case insensitive", validArticle + "\n### INTRODUCTION\n", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, issues := ValidateArticleTemplate(tt.article)
			if got != tt.want {
				t.Errorf("ValidateArticleTemplate() = %v, want %v (issues: %v)", got, tt.want, issues)
			}
			if !got && len(issues) == 0 {
				t.Error("failed validation reported no issues")
			}
		})
	}
}

func buildMetadataDoc(sources int) string {
	var b strings.Builder
	b.WriteString("# Metadata: Test\n\n## Sources and Citations\n\n")
	for i := 0; i < sources; i++ {
		b.WriteString("1. **Some Source**\n   **URL:** https://example.com/a\n\n")
	}
	b.WriteString("## Verification\n\nFact-checker approved: pending\n")
	return b.String()
}

func TestValidateMetadataTemplate(t *testing.T) {
	tests := []struct {
		name     string
		metadata string
		min      int
		want     bool
	}{
		{"five sources meets minimum", buildMetadataDoc(5), 5, true},
		{"three sources below minimum", buildMetadataDoc(3), 5, false},
		{"exact minimum", buildMetadataDoc(4), 4, true},
		{"missing sources section", "# Metadata\n\nFact-checker approved: pending\n", 1, false},
		{"missing verification line", strings.Replace(buildMetadataDoc(5),
			"Fact-checker approved: pending", "", 1), 5, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, issues := ValidateMetadataTemplate(tt.metadata, tt.min)
			if got != tt.want {
				t.Errorf("ValidateMetadataTemplate() = %v, want %v (issues: %v)", got, tt.want, issues)
			}
		})
	}
}

func TestValidateMetadataTemplate_PlainURLFormat(t *testing.T) {
	metadata := "# Metadata\n\n## Sources and Citations\n\n" +
		"- URL: https://example.com/one\n" +
		"- URL: https://example.com/two\n\n" +
		"Fact-checker approved: pending\n"

	ok, _ := ValidateMetadataTemplate(metadata, 2)
	if !ok {
		t.Error("plain list URL entries should count toward the source minimum")
	}
}

func TestContainsHeading(t *testing.T) {
	tests := []struct {
		name  string
		text  string
		title string
		want  bool
	}{
		{"h2 heading", "## Introduction\n", "Introduction", true},
		{"h3 heading", "### Introduction\n", "Introduction", true},
		{"prose mention", "The introduction covers basics.\n", "Introduction", false},
		{"different heading", "## Background\n", "Introduction", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := containsHeading(tt.text, tt.title); got != tt.want {
				t.Errorf("containsHeading(%q, %q) = %v, want %v", tt.text, tt.title, got, tt.want)
			}
		})
	}
}
