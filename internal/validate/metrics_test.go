package validate

import (
	"strings"
	"testing"
)

func prose(words int) string {
	return strings.TrimSpace(strings.Repeat("steady ", words))
}

func TestAnalyzeMetrics_WordTolerance(t *testing.T) {
	tests := []struct {
		name   string
		words  int
		target int
		want   bool
	}{
		{"exact match", 100, 100, true},
		{"ten percent under", 90, 100, true},
		{"ten percent over", 110, 100, true},
		{"eleven percent under", 89, 100, false},
		{"far over", 130, 100, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := AnalyzeMetrics(prose(tt.words), tt.target)
			if m.WordCount != tt.words {
				t.Fatalf("WordCount = %d, want %d", m.WordCount, tt.words)
			}
			if m.WithinTolerance != tt.want {
				t.Errorf("WithinTolerance = %v, want %v (words=%d target=%d)",
					m.WithinTolerance, tt.want, tt.words, tt.target)
			}
		})
	}
}

func TestAnalyzeMetrics_Structure(t *testing.T) {
	article := `---
title: Test
---
# Title

## Key Insights at a Glance
- Volume fell 18% [1]. Costs rose too [2].

## Conclusion
It ended. Firmly.
`

	m := AnalyzeMetrics(article, 0)

	if len(m.Sections) != 2 {
		t.Errorf("Sections = %v, want 2 entries", m.Sections)
	}
	if m.Sections[0] != "Key Insights at a Glance" {
		t.Errorf("first section = %q", m.Sections[0])
	}
	if m.Citations != 2 {
		t.Errorf("Citations = %d, want 2", m.Citations)
	}
	if m.Sentences != 4 {
		t.Errorf("Sentences = %d, want 4", m.Sentences)
	}
}

func TestAnalyzeMetrics_ReadingTime(t *testing.T) {
	m := AnalyzeMetrics(prose(231), 0)
	if m.ReadingTimeMinutes != 2 {
		t.Errorf("ReadingTimeMinutes = %d, want 2 (rounds up)", m.ReadingTimeMinutes)
	}
}

func TestStripFrontmatter(t *testing.T) {
	doc := "---\ntitle: x\n---\nbody text\n"
	if got := stripFrontmatter(doc); got != "body text\n" {
		t.Errorf("stripFrontmatter = %q", got)
	}
	if got := stripFrontmatter("no frontmatter"); got != "no frontmatter" {
		t.Errorf("untouched doc changed: %q", got)
	}
}
