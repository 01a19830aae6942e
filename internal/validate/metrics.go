package validate

import (
	"regexp"
	"strings"
)

// wordsPerMinute is the reading speed used for the reading time estimate.
const wordsPerMinute = 230

// Metrics describes the measurable properties of a generated article.
type Metrics struct {
	// WordCount is the body word count, frontmatter excluded.
	WordCount int `json:"word_count"`
	// TargetWords is the requested length.
	TargetWords int `json:"target_words"`
	// WithinTolerance is true when WordCount is within 10% of the target.
	WithinTolerance bool `json:"within_tolerance"`
	// Sentences is the sentence count.
	Sentences int `json:"sentences"`
	// Paragraphs is the paragraph count.
	Paragraphs int `json:"paragraphs"`
	// Sections lists the H2 headings found, in order.
	Sections []string `json:"sections"`
	// Citations is the number of bracketed source references.
	Citations int `json:"citations"`
	// ReadingTimeMinutes is the estimated reading time, rounded up.
	ReadingTimeMinutes int `json:"reading_time_minutes"`
}

var headingPattern = regexp.MustCompile(`(?m)^##\s+(.+)$`)

// AnalyzeMetrics computes content metrics for the article body.
func AnalyzeMetrics(article string, targetWords int) *Metrics {
	body := stripFrontmatter(article)

	m := &Metrics{
		TargetWords: targetWords,
		Sentences:   len(splitSentences(body)),
		Citations:   len(citationPattern.FindAllString(body, -1)),
	}

	for _, line := range strings.Split(body, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if strings.HasPrefix(line, "#") {
			continue
		}
		m.WordCount += len(strings.Fields(strings.TrimLeft(line, "-* ")))
	}

	for _, match := range headingPattern.FindAllStringSubmatch(body, -1) {
		m.Sections = append(m.Sections, strings.TrimSpace(match[1]))
	}

	for _, para := range strings.Split(body, "\n\n") {
		para = strings.TrimSpace(para)
		if para != "" && !strings.HasPrefix(para, "#") {
			m.Paragraphs++
		}
	}

	if targetWords > 0 {
		diff := m.WordCount - targetWords
		if diff < 0 {
			diff = -diff
		}
		m.WithinTolerance = diff*10 <= targetWords
	}

	m.ReadingTimeMinutes = (m.WordCount + wordsPerMinute - 1) / wordsPerMinute

	return m
}

// stripFrontmatter removes a leading YAML frontmatter block.
func stripFrontmatter(doc string) string {
	if !strings.HasPrefix(doc, "---\n") {
		return doc
	}
	rest := doc[len("---\n"):]
	if end := strings.Index(rest, "\n---\n"); end >= 0 {
		return rest[end+len("\n---\n"):]
	}
	return doc
}
