package validate

import (
	"regexp"
	"strings"

	"github.com/inksmith-ai/inksmith/pkg/models"
)

// Claim extraction patterns. These are heuristics over prose, tuned for
// investment writing: figures, attributed statements, and comparisons.
var (
	statisticalPattern = regexp.MustCompile(`(?:[$€£]\s?\d[\d,.]*\s?(?:billion|million|trillion|[BMK])?|\d[\d,.]*(?:\.\d+)?\s?%|\b\d+(?:\.\d+)?x\b)`)
	quotePattern       = regexp.MustCompile(`"[^"]{20,300}"`)
	comparativePattern = regexp.MustCompile(`(?i)\b(?:more|less|higher|lower|faster|slower|larger|smaller|biggest|largest|fastest|highest|lowest)\b[^.]*\bthan\b`)
	citationPattern    = regexp.MustCompile(`\[(\d+)\]`)
)

// ExtractClaims pulls checkable factual claims from the article body.
// Each claim carries the full sentence it appeared in as context and any
// bracketed citation indices found in that sentence.
func ExtractClaims(article string) []models.Claim {
	var claims []models.Claim
	seen := make(map[string]bool)

	for _, sentence := range splitSentences(article) {
		citations := extractCitations(sentence)

		for _, match := range statisticalPattern.FindAllString(sentence, -1) {
			key := match + "|" + sentence
			if seen[key] {
				continue
			}
			seen[key] = true
			claims = append(claims, models.Claim{
				Text:      match,
				Type:      models.ClaimStatistical,
				Context:   sentence,
				Citations: citations,
			})
		}

		if match := quotePattern.FindString(sentence); match != "" && !seen[match] {
			seen[match] = true
			claims = append(claims, models.Claim{
				Text:      match,
				Type:      models.ClaimQuote,
				Context:   sentence,
				Citations: citations,
			})
		}

		if match := comparativePattern.FindString(sentence); match != "" && !seen[match] {
			seen[match] = true
			claims = append(claims, models.Claim{
				Text:      strings.TrimSpace(match),
				Type:      models.ClaimComparative,
				Context:   sentence,
				Citations: citations,
			})
		}
	}

	return claims
}

// splitSentences breaks prose into sentences, skipping headings, list
// markers, and frontmatter.
func splitSentences(text string) []string {
	var sentences []string

	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || line == "---" || strings.HasPrefix(line, "#") {
			continue
		}
		line = strings.TrimLeft(line, "-* ")

		start := 0
		for i := 0; i < len(line); i++ {
			if line[i] == '.' || line[i] == '!' || line[i] == '?' {
				// Keep decimals like "3.5" intact.
				if line[i] == '.' && i+1 < len(line) && line[i+1] >= '0' && line[i+1] <= '9' {
					continue
				}
				s := strings.TrimSpace(line[start : i+1])
				if len(s) > 3 {
					sentences = append(sentences, s)
				}
				start = i + 1
			}
		}
		if rest := strings.TrimSpace(line[start:]); len(rest) > 3 {
			sentences = append(sentences, rest)
		}
	}

	return sentences
}

// extractCitations returns the bracketed source numbers in a sentence.
func extractCitations(sentence string) []int {
	var citations []int
	for _, m := range citationPattern.FindAllStringSubmatch(sentence, -1) {
		n := 0
		for _, c := range m[1] {
			n = n*10 + int(c-'0')
		}
		if n > 0 {
			citations = append(citations, n)
		}
	}
	return citations
}
