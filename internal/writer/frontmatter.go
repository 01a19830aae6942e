package writer

import (
	"fmt"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Frontmatter is the YAML header prepended to the article file.
type Frontmatter struct {
	Title     string    `yaml:"title"`
	Date      time.Time `yaml:"date"`
	Audience  string    `yaml:"audience"`
	Tone      string    `yaml:"tone"`
	WordCount int       `yaml:"word_count"`
	Tags      []string  `yaml:"tags,omitempty"`
}

// Render returns the frontmatter block including delimiters.
func (f Frontmatter) Render() (string, error) {
	body, err := yaml.Marshal(f)
	if err != nil {
		return "", fmt.Errorf("marshal frontmatter: %w", err)
	}

	var b strings.Builder
	b.WriteString("---\n")
	b.Write(body)
	b.WriteString("---\n")
	return b.String(), nil
}

// ParseFrontmatter splits a document into its frontmatter and body.
// Documents without a frontmatter block return a zero Frontmatter and the
// full text as body.
func ParseFrontmatter(doc string) (Frontmatter, string, error) {
	var fm Frontmatter

	if !strings.HasPrefix(doc, "---\n") {
		return fm, doc, nil
	}

	rest := doc[len("---\n"):]
	end := strings.Index(rest, "\n---\n")
	if end < 0 {
		return fm, doc, nil
	}

	if err := yaml.Unmarshal([]byte(rest[:end]), &fm); err != nil {
		return fm, doc, fmt.Errorf("parse frontmatter: %w", err)
	}

	return fm, rest[end+len("\n---\n"):], nil
}
