// Package output manages the on-disk bundle a run produces: a dated,
// slugged directory holding the article, metadata, social, and summary
// files plus the metrics JSON.
package output

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"
)

// Bundle is the output directory for one run.
type Bundle struct {
	// Dir is the bundle directory path.
	Dir string
	// Prefix is the filename prefix for the four documents.
	Prefix string
}

var (
	slugInvalidPattern  = regexp.MustCompile(`[^a-z0-9]+`)
	slugCollapsePattern = regexp.MustCompile(`-{2,}`)
)

// Slugify converts a topic into a directory-safe slug.
func Slugify(topic string) string {
	slug := strings.ToLower(strings.TrimSpace(topic))
	slug = slugInvalidPattern.ReplaceAllString(slug, "-")
	slug = slugCollapsePattern.ReplaceAllString(slug, "-")
	slug = strings.Trim(slug, "-")
	if len(slug) > 80 {
		slug = strings.Trim(slug[:80], "-")
	}
	return slug
}

// NewBundle creates the output directory for a topic under baseDir.
// A re-run with the same topic on the same day reuses the directory and
// overwrites its files.
func NewBundle(baseDir, prefix, topic string, date time.Time) (*Bundle, error) {
	slug := Slugify(topic)
	if slug == "" {
		return nil, fmt.Errorf("topic produces an empty slug")
	}

	dir := filepath.Join(baseDir, fmt.Sprintf("%s-%s", date.Format("2006-01-02"), slug))
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create output directory: %w", err)
	}

	return &Bundle{Dir: dir, Prefix: prefix}, nil
}

// ArticlePath returns the article file path.
func (b *Bundle) ArticlePath() string { return b.docPath("article") }

// MetadataPath returns the metadata file path.
func (b *Bundle) MetadataPath() string { return b.docPath("metadata") }

// SocialPath returns the social posts file path.
func (b *Bundle) SocialPath() string { return b.docPath("social") }

// SummaryPath returns the summary file path.
func (b *Bundle) SummaryPath() string { return b.docPath("summary") }

// MetricsPath returns the metrics JSON path.
func (b *Bundle) MetricsPath() string {
	return filepath.Join(b.Dir, "generation_metrics.json")
}

func (b *Bundle) docPath(kind string) string {
	return filepath.Join(b.Dir, fmt.Sprintf("%s-%s.md", b.Prefix, kind))
}

// WriteArticle writes the article document.
func (b *Bundle) WriteArticle(content string) error {
	return b.write(b.ArticlePath(), content)
}

// WriteMetadata writes the metadata document.
func (b *Bundle) WriteMetadata(content string) error {
	return b.write(b.MetadataPath(), content)
}

// WriteSocial writes the social posts document.
func (b *Bundle) WriteSocial(content string) error {
	return b.write(b.SocialPath(), content)
}

// WriteSummary writes the summary document.
func (b *Bundle) WriteSummary(content string) error {
	return b.write(b.SummaryPath(), content)
}

// WriteMetrics writes the metrics JSON, pretty-printed for humans.
func (b *Bundle) WriteMetrics(v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal metrics: %w", err)
	}
	return b.write(b.MetricsPath(), string(data)+"\n")
}

func (b *Bundle) write(path, content string) error {
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		return fmt.Errorf("write %s: %w", filepath.Base(path), err)
	}
	return nil
}

// ReadArticle reads the article document back, for revision rounds.
func (b *Bundle) ReadArticle() (string, error) {
	data, err := os.ReadFile(b.ArticlePath())
	if err != nil {
		return "", fmt.Errorf("read article: %w", err)
	}
	return string(data), nil
}
