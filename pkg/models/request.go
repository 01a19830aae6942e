// Package models defines the shared data types for the inksmith pipeline.
package models

import (
	"fmt"
	"strings"
)

// DefaultWordCount is the target article length when none is requested.
const DefaultWordCount = 1750

// ArticleRequest describes a single article generation job.
// It is created once per CLI invocation and never mutated afterwards.
type ArticleRequest struct {
	// Topic is the subject of the article.
	Topic string `json:"topic"`
	// Audience describes the intended readership.
	Audience string `json:"audience"`
	// Tone is the editorial voice (e.g., "analytical", "conversational").
	Tone string `json:"tone"`
	// WordCount is the target article length in words.
	WordCount int `json:"word_count"`
}

// NewArticleRequest builds a request with defaults applied for empty fields.
func NewArticleRequest(topic string) ArticleRequest {
	return ArticleRequest{
		Topic:     strings.TrimSpace(topic),
		Audience:  "sophisticated retail investors",
		Tone:      "analytical",
		WordCount: DefaultWordCount,
	}
}

// Validate checks that the request is executable.
func (r ArticleRequest) Validate() error {
	if strings.TrimSpace(r.Topic) == "" {
		return fmt.Errorf("topic is required")
	}
	if r.WordCount < 300 || r.WordCount > 10000 {
		return fmt.Errorf("word count %d out of range [300, 10000]", r.WordCount)
	}
	return nil
}
