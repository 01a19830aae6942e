package research

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/inksmith-ai/inksmith/pkg/models"
)

const serperEndpoint = "https://google.serper.dev/search"

// WebSearcher issues web searches through the Serper API.
type WebSearcher struct {
	apiKey     string
	maxResults int
	httpClient *http.Client
}

// NewWebSearcher creates a web searcher. An empty API key produces a
// searcher that degrades to empty results with a logged notice.
func NewWebSearcher(apiKey string, maxResults int) *WebSearcher {
	if maxResults <= 0 {
		maxResults = 8
	}
	return &WebSearcher{
		apiKey:     apiKey,
		maxResults: maxResults,
		httpClient: &http.Client{Timeout: 15 * time.Second},
	}
}

// Enabled reports whether a Serper API key is configured.
func (w *WebSearcher) Enabled() bool {
	return w.apiKey != ""
}

// serperResult is the subset of the Serper response we consume.
type serperResult struct {
	Organic []struct {
		Title   string `json:"title"`
		Link    string `json:"link"`
		Snippet string `json:"snippet"`
		Date    string `json:"date"`
	} `json:"organic"`
}

// Search returns web sources for the query, ranked by domain authority.
// Without an API key it returns no sources and no error; web search is an
// optional collaborator.
func (w *WebSearcher) Search(ctx context.Context, query string) ([]models.Source, error) {
	if w.apiKey == "" {
		log.Printf("[web] SERPER_API_KEY not set, skipping web research")
		return nil, nil
	}

	body, err := json.Marshal(map[string]any{
		"q":   query,
		"num": w.maxResults,
	})
	if err != nil {
		return nil, fmt.Errorf("encode search request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, serperEndpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build search request: %w", err)
	}
	req.Header.Set("X-API-KEY", w.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := w.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("serper request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("serper returned status %d", resp.StatusCode)
	}

	var result serperResult
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("decode serper response: %w", err)
	}

	var sources []models.Source
	for _, item := range result.Organic {
		if item.Link == "" {
			continue
		}
		sources = append(sources, models.Source{
			Title:     item.Title,
			URL:       item.Link,
			Snippet:   item.Snippet,
			Date:      item.Date,
			Authority: AuthorityForURL(item.Link),
			Type:      models.SourceWeb,
		})
		if len(sources) >= w.maxResults {
			break
		}
	}

	log.Printf("[web] query %q returned %d results", query, len(sources))
	return sources, nil
}
