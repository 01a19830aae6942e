// Package research gathers sources for an article from the knowledge base
// and the web. Both collaborators return the shared Source shape so the
// pipeline can merge and deduplicate their output.
package research

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/openai/openai-go/v2"

	"github.com/inksmith-ai/inksmith/pkg/models"
)

// KBSearcher queries the hosted vector store backing the knowledge base.
type KBSearcher struct {
	client  openai.Client
	storeID string
	limit   int
}

// NewKBSearcher creates a searcher for the given vector store.
func NewKBSearcher(client openai.Client, storeID string) *KBSearcher {
	return &KBSearcher{client: client, storeID: storeID, limit: 10}
}

// Search returns ranked snippets for the query.
// A missing store ID is a configuration gap, not a transient failure,
// so it returns an error rather than empty results.
func (k *KBSearcher) Search(ctx context.Context, query string) ([]models.Source, error) {
	if k.storeID == "" {
		return nil, fmt.Errorf("no vector store configured (set OPENAI_VECTOR_STORE_ID or run 'inksmith setup')")
	}

	page, err := k.client.VectorStores.Search(ctx, k.storeID, openai.VectorStoreSearchParams{
		Query:         openai.VectorStoreSearchParamsQueryUnion{OfString: openai.String(query)},
		MaxNumResults: openai.Int(int64(k.limit)),
	})
	if err != nil {
		return nil, fmt.Errorf("vector store search: %w", err)
	}

	var sources []models.Source
	for _, item := range page.Data {
		var text strings.Builder
		for _, c := range item.Content {
			text.WriteString(c.Text)
		}
		snippet := strings.TrimSpace(text.String())
		if snippet == "" {
			continue
		}

		sources = append(sources, models.Source{
			Title: item.Filename,
			// Internal documents have no public URL; key on the file ID so
			// dedup still works.
			URL:       "kb://" + item.FileID,
			Snippet:   truncate(snippet, 1200),
			Authority: models.AuthorityFinancialPress,
			Type:      models.SourceKnowledgeBase,
		})
	}

	log.Printf("[kb] query %q returned %d snippets", query, len(sources))
	return sources, nil
}

// truncate trims s to at most n bytes without splitting mid-word.
func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	cut := s[:n]
	if idx := strings.LastIndexByte(cut, ' '); idx > 0 {
		cut = cut[:idx]
	}
	return cut + "..."
}
