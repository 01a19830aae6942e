package research

import (
	"testing"

	"github.com/inksmith-ai/inksmith/pkg/models"
)

func TestAuthorityForURL(t *testing.T) {
	tests := []struct {
		name string
		url  string
		want int
	}{
		{"sec", "https://www.sec.gov/filings/10-k", models.AuthorityPrimary},
		{"fed", "https://federalreserve.gov/releases", models.AuthorityPrimary},
		{"imf", "https://www.imf.org/en/data", models.AuthorityPrimary},
		{"bloomberg", "https://www.bloomberg.com/news/article", models.AuthorityFinancialPress},
		{"reuters", "https://reuters.com/markets", models.AuthorityFinancialPress},
		{"wsj", "https://www.wsj.com/finance", models.AuthorityFinancialPress},
		{"cnbc", "https://www.cnbc.com/2025/01/01/story", models.AuthorityBusinessMedia},
		{"forbes", "https://forbes.com/sites/x", models.AuthorityBusinessMedia},
		{"random blog", "https://myinvestingblog.example", models.AuthorityUnranked},
		{"unparseable", "::::", models.AuthorityUnranked},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := AuthorityForURL(tt.url); got != tt.want {
				t.Errorf("AuthorityForURL(%q) = %d, want %d", tt.url, got, tt.want)
			}
		})
	}
}
