package kb

import (
	"context"
	"testing"

	"github.com/openai/openai-go/v2"
)

func TestUploadable(t *testing.T) {
	tests := []struct {
		path string
		want bool
	}{
		{"notes/market-outlook.md", true},
		{"notes/raw.txt", true},
		{"reports/q3.pdf", true},
		{"scrape/page.html", true},
		{"data/rates.json", true},
		{"charts/funding.png", false},
		{"data/returns.csv", false},
		{"archive.tar.gz", false},
		{"Makefile", false},
		{"notes/REPORT.MD", true},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			if got := Uploadable(tt.path); got != tt.want {
				t.Errorf("Uploadable(%q) = %v, want %v", tt.path, got, tt.want)
			}
		})
	}
}

func TestEnsureStoreReturnsConfiguredID(t *testing.T) {
	m := NewManager(openai.Client{}, "vs_existing")

	id, err := m.EnsureStore(context.Background(), "inksmith-kb")
	if err != nil {
		t.Fatalf("EnsureStore: %v", err)
	}
	if id != "vs_existing" {
		t.Errorf("id = %q, want configured store ID", id)
	}
	if m.StoreID() != "vs_existing" {
		t.Errorf("StoreID = %q", m.StoreID())
	}
}

func TestUploadFileWithoutStore(t *testing.T) {
	m := NewManager(openai.Client{}, "")

	if err := m.UploadFile(context.Background(), "doc.md"); err == nil {
		t.Error("upload without a configured store must error")
	}
}
