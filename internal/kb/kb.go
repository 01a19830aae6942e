// Package kb manages the hosted vector store behind knowledge-base
// research: store creation, document upload, and directory sync.
package kb

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/openai/openai-go/v2"
)

// uploadable file extensions. Everything else in a synced directory is
// ignored.
var uploadableExt = map[string]bool{
	".md":   true,
	".txt":  true,
	".pdf":  true,
	".html": true,
	".json": true,
}

// Manager wraps vector store administration.
type Manager struct {
	client  openai.Client
	storeID string
}

// NewManager creates a manager for an existing store. storeID may be
// empty until EnsureStore runs.
func NewManager(client openai.Client, storeID string) *Manager {
	return &Manager{client: client, storeID: storeID}
}

// StoreID returns the active vector store ID.
func (m *Manager) StoreID() string {
	return m.storeID
}

// EnsureStore returns the configured store ID, creating a new store with
// the given name when none is configured.
func (m *Manager) EnsureStore(ctx context.Context, name string) (string, error) {
	if m.storeID != "" {
		return m.storeID, nil
	}

	store, err := m.client.VectorStores.New(ctx, openai.VectorStoreNewParams{
		Name: openai.String(name),
	})
	if err != nil {
		return "", fmt.Errorf("create vector store: %w", err)
	}

	m.storeID = store.ID
	log.Printf("[kb] created vector store %s (%s)", store.ID, name)
	return store.ID, nil
}

// UploadFile uploads one document and attaches it to the store.
func (m *Manager) UploadFile(ctx context.Context, path string) error {
	if m.storeID == "" {
		return fmt.Errorf("no vector store configured")
	}

	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	file, err := m.client.Files.New(ctx, openai.FileNewParams{
		File:    f,
		Purpose: openai.FilePurposeAssistants,
	})
	if err != nil {
		return fmt.Errorf("upload %s: %w", filepath.Base(path), err)
	}

	if _, err := m.client.VectorStores.Files.New(ctx, m.storeID, openai.VectorStoreFileNewParams{
		FileID: file.ID,
	}); err != nil {
		return fmt.Errorf("attach %s to store: %w", filepath.Base(path), err)
	}

	log.Printf("[kb] uploaded %s as %s", filepath.Base(path), file.ID)
	return nil
}

// SyncDir uploads every uploadable document under dir.
// Returns the number of files uploaded.
func (m *Manager) SyncDir(ctx context.Context, dir string) (int, error) {
	var uploaded int

	err := filepath.WalkDir(dir, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if strings.HasPrefix(d.Name(), ".") && path != dir {
				return filepath.SkipDir
			}
			return nil
		}
		if !Uploadable(path) {
			return nil
		}
		if err := m.UploadFile(ctx, path); err != nil {
			return err
		}
		uploaded++
		return nil
	})
	if err != nil {
		return uploaded, fmt.Errorf("sync %s: %w", dir, err)
	}

	log.Printf("[kb] synced %d documents from %s", uploaded, dir)
	return uploaded, nil
}

// Uploadable reports whether the file type can be indexed.
func Uploadable(path string) bool {
	return uploadableExt[strings.ToLower(filepath.Ext(path))]
}
