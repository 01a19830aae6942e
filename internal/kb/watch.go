package kb

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/fsnotify/fsnotify"
)

// debounceWindow coalesces editor write bursts into one upload.
const debounceWindow = 2 * time.Second

// Watch uploads documents as they are created or modified under dir.
// It blocks until ctx is canceled.
func (m *Manager) Watch(ctx context.Context, dir string) error {
	if m.storeID == "" {
		return fmt.Errorf("no vector store configured")
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer watcher.Close()

	if err := watcher.Add(dir); err != nil {
		return fmt.Errorf("watch %s: %w", dir, err)
	}

	log.Printf("[kb] watching %s for changes", dir)

	pending := make(map[string]time.Time)
	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) {
				continue
			}
			if !Uploadable(event.Name) {
				continue
			}
			pending[event.Name] = time.Now()

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			log.Printf("[kb] watch error: %v", err)

		case <-ticker.C:
			for path, last := range pending {
				if time.Since(last) < debounceWindow {
					continue
				}
				delete(pending, path)
				if err := m.UploadFile(ctx, path); err != nil {
					log.Printf("[kb] upload %s: %v", path, err)
				}
			}
		}
	}
}
