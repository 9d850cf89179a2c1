package keep

import (
	"context"
	"io/fs"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
)

// debounceWindow batches rapid writes to the same file into one event.
const debounceWindow = 200 * time.Millisecond

// Watch starts an fsnotify watcher on the export root and invokes fn for
// each new or changed note JSON file until ctx is cancelled. Directories
// created at runtime are added to the watch list.
func Watch(ctx context.Context, root string, fn func(path string)) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer w.Close()

	if err := addDirsRecursive(w, root); err != nil {
		return err
	}

	log.Printf("[keep] watching %s for note changes", root)

	// pending debounces per-file write bursts.
	pending := make(map[string]time.Time)
	ticker := time.NewTicker(debounceWindow)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil

		case <-ticker.C:
			now := time.Now()
			for path, due := range pending {
				if now.After(due) {
					delete(pending, path)
					fn(path)
				}
			}

		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}

			if ev.Op&fsnotify.Create != 0 {
				if info, statErr := os.Stat(ev.Name); statErr == nil && info.IsDir() {
					if addErr := addDirsRecursive(w, ev.Name); addErr != nil {
						log.Printf("[keep] watcher: add new dir failed: %v", addErr)
					}
					continue
				}
			}

			if !strings.HasSuffix(ev.Name, ".json") {
				continue
			}
			if ev.Op&(fsnotify.Create|fsnotify.Write) != 0 {
				pending[ev.Name] = time.Now().Add(debounceWindow)
			}

		case watchErr, ok := <-w.Errors:
			if !ok {
				return nil
			}
			log.Printf("[keep] watcher error: %v", watchErr)
		}
	}
}

// addDirsRecursive adds root and all its subdirectories to the watcher.
func addDirsRecursive(w *fsnotify.Watcher, root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return w.Add(path)
		}
		return nil
	})
}
