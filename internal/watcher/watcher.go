// Package watcher keeps the shared document store in sync with a directory
// on disk.
package watcher

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"relaychat/internal/extract"
)

// DefaultDebounce is how long a file must stay quiet before it is ingested.
const DefaultDebounce = 300 * time.Millisecond

// Ingester chunks and indexes one document's text.
type Ingester interface {
	Ingest(ctx context.Context, name, text string) (int, error)
}

// Watcher ingests every supported file in a directory at start-up and again
// whenever one is created or written.
type Watcher struct {
	dir      string
	ingester Ingester
	debounce time.Duration
	fsw      *fsnotify.Watcher

	mu      sync.Mutex
	pending map[string]time.Time
	// hashes holds the content hash last ingested per path.
	hashes map[string]string
}

// New starts watching dir. Call Run to process events and Close to release
// the underlying watch.
func New(dir string, ingester Ingester, debounce time.Duration) (*Watcher, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("docs dir: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("docs dir %s is not a directory", dir)
	}
	if debounce <= 0 {
		debounce = DefaultDebounce
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("could not create file watcher: %w", err)
	}
	if err := fsw.Add(dir); err != nil {
		_ = fsw.Close()
		return nil, fmt.Errorf("could not watch %s: %w", dir, err)
	}

	return &Watcher{
		dir:      dir,
		ingester: ingester,
		debounce: debounce,
		fsw:      fsw,
		pending:  make(map[string]time.Time),
		hashes:   make(map[string]string),
	}, nil
}

// Close stops the underlying fsnotify watcher.
func (w *Watcher) Close() error {
	return w.fsw.Close()
}

// Run preloads the directory and then ingests changes until ctx is done.
func (w *Watcher) Run(ctx context.Context) error {
	if err := w.preload(ctx); err != nil {
		return err
	}

	ticker := time.NewTicker(w.debounce / 2)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-w.fsw.Events:
			if !ok {
				return nil
			}
			if event.Op&(fsnotify.Create|fsnotify.Write) == 0 {
				continue
			}
			if !extract.Supported(event.Name) {
				continue
			}
			w.mu.Lock()
			w.pending[event.Name] = time.Now()
			w.mu.Unlock()

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return nil
			}
			slog.Warn("File watcher error", "dir", w.dir, "error", err)

		case now := <-ticker.C:
			for _, path := range w.due(now) {
				w.ingestFile(ctx, path)
			}
		}
	}
}

func (w *Watcher) preload(ctx context.Context) error {
	entries, err := os.ReadDir(w.dir)
	if err != nil {
		return fmt.Errorf("could not list %s: %w", w.dir, err)
	}
	for _, entry := range entries {
		if entry.IsDir() || !extract.Supported(entry.Name()) {
			continue
		}
		if ctx.Err() != nil {
			return nil
		}
		w.ingestFile(ctx, filepath.Join(w.dir, entry.Name()))
	}
	slog.Info("Preloaded documents directory", "dir", w.dir, "files", len(w.hashes))
	return nil
}

// due removes and returns the paths that have been quiet for the debounce.
func (w *Watcher) due(now time.Time) []string {
	w.mu.Lock()
	defer w.mu.Unlock()

	var paths []string
	for path, changed := range w.pending {
		if now.Sub(changed) >= w.debounce {
			paths = append(paths, path)
			delete(w.pending, path)
		}
	}
	return paths
}

// ingestFile reads and indexes path. Failures are logged; one bad file does
// not stop the watcher.
func (w *Watcher) ingestFile(ctx context.Context, path string) {
	content, err := os.ReadFile(path)
	if err != nil {
		slog.Warn("Could not read document", "path", path, "error", err)
		return
	}

	sum := sha256.Sum256(content)
	hash := hex.EncodeToString(sum[:])
	w.mu.Lock()
	unchanged := w.hashes[path] == hash
	w.mu.Unlock()
	if unchanged {
		slog.Debug("Document unchanged, skipping", "path", path)
		return
	}

	doc, err := extract.Extract(filepath.Base(path), content)
	if err != nil {
		slog.Warn("Could not extract document", "path", path, "error", err)
		return
	}

	n, err := w.ingester.Ingest(ctx, filepath.Base(path), doc.Content)
	if err != nil {
		slog.Error("Could not ingest document", "path", path, "error", err)
		return
	}

	w.mu.Lock()
	w.hashes[path] = hash
	w.mu.Unlock()
	slog.Debug("Ingested document", "path", path, "chunks", n)
}
