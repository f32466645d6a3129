package rule

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"sync/atomic"

	"github.com/fsnotify/fsnotify"
)

// Holder owns the current catalog and supports atomic replacement. Readers
// call [Holder.Catalog] and keep using the returned pointer for the duration
// of one request; a concurrent reload never affects them.
type Holder struct {
	path    string
	current atomic.Pointer[Catalog]
	watcher *fsnotify.Watcher
}

// NewHolder loads the index at path and wraps it in a reloadable holder.
func NewHolder(path string) (*Holder, error) {
	c, err := Load(path)
	if err != nil {
		return nil, err
	}

	h := &Holder{path: path}
	h.current.Store(c)

	return h, nil
}

// Catalog returns the current catalog snapshot.
func (h *Holder) Catalog() *Catalog {
	return h.current.Load()
}

// Reload re-reads the index and swaps the catalog in. On any error the
// previous catalog stays active.
func (h *Holder) Reload() error {
	c, err := Load(h.path)
	if err != nil {
		return fmt.Errorf("reload rule index: %w", err)
	}

	old := h.current.Swap(c)
	slog.Info("rule catalog reloaded",
		slog.String("path", h.path),
		slog.Int("rules", c.Len()),
		slog.Int("previousRules", old.Len()),
	)

	return nil
}

// Watch reloads the catalog whenever the index file changes, until ctx is
// canceled. The parent directory is watched rather than the file itself, so
// atomic rename-based rewrites are picked up.
func (h *Holder) Watch(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}

	if err := watcher.Add(filepath.Dir(h.path)); err != nil {
		watcher.Close()

		return fmt.Errorf("watch %q: %w", filepath.Dir(h.path), err)
	}

	h.watcher = watcher

	go h.watchLoop(ctx)

	return nil
}

func (h *Holder) watchLoop(ctx context.Context) {
	defer h.watcher.Close()

	target := filepath.Clean(h.path)

	for {
		select {
		case <-ctx.Done():
			return

		case event, ok := <-h.watcher.Events:
			if !ok {
				return
			}

			if filepath.Clean(event.Name) != target {
				continue
			}

			if !event.Op.Has(fsnotify.Write) && !event.Op.Has(fsnotify.Create) {
				continue
			}

			if err := h.Reload(); err != nil {
				slog.Warn("rule catalog reload failed, keeping previous catalog",
					slog.String("path", h.path),
					slog.Any("error", err),
				)
			}

		case err, ok := <-h.watcher.Errors:
			if !ok {
				return
			}

			slog.Warn("rule catalog watcher error", slog.Any("error", err))
		}
	}
}
