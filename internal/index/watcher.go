package index

import (
	"context"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/starford/folio/internal/content"
	"github.com/starford/folio/internal/models"
)

const debounceDelay = 200 * time.Millisecond

// EventCallback is called after a watcher-driven resync changed the index.
type EventCallback func(category models.Category, st Stats)

// Watch starts an fsnotify watcher on the content root and resyncs the
// affected categories until ctx is cancelled. Events are debounced so a
// burst of writes (an editor save, a manifest rewrite) costs one resync.
//
// New directories created at runtime are added to the watch list.
func Watch(ctx context.Context, db EntryIndex, f *content.Fetcher, root string, logger *slog.Logger, cb EventCallback) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer w.Close()

	if err := addDirsRecursive(w, root); err != nil {
		return err
	}

	logger.Info("watcher: started", slog.String("root", root))

	dirty := make(map[models.Category]struct{})
	var timer *time.Timer
	var timerCh <-chan time.Time

	schedule := func(c models.Category) {
		dirty[c] = struct{}{}
		if timer == nil {
			timer = time.NewTimer(debounceDelay)
			timerCh = timer.C
		} else {
			timer.Reset(debounceDelay)
		}
	}

	for {
		select {
		case <-ctx.Done():
			if timer != nil {
				timer.Stop()
			}
			logger.Info("watcher: stopped")
			return nil

		case <-timerCh:
			for c := range dirty {
				st, syncErr := SyncCategory(ctx, db, f, c, logger)
				if syncErr != nil {
					logger.Warn("watcher: sync failed", slog.String("category", string(c)), slog.String("error", syncErr.Error()))
					continue
				}
				logger.Debug("watcher: synced", slog.String("category", string(c)),
					slog.Int("indexed", st.Indexed), slog.Int("removed", st.Removed))
				if cb != nil && st.Changed() {
					cb(c, st)
				}
			}
			clear(dirty)

		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}

			if ev.Op&fsnotify.Create != 0 {
				if info, statErr := os.Stat(ev.Name); statErr == nil && info.IsDir() {
					if addErr := addDirsRecursive(w, ev.Name); addErr != nil {
						logger.Warn("watcher: add new dir failed",
							slog.String("path", ev.Name),
							slog.String("error", addErr.Error()))
					}
				}
			}

			c, ok := categoryOf(root, ev.Name)
			if !ok {
				continue
			}
			schedule(c)

		case watchErr, ok := <-w.Errors:
			if !ok {
				return nil
			}
			logger.Error("watcher: error", slog.String("error", watchErr.Error()))
		}
	}
}

// categoryOf maps an absolute path under root to its category, ignoring
// editor temp files and files outside a known category directory.
func categoryOf(root, abs string) (models.Category, bool) {
	rel, err := filepath.Rel(root, abs)
	if err != nil || strings.HasPrefix(rel, "..") {
		return "", false
	}
	parts := strings.Split(filepath.ToSlash(rel), "/")
	if len(parts) < 2 {
		return "", false
	}
	base := parts[len(parts)-1]
	if strings.HasPrefix(base, ".") || strings.HasSuffix(base, "~") {
		return "", false
	}
	c := models.Category(parts[0])
	return c, c.Valid()
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
