// internal/watch/watcher.go
package watch

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	"trove/internal/repo"
)

// Watcher auto-stages files as they change: every create or write event in
// the working tree turns into an add on the repository.
type Watcher struct {
	repo       *repo.Repository
	watcher    *fsnotify.Watcher
	ignoreDirs map[string]bool
	logger     *zap.Logger
}

func New(r *repo.Repository, logger *zap.Logger) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating file watcher: %w", err)
	}

	w := &Watcher{
		repo:    r,
		watcher: fsw,
		ignoreDirs: map[string]bool{
			".git":         true,
			".trove":       true,
			"node_modules": true,
			"vendor":       true,
			"dist":         true,
			"build":        true,
		},
		logger: logger,
	}

	if err := w.addDirs(); err != nil {
		fsw.Close()
		return nil, err
	}

	return w, nil
}

// addDirs registers the working tree's directories with the watcher.
func (w *Watcher) addDirs() error {
	return filepath.Walk(w.repo.Root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if !info.IsDir() {
			return nil
		}

		relPath, err := filepath.Rel(w.repo.Root, path)
		if err != nil {
			return fmt.Errorf("getting relative path: %w", err)
		}
		if relPath != "." && w.ShouldIgnore(relPath) {
			return filepath.SkipDir
		}

		if err := w.watcher.Add(path); err != nil {
			return fmt.Errorf("adding directory to watcher: %w", err)
		}
		return nil
	})
}

// Run processes events until the context is cancelled.
func (w *Watcher) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case event, ok := <-w.watcher.Events:
			if !ok {
				return nil
			}
			w.handleEvent(event)
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return nil
			}
			w.logger.Error("watcher error", zap.Error(err))
		}
	}
}

func (w *Watcher) handleEvent(event fsnotify.Event) {
	relPath, err := filepath.Rel(w.repo.Root, event.Name)
	if err != nil {
		w.logger.Error("getting relative path", zap.Error(err))
		return
	}

	if w.ShouldIgnore(relPath) {
		return
	}

	if event.Op&(fsnotify.Create|fsnotify.Write) == 0 {
		return
	}

	info, err := os.Stat(event.Name)
	if err != nil {
		return // Removed again before we got to it
	}
	if info.IsDir() {
		if event.Op&fsnotify.Create != 0 {
			if err := w.watcher.Add(event.Name); err != nil {
				w.logger.Error("adding new directory to watcher", zap.Error(err))
			}
		}
		return
	}

	hash, err := w.repo.Add(relPath)
	if err != nil {
		w.logger.Error("auto-staging file",
			zap.String("path", relPath),
			zap.Error(err))
		return
	}

	w.logger.Info("auto-staged file",
		zap.String("path", relPath),
		zap.String("hash", hash))
}

// ShouldIgnore reports whether any path component is a hidden or generated
// directory we never stage from.
func (w *Watcher) ShouldIgnore(path string) bool {
	if path == "" || path == "." {
		return true
	}

	parts := strings.Split(path, string(filepath.Separator))
	for _, part := range parts {
		if w.ignoreDirs[part] || strings.HasPrefix(part, ".") {
			return true
		}
	}

	return false
}

// Close cleans up resources
func (w *Watcher) Close() error {
	return w.watcher.Close()
}
