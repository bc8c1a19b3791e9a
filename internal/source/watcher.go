package source

import (
	"context"
	"path/filepath"
	"strings"
	"sync"

	"github.com/fsnotify/fsnotify"

	"github.com/mpetrun5/rag-docs/internal/errors"
	"github.com/mpetrun5/rag-docs/internal/logger"
	"github.com/mpetrun5/rag-docs/internal/validator"
)

// Watcher monitors the spool directory and hands new scraper output files
// to the handler as they land.
type Watcher struct {
	watcher *fsnotify.Watcher
	handler FileHandler
	mu      sync.RWMutex
	paths   []string
}

// FileHandler is called with the path of a newly written document file.
type FileHandler func(ctx context.Context, path string) error

// NewWatcher creates a spool directory watcher
func NewWatcher(handler FileHandler) (*Watcher, error) {
	if handler == nil {
		return nil, errors.ValidationError("file handler cannot be nil")
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrorTypeInternal, "failed to create spool watcher")
	}

	return &Watcher{
		watcher: w,
		handler: handler,
		paths:   make([]string, 0),
	}, nil
}

// AddPath adds a directory to watch
func (w *Watcher) AddPath(path string) error {
	if err := validator.ValidateDirPath(path); err != nil {
		return err
	}

	absPath, _ := filepath.Abs(path)

	w.mu.Lock()
	defer w.mu.Unlock()

	if err := w.watcher.Add(absPath); err != nil {
		return errors.Wrap(err, errors.ErrorTypeInternal, "failed to add watch path")
	}

	w.paths = append(w.paths, absPath)
	logger.Info("Watching spool directory", "path", absPath)

	return nil
}

// Start blocks processing events until the context is cancelled.
func (w *Watcher) Start(ctx context.Context) error {
	logger.Info("Starting spool watcher", "paths", len(w.paths))

	for {
		select {
		case <-ctx.Done():
			logger.Info("Spool watcher stopped")
			return w.watcher.Close()

		case event, ok := <-w.watcher.Events:
			if !ok {
				return nil
			}
			w.handleEvent(ctx, event)

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return nil
			}
			logger.Error("Spool watcher error", "error", err)
		}
	}
}

// handleEvent reacts to completed writes of .json files. Other file types
// and event kinds are ignored.
func (w *Watcher) handleEvent(ctx context.Context, event fsnotify.Event) {
	if !strings.HasSuffix(event.Name, ".json") {
		return
	}
	if event.Op&(fsnotify.Create|fsnotify.Write) == 0 {
		return
	}

	logger.Debug("Spool file event", "path", event.Name, "op", event.Op.String())

	if err := w.handler(ctx, event.Name); err != nil {
		logger.Error("Failed to ingest spool file",
			"path", event.Name,
			"error", err,
		)
	}
}

// Stop stops the watcher
func (w *Watcher) Stop() error {
	return w.watcher.Close()
}

// TODO: debounce rapid rewrites of the same spool file
