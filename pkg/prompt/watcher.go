package prompt

import (
	"fmt"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"
)

// Watcher monitors the prompt override directory and reloads the
// Library when a .tmpl file changes. Rapid successive writes to the
// same file are debounced.
type Watcher struct {
	watcher            *fsnotify.Watcher
	library            *Library
	dir                string
	stabilityThreshold time.Duration
	done               chan struct{}
	debounceTimers     map[string]*time.Timer
	debounceMu         sync.Mutex
	stopOnce           sync.Once
	logger             zerolog.Logger
}

// NewWatcher creates a watcher over the library's override directory
func NewWatcher(library *Library, dir string, logger zerolog.Logger) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create watcher: %w", err)
	}

	return &Watcher{
		watcher:            fsw,
		library:            library,
		dir:                dir,
		stabilityThreshold: 100 * time.Millisecond,
		done:               make(chan struct{}),
		debounceTimers:     make(map[string]*time.Timer),
		logger:             logger,
	}, nil
}

// Start begins watching the override directory
func (w *Watcher) Start() error {
	if err := w.watcher.Add(w.dir); err != nil {
		return fmt.Errorf("failed to watch prompt directory: %w", err)
	}

	go w.eventLoop()

	w.logger.Info().Str("path", w.dir).Msg("Prompt watcher started")
	return nil
}

// Stop stops the watcher
func (w *Watcher) Stop() error {
	w.stopOnce.Do(func() {
		close(w.done)
	})

	w.debounceMu.Lock()
	for _, timer := range w.debounceTimers {
		timer.Stop()
	}
	clear(w.debounceTimers)
	w.debounceMu.Unlock()

	if err := w.watcher.Close(); err != nil {
		return fmt.Errorf("failed to close watcher: %w", err)
	}

	w.logger.Info().Msg("Prompt watcher stopped")
	return nil
}

// eventLoop processes file system events
func (w *Watcher) eventLoop() {
	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			w.handleEvent(event)

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Error().Err(err).Msg("Prompt watcher error")

		case <-w.done:
			return
		}
	}
}

// handleEvent debounces template changes before reloading
func (w *Watcher) handleEvent(event fsnotify.Event) {
	if !strings.HasSuffix(filepath.Base(event.Name), ".tmpl") {
		return
	}
	if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0 {
		return
	}

	w.debounceMu.Lock()
	defer w.debounceMu.Unlock()

	if timer, exists := w.debounceTimers[event.Name]; exists {
		timer.Stop()
	}

	name := event.Name
	w.debounceTimers[name] = time.AfterFunc(w.stabilityThreshold, func() {
		w.debounceMu.Lock()
		delete(w.debounceTimers, name)
		w.debounceMu.Unlock()

		select {
		case <-w.done:
			return
		default:
		}

		if err := w.library.Reload(); err != nil {
			w.logger.Error().Err(err).Msg("Failed to reload prompt overrides")
		}
	})
}
