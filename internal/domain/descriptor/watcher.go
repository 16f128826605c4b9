package descriptor

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// DefaultDebounce coalesces bursts of editor writes
const DefaultDebounce = 200 * time.Millisecond

// Watcher reloads a provider when its descriptor file changes. The
// directory is watched so that atomic rename-on-save is seen.
type Watcher struct {
	file     string
	provider *Provider
	debounce time.Duration
	watcher  *fsnotify.Watcher
	onReload func(err error)
	logger   *zap.Logger
}

// NewWatcher creates a watcher for file. onReload runs after every reload
// attempt with its result.
func NewWatcher(file string, provider *Provider, debounce time.Duration, onReload func(err error), logger *zap.Logger) (*Watcher, error) {
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	abs, err := filepath.Abs(file)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve %s: %w", file, err)
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create watcher: %w", err)
	}
	if err := fw.Add(filepath.Dir(abs)); err != nil {
		fw.Close()
		return nil, fmt.Errorf("failed to watch %s: %w", filepath.Dir(abs), err)
	}

	return &Watcher{
		file:     abs,
		provider: provider,
		debounce: debounce,
		watcher:  fw,
		onReload: onReload,
		logger:   logger,
	}, nil
}

// Start blocks until ctx is cancelled or the watcher is stopped
func (w *Watcher) Start(ctx context.Context) {
	var (
		timer *time.Timer
		fire  <-chan time.Time
	)
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	w.logger.Debug("Watching descriptor", zap.String("file", w.file))

	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if !w.relevant(event) {
				continue
			}
			if timer == nil {
				timer = time.NewTimer(w.debounce)
			} else {
				timer.Reset(w.debounce)
			}
			fire = timer.C

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Warn("Descriptor watcher error", zap.Error(err))

		case <-fire:
			fire = nil
			err := w.provider.Reload(ctx)
			if w.onReload != nil {
				w.onReload(err)
			}

		case <-ctx.Done():
			w.logger.Debug("Descriptor watcher stopping")
			return
		}
	}
}

func (w *Watcher) relevant(event fsnotify.Event) bool {
	if filepath.Clean(event.Name) != w.file {
		return false
	}
	return event.Has(fsnotify.Write) || event.Has(fsnotify.Create) || event.Has(fsnotify.Rename)
}

// Stop releases the underlying watcher
func (w *Watcher) Stop() error {
	return w.watcher.Close()
}
