package config

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	"github.com/philipp01105/logchan/sink"
)

// reloadDelay coalesces the burst of events an editor save produces.
const reloadDelay = 100 * time.Millisecond

// Watcher reloads a configuration file into a Setup whenever it changes.
type Watcher struct {
	path    string
	setup   *Setup
	diag    *zap.Logger
	watcher *fsnotify.Watcher
	cancel  context.CancelFunc
	done    chan struct{}

	closeOnce sync.Once
	closeErr  error
}

// Watch starts watching path. Each change is loaded with Load and applied
// with Setup.Apply; a file that fails to load or validate is reported to
// diag and leaves the running setup untouched. Watching stops when ctx is
// done or Close is called.
func Watch(ctx context.Context, path string, setup *Setup, diag *zap.Logger) (*Watcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolving config path: %w", err)
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create fsnotify watcher: %w", err)
	}
	// the directory survives editors that replace the file on save
	if err := fw.Add(filepath.Dir(abs)); err != nil {
		fw.Close()
		return nil, fmt.Errorf("failed to add path to watcher: %w", err)
	}

	ctx, cancel := context.WithCancel(ctx)
	w := &Watcher{
		path:    abs,
		setup:   setup,
		diag:    sink.DiagnosticsOr(diag),
		watcher: fw,
		cancel:  cancel,
		done:    make(chan struct{}),
	}
	go w.eventLoop(ctx)
	return w, nil
}

// Close stops the watcher and waits for its goroutine to exit.
func (w *Watcher) Close() error {
	w.closeOnce.Do(func() {
		w.cancel()
		<-w.done
		if err := w.watcher.Close(); err != nil {
			w.closeErr = fmt.Errorf("failed to close watcher: %w", err)
		}
	})
	return w.closeErr
}

func (w *Watcher) eventLoop(ctx context.Context) {
	defer close(w.done)

	var reload <-chan time.Time
	for {
		select {
		case <-ctx.Done():
			return

		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != w.path {
				continue
			}
			if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) || event.Has(fsnotify.Rename) {
				reload = time.After(reloadDelay)
			}

		case <-reload:
			reload = nil
			w.reload()

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.diag.Warn("config watcher error", zap.String("path", w.path), zap.Error(err))
		}
	}
}

func (w *Watcher) reload() {
	cfg, err := Load(w.path)
	if err == nil {
		err = w.setup.Apply(cfg)
	}
	if err != nil {
		w.diag.Warn("config reload failed", zap.String("path", w.path), zap.Error(err))
		return
	}
	w.diag.Info("config reloaded", zap.String("path", w.path), zap.Stringer("threshold", cfg.Level()))
}
