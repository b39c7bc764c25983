// Package watcher reports changes to audio files in the library directory.
package watcher

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"harmonic/services"

	"github.com/fsnotify/fsnotify"
	log "github.com/sirupsen/logrus"
)

// DefaultDebounce is how long a path must stay quiet before it is reported
const DefaultDebounce = 500 * time.Millisecond

// Notifier receives debounced library changes
type Notifier interface {
	NotifyLibraryChanged(path, op string)
}

// Options configures a Watcher
type Options struct {
	Debounce time.Duration
}

// Watcher watches one directory, non-recursively, like the scanner lists it
type Watcher struct {
	dir      string
	notifier Notifier
	debounce time.Duration
	fsw      *fsnotify.Watcher

	mu      sync.Mutex
	pending map[string]*pendingChange
}

// pendingChange tracks a path that may still be changing
type pendingChange struct {
	op    string
	timer *time.Timer
}

// New creates a watcher for dir. Call Run to start delivering events.
func New(dir string, notifier Notifier, opts Options) (*Watcher, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to stat library: %w", err)
	}
	if !info.IsDir() {
		return nil, services.ErrNotADirectory
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create fsnotify watcher: %w", err)
	}
	if err := fsw.Add(dir); err != nil {
		fsw.Close()
		return nil, fmt.Errorf("failed to watch %s: %w", dir, err)
	}

	if opts.Debounce <= 0 {
		opts.Debounce = DefaultDebounce
	}

	return &Watcher{
		dir:      dir,
		notifier: notifier,
		debounce: opts.Debounce,
		fsw:      fsw,
		pending:  make(map[string]*pendingChange),
	}, nil
}

// Run processes filesystem events until ctx is cancelled
func (w *Watcher) Run(ctx context.Context) error {
	defer w.stop()

	log.Infof("Watching library %s", w.dir)
	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-w.fsw.Events:
			if !ok {
				return nil
			}
			w.handleEvent(event)
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return nil
			}
			log.Warnf("Library watcher error: %v", err)
		}
	}
}

func (w *Watcher) handleEvent(event fsnotify.Event) {
	if !services.IsSupportedFormat(services.FileExtension(event.Name)) {
		return
	}
	// only entries directly in the library, never nested ones
	if filepath.Dir(event.Name) != filepath.Clean(w.dir) {
		return
	}

	op := opName(event.Op)
	if op == "" {
		return
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	if p, ok := w.pending[event.Name]; ok {
		p.op = op
		p.timer.Reset(w.debounce)
		return
	}

	path := event.Name
	p := &pendingChange{op: op}
	p.timer = time.AfterFunc(w.debounce, func() { w.flush(path) })
	w.pending[path] = p
}

func (w *Watcher) flush(path string) {
	w.mu.Lock()
	p, ok := w.pending[path]
	if ok {
		delete(w.pending, path)
	}
	w.mu.Unlock()

	if ok {
		log.Debugf("Library change: %s %s", p.op, path)
		w.notifier.NotifyLibraryChanged(path, p.op)
	}
}

func (w *Watcher) stop() {
	w.mu.Lock()
	for path, p := range w.pending {
		p.timer.Stop()
		delete(w.pending, path)
	}
	w.mu.Unlock()

	if err := w.fsw.Close(); err != nil {
		log.Warnf("Failed to close library watcher: %v", err)
	}
}

// opName maps an fsnotify operation to the name sent to windows
func opName(op fsnotify.Op) string {
	switch {
	case op.Has(fsnotify.Remove):
		return "remove"
	case op.Has(fsnotify.Rename):
		return "rename"
	case op.Has(fsnotify.Create):
		return "create"
	case op.Has(fsnotify.Write):
		return "write"
	default:
		return ""
	}
}
