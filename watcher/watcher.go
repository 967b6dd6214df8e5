// Package watcher reports changes to a set of source files.
package watcher

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/sirupsen/logrus"
)

// DefaultDebounce is used when New is given a zero debounce.
const DefaultDebounce = 100 * time.Millisecond

// Watcher monitors files for changes and calls onChange for each one
type Watcher struct {
	watcher  *fsnotify.Watcher
	files    map[string]bool // absolute paths being watched
	dirs     []string
	onChange func(path string)
	logger   logrus.FieldLogger
	debounce time.Duration

	// A pending timer per file; each event pushes it back by debounce
	mu        sync.Mutex
	pending   map[string]*time.Timer
	changeSeq uint64 // Incremented on each reported change
	stopped   bool
}

// New creates a watcher for paths. Directories containing the files are watched
// rather than the files themselves, so editors that save by renaming a temporary
// file are still noticed. A nil logger discards log output.
func New(paths []string, onChange func(path string), logger logrus.FieldLogger, debounce time.Duration) (*Watcher, error) {
	if len(paths) == 0 {
		return nil, fmt.Errorf("no files to watch")
	}
	if debounce == 0 {
		debounce = DefaultDebounce
	}
	if logger == nil {
		discard := logrus.New()
		discard.SetOutput(io.Discard)
		logger = discard
	}

	files := make(map[string]bool, len(paths))
	seen := make(map[string]bool)
	var dirs []string
	for _, p := range paths {
		abs, err := filepath.Abs(p)
		if err != nil {
			return nil, fmt.Errorf("resolving %s: %w", p, err)
		}
		files[abs] = true
		if dir := filepath.Dir(abs); !seen[dir] {
			seen[dir] = true
			dirs = append(dirs, dir)
		}
	}

	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	return &Watcher{
		watcher:    fsWatcher,
		files:      files,
		dirs:       dirs,
		onChange:   onChange,
		logger:     logger.WithField("component", "watcher"),
		debounce:   debounce,
		pending:    make(map[string]*time.Timer),
	}, nil
}

// Start begins watching for file changes. The event loop runs until ctx is done
// or Close is called.
func (w *Watcher) Start(ctx context.Context) error {
	for _, dir := range w.dirs {
		if err := w.watcher.Add(dir); err != nil {
			return fmt.Errorf("watching %s: %w", dir, err)
		}
		w.logger.WithField("path", dir).Debug("watching directory")
	}

	go w.eventLoop(ctx)

	return nil
}

// eventLoop processes file system events
func (w *Watcher) eventLoop(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			w.stop()
			return

		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}

			// Only handle write and create events
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}

			path, err := filepath.Abs(event.Name)
			if err != nil || !w.files[path] {
				continue
			}

			w.schedule(path)

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.WithError(err).Error("watcher error")
		}
	}
}

// schedule reports path once debounce has passed without another event for it,
// so a save made of several writes is seen after its last write.
func (w *Watcher) schedule(path string) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.stopped {
		return
	}
	if t, ok := w.pending[path]; ok {
		t.Reset(w.debounce)
		return
	}
	w.pending[path] = time.AfterFunc(w.debounce, func() { w.fire(path) })
}

func (w *Watcher) fire(path string) {
	w.mu.Lock()
	delete(w.pending, path)
	if w.stopped {
		w.mu.Unlock()
		return
	}
	w.changeSeq++
	w.mu.Unlock()

	w.logger.WithField("path", path).Info("file changed")
	w.onChange(path)
}

// stop drops pending reports.
func (w *Watcher) stop() {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.stopped = true
	for path, t := range w.pending {
		t.Stop()
		delete(w.pending, path)
	}
}

// Seq returns the number of changes reported so far.
func (w *Watcher) Seq() uint64 {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.changeSeq
}

// Close stops the watcher
func (w *Watcher) Close() error {
	w.stop()
	return w.watcher.Close()
}
