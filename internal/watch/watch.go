// Package watch runs a handler for every transcript dropped into a directory.
package watch

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/alnah/studynotes/internal/logger"
)

// Defaults.
const (
	DefaultSettle        = 500 * time.Millisecond
	DefaultMaxConcurrent = 2
)

// transcriptExts lists the extensions picked up by the watcher.
var transcriptExts = []string{".txt", ".json"}

// generatedMarkers identify files written by studynotes itself.
var generatedMarkers = []string{".notes.", ".prompt."}

// ErrClosed indicates the underlying fsnotify watcher stopped delivering events.
var ErrClosed = errors.New("watcher closed")

// Handler processes one new transcript file.
type Handler func(ctx context.Context, path string) error

// Watcher monitors one directory.
type Watcher struct {
	dir       string
	handler   Handler
	log       logger.Logger
	settle    time.Duration
	watcher   *fsnotify.Watcher
	semaphore chan struct{}
	wg        sync.WaitGroup

	mu       sync.Mutex
	inflight map[string]bool
}

// Option configures a Watcher.
type Option func(*Watcher)

// WithSettle sets the delay between file creation and processing.
func WithSettle(d time.Duration) Option {
	return func(w *Watcher) { w.settle = d }
}

// WithMaxConcurrent bounds the number of files handled at once.
func WithMaxConcurrent(n int) Option {
	return func(w *Watcher) {
		if n > 0 {
			w.semaphore = make(chan struct{}, n)
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l logger.Logger) Option {
	return func(w *Watcher) { w.log = l }
}

// New starts watching dir. Call Start to process events and Close to release
// the watch.
func New(dir string, handler Handler, opts ...Option) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}
	if err := fw.Add(dir); err != nil {
		_ = fw.Close()
		return nil, fmt.Errorf("add watch path: %w", err)
	}

	w := &Watcher{
		dir:       dir,
		handler:   handler,
		log:       logger.Discard(),
		settle:    DefaultSettle,
		watcher:   fw,
		semaphore: make(chan struct{}, DefaultMaxConcurrent),
		inflight:  make(map[string]bool),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w, nil
}

// Start processes events until ctx is done, then waits for running handlers.
func (w *Watcher) Start(ctx context.Context) error {
	w.log.Info(ctx, "watching %s (max concurrent: %d)", w.dir, cap(w.semaphore))

	for {
		select {
		case <-ctx.Done():
			w.wg.Wait()
			w.log.Info(ctx, "watcher stopped")
			return ctx.Err()

		case event, ok := <-w.watcher.Events:
			if !ok {
				w.wg.Wait()
				return ErrClosed
			}
			if !event.Has(fsnotify.Create) {
				continue
			}
			if !IsTranscript(event.Name) {
				w.log.Debug(ctx, "ignoring %s", event.Name)
				continue
			}
			if !w.claim(event.Name) {
				continue
			}
			w.log.Info(ctx, "new transcript: %s", event.Name)

			select {
			case w.semaphore <- struct{}{}:
			case <-ctx.Done():
				w.release(event.Name)
				continue
			}
			w.wg.Add(1)
			go w.handle(ctx, event.Name)

		case err, ok := <-w.watcher.Errors:
			if !ok {
				w.wg.Wait()
				return ErrClosed
			}
			w.log.Error(ctx, "watcher error: %v", err)
		}
	}
}

func (w *Watcher) handle(ctx context.Context, path string) {
	defer w.wg.Done()
	defer func() { <-w.semaphore }()
	defer w.release(path)

	// Let the writer finish before reading.
	select {
	case <-time.After(w.settle):
	case <-ctx.Done():
		return
	}

	if err := w.handler(ctx, path); err != nil {
		w.log.Error(ctx, "failed to process %s: %v", path, err)
		return
	}
	w.log.Info(ctx, "processed %s", path)
}

func (w *Watcher) claim(path string) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.inflight[path] {
		return false
	}
	w.inflight[path] = true
	return true
}

func (w *Watcher) release(path string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	delete(w.inflight, path)
}

// Close stops the underlying watch.
func (w *Watcher) Close() error {
	return w.watcher.Close()
}

// IsTranscript reports whether path looks like an input transcript rather
// than a hidden file or a file written by studynotes.
func IsTranscript(path string) bool {
	base := filepath.Base(path)
	if strings.HasPrefix(base, ".") {
		return false
	}
	for _, m := range generatedMarkers {
		if strings.Contains(base, m) {
			return false
		}
	}
	return slices.Contains(transcriptExts, strings.ToLower(filepath.Ext(base)))
}
