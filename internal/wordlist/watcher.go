package wordlist

import (
	"context"
	"log"
	"path/filepath"
	"sync"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/fsnotify/fsnotify"
	"github.com/samber/lo"
)

// Watcher reloads the word list when a file matching its pattern changes.
// Bursts of events within the debounce window trigger a single reload.
type Watcher struct {
	pattern   string
	window    time.Duration
	onReload  func([]string)
	fsWatcher *fsnotify.Watcher

	mu      sync.Mutex
	timer   *time.Timer
	stopped bool
	cancel  context.CancelFunc
	done    chan struct{}
}

// NewWatcher watches the directories holding the files pattern currently
// matches. Directories are watched instead of files so that editors that
// replace a file on save are still seen.
func NewWatcher(pattern string, window time.Duration, onReload func([]string)) (*Watcher, error) {
	paths, err := Expand(pattern)
	if err != nil {
		return nil, err
	}
	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	dirs := lo.Uniq(lo.Map(paths, func(p string, _ int) string { return filepath.Dir(p) }))
	for _, dir := range dirs {
		if err := fsWatcher.Add(dir); err != nil {
			fsWatcher.Close()
			return nil, err
		}
		log.Printf("Watching %s for word list changes", dir)
	}

	return &Watcher{
		pattern:   filepath.Clean(pattern),
		window:    window,
		onReload:  onReload,
		fsWatcher: fsWatcher,
		done:      make(chan struct{}),
	}, nil
}

// Start begins handling file events until ctx is done or Close is called.
func (w *Watcher) Start(ctx context.Context) {
	ctx, cancel := context.WithCancel(ctx)
	w.mu.Lock()
	w.cancel = cancel
	w.mu.Unlock()
	go w.handleEvents(ctx)
}

func (w *Watcher) handleEvents(ctx context.Context) {
	defer close(w.done)
	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-w.fsWatcher.Events:
			if !ok {
				return
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
				continue
			}
			if !w.matches(event.Name) {
				continue
			}
			w.schedule()
		case err, ok := <-w.fsWatcher.Errors:
			if !ok {
				return
			}
			log.Printf("Word list watcher error: %v", err)
		}
	}
}

func (w *Watcher) matches(path string) bool {
	ok, err := doublestar.PathMatch(w.pattern, filepath.Clean(path))
	return err == nil && ok
}

func (w *Watcher) schedule() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.stopped {
		return
	}
	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(w.window, w.reload)
}

func (w *Watcher) reload() {
	words, err := Load(w.pattern)
	if err != nil {
		log.Printf("Word list reload failed, keeping current list: %v", err)
		return
	}
	if len(words) == 0 {
		log.Printf("Word list reload produced no words, keeping current list")
		return
	}
	w.mu.Lock()
	stopped := w.stopped
	w.mu.Unlock()
	if !stopped {
		w.onReload(words)
	}
}

// Close stops the watcher and waits for the event loop to exit.
func (w *Watcher) Close() error {
	w.mu.Lock()
	if w.stopped {
		w.mu.Unlock()
		return nil
	}
	w.stopped = true
	if w.timer != nil {
		w.timer.Stop()
	}
	cancel := w.cancel
	w.mu.Unlock()

	err := w.fsWatcher.Close()
	if cancel != nil {
		cancel()
		<-w.done
	}
	return err
}
