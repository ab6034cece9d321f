package watch

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/pboueri/outgit/src/logger"
)

// Watcher observes the repository metadata directory and forwards debounced
// mutation signals to a dispatcher channel. Bursts are coalesced into a
// single event; a burst containing any write collapses to MetadataChanged so
// that push detection still runs.
type Watcher struct {
	fsw      *fsnotify.Watcher
	out      chan<- Event
	debounce time.Duration

	mu      sync.Mutex
	timer   *time.Timer
	pending map[EventKind]bool
	last    string
}

// NewWatcher watches repoPath's .git directory. The object store is skipped;
// only refs, logs and top-level metadata files matter for outgoing state.
func NewWatcher(repoPath string, out chan<- Event, debounce time.Duration) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if debounce <= 0 {
		debounce = 200 * time.Millisecond
	}

	w := &Watcher{
		fsw:      fsw,
		out:      out,
		debounce: debounce,
		pending:  map[EventKind]bool{},
	}

	gitDir := filepath.Join(repoPath, ".git")
	if err := w.addRecursive(gitDir); err != nil {
		fsw.Close()
		return nil, err
	}
	return w, nil
}

func (w *Watcher) addRecursive(root string) error {
	return filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if !d.IsDir() {
			return nil
		}
		if d.Name() == "objects" {
			return filepath.SkipDir
		}
		if err := w.fsw.Add(path); err != nil {
			logger.Debug("Failed to watch %s: %v", path, err)
		}
		return nil
	})
}

// Run translates filesystem events until the context is cancelled.
func (w *Watcher) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			if ev.Op&fsnotify.Create != 0 {
				if info, err := os.Stat(ev.Name); err == nil && info.IsDir() {
					_ = w.addRecursive(ev.Name)
				}
			}
			w.schedule(kindForOp(ev.Op), ev.Name)
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			logger.Warn("Watcher error: %v", err)
		}
	}
}

func (w *Watcher) Close() error {
	w.mu.Lock()
	if w.timer != nil {
		w.timer.Stop()
	}
	w.mu.Unlock()
	return w.fsw.Close()
}

func kindForOp(op fsnotify.Op) EventKind {
	switch {
	case op&fsnotify.Create != 0:
		return MetadataCreated
	case op&(fsnotify.Remove|fsnotify.Rename) != 0:
		return MetadataDeleted
	default:
		return MetadataChanged
	}
}

func (w *Watcher) schedule(kind EventKind, path string) {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.pending[kind] = true
	w.last = path
	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(w.debounce, w.flush)
}

func (w *Watcher) flush() {
	w.mu.Lock()
	kind := coalesce(w.pending)
	path := w.last
	w.pending = map[EventKind]bool{}
	w.mu.Unlock()

	w.out <- Event{Kind: kind, Path: path}
}

// coalesce picks the event kind for a burst. Writes win so that a ref update
// buried in a create/delete burst still reaches push detection.
func coalesce(pending map[EventKind]bool) EventKind {
	switch {
	case pending[MetadataChanged]:
		return MetadataChanged
	case pending[MetadataCreated]:
		return MetadataCreated
	default:
		return MetadataDeleted
	}
}
