// Package watch reports changes to the loaded document and to the prompt
// templates while an interactive chat is running.
package watch

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/custodia-labs/finqa/internal/logger"
)

// DefaultDebounce coalesces the burst of events an editor save produces.
const DefaultDebounce = 150 * time.Millisecond

// ErrClosed is returned by Watch after Close.
var ErrClosed = errors.New("watcher closed")

// ChangeType classifies a change.
type ChangeType int

const (
	// ChangeUpdated means the file was created or written.
	ChangeUpdated ChangeType = iota

	// ChangeRemoved means the file was removed or renamed away.
	ChangeRemoved
)

// String returns the string representation.
func (t ChangeType) String() string {
	if t == ChangeRemoved {
		return "removed"
	}
	return "updated"
}

// Change is a debounced change to a watched path.
type Change struct {
	Path string
	Type ChangeType
}

// Watcher watches individual files and whole directories.
//
// Files are watched through their parent directory so that editors that
// save by replacing the file are still seen.
type Watcher struct {
	mu       sync.Mutex
	files    map[string]struct{}
	dirs     map[string]struct{}
	debounce time.Duration
	fsw      *fsnotify.Watcher
	closed   bool
}

// New creates a watcher with the default debounce.
func New() *Watcher {
	return &Watcher{
		files:    make(map[string]struct{}),
		dirs:     make(map[string]struct{}),
		debounce: DefaultDebounce,
	}
}

// SetDebounce sets the coalescing window. Zero disables debouncing.
func (w *Watcher) SetDebounce(d time.Duration) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.debounce = d
}

// AddFile watches a single file. It may be called after Watch.
func (w *Watcher) AddFile(path string) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("resolve %s: %w", path, err)
	}
	if _, err := os.Stat(filepath.Dir(abs)); err != nil {
		return fmt.Errorf("watch %s: %w", path, err)
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	w.files[abs] = struct{}{}
	return w.addRunning(filepath.Dir(abs))
}

// AddDir watches every regular, non-hidden file directly inside dir.
func (w *Watcher) AddDir(dir string) error {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return fmt.Errorf("resolve %s: %w", dir, err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return fmt.Errorf("watch %s: %w", dir, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("watch %s: not a directory", dir)
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	w.dirs[abs] = struct{}{}
	return w.addRunning(abs)
}

// addRunning hands dir to fsnotify when watching has already started.
// The caller must hold the lock.
func (w *Watcher) addRunning(dir string) error {
	if w.fsw == nil || w.closed {
		return nil
	}
	if err := w.fsw.Add(dir); err != nil {
		return fmt.Errorf("watch %s: %w", dir, err)
	}
	return nil
}

// Watch starts watching and returns a channel of changes. The channel
// is closed when ctx is done or the watcher is closed.
func (w *Watcher) Watch(ctx context.Context) (<-chan Change, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed {
		return nil, ErrClosed
	}
	if w.fsw != nil {
		return nil, errors.New("watcher already started")
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}

	for _, dir := range w.watchedDirs() {
		if err := fsw.Add(dir); err != nil {
			fsw.Close()
			return nil, fmt.Errorf("watch %s: %w", dir, err)
		}
	}
	w.fsw = fsw

	out := make(chan Change)
	go w.loop(ctx, fsw, out, w.debounce)
	return out, nil
}

// Close stops the watcher.
func (w *Watcher) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed {
		return nil
	}
	w.closed = true
	if w.fsw != nil {
		return w.fsw.Close()
	}
	return nil
}

// watchedDirs returns the directories handed to fsnotify. The caller
// must hold the lock.
func (w *Watcher) watchedDirs() []string {
	seen := make(map[string]struct{}, len(w.files)+len(w.dirs))
	dirs := make([]string, 0, len(w.files)+len(w.dirs))
	add := func(d string) {
		if _, ok := seen[d]; ok {
			return
		}
		seen[d] = struct{}{}
		dirs = append(dirs, d)
	}
	for f := range w.files {
		add(filepath.Dir(f))
	}
	for d := range w.dirs {
		add(d)
	}
	return dirs
}

func (w *Watcher) loop(ctx context.Context, fsw *fsnotify.Watcher, out chan<- Change, debounce time.Duration) {
	defer close(out)

	pending := make(map[string]ChangeType)
	var timer *time.Timer
	var fire <-chan time.Time

	flush := func() bool {
		for path, typ := range pending {
			select {
			case out <- Change{Path: path, Type: typ}:
			case <-ctx.Done():
				return false
			}
		}
		clear(pending)
		return true
	}

	for {
		select {
		case <-ctx.Done():
			return

		case ev, ok := <-fsw.Events:
			if !ok {
				return
			}
			change := w.handleEvent(ev)
			if change == nil {
				continue
			}
			pending[change.Path] = change.Type
			if debounce <= 0 {
				if !flush() {
					return
				}
				continue
			}
			if timer == nil {
				timer = time.NewTimer(debounce)
			} else {
				if !timer.Stop() {
					select {
					case <-timer.C:
					default:
					}
				}
				timer.Reset(debounce)
			}
			fire = timer.C

		case <-fire:
			fire = nil
			if !flush() {
				return
			}

		case err, ok := <-fsw.Errors:
			if !ok {
				return
			}
			logger.Warn("watch: %v", err)
		}
	}
}

// handleEvent maps an fsnotify event to a change on a watched path, or
// nil when the event is irrelevant.
func (w *Watcher) handleEvent(ev fsnotify.Event) *Change {
	path, err := filepath.Abs(ev.Name)
	if err != nil {
		return nil
	}
	if !w.isWatched(path) {
		return nil
	}

	switch {
	case ev.Op.Has(fsnotify.Remove), ev.Op.Has(fsnotify.Rename):
		return &Change{Path: path, Type: ChangeRemoved}
	case ev.Op.Has(fsnotify.Create), ev.Op.Has(fsnotify.Write):
		if info, err := os.Stat(path); err == nil && info.IsDir() {
			return nil
		}
		return &Change{Path: path, Type: ChangeUpdated}
	default:
		return nil
	}
}

func (w *Watcher) isWatched(path string) bool {
	w.mu.Lock()
	defer w.mu.Unlock()

	if _, ok := w.files[path]; ok {
		return true
	}
	if strings.HasPrefix(filepath.Base(path), ".") {
		return false
	}
	_, ok := w.dirs[filepath.Dir(path)]
	return ok
}
