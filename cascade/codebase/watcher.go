package codebase

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/tliron/commonlog"
)

// FileWatcher keeps a Codebase in sync with the source directories on
// disk. Changes are collected and applied in batches once no event has
// arrived for the debounce interval.
type FileWatcher struct {
	codebase *Codebase
	watcher  *fsnotify.Watcher
	debounce *Debouncer
	log      commonlog.Logger

	mu       sync.Mutex
	pending  map[string]bool
	onChange func(paths []string)
}

func NewFileWatcher(c *Codebase) (*FileWatcher, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create fsnotify watcher: %w", err)
	}
	return &FileWatcher{
		codebase: c,
		watcher:  watcher,
		debounce: NewDebouncer(c.project.Watch.Debounce),
		log:      commonlog.GetLogger("cascade.watcher"),
		pending:  make(map[string]bool),
	}, nil
}

// OnChange registers fn to be called with the paths of each applied
// batch. Paths no longer present in the codebase were removed.
func (w *FileWatcher) OnChange(fn func(paths []string)) {
	w.mu.Lock()
	w.onChange = fn
	w.mu.Unlock()
}

// Watch blocks until ctx is cancelled. The watcher cannot be reused
// afterwards.
func (w *FileWatcher) Watch(ctx context.Context) error {
	defer w.watcher.Close()
	defer w.debounce.Stop()

	for _, dir := range w.codebase.project.SourceDirs() {
		if err := w.addDirectory(dir); err != nil {
			return err
		}
	}
	w.log.Infof("watching %s", strings.Join(w.codebase.project.SourceDirs(), ", "))

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-w.watcher.Events:
			if !ok {
				return errors.New("watcher events channel closed")
			}
			w.handle(event)

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return errors.New("watcher errors channel closed")
			}
			w.log.Errorf("watch error: %s", err)
		}
	}
}

func (w *FileWatcher) handle(event fsnotify.Event) {
	if event.Op == fsnotify.Chmod {
		return
	}
	if strings.HasPrefix(filepath.Base(event.Name), ".") {
		return
	}

	// New directories are not watched recursively by fsnotify.
	if event.Has(fsnotify.Create) {
		if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
			if err := w.addDirectory(event.Name); err != nil {
				w.log.Warningf("%s", err)
			}
			return
		}
	}

	if !w.codebase.project.IsSource(event.Name) {
		return
	}
	w.log.Debugf("%s %s", event.Op, event.Name)

	w.mu.Lock()
	w.pending[event.Name] = true
	w.mu.Unlock()
	w.debounce.Trigger(w.flush)
}

// addDirectory watches dir and its subdirectories and queues the source
// files already inside them.
func (w *FileWatcher) addDirectory(dir string) error {
	return filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if path != dir && strings.HasPrefix(d.Name(), ".") {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if d.IsDir() {
			if err := w.watcher.Add(path); err != nil {
				return fmt.Errorf("watch directory %q: %w", path, err)
			}
			return nil
		}
		if w.codebase.project.IsSource(path) && w.codebase.GetFile(path) == nil {
			w.mu.Lock()
			w.pending[path] = true
			w.mu.Unlock()
			w.debounce.Trigger(w.flush)
		}
		return nil
	})
}

// flush applies every pending change. Whether a file was removed is
// decided by looking at the disk, since a burst of events may both
// create and remove the same path.
func (w *FileWatcher) flush() {
	w.mu.Lock()
	paths := make([]string, 0, len(w.pending))
	for path := range w.pending {
		paths = append(paths, path)
	}
	clear(w.pending)
	onChange := w.onChange
	w.mu.Unlock()

	if len(paths) == 0 {
		return
	}
	slices.Sort(paths)

	for _, path := range paths {
		if err := w.codebase.ScanFile(path); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				w.codebase.RemoveFile(path)
				w.log.Infof("removed %s", path)
				continue
			}
			w.log.Errorf("%s", err)
			continue
		}
		w.log.Infof("reparsed %s", path)
	}

	if onChange != nil {
		onChange(paths)
	}
}

// Debouncer delays a callback until no trigger has happened for the
// interval.
type Debouncer struct {
	interval time.Duration
	timer    *time.Timer
	mu       sync.Mutex
	callback func()
	stopped  bool
}

func NewDebouncer(interval time.Duration) *Debouncer {
	return &Debouncer{interval: interval}
}

// Trigger (re)starts the quiet period. The latest callback wins.
func (d *Debouncer) Trigger(callback func()) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.stopped {
		return
	}
	d.callback = callback
	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.interval, func() {
		d.mu.Lock()
		cb := d.callback
		if d.stopped {
			cb = nil
		}
		d.mu.Unlock()

		if cb != nil {
			cb()
		}
	})
}

// Stop cancels a pending callback. Later triggers are ignored.
func (d *Debouncer) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.stopped = true
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	d.callback = nil
}
