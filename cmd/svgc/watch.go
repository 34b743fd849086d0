package main

import (
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Watcher is a wrapper for watching file changes in directories.
type Watcher struct {
	watcher   *fsnotify.Watcher
	dirs      map[string]bool
	paths     map[string]bool
	recursive bool

	mu     sync.Mutex
	ignore map[string]time.Time
}

// NewWatcher returns a new Watcher.
func NewWatcher(recursive bool) (*Watcher, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	return &Watcher{
		watcher:   watcher,
		dirs:      map[string]bool{},
		paths:     map[string]bool{},
		recursive: recursive,
		ignore:    map[string]time.Time{},
	}, nil
}

// Close closes the watcher.
func (w *Watcher) Close() error {
	return w.watcher.Close()
}

// Ignore suppresses change events for path for a short while, so that svgc's
// own writes do not trigger reprocessing. A single write surfaces as several
// events (rename, create, write), hence a time window rather than a count.
func (w *Watcher) Ignore(path string) {
	w.mu.Lock()
	w.ignore[filepath.Clean(path)] = time.Now().Add(2 * time.Second)
	w.mu.Unlock()
}

func (w *Watcher) ignored(path string) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	deadline, ok := w.ignore[path]
	if !ok {
		return false
	}
	if time.Now().Before(deadline) {
		return true
	}
	delete(w.ignore, path)
	return false
}

// AddPath adds a new file or directory to watch.
func (w *Watcher) AddPath(root string) error {
	root = filepath.Clean(root)
	w.paths[root] = true

	info, err := os.Lstat(root)
	if err != nil {
		return err
	}
	if info.Mode().IsRegular() {
		return w.addDir(filepath.Dir(root))
	}
	if !info.Mode().IsDir() {
		return nil
	}
	if !w.recursive {
		return w.addDir(root)
	}
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if d.IsDir() {
			if w.dirs[path] {
				return filepath.SkipDir
			}
			return w.addDir(path)
		}
		return nil
	})
}

func (w *Watcher) addDir(dir string) error {
	if w.dirs[dir] {
		return nil
	}
	if err := w.watcher.Add(dir); err != nil {
		return err
	}
	w.dirs[dir] = true
	return nil
}

// watched reports whether name equals or lies below one of the added paths.
func (w *Watcher) watched(name string) bool {
	for path := range w.paths {
		if path == name {
			return true
		}
		if rel, err := filepath.Rel(path, name); err == nil && !strings.HasPrefix(rel, "..") {
			return true
		}
	}
	return false
}

// Run watches for file changes and returns the changed filenames over the
// returned channel. The channel closes when the watcher is closed.
func (w *Watcher) Run() chan string {
	files := make(chan string, 10)
	go func() {
		changetimes := map[string]time.Time{}
		for w.watcher.Events != nil && w.watcher.Errors != nil {
			select {
			case event, ok := <-w.watcher.Events:
				if !ok {
					w.watcher.Events = nil
					break
				}
				name := filepath.Clean(event.Name)
				if w.ignored(name) || !w.watched(name) {
					break
				}
				info, err := os.Lstat(name)
				if err != nil {
					break
				}
				if info.Mode().IsDir() && w.recursive {
					if event.Op&fsnotify.Create == fsnotify.Create {
						if err := w.AddPath(name); err != nil {
							Error.Println(err)
						}
					}
				} else if info.Mode().IsRegular() {
					if event.Op&fsnotify.Write == fsnotify.Write {
						if t, ok := changetimes[name]; !ok || 100*time.Millisecond < time.Since(t) {
							time.Sleep(100 * time.Millisecond) // wait to ensure write is finished
							files <- name
							changetimes[name] = time.Now()
						}
					}
				}
			case err, ok := <-w.watcher.Errors:
				if !ok {
					w.watcher.Errors = nil
					break
				}
				Error.Println(err)
			}
		}
		close(files)
	}()
	return files
}
