package loader

import (
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// Watcher invalidates cached templates when model files change on disk.
// Changes to a .gltf/.glb file drop that template; changes to any other file (buffers, images)
// drop the whole cache because a template's external resources are not tracked.
type Watcher struct {
	watcher *fsnotify.Watcher
	loader  Loader
	root    string
	log     *zap.Logger
	closeCh chan struct{}
	done    chan struct{}
	once    sync.Once
}

// NewWatcher starts watching root and every directory below it.
//
// Parameters:
//   - l: the loader whose cache is invalidated
//   - root: the base directory the loader is rooted at
//   - log: logger for watch errors; nil disables logging
//
// Returns:
//   - *Watcher: the running watcher
//   - error: error if the directory tree cannot be watched
func NewWatcher(l Loader, root string, log *zap.Logger) (*Watcher, error) {
	if log == nil {
		log = zap.NewNop()
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	err = filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return w.Add(p)
		}
		return nil
	})
	if err != nil {
		_ = w.Close()
		return nil, err
	}

	watcher := &Watcher{
		watcher: w,
		loader:  l,
		root:    root,
		log:     log,
		closeCh: make(chan struct{}),
		done:    make(chan struct{}),
	}
	go watcher.run()
	return watcher, nil
}

// Close stops the watcher and waits for its goroutine to exit.
//
// Returns:
//   - error: error from closing the underlying watcher
func (w *Watcher) Close() error {
	var err error
	w.once.Do(func() {
		close(w.closeCh)
		err = w.watcher.Close()
		<-w.done
	})
	return err
}

func (w *Watcher) run() {
	defer close(w.done)

	last := make(map[string]time.Time)
	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename|fsnotify.Remove) == 0 {
				continue
			}
			now := time.Now()
			if t, ok := last[event.Name]; ok && now.Sub(t) < 100*time.Millisecond {
				continue
			}
			last[event.Name] = now
			w.handle(event)
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.log.Warn("model watcher error", zap.Error(err))
		case <-w.closeCh:
			return
		}
	}
}

// handle maps one filesystem event onto the cache.
func (w *Watcher) handle(event fsnotify.Event) {
	if event.Op&fsnotify.Create != 0 && isDir(event.Name) {
		if err := w.watcher.Add(event.Name); err != nil {
			w.log.Warn("model watcher cannot follow directory", zap.String("dir", event.Name), zap.Error(err))
		}
		return
	}

	rel, err := filepath.Rel(w.root, event.Name)
	if err != nil {
		return
	}

	if isModelFile(rel) {
		w.loader.Invalidate(rel)
		w.log.Debug("model changed", zap.String("path", filepath.ToSlash(rel)), zap.Stringer("op", event.Op))
		return
	}
	w.loader.Clear()
	w.log.Debug("model resource changed, cache cleared", zap.String("path", filepath.ToSlash(rel)))
}

func isModelFile(p string) bool {
	ext := strings.ToLower(filepath.Ext(p))
	return ext == ".gltf" || ext == ".glb"
}

func isDir(p string) bool {
	info, err := os.Stat(p)
	return err == nil && info.IsDir()
}
