package prefabs

import (
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

const watchDebounce = 100 * time.Millisecond

// Change is one debounced edit to a prefab or script file.
type Change struct {
	Path   string
	Script bool
}

// Name is the file name relative to the prefab directory, as Load and
// LoadScript expect it.
func (c Change) Name() string {
	return filepath.Base(c.Path)
}

// Watcher forwards prefab edits from fsnotify. Consumers drain Events on
// their own goroutine; nothing here touches the world.
type Watcher struct {
	watcher *fsnotify.Watcher
	Events  chan Change
	Errors  chan error
	closeCh chan struct{}
	once    sync.Once
	now     func() time.Time
}

func NewWatcher(dirs ...string) (*Watcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	for _, dir := range dirs {
		if err := w.Add(dir); err != nil {
			_ = w.Close()
			return nil, err
		}
	}

	watcher := &Watcher{
		watcher: w,
		Events:  make(chan Change, 16),
		Errors:  make(chan error, 1),
		closeCh: make(chan struct{}),
		now:     time.Now,
	}
	go watcher.run()
	return watcher, nil
}

func (w *Watcher) Close() error {
	var err error
	w.once.Do(func() {
		close(w.closeCh)
		err = w.watcher.Close()
	})
	return err
}

func (w *Watcher) run() {
	defer close(w.Events)
	defer close(w.Errors)

	last := make(map[string]time.Time)
	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			change, ok := classify(event)
			if !ok {
				continue
			}
			now := w.now()
			if t, seen := last[change.Path]; seen && now.Sub(t) < watchDebounce {
				continue
			}
			last[change.Path] = now
			select {
			case w.Events <- change:
			case <-w.closeCh:
				return
			}
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			select {
			case w.Errors <- err:
			default:
			}
		case <-w.closeCh:
			return
		}
	}
}

func classify(event fsnotify.Event) (Change, bool) {
	if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
		return Change{}, false
	}
	switch {
	case isSpecFile(event.Name):
		return Change{Path: event.Name}, true
	case isScriptFile(event.Name):
		return Change{Path: event.Name, Script: true}, true
	}
	return Change{}, false
}

func isSpecFile(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	return ext == ".yaml" || ext == ".yml"
}

func isScriptFile(path string) bool {
	return strings.ToLower(filepath.Ext(path)) == ".tengo"
}
