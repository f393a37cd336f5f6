package game

import (
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Watcher monitors the solutions tree and reports batches of solution files
// that changed on disk, so their cached status can be invalidated.
type Watcher struct {
	Dir     string
	Ext     string
	Changes <-chan []string // Read-only external channel

	changes chan []string
	stop    chan struct{}
	done    chan struct{}
	watcher *fsnotify.Watcher
}

// NewWatcher creates a watcher for solution files with extension ext under dir.
func NewWatcher(dir, ext string) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	ch := make(chan []string, 16)
	return &Watcher{
		Dir:     dir,
		Ext:     ext,
		Changes: ch,
		changes: ch,
		stop:    make(chan struct{}),
		done:    make(chan struct{}),
		watcher: fw,
	}, nil
}

// Start adds every directory under Dir and begins watching.
func (w *Watcher) Start() error {
	err := filepath.WalkDir(w.Dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return w.watcher.Add(path)
		}
		return nil
	})
	if err != nil {
		return err
	}

	go w.loop()
	return nil
}

// Stop closes the watcher and the Changes channel.
func (w *Watcher) Stop() {
	close(w.stop)
	w.watcher.Close()
	<-w.done
	close(w.changes)
}

func (w *Watcher) loop() {
	defer close(w.done)

	// Debounce: track last event time per file.
	const debounce = 100 * time.Millisecond
	pending := make(map[string]time.Time)
	ticker := time.NewTicker(debounce)
	defer ticker.Stop()

	for {
		select {
		case <-w.stop:
			return

		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if event.Has(fsnotify.Create) {
				if fi, err := os.Stat(event.Name); err == nil && fi.IsDir() {
					// New world directory; errors only mean it vanished again.
					_ = w.watcher.Add(event.Name)
					continue
				}
			}
			if !w.isSolutionFile(event.Name) {
				continue
			}
			if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) ||
				event.Has(fsnotify.Remove) || event.Has(fsnotify.Rename) {
				pending[event.Name] = time.Now()
			}

		case now := <-ticker.C:
			var ready []string
			for file, t := range pending {
				if now.Sub(t) >= debounce {
					ready = append(ready, file)
					delete(pending, file)
				}
			}
			if len(ready) == 0 {
				continue
			}
			sort.Strings(ready)
			select {
			case w.changes <- ready:
			case <-w.stop:
				return
			}

		case _, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			// Ignore watch errors; they're non-fatal.
		}
	}
}

func (w *Watcher) isSolutionFile(name string) bool {
	base := filepath.Base(name)
	if strings.HasPrefix(base, ".") {
		return false
	}
	return filepath.Ext(base) == w.Ext
}
