package config

import (
	"fmt"

	"github.com/fsnotify/fsnotify"
)

// ReloadFunc is called with the freshly reloaded File whenever Watcher
// observes a write to the watched path. NewWatcher returns an error only
// when the path cannot be watched; a reload that fails (e.g. malformed
// file contents) is sent to Errors() instead of stopping the watch, and is
// dropped if that channel's buffer is full.
type ReloadFunc func(*File)

// Watcher watches a single config file for writes and reloads it,
// invoking a callback on every successful reload. Typical wiring: the
// callback performs a soft Interrupt()+Run() cycle on the pools/timers
// the config describes, picking up the new worker counts or intervals.
type Watcher struct {
	path    string
	fsw     *fsnotify.Watcher
	onLoad  ReloadFunc
	errs    chan error
	closeCh chan struct{}
}

// NewWatcher starts watching path and returns a Watcher. Call Close to
// stop watching.
func NewWatcher(path string, onLoad ReloadFunc) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("config: creating watcher: %w", err)
	}
	if err := fsw.Add(path); err != nil {
		fsw.Close()
		return nil, fmt.Errorf("config: watching %s: %w", path, err)
	}

	w := &Watcher{
		path:    path,
		fsw:     fsw,
		onLoad:  onLoad,
		errs:    make(chan error, 8),
		closeCh: make(chan struct{}),
	}
	go w.run()
	return w, nil
}

// Errors returns a channel of errors encountered while reloading the
// watched file (e.g. malformed YAML/TOML after a write).
func (w *Watcher) Errors() <-chan error {
	return w.errs
}

func (w *Watcher) run() {
	for {
		select {
		case ev, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			file, err := Load(w.path)
			if err != nil {
				select {
				case w.errs <- err:
				default:
				}
				continue
			}
			w.onLoad(file)
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			select {
			case w.errs <- err:
			default:
			}
		case <-w.closeCh:
			return
		}
	}
}

// Close stops the watch.
func (w *Watcher) Close() error {
	close(w.closeCh)
	return w.fsw.Close()
}
