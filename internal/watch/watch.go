// Package watch reports changes to a fixed set of files using OS-native
// notifications.
package watch

import (
	"context"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Watcher reports writes, creations and renames of watched files. It watches
// the containing directories so editors that replace a file atomically are
// still observed.
type Watcher struct {
	w      *fsnotify.Watcher
	files  map[string]bool
	settle time.Duration
	evC    chan string
	erC    chan error
}

// New watches files. Bursts of events for one file within settle are
// reported once, after the burst.
func New(files []string, settle time.Duration) (*Watcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	fw := &Watcher{
		w:      w,
		files:  make(map[string]bool),
		settle: settle,
		evC:    make(chan string, 64),
		erC:    make(chan error, 1),
	}
	dirs := make(map[string]bool)
	for _, f := range files {
		abs, err := filepath.Abs(f)
		if err != nil {
			w.Close()
			return nil, err
		}
		fw.files[abs] = true
		dirs[filepath.Dir(abs)] = true
	}
	for d := range dirs {
		if err := w.Add(d); err != nil {
			w.Close()
			return nil, err
		}
	}
	return fw, nil
}

// Changes returns the channel of changed file paths (absolute).
func (fw *Watcher) Changes() <-chan string { return fw.evC }

// Errors returns the channel of watcher errors.
func (fw *Watcher) Errors() <-chan error { return fw.erC }

// Run delivers events until ctx is done, then closes the watcher.
func (fw *Watcher) Run(ctx context.Context) {
	defer fw.w.Close()
	defer close(fw.evC)

	pending := make(map[string]time.Time)
	tick := time.NewTicker(fw.tickInterval())
	defer tick.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-fw.w.Events:
			if !ok {
				return
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			abs, err := filepath.Abs(ev.Name)
			if err != nil || !fw.files[abs] {
				continue
			}
			pending[abs] = time.Now()
		case err, ok := <-fw.w.Errors:
			if !ok {
				return
			}
			select {
			case fw.erC <- err:
			default:
			}
		case now := <-tick.C:
			for path, last := range pending {
				if now.Sub(last) < fw.settle {
					continue
				}
				delete(pending, path)
				select {
				case fw.evC <- path:
				case <-ctx.Done():
					return
				}
			}
		}
	}
}

func (fw *Watcher) tickInterval() time.Duration {
	if d := fw.settle / 4; d > time.Millisecond {
		return d
	}
	return time.Millisecond
}
