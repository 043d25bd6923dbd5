package main

import (
	"context"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/cartokit/carto"
)

// watchDebounce collapses the burst of events an editor save produces.
const watchDebounce = 300 * time.Millisecond

// profileWatcher calls onChange after the watched file settles.
type profileWatcher struct {
	watcher  *fsnotify.Watcher
	abs      string
	base     string
	debounce time.Duration
	onChange func()
}

func newProfileWatcher(path string, onChange func()) (*profileWatcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	// Editors replace files by rename, so the directory is watched.
	if err := w.Add(filepath.Dir(path)); err != nil {
		w.Close()
		return nil, err
	}
	abs, _ := filepath.Abs(path)
	return &profileWatcher{
		watcher:  w,
		abs:      abs,
		base:     filepath.Base(path),
		debounce: watchDebounce,
		onChange: onChange,
	}, nil
}

func (pw *profileWatcher) Close() error {
	return pw.watcher.Close()
}

func (pw *profileWatcher) matches(ev fsnotify.Event) bool {
	if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
		return false
	}
	if filepath.Base(ev.Name) == pw.base {
		return true
	}
	abs, _ := filepath.Abs(ev.Name)
	return abs == pw.abs
}

// Run blocks until ctx is done or the watcher is closed.
func (pw *profileWatcher) Run(ctx context.Context) {
	var (
		timer *time.Timer
		fire  <-chan time.Time
	)
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return

		case ev, ok := <-pw.watcher.Events:
			if !ok {
				return
			}
			if !pw.matches(ev) {
				continue
			}
			if timer != nil {
				timer.Stop()
			}
			timer = time.NewTimer(pw.debounce)
			fire = timer.C

		case <-fire:
			timer, fire = nil, nil
			pw.onChange()

		case err, ok := <-pw.watcher.Errors:
			if !ok {
				return
			}
			carto.Logger().Warn("profile watch", "err", err)
		}
	}
}
