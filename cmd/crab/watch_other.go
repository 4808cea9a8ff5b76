//go:build !linux

package main

import (
	"os"
	"path/filepath"
	"time"
)

// watcher is the portable fallback: poll modification times once a second.
type watcher struct {
	files    map[string]time.Time
	onChange func(string)
	done     chan struct{}
}

func newWatcher(onChange func(string)) (*watcher, error) {
	return &watcher{
		files:    make(map[string]time.Time),
		onChange: onChange,
		done:     make(chan struct{}),
	}, nil
}

func (w *watcher) AddFile(path string) error {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return err
	}
	info, err := os.Stat(absPath)
	if err != nil {
		return err
	}
	w.files[absPath] = info.ModTime()
	return nil
}

func (w *watcher) Watch() {
	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()
	for {
		select {
		case <-w.done:
			return
		case <-ticker.C:
			for path, seen := range w.files {
				info, err := os.Stat(path)
				if err != nil {
					continue
				}
				if mt := info.ModTime(); mt.After(seen) {
					w.files[path] = mt
					w.onChange(path)
				}
			}
		}
	}
}

func (w *watcher) Close() error {
	close(w.done)
	return nil
}
