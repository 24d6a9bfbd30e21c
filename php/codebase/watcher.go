package codebase

import (
	"os"
	"path/filepath"
	"strings"
	"time"
)

// FileWatcher polls the codebase root and reparses files whose modification
// time changed.
type FileWatcher struct {
	codebase     *Codebase
	stopCh       chan struct{}
	pollInterval time.Duration
	modTimes     map[string]time.Time
	onChange     func(path string, f *File)
	primed       bool
}

// NewFileWatcher creates a watcher. onChange, when non-nil, is called after
// each reparse, and with a nil File when a file disappears. Files already in
// the codebase, scanned or opened in an editor, are not reparsed until they
// change on disk; when there are any, the first scan reports new files too.
func NewFileWatcher(c *Codebase, interval time.Duration, onChange func(path string, f *File)) *FileWatcher {
	if interval <= 0 {
		interval = time.Second
	}
	w := &FileWatcher{
		codebase:     c,
		stopCh:       make(chan struct{}),
		pollInterval: interval,
		modTimes:     make(map[string]time.Time),
		onChange:     onChange,
	}
	w.primed = len(c.Paths()) > 0
	return w
}

func (w *FileWatcher) Start() {
	go w.run()
}

func (w *FileWatcher) Stop() {
	close(w.stopCh)
}

func (w *FileWatcher) run() {
	ticker := time.NewTicker(w.pollInterval)
	defer ticker.Stop()

	w.scan()

	for {
		select {
		case <-w.stopCh:
			return
		case <-ticker.C:
			w.scan()
		}
	}
}

func (w *FileWatcher) scan() {
	currentFiles := make(map[string]bool)

	filepath.Walk(w.codebase.RootDir(), func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return nil
		}
		if info.IsDir() {
			if path != w.codebase.RootDir() && strings.HasPrefix(info.Name(), ".") {
				return filepath.SkipDir
			}
			return nil
		}
		if !w.codebase.IsSource(path) {
			return nil
		}

		currentFiles[path] = true

		lastMod, known := w.modTimes[path]
		if !known {
			if f := w.codebase.GetFile(path); f != nil {
				lastMod, known = info.ModTime(), true
				if !f.ModTime.IsZero() {
					lastMod = f.ModTime
				}
				w.modTimes[path] = lastMod
			}
		}
		if !known || info.ModTime().After(lastMod) {
			w.modTimes[path] = info.ModTime()
			f, err := w.codebase.ScanFile(path)
			if err != nil {
				log.Errorf("%s", err)
				return nil
			}
			if w.primed && w.onChange != nil {
				w.onChange(path, f)
			}
		}
		return nil
	})

	for path := range w.modTimes {
		if !currentFiles[path] {
			delete(w.modTimes, path)
			w.codebase.RemoveFile(path)
			if w.onChange != nil {
				w.onChange(path, nil)
			}
		}
	}
	w.primed = true
}
