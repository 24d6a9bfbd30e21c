package codebase

import (
	"context"
	"os"
	"testing"
	"time"

	"gotest.tools/v3/assert"
	"gotest.tools/v3/fs"
)

func TestFileWatcherScan(t *testing.T) {
	dir := fs.NewDir(t, "watch", fs.WithFile("a.php", "<?php f();"))
	c := New(dir.Path())

	changed := map[string]*File{}
	w := NewFileWatcher(c, 0, func(path string, f *File) {
		changed[path] = f
	})
	assert.Equal(t, w.pollInterval, time.Second)

	w.scan()
	assert.Equal(t, len(changed), 0)
	assert.Assert(t, c.GetFile(dir.Join("a.php")) != nil)

	later := time.Now().Add(time.Hour)
	assert.NilError(t, os.WriteFile(dir.Join("a.php"), []byte("<?php f("), 0o644))
	assert.NilError(t, os.Chtimes(dir.Join("a.php"), later, later))
	assert.NilError(t, os.WriteFile(dir.Join("b.php"), []byte("<?php"), 0o644))
	w.scan()
	assert.Assert(t, changed[dir.Join("a.php")] != nil)
	assert.Assert(t, len(changed[dir.Join("a.php")].Diagnostics()) > 0)
	assert.Assert(t, changed[dir.Join("b.php")] != nil)

	assert.NilError(t, os.Remove(dir.Join("b.php")))
	w.scan()
	f, seen := changed[dir.Join("b.php")]
	assert.Assert(t, seen && f == nil)
	assert.Assert(t, c.GetFile(dir.Join("b.php")) == nil)
}

func TestFileWatcherStartStop(t *testing.T) {
	dir := fs.NewDir(t, "watch-run", fs.WithFile("a.php", "<?php"))
	c := New(dir.Path())
	w := NewFileWatcher(c, 10*time.Millisecond, nil)
	w.Start()
	defer w.Stop()

	deadline := time.Now().Add(2 * time.Second)
	for c.GetFile(dir.Join("a.php")) == nil {
		if time.Now().After(deadline) {
			t.Fatal("watcher never scanned")
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func TestFileWatcherKeepsScannedFiles(t *testing.T) {
	dir := fs.NewDir(t, "watch-seeded",
		fs.WithFile("a.php", "<?php f();"),
		fs.WithFile("b.php", "<?php g();"),
	)
	c := New(dir.Path())
	assert.NilError(t, c.ScanAll(context.Background()))
	assert.Assert(t, !c.GetFile(dir.Join("b.php")).ModTime.IsZero())

	// An editor buffer opened after the scan must survive the first poll.
	buffer := c.UpdateFile(dir.Join("a.php"), []byte("<?php f(1);"))

	var changed []string
	w := NewFileWatcher(c, 0, func(path string, f *File) {
		changed = append(changed, path)
	})
	w.scan()
	assert.Equal(t, len(changed), 0)
	assert.Assert(t, c.GetFile(dir.Join("a.php")) == buffer)

	assert.NilError(t, os.WriteFile(dir.Join("c.php"), []byte("<?php"), 0o644))
	w.scan()
	assert.DeepEqual(t, changed, []string{dir.Join("c.php")})
}
