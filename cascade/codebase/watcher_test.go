package codebase

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const eventually = 5 * time.Second

func startWatcher(t *testing.T, c *Codebase) *FileWatcher {
	t.Helper()
	w, err := NewFileWatcher(c)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Watch(ctx) }()
	t.Cleanup(func() {
		cancel()
		assert.NoError(t, <-done)
	})
	return w
}

func TestFileWatcherTracksChanges(t *testing.T) {
	p := newProject(t, map[string]string{"a.cas": "type a_t;"})
	c := New(p)
	require.NoError(t, c.ScanAll(context.Background()))

	w := startWatcher(t, c)
	var mu sync.Mutex
	var changed []string
	w.OnChange(func(paths []string) {
		mu.Lock()
		changed = append(changed, paths...)
		mu.Unlock()
	})

	b := filepath.Join(p.RootDir, "b.cas")
	// The watch is registered asynchronously; keep writing until seen.
	require.Eventually(t, func() bool {
		assert.NoError(t, os.WriteFile(b, []byte("type b_t"), 0o644))
		return c.GetFile(b) != nil
	}, eventually, 50*time.Millisecond)
	require.Eventually(t, func() bool {
		f := c.GetFile(b)
		return f != nil && len(f.Errors) == 1
	}, eventually, 10*time.Millisecond)

	require.NoError(t, os.WriteFile(b, []byte("type b_t;"), 0o644))
	require.Eventually(t, func() bool {
		f := c.GetFile(b)
		return f != nil && len(f.Errors) == 0
	}, eventually, 10*time.Millisecond)

	require.NoError(t, os.Remove(b))
	require.Eventually(t, func() bool { return c.GetFile(b) == nil }, eventually, 10*time.Millisecond)

	mu.Lock()
	assert.Contains(t, changed, b)
	mu.Unlock()
	assert.NotNil(t, c.GetFile(filepath.Join(p.RootDir, "a.cas")))
}

func TestFileWatcherIgnoresOtherFiles(t *testing.T) {
	p := newProject(t, nil)
	c := New(p)
	startWatcher(t, c)

	sentinel := filepath.Join(p.RootDir, "sentinel.cas")
	require.Eventually(t, func() bool {
		assert.NoError(t, os.WriteFile(filepath.Join(p.RootDir, "notes.txt"), []byte("type x;"), 0o644))
		assert.NoError(t, os.WriteFile(sentinel, []byte("type s_t;"), 0o644))
		return c.GetFile(sentinel) != nil
	}, eventually, 50*time.Millisecond)

	assert.Nil(t, c.GetFile(filepath.Join(p.RootDir, "notes.txt")))
}

func TestFileWatcherNewDirectory(t *testing.T) {
	p := newProject(t, nil)
	c := New(p)
	startWatcher(t, c)

	nested := filepath.Join(p.RootDir, "nested", "deep.cas")
	require.Eventually(t, func() bool {
		assert.NoError(t, os.MkdirAll(filepath.Dir(nested), 0o755))
		assert.NoError(t, os.WriteFile(nested, []byte("type d_t;"), 0o644))
		return c.GetFile(nested) != nil
	}, eventually, 50*time.Millisecond)
}

func TestDebouncer(t *testing.T) {
	d := NewDebouncer(20 * time.Millisecond)
	var calls atomic.Int32
	for range 5 {
		d.Trigger(func() { calls.Add(1) })
	}
	require.Eventually(t, func() bool { return calls.Load() == 1 }, eventually, 5*time.Millisecond)
	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, int32(1), calls.Load())
}

func TestDebouncerStop(t *testing.T) {
	d := NewDebouncer(20 * time.Millisecond)
	var calls atomic.Int32
	d.Trigger(func() { calls.Add(1) })
	d.Stop()
	d.Trigger(func() { calls.Add(1) })
	time.Sleep(60 * time.Millisecond)
	assert.Zero(t, calls.Load())
}
