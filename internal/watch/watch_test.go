package watch

import (
	"context"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestDebouncerCoalesces(t *testing.T) {
	out := make(chan struct{}, 1)
	trigger := debouncer(20*time.Millisecond, out)
	for range 5 {
		trigger()
	}
	select {
	case <-out:
	case <-time.After(time.Second):
		t.Fatal("debounced trigger never fired")
	}
	select {
	case <-out:
		t.Fatal("expected a single signal")
	case <-time.After(60 * time.Millisecond):
	}
}

func TestIgnored(t *testing.T) {
	require.True(t, ignored("/docs/.index.md.swp"))
	require.True(t, ignored("/docs/index.md~"))
	require.False(t, ignored("/docs/index.md"))
}

func TestRun_RebuildsOnChange(t *testing.T) {
	root := t.TempDir()
	var rebuilds atomic.Int32
	w := New([]string{root}, 20*time.Millisecond, func(context.Context) error {
		rebuilds.Add(1)
		return nil
	}, nil)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()

	require.Eventually(t, func() bool {
		_ = os.WriteFile(filepath.Join(root, "index.md"), []byte("# x\n"), 0o600)
		return rebuilds.Load() > 0
	}, 5*time.Second, 100*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("watcher did not stop")
	}
}

func TestRun_MissingRoot(t *testing.T) {
	w := New([]string{filepath.Join(t.TempDir(), "missing")}, 0, func(context.Context) error { return nil }, nil)
	require.Error(t, w.Run(context.Background()))
}
