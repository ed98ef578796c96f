// Package destination is where rendered documents are written.
package destination

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"maps"
	"os"
	"path/filepath"
	"slices"
	"sync"

	"git.home.luguber.info/inful/docrender/internal/retry"
)

// Sink accepts rendered content keyed by target path. Put overwrites existing content.
type Sink interface {
	Put(ctx context.Context, path string, content []byte) error
}

// WriteError reports a failed Put for a single target.
type WriteError struct {
	Path string
	Err  error
}

func (e *WriteError) Error() string { return fmt.Sprintf("write %s: %v", e.Path, e.Err) }
func (e *WriteError) Unwrap() error { return e.Err }

// FSSink writes targets to the local filesystem, creating parent directories.
type FSSink struct {
	policy  retry.Policy
	onRetry func(path string, err error)
	mu      sync.Mutex
	written []string
}

// FSOption configures an FSSink.
type FSOption func(*FSSink)

// WithPolicy sets the retry policy for transient write failures.
func WithPolicy(p retry.Policy) FSOption {
	return func(s *FSSink) { s.policy = p }
}

// WithRetryHook is called before each retry.
func WithRetryHook(fn func(path string, err error)) FSOption {
	return func(s *FSSink) { s.onRetry = fn }
}

// NewFSSink creates a filesystem sink.
func NewFSSink(opts ...FSOption) *FSSink {
	s := &FSSink{policy: retry.DefaultPolicy()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Put writes content to path.
func (s *FSSink) Put(ctx context.Context, path string, content []byte) error {
	if err := ctx.Err(); err != nil {
		return &WriteError{Path: path, Err: err}
	}
	var last error
	err := s.policy.Do(ctx, func() error {
		if last != nil && s.onRetry != nil {
			s.onRetry(path, last)
		}
		last = writeFile(path, content)
		return last
	}, isTransient)
	if err != nil {
		return &WriteError{Path: path, Err: err}
	}
	s.mu.Lock()
	s.written = append(s.written, path)
	s.mu.Unlock()
	return nil
}

// Written lists targets written so far, in write order.
func (s *FSSink) Written() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.written)
}

func writeFile(path string, content []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return fmt.Errorf("create directory: %w", err)
	}
	return os.WriteFile(path, content, 0o600)
}

// isTransient rejects failures a retry cannot fix.
func isTransient(err error) bool {
	switch {
	case errors.Is(err, fs.ErrPermission),
		errors.Is(err, fs.ErrInvalid),
		errors.Is(err, fs.ErrExist),
		errors.Is(err, fs.ErrNotExist),
		errors.Is(err, context.Canceled),
		errors.Is(err, context.DeadlineExceeded):
		return false
	}
	var pathErr *fs.PathError
	if errors.As(err, &pathErr) && pathErr.Op == "mkdir" {
		return false
	}
	return true
}

// MemorySink keeps written content in memory.
type MemorySink struct {
	mu    sync.RWMutex
	files map[string][]byte
	order []string
	// Fail, when set, is consulted before each write.
	Fail func(path string) error
}

// NewMemorySink creates an empty in-memory sink.
func NewMemorySink() *MemorySink {
	return &MemorySink{files: make(map[string][]byte)}
}

func (m *MemorySink) Put(ctx context.Context, path string, content []byte) error {
	if err := ctx.Err(); err != nil {
		return &WriteError{Path: path, Err: err}
	}
	if m.Fail != nil {
		if err := m.Fail(path); err != nil {
			return &WriteError{Path: path, Err: err}
		}
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.files[path]; !ok {
		m.order = append(m.order, path)
	}
	m.files[path] = slices.Clone(content)
	return nil
}

// Get returns the content written to path.
func (m *MemorySink) Get(path string) ([]byte, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	b, ok := m.files[path]
	return b, ok
}

// Paths lists written paths in first-write order.
func (m *MemorySink) Paths() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return slices.Clone(m.order)
}

// Files returns a copy of everything written.
func (m *MemorySink) Files() map[string][]byte {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return maps.Clone(m.files)
}

// Len reports the number of distinct paths written.
func (m *MemorySink) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.files)
}
