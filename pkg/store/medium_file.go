package store

import (
	"context"
	"os"
	"path/filepath"
	"sync"

	"github.com/pkg/errors"
)

// FileMedium keeps the slot in a single file, replaced atomically on write.
type FileMedium struct {
	mu     sync.Mutex
	path   string
	closed bool
}

var _ Medium = (*FileMedium)(nil)

func NewFileMedium(path string) (*FileMedium, error) {
	if path == "" {
		return nil, errors.New("file medium path is required")
	}
	return &FileMedium{path: path}, nil
}

func (f *FileMedium) Path() string {
	return f.path
}

func (f *FileMedium) Read(_ context.Context) (string, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.closed {
		return "", false, errors.New("file medium closed")
	}

	b, err := os.ReadFile(f.path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", false, nil
		}
		return "", false, errors.Wrapf(err, "could not read %s", f.path)
	}
	return string(b), true, nil
}

func (f *FileMedium) Write(_ context.Context, content string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.closed {
		return errors.New("file medium closed")
	}

	if err := os.MkdirAll(filepath.Dir(f.path), 0o755); err != nil {
		return errors.Wrap(err, "could not create store directory")
	}
	tmpPath := f.path + ".tmp"
	if err := os.WriteFile(tmpPath, []byte(content), 0o600); err != nil {
		return errors.Wrapf(err, "could not write %s", tmpPath)
	}
	if err := os.Rename(tmpPath, f.path); err != nil {
		_ = os.Remove(tmpPath)
		return errors.Wrapf(err, "could not replace %s", f.path)
	}
	return nil
}

func (f *FileMedium) Remove(_ context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.closed {
		return errors.New("file medium closed")
	}

	err := os.Remove(f.path)
	if err != nil && !os.IsNotExist(err) {
		return errors.Wrapf(err, "could not remove %s", f.path)
	}
	return nil
}

func (f *FileMedium) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closed = true
	return nil
}
