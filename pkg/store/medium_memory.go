package store

import (
	"context"
	"sync"

	"github.com/pkg/errors"
)

// MemoryMedium keeps the slot in process memory.
type MemoryMedium struct {
	mu      sync.RWMutex
	content string
	set     bool
	closed  bool
}

var _ Medium = (*MemoryMedium)(nil)

func NewMemoryMedium() *MemoryMedium {
	return &MemoryMedium{}
}

// NewMemoryMediumWithContent returns a medium whose slot already holds content.
func NewMemoryMediumWithContent(content string) *MemoryMedium {
	return &MemoryMedium{content: content, set: true}
}

func (m *MemoryMedium) Read(_ context.Context) (string, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.closed {
		return "", false, errors.New("memory medium closed")
	}
	return m.content, m.set, nil
}

func (m *MemoryMedium) Write(_ context.Context, content string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return errors.New("memory medium closed")
	}
	m.content = content
	m.set = true
	return nil
}

func (m *MemoryMedium) Remove(_ context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return errors.New("memory medium closed")
	}
	m.content = ""
	m.set = false
	return nil
}

func (m *MemoryMedium) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	return nil
}
