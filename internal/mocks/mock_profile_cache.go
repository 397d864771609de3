package mocks

import (
	"sync"

	"github.com/harshhujare/urban-frontend/domain"
)

// MockProfileCache implements domain.ProfileCache interface for testing.
// Without overrides it behaves like a real in-memory record, so tests can
// assert what ends up cached.
type MockProfileCache struct {
	ReadFunc  func() (*domain.User, error)
	WriteFunc func(user *domain.User) error
	ClearFunc func() error

	mu     sync.Mutex
	stored *domain.User
}

// NewMockProfileCache creates a new MockProfileCache with default behaviors
func NewMockProfileCache() *MockProfileCache {
	return &MockProfileCache{}
}

// Seed places a record in the in-memory store.
func (m *MockProfileCache) Seed(user *domain.User) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.stored = user
}

// Stored returns the current in-memory record, nil when absent.
func (m *MockProfileCache) Stored() *domain.User {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.stored
}

// Read returns the cached record
func (m *MockProfileCache) Read() (*domain.User, error) {
	if m.ReadFunc != nil {
		return m.ReadFunc()
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.stored == nil {
		return nil, domain.ErrCacheMiss
	}
	return m.stored, nil
}

// Write overwrites the cached record
func (m *MockProfileCache) Write(user *domain.User) error {
	if m.WriteFunc != nil {
		return m.WriteFunc(user)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.stored = user
	return nil
}

// Clear deletes the cached record
func (m *MockProfileCache) Clear() error {
	if m.ClearFunc != nil {
		return m.ClearFunc()
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.stored = nil
	return nil
}
