package auth

import "sync"

// MockStore implements TokenStore in memory for tests
type MockStore struct {
	tokens map[string]string
	mu     sync.RWMutex

	// Error injection for testing
	SetError    error
	GetError    error
	DeleteError error
}

// NewMockStore creates a new in-memory token store
func NewMockStore() *MockStore {
	return &MockStore{tokens: make(map[string]string)}
}

// NewMockManager creates a Manager backed by a single MockStore
func NewMockManager() (*Manager, *MockStore) {
	store := NewMockStore()
	return NewManagerWithStores(store), store
}

func (m *MockStore) Set(name, value string) error {
	if m.SetError != nil {
		return m.SetError
	}
	if name == "" || value == "" {
		return ErrInvalidToken
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.tokens[name] = value
	return nil
}

func (m *MockStore) Get(name string) (string, error) {
	if m.GetError != nil {
		return "", m.GetError
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	value, ok := m.tokens[name]
	if !ok {
		return "", ErrTokenNotFound
	}
	return value, nil
}

func (m *MockStore) Delete(name string) error {
	if m.DeleteError != nil {
		return m.DeleteError
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.tokens[name]; !ok {
		return ErrTokenNotFound
	}
	delete(m.tokens, name)
	return nil
}

// Count returns the number of stored tokens
func (m *MockStore) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.tokens)
}
