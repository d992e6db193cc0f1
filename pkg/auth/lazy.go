package auth

import (
	"fmt"
	"sync"
)

// LazyManager opens the default Manager on first use, so the keychain and
// the passphrase file are left alone when config already holds every token.
type LazyManager struct {
	open func() (*Manager, error)
	once sync.Once
	mgr  *Manager
	err  error
}

// NewLazyManager returns a LazyManager over NewManager
func NewLazyManager() *LazyManager {
	return &LazyManager{open: NewManager}
}

func (l *LazyManager) manager() (*Manager, error) {
	l.once.Do(func() {
		l.mgr, l.err = l.open()
	})
	if l.err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, l.err)
	}
	return l.mgr, nil
}

// Token returns the stored token, opening the backends if needed
func (l *LazyManager) Token(name string) (string, error) {
	m, err := l.manager()
	if err != nil {
		return "", err
	}
	return m.Token(name)
}

// Store saves the token, opening the backends if needed
func (l *LazyManager) Store(name, value string) error {
	m, err := l.manager()
	if err != nil {
		return err
	}
	return m.Store(name, value)
}
