package auth

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
)

// TokenStore is the interface for persisting API tokens between runs
type TokenStore interface {
	// Set saves the token stored under name
	Set(name, value string) error

	// Get returns the token stored under name
	Get(name string) (string, error)

	// Delete removes the token stored under name
	Delete(name string) error
}

// Errors
var (
	ErrTokenNotFound    = errors.New("token not found")
	ErrInvalidToken     = errors.New("invalid token")
	ErrStoreUnavailable = errors.New("token store unavailable")
)

// Manager chains token stores: the system keychain when available,
// then an encrypted file in the user's config directory
type Manager struct {
	stores []TokenStore
}

// NewManager creates a manager with the default backends
func NewManager() (*Manager, error) {
	var stores []TokenStore

	if keyringStore, err := NewKeyringStore(); err == nil {
		stores = append(stores, keyringStore)
	}

	configDir, err := getConfigDir()
	if err != nil {
		return nil, fmt.Errorf("failed to get config directory: %w", err)
	}

	encryptedStore, err := NewEncryptedFileStore(filepath.Join(configDir, "tokens.enc"))
	if err != nil {
		return nil, fmt.Errorf("failed to create encrypted store: %w", err)
	}
	stores = append(stores, encryptedStore)

	return &Manager{stores: stores}, nil
}

// NewManagerWithStores creates a manager over explicit backends, tried in order
func NewManagerWithStores(stores ...TokenStore) *Manager {
	return &Manager{stores: stores}
}

// Store saves the token in the first backend that accepts it and removes
// stale copies from the backends after it, so Token never returns an old value.
func (m *Manager) Store(name, value string) error {
	value = strings.TrimSpace(value)
	if name == "" || value == "" {
		return ErrInvalidToken
	}

	var lastErr error
	for i, store := range m.stores {
		err := store.Set(name, value)
		if err == nil {
			m.purge(name, m.stores[i+1:])
			return nil
		}
		lastErr = err
	}

	if lastErr != nil {
		return fmt.Errorf("failed to store token: %w", lastErr)
	}
	return ErrStoreUnavailable
}

// Token returns the token from the first backend that has it
func (m *Manager) Token(name string) (string, error) {
	for _, store := range m.stores {
		if value, err := store.Get(name); err == nil && value != "" {
			return value, nil
		}
	}
	return "", fmt.Errorf("%w: %s", ErrTokenNotFound, name)
}

// purge drops name from the given backends. Failures are not fatal since
// the fresh value already sits in an earlier backend.
func (m *Manager) purge(name string, stores []TokenStore) {
	for _, store := range stores {
		_ = store.Delete(name)
	}
}

// getConfigDir returns the per-user configuration directory, creating it
func getConfigDir() (string, error) {
	var configDir string

	switch runtime.GOOS {
	case "darwin":
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		configDir = filepath.Join(home, "Library", "Application Support", "vkbackup")
	case "windows":
		configDir = filepath.Join(os.Getenv("APPDATA"), "vkbackup")
	default:
		if xdgConfig := os.Getenv("XDG_CONFIG_HOME"); xdgConfig != "" {
			configDir = filepath.Join(xdgConfig, "vkbackup")
		} else {
			home, err := os.UserHomeDir()
			if err != nil {
				return "", err
			}
			configDir = filepath.Join(home, ".config", "vkbackup")
		}
	}

	if err := os.MkdirAll(configDir, 0700); err != nil {
		return "", fmt.Errorf("failed to create config directory: %w", err)
	}

	return configDir, nil
}
