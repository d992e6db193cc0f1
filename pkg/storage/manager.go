package storage

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"vkbackup/pkg/logger"
)

// Manager writes photos into one local directory
type Manager struct {
	dir     string
	fetcher *Fetcher
	logger  logger.Logger
}

// NewManager creates a manager for dir, creating it and its parents
func NewManager(dir string, fetcher *Fetcher, log logger.Logger) (*Manager, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}
	if fetcher == nil {
		fetcher = NewFetcher(nil, log)
	}
	if log == nil {
		log = logger.GetLogger()
	}

	return &Manager{
		dir:     dir,
		fetcher: fetcher,
		logger:  log.WithField("component", "storage"),
	}, nil
}

// Dir returns the output directory path
func (m *Manager) Dir() string {
	return m.dir
}

// SavePhoto writes r to fileName through a temporary file and an atomic
// rename, replacing any previous file of that name. It returns the
// final path.
func (m *Manager) SavePhoto(r io.Reader, fileName string) (string, error) {
	if fileName == "" || fileName != filepath.Base(fileName) {
		return "", fmt.Errorf("invalid file name %q", fileName)
	}

	target := filepath.Join(m.dir, fileName)
	tempFile := target + ".tmp"

	out, err := os.Create(tempFile)
	if err != nil {
		return "", fmt.Errorf("failed to create temporary file: %w", err)
	}

	_, err = io.Copy(out, r)
	closeErr := out.Close()

	if err != nil {
		os.Remove(tempFile)
		return "", fmt.Errorf("failed to save photo data: %w", err)
	}
	if closeErr != nil {
		os.Remove(tempFile)
		return "", fmt.Errorf("failed to close file: %w", closeErr)
	}

	if err := os.Rename(tempFile, target); err != nil {
		os.Remove(tempFile)
		return "", fmt.Errorf("failed to rename temporary file: %w", err)
	}

	return target, nil
}

// SaveFromURL downloads photoURL and stores it as fileName
func (m *Manager) SaveFromURL(photoURL, fileName string) (string, error) {
	body, _, err := m.fetcher.Open(photoURL)
	if err != nil {
		return "", err
	}
	defer body.Close()

	path, err := m.SavePhoto(body, fileName)
	if err != nil {
		m.logger.WithError(err).WithField("file_name", fileName).Error("Failed to write photo")
		return "", err
	}

	m.logger.DebugWithFields("Photo written", map[string]interface{}{
		"path": path,
	})
	return path, nil
}
