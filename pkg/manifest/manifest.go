package manifest

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"vkbackup/pkg/vk"
)

// Entry describes one saved photo
type Entry struct {
	FileName string `json:"file_name"`
	Size     string `json:"size"`
	Width    int    `json:"width"`
	Height   int    `json:"height"`
}

// FromSize builds the entry for a photo saved from the given rendition
func FromSize(fileName string, size vk.Size) Entry {
	return Entry{
		FileName: fileName,
		Size:     size.Type,
		Width:    size.Width,
		Height:   size.Height,
	}
}

// FileName returns the manifest file name for an owner
func FileName(ownerID int64) string {
	return "photos_info_" + strconv.FormatInt(ownerID, 10) + ".json"
}

// Encode renders entries as an indented JSON array. Non-ASCII text and
// HTML characters are written as is; no entries give "[]".
func Encode(entries []Entry) ([]byte, error) {
	if entries == nil {
		entries = []Entry{}
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(entries); err != nil {
		return nil, fmt.Errorf("failed to marshal manifest: %w", err)
	}
	return buf.Bytes(), nil
}

// Write stores the manifest for ownerID in dir and returns its path
func Write(dir string, ownerID int64, entries []Entry) (string, error) {
	data, err := Encode(entries)
	if err != nil {
		return "", err
	}

	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create manifest directory: %w", err)
	}

	path := filepath.Join(dir, FileName(ownerID))
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write manifest file: %w", err)
	}

	return path, nil
}
