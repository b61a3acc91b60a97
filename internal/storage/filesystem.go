package storage

import (
	"fmt"
	"os"
	"path/filepath"
)

// FileStorage keeps the raw RFC 5322 source of received emails on disk,
// one .eml file per email, keyed by the email's ID. The database holds
// the normalized fields; the archive is the evidence trail.
type FileStorage struct {
	basePath string
}

// NewFileStorage creates a new file storage instance
func NewFileStorage(basePath string) (*FileStorage, error) {
	if err := os.MkdirAll(basePath, 0755); err != nil {
		return nil, fmt.Errorf("failed to create storage directory: %w", err)
	}

	return &FileStorage{basePath: basePath}, nil
}

// SaveRaw writes the raw source of an email
func (f *FileStorage) SaveRaw(emailID string, data []byte) error {
	return os.WriteFile(f.path(emailID), data, 0644)
}

// GetRaw reads back the raw source of an email
func (f *FileStorage) GetRaw(emailID string) ([]byte, error) {
	return os.ReadFile(f.path(emailID))
}

// DeleteRaw removes the raw source of an email
func (f *FileStorage) DeleteRaw(emailID string) error {
	return os.Remove(f.path(emailID))
}

func (f *FileStorage) path(emailID string) string {
	return filepath.Join(f.basePath, emailID+".eml")
}
