package storage

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
)

// LocalStorage writes file content under a single configured root directory.
// Content is addressed by a random name, never by the user-supplied filename,
// so two uploads can never collide on disk.
type LocalStorage struct {
	basePath string
}

func NewLocalStorage(basePath string) *LocalStorage {
	return &LocalStorage{basePath: basePath}
}

// Save writes data to a fresh random path and returns the absolute path.
// The root directory is created on first use.
func (s *LocalStorage) Save(data []byte) (string, error) {
	if err := os.MkdirAll(s.basePath, 0755); err != nil {
		return "", fmt.Errorf("failed to create storage dir: %w", err)
	}

	path := filepath.Join(s.basePath, uuid.New().String())
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write file content: %w", err)
	}
	return path, nil
}

func (s *LocalStorage) Read(path string) ([]byte, error) {
	return os.ReadFile(path)
}

// VariantPath is where a resized copy of a stored image lives.
func VariantPath(path string, width int) string {
	return fmt.Sprintf("%s_%d", path, width)
}
