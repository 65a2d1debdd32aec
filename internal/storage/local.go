package storage

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// FileStore is the file-storage collaborator. Services hold filename
// references only and never touch raw bytes.
type FileStore interface {
	Save(originalName string, r io.Reader) (string, error)
	Delete(filename string) error
}

// LocalStore keeps uploads on local disk under a single directory.
type LocalStore struct {
	dir string
}

// NewLocalStore ensures the upload directory exists.
func NewLocalStore(dir string) (*LocalStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create uploads dir: %w", err)
	}
	return &LocalStore{dir: dir}, nil
}

// Save writes the upload under a generated name, keeping the original
// extension, and returns the stored filename.
func (s *LocalStore) Save(originalName string, r io.Reader) (string, error) {
	ext := strings.ToLower(filepath.Ext(originalName))
	name := uuid.NewString() + ext

	f, err := os.Create(filepath.Join(s.dir, name))
	if err != nil {
		return "", err
	}
	defer f.Close()

	if _, err := io.Copy(f, r); err != nil {
		_ = os.Remove(filepath.Join(s.dir, name))
		return "", err
	}
	return name, nil
}

// Delete removes a stored file. Missing files are not an error so
// repeated deletes stay quiet.
func (s *LocalStore) Delete(filename string) error {
	if filename == "" {
		return nil
	}
	// filepath.Base guards against traversal in stored references.
	err := os.Remove(filepath.Join(s.dir, filepath.Base(filename)))
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}
