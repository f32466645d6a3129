package fetch

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// FileStore serves rule documents from a directory. Lookups go through
// [os.Root], so a malicious path in an index cannot escape the rules
// directory.
type FileStore struct {
	root *os.Root
}

// NewFileStore opens dir as the document root.
func NewFileStore(dir string) (*FileStore, error) {
	root, err := os.OpenRoot(dir)
	if err != nil {
		return nil, fmt.Errorf("open rules directory: %w", err)
	}

	return &FileStore{root: root}, nil
}

func (s *FileStore) Get(_ context.Context, path string) ([]byte, error) {
	data, err := s.root.ReadFile(filepath.FromSlash(path))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, path)
		}

		return nil, fmt.Errorf("read rule document: %w", err)
	}

	return data, nil
}

// List walks the root and returns every markdown document, slash-separated.
func (s *FileStore) List(_ context.Context) ([]string, error) {
	var paths []string

	err := fs.WalkDir(s.root.FS(), ".", func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		if !d.IsDir() && strings.HasSuffix(path, ".md") {
			paths = append(paths, filepath.ToSlash(path))
		}

		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("list rule documents: %w", err)
	}

	return paths, nil
}

// Close releases the directory handle.
func (s *FileStore) Close() error {
	return s.root.Close() //nolint:wrapcheck // Return the original error.
}
