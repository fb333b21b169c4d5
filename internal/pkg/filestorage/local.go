package filestorage

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog/log"
)

// ErrFileNotFound is returned when the requested file does not exist.
var ErrFileNotFound = errors.New("file not found")

// LocalStorage reads files from the local filesystem.
type LocalStorage struct {
	basePath string // Root used for relative paths
}

// NewLocalStorage creates a new LocalStorage instance rooted at basePath.
// An empty basePath means the working directory.
func NewLocalStorage(basePath string) *LocalStorage {
	if basePath == "" {
		basePath = "."
	}
	return &LocalStorage{basePath: basePath}
}

func (ls *LocalStorage) resolve(path string) string {
	if filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(ls.basePath, path)
}

// ReadFile loads the whole file into memory.
func (ls *LocalStorage) ReadFile(path string) (*FileInfo, error) {
	fullPath := ls.resolve(path)

	stat, err := os.Stat(fullPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrFileNotFound, fullPath)
		}
		return nil, fmt.Errorf("failed to stat file %s: %w", fullPath, err)
	}
	if stat.IsDir() {
		return nil, fmt.Errorf("%w: %s is a directory", ErrFileNotFound, fullPath)
	}

	content, err := os.ReadFile(fullPath)
	if err != nil {
		log.Error().Err(err).Str("path", fullPath).Msg("Failed to read file")
		return nil, fmt.Errorf("failed to read file %s: %w", fullPath, err)
	}

	return &FileInfo{
		Filename: filepath.Base(fullPath),
		Path:     fullPath,
		FileSize: stat.Size(),
		Content:  content,
	}, nil
}

// Exists reports whether path is a regular file.
func (ls *LocalStorage) Exists(path string) bool {
	stat, err := os.Stat(ls.resolve(path))
	return err == nil && !stat.IsDir()
}
