package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

const (
	dirPrefixLength = 2
	dirPrefixDepth  = 2
)

// FileSystemStore lays blobs out as <basedir>/ab/cd/<key> so no single
// directory grows unbounded.
type FileSystemStore struct {
	basedir string
}

func NewFileSystemStore(basedir string) (*FileSystemStore, error) {
	if basedir == "" {
		return nil, errors.New("storage: base directory is required")
	}
	if err := os.MkdirAll(basedir, 0o750); err != nil {
		return nil, fmt.Errorf("init storage: %w", err)
	}
	return &FileSystemStore{basedir: basedir}, nil
}

func (s *FileSystemStore) relPath(key string) (string, error) {
	if len(key) < dirPrefixLength*dirPrefixDepth || strings.ContainsAny(key, `/\`) || strings.Contains(key, "..") {
		return "", ErrInvalidKey
	}
	parts := make([]string, 0, dirPrefixDepth+1)
	for i := 0; i < dirPrefixDepth; i++ {
		parts = append(parts, key[i*dirPrefixLength:(i+1)*dirPrefixLength])
	}
	parts = append(parts, key)
	return filepath.Join(parts...), nil
}

func (s *FileSystemStore) abs(path string) (string, error) {
	clean := filepath.Clean(path)
	if filepath.IsAbs(clean) || strings.HasPrefix(clean, "..") {
		return "", ErrInvalidKey
	}
	return filepath.Join(s.basedir, clean), nil
}

// Save writes to a temp file and renames it into place.
func (s *FileSystemStore) Save(ctx context.Context, key string, r io.Reader, _ int64, _ string) (string, error) {
	rel, err := s.relPath(key)
	if err != nil {
		return "", err
	}
	target := filepath.Join(s.basedir, rel)
	if err := os.MkdirAll(filepath.Dir(target), 0o750); err != nil {
		return "", fmt.Errorf("create blob dir: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(target), ".upload-*")
	if err != nil {
		return "", fmt.Errorf("create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := io.Copy(tmp, r); err != nil {
		tmp.Close()
		return "", fmt.Errorf("write blob: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return "", fmt.Errorf("close blob: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if err := os.Rename(tmp.Name(), target); err != nil {
		return "", fmt.Errorf("move blob into place: %w", err)
	}
	return filepath.ToSlash(rel), nil
}

func (s *FileSystemStore) Open(_ context.Context, path string) (io.ReadCloser, error) {
	full, err := s.abs(path)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(full)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("open blob: %w", err)
	}
	return f, nil
}

// Delete is idempotent.
func (s *FileSystemStore) Delete(_ context.Context, path string) error {
	full, err := s.abs(path)
	if err != nil {
		return err
	}
	if err := os.Remove(full); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("delete blob: %w", err)
	}
	return nil
}
