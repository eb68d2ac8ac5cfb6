// filepath: internal/storage/file.go
// Package storage provides functionality for storing and managing the database
// file and its backups on disk.
package storage

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// SaveFile saves data from a reader to a specified path, creating the parent
// directory if needed. It streams the data to avoid loading it into memory.
func SaveFile(data io.Reader, path string) (int64, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return 0, fmt.Errorf("could not create directory: %w", err)
	}

	// Create the destination file.
	f, err := os.Create(path)
	if err != nil {
		return 0, fmt.Errorf("could not create file: %w", err)
	}
	defer f.Close()

	size, err := io.Copy(f, data)
	if err != nil {
		return 0, fmt.Errorf("could not write file: %w", err)
	}
	if err := f.Sync(); err != nil {
		return 0, fmt.Errorf("could not sync file: %w", err)
	}
	return size, nil
}

// CopyFile streams the file at src into w.
func CopyFile(w io.Writer, src string) (int64, error) {
	f, err := os.Open(src)
	if err != nil {
		return 0, fmt.Errorf("could not open file: %w", err)
	}
	defer f.Close()

	n, err := io.Copy(w, f)
	if err != nil {
		return 0, fmt.Errorf("could not copy file: %w", err)
	}
	return n, nil
}

// ReplaceFile moves src over dst. Both must be on the same filesystem.
func ReplaceFile(src, dst string) error {
	if err := os.Rename(src, dst); err != nil {
		return fmt.Errorf("could not replace %s: %w", dst, err)
	}
	return nil
}

// RemoveFile deletes path. A missing file is not an error.
func RemoveFile(path string) error {
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("could not remove %s: %w", path, err)
	}
	return nil
}
