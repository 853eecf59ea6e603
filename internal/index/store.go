// Package index persists the ordered list of tracked file paths.
package index

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"svcs/internal/errors"

	"go.uber.org/zap"
)

// Store keeps tracked paths one per line, in the order they were added.
// Paths are stored as given, relative to the working directory root.
type Store struct {
	root   string
	path   string
	logger *zap.Logger
}

func NewStore(root, path string, logger *zap.Logger) *Store {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Store{root: root, path: path, logger: logger}
}

// List returns the tracked paths, oldest first. A missing index is empty.
func (s *Store) List() ([]string, error) {
	file, err := os.Open(s.path)
	if os.IsNotExist(err) {
		return []string{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("opening index: %w", err)
	}
	defer file.Close()

	paths := []string{}
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimRight(scanner.Text(), "\r")
		if line == "" {
			continue
		}
		paths = append(paths, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading index: %w", err)
	}
	return paths, nil
}

// Track appends path to the index. Paths already tracked are appended again.
// A path that does not name a regular file is reported as NotFound.
func (s *Store) Track(path string) error {
	if path == "" {
		return errors.NotFound(path)
	}
	info, err := os.Stat(s.resolve(path))
	if err != nil {
		if os.IsNotExist(err) {
			return errors.NotFound(path)
		}
		return fmt.Errorf("checking %s: %w", path, err)
	}
	// Only regular files can be snapshotted.
	if !info.Mode().IsRegular() {
		return errors.NotFound(path)
	}

	file, err := os.OpenFile(s.path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("opening index: %w", err)
	}
	defer file.Close()

	if _, err := file.WriteString(path + "\n"); err != nil {
		return fmt.Errorf("appending to index: %w", err)
	}

	s.logger.Debug("tracked path", zap.String("path", path))
	return nil
}

func (s *Store) resolve(path string) string {
	if filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(s.root, path)
}
