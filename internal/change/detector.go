// Package change decides whether the tracked files differ from the latest
// commit.
package change

import (
	"fmt"
	"os"
	"path/filepath"

	"svcs/internal/commit"
	"svcs/internal/content"
	"svcs/internal/errors"
	"svcs/shared/utils"

	"go.uber.org/zap"
)

type State string

const (
	StateUnchanged State = "unchanged"
	StateModified  State = "modified"
	StateNew       State = "new"     // no same-named file in the latest commit
	StateMissing   State = "missing" // tracked but gone from disk
)

// FileStatus describes one tracked path relative to the latest commit.
type FileStatus struct {
	Path  string
	State State
}

// Detector compares tracked files with a snapshot by whole-file digest.
// Files are matched by base name, the same key commits store them under.
type Detector struct {
	root   string
	hasher *content.Hasher
	logger *zap.Logger
}

func NewDetector(root string, hasher *content.Hasher, logger *zap.Logger) *Detector {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Detector{root: root, hasher: hasher, logger: logger}
}

func (d *Detector) resolve(path string) string {
	if filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(d.root, path)
}

func (d *Detector) hashTracked(path string) (string, error) {
	digest, err := d.hasher.HashFile(d.resolve(path))
	if os.IsNotExist(err) {
		return "", errors.MissingFile(path)
	}
	return digest, err
}

// HasChanges reports whether any file of snap has a same-named tracked file
// with different content. Snapshot files with no tracked counterpart are
// ignored, and so are tracked files absent from snap. When several tracked
// paths share a base name, only the last one in tracking order is compared,
// since that is the copy a commit keeps.
func (d *Detector) HasChanges(tracked []string, snap commit.Snapshot) (bool, error) {
	byName := make(map[string]string, len(tracked))
	for _, path := range tracked {
		byName[filepath.Base(path)] = path
	}

	for _, name := range utils.SortedKeys(snap.Files) {
		path, ok := byName[name]
		if !ok {
			continue
		}

		committed, err := d.hasher.HashImmutableFile(snap.Files[name])
		if err != nil {
			return false, fmt.Errorf("hashing committed %s: %w", name, err)
		}

		current, err := d.hashTracked(path)
		if err != nil {
			return false, err
		}
		if current != committed {
			d.logger.Debug("change detected",
				zap.String("path", path),
				zap.String("commit", snap.ID))
			return true, nil
		}
	}

	return false, nil
}

// Status classifies every tracked path, in tracking order. Repeated paths
// are reported once.
func (d *Detector) Status(tracked []string, snap commit.Snapshot) ([]FileStatus, error) {
	statuses := make([]FileStatus, 0, len(tracked))
	seen := make(map[string]bool, len(tracked))

	for _, path := range tracked {
		if seen[path] {
			continue
		}
		seen[path] = true

		current, err := d.hashTracked(path)
		if errors.IsType(err, errors.ErrorTypeMissingFile) {
			statuses = append(statuses, FileStatus{Path: path, State: StateMissing})
			continue
		}
		if err != nil {
			return nil, err
		}

		stored, ok := snap.Files[filepath.Base(path)]
		if !ok {
			statuses = append(statuses, FileStatus{Path: path, State: StateNew})
			continue
		}

		committed, err := d.hasher.HashImmutableFile(stored)
		if err != nil {
			return nil, fmt.Errorf("hashing committed %s: %w", path, err)
		}

		state := StateUnchanged
		if committed != current {
			state = StateModified
		}
		statuses = append(statuses, FileStatus{Path: path, State: state})
	}

	return statuses, nil
}
