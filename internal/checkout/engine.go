// Package checkout restores working files from a commit snapshot.
package checkout

import (
	"fmt"
	"path/filepath"

	"svcs/internal/commit"
	"svcs/internal/errors"
	"svcs/shared/utils"

	"go.uber.org/zap"
)

type Engine struct {
	root    string
	commits *commit.Store
	logger  *zap.Logger
}

func NewEngine(root string, commits *commit.Store, logger *zap.Logger) *Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Engine{root: root, commits: commits, logger: logger}
}

// Checkout overwrites, in the working root, every file stored in commit id.
// Working files the commit does not contain are left alone. It returns the
// restored file names in sorted order.
func (e *Engine) Checkout(id string) ([]string, error) {
	if id == "" {
		return nil, errors.MissingCommitID()
	}

	snap, err := e.commits.Lookup(id)
	if err != nil {
		return nil, err
	}

	names := utils.SortedKeys(snap.Files)
	for _, name := range names {
		if err := utils.CopyFile(snap.Files[name], filepath.Join(e.root, name)); err != nil {
			return nil, fmt.Errorf("restoring %s: %w", name, err)
		}
	}

	e.logger.Info("checked out commit",
		zap.String("commit", id),
		zap.Strings("files", names))
	return names, nil
}
