// Package repository wires the stores together and runs the commit and
// checkout pipelines against one working directory.
package repository

import (
	"fmt"
	"io"
	"path/filepath"

	"svcs/internal/archive"
	"svcs/internal/change"
	"svcs/internal/checkout"
	"svcs/internal/commit"
	"svcs/internal/config"
	"svcs/internal/content"
	"svcs/internal/errors"
	"svcs/internal/history"
	"svcs/internal/index"
	"svcs/internal/storage"
	"svcs/internal/validation"

	"github.com/dgraph-io/badger/v4"
	"go.uber.org/zap"
)

// Repository is the state of one working directory for a single command.
type Repository struct {
	Layout   Layout
	Settings *config.Settings
	DB       *badger.DB
	Identity *config.Identity
	Index    *index.Store
	Commits  *commit.Store
	History  *history.Log
	Detector *change.Detector
	Checkout *checkout.Engine
	Logger   *zap.Logger
}

// Open prepares the repository under root, creating vcs/ on first use.
// settings may be nil to load them from vcs/settings.json.
func Open(root string, settings *config.Settings, logger *zap.Logger) (*Repository, error) {
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("getting absolute path for root %s: %w", root, err)
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	if err := Initialize(absRoot); err != nil {
		return nil, fmt.Errorf("initializing directories: %w", err)
	}
	layout := Layout{Root: absRoot}

	if settings == nil {
		settings, err = config.Load(layout.SettingsPath())
		if err != nil {
			return nil, fmt.Errorf("loading settings: %w", err)
		}
	}

	hasher, err := content.NewHasher(settings.HashAlgorithm, settings.HashCacheSize)
	if err != nil {
		return nil, fmt.Errorf("creating hasher: %w", err)
	}

	db, err := storage.Open(layout.CatalogDir(), settings.InMemoryCatalog)
	if err != nil {
		return nil, fmt.Errorf("opening catalog: %w", err)
	}

	catalog := commit.NewCatalog(db)
	commits, err := commit.NewStore(absRoot, layout.CommitsDir(), hasher, catalog, logger)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("creating commit store: %w", err)
	}

	log := history.NewLog(layout.LogPath(), logger)
	if err := rebuildCatalog(catalog, commits, log, logger); err != nil {
		db.Close()
		return nil, fmt.Errorf("rebuilding catalog: %w", err)
	}

	logger.Debug("repository opened",
		zap.String("root", absRoot),
		zap.String("hash", string(hasher.Algorithm())),
		zap.Bool("in_memory_catalog", settings.InMemoryCatalog))

	return &Repository{
		Layout:   layout,
		Settings: settings,
		DB:       db,
		Identity: config.NewIdentity(layout.ConfigPath()),
		Index:    index.NewStore(absRoot, layout.IndexPath(), logger),
		Commits:  commits,
		History:  log,
		Detector: change.NewDetector(absRoot, hasher, logger),
		Checkout: checkout.NewEngine(absRoot, commits, logger),
		Logger:   logger,
	}, nil
}

// rebuildCatalog fills an empty catalog from the history log. An in-memory
// catalog starts empty on every run, and so does a persistent one added to a
// repository that already has commits. Only logged commits are recorded, so a
// directory left by a failed commit never becomes the latest.
func rebuildCatalog(catalog *commit.Catalog, commits *commit.Store, log *history.Log, logger *zap.Logger) error {
	ids, err := catalog.IDs()
	if err != nil {
		return err
	}
	if len(ids) > 0 {
		return nil
	}

	entries, err := log.ReadAll()
	if err != nil {
		logger.Warn("history unreadable, catalog left empty", zap.Error(err))
		return nil
	}
	if len(entries) == 0 {
		return nil
	}

	logged := make([]*commit.Commit, 0, len(entries))
	for _, e := range entries {
		logged = append(logged, &commit.Commit{ID: e.CommitID, Author: e.Author, Message: e.Message})
	}

	n, err := commits.Reindex(logged)
	if err != nil {
		return err
	}
	logger.Debug("catalog rebuilt from history", zap.Int("commits", n))
	return nil
}

// Close ensures proper cleanup of resources
func (r *Repository) Close() error {
	if r == nil || r.DB == nil {
		return nil
	}
	if err := r.DB.Close(); err != nil {
		return fmt.Errorf("closing catalog: %w", err)
	}
	return nil
}

// Track adds path to the index.
func (r *Repository) Track(path string) error {
	return r.Index.Track(path)
}

// Tracked returns the tracked paths in tracking order.
func (r *Repository) Tracked() ([]string, error) {
	return r.Index.List()
}

// Commit snapshots the tracked files under author. The first commit always
// goes through; later ones only when a file of the latest commit changed.
// "Nothing to commit" is reported as a NothingToCommit error.
func (r *Repository) Commit(author, message string) (*commit.Commit, error) {
	if message == "" {
		return nil, errors.MissingMessage()
	}
	if err := validation.LogField("message", message); err != nil {
		return nil, err
	}
	if err := validation.LogField("username", author); err != nil {
		return nil, err
	}

	tracked, err := r.Index.List()
	if err != nil {
		return nil, err
	}

	latest, err := r.Commits.LatestSnapshot()
	if err != nil {
		return nil, fmt.Errorf("loading latest commit: %w", err)
	}

	if !latest.Empty() {
		changed, err := r.Detector.HasChanges(tracked, latest)
		if err != nil {
			return nil, err
		}
		if !changed {
			r.Logger.Debug("nothing to commit", zap.String("latest", latest.ID))
			return nil, errors.NothingToCommit()
		}
	}

	c, err := r.Commits.Create(tracked, author, message)
	if err != nil {
		return nil, err
	}

	entry := history.Entry{CommitID: c.ID, Author: author, Message: message}
	if err := r.History.Append(entry); err != nil {
		return nil, fmt.Errorf("recording commit %s: %w", c.ID, err)
	}
	return c, nil
}

// Log returns the history most recent first.
func (r *Repository) Log() ([]history.Entry, error) {
	entries, err := r.History.ReadAll()
	if err != nil {
		return nil, err
	}
	return history.Newest(entries), nil
}

// CheckoutCommit restores the working files stored in commit id.
func (r *Repository) CheckoutCommit(id string) ([]string, error) {
	return r.Checkout.Checkout(id)
}

// Status compares each tracked path with the latest commit.
func (r *Repository) Status() ([]change.FileStatus, error) {
	tracked, err := r.Index.List()
	if err != nil {
		return nil, err
	}
	latest, err := r.Commits.LatestSnapshot()
	if err != nil {
		return nil, fmt.Errorf("loading latest commit: %w", err)
	}
	return r.Detector.Status(tracked, latest)
}

// Archive writes commit id as a zstd-compressed tar stream to w.
func (r *Repository) Archive(id string, w io.Writer) error {
	if id == "" {
		return errors.MissingCommitID()
	}
	snap, err := r.Commits.Lookup(id)
	if err != nil {
		return err
	}
	return archive.Write(w, snap, archive.CompressionOptions{Level: r.Settings.CompressionLevel})
}
