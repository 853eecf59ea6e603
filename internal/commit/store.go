package commit

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"svcs/internal/content"
	"svcs/internal/errors"
	"svcs/shared/utils"

	"go.uber.org/zap"
)

// Store owns vcs/commits. Each commit is a directory named by its
// identifier holding flat copies of the tracked files. Nothing rewrites a
// commit directory after Create returns.
type Store struct {
	root    string // working directory tracked paths are relative to
	dir     string
	hasher  *content.Hasher
	catalog *Catalog
	logger  *zap.Logger
}

// NewStore returns a store rooted at dir. catalog may be nil, in which case
// the latest commit is found by modification time alone.
func NewStore(root, dir string, hasher *content.Hasher, catalog *Catalog, logger *zap.Logger) (*Store, error) {
	if hasher == nil {
		return nil, fmt.Errorf("hasher cannot be nil")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("creating commits directory: %w", err)
	}

	return &Store{
		root:    root,
		dir:     dir,
		hasher:  hasher,
		catalog: catalog,
		logger:  logger,
	}, nil
}

func (s *Store) commitDirs() ([]os.DirEntry, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, fmt.Errorf("reading commits directory: %w", err)
	}

	dirs := entries[:0]
	for _, e := range entries {
		if e.IsDir() {
			dirs = append(dirs, e)
		}
	}
	return dirs, nil
}

// Count returns the number of commit directories, including any left behind
// by a failed Create.
func (s *Store) Count() (int, error) {
	dirs, err := s.commitDirs()
	if err != nil {
		return 0, err
	}
	return len(dirs), nil
}

// NextID derives the identifier the next commit will get: the digest of the
// decimal string count+1.
func (s *Store) NextID() (string, error) {
	count, err := s.Count()
	if err != nil {
		return "", err
	}
	return s.hasher.HashText(strconv.Itoa(count + 1)), nil
}

// Latest returns the identifier of the most recently created commit, or ""
// when there are none. With a catalog, only cataloged directories count and
// the highest sequence wins, so a directory left by a failed Create is never
// latest. Without one, the newest modification time wins and equal times go
// to the directory listed last.
func (s *Store) Latest() (string, error) {
	dirs, err := s.commitDirs()
	if err != nil {
		return "", err
	}
	if len(dirs) == 0 {
		return "", nil
	}

	if s.catalog != nil {
		commits, err := s.catalog.List()
		if err != nil {
			return "", err
		}
		present := make(map[string]bool, len(dirs))
		for _, d := range dirs {
			present[d.Name()] = true
		}
		for i := len(commits) - 1; i >= 0; i-- {
			if present[commits[i].ID] {
				return commits[i].ID, nil
			}
		}
		return "", nil
	}

	var (
		latest  string
		latestT int64
	)
	for _, d := range dirs {
		info, err := d.Info()
		if err != nil {
			return "", fmt.Errorf("stat commit %s: %w", d.Name(), err)
		}
		if t := info.ModTime().UnixNano(); latest == "" || t >= latestT {
			latest, latestT = d.Name(), t
		}
	}
	return latest, nil
}

// LatestSnapshot returns the files of the most recent commit. It is empty
// when no commit exists.
func (s *Store) LatestSnapshot() (Snapshot, error) {
	id, err := s.Latest()
	if err != nil {
		return Snapshot{}, err
	}
	if id == "" {
		return Snapshot{Files: map[string]string{}}, nil
	}
	return s.read(id)
}

// Lookup returns the snapshot of the commit whose identifier is exactly id.
func (s *Store) Lookup(id string) (Snapshot, error) {
	if id == "" || id == "." || id == ".." || filepath.Base(id) != id {
		return Snapshot{}, errors.CommitNotFound(id)
	}

	info, err := os.Stat(filepath.Join(s.dir, id))
	if os.IsNotExist(err) || (err == nil && !info.IsDir()) {
		return Snapshot{}, errors.CommitNotFound(id)
	}
	if err != nil {
		return Snapshot{}, fmt.Errorf("stat commit %s: %w", id, err)
	}
	return s.read(id)
}

func (s *Store) read(id string) (Snapshot, error) {
	dir := filepath.Join(s.dir, id)
	entries, err := os.ReadDir(dir)
	if err != nil {
		return Snapshot{}, fmt.Errorf("reading commit %s: %w", id, err)
	}

	snap := Snapshot{ID: id, Files: make(map[string]string, len(entries))}
	for _, e := range entries {
		if e.Type().IsRegular() {
			snap.Files[e.Name()] = filepath.Join(dir, e.Name())
		}
	}
	return snap, nil
}

// Reindex records commits in the catalog in the given order, oldest first.
// Commits without a directory, or already recorded, are skipped. Files are
// taken from the directory. It returns how many commits were recorded.
func (s *Store) Reindex(commits []*Commit) (int, error) {
	if s.catalog == nil {
		return 0, nil
	}

	recorded := 0
	for _, c := range commits {
		known, err := s.catalog.Has(c.ID)
		if err != nil {
			return recorded, err
		}
		if known {
			continue
		}

		snap, err := s.Lookup(c.ID)
		if errors.IsType(err, errors.ErrorTypeCommitNotFound) {
			s.logger.Warn("logged commit has no directory", zap.String("commit", c.ID))
			continue
		}
		if err != nil {
			return recorded, err
		}

		c.Files = utils.SortedKeys(snap.Files)
		if err := s.catalog.Record(c); err != nil {
			return recorded, err
		}
		recorded++
	}
	return recorded, nil
}

// Create snapshots every tracked file into a new commit directory and
// records it in the catalog. A tracked file missing from disk fails the
// whole commit with a MissingFile error; the partially filled directory is
// left in place and no catalog record is written for it.
func (s *Store) Create(tracked []string, author, message string) (*Commit, error) {
	id, err := s.NextID()
	if err != nil {
		return nil, err
	}

	dir := filepath.Join(s.dir, id)
	if err := os.Mkdir(dir, 0755); err != nil {
		if os.IsExist(err) {
			return nil, fmt.Errorf("commit %s already exists", id)
		}
		return nil, fmt.Errorf("creating commit directory: %w", err)
	}

	files := make([]string, 0, len(tracked))
	seen := make(map[string]bool, len(tracked))
	for _, path := range tracked {
		src := path
		if !filepath.IsAbs(src) {
			src = filepath.Join(s.root, path)
		}
		name := filepath.Base(path)

		if err := utils.CopyFile(src, filepath.Join(dir, name)); err != nil {
			if os.IsNotExist(err) {
				s.logger.Warn("tracked file missing, commit aborted",
					zap.String("commit", id),
					zap.String("path", path))
				return nil, errors.MissingFile(path)
			}
			return nil, fmt.Errorf("copying %s: %w", path, err)
		}
		if !seen[name] {
			seen[name] = true
			files = append(files, name)
		}
	}

	c := &Commit{
		ID:      id,
		Author:  author,
		Message: message,
		Files:   files,
	}
	if s.catalog != nil {
		if err := s.catalog.Record(c); err != nil {
			return nil, err
		}
	}

	s.logger.Info("commit created",
		zap.String("commit", id),
		zap.Uint64("seq", c.Seq),
		zap.Int("files", len(files)))
	return c, nil
}
