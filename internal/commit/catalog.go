package commit

import (
	"errors"
	"fmt"
	"sort"
	"time"

	"svcs/internal/storage"

	"github.com/dgraph-io/badger/v4"
)

// Catalog keeps commit metadata and a monotonic creation sequence in badger.
// Snapshot directories stay the source of truth for content.
type Catalog struct {
	store *storage.BadgerStore
}

func NewCatalog(db *badger.DB) *Catalog {
	return &Catalog{store: storage.NewBadgerStore(db, "commit")}
}

// commitEntity wraps Commit to implement storage.Entity
type commitEntity struct {
	*Commit
}

func (c *commitEntity) GetID() string {
	return c.ID
}

// Record assigns the next sequence number to c and stores it.
func (c *Catalog) Record(commit *Commit) error {
	seq, err := c.store.NextSequence()
	if err != nil {
		return err
	}
	commit.Seq = seq
	if commit.CreatedAt.IsZero() {
		commit.CreatedAt = time.Now().UTC()
	}

	if err := c.store.Create(&commitEntity{Commit: commit}); err != nil {
		return fmt.Errorf("recording commit %s: %w", commit.ID, err)
	}
	return nil
}

func (c *Catalog) Get(id string) (*Commit, error) {
	entity := commitEntity{Commit: &Commit{}}
	if err := c.store.Get(id, &entity); err != nil {
		return nil, fmt.Errorf("getting commit: %w", err)
	}
	return entity.Commit, nil
}

// Has reports whether id has been recorded.
func (c *Catalog) Has(id string) (bool, error) {
	_, err := c.Get(id)
	if errors.Is(err, storage.ErrNotFound) {
		return false, nil
	}
	return err == nil, err
}

// IDs returns the recorded identifiers in key order.
func (c *Catalog) IDs() ([]string, error) {
	return c.store.IDs()
}

// List returns every recorded commit ordered by sequence.
func (c *Catalog) List() ([]*Commit, error) {
	var commits []*Commit
	if err := c.store.List(&commits); err != nil {
		return nil, fmt.Errorf("listing commits: %w", err)
	}

	sort.Slice(commits, func(i, j int) bool {
		return commits[i].Seq < commits[j].Seq
	})
	return commits, nil
}
