// Package commit stores immutable snapshots of the tracked files.
package commit

import (
	"time"
)

// Commit is the catalog record written once a snapshot directory is complete.
type Commit struct {
	ID        string    `json:"id"`
	Seq       uint64    `json:"seq"` // creation order, starts at 1
	Author    string    `json:"author"`
	Message   string    `json:"message"`
	Files     []string  `json:"files"` // file names inside the snapshot
	CreatedAt time.Time `json:"created_at"`
}

// Snapshot is the set of file copies physically stored in one commit
// directory, keyed by file name.
type Snapshot struct {
	ID    string
	Files map[string]string // name -> absolute path of the stored copy
}

func (s Snapshot) Empty() bool {
	return len(s.Files) == 0
}
