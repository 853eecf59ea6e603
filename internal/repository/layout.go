package repository

import (
	"fmt"
	"os"
	"path/filepath"
)

const (
	Dir          = "vcs"
	ConfigFile   = "config.txt"
	IndexFile    = "index.txt"
	LogFile      = "log.txt"
	CommitsDir   = "commits"
	SettingsFile = "settings.json"
	CatalogDir   = "catalog"
)

// Layout resolves the persisted state files under a working directory.
type Layout struct {
	Root string
}

func (l Layout) Dir() string          { return filepath.Join(l.Root, Dir) }
func (l Layout) ConfigPath() string   { return filepath.Join(l.Dir(), ConfigFile) }
func (l Layout) IndexPath() string    { return filepath.Join(l.Dir(), IndexFile) }
func (l Layout) LogPath() string      { return filepath.Join(l.Dir(), LogFile) }
func (l Layout) CommitsDir() string   { return filepath.Join(l.Dir(), CommitsDir) }
func (l Layout) SettingsPath() string { return filepath.Join(l.Dir(), SettingsFile) }
func (l Layout) CatalogDir() string   { return filepath.Join(l.Dir(), CatalogDir) }

// Initialize creates vcs/ and vcs/commits/ under root if they are missing.
func Initialize(root string) error {
	l := Layout{Root: root}
	for _, dir := range []string{l.Dir(), l.CommitsDir()} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("creating directory %s: %w", dir, err)
		}
	}
	return nil
}
