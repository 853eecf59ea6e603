package index

import (
	"os"
	"path/filepath"
	"testing"

	"svcs/internal/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupStore(t *testing.T) (*Store, string) {
	root := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(root, "vcs"), 0755))
	return NewStore(root, filepath.Join(root, "vcs", "index.txt"), nil), root
}

func TestStore(t *testing.T) {
	t.Run("empty before first track", func(t *testing.T) {
		store, _ := setupStore(t)

		paths, err := store.List()
		require.NoError(t, err)
		assert.Empty(t, paths)
	})

	t.Run("missing path never mutates index", func(t *testing.T) {
		store, root := setupStore(t)

		err := store.Track("ghost.txt")
		assert.True(t, errors.IsType(err, errors.ErrorTypeNotFound))
		assert.EqualError(t, err, "Can't find 'ghost.txt'.")

		_, statErr := os.Stat(filepath.Join(root, "vcs", "index.txt"))
		assert.True(t, os.IsNotExist(statErr))
	})

	t.Run("keeps insertion order and duplicates", func(t *testing.T) {
		store, root := setupStore(t)
		for _, name := range []string{"b.txt", "a.txt"} {
			require.NoError(t, os.WriteFile(filepath.Join(root, name), []byte(name), 0644))
		}

		require.NoError(t, store.Track("b.txt"))
		require.NoError(t, store.Track("a.txt"))
		require.NoError(t, store.Track("b.txt"))

		paths, err := store.List()
		require.NoError(t, err)
		assert.Equal(t, []string{"b.txt", "a.txt", "b.txt"}, paths)

		raw, err := os.ReadFile(filepath.Join(root, "vcs", "index.txt"))
		require.NoError(t, err)
		assert.Equal(t, "b.txt\na.txt\nb.txt\n", string(raw))
	})

	t.Run("nested paths resolve against root", func(t *testing.T) {
		store, root := setupStore(t)
		require.NoError(t, os.MkdirAll(filepath.Join(root, "docs"), 0755))
		require.NoError(t, os.WriteFile(filepath.Join(root, "docs", "readme.md"), []byte("#"), 0644))

		require.NoError(t, store.Track(filepath.Join("docs", "readme.md")))

		paths, err := store.List()
		require.NoError(t, err)
		assert.Equal(t, []string{filepath.Join("docs", "readme.md")}, paths)
	})

	t.Run("directory is not trackable", func(t *testing.T) {
		store, root := setupStore(t)
		require.NoError(t, os.MkdirAll(filepath.Join(root, "docs"), 0755))

		err := store.Track("docs")
		assert.True(t, errors.IsType(err, errors.ErrorTypeNotFound))
		assert.EqualError(t, err, "Can't find 'docs'.")

		paths, err := store.List()
		require.NoError(t, err)
		assert.Empty(t, paths)
	})
}
