package content

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHasher(t *testing.T) {
	t.Run("sha256 known digest", func(t *testing.T) {
		h, err := NewHasher(SHA256, 0)
		require.NoError(t, err)

		assert.Equal(t,
			"6b86b273ff34fce19d6b804eff5a3f5747ada4eaa22f1d49c01e52ddb7875b4b",
			h.HashText("1"))
	})

	t.Run("default algorithm is sha256", func(t *testing.T) {
		h, err := NewHasher("", 0)
		require.NoError(t, err)
		assert.Equal(t, SHA256, h.Algorithm())
	})

	t.Run("unsupported algorithm", func(t *testing.T) {
		_, err := NewHasher("md5", 0)
		assert.Error(t, err)
	})

	for _, algo := range []Algorithm{SHA256, BLAKE3} {
		t.Run(string(algo)+" deterministic", func(t *testing.T) {
			h, err := NewHasher(algo, 4)
			require.NoError(t, err)

			a := h.Hash([]byte("X"))
			assert.Len(t, a, 64)
			assert.Equal(t, a, h.Hash([]byte("X")))
			assert.NotEqual(t, a, h.Hash([]byte("Y")))
			assert.Equal(t, a, h.HashText("X"))
		})
	}

	t.Run("algorithms differ", func(t *testing.T) {
		s, err := NewHasher(SHA256, 0)
		require.NoError(t, err)
		b, err := NewHasher(BLAKE3, 0)
		require.NoError(t, err)

		assert.NotEqual(t, s.HashText("1"), b.HashText("1"))
	})
}

func TestHashFile(t *testing.T) {
	h, err := NewHasher(SHA256, 4)
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "a.txt")
	require.NoError(t, os.WriteFile(path, []byte("X"), 0644))

	digest, err := h.HashFile(path)
	require.NoError(t, err)
	assert.Equal(t, h.Hash([]byte("X")), digest)

	_, err = h.HashFile(filepath.Join(t.TempDir(), "missing"))
	assert.True(t, os.IsNotExist(err))
}

func TestHashImmutableFileIsCached(t *testing.T) {
	h, err := NewHasher(SHA256, 4)
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "a.txt")
	require.NoError(t, os.WriteFile(path, []byte("X"), 0644))

	first, err := h.HashImmutableFile(path)
	require.NoError(t, err)

	// A rewrite is invisible once the digest is cached.
	require.NoError(t, os.WriteFile(path, []byte("Y"), 0644))
	second, err := h.HashImmutableFile(path)
	require.NoError(t, err)
	assert.Equal(t, first, second)

	fresh, err := h.HashFile(path)
	require.NoError(t, err)
	assert.NotEqual(t, first, fresh)
}
