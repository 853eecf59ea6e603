package config

import (
	"os"
	"path/filepath"
	"testing"

	"svcs/internal/content"
	"svcs/internal/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	t.Run("missing file yields defaults", func(t *testing.T) {
		settings, err := Load(filepath.Join(t.TempDir(), "settings.json"))
		require.NoError(t, err)
		assert.Equal(t, Default(), settings)
	})

	t.Run("partial file keeps defaults", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "settings.json")
		require.NoError(t, os.WriteFile(path, []byte(`{"hash_algorithm":"blake3","log_level":"debug"}`), 0644))

		settings, err := Load(path)
		require.NoError(t, err)
		assert.Equal(t, content.BLAKE3, settings.HashAlgorithm)
		assert.Equal(t, "debug", settings.LogLevel)
		assert.Equal(t, content.DefaultCacheSize, settings.HashCacheSize)
		assert.Equal(t, 3, settings.CompressionLevel)
	})

	tests := []struct {
		name string
		body string
	}{
		{name: "malformed json", body: `{"log_level":`},
		{name: "unknown algorithm", body: `{"hash_algorithm":"md5"}`},
		{name: "negative cache", body: `{"hash_cache_size":-1}`},
		{name: "compression out of range", body: `{"compression_level":9}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "settings.json")
			require.NoError(t, os.WriteFile(path, []byte(tt.body), 0644))

			_, err := Load(path)
			assert.Error(t, err)
		})
	}
}

func TestIdentity(t *testing.T) {
	id := NewIdentity(filepath.Join(t.TempDir(), "config.txt"))

	_, err := id.Username()
	assert.True(t, errors.IsType(err, errors.ErrorTypeNoIdentity))
	assert.EqualError(t, err, "Please, tell me who you are.")

	require.NoError(t, id.SetUsername("Bob"))
	name, err := id.Username()
	require.NoError(t, err)
	assert.Equal(t, "Bob", name)

	require.NoError(t, id.SetUsername("Alice"))
	name, err = id.Username()
	require.NoError(t, err)
	assert.Equal(t, "Alice", name)

	err = id.SetUsername("a/b")
	assert.True(t, errors.IsType(err, errors.ErrorTypeValidation))
	name, err = id.Username()
	require.NoError(t, err)
	assert.Equal(t, "Alice", name)
}
