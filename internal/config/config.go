// Package config loads repository settings and the author identity.
package config

import (
	"encoding/json"
	"fmt"
	"os"

	"svcs/internal/content"
	"svcs/internal/logging"
	"svcs/internal/validation"
)

// Settings are optional knobs read from vcs/settings.json.
type Settings struct {
	LogLevel         string            `json:"log_level"`       // debug, info, warn, error
	HashAlgorithm    content.Algorithm `json:"hash_algorithm"`  // sha256, blake3
	HashCacheSize    int               `json:"hash_cache_size"` // snapshot digests kept in memory
	CompressionLevel int               `json:"compression_level"`
	InMemoryCatalog  bool              `json:"in_memory_catalog"`
}

var _ validation.Validator = (*Settings)(nil)

func Default() *Settings {
	return &Settings{
		LogLevel:         logging.DefaultLevel,
		HashAlgorithm:    content.SHA256,
		HashCacheSize:    content.DefaultCacheSize,
		CompressionLevel: 3,
	}
}

// Load reads settings from path. A missing file yields the defaults; fields
// absent from the file keep their default values.
func Load(path string) (*Settings, error) {
	settings := Default()

	file, err := os.Open(path)
	if os.IsNotExist(err) {
		return settings, nil
	}
	if err != nil {
		return nil, err
	}
	defer file.Close()

	if err := json.NewDecoder(file).Decode(settings); err != nil {
		return nil, fmt.Errorf("decoding %s: %w", path, err)
	}
	if err := settings.Validate(); err != nil {
		return nil, fmt.Errorf("invalid settings in %s: %w", path, err)
	}

	return settings, nil
}

func (s *Settings) Validate() error {
	switch s.HashAlgorithm {
	case content.SHA256, content.BLAKE3:
	default:
		return fmt.Errorf("unsupported hash_algorithm %q", s.HashAlgorithm)
	}
	if s.HashCacheSize < 0 {
		return fmt.Errorf("hash_cache_size must not be negative")
	}
	if s.CompressionLevel < 1 || s.CompressionLevel > 4 {
		return fmt.Errorf("compression_level must be between 1 and 4")
	}
	return nil
}
