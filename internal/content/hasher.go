// Package content computes the digests used for change detection and commit
// identifiers.
package content

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"hash"
	"io"
	"os"

	lru "github.com/hashicorp/golang-lru/v2"
	"lukechampine.com/blake3"
)

type Algorithm string

const (
	SHA256 Algorithm = "sha256"
	BLAKE3 Algorithm = "blake3"
)

const DefaultCacheSize = 256

// Hasher produces hex-encoded 256-bit digests. Digests of files that never
// change after being written (commit snapshots) are cached by path.
type Hasher struct {
	algo  Algorithm
	cache *lru.Cache[string, string]
}

func NewHasher(algo Algorithm, cacheSize int) (*Hasher, error) {
	if algo == "" {
		algo = SHA256
	}
	if algo != SHA256 && algo != BLAKE3 {
		return nil, fmt.Errorf("unsupported hash algorithm %q", algo)
	}
	if cacheSize <= 0 {
		cacheSize = DefaultCacheSize
	}

	cache, err := lru.New[string, string](cacheSize)
	if err != nil {
		return nil, fmt.Errorf("creating cache: %w", err)
	}

	return &Hasher{algo: algo, cache: cache}, nil
}

func (h *Hasher) Algorithm() Algorithm {
	return h.algo
}

func (h *Hasher) newHash() hash.Hash {
	if h.algo == BLAKE3 {
		return blake3.New(32, nil)
	}
	return sha256.New()
}

// Hash returns the digest of content.
func (h *Hasher) Hash(content []byte) string {
	d := h.newHash()
	d.Write(content)
	return hex.EncodeToString(d.Sum(nil))
}

// HashText returns the digest of the UTF-8 bytes of s.
func (h *Hasher) HashText(s string) string {
	return h.Hash([]byte(s))
}

// HashFile streams the file at path through the digest.
func (h *Hasher) HashFile(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	d := h.newHash()
	if _, err := io.Copy(d, f); err != nil {
		return "", fmt.Errorf("hashing %s: %w", path, err)
	}
	return hex.EncodeToString(d.Sum(nil)), nil
}

// HashImmutableFile is HashFile for files that are never rewritten once
// created. Results are served from the cache after the first read.
func (h *Hasher) HashImmutableFile(path string) (string, error) {
	if digest, ok := h.cache.Get(path); ok {
		return digest, nil
	}

	digest, err := h.HashFile(path)
	if err != nil {
		return "", err
	}
	h.cache.Add(path, digest)
	return digest, nil
}
