package config

import (
	"fmt"
	"os"
	"strings"

	"svcs/internal/errors"
	"svcs/internal/validation"
)

// Identity is the persisted username recorded as the author of new commits.
type Identity struct {
	path string
}

func NewIdentity(path string) *Identity {
	return &Identity{path: path}
}

// Username returns the configured name, or a NoIdentity error when none has
// been set yet.
func (i *Identity) Username() (string, error) {
	data, err := os.ReadFile(i.path)
	if os.IsNotExist(err) {
		return "", errors.NoIdentity()
	}
	if err != nil {
		return "", fmt.Errorf("reading identity: %w", err)
	}

	name := strings.TrimRight(string(data), "\r\n")
	if name == "" {
		return "", errors.NoIdentity()
	}
	return name, nil
}

func (i *Identity) SetUsername(name string) error {
	if err := validation.LogField("username", name); err != nil {
		return err
	}
	if err := os.WriteFile(i.path, []byte(name), 0644); err != nil {
		return fmt.Errorf("writing identity: %w", err)
	}
	return nil
}
