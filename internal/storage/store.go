package storage

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/jakoblorz/go-codestart/internal/filesystem"
)

// Store is a small scoped key-value store on the user's machine.
type Store interface {
	// Get returns the value for key and whether it was present
	Get(key string) ([]byte, bool, error)
	Set(key string, value []byte) error

	// Remove deletes key; removing a missing key is not an error
	Remove(key string) error
	Close() error
}

// Kind selects a Store implementation.
type Kind string

const (
	KindFile   Kind = "file"
	KindSQLite Kind = "sqlite"
	KindMemory Kind = "memory"
)

// IsValid checks if the store kind is valid
func (k Kind) IsValid() bool {
	switch k {
	case KindFile, KindSQLite, KindMemory:
		return true
	default:
		return false
	}
}

// ParseKind parses a string into a Kind
func ParseKind(s string) (Kind, error) {
	k := Kind(strings.ToLower(strings.TrimSpace(s)))
	if !k.IsValid() {
		return "", fmt.Errorf("invalid store: %s (must be file, sqlite, or memory)", s)
	}
	return k, nil
}

// Open creates the store of the given kind rooted at dir.
func Open(kind Kind, fs filesystem.FileSystem, dir string) (Store, error) {
	switch kind {
	case KindSQLite:
		return OpenSQLite(filepath.Join(dir, "state.db"))
	case KindMemory:
		return NewMemoryStore(), nil
	case KindFile, "":
		return NewFileStore(fs, filepath.Join(dir, "state")), nil
	default:
		return nil, fmt.Errorf("invalid store: %s", kind)
	}
}
