// Package storage provides durable key-value persistence for the vault
// stores. Each store persists its whole collection as one JSON blob under a
// fixed logical key.
package storage

import (
	"errors"
	"regexp"
)

// ErrInvalidKey is returned for keys that are unsafe to use as storage names.
var ErrInvalidKey = errors.New("invalid storage key")

var keyPattern = regexp.MustCompile(`^[a-z0-9][a-z0-9._-]*$`)

// ValidKey reports whether key is acceptable to every backend.
func ValidKey(key string) bool {
	return keyPattern.MatchString(key)
}

// Backend is a durable key-value store. Implementations must be safe for
// concurrent use.
type Backend interface {
	// Get returns the value stored under key, or ok=false when absent.
	Get(key string) (value []byte, ok bool, err error)

	// Put replaces the value stored under key.
	Put(key string, value []byte) error

	// Delete removes key. Removing an absent key is not an error.
	Delete(key string) error

	// Keys lists all stored keys in lexical order.
	Keys() ([]string, error)

	Close() error
}
