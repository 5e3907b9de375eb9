// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package storage provides the key-value store that backs conversation
// persistence and local auth state.
package storage

import (
	"fmt"
	"strings"
)

// =============================================================================
// STORE INTERFACE
// =============================================================================

// Store is a small key-value store. Values are opaque bytes; each Set
// replaces the whole value in one operation.
type Store interface {
	// Get returns the value stored under key, or ErrNotFound.
	Get(key string) ([]byte, error)

	// Set stores value under key, replacing any previous value.
	Set(key string, value []byte) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(key string) error

	// Keys lists keys that start with prefix, sorted.
	Keys(prefix string) ([]string, error)

	// Close releases resources held by the store.
	Close() error
}

// =============================================================================
// DRIVERS
// =============================================================================

// Driver names accepted by Open.
const (
	DriverFile   = "file"
	DriverSQLite = "sqlite"
	DriverBolt   = "bolt"
	DriverMemory = "memory"
)

// Drivers lists the supported driver names.
var Drivers = []string{DriverFile, DriverSQLite, DriverBolt, DriverMemory}

// Open opens a store for the named driver. For the file driver path is a
// directory; for sqlite and bolt it is a database file. The memory driver
// ignores path.
func Open(driver, path string) (Store, error) {
	switch strings.ToLower(driver) {
	case DriverFile, "":
		return NewFileStore(path)
	case DriverSQLite:
		return NewSQLiteStore(path)
	case DriverBolt:
		return NewBoltStore(path)
	case DriverMemory:
		return NewMemoryStore(), nil
	default:
		return nil, fmt.Errorf("unknown storage driver %q (want one of %s)", driver, strings.Join(Drivers, ", "))
	}
}

// =============================================================================
// ERRORS
// =============================================================================

// ErrNotFound is returned when a key doesn't exist.
// Use errors.Is(err, ErrNotFound) to check for this error.
var ErrNotFound = &StoreError{Message: "key not found"}

// ErrClosed is returned when a store is used after Close.
var ErrClosed = &StoreError{Message: "store closed"}

// StoreError represents a storage error.
// It implements the error interface and can be compared using errors.Is.
type StoreError struct {
	Message string
	Key     string
}

// Error implements the error interface.
func (e *StoreError) Error() string {
	if e.Key != "" {
		return e.Message + ": " + e.Key
	}
	return e.Message
}

// Is implements errors.Is support for comparing store errors.
func (e *StoreError) Is(target error) bool {
	t, ok := target.(*StoreError)
	if !ok {
		return false
	}
	return e.Message == t.Message
}

func notFound(key string) error {
	return &StoreError{Message: ErrNotFound.Message, Key: key}
}

func validateKey(key string) error {
	if key == "" {
		return fmt.Errorf("storage: empty key")
	}
	return nil
}
