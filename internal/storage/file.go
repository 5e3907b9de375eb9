// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package storage

import (
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/julianacholder/womens-health-chatbot/internal/util"
)

// fileSuffix marks value files inside the store directory.
const fileSuffix = ".val"

// =============================================================================
// FILE STORE
// =============================================================================

// FileStore keeps one file per key inside BaseDir.
// Writes go through util.AtomicWriteFile so a crash leaves either the old
// or the new value, never a partial one.
type FileStore struct {
	// BaseDir is the directory holding value files.
	// Default: ~/.luna/store/
	BaseDir string

	mu sync.RWMutex
}

// NewFileStore creates a file store rooted at baseDir, creating it if needed.
// An empty baseDir selects ~/.luna/store.
func NewFileStore(baseDir string) (*FileStore, error) {
	if baseDir == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return nil, err
		}
		baseDir = filepath.Join(homeDir, ".luna", "store")
	}

	if err := os.MkdirAll(baseDir, 0700); err != nil {
		return nil, err
	}

	return &FileStore{BaseDir: baseDir}, nil
}

// Get reads the value stored under key.
func (s *FileStore) Get(key string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	data, err := os.ReadFile(s.filePath(key))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, notFound(key)
		}
		return nil, fmt.Errorf("read %s: %w", key, err)
	}
	return data, nil
}

// Set atomically replaces the value stored under key.
func (s *FileStore) Set(key string, value []byte) error {
	if err := validateKey(key); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := util.AtomicWriteFile(s.filePath(key), value, 0600); err != nil {
		return fmt.Errorf("write %s: %w", key, err)
	}
	return nil
}

// Delete removes the file for key.
func (s *FileStore) Delete(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	err := os.Remove(s.filePath(key))
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("delete %s: %w", key, err)
	}
	return nil
}

// Keys lists stored keys that start with prefix.
func (s *FileStore) Keys(prefix string) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entries, err := os.ReadDir(s.BaseDir)
	if err != nil {
		return nil, err
	}

	var keys []string
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasSuffix(name, fileSuffix) {
			continue
		}
		key, err := url.QueryUnescape(strings.TrimSuffix(name, fileSuffix))
		if err != nil {
			continue
		}
		if strings.HasPrefix(key, prefix) {
			keys = append(keys, key)
		}
	}
	sort.Strings(keys)
	return keys, nil
}

// Close is a no-op; the file store holds no open handles.
func (s *FileStore) Close() error {
	return nil
}

// filePath returns the file path for a key. Keys are query-escaped so that
// separators such as ':' and '/' are safe on every filesystem.
func (s *FileStore) filePath(key string) string {
	return filepath.Join(s.BaseDir, url.QueryEscape(key)+fileSuffix)
}
