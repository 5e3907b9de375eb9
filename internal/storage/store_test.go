// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package storage

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// openAll returns one store per driver, each rooted in its own temp dir.
func openAll(t *testing.T) map[string]Store {
	t.Helper()

	dir := t.TempDir()
	stores := map[string]Store{}

	fileStore, err := NewFileStore(filepath.Join(dir, "files"))
	require.NoError(t, err)
	stores[DriverFile] = fileStore

	sqliteStore, err := NewSQLiteStore(filepath.Join(dir, "luna.db"))
	require.NoError(t, err)
	stores[DriverSQLite] = sqliteStore

	boltStore, err := NewBoltStore(filepath.Join(dir, "luna.bolt"))
	require.NoError(t, err)
	stores[DriverBolt] = boltStore

	stores[DriverMemory] = NewMemoryStore()

	t.Cleanup(func() {
		for _, s := range stores {
			s.Close()
		}
	})
	return stores
}

// =============================================================================
// STORE CONTRACT TESTS
// =============================================================================

func TestStore_SetGet(t *testing.T) {
	for name, store := range openAll(t) {
		t.Run(name, func(t *testing.T) {
			require.NoError(t, store.Set("conversations:user-1", []byte(`[{"id":"a"}]`)))

			got, err := store.Get("conversations:user-1")
			require.NoError(t, err)
			assert.Equal(t, `[{"id":"a"}]`, string(got))

			// Replace
			require.NoError(t, store.Set("conversations:user-1", []byte(`[]`)))
			got, err = store.Get("conversations:user-1")
			require.NoError(t, err)
			assert.Equal(t, `[]`, string(got))
		})
	}
}

func TestStore_GetMissing(t *testing.T) {
	for name, store := range openAll(t) {
		t.Run(name, func(t *testing.T) {
			_, err := store.Get("current-conversation:nobody")
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrNotFound), "want ErrNotFound, got %v", err)
		})
	}
}

func TestStore_Delete(t *testing.T) {
	for name, store := range openAll(t) {
		t.Run(name, func(t *testing.T) {
			require.NoError(t, store.Set("k", []byte("v")))
			require.NoError(t, store.Delete("k"))

			_, err := store.Get("k")
			assert.ErrorIs(t, err, ErrNotFound)

			// Deleting again is fine
			assert.NoError(t, store.Delete("k"))
		})
	}
}

func TestStore_Keys(t *testing.T) {
	for name, store := range openAll(t) {
		t.Run(name, func(t *testing.T) {
			for _, k := range []string{"conversations:b", "conversations:a", "current-conversation:a", "auth:session"} {
				require.NoError(t, store.Set(k, []byte("x")))
			}

			keys, err := store.Keys("conversations:")
			require.NoError(t, err)
			assert.Equal(t, []string{"conversations:a", "conversations:b"}, keys)

			all, err := store.Keys("")
			require.NoError(t, err)
			assert.Len(t, all, 4)
		})
	}
}

func TestStore_EmptyKeyRejected(t *testing.T) {
	for name, store := range openAll(t) {
		t.Run(name, func(t *testing.T) {
			assert.Error(t, store.Set("", []byte("x")))
		})
	}
}

// =============================================================================
// DRIVER-SPECIFIC TESTS
// =============================================================================

func TestFileStore_EscapesKeys(t *testing.T) {
	dir := t.TempDir()
	store, err := NewFileStore(dir)
	require.NoError(t, err)

	require.NoError(t, store.Set("auth:account:a/b@example.com", []byte("x")))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.NotContains(t, entries[0].Name(), "/")
	assert.NotContains(t, entries[0].Name(), ":")

	keys, err := store.Keys("auth:")
	require.NoError(t, err)
	assert.Equal(t, []string{"auth:account:a/b@example.com"}, keys)
}

func TestFileStore_PersistsAcrossInstances(t *testing.T) {
	dir := t.TempDir()
	first, err := NewFileStore(dir)
	require.NoError(t, err)
	require.NoError(t, first.Set("conversations:u", []byte("[]")))

	second, err := NewFileStore(dir)
	require.NoError(t, err)
	got, err := second.Get("conversations:u")
	require.NoError(t, err)
	assert.Equal(t, "[]", string(got))
}

func TestSQLiteStore_PersistsAcrossInstances(t *testing.T) {
	path := filepath.Join(t.TempDir(), "luna.db")
	first, err := NewSQLiteStore(path)
	require.NoError(t, err)
	require.NoError(t, first.Set("k", []byte("v")))
	require.NoError(t, first.Close())

	second, err := NewSQLiteStore(path)
	require.NoError(t, err)
	defer second.Close()
	got, err := second.Get("k")
	require.NoError(t, err)
	assert.Equal(t, "v", string(got))
}

func TestMemoryStore_Closed(t *testing.T) {
	store := NewMemoryStore()
	require.NoError(t, store.Close())
	assert.ErrorIs(t, store.Set("k", nil), ErrClosed)
}

func TestMemoryStore_ReturnsCopies(t *testing.T) {
	store := NewMemoryStore()
	value := []byte("abc")
	require.NoError(t, store.Set("k", value))
	value[0] = 'z'

	got, err := store.Get("k")
	require.NoError(t, err)
	assert.Equal(t, "abc", string(got))
}

func TestOpen(t *testing.T) {
	dir := t.TempDir()
	tests := []struct {
		driver  string
		path    string
		wantErr bool
	}{
		{DriverFile, filepath.Join(dir, "f"), false},
		{DriverSQLite, filepath.Join(dir, "s.db"), false},
		{DriverBolt, filepath.Join(dir, "b.bolt"), false},
		{DriverMemory, "", false},
		{"redis", "", true},
	}

	for _, tc := range tests {
		t.Run(tc.driver, func(t *testing.T) {
			store, err := Open(tc.driver, tc.path)
			if tc.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			store.Close()
		})
	}
}

func TestStoreError_Is(t *testing.T) {
	err := notFound("x")
	assert.True(t, errors.Is(err, ErrNotFound))
	assert.False(t, errors.Is(err, ErrClosed))
	assert.Equal(t, "key not found: x", err.Error())
}
