// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package storage provides the key-value store that backs conversation
// persistence and local auth state.
//
// # Key Types
//
//   - Store: key-value interface (Get, Set, Delete, Keys, Close)
//   - FileStore: one file per key, written atomically
//   - SQLiteStore: single table in a pure Go SQLite database
//   - BoltStore: single bucket in a bbolt database
//   - MemoryStore: process memory, used for tests and ephemeral runs
//
// # Usage
//
//	store, err := storage.Open(cfg.Storage.Driver, cfg.Storage.Path)
//	if err != nil {
//	    return err
//	}
//	defer store.Close()
//
//	err = store.Set("conversations:"+userID, data)
//	data, err = store.Get("conversations:" + userID)
//	if errors.Is(err, storage.ErrNotFound) {
//	    // first run
//	}
//
// # Storage Location
//
// By default values live under ~/.luna/.
package storage
