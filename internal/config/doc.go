// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package config provides configuration loading and management for Luna.
//
// # Key Types
//
//   - Config: main configuration structure
//   - BackendConfig: chat backend URL, timeout and health probe interval
//   - AuthConfig: auth provider selection
//   - StorageConfig: conversation store driver and path
//   - UIConfig: theme and sidebar settings
//
// # Configuration Precedence
//
//   - Environment variables (LUNA_*)
//   - .env files (./.env, ~/.luna/.env)
//   - ~/.luna/config.toml
//   - Built-in defaults
//
// # Usage
//
//	cfg, err := config.Load()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	client := backend.NewClient(cfg.Backend.URL).WithTimeout(cfg.BackendTimeout())
package config
