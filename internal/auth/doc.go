// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package auth provides sign-in, sign-up and session lookup against either
// a remote auth provider or a local account store.
//
// # Providers
//
//   - RemoteClient: HTTP provider with email/password and social routes under
//     /api/auth, authenticated with a bearer token
//   - LocalClient: accounts in the storage.Store, bcrypt hashes, HS256 tokens
//
// Both keep the current token in the store under "auth:session", so a
// session survives restarts until it expires or the user signs out.
//
// # Usage
//
//	client, err := auth.New(store, auth.Options{Provider: cfg.Auth.Provider, URL: cfg.Auth.URL})
//	sess, err := client.CurrentSession(ctx)
//	if sess == nil {
//	    // guest
//	}
package auth
