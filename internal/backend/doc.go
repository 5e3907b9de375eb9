// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package backend is the HTTP client for the remote chat backend.
//
// # Endpoints
//
//   - POST /chat    {"question"} with header x-session-id
//   - GET  /health  observational status
//
// # Errors
//
// Chat failures come in two families so the caller can word its apology:
//
//   - *TransportError: no response was received
//   - *APIError: the backend answered with a failure or an unusable body
//
// # Usage
//
//	client := backend.NewClient(cfg.Backend.URL)
//	reply, err := client.Chat(ctx, sessionID, "How can I track my ovulation?")
//	if backend.IsTransport(err) {
//	    // offline
//	}
package backend
