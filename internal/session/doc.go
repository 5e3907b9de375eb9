// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package session tracks the client session: the id sent to the chat
// backend and per-session activity counters.
//
// # Key Types
//
//   - Manager: session id, start time, activity and send counters
//   - TickMsg: Bubble Tea message fired every tick interval
//
// # Usage
//
//	sess := session.NewManager(session.DefaultConfig())
//	client.Chat(ctx, sess.SessionID(), question)
//	sess.RecordOutcome(err == nil)
//
// The id has the form session-<unix ms>-<9 random chars> and lives only as
// long as the process.
package session
