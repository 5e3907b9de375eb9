// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package chat provides the chat screen of the Luna TUI.
//
// The screen composes the header, the recent-conversations sidebar, the
// welcome cards, the message viewport, the input and the status bar.
// Sending goes through chatflow in three steps so that every conversation
// mutation stays on the Bubble Tea loop:
//
//	pending, _ := sender.Begin(text)        // in Update
//	result := pending.Request(ctx, backend)  // in a tea.Cmd
//	sender.Complete(result)                  // in Update, on ReplyMsg
//
// Lines typed as /name are slash commands (commands.go) and never reach
// the backend.
//
// Sign-in, sign-up and sign-out requests are not handled here; the screen
// emits AuthRequestMsg and SignOutMsg for the application shell.
package chat
