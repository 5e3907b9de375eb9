// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package cli implements the luna command line with cobra.
//
// Running luna without a subcommand starts the full-screen chat through
// the TUIRunner supplied by main. The subcommands expose the same
// operations for scripts and plain terminals:
//
//   - ask, chat: send questions through the shared send flow
//   - login, signup, logout, whoami: account management
//   - conversations: list, show, new, switch, delete, export
//   - health: probe the chat backend
//   - config: show, path, init, get, set
//   - serve: run the development backend
//
// Output goes to the command's writers so commands can be tested with
// buffers; Markdown and colors are used only on a terminal.
package cli
