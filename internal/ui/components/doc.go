// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

/*
Package components provides the styled building blocks of the Luna TUI.

# Display Components

Header (header.go) - Brand, conversation title, avatar and account menu.
StatusBar (statusbar.go) - Backend health, send state and key hints.
MessageRenderer (message.go) - Message bubbles; bot replies render as Markdown.

# Interactive Components

Welcome (welcome.go) - Greeting and starter question cards for an empty chat.
Sidebar (sidebar.go) - Recent conversations with switch and confirmed delete.
AuthForm (authform.go) - Login and sign-up form.

Interactive components follow the Bubble Tea pattern: Update returns the
updated value and a command, and user intent is reported through messages
such as StarterSelectedMsg, SwitchConversationMsg and AuthSubmitMsg. The
components never touch conversations or auth state themselves.
*/
package components
