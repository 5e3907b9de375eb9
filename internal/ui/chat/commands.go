// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// This file implements slash commands typed into the chat input. Each
// command has its own handler in a registry keyed by name and alias.
package chat

import (
	"sort"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/julianacholder/womens-health-chatbot/internal/ui/components"
)

// =============================================================================
// COMMAND HANDLER REGISTRY
// =============================================================================

// CommandHandler handles one slash command.
type CommandHandler func(m Model, args []string) (Model, tea.Cmd)

// commandHandlers maps command names to their handler functions.
var commandHandlers = map[string]CommandHandler{
	"help": handleHelpCommand,
	"h":    handleHelpCommand,
	"?":    handleHelpCommand,
	"quit": handleQuitCommand,
	"q":    handleQuitCommand,
	"exit": handleQuitCommand,

	"new":    handleNewCommand,
	"n":      handleNewCommand,
	"export": handleExportCommand,
	"e":      handleExportCommand,
	"copy":   handleCopyCommand,

	"login":  handleLoginCommand,
	"signin": handleLoginCommand,
	"signup": handleSignupCommand,
	"logout": handleLogoutCommand,
}

// primaryCommands are listed by /help.
var primaryCommands = []string{"new", "export", "copy", "login", "signup", "logout", "quit"}

// isCommand reports whether text is a slash command rather than a question.
func isCommand(text string) bool {
	text = strings.TrimSpace(text)
	return strings.HasPrefix(text, "/") && len(text) > 1 && !strings.HasPrefix(text, "//")
}

// handleCommand dispatches a slash command.
func (m Model) handleCommand(content string) (Model, tea.Cmd) {
	m.input.Reset()

	parts := strings.Fields(content)
	if len(parts) == 0 {
		return m, nil
	}
	name := strings.ToLower(strings.TrimPrefix(parts[0], "/"))

	handler, ok := commandHandlers[name]
	if !ok {
		cmd := m.setNotice("Unknown command /" + name + " (try /help)")
		return m, cmd
	}
	return handler(m, parts[1:])
}

// CommandNames returns every registered name, sorted.
func CommandNames() []string {
	names := make([]string, 0, len(commandHandlers))
	for name := range commandHandlers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// =============================================================================
// HANDLERS
// =============================================================================

func handleHelpCommand(m Model, args []string) (Model, tea.Cmd) {
	cmd := m.setNotice("/" + strings.Join(primaryCommands, "  /"))
	return m, cmd
}

func handleQuitCommand(m Model, args []string) (Model, tea.Cmd) {
	return m, tea.Quit
}

func handleNewCommand(m Model, args []string) (Model, tea.Cmd) {
	return m.newChat()
}

func handleExportCommand(m Model, args []string) (Model, tea.Cmd) {
	cmd := m.exportCmd()
	return m, cmd
}

func handleCopyCommand(m Model, args []string) (Model, tea.Cmd) {
	return m.copyLastReply()
}

func handleLoginCommand(m Model, args []string) (Model, tea.Cmd) {
	if m.user != nil {
		cmd := m.setNotice("Already signed in")
		return m, cmd
	}
	return m, func() tea.Msg { return AuthRequestMsg{Mode: components.AuthModeLogin} }
}

func handleSignupCommand(m Model, args []string) (Model, tea.Cmd) {
	if m.user != nil {
		cmd := m.setNotice("Already signed in")
		return m, cmd
	}
	return m, func() tea.Msg { return AuthRequestMsg{Mode: components.AuthModeSignup} }
}

func handleLogoutCommand(m Model, args []string) (Model, tea.Cmd) {
	if m.user == nil {
		cmd := m.setNotice("Not signed in")
		return m, cmd
	}
	return m, func() tea.Msg { return SignOutMsg{} }
}
