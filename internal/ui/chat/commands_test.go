// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/julianacholder/womens-health-chatbot/internal/auth"
	"github.com/julianacholder/womens-health-chatbot/internal/ui/components"
)

func TestIsCommand(t *testing.T) {
	tests := []struct {
		input string
		want  bool
	}{
		{"/new", true},
		{"  /help ", true},
		{"/", false},
		{"//not a command", false},
		{"is 28 days/cycle normal?", false},
		{"", false},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.want, isCommand(tt.input))
		})
	}
}

func TestCommands_NewStartsConversation(t *testing.T) {
	f := newFixture(t, &auth.User{ID: "u1", Name: "Amara"})
	f.typeText("hello")
	f.update(findReply(t, collect(f.press(tea.KeyEnter))))
	before := f.convs.CurrentID()

	f.typeText("/new")
	f.press(tea.KeyEnter)

	assert.NotEqual(t, before, f.convs.CurrentID())
	assert.Empty(t, f.model.InputValue())
	assert.Len(t, f.backend.questions, 1)
}

func TestCommands_UnknownShowsNotice(t *testing.T) {
	f := newFixture(t, nil)
	f.typeText("/dance")
	cmd := f.press(tea.KeyEnter)

	assert.NotNil(t, cmd)
	assert.Contains(t, f.model.Notice(), "Unknown command /dance")
	assert.False(t, f.model.Sending())
}

func TestCommands_Help(t *testing.T) {
	f := newFixture(t, nil)
	f.typeText("/help")
	f.press(tea.KeyEnter)
	assert.Contains(t, f.model.Notice(), "/export")
}

func TestCommands_AuthRequests(t *testing.T) {
	f := newFixture(t, nil)
	f.typeText("/signup")
	cmd := f.press(tea.KeyEnter)
	require.NotNil(t, cmd)
	assert.Equal(t, AuthRequestMsg{Mode: components.AuthModeSignup}, cmd())

	f.typeText("/logout")
	f.press(tea.KeyEnter)
	assert.Equal(t, "Not signed in", f.model.Notice())
}

func TestCommands_LogoutWhenSignedIn(t *testing.T) {
	f := newFixture(t, &auth.User{ID: "u1", Name: "Amara"})
	f.typeText("/logout")
	cmd := f.press(tea.KeyEnter)
	require.NotNil(t, cmd)
	assert.Equal(t, SignOutMsg{}, cmd())

	f.typeText("/login")
	f.press(tea.KeyEnter)
	assert.Equal(t, "Already signed in", f.model.Notice())
}

func TestCommandNames_IncludesAliases(t *testing.T) {
	names := CommandNames()
	assert.Contains(t, names, "quit")
	assert.Contains(t, names, "q")
	assert.IsNonDecreasing(t, names)
}
