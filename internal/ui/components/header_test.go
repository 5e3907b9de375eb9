// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/julianacholder/womens-health-chatbot/internal/auth"
)

// =============================================================================
// HEADER TESTS
// =============================================================================

func TestHeader_GuestView(t *testing.T) {
	h := NewHeader(testTheme())
	h.SetWidth(80)
	h.SetTitle("Chat with Luna")

	out := h.View()
	for _, want := range []string{"Luna", "Guest", "?"} {
		if !strings.Contains(out, want) {
			t.Errorf("header missing %q:\n%s", want, out)
		}
	}
}

func TestHeader_UserView(t *testing.T) {
	h := NewHeader(testTheme())
	h.SetWidth(100)
	h.SetUser(&auth.User{ID: "u1", Name: "Amara Okafor", Email: "amara@example.com"})
	h.SetTitle("How long is a cycle?")

	out := h.View()
	for _, want := range []string{"AO", "Amara Okafor", "How long is a cycle?"} {
		if !strings.Contains(out, want) {
			t.Errorf("header missing %q:\n%s", want, out)
		}
	}
}

func TestHeader_NarrowDropsTitle(t *testing.T) {
	h := NewHeader(testTheme())
	h.SetWidth(30)
	h.SetTitle("A very long conversation title that cannot fit")

	out := h.View()
	if strings.Contains(out, "cannot fit") {
		t.Errorf("narrow header should drop or truncate the title:\n%s", out)
	}
	for _, line := range strings.Split(out, "\n") {
		if lipgloss.Width(line) > 30 {
			t.Errorf("line wider than 30: %q", line)
		}
	}
}

func TestHeader_MenuItems(t *testing.T) {
	h := NewHeader(testTheme())
	if items := h.MenuItems(); len(items) != 2 || items[0] != MenuSignIn {
		t.Errorf("guest menu = %v", items)
	}
	h.SetUser(&auth.User{ID: "u1"})
	if items := h.MenuItems(); items[len(items)-1] != MenuSignOut {
		t.Errorf("user menu = %v, want sign out last", items)
	}
}

func TestHeader_MenuSelect(t *testing.T) {
	h := NewHeader(testTheme())
	h.SetUser(&auth.User{ID: "u1", Email: "a@b.c"})

	if cmd := h.Update(key(tea.KeyEnter)); cmd != nil {
		t.Fatal("closed menu should ignore keys")
	}

	h.ToggleMenu()
	if !strings.Contains(h.MenuView(), "Sign out") {
		t.Errorf("menu view missing sign out:\n%s", h.MenuView())
	}
	h.Update(key(tea.KeyDown))
	cmd := h.Update(key(tea.KeyEnter))
	msg, ok := runCmd(cmd).(MenuSelectedMsg)
	if !ok || msg.Action != MenuSignOut {
		t.Errorf("expected sign out, got %#v", runCmd(cmd))
	}
	if h.MenuOpen() {
		t.Error("menu should close after a selection")
	}
	if h.MenuView() != "" {
		t.Error("closed menu should render nothing")
	}
}

func TestHeader_SetUserClosesMenu(t *testing.T) {
	h := NewHeader(testTheme())
	h.ToggleMenu()
	h.SetUser(nil)
	if h.MenuOpen() {
		t.Error("identity change should close the menu")
	}
}
