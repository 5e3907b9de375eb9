// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package styles

import (
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
)

// =============================================================================
// THEME CREATION TESTS
// =============================================================================

func TestNewTheme_Names(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"luna", ThemeLuna},
		{"DARK", ThemeDark},
		{" light ", ThemeLight},
		{"neon", ThemeLuna},
		{"", ThemeLuna},
	}

	for _, tc := range tests {
		if got := NewTheme(tc.in).Name; got != tc.want {
			t.Errorf("NewTheme(%q).Name = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestNewTheme_PinnedBackground(t *testing.T) {
	if !NewTheme(ThemeDark).IsDark {
		t.Error("dark theme should report IsDark")
	}
	if NewTheme(ThemeLight).IsDark {
		t.Error("light theme should not report IsDark")
	}
}

func TestTheme_Color(t *testing.T) {
	ac := lipgloss.AdaptiveColor{Light: "#111111", Dark: "#EEEEEE"}

	if got := NewTheme(ThemeDark).Color(ac); got != lipgloss.Color("#EEEEEE") {
		t.Errorf("dark Color() = %v, want #EEEEEE", got)
	}
	if got := NewTheme(ThemeLight).Color(ac); got != lipgloss.Color("#111111") {
		t.Errorf("light Color() = %v, want #111111", got)
	}
	if got := NewTheme(ThemeLuna).Color(ac); got != ac {
		t.Errorf("luna Color() = %v, want adaptive", got)
	}
}

func TestThemeInitStyles(t *testing.T) {
	theme := NewTheme(ThemeLuna)

	styles := []struct {
		name  string
		style lipgloss.Style
	}{
		{"Header", theme.Header},
		{"UserBubble", theme.UserBubble},
		{"BotBubble", theme.BotBubble},
		{"EmergencyBubble", theme.EmergencyBubble},
		{"OutOfDomainBubble", theme.OutOfDomainBubble},
		{"Sidebar", theme.Sidebar},
		{"InputContainer", theme.InputContainer},
		{"StatusBar", theme.StatusBar},
		{"Form", theme.Form},
		{"Card", theme.Card},
	}

	for _, s := range styles {
		if !strings.Contains(s.style.Render("test"), "test") {
			t.Errorf("%s style should render its content", s.name)
		}
	}
}

// =============================================================================
// LAYOUT TESTS
// =============================================================================

func TestGetLayoutMode(t *testing.T) {
	tests := []struct {
		width   int
		mode    LayoutMode
		sidebar int
	}{
		{40, LayoutNarrow, 0},
		{59, LayoutNarrow, 0},
		{60, LayoutMedium, 26},
		{99, LayoutMedium, 26},
		{100, LayoutWide, 32},
		{200, LayoutWide, 32},
	}

	theme := NewTheme(ThemeLuna)
	for _, tc := range tests {
		theme.SetSize(tc.width, 30)
		if got := theme.GetLayoutMode(); got != tc.mode {
			t.Errorf("width %d: GetLayoutMode() = %d, want %d", tc.width, got, tc.mode)
		}
		if got := theme.SidebarWidth(); got != tc.sidebar {
			t.Errorf("width %d: SidebarWidth() = %d, want %d", tc.width, got, tc.sidebar)
		}
	}
}

func TestTypingSpinner(t *testing.T) {
	theme := NewTheme(ThemeLuna)
	theme.HasTrueColor = true
	if len(theme.TypingSpinner().Frames) != len(MoonSpinner.Frames) {
		t.Error("true color terminals should use the moon spinner")
	}
	theme.HasTrueColor = false
	if len(theme.TypingSpinner().Frames) != len(DotsSpinner.Frames) {
		t.Error("limited terminals should use the dots spinner")
	}
}
