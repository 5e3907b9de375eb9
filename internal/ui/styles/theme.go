// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package styles provides the visual styling system for the Luna TUI.
package styles

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// Theme names accepted by NewTheme.
const (
	ThemeLuna  = "luna"
	ThemeDark  = "dark"
	ThemeLight = "light"
)

// Theme holds all the styled components for the application.
type Theme struct {
	Name string

	// Terminal capabilities
	IsDark       bool
	HasTrueColor bool
	ColorProfile termenv.Profile

	// Layout dimensions
	Width  int
	Height int

	// ==========================================================================
	// APPLICATION / HEADER
	// ==========================================================================

	App            lipgloss.Style
	Header         lipgloss.Style
	HeaderBrand    lipgloss.Style
	HeaderTitle    lipgloss.Style
	HeaderSubtitle lipgloss.Style
	Avatar         lipgloss.Style
	MenuItem       lipgloss.Style
	MenuItemActive lipgloss.Style

	// ==========================================================================
	// SIDEBAR
	// ==========================================================================

	Sidebar           lipgloss.Style
	SidebarTitle      lipgloss.Style
	SidebarItem       lipgloss.Style
	SidebarItemActive lipgloss.Style
	SidebarItemCursor lipgloss.Style
	SidebarNewChat    lipgloss.Style
	SidebarDate       lipgloss.Style

	// ==========================================================================
	// MESSAGE BUBBLES
	// ==========================================================================

	UserBubble        lipgloss.Style
	BotBubble         lipgloss.Style
	EmergencyBubble   lipgloss.Style
	OutOfDomainBubble lipgloss.Style
	ErrorBubble       lipgloss.Style
	SenderLabel       lipgloss.Style
	Timestamp         lipgloss.Style
	ClassLabel        lipgloss.Style

	// ==========================================================================
	// INPUT / STATUS
	// ==========================================================================

	InputContainer lipgloss.Style
	InputFocused   lipgloss.Style
	InputPrompt    lipgloss.Style
	Typing         lipgloss.Style

	StatusBar     lipgloss.Style
	StatusHealthy lipgloss.Style
	StatusDown    lipgloss.Style
	StatusUnknown lipgloss.Style
	ShortcutKey   lipgloss.Style
	ShortcutDesc  lipgloss.Style

	// ==========================================================================
	// FORMS / CARDS
	// ==========================================================================

	Form         lipgloss.Style
	FormTitle    lipgloss.Style
	FormLabel    lipgloss.Style
	FormError    lipgloss.Style
	Button       lipgloss.Style
	ButtonActive lipgloss.Style
	Card         lipgloss.Style
	CardSelected lipgloss.Style
	Disclaimer   lipgloss.Style
	Muted        lipgloss.Style

	// Status text
	SuccessStyle lipgloss.Style
	ErrorStyle   lipgloss.Style
	WarningStyle lipgloss.Style
	InfoStyle    lipgloss.Style
}

// NewTheme creates a theme by name. "luna" follows the terminal background;
// "dark" and "light" pin one side of every adaptive color. Unknown names
// fall back to "luna".
func NewTheme(name string) *Theme {
	name = strings.ToLower(strings.TrimSpace(name))
	switch name {
	case ThemeDark, ThemeLight:
	default:
		name = ThemeLuna
	}

	colorProfile := termenv.ColorProfile()
	isDark := termenv.HasDarkBackground()
	switch name {
	case ThemeDark:
		isDark = true
	case ThemeLight:
		isDark = false
	}

	t := &Theme{
		Name:         name,
		IsDark:       isDark,
		HasTrueColor: colorProfile == termenv.TrueColor,
		ColorProfile: colorProfile,
	}
	t.initStyles()
	return t
}

// Color resolves an adaptive color for this theme.
func (t *Theme) Color(c lipgloss.AdaptiveColor) lipgloss.TerminalColor {
	switch t.Name {
	case ThemeDark:
		return lipgloss.Color(c.Dark)
	case ThemeLight:
		return lipgloss.Color(c.Light)
	}
	return c
}

func (t *Theme) initStyles() {
	c := t.Color

	t.App = lipgloss.NewStyle()

	// Header
	t.Header = lipgloss.NewStyle().
		Background(c(SurfaceDim)).
		BorderStyle(lipgloss.NormalBorder()).
		BorderBottom(true).
		BorderForeground(c(Overlay)).
		Padding(0, 1)
	t.HeaderBrand = lipgloss.NewStyle().Bold(true).Foreground(c(Pink))
	t.HeaderTitle = lipgloss.NewStyle().Bold(true).Foreground(c(Purple))
	t.HeaderSubtitle = lipgloss.NewStyle().Foreground(c(TextSecondary)).Italic(true)
	t.Avatar = lipgloss.NewStyle().
		Bold(true).
		Foreground(c(TextInverse)).
		Background(c(Purple)).
		Padding(0, 1)
	t.MenuItem = lipgloss.NewStyle().Foreground(c(TextPrimary)).Padding(0, 1)
	t.MenuItemActive = lipgloss.NewStyle().
		Foreground(c(TextInverse)).
		Background(c(Pink)).
		Padding(0, 1)

	// Sidebar
	t.Sidebar = lipgloss.NewStyle().
		Background(c(SurfaceDim)).
		BorderStyle(lipgloss.NormalBorder()).
		BorderRight(true).
		BorderForeground(c(Overlay)).
		Padding(0, 1)
	t.SidebarTitle = lipgloss.NewStyle().Bold(true).Foreground(c(TextSecondary)).MarginBottom(1)
	t.SidebarItem = lipgloss.NewStyle().Foreground(c(TextPrimary))
	t.SidebarItemActive = lipgloss.NewStyle().Bold(true).Foreground(c(Pink))
	t.SidebarItemCursor = lipgloss.NewStyle().Background(c(SelectionBg))
	t.SidebarNewChat = lipgloss.NewStyle().Bold(true).Foreground(c(Purple))
	t.SidebarDate = lipgloss.NewStyle().Foreground(c(TextMuted))

	// Bubbles
	bubble := lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		Padding(0, 1)
	t.UserBubble = bubble.
		Foreground(c(UserBubbleFg)).
		Background(c(UserBubbleBg)).
		BorderForeground(c(UserBubbleBorder))
	t.BotBubble = bubble.
		Foreground(c(BotBubbleFg)).
		Background(c(BotBubbleBg)).
		BorderForeground(c(BotBubbleBorder))
	t.EmergencyBubble = bubble.
		Foreground(c(EmergencyBubbleFg)).
		Background(c(EmergencyBubbleBg)).
		BorderStyle(lipgloss.ThickBorder()).
		BorderForeground(c(Rose))
	t.OutOfDomainBubble = bubble.
		Foreground(c(OutOfDomainBubbleFg)).
		Background(c(OutOfDomainBubbleBg)).
		BorderForeground(c(Amber))
	t.ErrorBubble = bubble.
		Foreground(c(Rose)).
		BorderForeground(c(Rose))
	t.SenderLabel = lipgloss.NewStyle().Bold(true).Foreground(c(TextSecondary))
	t.Timestamp = lipgloss.NewStyle().Foreground(c(TextMuted)).Italic(true)
	t.ClassLabel = lipgloss.NewStyle().Bold(true)

	// Input
	t.InputContainer = lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(c(Overlay)).
		Padding(0, 1)
	t.InputFocused = t.InputContainer.BorderForeground(c(FocusRing))
	t.InputPrompt = lipgloss.NewStyle().Foreground(c(Pink)).Bold(true)
	t.Typing = lipgloss.NewStyle().Foreground(c(Purple)).Italic(true)

	// Status bar
	t.StatusBar = lipgloss.NewStyle().
		Foreground(c(TextSecondary)).
		Background(c(SurfaceDim)).
		Padding(0, 1)
	t.StatusHealthy = lipgloss.NewStyle().Foreground(c(Emerald)).Bold(true)
	t.StatusDown = lipgloss.NewStyle().Foreground(c(Rose)).Bold(true)
	t.StatusUnknown = lipgloss.NewStyle().Foreground(c(TextMuted))
	t.ShortcutKey = lipgloss.NewStyle().Foreground(c(Pink)).Bold(true)
	t.ShortcutDesc = lipgloss.NewStyle().Foreground(c(TextMuted))

	// Forms
	t.Form = lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(c(Lavender)).
		Padding(1, 3)
	t.FormTitle = lipgloss.NewStyle().Bold(true).Foreground(c(Pink)).MarginBottom(1)
	t.FormLabel = lipgloss.NewStyle().Foreground(c(TextSecondary))
	t.FormError = lipgloss.NewStyle().Foreground(c(Rose))
	t.Button = lipgloss.NewStyle().
		Foreground(c(TextPrimary)).
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(c(Overlay)).
		Padding(0, 2)
	t.ButtonActive = t.Button.
		Foreground(c(TextInverse)).
		Background(c(Pink)).
		BorderForeground(c(Pink)).
		Bold(true)
	t.Card = lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(c(Lavender)).
		Padding(0, 1)
	t.CardSelected = t.Card.BorderForeground(c(Pink)).Foreground(c(Pink))
	t.Disclaimer = lipgloss.NewStyle().Foreground(c(TextMuted)).Italic(true)
	t.Muted = lipgloss.NewStyle().Foreground(c(TextMuted))

	t.SuccessStyle = lipgloss.NewStyle().Foreground(c(SuccessHighContrast)).Bold(true)
	t.ErrorStyle = lipgloss.NewStyle().Foreground(c(ErrorHighContrast)).Bold(true)
	t.WarningStyle = lipgloss.NewStyle().Foreground(c(WarningHighContrast)).Bold(true)
	t.InfoStyle = lipgloss.NewStyle().Foreground(c(InfoHighContrast)).Bold(true)
}

// SetSize updates the theme dimensions for responsive layouts.
func (t *Theme) SetSize(width, height int) {
	t.Width = width
	t.Height = height
}

// GetLayoutMode returns the current layout mode based on width.
func (t *Theme) GetLayoutMode() LayoutMode {
	if t.Width < 60 {
		return LayoutNarrow
	}
	if t.Width < 100 {
		return LayoutMedium
	}
	return LayoutWide
}

// SidebarWidth returns the sidebar width for the current layout, or 0 when
// the sidebar should be hidden.
func (t *Theme) SidebarWidth() int {
	switch t.GetLayoutMode() {
	case LayoutNarrow:
		return 0
	case LayoutMedium:
		return 26
	default:
		return 32
	}
}

// LayoutMode represents the current responsive layout mode.
type LayoutMode int

const (
	LayoutNarrow LayoutMode = iota // < 60 columns
	LayoutMedium                   // 60-100 columns
	LayoutWide                     // > 100 columns
)
