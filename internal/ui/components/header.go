// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/julianacholder/womens-health-chatbot/internal/auth"
	"github.com/julianacholder/womens-health-chatbot/internal/ui/styles"
	"github.com/julianacholder/womens-health-chatbot/internal/util"
)

// Brand is the application name shown in the header.
const Brand = "🌙 Luna"

// =============================================================================
// ACCOUNT MENU
// =============================================================================

// MenuAction is an entry in the account menu.
type MenuAction string

const (
	MenuSignIn  MenuAction = "Sign in"
	MenuSignUp  MenuAction = "Create account"
	MenuExport  MenuAction = "Export chat"
	MenuSignOut MenuAction = "Sign out"
)

// MenuSelectedMsg is sent when an account menu entry is picked.
type MenuSelectedMsg struct {
	Action MenuAction
}

// =============================================================================
// HEADER
// =============================================================================

// Header shows the brand, the active conversation title and the avatar
// with its account menu.
type Header struct {
	Title string
	User  *auth.User

	Width int

	menuOpen   bool
	menuCursor int

	theme *styles.Theme
}

// NewHeader creates a header for a guest.
func NewHeader(theme *styles.Theme) *Header {
	return &Header{theme: theme, Width: 80}
}

// SetUser sets the signed-in user; nil means guest.
func (h *Header) SetUser(u *auth.User) {
	h.User = u
	h.CloseMenu()
}

// SetTitle sets the conversation title.
func (h *Header) SetTitle(title string) {
	h.Title = title
}

// SetWidth sets the header width.
func (h *Header) SetWidth(width int) {
	h.Width = width
}

// MenuItems returns the account menu entries for the current identity.
func (h *Header) MenuItems() []MenuAction {
	if h.User == nil {
		return []MenuAction{MenuSignIn, MenuSignUp}
	}
	return []MenuAction{MenuExport, MenuSignOut}
}

// ToggleMenu opens or closes the account menu.
func (h *Header) ToggleMenu() {
	h.menuOpen = !h.menuOpen
	h.menuCursor = 0
}

// CloseMenu closes the account menu.
func (h *Header) CloseMenu() {
	h.menuOpen = false
	h.menuCursor = 0
}

// MenuOpen reports whether the account menu is showing.
func (h *Header) MenuOpen() bool {
	return h.menuOpen
}

// Update handles keys while the menu is open.
func (h *Header) Update(msg tea.Msg) tea.Cmd {
	key, ok := msg.(tea.KeyMsg)
	if !ok || !h.menuOpen {
		return nil
	}
	items := h.MenuItems()
	switch key.String() {
	case "up", "k":
		if h.menuCursor > 0 {
			h.menuCursor--
		}
	case "down", "j":
		if h.menuCursor < len(items)-1 {
			h.menuCursor++
		}
	case "esc", "ctrl+a":
		h.CloseMenu()
	case "enter":
		action := items[clampIndex(h.menuCursor, len(items))]
		h.CloseMenu()
		return func() tea.Msg { return MenuSelectedMsg{Action: action} }
	}
	return nil
}

// Avatar renders the initials badge.
func (h *Header) Avatar() string {
	if h.User == nil {
		return h.theme.Avatar.Render("?")
	}
	return h.theme.Avatar.Render(auth.Initials(auth.DisplayName(h.User)))
}

// View renders the header line.
func (h *Header) View() string {
	width := h.Width
	if width <= 0 {
		width = 80
	}

	brand := h.theme.HeaderBrand.Render(Brand)

	name := "Guest"
	if h.User != nil {
		name = auth.DisplayName(h.User)
	}
	account := h.Avatar() + " " + h.theme.HeaderSubtitle.Render(util.TruncateWidth(name, 20))

	// Inner width excludes the horizontal padding.
	inner := width - 2
	titleRoom := inner - lipgloss.Width(brand) - lipgloss.Width(account) - 4
	title := ""
	if titleRoom > 4 && h.Title != "" {
		title = h.theme.HeaderTitle.Render(util.TruncateWidth(h.Title, titleRoom))
	}

	left := brand
	if title != "" {
		left += "  " + title
	}
	gap := maxInt(inner-lipgloss.Width(left)-lipgloss.Width(account), 1)
	line := left + strings.Repeat(" ", gap) + account

	return h.theme.Header.Width(width).Render(line)
}

// MenuView renders the open account menu, or "" when closed.
func (h *Header) MenuView() string {
	if !h.menuOpen {
		return ""
	}
	var lines []string
	if h.User != nil && h.User.Email != "" {
		lines = append(lines, h.theme.Muted.Render(h.User.Email))
	}
	for i, item := range h.MenuItems() {
		style := h.theme.MenuItem
		if i == h.menuCursor {
			style = h.theme.MenuItemActive
		}
		lines = append(lines, style.Render(string(item)))
	}
	return h.theme.Card.Render(strings.Join(lines, "\n"))
}
