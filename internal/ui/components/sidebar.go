// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/julianacholder/womens-health-chatbot/internal/conversation"
	"github.com/julianacholder/womens-health-chatbot/internal/model"
	"github.com/julianacholder/womens-health-chatbot/internal/ui/styles"
	"github.com/julianacholder/womens-health-chatbot/internal/util"
)

// =============================================================================
// SIDEBAR MESSAGES
// =============================================================================

// NewChatMsg asks for a fresh conversation.
type NewChatMsg struct{}

// SwitchConversationMsg asks to make a conversation active.
type SwitchConversationMsg struct {
	ID string
}

// DeleteConversationMsg asks to remove a conversation. It is only sent
// after the user confirms.
type DeleteConversationMsg struct {
	ID string
}

// =============================================================================
// SIDEBAR MODEL
// =============================================================================

// Sidebar lists the recent conversations under a "New Chat" entry.
// Row 0 is the New Chat entry; row i+1 is items[i].
type Sidebar struct {
	items     []*model.Conversation
	currentID string
	guest     bool

	cursor     int
	focused    bool
	confirming bool

	width  int
	height int

	theme *styles.Theme
}

// NewSidebar creates an empty sidebar.
func NewSidebar(theme *styles.Theme) Sidebar {
	return Sidebar{theme: theme, width: 28}
}

// SetConversations replaces the listed conversations. The caller passes
// the recent slice, already limited.
func (s *Sidebar) SetConversations(items []*model.Conversation, currentID string, guest bool) {
	s.items = items
	s.currentID = currentID
	s.guest = guest
	s.cursor = clampIndex(s.cursor, len(s.items)+1)
	s.confirming = false
}

// SetSize updates the dimensions.
func (s *Sidebar) SetSize(width, height int) {
	s.width = width
	s.height = height
}

// Focus gives the sidebar keyboard focus and puts the cursor on the active
// conversation.
func (s *Sidebar) Focus() {
	s.focused = true
	s.cursor = 0
	for i, c := range s.items {
		if c.ID == s.currentID {
			s.cursor = i + 1
			break
		}
	}
}

// Blur removes keyboard focus and cancels a pending delete.
func (s *Sidebar) Blur() {
	s.focused = false
	s.confirming = false
}

// Focused reports whether the sidebar has focus.
func (s Sidebar) Focused() bool {
	return s.focused
}

// Confirming reports whether a delete confirmation is showing.
func (s Sidebar) Confirming() bool {
	return s.confirming
}

// Cursor returns the highlighted row.
func (s Sidebar) Cursor() int {
	return s.cursor
}

// selected returns the conversation under the cursor, or nil on the New
// Chat row.
func (s Sidebar) selected() *model.Conversation {
	if s.cursor <= 0 || s.cursor > len(s.items) {
		return nil
	}
	return s.items[s.cursor-1]
}

// =============================================================================
// BUBBLE TEA INTERFACE
// =============================================================================

// Update handles navigation keys while focused.
func (s Sidebar) Update(msg tea.Msg) (Sidebar, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok || !s.focused {
		return s, nil
	}

	if s.confirming {
		switch key.String() {
		case "y", "Y":
			s.confirming = false
			if c := s.selected(); c != nil {
				id := c.ID
				return s, func() tea.Msg { return DeleteConversationMsg{ID: id} }
			}
		case "n", "N", "esc":
			s.confirming = false
		}
		return s, nil
	}

	switch key.String() {
	case "up", "k":
		if s.cursor > 0 {
			s.cursor--
		}
	case "down", "j":
		if s.cursor < len(s.items) {
			s.cursor++
		}
	case "enter":
		if c := s.selected(); c != nil {
			id := c.ID
			return s, func() tea.Msg { return SwitchConversationMsg{ID: id} }
		}
		return s, func() tea.Msg { return NewChatMsg{} }
	case "d", "delete", "x":
		if !s.guest && s.selected() != nil {
			s.confirming = true
		}
	}
	return s, nil
}

// View renders the list.
func (s Sidebar) View() string {
	inner := maxInt(s.width-4, 8)

	var sb strings.Builder
	sb.WriteString(s.theme.SidebarTitle.Render("Recent Chats"))
	sb.WriteString("\n")

	newChat := s.theme.SidebarNewChat.Render(util.TruncateWidth("+ New Chat", inner))
	if s.focused && s.cursor == 0 {
		newChat = s.theme.SidebarItemCursor.Render(newChat)
	}
	sb.WriteString(newChat)
	sb.WriteString("\n\n")

	for i, c := range s.items {
		sb.WriteString(s.renderItem(c, i+1, inner))
		sb.WriteString("\n")
	}

	if s.confirming {
		if c := s.selected(); c != nil {
			sb.WriteString("\n")
			sb.WriteString(s.theme.WarningStyle.Render(util.TruncateWidth("Delete \""+conversation.DisplayTitle(c)+"\"?", inner)))
			sb.WriteString("\n")
			sb.WriteString(s.theme.Muted.Render("y / n"))
		}
	} else if s.guest {
		sb.WriteString("\n")
		sb.WriteString(s.theme.Muted.Width(inner).Render("Sign in to save your chats"))
	}

	style := s.theme.Sidebar.Width(s.width - 1)
	if s.height > 0 {
		style = style.Height(s.height)
	}
	return style.Render(sb.String())
}

func (s Sidebar) renderItem(c *model.Conversation, row, inner int) string {
	marker := "  "
	style := s.theme.SidebarItem
	if c.ID == s.currentID {
		marker = "● "
		style = s.theme.SidebarItemActive
	}

	date := conversation.ShortDate(c.UpdatedAt)
	titleWidth := maxInt(inner-util.StringWidth(marker)-util.StringWidth(date)-1, 4)
	title := util.PadRight(util.TruncateWidth(conversation.DisplayTitle(c), titleWidth), titleWidth)

	line := style.Render(marker+title) + " " + s.theme.SidebarDate.Render(date)
	if s.focused && s.cursor == row {
		line = s.theme.SidebarItemCursor.Render(line)
	}
	return line
}
