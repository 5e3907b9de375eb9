// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/julianacholder/womens-health-chatbot/internal/conversation"
)

// Fixed heights of the chrome around the message area. The header has a
// bottom border and the input box a rounded border.
const (
	headerHeight    = 2
	inputAreaHeight = 3
	statusBarHeight = 1
	typingHeight    = 1
)

// =============================================================================
// LAYOUT
// =============================================================================

// layout sizes every widget from the terminal dimensions.
func (m *Model) layout() {
	m.theme.SetSize(m.width, m.height)

	sidebarWidth := 0
	if m.showSidebar() {
		sidebarWidth = m.theme.SidebarWidth()
	}
	mainWidth := m.width - sidebarWidth
	if mainWidth < 20 {
		mainWidth = 20
	}

	bodyHeight := m.height - headerHeight - inputAreaHeight - statusBarHeight
	if bodyHeight < 3 {
		bodyHeight = 3
	}

	m.header.SetWidth(m.width)
	m.status.SetWidth(m.width)
	m.sidebar.SetSize(sidebarWidth, bodyHeight)
	m.welcome.SetSize(mainWidth, bodyHeight)

	m.viewport.Width = mainWidth
	m.viewport.Height = bodyHeight - typingHeight
	m.renderer.SetWidth(mainWidth - 2)

	// Box border and padding take four columns, the prompt two more.
	inputWidth := mainWidth - 6 - lipgloss.Width(m.input.Prompt)
	if inputWidth < 10 {
		inputWidth = 10
	}
	m.input.Width = inputWidth
}

// refresh pulls conversation state into the widgets.
func (m *Model) refresh() {
	if m.conversations != nil {
		guest := m.conversations.IsGuest()
		m.sidebar.SetConversations(m.conversations.Recent(m.recentLimit), m.conversations.CurrentID(), guest)
		m.welcome.SetGuest(guest)
		if c := m.conversations.Current(); c != nil {
			m.header.SetTitle(conversation.DisplayTitle(c))
		} else {
			m.header.SetTitle("")
		}
	}
	if m.sender != nil {
		m.status.State = m.sender.State()
	}
	if m.session != nil {
		m.status.Session = m.session.GetStatus()
	}

	// The welcome cards lose focus once the conversation has messages.
	if m.focus == FocusWelcome {
		if c := m.current(); c == nil || !c.IsEmpty() {
			m.setFocus(FocusInput)
		}
	}
	m.refreshViewport()
}

// refreshViewport re-renders the message list and sticks to the bottom.
func (m *Model) refreshViewport() {
	c := m.current()
	if c == nil {
		m.viewport.SetContent("")
		return
	}
	m.viewport.SetContent(m.renderer.RenderAll(c.Messages))
	m.viewport.GotoBottom()
}

// =============================================================================
// VIEW
// =============================================================================

// View renders the chat screen.
func (m Model) View() string {
	var sections []string
	sections = append(sections, m.header.View())

	body := m.renderMain()
	if m.showSidebar() {
		body = lipgloss.JoinHorizontal(lipgloss.Top, m.sidebar.View(), body)
	}
	if menu := m.header.MenuView(); menu != "" {
		body = overlayTopRight(body, menu, m.width)
	}
	sections = append(sections, body)

	sections = append(sections, m.renderInput())
	sections = append(sections, m.status.View())
	return strings.Join(sections, "\n")
}

// renderMain renders the welcome screen or the message list.
func (m Model) renderMain() string {
	if c := m.current(); c == nil || c.IsEmpty() {
		if !m.sending {
			return m.welcome.View()
		}
	}

	typing := ""
	if m.sending {
		typing = m.spinner.View() + " " + m.theme.Typing.Render("Luna is typing...")
	}
	return lipgloss.JoinVertical(lipgloss.Left, m.viewport.View(), typing)
}

func (m Model) renderInput() string {
	style := m.theme.InputContainer
	if m.focus == FocusInput {
		style = m.theme.InputFocused
	}
	width := m.width
	if m.showSidebar() {
		width -= m.theme.SidebarWidth()
	}
	return lipgloss.PlaceHorizontal(m.width, lipgloss.Right, style.Width(width-2).Render(m.input.View()))
}

// overlayTopRight draws box over the top-right corner of base.
func overlayTopRight(base, box string, width int) string {
	baseLines := strings.Split(base, "\n")
	boxLines := strings.Split(box, "\n")
	boxWidth := lipgloss.Width(box)
	left := width - boxWidth
	if left < 0 {
		left = 0
	}

	for i, line := range boxLines {
		if i >= len(baseLines) {
			baseLines = append(baseLines, "")
		}
		prefix := truncateANSI(baseLines[i], left)
		pad := left - lipgloss.Width(prefix)
		if pad < 0 {
			pad = 0
		}
		baseLines[i] = prefix + strings.Repeat(" ", pad) + line
	}
	return strings.Join(baseLines, "\n")
}

// truncateANSI cuts a styled line to width cells.
func truncateANSI(s string, width int) string {
	if lipgloss.Width(s) <= width {
		return s
	}
	return lipgloss.NewStyle().MaxWidth(width).Render(s)
}
