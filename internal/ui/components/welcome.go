// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/julianacholder/womens-health-chatbot/internal/chatflow"
	"github.com/julianacholder/womens-health-chatbot/internal/ui/styles"
)

// StarterSelectedMsg is sent when a starter question is picked.
type StarterSelectedMsg struct {
	Question string
}

// =============================================================================
// WELCOME SCREEN MODEL
// =============================================================================

// Welcome is shown in place of the message list while the active
// conversation is empty. It offers the starter questions as cards.
type Welcome struct {
	questions []string
	cursor    int
	focused   bool
	guest     bool

	width  int
	height int

	theme *styles.Theme
}

// NewWelcome creates a welcome screen with the default starter questions.
func NewWelcome(theme *styles.Theme) Welcome {
	return Welcome{
		questions: append([]string(nil), chatflow.StarterQuestions...),
		theme:     theme,
	}
}

// SetSize updates the dimensions.
func (w *Welcome) SetSize(width, height int) {
	w.width = width
	w.height = height
}

// SetGuest switches the footer hint for visitors who are not signed in.
func (w *Welcome) SetGuest(guest bool) {
	w.guest = guest
}

// Focus lets the arrow keys move between cards.
func (w *Welcome) Focus() {
	w.focused = true
}

// Blur returns the arrow keys to the input.
func (w *Welcome) Blur() {
	w.focused = false
}

// Focused reports whether the cards have focus.
func (w Welcome) Focused() bool {
	return w.focused
}

// Cursor returns the highlighted card index.
func (w Welcome) Cursor() int {
	return w.cursor
}

// Selected returns the highlighted question.
func (w Welcome) Selected() string {
	if len(w.questions) == 0 {
		return ""
	}
	return w.questions[clampIndex(w.cursor, len(w.questions))]
}

// =============================================================================
// BUBBLE TEA INTERFACE
// =============================================================================

// Init initializes the welcome screen.
func (w Welcome) Init() tea.Cmd {
	return nil
}

// Update moves the card cursor and picks a question on enter.
func (w Welcome) Update(msg tea.Msg) (Welcome, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		w.width = msg.Width
		w.height = msg.Height

	case tea.KeyMsg:
		if !w.focused {
			return w, nil
		}
		switch msg.String() {
		case "up", "k", "left", "h":
			if w.cursor > 0 {
				w.cursor--
			}
		case "down", "j", "right", "l":
			if w.cursor < len(w.questions)-1 {
				w.cursor++
			}
		case "enter", " ":
			q := w.Selected()
			if q == "" {
				return w, nil
			}
			return w, func() tea.Msg { return StarterSelectedMsg{Question: q} }
		}
	}
	return w, nil
}

// View renders the greeting, the question cards and the disclaimer.
func (w Welcome) View() string {
	width := w.width
	if width == 0 {
		width = 80
	}
	height := w.height
	if height == 0 {
		height = 24
	}

	cardWidth := minInt(56, width-6)
	if cardWidth < 20 {
		cardWidth = 20
	}

	var sb strings.Builder
	sb.WriteString(w.theme.HeaderBrand.Render(chatflow.Greeting))
	sb.WriteString("\n")
	sb.WriteString(w.theme.HeaderSubtitle.Width(cardWidth).Render(chatflow.Tagline))
	sb.WriteString("\n\n")
	sb.WriteString(w.theme.SidebarTitle.Render("Popular Questions"))
	sb.WriteString("\n")

	for i, q := range w.questions {
		style := w.theme.Card
		if w.focused && i == w.cursor {
			style = w.theme.CardSelected
		}
		sb.WriteString(style.Width(cardWidth).Render(q))
		sb.WriteString("\n")
	}

	hint := "tab to browse questions • enter to ask"
	if w.guest {
		hint += " • sign in to save your chats"
	}
	sb.WriteString(w.theme.Muted.Render(hint))
	sb.WriteString("\n\n")
	sb.WriteString(w.theme.Disclaimer.Width(cardWidth).Render(chatflow.Disclaimer))

	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, sb.String())
}
