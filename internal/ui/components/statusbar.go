// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/julianacholder/womens-health-chatbot/internal/backend"
	"github.com/julianacholder/womens-health-chatbot/internal/chatflow"
	"github.com/julianacholder/womens-health-chatbot/internal/session"
	"github.com/julianacholder/womens-health-chatbot/internal/ui/styles"
)

// =============================================================================
// STATUS BAR COMPONENT
// =============================================================================

// StatusBar is the bottom line: backend health, send state, session
// counters and key hints.
type StatusBar struct {
	Width int

	Health  backend.HealthReport
	Session session.Status
	State   chatflow.State
	Notice  string // transient message, e.g. "Copied"

	theme *styles.Theme
}

// NewStatusBar creates a status bar.
func NewStatusBar(theme *styles.Theme) *StatusBar {
	return &StatusBar{theme: theme, Width: 80}
}

// SetWidth sets the bar width.
func (s *StatusBar) SetWidth(width int) {
	s.Width = width
}

// HealthLabel returns the styled backend health indicator.
func (s *StatusBar) HealthLabel() string {
	r := s.Health
	switch {
	case !r.Checked():
		return s.theme.StatusUnknown.Render("○ checking")
	case r.Healthy():
		label := "● online"
		if r.Latency > 0 {
			label += " " + r.Latency.Round(time.Millisecond).String()
		}
		return s.theme.StatusHealthy.Render(label)
	case r.Err != nil:
		return s.theme.StatusDown.Render("● offline")
	default:
		status := "degraded"
		if r.Status != nil && r.Status.Status != "" {
			status = r.Status.Status
		}
		return s.theme.WarningStyle.Render("● " + status)
	}
}

// StateLabel returns the send state text.
func (s *StatusBar) StateLabel() string {
	switch s.State {
	case chatflow.StateSending:
		return s.theme.Typing.Render("sending")
	case chatflow.StateFailed:
		return s.theme.StatusDown.Render("last send failed")
	default:
		return s.theme.Muted.Render("ready")
	}
}

// View renders the bar.
func (s *StatusBar) View() string {
	width := s.Width
	if width <= 0 {
		width = 80
	}

	left := []string{s.HealthLabel(), s.StateLabel()}
	if s.Session.Sent > 0 {
		left = append(left, s.theme.Muted.Render(fmt.Sprintf("%d sent", s.Session.Sent)))
	}
	if s.Session.Duration > 0 {
		left = append(left, s.theme.Muted.Render(session.FormatDuration(s.Session.Duration)))
	}
	if s.Notice != "" {
		left = append(left, s.theme.InfoStyle.Render(s.Notice))
	}

	hints := []struct{ key, desc string }{
		{"ctrl+n", "new"},
		{"tab", "chats"},
		{"ctrl+y", "copy"},
		{"ctrl+a", "account"},
		{"ctrl+c", "quit"},
	}
	var right []string
	for _, h := range hints {
		right = append(right, s.theme.ShortcutKey.Render(h.key)+" "+s.theme.ShortcutDesc.Render(h.desc))
	}

	sep := s.theme.Muted.Render(" │ ")
	leftStr := strings.Join(left, sep)
	rightStr := strings.Join(right, "  ")

	inner := width - 2
	if lipgloss.Width(leftStr)+lipgloss.Width(rightStr)+2 > inner {
		rightStr = ""
	}
	gap := maxInt(inner-lipgloss.Width(leftStr)-lipgloss.Width(rightStr), 1)
	return s.theme.StatusBar.Width(width).Render(leftStr + strings.Repeat(" ", gap) + rightStr)
}
