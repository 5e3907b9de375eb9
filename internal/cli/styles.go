// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// styles.go - Shared styling for the luna CLI commands.
//
// Colors come from the Luna palette and are disabled for non-TTY output
// and when NO_COLOR is set.

package cli

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/julianacholder/womens-health-chatbot/internal/model"
	"github.com/julianacholder/womens-health-chatbot/internal/ui/styles"
)

func init() {
	lipgloss.SetColorProfile(GetColorProfile())
}

// =============================================================================
// SHARED STYLES FOR ALL CLI COMMANDS
// =============================================================================

var (
	// TitleStyle is used for command titles and headers
	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(styles.Pink)

	// LabelStyle is used for field labels
	LabelStyle = lipgloss.NewStyle().
			Foreground(styles.TextMuted).
			Width(16)

	// ValueStyle is used for regular values and text
	ValueStyle = lipgloss.NewStyle().
			Foreground(styles.TextPrimary)

	// SuccessStyle is used for success messages and OK statuses
	SuccessStyle = lipgloss.NewStyle().
			Foreground(styles.Emerald).
			Bold(true)

	// ErrorStyle is used for error messages and failures
	ErrorStyle = lipgloss.NewStyle().
			Foreground(styles.Rose).
			Bold(true)

	// WarningStyle is used for warnings and out-of-scope replies
	WarningStyle = lipgloss.NewStyle().
			Foreground(styles.Amber)

	// DimStyle is used for secondary information and hints
	DimStyle = lipgloss.NewStyle().
			Foreground(styles.TextMuted)

	// BotStyle labels Luna's replies
	BotStyle = lipgloss.NewStyle().
			Foreground(styles.Purple).
			Bold(true)

	// UserStyle labels the user's messages
	UserStyle = lipgloss.NewStyle().
			Foreground(styles.Pink).
			Bold(true)
)

// =============================================================================
// HELPER FUNCTIONS FOR COMMON PATTERNS
// =============================================================================

// RenderSeparator renders a horizontal rule of width columns.
func RenderSeparator(width int) string {
	if width <= 0 {
		width = 40
	}
	return DimStyle.Render(strings.Repeat("─", width))
}

// RenderLabel renders a field label with a fixed width.
func RenderLabel(label string) string {
	return LabelStyle.Render(label)
}

// RenderStatus renders a status word with the matching color.
func RenderStatus(ok bool, text string) string {
	if ok {
		return SuccessStyle.Render(text)
	}
	return ErrorStyle.Render(text)
}

// SenderLabel renders "You:" or "Luna:" for transcript output.
func SenderLabel(m *model.Message) string {
	if m.Sender == model.SenderUser {
		return UserStyle.Render(m.Sender.DisplayName() + ":")
	}
	return BotStyle.Render(m.Sender.DisplayName() + ":")
}

// ClassificationNote returns the note printed under a non-normal reply.
func ClassificationNote(c model.Classification) string {
	switch c {
	case model.ClassificationEmergency:
		return ErrorStyle.Render("🚨 If this is an emergency, contact local emergency services now.")
	case model.ClassificationOutOfDomain:
		return WarningStyle.Render("🌸 That's outside what Luna can help with.")
	case model.ClassificationError:
		return WarningStyle.Render("⚠ Luna could not be reached.")
	default:
		return ""
	}
}
