// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"log"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"

	"github.com/julianacholder/womens-health-chatbot/internal/model"
	"github.com/julianacholder/womens-health-chatbot/internal/ui/styles"
)

// TimestampFormat is the clock format shown under messages.
const TimestampFormat = "3:04 PM"

// ClassificationLabel returns the badge shown above a classified bot reply,
// or "" for normal replies.
func ClassificationLabel(c model.Classification) string {
	switch c {
	case model.ClassificationEmergency:
		return "🚨 Please seek care"
	case model.ClassificationOutOfDomain:
		return "🌸 Outside my expertise"
	case model.ClassificationError:
		return "⚠ Connection issue"
	default:
		return ""
	}
}

// =============================================================================
// MESSAGE RENDERER
// =============================================================================

// MessageRenderer renders conversation messages as bubbles. User messages
// sit on the right, Luna's replies on the left. Bot text is rendered as
// Markdown when enabled.
type MessageRenderer struct {
	theme          *styles.Theme
	width          int
	markdown       bool
	showTimestamps bool

	md      *glamour.TermRenderer
	mdWidth int
}

// NewMessageRenderer creates a renderer with Markdown on and timestamps off.
func NewMessageRenderer(theme *styles.Theme) *MessageRenderer {
	return &MessageRenderer{
		theme:    theme,
		width:    80,
		markdown: true,
	}
}

// WithMarkdown toggles Markdown rendering of bot replies.
func (r *MessageRenderer) WithMarkdown(enabled bool) *MessageRenderer {
	r.markdown = enabled
	return r
}

// WithTimestamps toggles the clock line under each message.
func (r *MessageRenderer) WithTimestamps(enabled bool) *MessageRenderer {
	r.showTimestamps = enabled
	return r
}

// SetWidth sets the available width.
func (r *MessageRenderer) SetWidth(width int) {
	if width < 24 {
		width = 24
	}
	r.width = width
}

// Width returns the available width.
func (r *MessageRenderer) Width() int {
	return r.width
}

// RenderAll renders messages separated by blank lines.
func (r *MessageRenderer) RenderAll(msgs []*model.Message) string {
	parts := make([]string, 0, len(msgs))
	for _, m := range msgs {
		if m == nil {
			continue
		}
		parts = append(parts, r.Render(m))
	}
	return strings.Join(parts, "\n\n")
}

// Render renders a single message.
func (r *MessageRenderer) Render(msg *model.Message) string {
	if msg.IsFromUser() {
		return r.renderUser(msg)
	}
	return r.renderBot(msg)
}

// =============================================================================
// USER BUBBLE - pink, right-aligned
// =============================================================================

func (r *MessageRenderer) renderUser(msg *model.Message) string {
	text := msg.Text
	if text == "" {
		text = "..."
	}

	maxContent := r.bubbleContentWidth()
	contentWidth := minInt(maxLineWidth(text), maxContent)
	bubble := r.theme.UserBubble.Width(contentWidth + 2).Render(text)

	lines := []string{bubble}
	if r.showTimestamps {
		lines = append(lines, r.theme.Timestamp.Render(msg.Timestamp.Local().Format(TimestampFormat)))
	}
	block := lipgloss.JoinVertical(lipgloss.Right, lines...)
	return lipgloss.PlaceHorizontal(r.width, lipgloss.Right, block)
}

// =============================================================================
// BOT BUBBLE - lavender, left-aligned, styled by classification
// =============================================================================

func (r *MessageRenderer) renderBot(msg *model.Message) string {
	class := msg.EffectiveClassification()
	maxContent := r.bubbleContentWidth()

	body := msg.Text
	if class != model.ClassificationError {
		body = r.renderMarkdown(body, maxContent)
	}
	if body == "" {
		body = "..."
	}

	style := r.bubbleStyle(class)
	contentWidth := minInt(maxLineWidth(body), maxContent)
	bubble := style.Width(contentWidth + 2).Render(body)

	header := r.theme.SenderLabel.Render("🌙 " + model.SenderBot.DisplayName())
	if label := ClassificationLabel(class); label != "" {
		header += "  " + r.labelStyle(class).Render(label)
	}

	lines := []string{header, bubble}
	if r.showTimestamps {
		lines = append(lines, r.theme.Timestamp.Render(msg.Timestamp.Local().Format(TimestampFormat)))
	}
	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func (r *MessageRenderer) bubbleStyle(c model.Classification) lipgloss.Style {
	switch c {
	case model.ClassificationEmergency:
		return r.theme.EmergencyBubble
	case model.ClassificationOutOfDomain:
		return r.theme.OutOfDomainBubble
	case model.ClassificationError:
		return r.theme.ErrorBubble
	default:
		return r.theme.BotBubble
	}
}

func (r *MessageRenderer) labelStyle(c model.Classification) lipgloss.Style {
	switch c {
	case model.ClassificationEmergency, model.ClassificationError:
		return r.theme.ClassLabel.Foreground(r.theme.Color(styles.Rose))
	default:
		return r.theme.ClassLabel.Foreground(r.theme.Color(styles.Amber))
	}
}

// bubbleContentWidth is the widest text a bubble may hold: three quarters
// of the view minus border and padding.
func (r *MessageRenderer) bubbleContentWidth() int {
	return maxInt(r.width*3/4-4, 16)
}

// =============================================================================
// MARKDOWN
// =============================================================================

// renderMarkdown renders text with glamour, falling back to the raw text on
// error. The renderer is rebuilt only when the wrap width changes.
func (r *MessageRenderer) renderMarkdown(text string, width int) string {
	if !r.markdown || strings.TrimSpace(text) == "" {
		return text
	}

	if r.md == nil || r.mdWidth != width {
		styleName := "light"
		if r.theme.IsDark {
			styleName = "dark"
		}
		md, err := glamour.NewTermRenderer(
			glamour.WithStandardStyle(styleName),
			glamour.WithWordWrap(width),
			glamour.WithEmoji(),
		)
		if err != nil {
			log.Printf("UI: markdown renderer unavailable: %v", err)
			return text
		}
		r.md = md
		r.mdWidth = width
	}

	out, err := r.md.Render(text)
	if err != nil {
		return text
	}
	return trimRenderedMarkdown(out)
}

// trimRenderedMarkdown drops the blank margin lines glamour adds around a
// document and the trailing padding on each line.
func trimRenderedMarkdown(s string) string {
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimRight(line, " ")
	}
	return strings.Trim(strings.Join(lines, "\n"), "\n")
}
