// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package conversation

import (
	"encoding/json"
	"strconv"
	"strings"
	"time"

	"github.com/julianacholder/womens-health-chatbot/internal/model"
	"github.com/julianacholder/womens-health-chatbot/internal/util"
)

// PlaceholderLabel is shown instead of the title for untouched conversations.
const PlaceholderLabel = "✨ New Chat"

// DisplayTitle returns the label to show for a conversation in lists.
func DisplayTitle(c *model.Conversation) string {
	if c.IsPlaceholder() {
		return PlaceholderLabel
	}
	return c.Title
}

// ShortDate formats a conversation date the way the sidebar shows it.
func ShortDate(t time.Time) string {
	return t.Local().Format("Jan 2")
}

// =============================================================================
// LIST FORMATTING
// =============================================================================

// FormatList formats conversations as a plain-text table with the active
// one marked by '*'.
func FormatList(convs []*model.Conversation, currentID string) string {
	if len(convs) == 0 {
		return "No conversations found."
	}

	var sb strings.Builder
	sb.WriteString("  " + util.PadRight("ID", 14) + " " + util.PadRight("Updated", 8) + " " + util.PadRight("Msgs", 5) + " Title\n")
	sb.WriteString("  " + strings.Repeat("-", 60) + "\n")

	for _, c := range convs {
		marker := "  "
		if c.ID == currentID {
			marker = "* "
		}
		sb.WriteString(marker +
			util.PadRight(util.TruncateRunes(c.ID, 14), 14) + " " +
			util.PadRight(ShortDate(c.UpdatedAt), 8) + " " +
			util.PadRight(strconv.Itoa(c.MessageCount()), 5) + " " +
			util.TruncateWidth(DisplayTitle(c), 40) + "\n")
	}
	return sb.String()
}

// =============================================================================
// EXPORT
// =============================================================================

// ExportMarkdown renders a conversation as Markdown with sender labels and
// times. Emergency and error replies are tagged.
func ExportMarkdown(c *model.Conversation) string {
	var sb strings.Builder
	sb.WriteString("# " + c.Title + "\n\n")
	sb.WriteString("Created: " + c.CreatedAt.Format(time.RFC3339) + "\n\n")
	sb.WriteString("---\n\n")

	for _, msg := range c.Messages {
		label := "**" + msg.Sender.DisplayName() + "**"
		switch msg.Classification {
		case model.ClassificationEmergency:
			label += " _(urgent)_"
		case model.ClassificationError:
			label += " _(error)_"
		}
		sb.WriteString(label + " (" + msg.Timestamp.Format("15:04") + "):\n\n")
		sb.WriteString(msg.Text)
		sb.WriteString("\n\n---\n\n")
	}

	return sb.String()
}

// ExportJSON renders a conversation as indented JSON in the persisted format.
func ExportJSON(c *model.Conversation) ([]byte, error) {
	return json.MarshalIndent(c, "", "  ")
}
