// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package model contains the data structures for conversations and messages.
package model

import (
	"time"

	"github.com/google/uuid"
)

const (
	// PlaceholderTitle is the title of a conversation that has not yet
	// received a user message.
	PlaceholderTitle = "New Chat"

	// GuestConversationID is the fixed id of the ephemeral guest conversation.
	GuestConversationID = "guest-chat"

	// GuestTitle is the title of the ephemeral guest conversation.
	GuestTitle = "Chat with Luna"

	// TitleMaxLength is the number of characters kept when a title is
	// derived from the first user message.
	TitleMaxLength = 40
)

// =============================================================================
// CONVERSATION TYPE
// =============================================================================

// Conversation is a single chat thread.
type Conversation struct {
	ID        string     `json:"id"`
	Title     string     `json:"title"`
	Messages  []*Message `json:"messages"`
	CreatedAt time.Time  `json:"createdAt"`
	UpdatedAt time.Time  `json:"updatedAt"`

	// Empty for guest conversations.
	OwnerID string `json:"ownerId,omitempty"`
}

// NewConversation creates an empty placeholder conversation owned by ownerID.
func NewConversation(ownerID string) *Conversation {
	now := time.Now()
	return &Conversation{
		ID:        generateConversationID(),
		Title:     PlaceholderTitle,
		Messages:  make([]*Message, 0),
		CreatedAt: now,
		UpdatedAt: now,
		OwnerID:   ownerID,
	}
}

// NewGuestConversation creates the ephemeral conversation shown to visitors
// who are not signed in.
func NewGuestConversation() *Conversation {
	conv := NewConversation("")
	conv.ID = GuestConversationID
	conv.Title = GuestTitle
	return conv
}

// =============================================================================
// MESSAGE MANAGEMENT
// =============================================================================

// AddMessage appends a message and refreshes UpdatedAt. The first user
// message appended to an empty conversation becomes its title.
func (c *Conversation) AddMessage(msg *Message) {
	if msg == nil {
		return
	}
	if len(c.Messages) == 0 && msg.Sender == SenderUser {
		c.Title = TitleFromText(msg.Text)
	}
	c.Messages = append(c.Messages, msg)
	c.UpdatedAt = time.Now()
}

// LastMessage returns the most recent message, or nil if empty.
func (c *Conversation) LastMessage() *Message {
	if len(c.Messages) == 0 {
		return nil
	}
	return c.Messages[len(c.Messages)-1]
}

// LastBotMessage returns the most recent bot reply, or nil.
func (c *Conversation) LastBotMessage() *Message {
	for i := len(c.Messages) - 1; i >= 0; i-- {
		if c.Messages[i].Sender == SenderBot {
			return c.Messages[i]
		}
	}
	return nil
}

// MessageCount returns the number of messages.
func (c *Conversation) MessageCount() int {
	return len(c.Messages)
}

// IsEmpty returns true if there are no messages.
func (c *Conversation) IsEmpty() bool {
	return len(c.Messages) == 0
}

// IsPlaceholder returns true while the conversation still carries the
// default title and has no messages.
func (c *Conversation) IsPlaceholder() bool {
	return c.Title == PlaceholderTitle && len(c.Messages) == 0
}

// IsGuest returns true for the unowned guest conversation.
func (c *Conversation) IsGuest() bool {
	return c.OwnerID == ""
}

// Clone returns a deep copy of the conversation.
func (c *Conversation) Clone() *Conversation {
	if c == nil {
		return nil
	}
	out := *c
	out.Messages = make([]*Message, len(c.Messages))
	for i, m := range c.Messages {
		out.Messages[i] = m.Clone()
	}
	return &out
}

// =============================================================================
// TITLES
// =============================================================================

// TitleFromText derives a conversation title from message text: the text
// itself when it fits in TitleMaxLength characters, otherwise the first
// TitleMaxLength characters followed by "...". Text is not normalized, so a
// title that fits is byte-equal to the text.
func TitleFromText(text string) string {
	runes := []rune(text)
	if len(runes) <= TitleMaxLength {
		return text
	}
	return string(runes[:TitleMaxLength]) + "..."
}

// =============================================================================
// HELPERS
// =============================================================================

func generateConversationID() string {
	return "conv-" + uuid.NewString()
}
