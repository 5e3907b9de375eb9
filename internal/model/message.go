// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package model contains the data structures for conversations and messages.
package model

import (
	"time"

	"github.com/google/uuid"
)

// =============================================================================
// SENDER TYPE
// =============================================================================

// Sender identifies who authored a message.
type Sender string

const (
	SenderUser Sender = "user"
	SenderBot  Sender = "bot"
)

// String returns the string representation of the sender.
func (s Sender) String() string {
	return string(s)
}

// DisplayName returns a human-readable name for the sender.
func (s Sender) DisplayName() string {
	switch s {
	case SenderUser:
		return "You"
	case SenderBot:
		return "Luna"
	default:
		return string(s)
	}
}

// =============================================================================
// CLASSIFICATION TYPE
// =============================================================================

// Classification is the backend-assigned category of a bot reply.
// It only affects how a reply is styled.
type Classification string

const (
	ClassificationNormal      Classification = "normal"
	ClassificationEmergency   Classification = "emergency"
	ClassificationOutOfDomain Classification = "out_of_domain"
	ClassificationError       Classification = "error"
)

// Valid reports whether c is one of the known classifications.
func (c Classification) Valid() bool {
	switch c {
	case ClassificationNormal, ClassificationEmergency, ClassificationOutOfDomain, ClassificationError:
		return true
	}
	return false
}

// String returns the string representation of the classification.
func (c Classification) String() string {
	return string(c)
}

// ParseClassification maps a wire tag to a Classification.
// An empty tag is normal. The second result is false for unknown tags,
// which also map to normal.
func ParseClassification(tag string) (Classification, bool) {
	if tag == "" {
		return ClassificationNormal, true
	}
	c := Classification(tag)
	if !c.Valid() {
		return ClassificationNormal, false
	}
	return c, true
}

// =============================================================================
// MESSAGE TYPE
// =============================================================================

// Message represents a single message in a conversation.
// Messages are immutable once appended.
type Message struct {
	ID        string    `json:"id"`
	Text      string    `json:"text"`
	Sender    Sender    `json:"sender"`
	Timestamp time.Time `json:"timestamp"`

	// Only set on bot messages.
	Classification Classification `json:"classification,omitempty"`
}

// NewUserMessage creates a message authored by the user.
func NewUserMessage(text string) *Message {
	return &Message{
		ID:        generateMessageID(),
		Text:      text,
		Sender:    SenderUser,
		Timestamp: time.Now(),
	}
}

// NewBotMessage creates a reply authored by the bot.
func NewBotMessage(text string, classification Classification) *Message {
	if classification == "" {
		classification = ClassificationNormal
	}
	return &Message{
		ID:             generateMessageID(),
		Text:           text,
		Sender:         SenderBot,
		Timestamp:      time.Now(),
		Classification: classification,
	}
}

// NewErrorMessage creates a synthesized bot message for a failed send.
func NewErrorMessage(text string) *Message {
	return NewBotMessage(text, ClassificationError)
}

// IsFromUser returns true if the user wrote the message.
func (m *Message) IsFromUser() bool {
	return m.Sender == SenderUser
}

// IsError returns true for synthesized failure replies.
func (m *Message) IsError() bool {
	return m.Sender == SenderBot && m.Classification == ClassificationError
}

// EffectiveClassification returns the classification, treating an unset
// value as normal.
func (m *Message) EffectiveClassification() Classification {
	if m.Classification == "" {
		return ClassificationNormal
	}
	return m.Classification
}

// Clone returns a copy of the message.
func (m *Message) Clone() *Message {
	if m == nil {
		return nil
	}
	c := *m
	return &c
}

// =============================================================================
// HELPERS
// =============================================================================

func generateMessageID() string {
	return "msg-" + uuid.NewString()
}
