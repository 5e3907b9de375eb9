// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package conversation

// ErrConversationNotFound is returned when an id names no conversation in
// the manager's list.
// Use errors.Is(err, ErrConversationNotFound) to check for this error.
var ErrConversationNotFound = &Error{Message: "conversation not found"}

// ErrNoActiveConversation is returned by AddMessage when nothing is active.
var ErrNoActiveConversation = &Error{Message: "no active conversation"}

// Error represents a conversation manager error.
// It implements the error interface and can be compared using errors.Is.
type Error struct {
	Message string
	ID      string
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.ID != "" {
		return e.Message + ": " + e.ID
	}
	return e.Message
}

// Is implements errors.Is support for comparing conversation errors.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Message == t.Message
}
