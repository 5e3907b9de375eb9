// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"github.com/julianacholder/womens-health-chatbot/internal/backend"
	"github.com/julianacholder/womens-health-chatbot/internal/chatflow"
	"github.com/julianacholder/womens-health-chatbot/internal/ui/components"
)

// =============================================================================
// SEND FLOW MESSAGES
// =============================================================================

// ReplyMsg carries the finished backend call for a pending question.
type ReplyMsg struct {
	Result chatflow.Result
}

// =============================================================================
// BACKGROUND MESSAGES
// =============================================================================

// HealthMsg carries a health probe report.
type HealthMsg struct {
	Report backend.HealthReport
}

// noticeExpiredMsg clears a transient notice if it is still the latest.
type noticeExpiredMsg struct {
	seq int
}

// ExportedMsg reports the result of writing a conversation export.
type ExportedMsg struct {
	Path string
	Err  error
}

// =============================================================================
// OUTBOUND MESSAGES (handled by the application shell)
// =============================================================================

// AuthRequestMsg asks the shell to show the login or sign-up screen.
type AuthRequestMsg struct {
	Mode components.AuthMode
}

// SignOutMsg asks the shell to end the session.
type SignOutMsg struct{}
