// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package styles provides the visual styling system for the Luna TUI.
package styles

import (
	"time"

	"github.com/charmbracelet/bubbles/spinner"
)

// =============================================================================
// SPINNER ANIMATIONS
// =============================================================================

// MoonSpinner cycles through the moon phases while Luna is typing.
var MoonSpinner = spinner.Spinner{
	Frames: []string{"🌑", "🌒", "🌓", "🌔", "🌕", "🌖", "🌗", "🌘"},
	FPS:    time.Second / 8,
}

// DotsSpinner is an ASCII fallback for terminals without emoji.
var DotsSpinner = spinner.Spinner{
	Frames: []string{".  ", ".. ", "...", " ..", "  .", "   "},
	FPS:    time.Second / 6,
}

// TypingSpinner picks the spinner for the current color profile.
func (t *Theme) TypingSpinner() spinner.Spinner {
	if t.HasTrueColor {
		return MoonSpinner
	}
	return DotsSpinner
}
