// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package styles provides the visual styling system for the Luna TUI.
// All colors use Lip Gloss AdaptiveColor for automatic light/dark detection.
package styles

import "github.com/charmbracelet/lipgloss"

// =============================================================================
// BRAND COLORS
// =============================================================================

// Pink - Brand color, user messages, primary buttons
var Pink = lipgloss.AdaptiveColor{Light: "#DB2777", Dark: "#F472B6"}

// PinkDeep - Darker pink for backgrounds
var PinkDeep = lipgloss.AdaptiveColor{Light: "#BE185D", Dark: "#831843"}

// Purple - Secondary accent, bot messages, selections
var Purple = lipgloss.AdaptiveColor{Light: "#9333EA", Dark: "#C084FC"}

// PurpleDeep - Darker purple for backgrounds
var PurpleDeep = lipgloss.AdaptiveColor{Light: "#6B21A8", Dark: "#3B0764"}

// Lavender - Soft accent for borders and cards
var Lavender = lipgloss.AdaptiveColor{Light: "#DDD6FE", Dark: "#6D5BA8"}

// =============================================================================
// SEMANTIC COLORS
// =============================================================================

// Rose - Emergency replies, errors
var Rose = lipgloss.AdaptiveColor{Light: "#E11D48", Dark: "#FB7185"}

// Amber - Out-of-scope replies, warnings
var Amber = lipgloss.AdaptiveColor{Light: "#D97706", Dark: "#FBBF24"}

// Emerald - Healthy backend, success
var Emerald = lipgloss.AdaptiveColor{Light: "#059669", Dark: "#34D399"}

// =============================================================================
// SURFACE COLORS
// =============================================================================

// Surface - Main background
var Surface = lipgloss.AdaptiveColor{Light: "#FFFFFF", Dark: "#1E1B2E"}

// SurfaceDim - Headers, sidebar, status bar
var SurfaceDim = lipgloss.AdaptiveColor{Light: "#FDF2F8", Dark: "#181524"}

// Overlay - Borders, separators
var Overlay = lipgloss.AdaptiveColor{Light: "#F5D0FE", Dark: "#3B3552"}

// =============================================================================
// TEXT COLORS
// =============================================================================

// TextPrimary - Main body text
var TextPrimary = lipgloss.AdaptiveColor{Light: "#1F2937", Dark: "#EDE9FE"}

// TextSecondary - Labels
var TextSecondary = lipgloss.AdaptiveColor{Light: "#6B7280", Dark: "#C4B5FD"}

// TextMuted - Hints, timestamps
var TextMuted = lipgloss.AdaptiveColor{Light: "#9CA3AF", Dark: "#7C7396"}

// TextInverse - Text on colored backgrounds
var TextInverse = lipgloss.AdaptiveColor{Light: "#FFFFFF", Dark: "#1E1B2E"}

// =============================================================================
// MESSAGE BUBBLE COLORS
// =============================================================================

// User bubble - pink to purple
var UserBubbleBg = lipgloss.AdaptiveColor{Light: "#FCE7F3", Dark: "#9D174D"}
var UserBubbleFg = lipgloss.AdaptiveColor{Light: "#831843", Dark: "#FDF2F8"}
var UserBubbleBorder = lipgloss.AdaptiveColor{Light: "#EC4899", Dark: "#F472B6"}

// Bot bubble - soft lavender
var BotBubbleBg = lipgloss.AdaptiveColor{Light: "#FAF5FF", Dark: "#2E2645"}
var BotBubbleFg = lipgloss.AdaptiveColor{Light: "#4C1D95", Dark: "#EDE9FE"}
var BotBubbleBorder = lipgloss.AdaptiveColor{Light: "#D8B4FE", Dark: "#A78BFA"}

// Emergency bubble
var EmergencyBubbleBg = lipgloss.AdaptiveColor{Light: "#FFE4E6", Dark: "#4C0519"}
var EmergencyBubbleFg = lipgloss.AdaptiveColor{Light: "#881337", Dark: "#FFE4E6"}

// Out-of-scope bubble
var OutOfDomainBubbleBg = lipgloss.AdaptiveColor{Light: "#FEF3C7", Dark: "#451A03"}
var OutOfDomainBubbleFg = lipgloss.AdaptiveColor{Light: "#92400E", Dark: "#FEF3C7"}

// =============================================================================
// SPECIAL EFFECTS
// =============================================================================

// Focus ring color
var FocusRing = Pink

// Selection highlight
var SelectionBg = lipgloss.AdaptiveColor{Light: "#FBCFE8", Dark: "#4A2A5C"}

// High contrast pairs for status text.
var SuccessHighContrast = lipgloss.AdaptiveColor{Light: "#15803D", Dark: "#22C55E"}
var ErrorHighContrast = lipgloss.AdaptiveColor{Light: "#DC2626", Dark: "#EF4444"}
var WarningHighContrast = lipgloss.AdaptiveColor{Light: "#D97706", Dark: "#F59E0B"}
var InfoHighContrast = lipgloss.AdaptiveColor{Light: "#7E22CE", Dark: "#D8B4FE"}
