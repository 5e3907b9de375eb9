// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

/*
Package styles provides the visual styling system for the Luna TUI.

# Color System (colors.go)

Brand colors are pink and purple with a lavender accent. Semantic colors
mark bot reply classifications:

	Rose    - emergency replies and errors
	Amber   - out-of-scope replies
	Emerald - healthy backend

All colors are Lip Gloss AdaptiveColor values.

# Theme System (theme.go)

	theme := styles.NewTheme("luna")  // follows the terminal background
	theme := styles.NewTheme("dark")  // pins the dark palette
	theme := styles.NewTheme("light") // pins the light palette

The theme carries every lipgloss style the components use, plus the
responsive layout helpers GetLayoutMode and SidebarWidth.

# Spinners (animations.go)

	MoonSpinner - moon phases shown while Luna is typing
	DotsSpinner - ASCII fallback
*/
package styles
