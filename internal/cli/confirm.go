// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// confirm.go - Confirmation handling for destructive CLI commands.
//
//  1. If --yes is present, proceed without prompting
//  2. If --json mode, require --yes (no interactive prompts in JSON mode)
//  3. If stdin is not a terminal, require --yes (can't prompt)
//  4. Otherwise, ask and wait for y/N

package cli

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// ConfirmationOptions controls RequireConfirmation.
type ConfirmationOptions struct {
	// Yes indicates --yes was passed
	Yes bool
	// JSONMode indicates --json was passed
	JSONMode bool
	// Interactive reports whether in is a terminal
	Interactive bool
}

// RequireConfirmation asks the user to confirm action on out and reads the
// answer from in. It returns false when the user declines.
func RequireConfirmation(in io.Reader, out io.Writer, action string, opts ConfirmationOptions) (bool, error) {
	if opts.Yes {
		return true, nil
	}
	if opts.JSONMode {
		return false, fmt.Errorf("confirmation required: use --yes to %s in JSON mode", action)
	}
	if !opts.Interactive {
		return false, fmt.Errorf("confirmation required but stdin is not a terminal; use --yes")
	}

	fmt.Fprintf(out, "Are you sure you want to %s? [y/N]: ", action)

	reader := bufio.NewReader(in)
	input, err := reader.ReadString('\n')
	if err != nil && input == "" {
		return false, fmt.Errorf("failed to read confirmation: %w", err)
	}

	response := strings.ToLower(strings.TrimSpace(input))
	return response == "y" || response == "yes", nil
}
