// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// ask.go - Single question command for the luna CLI.
//
// Command: ask <question>
//
// Examples:
//   luna ask "What are common PMS symptoms?"
//   luna ask --plain "Is spotting normal?" | less
//   luna ask --json "How much iron do I need?"

package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/spf13/cobra"

	"github.com/julianacholder/womens-health-chatbot/internal/chatflow"
	"github.com/julianacholder/womens-health-chatbot/internal/model"
)

// AskData is the payload of `ask --json`.
type AskData struct {
	ConversationID string               `json:"conversationId"`
	Question       string               `json:"question"`
	Reply          string               `json:"reply"`
	Classification model.Classification `json:"classification"`
}

func askCmd(app *App) *cobra.Command {
	var (
		plain   bool
		jsonOut bool
	)

	cmd := &cobra.Command{
		Use:   "ask <question>",
		Short: "Ask Luna a single question",
		Long: `Ask Luna a single question and print the reply.

The question and reply are added to your active conversation when signed in.`,
		Example: `  luna ask "What are common PMS symptoms?"
  luna ask --json "How much iron do I need?"`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := app.Config()
			if err != nil {
				return err
			}
			mgr, _, err := app.Conversations(cmd.Context())
			if err != nil {
				return err
			}
			sender, err := app.Sender(mgr, nil)
			if err != nil {
				return err
			}

			question := strings.Join(args, " ")
			reply, err := sender.Send(cmd.Context(), question)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if jsonOut {
				data := AskData{
					ConversationID: mgr.CurrentID(),
					Question:       chatflow.NormalizeInput(question),
					Reply:          reply.Text,
					Classification: reply.Classification,
				}
				if sender.State() == chatflow.StateFailed {
					resp := NewJSONErrorResponse("ask", sender.LastError())
					resp.Data = data
					_ = resp.Write(out)
					return sender.LastError()
				}
				return NewJSONResponse("ask", data).Write(out)
			}

			printReply(out, reply, cfg.UI.Markdown && !plain)
			if sender.State() == chatflow.StateFailed {
				return fmt.Errorf("luna could not answer: %w", sender.LastError())
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&plain, "plain", false, "print the reply without Markdown rendering")
	cmd.Flags().BoolVar(&jsonOut, "json", false, "output as JSON")
	return cmd
}

// =============================================================================
// OUTPUT HELPERS
// =============================================================================

// printReply writes a bot message with its sender label and, for
// emergency and out-of-scope replies, a note. Markdown is rendered only
// when w is a terminal.
func printReply(w io.Writer, msg *model.Message, markdown bool) {
	text := msg.Text
	if markdown && msg.Classification != model.ClassificationError && isTerminalWriter(w) {
		if rendered, err := renderMarkdown(text, renderWidth()); err == nil {
			text = rendered
		}
	}

	fmt.Fprintln(w, SenderLabel(msg))
	fmt.Fprintln(w, strings.Trim(text, "\n"))
	if note := ClassificationNote(msg.Classification); note != "" {
		fmt.Fprintln(w, note)
	}
}

// renderMarkdown renders text for the terminal with glamour.
func renderMarkdown(text string, width int) (string, error) {
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(width),
		glamour.WithEmoji(),
	)
	if err != nil {
		return "", err
	}
	return r.Render(text)
}
