// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// conversations_cmd.go - Conversation management for the luna CLI.
//
// Commands:
//   conversations list [--all] [--json]
//   conversations show [ref]
//   conversations new
//   conversations switch <ref>
//   conversations delete <ref> [--yes]
//   conversations export [ref] [--format md|json] [--output FILE]
//
// A ref is a 1-based number from `list`, a full id, or a unique id prefix.

package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/julianacholder/womens-health-chatbot/internal/conversation"
	"github.com/julianacholder/womens-health-chatbot/internal/model"
	"github.com/julianacholder/womens-health-chatbot/internal/util"
)

func conversationsCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "conversations",
		Aliases: []string{"conv", "c"},
		Short:   "Manage saved conversations",
		Long: `List, open, switch, delete and export your saved conversations.

Conversations are kept only for signed-in accounts.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	cmd.AddCommand(
		conversationsListCmd(app),
		conversationsShowCmd(app),
		conversationsNewCmd(app),
		conversationsSwitchCmd(app),
		conversationsDeleteCmd(app),
		conversationsExportCmd(app),
	)
	return cmd
}

func conversationsListCmd(app *App) *cobra.Command {
	var (
		all     bool
		jsonOut bool
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List recent conversations, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			return OutputJSON(out, jsonOut, "conversations list", func() (interface{}, error) {
				cfg, err := app.Config()
				if err != nil {
					return nil, err
				}
				mgr, _, err := app.RequireUser(cmd.Context())
				if err != nil {
					return nil, err
				}

				convs := mgr.Recent(cfg.UI.RecentLimit)
				if all {
					convs = mgr.Conversations()
				}

				summaries := make([]ConversationSummary, 0, len(convs))
				for _, c := range convs {
					summaries = append(summaries, ConversationSummary{
						ID:        c.ID,
						Title:     conversation.DisplayTitle(c),
						Messages:  c.MessageCount(),
						UpdatedAt: c.UpdatedAt,
						Active:    c.ID == mgr.CurrentID(),
					})
				}
				if !jsonOut {
					printConversationList(cmd, convs, mgr.CurrentID())
				}
				return summaries, nil
			})
		},
	}

	cmd.Flags().BoolVar(&all, "all", false, "list every conversation, not just the recent ones")
	cmd.Flags().BoolVar(&jsonOut, "json", false, "output as JSON")
	return cmd
}

func conversationsShowCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "show [ref]",
		Short: "Print a conversation (default: the active one)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			mgr, _, err := app.RequireUser(cmd.Context())
			if err != nil {
				return err
			}
			c := mgr.Current()
			if len(args) == 1 {
				if c, err = resolveConversation(mgr, args[0]); err != nil {
					return err
				}
			}
			if c == nil {
				return conversation.ErrNoActiveConversation
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, TitleStyle.Render(conversation.DisplayTitle(c)))
			fmt.Fprintln(out, DimStyle.Render(c.ID+" · "+c.CreatedAt.Local().Format("Jan 2, 2006 3:04 PM")))
			fmt.Fprintln(out)
			if c.IsEmpty() {
				fmt.Fprintln(out, DimStyle.Render("No messages yet."))
				return nil
			}
			for _, m := range c.Messages {
				fmt.Fprintln(out, SenderLabel(m)+" "+DimStyle.Render(m.Timestamp.Local().Format("3:04 PM")))
				fmt.Fprintln(out, m.Text)
				if m.Sender == model.SenderBot {
					if note := ClassificationNote(m.Classification); note != "" {
						fmt.Fprintln(out, note)
					}
				}
				fmt.Fprintln(out)
			}
			return nil
		},
	}
}

func conversationsNewCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "new",
		Short: "Start a new conversation and make it active",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			mgr, _, err := app.RequireUser(cmd.Context())
			if err != nil {
				return err
			}
			c := mgr.CreateNewConversation()
			fmt.Fprintf(cmd.OutOrStdout(), "Started %s\n", c.ID)
			return nil
		},
	}
}

func conversationsSwitchCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "switch <ref>",
		Short: "Make a conversation active",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			mgr, _, err := app.RequireUser(cmd.Context())
			if err != nil {
				return err
			}
			c, err := resolveConversation(mgr, args[0])
			if err != nil {
				return err
			}
			if err := mgr.SwitchConversation(c.ID); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Switched to %s\n", conversation.DisplayTitle(c))
			return nil
		},
	}
}

func conversationsDeleteCmd(app *App) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "delete <ref>",
		Short: "Delete a conversation",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			mgr, _, err := app.RequireUser(cmd.Context())
			if err != nil {
				return err
			}
			c, err := resolveConversation(mgr, args[0])
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			confirmed, err := RequireConfirmation(cmd.InOrStdin(), out,
				fmt.Sprintf("delete %q", conversation.DisplayTitle(c)),
				ConfirmationOptions{Yes: yes, Interactive: isTerminalReader(cmd.InOrStdin())})
			if err != nil {
				return err
			}
			if !confirmed {
				fmt.Fprintln(out, "Cancelled.")
				return nil
			}

			if err := mgr.DeleteConversation(c.ID); err != nil {
				return err
			}
			fmt.Fprintf(out, "Deleted %s\n", c.ID)
			return nil
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "delete without asking")
	return cmd
}

func conversationsExportCmd(app *App) *cobra.Command {
	var (
		format string
		output string
	)

	cmd := &cobra.Command{
		Use:   "export [ref]",
		Short: "Export a conversation as Markdown or JSON",
		Example: `  luna conversations export > chat.md
  luna conversations export 2 --format json --output chat.json`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			mgr, _, err := app.RequireUser(cmd.Context())
			if err != nil {
				return err
			}
			c := mgr.Current()
			if len(args) == 1 {
				if c, err = resolveConversation(mgr, args[0]); err != nil {
					return err
				}
			}
			if c == nil {
				return conversation.ErrNoActiveConversation
			}

			var data []byte
			switch strings.ToLower(format) {
			case "md", "markdown":
				data = []byte(conversation.ExportMarkdown(c))
			case "json":
				if data, err = conversation.ExportJSON(c); err != nil {
					return err
				}
				data = append(data, '\n')
			default:
				return fmt.Errorf("unknown format %q (want md or json)", format)
			}

			if output == "" || output == "-" {
				_, err = cmd.OutOrStdout().Write(data)
				return err
			}
			if err := util.AtomicWriteFile(output, data, 0600); err != nil {
				return fmt.Errorf("failed to write %s: %w", output, err)
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "Wrote %s\n", output)
			return nil
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "md", "export format: md or json")
	cmd.Flags().StringVarP(&output, "output", "o", "", "write to FILE instead of stdout")
	return cmd
}

// =============================================================================
// HELPERS
// =============================================================================

func printConversationList(cmd *cobra.Command, convs []*model.Conversation, currentID string) {
	out := cmd.OutOrStdout()
	if len(convs) == 0 {
		fmt.Fprintln(out, "No conversations found.")
		return
	}
	for i, c := range convs {
		marker := "  "
		if c.ID == currentID {
			marker = SuccessStyle.Render("● ")
		}
		fmt.Fprintf(out, "%s%2d. %s %s %s\n",
			marker,
			i+1,
			util.PadRight(util.TruncateWidth(conversation.DisplayTitle(c), 40), 40),
			DimStyle.Render(util.PadRight(conversation.ShortDate(c.UpdatedAt), 7)),
			DimStyle.Render(c.ID))
	}
}

// resolveConversation finds a conversation by 1-based position in the
// recency order, full id, or unique id prefix.
func resolveConversation(mgr *conversation.Manager, ref string) (*model.Conversation, error) {
	convs := mgr.Conversations()

	if n, err := strconv.Atoi(ref); err == nil {
		if n < 1 || n > len(convs) {
			return nil, fmt.Errorf("no conversation number %d (have %d)", n, len(convs))
		}
		return convs[n-1], nil
	}

	var matches []*model.Conversation
	for _, c := range convs {
		if c.ID == ref {
			return c, nil
		}
		if strings.HasPrefix(c.ID, ref) {
			matches = append(matches, c)
		}
	}
	switch len(matches) {
	case 0:
		return nil, fmt.Errorf("%w: %s", conversation.ErrConversationNotFound, ref)
	case 1:
		return matches[0], nil
	default:
		return nil, fmt.Errorf("%q matches %d conversations; use more of the id", ref, len(matches))
	}
}
