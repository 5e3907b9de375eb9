// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// chat.go - Line-mode chat for the luna CLI.
//
// Command: chat
//
// A readline-style REPL over the same send flow the full-screen chat
// uses. Input history is kept in ~/.luna/history. When stdin is not a
// terminal, lines are read from it one question at a time.

package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/peterh/liner"
	"github.com/spf13/cobra"

	"github.com/julianacholder/womens-health-chatbot/internal/auth"
	"github.com/julianacholder/womens-health-chatbot/internal/chatflow"
	"github.com/julianacholder/womens-health-chatbot/internal/conversation"
	"github.com/julianacholder/womens-health-chatbot/internal/session"
)

func chatCmd(app *App) *cobra.Command {
	var plain bool

	cmd := &cobra.Command{
		Use:   "chat",
		Short: "Chat with Luna in line mode",
		Long: `Chat with Luna one line at a time.

Commands inside the chat:
  /new            start a new conversation
  /list           list recent conversations
  /switch <ref>   switch by list number or id prefix
  /history        show the active conversation
  /status         show session counters
  /help           show this help
  /quit           leave (also exit, quit, Ctrl+D)`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := app.Config()
			if err != nil {
				return err
			}
			mgr, user, err := app.Conversations(cmd.Context())
			if err != nil {
				return err
			}
			tracker := session.NewManager(session.DefaultConfig())
			sender, err := app.Sender(mgr, tracker)
			if err != nil {
				return err
			}

			s := &ChatSession{
				Conversations: mgr,
				Sender:        sender,
				Tracker:       tracker,
				User:          user,
				Out:           cmd.OutOrStdout(),
				Markdown:      cfg.UI.Markdown && !plain,
				RecentLimit:   cfg.UI.RecentLimit,
			}

			var input LineReader
			if isTerminalReader(cmd.InOrStdin()) {
				input = NewChatCLI(cfg.HistoryPath())
			} else {
				input = NewScriptedInput(cmd.InOrStdin())
			}
			defer input.Close()

			return s.Run(cmd.Context(), input)
		},
	}

	cmd.Flags().BoolVar(&plain, "plain", false, "print replies without Markdown rendering")
	return cmd
}

// =============================================================================
// INPUT
// =============================================================================

// LineReader supplies chat input. Prompt returns io.EOF when input ends.
type LineReader interface {
	Prompt(prompt string) (string, error)
	Close() error
}

// ChatCLI provides input history and line editing for interactive chat.
type ChatCLI struct {
	line        *liner.State
	historyFile string
}

// NewChatCLI creates a line editor with history loaded from historyFile.
func NewChatCLI(historyFile string) *ChatCLI {
	line := liner.NewLiner()
	line.SetCtrlCAborts(true)

	c := &ChatCLI{
		line:        line,
		historyFile: historyFile,
	}
	c.LoadHistory()
	return c
}

// LoadHistory loads input history from file.
func (c *ChatCLI) LoadHistory() {
	if f, err := os.Open(c.historyFile); err == nil {
		c.line.ReadHistory(f)
		f.Close()
	}
}

// Prompt reads a line of input with the given prompt.
func (c *ChatCLI) Prompt(prompt string) (string, error) {
	input, err := c.line.Prompt(prompt)
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(input) != "" {
		c.line.AppendHistory(input)
	}
	return input, nil
}

// SaveHistory persists input history with owner-only permissions.
func (c *ChatCLI) SaveHistory() {
	if err := os.MkdirAll(filepath.Dir(c.historyFile), 0700); err != nil {
		return
	}
	f, err := os.OpenFile(c.historyFile, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
	if err != nil {
		log.Printf("CHAT: could not save history: %v", err)
		return
	}
	defer f.Close()
	c.line.WriteHistory(f)
}

// Close saves history and restores the terminal.
func (c *ChatCLI) Close() error {
	c.SaveHistory()
	return c.line.Close()
}

// ScriptedInput reads chat input from a non-terminal reader.
type ScriptedInput struct {
	scanner *bufio.Scanner
}

// NewScriptedInput reads one line per prompt from r.
func NewScriptedInput(r io.Reader) *ScriptedInput {
	return &ScriptedInput{scanner: bufio.NewScanner(r)}
}

// Prompt returns the next line, ignoring the prompt text.
func (s *ScriptedInput) Prompt(string) (string, error) {
	if !s.scanner.Scan() {
		if err := s.scanner.Err(); err != nil {
			return "", err
		}
		return "", io.EOF
	}
	return s.scanner.Text(), nil
}

// Close is a no-op.
func (s *ScriptedInput) Close() error {
	return nil
}

// =============================================================================
// CHAT SESSION
// =============================================================================

// ChatSession is one line-mode chat.
type ChatSession struct {
	Conversations *conversation.Manager
	Sender        *chatflow.Sender
	Tracker       *session.Manager
	User          *auth.User // nil for the guest

	Out         io.Writer
	Markdown    bool
	RecentLimit int
}

// Run greets the user and answers lines until input ends or the user quits.
func (s *ChatSession) Run(ctx context.Context, input LineReader) error {
	s.printWelcome()

	for {
		if ctx.Err() != nil {
			s.printExitSummary()
			return nil
		}

		line, err := input.Prompt(s.prompt())
		if err != nil {
			if errors.Is(err, liner.ErrPromptAborted) || errors.Is(err, io.EOF) {
				fmt.Fprintln(s.Out)
				s.printExitSummary()
				return nil
			}
			return err
		}

		if quit := s.HandleLine(ctx, line); quit {
			s.printExitSummary()
			return nil
		}
	}
}

// HandleLine processes one line of input and reports whether to quit.
func (s *ChatSession) HandleLine(ctx context.Context, line string) bool {
	line = strings.TrimSpace(line)
	if line == "" {
		return false
	}
	if s.Tracker != nil {
		s.Tracker.RecordActivity()
	}

	if strings.EqualFold(line, "exit") || strings.EqualFold(line, "quit") {
		return true
	}
	if strings.HasPrefix(line, "/") {
		return s.handleSlashCommand(line)
	}

	reply, err := s.Sender.Send(ctx, line)
	if err != nil {
		fmt.Fprintf(s.Out, "%s %v\n", ErrorStyle.Render("[Error]"), err)
		return false
	}
	printReply(s.Out, reply, s.Markdown)
	fmt.Fprintln(s.Out)
	return false
}

func (s *ChatSession) handleSlashCommand(line string) bool {
	fields := strings.Fields(line)
	name := strings.ToLower(fields[0])
	args := fields[1:]

	switch name {
	case "/quit", "/exit", "/q":
		return true

	case "/help", "/?":
		s.printHelp()

	case "/new":
		s.Conversations.CreateNewConversation()
		fmt.Fprintln(s.Out, SuccessStyle.Render("Started a new conversation."))

	case "/list":
		fmt.Fprint(s.Out, conversation.FormatList(s.Conversations.Recent(s.RecentLimit), s.Conversations.CurrentID()))

	case "/switch":
		if len(args) != 1 {
			fmt.Fprintln(s.Out, WarningStyle.Render("Usage: /switch <number or id>"))
			return false
		}
		c, err := resolveConversation(s.Conversations, args[0])
		if err == nil {
			err = s.Conversations.SwitchConversation(c.ID)
		}
		if err != nil {
			fmt.Fprintf(s.Out, "%s %v\n", ErrorStyle.Render("[Error]"), err)
			return false
		}
		fmt.Fprintf(s.Out, "Switched to %s\n", conversation.DisplayTitle(c))

	case "/history":
		s.printHistory()

	case "/status":
		s.printStatus()

	default:
		fmt.Fprintf(s.Out, "%s unknown command %s (try /help)\n", WarningStyle.Render("[?]"), name)
	}
	return false
}

func (s *ChatSession) prompt() string {
	return "you› "
}

// =============================================================================
// OUTPUT
// =============================================================================

func (s *ChatSession) printWelcome() {
	fmt.Fprintln(s.Out, TitleStyle.Render(chatflow.Greeting))
	fmt.Fprintln(s.Out, chatflow.Tagline)
	if s.User == nil {
		fmt.Fprintln(s.Out, DimStyle.Render("You're chatting as a guest; sign in with `luna login` to save your chats."))
	} else {
		fmt.Fprintln(s.Out, DimStyle.Render("Signed in as "+auth.DisplayName(s.User)+"."))
	}

	if c := s.Conversations.Current(); c != nil && c.IsEmpty() {
		fmt.Fprintln(s.Out)
		fmt.Fprintln(s.Out, "Popular questions:")
		for _, q := range chatflow.StarterQuestions {
			fmt.Fprintln(s.Out, "  • "+q)
		}
	}
	fmt.Fprintln(s.Out)
	fmt.Fprintln(s.Out, DimStyle.Render(chatflow.Disclaimer))
	fmt.Fprintln(s.Out, DimStyle.Render("Type /help for commands."))
	fmt.Fprintln(s.Out)
}

func (s *ChatSession) printHelp() {
	fmt.Fprintln(s.Out, "Commands:")
	fmt.Fprintln(s.Out, "  /new            start a new conversation")
	fmt.Fprintln(s.Out, "  /list           list recent conversations")
	fmt.Fprintln(s.Out, "  /switch <ref>   switch by list number or id prefix")
	fmt.Fprintln(s.Out, "  /history        show the active conversation")
	fmt.Fprintln(s.Out, "  /status         show session counters")
	fmt.Fprintln(s.Out, "  /quit           leave")
}

func (s *ChatSession) printHistory() {
	c := s.Conversations.Current()
	if c == nil || c.IsEmpty() {
		fmt.Fprintln(s.Out, DimStyle.Render("No messages yet."))
		return
	}
	fmt.Fprintln(s.Out, TitleStyle.Render(conversation.DisplayTitle(c)))
	for _, m := range c.Messages {
		fmt.Fprintln(s.Out, SenderLabel(m)+" "+m.Text)
	}
}

func (s *ChatSession) printStatus() {
	if s.Tracker == nil {
		return
	}
	st := s.Tracker.GetStatus()
	fmt.Fprintln(s.Out, RenderLabel("Session")+st.SessionID)
	fmt.Fprintln(s.Out, RenderLabel("Duration")+session.FormatDuration(st.Duration))
	fmt.Fprintf(s.Out, "%s%d sent, %d answered, %d failed\n", RenderLabel("Messages"), st.Sent, st.Delivered, st.Failed)
}

func (s *ChatSession) printExitSummary() {
	if s.Tracker == nil {
		return
	}
	st := s.Tracker.GetStatus()
	if st.Sent == 0 {
		fmt.Fprintln(s.Out, DimStyle.Render("Take care 🌙"))
		return
	}
	fmt.Fprintln(s.Out, DimStyle.Render(fmt.Sprintf("%d questions in %s. Take care 🌙", st.Sent, session.FormatDuration(st.Duration))))
}
