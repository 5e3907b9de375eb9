// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"context"
	"errors"
	"log"
	"path/filepath"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/julianacholder/womens-health-chatbot/internal/chatflow"
	"github.com/julianacholder/womens-health-chatbot/internal/conversation"
	"github.com/julianacholder/womens-health-chatbot/internal/session"
	"github.com/julianacholder/womens-health-chatbot/internal/ui/components"
	"github.com/julianacholder/womens-health-chatbot/internal/util"
)

// copyToClipboard is replaced in tests.
var copyToClipboard = clipboard.WriteAll

// =============================================================================
// BUBBLE TEA INTERFACE
// =============================================================================

// Init starts the cursor blink, the session ticker and a first health probe.
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{textinput.Blink}
	if m.session != nil {
		cmds = append(cmds, m.session.TickCmd())
	}
	cmds = append(cmds, m.probeCmd())
	return tea.Batch(cmds...)
}

// Update handles a message.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.layout()
		m.refresh()
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.MouseMsg:
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		return m, cmd

	case ReplyMsg:
		return m.handleReply(msg)

	case spinner.TickMsg:
		if !m.sending {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		m.refreshViewport()
		return m, cmd

	case session.TickMsg:
		if m.session != nil {
			m.status.Session = m.session.GetStatus()
			return m, tea.Batch(m.probeCmd(), m.session.TickCmd())
		}
		return m, nil

	case HealthMsg:
		m.status.Health = msg.Report
		return m, nil

	case noticeExpiredMsg:
		if msg.seq == m.noticeSeq {
			m.status.Notice = ""
		}
		return m, nil

	case components.StarterSelectedMsg:
		m.setFocus(FocusInput)
		return m.send(msg.Question)

	case components.NewChatMsg:
		return m.newChat()

	case components.SwitchConversationMsg:
		if err := m.conversations.SwitchConversation(msg.ID); err != nil {
			log.Printf("CHAT: switch failed: %v", err)
			cmd := m.setNotice("Conversation not found")
			return m, cmd
		}
		m.setFocus(FocusInput)
		m.refresh()
		return m, nil

	case components.DeleteConversationMsg:
		_ = m.conversations.DeleteConversation(msg.ID)
		m.refresh()
		m.sidebar.Focus()
		cmd := m.setNotice("Conversation deleted")
		return m, cmd

	case components.MenuSelectedMsg:
		return m.handleMenu(msg.Action)

	case ExportedMsg:
		if msg.Err != nil {
			log.Printf("CHAT: export failed: %v", msg.Err)
			cmd := m.setNotice("Export failed")
			return m, cmd
		}
		cmd := m.setNotice("Saved " + filepath.Base(msg.Path))
		return m, cmd
	}

	if m.focus == FocusInput {
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}
	return m, nil
}

// =============================================================================
// KEY HANDLING
// =============================================================================

func (m Model) handleKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	if key.Matches(msg, m.keys.Quit) {
		return m, tea.Quit
	}
	if m.session != nil {
		m.session.RecordActivity()
	}

	if m.focus == FocusMenu {
		cmd := m.header.Update(msg)
		if !m.header.MenuOpen() {
			m.setFocus(FocusInput)
		}
		return m, cmd
	}

	switch {
	case key.Matches(msg, m.keys.Account):
		m.header.ToggleMenu()
		m.setFocus(FocusMenu)
		return m, nil
	case key.Matches(msg, m.keys.NewChat):
		return m.newChat()
	case key.Matches(msg, m.keys.Copy):
		return m.copyLastReply()
	case key.Matches(msg, m.keys.Export):
		cmd := m.exportCmd()
		return m, cmd
	case key.Matches(msg, m.keys.Focus):
		m.cycleFocus()
		return m, nil
	case key.Matches(msg, m.keys.Back) && m.focus != FocusInput && !m.sidebar.Confirming():
		m.setFocus(FocusInput)
		return m, nil
	}

	switch m.focus {
	case FocusSidebar:
		var cmd tea.Cmd
		m.sidebar, cmd = m.sidebar.Update(msg)
		return m, cmd
	case FocusWelcome:
		var cmd tea.Cmd
		m.welcome, cmd = m.welcome.Update(msg)
		return m, cmd
	}

	switch {
	case key.Matches(msg, m.keys.Submit):
		if isCommand(m.input.Value()) {
			return m.handleCommand(m.input.Value())
		}
		return m.send(m.input.Value())
	case key.Matches(msg, m.keys.PageUp):
		m.viewport.HalfViewUp()
		return m, nil
	case key.Matches(msg, m.keys.PageDown):
		m.viewport.HalfViewDown()
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// cycleFocus moves focus input -> sidebar -> welcome cards -> input,
// skipping widgets that are not shown.
func (m *Model) cycleFocus() {
	order := []Focus{FocusInput}
	if m.showSidebar() {
		order = append(order, FocusSidebar)
	}
	if c := m.current(); c != nil && c.IsEmpty() {
		order = append(order, FocusWelcome)
	}

	next := order[0]
	for i, f := range order {
		if f == m.focus {
			next = order[(i+1)%len(order)]
			break
		}
	}
	m.setFocus(next)
}

func (m *Model) setFocus(f Focus) {
	m.focus = f

	m.input.Blur()
	m.sidebar.Blur()
	m.welcome.Blur()
	if f != FocusMenu {
		m.header.CloseMenu()
	}

	switch f {
	case FocusInput:
		m.input.Focus()
	case FocusSidebar:
		m.sidebar.Focus()
	case FocusWelcome:
		m.welcome.Focus()
	}
}

// =============================================================================
// SEND FLOW
// =============================================================================

// send begins a send and returns the command that performs the request.
func (m Model) send(text string) (Model, tea.Cmd) {
	pending, err := m.sender.Begin(text)
	switch {
	case errors.Is(err, chatflow.ErrEmptyMessage):
		return m, nil
	case errors.Is(err, chatflow.ErrBusy):
		cmd := m.setNotice("Luna is still replying…")
		return m, cmd
	case err != nil:
		cmd := m.setNotice(err.Error())
		return m, cmd
	}

	m.sending = true
	m.input.Reset()
	m.refresh()
	return m, tea.Batch(m.requestCmd(pending), m.spinner.Tick)
}

// requestCmd performs the backend call off the UI loop.
func (m Model) requestCmd(p chatflow.Pending) tea.Cmd {
	b := m.sender.Backend()
	timeout := m.requestTimeout
	return func() tea.Msg {
		ctx := context.Background()
		if timeout > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, timeout)
			defer cancel()
		}
		return ReplyMsg{Result: p.Request(ctx, b)}
	}
}

func (m Model) handleReply(msg ReplyMsg) (Model, tea.Cmd) {
	if !m.sending || !m.sender.Awaits(msg.Result) {
		log.Printf("CHAT: dropping stale reply %d for %s", msg.Result.Seq, msg.Result.ConversationID)
		return m, nil
	}
	m.sender.Complete(msg.Result)
	m.sending = false
	m.refresh()
	return m, nil
}

// =============================================================================
// ACTIONS
// =============================================================================

func (m Model) newChat() (Model, tea.Cmd) {
	m.conversations.CreateNewConversation()
	m.setFocus(FocusInput)
	m.refresh()
	return m, nil
}

func (m Model) copyLastReply() (Model, tea.Cmd) {
	c := m.current()
	if c == nil {
		cmd := m.setNotice("Nothing to copy")
		return m, cmd
	}
	last := c.LastBotMessage()
	if last == nil || last.Text == "" {
		cmd := m.setNotice("No reply to copy")
		return m, cmd
	}
	if err := copyToClipboard(last.Text); err != nil {
		log.Printf("CHAT: clipboard unavailable: %v", err)
		cmd := m.setNotice("Clipboard unavailable")
		return m, cmd
	}
	cmd := m.setNotice("Copied")
	return m, cmd
}

func (m Model) handleMenu(action components.MenuAction) (Model, tea.Cmd) {
	m.setFocus(FocusInput)
	switch action {
	case components.MenuSignIn:
		return m, func() tea.Msg { return AuthRequestMsg{Mode: components.AuthModeLogin} }
	case components.MenuSignUp:
		return m, func() tea.Msg { return AuthRequestMsg{Mode: components.AuthModeSignup} }
	case components.MenuExport:
		cmd := m.exportCmd()
		return m, cmd
	case components.MenuSignOut:
		return m, func() tea.Msg { return SignOutMsg{} }
	}
	return m, nil
}

// exportCmd writes the active conversation as Markdown into the export
// directory.
func (m *Model) exportCmd() tea.Cmd {
	c := m.current()
	if c == nil || m.exportDir == "" {
		return m.setNotice("Export unavailable")
	}
	if c.IsEmpty() {
		return m.setNotice("Nothing to export")
	}
	dir := m.exportDir
	return func() tea.Msg {
		path := filepath.Join(dir, c.ID+".md")
		err := util.AtomicWriteFileWithDir(path, []byte(conversation.ExportMarkdown(c)), 0600, 0700)
		return ExportedMsg{Path: path, Err: err}
	}
}

// setNotice shows a transient status notice and schedules its removal.
func (m *Model) setNotice(text string) tea.Cmd {
	m.noticeSeq++
	m.status.Notice = text
	seq := m.noticeSeq
	return tea.Tick(noticeDuration, func(time.Time) tea.Msg {
		return noticeExpiredMsg{seq: seq}
	})
}

// probeCmd runs a health probe. Throttled probes report nothing.
func (m Model) probeCmd() tea.Cmd {
	if m.prober == nil {
		return nil
	}
	p := m.prober
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		report, err := p.Probe(ctx)
		if err != nil {
			return nil
		}
		return HealthMsg{Report: report}
	}
}
