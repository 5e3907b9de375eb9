// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"

	"github.com/julianacholder/womens-health-chatbot/internal/auth"
	"github.com/julianacholder/womens-health-chatbot/internal/backend"
	"github.com/julianacholder/womens-health-chatbot/internal/chatflow"
	"github.com/julianacholder/womens-health-chatbot/internal/conversation"
	"github.com/julianacholder/womens-health-chatbot/internal/model"
	"github.com/julianacholder/womens-health-chatbot/internal/session"
	"github.com/julianacholder/womens-health-chatbot/internal/ui/components"
	"github.com/julianacholder/womens-health-chatbot/internal/ui/styles"
)

// noticeDuration is how long a transient notice stays in the status bar.
const noticeDuration = 3 * time.Second

// =============================================================================
// FOCUS
// =============================================================================

// Focus identifies which widget receives keys.
type Focus int

const (
	FocusInput Focus = iota
	FocusSidebar
	FocusWelcome
	FocusMenu
)

// String returns the string representation of the focus.
func (f Focus) String() string {
	switch f {
	case FocusInput:
		return "input"
	case FocusSidebar:
		return "sidebar"
	case FocusWelcome:
		return "welcome"
	case FocusMenu:
		return "menu"
	default:
		return "unknown"
	}
}

// =============================================================================
// MODEL
// =============================================================================

// Options wires the chat screen to one identity.
type Options struct {
	Conversations *conversation.Manager
	Sender        *chatflow.Sender
	Session       *session.Manager

	// Prober is optional; without it the status bar shows "checking".
	Prober *backend.Prober

	// User is nil for the guest.
	User *auth.User

	RecentLimit    int
	Markdown       bool
	ShowTimestamps bool

	// RequestTimeout bounds one chat request. Zero waits for the backend.
	RequestTimeout time.Duration

	// ExportDir receives Markdown exports. Empty disables export.
	ExportDir string
}

// Model is the chat screen: header, recent list, messages, input and
// status bar. All conversation mutations happen inside Update; the backend
// call runs in a command and returns as a ReplyMsg.
type Model struct {
	theme *styles.Theme
	keys  KeyMap

	conversations *conversation.Manager
	sender        *chatflow.Sender
	session       *session.Manager
	prober        *backend.Prober
	user          *auth.User

	recentLimit    int
	requestTimeout time.Duration
	exportDir      string

	header   *components.Header
	sidebar  components.Sidebar
	welcome  components.Welcome
	status   *components.StatusBar
	renderer *components.MessageRenderer

	viewport viewport.Model
	input    textinput.Model
	spinner  spinner.Model

	focus     Focus
	sending   bool
	noticeSeq int

	width  int
	height int
}

// New creates the chat screen.
func New(theme *styles.Theme, opts Options) Model {
	ti := textinput.New()
	ti.Placeholder = chatflow.InputPrompt
	ti.Prompt = "› "
	ti.CharLimit = 4000
	ti.Focus()

	sp := spinner.New()
	sp.Spinner = theme.TypingSpinner()
	sp.Style = theme.Typing

	limit := opts.RecentLimit
	if limit <= 0 {
		limit = conversation.DefaultRecentLimit
	}

	header := components.NewHeader(theme)
	header.SetUser(opts.User)

	m := Model{
		theme:          theme,
		keys:           DefaultKeyMap(),
		conversations:  opts.Conversations,
		sender:         opts.Sender,
		session:        opts.Session,
		prober:         opts.Prober,
		user:           opts.User,
		recentLimit:    limit,
		requestTimeout: opts.RequestTimeout,
		exportDir:      opts.ExportDir,
		header:         header,
		sidebar:        components.NewSidebar(theme),
		welcome:        components.NewWelcome(theme),
		status:         components.NewStatusBar(theme),
		renderer: components.NewMessageRenderer(theme).
			WithMarkdown(opts.Markdown).
			WithTimestamps(opts.ShowTimestamps),
		viewport: viewport.New(80, 20),
		input:    ti,
		spinner:  sp,
		width:    80,
		height:   24,
	}
	if opts.Prober != nil {
		m.status.Health = opts.Prober.Last()
	}
	m.layout()
	m.refresh()
	return m
}

// =============================================================================
// ACCESSORS
// =============================================================================

// Conversations returns the manager behind the screen.
func (m Model) Conversations() *conversation.Manager {
	return m.conversations
}

// User returns the signed-in user, or nil for the guest.
func (m Model) User() *auth.User {
	return m.user
}

// FocusState returns the widget that receives keys.
func (m Model) FocusState() Focus {
	return m.focus
}

// Sending reports whether a reply is outstanding.
func (m Model) Sending() bool {
	return m.sending
}

// InputValue returns the text in the input.
func (m Model) InputValue() string {
	return m.input.Value()
}

// SetInputValue replaces the text in the input.
func (m *Model) SetInputValue(s string) {
	m.input.SetValue(s)
}

// Notice returns the transient status notice.
func (m Model) Notice() string {
	return m.status.Notice
}

// Health returns the last health report shown.
func (m Model) Health() backend.HealthReport {
	return m.status.Health
}

// showSidebar reports whether the recent list is shown. Guests have no
// history, and narrow terminals have no room for it.
func (m Model) showSidebar() bool {
	return m.conversations != nil && !m.conversations.IsGuest() && m.theme.SidebarWidth() > 0
}

// current returns the active conversation, or nil.
func (m Model) current() *model.Conversation {
	if m.conversations == nil {
		return nil
	}
	return m.conversations.Current()
}
