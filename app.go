// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/julianacholder/womens-health-chatbot/internal/auth"
	"github.com/julianacholder/womens-health-chatbot/internal/backend"
	"github.com/julianacholder/womens-health-chatbot/internal/chatflow"
	"github.com/julianacholder/womens-health-chatbot/internal/config"
	"github.com/julianacholder/womens-health-chatbot/internal/conversation"
	"github.com/julianacholder/womens-health-chatbot/internal/session"
	"github.com/julianacholder/womens-health-chatbot/internal/storage"
	"github.com/julianacholder/womens-health-chatbot/internal/ui/chat"
	"github.com/julianacholder/womens-health-chatbot/internal/ui/components"
	"github.com/julianacholder/womens-health-chatbot/internal/ui/styles"
)

// authTimeout bounds one call to the auth provider.
const authTimeout = 30 * time.Second

// =============================================================================
// STATE
// =============================================================================

// State represents the current screen.
type State int

const (
	StateChat State = iota // Chat screen
	StateAuth              // Login or sign-up form
)

// String returns the state name for logging.
func (s State) String() string {
	switch s {
	case StateChat:
		return "chat"
	case StateAuth:
		return "auth"
	default:
		return "unknown"
	}
}

// =============================================================================
// MESSAGES
// =============================================================================

// authResultMsg carries the outcome of a sign-in or sign-up.
type authResultMsg struct {
	session *auth.Session
	err     error
}

// oauthResultMsg carries the URL that finishes a social sign-in.
type oauthResultMsg struct {
	url string
	err error
}

// signedOutMsg reports that the provider session has ended.
type signedOutMsg struct {
	err error
}

// =============================================================================
// MODEL
// =============================================================================

// Deps are the collaborators shared by every identity.
type Deps struct {
	Config  *config.Config
	Theme   *styles.Theme
	Store   storage.Store
	Auth    auth.Client
	Backend chatflow.Backend
	Prober  *backend.Prober
	Session *session.Manager

	// Initial is the session found at startup, nil for the guest.
	Initial *auth.Session
}

// Model is the root of the full-screen interface. It owns the identity
// and rebuilds the chat screen whenever the identity changes.
type Model struct {
	deps Deps

	state State
	user  *auth.User

	chat     chat.Model
	authForm components.AuthForm

	width  int
	height int
}

// NewModel builds the root model for the startup identity.
func NewModel(deps Deps) Model {
	m := Model{
		deps:     deps,
		state:    StateChat,
		authForm: components.NewAuthForm(deps.Theme, components.AuthModeLogin),
		width:    80,
		height:   24,
	}
	if deps.Initial != nil {
		user := deps.Initial.User
		m.user = &user
	}
	m.chat = m.buildChat()
	return m
}

// buildChat wires a conversation manager and send flow to the current
// identity. A guest starts from a fresh in-memory conversation.
func (m Model) buildChat() chat.Model {
	ownerID := ""
	if m.user != nil {
		ownerID = m.user.ID
	}
	mgr := conversation.New(m.deps.Store, ownerID)
	sender := chatflow.New(mgr, m.deps.Backend, m.deps.Session.SessionID()).WithTracker(m.deps.Session)

	opts := chat.Options{
		Conversations: mgr,
		Sender:        sender,
		Session:       m.deps.Session,
		Prober:        m.deps.Prober,
		User:          m.user,
	}
	if cfg := m.deps.Config; cfg != nil {
		opts.RecentLimit = cfg.UI.RecentLimit
		opts.Markdown = cfg.UI.Markdown
		opts.ShowTimestamps = cfg.UI.ShowTimestamps
		opts.RequestTimeout = cfg.BackendTimeout()
		if dir, err := config.ConfigDir(); err == nil {
			opts.ExportDir = filepath.Join(dir, "exports")
		}
	}

	c := chat.New(m.deps.Theme, opts)
	c, _ = c.Update(tea.WindowSizeMsg{Width: m.width, Height: m.height})
	return c
}

// State returns the current screen.
func (m Model) State() State {
	return m.state
}

// User returns the signed-in user, nil for the guest.
func (m Model) User() *auth.User {
	return m.user
}

// Chat returns the chat screen.
func (m Model) Chat() chat.Model {
	return m.chat
}

// =============================================================================
// BUBBLE TEA INTERFACE
// =============================================================================

// Init starts the chat screen.
func (m Model) Init() tea.Cmd {
	return m.chat.Init()
}

// Update routes identity messages to the shell and everything else to the
// active screen.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.authForm.SetSize(msg.Width, msg.Height)
		var cmd tea.Cmd
		m.chat, cmd = m.chat.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		if m.state == StateAuth {
			return m.handleAuthKey(msg)
		}

	// Identity requests from the chat screen
	case chat.AuthRequestMsg:
		m.state = StateAuth
		m.authForm.Reset()
		m.authForm.SetMode(msg.Mode)
		return m, m.authForm.Init()

	case chat.SignOutMsg:
		return m, m.signOutCmd()

	case signedOutMsg:
		if msg.err != nil {
			log.Printf("AUTH: sign out failed: %v", msg.err)
		}
		return m.switchIdentity(nil)

	// Auth form results
	case components.AuthSubmitMsg:
		m.authForm.SetBusy(true)
		return m, m.authCmd(msg)

	case authResultMsg:
		if msg.err != nil {
			m.authForm.SetError(msg.err)
			return m, nil
		}
		user := msg.session.User
		log.Printf("AUTH: signed in as %s", user.ID)
		return m.switchIdentity(&user)

	case components.AuthOAuthMsg:
		m.authForm.SetBusy(true)
		return m, m.oauthCmd(msg.Provider)

	case oauthResultMsg:
		if msg.err != nil {
			m.authForm.SetError(msg.err)
			return m, nil
		}
		m.authForm.SetError(fmt.Errorf("open %s in your browser to finish signing in", msg.url))
		return m, nil

	case components.AuthGuestMsg:
		m.state = StateChat
		return m, nil
	}

	if m.state == StateAuth {
		// Background ticks keep flowing to the chat while the form is up.
		if _, ok := msg.(tea.KeyMsg); !ok {
			var cmd tea.Cmd
			m.chat, cmd = m.chat.Update(msg)
			var formCmd tea.Cmd
			m.authForm, formCmd = m.authForm.Update(msg)
			return m, tea.Batch(cmd, formCmd)
		}
	}

	var cmd tea.Cmd
	m.chat, cmd = m.chat.Update(msg)
	return m, cmd
}

func (m Model) handleAuthKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		return m, tea.Quit
	case "esc":
		if !m.authForm.Busy() {
			m.state = StateChat
			return m, nil
		}
	}
	var cmd tea.Cmd
	m.authForm, cmd = m.authForm.Update(msg)
	return m, cmd
}

// switchIdentity rebuilds the chat for user and returns to it. The session
// tick chain started by the first Init keeps running, so the new chat is
// not initialised again.
func (m Model) switchIdentity(user *auth.User) (tea.Model, tea.Cmd) {
	m.user = user
	m.state = StateChat
	m.authForm.Reset()
	m.chat = m.buildChat()
	return m, nil
}

// =============================================================================
// COMMANDS
// =============================================================================

func (m Model) authCmd(msg components.AuthSubmitMsg) tea.Cmd {
	client := m.deps.Auth
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), authTimeout)
		defer cancel()

		var (
			sess *auth.Session
			err  error
		)
		if msg.Mode == components.AuthModeSignup {
			sess, err = client.SignUp(ctx, msg.Name, msg.Email, msg.Password)
		} else {
			sess, err = client.SignInWithPassword(ctx, msg.Email, msg.Password)
		}
		if err == nil && sess == nil {
			err = errors.New("sign-in returned no session")
		}
		return authResultMsg{session: sess, err: err}
	}
}

func (m Model) oauthCmd(provider string) tea.Cmd {
	client := m.deps.Auth
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), authTimeout)
		defer cancel()
		url, err := client.SignInWithOAuth(ctx, provider)
		return oauthResultMsg{url: url, err: err}
	}
}

func (m Model) signOutCmd() tea.Cmd {
	client := m.deps.Auth
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), authTimeout)
		defer cancel()
		return signedOutMsg{err: client.SignOut(ctx)}
	}
}

// =============================================================================
// VIEW
// =============================================================================

// View renders the active screen.
func (m Model) View() string {
	if m.state == StateAuth {
		return m.authForm.View()
	}
	return m.chat.View()
}
