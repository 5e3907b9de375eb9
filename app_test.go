// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package main

import (
	"context"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/julianacholder/womens-health-chatbot/internal/auth"
	"github.com/julianacholder/womens-health-chatbot/internal/backend"
	"github.com/julianacholder/womens-health-chatbot/internal/chatflow"
	"github.com/julianacholder/womens-health-chatbot/internal/model"
	"github.com/julianacholder/womens-health-chatbot/internal/session"
	"github.com/julianacholder/womens-health-chatbot/internal/storage"
	"github.com/julianacholder/womens-health-chatbot/internal/ui/chat"
	"github.com/julianacholder/womens-health-chatbot/internal/ui/components"
	"github.com/julianacholder/womens-health-chatbot/internal/ui/styles"
)

type stubBackend struct{}

func (stubBackend) Chat(ctx context.Context, sessionID, question string) (*backend.Reply, error) {
	return &backend.Reply{Text: "answer to " + question, Classification: model.ClassificationNormal}, nil
}

func newTestModel(t *testing.T) (Model, *auth.LocalClient) {
	t.Helper()
	store := storage.NewMemoryStore()
	client, err := auth.NewLocalClient(store, "test-secret")
	require.NoError(t, err)
	client.WithBcryptCost(4)

	m := NewModel(Deps{
		Theme:   styles.NewTheme(styles.ThemeDark),
		Store:   store,
		Auth:    client,
		Backend: stubBackend{},
		Session: session.NewManager(session.DefaultConfig()),
	})
	return step(t, m, tea.WindowSizeMsg{Width: 120, Height: 40}), client
}

// step applies msg and returns the updated root model.
func step(t *testing.T, m Model, msg tea.Msg) Model {
	t.Helper()
	next, _ := m.Update(msg)
	return next.(Model)
}

// stepCmd applies msg, runs the resulting command once and applies its message.
func stepCmd(t *testing.T, m Model, msg tea.Msg) Model {
	t.Helper()
	next, cmd := m.Update(msg)
	m = next.(Model)
	require.NotNil(t, cmd)
	return step(t, m, cmd())
}

// ask types text into the chat, presses enter and returns the reply the
// request produced without applying it.
func ask(t *testing.T, m Model, text string) (Model, chat.ReplyMsg) {
	t.Helper()
	m = step(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(text)})
	next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = next.(Model)
	require.True(t, m.Chat().Sending())
	for _, msg := range collect(cmd) {
		if r, ok := msg.(chat.ReplyMsg); ok {
			return m, r
		}
	}
	t.Fatalf("no reply for %q", text)
	return m, chat.ReplyMsg{}
}

// collect runs cmd and flattens batches.
func collect(cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}
	msg := cmd()
	if batch, ok := msg.(tea.BatchMsg); ok {
		var out []tea.Msg
		for _, c := range batch {
			out = append(out, collect(c)...)
		}
		return out
	}
	if msg == nil {
		return nil
	}
	return []tea.Msg{msg}
}

func messageCount(m Model) int {
	n := 0
	for _, c := range m.Chat().Conversations().Conversations() {
		n += c.MessageCount()
	}
	return n
}

func TestState_String(t *testing.T) {
	assert.Equal(t, "chat", StateChat.String())
	assert.Equal(t, "auth", StateAuth.String())
	assert.Equal(t, "unknown", State(9).String())
}

func TestModel_StartsAsGuest(t *testing.T) {
	m, _ := newTestModel(t)
	assert.Equal(t, StateChat, m.State())
	assert.Nil(t, m.User())
	assert.True(t, m.Chat().Conversations().IsGuest())
}

func TestModel_StartsSignedIn(t *testing.T) {
	store := storage.NewMemoryStore()
	m := NewModel(Deps{
		Theme:   styles.NewTheme(styles.ThemeDark),
		Store:   store,
		Backend: stubBackend{},
		Session: session.NewManager(session.DefaultConfig()),
		Initial: &auth.Session{User: auth.User{ID: "u1", Name: "Amara"}},
	})
	require.NotNil(t, m.User())
	assert.Equal(t, "u1", m.User().ID)
	assert.False(t, m.Chat().Conversations().IsGuest())
}

func TestModel_SignUpRebuildsChat(t *testing.T) {
	m, _ := newTestModel(t)

	m = step(t, m, chat.AuthRequestMsg{Mode: components.AuthModeSignup})
	assert.Equal(t, StateAuth, m.State())

	m = stepCmd(t, m, components.AuthSubmitMsg{
		Mode:     components.AuthModeSignup,
		Name:     "Amara Obi",
		Email:    "amara@example.com",
		Password: "secret123",
	})

	assert.Equal(t, StateChat, m.State())
	require.NotNil(t, m.User())
	assert.Equal(t, "Amara Obi", m.User().Name)
	assert.False(t, m.Chat().Conversations().IsGuest())
	require.NotNil(t, m.Chat().User())
	assert.Equal(t, m.User().ID, m.Chat().User().ID)
}

func TestModel_FailedSignInStaysOnForm(t *testing.T) {
	m, _ := newTestModel(t)
	m = step(t, m, chat.AuthRequestMsg{Mode: components.AuthModeLogin})

	m = stepCmd(t, m, components.AuthSubmitMsg{
		Mode:     components.AuthModeLogin,
		Email:    "nobody@example.com",
		Password: "secret123",
	})

	assert.Equal(t, StateAuth, m.State())
	assert.Nil(t, m.User())
	assert.Equal(t, auth.ErrInvalidCredentials.Error(), m.authForm.Error())
	assert.False(t, m.authForm.Busy())
}

func TestModel_SignOutReturnsToGuest(t *testing.T) {
	m, client := newTestModel(t)
	_, err := client.SignUp(context.Background(), "Amara Obi", "amara@example.com", "secret123")
	require.NoError(t, err)
	m = step(t, m, authResultMsg{session: &auth.Session{User: auth.User{ID: "u1", Name: "Amara"}}})
	require.NotNil(t, m.User())

	m = stepCmd(t, m, chat.SignOutMsg{})
	assert.Nil(t, m.User())
	assert.True(t, m.Chat().Conversations().IsGuest())

	sess, err := client.CurrentSession(context.Background())
	require.NoError(t, err)
	assert.Nil(t, sess)
}

func TestModel_OAuthUnsupportedShowsError(t *testing.T) {
	m, _ := newTestModel(t)
	m = step(t, m, chat.AuthRequestMsg{Mode: components.AuthModeLogin})

	m = stepCmd(t, m, components.AuthOAuthMsg{Provider: "google"})
	assert.Equal(t, StateAuth, m.State())
	assert.Equal(t, auth.ErrOAuthUnsupported.Error(), m.authForm.Error())
}

func TestModel_LeaveFormWithoutSigningIn(t *testing.T) {
	m, _ := newTestModel(t)

	m = step(t, m, chat.AuthRequestMsg{Mode: components.AuthModeLogin})
	m = step(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	assert.Equal(t, StateChat, m.State())

	m = step(t, m, chat.AuthRequestMsg{Mode: components.AuthModeLogin})
	m = step(t, m, components.AuthGuestMsg{})
	assert.Equal(t, StateChat, m.State())
	assert.Nil(t, m.User())
}

func TestModel_DropsReplyAfterIdentityChange(t *testing.T) {
	m, _ := newTestModel(t)
	before := messageCount(m)

	stale := chat.ReplyMsg{Result: chatflow.Result{
		Pending: chatflow.Pending{ConversationID: "conv-gone", Question: "Is this normal?"},
		Reply:   &backend.Reply{Text: "late answer"},
	}}
	m = step(t, m, stale)

	assert.Equal(t, before, messageCount(m))
	assert.False(t, m.Chat().Sending())
}

func TestModel_LateReplyDoesNotAnswerNextQuestion(t *testing.T) {
	m, _ := newTestModel(t)

	m, lateReply := ask(t, m, "question A")
	m = step(t, m, authResultMsg{session: &auth.Session{User: auth.User{ID: "u1", Name: "Amara"}}})
	m = step(t, m, signedOutMsg{})
	require.True(t, m.Chat().Conversations().IsGuest())

	m, reply := ask(t, m, "question B")
	m = step(t, m, lateReply)
	assert.True(t, m.Chat().Sending(), "the earlier request must not settle the current one")

	m = step(t, m, reply)
	assert.False(t, m.Chat().Sending())

	conv := m.Chat().Conversations().Current()
	require.NotNil(t, conv)
	require.GreaterOrEqual(t, len(conv.Messages), 2)
	last := conv.Messages[len(conv.Messages)-2:]
	assert.Equal(t, model.SenderUser, last[0].Sender)
	assert.Equal(t, "question B", last[0].Text)
	assert.Equal(t, model.SenderBot, last[1].Sender)
	assert.Equal(t, "answer to question B", last[1].Text)
	for _, msg := range conv.Messages {
		assert.NotEqual(t, "answer to question A", msg.Text)
	}
}

func TestModel_ViewFollowsState(t *testing.T) {
	m, _ := newTestModel(t)
	chatView := m.View()
	assert.NotEmpty(t, chatView)

	m = step(t, m, chat.AuthRequestMsg{Mode: components.AuthModeLogin})
	assert.NotEqual(t, chatView, m.View())
}
