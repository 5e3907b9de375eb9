// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chatflow

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/julianacholder/womens-health-chatbot/internal/backend"
	"github.com/julianacholder/womens-health-chatbot/internal/conversation"
	"github.com/julianacholder/womens-health-chatbot/internal/model"
	"github.com/julianacholder/womens-health-chatbot/internal/storage"
)

// fakeBackend returns a canned reply or error and records calls.
type fakeBackend struct {
	mu        sync.Mutex
	reply     *backend.Reply
	err       error
	questions []string
	sessions  []string
}

func (f *fakeBackend) Chat(ctx context.Context, sessionID, question string) (*backend.Reply, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.questions = append(f.questions, question)
	f.sessions = append(f.sessions, sessionID)
	return f.reply, f.err
}

type countingTracker struct {
	sent, delivered, failed int
}

func (c *countingTracker) RecordSend() { c.sent++ }
func (c *countingTracker) RecordOutcome(ok bool) {
	if ok {
		c.delivered++
	} else {
		c.failed++
	}
}

func newManager(t *testing.T) *conversation.Manager {
	t.Helper()
	return conversation.New(storage.NewMemoryStore(), "user-1")
}

// =============================================================================
// SEND FLOW TESTS
// =============================================================================

func TestSend_Delivered(t *testing.T) {
	mgr := newManager(t)
	fb := &fakeBackend{reply: &backend.Reply{Text: "A typical cycle is 21-35 days.", Classification: model.ClassificationNormal}}
	s := New(mgr, fb, "session-1-abcdefghi")

	msg, err := s.Send(context.Background(), "What is a normal cycle?")
	require.NoError(t, err)
	assert.Equal(t, StateDelivered, s.State())

	cur := mgr.Current()
	require.Equal(t, 2, cur.MessageCount())
	assert.Equal(t, "What is a normal cycle?", cur.Title)
	assert.Equal(t, model.SenderUser, cur.Messages[0].Sender)
	assert.Equal(t, model.SenderBot, cur.Messages[1].Sender)
	assert.Equal(t, msg.ID, cur.Messages[1].ID)
	assert.Equal(t, []string{"session-1-abcdefghi"}, fb.sessions)
}

func TestSend_EmergencyClassificationFollowsUserMessage(t *testing.T) {
	mgr := newManager(t)
	fb := &fakeBackend{reply: &backend.Reply{Text: "Please seek emergency care.", Classification: model.ClassificationEmergency}}
	s := New(mgr, fb, "s")

	_, err := s.Send(context.Background(), "severe bleeding")
	require.NoError(t, err)

	msgs := mgr.Current().Messages
	require.Len(t, msgs, 2)
	assert.Equal(t, "severe bleeding", msgs[0].Text)
	assert.Equal(t, model.ClassificationEmergency, msgs[1].Classification)
}

func TestSend_NetworkFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := server.URL
	server.Close()

	mgr := newManager(t)
	s := New(mgr, backend.NewClient(url), "s")

	msg, err := s.Send(context.Background(), "hello")
	require.NoError(t, err)
	assert.Equal(t, StateFailed, s.State())
	assert.Equal(t, model.ClassificationError, msg.Classification)
	assert.Equal(t, NetworkApology, msg.Text)
	assert.True(t, backend.IsTransport(s.LastError()))

	msgs := mgr.Current().Messages
	require.Len(t, msgs, 2)
	assert.True(t, msgs[1].IsError())
}

func TestSend_ApplicationFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"success":false,"response":"I apologize, but I'm having trouble generating a response right now. Please try again."}`))
	}))
	defer server.Close()

	mgr := newManager(t)
	s := New(mgr, backend.NewClient(server.URL), "s")

	msg, err := s.Send(context.Background(), "hello")
	require.NoError(t, err)
	assert.Equal(t, StateFailed, s.State())
	assert.Equal(t, ApplicationApology, msg.Text)
	assert.Equal(t, model.ClassificationError, msg.Classification)
}

func TestSend_NilReplyIsFailure(t *testing.T) {
	mgr := newManager(t)
	s := New(mgr, &fakeBackend{}, "s")

	msg, err := s.Send(context.Background(), "hello")
	require.NoError(t, err)
	assert.Equal(t, ApplicationApology, msg.Text)
}

func TestSend_EmptyInput(t *testing.T) {
	mgr := newManager(t)
	fb := &fakeBackend{}
	s := New(mgr, fb, "s")

	_, err := s.Send(context.Background(), "   \n\t ")
	assert.ErrorIs(t, err, ErrEmptyMessage)
	assert.Equal(t, StateIdle, s.State())
	assert.Equal(t, 0, mgr.Current().MessageCount())
	assert.Empty(t, fb.questions)
}

// =============================================================================
// TWO-PHASE TESTS
// =============================================================================

func TestBegin_OptimisticAppend(t *testing.T) {
	mgr := newManager(t)
	s := New(mgr, &fakeBackend{}, "s")

	pending, err := s.Begin("  How can I track my ovulation?  ")
	require.NoError(t, err)
	assert.Equal(t, StateSending, s.State())
	assert.Equal(t, "How can I track my ovulation?", pending.Question)
	assert.Equal(t, mgr.CurrentID(), pending.ConversationID)

	// User message is visible before the backend is called
	cur := mgr.Current()
	require.Equal(t, 1, cur.MessageCount())
	assert.Equal(t, pending.UserMessage.ID, cur.Messages[0].ID)
}

func TestBegin_BusyWhileSending(t *testing.T) {
	s := New(newManager(t), &fakeBackend{}, "s")

	_, err := s.Begin("first")
	require.NoError(t, err)
	_, err = s.Begin("second")
	assert.ErrorIs(t, err, ErrBusy)
}

func TestComplete_StaleReplyLandsInActiveConversation(t *testing.T) {
	mgr := newManager(t)
	fb := &fakeBackend{reply: &backend.Reply{Text: "answer", Classification: model.ClassificationNormal}}
	s := New(mgr, fb, "s")

	pending, err := s.Begin("question")
	require.NoError(t, err)
	origin := pending.ConversationID

	// User switches away before the reply arrives
	other := mgr.CreateNewConversation()

	s.Complete(pending.Request(context.Background(), fb))

	first, err := mgr.Get(origin)
	require.NoError(t, err)
	assert.Equal(t, 1, first.MessageCount())

	now, err := mgr.Get(other.ID)
	require.NoError(t, err)
	require.Equal(t, 1, now.MessageCount())
	assert.Equal(t, "answer", now.Messages[0].Text)
}

func TestAwaits_MatchesOnlyTheRequestInFlight(t *testing.T) {
	fb := &fakeBackend{reply: &backend.Reply{Text: "answer", Classification: model.ClassificationNormal}}
	s := New(newManager(t), fb, "s")

	first, err := s.Begin("first")
	require.NoError(t, err)
	firstResult := first.Request(context.Background(), fb)
	assert.True(t, s.Awaits(firstResult))
	s.Complete(firstResult)
	assert.False(t, s.Awaits(firstResult), "settled")

	second, err := s.Begin("second")
	require.NoError(t, err)
	assert.Greater(t, second.Seq, first.Seq)
	assert.False(t, s.Awaits(firstResult))

	// Same sequence number, different sender.
	other := New(newManager(t), fb, "s")
	_, err = other.Send(context.Background(), "first")
	require.NoError(t, err)
	foreign, err := other.Begin("second")
	require.NoError(t, err)
	foreignResult := foreign.Request(context.Background(), fb)
	require.Equal(t, second.Seq, foreign.Seq)
	assert.False(t, s.Awaits(foreignResult))
	assert.True(t, s.Awaits(second.Request(context.Background(), fb)))

	assert.False(t, s.Awaits(Result{Pending: Pending{Seq: second.Seq}}))
}

func TestSend_AllowsResendAfterFailure(t *testing.T) {
	mgr := newManager(t)
	fb := &fakeBackend{err: &backend.APIError{Status: 500}}
	s := New(mgr, fb, "s")

	s.Send(context.Background(), "one")
	require.Equal(t, StateFailed, s.State())

	fb.err = nil
	fb.reply = &backend.Reply{Text: "ok", Classification: model.ClassificationNormal}
	_, err := s.Send(context.Background(), "one")
	require.NoError(t, err)
	assert.Equal(t, StateDelivered, s.State())
	assert.Equal(t, 4, mgr.Current().MessageCount())
	assert.Len(t, fb.questions, 2, "no automatic retry")
}

func TestTracker(t *testing.T) {
	tr := &countingTracker{}
	fb := &fakeBackend{reply: &backend.Reply{Text: "ok"}}
	s := New(newManager(t), fb, "s").WithTracker(tr)

	s.Send(context.Background(), "a")
	fb.err = &backend.TransportError{Op: "POST", URL: "x", Err: context.Canceled}
	s.Send(context.Background(), "b")

	assert.Equal(t, 2, tr.sent)
	assert.Equal(t, 1, tr.delivered)
	assert.Equal(t, 1, tr.failed)
}

// =============================================================================
// HELPER TESTS
// =============================================================================

func TestApologyFor(t *testing.T) {
	assert.Equal(t, NetworkApology, ApologyFor(&backend.TransportError{Err: context.DeadlineExceeded}))
	assert.Equal(t, ApplicationApology, ApologyFor(&backend.APIError{Status: 502}))
	assert.Equal(t, ApplicationApology, ApologyFor(backend.ErrMalformedResponse))
	assert.NotEqual(t, NetworkApology, ApplicationApology)
}

func TestStateString(t *testing.T) {
	assert.Equal(t, "idle", StateIdle.String())
	assert.Equal(t, "sending", StateSending.String())
	assert.Equal(t, "delivered", StateDelivered.String())
	assert.Equal(t, "failed", StateFailed.String())
}

func TestStarterQuestions(t *testing.T) {
	require.Len(t, StarterQuestions, 4)
	for _, q := range StarterQuestions {
		assert.LessOrEqual(t, len([]rune(q)), model.TitleMaxLength, "starter %q should not need truncation", q)
	}
}
