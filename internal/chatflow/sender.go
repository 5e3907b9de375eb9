// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package chatflow implements sending a question: the optimistic user
// append, the backend call, and the reply or apology append.
package chatflow

import (
	"context"
	"errors"
	"log"
	"strings"
	"sync"
	"time"

	"golang.org/x/text/unicode/norm"

	"github.com/julianacholder/womens-health-chatbot/internal/backend"
	"github.com/julianacholder/womens-health-chatbot/internal/model"
)

// Apology copy appended as an error-classified bot message when a send fails.
const (
	NetworkApology     = "I'm having trouble connecting right now. Please check your internet connection and try again. 💕"
	ApplicationApology = "I'm so sorry, but I'm having trouble responding right now. Please try again in a moment. Your health questions are important to me! 💕"
)

var (
	// ErrEmptyMessage is returned by Begin for blank input.
	ErrEmptyMessage = errors.New("message is empty")

	// ErrBusy is returned by Begin while a previous send is in flight.
	ErrBusy = errors.New("a message is already being sent")
)

// =============================================================================
// STATE
// =============================================================================

// State is the send state of the most recent question.
type State int

const (
	StateIdle State = iota
	StateSending
	StateDelivered
	StateFailed
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateSending:
		return "sending"
	case StateDelivered:
		return "delivered"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// =============================================================================
// COLLABORATORS
// =============================================================================

// Backend answers questions.
type Backend interface {
	Chat(ctx context.Context, sessionID, question string) (*backend.Reply, error)
}

// Conversations receives appended messages.
type Conversations interface {
	AddMessage(msg *model.Message) error
	CurrentID() string
}

// Tracker counts sends and outcomes.
type Tracker interface {
	RecordSend()
	RecordOutcome(delivered bool)
}

// =============================================================================
// PENDING / RESULT
// =============================================================================

// Pending is a question whose user message has been appended and whose
// backend call has not finished.
type Pending struct {
	Question       string
	SessionID      string
	ConversationID string
	UserMessage    *model.Message
	StartedAt      time.Time

	// Seq numbers the request within the Sender that issued it.
	Seq    uint64
	issuer *Sender
}

// Result is the outcome of a backend call for a Pending question.
type Result struct {
	Pending
	Reply   *backend.Reply
	Err     error
	Elapsed time.Duration
}

// Request performs the backend call. It touches no shared state and is safe
// to run off the UI loop.
func (p Pending) Request(ctx context.Context, b Backend) Result {
	reply, err := b.Chat(ctx, p.SessionID, p.Question)
	if err == nil && reply == nil {
		err = backend.ErrMalformedResponse
	}
	return Result{
		Pending: p,
		Reply:   reply,
		Err:     err,
		Elapsed: time.Since(p.StartedAt),
	}
}

// =============================================================================
// SENDER
// =============================================================================

// Sender runs the send flow against one conversation manager.
//
// The flow is split so a UI can keep every mutation on its own loop:
// Begin appends the user message, Pending.Request calls the backend, and
// Complete appends the reply. Send runs all three in order.
type Sender struct {
	mu sync.Mutex

	conversations Conversations
	backend       Backend
	sessionID     string
	tracker       Tracker

	state   State
	lastErr error
	seq     uint64
}

// New creates a sender. sessionID is sent with every request.
func New(conversations Conversations, b Backend, sessionID string) *Sender {
	return &Sender{
		conversations: conversations,
		backend:       b,
		sessionID:     sessionID,
	}
}

// WithTracker attaches a send counter.
func (s *Sender) WithTracker(t Tracker) *Sender {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tracker = t
	return s
}

// Backend returns the backend used by Send.
func (s *Sender) Backend() Backend {
	return s.backend
}

// State returns the current send state.
func (s *Sender) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// LastError returns the error of the last failed send, or nil.
func (s *Sender) LastError() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastErr
}

// Begin appends the user message for text and moves to sending.
func (s *Sender) Begin(text string) (Pending, error) {
	question := NormalizeInput(text)
	if question == "" {
		return Pending{}, ErrEmptyMessage
	}

	s.mu.Lock()
	if s.state == StateSending {
		s.mu.Unlock()
		return Pending{}, ErrBusy
	}
	s.state = StateSending
	s.lastErr = nil
	s.seq++
	seq := s.seq
	tracker := s.tracker
	s.mu.Unlock()

	msg := model.NewUserMessage(question)
	// A missing active conversation is logged by the manager; the request
	// still goes out.
	_ = s.conversations.AddMessage(msg)

	if tracker != nil {
		tracker.RecordSend()
	}

	return Pending{
		Question:       question,
		SessionID:      s.sessionID,
		ConversationID: s.conversations.CurrentID(),
		UserMessage:    msg,
		StartedAt:      time.Now(),
		Seq:            seq,
		issuer:         s,
	}, nil
}

// Awaits reports whether r answers the request this sender has in flight.
// Results issued by another sender, or by an earlier Begin, do not match.
func (s *Sender) Awaits(r Result) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return r.issuer == s && s.state == StateSending && r.Seq == s.seq
}

// Complete appends the reply, or an apology on failure, and moves to a
// terminal state. The message lands in whichever conversation is active
// now, which may differ from the one active at Begin.
func (s *Sender) Complete(r Result) *model.Message {
	if current := s.conversations.CurrentID(); current != r.ConversationID {
		log.Printf("CHAT: reply for %s arrived while %s is active", r.ConversationID, current)
	}

	var msg *model.Message
	delivered := r.Err == nil
	if delivered {
		msg = model.NewBotMessage(r.Reply.Text, r.Reply.Classification)
	} else {
		log.Printf("CHAT: send failed after %s: %v", r.Elapsed.Round(time.Millisecond), r.Err)
		msg = model.NewErrorMessage(ApologyFor(r.Err))
	}
	_ = s.conversations.AddMessage(msg)

	s.mu.Lock()
	if delivered {
		s.state = StateDelivered
	} else {
		s.state = StateFailed
		s.lastErr = r.Err
	}
	tracker := s.tracker
	s.mu.Unlock()

	if tracker != nil {
		tracker.RecordOutcome(delivered)
	}
	return msg
}

// Send runs the whole flow synchronously and returns the appended bot
// message. The error is non-nil only when Begin rejects the input.
func (s *Sender) Send(ctx context.Context, text string) (*model.Message, error) {
	pending, err := s.Begin(text)
	if err != nil {
		return nil, err
	}
	return s.Complete(pending.Request(ctx, s.backend)), nil
}

// =============================================================================
// HELPERS
// =============================================================================

// ApologyFor picks the apology copy for a send error.
func ApologyFor(err error) string {
	if backend.IsTransport(err) {
		return NetworkApology
	}
	return ApplicationApology
}

// NormalizeInput trims whitespace and normalizes text to NFC.
func NormalizeInput(text string) string {
	return strings.TrimSpace(norm.NFC.String(text))
}
