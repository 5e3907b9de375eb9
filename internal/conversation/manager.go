// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package conversation owns the per-identity list of chat threads and the
// pointer to the active one.
package conversation

import (
	"log"
	"sync"

	"github.com/julianacholder/womens-health-chatbot/internal/model"
	"github.com/julianacholder/womens-health-chatbot/internal/storage"
)

// DefaultRecentLimit is the number of conversations shown in the recent list.
const DefaultRecentLimit = 8

// =============================================================================
// MANAGER
// =============================================================================

// Manager holds the conversations of one identity. A Manager is created per
// identity; on sign-in or sign-out the caller discards it and builds a new
// one, so state never leaks between identities.
//
// For an authenticated identity every mutation writes the full list and the
// active pointer to the store. Write failures are logged and the in-memory
// state stays authoritative. The guest identity is never persisted.
type Manager struct {
	mu sync.Mutex

	store   storage.Store
	ownerID string // "" for the guest

	conversations []*model.Conversation
	currentID     string

	listeners []func()
}

// New creates a manager for ownerID and runs initialization. An empty
// ownerID selects the guest identity, which gets a single ephemeral
// conversation. The store may be nil for guests.
func New(store storage.Store, ownerID string) *Manager {
	m := &Manager{
		store:   store,
		ownerID: ownerID,
	}
	m.initialize()
	return m
}

// initialize loads persisted state or synthesizes the first conversation.
func (m *Manager) initialize() {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.isGuest() {
		guest := model.NewGuestConversation()
		m.conversations = []*model.Conversation{guest}
		m.currentID = guest.ID
		return
	}

	convs, err := LoadConversations(m.store, m.ownerID)
	if err != nil {
		log.Printf("CONVERSATION: failed to load conversations for %s: %v", m.ownerID, err)
		convs = nil
	}

	if len(convs) == 0 {
		first := model.NewConversation(m.ownerID)
		m.conversations = []*model.Conversation{first}
		m.currentID = first.ID
		m.persistLocked()
		return
	}

	m.conversations = convs
	m.currentID = convs[0].ID

	savedID, err := LoadCurrentID(m.store, m.ownerID)
	if err != nil {
		log.Printf("CONVERSATION: failed to load active conversation for %s: %v", m.ownerID, err)
		return
	}
	if savedID != "" && m.indexLocked(savedID) >= 0 {
		m.currentID = savedID
	}
}

// =============================================================================
// ACCESSORS
// =============================================================================

// OwnerID returns the identity this manager belongs to ("" for guest).
func (m *Manager) OwnerID() string {
	return m.ownerID
}

// IsGuest returns true when the manager serves a visitor who is not signed in.
func (m *Manager) IsGuest() bool {
	return m.isGuest()
}

func (m *Manager) isGuest() bool {
	return m.ownerID == ""
}

// Conversations returns copies of all conversations, newest first.
func (m *Manager) Conversations() []*model.Conversation {
	m.mu.Lock()
	defer m.mu.Unlock()
	return cloneAll(m.conversations)
}

// Recent returns copies of at most n conversations in manager order.
// A non-positive n selects DefaultRecentLimit.
func (m *Manager) Recent(n int) []*model.Conversation {
	if n <= 0 {
		n = DefaultRecentLimit
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.conversations) < n {
		n = len(m.conversations)
	}
	return cloneAll(m.conversations[:n])
}

// Len returns the number of conversations.
func (m *Manager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.conversations)
}

// CurrentID returns the id of the active conversation.
func (m *Manager) CurrentID() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.currentID
}

// Current returns a copy of the active conversation, or nil.
func (m *Manager) Current() *model.Conversation {
	m.mu.Lock()
	defer m.mu.Unlock()
	if i := m.indexLocked(m.currentID); i >= 0 {
		return m.conversations[i].Clone()
	}
	return nil
}

// Get returns a copy of the conversation with the given id.
func (m *Manager) Get(id string) (*model.Conversation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	i := m.indexLocked(id)
	if i < 0 {
		return nil, &Error{Message: ErrConversationNotFound.Message, ID: id}
	}
	return m.conversations[i].Clone(), nil
}

// OnChange registers fn to run after every mutation. fn runs without the
// manager lock held.
func (m *Manager) OnChange(fn func()) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.listeners = append(m.listeners, fn)
}

// =============================================================================
// OPERATIONS
// =============================================================================

// CreateNewConversation prepends a fresh placeholder conversation, makes it
// active, and returns a copy. For the guest the single guest conversation
// is replaced, so a guest never holds more than one.
func (m *Manager) CreateNewConversation() *model.Conversation {
	m.mu.Lock()
	var conv *model.Conversation
	if m.isGuest() {
		conv = model.NewGuestConversation()
		m.conversations = []*model.Conversation{conv}
	} else {
		conv = model.NewConversation(m.ownerID)
		m.conversations = append([]*model.Conversation{conv}, m.conversations...)
	}
	m.currentID = conv.ID
	m.persistLocked()
	out := conv.Clone()
	m.mu.Unlock()

	m.notify()
	return out
}

// SwitchConversation makes id the active conversation. An unknown id
// returns ErrConversationNotFound and leaves the active pointer unchanged.
func (m *Manager) SwitchConversation(id string) error {
	m.mu.Lock()
	if m.indexLocked(id) < 0 {
		m.mu.Unlock()
		return &Error{Message: ErrConversationNotFound.Message, ID: id}
	}
	m.currentID = id
	if !m.isGuest() {
		if err := saveCurrentID(m.store, m.ownerID, id); err != nil {
			log.Printf("CONVERSATION: failed to persist active conversation: %v", err)
		}
	}
	m.mu.Unlock()

	m.notify()
	return nil
}

// AddMessage appends msg to the active conversation. Without an active
// conversation the message is dropped, logged, and ErrNoActiveConversation
// is returned; callers are free to ignore it.
func (m *Manager) AddMessage(msg *model.Message) error {
	if msg == nil {
		return nil
	}

	m.mu.Lock()
	i := m.indexLocked(m.currentID)
	if i < 0 {
		m.mu.Unlock()
		log.Printf("CONVERSATION: dropping message %s: no active conversation", msg.ID)
		return ErrNoActiveConversation
	}
	m.conversations[i].AddMessage(msg.Clone())
	m.persistListLocked()
	m.mu.Unlock()

	m.notify()
	return nil
}

// DeleteConversation removes the conversation with the given id. It is a
// no-op for the guest. When the active conversation is removed the first
// remaining one becomes active; when none remain a fresh placeholder is
// created.
func (m *Manager) DeleteConversation(id string) error {
	if m.isGuest() {
		return nil
	}

	m.mu.Lock()
	kept := make([]*model.Conversation, 0, len(m.conversations))
	for _, c := range m.conversations {
		if c.ID != id {
			kept = append(kept, c)
		}
	}
	m.conversations = kept

	if m.currentID == id {
		if len(kept) > 0 {
			m.currentID = kept[0].ID
		} else {
			fresh := model.NewConversation(m.ownerID)
			m.conversations = []*model.Conversation{fresh}
			m.currentID = fresh.ID
		}
	}
	m.persistLocked()
	m.mu.Unlock()

	m.notify()
	return nil
}

// =============================================================================
// HELPERS
// =============================================================================

func (m *Manager) indexLocked(id string) int {
	if id == "" {
		return -1
	}
	for i, c := range m.conversations {
		if c.ID == id {
			return i
		}
	}
	return -1
}

// persistLocked writes the list and the active pointer.
func (m *Manager) persistLocked() {
	if m.isGuest() {
		return
	}
	m.persistListLocked()
	if err := saveCurrentID(m.store, m.ownerID, m.currentID); err != nil {
		log.Printf("CONVERSATION: failed to persist active conversation: %v", err)
	}
}

func (m *Manager) persistListLocked() {
	if m.isGuest() {
		return
	}
	if err := saveConversations(m.store, m.ownerID, m.conversations); err != nil {
		log.Printf("CONVERSATION: failed to persist conversations for %s: %v", m.ownerID, err)
	}
}

func (m *Manager) notify() {
	m.mu.Lock()
	listeners := append([]func(){}, m.listeners...)
	m.mu.Unlock()
	for _, fn := range listeners {
		fn()
	}
}

func cloneAll(convs []*model.Conversation) []*model.Conversation {
	out := make([]*model.Conversation, len(convs))
	for i, c := range convs {
		out[i] = c.Clone()
	}
	return out
}
