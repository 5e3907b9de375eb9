// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/julianacholder/womens-health-chatbot/internal/model"
)

func sampleConversations() []*model.Conversation {
	a := model.NewConversation("u1")
	a.AddMessage(model.NewUserMessage("How long is a cycle?"))
	b := model.NewConversation("u1")
	b.AddMessage(model.NewUserMessage("Cramps and heat packs"))
	c := model.NewConversation("u1")
	return []*model.Conversation{c, a, b}
}

func TestSidebar_ViewListsTitles(t *testing.T) {
	convs := sampleConversations()
	s := NewSidebar(testTheme())
	s.SetSize(40, 20)
	s.SetConversations(convs, convs[1].ID, false)

	out := s.View()
	for _, want := range []string{"Recent Chats", "+ New Chat", "✨ New Chat", "How long is a cycle?", "●"} {
		if !strings.Contains(out, want) {
			t.Errorf("sidebar view missing %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "Sign in to save") {
		t.Error("signed-in sidebar should not show the guest hint")
	}
}

func TestSidebar_GuestHint(t *testing.T) {
	s := NewSidebar(testTheme())
	s.SetSize(40, 20)
	guest := model.NewGuestConversation()
	s.SetConversations([]*model.Conversation{guest}, guest.ID, true)
	if !strings.Contains(s.View(), "Sign in to save your chats") {
		t.Error("guest sidebar should show the sign-in hint")
	}
}

func TestSidebar_FocusStartsOnActive(t *testing.T) {
	convs := sampleConversations()
	s := NewSidebar(testTheme())
	s.SetConversations(convs, convs[2].ID, false)
	s.Focus()
	if s.Cursor() != 3 {
		t.Errorf("Cursor() = %d, want 3", s.Cursor())
	}
}

func TestSidebar_IgnoresKeysWhenBlurred(t *testing.T) {
	convs := sampleConversations()
	s := NewSidebar(testTheme())
	s.SetConversations(convs, convs[0].ID, false)

	s, cmd := s.Update(key(tea.KeyEnter))
	if cmd != nil {
		t.Error("blurred sidebar should not emit commands")
	}
	if s.Cursor() != 0 {
		t.Error("blurred sidebar should not move")
	}
}

func TestSidebar_EnterOnNewChat(t *testing.T) {
	convs := sampleConversations()
	s := NewSidebar(testTheme())
	s.SetConversations(convs, convs[0].ID, false)
	s.Focus()
	s, _ = s.Update(key(tea.KeyUp))

	_, cmd := s.Update(key(tea.KeyEnter))
	if _, ok := runCmd(cmd).(NewChatMsg); !ok {
		t.Errorf("enter on row 0 should emit NewChatMsg, got %T", runCmd(cmd))
	}
}

func TestSidebar_EnterSwitches(t *testing.T) {
	convs := sampleConversations()
	s := NewSidebar(testTheme())
	s.SetConversations(convs, convs[0].ID, false)
	s.Focus()
	s, _ = s.Update(key(tea.KeyDown))

	_, cmd := s.Update(key(tea.KeyEnter))
	msg, ok := runCmd(cmd).(SwitchConversationMsg)
	if !ok {
		t.Fatalf("expected SwitchConversationMsg, got %T", runCmd(cmd))
	}
	if msg.ID != convs[1].ID {
		t.Errorf("ID = %s, want %s", msg.ID, convs[1].ID)
	}
}

func TestSidebar_CursorBounds(t *testing.T) {
	convs := sampleConversations()
	s := NewSidebar(testTheme())
	s.SetConversations(convs, convs[0].ID, false)
	s.Focus()

	for i := 0; i < 10; i++ {
		s, _ = s.Update(key(tea.KeyDown))
	}
	if s.Cursor() != len(convs) {
		t.Errorf("Cursor() = %d, want %d", s.Cursor(), len(convs))
	}
	for i := 0; i < 10; i++ {
		s, _ = s.Update(keyRunes("k"))
	}
	if s.Cursor() != 0 {
		t.Errorf("Cursor() = %d, want 0", s.Cursor())
	}
}

func TestSidebar_DeleteRequiresConfirmation(t *testing.T) {
	convs := sampleConversations()
	s := NewSidebar(testTheme())
	s.SetSize(40, 20)
	s.SetConversations(convs, convs[0].ID, false)
	s.Focus()

	s, cmd := s.Update(keyRunes("d"))
	if cmd != nil || !s.Confirming() {
		t.Fatal("d should open the confirmation without deleting")
	}
	if !strings.Contains(s.View(), "y / n") {
		t.Error("confirmation prompt not shown")
	}

	s, cmd = s.Update(keyRunes("n"))
	if cmd != nil || s.Confirming() {
		t.Fatal("n should cancel the delete")
	}

	s, _ = s.Update(keyRunes("d"))
	_, cmd = s.Update(keyRunes("y"))
	msg, ok := runCmd(cmd).(DeleteConversationMsg)
	if !ok {
		t.Fatalf("expected DeleteConversationMsg, got %T", runCmd(cmd))
	}
	if msg.ID != convs[0].ID {
		t.Errorf("ID = %s, want %s", msg.ID, convs[0].ID)
	}
}

func TestSidebar_NoDeleteForGuestOrNewChatRow(t *testing.T) {
	guest := model.NewGuestConversation()
	s := NewSidebar(testTheme())
	s.SetConversations([]*model.Conversation{guest}, guest.ID, true)
	s.Focus()
	s, _ = s.Update(keyRunes("d"))
	if s.Confirming() {
		t.Error("guest conversations cannot be deleted")
	}

	convs := sampleConversations()
	s.SetConversations(convs, convs[0].ID, false)
	s.Focus()
	s, _ = s.Update(key(tea.KeyUp))
	s, _ = s.Update(keyRunes("d"))
	if s.Confirming() {
		t.Error("the New Chat row cannot be deleted")
	}
}

func TestSidebar_BlurCancelsConfirm(t *testing.T) {
	convs := sampleConversations()
	s := NewSidebar(testTheme())
	s.SetConversations(convs, convs[0].ID, false)
	s.Focus()
	s, _ = s.Update(keyRunes("d"))
	s.Blur()
	if s.Confirming() || s.Focused() {
		t.Error("Blur should clear focus and confirmation")
	}
}
