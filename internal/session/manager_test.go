// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package session

import (
	"regexp"
	"sync"
	"testing"
	"time"
)

// =============================================================================
// CONFIG TESTS
// =============================================================================

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	if cfg.TickInterval != 30*time.Second {
		t.Errorf("Default TickInterval = %v, want 30s", cfg.TickInterval)
	}
}

// =============================================================================
// MANAGER CREATION TESTS
// =============================================================================

var sessionIDPattern = regexp.MustCompile(`^session-\d{13}-[0-9a-z]{9}$`)

func TestNewManager(t *testing.T) {
	m := NewManager(DefaultConfig())

	if !sessionIDPattern.MatchString(m.SessionID()) {
		t.Errorf("SessionID %q does not match %s", m.SessionID(), sessionIDPattern)
	}
	if m.StartTime().IsZero() {
		t.Error("StartTime should not be zero")
	}
}

func TestNewManager_ZeroIntervalUsesDefault(t *testing.T) {
	m := NewManager(Config{})
	if m.tickInterval != DefaultConfig().TickInterval {
		t.Errorf("tickInterval = %v, want default", m.tickInterval)
	}
}

func TestSessionID_StablePerManager(t *testing.T) {
	m := NewManager(DefaultConfig())
	first := m.SessionID()
	m.RecordSend()
	m.RecordActivity()
	if m.SessionID() != first {
		t.Error("SessionID changed during the session")
	}
}

func TestNewSessionID_Unique(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 200; i++ {
		id := NewSessionID()
		if seen[id] {
			t.Fatalf("duplicate session id %s", id)
		}
		seen[id] = true
	}
}

// =============================================================================
// ACTIVITY TESTS
// =============================================================================

func TestRecordActivity(t *testing.T) {
	m := NewManager(DefaultConfig())
	m.mu.Lock()
	m.lastActivity = time.Now().Add(-time.Minute)
	m.mu.Unlock()

	if m.IdleTime() < time.Minute {
		t.Errorf("IdleTime() = %v, want >= 1m", m.IdleTime())
	}
	m.RecordActivity()
	if m.IdleTime() > time.Second {
		t.Errorf("IdleTime() after activity = %v, want ~0", m.IdleTime())
	}
}

func TestCounters(t *testing.T) {
	m := NewManager(DefaultConfig())
	m.RecordSend()
	m.RecordSend()
	m.RecordSend()
	m.RecordOutcome(true)
	m.RecordOutcome(false)

	st := m.GetStatus()
	if st.Sent != 3 || st.Delivered != 1 || st.Failed != 1 {
		t.Errorf("Status = %+v, want sent=3 delivered=1 failed=1", st)
	}
	if st.SessionID != m.SessionID() {
		t.Error("Status.SessionID mismatch")
	}
}

func TestConcurrentAccess(t *testing.T) {
	m := NewManager(DefaultConfig())
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			m.RecordSend()
			m.RecordOutcome(true)
			_ = m.GetStatus()
		}()
	}
	wg.Wait()

	if st := m.GetStatus(); st.Sent != 50 || st.Delivered != 50 {
		t.Errorf("Status = %+v, want 50/50", st)
	}
}

func TestTickCmd(t *testing.T) {
	m := NewManager(Config{TickInterval: time.Millisecond})
	cmd := m.TickCmd()
	if cmd == nil {
		t.Fatal("TickCmd() returned nil")
	}
	if _, ok := cmd().(TickMsg); !ok {
		t.Error("TickCmd should produce a TickMsg")
	}
}

// =============================================================================
// FORMAT TESTS
// =============================================================================

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		d    time.Duration
		want string
	}{
		{30 * time.Second, "30s"},
		{2 * time.Minute, "2m"},
		{2*time.Minute + 5*time.Second, "2m 5s"},
		{90 * time.Minute, "1h 30m"},
	}
	for _, tc := range tests {
		if got := FormatDuration(tc.d); got != tc.want {
			t.Errorf("FormatDuration(%v) = %q, want %q", tc.d, got, tc.want)
		}
	}
}
