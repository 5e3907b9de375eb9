// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package session tracks the client session: the id sent to the chat
// backend and per-session activity counters.
package session

import (
	"crypto/rand"
	"math/big"
	"strconv"
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// =============================================================================
// SESSION MANAGER
// =============================================================================

// Manager holds the per-process session. The id is generated once when the
// client starts and is never persisted, so every launch is a new session
// from the backend's point of view.
type Manager struct {
	mu sync.Mutex

	sessionID    string
	startTime    time.Time
	lastActivity time.Time

	sent      int
	delivered int
	failed    int

	tickInterval time.Duration
}

// Config holds configuration for the session manager.
type Config struct {
	// TickInterval is how often TickCmd fires (default: 30 seconds).
	TickInterval time.Duration
}

// DefaultConfig returns the default session configuration.
func DefaultConfig() Config {
	return Config{
		TickInterval: 30 * time.Second,
	}
}

// NewManager creates a session with a fresh id.
func NewManager(cfg Config) *Manager {
	if cfg.TickInterval <= 0 {
		cfg.TickInterval = DefaultConfig().TickInterval
	}
	now := time.Now()
	return &Manager{
		sessionID:    NewSessionID(),
		startTime:    now,
		lastActivity: now,
		tickInterval: cfg.TickInterval,
	}
}

// =============================================================================
// SESSION STATE
// =============================================================================

// SessionID returns the session id sent with every chat request.
func (m *Manager) SessionID() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.sessionID
}

// StartTime returns when the session started.
func (m *Manager) StartTime() time.Time {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.startTime
}

// Duration returns how long the session has been active.
func (m *Manager) Duration() time.Duration {
	m.mu.Lock()
	defer m.mu.Unlock()
	return time.Since(m.startTime)
}

// IdleTime returns how long since last activity.
func (m *Manager) IdleTime() time.Duration {
	m.mu.Lock()
	defer m.mu.Unlock()
	return time.Since(m.lastActivity)
}

// =============================================================================
// ACTIVITY TRACKING
// =============================================================================

// RecordActivity updates the last activity timestamp.
func (m *Manager) RecordActivity() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.lastActivity = time.Now()
}

// RecordSend counts a question sent to the backend.
func (m *Manager) RecordSend() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent++
	m.lastActivity = time.Now()
}

// RecordOutcome counts how a sent question finished.
func (m *Manager) RecordOutcome(delivered bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if delivered {
		m.delivered++
	} else {
		m.failed++
	}
}

// =============================================================================
// BUBBLE TEA INTEGRATION
// =============================================================================

// TickMsg is sent periodically; the shell uses it to probe backend health.
type TickMsg struct {
	Time time.Time
}

// TickCmd returns a command that fires a TickMsg after the tick interval.
func (m *Manager) TickCmd() tea.Cmd {
	m.mu.Lock()
	interval := m.tickInterval
	m.mu.Unlock()
	return tea.Tick(interval, func(t time.Time) tea.Msg {
		return TickMsg{Time: t}
	})
}

// =============================================================================
// SESSION STATUS
// =============================================================================

// Status is a snapshot of the session.
type Status struct {
	SessionID string
	StartTime time.Time
	Duration  time.Duration
	IdleTime  time.Duration
	Sent      int
	Delivered int
	Failed    int
}

// GetStatus returns the current session status.
func (m *Manager) GetStatus() Status {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := time.Now()
	return Status{
		SessionID: m.sessionID,
		StartTime: m.startTime,
		Duration:  now.Sub(m.startTime),
		IdleTime:  now.Sub(m.lastActivity),
		Sent:      m.sent,
		Delivered: m.delivered,
		Failed:    m.failed,
	}
}

// FormatDuration returns a human-readable duration string.
func FormatDuration(d time.Duration) string {
	if d < time.Minute {
		return strconv.Itoa(int(d.Seconds())) + "s"
	}
	if d >= time.Hour {
		return strconv.Itoa(int(d.Hours())) + "h " + strconv.Itoa(int(d.Minutes())%60) + "m"
	}
	mins := int(d.Minutes())
	secs := int(d.Seconds()) % 60
	if secs == 0 {
		return strconv.Itoa(mins) + "m"
	}
	return strconv.Itoa(mins) + "m " + strconv.Itoa(secs) + "s"
}

// =============================================================================
// HELPER FUNCTIONS
// =============================================================================

const idAlphabet = "0123456789abcdefghijklmnopqrstuvwxyz"

// NewSessionID creates an id of the form session-<unix ms>-<9 random chars>.
func NewSessionID() string {
	return "session-" + strconv.FormatInt(time.Now().UnixMilli(), 10) + "-" + randomSuffix(9)
}

func randomSuffix(n int) string {
	buf := make([]byte, n)
	max := big.NewInt(int64(len(idAlphabet)))
	for i := range buf {
		v, err := rand.Int(rand.Reader, max)
		if err != nil {
			buf[i] = idAlphabet[time.Now().UnixNano()%int64(len(idAlphabet))]
			continue
		}
		buf[i] = idAlphabet[v.Int64()]
	}
	return string(buf)
}
