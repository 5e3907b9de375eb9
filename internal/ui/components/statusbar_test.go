// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/julianacholder/womens-health-chatbot/internal/backend"
	"github.com/julianacholder/womens-health-chatbot/internal/chatflow"
	"github.com/julianacholder/womens-health-chatbot/internal/session"
)

func TestStatusBar_HealthLabel(t *testing.T) {
	now := time.Now()
	tests := []struct {
		name   string
		report backend.HealthReport
		want   string
	}{
		{"unchecked", backend.HealthReport{}, "checking"},
		{"healthy", backend.HealthReport{Status: &backend.HealthStatus{Status: "healthy"}, CheckedAt: now, Latency: 12 * time.Millisecond}, "online 12ms"},
		{"down", backend.HealthReport{Err: errors.New("refused"), CheckedAt: now}, "offline"},
		{"degraded", backend.HealthReport{Status: &backend.HealthStatus{Status: "unhealthy"}, CheckedAt: now}, "unhealthy"},
	}

	s := NewStatusBar(testTheme())
	for _, tc := range tests {
		s.Health = tc.report
		if got := s.HealthLabel(); !strings.Contains(got, tc.want) {
			t.Errorf("%s: HealthLabel() = %q, want %q", tc.name, got, tc.want)
		}
	}
}

func TestStatusBar_StateLabel(t *testing.T) {
	s := NewStatusBar(testTheme())
	tests := []struct {
		state chatflow.State
		want  string
	}{
		{chatflow.StateIdle, "ready"},
		{chatflow.StateDelivered, "ready"},
		{chatflow.StateSending, "sending"},
		{chatflow.StateFailed, "failed"},
	}
	for _, tc := range tests {
		s.State = tc.state
		if got := s.StateLabel(); !strings.Contains(got, tc.want) {
			t.Errorf("StateLabel(%s) = %q, want %q", tc.state, got, tc.want)
		}
	}
}

func TestStatusBar_View(t *testing.T) {
	s := NewStatusBar(testTheme())
	s.SetWidth(140)
	s.Session = session.Status{Sent: 3, Duration: 90 * time.Second}
	s.Notice = "Copied"

	out := s.View()
	for _, want := range []string{"3 sent", "1m 30s", "Copied", "ctrl+n"} {
		if !strings.Contains(out, want) {
			t.Errorf("status bar missing %q:\n%s", want, out)
		}
	}
}

func TestStatusBar_NarrowDropsHints(t *testing.T) {
	s := NewStatusBar(testTheme())
	s.SetWidth(30)
	if strings.Contains(s.View(), "ctrl+n") {
		t.Error("narrow status bar should drop key hints")
	}
}
