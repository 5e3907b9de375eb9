// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/julianacholder/womens-health-chatbot/internal/model"
)

func TestClassificationLabel(t *testing.T) {
	tests := []struct {
		c     model.Classification
		empty bool
	}{
		{model.ClassificationNormal, true},
		{model.ClassificationEmergency, false},
		{model.ClassificationOutOfDomain, false},
		{model.ClassificationError, false},
	}
	for _, tc := range tests {
		if got := ClassificationLabel(tc.c); (got == "") != tc.empty {
			t.Errorf("ClassificationLabel(%s) = %q", tc.c, got)
		}
	}
}

func TestMessageRenderer_UserMessage(t *testing.T) {
	r := NewMessageRenderer(testTheme())
	r.SetWidth(80)

	out := r.Render(model.NewUserMessage("What is a normal cycle?"))
	if !strings.Contains(out, "What is a normal cycle?") {
		t.Errorf("user bubble missing text:\n%s", out)
	}
	for _, line := range strings.Split(out, "\n") {
		if w := lipgloss.Width(line); w > 80 {
			t.Errorf("line width %d exceeds 80: %q", w, line)
		}
	}
}

func TestMessageRenderer_PlainBotMessage(t *testing.T) {
	r := NewMessageRenderer(testTheme()).WithMarkdown(false)
	r.SetWidth(80)

	out := r.Render(model.NewBotMessage("Cycles last **21 to 35** days.", model.ClassificationNormal))
	if !strings.Contains(out, "**21 to 35**") {
		t.Errorf("markdown disabled should keep raw text:\n%s", out)
	}
	if !strings.Contains(out, "Luna") {
		t.Errorf("bot bubble should carry the sender label:\n%s", out)
	}
}

func TestMessageRenderer_MarkdownBotMessage(t *testing.T) {
	r := NewMessageRenderer(testTheme())
	r.SetWidth(80)

	out := r.Render(model.NewBotMessage("Cycles last **usually** a month.", model.ClassificationNormal))
	if strings.Contains(out, "**usually**") {
		t.Errorf("markdown should be rendered:\n%s", out)
	}
	if !strings.Contains(out, "usually") {
		t.Errorf("rendered markdown lost text:\n%s", out)
	}
}

func TestMessageRenderer_ClassificationLabels(t *testing.T) {
	r := NewMessageRenderer(testTheme()).WithMarkdown(false)
	r.SetWidth(80)

	tests := []struct {
		msg  *model.Message
		want string
	}{
		{model.NewBotMessage("Call emergency services.", model.ClassificationEmergency), ClassificationLabel(model.ClassificationEmergency)},
		{model.NewBotMessage("I only know health.", model.ClassificationOutOfDomain), ClassificationLabel(model.ClassificationOutOfDomain)},
		{model.NewErrorMessage("Sorry."), ClassificationLabel(model.ClassificationError)},
	}
	for _, tc := range tests {
		if out := r.Render(tc.msg); !strings.Contains(out, tc.want) {
			t.Errorf("%s reply missing label %q:\n%s", tc.msg.Classification, tc.want, out)
		}
	}
}

func TestMessageRenderer_ErrorNeverMarkdown(t *testing.T) {
	r := NewMessageRenderer(testTheme())
	r.SetWidth(80)

	out := r.Render(model.NewErrorMessage("try **again**"))
	if !strings.Contains(out, "**again**") {
		t.Errorf("error replies should render as plain text:\n%s", out)
	}
}

func TestMessageRenderer_Timestamps(t *testing.T) {
	msg := model.NewUserMessage("hi")
	msg.Timestamp = time.Date(2025, 3, 1, 15, 4, 0, 0, time.Local)

	r := NewMessageRenderer(testTheme())
	r.SetWidth(60)
	if strings.Contains(r.Render(msg), "3:04 PM") {
		t.Error("timestamps are off by default")
	}

	r.WithTimestamps(true)
	if !strings.Contains(r.Render(msg), "3:04 PM") {
		t.Error("timestamp missing when enabled")
	}
}

func TestMessageRenderer_RenderAllSkipsNil(t *testing.T) {
	r := NewMessageRenderer(testTheme()).WithMarkdown(false)
	out := r.RenderAll([]*model.Message{
		model.NewUserMessage("first"),
		nil,
		model.NewBotMessage("second", model.ClassificationNormal),
	})
	if !strings.Contains(out, "first") || !strings.Contains(out, "second") {
		t.Errorf("RenderAll lost messages:\n%s", out)
	}
	if strings.Index(out, "first") > strings.Index(out, "second") {
		t.Error("RenderAll should keep message order")
	}
}

func TestMessageRenderer_MinimumWidth(t *testing.T) {
	r := NewMessageRenderer(testTheme())
	r.SetWidth(5)
	if r.Width() != 24 {
		t.Errorf("Width() = %d, want clamp to 24", r.Width())
	}
}

func TestTrimRenderedMarkdown(t *testing.T) {
	got := trimRenderedMarkdown("\n\n  hello   \n  world  \n\n")
	if got != "  hello\n  world" {
		t.Errorf("trimRenderedMarkdown() = %q", got)
	}
}
