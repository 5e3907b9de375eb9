// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/julianacholder/womens-health-chatbot/internal/backend"
	"github.com/julianacholder/womens-health-chatbot/internal/model"
)

func newTestServer() *Server {
	return NewServer("").WithRateLimiter(nil)
}

func postChat(t *testing.T, h http.Handler, body string, sessionID string) (*httptest.ResponseRecorder, backend.ChatResponse) {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/chat", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if sessionID != "" {
		req.Header.Set(backend.SessionHeader, sessionID)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	var resp backend.ChatResponse
	_ = json.Unmarshal(rec.Body.Bytes(), &resp)
	return rec, resp
}

// =============================================================================
// TRIAGE TESTS
// =============================================================================

func TestTriage(t *testing.T) {
	tests := []struct {
		question string
		want     model.Classification
	}{
		{"I'm thinking about suicide", model.ClassificationEmergency},
		{"I have SEVERE BLEEDING after surgery", model.ClassificationEmergency},
		{"my friend is unconscious", model.ClassificationEmergency},
		{"Is it normal to have cramps?", model.ClassificationNormal},
		{"What are signs of PCOS", model.ClassificationNormal},
		{"What's the capital of France?", model.ClassificationOutOfDomain},
		{"tell me a joke", model.ClassificationOutOfDomain},
	}

	for _, tc := range tests {
		t.Run(tc.question, func(t *testing.T) {
			got := Triage(tc.question)
			assert.Equal(t, tc.want, got.Classification)
			if tc.want == model.ClassificationNormal {
				assert.Empty(t, got.Response)
			} else {
				assert.NotEmpty(t, got.Response)
			}
		})
	}
}

func TestTriage_EmergencyBeatsDomain(t *testing.T) {
	// "pain" is a health keyword but "severe pain" is an emergency
	v := Triage("severe pain in my pelvis")
	assert.Equal(t, model.ClassificationEmergency, v.Classification)
	assert.Contains(t, v.Response, "Severe pain")
}

func TestTriage_FirstEmergencyRuleWins(t *testing.T) {
	v := Triage("emergency: possible overdose")
	assert.Contains(t, v.Response, "medical emergency. Please call emergency services")
}

// =============================================================================
// FORMATTING TESTS
// =============================================================================

func TestTruncateAnswer(t *testing.T) {
	short := TruncateAnswer("Cycles vary. See a doctor")
	assert.Equal(t, "Cycles vary. See a doctor."+Disclaimer, short)

	long := strings.Repeat("word ", 60) + ". " + strings.Repeat("more ", 60)
	out := TruncateAnswer(long)
	assert.NotContains(t, out, "more")
	assert.True(t, strings.HasSuffix(out, Disclaimer))

	huge := strings.Repeat("word ", 150)
	out = TruncateAnswer(huge)
	assert.True(t, strings.HasSuffix(out, Disclaimer), "first sentence is always kept")
	assert.Contains(t, out, "word")
}

func TestCannedResponder(t *testing.T) {
	ctx := context.Background()
	answer, err := CannedResponder{}.Respond(ctx, "How long is a normal period?")
	require.NoError(t, err)
	assert.Contains(t, answer, "menstrual cycle")

	answer, err = CannedResponder{}.Respond(ctx, "I have a question about my doctor visit")
	require.NoError(t, err)
	assert.Equal(t, genericAnswer, answer)

	cancelled, cancel := context.WithCancel(ctx)
	cancel()
	_, err = CannedResponder{}.Respond(cancelled, "period")
	assert.Error(t, err)
}

// =============================================================================
// CHAT HANDLER TESTS
// =============================================================================

func TestHandleChat_Normal(t *testing.T) {
	s := newTestServer()
	rec, resp := postChat(t, s.Handler(), `{"question":"Is it normal to have cramps?"}`, "session-1")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, resp.Success)
	assert.Equal(t, "normal", resp.MessageType)
	assert.True(t, strings.HasSuffix(resp.Response, Disclaimer))
}

func TestHandleChat_EmergencyAndOutOfDomain(t *testing.T) {
	s := newTestServer()
	h := s.Handler()

	_, resp := postChat(t, h, `{"question":"I want to kill myself"}`, "s")
	assert.Equal(t, "emergency", resp.MessageType)
	assert.Contains(t, resp.Response, "988")

	_, resp = postChat(t, h, `{"question":"What's the weather?"}`, "s")
	assert.Equal(t, "out_of_domain", resp.MessageType)
	assert.Equal(t, OutOfDomainReply, resp.Response)
}

func TestHandleChat_EmptyQuestion(t *testing.T) {
	s := newTestServer()
	rec, resp := postChat(t, s.Handler(), `{"question":"   "}`, "")

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.False(t, resp.Success)
	assert.Equal(t, "Question cannot be empty", resp.Response)
}

func TestHandleChat_BadJSON(t *testing.T) {
	s := newTestServer()
	rec, _ := postChat(t, s.Handler(), `{not json`, "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandleChat_TooLarge(t *testing.T) {
	s := newTestServer()
	body := `{"question":"` + strings.Repeat("a", MaxRequestBodySize) + `"}`
	rec, _ := postChat(t, s.Handler(), body, "")
	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
}

func TestHandleChat_ResponderFailure(t *testing.T) {
	s := newTestServer().WithResponder(ResponderFunc(func(ctx context.Context, q string) (string, error) {
		return "", errors.New("model crashed")
	}))

	rec, resp := postChat(t, s.Handler(), `{"question":"period question"}`, "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.False(t, resp.Success)
	assert.Equal(t, "error", resp.MessageType)
	assert.Equal(t, GenerationFailedReply, resp.Response)
}

func TestHandleChat_ModelNotLoaded(t *testing.T) {
	s := newTestServer().WithResponder(nil)
	rec, resp := postChat(t, s.Handler(), `{"question":"period question"}`, "")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "Model not loaded", resp.Response)
}

func TestHandleChat_StatsCountSessions(t *testing.T) {
	s := newTestServer()
	h := s.Handler()

	postChat(t, h, `{"question":"period?"}`, "a")
	postChat(t, h, `{"question":"weather?"}`, "a")
	postChat(t, h, `{"question":"overdose"}`, "b")

	stats := s.Stats().GetStats()
	assert.EqualValues(t, 3, stats.TotalRequests)
	assert.EqualValues(t, 1, stats.Normal)
	assert.EqualValues(t, 1, stats.OutOfDomain)
	assert.EqualValues(t, 1, stats.Emergency)
	assert.Equal(t, 2, stats.Sessions)
}

// =============================================================================
// HEALTH AND ROOT TESTS
// =============================================================================

func TestHandleHealth(t *testing.T) {
	s := newTestServer()
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	var h backend.HealthStatus
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &h))
	assert.True(t, h.Healthy())
	assert.True(t, h.ModelLoaded)
	assert.Greater(t, h.MemoryUsageMB, 0.0)
}

func TestHandleRoot(t *testing.T) {
	s := newTestServer()
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Luna")
}

// =============================================================================
// MIDDLEWARE TESTS
// =============================================================================

func TestCORSPreflight(t *testing.T) {
	s := newTestServer()
	req := httptest.NewRequest(http.MethodOptions, "/chat", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "http://localhost:3000", rec.Header().Get("Access-Control-Allow-Origin"))
	assert.Contains(t, rec.Header().Get("Access-Control-Allow-Headers"), backend.SessionHeader)
}

func TestCORSRestricted(t *testing.T) {
	cfg := &CORSConfig{AllowedOrigins: []string{"*.luna.app"}, AllowedMethods: []string{"POST"}}
	assert.Equal(t, "https://web.luna.app", cfg.allowedOrigin("https://web.luna.app"))
	assert.Empty(t, cfg.allowedOrigin("https://evil.example"))
	assert.Empty(t, cfg.allowedOrigin(""))
}

func TestRateLimiter(t *testing.T) {
	rl := NewRateLimiter(60, 2)
	assert.True(t, rl.Allow("1.2.3.4"))
	assert.True(t, rl.Allow("1.2.3.4"))
	assert.False(t, rl.Allow("1.2.3.4"))
	assert.True(t, rl.Allow("5.6.7.8"), "limits are per client")
}

func TestRateLimitMiddleware(t *testing.T) {
	s := NewServer("").WithRateLimiter(NewRateLimiter(60, 1))
	h := s.Handler()

	first := httptest.NewRecorder()
	h.ServeHTTP(first, httptest.NewRequest(http.MethodGet, "/health", nil))
	second := httptest.NewRecorder()
	h.ServeHTTP(second, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusOK, first.Code)
	assert.Equal(t, http.StatusTooManyRequests, second.Code)
}

func TestRecoveryMiddleware(t *testing.T) {
	h := RecoveryMiddleware()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	}))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestGetClientIP(t *testing.T) {
	tests := []struct {
		name   string
		remote string
		xff    string
		want   string
	}{
		{"direct", "203.0.113.9:5000", "", "203.0.113.9"},
		{"untrusted proxy header ignored", "203.0.113.9:5000", "1.1.1.1", "203.0.113.9"},
		{"trusted proxy", "127.0.0.1:5000", "198.51.100.7, 10.0.0.1", "198.51.100.7"},
		{"bad header", "10.0.0.2:5000", "not-an-ip", "10.0.0.2"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.RemoteAddr = tc.remote
			if tc.xff != "" {
				req.Header.Set("X-Forwarded-For", tc.xff)
			}
			assert.Equal(t, tc.want, GetClientIP(req))
		})
	}
}

// =============================================================================
// CLIENT ROUND TRIP
// =============================================================================

func TestBackendClientAgainstServer(t *testing.T) {
	srv := httptest.NewServer(newTestServer().Handler())
	defer srv.Close()

	client := backend.NewClient(srv.URL)
	ctx := context.Background()

	reply, err := client.Chat(ctx, "session-xyz", "What should I know about ovulation?")
	require.NoError(t, err)
	assert.Equal(t, model.ClassificationNormal, reply.Classification)

	reply, err = client.Chat(ctx, "session-xyz", "overdose")
	require.NoError(t, err)
	assert.Equal(t, model.ClassificationEmergency, reply.Classification)

	_, err = client.Chat(ctx, "session-xyz", "  ")
	var apiErr *backend.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusBadRequest, apiErr.Status)

	health, err := client.Health(ctx)
	require.NoError(t, err)
	assert.True(t, health.Healthy())
}

func TestStartShutdown(t *testing.T) {
	s := NewServer("127.0.0.1:0")
	assert.NoError(t, s.Shutdown(context.Background()), "shutdown before start is a no-op")
}
