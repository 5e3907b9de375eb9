// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package server provides the development chat backend.
//
// Endpoints:
//   - POST /chat   - answer a question
//   - GET  /health - health check
//   - GET  /stats  - usage statistics
//   - GET  /       - service banner
package server

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"runtime"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/julianacholder/womens-health-chatbot/internal/backend"
	"github.com/julianacholder/womens-health-chatbot/internal/model"
	"github.com/julianacholder/womens-health-chatbot/internal/util"
)

// ============================================================================
// CONSTANTS
// ============================================================================

const (
	// DefaultAddr is the default listen address.
	DefaultAddr = ":8000"

	// MaxQuestionLength is the longest question accepted, in characters.
	MaxQuestionLength = 4000

	// MaxRequestBodySize caps the request body (64KB).
	MaxRequestBodySize = 64 * 1024

	// DefaultResponderTimeout bounds a single answer.
	DefaultResponderTimeout = 30 * time.Second

	// Version is the server version.
	Version = "1.0.0"
)

// ============================================================================
// SERVER STATS
// ============================================================================

// ServerStats tracks server usage statistics.
type ServerStats struct {
	TotalRequests int64     `json:"total_requests"`
	Normal        int64     `json:"normal"`
	Emergency     int64     `json:"emergency"`
	OutOfDomain   int64     `json:"out_of_domain"`
	Errors        int64     `json:"errors"`
	Sessions      int       `json:"sessions"`
	StartTime     time.Time `json:"start_time"`

	mu       sync.Mutex
	sessions map[string]struct{}
}

// NewServerStats creates a new ServerStats instance.
func NewServerStats() *ServerStats {
	return &ServerStats{
		StartTime: time.Now(),
		sessions:  make(map[string]struct{}),
	}
}

// RecordRequest records one answered question.
func (s *ServerStats) RecordRequest(sessionID string, c model.Classification) {
	atomic.AddInt64(&s.TotalRequests, 1)

	switch c {
	case model.ClassificationEmergency:
		atomic.AddInt64(&s.Emergency, 1)
	case model.ClassificationOutOfDomain:
		atomic.AddInt64(&s.OutOfDomain, 1)
	case model.ClassificationError:
		atomic.AddInt64(&s.Errors, 1)
	default:
		atomic.AddInt64(&s.Normal, 1)
	}

	if sessionID != "" {
		s.mu.Lock()
		s.sessions[sessionID] = struct{}{}
		s.mu.Unlock()
	}
}

// GetStats returns a snapshot of the current stats.
func (s *ServerStats) GetStats() StatsResponse {
	s.mu.Lock()
	sessions := len(s.sessions)
	s.mu.Unlock()

	return StatsResponse{
		TotalRequests: atomic.LoadInt64(&s.TotalRequests),
		Normal:        atomic.LoadInt64(&s.Normal),
		Emergency:     atomic.LoadInt64(&s.Emergency),
		OutOfDomain:   atomic.LoadInt64(&s.OutOfDomain),
		Errors:        atomic.LoadInt64(&s.Errors),
		Sessions:      sessions,
		UptimeSeconds: int64(time.Since(s.StartTime).Seconds()),
	}
}

// ============================================================================
// SERVER
// ============================================================================

// Server is the development chat backend.
type Server struct {
	addr   string
	server *http.Server

	responder Responder
	timeout   time.Duration
	stats     *ServerStats
	cors      *CORSConfig
	limiter   *RateLimiter

	mu sync.RWMutex
}

// NewServer creates a server listening on addr with the canned responder.
func NewServer(addr string) *Server {
	if addr == "" {
		addr = DefaultAddr
	}
	return &Server{
		addr:      addr,
		responder: CannedResponder{},
		timeout:   DefaultResponderTimeout,
		stats:     NewServerStats(),
		cors:      DefaultCORSConfig(),
		limiter:   DefaultRateLimiter(),
	}
}

// WithResponder sets the answer generator. nil reports the model as not
// loaded and makes /chat fail with 500.
func (s *Server) WithResponder(r Responder) *Server {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.responder = r
	return s
}

// WithCORS sets the CORS policy.
func (s *Server) WithCORS(c *CORSConfig) *Server {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cors = c
	return s
}

// WithRateLimiter sets the per-client rate limiter. nil disables limiting.
func (s *Server) WithRateLimiter(l *RateLimiter) *Server {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.limiter = l
	return s
}

// Addr returns the listen address.
func (s *Server) Addr() string {
	return s.addr
}

// Stats returns the server statistics.
func (s *Server) Stats() *ServerStats {
	return s.stats
}

// ============================================================================
// ROUTES
// ============================================================================

// Handler builds the router with its middleware stack.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()

	r.Use(RecoveryMiddleware())
	r.Use(middleware.RequestID)
	r.Use(LoggingMiddleware(log.Default()))
	r.Use(middleware.StripSlashes)

	s.mu.RLock()
	if s.cors != nil {
		r.Use(CORSMiddleware(s.cors))
	}
	if s.limiter != nil {
		r.Use(RateLimitMiddleware(s.limiter))
	}
	s.mu.RUnlock()

	r.Get("/", s.handleRoot)
	r.Post("/chat", s.handleChat)
	r.Get("/health", s.handleHealth)
	r.Get("/stats", s.handleStats)

	return r
}

// ============================================================================
// CHAT HANDLER
// ============================================================================

// handleChat handles POST /chat.
func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, MaxRequestBodySize)
	sessionID := r.Header.Get(backend.SessionHeader)

	var req backend.ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			s.writeFailure(w, http.StatusRequestEntityTooLarge, "Request body too large")
			return
		}
		log.Printf("CHAT: invalid request body: %v", err)
		s.writeFailure(w, http.StatusBadRequest, "Invalid request format")
		return
	}

	question := strings.TrimSpace(req.Question)
	if question == "" {
		s.writeFailure(w, http.StatusBadRequest, "Question cannot be empty")
		return
	}
	if util.RuneLen(question) > MaxQuestionLength {
		s.writeFailure(w, http.StatusBadRequest, "Question is too long")
		return
	}

	s.mu.RLock()
	responder := s.responder
	timeout := s.timeout
	s.mu.RUnlock()

	if responder == nil {
		s.writeFailure(w, http.StatusInternalServerError, "Model not loaded")
		return
	}

	verdict := Triage(question)
	resp := backend.ChatResponse{
		Success:     true,
		MessageType: string(verdict.Classification),
		Response:    verdict.Response,
	}

	if verdict.Classification == model.ClassificationNormal {
		ctx, cancel := context.WithTimeout(r.Context(), timeout)
		answer, err := responder.Respond(ctx, question)
		cancel()
		if err != nil {
			log.Printf("CHAT: generation failed session=%s: %v", sessionID, err)
			resp = backend.ChatResponse{
				Success:     false,
				Response:    GenerationFailedReply,
				MessageType: string(model.ClassificationError),
			}
		} else {
			resp.Response = TruncateAnswer(answer)
		}
	}

	s.stats.RecordRequest(sessionID, model.Classification(resp.MessageType))
	log.Printf("CHAT: session=%s type=%s question=%q", sessionID, resp.MessageType, util.TruncateRunes(question, 50))

	s.writeJSON(w, http.StatusOK, resp)
}

// ============================================================================
// HEALTH HANDLER
// ============================================================================

// handleHealth handles GET /health.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.mu.RLock()
	loaded := s.responder != nil
	s.mu.RUnlock()

	var mem runtime.MemStats
	runtime.ReadMemStats(&mem)
	mb := float64(mem.Sys) / 1024 / 1024

	s.writeJSON(w, http.StatusOK, backend.HealthStatus{
		Status:        "healthy",
		ModelLoaded:   loaded,
		MemoryUsageMB: float64(int(mb*100)) / 100,
		Message:       "Luna Women's Health Chatbot API is running",
	})
}

// ============================================================================
// STATS AND ROOT HANDLERS
// ============================================================================

// StatsResponse represents the usage statistics response.
type StatsResponse struct {
	TotalRequests int64 `json:"total_requests"`
	Normal        int64 `json:"normal"`
	Emergency     int64 `json:"emergency"`
	OutOfDomain   int64 `json:"out_of_domain"`
	Errors        int64 `json:"errors"`
	Sessions      int   `json:"sessions"`
	UptimeSeconds int64 `json:"uptime_seconds"`
}

// handleStats handles GET /stats.
func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, s.stats.GetStats())
}

// handleRoot handles GET /.
func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]interface{}{
		"message": "Welcome to Luna Women's Health Chatbot API 🌸",
		"version": Version,
		"endpoints": map[string]string{
			"chat":   "/chat",
			"health": "/health",
			"stats":  "/stats",
		},
	})
}

// ============================================================================
// SERVER LIFECYCLE
// ============================================================================

// Start listens and serves until Shutdown is called.
func (s *Server) Start() error {
	s.mu.Lock()
	s.server = &http.Server{
		Addr:         s.addr,
		Handler:      s.Handler(),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  120 * time.Second,
	}
	srv := s.server
	s.mu.Unlock()

	log.Printf("SERVER_START | addr=%s version=%s", s.addr, Version)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.mu.RLock()
	srv := s.server
	s.mu.RUnlock()
	if srv == nil {
		return nil
	}

	stats := s.stats.GetStats()
	log.Printf("SERVER_SHUTDOWN | requests=%d sessions=%d", stats.TotalRequests, stats.Sessions)
	return srv.Shutdown(ctx)
}

// ============================================================================
// HELPERS
// ============================================================================

// writeJSON writes a JSON response.
func (s *Server) writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// writeFailure writes a chat-shaped failure body.
func (s *Server) writeFailure(w http.ResponseWriter, status int, message string) {
	s.writeJSON(w, status, backend.ChatResponse{
		Success:  false,
		Response: message,
	})
}
