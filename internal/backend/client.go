// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package backend is the HTTP client for the remote chat backend.
package backend

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/julianacholder/womens-health-chatbot/internal/model"
)

const (
	// DefaultURL is the backend address used when none is configured.
	DefaultURL = "http://localhost:8000"

	// SessionHeader carries the per-process session id on chat requests.
	SessionHeader = "x-session-id"

	// MaxResponseSize caps how much of a response body is decoded.
	MaxResponseSize = 1 * 1024 * 1024
)

// =============================================================================
// WIRE TYPES
// =============================================================================

// ChatRequest is the body of POST /chat.
type ChatRequest struct {
	Question string `json:"question"`
}

// ChatResponse is the body returned by POST /chat.
type ChatResponse struct {
	Success     bool   `json:"success"`
	Response    string `json:"response"`
	MessageType string `json:"message_type,omitempty"`
}

// HealthStatus is the body returned by GET /health.
type HealthStatus struct {
	Status        string  `json:"status"`
	ModelLoaded   bool    `json:"model_loaded"`
	MemoryUsageMB float64 `json:"memory_usage_mb"`
	Message       string  `json:"message,omitempty"`
}

// Healthy reports whether the backend considers itself healthy.
func (h *HealthStatus) Healthy() bool {
	return h != nil && strings.EqualFold(h.Status, "healthy")
}

// Reply is a successful chat answer.
type Reply struct {
	Text           string
	Classification model.Classification
}

// =============================================================================
// CLIENT
// =============================================================================

// Client talks to the chat backend.
type Client struct {
	baseURL string
	http    *resty.Client
}

// NewClient creates a client for baseURL. An empty baseURL selects DefaultURL.
// No request timeout is set: a chat call waits for the backend or for a
// transport failure, bounded only by the caller's context.
func NewClient(baseURL string) *Client {
	if baseURL == "" {
		baseURL = DefaultURL
	}
	baseURL = strings.TrimRight(baseURL, "/")

	http := resty.New().
		SetBaseURL(baseURL).
		SetHeader("Content-Type", "application/json").
		SetHeader("Accept", "application/json").
		SetResponseBodyLimit(MaxResponseSize)

	return &Client{baseURL: baseURL, http: http}
}

// WithTimeout sets a per-request timeout. Zero disables it.
func (c *Client) WithTimeout(timeout time.Duration) *Client {
	c.http.SetTimeout(timeout)
	return c
}

// BaseURL returns the backend address.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Chat sends question to POST /chat tagged with sessionID.
//
// Errors are either *TransportError (nothing came back) or *APIError (the
// backend answered but the answer is unusable).
func (c *Client) Chat(ctx context.Context, sessionID, question string) (*Reply, error) {
	resp, err := c.http.R().
		SetContext(ctx).
		SetHeader(SessionHeader, sessionID).
		SetBody(ChatRequest{Question: question}).
		Post("/chat")
	if err != nil {
		return nil, c.requestError("POST", "/chat", resp, err)
	}

	body := resp.Body()
	var out ChatResponse
	decodeErr := json.Unmarshal(body, &out)

	if !resp.IsSuccess() {
		msg := strings.TrimSpace(out.Response)
		if decodeErr != nil || msg == "" {
			msg = resp.Status()
		}
		return nil, &APIError{Status: resp.StatusCode(), Message: msg}
	}
	if decodeErr != nil {
		return nil, &APIError{Status: resp.StatusCode(), Message: "invalid JSON", Err: fmt.Errorf("%w: %v", ErrMalformedResponse, decodeErr)}
	}
	if !out.Success {
		return nil, &APIError{Status: resp.StatusCode(), Message: out.Response}
	}
	if strings.TrimSpace(out.Response) == "" {
		return nil, &APIError{Status: resp.StatusCode(), Message: "empty response", Err: ErrMalformedResponse}
	}

	classification, known := model.ParseClassification(out.MessageType)
	if !known {
		log.Printf("BACKEND: unknown message_type %q, treating as normal", out.MessageType)
	}

	return &Reply{Text: out.Response, Classification: classification}, nil
}

// Health calls GET /health.
func (c *Client) Health(ctx context.Context) (*HealthStatus, error) {
	resp, err := c.http.R().
		SetContext(ctx).
		Get("/health")
	if err != nil {
		return nil, c.requestError("GET", "/health", resp, err)
	}
	if !resp.IsSuccess() {
		return nil, &APIError{Status: resp.StatusCode(), Message: resp.Status()}
	}

	var status HealthStatus
	if err := json.Unmarshal(resp.Body(), &status); err != nil {
		return nil, &APIError{Status: resp.StatusCode(), Message: "invalid JSON", Err: fmt.Errorf("%w: %v", ErrMalformedResponse, err)}
	}
	return &status, nil
}

// requestError classifies a failed resty call. An oversized body means the
// backend did answer, so it is an APIError rather than a transport failure.
func (c *Client) requestError(op, path string, resp *resty.Response, err error) error {
	if errors.Is(err, resty.ErrResponseBodyTooLarge) {
		status := 0
		if resp != nil {
			status = resp.StatusCode()
		}
		return &APIError{Status: status, Message: "response too large", Err: ErrMalformedResponse}
	}
	return &TransportError{Op: op, URL: c.baseURL + path, Err: err}
}
