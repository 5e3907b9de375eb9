// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package backend

import (
	"errors"
	"fmt"
)

// Error variables for common backend failures.
var (
	// ErrMalformedResponse indicates the backend answered with a body that
	// could not be decoded or carried no reply.
	ErrMalformedResponse = errors.New("malformed backend response")

	// ErrProbeThrottled indicates a health probe was skipped by the limiter.
	ErrProbeThrottled = errors.New("health probe throttled")
)

// TransportError means no response was received: dial failure, reset
// connection, DNS error, or a cancelled context.
type TransportError struct {
	Op  string
	URL string
	Err error
}

// Error implements the error interface.
func (e *TransportError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.URL, e.Err)
}

// Unwrap returns the underlying error.
func (e *TransportError) Unwrap() error {
	return e.Err
}

// APIError means the backend responded but reported a failure: a non-2xx
// status, "success": false, or an unusable body.
type APIError struct {
	Status  int
	Message string
	Err     error
}

// Error implements the error interface.
func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("chat backend error (HTTP %d): %s", e.Status, e.Message)
	}
	return fmt.Sprintf("chat backend error (HTTP %d)", e.Status)
}

// Unwrap returns the underlying error, if any.
func (e *APIError) Unwrap() error {
	return e.Err
}

// IsTransport reports whether err is a transport-level failure.
func IsTransport(err error) bool {
	var te *TransportError
	return errors.As(err, &te)
}
