// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package auth provides sign-in, sign-up and session lookup against either
// a remote auth provider or a local account store.
package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode"

	"github.com/julianacholder/womens-health-chatbot/internal/storage"
)

// MinPasswordLength is the shortest password accepted at sign-up.
const MinPasswordLength = 8

// Provider names accepted by New.
const (
	ProviderLocal  = "local"
	ProviderRemote = "remote"
)

// sessionKey is where the current session token is kept in the store.
const sessionKey = "auth:session"

// =============================================================================
// ERRORS
// =============================================================================

var (
	// ErrMissingCredentials is returned when email or password is blank.
	ErrMissingCredentials = errors.New("please enter your email and password")

	// ErrMissingName is returned when sign-up has no name.
	ErrMissingName = errors.New("please enter your name")

	// ErrPasswordMismatch is returned when the confirmation differs.
	ErrPasswordMismatch = errors.New("passwords don't match")

	// ErrPasswordTooShort is returned for passwords under MinPasswordLength.
	ErrPasswordTooShort = fmt.Errorf("password must be at least %d characters long", MinPasswordLength)

	// ErrInvalidCredentials is returned when email and password don't match
	// an account.
	ErrInvalidCredentials = errors.New("invalid email or password")

	// ErrAccountExists is returned when signing up with a taken email.
	ErrAccountExists = errors.New("an account with this email already exists")

	// ErrOAuthUnsupported is returned by providers without social sign-in.
	ErrOAuthUnsupported = errors.New("social sign-in is not available with this provider")
)

// ProviderError is a failure reported by the remote auth provider.
type ProviderError struct {
	Status  int
	Code    string
	Message string
}

// Error implements the error interface.
func (e *ProviderError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("auth provider error (HTTP %d)", e.Status)
}

// =============================================================================
// TYPES
// =============================================================================

// User is the signed-in identity.
type User struct {
	ID    string `json:"id"`
	Name  string `json:"name,omitempty"`
	Email string `json:"email,omitempty"`
	Image string `json:"image,omitempty"`
}

// Session is an authenticated session.
type Session struct {
	User      User      `json:"user"`
	Token     string    `json:"token,omitempty"`
	ExpiresAt time.Time `json:"expiresAt,omitempty"`
}

// Client is an auth provider. Every method may fail; callers show the
// error and keep running.
type Client interface {
	// SignInWithPassword signs in with email and password.
	SignInWithPassword(ctx context.Context, email, password string) (*Session, error)

	// SignUp creates an account and signs it in.
	SignUp(ctx context.Context, name, email, password string) (*Session, error)

	// SignInWithOAuth starts a social sign-in and returns the URL the user
	// must open to finish it.
	SignInWithOAuth(ctx context.Context, provider string) (string, error)

	// SignOut ends the current session.
	SignOut(ctx context.Context) error

	// CurrentSession returns the current session, or nil when signed out.
	CurrentSession(ctx context.Context) (*Session, error)
}

// Options configures New.
type Options struct {
	// Provider is "local" or "remote".
	Provider string

	// URL is the remote provider base URL.
	URL string

	// Secret signs local session tokens. Empty generates one on first use.
	Secret string

	// CallbackURL is passed to social sign-in.
	CallbackURL string
}

// New builds the client selected by opts.Provider.
func New(store storage.Store, opts Options) (Client, error) {
	switch strings.ToLower(opts.Provider) {
	case ProviderLocal, "":
		return NewLocalClient(store, opts.Secret)
	case ProviderRemote:
		c := NewRemoteClient(opts.URL, store)
		if opts.CallbackURL != "" {
			c.callbackURL = opts.CallbackURL
		}
		return c, nil
	default:
		return nil, fmt.Errorf("unknown auth provider %q (want local or remote)", opts.Provider)
	}
}

// =============================================================================
// VALIDATION
// =============================================================================

// ValidateLogin checks the login form.
func ValidateLogin(email, password string) error {
	if strings.TrimSpace(email) == "" || password == "" {
		return ErrMissingCredentials
	}
	return nil
}

// ValidateSignup checks the sign-up form.
func ValidateSignup(name, email, password, confirm string) error {
	if strings.TrimSpace(name) == "" {
		return ErrMissingName
	}
	if err := ValidateLogin(email, password); err != nil {
		return err
	}
	if password != confirm {
		return ErrPasswordMismatch
	}
	if len([]rune(password)) < MinPasswordLength {
		return ErrPasswordTooShort
	}
	return nil
}

// NormalizeEmail lower-cases and trims an email address.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// =============================================================================
// DISPLAY HELPERS
// =============================================================================

// DisplayName returns the user's name, else the local part of the email,
// else "User".
func DisplayName(u *User) string {
	if u == nil {
		return "User"
	}
	if name := strings.TrimSpace(u.Name); name != "" {
		return name
	}
	if at := strings.Index(u.Email, "@"); at > 0 {
		return u.Email[:at]
	}
	if email := strings.TrimSpace(u.Email); email != "" {
		return email
	}
	return "User"
}

// Initials returns up to two upper-case initials for an avatar.
func Initials(name string) string {
	var out []rune
	for _, word := range strings.Fields(name) {
		r := []rune(word)[0]
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			continue
		}
		out = append(out, unicode.ToUpper(r))
		if len(out) == 2 {
			break
		}
	}
	if len(out) == 0 {
		return "U"
	}
	return string(out)
}
