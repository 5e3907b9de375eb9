// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/julianacholder/womens-health-chatbot/internal/storage"
)

const (
	// DefaultRemoteURL is the auth provider address used when none is set.
	DefaultRemoteURL = "http://localhost:3000"

	// DefaultCallbackURL is where social sign-in returns to.
	DefaultCallbackURL = "/dashboard"

	// DefaultRemoteTimeout bounds each auth request.
	DefaultRemoteTimeout = 15 * time.Second

	tokenHeader = "set-auth-token"
)

// Remote auth routes.
const (
	routeSignInEmail  = "/api/auth/sign-in/email"
	routeSignUpEmail  = "/api/auth/sign-up/email"
	routeSignInSocial = "/api/auth/sign-in/social"
	routeSignOut      = "/api/auth/sign-out"
	routeGetSession   = "/api/auth/get-session"
)

// =============================================================================
// WIRE TYPES
// =============================================================================

type emailSignInRequest struct {
	Email      string `json:"email"`
	Password   string `json:"password"`
	RememberMe bool   `json:"rememberMe"`
}

type emailSignUpRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type socialSignInRequest struct {
	Provider    string `json:"provider"`
	CallbackURL string `json:"callbackURL,omitempty"`
}

type authResponse struct {
	Token string `json:"token"`
	User  *User  `json:"user"`
}

type socialResponse struct {
	URL      string `json:"url"`
	Redirect bool   `json:"redirect"`
}

type sessionResponse struct {
	Session *struct {
		Token     string    `json:"token"`
		ExpiresAt time.Time `json:"expiresAt"`
	} `json:"session"`
	User *User `json:"user"`
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// =============================================================================
// REMOTE CLIENT
// =============================================================================

// RemoteClient talks to an HTTP auth provider using bearer tokens. The
// token is kept in the store so the session survives restarts.
type RemoteClient struct {
	baseURL     string
	callbackURL string
	http        *resty.Client
	store       storage.Store
}

// NewRemoteClient creates a client for the provider at baseURL.
func NewRemoteClient(baseURL string, store storage.Store) *RemoteClient {
	if baseURL == "" {
		baseURL = DefaultRemoteURL
	}
	baseURL = strings.TrimRight(baseURL, "/")

	http := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(DefaultRemoteTimeout).
		SetHeader("Content-Type", "application/json").
		SetHeader("Accept", "application/json")

	return &RemoteClient{
		baseURL:     baseURL,
		callbackURL: DefaultCallbackURL,
		http:        http,
		store:       store,
	}
}

// SignInWithPassword signs in with email and password.
func (c *RemoteClient) SignInWithPassword(ctx context.Context, email, password string) (*Session, error) {
	if err := ValidateLogin(email, password); err != nil {
		return nil, err
	}
	return c.authenticate(ctx, routeSignInEmail, emailSignInRequest{
		Email:      strings.TrimSpace(email),
		Password:   password,
		RememberMe: true,
	})
}

// SignUp creates an account on the provider.
func (c *RemoteClient) SignUp(ctx context.Context, name, email, password string) (*Session, error) {
	if err := ValidateSignup(name, email, password, password); err != nil {
		return nil, err
	}
	return c.authenticate(ctx, routeSignUpEmail, emailSignUpRequest{
		Name:     strings.TrimSpace(name),
		Email:    strings.TrimSpace(email),
		Password: password,
	})
}

// SignInWithOAuth asks the provider for a social sign-in URL.
func (c *RemoteClient) SignInWithOAuth(ctx context.Context, provider string) (string, error) {
	if provider == "" {
		return "", errors.New("provider is required")
	}

	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(socialSignInRequest{Provider: provider, CallbackURL: c.callbackURL}).
		Post(routeSignInSocial)
	if err != nil {
		return "", fmt.Errorf("social sign-in: %w", err)
	}
	if !resp.IsSuccess() {
		return "", providerError(resp)
	}

	var out socialResponse
	if err := json.Unmarshal(resp.Body(), &out); err != nil || out.URL == "" {
		return "", &ProviderError{Status: resp.StatusCode(), Message: "provider returned no sign-in URL"}
	}
	return out.URL, nil
}

// SignOut ends the session on the provider. The local token is removed
// even if the provider call fails.
func (c *RemoteClient) SignOut(ctx context.Context) error {
	token := c.token()
	if err := c.store.Delete(sessionKey); err != nil {
		log.Printf("AUTH: failed to clear session token: %v", err)
	}
	if token == "" {
		return nil
	}

	resp, err := c.http.R().
		SetContext(ctx).
		SetAuthToken(token).
		SetBody(map[string]any{}).
		Post(routeSignOut)
	if err != nil {
		return fmt.Errorf("sign out: %w", err)
	}
	if !resp.IsSuccess() {
		return providerError(resp)
	}
	return nil
}

// CurrentSession asks the provider whether the stored token is still valid.
func (c *RemoteClient) CurrentSession(ctx context.Context) (*Session, error) {
	token := c.token()
	if token == "" {
		return nil, nil
	}

	resp, err := c.http.R().
		SetContext(ctx).
		SetAuthToken(token).
		Get(routeGetSession)
	if err != nil {
		return nil, fmt.Errorf("get session: %w", err)
	}
	if resp.StatusCode() == 401 {
		_ = c.store.Delete(sessionKey)
		return nil, nil
	}
	if !resp.IsSuccess() {
		return nil, providerError(resp)
	}

	body := strings.TrimSpace(string(resp.Body()))
	if body == "" || body == "null" {
		_ = c.store.Delete(sessionKey)
		return nil, nil
	}

	var out sessionResponse
	if err := json.Unmarshal(resp.Body(), &out); err != nil {
		return nil, fmt.Errorf("decode session: %w", err)
	}
	if out.User == nil || out.User.ID == "" {
		_ = c.store.Delete(sessionKey)
		return nil, nil
	}

	session := &Session{User: *out.User, Token: token}
	if out.Session != nil {
		session.ExpiresAt = out.Session.ExpiresAt
	}
	return session, nil
}

// authenticate posts credentials and stores the returned token.
func (c *RemoteClient) authenticate(ctx context.Context, route string, body any) (*Session, error) {
	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(body).
		Post(route)
	if err != nil {
		return nil, fmt.Errorf("auth request: %w", err)
	}
	if !resp.IsSuccess() {
		return nil, providerError(resp)
	}

	var out authResponse
	if err := json.Unmarshal(resp.Body(), &out); err != nil {
		return nil, fmt.Errorf("decode auth response: %w", err)
	}

	token := out.Token
	if token == "" {
		token = resp.Header().Get(tokenHeader)
	}
	if token == "" || out.User == nil {
		return nil, &ProviderError{Status: resp.StatusCode(), Message: "provider returned no session"}
	}

	if err := c.store.Set(sessionKey, []byte(token)); err != nil {
		return nil, fmt.Errorf("save session: %w", err)
	}
	return &Session{User: *out.User, Token: token}, nil
}

func (c *RemoteClient) token() string {
	data, err := c.store.Get(sessionKey)
	if err != nil {
		return ""
	}
	return string(data)
}

func providerError(resp *resty.Response) error {
	var body errorResponse
	_ = json.Unmarshal(resp.Body(), &body)
	return &ProviderError{
		Status:  resp.StatusCode(),
		Code:    body.Code,
		Message: body.Message,
	}
}
