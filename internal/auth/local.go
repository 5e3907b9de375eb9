// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package auth

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/julianacholder/womens-health-chatbot/internal/storage"
)

const (
	// DefaultSessionTTL is how long a local session token stays valid.
	DefaultSessionTTL = 7 * 24 * time.Hour

	accountKeyPrefix = "auth:account:"
	signingKeyKey    = "auth:signing-key"
	tokenIssuer      = "luna"
)

// account is the stored form of a local user.
type account struct {
	User         User      `json:"user"`
	PasswordHash string    `json:"passwordHash"`
	CreatedAt    time.Time `json:"createdAt"`
}

// sessionClaims are the JWT claims of a local session token.
type sessionClaims struct {
	Name  string `json:"name,omitempty"`
	Email string `json:"email,omitempty"`
	Image string `json:"image,omitempty"`
	jwt.RegisteredClaims
}

// =============================================================================
// LOCAL CLIENT
// =============================================================================

// LocalClient keeps accounts in the store with bcrypt password hashes and
// issues HS256 session tokens.
type LocalClient struct {
	store  storage.Store
	secret []byte
	ttl    time.Duration
	cost   int
	now    func() time.Time
}

// NewLocalClient creates a local provider. With an empty secret a signing
// key is generated once and kept in the store.
func NewLocalClient(store storage.Store, secret string) (*LocalClient, error) {
	if store == nil {
		return nil, errors.New("local auth requires a store")
	}

	key := []byte(secret)
	if len(key) == 0 {
		var err error
		key, err = loadOrCreateSigningKey(store)
		if err != nil {
			return nil, err
		}
	}

	return &LocalClient{
		store:  store,
		secret: key,
		ttl:    DefaultSessionTTL,
		cost:   bcrypt.DefaultCost,
		now:    time.Now,
	}, nil
}

// WithSessionTTL sets how long issued tokens are valid.
func (c *LocalClient) WithSessionTTL(ttl time.Duration) *LocalClient {
	c.ttl = ttl
	return c
}

// WithBcryptCost sets the bcrypt cost for new password hashes.
func (c *LocalClient) WithBcryptCost(cost int) *LocalClient {
	c.cost = cost
	return c
}

// SignUp creates an account and signs it in.
func (c *LocalClient) SignUp(ctx context.Context, name, email, password string) (*Session, error) {
	if err := ValidateSignup(name, email, password, password); err != nil {
		return nil, err
	}
	email = NormalizeEmail(email)

	if _, err := c.store.Get(accountKeyPrefix + email); err == nil {
		return nil, ErrAccountExists
	} else if !errors.Is(err, storage.ErrNotFound) {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), c.cost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	acct := account{
		User: User{
			ID:    "user-" + uuid.NewString(),
			Name:  name,
			Email: email,
		},
		PasswordHash: string(hash),
		CreatedAt:    c.now(),
	}
	data, err := json.Marshal(acct)
	if err != nil {
		return nil, err
	}
	if err := c.store.Set(accountKeyPrefix+email, data); err != nil {
		return nil, fmt.Errorf("save account: %w", err)
	}

	log.Printf("AUTH: created local account %s", acct.User.ID)
	return c.issue(acct.User)
}

// SignInWithPassword checks the password against the stored hash.
func (c *LocalClient) SignInWithPassword(ctx context.Context, email, password string) (*Session, error) {
	if err := ValidateLogin(email, password); err != nil {
		return nil, err
	}

	data, err := c.store.Get(accountKeyPrefix + NormalizeEmail(email))
	if errors.Is(err, storage.ErrNotFound) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}

	var acct account
	if err := json.Unmarshal(data, &acct); err != nil {
		return nil, fmt.Errorf("decode account: %w", err)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(acct.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	return c.issue(acct.User)
}

// SignInWithOAuth is not available locally.
func (c *LocalClient) SignInWithOAuth(ctx context.Context, provider string) (string, error) {
	return "", ErrOAuthUnsupported
}

// SignOut forgets the current token.
func (c *LocalClient) SignOut(ctx context.Context) error {
	return c.store.Delete(sessionKey)
}

// CurrentSession validates the stored token. An expired or invalid token
// is removed and reported as signed out.
func (c *LocalClient) CurrentSession(ctx context.Context) (*Session, error) {
	data, err := c.store.Get(sessionKey)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	session, err := c.parse(string(data))
	if err != nil {
		log.Printf("AUTH: discarding stored session: %v", err)
		_ = c.store.Delete(sessionKey)
		return nil, nil
	}
	return session, nil
}

// issue signs a token for user and stores it as the current session.
func (c *LocalClient) issue(user User) (*Session, error) {
	now := c.now()
	expires := now.Add(c.ttl)

	claims := sessionClaims{
		Name:  user.Name,
		Email: user.Email,
		Image: user.Image,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    tokenIssuer,
			Subject:   user.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expires),
		},
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(c.secret)
	if err != nil {
		return nil, fmt.Errorf("sign session: %w", err)
	}
	if err := c.store.Set(sessionKey, []byte(token)); err != nil {
		return nil, fmt.Errorf("save session: %w", err)
	}

	return &Session{User: user, Token: token, ExpiresAt: expires}, nil
}

func (c *LocalClient) parse(tokenString string) (*Session, error) {
	claims := &sessionClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return c.secret, nil
	}, jwt.WithIssuer(tokenIssuer), jwt.WithTimeFunc(c.now))
	if err != nil {
		return nil, err
	}
	if !token.Valid || claims.Subject == "" {
		return nil, errors.New("invalid token")
	}

	session := &Session{
		User: User{
			ID:    claims.Subject,
			Name:  claims.Name,
			Email: claims.Email,
			Image: claims.Image,
		},
		Token: tokenString,
	}
	if claims.ExpiresAt != nil {
		session.ExpiresAt = claims.ExpiresAt.Time
	}
	return session, nil
}

func loadOrCreateSigningKey(store storage.Store) ([]byte, error) {
	data, err := store.Get(signingKeyKey)
	if err == nil && len(data) > 0 {
		return hex.DecodeString(string(data))
	}
	if err != nil && !errors.Is(err, storage.ErrNotFound) {
		return nil, err
	}

	key := make([]byte, 32)
	if _, err := rand.Read(key); err != nil {
		return nil, fmt.Errorf("generate signing key: %w", err)
	}
	if err := store.Set(signingKeyKey, []byte(hex.EncodeToString(key))); err != nil {
		return nil, fmt.Errorf("save signing key: %w", err)
	}
	return key, nil
}
