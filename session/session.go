package session

import (
	"errors"
	"sync"

	"github.com/golang-jwt/jwt/v5"
)

// Provider supplies the current user's identifier for the identity
// header on outbound calls.
//
// Contract:
// - Concurrency: implementations must be safe for concurrent use.
// - Errors: UserID never errors; it returns "" when signed out.
type Provider interface {
	// UserID returns the current user id, or "" when no session exists.
	UserID() string
}

// Sentinel errors for session token handling.
var (
	ErrTokenMalformed = errors.New("session: token malformed")
	ErrMissingClaim   = errors.New("session: user claim missing")
)

// TokenProviderConfig configures the token-backed provider.
type TokenProviderConfig struct {
	// UserClaim is the claim carrying the user id.
	// Default: "sub"
	UserClaim string

	// SigningKey, when set, is used to verify the token signature (HMAC).
	// When nil, claims are read without verification; the token was
	// issued to this client by the backend it is echoed back to.
	SigningKey []byte
}

// TokenProvider extracts the user id from the session's access token.
// The token is replaced on sign-in/refresh via SetToken and dropped on
// sign-out via ClearToken.
type TokenProvider struct {
	config TokenProviderConfig

	mu     sync.RWMutex
	userID string
}

// NewTokenProvider creates a token-backed provider with no active session.
func NewTokenProvider(config TokenProviderConfig) *TokenProvider {
	// Apply defaults
	if config.UserClaim == "" {
		config.UserClaim = "sub"
	}
	return &TokenProvider{config: config}
}

// SetToken installs a new access token. The user id is extracted once
// here so UserID stays a cheap read on the request path.
func (p *TokenProvider) SetToken(tokenString string) error {
	claims := jwt.MapClaims{}

	if p.config.SigningKey != nil {
		token, err := jwt.ParseWithClaims(tokenString, claims, func(_ *jwt.Token) (any, error) {
			return p.config.SigningKey, nil
		})
		if err != nil || !token.Valid {
			return ErrTokenMalformed
		}
	} else {
		parser := jwt.NewParser()
		if _, _, err := parser.ParseUnverified(tokenString, claims); err != nil {
			return ErrTokenMalformed
		}
	}

	id, ok := claims[p.config.UserClaim].(string)
	if !ok || id == "" {
		return ErrMissingClaim
	}

	p.mu.Lock()
	p.userID = id
	p.mu.Unlock()
	return nil
}

// ClearToken drops the active session.
func (p *TokenProvider) ClearToken() {
	p.mu.Lock()
	p.userID = ""
	p.mu.Unlock()
}

// UserID returns the user id from the active token, or "" when signed out.
func (p *TokenProvider) UserID() string {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.userID
}

// StaticProvider returns a fixed user id. Useful in tests and previews.
type StaticProvider string

// UserID returns the fixed id.
func (p StaticProvider) UserID() string {
	return string(p)
}

// Ensure implementations satisfy Provider
var (
	_ Provider = (*TokenProvider)(nil)
	_ Provider = StaticProvider("")
)
