package auth

import (
	"context"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

type contextKey string

const sessionKey contextKey = "session"

// Session is the explicit per-request authentication state. It replaces the
// ambient logged-in flag the legacy client kept in browser storage.
type Session struct {
	Username  string
	TokenID   string
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// SessionFromContext returns the session attached to ctx, or nil when the
// request is unauthenticated.
func SessionFromContext(ctx context.Context) *Session {
	sess, _ := ctx.Value(sessionKey).(*Session)
	return sess
}

// WithSession attaches a session to ctx.
func WithSession(ctx context.Context, sess *Session) context.Context {
	return context.WithValue(ctx, sessionKey, sess)
}

type sessionClaims struct {
	jwt.RegisteredClaims
}

// TokenIssuer signs and verifies session tokens with a shared HMAC key.
type TokenIssuer struct {
	signingKey []byte
	ttl        time.Duration
}

func NewTokenIssuer(signingKey []byte, ttl time.Duration) *TokenIssuer {
	return &TokenIssuer{signingKey: signingKey, ttl: ttl}
}

// Issue creates a signed token for the given username and returns the token
// string together with the session it encodes.
func (i *TokenIssuer) Issue(username string) (string, *Session, error) {
	now := time.Now().UTC()
	sess := &Session{
		Username:  username,
		TokenID:   uuid.New().String(),
		IssuedAt:  now,
		ExpiresAt: now.Add(i.ttl),
	}
	claims := sessionClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   username,
			ID:        sess.TokenID,
			IssuedAt:  jwt.NewNumericDate(sess.IssuedAt),
			ExpiresAt: jwt.NewNumericDate(sess.ExpiresAt),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(i.signingKey)
	if err != nil {
		return "", nil, fmt.Errorf("sign session token: %w", err)
	}
	return token, sess, nil
}

// Verify parses and validates a token string and returns its session.
func (i *TokenIssuer) Verify(token string) (*Session, error) {
	claims := &sessionClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return i.signingKey, nil
	})
	if err != nil {
		return nil, fmt.Errorf("parse session token: %w", err)
	}
	if !parsed.Valid {
		return nil, fmt.Errorf("invalid session token")
	}
	sess := &Session{
		Username: claims.Subject,
		TokenID:  claims.ID,
	}
	if claims.IssuedAt != nil {
		sess.IssuedAt = claims.IssuedAt.Time
	}
	if claims.ExpiresAt != nil {
		sess.ExpiresAt = claims.ExpiresAt.Time
	}
	return sess, nil
}
