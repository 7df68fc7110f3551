package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/carebase/carebase/internal/platform/store"
)

// ErrInvalidCredentials is returned when no user matches the supplied
// username/password pair.
var ErrInvalidCredentials = errors.New("invalid credentials")

// Service authenticates users against the users collection and issues
// session tokens.
type Service struct {
	store      store.Store
	issuer     *TokenIssuer
	revocation *TokenRevocationStore
	logger     zerolog.Logger
}

func NewService(st store.Store, issuer *TokenIssuer, revocation *TokenRevocationStore, logger zerolog.Logger) *Service {
	return &Service{store: st, issuer: issuer, revocation: revocation, logger: logger}
}

// Login verifies the credentials against the users collection and returns a
// signed session token. The credential documents store plaintext passwords,
// inherited from the legacy dataset; hashing them would break every
// existing user record, so the compare stays plaintext for now.
func (s *Service) Login(ctx context.Context, username, password string) (string, *Session, error) {
	if username == "" || password == "" {
		return "", nil, ErrInvalidCredentials
	}

	users, err := s.store.QueryWhere(ctx, store.CollectionUsers, "username", username)
	if err != nil {
		return "", nil, fmt.Errorf("look up user: %w", err)
	}

	var matched store.Document
	for _, u := range users {
		if u.String("password") == password {
			matched = u
			break
		}
	}
	if matched == nil {
		return "", nil, ErrInvalidCredentials
	}

	token, sess, err := s.issuer.Issue(username)
	if err != nil {
		return "", nil, err
	}

	// Login audit trail, best-effort: a failed write must not block login.
	_, err = s.store.Create(ctx, store.CollectionLoginData, "", store.Document{
		"username":  username,
		"loginTime": time.Now().UTC().Format(time.RFC3339),
	})
	if err != nil {
		s.logger.Warn().Err(err).Str("username", username).Msg("failed to record login event")
	}

	return token, sess, nil
}

// Logout revokes the session's token so it is rejected before its natural
// expiry.
func (s *Service) Logout(sess *Session) {
	if sess == nil {
		return
	}
	s.revocation.Revoke(sess.TokenID, sess.ExpiresAt)
}

// VerifyToken validates a raw token string and checks the revocation list.
func (s *Service) VerifyToken(token string) (*Session, error) {
	sess, err := s.issuer.Verify(token)
	if err != nil {
		return nil, err
	}
	if s.revocation.IsRevoked(sess.TokenID) {
		return nil, fmt.Errorf("session has been logged out")
	}
	return sess, nil
}
