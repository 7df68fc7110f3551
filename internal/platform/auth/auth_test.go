package auth

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/carebase/carebase/internal/platform/store"
)

func testService(t *testing.T) (*Service, *store.Memory) {
	t.Helper()
	mem := store.NewMemory()
	if err := mem.Seed(store.CollectionUsers,
		store.Document{"id": "u1", "username": "volunteer", "password": "secret"},
	); err != nil {
		t.Fatalf("seed users: %v", err)
	}
	issuer := NewTokenIssuer([]byte("test-signing-key"), time.Hour)
	revocation := NewTokenRevocationStore()
	t.Cleanup(revocation.Close)
	return NewService(mem, issuer, revocation, zerolog.Nop()), mem
}

func TestIssueAndVerifyToken(t *testing.T) {
	issuer := NewTokenIssuer([]byte("key"), time.Hour)

	token, sess, err := issuer.Issue("volunteer")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	if sess.Username != "volunteer" || sess.TokenID == "" {
		t.Fatalf("unexpected session: %+v", sess)
	}

	verified, err := issuer.Verify(token)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if verified.Username != "volunteer" || verified.TokenID != sess.TokenID {
		t.Errorf("verified session mismatch: %+v", verified)
	}
}

func TestVerifyRejectsForgedToken(t *testing.T) {
	issuer := NewTokenIssuer([]byte("key"), time.Hour)
	other := NewTokenIssuer([]byte("other-key"), time.Hour)

	token, _, err := other.Issue("volunteer")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	if _, err := issuer.Verify(token); err == nil {
		t.Error("expected verification failure for foreign signature")
	}
}

func TestLoginSuccess(t *testing.T) {
	svc, mem := testService(t)

	token, sess, err := svc.Login(context.Background(), "volunteer", "secret")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if token == "" || sess.Username != "volunteer" {
		t.Fatalf("unexpected login result: token=%q sess=%+v", token, sess)
	}

	// Login appends an audit document.
	entries, err := mem.QueryWhere(context.Background(), store.CollectionLoginData, "username", "volunteer")
	if err != nil {
		t.Fatalf("query logindata: %v", err)
	}
	if len(entries) != 1 {
		t.Errorf("expected one logindata entry, got %d", len(entries))
	}
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	svc, _ := testService(t)

	cases := []struct{ username, password string }{
		{"volunteer", "wrong"},
		{"nobody", "secret"},
		{"", "secret"},
		{"volunteer", ""},
	}
	for _, tc := range cases {
		if _, _, err := svc.Login(context.Background(), tc.username, tc.password); !errors.Is(err, ErrInvalidCredentials) {
			t.Errorf("login(%q, %q): expected ErrInvalidCredentials, got %v", tc.username, tc.password, err)
		}
	}
}

func TestLogoutRevokesToken(t *testing.T) {
	svc, _ := testService(t)

	token, sess, err := svc.Login(context.Background(), "volunteer", "secret")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if _, err := svc.VerifyToken(token); err != nil {
		t.Fatalf("verify before logout: %v", err)
	}

	svc.Logout(sess)
	if _, err := svc.VerifyToken(token); err == nil {
		t.Error("expected revoked token to be rejected")
	}
}

func TestRevocationStoreExpiry(t *testing.T) {
	s := NewTokenRevocationStore()
	defer s.Close()

	s.Revoke("jti-1", time.Now().Add(time.Hour))
	if !s.IsRevoked("jti-1") {
		t.Error("expected jti-1 revoked")
	}
	if s.IsRevoked("jti-2") {
		t.Error("jti-2 was never revoked")
	}

	s.Revoke("jti-old", time.Now().Add(-time.Hour))
	s.cleanup(time.Now())
	if s.IsRevoked("jti-old") {
		t.Error("expired revocation should be dropped by cleanup")
	}
}

func TestMiddlewareAttachesSession(t *testing.T) {
	svc, _ := testService(t)
	token, _, err := svc.Login(context.Background(), "volunteer", "secret")
	if err != nil {
		t.Fatalf("login: %v", err)
	}

	e := echo.New()
	handler := Middleware(svc, nil)(func(c echo.Context) error {
		sess := SessionFromContext(c.Request().Context())
		if sess == nil || sess.Username != "volunteer" {
			t.Errorf("session missing from context: %+v", sess)
		}
		return c.NoContent(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/registrations", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	if err := handler(e.NewContext(req, rec)); err != nil {
		t.Fatalf("handler: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", rec.Code)
	}
}

func TestMiddlewareRejectsMissingAndInvalidTokens(t *testing.T) {
	svc, _ := testService(t)
	e := echo.New()
	handler := Middleware(svc, nil)(func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	})

	for _, header := range []string{"", "Bearer garbage", "Basic abc"} {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/registrations", nil)
		if header != "" {
			req.Header.Set("Authorization", header)
		}
		rec := httptest.NewRecorder()
		err := handler(e.NewContext(req, rec))
		var httpErr *echo.HTTPError
		if !errors.As(err, &httpErr) || httpErr.Code != http.StatusUnauthorized {
			t.Errorf("header %q: expected 401, got %v", header, err)
		}
	}
}

func TestMiddlewareSkipper(t *testing.T) {
	svc, _ := testService(t)
	e := echo.New()
	skipLogin := func(c echo.Context) bool {
		return strings.HasSuffix(c.Request().URL.Path, "/auth/login")
	}
	handler := Middleware(svc, skipLogin)(func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", nil)
	rec := httptest.NewRecorder()
	if err := handler(e.NewContext(req, rec)); err != nil {
		t.Fatalf("skipped route should pass without token: %v", err)
	}
}
