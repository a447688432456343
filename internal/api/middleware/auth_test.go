package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/escola-conecta/blog-api/internal/core/domain"
	"github.com/escola-conecta/blog-api/internal/core/ports"
)

type stubTokens struct {
	claims map[string]*ports.TokenClaims
}

func (s *stubTokens) IssuePair(userID, email, role string) (ports.TokenPair, error) {
	return ports.TokenPair{}, nil
}

func (s *stubTokens) Parse(token string) (*ports.TokenClaims, error) {
	if c, ok := s.claims[token]; ok {
		return c, nil
	}
	return nil, domain.ErrInvalidCredentials
}

type stubResolver struct {
	users map[string]*ports.UserProfile
}

func (s *stubResolver) FindByID(_ context.Context, id string) (*ports.UserProfile, error) {
	if u, ok := s.users[id]; ok {
		return u, nil
	}
	return nil, domain.ErrUserNotFound
}

func fixtures() (*stubTokens, *stubResolver) {
	tokens := &stubTokens{claims: map[string]*ports.TokenClaims{
		"good-token":     {Subject: "u1", Email: "alice@example.com", Role: domain.RoleTeacher},
		"inactive-token": {Subject: "u2", Email: "bob@example.com", Role: domain.RoleStudent},
		"orphan-token":   {Subject: "gone", Email: "gone@example.com", Role: domain.RoleStudent},
	}}
	users := &stubResolver{users: map[string]*ports.UserProfile{
		"u1": {ID: "u1", Email: "alice@example.com", Name: "Alice", Role: domain.RoleTeacher, IsActive: true},
		"u2": {ID: "u2", Email: "bob@example.com", Name: "Bob", Role: domain.RoleStudent, IsActive: false},
	}}
	return tokens, users
}

func TestAuth_ValidToken(t *testing.T) {
	e := echo.New()
	tokens, users := fixtures()

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer good-token")
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	called := false
	handler := Auth(tokens, users)(func(c echo.Context) error {
		called = true
		if c.Get(CtxUserID) != "u1" {
			t.Fatalf("user id not set")
		}
		if c.Get(CtxUserName) != "Alice" {
			t.Fatalf("user name not set")
		}
		if c.Get(CtxRole) != domain.RoleTeacher {
			t.Fatalf("role not set")
		}
		return c.NoContent(http.StatusOK)
	})

	if err := handler(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if !called {
		t.Fatalf("next not called")
	}
}

func TestAuth_MissingHeader(t *testing.T) {
	e := echo.New()
	tokens, users := fixtures()

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	handler := Auth(tokens, users)(func(c echo.Context) error {
		t.Fatalf("should not reach next")
		return nil
	})

	err := handler(c)
	he, ok := err.(*echo.HTTPError)
	if !ok || he.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %v", err)
	}
}

func TestAuth_InvalidToken(t *testing.T) {
	e := echo.New()
	tokens, users := fixtures()

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer bogus")
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	handler := Auth(tokens, users)(func(c echo.Context) error {
		t.Fatalf("should not reach next")
		return nil
	})

	err := handler(c)
	he, ok := err.(*echo.HTTPError)
	if !ok || he.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %v", err)
	}
}

func TestAuth_InactiveUser(t *testing.T) {
	e := echo.New()
	tokens, users := fixtures()

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer inactive-token")
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	handler := Auth(tokens, users)(func(c echo.Context) error {
		t.Fatalf("should not reach next")
		return nil
	})

	err := handler(c)
	he, ok := err.(*echo.HTTPError)
	if !ok || he.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 for inactive account, got %v", err)
	}
}

func TestAuth_DeletedUser(t *testing.T) {
	e := echo.New()
	tokens, users := fixtures()

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer orphan-token")
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	handler := Auth(tokens, users)(func(c echo.Context) error {
		t.Fatalf("should not reach next")
		return nil
	})

	err := handler(c)
	he, ok := err.(*echo.HTTPError)
	if !ok || he.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 for deleted account, got %v", err)
	}
}

func TestOptionalAuth_Anonymous(t *testing.T) {
	e := echo.New()
	tokens, users := fixtures()

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	called := false
	handler := OptionalAuth(tokens, users)(func(c echo.Context) error {
		called = true
		if c.Get(CtxUserID) != nil {
			t.Fatalf("anonymous request should carry no identity")
		}
		return c.NoContent(http.StatusOK)
	})

	if err := handler(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if !called {
		t.Fatalf("next not called")
	}
}

func TestOptionalAuth_ValidToken(t *testing.T) {
	e := echo.New()
	tokens, users := fixtures()

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer good-token")
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	handler := OptionalAuth(tokens, users)(func(c echo.Context) error {
		if c.Get(CtxUserID) != "u1" {
			t.Fatalf("identity not injected for valid token")
		}
		return c.NoContent(http.StatusOK)
	})

	if err := handler(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
}
