package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/escola-conecta/blog-api/internal/api/middleware"
	"github.com/escola-conecta/blog-api/internal/core/domain"
	"github.com/escola-conecta/blog-api/internal/core/ports"
)

type stubAuthService struct {
	registerFn      func(ctx context.Context, in ports.RegisterInput) (*ports.AuthResult, error)
	loginFn         func(ctx context.Context, email, password string) (*ports.AuthResult, error)
	findByIDFn      func(ctx context.Context, id string) (*ports.UserProfile, error)
	updateProfileFn func(ctx context.Context, id string, in ports.UpdateProfileInput) (*ports.UserProfile, error)
	usersByRoleFn   func(ctx context.Context, role string) ([]ports.UserProfile, error)
}

func (s *stubAuthService) Register(ctx context.Context, in ports.RegisterInput) (*ports.AuthResult, error) {
	return s.registerFn(ctx, in)
}

func (s *stubAuthService) Login(ctx context.Context, email, password string) (*ports.AuthResult, error) {
	return s.loginFn(ctx, email, password)
}

func (s *stubAuthService) ValidateCredentials(context.Context, string, string) (*ports.UserProfile, error) {
	return nil, nil
}

func (s *stubAuthService) FindByID(ctx context.Context, id string) (*ports.UserProfile, error) {
	return s.findByIDFn(ctx, id)
}

func (s *stubAuthService) UpdateProfile(ctx context.Context, id string, in ports.UpdateProfileInput) (*ports.UserProfile, error) {
	return s.updateProfileFn(ctx, id, in)
}

func (s *stubAuthService) ChangePassword(context.Context, string, string, string) error {
	return nil
}

func (s *stubAuthService) FindUsersByRole(ctx context.Context, role string) ([]ports.UserProfile, error) {
	return s.usersByRoleFn(ctx, role)
}

func (s *stubAuthService) DeleteUser(context.Context, string) error { return nil }

func (s *stubAuthService) EnsureAdmin(context.Context, string, string, string) error { return nil }

func newTestContext(t *testing.T, method, target, body string) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()
	e := echo.New()
	e.Validator = NewValidator()

	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func TestAuthHandler_Register_Success(t *testing.T) {
	stub := &stubAuthService{
		registerFn: func(_ context.Context, in ports.RegisterInput) (*ports.AuthResult, error) {
			if in.Email != "alice@example.com" || in.Role != domain.RoleStudent {
				t.Fatalf("unexpected input: %+v", in)
			}
			return &ports.AuthResult{
				User:         ports.UserProfile{ID: "u1", Email: in.Email, Name: in.Name, Role: in.Role},
				AccessToken:  "access",
				RefreshToken: "refresh",
			}, nil
		},
	}
	h := NewAuthHandler(stub)

	c, rec := newTestContext(t, http.MethodPost, "/auth/register",
		`{"email":"alice@example.com","name":"Alice","password":"secret","role":"student"}`)

	if err := h.Register(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}

	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp["success"] != true {
		t.Fatalf("expected success envelope, got %+v", resp)
	}
	data, ok := resp["data"].(map[string]any)
	if !ok {
		t.Fatalf("expected data in envelope")
	}
	if data["accessToken"] != "access" || data["refreshToken"] != "refresh" {
		t.Fatalf("unexpected tokens: %+v", data)
	}
	user, ok := data["user"].(map[string]any)
	if !ok {
		t.Fatalf("expected user in response")
	}
	if user["email"] != "alice@example.com" {
		t.Fatalf("unexpected user payload: %+v", user)
	}
	if _, leaked := user["password"]; leaked {
		t.Fatalf("password must never appear in responses")
	}
}

func TestAuthHandler_Register_AdminRoleRejected(t *testing.T) {
	stub := &stubAuthService{
		registerFn: func(context.Context, ports.RegisterInput) (*ports.AuthResult, error) {
			t.Fatalf("service should not be called for admin role")
			return nil, nil
		},
	}
	h := NewAuthHandler(stub)

	c, _ := newTestContext(t, http.MethodPost, "/auth/register",
		`{"email":"eve@example.com","name":"Eve","password":"secret","role":"admin"}`)

	err := h.Register(c)
	he, ok := err.(*echo.HTTPError)
	if !ok || he.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for admin role, got %v", err)
	}
}

func TestAuthHandler_Register_ShortPassword(t *testing.T) {
	stub := &stubAuthService{
		registerFn: func(context.Context, ports.RegisterInput) (*ports.AuthResult, error) {
			t.Fatalf("service should not be called")
			return nil, nil
		},
	}
	h := NewAuthHandler(stub)

	c, _ := newTestContext(t, http.MethodPost, "/auth/register",
		`{"email":"bob@example.com","name":"Bob","password":"short"}`)

	err := h.Register(c)
	he, ok := err.(*echo.HTTPError)
	if !ok || he.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for short password, got %v", err)
	}
}

func TestAuthHandler_Register_DuplicateEmail(t *testing.T) {
	stub := &stubAuthService{
		registerFn: func(context.Context, ports.RegisterInput) (*ports.AuthResult, error) {
			return nil, domain.ErrEmailTaken
		},
	}
	h := NewAuthHandler(stub)

	c, _ := newTestContext(t, http.MethodPost, "/auth/register",
		`{"email":"bob@example.com","name":"Bob","password":"secret1"}`)

	if err := h.Register(c); err != domain.ErrEmailTaken {
		t.Fatalf("expected ErrEmailTaken passed through, got %v", err)
	}
}

func TestAuthHandler_Login_Success(t *testing.T) {
	stub := &stubAuthService{
		loginFn: func(_ context.Context, email, password string) (*ports.AuthResult, error) {
			if email != "carol@example.com" || password != "s3cret" {
				t.Fatalf("unexpected credentials: %s %s", email, password)
			}
			return &ports.AuthResult{
				User:        ports.UserProfile{ID: "u1", Email: email, Role: domain.RoleTeacher},
				AccessToken: "access",
			}, nil
		},
	}
	h := NewAuthHandler(stub)

	c, rec := newTestContext(t, http.MethodPost, "/auth/login",
		`{"email":"carol@example.com","password":"s3cret"}`)

	if err := h.Login(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestAuthHandler_Login_InvalidCredentials(t *testing.T) {
	stub := &stubAuthService{
		loginFn: func(context.Context, string, string) (*ports.AuthResult, error) {
			return nil, domain.ErrInvalidCredentials
		},
	}
	h := NewAuthHandler(stub)

	c, _ := newTestContext(t, http.MethodPost, "/auth/login",
		`{"email":"carol@example.com","password":"wrong"}`)

	if err := h.Login(c); err != domain.ErrInvalidCredentials {
		t.Fatalf("expected ErrInvalidCredentials passed through, got %v", err)
	}
}

func TestAuthHandler_Profile_RequiresIdentity(t *testing.T) {
	stub := &stubAuthService{
		findByIDFn: func(context.Context, string) (*ports.UserProfile, error) {
			t.Fatalf("service should not be called without identity")
			return nil, nil
		},
	}
	h := NewAuthHandler(stub)

	c, _ := newTestContext(t, http.MethodGet, "/auth/profile", "")

	err := h.Profile(c)
	he, ok := err.(*echo.HTTPError)
	if !ok || he.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %v", err)
	}
}

func TestAuthHandler_UpdateProfile_EmptyBody(t *testing.T) {
	stub := &stubAuthService{
		updateProfileFn: func(context.Context, string, ports.UpdateProfileInput) (*ports.UserProfile, error) {
			t.Fatalf("service should not be called for empty update")
			return nil, nil
		},
	}
	h := NewAuthHandler(stub)

	c, _ := newTestContext(t, http.MethodPatch, "/auth/profile", `{}`)
	c.Set(middleware.CtxUserID, "u1")
	c.Set(middleware.CtxUserName, "Alice")
	c.Set(middleware.CtxRole, domain.RoleStudent)

	err := h.UpdateProfile(c)
	he, ok := err.(*echo.HTTPError)
	if !ok || he.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for empty update, got %v", err)
	}
}

func TestAuthHandler_Teachers(t *testing.T) {
	stub := &stubAuthService{
		usersByRoleFn: func(_ context.Context, role string) ([]ports.UserProfile, error) {
			if role != domain.RoleTeacher {
				t.Fatalf("unexpected role: %s", role)
			}
			return []ports.UserProfile{{ID: "u1", Role: role}}, nil
		},
	}
	h := NewAuthHandler(stub)

	c, rec := newTestContext(t, http.MethodGet, "/auth/teachers", "")

	if err := h.Teachers(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}
