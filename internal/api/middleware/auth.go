package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/escola-conecta/blog-api/internal/core/ports"
)

// Context keys set by the auth middleware.
const (
	CtxUserID    = "user_id"
	CtxUserName  = "user_name"
	CtxUserEmail = "user_email"
	CtxRole      = "role"
)

// UserResolver fetches the live user for a validated token. The token
// alone is never trusted for account state: a deactivated account must be
// rejected even while its tokens are unexpired.
type UserResolver interface {
	FindByID(ctx context.Context, id string) (*ports.UserProfile, error)
}

// Auth validates the bearer token, re-fetches the user, and injects the
// resolved identity into context. Requests without a valid token and an
// active account are rejected with 401.
func Auth(tokens ports.TokenService, users UserResolver) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			user, err := resolve(c, tokens, users)
			if err != nil {
				return err
			}
			inject(c, user)
			return next(c)
		}
	}
}

// OptionalAuth resolves the identity when a valid token is present and
// lets the request through anonymously otherwise. Used on public read
// routes whose visibility depends on who is asking.
func OptionalAuth(tokens ports.TokenService, users UserResolver) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if user, err := resolve(c, tokens, users); err == nil {
				inject(c, user)
			}
			return next(c)
		}
	}
}

func resolve(c echo.Context, tokens ports.TokenService, users UserResolver) (*ports.UserProfile, error) {
	authHeader := c.Request().Header.Get("Authorization")
	if authHeader == "" {
		return nil, echo.NewHTTPError(http.StatusUnauthorized, "missing authorization header")
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return nil, echo.NewHTTPError(http.StatusUnauthorized, "invalid authorization header")
	}

	claims, err := tokens.Parse(parts[1])
	if err != nil {
		return nil, echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
	}

	user, err := users.FindByID(c.Request().Context(), claims.Subject)
	if err != nil || !user.IsActive {
		return nil, echo.NewHTTPError(http.StatusUnauthorized, "invalid or inactive user")
	}
	return user, nil
}

func inject(c echo.Context, user *ports.UserProfile) {
	c.Set(CtxUserID, user.ID)
	c.Set(CtxUserName, user.Name)
	c.Set(CtxUserEmail, user.Email)
	c.Set(CtxRole, user.Role)
}
