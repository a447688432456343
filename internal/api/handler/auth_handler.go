package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/escola-conecta/blog-api/internal/core/domain"
	"github.com/escola-conecta/blog-api/internal/core/ports"
)

// AuthHandler handles HTTP requests for registration, login and profiles.
type AuthHandler struct {
	service ports.AuthService
}

func NewAuthHandler(service ports.AuthService) *AuthHandler {
	return &AuthHandler{service: service}
}

// Register creates a new student or teacher account.
//
// @Summary      Register a new user
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      registerRequest  true  "Registration details"
// @Success      201   {object}  ports.AuthResult
// @Failure      400   {object}  map[string]string
// @Failure      409   {object}  map[string]string
// @Router       /auth/register [post]
func (h *AuthHandler) Register(c echo.Context) error {
	var req registerRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	result, err := h.service.Register(c.Request().Context(), ports.RegisterInput{
		Email:    req.Email,
		Name:     req.Name,
		Password: req.Password,
		Role:     req.Role,
	})
	if err != nil {
		return err
	}
	return Respond(c, http.StatusCreated, result)
}

// Login authenticates a user and returns a token pair.
//
// @Summary      Login
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      loginRequest  true  "Credentials"
// @Success      200   {object}  ports.AuthResult
// @Failure      401   {object}  map[string]string
// @Router       /auth/login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	result, err := h.service.Login(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		return err
	}
	return Respond(c, http.StatusOK, result)
}

// Profile returns the authenticated user's own profile.
//
// @Summary      Get own profile
// @Tags         auth
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  ports.UserProfile
// @Failure      401  {object}  map[string]string
// @Router       /auth/profile [get]
func (h *AuthHandler) Profile(c echo.Context) error {
	v, err := requireViewer(c)
	if err != nil {
		return err
	}

	profile, err := h.service.FindByID(c.Request().Context(), v.ID)
	if err != nil {
		return err
	}
	return Respond(c, http.StatusOK, profile)
}

// UpdateProfile applies a partial name/email update to the caller's account.
//
// @Summary      Update own profile
// @Tags         auth
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      updateProfileRequest  true  "Fields to update"
// @Success      200   {object}  ports.UserProfile
// @Failure      409   {object}  map[string]string
// @Router       /auth/profile [patch]
func (h *AuthHandler) UpdateProfile(c echo.Context) error {
	v, err := requireViewer(c)
	if err != nil {
		return err
	}

	var req updateProfileRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if req.Name == nil && req.Email == nil {
		return echo.NewHTTPError(http.StatusBadRequest, "at least one of name or email is required")
	}

	profile, err := h.service.UpdateProfile(c.Request().Context(), v.ID, ports.UpdateProfileInput{
		Name:  req.Name,
		Email: req.Email,
	})
	if err != nil {
		return err
	}
	return Respond(c, http.StatusOK, profile)
}

// ChangePassword re-hashes the caller's password after verifying the
// current one.
//
// @Summary      Change own password
// @Tags         auth
// @Accept       json
// @Security     BearerAuth
// @Param        body  body  changePasswordRequest  true  "Current and new password"
// @Success      204
// @Failure      401  {object}  map[string]string
// @Router       /auth/change-password [patch]
func (h *AuthHandler) ChangePassword(c echo.Context) error {
	v, err := requireViewer(c)
	if err != nil {
		return err
	}

	var req changePasswordRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	if err := h.service.ChangePassword(c.Request().Context(), v.ID, req.CurrentPassword, req.NewPassword); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// Teachers lists all active teachers (admin only).
//
// @Summary      List teachers
// @Tags         auth
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}   ports.UserProfile
// @Failure      403  {object}  map[string]string
// @Router       /auth/teachers [get]
func (h *AuthHandler) Teachers(c echo.Context) error {
	return h.listByRole(c, domain.RoleTeacher)
}

// Students lists all active students (admin only).
//
// @Summary      List students
// @Tags         auth
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}   ports.UserProfile
// @Failure      403  {object}  map[string]string
// @Router       /auth/students [get]
func (h *AuthHandler) Students(c echo.Context) error {
	return h.listByRole(c, domain.RoleStudent)
}

func (h *AuthHandler) listByRole(c echo.Context, role string) error {
	users, err := h.service.FindUsersByRole(c.Request().Context(), role)
	if err != nil {
		return err
	}
	return Respond(c, http.StatusOK, users)
}

// DeleteUser removes an account (admin only).
//
// @Summary      Delete a user
// @Tags         auth
// @Security     BearerAuth
// @Param        id  path  string  true  "User id"
// @Success      204
// @Failure      404  {object}  map[string]string
// @Router       /auth/users/{id} [delete]
func (h *AuthHandler) DeleteUser(c echo.Context) error {
	if err := h.service.DeleteUser(c.Request().Context(), c.Param("id")); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}
