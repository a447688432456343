package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/escola-conecta/blog-api/internal/api/middleware"
	"github.com/escola-conecta/blog-api/internal/core/ports"
)

// viewer extracts the identity injected by the auth middleware. The zero
// Viewer means the request is anonymous (optional-auth routes).
func viewer(c echo.Context) ports.Viewer {
	id, _ := c.Get(middleware.CtxUserID).(string)
	name, _ := c.Get(middleware.CtxUserName).(string)
	role, _ := c.Get(middleware.CtxRole).(string)
	return ports.Viewer{ID: id, Name: name, Role: role}
}

// requireViewer fast-fails when the auth middleware did not run; routes
// behind Auth should never see an anonymous context.
func requireViewer(c echo.Context) (ports.Viewer, error) {
	v := viewer(c)
	if v.Anonymous() {
		return ports.Viewer{}, echo.NewHTTPError(http.StatusUnauthorized, "missing authentication claims")
	}
	return v, nil
}
