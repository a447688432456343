package handler

import (
	"time"

	"github.com/labstack/echo/v4"
)

// envelope is the outermost response shape on every endpoint.
type envelope struct {
	Success   bool   `json:"success"`
	Data      any    `json:"data,omitempty"`
	Error     string `json:"error,omitempty"`
	Timestamp string `json:"timestamp"`
}

// Respond writes data wrapped in the success envelope.
func Respond(c echo.Context, code int, data any) error {
	return c.JSON(code, envelope{
		Success:   true,
		Data:      data,
		Timestamp: timestamp(),
	})
}

// RespondError writes the error envelope. Used by the central error handler.
func RespondError(c echo.Context, code int, msg string) error {
	return c.JSON(code, envelope{
		Success:   false,
		Error:     msg,
		Timestamp: timestamp(),
	})
}

func timestamp() string {
	return time.Now().UTC().Format("2006-01-02T15:04:05.000Z")
}
