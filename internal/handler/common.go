package handler

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
)

// Context keys populated by the auth middleware.  Services never reach into
// ambient state; handlers read the identity here and pass it down as
// explicit arguments.
const (
	CtxUserID   = "user_id"
	CtxUsername = "username"
	CtxEmail    = "email"
	CtxRole     = "role"
)

// authUserID returns the authenticated caller's id from the request context.
func authUserID(c echo.Context) (uint64, error) {
	if id, ok := c.Get(CtxUserID).(uint64); ok && id > 0 {
		return id, nil
	}
	return 0, errors.New("missing authenticated user in context")
}

// authUsername returns the authenticated caller's username.
func authUsername(c echo.Context) (string, error) {
	if s, ok := c.Get(CtxUsername).(string); ok && s != "" {
		return s, nil
	}
	return "", errors.New("missing authenticated username in context")
}

// pathID parses a numeric path parameter.
func pathID(c echo.Context, name string) (uint64, error) {
	n, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || n == 0 {
		return 0, errors.New("invalid " + name)
	}
	return n, nil
}

// reqCtx bounds every database call to the lifetime of the HTTP request
// plus a hard timeout.
func reqCtx(c echo.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(c.Request().Context(), 5*time.Second)
}
