package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/openalum/alumnet-backend/internal/repository"
)

// ErrorBody is the uniform error payload returned by every endpoint,
// middleware included.
type ErrorBody struct {
	Status    int    `json:"status"`
	Error     string `json:"error"`
	Message   string `json:"message"`
	Timestamp string `json:"timestamp"`
}

// Fail writes the uniform error body with the given status and message.
func Fail(c echo.Context, status int, msg string) error {
	return c.JSON(status, ErrorBody{
		Status:    status,
		Error:     http.StatusText(status),
		Message:   msg,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	})
}

// failFrom maps a repository error onto an HTTP status.  Sentinel kinds
// cover every domain failure; anything unrecognized is a 500 with a
// generic message so storage details never leak.
func failFrom(c echo.Context, err error) error {
	switch {
	case errors.Is(err, repository.ErrNotFound):
		return Fail(c, http.StatusNotFound, err.Error())
	case errors.Is(err, repository.ErrForbidden):
		return Fail(c, http.StatusForbidden, err.Error())
	case errors.Is(err, repository.ErrConflict):
		return Fail(c, http.StatusConflict, err.Error())
	case errors.Is(err, repository.ErrDuplicate):
		return Fail(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, repository.ErrOwnerNotListed),
		errors.Is(err, repository.ErrSelfRemoval),
		errors.Is(err, repository.ErrOwnerProtected),
		errors.Is(err, repository.ErrTargetNotMember),
		errors.Is(err, repository.ErrMessageNotInGroup):
		return Fail(c, http.StatusBadRequest, err.Error())
	default:
		c.Logger().Errorf("internal error: %v", err)
		return Fail(c, http.StatusInternalServerError, "internal server error")
	}
}
