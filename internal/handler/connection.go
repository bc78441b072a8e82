package handler

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/openalum/alumnet-backend/internal/model"
	"github.com/openalum/alumnet-backend/internal/repository"
)

// ConnectionHandler serves the connection-request lifecycle.
type ConnectionHandler struct {
	Connections *repository.ConnectionRepo
}

func NewConnectionHandler(r *repository.ConnectionRepo) *ConnectionHandler {
	return &ConnectionHandler{Connections: r}
}

// Send creates a PENDING request from the caller to the user named in the
// path.
func (h *ConnectionHandler) Send(c echo.Context) error {
	senderID, err := authUserID(c)
	if err != nil {
		return Fail(c, http.StatusUnauthorized, "unauthorized")
	}
	receiverID, err := pathID(c, "id")
	if err != nil {
		return Fail(c, http.StatusBadRequest, err.Error())
	}
	if receiverID == senderID {
		return Fail(c, http.StatusBadRequest, "cannot connect to yourself")
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	conn, err := h.Connections.Send(ctx, senderID, receiverID)
	if err != nil {
		return failFrom(c, err)
	}
	return c.JSON(http.StatusCreated, conn)
}

// Accept moves a PENDING request addressed to the caller to ACCEPTED.
func (h *ConnectionHandler) Accept(c echo.Context) error {
	return h.transition(c, h.Connections.Accept)
}

// Reject moves a PENDING request addressed to the caller to REJECTED.
func (h *ConnectionHandler) Reject(c echo.Context) error {
	return h.transition(c, h.Connections.Reject)
}

// Cancel deletes a PENDING request the caller sent.
func (h *ConnectionHandler) Cancel(c echo.Context) error {
	userID, err := authUserID(c)
	if err != nil {
		return Fail(c, http.StatusUnauthorized, "unauthorized")
	}
	connID, err := pathID(c, "id")
	if err != nil {
		return Fail(c, http.StatusBadRequest, err.Error())
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	if err := h.Connections.Cancel(ctx, connID, userID); err != nil {
		return failFrom(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *ConnectionHandler) transition(c echo.Context, op func(ctx context.Context, connID, userID uint64) error) error {
	userID, err := authUserID(c)
	if err != nil {
		return Fail(c, http.StatusUnauthorized, "unauthorized")
	}
	connID, err := pathID(c, "id")
	if err != nil {
		return Fail(c, http.StatusBadRequest, err.Error())
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	if err := op(ctx, connID, userID); err != nil {
		return failFrom(c, err)
	}
	return c.NoContent(http.StatusOK)
}

// PendingReceived lists PENDING requests addressed to the caller.
func (h *ConnectionHandler) PendingReceived(c echo.Context) error {
	return h.list(c, h.Connections.PendingReceived)
}

// PendingSent lists PENDING requests the caller sent.
func (h *ConnectionHandler) PendingSent(c echo.Context) error {
	return h.list(c, h.Connections.PendingSent)
}

// Accepted lists the caller's ACCEPTED connections, either direction.
func (h *ConnectionHandler) Accepted(c echo.Context) error {
	return h.list(c, h.Connections.Accepted)
}

func (h *ConnectionHandler) list(c echo.Context, op func(ctx context.Context, userID uint64) ([]model.Connection, error)) error {
	userID, err := authUserID(c)
	if err != nil {
		return Fail(c, http.StatusUnauthorized, "unauthorized")
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	rows, err := op(ctx, userID)
	if err != nil {
		return failFrom(c, err)
	}
	return c.JSON(http.StatusOK, rows)
}
