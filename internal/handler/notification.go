package handler

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/openalum/alumnet-backend/internal/queue"
	"github.com/openalum/alumnet-backend/internal/repository"
	queue_publisher "github.com/openalum/alumnet-backend/internal/service"
)

// NotificationHandler persists notifications and announces them on the
// message queue.
type NotificationHandler struct {
	Notifications *repository.NotificationRepo
	// Publish is swappable so tests run without a broker.
	Publish func(ctx context.Context, ev queue.NotificationCreatedEvent) error
}

func NewNotificationHandler(r *repository.NotificationRepo) *NotificationHandler {
	return &NotificationHandler{
		Notifications: r,
		Publish:       queue_publisher.PublishNotificationCreated,
	}
}

type createNotificationReq struct {
	UserID      uint64  `json:"user_id"`
	Type        string  `json:"type"`
	Message     string  `json:"message"`
	ReferenceID *uint64 `json:"reference_id"`
}

// Create stores a notification for the target user and fires a
// notification.created event.  Publishing is fire-and-forget: a broker
// outage never fails the request.
func (h *NotificationHandler) Create(c echo.Context) error {
	var req createNotificationReq
	if err := c.Bind(&req); err != nil {
		return Fail(c, http.StatusBadRequest, "invalid body")
	}
	req.Type = strings.TrimSpace(req.Type)
	req.Message = strings.TrimSpace(req.Message)
	if req.UserID == 0 || req.Type == "" || req.Message == "" {
		return Fail(c, http.StatusBadRequest, "user_id, type and message are required")
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	n, err := h.Notifications.Create(ctx, req.UserID, req.Type, req.Message, req.ReferenceID)
	if err != nil {
		return failFrom(c, err)
	}

	ev := queue.NotificationCreatedEvent{
		NotificationID: n.ID,
		UserID:         n.UserID,
		Type:           n.Type,
		Message:        n.Message,
		ReferenceID:    n.ReferenceID,
		CreatedAt:      n.CreatedAt.UTC().Format(time.RFC3339),
	}
	go func() {
		pubCtx, pubCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer pubCancel()
		_ = h.Publish(pubCtx, ev)
	}()

	return c.JSON(http.StatusCreated, n)
}

// List returns the caller's notifications, newest first.
func (h *NotificationHandler) List(c echo.Context) error {
	userID, err := authUserID(c)
	if err != nil {
		return Fail(c, http.StatusUnauthorized, "unauthorized")
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	rows, err := h.Notifications.ListForUser(ctx, userID)
	if err != nil {
		return failFrom(c, err)
	}
	return c.JSON(http.StatusOK, rows)
}
