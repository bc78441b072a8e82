package handler

import (
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/openalum/alumnet-backend/internal/repository"
)

// ChatHandler serves direct (one-to-one) messaging.
type ChatHandler struct {
	Chats *repository.ChatRepo
}

func NewChatHandler(r *repository.ChatRepo) *ChatHandler {
	return &ChatHandler{Chats: r}
}

type sendMessageReq struct {
	ReceiverID uint64 `json:"receiver_id"`
	Content    string `json:"content"`
}

type sendMessageResp struct {
	MessageID        uint64 `json:"message_id"`
	ChatID           uint64 `json:"chat_id"`
	SenderUsername   string `json:"sender_username"`
	ReceiverUsername string `json:"receiver_username"`
	Content          string `json:"content"`
	CreatedAt        string `json:"created_at"`
}

// Send appends a message to the caller's chat with the receiver, creating
// the chat on first contact.  The receiver's username in the response comes
// from the chat row, never from client input.
func (h *ChatHandler) Send(c echo.Context) error {
	senderID, err := authUserID(c)
	if err != nil {
		return Fail(c, http.StatusUnauthorized, "unauthorized")
	}
	var req sendMessageReq
	if err := c.Bind(&req); err != nil {
		return Fail(c, http.StatusBadRequest, "invalid body")
	}
	req.Content = strings.TrimSpace(req.Content)
	if req.ReceiverID == 0 || req.Content == "" {
		return Fail(c, http.StatusBadRequest, "receiver_id and content are required")
	}
	if req.ReceiverID == senderID {
		return Fail(c, http.StatusBadRequest, "cannot message yourself")
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	msg, chat, err := h.Chats.SendMessage(ctx, senderID, req.ReceiverID, req.Content)
	if err != nil {
		return failFrom(c, err)
	}
	return c.JSON(http.StatusCreated, sendMessageResp{
		MessageID:        msg.ID,
		ChatID:           chat.ID,
		SenderUsername:   msg.SenderUsername,
		ReceiverUsername: chat.OtherUsername(senderID),
		Content:          msg.Content,
		CreatedAt:        msg.CreatedAt.UTC().Format(time.RFC3339),
	})
}

// List returns one summary per chat of the caller, most recent activity
// first.
func (h *ChatHandler) List(c echo.Context) error {
	userID, err := authUserID(c)
	if err != nil {
		return Fail(c, http.StatusUnauthorized, "unauthorized")
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	rows, err := h.Chats.ListSummaries(ctx, userID)
	if err != nil {
		return failFrom(c, err)
	}
	return c.JSON(http.StatusOK, rows)
}
