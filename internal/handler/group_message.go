package handler

import (
	"net/http"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/labstack/echo/v4"

	"github.com/openalum/alumnet-backend/internal/model"
	"github.com/openalum/alumnet-backend/internal/repository"
	"github.com/openalum/alumnet-backend/internal/ws"
)

const (
	searchQueryMaxLen = 16
	searchDefaultSize = 20
	searchMaxSize     = 50
)

// GroupMessageHandler serves group messaging and pushes new messages to the
// group's websocket topic.
type GroupMessageHandler struct {
	Messages *repository.GroupMessageRepo
	Hub      *ws.Hub
}

func NewGroupMessageHandler(r *repository.GroupMessageRepo, hub *ws.Hub) *GroupMessageHandler {
	return &GroupMessageHandler{Messages: r, Hub: hub}
}

type groupMessageReq struct {
	Content string `json:"content"`
}

type messagePage struct {
	Messages []model.GroupMessage `json:"messages"`
	Page     int                  `json:"page"`
	Size     int                  `json:"size"`
	Total    int64                `json:"total"`
}

// Send persists a message and then broadcasts it to live subscribers.
// Persistence alone determines the response; a failed push is invisible to
// the sender.
func (h *GroupMessageHandler) Send(c echo.Context) error {
	userID, err := authUserID(c)
	if err != nil {
		return Fail(c, http.StatusUnauthorized, "unauthorized")
	}
	groupID, err := pathID(c, "id")
	if err != nil {
		return Fail(c, http.StatusBadRequest, err.Error())
	}
	var req groupMessageReq
	if err := c.Bind(&req); err != nil {
		return Fail(c, http.StatusBadRequest, "invalid body")
	}
	req.Content = strings.TrimSpace(req.Content)
	if req.Content == "" {
		return Fail(c, http.StatusBadRequest, "content is required")
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	msg, err := h.Messages.Send(ctx, groupID, userID, req.Content)
	if err != nil {
		return failFrom(c, err)
	}

	h.Hub.Broadcast(groupID, ws.Event{Type: "group.message", GroupID: groupID, Data: msg})

	return c.JSON(http.StatusCreated, msg)
}

// List returns the group's messages oldest first.  With page/size query
// params it returns one page plus metadata; without them, everything.
func (h *GroupMessageHandler) List(c echo.Context) error {
	userID, err := authUserID(c)
	if err != nil {
		return Fail(c, http.StatusUnauthorized, "unauthorized")
	}
	groupID, err := pathID(c, "id")
	if err != nil {
		return Fail(c, http.StatusBadRequest, err.Error())
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	pageStr, sizeStr := c.QueryParam("page"), c.QueryParam("size")
	if pageStr == "" && sizeStr == "" {
		msgs, err := h.Messages.List(ctx, groupID, userID)
		if err != nil {
			return failFrom(c, err)
		}
		return c.JSON(http.StatusOK, msgs)
	}

	page, err := strconv.Atoi(pageStr)
	if err != nil || page < 0 {
		return Fail(c, http.StatusBadRequest, "page must be a non-negative integer")
	}
	size, err := strconv.Atoi(sizeStr)
	if err != nil || size < 1 {
		return Fail(c, http.StatusBadRequest, "size must be a positive integer")
	}

	msgs, total, err := h.Messages.Page(ctx, groupID, userID, page, size)
	if err != nil {
		return failFrom(c, err)
	}
	return c.JSON(http.StatusOK, messagePage{Messages: msgs, Page: page, Size: size, Total: total})
}

// Search finds messages by case-insensitive substring.  The query is capped
// at 16 characters and the page size at 50.
func (h *GroupMessageHandler) Search(c echo.Context) error {
	userID, err := authUserID(c)
	if err != nil {
		return Fail(c, http.StatusUnauthorized, "unauthorized")
	}
	groupID, err := pathID(c, "id")
	if err != nil {
		return Fail(c, http.StatusBadRequest, err.Error())
	}

	q := strings.TrimSpace(c.QueryParam("q"))
	if q == "" {
		return Fail(c, http.StatusBadRequest, "query is required")
	}
	if utf8.RuneCountInString(q) > searchQueryMaxLen {
		return Fail(c, http.StatusBadRequest, "query must be at most 16 characters")
	}

	page := 0
	if s := c.QueryParam("page"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n < 0 {
			return Fail(c, http.StatusBadRequest, "page must be a non-negative integer")
		}
		page = n
	}
	size := searchDefaultSize
	if s := c.QueryParam("size"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n < 1 {
			return Fail(c, http.StatusBadRequest, "size must be a positive integer")
		}
		size = n
	}
	if size > searchMaxSize {
		size = searchMaxSize
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	msgs, total, err := h.Messages.Search(ctx, groupID, userID, q, page, size)
	if err != nil {
		return failFrom(c, err)
	}
	return c.JSON(http.StatusOK, messagePage{Messages: msgs, Page: page, Size: size, Total: total})
}

// Delete removes a message.  Only its author may delete it, and only while
// it still belongs to the group named in the path.
func (h *GroupMessageHandler) Delete(c echo.Context) error {
	userID, err := authUserID(c)
	if err != nil {
		return Fail(c, http.StatusUnauthorized, "unauthorized")
	}
	groupID, err := pathID(c, "id")
	if err != nil {
		return Fail(c, http.StatusBadRequest, err.Error())
	}
	messageID, err := pathID(c, "messageId")
	if err != nil {
		return Fail(c, http.StatusBadRequest, err.Error())
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	if err := h.Messages.Delete(ctx, groupID, messageID, userID); err != nil {
		return failFrom(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}
