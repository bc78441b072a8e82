package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/openalum/alumnet-backend/internal/repository"
)

// GroupReadHandler serves per-user read receipts in group chats.
type GroupReadHandler struct {
	Reads  *repository.GroupReadRepo
	Groups *repository.GroupRepo
}

func NewGroupReadHandler(reads *repository.GroupReadRepo, groups *repository.GroupRepo) *GroupReadHandler {
	return &GroupReadHandler{Reads: reads, Groups: groups}
}

type updateReadReq struct {
	LastReadMessageID uint64 `json:"last_read_message_id"`
}

type readStateResp struct {
	GroupID           uint64  `json:"group_id"`
	LastReadMessageID *uint64 `json:"last_read_message_id"`
}

// Update advances the caller's read pointer.  A stale value is ignored; the
// stored pointer never moves backwards.
func (h *GroupReadHandler) Update(c echo.Context) error {
	userID, err := authUserID(c)
	if err != nil {
		return Fail(c, http.StatusUnauthorized, "unauthorized")
	}
	groupID, err := pathID(c, "id")
	if err != nil {
		return Fail(c, http.StatusBadRequest, err.Error())
	}
	var req updateReadReq
	if err := c.Bind(&req); err != nil || req.LastReadMessageID == 0 {
		return Fail(c, http.StatusBadRequest, "last_read_message_id is required")
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	if err := h.Groups.RequireMember(ctx, groupID, userID); err != nil {
		return failFrom(c, err)
	}
	current, err := h.Reads.UpdateLastRead(ctx, groupID, userID, req.LastReadMessageID)
	if err != nil {
		return failFrom(c, err)
	}
	return c.JSON(http.StatusOK, readStateResp{GroupID: groupID, LastReadMessageID: &current})
}

// Get returns the caller's read pointer, null if nothing was read yet.
func (h *GroupReadHandler) Get(c echo.Context) error {
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

	if err := h.Groups.RequireMember(ctx, groupID, userID); err != nil {
		return failFrom(c, err)
	}
	last, ok, err := h.Reads.LastRead(ctx, groupID, userID)
	if err != nil {
		return failFrom(c, err)
	}
	resp := readStateResp{GroupID: groupID}
	if ok {
		resp.LastReadMessageID = &last
	}
	return c.JSON(http.StatusOK, resp)
}
