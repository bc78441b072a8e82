package handler

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/openalum/alumnet-backend/internal/repository"
)

// GroupChatHandler serves group creation and membership management.
type GroupChatHandler struct {
	Groups *repository.GroupRepo
}

func NewGroupChatHandler(r *repository.GroupRepo) *GroupChatHandler {
	return &GroupChatHandler{Groups: r}
}

type createGroupReq struct {
	Name         string   `json:"name"`
	Participants []uint64 `json:"participants"`
}

type addParticipantReq struct {
	UserID uint64 `json:"user_id"`
}

// Create makes a new group owned by the caller.  The caller must appear in
// the participant list; everyone else joins as MEMBER.
func (h *GroupChatHandler) Create(c echo.Context) error {
	ownerID, err := authUserID(c)
	if err != nil {
		return Fail(c, http.StatusUnauthorized, "unauthorized")
	}
	var req createGroupReq
	if err := c.Bind(&req); err != nil {
		return Fail(c, http.StatusBadRequest, "invalid body")
	}
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		return Fail(c, http.StatusBadRequest, "group name is required")
	}
	if len(req.Participants) == 0 {
		return Fail(c, http.StatusBadRequest, "participants are required")
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	g, err := h.Groups.Create(ctx, req.Name, ownerID, req.Participants)
	if err != nil {
		return failFrom(c, err)
	}
	return c.JSON(http.StatusCreated, g)
}

// Get returns a group with its participants.
func (h *GroupChatHandler) Get(c echo.Context) error {
	groupID, err := pathID(c, "id")
	if err != nil {
		return Fail(c, http.StatusBadRequest, err.Error())
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	g, err := h.Groups.GetByID(ctx, groupID)
	if err != nil {
		return failFrom(c, err)
	}
	return c.JSON(http.StatusOK, g)
}

// ListForUser returns every group the given user belongs to.
func (h *GroupChatHandler) ListForUser(c echo.Context) error {
	userID, err := pathID(c, "userId")
	if err != nil {
		return Fail(c, http.StatusBadRequest, err.Error())
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	groups, err := h.Groups.GroupsForUser(ctx, userID)
	if err != nil {
		return failFrom(c, err)
	}
	return c.JSON(http.StatusOK, groups)
}

// AddParticipant adds a user as MEMBER.  The caller must hold OWNER or
// ADMIN in the group.
func (h *GroupChatHandler) AddParticipant(c echo.Context) error {
	actorID, err := authUserID(c)
	if err != nil {
		return Fail(c, http.StatusUnauthorized, "unauthorized")
	}
	groupID, err := pathID(c, "id")
	if err != nil {
		return Fail(c, http.StatusBadRequest, err.Error())
	}
	var req addParticipantReq
	if err := c.Bind(&req); err != nil || req.UserID == 0 {
		return Fail(c, http.StatusBadRequest, "user_id is required")
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	p, err := h.Groups.AddParticipant(ctx, groupID, actorID, req.UserID)
	if err != nil {
		return failFrom(c, err)
	}
	return c.JSON(http.StatusCreated, p)
}

// RemoveParticipant removes a member.  Same role gate as AddParticipant;
// the OWNER row can never be removed, nor can the caller remove themselves
// through this endpoint.
func (h *GroupChatHandler) RemoveParticipant(c echo.Context) error {
	actorID, err := authUserID(c)
	if err != nil {
		return Fail(c, http.StatusUnauthorized, "unauthorized")
	}
	groupID, err := pathID(c, "id")
	if err != nil {
		return Fail(c, http.StatusBadRequest, err.Error())
	}
	targetID, err := pathID(c, "userId")
	if err != nil {
		return Fail(c, http.StatusBadRequest, err.Error())
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	if err := h.Groups.RemoveParticipant(ctx, groupID, actorID, targetID); err != nil {
		return failFrom(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}
