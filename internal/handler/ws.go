package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"nhooyr.io/websocket"

	"github.com/openalum/alumnet-backend/internal/repository"
	"github.com/openalum/alumnet-backend/internal/utils"
	"github.com/openalum/alumnet-backend/internal/ws"
)

// WSHandler upgrades group-chat subscriptions.  Browsers cannot set an
// Authorization header on a websocket dial, so the token rides in the
// query string and is verified before the upgrade.
type WSHandler struct {
	JWTSecret string
	Groups    *repository.GroupRepo
	Hub       *ws.Hub
}

func NewWSHandler(secret string, groups *repository.GroupRepo, hub *ws.Hub) *WSHandler {
	return &WSHandler{JWTSecret: secret, Groups: groups, Hub: hub}
}

// SubscribeGroup authenticates the caller, checks group membership, then
// upgrades the connection and parks it on the group's topic until the
// client goes away.  The socket is push-only; anything the client writes
// besides control frames is discarded.
func (h *WSHandler) SubscribeGroup(c echo.Context) error {
	token := c.QueryParam("token")
	if token == "" {
		return Fail(c, http.StatusUnauthorized, "missing token")
	}
	identity, err := utils.ParseAccessToken(h.JWTSecret, token)
	if err != nil {
		return Fail(c, http.StatusUnauthorized, "invalid token")
	}
	groupID, err := pathID(c, "id")
	if err != nil {
		return Fail(c, http.StatusBadRequest, err.Error())
	}

	ctx, cancel := reqCtx(c)
	err = h.Groups.RequireMember(ctx, groupID, identity.UserID)
	cancel()
	if err != nil {
		return failFrom(c, err)
	}

	conn, err := websocket.Accept(c.Response(), c.Request(), nil)
	if err != nil {
		// Accept already wrote the handshake failure.
		return nil
	}

	client := h.Hub.Subscribe(groupID, identity.UserID, conn)
	defer h.Hub.Unsubscribe(client)

	// CloseRead rejects inbound data frames and returns a context that
	// ends when the peer disconnects.
	readCtx := conn.CloseRead(c.Request().Context())
	<-readCtx.Done()
	return nil
}
