package middleware // middleware provides reusable HTTP middleware for the API

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/openalum/alumnet-backend/internal/handler"
	"github.com/openalum/alumnet-backend/internal/utils"
)

// JWTAuth validates a Bearer access token and stores the decoded identity
// in the request context under the handler.Ctx* keys.  Handlers pass the
// identity into repository calls as explicit arguments; nothing downstream
// re-parses the token.
func JWTAuth(secret string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			auth := c.Request().Header.Get("Authorization")
			if !strings.HasPrefix(auth, "Bearer ") {
				return handler.Fail(c, http.StatusUnauthorized, "missing bearer token")
			}
			id, err := utils.ParseAccessToken(secret, strings.TrimPrefix(auth, "Bearer "))
			if err != nil {
				return handler.Fail(c, http.StatusUnauthorized, "invalid token")
			}
			c.Set(handler.CtxUserID, id.UserID)
			c.Set(handler.CtxUsername, id.Username)
			c.Set(handler.CtxEmail, id.Email)
			c.Set(handler.CtxRole, id.Role)
			return next(c)
		}
	}
}
