package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/openalum/alumnet-backend/internal/handler"
	"github.com/openalum/alumnet-backend/internal/model"
)

// RequireRole rejects requests whose authenticated role is not in the
// allowed set.  It assumes JWTAuth already ran and stored the role claim
// in the context.
func RequireRole(roles ...model.UserRole) echo.MiddlewareFunc {
	allowed := make(map[string]bool, len(roles))
	for _, r := range roles {
		allowed[string(r)] = true
	}
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			role, ok := c.Get(handler.CtxRole).(string)
			if !ok || !allowed[role] {
				return handler.Fail(c, http.StatusForbidden, "forbidden")
			}
			return next(c)
		}
	}
}
