package handler

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/openalum/alumnet-backend/internal/repository"
)

// SearchHandler serves user lookup.
type SearchHandler struct {
	Users *repository.UserRepo
}

func NewSearchHandler(u *repository.UserRepo) *SearchHandler {
	return &SearchHandler{Users: u}
}

// UsersByQuery matches the query against usernames and display names,
// case-insensitively.
func (h *SearchHandler) UsersByQuery(c echo.Context) error {
	q := strings.TrimSpace(c.QueryParam("q"))
	if q == "" {
		return Fail(c, http.StatusBadRequest, "query is required")
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	users, err := h.Users.SearchUsers(ctx, q)
	if err != nil {
		return failFrom(c, err)
	}

	out := make([]userPart, 0, len(users))
	for i := range users {
		out = append(out, toUserPart(&users[i]))
	}
	return c.JSON(http.StatusOK, out)
}
