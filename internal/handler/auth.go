package handler

import (
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/openalum/alumnet-backend/internal/config"
	"github.com/openalum/alumnet-backend/internal/model"
	"github.com/openalum/alumnet-backend/internal/repository"
	"github.com/openalum/alumnet-backend/internal/utils"
)

// emailRe accepts the usual local@domain.tld shape with an optional second
// level (e.g. .ac.uk).
var emailRe = regexp.MustCompile(`^[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}(\.[A-Za-z]{2,})?$`)

const minPasswordLen = 6

// AuthHandler bundles dependencies for auth endpoints.
type AuthHandler struct {
	Cfg   config.Config
	Users *repository.UserRepo
}

func NewAuthHandler(cfg config.Config, u *repository.UserRepo) *AuthHandler {
	return &AuthHandler{Cfg: cfg, Users: u}
}

// ----- DTOs -----

type registerReq struct {
	Username string `json:"username"`
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"` // STUDENT | ALUMNI | PROFESSOR
}

type loginReq struct {
	Identifier string `json:"identifier"` // email or username
	Password   string `json:"password"`
}

type userPart struct {
	ID       uint64 `json:"id"`
	Username string `json:"username"`
	Name     string `json:"name"`
	Email    string `json:"email"`
	Role     string `json:"role"`
}

type loginResp struct {
	Token   string    `json:"token"`
	Expires time.Time `json:"expires"`
	User    userPart  `json:"user"`
}

func toUserPart(u *model.User) userPart {
	return userPart{ID: u.ID, Username: u.Username, Name: u.Name, Email: u.Email, Role: string(u.Role)}
}

// Register creates a STUDENT/ALUMNI/PROFESSOR account.  ADMIN is never
// accepted here.
func (h *AuthHandler) Register(c echo.Context) error {
	return h.register(c, false)
}

// CreateAdmin creates an ADMIN account.  The caller must present the shared
// provisioning secret in the X-ADMIN-SECRET header.
func (h *AuthHandler) CreateAdmin(c echo.Context) error {
	if c.Request().Header.Get("X-ADMIN-SECRET") != h.Cfg.AdminSecret {
		return Fail(c, http.StatusForbidden, "invalid admin secret")
	}
	return h.register(c, true)
}

func (h *AuthHandler) register(c echo.Context, admin bool) error {
	var req registerReq
	if err := c.Bind(&req); err != nil {
		return Fail(c, http.StatusBadRequest, "invalid body")
	}
	req.Username = strings.TrimSpace(req.Username)
	req.Name = strings.TrimSpace(req.Name)
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))

	if req.Username == "" || req.Name == "" {
		return Fail(c, http.StatusBadRequest, "username and name are required")
	}
	if !emailRe.MatchString(req.Email) {
		return Fail(c, http.StatusBadRequest, "invalid email address")
	}
	if len(req.Password) < minPasswordLen {
		return Fail(c, http.StatusBadRequest, "password must be at least 6 characters")
	}

	role := model.RoleAdmin
	if !admin {
		role = model.UserRole(strings.ToUpper(strings.TrimSpace(req.Role)))
		if !model.ValidRegistrationRole(role) {
			return Fail(c, http.StatusBadRequest, "role must be STUDENT, ALUMNI or PROFESSOR")
		}
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	u, err := h.Users.Create(ctx, req.Username, req.Name, req.Email, req.Password, role, h.Cfg.BcryptCost)
	if err != nil {
		return failFrom(c, err)
	}
	return c.JSON(http.StatusCreated, toUserPart(u))
}

// Login authenticates by email or username and issues an access token.
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginReq
	if err := c.Bind(&req); err != nil {
		return Fail(c, http.StatusBadRequest, "invalid body")
	}
	req.Identifier = strings.TrimSpace(req.Identifier)
	if req.Identifier == "" || req.Password == "" {
		return Fail(c, http.StatusBadRequest, "identifier and password are required")
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	u, err := h.Users.GetByEmailOrUsername(ctx, req.Identifier)
	if err != nil {
		// Hide whether the account exists.
		return Fail(c, http.StatusUnauthorized, "invalid credentials")
	}
	if !utils.VerifyPassword(u.PasswordHash, req.Password) {
		return Fail(c, http.StatusUnauthorized, "invalid credentials")
	}

	tok, err := utils.NewAccessToken(h.Cfg.JWTSecret, u.ID, u.Email, u.Username, string(u.Role), h.Cfg.AccessTTLMin)
	if err != nil {
		return failFrom(c, err)
	}
	return c.JSON(http.StatusOK, loginResp{Token: tok.Token, Expires: tok.Exp, User: toUserPart(u)})
}
