package handler_test

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/openalum/alumnet-backend/internal/config"
	"github.com/openalum/alumnet-backend/internal/database"
	"github.com/openalum/alumnet-backend/internal/handler"
	"github.com/openalum/alumnet-backend/internal/repository"
	"github.com/openalum/alumnet-backend/internal/router"
	"github.com/openalum/alumnet-backend/internal/ws"
)

const (
	testJWTSecret   = "test-secret"
	testAdminSecret = "admin-secret"
)

type testEnv struct {
	e             *echo.Echo
	db            *gorm.DB
	notifications *handler.NotificationHandler
}

// newTestEnv stands up the full route table against an in-memory sqlite
// database.  Redis is absent, so rate limiting and caching pass through;
// the queue publisher is stubbed out by individual tests as needed.
func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", name)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("raw db: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	if err := database.Migrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	cfg := config.Config{
		Env:          "test",
		JWTSecret:    testJWTSecret,
		AccessTTLMin: 15,
		BcryptCost:   4,
		AdminSecret:  testAdminSecret,
	}

	users := repository.NewUserRepo(db)
	hub := ws.NewHub()
	notifications := handler.NewNotificationHandler(repository.NewNotificationRepo(db))
	groups := repository.NewGroupRepo(db)

	e := echo.New()
	router.Register(e, router.Handlers{
		Auth:          handler.NewAuthHandler(cfg, users),
		Connections:   handler.NewConnectionHandler(repository.NewConnectionRepo(db)),
		Chats:         handler.NewChatHandler(repository.NewChatRepo(db)),
		Groups:        handler.NewGroupChatHandler(groups),
		GroupMessages: handler.NewGroupMessageHandler(repository.NewGroupMessageRepo(db), hub),
		GroupReads:    handler.NewGroupReadHandler(repository.NewGroupReadRepo(db), groups),
		JobPosts:      handler.NewJobPostHandler(repository.NewJobPostRepo(db)),
		Notifications: notifications,
		Search:        handler.NewSearchHandler(users),
		WS:            handler.NewWSHandler(cfg.JWTSecret, groups, hub),
	}, cfg.JWTSecret, nil)

	return &testEnv{e: e, db: db, notifications: notifications}
}

// do runs one request through the router.  body may be any JSON-encodable
// value or nil; token (when set) rides in the Authorization header.
func (env *testEnv) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader *strings.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		reader = strings.NewReader(string(b))
	} else {
		reader = strings.NewReader("")
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	if token != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	env.e.ServeHTTP(rec, req)
	return rec
}

// doWithHeader is do plus one extra request header.
func (env *testEnv) doWithHeader(t *testing.T, method, path string, body any, header, value string) *httptest.ResponseRecorder {
	t.Helper()
	b, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("marshal body: %v", err)
	}
	req := httptest.NewRequest(method, path, strings.NewReader(string(b)))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	req.Header.Set(header, value)
	rec := httptest.NewRecorder()
	env.e.ServeHTTP(rec, req)
	return rec
}

// register creates an account through the public endpoint.
func (env *testEnv) register(t *testing.T, username, role string) uint64 {
	t.Helper()
	rec := env.do(t, http.MethodPost, "/api/auth/register", "", map[string]any{
		"username": username,
		"name":     username + " example",
		"email":    username + "@example.edu",
		"password": "s3cret!",
		"role":     role,
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("register %s: status %d body %s", username, rec.Code, rec.Body.String())
	}
	var resp struct {
		ID uint64 `json:"id"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode register response: %v", err)
	}
	return resp.ID
}

// login returns an access token for a previously registered account.
func (env *testEnv) login(t *testing.T, username string) string {
	t.Helper()
	rec := env.do(t, http.MethodPost, "/api/auth/login", "", map[string]any{
		"identifier": username,
		"password":   "s3cret!",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("login %s: status %d body %s", username, rec.Code, rec.Body.String())
	}
	var resp struct {
		Token string `json:"token"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode login response: %v", err)
	}
	return resp.Token
}

// signup registers and logs a user in.
func (env *testEnv) signup(t *testing.T, username string) (uint64, string) {
	t.Helper()
	id := env.register(t, username, "STUDENT")
	return id, env.login(t, username)
}

// decode unmarshals the recorder body into out.
func decode(t *testing.T, rec *httptest.ResponseRecorder, out any) {
	t.Helper()
	if err := json.Unmarshal(rec.Body.Bytes(), out); err != nil {
		t.Fatalf("decode %q: %v", rec.Body.String(), err)
	}
}
