// Package router wires handlers onto the Echo instance.  Unauthenticated
// routes (health, auth, websocket upgrade) register separately from the
// /api group, which carries the JWT and rate-limit middleware.
package router

import (
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/openalum/alumnet-backend/internal/config"
	"github.com/openalum/alumnet-backend/internal/handler"
	"github.com/openalum/alumnet-backend/internal/middleware"
	"github.com/openalum/alumnet-backend/internal/model"
)

// Handlers collects every handler the router needs.
type Handlers struct {
	Auth          *handler.AuthHandler
	Connections   *handler.ConnectionHandler
	Chats         *handler.ChatHandler
	Groups        *handler.GroupChatHandler
	GroupMessages *handler.GroupMessageHandler
	GroupReads    *handler.GroupReadHandler
	JobPosts      *handler.JobPostHandler
	Notifications *handler.NotificationHandler
	Search        *handler.SearchHandler
	WS            *handler.WSHandler
}

// Register mounts all routes.  rdb may be nil, in which case rate limiting
// and response caching silently pass through.
func Register(e *echo.Echo, h Handlers, jwtSecret string, rdb *redis.Client) {
	e.GET("/healthz", handler.Health)

	// Token issuance; no auth required.
	auth := e.Group("/api/auth")
	auth.POST("/register", h.Auth.Register)
	auth.POST("/create-admin", h.Auth.CreateAdmin)
	auth.POST("/login", h.Auth.Login)

	// The websocket upgrade authenticates through a query-string token, so
	// it sits outside the JWT-header group.
	e.GET("/ws/group-chats/:id", h.WS.SubscribeGroup)

	api := e.Group("/api")
	api.Use(middleware.JWTAuth(jwtSecret))
	// Reject tokens carrying a role the platform does not recognize.
	api.Use(middleware.RequireRole(model.RoleStudent, model.RoleAlumni, model.RoleProfessor, model.RoleAdmin))
	api.Use(middleware.RateLimit(config.LoadRateLimitConfig(), rdb))

	// Connections.
	api.POST("/users/:id/connect", h.Connections.Send)
	api.POST("/connections/:id/accept", h.Connections.Accept)
	api.POST("/connections/:id/reject", h.Connections.Reject)
	api.POST("/connections/:id/cancel", h.Connections.Cancel)
	api.GET("/connections/pending/received", h.Connections.PendingReceived)
	api.GET("/connections/pending/sent", h.Connections.PendingSent)
	api.GET("/connections/accepted", h.Connections.Accepted)

	// Direct chat.
	api.POST("/chats/send", h.Chats.Send)
	api.GET("/chats", h.Chats.List)

	// Group chat and membership.
	api.POST("/group-chats", h.Groups.Create)
	api.GET("/group-chats/:id", h.Groups.Get)
	api.GET("/group-chats/user/:userId", h.Groups.ListForUser)
	api.POST("/group-chats/:id/participants", h.Groups.AddParticipant)
	api.DELETE("/group-chats/:id/participants/:userId", h.Groups.RemoveParticipant)

	// Group messaging.
	api.POST("/group-chats/:id/messages", h.GroupMessages.Send)
	api.GET("/group-chats/:id/messages", h.GroupMessages.List)
	api.GET("/group-chats/:id/messages/search", h.GroupMessages.Search)
	api.DELETE("/group-chats/:id/messages/:messageId", h.GroupMessages.Delete)

	// Read receipts.
	api.PUT("/group-chats/:id/read", h.GroupReads.Update)
	api.GET("/group-chats/:id/read", h.GroupReads.Get)

	// Job posts.
	api.POST("/job-posts", h.JobPosts.Create)
	api.GET("/job-posts/search", h.JobPosts.Search)
	api.GET("/job-posts/:id", h.JobPosts.Get)
	api.DELETE("/job-posts/:id", h.JobPosts.Delete)
	api.POST("/posts/:id/like", h.JobPosts.Like)
	api.POST("/posts/:id/comments", h.JobPosts.AddComment)
	api.GET("/posts/:id/comments", h.JobPosts.Comments)

	// Notifications.
	api.POST("/notifications", h.Notifications.Create)
	api.GET("/notifications", h.Notifications.List)

	// User search gets a short-lived response cache on top of the shared
	// middleware stack.
	api.GET("/users/search", h.Search.UsersByQuery,
		middleware.ResponseCache(config.LoadCacheConfig(), rdb))
}
