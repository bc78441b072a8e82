package main

import (
	"log"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	"github.com/openalum/alumnet-backend/internal/config"
	"github.com/openalum/alumnet-backend/internal/database"
	"github.com/openalum/alumnet-backend/internal/handler"
	"github.com/openalum/alumnet-backend/internal/queue"
	"github.com/openalum/alumnet-backend/internal/repository"
	"github.com/openalum/alumnet-backend/internal/router"
	"github.com/openalum/alumnet-backend/internal/ws"
)

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	cfg := config.Load()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	if err := database.Migrate(db); err != nil {
		log.Fatalf("migrate: %v", err)
	}

	// Redis is optional: rate limiting and response caching degrade to
	// pass-through when it is absent.
	rdb := config.NewRedisClient()

	users := repository.NewUserRepo(db)
	connections := repository.NewConnectionRepo(db)
	chats := repository.NewChatRepo(db)
	groups := repository.NewGroupRepo(db)
	groupMessages := repository.NewGroupMessageRepo(db)
	groupReads := repository.NewGroupReadRepo(db)
	jobPosts := repository.NewJobPostRepo(db)
	notifications := repository.NewNotificationRepo(db)

	hub := ws.NewHub()

	e := echo.New()
	e.HideBanner = true
	e.Use(echomw.Recover())
	e.Use(echomw.Logger())

	router.Register(e, router.Handlers{
		Auth:          handler.NewAuthHandler(cfg, users),
		Connections:   handler.NewConnectionHandler(connections),
		Chats:         handler.NewChatHandler(chats),
		Groups:        handler.NewGroupChatHandler(groups),
		GroupMessages: handler.NewGroupMessageHandler(groupMessages, hub),
		GroupReads:    handler.NewGroupReadHandler(groupReads, groups),
		JobPosts:      handler.NewJobPostHandler(jobPosts),
		Notifications: handler.NewNotificationHandler(notifications),
		Search:        handler.NewSearchHandler(users),
		WS:            handler.NewWSHandler(cfg.JWTSecret, groups, hub),
	}, cfg.JWTSecret, rdb)

	// Background consumer keeps its own connection and reconnects on its
	// own schedule.
	go func() {
		if err := queue.StartNotificationConsumer(); err != nil {
			log.Printf("notification consumer stopped: %v", err)
		}
	}()

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)
	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
