package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"

	"github.com/linkmark/api/bookmarks"
	"github.com/linkmark/api/bookmarks/feed"
	"github.com/linkmark/api/bookmarks/handlers"
	"github.com/linkmark/api/bookmarks/repository"
	"github.com/linkmark/api/bookmarks/services"
	"github.com/linkmark/api/internal/database/postgres"
	"github.com/linkmark/api/internal/middleware/requestid"
	platformconfig "github.com/linkmark/api/internal/platform/config"
)

func main() {
	cfg, err := platformconfig.LoadFromEnv()
	if err != nil {
		log.Fatalf("Failed to load platform config: %v", err)
	}

	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
			}
			// If the handler already wrote a response, don't override it.
			if len(c.Response().Body()) > 0 {
				return nil
			}
			return c.Status(code).JSON(fiber.Map{
				"error": err.Error(),
			})
		},
	})

	app.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.Server.WebDomain,
		AllowCredentials: true,
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
		AllowMethods:     "GET, POST, PUT, DELETE, PATCH, OPTIONS",
	}))
	app.Use(requestid.New())

	ctx := context.Background()

	pgClient, err := postgres.NewClient(ctx, &cfg.Database.Postgres)
	if err != nil {
		log.Fatalf("Failed to create postgres client: %v", err)
	}
	defer pgClient.Close()

	changeFeed, err := feed.NewRedisFeed(&cfg.Redis)
	if err != nil {
		log.Fatalf("Failed to connect change feed: %v", err)
	}
	defer changeFeed.Close()

	repo := repository.NewPostgresRepository(pgClient)
	service := services.NewService(repo, changeFeed)

	bookmarkHandlers := &bookmarks.Handlers{
		BookmarkHandler: handlers.NewBookmarkHandler(service),
	}
	bookmarks.RegisterRoutes(app, bookmarkHandlers, cfg)

	app.Get("/healthz", func(c *fiber.Ctx) error {
		if err := pgClient.HealthCheck(c.Context()); err != nil {
			return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"status": "unhealthy"})
		}
		return c.JSON(fiber.Map{"status": "ok"})
	})

	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		<-quit
		if err := app.Shutdown(); err != nil {
			log.Printf("Server shutdown error: %v", err)
		}
	}()

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	if err := app.Listen(addr); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}
