package main // Entry point package

import (
	"log" // Logging library

	"github.com/joho/godotenv"    // .env loading for local development
	"github.com/labstack/echo/v4" // Echo web framework

	"github.com/akhmetov/bookstore-api/internal/config"
	"github.com/akhmetov/bookstore-api/internal/database"
	"github.com/akhmetov/bookstore-api/internal/handler"
	"github.com/akhmetov/bookstore-api/internal/middleware"
	"github.com/akhmetov/bookstore-api/internal/queue"
	"github.com/akhmetov/bookstore-api/internal/repository"
	"github.com/akhmetov/bookstore-api/internal/router"
	queue_publisher "github.com/akhmetov/bookstore-api/internal/service"
)

func main() {
	// Load .env if present; real deployments set the environment directly.
	_ = godotenv.Load()

	cfg := config.Load()

	db, err := database.Open(cfg)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	users := repository.NewUserRepo(db)
	books := repository.NewBookRepo(db)

	// Redis is optional: a nil client disables rate limiting and caching.
	rdb := config.NewRedisClient()
	if rdb == nil {
		log.Printf("redis unavailable; rate limiting and caching disabled")
	}
	limiter := middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb)
	cache := middleware.NewRedisCache(config.LoadCacheConfig(), rdb)

	audit := queue_publisher.New("")

	// Audit consumer runs for the lifetime of the process and reconnects
	// on broker failures; it never brings the server down.
	go func() {
		if err := queue.StartAuditConsumer(); err != nil {
			log.Printf("audit consumer stopped: %v", err)
		}
	}()

	e := echo.New()
	router.RegisterRoutes(e)
	router.RegisterUsers(e, handler.NewAuthHandler(cfg, users, audit), cfg.JWTSecret, users, limiter)
	router.RegisterBooks(e, handler.NewBookHandler(books, audit), cfg.JWTSecret, users, cache)

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)

	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
