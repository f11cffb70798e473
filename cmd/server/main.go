package main

import (
	"log"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	"github.com/contactshub/contacts-api/internal/config"
	"github.com/contactshub/contacts-api/internal/database"
	"github.com/contactshub/contacts-api/internal/handler"
	"github.com/contactshub/contacts-api/internal/middleware"
	"github.com/contactshub/contacts-api/internal/repository"
	"github.com/contactshub/contacts-api/internal/router"
)

func main() {
	_ = godotenv.Load() // optional .env for local development
	cfg := config.Load()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	// Redis backs the rate limiter and the per-user response cache. A nil
	// client disables both without affecting the rest of the service.
	rdb := config.NewRedisClient()
	if rdb == nil {
		log.Print("redis unavailable; cache and rate limiting disabled")
	}
	cacheCfg := config.LoadCacheConfig()
	rlCfg := config.LoadRateLimitConfig()

	users := repository.NewUserRepo(db)
	contacts := repository.NewContactRepo(db)

	authHandler := handler.NewAuthHandler(cfg, users)
	contactHandler := handler.NewContactHandler(contacts, rdb, cacheCfg)

	authGate := middleware.Auth(cfg.JWTSecret, users)
	limiter := middleware.NewTokenBucket(rlCfg, rdb)
	cache := middleware.NewRedisCache(cacheCfg, rdb)

	e := echo.New()
	e.Use(echomw.Recover())
	if cfg.Env != "prod" {
		e.Use(echomw.Logger())
	}

	router.RegisterRoutes(e)
	router.RegisterUsers(e, authHandler, authGate, limiter, cfg.AvatarDir)
	router.RegisterContacts(e, contactHandler, authGate, cache)

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)

	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
