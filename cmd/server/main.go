package main

import (
	"context"
	"log"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/food-squad/internal/auth"
	"github.com/iliyamo/food-squad/internal/config"
	"github.com/iliyamo/food-squad/internal/database"
	"github.com/iliyamo/food-squad/internal/handler"
	"github.com/iliyamo/food-squad/internal/middleware"
	"github.com/iliyamo/food-squad/internal/queue"
	"github.com/iliyamo/food-squad/internal/repository"
	"github.com/iliyamo/food-squad/internal/router"
	"github.com/iliyamo/food-squad/internal/service"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Printf("no .env file loaded: %v", err)
	}
	cfg := config.Load()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database: %v", err)
	}

	userRepo := repository.NewUserRepo(db)
	sessionRepo := repository.NewSessionRepo(db, cfg.AccessTTLMin, cfg.RefreshTTLDays)
	menuRepo := repository.NewMenuItemRepo(db)
	orderRepo := repository.NewOrderRepo(db)
	reviewRepo := repository.NewReviewRepo(db)
	purgeRepo := repository.NewPurgeRepo(db)

	issuer := auth.NewIssuer(cfg.JWTSecret, cfg.AccessTTLMin, cfg.RefreshTTLDays)
	userCtx := service.NewUserContext(userRepo)

	authSvc := service.NewAuthService(userRepo, sessionRepo, issuer, cfg.BcryptCost)
	userSvc := service.NewUserService(userRepo, orderRepo, userCtx,
		func(ctx context.Context) (service.PurgeTx, error) { return purgeRepo.Begin(ctx) })
	menuSvc := service.NewMenuItemService(menuRepo, userCtx)
	orderSvc := service.NewOrderService(orderRepo, menuRepo, userCtx)
	reviewSvc := service.NewReviewService(reviewRepo, menuRepo, userCtx)

	e := echo.New()
	e.HideBanner = true
	e.Use(middleware.Authenticator(issuer, sessionRepo, router.PublicPrefixes...))

	rdb := config.NewRedisClient()
	if rdb == nil {
		log.Printf("redis unavailable; response cache and rate limiting disabled")
	}
	e.Use(middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb))
	e.Use(middleware.NewRedisCache(config.LoadCacheConfig(), rdb))

	router.Register(e, router.Handlers{
		Auth:    handler.NewAuthHandler(authSvc, issuer.RefreshTTL()),
		Users:   handler.NewUserHandler(userSvc),
		Menu:    handler.NewMenuItemHandler(menuSvc),
		Orders:  handler.NewOrderHandler(orderSvc),
		Reviews: handler.NewReviewHandler(reviewSvc),
	})

	go queue.StartNotificationConsumer(queue.OrderPlacedQueue)
	go queue.StartNotificationConsumer(queue.UserDeletedQueue)

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)
	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
