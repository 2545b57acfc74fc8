package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/rs/zerolog"

	"github.com/coinledger/backend/internal/cache"
	"github.com/coinledger/backend/internal/config"
	"github.com/coinledger/backend/internal/handler"
	"github.com/coinledger/backend/internal/middleware"
	"github.com/coinledger/backend/internal/repository"
	"github.com/coinledger/backend/internal/service"
)

func main() {
	log := zerolog.New(os.Stderr).With().Timestamp().Logger()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}

	// Connect to database
	repo, err := repository.New(cfg.Database.DSN())
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer repo.Close()

	// Connect the look-aside cache. A dead cache is non-fatal; every path
	// degrades to the store.
	redisCache := cache.New(cfg.Redis, log)
	defer redisCache.Close()

	pingCtx, cancelPing := context.WithTimeout(context.Background(), 3*time.Second)
	if err := redisCache.Ping(pingCtx); err != nil {
		log.Warn().Err(err).Msg("cache unavailable, serving from store only")
	}
	cancelPing()

	// Create services
	userSvc := service.NewUserService(repo, redisCache, cfg)
	rewardSvc := service.NewRewardService(repo, redisCache, cfg)
	sessionSvc := service.NewSessionService(repo, redisCache, cfg)
	premiumSvc := service.NewPremiumService(repo, redisCache, cfg)
	paymentSvc := service.NewPaymentService(repo, redisCache, premiumSvc, cfg)
	statsSvc := service.NewStatsService(repo)

	// Create handlers
	h := handler.New(cfg, userSvc, rewardSvc, sessionSvc, premiumSvc, paymentSvc, statsSvc, log)

	// Create Fiber app
	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
			}
			return c.Status(code).JSON(fiber.Map{
				"error": err.Error(),
			})
		},
	})

	// Middleware
	app.Use(recover.New())
	app.Use(logger.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: cfg.Server.AllowOrigins,
		AllowHeaders: "Origin, Content-Type, Accept, X-Admin-Key",
	}))

	// Health check
	app.Get("/health", h.Health)
	app.Get("/internal/health", h.Health)

	// User identity
	api := app.Group("/api")
	api.Get("/user/device/:device_id", h.GetUserByDevice)
	api.Post("/profile", h.CreateOrUpdateProfile)
	api.Post("/register-device", h.RegisterDevice)

	// Rewards
	api.Post("/submit-review", h.SubmitReview)
	api.Post("/share-app", h.ShareApp)
	api.Get("/shares", h.GetShareHistory)

	// Sessions
	api.Post("/session/start", h.StartSession)
	api.Post("/session/end", h.EndSession)

	// Premium and pricing
	api.Get("/pricing", h.GetPricing)
	api.Get("/plans", h.ListPlans)
	api.Get("/premium/status/:device_id", h.GetPremiumStatus)

	// Payments
	api.Post("/payment/intent", h.CreatePaymentIntent)
	api.Get("/payment/intent/:id", h.GetPaymentIntent)

	// Admin surface
	admin := app.Group("/api/admin", middleware.AdminAuth(cfg.Server.AdminKey))
	admin.Post("/activate-premium", h.ActivatePremium)
	admin.Post("/update-price", h.UpdatePricing)
	admin.Post("/payment/approve", h.ApprovePayment)
	admin.Get("/stats", h.GetStats)

	// Internal endpoints (for cron jobs)
	internal := app.Group("/internal")
	internal.Post("/cron/autoclose", h.AutoCloseSessions)

	// Start background jobs
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	autoCloseWorker := service.NewAutoCloseWorker(sessionSvc, cfg.Sessions.SweepInterval, log)
	go autoCloseWorker.Start(ctx)

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-quit
		log.Info().Msg("shutting down server")
		cancel()
		_ = app.Shutdown()
	}()

	// Start server
	log.Info().Str("port", cfg.Server.Port).Msg("server starting")
	if err := app.Listen(":" + cfg.Server.Port); err != nil {
		log.Fatal().Err(err).Msg("failed to start server")
	}
}
