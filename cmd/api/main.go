package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/vaitahavya/morandi-sub002/internal/auth"
	"github.com/vaitahavya/morandi-sub002/internal/config"
	"github.com/vaitahavya/morandi-sub002/internal/events"
	"github.com/vaitahavya/morandi-sub002/internal/handler"
	"github.com/vaitahavya/morandi-sub002/internal/model"
	"github.com/vaitahavya/morandi-sub002/internal/repository"
	"github.com/vaitahavya/morandi-sub002/internal/service"
	"github.com/vaitahavya/morandi-sub002/internal/tracing"
	"github.com/vaitahavya/morandi-sub002/internal/validator"
	"github.com/vaitahavya/morandi-sub002/pkg/database"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	initLogger(cfg)

	if cfg.Auth.UsesDefaultSecret() {
		log.Warn().Str("env", cfg.Server.Env).Msg("JWT_SECRET is not set; tokens are signed with the public development key")
	}

	ctx := context.Background()

	shutdownTracing, err := tracing.Init(ctx, cfg.Tracing.Enabled, cfg.Tracing.ServiceName)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize tracing")
	}

	pool, err := database.NewPool(ctx, cfg.DB.DSN(), cfg.DB.MaxRetries)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}

	if cfg.DB.Migrate {
		if err := database.Migrate(ctx, pool); err != nil {
			log.Fatal().Err(err).Msg("failed to apply migrations")
		}
		log.Info().Msg("database schema up to date")
	}

	var publisher events.Publisher = events.NopPublisher{}
	var kafka *events.KafkaPublisher
	if cfg.Kafka.Enabled() {
		kafka, err = events.NewKafkaPublisher(cfg.Kafka.Brokers, cfg.Kafka.Topic)
		if err != nil {
			log.Fatal().Err(err).Strs("brokers", cfg.Kafka.Brokers).Msg("failed to connect to kafka")
		}
		publisher = kafka
		log.Info().Strs("brokers", cfg.Kafka.Brokers).Str("topic", cfg.Kafka.Topic).Msg("event publishing enabled")
	}

	validate := validator.New()
	tokens := auth.NewTokenManager(cfg.Auth.JWTSecret, time.Duration(cfg.Auth.JWTTTLHours)*time.Hour)

	shippingRepo := repository.NewShippingRateRepository(pool)
	couponRepo := repository.NewCouponRepository(pool)
	productRepo := repository.NewProductRepository(pool)
	txnRepo := repository.NewInventoryTransactionRepository(pool)
	userRepo := repository.NewUserRepository(pool)

	shippingService := service.NewShippingService(shippingRepo)
	couponService := service.NewCouponService(pool, couponRepo, publisher)
	productService := service.NewProductService(productRepo, cfg.Inventory.LowStockThreshold)
	inventoryService := service.NewInventoryService(pool, productRepo, txnRepo, publisher, cfg.Inventory.LowStockThreshold)
	authService := service.NewAuthService(userRepo, tokens)

	if cfg.Auth.AdminEmail != "" && cfg.Auth.AdminPassword != "" {
		created, err := authService.EnsureUser(ctx, cfg.Auth.AdminEmail, cfg.Auth.AdminPassword, model.RoleAdmin)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to bootstrap admin user")
		}
		if created {
			log.Info().Str("email", cfg.Auth.AdminEmail).Msg("admin user created")
		}
	}

	app := fiber.New(fiber.Config{
		AppName:      "Morandi Storefront API",
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
		BodyLimit:    1 * 1024 * 1024,
	})

	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(logger.New())
	app.Use(tracing.Middleware())

	handler.RegisterRoutes(app, handler.Handlers{
		Health:    handler.NewHealthHandler(pool, cfg.Tracing.ServiceName),
		Auth:      handler.NewAuthHandler(authService, validate),
		Shipping:  handler.NewShippingHandler(shippingService, validate),
		Coupon:    handler.NewCouponHandler(couponService, validate),
		Inventory: handler.NewInventoryHandler(inventoryService, productService, validate),
		Product:   handler.NewProductHandler(productService, validate),
	}, tokens)

	go func() {
		log.Info().Str("port", cfg.Server.Port).Msg("starting server")
		if err := app.Listen(":" + cfg.Server.Port); err != nil {
			log.Fatal().Err(err).Msg("failed to start server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit

	log.Info().Str("signal", sig.String()).Msg("received shutdown signal")
	log.Info().Int("timeout_seconds", cfg.Server.ShutdownTimeout).Msg("shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(
		context.Background(),
		time.Duration(cfg.Server.ShutdownTimeout)*time.Second,
	)
	defer shutdownCancel()

	// Wait for in-flight requests before releasing their dependencies
	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("error during server shutdown")
	}

	if kafka != nil {
		if err := kafka.Close(); err != nil {
			log.Error().Err(err).Msg("error closing kafka producer")
		}
	}

	if err := shutdownTracing(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("error flushing traces")
	}

	pool.Close()
	log.Info().Msg("server stopped")
}

// initLogger configures zerolog based on the application configuration.
func initLogger(cfg *config.Config) {
	level, err := zerolog.ParseLevel(cfg.Log.Level)
	if err != nil {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)

	if cfg.Log.Pretty {
		log.Logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout}).
			With().Timestamp().Logger()
	} else {
		zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
		log.Logger = zerolog.New(os.Stdout).With().Timestamp().Logger()
	}
}
