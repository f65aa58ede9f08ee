package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"art-gallery-paywall/internal/config"
	"art-gallery-paywall/internal/infra/api"
	pg "art-gallery-paywall/internal/infra/db/postgres"
	"art-gallery-paywall/internal/infra/logging"
	"art-gallery-paywall/internal/infra/metrics"
	"art-gallery-paywall/internal/infra/payment"
	red "art-gallery-paywall/internal/infra/redis"
	"art-gallery-paywall/internal/infra/sched"
	"art-gallery-paywall/internal/usecase"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// ---- CLI flags ----
	cfgPath := flag.String("config", "config.yaml", "path to YAML config file")
	devMode := flag.Bool("dev", false, "enable developer mode (console logging)")
	flag.Parse()

	cfg, err := config.LoadConfig(*cfgPath, *devMode)
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	logger := logging.New(cfg.Log, cfg.Runtime.Dev)
	if cfg.Runtime.Dev {
		logger.Info().Msg("[DEV MODE] Enabled")
	}

	metrics.MustRegister()

	// ---- Postgres ----
	pool, err := pg.NewPgxPool(ctx, cfg.Database.URL, 10)
	if err != nil {
		log.Fatalf("postgres: %v", err)
	}
	defer pool.Close()

	// ---- Redis ----
	redisClient, err := red.NewClient(ctx, &cfg.Redis)
	if err != nil {
		log.Fatalf("redis: %v", err)
	}
	defer redisClient.Close()
	rateLimiter := red.NewRateLimiter(redisClient)

	// ---- Repositories ----
	artworkRepo := pg.NewArtworkRepoCacheDecorator(pg.NewArtworkRepo(pool), redisClient, cfg.Redis.PriceTTL)
	purchaseRepo := pg.NewPurchaseRepo(pool)
	subRepo := pg.NewSubscriptionRepo(pool)
	eventRepo := pg.NewWebhookEventRepo(pool)
	txManager := pg.NewTxManager(pool)

	// ---- Payment gateway ----
	gateway, err := payment.NewStripeGateway(cfg.Stripe.SecretKey)
	if err != nil {
		log.Fatalf("stripe: %v", err)
	}

	// ---- Use cases ----
	pricingUC := usecase.NewPricingUseCase(artworkRepo, cfg.Stripe.Currency, logger)
	intentUC := usecase.NewIntentUseCase(pricingUC, gateway, cfg.Stripe.Currency, 15*time.Second, logger)
	webhookUC := usecase.NewWebhookUseCase(purchaseRepo, subRepo, eventRepo, txManager, logger)
	entitlementUC := usecase.NewEntitlementUseCase(purchaseRepo, subRepo, logger)

	// ---- HTTP server ----
	handler := api.NewHandler(
		intentUC,
		webhookUC,
		entitlementUC,
		artworkRepo,
		rateLimiter,
		cfg.RateLimit.IntentPerMinute,
		cfg.Stripe.WebhookSecret,
		logger,
	)
	server := api.NewServer(fmt.Sprintf(":%d", cfg.Server.Port), handler, cfg.Server.AllowedOrigins, cfg.Auth.JWTSecret, logger)
	go func() {
		if err := server.Start(); err != nil {
			logger.Error().Err(err).Msg("http server error")
			cancel()
		}
	}()

	// ---- Expiry worker ----
	worker := sched.NewExpiryWorker(cfg.Scheduler.ExpiryInterval, subRepo, logger)
	go func() { _ = worker.Run(ctx) }()

	// ---- Graceful shutdown ----
	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, syscall.SIGINT, syscall.SIGTERM)
	select {
	case <-sigc:
		logger.Info().Msg("shutdown requested")
	case <-ctx.Done():
	}
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("shutdown error")
	}
}
