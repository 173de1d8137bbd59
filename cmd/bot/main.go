package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/Freeeeeet/turf_bot/internal/app"
	"github.com/Freeeeeet/turf_bot/internal/cache"
	"github.com/Freeeeeet/turf_bot/internal/config"
	"github.com/Freeeeeet/turf_bot/internal/controller"
	"github.com/Freeeeeet/turf_bot/internal/repository"
	"github.com/Freeeeeet/turf_bot/internal/service"
	"github.com/Freeeeeet/turf_bot/internal/webhook"
	"github.com/go-telegram/bot"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stripe/stripe-go/v82"
	"go.uber.org/zap"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger := app.NewLogger(cfg.Environment, cfg.LogLevel)
	defer logger.Sync()

	logger.Info("Starting turf bot",
		zap.String("environment", cfg.Environment),
		zap.String("venue", cfg.Venue.Name),
		zap.String("timezone", cfg.Timezone))

	if err := run(ctx, cfg, logger); err != nil {
		logger.Fatal("Bot stopped with error", zap.Error(err))
	}
	logger.Info("Bot stopped")
}

func run(ctx context.Context, cfg *config.Config, logger *zap.Logger) error {
	pool, err := pgxpool.New(ctx, cfg.GetDBDSN())
	if err != nil {
		return err
	}
	defer pool.Close()

	if err := pool.Ping(ctx); err != nil {
		return err
	}
	logger.Info("✅ Connected to database")

	migrator, err := app.NewMigrator(pool, cfg.MigrationsPath, logger)
	if err != nil {
		return err
	}
	defer migrator.Close()
	if err := migrator.Run(ctx); err != nil {
		return err
	}

	// Redis is optional; without it availability is read straight from Postgres
	var availabilityCache service.AvailabilityCache
	if cfg.RedisAddr != "" {
		client := cache.NewClient(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		defer client.Close()

		pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
		err := client.Ping(pingCtx).Err()
		cancel()
		if err != nil {
			logger.Warn("Redis unavailable, availability cache disabled", zap.Error(err))
		} else {
			availabilityCache = cache.NewAvailability(client, cfg.AvailabilityCacheTTL)
			logger.Info("✅ Connected to Redis")
		}
	}

	userRepo := repository.NewUserRepository(pool)
	bookingRepo := repository.NewBookingRepository(pool, cfg.Location)
	teamRepo := repository.NewTeamRepository(pool)
	walletRepo := repository.NewWalletRepository(pool)
	topUpRepo := repository.NewTopUpRepository(pool)

	availabilityService := service.NewAvailabilityService(bookingRepo, availabilityCache, cfg.AvailabilityTimeout, cfg.Location, logger)
	walletService := service.NewWalletService(pool, walletRepo, topUpRepo, teamRepo, logger)

	var checkout service.CheckoutSessions
	if cfg.StripeEnabled() {
		stripe.Key = cfg.StripeSecretKey
		checkout = service.NewStripeCheckout(cfg.PublicURL)
	}

	services := controller.Services{
		User:         service.NewUserService(userRepo, logger),
		Booking:      service.NewBookingService(pool, bookingRepo, teamRepo, walletService, availabilityService, cfg.SlotPrice, cfg.Location, logger),
		Availability: availabilityService,
		Team:         service.NewTeamService(pool, teamRepo, logger),
		Wallet:       walletService,
		Payment:      service.NewPaymentService(checkout, topUpRepo, teamRepo, cfg.StripeCurrency, logger),
	}

	b, err := bot.New(cfg.TelegramToken)
	if err != nil {
		return err
	}

	botController := controller.NewBotController(b, services, cfg, logger)
	if err := botController.RegisterHandlers(ctx); err != nil {
		// the menu is cosmetic, the bot still works
		logger.Warn("Failed to register command menu", zap.Error(err))
	}

	scheduler := app.NewScheduler(services.Booking, botController, logger)
	scheduler.Start(ctx)
	defer scheduler.Stop()

	var wg sync.WaitGroup
	if cfg.StripeEnabled() {
		stripeHandler := webhook.NewStripeHandler(cfg.StripeWebhookSecret, walletService, botController, logger)
		server := webhook.NewServer(cfg.WebhookAddr, webhook.NewRouter(stripeHandler), logger)

		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := server.Run(ctx); err != nil {
				logger.Error("Webhook server failed", zap.Error(err))
			}
		}()
	} else {
		logger.Info("STRIPE_SECRET_KEY not set, wallet top-ups disabled")
	}

	logger.Info("🤖 Bot is running")
	if err := botController.Start(ctx); err != nil {
		return err
	}

	wg.Wait()
	return nil
}
