package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/spec-kit/donation-service/internal/api/http"
	"github.com/spec-kit/donation-service/internal/api/http/handlers"
	"github.com/spec-kit/donation-service/internal/auth"
	"github.com/spec-kit/donation-service/internal/config"
	"github.com/spec-kit/donation-service/internal/events"
	"github.com/spec-kit/donation-service/internal/imagehost"
	"github.com/spec-kit/donation-service/internal/observability"
	"github.com/spec-kit/donation-service/internal/payment"
	"github.com/spec-kit/donation-service/internal/persistence"
	"github.com/spec-kit/donation-service/internal/repository"
	"github.com/spec-kit/donation-service/internal/service"
	"github.com/spec-kit/donation-service/internal/worker"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logger, cfg.App)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pg, err := persistence.NewPostgres(ctx, cfg.Postgres, logger)
	if err != nil {
		logger.Fatal("failed to connect postgres", zap.Error(err))
	}
	defer pg.Close()

	var (
		userRepo    repository.UserRepository
		requestRepo repository.DonationRequestRepository
		fundingRepo repository.FundingRepository
	)
	if pool := pg.PoolHandle(); pool != nil {
		if cfg.Postgres.RunMigrations {
			if err := persistence.RunMigrations(ctx, pool, cfg.Postgres.MigrationsDir, logger); err != nil {
				logger.Fatal("failed to run migrations", zap.Error(err))
			}
		}
		userRepo = repository.NewUserRepository(pool)
		requestRepo = repository.NewDonationRequestRepository(pool)
		fundingRepo = repository.NewFundingRepository(pool)
	} else {
		logger.Warn("using in-memory store; data is lost on restart")
		store := repository.NewMemoryStore()
		userRepo = store.Users()
		requestRepo = store.DonationRequests()
		fundingRepo = store.Fundings()
	}

	redis := persistence.NewRedis(ctx, cfg.Redis, logger)
	defer redis.Close()

	dispatcher := events.NewInMemoryDispatcher(logger)
	var (
		relay       events.EventHandler
		relayWorker *worker.RelayWorker
	)
	if redis.Enabled() {
		publisher := events.NewRedisPublisher(redis.Client, cfg.Events.Channel)
		relayWorker = worker.StartRelayWorker(ctx, publisher.Handle, cfg.Events, logger)
		relay = relayWorker.Enqueue
	}
	worker.StartNotificationWorker(service.NewNotificationService(dispatcher, relay, logger))

	tokens := auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.AccessTokenTTLMinutes)
	guard := auth.NewGuard(userRepo)

	var gateway service.PaymentGateway
	if stripeGateway := payment.NewStripeGateway(cfg.Payment.StripeSecretKey); stripeGateway != nil {
		gateway = stripeGateway
	} else {
		logger.Warn("STRIPE_SECRET_KEY not provided; payment intents disabled")
	}
	var uploader service.ImageUploader
	if imgbb := imagehost.NewImgBB(cfg.ImageHost.Endpoint, cfg.ImageHost.APIKey, cfg.ImageHost.Timeout()); imgbb != nil {
		uploader = imgbb
	} else {
		logger.Warn("IMGBB_API_KEY not provided; image uploads disabled")
	}

	userService := service.NewUserService(service.UserDependencies{
		UserRepo:   userRepo,
		Guard:      guard,
		Dispatcher: dispatcher,
		Logger:     logger,
	})
	donationService := service.NewDonationService(service.DonationDependencies{
		RequestRepo: requestRepo,
		Guard:       guard,
		Dispatcher:  dispatcher,
		Logger:      logger,
	})
	fundingService := service.NewFundingService(service.FundingDependencies{
		FundingRepo: fundingRepo,
		Guard:       guard,
		Gateway:     gateway,
		Currency:    cfg.Payment.Currency,
		Dispatcher:  dispatcher,
		Logger:      logger,
	})
	statsService := service.NewStatsService(guard, userService, donationService, fundingService)
	mediaService := service.NewMediaService(guard, uploader, logger)

	metrics := observability.NewMetrics()

	app := fiber.New(fiber.Config{AppName: cfg.App.Name})
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App)
	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:           handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, pg, redis),
		Auth:             handlers.NewAuthHandler(tokens),
		Users:            handlers.NewUsersHandler(userService),
		DonationRequests: handlers.NewDonationRequestsHandler(donationService),
		Fundings:         handlers.NewFundingsHandler(fundingService),
		Media:            handlers.NewMediaHandler(mediaService),
		Stats:            handlers.NewStatsHandler(statsService),
		AuthMiddleware:   auth.NewAuthMiddleware(tokens),
		Metrics:          metrics.Handler(),
	})

	go func() {
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	_ = app.Shutdown()
	cancel()
	if relayWorker != nil {
		<-relayWorker.Done()
	}
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
