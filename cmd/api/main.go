package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/DOUMBISSS/ged-immo-sub001/internal/api/http"
	"github.com/DOUMBISSS/ged-immo-sub001/internal/api/http/handlers"
	"github.com/DOUMBISSS/ged-immo-sub001/internal/auth"
	"github.com/DOUMBISSS/ged-immo-sub001/internal/config"
	"github.com/DOUMBISSS/ged-immo-sub001/internal/events"
	"github.com/DOUMBISSS/ged-immo-sub001/internal/observability"
	"github.com/DOUMBISSS/ged-immo-sub001/internal/persistence"
	"github.com/DOUMBISSS/ged-immo-sub001/internal/repository"
	"github.com/DOUMBISSS/ged-immo-sub001/internal/service"
	"github.com/DOUMBISSS/ged-immo-sub001/internal/session"
	"github.com/DOUMBISSS/ged-immo-sub001/internal/worker"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logger)
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

	if cfg.Postgres.RunMigrations {
		if err := persistence.RunMigrations(ctx, pg.PoolHandle(), logger); err != nil {
			logger.Fatal("failed to run migrations", zap.Error(err))
		}
	}

	redis := persistence.NewRedis(cfg.Redis, logger)
	defer redis.Close()

	pool := pg.PoolHandle()
	principalRepo := repository.NewPrincipalRepository(pool)
	operatorRepo := repository.NewOperatorRepository(pool)
	subscriptionRepo := repository.NewSubscriptionRepository(pool)
	renewalRepo := repository.NewRenewalRepository(pool)
	usageRepo := repository.NewUsageRepository(redis.Client)

	dispatcher := events.NewInMemoryDispatcher()

	sessions := session.NewManager(session.NewRealClock(), cfg.Session.Duration(), cfg.Session.WarningWindow(), dispatcher, logger)

	authService := service.NewAuthService(*cfg, service.AuthDependencies{
		PrincipalRepo: principalRepo,
		OperatorRepo:  operatorRepo,
		Sessions:      sessions,
	})
	principalService := service.NewPrincipalService(principalRepo, sessions, logger, cfg.Auth.BcryptCost)
	subscriptionService := service.NewSubscriptionService(subscriptionRepo, renewalRepo, dispatcher, logger, cfg.Subscription.DefaultTermMonths)
	entitlementService := service.NewEntitlementService(subscriptionService, usageRepo)

	notificationService := service.NewNotificationService(dispatcher, logger, cfg.Notification)
	notificationService.RegisterHandlers()

	worker.StartRenewalWorker(ctx, subscriptionService, cfg.Subscription.ActivationInterval(), logger)

	authMiddleware := auth.NewAuthMiddleware(authService.TokenManager(), sessions, principalRepo, operatorRepo)

	metrics := observability.NewMetrics()

	app := fiber.New(fiber.Config{
		AppName:               cfg.App.Name,
		DisableStartupMessage: cfg.App.Env == "production",
	})
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:         handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, pg, redis),
		Auth:           handlers.NewAuthHandler(authService),
		Entitlements:   handlers.NewEntitlementsHandler(entitlementService),
		Subscriptions:  handlers.NewSubscriptionsHandler(subscriptionService),
		Principals:     handlers.NewPrincipalsHandler(principalService),
		Usage:          handlers.NewUsageHandler(usageRepo),
		AuthMiddleware: authMiddleware,
	})

	go func() {
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	cancel()
	_ = app.Shutdown()
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
