package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/deskforge/support-service/internal/api/http"
	"github.com/deskforge/support-service/internal/api/http/handlers"
	"github.com/deskforge/support-service/internal/auth"
	"github.com/deskforge/support-service/internal/config"
	"github.com/deskforge/support-service/internal/events"
	"github.com/deskforge/support-service/internal/observability"
	"github.com/deskforge/support-service/internal/persistence"
	"github.com/deskforge/support-service/internal/repository"
	"github.com/deskforge/support-service/internal/service"
	"github.com/deskforge/support-service/internal/worker"
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

	metrics := observability.NewMetrics()
	dispatcher := events.NewInMemoryDispatcher()

	pool := pg.PoolHandle()
	ticketRepo := repository.NewTicketRepository(pool)
	agentRepo := repository.NewAgentRepository(pool)
	taxonomyRepo := repository.NewTaxonomyRepository(pool)
	settingsRepo := repository.NewSettingsRepository(pool)

	taxonomyService := service.NewTaxonomyService(taxonomyRepo)
	settingsService := service.NewSettingsService(service.SettingsDependencies{
		SettingsRepo: settingsRepo,
		Redis:        redis,
		CacheTTL:     cfg.Redis.SettingsTTL(),
		BcryptCost:   cfg.Auth.BcryptCost,
		Logger:       logger,
	})
	agentService := service.NewAgentService(service.AgentDependencies{
		AgentRepo:  agentRepo,
		Dispatcher: dispatcher,
		Logger:     logger,
	})
	ticketService := service.NewTicketService(service.TicketDependencies{
		TicketRepo: ticketRepo,
		AgentRepo:  agentRepo,
		Taxonomy:   taxonomyService,
		Settings:   settingsService,
		Dispatcher: dispatcher,
		Logger:     logger,
	})
	notificationService := service.NewNotificationService(dispatcher, logger, cfg.Notification)
	worker.StartNotificationWorker(notificationService)

	tokenManager := auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.AccessTokenTTLMinutes)
	authMiddleware := auth.NewAuthMiddleware(tokenManager)
	storefrontMiddleware := auth.NewStorefrontMiddleware(settingsService)

	app := fiber.New()
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:               handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, pg, redis),
		Tickets:              handlers.NewTicketsHandler(ticketService),
		Agents:               handlers.NewAgentsHandler(agentService),
		Settings:             handlers.NewSettingsHandler(settingsService),
		Taxonomy:             handlers.NewTaxonomyHandler(taxonomyService),
		Storefront:           handlers.NewStorefrontHandler(ticketService),
		AuthMiddleware:       authMiddleware,
		StorefrontMiddleware: storefrontMiddleware,
	})

	go func() {
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	_ = app.Shutdown()
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
