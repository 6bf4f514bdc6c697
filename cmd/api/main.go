package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/spec-kit/agency-admin/internal/api/http"
	"github.com/spec-kit/agency-admin/internal/api/http/handlers"
	"github.com/spec-kit/agency-admin/internal/auth"
	"github.com/spec-kit/agency-admin/internal/config"
	"github.com/spec-kit/agency-admin/internal/events"
	"github.com/spec-kit/agency-admin/internal/observability"
	"github.com/spec-kit/agency-admin/internal/persistence"
	"github.com/spec-kit/agency-admin/internal/repository"
	"github.com/spec-kit/agency-admin/internal/service"
	"github.com/spec-kit/agency-admin/internal/worker"
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
	agencyRepo := repository.NewAgencyRepository(pool)
	grantRepo := repository.NewImpersonationRepository(pool)
	auditRepo := repository.NewAuditRepository(pool)

	dispatcher := events.NewInMemoryDispatcher()
	auditService := service.NewAuditService(dispatcher, auditRepo, logger)
	worker.StartAuditWorker(auditService)

	tokenManager := auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.AccessTokenTTLMinutes)
	providerVerifier := auth.NewProviderVerifier(cfg.Auth.ProviderURL, cfg.Auth.ProviderAPIKey,
		time.Duration(cfg.Auth.ProviderTimeoutSeconds)*time.Second)
	verifier := auth.NewChainVerifier(providerVerifier, tokenManager)
	guard := auth.NewGuard(verifier, dispatcher, logger, "sb-access-token")

	sessionService := service.NewSessionService(principalRepo, tokenManager, cfg.Auth.BcryptCost)
	grantCache := persistence.NewRedisGrantCache(redis.Client)
	impersonationService := service.NewImpersonationService(grantRepo, principalRepo, grantCache, dispatcher, logger, cfg.Auth.ImpersonationTTLMinutes)

	secureCookies := cfg.App.Env != "development"

	app := fiber.New()
	metrics := observability.NewMetrics()
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:        handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, pg, redis),
		Session:       handlers.NewSessionHandler(sessionService, secureCookies),
		Impersonation: handlers.NewImpersonationHandler(impersonationService, secureCookies),
		Admin:         handlers.NewAdminHandler(principalRepo, agencyRepo, auditService),
		Guard:         guard,
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
