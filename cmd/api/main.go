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

	httptransport "github.com/spec-kit/department-service/internal/api/http"
	"github.com/spec-kit/department-service/internal/api/http/handlers"
	"github.com/spec-kit/department-service/internal/auth"
	"github.com/spec-kit/department-service/internal/config"
	"github.com/spec-kit/department-service/internal/events"
	"github.com/spec-kit/department-service/internal/observability"
	"github.com/spec-kit/department-service/internal/persistence"
	"github.com/spec-kit/department-service/internal/service"
	"github.com/spec-kit/department-service/internal/worker"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logger, cfg.App.Env)
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

	if pg.Enabled() && cfg.Postgres.RunMigrations {
		if err := persistence.RunMigrations(ctx, pg.Pool, persistence.DefaultMigrationsDir, logger); err != nil {
			logger.Fatal("failed to run migrations", zap.Error(err))
		}
	}

	redis := persistence.NewRedis(ctx, cfg.Redis, cfg.Cache.Enabled, logger)
	defer redis.Close()

	stores := persistence.NewStores(pg, redis, cfg.Cache, logger)
	metrics := observability.NewMetrics()
	dispatcher := events.NewInMemoryDispatcher()

	worker.StartNotificationWorker(service.NewNotificationService(dispatcher, logger, cfg.Notification))

	queryService := service.NewDepartmentQueryService(stores.Departments, logger)
	commandService := service.NewDepartmentCommandService(service.DepartmentCommandDependencies{
		Departments: stores.Departments,
		Dispatcher:  dispatcher,
		Metrics:     metrics,
		Logger:      logger,
	})
	authService := service.NewAuthService(*cfg, service.AuthDependencies{
		UserRepo:   stores.Users,
		RoleRepo:   stores.Roles,
		Dispatcher: dispatcher,
		Metrics:    metrics,
		Logger:     logger,
	})
	authMiddleware := auth.NewAuthMiddleware(authService.TokenManager(), stores.Users)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ErrorHandler: httptransport.ErrorHandler(logger),
	})
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:         handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, pg, redis),
		Departments:    handlers.NewDepartmentsHandler(queryService, commandService),
		Security:       handlers.NewSecurityHandler(authService),
		Metrics:        metrics,
		AuthMiddleware: authMiddleware,
		RequireToken:   cfg.Auth.RequireToken,
	})

	go func() {
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()
	logger.Info("department service started",
		zap.String("addr", cfg.App.Addr()),
		zap.Bool("postgres", pg.Enabled()),
		zap.Bool("cache", redis.Enabled()),
		zap.Bool("require_token", cfg.Auth.RequireToken))

	waitForShutdown(logger)

	if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
		logger.Warn("shutdown", zap.Error(err))
	}
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
