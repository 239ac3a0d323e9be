package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/spec-kit/expense-tracker/internal/api/http"
	"github.com/spec-kit/expense-tracker/internal/api/http/handlers"
	"github.com/spec-kit/expense-tracker/internal/auth"
	"github.com/spec-kit/expense-tracker/internal/config"
	"github.com/spec-kit/expense-tracker/internal/events"
	"github.com/spec-kit/expense-tracker/internal/observability"
	"github.com/spec-kit/expense-tracker/internal/persistence"
	"github.com/spec-kit/expense-tracker/internal/repository"
	"github.com/spec-kit/expense-tracker/internal/service"
	"github.com/spec-kit/expense-tracker/internal/worker"
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

	var (
		userRepo    repository.UserRepository
		expenseRepo repository.ExpenseRepository
	)
	if pool := pg.PoolHandle(); pool != nil {
		userRepo = repository.NewUserRepository(pool)
		expenseRepo = repository.NewExpenseRepository(pool)
	} else {
		logger.Warn("running with in-memory repositories; data will not survive restarts")
		userRepo = repository.NewMemoryUserRepository()
		expenseRepo = repository.NewMemoryExpenseRepository()
	}

	limiter := auth.NewLoginLimiter(redis.ClientHandle(), cfg.Auth.LoginMaxAttempts, cfg.Auth.LoginWindow())

	authService := service.NewAuthService(*cfg, service.AuthDependencies{
		UserRepo:   userRepo,
		Limiter:    limiter,
		Dispatcher: dispatcher,
	})
	expenseService := service.NewExpenseService(userRepo, expenseRepo)
	adminService := service.NewAdminService(*cfg, userRepo, expenseRepo, dispatcher, logger)
	notificationService := service.NewNotificationService(dispatcher, logger, cfg.Webhook)
	worker.StartNotificationWorker(notificationService)

	if err := adminService.SeedAdmin(ctx); err != nil {
		logger.Fatal("failed to seed admin account", zap.Error(err))
	}

	identityFilter := auth.NewIdentityFilter(authService.TokenManager(), cfg.Auth.InvalidTokenMode, logger)

	app := fiber.New()
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.CORS, cfg.App.RequestTimeout())

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:         handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, pg, redis),
		Auth:           handlers.NewAuthHandler(authService),
		Expenses:       handlers.NewExpensesHandler(expenseService),
		Admin:          handlers.NewAdminHandler(adminService),
		IdentityFilter: identityFilter,
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
