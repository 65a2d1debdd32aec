package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/kam-ticket/helpdesk-service/internal/api/http"
	"github.com/kam-ticket/helpdesk-service/internal/api/http/handlers"
	"github.com/kam-ticket/helpdesk-service/internal/auth"
	"github.com/kam-ticket/helpdesk-service/internal/config"
	"github.com/kam-ticket/helpdesk-service/internal/events"
	"github.com/kam-ticket/helpdesk-service/internal/observability"
	"github.com/kam-ticket/helpdesk-service/internal/persistence"
	"github.com/kam-ticket/helpdesk-service/internal/repository"
	"github.com/kam-ticket/helpdesk-service/internal/service"
	"github.com/kam-ticket/helpdesk-service/internal/storage"
	"github.com/kam-ticket/helpdesk-service/internal/worker"
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

	files, err := storage.NewLocalStore(cfg.Uploads.Dir)
	if err != nil {
		logger.Fatal("failed to prepare uploads dir", zap.Error(err))
	}

	pool := pg.PoolHandle()
	ticketRepo := repository.NewTicketRepository(pool)
	commentRepo := repository.NewCommentRepository(pool)
	userRepo := repository.NewUserRepository(pool)
	reportRepo := repository.NewReportRepository(pool)

	dispatcher := events.NewInMemoryDispatcher()

	ticketService := service.NewTicketService(service.TicketDependencies{
		TicketRepo: ticketRepo,
		Files:      files,
		Dispatcher: dispatcher,
		Logger:     logger,
		Uploads:    cfg.Uploads,
	})
	assignmentService := service.NewAssignmentService(service.AssignmentDependencies{
		TicketRepo: ticketRepo,
		Dispatcher: dispatcher,
	})
	commentService := service.NewCommentService(service.CommentDependencies{
		CommentRepo: commentRepo,
		TicketRepo:  ticketRepo,
		Dispatcher:  dispatcher,
	})
	metricsService := service.NewMetricsService(service.MetricsDependencies{
		ReportRepo: reportRepo,
		UserRepo:   userRepo,
	})
	userService := service.NewUserService(cfg.Auth, service.UserDependencies{
		UserRepo:   userRepo,
		TicketRepo: ticketRepo,
		Files:      files,
		Logger:     logger,
	})
	revoker := auth.NewRedisRevoker(redis.Client)
	authService := service.NewAuthService(cfg.Auth, service.AuthDependencies{
		UserRepo: userRepo,
		Revoker:  revoker,
	})
	authMiddleware := auth.NewAuthMiddleware(authService.TokenManager(), userRepo, revoker)

	notificationService := service.NewNotificationService(dispatcher, logger, cfg.Notify)
	worker.StartNotificationWorker(notificationService)

	httpMetrics := observability.NewMetrics()

	app := fiber.New(fiber.Config{AppName: cfg.App.Name})
	httptransport.RegisterMiddlewares(app, logger, httpMetrics, cfg.App.RequestTimeout())

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:         handlers.NewHealthHandler(pool, redis),
		Auth:           handlers.NewAuthHandler(authService),
		Tickets:        handlers.NewTicketsHandler(ticketService, assignmentService, files),
		Reports:        handlers.NewReportsHandler(metricsService),
		Comments:       handlers.NewCommentsHandler(commentService),
		Users:          handlers.NewUsersHandler(userService, files),
		AuthMiddleware: authMiddleware,
		Metrics:        httpMetrics,
		UploadsDir:     cfg.Uploads.Dir,
		UploadsPath:    cfg.Uploads.PathPart,
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
