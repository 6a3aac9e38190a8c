package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/connect4change/platform/internal/api/http"
	"github.com/connect4change/platform/internal/api/http/handlers"
	"github.com/connect4change/platform/internal/auth"
	"github.com/connect4change/platform/internal/config"
	"github.com/connect4change/platform/internal/events"
	"github.com/connect4change/platform/internal/observability"
	"github.com/connect4change/platform/internal/persistence"
	"github.com/connect4change/platform/internal/repository"
	"github.com/connect4change/platform/internal/service"
	"github.com/connect4change/platform/internal/worker"
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
	userRepo := repository.NewUserRepository(pool)
	issueRepo := repository.NewIssueRepository(pool)
	projectRepo := repository.NewProjectRepository(pool)
	commentRepo := repository.NewCommentRepository(pool)
	volunteerRepo := repository.NewVolunteerRepository(pool)
	eventRepo := repository.NewProjectEventRepository(pool)
	contributionRepo := repository.NewContributionRepository(pool)

	dispatcher := events.NewInMemoryDispatcher()

	authService := service.NewAuthService(*cfg, userRepo)
	userService := service.NewUserService(userRepo)
	issueService := service.NewIssueService(issueRepo, dispatcher, cfg.Geo)
	projectService := service.NewProjectService(service.ProjectDependencies{
		ProjectRepo:   projectRepo,
		IssueRepo:     issueRepo,
		CommentRepo:   commentRepo,
		VolunteerRepo: volunteerRepo,
		EventRepo:     eventRepo,
		UserRepo:      userRepo,
		Dispatcher:    dispatcher,
		Cache:         redis,
	})
	contributionService := service.NewContributionService(contributionRepo, projectRepo, userRepo, dispatcher)

	notificationService := service.NewNotificationService(dispatcher, logger, cfg.Notification)
	worker.StartNotificationWorker(notificationService)

	authMiddleware := auth.NewAuthMiddleware(authService.TokenManager(), userRepo)

	metrics := observability.NewMetrics()

	app := fiber.New(fiber.Config{AppName: cfg.App.Name})
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:         handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, pg, redis),
		Users:          handlers.NewUsersHandler(authService, userService),
		Issues:         handlers.NewIssuesHandler(issueService),
		Projects:       handlers.NewProjectsHandler(projectService),
		Contributions:  handlers.NewContributionsHandler(contributionService),
		AuthMiddleware: authMiddleware,
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
