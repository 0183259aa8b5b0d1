package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/spec-kit/support-copilot/internal/api/http"
	"github.com/spec-kit/support-copilot/internal/api/http/handlers"
	"github.com/spec-kit/support-copilot/internal/auth"
	"github.com/spec-kit/support-copilot/internal/cache"
	"github.com/spec-kit/support-copilot/internal/config"
	"github.com/spec-kit/support-copilot/internal/events"
	"github.com/spec-kit/support-copilot/internal/llm"
	"github.com/spec-kit/support-copilot/internal/observability"
	"github.com/spec-kit/support-copilot/internal/persistence"
	"github.com/spec-kit/support-copilot/internal/repository"
	"github.com/spec-kit/support-copilot/internal/service"
	"github.com/spec-kit/support-copilot/internal/triage"
	"github.com/spec-kit/support-copilot/internal/worker"
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
	issueRepo := repository.NewIssueRepository(pool)
	customerRepo := repository.NewCustomerRepository(pool)
	alertRepo := repository.NewAlertRepository(pool)
	similarityRepo := repository.NewSimilarityRepository(pool)
	executiveRepo := repository.NewExecutiveRepository(pool)

	cacheFacade := cache.New(redis.Client, logger)
	dispatcher := events.NewInMemoryDispatcher(logger)

	llmClient := llm.NewClient(cfg.Anthropic)
	classifier := triage.NewClassifier(llmClient, logger)

	analysisService := service.NewAnalysisService(service.AnalysisDependencies{
		IssueRepo:      issueRepo,
		CustomerRepo:   customerRepo,
		AlertRepo:      alertRepo,
		SimilarityRepo: similarityRepo,
		Classifier:     classifier,
		Insights:       llmClient,
		Cache:          cacheFacade,
		Dispatcher:     dispatcher,
		Config:         cfg.Triage,
		Logger:         logger,
	})
	issueService := service.NewIssueService(issueRepo, cacheFacade, dispatcher, logger)
	customerService := service.NewCustomerService(customerRepo)
	alertService := service.NewAlertService(alertRepo, dispatcher)
	analyticsService := service.NewAnalyticsService(issueRepo, alertRepo)
	authService := service.NewAuthService(*cfg, executiveRepo)
	notificationService := service.NewNotificationService(dispatcher, logger, cfg.Notification)

	worker.StartNotificationWorker(notificationService)
	detectionWorker := worker.NewDetectionWorker(analysisService, issueRepo, 0, logger)
	go detectionWorker.Run(ctx)

	authMiddleware := auth.NewAuthMiddleware(authService.TokenManager(), executiveRepo)
	metrics := observability.NewMetrics()

	app := fiber.New()
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:         handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, pg, redis, metrics),
		Auth:           handlers.NewAuthHandler(authService),
		Analysis:       handlers.NewAnalysisHandler(analysisService),
		Issues:         handlers.NewIssuesHandler(issueService),
		Customers:      handlers.NewCustomersHandler(customerService),
		Alerts:         handlers.NewAlertsHandler(alertService),
		Analytics:      handlers.NewAnalyticsHandler(analyticsService),
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
