package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	gormlogger "gorm.io/gorm/logger"

	"assistant-platform/services/function-gateway/internal/config"
	"assistant-platform/services/function-gateway/internal/domain/activity"
	"assistant-platform/services/function-gateway/internal/domain/assistant"
	"assistant-platform/services/function-gateway/internal/domain/channel"
	"assistant-platform/services/function-gateway/internal/domain/dispatch"
	"assistant-platform/services/function-gateway/internal/domain/function"
	"assistant-platform/services/function-gateway/internal/domain/invocation"
	"assistant-platform/services/function-gateway/internal/domain/resolve"
	domainsync "assistant-platform/services/function-gateway/internal/domain/sync"
	"assistant-platform/services/function-gateway/internal/infrastructure/assistantapi"
	"assistant-platform/services/function-gateway/internal/infrastructure/auth"
	"assistant-platform/services/function-gateway/internal/infrastructure/database"
	"assistant-platform/services/function-gateway/internal/infrastructure/forwarder"
	"assistant-platform/services/function-gateway/internal/infrastructure/logger"
	"assistant-platform/services/function-gateway/internal/infrastructure/mailer"
	"assistant-platform/services/function-gateway/internal/infrastructure/observability"
	"assistant-platform/services/function-gateway/internal/infrastructure/queue"
	activityrepo "assistant-platform/services/function-gateway/internal/infrastructure/repository/activity"
	assistantrepo "assistant-platform/services/function-gateway/internal/infrastructure/repository/assistant"
	channelrepo "assistant-platform/services/function-gateway/internal/infrastructure/repository/channel"
	functionrepo "assistant-platform/services/function-gateway/internal/infrastructure/repository/function"
	"assistant-platform/services/function-gateway/internal/infrastructure/telegram"
	"assistant-platform/services/function-gateway/internal/interfaces/httpserver"
	"assistant-platform/services/function-gateway/internal/interfaces/httpserver/handlers"
	"assistant-platform/services/function-gateway/internal/worker"
)

// Application bundles the long-running pieces of the gateway.
type Application struct {
	httpServer *httpserver.HttpServer
	log        zerolog.Logger
}

// NewApplication constructs the application.
func NewApplication(httpServer *httpserver.HttpServer, log zerolog.Logger) *Application {
	return &Application{
		httpServer: httpServer,
		log:        log,
	}
}

// Start runs the HTTP server until the context is cancelled.
func (a *Application) Start(ctx context.Context) error {
	return a.httpServer.Run(ctx)
}

func main() {
	loadEnvFiles()

	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	log := logger.New(cfg)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTelemetry, err := observability.Setup(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("initialize observability")
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		if err := shutdownTelemetry(shutdownCtx); err != nil {
			log.Error().Err(err).Msg("shutdown telemetry")
		}
	}()

	db, err := database.Connect(database.Config{
		DSN:             cfg.DatabaseURL,
		MaxIdleConns:    cfg.DBMaxIdleConns,
		MaxOpenConns:    cfg.DBMaxOpenConns,
		ConnMaxLifetime: cfg.DBConnLifetime,
		LogLevel:        gormlogger.Warn,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("connect database")
	}

	if err := database.AutoMigrate(ctx, db, log); err != nil {
		log.Fatal().Err(err).Msg("migrate database")
	}

	authValidator, err := auth.NewValidator(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("initialize auth validator")
	}

	functionRepository := functionrepo.NewPostgresRepository(db)
	linkRepository := functionrepo.NewPostgresLinkRepository(db)
	channelRepository := channelrepo.NewPostgresRepository(db)
	assistantRepository := assistantrepo.NewPostgresRepository(db)
	activityRepository := activityrepo.NewPostgresRepository(db)

	var activityForwarder activity.Forwarder
	if cfg.ActivityWebhookURL != "" {
		activityForwarder = forwarder.NewHTTPForwarder(cfg.ActivityWebhookURL, log)
	}
	recorder := activity.NewRecorder(activityRepository, activityForwarder, log)

	remoteAPI := assistantapi.NewClient(cfg.AssistantAPIKey, cfg.AssistantAPIBaseURL, log)

	functionService := function.NewService(functionRepository, linkRepository, log)
	channelService := channel.NewService(channelRepository, log)
	assistantService := assistant.NewService(assistantRepository, log)
	syncService := domainsync.NewService(assistantRepository, functionRepository, linkRepository, remoteAPI, recorder, log)
	resolver := resolve.NewResolver(functionRepository, linkRepository, log)
	dispatcher := dispatch.NewDispatcher(
		channelRepository,
		telegram.NewTransport(log),
		mailer.NewTransport(log),
		recorder,
		log,
	)
	invocationService := invocation.NewService(assistantRepository, resolver, dispatcher, recorder, log)

	// Background bulk reconciliation
	taskQueue := queue.NewPostgresQueue(db, log)
	workerPool := worker.NewPool(
		taskQueue,
		syncService,
		worker.Config{
			WorkerCount: cfg.BackgroundWorkerCount,
			TaskTimeout: cfg.BackgroundTaskTimeout,
		},
		log,
	)

	workerPool.Start(ctx)
	defer func() {
		log.Info().Msg("stopping worker pool")
		workerPool.Stop()
	}()

	handlerProvider := handlers.NewProvider(
		invocationService,
		syncService,
		functionService,
		channelService,
		assistantService,
		activityRepository,
		taskQueue,
		log,
	)

	httpServer := httpserver.New(cfg, log, handlerProvider, authValidator)
	app := NewApplication(httpServer, log)

	if err := app.Start(ctx); err != nil {
		log.Fatal().Err(err).Msg("application stopped with error")
	}

	log.Info().Msg("application exited cleanly")
}

func loadEnvFiles() {
	paths := []string{".env", "../.env"}
	for _, path := range paths {
		if _, err := os.Stat(path); err == nil {
			if err := godotenv.Overload(path); err != nil {
				fmt.Fprintf(os.Stderr, "warning: failed to load %s: %v\n", path, err)
			}
		}
	}
}
