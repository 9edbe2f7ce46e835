//go:build wireinject

package main

import (
	"context"

	"github.com/google/wire"
	"github.com/rs/zerolog"
	"gorm.io/gorm"
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
	"assistant-platform/services/function-gateway/internal/infrastructure/logger"
	"assistant-platform/services/function-gateway/internal/infrastructure/mailer"
	"assistant-platform/services/function-gateway/internal/infrastructure/queue"
	activityrepo "assistant-platform/services/function-gateway/internal/infrastructure/repository/activity"
	assistantrepo "assistant-platform/services/function-gateway/internal/infrastructure/repository/assistant"
	channelrepo "assistant-platform/services/function-gateway/internal/infrastructure/repository/channel"
	functionrepo "assistant-platform/services/function-gateway/internal/infrastructure/repository/function"
	"assistant-platform/services/function-gateway/internal/infrastructure/telegram"
	"assistant-platform/services/function-gateway/internal/interfaces/httpserver"
	"assistant-platform/services/function-gateway/internal/interfaces/httpserver/handlers"
)

var gatewaySet = wire.NewSet(
	functionrepo.NewPostgresRepository,
	wire.Bind(new(function.Repository), new(*functionrepo.PostgresRepository)),
	functionrepo.NewPostgresLinkRepository,
	wire.Bind(new(function.LinkRepository), new(*functionrepo.PostgresLinkRepository)),
	channelrepo.NewPostgresRepository,
	wire.Bind(new(channel.Repository), new(*channelrepo.PostgresRepository)),
	assistantrepo.NewPostgresRepository,
	wire.Bind(new(assistant.Repository), new(*assistantrepo.PostgresRepository)),
	activityrepo.NewPostgresRepository,
	wire.Bind(new(activity.Repository), new(*activityrepo.PostgresRepository)),
	newRecorder,
	newRemoteAPI,
	wire.Bind(new(domainsync.RemoteToolAPI), new(*assistantapi.Client)),
	function.NewService,
	wire.Bind(new(function.Service), new(*function.DefaultService)),
	channel.NewService,
	wire.Bind(new(channel.Service), new(*channel.DefaultService)),
	assistant.NewService,
	wire.Bind(new(assistant.Service), new(*assistant.DefaultService)),
	domainsync.NewService,
	wire.Bind(new(domainsync.Service), new(*domainsync.DefaultService)),
	resolve.NewResolver,
	wire.Bind(new(resolve.Resolver), new(*resolve.DefaultResolver)),
	newDispatcher,
	wire.Bind(new(dispatch.Dispatcher), new(*dispatch.DefaultDispatcher)),
	invocation.NewService,
	wire.Bind(new(invocation.Service), new(*invocation.DefaultService)),
	queue.NewPostgresQueue,
	wire.Bind(new(queue.TaskQueue), new(*queue.PostgresQueue)),
	handlers.NewProvider,
)

// BuildApplication demonstrates how to assemble the gateway with Wire.
func BuildApplication(ctx context.Context) (*Application, error) {
	wire.Build(
		config.Load,
		logger.New,
		newDatabaseConfig,
		newGormDB,
		newAuthValidator,
		gatewaySet,
		httpserver.New,
		NewApplication,
	)
	return nil, nil
}

func newDatabaseConfig(cfg *config.Config) database.Config {
	return database.Config{
		DSN:             cfg.DatabaseURL,
		MaxIdleConns:    cfg.DBMaxIdleConns,
		MaxOpenConns:    cfg.DBMaxOpenConns,
		ConnMaxLifetime: cfg.DBConnLifetime,
		LogLevel:        gormlogger.Warn,
	}
}

func newGormDB(ctx context.Context, cfg database.Config, log zerolog.Logger) (*gorm.DB, error) {
	db, err := database.Connect(cfg)
	if err != nil {
		return nil, err
	}
	if err := database.AutoMigrate(ctx, db, log); err != nil {
		return nil, err
	}
	return db, nil
}

func newAuthValidator(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*auth.Validator, error) {
	return auth.NewValidator(ctx, cfg, log)
}

func newRecorder(repo activity.Repository, log zerolog.Logger) *activity.Recorder {
	return activity.NewRecorder(repo, nil, log)
}

func newRemoteAPI(cfg *config.Config, log zerolog.Logger) *assistantapi.Client {
	return assistantapi.NewClient(cfg.AssistantAPIKey, cfg.AssistantAPIBaseURL, log)
}

func newDispatcher(
	channels channel.Repository,
	recorder *activity.Recorder,
	log zerolog.Logger,
) *dispatch.DefaultDispatcher {
	return dispatch.NewDispatcher(channels, telegram.NewTransport(log), mailer.NewTransport(log), recorder, log)
}
