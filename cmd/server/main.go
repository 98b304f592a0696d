package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"

	"github.com/joho/godotenv"
	"github.com/qrnote/qrnote/internal/config"
	"github.com/qrnote/qrnote/internal/handlers"
	"github.com/qrnote/qrnote/internal/logger"
	"github.com/qrnote/qrnote/internal/server"
	"github.com/qrnote/qrnote/internal/storage"
	"github.com/qrnote/qrnote/internal/upload"
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
)

func provideConfig() (config.Config, error) {
	cfgPath := os.Getenv("CONFIG_PATH")
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return config.Config{}, fmt.Errorf("load config: %w", err)
	}
	return cfg, nil
}

func provideLogger(cfg config.Config) *slog.Logger {
	logger.Init(cfg.Log.Level, cfg.Log.Format)
	return logger.L
}

func provideAWSConfig(log *slog.Logger) (config.AWSConfig, error) {
	aws, err := config.LoadAWS()
	if err != nil {
		return config.AWSConfig{}, fmt.Errorf("aws config: %w", err)
	}
	if aws.Env != "production" {
		log.Info("running with non-production storage credentials",
			slog.String("env", aws.Env),
			slog.String("bucket", aws.Bucket))
	}
	return aws, nil
}

func provideStorage(log *slog.Logger, aws config.AWSConfig) (storage.Provider, error) {
	provider, err := storage.NewS3Provider(log, storage.S3Config{
		Region:    aws.Region,
		AccessKey: aws.AccessKeyID,
		SecretKey: aws.SecretAccessKey,
		Bucket:    aws.Bucket,
	})
	if err != nil {
		return nil, fmt.Errorf("s3 provider: %w", err)
	}
	return provider, nil
}

func provideServerHandler(fn any) any {
	return fx.Annotate(
		fn,
		fx.As(new(server.Handler)),
		fx.ResultTags(`group:"server_handlers"`),
	)
}

type serverParams struct {
	fx.In

	Logger         *slog.Logger
	Config         config.Config
	ServerHandlers []server.Handler `group:"server_handlers"`
}

func provideServer(params serverParams) *server.Server {
	return server.NewServer(params.Logger, params.Config.Server.Addr, params.ServerHandlers...)
}

func startServer(lc fx.Lifecycle, logger *slog.Logger, srv *server.Server, shutdowner fx.Shutdowner) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					logger.Error("server failed", slog.Any("error", err))
					_ = shutdowner.Shutdown()
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			if err := srv.Stop(ctx); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return fmt.Errorf("server stop: %w", err)
			}
			return nil
		},
	})
}

func main() {
	_ = godotenv.Load()

	fx.New(
		fx.Provide(
			provideConfig,
			provideLogger,
			provideAWSConfig,
			provideStorage,

			upload.NewService,

			provideServerHandler(handlers.NewPingHandler),
			provideServerHandler(handlers.NewUploadHandler),

			provideServer,
		),
		fx.Invoke(
			startServer,
		),
		fx.WithLogger(func(logger *slog.Logger) fxevent.Logger {
			return &fxevent.SlogLogger{Logger: logger.With(slog.String("component", "fx"))}
		}),
	).Run()
}
