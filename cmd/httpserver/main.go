package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"moviebook/catalogapi"
	"moviebook/dynamodb"
	"moviebook/httpserver"
	"moviebook/inmem"
	"moviebook/movie"
	"moviebook/pkg/broadcast"
	"moviebook/pkg/config"
	"moviebook/pkg/sentry"
	"moviebook/postgres"
	"moviebook/redisnotify"
	"moviebook/repository"

	sentrygo "github.com/getsentry/sentry-go"
	_ "github.com/lib/pq"
	"github.com/redis/go-redis/v9"
)

const shutdownTimeout = 10 * time.Second

// bookmarkStore is a BookmarkStore whose writes can be relayed.
type bookmarkStore interface {
	repository.BookmarkStore
	Changes() *broadcast.Hub
}

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	cfg, err := config.LoadConfig()
	if err != nil {
		slog.Error("Cannot load config", "error", err)
		os.Exit(1)
	}

	err = sentrygo.Init(sentrygo.ClientOptions{
		Dsn:              cfg.SentryDSN,
		Environment:      cfg.AppEnv,
		AttachStacktrace: true,
	})
	if err != nil {
		slog.Error("Cannot init sentry", "error", err)
		os.Exit(1)
	}
	defer sentrygo.Flush(sentry.FlushTime)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	catalog, err := newCatalog(cfg, logger)
	if err != nil {
		slog.Error("Cannot create catalog client", "error", err)
		os.Exit(1)
	}

	store, err := newBookmarkStore(ctx, cfg)
	if err != nil {
		slog.Error("Cannot open bookmark store", "driver", cfg.DB.Driver, "error", err)
		os.Exit(1)
	}

	if cfg.Redis.URL != "" {
		opt, err := redis.ParseURL(cfg.Redis.URL)
		if err != nil {
			slog.Error("Cannot parse redis url", "error", err)
			os.Exit(1)
		}
		rdb := redis.NewClient(opt)
		defer rdb.Close()

		relay := redisnotify.New(rdb, cfg.Redis.Channel, store.Changes(), logger)
		go func() {
			if err := relay.Run(ctx); err != nil {
				slog.Error("redis relay stopped", "error", err)
				sentry.Error(err)
			}
		}()
	}

	server := httpserver.Default(cfg)
	server.Logger = logger
	server.MovieService = movie.NewUsecase(repository.NewMovieRepository(catalog, store, logger))

	errCh := make(chan error, 1)
	go func() {
		slog.Info("server started!", "addr", server.Addr, "driver", cfg.DB.Driver)
		errCh <- server.Start()
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server stopped with error", "error", err)
			os.Exit(1)
		}
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			slog.Error("server shutdown failed", "error", err)
		}
		slog.Info("server stopped")
	}
}

func newCatalog(cfg *config.Config, logger *slog.Logger) (repository.Catalog, error) {
	if cfg.Catalog.BaseURL == "" {
		logger.Warn("CATALOG_BASE_URL is not set, serving an empty catalog")
		return inmem.NewCatalog(), nil
	}

	client, err := catalogapi.NewClient(catalogapi.Options{
		BaseURL: cfg.Catalog.BaseURL,
		APIKey:  cfg.Catalog.APIKey,
		Timeout: cfg.Catalog.Timeout,
	})
	if err != nil {
		return nil, err
	}
	return client, nil
}

func newBookmarkStore(ctx context.Context, cfg *config.Config) (bookmarkStore, error) {
	switch cfg.DB.Driver {
	case config.DriverDynamoDB:
		client, err := dynamodb.NewClient(ctx, dynamodb.Options{
			Region:       cfg.DynamoDB.Region,
			Endpoint:     cfg.DynamoDB.Endpoint,
			AccessKey:    cfg.DynamoDB.AccessKey,
			SecretKey:    cfg.DynamoDB.SecretKey,
			SessionToken: cfg.DynamoDB.SessionToken,
			MaxAttempts:  cfg.DynamoDB.MaxAttempts,
		})
		if err != nil {
			return nil, err
		}
		return dynamodb.NewBookmarkRepository(client, cfg.DynamoDB.BookmarksTable), nil
	case config.DriverMemory:
		return inmem.NewBookmarkStore(), nil
	default:
		db, err := postgres.NewConnection(postgres.Options{
			DBName:   cfg.DB.Name,
			DBUser:   cfg.DB.User,
			Password: cfg.DB.Pass,
			Host:     cfg.DB.Host,
			Port:     strconv.Itoa(cfg.DB.Port),
			SSLMode:  cfg.DB.EnableSSL,
		})
		if err != nil {
			return nil, err
		}
		return postgres.NewBookmarkRepository(db), nil
	}
}
