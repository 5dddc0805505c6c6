package main

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/afero"
	"go.uber.org/zap"

	"github.com/ekoelbar/barclient/internal/api"
	"github.com/ekoelbar/barclient/internal/audit"
	"github.com/ekoelbar/barclient/internal/barapi"
	"github.com/ekoelbar/barclient/internal/cart"
	"github.com/ekoelbar/barclient/internal/config"
	"github.com/ekoelbar/barclient/internal/service"
	"github.com/ekoelbar/barclient/internal/storage"
	"github.com/ekoelbar/barclient/internal/storage/file"
	"github.com/ekoelbar/barclient/internal/storage/memory"
	"github.com/ekoelbar/barclient/internal/storage/postgres"
	redisstore "github.com/ekoelbar/barclient/internal/storage/redis"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	logger, err := newLogger(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	ctx := context.Background()

	store, closeStorage, err := openStorage(ctx, cfg, logger)
	if err != nil {
		logger.Fatal("Failed to open cart storage", zap.String("driver", cfg.Storage.Driver), zap.Error(err))
	}
	defer closeStorage()

	var sink audit.Sink = audit.NewLogSink(logger)
	if len(cfg.Kafka.Brokers) > 0 {
		kafkaSink, err := audit.NewKafkaSink(cfg.Kafka, logger)
		if err != nil {
			logger.Fatal("Failed to create Kafka audit sink", zap.Error(err))
		}
		defer kafkaSink.Close()
		sink = kafkaSink
		logger.Info("Publishing audit events to Kafka",
			zap.Strings("brokers", cfg.Kafka.Brokers),
			zap.String("topic", cfg.Kafka.Topic),
		)
	}

	client := barapi.NewClient(cfg.API, logger)
	cartStore := cart.NewStore(ctx, store, logger)
	reservations := service.NewReservationRegistry(client, sink, service.RealScheduler, logger)
	contact := service.NewContactService(client, sink, service.RealScheduler, logger)

	router := api.NewRouter(cfg, api.Dependencies{
		Client:       client,
		Cart:         cartStore,
		Orders:       service.NewOrderService(client, cartStore, sink, logger),
		Reservations: reservations,
		Contact:      contact,
		Sink:         sink,
	}, logger)

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	go func() {
		logger.Info("Starting server",
			zap.String("port", cfg.Port),
			zap.String("backend", cfg.API.BaseURL),
			zap.String("storage", cfg.Storage.Driver),
		)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	reservations.Shutdown()
	contact.Shutdown()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server forced to shutdown", zap.Error(err))
	}

	logger.Info("Server exited")
}

func newLogger(cfg *config.Config) (*zap.Logger, error) {
	zapCfg := zap.NewDevelopmentConfig()
	if cfg.Environment == "production" {
		zapCfg = zap.NewProductionConfig()
	}

	level, err := zap.ParseAtomicLevel(cfg.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("invalid LOG_LEVEL: %w", err)
	}
	zapCfg.Level = level

	return zapCfg.Build()
}

// openStorage returns the durable slot the cart is kept in and a func that
// releases it
func openStorage(ctx context.Context, cfg *config.Config, logger *zap.Logger) (storage.Storage, func(), error) {
	switch cfg.Storage.Driver {
	case "memory":
		return memory.New(), func() {}, nil

	case "file":
		st, err := file.New(afero.NewOsFs(), cfg.Storage.Dir, logger)
		if err != nil {
			return nil, nil, err
		}
		return st, func() {}, nil

	case "postgres":
		db, err := postgres.NewConnection(cfg.Database)
		if err != nil {
			return nil, nil, err
		}
		st, err := postgres.NewKVStore(ctx, db, logger)
		if err != nil {
			db.Close()
			return nil, nil, err
		}
		return st, closer(db, logger), nil

	case "redis":
		client, err := redisstore.NewClient(ctx, cfg.Redis)
		if err != nil {
			return nil, nil, err
		}
		return redisstore.New(client, cfg.Redis.Prefix), func() {
			if err := client.Close(); err != nil {
				logger.Warn("Failed to close redis client", zap.Error(err))
			}
		}, nil

	default:
		return nil, nil, fmt.Errorf("unknown storage driver %q", cfg.Storage.Driver)
	}
}

func closer(db *sql.DB, logger *zap.Logger) func() {
	return func() {
		if err := db.Close(); err != nil {
			logger.Warn("Failed to close database", zap.Error(err))
		}
	}
}
