package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	app "github.com/mohammadpnp/directory-import/internal/application/prospect"
	"github.com/mohammadpnp/directory-import/internal/bootstrap"
	"github.com/mohammadpnp/directory-import/internal/config"
	"github.com/mohammadpnp/directory-import/internal/infrastructure/apollo"
	"github.com/mohammadpnp/directory-import/internal/infrastructure/session"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"golang.org/x/sync/errgroup"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	logger, err := newLogger(cfg.LogLevel, cfg.LogStyle)
	if err != nil {
		log.Fatalf("failed to build logger: %v", err)
	}
	defer logger.Sync()

	if cfg.ApolloAPIKey == "" {
		logger.Warn("APOLLO_API_KEY is empty, directory calls will be rejected")
	}

	db, err := gorm.Open(postgres.Open(cfg.DatabaseURL), &gorm.Config{})
	if err != nil {
		logger.Fatal("failed to connect database", zap.Error(err))
	}

	pool, err := pgxpool.New(context.Background(), cfg.DatabaseURL)
	if err != nil {
		logger.Fatal("failed to create pgx pool", zap.Error(err))
	}
	defer pool.Close()

	events := app.NewEventBus()
	events.Subscribe(app.NewLogSubscriber(logger.Named("events")))

	directory := apollo.NewClient(apollo.Config{
		BaseURL:           cfg.ApolloBaseURL,
		APIKey:            cfg.ApolloAPIKey,
		RequestsPerMinute: cfg.ApolloRequestsPerMinute,
		Timeout:           cfg.ApolloTimeout,
		MaxRetries:        2,
	}, logger.Named("apollo"))

	server := bootstrap.NewHTTPServer(bootstrap.Dependencies{
		DB:        db,
		Pool:      pool,
		Directory: directory,
		Buffers:   session.NewBufferStore(cfg.SessionCapacity, cfg.SessionTTL, logger.Named("session")),
		Events:    events,
		Logger:    logger,
		BatchSize: cfg.ImportBatchSize,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	group, groupCtx := errgroup.WithContext(ctx)

	group.Go(func() error {
		logger.Info("http server listening", zap.String("port", cfg.Port))
		if err := server.Echo.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	group.Go(func() error {
		<-groupCtx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		// running imports stop before their next batch and still record their counts
		server.Importer.CancelAll()
		if err := server.Echo.Shutdown(shutdownCtx); err != nil {
			return err
		}

		done := make(chan struct{})
		go func() {
			server.Importer.Wait()
			close(done)
		}()
		select {
		case <-done:
		case <-shutdownCtx.Done():
			logger.Warn("imports still running at shutdown")
		}
		return nil
	})

	if err := group.Wait(); err != nil {
		logger.Fatal("server stopped", zap.Error(err))
	}
	logger.Info("server stopped")
}

func newLogger(level, style string) (*zap.Logger, error) {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		lvl = zapcore.InfoLevel
	}

	cfg := zap.NewProductionConfig()
	if style == "console" {
		cfg = zap.NewDevelopmentConfig()
	}
	cfg.Level = zap.NewAtomicLevelAt(lvl)
	return cfg.Build()
}
