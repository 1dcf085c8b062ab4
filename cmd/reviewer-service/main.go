package main

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	httpapi "github.com/AltEgora/avito/internal/api/http"
	"github.com/AltEgora/avito/internal/config"
	"github.com/AltEgora/avito/internal/policy"
	"github.com/AltEgora/avito/internal/repo"
	"github.com/AltEgora/avito/internal/repo/memory"
	"github.com/AltEgora/avito/internal/repo/postgres"
	"github.com/AltEgora/avito/internal/service"
)

func main() {
	cfg, err := config.ParseConfig()
	if err != nil {
		slog.New(slog.NewJSONHandler(os.Stdout, nil)).Error("Failed to load config", "error", err.Error())
		os.Exit(1)
	}

	logger := newLogger(os.Stdout, cfg.Log)
	slog.SetDefault(logger)
	logger.Info("Reviewer service started", slog.String("storage", cfg.Storage.Driver))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	store, reader, closeStorage, err := openStorage(ctx, cfg, logger)
	if err != nil {
		logger.Error("failed to init storage", "error", err.Error())
		os.Exit(1)
	}
	defer closeStorage()

	engine := policy.NewEngine()
	app := service.NewApp(
		service.NewTeamService(store, reader, engine, logger),
		service.NewUserService(store, reader, logger),
		service.NewPRService(store, reader, engine, logger, time.Now),
		service.NewStatsService(reader),
	)

	server := httpapi.NewServer(app, logger)
	srv := &http.Server{
		Addr:         cfg.HTTP.Addr,
		Handler:      httpapi.NewRouter(server, logger, httpapi.RouterConfig{CORSOrigins: cfg.HTTP.CORSOrigins}),
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
	}

	go func() {
		logger.Info("starting http server", slog.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server error", slog.Any("err", err))
			cancel()
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-stop:
	case <-ctx.Done():
	}
	logger.Info("shutting down server")

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
	defer cancelShutdown()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown error", slog.Any("err", err))
	}

	logger.Info("server stopped")
}

func newLogger(w io.Writer, cfg config.LogConfig) *slog.Logger {
	opts := &slog.HandlerOptions{Level: cfg.SlogLevel()}
	if cfg.Format == "text" {
		return slog.New(slog.NewTextHandler(w, opts))
	}
	return slog.New(slog.NewJSONHandler(w, opts))
}

func openStorage(ctx context.Context, cfg *config.Config, logger *slog.Logger) (repo.Store, repo.Reader, func(), error) {
	if cfg.Storage.Driver == config.StorageDriverMemory {
		s := memory.NewStore()
		return s, s, func() {}, nil
	}

	pool, err := postgres.NewPool(ctx, cfg.DB.ConnString(), postgres.PoolConfig{
		MinConns:        cfg.DB.MinConns,
		MaxConns:        cfg.DB.MaxConns,
		MaxConnLifetime: cfg.DB.MaxConnLifetime,
	}, logger)
	if err != nil {
		return nil, nil, nil, err
	}

	db := postgres.OpenSQLDB(pool)
	if err := postgres.RunMigrations(ctx, db.DB, logger); err != nil {
		pool.Close()
		return nil, nil, nil, err
	}

	closeFn := func() {
		if err := db.Close(); err != nil {
			logger.Error("failed to close db", "error", err.Error())
		}
		pool.Close()
	}
	return postgres.NewStore(pool), postgres.NewReader(db), closeFn, nil
}
