package app

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/MrSnakeDoc/letterplace/internal/config"
	"github.com/MrSnakeDoc/letterplace/internal/httpserver"
	"github.com/MrSnakeDoc/letterplace/internal/httpserver/deps"
	"github.com/MrSnakeDoc/letterplace/internal/logger"
	"github.com/MrSnakeDoc/letterplace/internal/scheduler"
	"github.com/MrSnakeDoc/letterplace/internal/version"
)

type App struct {
	cfg        *config.Config
	logger     logger.Logger
	server     *httpserver.Server
	census     *scheduler.Census
	closeStore func() error
}

func New() *App {
	cfg := config.Load()

	loggerClient := logger.New(cfg.LogLevel, cfg.PrettyLog)

	// Open the store early - fail fast if unavailable
	st, closeStore, err := OpenStore(context.Background(), cfg.Common, loggerClient)
	if err != nil {
		loggerClient.Errorf("Failed to open store: %v", err)
		os.Exit(1)
	}
	loggerClient.Info("store initialized", logger.String("backend", cfg.Store))

	// Dependencies passed to routes (extend as needed).
	d := deps.Deps{
		Logger:       loggerClient,
		StartTime:    time.Now(),
		Version:      version.Version,
		Commit:       version.Commit,
		BuildDate:    version.BuildDate,
		GoVersion:    version.GoVersion,
		TimeNow:      time.Now,
		AllowedCIDRS: cfg.AllowedCIDRS,
		TrustProxy:   cfg.TrustProxy,
		CORSOrigin:   cfg.CORSOrigin,
		RateBurst:    cfg.RateBurst,
		RatePerMin:   cfg.RatePerMin,
		Store:        st,
		StoreKind:    cfg.Store,
		Fetcher:      NewFetcher(cfg.Common),
		Extractor:    NewExtractor(cfg.Common),
		DefaultGroup: cfg.DefaultGroup,
		Groups:       cfg.Groups,
	}

	server := httpserver.New(cfg, loggerClient, d)

	return &App{
		cfg:        cfg,
		logger:     loggerClient,
		server:     server,
		census:     scheduler.NewCensus(st, loggerClient, cfg.CensusInterval),
		closeStore: closeStore,
	}
}

func (a *App) Run() error {
	a.logger.Infof("🚀 Starting Letterplace %s on %s", version.Version, a.cfg.ListenPort)
	a.logger.Infof("Letterplace %s", version.String())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := a.census.Start(ctx); err != nil {
		return fmt.Errorf("failed to start census: %w", err)
	}

	errCh := make(chan error, 1)
	go func() {
		if err := a.server.Start(); err != nil {
			errCh <- fmt.Errorf("http server error: %w", err)
		}
	}()

	select {
	case <-ctx.Done():
		a.logger.Info("⏳ Shutting down gracefully...")
	case err := <-errCh:
		return err
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.ShutdownTimeout)
	defer cancel()
	if err := a.server.Stop(shutdownCtx); err != nil {
		return fmt.Errorf("failed to stop server: %w", err)
	}
	a.census.Stop()

	if err := a.closeStore(); err != nil {
		a.logger.Warnf("failed to close store: %v", err)
	} else {
		a.logger.Info("✅ Store closed cleanly")
	}

	a.logger.Info("✅ Letterplace stopped cleanly")
	_ = a.logger.Sync() // stderr sync errors are not actionable
	return nil
}
