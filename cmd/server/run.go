package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/yuvrajy/SomethingFishy/internal/api"
	"github.com/yuvrajy/SomethingFishy/internal/factory"
	"github.com/yuvrajy/SomethingFishy/internal/model"
	"github.com/yuvrajy/SomethingFishy/internal/services/session"
	redisstorage "github.com/yuvrajy/SomethingFishy/internal/storage/redis"
)

// sessionSweepInterval controls how often expired session tokens are purged
const sessionSweepInterval = 1 * time.Hour

func run(ctx context.Context, cfg *serverConfig) error {
	// Set up logging with JSON output
	level := slog.LevelInfo
	if cfg.verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)

	// Build factory config
	roomCfg := model.DefaultRoomConfig()
	roomCfg.WinThreshold = cfg.winThreshold
	roomCfg.RoundGap = cfg.roundGap

	factoryCfg := factory.Config{
		Logger:        logger,
		StorageType:   cfg.storageType,
		SessionConfig: session.Config{SessionDuration: cfg.sessionTimeout},
		RoomConfig:    &roomCfg,
	}

	if cfg.storageType == factory.StorageTypeRedis {
		redisCfg := redisstorage.DefaultConfig()
		redisCfg.URL = cfg.redisURL
		factoryCfg.RedisConfig = &redisCfg
	}

	app, err := factory.New(factoryCfg)
	if err != nil {
		return err
	}

	// Load the question bank. With redis storage a previous run may have
	// already seeded it, so a missing file only warns if storage is empty too.
	if err := app.QuestionService.LoadFromFile(ctx, cfg.questionsPath); err != nil {
		logger.Warn("could not load question bank from file",
			slog.String("path", cfg.questionsPath),
			slog.String("error", err.Error()))
		if err := app.QuestionService.LoadFromStorage(ctx); err != nil {
			logger.Error("no question bank available", slog.String("error", err.Error()))
			return err
		}
		logger.Info("using question bank from storage")
	}

	router := api.NewRouter(api.RouterConfig{
		Logger:         logger,
		RoomController: app.RoomController,
		SessionService: app.SessionService,
		Hub:            app.Hub,
	})

	srvCfg := api.DefaultServerConfig()
	srvCfg.Host = cfg.bind
	srvCfg.Port = cfg.port
	server := api.NewServer(router, srvCfg, logger)

	// Handle graceful shutdown
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		select {
		case <-sigCh:
			logger.Info("shutdown signal received")
			cancel()
		case <-ctx.Done():
		}
	}()

	// Periodically sweep expired session tokens
	go func() {
		ticker := time.NewTicker(sessionSweepInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				removed := app.SessionService.CleanExpired()
				if removed > 0 {
					logger.Debug("cleaned expired sessions", slog.Int("removed", removed))
				}
			case <-ctx.Done():
				return
			}
		}
	}()

	// Start server in goroutine
	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Start()
	}()

	logger.Info("server started", slog.String("addr", server.Addr()))

	// Wait for shutdown or error
	select {
	case err := <-errCh:
		if err != nil {
			logger.Error("server error", slog.String("error", err.Error()))
			return err
		}
	case <-ctx.Done():
		if err := server.Shutdown(context.Background()); err != nil {
			logger.Error("shutdown error", slog.String("error", err.Error()))
			return err
		}
	}

	logger.Info("server stopped")
	return nil
}
