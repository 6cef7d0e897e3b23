package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/santorinifree/santorini-server-go/internal/config"
	"github.com/santorinifree/santorini-server-go/internal/game"
	"github.com/santorinifree/santorini-server-go/internal/repository"
	"github.com/santorinifree/santorini-server-go/internal/server"
	"github.com/santorinifree/santorini-server-go/internal/session"
)

var (
	configPath = flag.String("config", "config/config.yaml", "path to configuration file")
	version    = "dev" // set via ldflags during build
)

func main() {
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	logger, err := initLogger(cfg.Logging)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("starting santorini server",
		zap.String("version", version),
		zap.String("config", *configPath),
	)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	// Persistence is optional: without a database URL finished matches are
	// simply not archived.
	var matches *repository.MatchRepository
	if cfg.Database.URL != "" {
		db, err := repository.NewDB(ctx, cfg.Database, logger)
		if err != nil {
			logger.Fatal("failed to connect to database", zap.Error(err))
		}
		defer db.Close()

		matches = repository.NewMatchRepository(db)
		if err := matches.EnsureSchema(ctx); err != nil {
			logger.Fatal("failed to prepare match schema", zap.Error(err))
		}
		logger.Info("match archive enabled")
	} else {
		logger.Warn("no database configured; match archiving disabled")
	}

	sessionMgr := session.NewManager(cfg.Server.LeasePeriod, logger)
	logger.Info("client session manager initialized",
		zap.Duration("lease_period", cfg.Server.LeasePeriod),
	)
	go sessionMgr.CleanupExpiredSessions(ctx)

	gameMgr := game.NewManager(cfg.Server.MaxSessions, logger)
	logger.Info("game manager initialized",
		zap.Int("max_sessions", cfg.Server.MaxSessions),
		zap.Int("board_size", cfg.Game.BoardSize),
	)

	hub := server.NewHub(gameMgr, sessionMgr, matches, cfg.Game, logger)
	go hub.Run(ctx)

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.StartWebSocketServer(ctx, cfg.Server.WebSocket, hub, logger)
	}()

	logger.Info("santorini server initialized",
		zap.String("websocket_address", cfg.Server.WebSocket.Address),
	)

	select {
	case sig := <-sigChan:
		logger.Info("received shutdown signal", zap.String("signal", sig.String()))
	case err := <-errCh:
		if err != nil {
			logger.Error("websocket server error", zap.Error(err))
		}
	}

	logger.Info("shutting down gracefully...")
	cancel()
	sessionMgr.CloseAll()
	logger.Info("santorini server stopped")
}

// initLogger initializes the zap logger based on configuration.
func initLogger(cfg config.LoggingConfig) (*zap.Logger, error) {
	var level zapcore.Level
	switch cfg.Level {
	case "debug":
		level = zapcore.DebugLevel
	case "info":
		level = zapcore.InfoLevel
	case "warn":
		level = zapcore.WarnLevel
	case "error":
		level = zapcore.ErrorLevel
	default:
		level = zapcore.InfoLevel
	}

	var zapCfg zap.Config
	if cfg.Format == "json" {
		zapCfg = zap.NewProductionConfig()
	} else {
		zapCfg = zap.NewDevelopmentConfig()
		zapCfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}

	zapCfg.Level = zap.NewAtomicLevelAt(level)

	return zapCfg.Build()
}
