package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/serroba/notepad/internal/api"
	"github.com/serroba/notepad/internal/config"
	"github.com/serroba/notepad/internal/editor"
	"github.com/serroba/notepad/internal/storage"
	"github.com/serroba/notepad/internal/ws"
	"go.uber.org/zap"
)

const shutdownTimeout = 5 * time.Second

func main() {
	configPath := flag.String("config", "notepad.yaml", "path to the YAML config file")
	flag.Parse()

	if err := run(*configPath); err != nil {
		fmt.Fprintf(os.Stderr, "notepad: %v\n", err)
		os.Exit(1)
	}
}

func run(configPath string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	logger, err := newLogger(cfg)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}

	defer func() { _ = logger.Sync() }()

	// Initialize store
	store := storage.NewMemoryStore()

	var draftPolicy *storage.DraftPolicy
	if cfg.DraftThreshold > 0 {
		draftPolicy = storage.NewDraftPolicy(cfg.DraftThreshold)
	}

	// Initialize session manager
	manager := editor.NewManager(editor.ManagerConfig{
		Store:       store,
		Policy:      editor.NewKeystrokePolicy(cfg.CheckpointEvery, cfg.StructuralKeys),
		DraftPolicy: draftPolicy,
		HistorySize: cfg.HistorySize,
		Logger:      logger.Named("editor"),
	})

	// Initialize API server
	server := api.NewServer(api.ServerConfig{
		Manager: manager,
		Store:   store,
		Hub:     ws.NewHub(),
		Logger:  logger.Named("api"),
	})

	httpServer := &http.Server{
		Addr:              cfg.Addr,
		Handler:           server.Handler(),
		ReadHeaderTimeout: cfg.ReadHeaderTimeout,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)

	go func() {
		logger.Info("starting server", zap.String("addr", cfg.Addr))
		errCh <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server: %w", err)
		}
	case <-ctx.Done():
		logger.Info("shutting down")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			logger.Warn("shutdown", zap.Error(err))
		}
	}

	// Keep unsaved edits as drafts
	return manager.CloseAll()
}

func newLogger(cfg config.Config) (*zap.Logger, error) {
	level, err := cfg.Level()
	if err != nil {
		return nil, err
	}

	loggerConfig := zap.NewProductionConfig()
	loggerConfig.Level = zap.NewAtomicLevelAt(level)

	return loggerConfig.Build()
}
