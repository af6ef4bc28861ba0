package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"severkey-server/config"
	"severkey-server/internal/api"
	"severkey-server/internal/apikeys"
	"severkey-server/internal/entity"
	"severkey-server/internal/events"
	"severkey-server/internal/logging"
	"severkey-server/internal/store"
	"severkey-server/internal/vault"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize structured logging
	logger := logging.New(cfg.LoggingConfig)
	logger.Info().Msg("structured logging initialized")

	// Initialize event bus
	eventBus := events.NewEventBus()

	// Optional Redis snapshot persistence
	var snapshotter *store.Snapshotter
	if cfg.RedisConfig.Enabled {
		snapshotter, err = store.NewSnapshotter(cfg.RedisConfig, logger)
		if err != nil {
			logger.Warn().Err(err).Msg("snapshot persistence unavailable, continuing in-memory only")
			snapshotter = nil
		}
	}

	// Entity collections
	registry := entity.NewRegistry(store.Options{
		PageSize:    cfg.StoreConfig.PageSize,
		MaxPageSize: cfg.StoreConfig.MaxPageSize,
		Logger:      logger,
		Snapshotter: snapshotter,
	}, cfg.StoreConfig.SeedEnabled)

	if snapshotter != nil {
		restoreCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		if err := registry.Restore(restoreCtx); err != nil {
			logger.Warn().Err(err).Msg("snapshot restore failed, starting with empty collections")
		}
		cancel()
	}

	// Optional Vault-backed API key secrets
	vaultClient, err := vault.NewClient(cfg.VaultConfig)
	if err != nil {
		logger.Warn().Err(err).Msg("vault unavailable, api key secrets stay in-memory")
		vaultClient, _ = vault.NewClient(config.VaultConfig{})
	}
	if vaultClient.Enabled() {
		logger.Info().Str("addr", cfg.VaultConfig.Address).Msg("vault secret mirroring enabled")
	}
	apiKeyService := apikeys.NewService(vaultClient, logger)

	// HTTP server
	server := api.NewServer(api.ServerConfig{
		Port:           cfg.ServerConfig.Port,
		Host:           cfg.ServerConfig.Host,
		ProductionMode: cfg.ServerConfig.ProductionMode,
		AllowedOrigins: cfg.ServerConfig.AllowedOrigins,
		ReadTimeout:    time.Duration(cfg.ServerConfig.ReadTimeout) * time.Second,
		WriteTimeout:   time.Duration(cfg.ServerConfig.WriteTimeout) * time.Second,
	}, registry, apiKeyService, eventBus, logger)

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Start()
	}()

	// Wait for shutdown signal
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		logger.Info().Str("signal", sig.String()).Msg("shutting down")
	case err := <-errCh:
		if err != nil {
			logger.Fatal().Err(err).Msg("server failed")
		}
		return
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(),
		time.Duration(cfg.ServerConfig.ShutdownTimeout)*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("graceful shutdown failed")
	}
	logger.Info().Msg("server stopped")
}
