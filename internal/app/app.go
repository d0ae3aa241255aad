// Package app wires the catalog, dose model, calculation engine, and REST
// controller together and manages the process lifecycle.
package app

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/uvsystems/uvcalc/internal/controllers/restserver"
	"github.com/uvsystems/uvcalc/internal/dose"
	"github.com/uvsystems/uvcalc/internal/engine"
	"github.com/uvsystems/uvcalc/internal/log"
	"github.com/uvsystems/uvcalc/pkg/catalog"
	"go.uber.org/zap"
)

// App represents the main application
type App struct {
	catalogProvider catalog.Provider
	serverConfig    restserver.Config
	logger          *zap.SugaredLogger
}

// New creates a new application instance
func New(provider catalog.Provider, serverConfig restserver.Config, logger *zap.SugaredLogger) *App {
	return &App{
		catalogProvider: provider,
		serverConfig:    serverConfig,
		logger:          logger,
	}
}

// Run starts the application and blocks until shutdown
func (a *App) Run(ctx context.Context) error {
	var wg sync.WaitGroup

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	// Load the catalog once; it is shared read-only across all requests
	cat, err := a.catalogProvider.Load()
	if err != nil {
		return fmt.Errorf("error loading system catalog: %w", err)
	}
	defer a.catalogProvider.Close()
	log.Infof("system catalog loaded: %d systems", cat.Len())

	// Initialize the dose calculator
	model, err := dose.NewModel()
	if err != nil {
		return fmt.Errorf("error initializing dose calculator: %w", err)
	}
	log.Info("Calculator initialized successfully")

	eng := engine.New(cat, model, a.logger)

	// Initialize the REST server controller
	ctrl, err := restserver.NewController(ctx, &wg, a.serverConfig, eng, a.logger)
	if err != nil {
		return fmt.Errorf("error creating REST server: %w", err)
	}
	if err := ctrl.StartController(); err != nil {
		return err
	}

	log.Info("Application started successfully")

	// Set up signal handling
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)

	// Wait for shutdown signal
	select {
	case <-sigs:
		log.Info("shutdown signal received, initiating graceful shutdown...")
	case <-ctx.Done():
		log.Info("context cancelled, shutting down...")
	}

	// Cancel context to signal all goroutines to stop
	cancel()

	// Wait for all workers to terminate
	log.Info("waiting for all workers to terminate...")
	wg.Wait()
	log.Info("shutdown complete")

	return nil
}
