// Package restserver exposes the calculation engine over HTTP.
package restserver

import (
	"context"
	"fmt"
	"net/http"
	"sync"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/uvsystems/uvcalc/internal/engine"
	"github.com/uvsystems/uvcalc/internal/log"
	"go.uber.org/zap"
)

// Config holds the REST server settings
type Config struct {
	ListenAddr  string
	Port        int
	TLSCertPath string
	TLSKeyPath  string
}

// Controller represents the REST server controller
type Controller struct {
	ctx      context.Context
	wg       *sync.WaitGroup
	cfg      Config
	Server   http.Server
	engine   *engine.Engine
	logger   *zap.SugaredLogger
	handlers *Handlers
}

// NewController creates a new REST server controller
func NewController(ctx context.Context, wg *sync.WaitGroup, cfg Config, eng *engine.Engine, logger *zap.SugaredLogger) (*Controller, error) {
	if eng == nil {
		return nil, fmt.Errorf("no calculation engine provided")
	}

	ctrl := &Controller{
		ctx:    ctx,
		wg:     wg,
		cfg:    cfg,
		engine: eng,
		logger: logger,
	}

	// If a ListenAddr was not provided, listen on all interfaces
	if cfg.ListenAddr == "" {
		logger.Info("rest.listen_addr not provided; defaulting to 0.0.0.0 (all interfaces)")
		cfg.ListenAddr = "0.0.0.0"
	}

	// Set default HTTP port if not specified
	if cfg.Port == 0 {
		logger.Info("rest.port not provided; defaulting to 8080")
		cfg.Port = 8080
	}

	ctrl.handlers = NewHandlers(ctrl)

	router := ctrl.setupRouter()
	ctrl.Server.Addr = fmt.Sprintf("%v:%v", cfg.ListenAddr, cfg.Port)
	ctrl.Server.Handler = router
	ctrl.cfg = cfg

	return ctrl, nil
}

// StartController starts the REST server
func (c *Controller) StartController() error {
	log.Info("Starting REST server controller...")
	c.wg.Add(1)

	go func() {
		defer c.wg.Done()

		if c.cfg.TLSCertPath != "" && c.cfg.TLSKeyPath != "" {
			if err := c.Server.ListenAndServeTLS(c.cfg.TLSCertPath, c.cfg.TLSKeyPath); err != http.ErrServerClosed {
				log.Errorf("REST server error: %v", err)
			}
		} else {
			if err := c.Server.ListenAndServe(); err != http.ErrServerClosed {
				log.Errorf("REST server error: %v", err)
			}
		}
	}()

	go func() {
		<-c.ctx.Done()
		log.Info("Shutting down the REST server...")
		c.Server.Shutdown(context.Background())
	}()

	return nil
}

// setupRouter configures the HTTP router with all endpoints
func (c *Controller) setupRouter() http.Handler {
	router := mux.NewRouter()

	router.Use(c.requestIDMiddleware)
	router.Use(c.recoveryMiddleware)

	router.HandleFunc("/health", c.handlers.GetHealth).Methods(http.MethodGet)
	router.HandleFunc("/calculate", c.handlers.PostCalculate).Methods(http.MethodPost)
	router.HandleFunc("/system/{system_type}/ranges", c.handlers.GetSystemRanges).Methods(http.MethodGet)
	router.HandleFunc("/systems/supported", c.handlers.GetSupportedSystems).Methods(http.MethodGet)

	// The frontend is served from another origin, so the API answers
	// cross-origin requests.
	return handlers.CORS(
		handlers.AllowedOrigins([]string{"*"}),
		handlers.AllowedMethods([]string{http.MethodGet, http.MethodPost, http.MethodOptions}),
		handlers.AllowedHeaders([]string{"Content-Type", "Authorization", "X-Request-ID"}),
	)(router)
}
