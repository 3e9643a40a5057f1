package ui

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"teamtools/app"
	"teamtools/internal"
	"teamtools/internal/config"
	"teamtools/internal/metrics"
)

// Server is the JSON API in front of the planning services
type Server struct {
	router *gin.Engine
	plans  *app.PlanService
	sweeps *app.SweepService
	logger *internal.Logger
	cfg    config.ServerConfig
}

// NewServer creates a server and registers its routes
func NewServer(cfg config.ServerConfig, plans *app.PlanService, sweeps *app.SweepService, logger *internal.Logger) *Server {
	if logger == nil {
		logger = internal.DefaultLogger
	}
	gin.SetMode(cfg.GinMode)

	s := &Server{
		router: gin.New(),
		plans:  plans,
		sweeps: sweeps,
		logger: logger.Named("API"),
		cfg:    cfg,
	}
	s.setupMiddleware()
	s.setupRoutes()
	return s
}

// Handler exposes the router, mainly for tests
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) setupRoutes() {
	s.router.GET("/healthz", s.handleHealth)
	s.router.GET("/metrics", gin.WrapH(metrics.Handler()))

	api := s.router.Group("/api/v1")
	{
		api.POST("/msprt", s.handlePlan)
		api.POST("/msprt/consistency", s.handleConsistency)
		api.POST("/msprt/report", s.handleReport)
		api.POST("/msprt/export", s.handleExport)
		api.POST("/msprt/sweep", s.handleSweep)
		api.POST("/msprt/sweep/stream", s.handleSweepStream)
		api.POST("/fixed-horizon", s.handleFixedHorizon)

		dispersion := api.Group("/dispersion")
		dispersion.POST("/samples", s.handleDispersionSamples)
		dispersion.POST("/range", s.handleDispersionRange)
		dispersion.POST("/quartiles", s.handleDispersionQuartiles)
		dispersion.POST("/conversions", s.handleDispersionConversions)
		dispersion.POST("/conversion-rate", s.handleConversionRate)
		dispersion.POST("/precision", s.handlePrecision)
	}
}

// Start serves until ctx is cancelled, then shuts down gracefully
func (s *Server) Start(ctx context.Context) error {
	srv := &http.Server{
		Addr:              ":" + s.cfg.Port,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("listening on %s", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	s.logger.Info("shutting down")
	return srv.Shutdown(shutdownCtx)
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
