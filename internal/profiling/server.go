// Package profiling exposes the Go runtime profiler on a separate port
package profiling

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"teamtools/internal"
)

// NewRouter mounts net/http/pprof and expvar under /debug
func NewRouter() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Mount("/debug", middleware.Profiler())
	return r
}

// Serve runs the profiler on addr until ctx is cancelled
func Serve(ctx context.Context, addr string, logger *internal.Logger) error {
	if logger == nil {
		logger = internal.DefaultLogger
	}
	logger = logger.Named("pprof")

	srv := &http.Server{
		Addr:              addr,
		Handler:           NewRouter(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	logger.Info("profiler listening on %s", addr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
