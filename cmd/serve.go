package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Prince5598/Cloud-Storage/blobstore"
	"github.com/Prince5598/Cloud-Storage/handlers"
	"github.com/Prince5598/Cloud-Storage/logger"
	"github.com/Prince5598/Cloud-Storage/metrics"
	"github.com/Prince5598/Cloud-Storage/middleware"
	"github.com/Prince5598/Cloud-Storage/services"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API server",
		RunE:  runServe,
	}
}

func runServe(cmd *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	metrics.InitLifecycleMetrics(registry)

	a, err := bootstrap(ctx)
	if err != nil {
		return err
	}
	handlers.SetServices(a.services)

	services.StartCleanupWorkers(ctx, a.services.Cleanup)
	log.Info().Msg("cleanup workers started")

	if !logger.IsDebugEnabled() {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Recovery())

	opts := handlers.RouteOptions{
		Auth:      middleware.AuthMiddleware(a.identity),
		LocalAuth: a.tokens != nil,
		Metrics:   promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
	}
	if local, ok := a.store.(*blobstore.LocalStore); ok {
		opts.BlobDir = local.BaseDir()
	}
	handlers.SetupRoutes(r, opts)

	srv := &http.Server{
		Addr:              fmt.Sprintf("%s:%d", a.cfg.Server.Host, a.cfg.Server.Port),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", srv.Addr).Msg("server listening")
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

	log.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
