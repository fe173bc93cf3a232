package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"github.com/searchforge/cardfuse/internal/engine"
	"github.com/searchforge/cardfuse/internal/health"
	"github.com/searchforge/cardfuse/obs"
)

// serve exposes operational endpoints only. The query API proper lives in a
// separate service that consumes this engine as a library.
func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve health and metrics endpoints for a loaded engine",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			log := slog.Default()

			shutdownTracer, err := obs.InitTracer("cardfuse")
			if err != nil {
				log.Warn("tracer init", "err", err)
			}
			defer func() {
				ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				if err := shutdownTracer(ctx); err != nil {
					log.Warn("tracer shutdown", "err", err)
				}
			}()

			eng, cfg, err := bootstrapEngine()
			if err != nil {
				return err
			}
			holder := engine.NewHolder(eng)

			mux := chi.NewRouter()
			mux.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusOK)
				_, _ = w.Write([]byte("ok"))
			})
			mux.Get("/readyz", health.Readyz(holder))
			mux.Handle("/metrics", promhttp.Handler())

			server := &http.Server{
				Addr:         ":" + strconv.Itoa(cfg.Port),
				Handler:      mux,
				ReadTimeout:  15 * time.Second,
				WriteTimeout: 30 * time.Second,
				IdleTimeout:  60 * time.Second,
			}

			go func() {
				log.Info("cardfuse listening", "port", cfg.Port)
				if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					log.Error("listen", "err", err)
					os.Exit(1)
				}
			}()

			stop := make(chan os.Signal, 1)
			signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
			<-stop

			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			return server.Shutdown(ctx)
		},
	}
}
