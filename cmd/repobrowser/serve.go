package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	httphandler "github.com/ericfisherdev/repobrowser/internal/adapter/driving/http"
	"github.com/ericfisherdev/repobrowser/internal/application"
)

const shutdownTimeout = 10 * time.Second

func newServeCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve the repository list over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := opts.load()
			if err != nil {
				return err
			}
			logger := newLogger(cfg, os.Stderr)
			logger.Info("config loaded",
				"listen_addr", cfg.ListenAddr,
				"base_url", cfg.BaseURL,
				"default_user", cfg.DefaultUser,
				"http_cache", cfg.HTTPCache,
				"rate_limit", cfg.RateLimit,
			)

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			queue := application.NewMainQueue(logger)
			defer queue.Close()

			list := application.NewRepoListController(newFetcher(cfg), queue, cfg.DefaultUser, logger)
			defer list.Close()

			handler := httphandler.NewServeMux(httphandler.NewHandler(list, queue, logger), logger)

			srv := &http.Server{
				Addr:              cfg.ListenAddr,
				Handler:           handler,
				ReadHeaderTimeout: 5 * time.Second,
				ReadTimeout:       10 * time.Second,
				WriteTimeout:      30 * time.Second,
				IdleTimeout:       120 * time.Second,
			}

			g, gctx := errgroup.WithContext(ctx)

			g.Go(func() error {
				logger.Info("http server starting", "addr", cfg.ListenAddr)
				if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					return err
				}
				return nil
			})

			g.Go(func() error {
				<-gctx.Done()
				logger.Info("shutting down")

				shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
				defer cancel()

				return srv.Shutdown(shutdownCtx)
			})

			if err := g.Wait(); err != nil {
				logger.Error("http server error", "error", err)
				return err
			}

			logger.Info("shutdown complete")
			return nil
		},
	}
}
