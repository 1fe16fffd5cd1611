package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"colmap/internal/api"
)

const shutdownTimeout = 10 * time.Second

func newServeCmd(a *app) *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the mapping API over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if cmd.Flags().Changed("addr") {
				a.cfg.Server.Addr = addr
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			m, handle := a.newMapper()
			defer a.closeHandle(handle)

			// Fail at startup on a misconfigured provider rather than on the
			// first semantic request.
			if _, err := handle.Get(ctx); err != nil {
				return fmt.Errorf("embedding provider: %w", err)
			}

			srv := &http.Server{
				Addr: a.cfg.Server.Addr,
				Handler: api.NewServer(m, a.logger, api.Options{
					AllowedOrigins: a.cfg.Server.AllowedOrigins,
					MaxBodyBytes:   a.cfg.Server.MaxBodyBytes,
					Defaults:       a.cfg.MapperOptions(),
				}).Routes(),
				ReadTimeout:  a.cfg.Server.ReadTimeout,
				WriteTimeout: a.cfg.Server.WriteTimeout,
			}

			errCh := make(chan error, 1)

			go func() {
				a.logger.Info("listening", "addr", srv.Addr)
				errCh <- srv.ListenAndServe()
			}()

			select {
			case err := <-errCh:
				if errors.Is(err, http.ErrServerClosed) {
					return nil
				}

				return err
			case <-ctx.Done():
			}

			a.logger.Info("shutting down")

			shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()

			return srv.Shutdown(shutdownCtx)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", ":8080", "listen address (config server.addr when unset)")

	return cmd
}
