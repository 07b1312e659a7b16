package cli

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	httphandler "github.com/ericfisherdev/reviewsift/internal/adapter/driving/http"
	"github.com/ericfisherdev/reviewsift/internal/application"
)

const shutdownTimeout = 10 * time.Second

func (a *App) serveCommand() *cobra.Command {
	var (
		addr   string
		source string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the analysis HTTP API and Prometheus metrics",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			src, closeSource, err := a.openSource(ctx, source)
			if err != nil {
				return err
			}
			defer func() {
				if closeErr := closeSource(); closeErr != nil {
					slog.Error("error closing source", "error", closeErr)
				}
			}()

			h := httphandler.NewHandler(application.NewAnalysisService(src), httphandler.NewMetrics(), a.version, slog.Default())
			srv := &http.Server{
				Addr:              addr,
				Handler:           httphandler.NewServeMux(h, slog.Default()),
				ReadHeaderTimeout: 5 * time.Second,
				ReadTimeout:       10 * time.Second,
				WriteTimeout:      60 * time.Second,
				IdleTimeout:       120 * time.Second,
			}

			return runServer(ctx, srv, source)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", a.cfg.ListenAddr, "listen address")
	cmd.Flags().StringVar(&source, "source", sourceCache, "where to read comments from (cache, db)")

	return cmd
}

// runServer serves until ctx is canceled, then drains in-flight requests.
func runServer(ctx context.Context, srv *http.Server, source string) error {
	errCh := make(chan error, 1)
	go func() {
		slog.Info("http server starting", "addr", srv.Addr, "source", source)
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

	slog.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}

	slog.Info("shutdown complete")
	return nil
}
