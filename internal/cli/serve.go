package cli

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

	"github.com/mesh-intelligence/playnotes/internal/api"
	"github.com/mesh-intelligence/playnotes/internal/dispatch"
)

// shutdownTimeout bounds graceful shutdown after SIGINT or SIGTERM.
const shutdownTimeout = 10 * time.Second

func newServeCmd() *cobra.Command {
	var listen string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the note endpoint over HTTP",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd, listen)
		},
	}
	cmd.Flags().StringVar(&listen, "listen", "", "listen address (overrides config listen)")
	return cmd
}

func runServe(cmd *cobra.Command, listen string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if listen != "" {
		cfg.Listen = listen
	}

	logger := newLogger(cmd.OutOrStdout(), cfg.LogLevel, true)

	backend, err := openBackend(cfg)
	if err != nil {
		logger.Error("failed to open store", "error", err)
		return err
	}
	defer backend.Detach()

	d, err := dispatch.New(backend, cfg, dispatch.WithLogger(logger))
	if err != nil {
		return err
	}

	srv := &http.Server{
		Addr:         cfg.Listen,
		Handler:      api.NewRouter(d, backend, cfg.APIKey, logger),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		logger.Info("playnotes server starting",
			"addr", cfg.Listen, "data_dir", cfg.DataDir, "users", len(cfg.Users))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			logger.Error("server error", "error", err)
			return &sysError{fmt.Errorf("serve: %w", err)}
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown error", "error", err)
		return &sysError{err}
	}
	logger.Info("server stopped")
	return nil
}
