// Package internal provides the main application initialization and runtime logic.
package internal

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"golang.org/x/sync/errgroup"

	"github.com/starford/kitscan/internal/api"
	"github.com/starford/kitscan/internal/models"
	"github.com/starford/kitscan/internal/sse"
	"github.com/starford/kitscan/internal/watch"
)

// Run starts the HTTP server with the given options and blocks until a
// shutdown signal arrives or ctx is cancelled.
func Run(ctx context.Context, opts ...Option) error {
	app, err := newApplication(os.Stdout, opts)
	if err != nil {
		return err
	}

	cfg := app.config
	logger := app.logger
	slog.SetDefault(logger)

	rt, err := app.build()
	if err != nil {
		return err
	}
	defer rt.Close()

	logger.Info("Configuration loaded",
		slog.String("http_address", cfg.App.HTTP.Address()),
		slog.String("project_root", rt.root),
		slog.String("marker_dir", app.marker()),
		slog.Bool("record", app.record),
		slog.String("log_level", cfg.App.LogLevel.String()))

	// SSE broker.
	broker := sse.NewBroker()
	defer broker.Close()

	apiRouter := api.NewRouter(rt.svc, cfg.Auth.AuthEnabled(), cfg.Auth.Token, broker)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	// Health check endpoints (unauthenticated).
	r.Get("/health/live", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})
	r.Get("/health/ready", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if !rt.store.Exists(app.marker()) {
			w.WriteHeader(http.StatusServiceUnavailable)
			_, _ = w.Write([]byte(`{"status":"component directory missing"}`))
			return
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	r.Mount("/api", apiRouter)

	httpServer := &http.Server{
		Addr:              cfg.App.HTTP.Address(),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gCtx := errgroup.WithContext(ctx)

	// Rescan on tree changes and push a summary to SSE clients.
	g.Go(func() error {
		dir := filepath.Join(rt.root, app.marker())
		if _, err := os.Stat(dir); err != nil {
			logger.Warn("not watching component directory", slog.String("dir", dir), slog.String("error", err.Error()))
			return nil
		}
		err := watch.Watch(gCtx, dir, watch.DefaultDebounce, logger, func(paths []string) {
			logger.Debug("component tree changed", slog.Int("paths", len(paths)))
			res, err := rescan(gCtx, app, rt)
			if err != nil {
				logger.Error("rescan failed", slog.String("error", err.Error()))
				return
			}
			broker.PublishScan(res)
		})
		if err != nil {
			logger.Error("watcher stopped", slog.String("error", err.Error()))
		}
		return nil
	})

	g.Go(func() error {
		logger.Info("Starting HTTP server", slog.String("address", cfg.App.HTTP.Address()))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("HTTP server error: %w", err)
		}
		return nil
	})

	// Handle shutdown signals.
	g.Go(func() error {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		defer signal.Stop(quit)

		select {
		case sig := <-quit:
			logger.Info("Received shutdown signal", slog.String("signal", sig.String()))
		case <-gCtx.Done():
			logger.Info("Context cancelled, initiating shutdown")
		}

		logger.Info("Shutting down server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			logger.Error("HTTP server shutdown error", slog.String("error", err.Error()))
		}

		return errShutdown
	})

	if err := g.Wait(); err != nil && !errors.Is(err, errShutdown) {
		logger.Error("Application error", slog.String("error", err.Error()))
		return err
	}

	logger.Info("Server stopped successfully")
	return nil
}

// errShutdown cancels the group so the watcher exits after a signal.
var errShutdown = errors.New("shutdown")

// rescan runs a full scan with scenarios and records it when recording is on.
func rescan(ctx context.Context, app *application, rt *runtime) (models.Result, error) {
	res, err := rt.svc.Scan(ctx, models.SelectAll, true)
	if err != nil {
		return models.Result{}, err
	}
	if app.record {
		ch, err := rt.svc.Record(ctx, res)
		if err != nil {
			return models.Result{}, err
		}
		if !ch.Empty() {
			app.logger.Info("catalog updated",
				slog.Int("added", len(ch.Added)),
				slog.Int("updated", len(ch.Updated)),
				slog.Int("removed", len(ch.Removed)))
		}
	}
	return res, nil
}
