package internal

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/starford/kitscan/internal/mcpserver"
	"github.com/starford/kitscan/internal/watch"
)

// Scan runs one scan, writes the report to req.Out, and, when recording is
// on, stores the result in the catalog and reports what changed.
// Logs go to stderr so stdout carries only the report.
func Scan(ctx context.Context, req ScanRequest, opts ...Option) error {
	app, err := newApplication(os.Stderr, opts)
	if err != nil {
		return err
	}
	rt, err := app.build()
	if err != nil {
		return err
	}
	defer rt.Close()

	return scanOnce(ctx, app, rt, req)
}

func scanOnce(ctx context.Context, app *application, rt *runtime, req ScanRequest) error {
	res, err := rt.svc.Scan(ctx, req.Selector, req.Scenarios)
	if err != nil {
		return err
	}

	rep := req.reporter()
	if err := rep.Render(res); err != nil {
		return fmt.Errorf("render: %w", err)
	}

	if !app.record {
		return nil
	}
	ch, err := rt.svc.Record(ctx, res)
	if err != nil {
		return err
	}
	return rep.RenderChanges(ch)
}

// Watch scans and reports once, then again after every settled burst of
// changes under the component directory, until ctx is cancelled.
func Watch(ctx context.Context, req ScanRequest, opts ...Option) error {
	app, err := newApplication(os.Stderr, opts)
	if err != nil {
		return err
	}
	rt, err := app.build()
	if err != nil {
		return err
	}
	defer rt.Close()

	if err := scanOnce(ctx, app, rt, req); err != nil {
		return err
	}

	dir := filepath.Join(rt.root, app.marker())
	app.logger.Info("watching for changes", slog.String("dir", dir))

	return watch.Watch(ctx, dir, watch.DefaultDebounce, app.logger, func(paths []string) {
		app.logger.Info("change detected", slog.Int("paths", len(paths)))
		if err := scanOnce(ctx, app, rt, req); err != nil {
			app.logger.Error("rescan failed", slog.String("error", err.Error()))
		}
	})
}

// ServeMCP serves the scanning tools over stdio until the client disconnects.
func ServeMCP(_ context.Context, opts ...Option) error {
	app, err := newApplication(os.Stderr, opts)
	if err != nil {
		return err
	}
	slog.SetDefault(app.logger)

	rt, err := app.build()
	if err != nil {
		return err
	}
	defer rt.Close()

	app.logger.Info("MCP server starting",
		slog.String("project_root", rt.root),
		slog.String("transport", "stdio"))

	srv := mcpserver.New(rt.store, rt.svc, app.version)
	if err := srv.ServeStdio(); err != nil {
		return fmt.Errorf("mcp: %w", err)
	}
	return nil
}
