package internal

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/starford/kitscan/internal/catalog"
	"github.com/starford/kitscan/internal/projectroot"
	"github.com/starford/kitscan/internal/scanner"
	"github.com/starford/kitscan/internal/scanservice"
	"github.com/starford/kitscan/internal/storage"
)

// NewLogger builds the structured JSON logger used by every mode.
func NewLogger(w io.Writer, level slog.Level) *slog.Logger {
	return slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{
		Level: level,
	}))
}

func newApplication(logOut io.Writer, opts []Option) (*application, error) {
	app := &application{version: "dev"}
	for _, opt := range opts {
		opt(app)
	}

	if app.config == nil {
		return nil, errors.New("config is required")
	}
	if app.logger == nil {
		app.logger = NewLogger(logOut, app.config.App.LogLevel)
	}
	if app.config.Catalog.Record {
		app.record = true
	}
	return app, nil
}

// resolveRoot picks the project root: an explicit WithRoot, then
// project.root, then a marker search from the binary and working directories.
func (a *application) resolveRoot() (string, error) {
	for _, dir := range []string{a.root, a.config.Project.Root} {
		if dir == "" {
			continue
		}
		abs, err := filepath.Abs(dir)
		if err != nil {
			return "", fmt.Errorf("resolve root %s: %w", dir, err)
		}
		return abs, nil
	}

	wd, _ := os.Getwd()
	return projectroot.Resolve(a.marker(), projectroot.ExecutableDir(), wd)
}

func (a *application) marker() string {
	if a.config.Project.MarkerDir == "" {
		return projectroot.DefaultMarker
	}
	return a.config.Project.MarkerDir
}

// runtime is the wired set of components shared by all modes.
type runtime struct {
	root    string
	store   storage.Provider
	scanner *scanner.Scanner
	db      *catalog.DB
	svc     *scanservice.Service
}

func (rt *runtime) Close() error {
	if rt.db != nil {
		return rt.db.Close()
	}
	return nil
}

func (a *application) build() (*runtime, error) {
	root, err := a.resolveRoot()
	if err != nil {
		return nil, err
	}

	store, err := storage.NewFS(root)
	if err != nil {
		return nil, fmt.Errorf("init storage: %w", err)
	}

	marker := a.marker()
	if !store.Exists(marker) {
		a.logger.Warn("component directory not found; scans will be empty",
			slog.String("root", root), slog.String("marker_dir", marker))
	}

	sc := scanner.New(store,
		scanner.WithBaseDir(marker),
		scanner.WithLogger(a.logger),
	)

	rt := &runtime{root: root, store: store, scanner: sc}
	if a.record {
		dbPath := a.config.Catalog.Resolve(root)
		rt.db, err = catalog.Open(dbPath)
		if err != nil {
			return nil, fmt.Errorf("init catalog: %w", err)
		}
		a.logger.Debug("catalog opened", slog.String("path", dbPath))
	}
	rt.svc = scanservice.NewService(sc, rt.db)
	return rt, nil
}
