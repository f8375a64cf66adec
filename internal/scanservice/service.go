// Package scanservice coordinates scanning, scenario generation, and recording
// for the CLI, HTTP, and MCP front ends.
package scanservice

import (
	"context"
	"errors"

	"github.com/starford/kitscan/internal/catalog"
	"github.com/starford/kitscan/internal/models"
	"github.com/starford/kitscan/internal/scanner"
	"github.com/starford/kitscan/internal/scenario"
)

// ErrRecordingDisabled is returned by Record when no catalog is configured.
var ErrRecordingDisabled = errors.New("scan recording is not configured")

// Service wraps a Scanner with optional catalog recording.
type Service struct {
	scanner *scanner.Scanner
	catalog *catalog.DB
}

// NewService creates a new scan service. db may be nil.
func NewService(sc *scanner.Scanner, db *catalog.DB) *Service {
	return &Service{scanner: sc, catalog: db}
}

// Scan runs the scanners picked by selector ("all" or a category name).
func (s *Service) Scan(_ context.Context, selector string, withScenarios bool) (models.Result, error) {
	cats, err := models.ParseSelector(selector)
	if err != nil {
		return models.Result{}, err
	}
	return s.scanner.Scan(scanner.Request{Categories: cats, Scenarios: withScenarios})
}

// Components returns the descriptors of a single category.
func (s *Service) Components(ctx context.Context, category string) (any, error) {
	c, err := models.ParseCategory(category)
	if err != nil {
		return nil, err
	}
	res, err := s.Scan(ctx, string(c), false)
	if err != nil {
		return nil, err
	}
	return res.ComponentsOf(c), nil
}

// Scenarios scans commands and returns the scenarios generated from them.
func (s *Service) Scenarios(_ context.Context) ([]models.Scenario, error) {
	cmds, err := s.scanner.Commands()
	if err != nil {
		return nil, err
	}
	return scenario.Generate(cmds), nil
}

// Record stores res in the catalog and returns what changed since the last record.
func (s *Service) Record(_ context.Context, res models.Result) (models.Changes, error) {
	if s.catalog == nil {
		return models.Changes{}, ErrRecordingDisabled
	}
	return s.catalog.Record(res)
}

// Recorded returns the catalog rows of a single category as of the last record.
func (s *Service) Recorded(_ context.Context, category string) ([]catalog.Row, error) {
	c, err := models.ParseCategory(category)
	if err != nil {
		return nil, err
	}
	if s.catalog == nil {
		return nil, ErrRecordingDisabled
	}
	rows, err := s.catalog.Components(c)
	if err != nil {
		return nil, err
	}
	if rows == nil {
		rows = []catalog.Row{}
	}
	return rows, nil
}

// History returns recent catalog records, newest first.
func (s *Service) History(_ context.Context, limit int) ([]catalog.ScanRecord, error) {
	if s.catalog == nil {
		return nil, ErrRecordingDisabled
	}
	return s.catalog.History(limit)
}
