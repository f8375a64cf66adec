package main

import (
	"context"
	"fmt"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/starford/kitscan/internal"
	"github.com/starford/kitscan/internal/report"
)

func scanRequest(cmd *cli.Command) (internal.ScanRequest, error) {
	format, err := report.ParseFormat(cmd.String("format"))
	if err != nil {
		return internal.ScanRequest{}, err
	}
	if cmd.Bool("json") {
		format = report.FormatJSON
	}

	req := internal.ScanRequest{
		Selector:  cmd.String("type"),
		Scenarios: cmd.Bool("scenarios"),
		Format:    format,
		Out:       os.Stdout,
	}
	if cmd.Bool("no-color") {
		off := false
		req.Color = &off
	}
	return req, nil
}

func runScan(ctx context.Context, cmd *cli.Command) error {
	if cmd.Args().Present() {
		return fmt.Errorf("unexpected argument %q; see --help", cmd.Args().First())
	}
	req, err := scanRequest(cmd)
	if err != nil {
		return err
	}
	opts, err := loadOptions(cmd)
	if err != nil {
		return err
	}
	return internal.Scan(ctx, req, opts...)
}

func runWatch(ctx context.Context, cmd *cli.Command) error {
	req, err := scanRequest(cmd)
	if err != nil {
		return err
	}
	opts, err := loadOptions(cmd)
	if err != nil {
		return err
	}

	ctx, stop := signalContext(ctx)
	defer stop()
	return internal.Watch(ctx, req, opts...)
}

func runServe(ctx context.Context, cmd *cli.Command) error {
	opts, err := loadOptions(cmd)
	if err != nil {
		return err
	}
	if err := internal.Run(ctx, opts...); err != nil {
		return fmt.Errorf("app run error: %w", err)
	}
	return nil
}

func runMCP(ctx context.Context, cmd *cli.Command) error {
	opts, err := loadOptions(cmd)
	if err != nil {
		return err
	}
	return internal.ServeMCP(ctx, opts...)
}
