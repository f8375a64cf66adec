package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	_ "github.com/joho/godotenv/autoload"
	"github.com/urfave/cli/v3"

	"github.com/starford/kitscan/internal"
	pkgconfig "github.com/starford/kitscan/pkg/config"
)

// version is overridden at build time with -ldflags "-X main.version=...".
var version = "dev"

func main() {
	cmd := &cli.Command{
		Name:    "kitscan",
		Usage:   "Scan .claude/ commands, agents, skills, and workflows and generate test scenarios",
		Version: version,
		Action:  runScan,
		Flags:   append(globalFlags(), scanFlags()...),
		Commands: []*cli.Command{
			{
				Name:   "watch",
				Usage:  "Scan, then rescan and report whenever the component tree changes",
				Flags:  append(globalFlags(), scanFlags()...),
				Action: runWatch,
			},
			{
				Name:   "serve",
				Usage:  "Serve scan results over HTTP with live updates",
				Flags:  append(globalFlags(), recordFlag()),
				Action: runServe,
			},
			{
				Name:   "mcp",
				Usage:  "Serve scanning tools to MCP clients over stdio",
				Flags:  append(globalFlags(), recordFlag()),
				Action: runMCP,
			},
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		slog.Error("application error", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

func globalFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "config",
			Aliases:     []string{"c"},
			Usage:       "Path to config file (optional)",
			DefaultText: "config/config.yaml",
			Value:       "config/config.yaml",
			Sources:     cli.EnvVars("APP_CONFIG_FILE"),
		},
		&cli.StringFlag{
			Name:    "root",
			Usage:   "Project root containing the component directory (default: discovered)",
			Sources: cli.EnvVars("KITSCAN_ROOT"),
		},
	}
}

func recordFlag() cli.Flag {
	return &cli.BoolFlag{
		Name:  "record",
		Usage: "Record scans in the catalog and report changes",
	}
}

func scanFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "type",
			Aliases: []string{"t"},
			Usage:   "Component type: all, commands, agents, skills, workflows",
			Value:   "all",
		},
		&cli.BoolFlag{
			Name:  "scenarios",
			Usage: "Generate test scenarios for commands",
		},
		&cli.BoolFlag{
			Name:  "json",
			Usage: "Output JSON (same as --format json)",
		},
		&cli.StringFlag{
			Name:    "format",
			Aliases: []string{"f"},
			Usage:   "Output format: text, json, yaml",
			Value:   "text",
		},
		&cli.BoolFlag{
			Name:  "no-color",
			Usage: "Disable colored text output",
		},
		recordFlag(),
	}
}

// loadOptions reads the config file, if present, and turns flags into
// application options.
func loadOptions(cmd *cli.Command) ([]internal.Option, error) {
	configPath := cmd.String("config")

	cfg := internal.NewDefaultConfig()
	loaded, err := pkgconfig.LoadOptional(configPath, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if !loaded && cmd.IsSet("config") {
		return nil, fmt.Errorf("config file not found: %s", configPath)
	}

	return []internal.Option{
		internal.WithConfig(cfg),
		internal.WithRoot(cmd.String("root")),
		internal.WithRecording(cmd.Bool("record")),
		internal.WithVersion(version),
	}, nil
}
