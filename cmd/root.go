package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/urfave/cli/v2"

	"github.com/masmgr/logospots/config"
	"github.com/masmgr/logospots/internal/logging"
	"github.com/masmgr/logospots/internal/output"
)

// App creates the CLI application.
func App() *cli.App {
	return &cli.App{
		Name:    "logospots",
		Usage:   "Logo placement statistics from image recognition results",
		Version: "1.0.0",
		Commands: []*cli.Command{
			CollectCmd(),
			AnalyzeCmd(),
			RecommendCmd(),
			PairsCmd(),
			CacheCmd(),
		},
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to configuration file",
			},
			&cli.StringFlag{
				Name:  "log-level",
				Usage: "Log level (debug, info, warn, error)",
				Value: "info",
			},
			&cli.StringFlag{
				Name:  "log-format",
				Usage: "Log format (text, json)",
				Value: "text",
			},
		},
	}
}

// Common flags shared by commands that ingest responses
func commonFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "input",
			Aliases: []string{"i"},
			Usage:   "CSV file listing image URLs (first column)",
		},
		&cli.StringFlag{
			Name:  "delimiter",
			Usage: "Field delimiter of the input file",
		},
		&cli.StringSliceFlag{
			Name:  "include",
			Usage: "Glob patterns an image URL must match (can be specified multiple times)",
		},
		&cli.StringSliceFlag{
			Name:  "exclude",
			Usage: "Glob patterns of image URLs to skip (can be specified multiple times)",
		},
		&cli.StringSliceFlag{
			Name:  "label-include",
			Usage: "Glob patterns of logo labels to keep",
		},
		&cli.StringSliceFlag{
			Name:  "label-exclude",
			Usage: "Glob patterns of logo labels to drop",
		},
		&cli.StringFlag{
			Name:  "co-occurrence",
			Usage: "Co-occurrence counting (others, distinct)",
		},
		&cli.IntFlag{
			Name:    "limit",
			Aliases: []string{"l"},
			Usage:   "Maximum number of uncached images to fetch (0 = all)",
		},
		&cli.IntFlag{
			Name:  "concurrency",
			Usage: "Number of concurrent recognition requests",
		},
		&cli.BoolFlag{
			Name:  "offline",
			Usage: "Use cached responses only",
		},
		&cli.BoolFlag{
			Name:  "strict",
			Usage: "Fail on malformed cached responses instead of skipping them",
		},
		&cli.StringFlag{
			Name:  "detector",
			Usage: "Recognition backend (api, vision)",
		},
		&cli.StringFlag{
			Name:  "cache-backend",
			Usage: "Response cache backend (file, sqlite, redis)",
		},
	}
}

// Report flags shared by commands that print rankings
func reportFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "format",
			Aliases: []string{"f"},
			Usage:   "Output format (console, json, csv, markdown, ci, xlsx)",
			Value:   "console",
		},
		&cli.IntFlag{
			Name:    "top",
			Aliases: []string{"n"},
			Usage:   "Number of top logos to show (0 = all)",
		},
		&cli.StringFlag{
			Name:    "output",
			Aliases: []string{"o"},
			Usage:   "Output file path (default: stdout)",
		},
		&cli.BoolFlag{
			Name:  "explain",
			Usage: "Show rating breakdown",
		},
		&cli.StringSliceFlag{
			Name:  "chart",
			Usage: "Feature to chart in xlsx output (rating, frequency, clarity, area, centrality, co-occurrence)",
		},
	}
}

// getOutputFormat parses the output format flag.
func getOutputFormat(s string) output.OutputFormat {
	switch strings.ToLower(s) {
	case "json":
		return output.FormatJSON
	case "csv":
		return output.FormatCSV
	case "markdown", "md":
		return output.FormatMarkdown
	case "ci", "ndjson":
		return output.FormatCI
	case "xlsx", "excel":
		return output.FormatXLSX
	default:
		return output.FormatConsole
	}
}

// loadConfig loads configuration from file or defaults and applies CLI overrides.
func loadConfig(c *cli.Context) (*config.Config, error) {
	configPath := c.String("config")
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	if input := c.String("input"); input != "" {
		cfg.Input.CSVPath = input
	}
	if delimiter := c.String("delimiter"); delimiter != "" {
		cfg.Input.Delimiter = delimiter
	}

	// Apply filter overrides from CLI
	if includes := c.StringSlice("include"); len(includes) > 0 {
		cfg.Filters.Include = includes
	}
	if excludes := c.StringSlice("exclude"); len(excludes) > 0 {
		cfg.Filters.Exclude = excludes
	}
	if includes := c.StringSlice("label-include"); len(includes) > 0 {
		cfg.Filters.Labels.Include = includes
	}
	if excludes := c.StringSlice("label-exclude"); len(excludes) > 0 {
		cfg.Filters.Labels.Exclude = excludes
	}

	if mode := c.String("co-occurrence"); mode != "" {
		parsed, err := config.ParseCoOccurrence(mode)
		if err != nil {
			return nil, err
		}
		cfg.Collector.CoOccurrence = parsed
	}
	if c.Bool("strict") {
		cfg.Collector.Strict = true
	}
	if c.IsSet("limit") {
		cfg.Fetch.Limit = c.Int("limit")
	}
	if concurrency := c.Int("concurrency"); concurrency > 0 {
		cfg.Fetch.Concurrency = concurrency
	}
	if detector := c.String("detector"); detector != "" {
		cfg.Detector.Kind = config.DetectorKind(strings.ToLower(detector))
	}
	if backend := c.String("cache-backend"); backend != "" {
		cfg.Cache.Backend = config.CacheBackend(strings.ToLower(backend))
	}
	if c.IsSet("top") {
		cfg.Report.Top = c.Int("top")
	}
	if charts := c.StringSlice("chart"); len(charts) > 0 {
		cfg.Report.ChartFeatures = charts
	}

	return cfg, nil
}

// newLogger builds the logger from the global flags.
func newLogger(c *cli.Context) (*slog.Logger, error) {
	return logging.New(c.String("log-level"), c.String("log-format"))
}

// Run executes the CLI application.
func Run() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := App().RunContext(ctx, os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		stop()
		os.Exit(1)
	}
}
