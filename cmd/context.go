package cmd

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/masmgr/logospots/config"
	"github.com/masmgr/logospots/internal/aggregation"
	"github.com/masmgr/logospots/internal/apiclient"
	"github.com/masmgr/logospots/internal/cache"
	"github.com/masmgr/logospots/internal/input"
	"github.com/masmgr/logospots/internal/output"
	"github.com/masmgr/logospots/internal/pipeline"
	"github.com/masmgr/logospots/internal/vision"
)

// CommandContext holds common state for command execution.
// It encapsulates the shared setup logic across the ingesting commands.
type CommandContext struct {
	Config    *config.Config
	Logger    *slog.Logger
	Source    string
	Collector *aggregation.Collector
	Summary   pipeline.Summary
}

// NewCommandContext creates a context from CLI flags.
// It loads configuration, replays the response cache, fetches uncached images
// unless running offline, and persists the cache before returning.
func NewCommandContext(c *cli.Context) (*CommandContext, error) {
	cfg, err := loadConfig(c)
	if err != nil {
		return nil, err
	}
	logger, err := newLogger(c)
	if err != nil {
		return nil, err
	}
	offline := c.Bool("offline")

	urls, err := input.LoadURLs(cfg.Input.CSVPath, input.LoadOptions{
		Delimiter: cfg.Input.Delimiter,
		Include:   cfg.Filters.Include,
		Exclude:   cfg.Filters.Exclude,
	})
	if err != nil {
		if !offline || !errors.Is(err, fs.ErrNotExist) {
			return nil, err
		}
		logger.Debug("url list not found, using cached responses only", "path", cfg.Input.CSVPath)
		urls = nil
	}

	rc, err := openCache(c, cfg)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err := rc.Close(); err != nil {
			logger.Warn("failed to close cache", "error", err)
		}
	}()

	var detector apiclient.Detector
	if !offline {
		d, closeDetector, err := newDetector(c, cfg, logger)
		if err != nil {
			return nil, err
		}
		defer closeDetector()
		detector = d
	}

	collector := aggregation.NewCollector(aggregation.CollectorOptions{
		CoOccurrence: cfg.Collector.CoOccurrence,
		LabelInclude: cfg.Filters.Labels.Include,
		LabelExclude: cfg.Filters.Labels.Exclude,
	})
	p := &pipeline.Pipeline{
		Cache:       rc,
		Detector:    detector,
		Collector:   collector,
		Concurrency: cfg.Fetch.Concurrency,
		Strict:      cfg.Collector.Strict,
		Logger:      logger,
	}

	summary, runErr := p.Run(c.Context, urls, cfg.Fetch.Limit)
	if err := persistCache(c.Context, rc); err != nil {
		return nil, errors.Join(runErr, err)
	}
	if runErr != nil {
		return nil, runErr
	}
	collector.FinalizeFrequencyMax()

	logger.Info("ingestion finished",
		"cached", summary.Cached,
		"fetched", summary.Fetched,
		"skipped", summary.Skipped,
		"pending", summary.Pending,
		"images", summary.Images,
	)

	return &CommandContext{
		Config:    cfg,
		Logger:    logger,
		Source:    cfg.Input.CSVPath,
		Collector: collector,
		Summary:   summary,
	}, nil
}

// HasObservations returns true if at least one logo was observed.
func (ctx *CommandContext) HasObservations() bool {
	return ctx.Collector.Observations().Len() > 0
}

// PrintNoLogosMessage prints a message when nothing was observed.
func (ctx *CommandContext) PrintNoLogosMessage() {
	fmt.Println("No logos found in the collected responses.")
}

// persistTimeout bounds the final cache write after the run context is gone.
const persistTimeout = 30 * time.Second

// persistCache writes every cached response even when ctx was cancelled by an
// interrupt, so responses fetched before the interrupt are kept.
func persistCache(ctx context.Context, rc *cache.ResponseCache) error {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), persistTimeout)
	defer cancel()

	if err := rc.PersistAll(ctx); err != nil {
		return fmt.Errorf("failed to persist cache: %w", err)
	}
	return nil
}

// openCache opens the configured backend and loads every stored response.
func openCache(c *cli.Context, cfg *config.Config) (*cache.ResponseCache, error) {
	backend, err := cache.Open(cfg.Cache)
	if err != nil {
		return nil, fmt.Errorf("failed to open cache: %w", err)
	}
	rc := cache.New(backend)
	if err := rc.LoadAll(c.Context); err != nil {
		_ = rc.Close()
		return nil, fmt.Errorf("failed to load cache: %w", err)
	}
	return rc, nil
}

// newDetector builds the configured recognition backend and its release func.
func newDetector(c *cli.Context, cfg *config.Config, logger *slog.Logger) (apiclient.Detector, func(), error) {
	switch cfg.Detector.Kind {
	case config.DetectorAPI, "":
		if cfg.API.Endpoint == "" {
			return nil, nil, errors.New("no API endpoint configured (set api.endpoint or use --offline)")
		}
		if cfg.APIKey == "" {
			return nil, nil, fmt.Errorf("no API key found (set %s or use --offline)", config.APIKeyEnv)
		}
		client := apiclient.New(cfg.API, cfg.APIKey, nil, logger)
		return client, func() {}, nil
	case config.DetectorVision:
		d, err := vision.NewDetector(c.Context, nil, logger)
		if err != nil {
			return nil, nil, err
		}
		return d, func() {
			if err := d.Close(); err != nil {
				logger.Warn("failed to close vision client", "error", err)
			}
		}, nil
	default:
		return nil, nil, fmt.Errorf("unknown detector %q", cfg.Detector.Kind)
	}
}

// OutputOptions creates OutputOptions from CLI flags and configuration.
func OutputOptions(c *cli.Context, cfg *config.Config) (output.OutputOptions, error) {
	features, err := output.ParseFeatures(cfg.Report.ChartFeatures)
	if err != nil {
		return output.OutputOptions{}, err
	}
	return output.OutputOptions{
		Format:        getOutputFormat(c.String("format")),
		Top:           cfg.Report.Top,
		OutputPath:    c.String("output"),
		Explain:       c.Bool("explain"),
		ChartFeatures: features,
	}, nil
}
