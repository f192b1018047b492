// Package pipeline feeds cached and freshly fetched responses into a collector.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"github.com/masmgr/logospots/internal/aggregation"
	"github.com/masmgr/logospots/internal/apiclient"
	"github.com/masmgr/logospots/internal/cache"
	"github.com/masmgr/logospots/internal/response"
)

// Summary reports what a run did.
type Summary struct {
	Cached  int // cached responses replayed
	Fetched int // responses fetched in this run
	Skipped int // malformed responses left out
	Pending int // uncached URLs not fetched because of the limit or offline mode
	Images  int // responses ingested
}

// Pipeline wires a cache and a detector to a collector.
type Pipeline struct {
	Cache       *cache.ResponseCache
	Detector    apiclient.Detector // nil runs offline
	Collector   *aggregation.Collector
	Concurrency int
	Strict      bool // fail on malformed responses instead of skipping them
	Logger      *slog.Logger
}

// Run replays every cached response in key order, then fetches up to limit
// uncached URLs (all when limit <= 0) and ingests them in list order.
// Responses fetched before an error are still saved to the cache.
func (p *Pipeline) Run(ctx context.Context, urls []string, limit int) (Summary, error) {
	logger := p.Logger
	if logger == nil {
		logger = slog.Default()
	}

	var summary Summary

	for _, key := range p.Cache.Keys() {
		r, _ := p.Cache.Load(key)
		summary.Cached++
		ok, err := p.ingest(key, r, logger)
		if err != nil {
			return summary, err
		}
		if !ok {
			summary.Skipped++
		}
	}

	pending := p.uncached(urls)
	selected := pending
	if limit > 0 && len(selected) > limit {
		selected = selected[:limit]
	}
	if p.Detector == nil {
		selected = nil
	}
	summary.Pending = len(pending) - len(selected)

	results, err := p.fetch(ctx, selected, logger)
	for _, r := range results {
		if r != nil {
			summary.Fetched++
		}
	}
	if err != nil {
		return summary, err
	}

	for i, r := range results {
		ok, err := p.ingest(selected[i], *r, logger)
		if err != nil {
			return summary, err
		}
		if !ok {
			summary.Skipped++
		}
	}

	summary.Images = p.Collector.Images()
	return summary, nil
}

// uncached returns the URLs without a cached response, keeping list order.
func (p *Pipeline) uncached(urls []string) []string {
	out := make([]string, 0, len(urls))
	for _, u := range urls {
		if _, ok := p.Cache.Load(u); !ok {
			out = append(out, u)
		}
	}
	return out
}

// fetch detects urls concurrently. results[i] belongs to urls[i] and is nil when
// that fetch failed or never ran.
func (p *Pipeline) fetch(ctx context.Context, urls []string, logger *slog.Logger) ([]*response.Response, error) {
	results := make([]*response.Response, len(urls))
	if len(urls) == 0 {
		return results, nil
	}

	limit := p.Concurrency
	if limit < 1 {
		limit = 1
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)
	for i, u := range urls {
		g.Go(func() error {
			r, err := p.Detector.Detect(gctx, u)
			if err != nil {
				return fmt.Errorf("detect %s: %w", u, err)
			}
			p.Cache.Save(u, *r)
			results[i] = r
			logger.Debug("fetched response", "url", u, "logos", len(r.Polygons()))
			return nil
		})
	}
	return results, g.Wait()
}

// ingest feeds one response to the collector. It reports false when a malformed
// response was skipped.
func (p *Pipeline) ingest(key string, r response.Response, logger *slog.Logger) (bool, error) {
	err := p.Collector.Ingest(r)
	if err == nil {
		return true, nil
	}
	if p.Strict || !errors.Is(err, response.ErrMalformed) {
		return false, fmt.Errorf("ingest %s: %w", key, err)
	}
	logger.Warn("skipping malformed response", "url", key, "error", err)
	return false, nil
}
