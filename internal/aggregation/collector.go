// Package aggregation turns recognition responses into per-logo observations and
// tracks the maxima needed to normalize them.
package aggregation

import (
	"fmt"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/masmgr/logospots/config"
	"github.com/masmgr/logospots/internal/geometry"
	"github.com/masmgr/logospots/internal/response"
)

// CollectorOptions configures observation extraction.
type CollectorOptions struct {
	CoOccurrence config.CoOccurrenceMode
	LabelInclude []string // Glob patterns; empty accepts every label
	LabelExclude []string
}

// Collector accumulates observations from responses. It is not safe for concurrent
// use; a single ingestion pass owns it.
type Collector struct {
	opts   CollectorOptions
	set    *ObservationSet
	maxima RunningMaxima
	images int
	labels [][]string // distinct accepted labels per ingested image
}

// NewCollector creates a collector with an empty observation set.
func NewCollector(opts CollectorOptions) *Collector {
	if opts.CoOccurrence == "" {
		opts.CoOccurrence = config.CoOccurrenceOthers
	}
	return &Collector{
		opts: opts,
		set:  NewObservationSet(),
	}
}

// Ingest extracts one observation per detected polygon and appends them.
// A malformed response is rejected before anything is appended.
func (c *Collector) Ingest(r response.Response) error {
	if err := r.Validate(); err != nil {
		return err
	}

	width, height := r.Width(), r.Height()
	shared := c.coOccurrence(r.DistinctLabels())

	type labeled struct {
		logo string
		obs  Observation
	}
	pending := make([]labeled, 0, len(r.Polygons()))
	var distinct []string
	seen := make(map[string]struct{})

	for i, poly := range r.Polygons() {
		logo := poly.Label()
		if !c.acceptsLabel(logo) {
			continue
		}

		corners := poly.Corners()
		logoW, logoH := geometry.Extent(corners)
		centrality, err := geometry.CentralityRating(width, height, logoW, logoH, corners)
		if err != nil {
			return fmt.Errorf("%w: polygon %d: %v", response.ErrMalformed, i, err)
		}

		if _, ok := seen[logo]; !ok {
			seen[logo] = struct{}{}
			distinct = append(distinct, logo)
		}
		pending = append(pending, labeled{
			logo: logo,
			obs: Observation{
				Clarity:      poly.Clarity(),
				Area:         geometry.PolygonArea(corners),
				Centrality:   centrality,
				CoOccurrence: shared,
			},
		})
	}

	for _, p := range pending {
		c.set.Append(p.logo, p.obs)
		c.maxima.observe(p.obs)
	}
	c.images++
	c.labels = append(c.labels, distinct)
	return nil
}

// FinalizeFrequencyMax records the largest per-logo observation count. It must run
// after the last Ingest and before statistics are computed.
func (c *Collector) FinalizeFrequencyMax() {
	c.maxima.MaxFrequency = c.set.MaxCount()
	c.maxima.finalized = true
}

// Observations returns the accumulated observation set.
func (c *Collector) Observations() *ObservationSet {
	return c.set
}

// Maxima returns a snapshot of the running maxima.
func (c *Collector) Maxima() RunningMaxima {
	return c.maxima
}

// LabelSets returns the distinct accepted labels of each ingested image, in
// ingestion order.
func (c *Collector) LabelSets() [][]string {
	return c.labels
}

// Images returns the number of responses ingested.
func (c *Collector) Images() int {
	return c.images
}

func (c *Collector) coOccurrence(distinct int) int {
	if c.opts.CoOccurrence == config.CoOccurrenceDistinct {
		return distinct
	}
	if distinct == 0 {
		return 0
	}
	return distinct - 1
}

// acceptsLabel checks a logo label against the include/exclude filters.
func (c *Collector) acceptsLabel(label string) bool {
	for _, pattern := range c.opts.LabelExclude {
		if matched, _ := doublestar.Match(pattern, label); matched {
			return false
		}
	}

	if len(c.opts.LabelInclude) == 0 {
		return true
	}

	for _, pattern := range c.opts.LabelInclude {
		if matched, _ := doublestar.Match(pattern, label); matched {
			return true
		}
	}

	return false
}
