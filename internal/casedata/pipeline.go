package casedata

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/jengzang/casemap-backend-go/internal/models"
)

// Fetcher loads one metric table
type Fetcher interface {
	Fetch(ctx context.Context, metric models.MetricName) (*models.RawTable, error)
}

// LoadReport describes a completed pipeline run
type LoadReport struct {
	Passes   []IngestStats `json:"passes"`
	Duration time.Duration `json:"duration"`
}

// CoercedCells returns the total cells coerced to 0 across all passes
func (r LoadReport) CoercedCells() int {
	n := 0
	for _, p := range r.Passes {
		n += p.CoercedCells
	}
	return n
}

// SchemaDrift returns the total drift findings across all passes
func (r LoadReport) SchemaDrift() int {
	n := 0
	for _, p := range r.Passes {
		n += p.SchemaDrift
	}
	return n
}

// Pipeline fetches and merges the three metric tables
type Pipeline struct {
	fetcher Fetcher
	opts    Options
}

// NewPipeline creates a pipeline over the given fetcher
func NewPipeline(fetcher Fetcher, opts Options) *Pipeline {
	return &Pipeline{fetcher: fetcher, opts: opts}
}

// Run fetches Confirmed, Recovered and Deaths strictly in sequence, ingesting
// each table fully before the next fetch starts, then builds the dataset.
// A failed fetch aborts the run with a FetchError; nothing is retried.
func (p *Pipeline) Run(ctx context.Context) (*Dataset, error) {
	start := time.Now()
	agg := NewAggregator(p.opts)
	report := LoadReport{}

	for _, metric := range models.FetchedMetrics {
		if err := ctx.Err(); err != nil {
			return nil, &FetchError{Metric: metric, Err: err}
		}

		table, err := p.fetcher.Fetch(ctx, metric)
		if err != nil {
			return nil, &FetchError{Metric: metric, Err: err}
		}

		stats, err := agg.Ingest(metric, table.Rows)
		report.Passes = append(report.Passes, stats)
		if err != nil {
			return nil, fmt.Errorf("failed to ingest %s table: %w", metric, err)
		}

		log.Printf("[Pipeline] %s: %d rows, %d skipped, %d new identities, %d coerced cells",
			metric, stats.Rows, stats.Skipped, stats.NewIdentities, stats.CoercedCells)
	}

	report.Duration = time.Since(start)
	ds, err := NewDataset(agg.Records(), agg.DateKeys(), report)
	if err != nil {
		return nil, err
	}

	log.Printf("[Pipeline] Loaded %d records over %d dates in %v", ds.Len(), ds.Timeline.Len(), report.Duration)
	return ds, nil
}
