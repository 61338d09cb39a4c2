// Package ingest runs one pull: fetch every page, flatten each athlete and
// write the rows to CSV.
package ingest

import (
	"context"
	"fmt"
	"time"

	"github.com/courtside/espn-player-stats/pkg/athletes"
	"github.com/courtside/espn-player-stats/pkg/export"
	"github.com/courtside/espn-player-stats/pkg/logging"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/rs/zerolog"
)

var espnRowsFlattenedTotal = promauto.NewCounter(prometheus.CounterOpts{
	Name: "espn_rows_flattened_total",
	Help: "Total athlete rows flattened and written to CSV",
})

// PageSource returns every page of an endpoint in page order.
// *pagination.BatchFetcher satisfies it.
type PageSource interface {
	FetchAllPages(ctx context.Context, endpoint string) ([]athletes.Page, error)
}

// Result summarizes a finished pull.
type Result struct {
	Pages    int
	Rows     int
	Output   string
	Duration time.Duration
}

// Pipeline wires a page source to the CSV writer.
type Pipeline struct {
	source PageSource
	logger zerolog.Logger
}

// New creates a pipeline reading from source.
func New(source PageSource) *Pipeline {
	return &Pipeline{
		source: source,
		logger: logging.NewLogger("ingest"),
	}
}

// Run fetches baseURL and writes the flattened rows to outPath. Nothing is
// written when any page fails.
func (p *Pipeline) Run(ctx context.Context, baseURL, outPath string) (Result, error) {
	start := time.Now()

	pages, err := p.source.FetchAllPages(ctx, baseURL)
	if err != nil {
		return Result{}, fmt.Errorf("fetch pages: %w", err)
	}

	rows := athletes.FlattenPages(pages)
	if err := export.WriteCSV(outPath, athletes.Columns(), rows); err != nil {
		return Result{}, fmt.Errorf("write %s: %w", outPath, err)
	}
	espnRowsFlattenedTotal.Add(float64(len(rows)))

	result := Result{
		Pages:    len(pages),
		Rows:     len(rows),
		Output:   outPath,
		Duration: time.Since(start),
	}

	p.logger.Info().
		Int("total_pages", result.Pages).
		Int("rows", result.Rows).
		Str("path", result.Output).
		Dur("duration", result.Duration).
		Msg("Pull complete")

	return result, nil
}
