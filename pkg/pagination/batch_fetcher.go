package pagination

import (
	"context"
	"fmt"
	"time"

	"github.com/courtside/espn-player-stats/pkg/athletes"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/rs/zerolog/log"
	"github.com/sourcegraph/conc/pool"
)

// DiscoveryPage asks a PageFetcher for the endpoint without a page
// parameter.
const DiscoveryPage = 0

var espnPagesFetchedTotal = promauto.NewCounter(prometheus.CounterOpts{
	Name: "espn_pages_fetched_total",
	Help: "Total statistics pages fetched by the batch fetcher",
})

// Config holds batch fetcher configuration
type Config struct {
	// MaxConcurrency caps parallel page requests; 0 means no cap
	MaxConcurrency int

	// RefetchFirstPage requests page 1 again instead of reusing the
	// discovery response. Both produce the same rows.
	RefetchFirstPage bool
}

// DefaultConfig returns an uncapped configuration that refetches page 1.
func DefaultConfig() Config {
	return Config{
		MaxConcurrency:   0,
		RefetchFirstPage: true,
	}
}

// PageFetcher fetches and decodes a single page.
type PageFetcher interface {
	// FetchPage fetches one page; pageNum DiscoveryPage means no page parameter
	FetchPage(ctx context.Context, endpoint string, pageNum int) (athletes.Page, error)
}

// BatchFetcher handles parallel fetching of multiple pages
type BatchFetcher struct {
	fetcher PageFetcher
	config  Config
}

// NewBatchFetcher creates a new batch fetcher
func NewBatchFetcher(fetcher PageFetcher, config Config) *BatchFetcher {
	if config.MaxConcurrency < 0 {
		config.MaxConcurrency = 0
	}

	return &BatchFetcher{
		fetcher: fetcher,
		config:  config,
	}
}

// FetchAllPages fetches every page of endpoint and returns them ordered by
// page number. Any failed page fails the whole call with no partial result.
func (bf *BatchFetcher) FetchAllPages(ctx context.Context, endpoint string) ([]athletes.Page, error) {
	start := time.Now()

	first, err := bf.fetcher.FetchPage(ctx, endpoint, DiscoveryPage)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch first page: %w", err)
	}
	first.Number = 1
	espnPagesFetchedTotal.Inc()

	totalPages := max(first.TotalPages, 1)

	log.Info().
		Str("url", endpoint).
		Int("total_pages", totalPages).
		Bool("refetch_first_page", bf.config.RefetchFirstPage).
		Msg("Starting parallel page fetch")

	// Each task owns one slot, so no lock is needed.
	pages := make([]athletes.Page, totalPages)

	base := pool.New()
	if bf.config.MaxConcurrency > 0 {
		base = base.WithMaxGoroutines(bf.config.MaxConcurrency)
	}
	p := base.WithErrors().WithContext(ctx).WithCancelOnError().WithFirstError()

	for pageNum := 1; pageNum <= totalPages; pageNum++ {
		if pageNum == 1 && !bf.config.RefetchFirstPage {
			pages[0] = first
			continue
		}

		p.Go(func(ctx context.Context) error {
			page, err := bf.fetcher.FetchPage(ctx, endpoint, pageNum)
			if err != nil {
				log.Warn().
					Err(err).
					Int("page", pageNum).
					Msg("Page fetch failed")
				return fmt.Errorf("page %d: %w", pageNum, err)
			}
			page.Number = pageNum
			pages[pageNum-1] = page
			espnPagesFetchedTotal.Inc()
			return nil
		})
	}

	if err := p.Wait(); err != nil {
		return nil, err
	}

	log.Info().
		Str("url", endpoint).
		Int("pages", totalPages).
		Dur("duration", time.Since(start)).
		Msg("Fetch complete")

	return pages, nil
}
