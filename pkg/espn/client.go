// Package espn provides the HTTP client for ESPN's statistics-by-athlete
// endpoint: single GETs with status classification, request metrics and
// an optional Redis page cache.
package espn

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/courtside/espn-player-stats/pkg/athletes"
	"github.com/courtside/espn-player-stats/pkg/cache"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// DefaultBaseURL is the men's college basketball statistics endpoint,
// 50 athletes per page.
const DefaultBaseURL = "https://site.web.api.espn.com/apis/common/v3/sports/basketball/mens-college-basketball/statistics/byathlete?limit=50"

// DefaultTimeout is applied to every request.
const DefaultTimeout = 10 * time.Second

// Prometheus metrics for ESPN client operations.
var (
	espnRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "espn_requests_total",
		Help: "Total ESPN requests by status",
	}, []string{"status"})

	espnRequestDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "espn_request_duration_seconds",
		Help:    "ESPN request duration in seconds",
		Buckets: []float64{0.1, 0.25, 0.5, 1, 2, 5, 10},
	})

	espnErrorsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "espn_errors_total",
		Help: "Total ESPN errors by class",
	}, []string{"class"})
)

// Client is the ESPN statistics client.
type Client struct {
	httpClient *http.Client
	cache      *cache.Manager
	config     Config
	logger     zerolog.Logger
}

// Config holds the client configuration.
type Config struct {
	// User-Agent header sent with every request
	UserAgent string

	// Timeout applied uniformly to every request. No retries.
	Timeout time.Duration

	// Cache is optional; nil disables page caching
	Cache *cache.Manager
}

// DefaultConfig returns the default configuration.
func DefaultConfig(userAgent string) Config {
	return Config{
		UserAgent: userAgent,
		Timeout:   DefaultTimeout,
	}
}

// New creates a new ESPN client.
func New(cfg Config) (*Client, error) {
	if cfg.UserAgent == "" {
		return nil, fmt.Errorf("user-agent is required")
	}

	if cfg.Timeout <= 0 {
		return nil, fmt.Errorf("timeout must be positive (got %s)", cfg.Timeout)
	}

	return &Client{
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
		cache:  cfg.Cache,
		config: cfg,
		logger: log.With().Str("component", "espn-client").Logger(),
	}, nil
}

// Get fetches rawURL and returns the body of a 2xx response.
// Any other status or a transport failure returns an *APIError.
func (c *Client) Get(ctx context.Context, rawURL string) ([]byte, error) {
	startTime := time.Now()
	defer func() {
		espnRequestDuration.Observe(time.Since(startTime).Seconds())
	}()

	cacheKey, cached := c.lookupCache(ctx, rawURL)
	if cached != nil {
		return cached, nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", c.config.UserAgent)
	req.Header.Set("Accept", "application/json")

	c.logger.Debug().Str("url", rawURL).Msg("Executing ESPN request")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		espnErrorsTotal.WithLabelValues(string(ErrorClassNetwork)).Inc()
		espnRequestsTotal.WithLabelValues("network_error").Inc()
		return nil, &APIError{
			URL:        rawURL,
			ErrorClass: ErrorClassNetwork,
			Message:    "request failed",
			Err:        err,
		}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		espnErrorsTotal.WithLabelValues(string(ErrorClassNetwork)).Inc()
		espnRequestsTotal.WithLabelValues("network_error").Inc()
		return nil, &APIError{
			URL:        rawURL,
			StatusCode: resp.StatusCode,
			ErrorClass: ErrorClassNetwork,
			Message:    "read body",
			Err:        err,
		}
	}

	status := strconv.Itoa(resp.StatusCode)
	espnRequestsTotal.WithLabelValues(status).Inc()

	if !isSuccess(resp.StatusCode) {
		errClass := classifyStatus(resp.StatusCode)
		espnErrorsTotal.WithLabelValues(string(errClass)).Inc()

		c.logger.Warn().
			Str("url", rawURL).
			Int("status_code", resp.StatusCode).
			Str("error_class", string(errClass)).
			Msg("ESPN request error")

		return nil, &APIError{
			URL:        rawURL,
			StatusCode: resp.StatusCode,
			ErrorClass: errClass,
			Message:    resp.Status,
			Body:       truncateBody(body),
		}
	}

	c.storeCache(ctx, cacheKey, body, resp)

	return body, nil
}

// lookupCache returns the cached body for rawURL, or nil on a miss or when
// caching is off. Cache failures are logged and treated as misses.
func (c *Client) lookupCache(ctx context.Context, rawURL string) (*cache.CacheKey, []byte) {
	if c.cache == nil {
		return nil, nil
	}

	key, err := cache.KeyForURL(rawURL)
	if err != nil {
		return nil, nil
	}

	entry, err := c.cache.Get(ctx, key)
	switch {
	case err == nil:
		c.logger.Debug().Str("url", rawURL).Bool("cache_hit", true).Msg("Serving page from cache")
		return &key, entry.Data
	case !errors.Is(err, cache.ErrCacheMiss):
		c.logger.Warn().Err(err).Str("url", rawURL).Msg("Cache get error")
	}

	return &key, nil
}

func (c *Client) storeCache(ctx context.Context, key *cache.CacheKey, body []byte, resp *http.Response) {
	if c.cache == nil || key == nil {
		return
	}

	entry := cache.NewEntry(body, resp.StatusCode, resp.Header, c.cache.TTL())
	if err := c.cache.Set(ctx, *key, entry); err != nil {
		c.logger.Warn().Err(err).Msg("Failed to cache response")
		return
	}

	c.logger.Debug().
		Str("url", resp.Request.URL.String()).
		Dur("ttl", entry.TTL()).
		Msg("Cached response")
}

// FetchPage fetches and decodes one page of the statistics endpoint.
// pageNum 0 requests baseURL unchanged, which the API answers with page 1.
func (c *Client) FetchPage(ctx context.Context, baseURL string, pageNum int) (athletes.Page, error) {
	pageURL := baseURL
	if pageNum > 0 {
		var err error
		pageURL, err = PageURL(baseURL, pageNum)
		if err != nil {
			return athletes.Page{}, err
		}
	}

	body, err := c.Get(ctx, pageURL)
	if err != nil {
		return athletes.Page{}, err
	}

	page, err := athletes.DecodePage(body)
	if err != nil {
		return athletes.Page{}, fmt.Errorf("decode %s: %w", pageURL, err)
	}
	page.Number = max(pageNum, 1)

	return page, nil
}

// PageURL sets the page query parameter on baseURL.
func PageURL(baseURL string, pageNum int) (string, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return "", fmt.Errorf("parse base url: %w", err)
	}
	q := u.Query()
	q.Set("page", strconv.Itoa(pageNum))
	u.RawQuery = q.Encode()
	return u.String(), nil
}

// SetHTTPClient sets a custom HTTP client (for testing).
func (c *Client) SetHTTPClient(client *http.Client) {
	c.httpClient = client
}
