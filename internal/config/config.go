// Package config loads the settings of both binaries from flags and the
// environment. A flag beats its environment variable, which beats the default.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"time"

	"github.com/courtside/espn-player-stats/pkg/cache"
	"github.com/courtside/espn-player-stats/pkg/espn"
	"github.com/courtside/espn-player-stats/pkg/logging"
	"github.com/courtside/espn-player-stats/pkg/warehouse"
	flag "github.com/spf13/pflag"
)

const (
	// DefaultOutputCSV is where the fetcher writes and the view builder reads.
	DefaultOutputCSV = "raw/athletes/all_player_basic_data.csv"

	// DefaultDatabasePath is the DuckDB file holding the view.
	DefaultDatabasePath = "espn_analytics/duckdb/espn.duckdb"

	// DefaultUserAgent identifies the fetcher to ESPN.
	DefaultUserAgent = "espn-player-stats/0.1.0"
)

// Getenv looks up an environment variable; os.Getenv satisfies it.
type Getenv func(key string) string

// Logging holds the flags shared by both binaries.
type Logging struct {
	Level  logging.LogLevel
	Pretty bool
}

// Fetcher configures cmd/pull-player-stats.
type Fetcher struct {
	BaseURL          string
	OutputCSV        string
	RequestTimeout   time.Duration
	UserAgent        string
	RefetchFirstPage bool
	RedisAddr        string
	CacheTTL         time.Duration
	MetricsFile      string
	Log              Logging
}

// ViewBuilder configures cmd/create-players-view.
type ViewBuilder struct {
	OutputCSV    string
	DatabasePath string
	ViewName     string
	Log          Logging
}

// env reads typed defaults from the environment, remembering the first
// malformed value.
type env struct {
	getenv Getenv
	err    error
}

func (e *env) str(key, def string) string {
	if v := e.getenv(key); v != "" {
		return v
	}
	return def
}

func (e *env) boolean(key string, def bool) bool {
	v := e.getenv(key)
	if v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		e.fail(fmt.Errorf("%s: invalid boolean %q", key, v))
		return def
	}
	return b
}

func (e *env) duration(key string, def time.Duration) time.Duration {
	v := e.getenv(key)
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		e.fail(fmt.Errorf("%s: invalid duration %q", key, v))
		return def
	}
	return d
}

func (e *env) fail(err error) {
	if e.err == nil {
		e.err = err
	}
}

func newEnv(getenv Getenv) *env {
	if getenv == nil {
		getenv = func(string) string { return "" }
	}
	return &env{getenv: getenv}
}

func registerLogging(fs *flag.FlagSet, e *env) (*string, *bool) {
	level := fs.String("log-level", e.str("LOG_LEVEL", string(logging.LevelInfo)), "log level (debug, info, warn, error)")
	pretty := fs.Bool("log-pretty", e.boolean("LOG_PRETTY", false), "human-readable console logs instead of JSON")
	return level, pretty
}

func parseLogging(level string, pretty bool) (Logging, error) {
	lvl, err := logging.ParseLevel(level)
	if err != nil {
		return Logging{}, err
	}
	return Logging{Level: lvl, Pretty: pretty}, nil
}

// LoadFetcher parses args (without the program name) for the fetcher binary.
// It returns flag.ErrHelp when help was requested.
func LoadFetcher(args []string, getenv Getenv) (Fetcher, error) {
	e := newEnv(getenv)
	fs := flag.NewFlagSet("pull-player-stats", flag.ContinueOnError)

	baseURL := fs.String("url", e.str("ESPN_STATS_URL", espn.DefaultBaseURL), "statistics-by-athlete URL including the limit parameter")
	out := fs.StringP("out", "o", e.str("PLAYER_STATS_CSV", DefaultOutputCSV), "CSV output path")
	timeout := fs.Duration("timeout", e.duration("REQUEST_TIMEOUT", espn.DefaultTimeout), "per-request timeout")
	userAgent := fs.String("user-agent", e.str("USER_AGENT", DefaultUserAgent), "User-Agent header")
	refetch := fs.Bool("refetch-first-page", e.boolean("REFETCH_FIRST_PAGE", true), "request page 1 again during the fan-out")
	redisAddr := fs.String("redis", e.str("REDIS_URL", ""), "Redis address for the page cache (empty disables it)")
	cacheTTL := fs.Duration("cache-ttl", e.duration("CACHE_TTL", cache.DefaultTTL), "page cache TTL when the response has no caching headers")
	metricsFile := fs.String("metrics-file", e.str("METRICS_FILE", ""), "write Prometheus metrics to this file after the run")
	level, pretty := registerLogging(fs, e)

	if e.err != nil {
		return Fetcher{}, e.err
	}
	if err := fs.Parse(args); err != nil {
		return Fetcher{}, err
	}

	logCfg, err := parseLogging(*level, *pretty)
	if err != nil {
		return Fetcher{}, err
	}

	cfg := Fetcher{
		BaseURL:          *baseURL,
		OutputCSV:        *out,
		RequestTimeout:   *timeout,
		UserAgent:        *userAgent,
		RefetchFirstPage: *refetch,
		RedisAddr:        *redisAddr,
		CacheTTL:         *cacheTTL,
		MetricsFile:      *metricsFile,
		Log:              logCfg,
	}
	if err := cfg.Validate(); err != nil {
		return Fetcher{}, err
	}
	return cfg, nil
}

// Validate checks the fetcher settings.
func (c Fetcher) Validate() error {
	if err := validateURL(c.BaseURL); err != nil {
		return err
	}
	if c.OutputCSV == "" {
		return errors.New("output path is required")
	}
	if c.RequestTimeout <= 0 {
		return fmt.Errorf("timeout must be positive (got %s)", c.RequestTimeout)
	}
	if c.UserAgent == "" {
		return errors.New("user-agent is required")
	}
	if c.RedisAddr != "" && c.CacheTTL <= 0 {
		return fmt.Errorf("cache TTL must be positive (got %s)", c.CacheTTL)
	}
	return nil
}

// LoadViewBuilder parses args (without the program name) for the view builder.
// It returns flag.ErrHelp when help was requested.
func LoadViewBuilder(args []string, getenv Getenv) (ViewBuilder, error) {
	e := newEnv(getenv)
	fs := flag.NewFlagSet("create-players-view", flag.ContinueOnError)

	csvPath := fs.StringP("csv", "c", e.str("PLAYER_STATS_CSV", DefaultOutputCSV), "CSV file the view reads")
	dbPath := fs.String("db", e.str("DUCKDB_PATH", DefaultDatabasePath), "DuckDB database file")
	view := fs.String("view", e.str("PLAYERS_VIEW", warehouse.DefaultViewName), "view name, optionally schema-qualified")
	level, pretty := registerLogging(fs, e)

	if e.err != nil {
		return ViewBuilder{}, e.err
	}
	if err := fs.Parse(args); err != nil {
		return ViewBuilder{}, err
	}

	logCfg, err := parseLogging(*level, *pretty)
	if err != nil {
		return ViewBuilder{}, err
	}

	cfg := ViewBuilder{
		OutputCSV:    *csvPath,
		DatabasePath: *dbPath,
		ViewName:     *view,
		Log:          logCfg,
	}
	if err := cfg.Validate(); err != nil {
		return ViewBuilder{}, err
	}
	return cfg, nil
}

// Validate checks the view builder settings.
func (c ViewBuilder) Validate() error {
	if c.OutputCSV == "" {
		return errors.New("csv path is required")
	}
	if c.DatabasePath == "" {
		return errors.New("database path is required")
	}
	return warehouse.ValidateViewName(c.ViewName)
}

func validateURL(raw string) error {
	if raw == "" {
		return errors.New("url is required")
	}
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("invalid url %q: %w", raw, err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("url must be absolute http(s), got %q", raw)
	}
	return nil
}
