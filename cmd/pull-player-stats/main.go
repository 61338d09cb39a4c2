// Command pull-player-stats fetches every page of ESPN's statistics-by-athlete
// endpoint and writes one CSV row per player.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/courtside/espn-player-stats/internal/config"
	"github.com/courtside/espn-player-stats/internal/ingest"
	"github.com/courtside/espn-player-stats/pkg/cache"
	"github.com/courtside/espn-player-stats/pkg/espn"
	"github.com/courtside/espn-player-stats/pkg/logging"
	"github.com/courtside/espn-player-stats/pkg/metrics"
	"github.com/courtside/espn-player-stats/pkg/pagination"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
	flag "github.com/spf13/pflag"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Getenv, os.Stderr); err != nil {
		stop()
		log.Fatal().Err(err).Msg("Pull failed")
	}
}

func run(ctx context.Context, args []string, getenv config.Getenv, logOut io.Writer) error {
	cfg, err := config.LoadFetcher(args, getenv)
	if errors.Is(err, flag.ErrHelp) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}

	logging.Setup(logging.Config{
		Level:  cfg.Log.Level,
		Pretty: cfg.Log.Pretty,
		Output: logOut,
	})

	clientCfg := espn.DefaultConfig(cfg.UserAgent)
	clientCfg.Timeout = cfg.RequestTimeout

	if cfg.RedisAddr != "" {
		redisClient := redis.NewClient(&redis.Options{
			Addr: cfg.RedisAddr,
		})
		defer redisClient.Close()

		if err := redisClient.Ping(ctx).Err(); err != nil {
			return fmt.Errorf("connect to redis at %s: %w", cfg.RedisAddr, err)
		}
		log.Info().Str("redis", cfg.RedisAddr).Dur("ttl", cfg.CacheTTL).Msg("Page cache enabled")

		clientCfg.Cache = cache.NewManager(redisClient, cfg.CacheTTL)
	}

	client, err := espn.New(clientCfg)
	if err != nil {
		return fmt.Errorf("create ESPN client: %w", err)
	}

	fetchCfg := pagination.DefaultConfig()
	fetchCfg.RefetchFirstPage = cfg.RefetchFirstPage

	pipeline := ingest.New(pagination.NewBatchFetcher(client, fetchCfg))
	_, runErr := pipeline.Run(ctx, cfg.BaseURL, cfg.OutputCSV)

	if cfg.MetricsFile != "" {
		if err := metrics.WriteTextfile(cfg.MetricsFile); err != nil {
			log.Warn().Err(err).Str("path", cfg.MetricsFile).Msg("Failed to write metrics")
		}
	}

	return runErr
}
