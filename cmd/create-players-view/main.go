// Command create-players-view points a DuckDB view at the player CSV written
// by pull-player-stats.
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
	"github.com/courtside/espn-player-stats/pkg/logging"
	"github.com/courtside/espn-player-stats/pkg/warehouse"
	"github.com/rs/zerolog/log"
	flag "github.com/spf13/pflag"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Getenv, os.Stderr); err != nil {
		stop()
		log.Fatal().Err(err).Msg("View creation failed")
	}
}

func run(ctx context.Context, args []string, getenv config.Getenv, logOut io.Writer) error {
	cfg, err := config.LoadViewBuilder(args, getenv)
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

	store, err := warehouse.Open(cfg.DatabasePath)
	if err != nil {
		return err
	}
	defer store.Close()

	if err := store.CreateOrReplaceView(ctx, cfg.ViewName, cfg.OutputCSV); err != nil {
		return err
	}

	rows, err := store.CountRows(ctx, cfg.ViewName)
	if err != nil {
		return err
	}

	log.Info().
		Str("view", cfg.ViewName).
		Str("csv", cfg.OutputCSV).
		Int64("rows", rows).
		Msg("Players view ready")

	return nil
}
