// Package warehouse exposes the player CSV as a view in a DuckDB file.
package warehouse

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	_ "github.com/duckdb/duckdb-go/v2"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// DefaultViewName is the view the player CSV is exposed as.
const DefaultViewName = "main.players"

// ErrInvalidViewName is returned for a view name that is not a plain or
// schema-qualified identifier.
var ErrInvalidViewName = errors.New("invalid view name")

var identifierPattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*(\.[A-Za-z_][A-Za-z0-9_]*)?$`)

// Store is an open DuckDB database file.
type Store struct {
	db     *sql.DB
	path   string
	logger zerolog.Logger
}

// Open opens or creates the database at path, creating parent directories.
func Open(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create database dir: %w", err)
		}
	}

	db, err := sql.Open("duckdb", path)
	if err != nil {
		return nil, fmt.Errorf("open duckdb %s: %w", path, err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping duckdb %s: %w", path, err)
	}

	return &Store{
		db:     db,
		path:   path,
		logger: log.With().Str("component", "warehouse").Str("db", path).Logger(),
	}, nil
}

// ValidateViewName checks that name can be interpolated into DDL.
func ValidateViewName(name string) error {
	if !identifierPattern.MatchString(name) {
		return fmt.Errorf("%w: %q", ErrInvalidViewName, name)
	}
	return nil
}

// CreateOrReplaceView points view name at csvPath. DuckDB infers column
// types from the file; nothing is copied.
func (s *Store) CreateOrReplaceView(ctx context.Context, name, csvPath string) error {
	if err := ValidateViewName(name); err != nil {
		return err
	}

	absPath, err := filepath.Abs(csvPath)
	if err != nil {
		return fmt.Errorf("resolve csv path: %w", err)
	}

	stmt := fmt.Sprintf("CREATE OR REPLACE VIEW %s AS SELECT * FROM read_csv_auto(%s)", name, quoteLiteral(absPath))
	if _, err := s.db.ExecContext(ctx, stmt); err != nil {
		return fmt.Errorf("create view %s: %w", name, err)
	}

	s.logger.Info().
		Str("view", name).
		Str("csv", absPath).
		Msg("View created")

	return nil
}

// CountRows returns the number of rows visible through the view.
func (s *Store) CountRows(ctx context.Context, name string) (int64, error) {
	if err := ValidateViewName(name); err != nil {
		return 0, err
	}

	var n int64
	if err := s.db.QueryRowContext(ctx, "SELECT count(*) FROM "+name).Scan(&n); err != nil {
		return 0, fmt.Errorf("count %s: %w", name, err)
	}
	return n, nil
}

// DB returns the underlying handle for ad hoc queries.
func (s *Store) DB() *sql.DB {
	return s.db
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

func quoteLiteral(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}
