package main

import (
	"bytes"
	"context"
	"database/sql"
	"os"
	"path/filepath"
	"strings"
	"testing"

	_ "github.com/duckdb/duckdb-go/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func noEnv(string) string { return "" }

func writeCSV(t *testing.T, path string, lines ...string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(strings.Join(lines, "\n")+"\n"), 0o644))
}

func TestRun_CreatesView(t *testing.T) {
	dir := t.TempDir()
	csvPath := filepath.Join(dir, "raw", "athletes", "all_player_basic_data.csv")
	dbPath := filepath.Join(dir, "duckdb", "espn.duckdb")
	writeCSV(t, csvPath,
		"player_id,first_name,total_games_played",
		"42,A,10",
		"43,B,",
	)

	var logs bytes.Buffer
	err := run(context.Background(), []string{"--csv", csvPath, "--db", dbPath}, noEnv, &logs)
	require.NoError(t, err)
	assert.Contains(t, logs.String(), "Players view ready")

	db, err := sql.Open("duckdb", dbPath)
	require.NoError(t, err)
	defer db.Close()

	var count int64
	require.NoError(t, db.QueryRow("SELECT count(*) FROM main.players").Scan(&count))
	assert.Equal(t, int64(2), count)

	var name string
	require.NoError(t, db.QueryRow("SELECT first_name FROM main.players WHERE player_id = 42").Scan(&name))
	assert.Equal(t, "A", name)
}

func TestRun_EnvViewName(t *testing.T) {
	dir := t.TempDir()
	csvPath := filepath.Join(dir, "players.csv")
	writeCSV(t, csvPath, "player_id", "1")

	env := map[string]string{
		"PLAYER_STATS_CSV": csvPath,
		"DUCKDB_PATH":      filepath.Join(dir, "espn.duckdb"),
		"PLAYERS_VIEW":     "player_stats",
	}
	var logs bytes.Buffer
	err := run(context.Background(), nil, func(k string) string { return env[k] }, &logs)
	require.NoError(t, err)
	assert.Contains(t, logs.String(), `"view":"player_stats"`)
}

func TestRun_MissingCSV(t *testing.T) {
	dir := t.TempDir()
	err := run(context.Background(), []string{
		"--csv", filepath.Join(dir, "missing.csv"),
		"--db", filepath.Join(dir, "espn.duckdb"),
	}, noEnv, &bytes.Buffer{})
	assert.Error(t, err)
}

func TestRun_InvalidViewName(t *testing.T) {
	err := run(context.Background(), []string{"--view", "players; DROP TABLE x"}, noEnv, &bytes.Buffer{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "config")
}

func TestRun_Help(t *testing.T) {
	assert.NoError(t, run(context.Background(), []string{"--help"}, noEnv, &bytes.Buffer{}))
}
