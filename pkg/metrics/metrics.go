// Package metrics provides the shared Prometheus registry for the ESPN pull.
// All metrics are defined in their respective packages (espn, cache, pagination,
// ingest) to maintain modularity and avoid circular dependencies.
//
// This package documents the available metrics and dumps them for one-shot runs.
package metrics

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
)

// Registry is the default Prometheus registry used by the pull.
// All metrics are automatically registered via promauto in their respective packages.
var Registry = prometheus.DefaultRegisterer

// Gatherer is the gatherer read by WriteTextfile.
var Gatherer prometheus.Gatherer = prometheus.DefaultGatherer

// WriteTextfile writes every registered metric to path in the Prometheus text
// format, for pickup by a node_exporter textfile collector.
func WriteTextfile(path string) error {
	if path == "" {
		return fmt.Errorf("metrics textfile path is empty")
	}
	if err := prometheus.WriteToTextfile(path, Gatherer); err != nil {
		return fmt.Errorf("write metrics textfile: %w", err)
	}
	return nil
}

// Metrics Documentation
//
// Request Metrics (pkg/espn):
//   - espn_requests_total{status} (Counter): Total requests by HTTP status
//   - espn_request_duration_seconds (Histogram): Request duration
//   - espn_errors_total{class} (Counter): Errors by class (client, server, unexpected, network)
//
// Cache Metrics (pkg/cache):
//   - espn_cache_hits_total (Counter): Page cache hits
//   - espn_cache_misses_total (Counter): Page cache misses
//   - espn_cache_stored_bytes (Counter): Bytes written to the cache
//   - espn_cache_errors_total{operation} (Counter): Cache operation errors
//
// Pull Metrics (pkg/pagination, internal/ingest):
//   - espn_pages_fetched_total (Counter): Pages fetched, discovery request included
//   - espn_rows_flattened_total (Counter): Athlete rows written to CSV
//
// Example Prometheus Queries:
//
//   # Cache Hit Rate
//   sum(espn_cache_hits_total) /
//   (sum(espn_cache_hits_total) + sum(espn_cache_misses_total))
//
//   # Server errors during the last pull
//   espn_errors_total{class="server"}
//
//   # P95 Request Latency
//   histogram_quantile(0.95, rate(espn_request_duration_seconds_bucket[1h]))
