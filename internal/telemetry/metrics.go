// Package telemetry provides application-level observability for the radio backend.
//
// All metrics are registered against the default Prometheus registry and served on
// a side-channel HTTP port started by main.go (default 9090, endpoint GET /metrics).
// The endpoint is not part of the Gin router so it stays off the public ingress.
//
// HTTP metrics use c.FullPath() (route template such as /api/auth/register/) rather
// than the raw request URL to keep label cardinality bounded.
package telemetry

import (
	"database/sql"
	"log/slog"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/freqradio/freqradio/internal/safego"
)

// HTTP metrics, labelled by method, route template, and status code.
//
// Example PromQL queries:
//   - Request rate (req/s, 5 m window):  rate(http_requests_total[5m])
//   - Error rate (%):                    sum(rate(http_requests_total{status=~"5.."}[5m])) / sum(rate(http_requests_total[5m])) * 100
//   - p99 latency per route:             histogram_quantile(0.99, sum by (path, le) (rate(http_request_duration_seconds_bucket[5m])))
var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests processed, by method, route template, and status code.",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Histogram of HTTP request latencies, by method and route template.",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		},
		[]string{"method", "path"},
	)
)

// Token issuance metrics, recorded by the token workflow.
//
// RoomTokensIssuedTotal counts successfully issued room access tokens. The room
// label is intentionally absent: frequencies are user-supplied and would produce
// unbounded cardinality (up to 100,000 distinct rooms).
//
// TokenIssueFailuresTotal is labelled by failure class, matching the workflow
// error taxonomy: invalid_input, credentials_unset, upstream, persistence.
//
// Example PromQL queries:
//   - Issue rate:        rate(room_tokens_issued_total[5m])
//   - Failures by class: sum by (reason) (rate(room_token_issue_failures_total[5m]))
var (
	RoomTokensIssuedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "room_tokens_issued_total",
			Help: "Total number of room access tokens successfully issued.",
		},
	)

	TokenIssueFailuresTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "room_token_issue_failures_total",
			Help: "Total number of failed token issuance attempts, by failure class.",
		},
		[]string{"reason"},
	)
)

// DBOpenConnections is a Gauge that tracks the number of open connections currently
// held by the sql.DB connection pool. It is sampled every 30 seconds by
// StartDBStatsCollector rather than per-request to avoid the overhead of sql.DB.Stats().
var DBOpenConnections = promauto.NewGauge(
	prometheus.GaugeOpts{
		Name: "db_open_connections",
		Help: "Current number of open database connections in the pool.",
	},
)

// StartDBStatsCollector launches a background goroutine that samples sql.DB connection
// pool statistics every 30 seconds and updates the DBOpenConnections gauge.
// The goroutine exits cleanly when the database becomes unreachable (db.Ping fails),
// which happens automatically when the application shuts down and defers db.Close().
//
// Call this once, immediately after db.Connect() succeeds in main.go:
//
//	telemetry.StartDBStatsCollector(database)
func StartDBStatsCollector(db *sql.DB) {
	safego.Go("db-stats-collector", func() {
		ticker := time.NewTicker(30 * time.Second)
		defer ticker.Stop()
		for range ticker.C {
			if err := db.Ping(); err != nil {
				slog.Warn("db stats collector: database unreachable, stopping collector", "error", err)
				return
			}
			DBOpenConnections.Set(float64(db.Stats().OpenConnections))
		}
	})
}
