// Package metrics defines and registers the custom Prometheus metrics for
// the lab-records API. It is the single source of truth for metric names,
// labels, and help strings.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "labrecords"

// LoginsTotal counts login attempts.
// Label:
//   - result: "ok", "bad_credentials", or "not_found"
var LoginsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "logins_total",
		Help:      "Total number of login attempts, by result.",
	},
	[]string{"result"},
)

// SessionsActive tracks the number of live sessions in the store.
var SessionsActive = promauto.NewGauge(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "sessions_active",
		Help:      "Current number of active sessions.",
	},
)

// ImportRowsTotal counts bulk-import rows by outcome.
// Label:
//   - result: "imported" or "rejected"
var ImportRowsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "import_rows_total",
		Help:      "Total number of bulk-import rows processed, by result.",
	},
	[]string{"result"},
)

// UploadsDedupTotal counts upload idempotency decisions.
// Label:
//   - result: "hit" (replayed) or "miss" (new file, imported)
var UploadsDedupTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "uploads_dedup_total",
		Help:      "Total number of upload dedup checks, labelled by result (hit/miss).",
	},
	[]string{"result"},
)

// ExportsTotal counts completed report exports.
// Label:
//   - format: "xlsx" or "pdf"
var ExportsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "exports_total",
		Help:      "Total number of report exports, by format.",
	},
	[]string{"format"},
)

// ExportDuration measures how long rendering an export takes.
// Label:
//   - format: "xlsx" or "pdf"
var ExportDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "export_duration_seconds",
		Help:      "Duration of export rendering from query to artifact.",
		Buckets:   prometheus.DefBuckets,
	},
	[]string{"format"},
)

// AuditQueueDepth tracks the number of audit events waiting in each worker channel.
// Label:
//   - worker_id: numeric worker index (e.g. "0", "1", ...)
var AuditQueueDepth = promauto.NewGaugeVec(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "audit_queue_depth",
		Help:      "Current number of audit events pending in each dispatcher worker channel.",
	},
	[]string{"worker_id"},
)
