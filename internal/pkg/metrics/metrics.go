// Package metrics defines and registers the custom Prometheus metrics of the
// LinkVault API. It is the single source of truth for metric names, labels,
// and help strings.
//
// Metrics are registered with the default Prometheus registry on import via
// promauto; HTTP request metrics come from the echoprometheus middleware.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "linkvault"

// ── Account metrics ──────────────────────────────────────────────────────────

// UsersRegisteredTotal counts successful sign-ups.
var UsersRegisteredTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "users_registered_total",
		Help:      "Total number of registered users.",
	},
)

// LoginAttemptsTotal counts login attempts.
// Label:
//   - result: "success", "invalid" or "throttled"
var LoginAttemptsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "login_attempts_total",
		Help:      "Total number of login attempts, labelled by result.",
	},
	[]string{"result"},
)

// ── Collection metrics ───────────────────────────────────────────────────────

// CollectionMutationsTotal counts successful section/link mutations.
// Label:
//   - action: the activity action (e.g. "section.add", "link.delete")
var CollectionMutationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "collection_mutations_total",
		Help:      "Total number of section and link mutations, by action.",
	},
	[]string{"action"},
)

// SearchResults observes how many links a search returned.
var SearchResults = promauto.NewHistogram(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "search_results",
		Help:      "Number of links returned per search.",
		Buckets:   []float64{0, 1, 2, 5, 10, 25, 50, 100},
	},
)

// StoreWriteDuration measures full-tree write-backs to the document store.
var StoreWriteDuration = promauto.NewHistogram(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "store_write_duration_seconds",
		Help:      "Duration of section tree write-backs.",
		Buckets:   prometheus.DefBuckets,
	},
)

// ── Activity metrics ─────────────────────────────────────────────────────────

// ActivityQueueDepth tracks the number of activity records waiting in each worker channel.
// Label:
//   - worker_id: numeric worker index
var ActivityQueueDepth = promauto.NewGaugeVec(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "activity_queue_depth",
		Help:      "Current number of activity records pending in each dispatcher worker channel.",
	},
	[]string{"worker_id"},
)

// ActivityErrorsTotal counts activity records that were dropped or failed to persist.
// Label:
//   - reason: "queue_full", "stopped" or "insert_failed"
var ActivityErrorsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "activity_errors_total",
		Help:      "Total number of activity records that were not persisted.",
	},
	[]string{"reason"},
)
