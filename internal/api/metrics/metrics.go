// Package metrics defines and registers all custom Prometheus metrics for the
// Rashad marketplace. It is the single source of truth for metric names,
// labels, and help strings.
//
// Metrics are registered with the default registry on package load; Recorder
// feeds them from the core observer ports.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "rashad"

// ── Backend metrics ───────────────────────────────────────────────────────────

// BackendCallsTotal counts backend client operations.
// Labels:
//   - op: the client operation (e.g. "get_products", "sign_in")
//   - outcome: "ok" or "error"
var BackendCallsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "backend_calls_total",
		Help:      "Total number of backend client operations, by outcome.",
	},
	[]string{"op", "outcome"},
)

// BackendCallDuration measures backend client operations end-to-end.
var BackendCallDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "backend_call_duration_seconds",
		Help:      "Duration of backend client operations.",
		Buckets:   prometheus.DefBuckets,
	},
	[]string{"op"},
)

// ── Session metrics ───────────────────────────────────────────────────────────

// AuthEventsTotal counts auth-state events handled by session managers.
// Label:
//   - event: SIGNED_IN, SIGNED_OUT or USER_UPDATED
var AuthEventsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "auth_events_total",
		Help:      "Total number of auth-state events handled.",
	},
	[]string{"event"},
)

// ProfileLoadsTotal counts profile loads.
// Label:
//   - outcome: "loaded", "provisional", "cached" or "failed"
var ProfileLoadsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "profile_loads_total",
		Help:      "Total number of profile loads, by outcome.",
	},
	[]string{"outcome"},
)

// FormsInFlight tracks form submissions currently awaiting the backend.
var FormsInFlight = promauto.NewGaugeVec(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "forms_in_flight",
		Help:      "Number of form submissions in progress, by trigger.",
	},
	[]string{"trigger"},
)

// DispatchQueueDepth tracks the auth notices waiting in each dispatcher worker.
var DispatchQueueDepth = promauto.NewGaugeVec(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "dispatch_queue_depth",
		Help:      "Current number of auth notices pending in each dispatcher worker channel.",
	},
	[]string{"worker_id"},
)
