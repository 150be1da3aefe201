// Package metrics defines and registers all custom Prometheus metrics for
// the KARMIC marketplace API. It is the single source of truth for metric
// names, labels, and help strings.
//
// Metrics are registered with the default registry at import time via
// promauto; the /metrics endpoint exposes them.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "karmic"

// ── Task metrics ──────────────────────────────────────────────────────────────

// TasksCreatedTotal counts newly posted tasks.
// Label:
//   - difficulty: "easy", "medium", or "hard"
var TasksCreatedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "tasks_created_total",
		Help:      "Total number of tasks created, by difficulty tier.",
	},
	[]string{"difficulty"},
)

// TransitionsTotal counts lifecycle transitions that completed successfully.
// Label:
//   - event: "claim", "helper_confirm", "approve", "reject", "cancel"
var TransitionsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "transitions_total",
		Help:      "Total number of successful task lifecycle transitions, by event.",
	},
	[]string{"event"},
)

// TransitionErrorsTotal counts transitions that failed.
// Labels:
//   - event:  the attempted transition
//   - reason: "unauthorized", "invalid_transition", "already_claimed",
//     "insufficient_funds", "not_found", "storage"
var TransitionErrorsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "transition_errors_total",
		Help:      "Total number of failed task lifecycle transitions, by event and reason.",
	},
	[]string{"event", "reason"},
)

// ── Settlement metrics ────────────────────────────────────────────────────────

// CoinsSettledTotal accumulates coins moved from requesters to helpers by
// settled tasks. Conservation check: this is the only coin movement in the
// system.
var CoinsSettledTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "coins_settled_total",
		Help:      "Total coins transferred from requesters to helpers across all settlements.",
	},
)

// XPMintedTotal accumulates XP minted for helpers by settled tasks.
var XPMintedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "xp_minted_total",
		Help:      "Total XP minted for helpers across all settlements.",
	},
)

// SettlementDuration measures how long a single approve transition takes,
// ledger writes included.
// Label:
//   - outcome: "settled" or "error"
var SettlementDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "settlement_duration_seconds",
		Help:      "Duration of the approve transition from admission to commit.",
		Buckets:   prometheus.DefBuckets,
	},
	[]string{"outcome"},
)

// ── Audit pipeline metrics ────────────────────────────────────────────────────

// EventsQueueDepth tracks the current number of audit events waiting in each
// dispatcher worker channel.
// Label:
//   - worker_id: numeric worker index (e.g. "0", "1", …)
var EventsQueueDepth = promauto.NewGaugeVec(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "events_queue_depth",
		Help:      "Current number of audit events pending in each dispatcher worker channel.",
	},
	[]string{"worker_id"},
)

// AuditWriteErrorsTotal counts audit events that could not be persisted.
var AuditWriteErrorsTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "audit_write_errors_total",
		Help:      "Total number of audit events dropped due to storage errors.",
	},
)
