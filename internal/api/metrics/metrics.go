// Package metrics defines and registers the custom Prometheus metrics of the
// marketplace API. It is the single source of truth for metric names, labels
// and help strings.
//
// Metrics are registered with the default registry on package init via
// promauto; HTTP request metrics come from the echoprometheus middleware.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "thinkstack"

// ── Moderation metrics ───────────────────────────────────────────────────────

// ModerationTransitionsTotal counts status change attempts.
// Labels:
//   - to: requested target status (e.g. "APPROVED")
//   - result: "ok", "invalid_transition", "not_found" or "error"
var ModerationTransitionsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "moderation_transitions_total",
		Help:      "Total number of challenge status change requests, by target and result.",
	},
	[]string{"to", "result"},
)

// ChallengesDeletedTotal counts challenges removed by administrators.
var ChallengesDeletedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "challenges_deleted_total",
		Help:      "Total number of challenges deleted by administrators.",
	},
)

// ChallengesCreatedTotal counts newly posted challenges.
// Label:
//   - category: challenge category as submitted
var ChallengesCreatedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "challenges_created_total",
		Help:      "Total number of challenges created, by category.",
	},
	[]string{"category"},
)

// JoinsTotal counts join attempts.
// Label:
//   - result: "ok", "closed", "duplicate" or "error"
var JoinsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "joins_total",
		Help:      "Total number of challenge join attempts, by result.",
	},
	[]string{"result"},
)

// SolutionsSubmittedTotal counts submission attempts.
// Label:
//   - result: "ok", "invalid", "duplicate", "closed" or "error"
var SolutionsSubmittedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "solutions_submitted_total",
		Help:      "Total number of solution submissions, by result.",
	},
	[]string{"result"},
)

// ── Audit pipeline metrics ───────────────────────────────────────────────────

// AuditEventsTotal counts audit events handled by the dispatcher workers.
// Label:
//   - result: "ok" or "error"
var AuditEventsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "audit_events_total",
		Help:      "Total number of moderation audit events recorded, by result.",
	},
	[]string{"result"},
)

// AuditQueueDepth tracks the number of events waiting in each worker channel.
// Label:
//   - worker_id: numeric worker index (e.g. "0", "1", …)
var AuditQueueDepth = promauto.NewGaugeVec(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "audit_queue_depth",
		Help:      "Current number of audit events pending in each dispatcher worker channel.",
	},
	[]string{"worker_id"},
)
