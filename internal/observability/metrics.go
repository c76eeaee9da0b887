// Package observability defines and registers all custom Prometheus metrics
// for the marketplace API. It is the single source of truth for metric
// names, labels, and help strings; promauto registers everything with the
// default registry at init time.
package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "marketplace"

// ── Negotiation metrics ───────────────────────────────────────────────────────

// OffersSubmittedTotal counts offers recorded against requests.
// Label:
//   - kind: "offer" or "counteroffer"
var OffersSubmittedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "offers_submitted_total",
		Help:      "Total number of offers submitted, by kind.",
	},
	[]string{"kind"},
)

// OfferDecisionsTotal counts accept/reject outcomes on offers.
// Label:
//   - decision: "accepted", "rejected" or "voided"
var OfferDecisionsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "offer_decisions_total",
		Help:      "Total number of offer decisions, by outcome.",
	},
	[]string{"decision"},
)

// AcceptConflictsTotal counts accept attempts that lost the per-request race.
var AcceptConflictsTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "accept_conflicts_total",
		Help:      "Total number of offer-accept attempts rejected by the serialization guard.",
	},
)

// RequestTransitionsTotal counts lifecycle transitions applied to requests.
// Label:
//   - to: the target status (e.g. "accepted", "in_transit")
var RequestTransitionsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "request_transitions_total",
		Help:      "Total number of request lifecycle transitions, by target status.",
	},
	[]string{"to"},
)

// ── Chat metrics ──────────────────────────────────────────────────────────────

// ChatMessagesTotal counts persisted chat messages.
// Label:
//   - blocked: "true" when the moderation filter redacted content
var ChatMessagesTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "chat_messages_total",
		Help:      "Total number of chat messages stored, by moderation outcome.",
	},
	[]string{"blocked"},
)

// ModerationHitsTotal counts moderation pattern matches.
// Label:
//   - pattern: "phone", "email", "handle" or "keyword"
var ModerationHitsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "moderation_hits_total",
		Help:      "Total number of moderation pattern matches, by pattern category.",
	},
	[]string{"pattern"},
)

// ── Verification metrics ──────────────────────────────────────────────────────

// VerificationDecisionsTotal counts admin adjudications.
// Labels:
//   - kind: "identity" or "vehicle"
//   - decision: "approved" or "rejected"
var VerificationDecisionsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "verification_decisions_total",
		Help:      "Total number of verification adjudications, by kind and decision.",
	},
	[]string{"kind", "decision"},
)

// ── Notification metrics ──────────────────────────────────────────────────────

// NotificationsCreatedTotal counts notifications created by the dispatcher.
// Label:
//   - type: display category ("offer", "message", "verification", "payment")
var NotificationsCreatedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "notifications_created_total",
		Help:      "Total number of notifications created, by type.",
	},
	[]string{"type"},
)

// NotificationQueueDepth tracks events waiting in each dispatcher worker.
// Label:
//   - worker_id: numeric worker index ("0", "1", …)
var NotificationQueueDepth = promauto.NewGaugeVec(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "notification_queue_depth",
		Help:      "Current number of events pending in each dispatcher worker channel.",
	},
	[]string{"worker_id"},
)

// DispatchDuration measures end-to-end handling of one event.
// Label:
//   - result: "ok" or "error"
var DispatchDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "notification_dispatch_duration_seconds",
		Help:      "Duration of event dispatch from dequeue to persistence.",
		Buckets:   prometheus.DefBuckets,
	},
	[]string{"result"},
)
