// Package metrics defines and registers the Prometheus metrics of the RBAC
// API. It is the single source of truth for metric names, labels and help
// strings. Metrics register with the default registry on package init.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "rbac"

// ── Authorization metrics ─────────────────────────────────────────────────────

// AuthzDecisionsTotal counts gate decisions.
// Labels:
//   - guard: "authenticate", "role", "permission" or "user_access"
//   - outcome: "allowed" or "denied"
var AuthzDecisionsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "authz_decisions_total",
		Help:      "Total number of authorization gate decisions, by guard and outcome.",
	},
	[]string{"guard", "outcome"},
)

// LoginAttemptsTotal counts login attempts.
// Label:
//   - result: "success", "invalid_credentials", "rate_limited" or "error"
var LoginAttemptsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "login_attempts_total",
		Help:      "Total number of login attempts, by result.",
	},
	[]string{"result"},
)

// ── Mutation metrics ──────────────────────────────────────────────────────────

// MutationsTotal counts user and role mutations.
// Labels:
//   - action: e.g. "user.create", "role.delete"
//   - outcome: "allowed", "denied" or "error"
var MutationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "mutations_total",
		Help:      "Total number of user and role mutations, by action and outcome.",
	},
	[]string{"action", "outcome"},
)

// ── HTTP metrics ──────────────────────────────────────────────────────────────

// HTTPRequestDuration measures request latency.
// Labels:
//   - method: HTTP method
//   - route: the registered route pattern, never the raw path
//   - status: response status code
var HTTPRequestDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "http_request_duration_seconds",
		Help:      "Duration of HTTP requests by method, route and status.",
		Buckets:   prometheus.DefBuckets,
	},
	[]string{"method", "route", "status"},
)
