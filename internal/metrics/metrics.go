// Package metrics provides Prometheus metrics for the portal.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// LoginTotal counts login and registration attempts by outcome.
	LoginTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "portal",
			Name:      "login_total",
			Help:      "Login and registration attempts by kind and result",
		},
		[]string{"kind", "result"},
	)

	// LogoutTotal counts logouts by remote outcome.  The local session is
	// cleared in both cases.
	LogoutTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "portal",
			Name:      "logout_total",
			Help:      "Logouts by result of the remote logout call",
		},
		[]string{"remote"},
	)

	// GuardDecisions counts route guard evaluations.
	GuardDecisions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "portal",
			Name:      "guard_decisions_total",
			Help:      "Route guard decisions by view and outcome",
		},
		[]string{"view", "allowed"},
	)

	// UpstreamDuration measures calls to the upstream APIs.
	UpstreamDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "portal",
			Name:      "upstream_request_duration_seconds",
			Help:      "Duration of upstream API requests in seconds",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"method", "route", "status"},
	)

	// SessionEventsPublished counts session events sent to the broker.
	SessionEventsPublished = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "portal",
			Name:      "session_events_published_total",
			Help:      "Session lifecycle events published, by type and status",
		},
		[]string{"type", "status"},
	)
)

// ObserveUpstream records one upstream call.  status is "error" when no
// response was received.
func ObserveUpstream(method, route string, start time.Time, resp *http.Response, err error) {
	status := "error"
	if err == nil && resp != nil {
		status = strconv.Itoa(resp.StatusCode)
	}
	UpstreamDuration.WithLabelValues(method, route, status).Observe(time.Since(start).Seconds())
}

// ObserveGuard records a guard decision.
func ObserveGuard(view string, allowed bool) {
	GuardDecisions.WithLabelValues(view, strconv.FormatBool(allowed)).Inc()
}
