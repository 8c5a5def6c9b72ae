// Package metrics provides Prometheus instrumentation for the moderation
// engine, exposed on the webhook server mux.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// MessagesScanned counts group messages evaluated by the engine.
	MessagesScanned = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "wordguard_messages_scanned_total",
		Help: "Total number of group messages evaluated for violations",
	})

	// ViolationsTotal counts detected banned-term violations.
	ViolationsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "wordguard_violations_total",
		Help: "Total number of messages matching a banned term",
	})

	// BansTotal counts permanent bans issued by the escalation engine.
	BansTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "wordguard_bans_total",
		Help: "Total number of permanent bans issued",
	})

	// JoinRejections counts globally banned users removed on join.
	JoinRejections = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "wordguard_join_rejections_total",
		Help: "Total number of banned users removed on group join",
	})

	// TransportFailures counts best-effort transport actions that failed,
	// labeled by action: "delete", "remove", "notify".
	TransportFailures = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "wordguard_transport_failures_total",
		Help: "Total number of failed transport actions",
	}, []string{"action"})
)

func init() {
	prometheus.MustRegister(
		MessagesScanned,
		ViolationsTotal,
		BansTotal,
		JoinRejections,
		TransportFailures,
	)
}

// Handler returns the Prometheus metrics HTTP handler.
func Handler() http.Handler {
	return promhttp.Handler()
}
