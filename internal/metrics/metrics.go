// Package metrics declares the Prometheus collectors exported on /metrics.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// DBConnectAttempts counts database connection attempts.
	// Labels:
	// - result: "success" or "failure"
	DBConnectAttempts = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "jobportal",
			Subsystem: "db",
			Name:      "connect_attempts_total",
			Help:      "Number of database connection attempts",
		},
		[]string{"result"},
	)

	// DBConnected is 1 once the database connection is established.
	DBConnected = promauto.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "jobportal",
			Subsystem: "db",
			Name:      "connected",
			Help:      "Whether the database connection is established (1) or not (0)",
		},
	)

	// EmailsSent counts notification delivery attempts.
	// Labels:
	// - kind:   "acceptance" or "rejection"
	// - result: "sent" or "failed"
	EmailsSent = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "jobportal",
			Name:      "emails_total",
			Help:      "Number of email delivery attempts by decision kind and result",
		},
		[]string{"kind", "result"},
	)

	// ChatConnections is the number of open chat sockets.
	ChatConnections = promauto.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "jobportal",
			Subsystem: "chat",
			Name:      "connections",
			Help:      "Number of open chat websocket connections",
		},
	)

	// HTTPRequests counts handled HTTP requests.
	// Labels:
	// - method: HTTP method
	// - status: response status code class ("2xx", "4xx", ...)
	HTTPRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "jobportal",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Number of HTTP requests by method and status class",
		},
		[]string{"method", "status"},
	)
)

// Handler serves the default registry.
func Handler() http.Handler {
	return promhttp.Handler()
}

// StatusClass buckets an HTTP status code into "1xx".."5xx".
func StatusClass(status int) string {
	switch {
	case status >= 500:
		return "5xx"
	case status >= 400:
		return "4xx"
	case status >= 300:
		return "3xx"
	case status >= 200:
		return "2xx"
	default:
		return "1xx"
	}
}
