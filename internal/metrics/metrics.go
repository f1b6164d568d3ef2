// Package metrics defines and registers all custom Prometheus metrics for
// the storefront client pipeline. It is the single source of truth for
// metric names, labels, and help strings.
//
// Metrics register with the default registry at package init; expose them
// wherever the embedding process serves promhttp.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "storefront"

// RequestsTotal counts requests leaving the client pipeline.
// Labels:
//   - method: HTTP method
//   - path: the logical endpoint path (no query string)
var RequestsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "requests_total",
		Help:      "Total number of requests dispatched by the client.",
	},
	[]string{"method", "path"},
)

// RequestErrorsTotal counts failed operations by failure kind.
// Label:
//   - kind: "domain" (envelope code != 200), "auth" (HTTP 401/403),
//     "http" (other non-2xx), "network" (transport error), "decode"
var RequestErrorsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "request_errors_total",
		Help:      "Total number of failed client operations, by kind.",
	},
	[]string{"kind"},
)

// RequestDuration measures the wall time of a request through the whole
// pipeline, interception included.
// Label:
//   - method: HTTP method
var RequestDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "request_duration_seconds",
		Help:      "Duration of client requests from dispatch to decoded result.",
		Buckets:   prometheus.DefBuckets, // .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10
	},
	[]string{"method"},
)

// SessionInvalidationsTotal counts forced session teardowns triggered by an
// authentication-rejection response.
var SessionInvalidationsTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "session_invalidations_total",
		Help:      "Total number of forced logouts caused by HTTP 401/403 responses.",
	},
)
