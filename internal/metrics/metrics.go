// Package metrics defines and registers all custom Prometheus metrics for the
// Tasklio client SDK. It is the single source of truth for metric names,
// labels, and help strings.
//
// Metrics are registered with the default Prometheus registry via promauto;
// embedding applications expose them through their own /metrics endpoint.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "tasklio"

// RequestsTotal counts backend requests by endpoint and outcome.
// Labels:
//   - endpoint: the backend path (e.g. "/api/todos/list")
//   - outcome: "success" or the failure kind (e.g. "connection_failed")
var RequestsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "requests_total",
		Help:      "Total number of backend requests, by endpoint and outcome.",
	},
	[]string{"endpoint", "outcome"},
)

// RequestDuration measures the end-to-end duration of a backend request,
// from building the request to finishing the decode.
// Label:
//   - endpoint: the backend path
var RequestDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "request_duration_seconds",
		Help:      "Duration of backend requests from build to decode.",
		Buckets:   prometheus.DefBuckets, // .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10
	},
	[]string{"endpoint"},
)

// DecodeFailuresTotal counts responses that matched neither envelope shape
// nor the raw payload type.
// Label:
//   - endpoint: the backend path
var DecodeFailuresTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "decode_failures_total",
		Help:      "Total number of undecodable backend responses.",
	},
	[]string{"endpoint"},
)
