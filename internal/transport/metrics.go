// ABOUTME: Prometheus counters for executor request outcomes
// ABOUTME: Registered on the default registry for scraping by embedding apps

package transport

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	requestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "genie_client_requests_total",
			Help: "API requests issued, by HTTP method and outcome.",
		},
		[]string{"method", "outcome"},
	)

	retriesTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "genie_client_request_retries_total",
			Help: "Retry attempts performed after a failed request.",
		},
	)
)
