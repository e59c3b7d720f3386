package sisclient

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	outcomeSuccess     = "success"
	outcomeClientError = "client_error"
	outcomeServerError = "server_error"
	outcomeTransport   = "transport_error"
)

var (
	upstreamRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "sis_portal",
		Name:      "upstream_requests_total",
		Help:      "Calls to the school information system API by operation and outcome.",
	}, []string{"operation", "outcome"})

	upstreamDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "sis_portal",
		Name:      "upstream_request_duration_seconds",
		Help:      "Latency of calls to the school information system API.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"operation"})
)

func outcomeOf(status int, err error) string {
	switch {
	case err != nil && status == 0:
		return outcomeTransport
	case status >= 500:
		return outcomeServerError
	case status >= 400:
		return outcomeClientError
	default:
		return outcomeSuccess
	}
}
