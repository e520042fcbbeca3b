package shopee

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	outcomeOK          = "ok"
	outcomeTransport   = "transport_error"
	outcomeApplication = "application_error"
)

var (
	apiRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "shopee",
		Subsystem: "partner_api",
		Name:      "requests_total",
		Help:      "Partner API calls by endpoint path and outcome.",
	}, []string{"path", "outcome"})

	apiRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "shopee",
		Subsystem: "partner_api",
		Name:      "request_duration_seconds",
		Help:      "Partner API call latency by endpoint path.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"path"})
)
