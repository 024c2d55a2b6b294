// Package metrics registers the Prometheus metrics for the application.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for the application.
type Metrics struct {
	SignIns              *prometheus.CounterVec
	SignOuts             prometheus.Counter
	SessionRestores      *prometheus.CounterVec
	TransactionsRecorded prometheus.Counter
	RequestDuration      *prometheus.HistogramVec
}

// New creates and registers all Prometheus metrics.
func New() *Metrics {
	return &Metrics{
		SignIns: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "gofinances_signins_total",
			Help: "Sign-in attempts by provider and outcome",
		}, []string{"provider", "outcome"}),
		SignOuts: promauto.NewCounter(prometheus.CounterOpts{
			Name: "gofinances_signouts_total",
			Help: "Completed sign-outs",
		}),
		SessionRestores: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "gofinances_session_restores_total",
			Help: "Session restore attempts at startup by outcome",
		}, []string{"outcome"}),
		TransactionsRecorded: promauto.NewCounter(prometheus.CounterOpts{
			Name: "gofinances_transactions_recorded_total",
			Help: "Transactions appended to a ledger",
		}),
		RequestDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "gofinances_http_request_duration_seconds",
			Help:    "HTTP request latency by route and status",
			Buckets: prometheus.DefBuckets,
		}, []string{"route", "status"}),
	}
}

// NewForTest creates the metrics against a private registry so parallel test
// suites do not collide on duplicate registration.
func NewForTest() *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)
	return &Metrics{
		SignIns: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "gofinances_signins_total",
		}, []string{"provider", "outcome"}),
		SignOuts: factory.NewCounter(prometheus.CounterOpts{
			Name: "gofinances_signouts_total",
		}),
		SessionRestores: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "gofinances_session_restores_total",
		}, []string{"outcome"}),
		TransactionsRecorded: factory.NewCounter(prometheus.CounterOpts{
			Name: "gofinances_transactions_recorded_total",
		}),
		RequestDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "gofinances_http_request_duration_seconds",
			Buckets: prometheus.DefBuckets,
		}, []string{"route", "status"}),
	}
}
