package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// ServerMetrics aggregates the Prometheus instruments of the service.
type ServerMetrics struct {
	Requests         *prometheus.CounterVec
	Latency          *prometheus.HistogramVec
	OrdersSubmitted  prometheus.Counter
	BudgetRejections prometheus.Counter
}

// New registers the service instruments with the given registerer.
// Pass nil to use the default registerer.
func New(reg prometheus.Registerer) *ServerMetrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}

	requests := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "ppeorder",
		Name:      "http_requests_total",
		Help:      "Total number of HTTP requests.",
	}, []string{"method", "path", "status"})
	latency := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "ppeorder",
		Name:      "http_request_duration_seconds",
		Help:      "HTTP request latency in seconds.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"method", "path"})
	ordersSubmitted := prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "ppeorder",
		Name:      "orders_submitted_total",
		Help:      "Orders successfully created.",
	})
	budgetRejections := prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "ppeorder",
		Name:      "budget_rejections_total",
		Help:      "Cart mutations and submissions rejected by the budget ceiling.",
	})

	reg.MustRegister(requests, latency, ordersSubmitted, budgetRejections)
	return &ServerMetrics{
		Requests:         requests,
		Latency:          latency,
		OrdersSubmitted:  ordersSubmitted,
		BudgetRejections: budgetRejections,
	}
}

// Handler exposes the scrape endpoint.
func Handler() http.Handler {
	return promhttp.Handler()
}
