package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics счетчики и гистограммы сервиса. Имена зафиксированы
// внешними дашбордами, не переименовывать.
type Metrics struct {
	registry *prometheus.Registry

	RequestCount    *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec
	AuthSuccess     prometheus.Counter
	AuthFailure     prometheus.Counter
}

func New() *Metrics {
	registry := prometheus.NewRegistry()
	factory := promauto.With(registry)

	return &Metrics{
		registry: registry,
		RequestCount: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "request_count",
			Help: "Total number of HTTP requests.",
		}, []string{"method", "path", "code"}),
		RequestDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "request_duration_seconds",
			Help:    "HTTP request latency.",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "path"}),
		AuthSuccess: factory.NewCounter(prometheus.CounterOpts{
			Name: "auth_success_total",
			Help: "Total number of successful authentications.",
		}),
		AuthFailure: factory.NewCounter(prometheus.CounterOpts{
			Name: "auth_failure_total",
			Help: "Total number of failed authentications.",
		}),
	}
}

// Registry реестр для экспозиции на /metrics
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}
