package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "orders"

// Metrics holds every collector the service exports, registered on a
// registry owned by the instance.
type Metrics struct {
	UseCases     *prometheus.CounterVec
	LatencyMS    *prometheus.HistogramVec
	Events       *prometheus.CounterVec
	HTTPRequests *prometheus.CounterVec

	registry *prometheus.Registry
}

func New() *Metrics {
	useCases := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "use_case_total",
		Help:      "Use case executions by outcome.",
	}, []string{"use_case", "outcome"})
	latency := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "use_case_duration_ms",
		Help:      "Use case latency in milliseconds.",
		Buckets:   []float64{1, 5, 10, 25, 50, 100, 250, 500, 1000, 2500},
	}, []string{"use_case"})
	events := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "domain_events_total",
		Help:      "Domain events observed by listeners.",
	}, []string{"event_type"})
	requests := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "http",
		Name:      "requests_total",
		Help:      "Total number of HTTP requests.",
	}, []string{"handler", "status"})

	reg := prometheus.NewRegistry()
	reg.MustRegister(useCases, latency, events, requests)
	return &Metrics{
		UseCases:     useCases,
		LatencyMS:    latency,
		Events:       events,
		HTTPRequests: requests,
		registry:     reg,
	}
}

// ObserveUseCase records one execution. outcome is "ok" or an error kind.
func (m *Metrics) ObserveUseCase(useCase, outcome string, elapsed time.Duration) {
	m.UseCases.WithLabelValues(useCase, outcome).Inc()
	m.LatencyMS.WithLabelValues(useCase).Observe(float64(elapsed) / float64(time.Millisecond))
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
