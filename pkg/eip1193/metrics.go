package eip1193

import (
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics contains the Prometheus metrics of a client
type Metrics struct {
	Requests        *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec
	Events          *prometheus.CounterVec
	Listeners       prometheus.Gauge
}

// NewMetrics initializes and registers metrics with the default registerer
func NewMetrics() *Metrics {
	return NewMetricsWithRegistry(nil)
}

// NewMetricsWithRegistry initializes and registers metrics with a custom registry
func NewMetricsWithRegistry(registry prometheus.Registerer) *Metrics {
	if registry == nil {
		registry = prometheus.DefaultRegisterer
	}
	factory := promauto.With(registry)

	return &Metrics{
		Requests: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "eip1193_requests_total",
			Help: "The total number of provider requests by method and outcome",
		}, []string{"method", "outcome"}),
		RequestDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "eip1193_request_duration_seconds",
			Help:    "Time from issuing a provider request to its completion",
			Buckets: prometheus.DefBuckets,
		}, []string{"method"}),
		Events: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "eip1193_events_total",
			Help: "The total number of provider events by name and outcome",
		}, []string{"event", "outcome"}),
		Listeners: factory.NewGauge(prometheus.GaugeOpts{
			Name: "eip1193_listeners",
			Help: "The current number of listeners registered on the provider",
		}),
	}
}

func (m *Metrics) observeRequest(method string, started time.Time, err error) {
	if m == nil {
		return
	}
	m.Requests.WithLabelValues(method, outcome(err)).Inc()
	m.RequestDuration.WithLabelValues(method).Observe(time.Since(started).Seconds())
}

func (m *Metrics) observeEvent(event string, err error) {
	if m == nil {
		return
	}
	m.Events.WithLabelValues(event, outcome(err)).Inc()
}

func (m *Metrics) listenerAdded() {
	if m != nil {
		m.Listeners.Inc()
	}
}

func (m *Metrics) listenerRemoved() {
	if m != nil {
		m.Listeners.Dec()
	}
}

func outcome(err error) string {
	if err == nil {
		return "ok"
	}
	var perr *ProviderError
	if errors.As(err, &perr) {
		return perr.Kind.String()
	}
	if errors.Is(err, ErrCallbackPanic) {
		return "panic"
	}
	if errors.Is(err, ErrDeserialisation) {
		return "deserialisation"
	}
	return "transport"
}
