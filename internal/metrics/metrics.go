// Package metrics holds the Prometheus collectors of the dashboard.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "picow"

// Metrics groups every collector so tests can use a private registry.
type Metrics struct {
	registry *prometheus.Registry

	MessagesReceived  prometheus.Counter
	PayloadsMalformed prometheus.Counter
	BufferDropped     prometheus.Counter
	BufferPending     prometheus.Gauge
	WindowPoints      prometheus.Gauge
	LatestValue       prometheus.Gauge
	RefreshDuration   prometheus.Histogram
	EventsDropped     prometheus.Counter
	ConnectionUp      prometheus.Gauge

	HTTPRequests *prometheus.CounterVec
	HTTPDuration *prometheus.HistogramVec
}

// New registers all collectors on a fresh registry, together with the Go and
// process collectors.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	f := promauto.With(reg)

	return &Metrics{
		registry: reg,
		MessagesReceived: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "messages_received_total",
			Help:      "Telemetry messages delivered by the MQTT subscription.",
		}),
		PayloadsMalformed: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "payloads_malformed_total",
			Help:      "Messages dropped because the body is not a number.",
		}),
		BufferDropped: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "buffer_dropped_total",
			Help:      "Values lost to the ingestion buffer overflow policy.",
		}),
		BufferPending: f.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "buffer_pending",
			Help:      "Values waiting in the ingestion buffer after the last refresh.",
		}),
		WindowPoints: f.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "window_points",
			Help:      "Points held by the live series window.",
		}),
		LatestValue: f.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "latest_value_celsius",
			Help:      "Most recent reading in the live window.",
		}),
		RefreshDuration: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "refresh_duration_seconds",
			Help:      "Time spent draining the buffer into the window.",
			Buckets:   prometheus.ExponentialBuckets(0.00001, 4, 10),
		}),
		EventsDropped: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "diagnostic_events_dropped_total",
			Help:      "Diagnostic events discarded because the recorder queue was full.",
		}),
		ConnectionUp: f.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "mqtt_connection_up",
			Help:      "1 while the MQTT connection is established.",
		}),
		HTTPRequests: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests by route and status code.",
		}, []string{"route", "code"}),
		HTTPDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by route.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"route"}),
	}
}

// Handler exposes the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// Gatherer returns the underlying registry.
func (m *Metrics) Gatherer() prometheus.Gatherer {
	return m.registry
}
