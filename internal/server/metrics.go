package server

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// metrics are registered on a per-server registry so several servers can
// coexist in one process.
type metrics struct {
	requests       *prometheus.CounterVec
	filterDuration *prometheus.HistogramVec
	recomputes     prometheus.Counter
	activeConns    prometheus.Gauge
	uploadBytes    prometheus.Histogram
	errors         *prometheus.CounterVec
}

func newMetrics(reg prometheus.Registerer) *metrics {
	f := promauto.With(reg)
	return &metrics{
		requests: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "fourierfilter_http_requests_total",
				Help: "HTTP requests by route and status code",
			},
			[]string{"route", "code"},
		),
		filterDuration: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "fourierfilter_filter_duration_seconds",
				Help:    "Time spent filtering one image, including panel rendering",
				Buckets: prometheus.ExponentialBuckets(0.001, 2, 14),
			},
			[]string{"source"},
		),
		recomputes: f.NewCounter(
			prometheus.CounterOpts{
				Name: "fourierfilter_engine_recomputes_total",
				Help: "Filter recomputations triggered by websocket sessions",
			},
		),
		activeConns: f.NewGauge(
			prometheus.GaugeOpts{
				Name: "fourierfilter_websocket_connections",
				Help: "Open websocket sessions",
			},
		),
		uploadBytes: f.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "fourierfilter_upload_bytes",
				Help:    "Size of uploaded encoded images",
				Buckets: prometheus.ExponentialBuckets(1024, 4, 8),
			},
		),
		errors: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "fourierfilter_errors_total",
				Help: "Failed filter requests by kind",
			},
			[]string{"kind"},
		),
	}
}
