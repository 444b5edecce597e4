package api

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the API's Prometheus collectors.
type Metrics struct {
	requestsTotal   *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	activeRequests  prometheus.Gauge
	analyses        *prometheus.CounterVec
	rulesReturned   prometheus.Histogram
}

// NewMetrics registers the API collectors with reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		requestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "cartwise_api_requests_total",
				Help: "Total number of API requests",
			},
			[]string{"method", "endpoint", "status_code"},
		),
		requestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "cartwise_api_request_duration_seconds",
				Help:    "API request latency in seconds",
				Buckets: []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10, 30},
			},
			[]string{"method", "endpoint"},
		),
		activeRequests: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "cartwise_api_active_requests",
				Help: "Number of API requests currently being processed",
			},
		),
		analyses: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "cartwise_analyses_total",
				Help: "Basket analyses run, by whether mining output came from the cache",
			},
			[]string{"cached"},
		),
		rulesReturned: factory.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "cartwise_rules_returned",
				Help:    "Number of filtered rules returned per analysis",
				Buckets: prometheus.ExponentialBuckets(1, 2, 10),
			},
		),
	}
}

// RecordRequest records one finished API request.
func (m *Metrics) RecordRequest(method, endpoint string, statusCode int, duration time.Duration) {
	m.requestsTotal.WithLabelValues(method, endpoint, strconv.Itoa(statusCode)).Inc()
	m.requestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}

// TrackActiveRequest increments or decrements the in-flight gauge.
func (m *Metrics) TrackActiveRequest(delta float64) {
	m.activeRequests.Add(delta)
}

// RecordAnalysis counts one pipeline run and its filtered rule count.
func (m *Metrics) RecordAnalysis(cached bool, rules int) {
	m.analyses.WithLabelValues(strconv.FormatBool(cached)).Inc()
	m.rulesReturned.Observe(float64(rules))
}
