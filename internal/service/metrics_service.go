package service

import (
	"fmt"
	"net/http"
	"runtime"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// MetricsService encapsulates Prometheus instrumentation.
type MetricsService struct {
	registry        *prometheus.Registry
	handler         http.Handler
	requestDuration *prometheus.HistogramVec
	requestTotal    *prometheus.CounterVec
	locationWrites  *prometheus.CounterVec
	sharingUsers    prometheus.Gauge
	locationsPurged prometheus.Counter
}

// NewMetricsService registers core Prometheus collectors.
func NewMetricsService() *MetricsService {
	registry := prometheus.NewRegistry()

	requestDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "Duration of HTTP requests in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path", "status"})

	requestTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"method", "path", "status"})

	locationWrites := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "campus_location_writes_total",
		Help: "Location writes by operation",
	}, []string{"operation"})

	sharingUsers := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "campus_location_sharing_users",
		Help: "Users sharing their location at the last listing",
	})

	locationsPurged := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "campus_locations_purged_total",
		Help: "Stale locations removed by the sweeper",
	})

	goroutines := prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Name: "goroutines_total",
		Help: "Total number of goroutines",
	}, func() float64 {
		return float64(runtime.NumGoroutine())
	})

	registry.MustRegister(requestDuration, requestTotal, locationWrites, sharingUsers, locationsPurged, goroutines)

	return &MetricsService{
		registry:        registry,
		handler:         promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
		requestDuration: requestDuration,
		requestTotal:    requestTotal,
		locationWrites:  locationWrites,
		sharingUsers:    sharingUsers,
		locationsPurged: locationsPurged,
	}
}

// Handler exposes the Prometheus HTTP handler.
func (m *MetricsService) Handler() http.Handler {
	if m == nil {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
		})
	}
	return m.handler
}

// ObserveHTTPRequest records request metrics.
func (m *MetricsService) ObserveHTTPRequest(method, path string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	labelStatus := fmt.Sprintf("%d", status)
	m.requestDuration.WithLabelValues(method, path, labelStatus).Observe(duration.Seconds())
	m.requestTotal.WithLabelValues(method, path, labelStatus).Inc()
}

// RecordLocationWrite counts one location write.
func (m *MetricsService) RecordLocationWrite(operation string) {
	if m == nil {
		return
	}
	m.locationWrites.WithLabelValues(operation).Inc()
}

// SetSharingUsers publishes the size of the last sharing listing.
func (m *MetricsService) SetSharingUsers(n int) {
	if m == nil {
		return
	}
	m.sharingUsers.Set(float64(n))
}

// RecordLocationsPurged counts locations removed by the sweeper.
func (m *MetricsService) RecordLocationsPurged(n int64) {
	if m == nil || n <= 0 {
		return
	}
	m.locationsPurged.Add(float64(n))
}
