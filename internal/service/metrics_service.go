package service

import (
	"fmt"
	"net/http"
	"runtime"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Disclosure outcomes recorded by MetricsService.
const (
	OutcomeDisclosed       = "disclosed"
	OutcomeBurned          = "burned"
	OutcomeGated           = "gated"
	OutcomeInvalidPassword = "invalid_password"
	OutcomeExpired         = "expired"
	OutcomeNotFound        = "not_found"
)

// MetricsService encapsulates Prometheus instrumentation. All methods are safe on a nil receiver.
type MetricsService struct {
	registry        *prometheus.Registry
	handler         http.Handler
	requestDuration *prometheus.HistogramVec
	requestTotal    *prometheus.CounterVec
	sharesCreated   *prometheus.CounterVec
	disclosures     *prometheus.CounterVec
	rateLimit       *prometheus.CounterVec
	blobDeletions   *prometheus.CounterVec
	reaped          prometheus.Counter
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

	sharesCreated := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "shares_created_total",
		Help: "Shares created by content type",
	}, []string{"content_type"})

	disclosures := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "share_disclosures_total",
		Help: "Share read attempts by outcome",
	}, []string{"outcome"})

	rateLimit := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "rate_limit_decisions_total",
		Help: "Rate limiter decisions",
	}, []string{"result"})

	blobDeletions := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "blob_deletions_total",
		Help: "Background blob deletions by result",
	}, []string{"result"})

	reaped := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "shares_reaped_total",
		Help: "Expired shares removed by the reaper",
	})

	goroutines := prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Name: "goroutines_total",
		Help: "Total number of goroutines",
	}, func() float64 {
		return float64(runtime.NumGoroutine())
	})

	registry.MustRegister(requestDuration, requestTotal, sharesCreated, disclosures, rateLimit, blobDeletions, reaped, goroutines)

	return &MetricsService{
		registry:        registry,
		handler:         promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
		requestDuration: requestDuration,
		requestTotal:    requestTotal,
		sharesCreated:   sharesCreated,
		disclosures:     disclosures,
		rateLimit:       rateLimit,
		blobDeletions:   blobDeletions,
		reaped:          reaped,
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

// RecordShareCreated counts a new share.
func (m *MetricsService) RecordShareCreated(contentType string) {
	if m == nil {
		return
	}
	m.sharesCreated.WithLabelValues(contentType).Inc()
}

// RecordDisclosure counts one read attempt by outcome.
func (m *MetricsService) RecordDisclosure(outcome string) {
	if m == nil {
		return
	}
	m.disclosures.WithLabelValues(outcome).Inc()
}

// RecordRateLimit counts a limiter decision: allowed, denied or fail_open.
func (m *MetricsService) RecordRateLimit(result string) {
	if m == nil {
		return
	}
	m.rateLimit.WithLabelValues(result).Inc()
}

// RecordBlobDeletion counts a background blob deletion by result.
func (m *MetricsService) RecordBlobDeletion(result string) {
	if m == nil {
		return
	}
	m.blobDeletions.WithLabelValues(result).Inc()
}

// AddReaped counts shares removed by the reaper.
func (m *MetricsService) AddReaped(n int) {
	if m == nil || n <= 0 {
		return
	}
	m.reaped.Add(float64(n))
}
