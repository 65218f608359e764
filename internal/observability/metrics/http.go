package metrics

import (
	"bufio"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type HTTPServerMetrics struct {
	registry *prometheus.Registry

	requestTotal    *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	requestInFlight prometheus.Gauge

	turnsTotal              *prometheus.CounterVec
	turnDuration            *prometheus.HistogramVec
	decisionsTotal          *prometheus.CounterVec
	lookupDuration          *prometheus.HistogramVec
	extractionFallbackTotal *prometheus.CounterVec
}

func NewHTTPServerMetrics(service string) *HTTPServerMetrics {
	registry := prometheus.NewRegistry()

	requestTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "loan",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total HTTP requests processed.",
		},
		[]string{"service", "method", "path", "status"},
	)
	requestDuration := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "loan",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request duration in seconds.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"service", "method", "path"},
	)
	requestInFlight := prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "loan",
			Subsystem: "http",
			Name:      "in_flight_requests",
			Help:      "Number of in-flight HTTP requests.",
			ConstLabels: prometheus.Labels{
				"service": service,
			},
		},
	)
	turnsTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "loan",
			Subsystem: "dialogue",
			Name:      "turns_total",
			Help:      "Total processed conversation turns by resulting stage and agent.",
		},
		[]string{"service", "stage", "agent"},
	)
	turnDuration := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "loan",
			Subsystem: "dialogue",
			Name:      "turn_duration_seconds",
			Help:      "Turn processing duration in seconds.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"service"},
	)
	decisionsTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "loan",
			Subsystem: "underwriting",
			Name:      "decisions_total",
			Help:      "Total underwriting decisions by outcome.",
		},
		[]string{"service", "outcome"},
	)
	lookupDuration := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "loan",
			Subsystem: "lookup",
			Name:      "duration_seconds",
			Help:      "External KYC and bureau lookup duration in seconds.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"service", "target", "status"},
	)
	extractionFallbackTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "loan",
			Subsystem: "dialogue",
			Name:      "extraction_fallback_total",
			Help:      "Total turns where the model fallback was consulted, by result.",
		},
		[]string{"service", "stage", "result"},
	)

	registry.MustRegister(
		requestTotal,
		requestDuration,
		requestInFlight,
		turnsTotal,
		turnDuration,
		decisionsTotal,
		lookupDuration,
		extractionFallbackTotal,
	)

	return &HTTPServerMetrics{
		registry:                registry,
		requestTotal:            requestTotal,
		requestDuration:         requestDuration,
		requestInFlight:         requestInFlight,
		turnsTotal:              turnsTotal,
		turnDuration:            turnDuration,
		decisionsTotal:          decisionsTotal,
		lookupDuration:          lookupDuration,
		extractionFallbackTotal: extractionFallbackTotal,
	}
}

func (m *HTTPServerMetrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *HTTPServerMetrics) Middleware(service string, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		path := normalizePath(r.URL.Path)
		recorder := &statusRecorder{
			ResponseWriter: w,
			statusCode:     http.StatusOK,
		}

		m.requestInFlight.Inc()
		defer m.requestInFlight.Dec()

		next.ServeHTTP(recorder, r)

		m.requestTotal.WithLabelValues(
			service,
			r.Method,
			path,
			strconv.Itoa(recorder.statusCode),
		).Inc()
		m.requestDuration.WithLabelValues(service, r.Method, path).Observe(time.Since(start).Seconds())
	})
}

func normalizePath(path string) string {
	switch {
	case strings.HasPrefix(path, "/v1/sessions/"):
		return "/v1/sessions/{session_id}"
	case strings.HasPrefix(path, "/v1/applications/"):
		return "/v1/applications/{application_id}"
	default:
		return path
	}
}

func (m *HTTPServerMetrics) RecordTurn(service, stage, agent string, duration time.Duration) {
	if agent == "" {
		agent = "unknown"
	}
	m.turnsTotal.WithLabelValues(service, stage, agent).Inc()
	m.turnDuration.WithLabelValues(service).Observe(duration.Seconds())
}

func (m *HTTPServerMetrics) RecordDecision(service string, approved bool) {
	outcome := "rejected"
	if approved {
		outcome = "approved"
	}
	m.decisionsTotal.WithLabelValues(service, outcome).Inc()
}

func (m *HTTPServerMetrics) RecordLookup(service, target string, duration time.Duration, err error) {
	status := "success"
	if err != nil {
		status = "error"
	}
	m.lookupDuration.WithLabelValues(service, target, status).Observe(duration.Seconds())
}

func (m *HTTPServerMetrics) RecordExtractionFallback(service, stage, result string) {
	if result == "" {
		result = "unknown"
	}
	m.extractionFallbackTotal.WithLabelValues(service, stage, result).Inc()
}

// DialogueRecorder binds the lookup and fallback counters to one service
// label so the dialogue layer can record without depending on prometheus.
type DialogueRecorder struct {
	service string
	metrics *HTTPServerMetrics
}

func (m *HTTPServerMetrics) DialogueRecorder(service string) *DialogueRecorder {
	return &DialogueRecorder{service: service, metrics: m}
}

func (r *DialogueRecorder) RecordLookup(target string, duration time.Duration, err error) {
	r.metrics.RecordLookup(r.service, target, duration, err)
}

func (r *DialogueRecorder) RecordExtractionFallback(stage, result string) {
	r.metrics.RecordExtractionFallback(r.service, stage, result)
}

type statusRecorder struct {
	http.ResponseWriter
	statusCode int
}

func (w *statusRecorder) WriteHeader(statusCode int) {
	w.statusCode = statusCode
	w.ResponseWriter.WriteHeader(statusCode)
}

func (w *statusRecorder) Flush() {
	flusher, ok := w.ResponseWriter.(http.Flusher)
	if ok {
		flusher.Flush()
	}
}

func (w *statusRecorder) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	hijacker, ok := w.ResponseWriter.(http.Hijacker)
	if !ok {
		return nil, nil, fmt.Errorf("response writer does not implement http.Hijacker")
	}
	return hijacker.Hijack()
}

func (w *statusRecorder) Push(target string, opts *http.PushOptions) error {
	pusher, ok := w.ResponseWriter.(http.Pusher)
	if !ok {
		return http.ErrNotSupported
	}
	return pusher.Push(target, opts)
}
