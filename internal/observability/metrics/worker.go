package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type WorkerMetrics struct {
	registry *prometheus.Registry

	letterTotal    *prometheus.CounterVec
	letterDuration *prometheus.HistogramVec
	letterInFlight prometheus.Gauge
	queueLag       *prometheus.HistogramVec
}

func NewWorkerMetrics(service string) *WorkerMetrics {
	registry := prometheus.NewRegistry()

	letterTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "loan",
			Subsystem: "worker",
			Name:      "letters_total",
			Help:      "Total sanction letter jobs by status.",
		},
		[]string{"service", "status"},
	)
	letterDuration := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "loan",
			Subsystem: "worker",
			Name:      "letter_duration_seconds",
			Help:      "Sanction letter rendering duration in seconds by status.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"service", "status"},
	)
	letterInFlight := prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "loan",
			Subsystem: "worker",
			Name:      "letters_in_flight",
			Help:      "Number of in-flight sanction letter jobs.",
			ConstLabels: prometheus.Labels{
				"service": service,
			},
		},
	)
	queueLag := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "loan",
			Subsystem: "worker",
			Name:      "queue_lag_seconds",
			Help:      "Delay between decision time and letter processing start.",
			Buckets:   []float64{0.1, 0.5, 1, 2, 5, 10, 30, 60, 120, 300, 600},
		},
		[]string{"service"},
	)

	registry.MustRegister(letterTotal, letterDuration, letterInFlight, queueLag)

	return &WorkerMetrics{
		registry:       registry,
		letterTotal:    letterTotal,
		letterDuration: letterDuration,
		letterInFlight: letterInFlight,
		queueLag:       queueLag,
	}
}

func (m *WorkerMetrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *WorkerMetrics) StartLetter() {
	m.letterInFlight.Inc()
}

func (m *WorkerMetrics) FinishLetter(service string, duration time.Duration, err error) {
	m.letterInFlight.Dec()

	status := "success"
	if err != nil {
		status = "error"
	}

	m.letterTotal.WithLabelValues(service, status).Inc()
	m.letterDuration.WithLabelValues(service, status).Observe(duration.Seconds())
}

func (m *WorkerMetrics) ObserveQueueLag(service string, lag time.Duration) {
	if lag < 0 {
		return
	}
	m.queueLag.WithLabelValues(service).Observe(lag.Seconds())
}
