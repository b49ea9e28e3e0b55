package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "loan_predictor"

// Metrics groups the collectors the service updates. Build it with New so the
// collectors land on the registerer of your choice.
type Metrics struct {
	Requests        *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec
	Decisions       *prometheus.CounterVec
	Reasons         *prometheus.CounterVec
	ModelLatency    prometheus.Histogram
	ModelErrors     prometheus.Counter
	CacheLookups    *prometheus.CounterVec
}

func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		Requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Number of requests per route and status code",
		}, []string{"code", "method", "route"}),
		RequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "Request latency per route",
			Buckets:   prometheus.DefBuckets,
		}, []string{"route"}),
		Decisions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "decisions_total",
			Help:      "Loan decisions by status",
		}, []string{"status"}),
		Reasons: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rejection_reasons_total",
			Help:      "Rejection reasons attached to decisions",
		}, []string{"code"}),
		ModelLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "model",
			Name:      "predict_duration_seconds",
			Help:      "Classifier latency",
			Buckets:   []float64{.0005, .001, .005, .01, .05, .1, .5, 1, 5},
		}),
		ModelErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "model",
			Name:      "errors_total",
			Help:      "Failed classifier calls",
		}),
		CacheLookups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "cache",
			Name:      "lookups_total",
			Help:      "Prediction cache lookups by result",
		}, []string{"result"}),
	}

	if reg != nil {
		reg.MustRegister(
			m.Requests,
			m.RequestDuration,
			m.Decisions,
			m.Reasons,
			m.ModelLatency,
			m.ModelErrors,
			m.CacheLookups,
		)
	}
	return m
}
