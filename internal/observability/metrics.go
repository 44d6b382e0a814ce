package observability

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics groups all Prometheus instruments used by the service.
type Metrics struct {
	Requests              *prometheus.CounterVec
	DatasetReadFailures   *prometheus.CounterVec
	LLMLatency            prometheus.Histogram
	RecommendationsStored prometheus.Counter
	EmployeeQueries       prometheus.Counter
}

func NewMetrics(namespace string) *Metrics {
	return &Metrics{
		Requests: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "requests_total",
			Help:      "Next-action requests by outcome.",
		}, []string{"outcome"}),
		DatasetReadFailures: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "dataset_read_failures_total",
			Help:      "Tolerated per-dataset read failures by source file.",
		}, []string{"source"}),
		LLMLatency: promauto.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "llm_latency_ms",
			Help:      "Latency of generative service calls in milliseconds.",
			Buckets:   []float64{250, 500, 1000, 2000, 4000, 8000, 16000, 30000},
		}),
		RecommendationsStored: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "recommendations_stored_total",
			Help:      "Recommendations persisted to the store.",
		}),
		EmployeeQueries: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "employee_queries_total",
			Help:      "Store queries by employee identifier.",
		}),
	}
}

func (m *Metrics) ObserveLLMLatency(d time.Duration) {
	m.LLMLatency.Observe(float64(d.Milliseconds()))
}

func MetricsHandler() http.Handler {
	return promhttp.Handler()
}
