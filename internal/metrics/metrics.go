// Package metrics expone los contadores Prometheus del servicio en un registry propio.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "careerpath"

// Manager agrupa las metricas. Un *Manager nil es valido y no registra nada.
type Manager struct {
	registry *prometheus.Registry

	sessionsStarted      prometheus.Counter
	answersRecorded      prometheus.Counter
	assessmentsCompleted prometheus.Counter
	completionLatency    prometheus.Histogram
	enrichmentFailures   prometheus.Counter
	questionsGenerated   prometheus.Counter
	searchFallbacks      prometheus.Counter

	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
}

func NewManager() *Manager {
	reg := prometheus.NewRegistry()
	auto := promauto.With(reg)
	return &Manager{
		registry: reg,
		sessionsStarted: auto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "assessment",
			Name:      "sessions_started_total",
			Help:      "Assessment sessions started",
		}),
		answersRecorded: auto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "assessment",
			Name:      "answers_recorded_total",
			Help:      "Answers recorded, including overwrites",
		}),
		assessmentsCompleted: auto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "assessment",
			Name:      "completed_total",
			Help:      "Assessments completed and persisted",
		}),
		completionLatency: auto.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "assessment",
			Name:      "completion_duration_seconds",
			Help:      "Time spent scoring, matching and persisting a completed assessment",
			Buckets:   prometheus.DefBuckets,
		}),
		enrichmentFailures: auto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "llm",
			Name:      "enrichment_failures_total",
			Help:      "Recommendation enrichments that fell back to the deterministic text",
		}),
		questionsGenerated: auto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "llm",
			Name:      "questions_generated_total",
			Help:      "Questions produced by the generator",
		}),
		searchFallbacks: auto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "search",
			Name:      "keyword_fallbacks_total",
			Help:      "Career searches served by keyword match instead of embeddings",
		}),
		httpRequests: auto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "HTTP requests by route, method and status",
		}, []string{"route", "method", "status"}),
		httpRequestDuration: auto.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request latency by route",
			Buckets:   prometheus.DefBuckets,
		}, []string{"route", "method"}),
	}
}

func (m *Manager) SessionStarted() {
	if m == nil {
		return
	}
	m.sessionsStarted.Inc()
}

func (m *Manager) AnswerRecorded() {
	if m == nil {
		return
	}
	m.answersRecorded.Inc()
}

func (m *Manager) AssessmentCompleted(d time.Duration) {
	if m == nil {
		return
	}
	m.assessmentsCompleted.Inc()
	m.completionLatency.Observe(d.Seconds())
}

func (m *Manager) EnrichmentFailed() {
	if m == nil {
		return
	}
	m.enrichmentFailures.Inc()
}

func (m *Manager) QuestionsGenerated(n int) {
	if m == nil || n <= 0 {
		return
	}
	m.questionsGenerated.Add(float64(n))
}

func (m *Manager) SearchFallback() {
	if m == nil {
		return
	}
	m.searchFallbacks.Inc()
}

// ObserveHTTP registra un request terminado. route es el patron, no el path crudo.
func (m *Manager) ObserveHTTP(route, method string, status int, d time.Duration) {
	if m == nil {
		return
	}
	if route == "" {
		route = "unmatched"
	}
	m.httpRequests.WithLabelValues(route, method, strconv.Itoa(status)).Inc()
	m.httpRequestDuration.WithLabelValues(route, method).Observe(d.Seconds())
}

// Handler sirve el registry en formato de exposicion Prometheus.
func (m *Manager) Handler() http.Handler {
	if m == nil {
		return promhttp.HandlerFor(prometheus.NewRegistry(), promhttp.HandlerOpts{})
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Registry expone el registry subyacente (tests).
func (m *Manager) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}
