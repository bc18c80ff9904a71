// Package metrics exposes Prometheus collectors for pipeline runs and the HTTP API.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/riskibarqy/match-predictor/internal/domain/accuracy"
)

type Option func(*Registry)

func WithNamespace(namespace string) Option {
	return func(r *Registry) {
		if namespace != "" {
			r.namespace = namespace
		}
	}
}

// WithRuntimeCollectors adds the Go runtime and process collectors.
func WithRuntimeCollectors() Option {
	return func(r *Registry) {
		r.runtime = true
	}
}

// Registry owns a private Prometheus registry and every collector of the service.
type Registry struct {
	namespace string
	runtime   bool
	registry  *prometheus.Registry

	stepRuns      *prometheus.CounterVec
	stepDuration  *prometheus.HistogramVec
	matchFailures *prometheus.CounterVec
	accuracy      *prometheus.GaugeVec
	httpRequests  *prometheus.CounterVec
	httpDuration  *prometheus.HistogramVec
}

func New(opts ...Option) *Registry {
	r := &Registry{
		namespace: "match_predictor",
		registry:  prometheus.NewRegistry(),
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.runtime {
		r.registry.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
	}

	auto := promauto.With(r.registry)
	r.stepRuns = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: r.namespace,
		Subsystem: "pipeline",
		Name:      "runs_total",
		Help:      "Pipeline step runs by step and status.",
	}, []string{"step", "status"})
	r.stepDuration = auto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: r.namespace,
		Subsystem: "pipeline",
		Name:      "run_duration_seconds",
		Help:      "Pipeline step duration in seconds.",
		Buckets:   []float64{0.1, 0.5, 1, 5, 15, 60, 300, 900},
	}, []string{"step"})
	r.matchFailures = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: r.namespace,
		Subsystem: "pipeline",
		Name:      "match_failures_total",
		Help:      "Matches a pipeline step could not process.",
	}, []string{"step"})
	r.accuracy = auto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: r.namespace,
		Subsystem: "accuracy",
		Name:      "overall_percent",
		Help:      "Latest overall accuracy percentage by metric.",
	}, []string{"strategy", "metric"})
	r.httpRequests = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: r.namespace,
		Subsystem: "http",
		Name:      "requests_total",
		Help:      "HTTP requests by route, method and status code.",
	}, []string{"route", "method", "status_code"})
	r.httpDuration = auto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: r.namespace,
		Subsystem: "http",
		Name:      "request_duration_seconds",
		Help:      "HTTP request duration in seconds.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"route", "method"})
	return r
}

func (r *Registry) ObserveStep(step, status string, duration time.Duration) {
	r.stepRuns.WithLabelValues(step, status).Inc()
	r.stepDuration.WithLabelValues(step).Observe(duration.Seconds())
}

func (r *Registry) MatchFailed(step string) {
	r.matchFailures.WithLabelValues(step).Inc()
}

func (r *Registry) SetOverallAccuracy(strategy string, overall accuracy.Percentages) {
	values := map[string]int{
		"exact_score":              overall.ExactScore,
		"correct_result":           overall.CorrectResult,
		"score_accuracy":           overall.ScoreAccuracy,
		"goal_difference_accuracy": overall.GoalDifferenceAccuracy,
		"scorer_accuracy":          overall.ScorerAccuracy,
		"first_scorer_accuracy":    overall.FirstScorerAccuracy,
		"timing_accuracy":          overall.TimingAccuracy,
		"time_accuracy":            overall.TimeAccuracy,
	}
	for metric, value := range values {
		r.accuracy.WithLabelValues(strategy, metric).Set(float64(value))
	}
}

func (r *Registry) ObserveHTTP(route, method string, status int, duration time.Duration) {
	r.httpRequests.WithLabelValues(route, method, strconv.Itoa(status)).Inc()
	r.httpDuration.WithLabelValues(route, method).Observe(duration.Seconds())
}

// Handler serves the registry in the Prometheus exposition format.
func (r *Registry) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{Registry: r.registry})
}

// Gatherer exposes the underlying registry, mainly for tests.
func (r *Registry) Gatherer() prometheus.Gatherer {
	return r.registry
}
