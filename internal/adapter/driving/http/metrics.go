package httphandler

import (
	"net/http"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/ericfisherdev/reviewsift/internal/domain/model"
)

// Metrics holds the Prometheus collectors exposed on /metrics. Each Metrics
// owns its registry so tests can create as many as they like.
type Metrics struct {
	registry *prometheus.Registry

	commentsClassified *prometheus.CounterVec
	actionableCategory *prometheus.CounterVec
	analysesTotal      *prometheus.CounterVec
	requestsTotal      *prometheus.CounterVec
	requestDuration    *prometheus.HistogramVec
}

// NewMetrics registers the reviewsift collectors plus the Go runtime and
// process collectors on a fresh registry.
func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		commentsClassified: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "reviewsift",
			Name:      "comments_classified_total",
			Help:      "Review comments classified, by verdict and author kind",
		}, []string{"actionable", "bot"}),
		actionableCategory: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "reviewsift",
			Name:      "actionable_comments_by_category_total",
			Help:      "Actionable review comments, by assigned category",
		}, []string{"category"}),
		analysesTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "reviewsift",
			Name:      "analyses_total",
			Help:      "Repository analyses served, by bot exclusion",
		}, []string{"exclude_bots"}),
		requestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "reviewsift",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "HTTP requests handled, by method and status code",
		}, []string{"method", "status"}),
		requestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "reviewsift",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request latency",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method"}),
	}

	m.registry.MustRegister(
		m.commentsClassified,
		m.actionableCategory,
		m.analysesTotal,
		m.requestsTotal,
		m.requestDuration,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	return m
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// ObserveAnalysis counts every classified comment of an analysis.
func (m *Metrics) ObserveAnalysis(a *model.Analysis) {
	m.analysesTotal.WithLabelValues(strconv.FormatBool(a.ExcludeBots)).Inc()
	for _, cc := range a.Filtered {
		m.ObserveClassification(cc.Classification)
	}
}

// ObserveClassification counts a single classifier verdict.
func (m *Metrics) ObserveClassification(c model.Classification) {
	m.commentsClassified.WithLabelValues(
		strconv.FormatBool(c.IsActionable),
		strconv.FormatBool(c.IsBot),
	).Inc()

	if !c.IsActionable {
		return
	}
	for _, cat := range c.Categories {
		m.actionableCategory.WithLabelValues(string(cat)).Inc()
	}
}

func (m *Metrics) observeRequest(method string, status int, seconds float64) {
	m.requestsTotal.WithLabelValues(method, strconv.Itoa(status)).Inc()
	m.requestDuration.WithLabelValues(method).Observe(seconds)
}
