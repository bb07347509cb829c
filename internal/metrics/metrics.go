// Package metrics exposes the prometheus collectors of the API.
//
// A nil *Metrics is valid and records nothing, so components can be built
// without metrics in tests.
package metrics

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Metrics struct {
	gatherer prometheus.Gatherer

	httpRequestsTotal   *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
	httpInflight        prometheus.Gauge
	loginsTotal         *prometheus.CounterVec
	dictamenesTotal     *prometheus.CounterVec
	jobsTotal           *prometheus.CounterVec
	rateLimitedTotal    *prometheus.CounterVec
}

// New registers every collector on a fresh registry that also carries the Go
// runtime and process collectors.
func New() (*Metrics, error) {
	reg := prometheus.NewRegistry()
	m := &Metrics{
		gatherer: reg,
		httpRequestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Número total de requests procesadas",
		}, []string{"method", "path", "status"}),
		httpRequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Latencia de los requests HTTP",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "path"}),
		httpInflight: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "http_inflight_requests",
			Help: "Requests en vuelo",
		}),
		loginsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "evidencias_logins_total",
			Help: "Intentos de login por resultado",
		}, []string{"result"}), // ok|reused|bad_request|invalid|inactive
		dictamenesTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "evidencias_dictamenes_total",
			Help: "Transiciones de estado de expedientes",
		}, []string{"estado"}),
		jobsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "evidencias_jobs_total",
			Help: "Jobs procesados por el worker pool",
		}, []string{"type", "result"}), // result: ok|retry|dead
		rateLimitedTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "evidencias_rate_limited_total",
			Help: "Requests rechazadas por rate limit",
		}, []string{"scope"}),
	}

	collectors := []prometheus.Collector{
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.httpRequestsTotal,
		m.httpRequestDuration,
		m.httpInflight,
		m.loginsTotal,
		m.dictamenesTotal,
		m.jobsTotal,
		m.rateLimitedTotal,
	}
	for _, c := range collectors {
		if err := reg.Register(c); err != nil {
			var are prometheus.AlreadyRegisteredError
			if errors.As(err, &are) {
				continue
			}
			return nil, err
		}
	}
	return m, nil
}

// Handler serves the registry in the prometheus text format.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.gatherer, promhttp.HandlerOpts{})
}

// Gatherer exposes the registry, mainly for tests.
func (m *Metrics) Gatherer() prometheus.Gatherer { return m.gatherer }

func (m *Metrics) RequestStarted() {
	if m == nil {
		return
	}
	m.httpInflight.Inc()
}

// ObserveHTTP records a finished request. path must be the route template, not
// the raw URL, to keep label cardinality bounded.
func (m *Metrics) ObserveHTTP(method, path string, status int, d time.Duration) {
	if m == nil {
		return
	}
	m.httpInflight.Dec()
	m.httpRequestsTotal.WithLabelValues(method, path, strconv.Itoa(status)).Inc()
	m.httpRequestDuration.WithLabelValues(method, path).Observe(d.Seconds())
}

func (m *Metrics) Login(result string) {
	if m == nil {
		return
	}
	m.loginsTotal.WithLabelValues(result).Inc()
}

func (m *Metrics) Dictamen(estado string) {
	if m == nil {
		return
	}
	m.dictamenesTotal.WithLabelValues(estado).Inc()
}

func (m *Metrics) Job(jobType, result string) {
	if m == nil {
		return
	}
	m.jobsTotal.WithLabelValues(jobType, result).Inc()
}

func (m *Metrics) RateLimited(scope string) {
	if m == nil {
		return
	}
	m.rateLimitedTotal.WithLabelValues(scope).Inc()
}
