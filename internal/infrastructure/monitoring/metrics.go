package monitoring

import (
	"net/http"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "microshell"

// Metrics holds all Prometheus metrics
type Metrics struct {
	registry *prometheus.Registry

	// HTTP metrics
	RequestsTotal   *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec

	// Navigation metrics
	Navigations        *prometheus.CounterVec
	NavigationDuration prometheus.Histogram
	Redirects          prometheus.Counter
	TabsClosed         prometheus.Counter

	// Session metrics
	SessionsActive  prometheus.Gauge
	SessionsCreated prometheus.Counter
	SessionsEvicted prometheus.Counter

	// Registry and route table metrics
	RegistryApps     prometheus.Gauge
	RouteRecords     prometheus.Gauge
	DescriptorReload *prometheus.CounterVec

	// Probe metrics
	ProbeResults  *prometheus.CounterVec
	ProbeDuration *prometheus.HistogramVec

	// WebSocket metrics
	WSConnections prometheus.Gauge
	WSMessages    *prometheus.CounterVec

	startTime time.Time

	// Snapshot for JSON API - track current values
	snapshot MetricsSnapshot
	mu       sync.RWMutex
}

// MetricsSnapshot holds current metric values for JSON API
type MetricsSnapshot struct {
	TotalRequests  int64   `json:"total_requests"`
	TotalErrors    int64   `json:"total_errors"`
	Navigations    int64   `json:"navigations"`
	Degraded       int64   `json:"degraded"`
	ActiveSessions int64   `json:"active_sessions"`
	AvgLatencyMS   float64 `json:"avg_latency_ms"`
	UptimeSeconds  float64 `json:"uptime_seconds"`
	totalDuration  float64
}

// NewMetrics creates a metrics collector on its own registry
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	f := promauto.With(reg)

	m := &Metrics{
		registry:  reg,
		startTime: time.Now(),

		RequestsTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "http_requests_total",
				Help:      "Total number of HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		RequestDuration: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "http_request_duration_seconds",
				Help:      "HTTP request duration in seconds",
				Buckets:   []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5},
			},
			[]string{"method", "path"},
		),

		Navigations: f.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "navigations_total",
				Help:      "Guarded navigations by owning application and outcome",
			},
			[]string{"app", "outcome"},
		),
		NavigationDuration: f.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "navigation_duration_seconds",
				Help:      "Time spent resolving and committing one navigation",
				Buckets:   []float64{.00005, .0001, .00025, .0005, .001, .0025, .005, .01},
			},
		),
		Redirects: f.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "navigation_redirects_total",
				Help:      "Navigations whose target was redirected",
			},
		),
		TabsClosed: f.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "page_tabs_closed_total",
				Help:      "Page tabs closed explicitly",
			},
		),

		SessionsActive: f.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "sessions_active",
				Help:      "Number of live shell sessions",
			},
		),
		SessionsCreated: f.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "sessions_created_total",
				Help:      "Shell sessions created",
			},
		),
		SessionsEvicted: f.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "sessions_evicted_total",
				Help:      "Shell sessions evicted for inactivity",
			},
		),

		RegistryApps: f.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "registry_apps",
				Help:      "Registered applications including main",
			},
		),
		RouteRecords: f.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "route_records",
				Help:      "Matchable records in the compiled route table",
			},
		),
		DescriptorReload: f.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "descriptor_reloads_total",
				Help:      "Navigation descriptor reload attempts",
			},
			[]string{"result"},
		),

		ProbeResults: f.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "probe_results_total",
				Help:      "Sub-application entry probe results",
			},
			[]string{"app", "status"},
		),
		ProbeDuration: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "probe_duration_seconds",
				Help:      "Sub-application entry probe duration",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"app"},
		),

		WSConnections: f.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "ws_connections",
				Help:      "Number of open snapshot streams",
			},
		),
		WSMessages: f.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "ws_messages_total",
				Help:      "WebSocket messages by direction",
			},
			[]string{"direction", "type"},
		),
	}

	f.NewGaugeFunc(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "uptime_seconds",
			Help:      "Service uptime in seconds",
		},
		func() float64 { return time.Since(m.startTime).Seconds() },
	)

	return m
}

// Registry returns the underlying registry
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the Prometheus exposition format for this registry
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// RecordHTTPRequest records an HTTP request
func (m *Metrics) RecordHTTPRequest(method, path, status string, duration time.Duration) {
	m.RequestsTotal.WithLabelValues(method, path, status).Inc()
	m.RequestDuration.WithLabelValues(method, path).Observe(duration.Seconds())

	m.mu.Lock()
	m.snapshot.TotalRequests++
	m.snapshot.totalDuration += duration.Seconds()
	if status[0] == '4' || status[0] == '5' {
		m.snapshot.TotalErrors++
	}
	m.mu.Unlock()
}

// RecordNavigation records one guarded navigation
func (m *Metrics) RecordNavigation(app string, degraded, redirected bool, duration time.Duration) {
	outcome := "ok"
	if degraded {
		outcome = "degraded"
	}
	if app == "" {
		app = "none"
	}
	m.Navigations.WithLabelValues(app, outcome).Inc()
	m.NavigationDuration.Observe(duration.Seconds())
	if redirected {
		m.Redirects.Inc()
	}

	m.mu.Lock()
	m.snapshot.Navigations++
	if degraded {
		m.snapshot.Degraded++
	}
	m.mu.Unlock()
}

// RecordDescriptorReload records a descriptor reload attempt
func (m *Metrics) RecordDescriptorReload(err error) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	m.DescriptorReload.WithLabelValues(result).Inc()
}

// RecordProbe records one entry probe
func (m *Metrics) RecordProbe(app, status string, duration time.Duration) {
	m.ProbeResults.WithLabelValues(app, status).Inc()
	m.ProbeDuration.WithLabelValues(app).Observe(duration.Seconds())
}

// RecordWSMessage records a WebSocket message
func (m *Metrics) RecordWSMessage(direction, msgType string) {
	m.WSMessages.WithLabelValues(direction, msgType).Inc()
}

// SetSessionsActive sets the number of live sessions
func (m *Metrics) SetSessionsActive(count int) {
	m.SessionsActive.Set(float64(count))
	m.mu.Lock()
	m.snapshot.ActiveSessions = int64(count)
	m.mu.Unlock()
}

// IncSessionsCreated increments the sessions created counter
func (m *Metrics) IncSessionsCreated() {
	m.SessionsCreated.Inc()
}

// IncSessionsEvicted increments the sessions evicted counter
func (m *Metrics) IncSessionsEvicted() {
	m.SessionsEvicted.Inc()
}

// IncTabsClosed increments the closed page tabs counter
func (m *Metrics) IncTabsClosed() {
	m.TabsClosed.Inc()
}

// SetRegistryApps sets the number of registered applications
func (m *Metrics) SetRegistryApps(count int) {
	m.RegistryApps.Set(float64(count))
}

// SetRouteRecords sets the number of route table records
func (m *Metrics) SetRouteRecords(count int) {
	m.RouteRecords.Set(float64(count))
}

// IncWSConnections increments WebSocket connections
func (m *Metrics) IncWSConnections() {
	m.WSConnections.Inc()
}

// DecWSConnections decrements WebSocket connections
func (m *Metrics) DecWSConnections() {
	m.WSConnections.Dec()
}

// Snapshot returns current values for the JSON API
func (m *Metrics) Snapshot() MetricsSnapshot {
	m.mu.RLock()
	defer m.mu.RUnlock()

	snap := m.snapshot
	if snap.TotalRequests > 0 {
		snap.AvgLatencyMS = snap.totalDuration / float64(snap.TotalRequests) * 1000
	}
	snap.UptimeSeconds = time.Since(m.startTime).Seconds()
	return snap
}
