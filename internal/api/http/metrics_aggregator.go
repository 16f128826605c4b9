package http

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/GriffinCanCode/microshell/internal/domain/registry"
	"github.com/GriffinCanCode/microshell/internal/domain/session"
	"github.com/GriffinCanCode/microshell/internal/infrastructure/monitoring"
	"github.com/GriffinCanCode/microshell/internal/infrastructure/probe"
	"github.com/GriffinCanCode/microshell/internal/infrastructure/resilience"
	"github.com/GriffinCanCode/microshell/internal/shared/types"
)

// MetricsAggregator combines collector counters with live component state
type MetricsAggregator struct {
	metrics  *monitoring.Metrics
	registry *registry.Manager
	sessions *session.Manager
	prober   *probe.Prober
}

// NewMetricsAggregator creates a metrics aggregator
func NewMetricsAggregator(metrics *monitoring.Metrics, reg *registry.Manager, sessions *session.Manager, prober *probe.Prober) *MetricsAggregator {
	return &MetricsAggregator{
		metrics:  metrics,
		registry: reg,
		sessions: sessions,
		prober:   prober,
	}
}

// MetricsSnapshot represents a snapshot of shell metrics
type MetricsSnapshot struct {
	Timestamp time.Time                   `json:"timestamp"`
	Shell     monitoring.MetricsSnapshot  `json:"shell"`
	Registry  types.RegistryStats         `json:"registry"`
	Sessions  session.Stats               `json:"sessions"`
	Breakers  map[string]resilience.State `json:"breakers,omitempty"`
	Summary   MetricsSummary              `json:"summary"`
}

// MetricsSummary provides high-level metrics
type MetricsSummary struct {
	TotalRequests    int64   `json:"total_requests"`
	AverageLatencyMs float64 `json:"average_latency_ms"`
	ErrorRate        float64 `json:"error_rate"`
	DegradedRate     float64 `json:"degraded_rate"`
	OpenBreakers     int     `json:"open_breakers"`
	UptimeSeconds    float64 `json:"uptime_seconds"`
}

// GetAggregatedMetrics returns the JSON metrics snapshot
func (ma *MetricsAggregator) GetAggregatedMetrics(c *gin.Context) {
	c.JSON(http.StatusOK, ma.Snapshot())
}

// Snapshot collects the current metrics
func (ma *MetricsAggregator) Snapshot() MetricsSnapshot {
	snap := MetricsSnapshot{
		Timestamp: time.Now(),
		Shell:     ma.metrics.Snapshot(),
		Registry:  ma.registry.Stats(),
		Sessions:  ma.sessions.Stats(),
	}
	if ma.prober != nil {
		snap.Breakers = ma.prober.Breakers()
	}
	snap.Summary = summarize(snap)
	return snap
}

func summarize(snap MetricsSnapshot) MetricsSummary {
	s := MetricsSummary{
		TotalRequests:    snap.Shell.TotalRequests,
		AverageLatencyMs: snap.Shell.AvgLatencyMS,
		UptimeSeconds:    snap.Shell.UptimeSeconds,
	}
	if snap.Shell.TotalRequests > 0 {
		s.ErrorRate = float64(snap.Shell.TotalErrors) / float64(snap.Shell.TotalRequests)
	}
	if snap.Shell.Navigations > 0 {
		s.DegradedRate = float64(snap.Shell.Degraded) / float64(snap.Shell.Navigations)
	}
	for _, st := range snap.Breakers {
		if st == resilience.StateOpen {
			s.OpenBreakers++
		}
	}
	return s
}
