package http

import (
	"time"

	"github.com/GriffinCanCode/microshell/internal/infrastructure/monitoring"
	"github.com/GriffinCanCode/microshell/internal/shared/types"
)

// HandlerMetrics records handler outcomes. A nil collector disables it.
type HandlerMetrics struct {
	metrics *monitoring.Metrics
}

// NewHandlerMetrics creates a metrics wrapper
func NewHandlerMetrics(metrics *monitoring.Metrics) *HandlerMetrics {
	return &HandlerMetrics{metrics: metrics}
}

// TrackNavigation starts timing a navigation; call the result with its outcome
func (hm *HandlerMetrics) TrackNavigation() func(tr types.Transition, err error) {
	start := time.Now()
	return func(tr types.Transition, err error) {
		if hm.metrics == nil || err != nil {
			return
		}
		hm.metrics.RecordNavigation(tr.App, tr.Degraded != "", tr.Redirected, time.Since(start))
	}
}

// SessionCreated records a new session
func (hm *HandlerMetrics) SessionCreated(active int) {
	if hm.metrics == nil {
		return
	}
	hm.metrics.IncSessionsCreated()
	hm.metrics.SetSessionsActive(active)
}

// SessionDeleted records an explicit session drop
func (hm *HandlerMetrics) SessionDeleted(active int) {
	if hm.metrics == nil {
		return
	}
	hm.metrics.SetSessionsActive(active)
}

// TabClosed records a closed page tab
func (hm *HandlerMetrics) TabClosed() {
	if hm.metrics == nil {
		return
	}
	hm.metrics.IncTabsClosed()
}
