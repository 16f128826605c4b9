/*
Package monitoring provides Prometheus metrics for the shell service.

# Overview

Metrics live on a dedicated registry rather than the global default, so
several servers (and tests) can coexist in one process.

# Metrics

- HTTP requests (count, latency) labelled by route template
- Navigations by owning application and outcome, redirects, closed tabs
- Live, created and evicted sessions
- Registered applications, route table size, descriptor reloads
- Entry probe results and latency
- Snapshot stream connections and messages

# Usage

	metrics := monitoring.NewMetrics()
	router.Use(monitoring.Middleware(metrics))
	router.GET("/metrics", gin.WrapH(metrics.Handler()))

	timer := monitoring.NewTimer()
	tr, _ := sh.Navigate(from, to)
	metrics.RecordNavigation(tr.App, tr.Degraded != "", tr.Redirected, timer.Elapsed())
*/
package monitoring
