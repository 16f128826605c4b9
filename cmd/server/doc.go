// Package main is the entry point for the micro-frontend shell server.
//
// The server hosts the shell state of a micro-frontend application: it
// registers sub-applications, compiles the route table from the navigation
// descriptor, and runs the route guard for every browser session.
//
// Architecture:
//
//	Browser shell → REST / WebSocket → Session → Route guard → Snapshot
//	                                           ↘ Route table ← Descriptor
//
// The server provides:
//   - REST API for registry, routes, menu and sessions
//   - WebSocket streaming of session snapshots
//   - Descriptor hot reload
//   - Sub-application entry probing
//   - Rate limiting and Prometheus metrics
//
// Configuration:
//   - Environment variables (12-factor)
//   - CLI flags (override env vars)
//   - Defaults for development
//
// Usage:
//
//	# Production mode
//	SHELL_ENV=production ./server -port 8000 -apps config/apps -menu config/menu.yaml
//
//	# Development mode (colored logs, debug level)
//	./server -dev
//
// Signals:
//   - SIGINT, SIGTERM: Graceful shutdown
package main
