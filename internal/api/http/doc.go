// Package http provides the HTTP handlers of the shell API.
//
// Handlers expose the application registry, the compiled route table, the
// side menu and per-session shell state using the Gin framework.
//
// Endpoints:
//   - Health: / and /health
//   - Apps: /apps, /apps/health
//   - Routes: /routes, /routes/resolve?path=
//   - Menu: /menu, /menu/reload
//   - Sessions: /sessions, /sessions/:id, /sessions/:id/navigate,
//     /sessions/:id/menu/active, /sessions/:id/tabs/:tabId
//   - Metrics: /metrics/json
//
// Domain errors map to status codes: invalid input 400, unknown session or
// tab 404, closing the home tab 409, rejected descriptors 422.
//
// Example Usage:
//
//	handlers := http.NewHandlers(http.Options{Registry: reg, Menu: provider, Router: router, Sessions: sessions})
//	router.GET("/health", handlers.Health)
//	router.POST("/sessions/:id/navigate", handlers.Navigate)
package http
