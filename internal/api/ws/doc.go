// Package ws streams shell session state over WebSocket.
//
// A connection subscribes to one session. The current snapshot is pushed
// on connect and every committed snapshot after that; a slow client only
// ever misses intermediate snapshots, never the latest.
//
// Message Types (Client → Server):
//   - navigate: run the route guard for {from, to}
//   - ping: keep-alive ping
//
// Message Types (Server → Client):
//   - snapshot: session state after a commit
//   - transition: outcome of a navigate request
//   - pong: reply to ping
//   - error: invalid request
//
// Example Usage:
//
//	handler := ws.NewHandler(sessions, ws.Options{Metrics: metrics, Logger: logger})
//	router.GET("/sessions/:id/stream", handler.Stream)
package ws
