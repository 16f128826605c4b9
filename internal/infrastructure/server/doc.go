// Package server wires the shell components into one HTTP service.
//
// This package orchestrates all components:
//   - Application registry seeded from descriptor files
//   - Navigation descriptor provider (file with hot reload, or remote)
//   - Route table compilation and atomic swaps on reload
//   - Session manager with idle eviction
//   - Entry prober with per-application circuit breakers
//   - Middleware stack (recovery, tracing, access log, metrics, CORS,
//     rate limiting, gzip)
//
// Server Lifecycle:
//  1. Load configuration from environment/flags
//  2. Initialize logger (production or development)
//  3. Seed the registry and load the navigation descriptor
//  4. Compile the route table
//  5. Setup HTTP routes and middleware
//  6. Run HTTP server and background workers until the context ends
//  7. Graceful shutdown
//
// Example Usage:
//
//	cfg := config.LoadOrDefault()
//	srv, err := server.NewServer(cfg)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer srv.Close()
//	err = srv.Run(ctx)
package server
