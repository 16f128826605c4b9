// Package middleware provides the HTTP middleware stack for the shell API.
//
// Middleware stack includes:
//   - CORS: cross-origin resource sharing with configured origins
//   - RateLimit: per-IP token bucket rate limiting with idle eviction
//   - Gzip: response compression for clients that accept it
//   - Logger: structured access logging via zap
//
// Example Usage:
//
//	limiter := middleware.NewRateLimiter(middleware.DefaultRateLimitConfig())
//	go limiter.Run(ctx, time.Minute)
//
//	router.Use(middleware.CORS(middleware.DefaultCORSConfig(cfg.Server.CORSOrigins...)))
//	router.Use(limiter.Middleware())
//	router.Use(middleware.Gzip(gzip.DefaultCompression, "/metrics"))
package middleware
