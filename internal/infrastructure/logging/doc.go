// Package logging provides structured logging using uber/zap.
//
// Two modes:
//   - Production: JSON output for machine parsing
//   - Development: colored console output
//
// Child loggers carry the component ("guard", "registry", "descriptor")
// or the shell session id, so one session's navigations can be followed.
//
// Example Usage:
//
//	logger := logging.NewDefault()
//	logger.Component("registry").Info("Applications seeded", zap.Int("loaded", n))
//	logger.Session(sess.ID).Debug("Navigation", zap.String("to", to))
package logging
