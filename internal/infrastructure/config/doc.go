// Package config loads service configuration from the environment.
//
// Every field has a default, so an empty environment yields a working
// development setup. A .env file in the working directory fills variables
// that are not already set. Command-line flags in cmd/server override a subset.
//
// Environment:
//   - PORT, HOST, CORS_ORIGINS: HTTP listener
//   - SHELL_ENV: selects per-environment application entries
//   - SHELL_APPS_DIR, SHELL_MENU_FILE, SHELL_MENU_URL: descriptor sources
//   - SHELL_VIEWS_DIR, SHELL_VIEW_PATTERN: view index for route compilation
//   - SHELL_HOME, SHELL_MAIN_PREFIXES: guard classification
//   - SHELL_WATCH, SHELL_SESSION_TTL: hot reload, idle session eviction
//   - PROBE_TIMEOUT, PROBE_RETRIES, PROBE_CONCURRENCY: entry prober
//   - LOG_LEVEL, LOG_DEV: logging
//   - RATE_LIMIT_RPS, RATE_LIMIT_BURST, RATE_LIMIT_ENABLED: per-IP limiter
package config
