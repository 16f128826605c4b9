// Package probe checks that sub-application entries are reachable.
//
// Each sub-application's entry document is fetched concurrently, behind a
// per-application circuit breaker, and parsed for the scripts and
// stylesheets it would pull into the shell. Probing only reports; it never
// changes the registry or any shell session.
//
// Statuses:
//   - up: 2xx/3xx entry document
//   - down: transport error or 4xx/5xx
//   - skipped: the application's breaker is open
//
// Example Usage:
//
//	p := probe.New(probe.Options{Timeout: 3 * time.Second, Retries: 1})
//	results := p.Probe(ctx, registry.SubApps())
package probe
