/*
Package resilience guards sub-application entries with circuit breakers.

Breakers are github.com/sony/gobreaker circuit breakers with states
exposed by name ("closed", "half-open", "open") so they read well in JSON
health reports. The entry prober keeps one breaker per sub-application in
a Group: an unreachable entry stops being fetched until its open period
expires, then a single half-open probe decides whether it closes again.

	group := resilience.NewGroup(resilience.Settings{
		Timeout: 30 * time.Second,
		ReadyToTrip: func(c resilience.Counts) bool {
			return c.ConsecutiveFailures >= 3
		},
	})
	page, err := resilience.Execute(group.Get(app.ID), func() (entryPage, error) {
		return fetch(ctx, app.Entry)
	})
	if errors.Is(err, resilience.ErrCircuitOpen) {
		// skipped
	}
*/
package resilience
