// Package session manages shell sessions.
//
// A session is one connected browser shell: its own Shell (application
// tabs, page tabs, menu and guard) over the process-wide registry, route
// table and navigation descriptor.
//
// Components:
//   - Manager: create, look up, drop and evict sessions
//   - Session: a Shell plus bookkeeping (creation, last activity)
//
// Lifecycle:
//  1. Create allocates a sess_<ULID> id and a fresh Shell
//  2. Get marks the session active
//  3. Run evicts sessions idle for longer than the TTL
//
// Example Usage:
//
//	manager := session.NewManager(factory, session.Options{TTL: 30 * time.Minute})
//	go manager.Run(ctx, time.Minute)
//	sess := manager.Create()
//	tr, err := sess.Shell.Navigate("/", "/dashboard")
package session
