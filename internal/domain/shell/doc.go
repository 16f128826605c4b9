// Package shell orchestrates one browser shell instance.
//
// A Shell owns three stores (application tabs, page tabs, menu) held in a
// single immutable snapshot. Every route change runs the guard, which
// applies all of its mutations inside one batch; readers only ever see
// whole snapshots.
//
// Guard decisions per navigation (from, to):
//  1. Application tabs empty: populate from the registry, main active.
//  2. Resolved path under a main-owned prefix: activate main, merge the
//     current navigation descriptor into the menu, activate the menu node
//     for the path and open a page tab for it, set the page title.
//  3. Otherwise: activate the first application tab whose path prefixes
//     the resolved path. Page tabs and menu are untouched.
//  4. Always allow.
//
// An empty registry turns the guard into a no-op. After-hooks observe the
// committed transition and cannot mutate it.
//
// Example Usage:
//
//	s := shell.New(registry, provider, router, shell.Options{HomePath: "/dashboard"})
//	tr, err := s.Navigate("/", "/user/user-list")
//	snap := s.Snapshot()
package shell
