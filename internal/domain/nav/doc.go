// Package nav holds the shell's tab stores.
//
// AppTabs is the navigation state: one tab per application, the active one
// shows in the top bar. Once populated, exactly one tab is active.
//
// PageTabs is the tab state of the main application: ordered, append-only
// except for explicit close. The home tab is never closable.
//
// Both stores are plain values. The shell clones them inside a batch and
// publishes the result atomically, so they carry no locks of their own.
package nav
