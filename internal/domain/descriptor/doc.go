// Package descriptor loads and holds the navigation descriptor of the main
// application.
//
// Sources:
//   - FileSource: a YAML, TOML or JSON document chosen by extension
//   - RemoteSource: a JSON menu endpoint fetched with bounded retries
//
// A Provider keeps the last valid descriptor. A reload that fails to load
// or validate leaves the previous descriptor in place. A Watcher reloads
// the provider when the descriptor file changes on disk.
//
// Document shape:
//
//	menu:
//	  - id: dashboard
//	    title: Dashboard
//	    path: /dashboard
//	    meta: {title: Dashboard}
//	    children: []
package descriptor
