// Package registry provides the application registry of the shell.
//
// The registry lists every application the shell knows: one implicit "main"
// entry, always first, followed by each registered sub-application in
// registration order. Each entry carries a name, an entry locator, a mount
// point and an activation rule (a path prefix).
//
// Components:
//   - Manager: Validated registration, listing and path resolution
//   - Seeder: Loads application specs from descriptor files on startup
//
// Resolution Policy:
//   - Activation rules are plain, case-sensitive string prefixes
//   - FirstRegisteredWins: when several rules prefix a path, the sub-app
//     registered first owns it; no longest-prefix matching
//   - No match resolves to main
//
// Example Usage:
//
//	reg := registry.NewManager(registry.Options{HomePath: "/dashboard"})
//	_, err := reg.Register(types.AppSpec{
//	    Name:       "sub",
//	    Entry:      "http://localhost:8081",
//	    Container:  "#micro-app-container",
//	    ActiveRule: "/sub-app",
//	})
//	app := reg.Resolve("/sub-app/foo") // sub
package registry
