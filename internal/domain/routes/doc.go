// Package routes compiles the shell's route table and resolves paths.
//
// Compilation concatenates, in a fixed order:
//  1. specific static base routes (home redirect, system pages)
//  2. routes projected from the navigation descriptor
//  3. one catch-all per sub-application activation rule, served by the
//     sub-app host view
//  4. wildcard base routes (the fallback redirecting unknown paths home)
//
// CatchAllLast: every wildcard record follows every specific record.
// Resolution is first-match-wins over that order, so the ordering is
// load-bearing.
//
// Views are resolved through a ViewResolver. A path without a registered
// view resolves to the placeholder view; compilation never fails because
// one view is missing.
//
// Patterns:
//   - /user/user-list      exact
//   - /user/:id            one segment
//   - /sub-app/:path(.*)*  the prefix and anything below it
//
// Example Usage:
//
//	c := routes.NewCompiler(routes.StaticViews{"/dashboard": "views/index.vue"}, routes.DefaultPlaceholder, logger)
//	table, err := routes.NewTable(c.Compile(routes.BaseRoutes("/dashboard"), items, apps))
//	res := table.Resolve("/user/user-list")
package routes
