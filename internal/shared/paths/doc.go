// Package paths provides URL path helpers for navigation.
//
// Navigation paths are slash-separated, absolute, case-sensitive and never
// carry a query or fragment once normalized.
//
// # Usage
//
//	import "github.com/GriffinCanCode/microshell/internal/shared/paths"
//
//	p := paths.Normalize("/user/user-list/?tab=2") // "/user/user-list"
//	paths.HasPrefix(p, "/user")                    // true
//	paths.Join("/system", "setting")               // "/system/setting"
package paths
