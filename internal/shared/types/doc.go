// Package types provides shared data structures for the shell service.
//
// Core Types:
//   - AppSpec, AppDescriptor: Application registry entries
//   - NavTab: One tab per application in top-level navigation
//   - PageTab: One tab per open page of the main application
//   - NavItem, MenuNode: Navigation descriptor and normalized menu tree
//   - RouteNode, Resolution: Compiled route table and lookups
//   - Snapshot, Transition: Shell session state and navigation outcome
//
// Example Usage:
//
//	tab := types.PageTab{
//	    ID:       "userList",
//	    Name:     "User List",
//	    Path:     "/user/user-list",
//	    Closable: true,
//	}
package types
