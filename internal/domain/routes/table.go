package routes

import (
	"errors"
	"fmt"
	"sync/atomic"

	"github.com/GriffinCanCode/microshell/internal/shared/paths"
	"github.com/GriffinCanCode/microshell/internal/shared/types"
)

// MaxRedirects bounds redirect chains during resolution
const MaxRedirects = 8

var (
	ErrInvalidRoute  = errors.New("route must set exactly one of children, view or redirect")
	ErrCatchAllOrder = errors.New("specific route follows a catch-all")
	ErrDuplicateName = errors.New("duplicate route name")
)

type entry struct {
	route   types.RouteNode
	pattern pattern
}

// Table is a compiled, immutable route table
type Table struct {
	routes []types.RouteNode
	flat   []entry
}

// NewTable validates routes and flattens groups into matchable records
func NewTable(routes []types.RouteNode) (*Table, error) {
	t := &Table{routes: cloneRoutes(routes)}
	names := make(map[string]struct{})

	var add func(nodes []types.RouteNode, parent string) error
	add = func(nodes []types.RouteNode, parent string) error {
		for _, r := range nodes {
			if r.Kind() == types.RouteKindInvalid {
				return fmt.Errorf("%w: %s", ErrInvalidRoute, r.Path)
			}
			if r.Name != "" {
				if _, dup := names[r.Name]; dup {
					return fmt.Errorf("%w: %s", ErrDuplicateName, r.Name)
				}
				names[r.Name] = struct{}{}
			}

			full := paths.Join(parent, r.Path)
			if r.Kind() == types.RouteKindGroup {
				if err := add(r.Children, full); err != nil {
					return err
				}
				continue
			}

			leaf := r
			leaf.Path = full
			leaf.Children = nil
			t.flat = append(t.flat, entry{route: leaf, pattern: parsePattern(full)})
		}
		return nil
	}
	if err := add(t.routes, ""); err != nil {
		return nil, err
	}

	seenWild := false
	for _, e := range t.flat {
		if e.pattern.wildcard {
			seenWild = true
		} else if seenWild {
			return nil, fmt.Errorf("%w: %s", ErrCatchAllOrder, e.route.Path)
		}
	}
	return t, nil
}

// Routes returns a copy of the compiled route tree
func (t *Table) Routes() []types.RouteNode {
	return cloneRoutes(t.routes)
}

// Len returns the number of matchable records
func (t *Table) Len() int {
	return len(t.flat)
}

// Paths returns the full path of every matchable record in match order
func (t *Table) Paths() []string {
	out := make([]string, len(t.flat))
	for i, e := range t.flat {
		out[i] = e.route.Path
	}
	return out
}

// Resolve matches path against the table, first match wins, following
// redirects up to MaxRedirects hops. Fallback is set when nothing but the
// fallback route matched.
func (t *Table) Resolve(path string) types.Resolution {
	p := paths.Normalize(path)
	res := types.Resolution{Path: p}

	for hop := 0; hop <= MaxRedirects; hop++ {
		e, params, ok := t.match(p)
		if !ok {
			res.Path = p
			res.Fallback = true
			return res
		}
		if e.route.Name == FallbackRouteName {
			res.Fallback = true
		}

		if e.route.Redirect != "" {
			res.Redirected = true
			p = paths.Normalize(e.route.Redirect)
			continue
		}

		route := e.route
		res.Path = p
		res.Route = &route
		res.Params = params
		return res
	}

	// redirect loop
	res.Path = p
	res.Route = nil
	res.Fallback = true
	return res
}

func (t *Table) match(p string) (entry, map[string]string, bool) {
	for _, e := range t.flat {
		if params, ok := e.pattern.match(p); ok {
			return e, params, true
		}
	}
	return entry{}, nil, false
}

// Router holds the current table and swaps it atomically on recompile
type Router struct {
	table atomic.Pointer[Table]
}

// NewRouter creates a router serving t
func NewRouter(t *Table) *Router {
	r := &Router{}
	r.table.Store(t)
	return r
}

// Load replaces the current table
func (r *Router) Load(t *Table) {
	r.table.Store(t)
}

// Rebuild compiles base, descriptor and sub-application routes into a new
// table and swaps it in. On error the current table keeps serving.
func (r *Router) Rebuild(c *Compiler, base []types.RouteNode, items []types.NavItem, apps []types.AppDescriptor) (*Table, error) {
	t, err := NewTable(c.Compile(base, items, apps))
	if err != nil {
		return nil, err
	}
	r.Load(t)
	return t, nil
}

// Table returns the current table
func (r *Router) Table() *Table {
	return r.table.Load()
}

// Resolve resolves path against the current table
func (r *Router) Resolve(path string) types.Resolution {
	t := r.table.Load()
	if t == nil {
		return types.Resolution{Path: paths.Normalize(path), Fallback: true}
	}
	return t.Resolve(path)
}

func cloneRoutes(in []types.RouteNode) []types.RouteNode {
	if in == nil {
		return nil
	}
	out := make([]types.RouteNode, len(in))
	for i, r := range in {
		out[i] = r
		out[i].Children = cloneRoutes(r.Children)
	}
	return out
}
