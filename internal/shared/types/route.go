package types

// ViewHandle references a view the host router loads lazily
type ViewHandle string

// RouteMeta holds route metadata
type RouteMeta struct {
	Title string `json:"title,omitempty"`
	Icon  string `json:"icon,omitempty"`
	// App is the sub-application a host route belongs to
	App string `json:"app,omitempty"`
}

// RouteNode is one record of the compiled route table. A record carries
// exactly one of Children, View or Redirect.
type RouteNode struct {
	Path     string      `json:"path"`
	Name     string      `json:"name"`
	Meta     RouteMeta   `json:"meta"`
	Children []RouteNode `json:"children,omitempty"`
	View     ViewHandle  `json:"view,omitempty"`
	Redirect string      `json:"redirect,omitempty"`
}

// RouteKind classifies a route record
type RouteKind string

const (
	RouteKindGroup    RouteKind = "group"
	RouteKindView     RouteKind = "view"
	RouteKindRedirect RouteKind = "redirect"
	RouteKindInvalid  RouteKind = "invalid"
)

// Kind returns the record kind, RouteKindInvalid unless exactly one target is set
func (r RouteNode) Kind() RouteKind {
	set := 0
	kind := RouteKindInvalid
	if len(r.Children) > 0 {
		set++
		kind = RouteKindGroup
	}
	if r.View != "" {
		set++
		kind = RouteKindView
	}
	if r.Redirect != "" {
		set++
		kind = RouteKindRedirect
	}
	if set != 1 {
		return RouteKindInvalid
	}
	return kind
}

// Resolution is the outcome of looking a path up in the route table
type Resolution struct {
	Path       string            `json:"path"` // final path after redirects
	Route      *RouteNode        `json:"route,omitempty"`
	Params     map[string]string `json:"params,omitempty"`
	Redirected bool              `json:"redirected"`
	Fallback   bool              `json:"fallback"` // matched a catch-all fallback or nothing at all
}

// Title returns the route meta title, if any
func (r Resolution) Title() string {
	if r.Route == nil {
		return ""
	}
	return r.Route.Meta.Title
}
