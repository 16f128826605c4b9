package routes

import (
	"errors"
	"strings"

	"go.uber.org/zap"

	"github.com/GriffinCanCode/microshell/internal/shared/types"
	"github.com/GriffinCanCode/microshell/internal/shared/utils"
)

// FallbackRouteName names the base route that catches unknown paths
const FallbackRouteName = "NotFound"

// BaseRoutes returns the shell's static routes for the given home path.
// The fallback is the only wildcard and redirects to home.
func BaseRoutes(home string) []types.RouteNode {
	return []types.RouteNode{
		{Path: "/", Name: "Root", Redirect: home},
		{Path: home, Name: "dashboard", View: "views/index.vue", Meta: types.RouteMeta{Title: "Dashboard", Icon: "Dashboard"}},
		{Path: "/user-center", Name: "userCenter", View: "views/user-center.vue", Meta: types.RouteMeta{Title: "User Center"}},
		{
			Path: "/system",
			Name: "system",
			Children: []types.RouteNode{
				{Path: "/system/setting", Name: "setting", View: "views/system/setting.vue", Meta: types.RouteMeta{Title: "System Settings"}},
			},
		},
		{Path: "/test", Name: "test", View: "components/TestComponent.vue", Meta: types.RouteMeta{Title: "Style Test"}},
		{Path: "/:pathMatch(.*)*", Name: FallbackRouteName, Redirect: home},
	}
}

// Compiler builds route tables from a descriptor and the registered sub-apps
type Compiler struct {
	resolver    ViewResolver
	placeholder types.ViewHandle
	logger      *zap.Logger
}

// NewCompiler creates a compiler. A nil resolver serves the placeholder
// for every descriptor leaf.
func NewCompiler(resolver ViewResolver, placeholder types.ViewHandle, logger *zap.Logger) *Compiler {
	if placeholder == "" {
		placeholder = DefaultPlaceholder
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Compiler{resolver: resolver, placeholder: placeholder, logger: logger}
}

// Compile concatenates base, descriptor and sub-app routes so that every
// wildcard record follows every specific one. A descriptor route replaces
// the base route of the same name.
func (c *Compiler) Compile(base []types.RouteNode, items []types.NavItem, apps []types.AppDescriptor) []types.RouteNode {
	desc := c.Transform(items)
	names := make(map[string]struct{})
	collectNames(desc, names)

	kept := make([]types.RouteNode, 0, len(base))
	for _, r := range base {
		if _, ok := names[r.Name]; ok && r.Name != "" {
			c.logger.Debug("Descriptor route replaces base route", zap.String("name", r.Name))
			continue
		}
		kept = append(kept, r)
	}

	baseSpecific, baseWild := partition(kept)
	descSpecific, descWild := partition(desc)

	out := make([]types.RouteNode, 0, len(base)+len(items)+len(apps))
	out = append(out, baseSpecific...)
	out = append(out, descSpecific...)
	out = append(out, descWild...)
	out = append(out, SubAppRoutes(apps)...)
	out = append(out, baseWild...)
	return out
}

// Transform projects descriptor items onto route nodes. Items with
// children become groups; leaves get a view.
func (c *Compiler) Transform(items []types.NavItem) []types.RouteNode {
	if len(items) == 0 {
		return nil
	}

	out := make([]types.RouteNode, 0, len(items))
	for _, item := range items {
		name := item.Name
		if name == "" {
			name = item.ID
		}
		title := item.Meta.Title
		if title == "" {
			title = item.Title
		}

		node := types.RouteNode{
			Path: item.Path,
			Name: name,
			Meta: types.RouteMeta{Title: utils.PlainText(title), Icon: item.Icon},
		}
		if len(item.Children) > 0 {
			node.Children = c.Transform(item.Children)
		} else {
			node.View = c.view(item.Path)
		}
		out = append(out, node)
	}
	return out
}

func (c *Compiler) view(path string) types.ViewHandle {
	if c.resolver == nil {
		return c.placeholder
	}

	h, err := c.resolver.Resolve(path)
	if err != nil {
		if !errors.Is(err, ErrViewNotFound) {
			c.logger.Warn("View resolution failed", zap.String("path", path), zap.Error(err))
		}
		return c.placeholder
	}
	return h
}

// SubAppRoutes returns one catch-all per sub-app activation rule
func SubAppRoutes(apps []types.AppDescriptor) []types.RouteNode {
	out := make([]types.RouteNode, 0, len(apps))
	for _, app := range apps {
		if app.IsMain() || app.ActiveRule == "" {
			continue
		}
		out = append(out, types.RouteNode{
			Path: strings.TrimSuffix(app.ActiveRule, "/") + "/:path(.*)*",
			Name: "subApp-" + app.ID,
			Meta: types.RouteMeta{Title: app.Name, App: app.ID},
			View: SubAppHostView,
		})
	}
	return out
}

// partition splits routes into specific and wildcard records, keeping
// relative order within each side
func partition(routes []types.RouteNode) (specific, wild []types.RouteNode) {
	for _, r := range routes {
		if IsWildcard(r.Path) {
			wild = append(wild, r)
		} else {
			specific = append(specific, r)
		}
	}
	return specific, wild
}

func collectNames(routes []types.RouteNode, into map[string]struct{}) {
	for _, r := range routes {
		into[r.Name] = struct{}{}
		collectNames(r.Children, into)
	}
}
