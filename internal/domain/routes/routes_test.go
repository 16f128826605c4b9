package routes

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GriffinCanCode/microshell/internal/shared/types"
)

func descriptor() []types.NavItem {
	return []types.NavItem{
		{ID: "dashboard", Name: "dashboard", Title: "Dashboard", Path: "/dashboard", Meta: types.NavMeta{Title: "Dashboard"}},
		{
			ID: "user", Name: "user", Title: "User Management", Icon: "User", Path: "/user",
			Meta: types.NavMeta{Title: "User Management"},
			Children: []types.NavItem{
				{ID: "userList", Name: "userList", Path: "/user/user-list", Meta: types.NavMeta{Title: "User List"}},
				{ID: "userRole", Name: "userRole", Path: "/user/user-role", Meta: types.NavMeta{Title: "<i>User</i> Roles"}},
			},
		},
	}
}

func subApps() []types.AppDescriptor {
	return []types.AppDescriptor{
		{ID: types.MainAppID, Name: "Home"},
		{ID: "sub-app", Name: "Sub App", Entry: "http://localhost:8081/", MountPoint: "#sub-app", ActiveRule: "/sub-app"},
	}
}

func views() StaticViews {
	return StaticViews{
		"/dashboard":      "views/index.vue",
		"/user/user-list": "views/user/user-list.vue",
	}
}

func compileTable(t *testing.T) *Table {
	t.Helper()
	c := NewCompiler(views(), "", nil)
	table, err := NewTable(c.Compile(BaseRoutes("/dashboard"), descriptor(), subApps()))
	require.NoError(t, err)
	return table
}

func TestCompileOrder(t *testing.T) {
	table := compileTable(t)

	assert.Equal(t, []string{
		"/",
		"/user-center",
		"/system/setting",
		"/test",
		"/dashboard",
		"/user/user-list",
		"/user/user-role",
		"/sub-app/:path(.*)*",
		"/:pathMatch(.*)*",
	}, table.Paths())
}

func TestCompileDescriptorReplacesBase(t *testing.T) {
	c := NewCompiler(StaticViews{"/dashboard": "views/custom.vue"}, "", nil)
	table, err := NewTable(c.Compile(BaseRoutes("/dashboard"), descriptor(), nil))
	require.NoError(t, err)

	res := table.Resolve("/dashboard")
	require.NotNil(t, res.Route)
	assert.Equal(t, types.ViewHandle("views/custom.vue"), res.Route.View)

	res = table.Resolve("/system/setting")
	require.NotNil(t, res.Route)
	assert.Equal(t, "System Settings", res.Title())
}

func TestTransform(t *testing.T) {
	c := NewCompiler(views(), "", nil)
	nodes := c.Transform(descriptor())
	require.Len(t, nodes, 2)

	assert.Equal(t, types.RouteKindView, nodes[0].Kind())
	assert.Equal(t, types.ViewHandle("views/index.vue"), nodes[0].View)

	group := nodes[1]
	assert.Equal(t, types.RouteKindGroup, group.Kind())
	assert.Empty(t, group.View)
	assert.Equal(t, "User", group.Meta.Icon)
	require.Len(t, group.Children, 2)
	assert.Equal(t, types.ViewHandle("views/user/user-list.vue"), group.Children[0].View)

	// no view registered
	assert.Equal(t, DefaultPlaceholder, group.Children[1].View)
	assert.Equal(t, "User Roles", group.Children[1].Meta.Title)

	assert.Nil(t, c.Transform(nil))
}

type failingViews struct{}

func (failingViews) Resolve(string) (types.ViewHandle, error) {
	return "", errors.New("disk on fire")
}

func TestTransformPlaceholderOnResolverError(t *testing.T) {
	c := NewCompiler(failingViews{}, "views/empty.vue", nil)
	nodes := c.Transform(descriptor()[:1])
	require.Len(t, nodes, 1)
	assert.Equal(t, types.ViewHandle("views/empty.vue"), nodes[0].View)

	c = NewCompiler(nil, "", nil)
	nodes = c.Transform(descriptor()[:1])
	assert.Equal(t, DefaultPlaceholder, nodes[0].View)
}

func TestBaseRoutesFallbackLast(t *testing.T) {
	base := BaseRoutes("/dashboard")
	last := base[len(base)-1]
	assert.Equal(t, FallbackRouteName, last.Name)
	for _, r := range base[:len(base)-1] {
		assert.False(t, IsWildcard(r.Path), r.Path)
	}

	table, err := NewTable(base)
	require.NoError(t, err)
	assert.Equal(t, "/test", table.Resolve("/test").Path)
}

func TestSubAppRoutes(t *testing.T) {
	got := SubAppRoutes([]types.AppDescriptor{
		{ID: types.MainAppID, Name: "Home"},
		{ID: "a", Name: "A", ActiveRule: "/a/"},
		{ID: "b", Name: "B", ActiveRule: "/b"},
	})
	require.Len(t, got, 2)
	assert.Equal(t, "/a/:path(.*)*", got[0].Path)
	assert.Equal(t, "/b/:path(.*)*", got[1].Path)
	assert.Equal(t, SubAppHostView, got[1].View)
	assert.Equal(t, "B", got[1].Meta.Title)
	assert.Equal(t, "b", got[1].Meta.App)
}

func TestResolve(t *testing.T) {
	table := compileTable(t)

	tests := []struct {
		name       string
		path       string
		wantPath   string
		wantRoute  string
		redirected bool
		fallback   bool
		params     map[string]string
	}{
		{name: "exact", path: "/dashboard", wantPath: "/dashboard", wantRoute: "dashboard"},
		{name: "query stripped", path: "/dashboard?tab=1#top", wantPath: "/dashboard", wantRoute: "dashboard"},
		{name: "nested leaf", path: "/user/user-list", wantPath: "/user/user-list", wantRoute: "userList"},
		{name: "root redirects home", path: "/", wantPath: "/dashboard", wantRoute: "dashboard", redirected: true},
		{name: "sub-app deep", path: "/sub-app/foo/bar", wantPath: "/sub-app/foo/bar", wantRoute: "subApp-sub-app", params: map[string]string{"path": "foo/bar"}},
		{name: "sub-app root", path: "/sub-app", wantPath: "/sub-app", wantRoute: "subApp-sub-app", params: map[string]string{"path": ""}},
		{name: "unknown falls back home", path: "/nowhere/at/all", wantPath: "/dashboard", wantRoute: "dashboard", redirected: true, fallback: true},
		{name: "group is not a target", path: "/user", wantPath: "/dashboard", wantRoute: "dashboard", redirected: true, fallback: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := table.Resolve(tt.path)
			require.NotNil(t, res.Route)
			assert.Equal(t, tt.wantPath, res.Path)
			assert.Equal(t, tt.wantRoute, res.Route.Name)
			assert.Equal(t, tt.redirected, res.Redirected)
			assert.Equal(t, tt.fallback, res.Fallback)
			assert.Equal(t, tt.params, res.Params)
		})
	}
}

func TestResolveParams(t *testing.T) {
	table, err := NewTable([]types.RouteNode{
		{Path: "/user/:id", Name: "user", View: "views/user.vue"},
	})
	require.NoError(t, err)

	res := table.Resolve("/user/42")
	require.NotNil(t, res.Route)
	assert.Equal(t, map[string]string{"id": "42"}, res.Params)

	res = table.Resolve("/user/42/edit")
	assert.Nil(t, res.Route)
	assert.True(t, res.Fallback)
}

func TestResolveRedirectLoop(t *testing.T) {
	table, err := NewTable([]types.RouteNode{
		{Path: "/a", Name: "a", Redirect: "/b"},
		{Path: "/b", Name: "b", Redirect: "/a"},
	})
	require.NoError(t, err)

	res := table.Resolve("/a")
	assert.Nil(t, res.Route)
	assert.True(t, res.Redirected)
	assert.True(t, res.Fallback)
}

func TestNewTableRejects(t *testing.T) {
	tests := []struct {
		name   string
		routes []types.RouteNode
		want   error
	}{
		{
			name:   "no target",
			routes: []types.RouteNode{{Path: "/a", Name: "a"}},
			want:   ErrInvalidRoute,
		},
		{
			name:   "two targets",
			routes: []types.RouteNode{{Path: "/a", Name: "a", View: "v", Redirect: "/b"}},
			want:   ErrInvalidRoute,
		},
		{
			name: "specific after catch-all",
			routes: []types.RouteNode{
				{Path: "/:all(.*)*", Name: "all", Redirect: "/"},
				{Path: "/a", Name: "a", View: "v"},
			},
			want: ErrCatchAllOrder,
		},
		{
			name: "duplicate name",
			routes: []types.RouteNode{
				{Path: "/a", Name: "a", View: "v"},
				{Path: "/b", Name: "a", View: "v"},
			},
			want: ErrDuplicateName,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewTable(tt.routes)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestCompileKeepsCatchAllLast(t *testing.T) {
	items := append(descriptor(), types.NavItem{
		ID: "docs", Name: "docs", Path: "/docs/:page(.*)*", Meta: types.NavMeta{Title: "Docs"},
	}, types.NavItem{
		ID: "about", Name: "about", Path: "/about", Meta: types.NavMeta{Title: "About"},
	})
	base := append([]types.RouteNode{{Path: "/:any(.*)*", Name: "early", Redirect: "/"}}, BaseRoutes("/dashboard")...)

	c := NewCompiler(views(), "", nil)
	compiled := c.Compile(base, items, subApps())
	table, err := NewTable(compiled)
	require.NoError(t, err)

	seenWild := false
	for _, p := range table.Paths() {
		if IsWildcard(p) {
			seenWild = true
			continue
		}
		assert.False(t, seenWild, "specific route %s after a catch-all", p)
	}

	// specific descriptor routes still win over sub-app and base catch-alls
	res := table.Resolve("/about")
	require.NotNil(t, res.Route)
	assert.Equal(t, "about", res.Route.Name)
}

func TestIsWildcard(t *testing.T) {
	assert.True(t, IsWildcard("/:pathMatch(.*)*"))
	assert.True(t, IsWildcard("/sub-app/:path(.*)*"))
	assert.True(t, IsWildcard("/x/:rest(.*)"))
	assert.False(t, IsWildcard("/user/:id"))
	assert.False(t, IsWildcard("/dashboard"))
	assert.False(t, IsWildcard("/"))
}

func TestRouterSwap(t *testing.T) {
	first, err := NewTable([]types.RouteNode{{Path: "/a", Name: "a", View: "v"}})
	require.NoError(t, err)
	second, err := NewTable([]types.RouteNode{{Path: "/b", Name: "b", View: "v"}})
	require.NoError(t, err)

	r := NewRouter(first)
	assert.NotNil(t, r.Resolve("/a").Route)

	r.Load(second)
	assert.Nil(t, r.Resolve("/a").Route)
	assert.NotNil(t, r.Resolve("/b").Route)
	assert.Same(t, second, r.Table())

	empty := NewRouter(nil)
	assert.True(t, empty.Resolve("/a").Fallback)
}

func TestRouterRebuild(t *testing.T) {
	c := NewCompiler(views(), "", nil)
	r := NewRouter(nil)

	table, err := r.Rebuild(c, BaseRoutes("/dashboard"), descriptor(), subApps())
	require.NoError(t, err)
	assert.Same(t, table, r.Table())
	assert.Equal(t, "/dashboard", r.Resolve("/").Path)

	dup := []types.NavItem{
		{ID: "a", Name: "same", Path: "/a"},
		{ID: "b", Name: "same", Path: "/b"},
	}
	_, err = r.Rebuild(c, BaseRoutes("/dashboard"), dup, nil)
	require.ErrorIs(t, err, ErrDuplicateName)
	assert.Same(t, table, r.Table(), "failed rebuild keeps the previous table")
}

func TestRoutesReturnsCopy(t *testing.T) {
	table := compileTable(t)
	routes := table.Routes()
	routes[0].Path = "/mutated"
	assert.Equal(t, "/", table.Routes()[0].Path)
}

func TestDirViews(t *testing.T) {
	root := filepath.Join(t.TempDir(), "views")
	files := []string{
		"index.vue",
		"dashboard.vue",
		"user/user-list.vue",
		"user/notes.md",
	}
	for _, f := range files {
		full := filepath.Join(root, f)
		require.NoError(t, os.MkdirAll(filepath.Dir(full), 0o755))
		require.NoError(t, os.WriteFile(full, []byte("<template/>"), 0o644))
	}

	v, err := NewDirViews(root, "")
	require.NoError(t, err)
	assert.Equal(t, 3, v.Len())

	h, err := v.Resolve("/user/user-list")
	require.NoError(t, err)
	assert.Equal(t, types.ViewHandle("views/user/user-list.vue"), h)

	_, err = v.Resolve("/user/notes")
	assert.ErrorIs(t, err, ErrViewNotFound)

	_, err = NewDirViews(root, "[")
	assert.Error(t, err)
}
