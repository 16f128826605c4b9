package shell

import (
	"go.uber.org/zap"

	"github.com/GriffinCanCode/microshell/internal/domain/nav"
	"github.com/GriffinCanCode/microshell/internal/shared/paths"
	"github.com/GriffinCanCode/microshell/internal/shared/types"
	"github.com/GriffinCanCode/microshell/internal/shared/utils"
)

// Degraded reasons reported on a transition
const (
	DegradedEmptyRegistry = "empty registry"
	DegradedNoMenuNode    = "no menu node for path"
	DegradedMenuMerge     = "menu merge rejected"
	DegradedNoApp         = "no application owns path"
)

// DefaultMainPrefixes are the path prefixes owned by the main application
var DefaultMainPrefixes = []string{"/dashboard", "/user-center", "/system", "/child", "/user", "/test"}

// AppLister lists registered applications, main first
type AppLister interface {
	List() []types.AppDescriptor
}

// DescriptorSource yields the current navigation descriptor
type DescriptorSource interface {
	Current() []types.NavItem
}

// Resolver resolves a path against the route table
type Resolver interface {
	Resolve(path string) types.Resolution
}

// Hook observes a committed transition
type Hook func(tr types.Transition)

// guard decides store mutations for one navigation
type guard struct {
	apps       AppLister
	descriptor DescriptorSource
	router     Resolver
	home       string
	prefixes   []string
	logger     *zap.Logger
}

// beforeEach applies the navigation (from, to) to tx. res is the route
// resolution of to; the guard acts on the resolved path.
func (g *guard) beforeEach(tx *Tx, apps []types.AppDescriptor, res types.Resolution, tr *types.Transition) {
	target := res.Path

	if len(tx.Apps) == 0 {
		tx.Apps = nav.FromApps(apps, g.home)
		tx.Mounts = mountsFor(apps)
		tx.Initialized = true
	}

	if paths.HasAnyPrefix(target, g.prefixes) {
		g.main(tx, res, tr)
	} else {
		g.subApp(tx, res, tr)
	}

	tr.Mounted, tr.Unmounted = activateMounts(tx.Mounts, tr.App)
	tx.Path = target
}

func (g *guard) main(tx *Tx, res types.Resolution, tr *types.Transition) {
	target := res.Path
	tr.App = types.MainAppID
	if tab, ok := tx.Apps.ByApp(types.MainAppID); ok {
		tx.Apps.SetActive(tab.ID)
	}

	if g.descriptor != nil {
		if err := tx.Menu.Merge(g.descriptor.Current()); err != nil {
			g.logger.Warn("Menu merge rejected", zap.Error(err))
			tr.Degraded = DegradedMenuMerge
		}
	}

	node, ok := tx.Menu.FindByPath(target)
	if !ok {
		g.logger.Debug("No menu node for path", zap.String("path", target))
		if tr.Degraded == "" {
			tr.Degraded = DegradedNoMenuNode
		}
		return
	}

	title := utils.PlainText(res.Title())
	if title == "" {
		title = node.Title
	}

	tx.Menu.SetActive(node.ID)
	tx.Pages.Upsert(types.PageTab{
		ID:       node.ID,
		Name:     title,
		Path:     target,
		Closable: target != g.home,
	})
	tx.Title = title
	tr.Title = title
}

func (g *guard) subApp(tx *Tx, res types.Resolution, tr *types.Transition) {
	tab, ok := types.NavTab{}, false
	if res.Route != nil && res.Route.Meta.App != "" {
		// the resolved host route names its owner
		tab, ok = tx.Apps.ByApp(res.Route.Meta.App)
	}
	if !ok {
		tab, ok = tx.Apps.FindByPrefix(res.Path)
	}
	if !ok {
		g.logger.Debug("No application owns path", zap.String("path", res.Path))
		tr.Degraded = DegradedNoApp
		if active, ok := tx.Apps.Active(); ok {
			tr.App = active.App
		}
		return
	}

	tx.Apps.SetActive(tab.ID)
	tr.App = tab.App
	if title := utils.PlainText(res.Title()); title != "" {
		tx.Title = title
		tr.Title = title
	}
}

// mountsFor exposes every sub-application mount point, inactive
func mountsFor(apps []types.AppDescriptor) []types.MountState {
	mounts := make([]types.MountState, 0, len(apps))
	for _, app := range apps {
		if app.IsMain() || app.MountPoint == "" {
			continue
		}
		mounts = append(mounts, types.MountState{App: app.ID, MountPoint: app.MountPoint})
	}
	return mounts
}

// activateMounts marks the mount of app active and every other inactive,
// returning the apps whose state flipped
func activateMounts(mounts []types.MountState, app string) (mounted, unmounted []string) {
	for i := range mounts {
		active := mounts[i].App == app
		switch {
		case active && !mounts[i].Active:
			mounted = append(mounted, mounts[i].App)
		case !active && mounts[i].Active:
			unmounted = append(unmounted, mounts[i].App)
		}
		mounts[i].Active = active
	}
	return mounted, unmounted
}
