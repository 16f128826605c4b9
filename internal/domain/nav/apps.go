package nav

import (
	"errors"
	"fmt"

	"github.com/GriffinCanCode/microshell/internal/shared/paths"
	"github.com/GriffinCanCode/microshell/internal/shared/types"
)

var (
	ErrDuplicateTab = errors.New("duplicate tab")
	ErrTabNotFound  = errors.New("tab not found")
)

// AppTabs is the navigation state store
type AppTabs []types.NavTab

// FromApps derives one tab per application. The main app's tab points at
// home and starts active.
func FromApps(apps []types.AppDescriptor, home string) AppTabs {
	tabs := make(AppTabs, 0, len(apps))
	for _, app := range apps {
		tab := types.NavTab{ID: app.ID, App: app.ID, Name: app.Name, Path: app.ActiveRule}
		if app.IsMain() {
			tab.Path = home
			tab.IsActive = true
		}
		tabs = append(tabs, tab)
	}
	return tabs
}

// Add appends a tab. Adding an active tab deactivates the others.
func (t *AppTabs) Add(tab types.NavTab) error {
	for _, existing := range *t {
		if existing.ID == tab.ID {
			return fmt.Errorf("%w: %s", ErrDuplicateTab, tab.ID)
		}
	}
	*t = append(*t, tab)
	if tab.IsActive {
		t.SetActive(tab.ID)
	}
	return nil
}

// SetActive marks id active and every other tab inactive. Unknown ids
// leave the store untouched.
func (t AppTabs) SetActive(id string) bool {
	if _, ok := t.Get(id); !ok {
		return false
	}
	for i := range t {
		t[i].IsActive = t[i].ID == id
	}
	return true
}

// Get returns the tab with the given id
func (t AppTabs) Get(id string) (types.NavTab, bool) {
	for _, tab := range t {
		if tab.ID == id {
			return tab, true
		}
	}
	return types.NavTab{}, false
}

// ByApp returns the tab owned by app
func (t AppTabs) ByApp(app string) (types.NavTab, bool) {
	for _, tab := range t {
		if tab.App == app {
			return tab, true
		}
	}
	return types.NavTab{}, false
}

// FindByPrefix returns the first tab whose path prefixes p
func (t AppTabs) FindByPrefix(p string) (types.NavTab, bool) {
	for _, tab := range t {
		if paths.HasPrefix(p, tab.Path) {
			return tab, true
		}
	}
	return types.NavTab{}, false
}

// Active returns the active tab
func (t AppTabs) Active() (types.NavTab, bool) {
	for _, tab := range t {
		if tab.IsActive {
			return tab, true
		}
	}
	return types.NavTab{}, false
}

// Clone returns an independent copy
func (t AppTabs) Clone() AppTabs {
	if t == nil {
		return nil
	}
	out := make(AppTabs, len(t))
	copy(out, t)
	return out
}
