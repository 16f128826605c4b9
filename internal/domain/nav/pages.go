package nav

import (
	"errors"
	"fmt"

	"github.com/GriffinCanCode/microshell/internal/shared/types"
)

// ErrTabNotClosable is returned when closing a pinned tab
var ErrTabNotClosable = errors.New("tab is not closable")

// PageTabs is the tab state store of the main application
type PageTabs struct {
	Tabs     []types.PageTab
	ActiveID string
}

// Upsert opens tab if its id is new, otherwise refreshes name and path in
// place. Either way the tab becomes active. Reports whether it was new.
func (p *PageTabs) Upsert(tab types.PageTab) bool {
	p.ActiveID = tab.ID
	for i := range p.Tabs {
		if p.Tabs[i].ID == tab.ID {
			p.Tabs[i].Name = tab.Name
			p.Tabs[i].Path = tab.Path
			return false
		}
	}
	p.Tabs = append(p.Tabs, tab)
	return true
}

// SetActive activates an open tab. Unknown ids are a no-op.
func (p *PageTabs) SetActive(id string) bool {
	if _, ok := p.Get(id); !ok {
		return false
	}
	p.ActiveID = id
	return true
}

// Close removes a closable tab. When the active tab closes, the right
// neighbour becomes active, else the left one; the new active tab is
// returned so the caller can navigate to it.
func (p *PageTabs) Close(id string) (types.PageTab, bool, error) {
	idx := -1
	for i := range p.Tabs {
		if p.Tabs[i].ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return types.PageTab{}, false, fmt.Errorf("%w: %s", ErrTabNotFound, id)
	}
	if !p.Tabs[idx].Closable {
		return types.PageTab{}, false, fmt.Errorf("%w: %s", ErrTabNotClosable, id)
	}

	wasActive := p.ActiveID == id
	p.Tabs = append(p.Tabs[:idx:idx], p.Tabs[idx+1:]...)

	if !wasActive {
		return types.PageTab{}, false, nil
	}
	if len(p.Tabs) == 0 {
		p.ActiveID = ""
		return types.PageTab{}, false, nil
	}

	next := idx
	if next >= len(p.Tabs) {
		next = len(p.Tabs) - 1
	}
	p.ActiveID = p.Tabs[next].ID
	return p.Tabs[next], true, nil
}

// Get returns an open tab
func (p *PageTabs) Get(id string) (types.PageTab, bool) {
	for _, tab := range p.Tabs {
		if tab.ID == id {
			return tab, true
		}
	}
	return types.PageTab{}, false
}

// Active returns the active tab
func (p *PageTabs) Active() (types.PageTab, bool) {
	if p.ActiveID == "" {
		return types.PageTab{}, false
	}
	return p.Get(p.ActiveID)
}

// Clone returns an independent copy
func (p PageTabs) Clone() PageTabs {
	out := PageTabs{ActiveID: p.ActiveID}
	if p.Tabs != nil {
		out.Tabs = make([]types.PageTab, len(p.Tabs))
		copy(out.Tabs, p.Tabs)
	}
	return out
}
