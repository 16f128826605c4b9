package types

import "time"

// Snapshot is one consistent view of a shell session's stores
type Snapshot struct {
	Version      uint64       `json:"version"`
	Initialized  bool         `json:"initialized"`
	NavTabs      []NavTab     `json:"nav_tabs"`
	PageTabs     []PageTab    `json:"page_tabs"`
	ActivePageID string       `json:"active_page_id,omitempty"`
	Menu         []MenuNode   `json:"menu"`
	ActiveMenuID string       `json:"active_menu_id,omitempty"`
	Mounts       []MountState `json:"mounts"`
	Title        string       `json:"title,omitempty"`
	Path         string       `json:"path,omitempty"`
	UpdatedAt    time.Time    `json:"updated_at"`
}

// ActiveNavTab returns the active application tab
func (s *Snapshot) ActiveNavTab() (NavTab, bool) {
	for _, tab := range s.NavTabs {
		if tab.IsActive {
			return tab, true
		}
	}
	return NavTab{}, false
}

// Transition describes the outcome of one navigation
type Transition struct {
	From       string   `json:"from"`
	To         string   `json:"to"`
	Path       string   `json:"path"` // resolved path
	App        string   `json:"app"`
	Title      string   `json:"title,omitempty"`
	Redirected bool     `json:"redirected"`
	Degraded   string   `json:"degraded,omitempty"`
	Mounted    []string `json:"mounted,omitempty"`
	Unmounted  []string `json:"unmounted,omitempty"`
	Version    uint64   `json:"version"`
	Allowed    bool     `json:"allowed"`
}

// SessionInfo summarises a shell session
type SessionInfo struct {
	ID        string    `json:"id"`
	CreatedAt time.Time `json:"created_at"`
	LastSeen  time.Time `json:"last_seen"`
	Path      string    `json:"path,omitempty"`
	Version   uint64    `json:"version"`
}
