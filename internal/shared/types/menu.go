package types

// NavMeta carries route metadata declared by a navigation descriptor entry
type NavMeta struct {
	Title string `json:"title,omitempty" yaml:"title,omitempty" toml:"title,omitempty" validate:"max=256"`
}

// NavItem is one entry of the navigation descriptor. Entries nest through
// Children and feed both the menu builder and the route compiler.
type NavItem struct {
	ID       string    `json:"id" yaml:"id" toml:"id" validate:"required,max=128"`
	Title    string    `json:"title" yaml:"title" toml:"title" validate:"max=256"`
	Name     string    `json:"name,omitempty" yaml:"name,omitempty" toml:"name,omitempty"`
	Icon     string    `json:"icon,omitempty" yaml:"icon,omitempty" toml:"icon,omitempty"`
	Level    int       `json:"level,omitempty" yaml:"level,omitempty" toml:"level,omitempty" validate:"gte=0"`
	ParentID string    `json:"parentId,omitempty" yaml:"parentId,omitempty" toml:"parentId,omitempty"`
	Path     string    `json:"path" yaml:"path" toml:"path" validate:"required,startswith=/"`
	Meta     NavMeta   `json:"meta" yaml:"meta" toml:"meta"`
	Children []NavItem `json:"children,omitempty" yaml:"children,omitempty" toml:"children,omitempty" validate:"dive"`
}

// MenuNode is one node of the normalized side menu
type MenuNode struct {
	ID       string     `json:"id"`
	Title    string     `json:"title"`
	Icon     string     `json:"icon,omitempty"`
	Level    int        `json:"level"`
	Path     string     `json:"path"`
	ParentID string     `json:"parent_id,omitempty"` // empty at level 1
	Children []MenuNode `json:"children,omitempty"`
}
