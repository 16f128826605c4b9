package types

// MainAppID is the identity of the shell application itself
const MainAppID = "main"

// AppSpec is an application descriptor as authored in descriptor files.
// A spec without any entry describes the main application.
type AppSpec struct {
	Name       string                 `json:"name" yaml:"name" toml:"name" validate:"required,max=128"`
	Entry      string                 `json:"entry,omitempty" yaml:"entry,omitempty" toml:"entry,omitempty" validate:"omitempty,url"`
	Entries    map[string]string      `json:"entries,omitempty" yaml:"entries,omitempty" toml:"entries,omitempty" validate:"omitempty,dive,keys,required,endkeys,url"`
	Container  string                 `json:"container,omitempty" yaml:"container,omitempty" toml:"container,omitempty" validate:"omitempty,max=256"`
	ActiveRule string                 `json:"activeRule,omitempty" yaml:"activeRule,omitempty" toml:"activeRule,omitempty" validate:"omitempty,startswith=/"`
	Props      map[string]interface{} `json:"props,omitempty" yaml:"props,omitempty" toml:"props,omitempty"`
}

// IsMain reports whether the spec describes the main application
func (s AppSpec) IsMain() bool {
	return s.Entry == "" && len(s.Entries) == 0
}

// AppDescriptor is a registered application (main or sub-application)
type AppDescriptor struct {
	ID         string                 `json:"id"`
	Name       string                 `json:"name"`
	Entry      string                 `json:"entry,omitempty"` // empty for main
	MountPoint string                 `json:"mount_point,omitempty"`
	ActiveRule string                 `json:"active_rule"`
	Props      map[string]interface{} `json:"props,omitempty"`
}

// IsMain reports whether the descriptor is the shell application
func (d AppDescriptor) IsMain() bool {
	return d.ID == MainAppID
}

// MountState exposes one sub-application mount point to the host
type MountState struct {
	App        string `json:"app"`
	MountPoint string `json:"mount_point"`
	Active     bool   `json:"active"`
}

// RegistryStats contains registry statistics
type RegistryStats struct {
	TotalApps   int    `json:"total_apps"`
	SubApps     int    `json:"sub_apps"`
	MainName    string `json:"main_name"`
	Environment string `json:"environment"`
}
