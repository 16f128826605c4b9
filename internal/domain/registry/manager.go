package registry

import (
	"errors"
	"fmt"
	"sync"

	"github.com/GriffinCanCode/microshell/internal/shared/paths"
	"github.com/GriffinCanCode/microshell/internal/shared/types"
	"github.com/GriffinCanCode/microshell/internal/shared/utils"
)

// Policy names how overlapping activation rules are resolved
type Policy string

// FirstRegisteredWins resolves overlapping rules by registration order
const FirstRegisteredWins Policy = "first-registered-wins"

const (
	DefaultMainName = "Home"
	DefaultHomePath = "/dashboard"
)

var (
	ErrDuplicateApp     = errors.New("application already registered")
	ErrDuplicateRule    = errors.New("activation rule already registered")
	ErrShadowedRule     = errors.New("activation rule shadowed by an earlier rule")
	ErrMainRedefined    = errors.New("main application already described")
	ErrReservedID       = errors.New("application id is reserved")
	ErrMissingRule      = errors.New("sub-application requires an activation rule")
	ErrMissingContainer = errors.New("sub-application requires a mount point")
	ErrNoEntry          = errors.New("no entry for environment")
)

// Options configures the registry
type Options struct {
	// Environment selects AppSpec.Entries, e.g. "development" or "production"
	Environment string
	MainName    string
	HomePath    string
}

// Manager holds the registered applications
type Manager struct {
	mu          sync.RWMutex
	main        types.AppDescriptor
	mainSet     bool
	subApps     []types.AppDescriptor // registration order
	environment string
}

// NewManager creates a registry holding only the main application
func NewManager(opts Options) *Manager {
	if opts.MainName == "" {
		opts.MainName = DefaultMainName
	}
	if opts.HomePath == "" {
		opts.HomePath = DefaultHomePath
	}

	return &Manager{
		main: types.AppDescriptor{
			ID:         types.MainAppID,
			Name:       opts.MainName,
			ActiveRule: paths.Normalize(opts.HomePath),
		},
		environment: opts.Environment,
	}
}

// Register validates a spec and appends it. A spec without entries
// describes the main application and may appear once. A rule that an
// earlier rule already prefixes could never activate and is rejected.
func (m *Manager) Register(spec types.AppSpec) (types.AppDescriptor, error) {
	if err := utils.ValidateStruct(spec); err != nil {
		return types.AppDescriptor{}, fmt.Errorf("app %q: %w", spec.Name, err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if spec.IsMain() {
		if m.mainSet {
			return types.AppDescriptor{}, fmt.Errorf("app %q: %w", spec.Name, ErrMainRedefined)
		}
		m.main.Name = spec.Name
		m.main.Props = copyProps(spec.Props)
		m.mainSet = true
		return m.main, nil
	}

	if spec.Name == types.MainAppID {
		return types.AppDescriptor{}, fmt.Errorf("app %q: %w", spec.Name, ErrReservedID)
	}
	if spec.ActiveRule == "" {
		return types.AppDescriptor{}, fmt.Errorf("app %q: %w", spec.Name, ErrMissingRule)
	}
	if spec.Container == "" {
		return types.AppDescriptor{}, fmt.Errorf("app %q: %w", spec.Name, ErrMissingContainer)
	}

	entry, err := m.selectEntry(spec)
	if err != nil {
		return types.AppDescriptor{}, fmt.Errorf("app %q: %w", spec.Name, err)
	}

	for _, existing := range m.subApps {
		if existing.ID == spec.Name {
			return types.AppDescriptor{}, fmt.Errorf("app %q: %w", spec.Name, ErrDuplicateApp)
		}
		if existing.ActiveRule == spec.ActiveRule {
			return types.AppDescriptor{}, fmt.Errorf("app %q rule %s: %w", spec.Name, spec.ActiveRule, ErrDuplicateRule)
		}
		if paths.HasPrefix(spec.ActiveRule, existing.ActiveRule) {
			return types.AppDescriptor{}, fmt.Errorf("app %q rule %s under %s of %q: %w",
				spec.Name, spec.ActiveRule, existing.ActiveRule, existing.ID, ErrShadowedRule)
		}
	}

	app := types.AppDescriptor{
		ID:         spec.Name,
		Name:       spec.Name,
		Entry:      entry,
		MountPoint: spec.Container,
		ActiveRule: spec.ActiveRule,
		Props:      copyProps(spec.Props),
	}
	m.subApps = append(m.subApps, app)

	return app, nil
}

// selectEntry picks the entry for the configured environment
func (m *Manager) selectEntry(spec types.AppSpec) (string, error) {
	if entry, ok := spec.Entries[m.environment]; ok && m.environment != "" {
		return entry, nil
	}
	if spec.Entry != "" {
		return spec.Entry, nil
	}
	return "", fmt.Errorf("%w %q", ErrNoEntry, m.environment)
}

// List returns main first, then every sub-application in registration order
func (m *Manager) List() []types.AppDescriptor {
	m.mu.RLock()
	defer m.mu.RUnlock()

	apps := make([]types.AppDescriptor, 0, len(m.subApps)+1)
	apps = append(apps, m.main)
	apps = append(apps, m.subApps...)
	return apps
}

// SubApps returns the sub-applications in registration order
func (m *Manager) SubApps() []types.AppDescriptor {
	m.mu.RLock()
	defer m.mu.RUnlock()

	apps := make([]types.AppDescriptor, len(m.subApps))
	copy(apps, m.subApps)
	return apps
}

// Main returns the main application descriptor
func (m *Manager) Main() types.AppDescriptor {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return m.main
}

// Get looks an application up by id
func (m *Manager) Get(id string) (types.AppDescriptor, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if id == types.MainAppID {
		return m.main, true
	}
	for _, app := range m.subApps {
		if app.ID == id {
			return app, true
		}
	}
	return types.AppDescriptor{}, false
}

// Resolve returns the sub-application owning path under FirstRegisteredWins,
// or main when no activation rule prefixes path
func (m *Manager) Resolve(path string) types.AppDescriptor {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, app := range m.subApps {
		if paths.HasPrefix(path, app.ActiveRule) {
			return app
		}
	}
	return m.main
}

// Policy returns the overlap resolution policy
func (m *Manager) Policy() Policy {
	return FirstRegisteredWins
}

// Stats returns registry statistics
func (m *Manager) Stats() types.RegistryStats {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return types.RegistryStats{
		TotalApps:   len(m.subApps) + 1,
		SubApps:     len(m.subApps),
		MainName:    m.main.Name,
		Environment: m.environment,
	}
}

func copyProps(props map[string]interface{}) map[string]interface{} {
	if props == nil {
		return nil
	}
	out := make(map[string]interface{}, len(props))
	for k, v := range props {
		out[k] = v
	}
	return out
}
