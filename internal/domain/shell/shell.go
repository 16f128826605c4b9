package shell

import (
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/GriffinCanCode/microshell/internal/shared/paths"
	"github.com/GriffinCanCode/microshell/internal/shared/types"
)

// Options configures a shell
type Options struct {
	HomePath     string
	MainPrefixes []string
	Logger       *zap.Logger
	Now          func() time.Time
}

// Shell is one browser shell instance: stores plus guard
type Shell struct {
	store *Store
	guard *guard

	hooksMu sync.RWMutex
	hooks   []Hook
}

// New creates a shell over shared registry, descriptor and router
func New(apps AppLister, descriptor DescriptorSource, router Resolver, opts Options) *Shell {
	if opts.HomePath == "" {
		opts.HomePath = "/dashboard"
	}
	if opts.MainPrefixes == nil {
		opts.MainPrefixes = DefaultMainPrefixes
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}

	return &Shell{
		store: NewStore(opts.Now),
		guard: &guard{
			apps:       apps,
			descriptor: descriptor,
			router:     router,
			home:       paths.Normalize(opts.HomePath),
			prefixes:   opts.MainPrefixes,
			logger:     opts.Logger,
		},
	}
}

// AfterEach registers a hook run after every navigation
func (s *Shell) AfterEach(h Hook) {
	s.hooksMu.Lock()
	defer s.hooksMu.Unlock()
	s.hooks = append(s.hooks, h)
}

// Navigate runs the guard for (from, to) and commits its mutations as one
// snapshot. Navigation is always allowed.
func (s *Shell) Navigate(from, to string) (types.Transition, error) {
	res := s.guard.router.Resolve(to)
	tr := types.Transition{
		From:       from,
		To:         to,
		Path:       res.Path,
		Redirected: res.Redirected,
		Allowed:    true,
	}

	apps := s.guard.apps.List()
	if len(apps) == 0 {
		s.guard.logger.Debug("Registry empty, navigation left alone", zap.String("to", to))
		tr.Degraded = DegradedEmptyRegistry
		tr.Version = s.store.Snapshot().Version
		s.runHooks(tr)
		return tr, nil
	}

	snap, err := s.store.Update(func(tx *Tx) error {
		s.guard.beforeEach(tx, apps, res, &tr)
		return nil
	})
	if err != nil {
		return tr, fmt.Errorf("navigation to %s: %w", to, err)
	}
	tr.Version = snap.Version

	s.runHooks(tr)
	return tr, nil
}

// SetActiveMenu highlights a menu node. Unknown ids are a no-op.
func (s *Shell) SetActiveMenu(id string) (bool, error) {
	changed := false
	_, err := s.store.Update(func(tx *Tx) error {
		if !tx.Menu.SetActive(id) {
			return errNoChange
		}
		changed = true
		return nil
	})
	return changed, err
}

// CloseTab closes a page tab. Closing the active tab navigates to the
// neighbour that takes over, or home when none is left, in the same
// snapshot as the close. The transition is zero when no navigation ran.
func (s *Shell) CloseTab(id string) (types.Transition, error) {
	var tr types.Transition
	apps := s.guard.apps.List()

	snap, err := s.store.Update(func(tx *Tx) error {
		wasActive := tx.Pages.ActiveID == id
		tab, moved, err := tx.Pages.Close(id)
		if err != nil {
			return err
		}
		if !wasActive || len(apps) == 0 {
			return nil
		}

		next := s.guard.home
		if moved {
			next = tab.Path
		}
		res := s.guard.router.Resolve(next)
		tr = types.Transition{
			From:       tx.Path,
			To:         next,
			Path:       res.Path,
			Redirected: res.Redirected,
			Allowed:    true,
		}
		s.guard.beforeEach(tx, apps, res, &tr)
		return nil
	})
	if err != nil {
		return types.Transition{}, fmt.Errorf("close tab %s: %w", id, err)
	}

	if tr.To != "" {
		tr.Version = snap.Version
		s.runHooks(tr)
	}
	return tr, nil
}

// Snapshot returns the current state
func (s *Shell) Snapshot() *types.Snapshot {
	return s.store.Snapshot()
}

// Subscribe registers for snapshot pushes
func (s *Shell) Subscribe(buffer int) (<-chan *types.Snapshot, func()) {
	return s.store.Subscribe(buffer)
}

// Close ends every snapshot subscription of the shell
func (s *Shell) Close() {
	s.store.Close()
}

// Subscribers returns the number of snapshot subscribers
func (s *Shell) Subscribers() int {
	return s.store.Subscribers()
}

func (s *Shell) runHooks(tr types.Transition) {
	s.hooksMu.RLock()
	hooks := make([]Hook, len(s.hooks))
	copy(hooks, s.hooks)
	s.hooksMu.RUnlock()

	for _, h := range hooks {
		h(cloneTransition(tr))
	}
}

func cloneTransition(tr types.Transition) types.Transition {
	tr.Mounted = append([]string(nil), tr.Mounted...)
	tr.Unmounted = append([]string(nil), tr.Unmounted...)
	return tr
}
