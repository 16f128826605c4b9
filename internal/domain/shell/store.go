package shell

import (
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/GriffinCanCode/microshell/internal/domain/menu"
	"github.com/GriffinCanCode/microshell/internal/domain/nav"
	"github.com/GriffinCanCode/microshell/internal/shared/types"
)

// errNoChange aborts a batch without publishing
var errNoChange = errors.New("no change")

// Tx is the mutable working copy of one batch
type Tx struct {
	Apps        nav.AppTabs
	Pages       nav.PageTabs
	Menu        menu.State
	Mounts      []types.MountState
	Title       string
	Path        string
	Initialized bool
}

// Store publishes snapshots atomically. Writers are serialized; readers
// never block.
type Store struct {
	mu      sync.Mutex
	current atomic.Pointer[types.Snapshot]
	now     func() time.Time

	subsMu  sync.RWMutex
	subs    map[uint64]chan *types.Snapshot
	nextSub uint64
	closed  bool
}

// NewStore creates a store holding an empty, uninitialized snapshot
func NewStore(now func() time.Time) *Store {
	if now == nil {
		now = time.Now
	}
	s := &Store{now: now, subs: make(map[uint64]chan *types.Snapshot)}
	s.current.Store(&types.Snapshot{UpdatedAt: now()})
	return s
}

// Snapshot returns the current snapshot. It must not be mutated.
func (s *Store) Snapshot() *types.Snapshot {
	return s.current.Load()
}

// Update runs fn on a copy of the current state and publishes the result
// as one new snapshot. An error from fn discards every mutation.
func (s *Store) Update(fn func(tx *Tx) error) (*types.Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cur := s.current.Load()
	tx := &Tx{
		Apps:        nav.AppTabs(cur.NavTabs).Clone(),
		Pages:       nav.PageTabs{Tabs: cur.PageTabs, ActiveID: cur.ActivePageID}.Clone(),
		Menu:        menu.State{Tree: cur.Menu, ActiveID: cur.ActiveMenuID}.Clone(),
		Mounts:      cloneMounts(cur.Mounts),
		Title:       cur.Title,
		Path:        cur.Path,
		Initialized: cur.Initialized,
	}

	if err := fn(tx); err != nil {
		if errors.Is(err, errNoChange) {
			return cur, nil
		}
		return cur, err
	}

	next := &types.Snapshot{
		Version:      cur.Version + 1,
		Initialized:  tx.Initialized,
		NavTabs:      tx.Apps,
		PageTabs:     tx.Pages.Tabs,
		ActivePageID: tx.Pages.ActiveID,
		Menu:         tx.Menu.Tree,
		ActiveMenuID: tx.Menu.ActiveID,
		Mounts:       tx.Mounts,
		Title:        tx.Title,
		Path:         tx.Path,
		UpdatedAt:    s.now(),
	}
	s.current.Store(next)
	s.publish(next)
	return next, nil
}

// Subscribe registers for snapshot pushes. A slow subscriber only ever
// misses intermediate snapshots, never the latest one.
func (s *Store) Subscribe(buffer int) (<-chan *types.Snapshot, func()) {
	if buffer < 1 {
		buffer = 1
	}
	ch := make(chan *types.Snapshot, buffer)

	s.subsMu.Lock()
	defer s.subsMu.Unlock()
	if s.closed {
		close(ch)
		return ch, func() {}
	}
	id := s.nextSub
	s.nextSub++
	s.subs[id] = ch

	cancel := func() {
		s.subsMu.Lock()
		defer s.subsMu.Unlock()
		if sub, ok := s.subs[id]; ok {
			delete(s.subs, id)
			close(sub)
		}
	}
	return ch, cancel
}

// Close ends every subscription. Later subscriptions start closed;
// updates still apply but reach no one.
func (s *Store) Close() {
	s.subsMu.Lock()
	defer s.subsMu.Unlock()

	s.closed = true
	for id, ch := range s.subs {
		delete(s.subs, id)
		close(ch)
	}
}

// Subscribers returns the number of active subscriptions
func (s *Store) Subscribers() int {
	s.subsMu.RLock()
	defer s.subsMu.RUnlock()
	return len(s.subs)
}

func (s *Store) publish(snap *types.Snapshot) {
	s.subsMu.RLock()
	defer s.subsMu.RUnlock()

	for _, ch := range s.subs {
		select {
		case ch <- snap:
			continue
		default:
		}
		// full: drop the oldest
		select {
		case <-ch:
		default:
		}
		select {
		case ch <- snap:
		default:
		}
	}
}

func cloneMounts(in []types.MountState) []types.MountState {
	if in == nil {
		return nil
	}
	out := make([]types.MountState, len(in))
	copy(out, in)
	return out
}
