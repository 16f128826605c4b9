package session

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/jonboulle/clockwork"
	"go.uber.org/zap"

	"github.com/GriffinCanCode/microshell/internal/domain/shell"
	"github.com/GriffinCanCode/microshell/internal/shared/id"
	"github.com/GriffinCanCode/microshell/internal/shared/types"
)

// ErrSessionNotFound is returned for unknown or evicted sessions
var ErrSessionNotFound = errors.New("session not found")

// Factory builds the shell of a new session
type Factory func(id string) *shell.Shell

// Session is one browser shell instance
type Session struct {
	ID        string
	Shell     *shell.Shell
	CreatedAt time.Time
	lastSeen  atomic.Int64
}

// LastSeen returns the time of the last access
func (s *Session) LastSeen() time.Time {
	return time.Unix(0, s.lastSeen.Load())
}

// close ends the session's snapshot streams
func (s *Session) close() {
	s.Shell.Close()
}

func (s *Session) touch(now time.Time) {
	s.lastSeen.Store(now.UnixNano())
}

// Info summarises the session
func (s *Session) Info() types.SessionInfo {
	snap := s.Shell.Snapshot()
	return types.SessionInfo{
		ID:        s.ID,
		CreatedAt: s.CreatedAt,
		LastSeen:  s.LastSeen(),
		Path:      snap.Path,
		Version:   snap.Version,
	}
}

// Stats reports session counters
type Stats struct {
	Active  int    `json:"active"`
	Created uint64 `json:"created"`
	Evicted uint64 `json:"evicted"`
	Deleted uint64 `json:"deleted"`
}

// Options configures the manager
type Options struct {
	// TTL evicts sessions idle for longer; zero disables eviction
	TTL     time.Duration
	Logger  *zap.Logger
	Clock   clockwork.Clock
	OnEvict func(id string)
}

// Manager holds live sessions
type Manager struct {
	sessions sync.Map
	factory  Factory
	ids      *id.Generator
	opts     Options

	active  atomic.Int64
	created atomic.Uint64
	evicted atomic.Uint64
	deleted atomic.Uint64
}

// NewManager creates a session manager
func NewManager(factory Factory, opts Options) *Manager {
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.Clock == nil {
		opts.Clock = clockwork.NewRealClock()
	}
	return &Manager{
		factory: factory,
		ids:     id.NewGenerator(),
		opts:    opts,
	}
}

// Create starts a new session
func (m *Manager) Create() *Session {
	sid := m.ids.GenerateWithPrefix(id.SessionPrefix)
	now := m.opts.Clock.Now()

	s := &Session{ID: sid, Shell: m.factory(sid), CreatedAt: now}
	s.touch(now)
	m.sessions.Store(sid, s)

	m.active.Add(1)
	m.created.Add(1)
	m.opts.Logger.Debug("Session created", zap.String("session_id", sid))
	return s
}

// Get returns a session and marks it active
func (m *Manager) Get(sid string) (*Session, error) {
	v, ok := m.sessions.Load(sid)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrSessionNotFound, sid)
	}
	s := v.(*Session)
	s.touch(m.opts.Clock.Now())
	return s, nil
}

// Delete drops a session and closes its streams
func (m *Manager) Delete(sid string) error {
	v, ok := m.sessions.LoadAndDelete(sid)
	if !ok {
		return fmt.Errorf("%w: %s", ErrSessionNotFound, sid)
	}
	v.(*Session).close()
	m.active.Add(-1)
	m.deleted.Add(1)
	m.opts.Logger.Debug("Session deleted", zap.String("session_id", sid))
	return nil
}

// List returns every live session, oldest first
func (m *Manager) List() []types.SessionInfo {
	var out []types.SessionInfo
	m.sessions.Range(func(_, v interface{}) bool {
		out = append(out, v.(*Session).Info())
		return true
	})
	sort.Slice(out, func(i, j int) bool {
		return out[i].ID < out[j].ID
	})
	return out
}

// Len returns the number of live sessions
func (m *Manager) Len() int {
	return int(m.active.Load())
}

// Sweep evicts sessions idle since before now-TTL, closing their streams,
// and returns how many
func (m *Manager) Sweep() int {
	if m.opts.TTL <= 0 {
		return 0
	}
	cutoff := m.opts.Clock.Now().Add(-m.opts.TTL)

	n := 0
	m.sessions.Range(func(k, v interface{}) bool {
		s := v.(*Session)
		if !s.LastSeen().Before(cutoff) {
			return true
		}
		if m.sessions.CompareAndDelete(k, v) {
			s.close()
			m.active.Add(-1)
			m.evicted.Add(1)
			n++
			m.opts.Logger.Info("Session evicted",
				zap.String("session_id", s.ID), zap.Time("last_seen", s.LastSeen()))
			if m.opts.OnEvict != nil {
				m.opts.OnEvict(s.ID)
			}
		}
		return true
	})
	return n
}

// Run sweeps every interval until ctx is done
func (m *Manager) Run(ctx context.Context, interval time.Duration) {
	if m.opts.TTL <= 0 || interval <= 0 {
		return
	}
	ticker := m.opts.Clock.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.Chan():
			m.Sweep()
		case <-ctx.Done():
			return
		}
	}
}

// Stats returns session counters
func (m *Manager) Stats() Stats {
	return Stats{
		Active:  m.Len(),
		Created: m.created.Load(),
		Evicted: m.evicted.Load(),
		Deleted: m.deleted.Load(),
	}
}
