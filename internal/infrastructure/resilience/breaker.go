package resilience

import (
	"sync"
	"time"

	"github.com/sony/gobreaker"
)

// State is a breaker state, serialized by name
type State string

const (
	StateClosed   State = "closed"
	StateHalfOpen State = "half-open"
	StateOpen     State = "open"
)

func (s State) String() string {
	return string(s)
}

func stateOf(s gobreaker.State) State {
	switch s {
	case gobreaker.StateOpen:
		return StateOpen
	case gobreaker.StateHalfOpen:
		return StateHalfOpen
	default:
		return StateClosed
	}
}

// Counts holds the request counters of the current generation
type Counts = gobreaker.Counts

var (
	// ErrCircuitOpen is returned while the breaker rejects calls
	ErrCircuitOpen = gobreaker.ErrOpenState
	// ErrTooManyRequests is returned when half-open probes are exhausted
	ErrTooManyRequests = gobreaker.ErrTooManyRequests
)

// Settings configures a breaker. Zero values take gobreaker defaults:
// one half-open request, counts never cleared while closed, 60s open
// period, trip after five consecutive failures.
type Settings struct {
	MaxRequests uint32
	Interval    time.Duration
	Timeout     time.Duration
	ReadyToTrip func(counts Counts) bool
	// IsSuccessful classifies a request error; nil errors always succeed
	IsSuccessful  func(err error) bool
	OnStateChange func(name string, from, to State)
}

func (s Settings) build(name string) gobreaker.Settings {
	st := gobreaker.Settings{
		Name:        name,
		MaxRequests: s.MaxRequests,
		Interval:    s.Interval,
		Timeout:     s.Timeout,
		ReadyToTrip: s.ReadyToTrip,
	}
	if isSuccessful := s.IsSuccessful; isSuccessful != nil {
		st.IsSuccessful = func(err error) bool {
			return err == nil || isSuccessful(err)
		}
	}
	if onChange := s.OnStateChange; onChange != nil {
		st.OnStateChange = func(name string, from, to gobreaker.State) {
			onChange(name, stateOf(from), stateOf(to))
		}
	}
	return st
}

// Breaker guards calls to one dependency
type Breaker struct {
	cb *gobreaker.CircuitBreaker
}

// New creates a breaker
func New(name string, settings Settings) *Breaker {
	return &Breaker{cb: gobreaker.NewCircuitBreaker(settings.build(name))}
}

// Name returns the breaker name
func (b *Breaker) Name() string {
	return b.cb.Name()
}

// State returns the current state
func (b *Breaker) State() State {
	return stateOf(b.cb.State())
}

// Counts returns the counters of the current generation
func (b *Breaker) Counts() Counts {
	return b.cb.Counts()
}

// Do runs fn if the breaker accepts it
func (b *Breaker) Do(fn func() error) error {
	_, err := b.cb.Execute(func() (interface{}, error) {
		return nil, fn()
	})
	return err
}

// Execute runs fn through b. The result of fn is returned even when fn
// fails; a rejected call returns the zero value.
func Execute[T any](b *Breaker, fn func() (T, error)) (T, error) {
	out, err := b.cb.Execute(func() (interface{}, error) {
		return fn()
	})
	v, _ := out.(T)
	return v, err
}

// Group hands out one breaker per name, all sharing the same settings
type Group struct {
	settings Settings

	mu       sync.Mutex
	breakers map[string]*Breaker
}

// NewGroup creates a breaker group
func NewGroup(settings Settings) *Group {
	return &Group{settings: settings, breakers: make(map[string]*Breaker)}
}

// Get returns the breaker for name, creating it on first use
func (g *Group) Get(name string) *Breaker {
	g.mu.Lock()
	defer g.mu.Unlock()

	if b, ok := g.breakers[name]; ok {
		return b
	}
	b := New(name, g.settings)
	g.breakers[name] = b
	return b
}

// States returns the current state of every breaker in the group
func (g *Group) States() map[string]State {
	g.mu.Lock()
	defer g.mu.Unlock()

	out := make(map[string]State, len(g.breakers))
	for name, b := range g.breakers {
		out[name] = b.State()
	}
	return out
}
