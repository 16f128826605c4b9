package session

import (
	"context"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GriffinCanCode/microshell/internal/domain/registry"
	"github.com/GriffinCanCode/microshell/internal/domain/routes"
	"github.com/GriffinCanCode/microshell/internal/domain/shell"
	"github.com/GriffinCanCode/microshell/internal/shared/id"
	"github.com/GriffinCanCode/microshell/internal/shared/types"
)

type noDescriptor struct{}

func (noDescriptor) Current() []types.NavItem { return nil }

func factory(t *testing.T) Factory {
	t.Helper()
	reg := registry.NewManager(registry.Options{})
	table, err := routes.NewTable(routes.BaseRoutes("/dashboard"))
	require.NoError(t, err)
	router := routes.NewRouter(table)

	return func(string) *shell.Shell {
		return shell.New(reg, noDescriptor{}, router, shell.Options{})
	}
}

func TestCreateGetDelete(t *testing.T) {
	m := NewManager(factory(t), Options{})

	s := m.Create()
	assert.True(t, id.IsValid(s.ID))
	assert.Contains(t, s.ID, id.SessionPrefix+"_")
	assert.Equal(t, 1, m.Len())

	got, err := m.Get(s.ID)
	require.NoError(t, err)
	assert.Same(t, s, got)

	require.NoError(t, m.Delete(s.ID))
	_, err = m.Get(s.ID)
	assert.ErrorIs(t, err, ErrSessionNotFound)
	assert.ErrorIs(t, m.Delete(s.ID), ErrSessionNotFound)

	assert.Equal(t, Stats{Active: 0, Created: 1, Deleted: 1}, m.Stats())
}

func TestDeleteClosesStreams(t *testing.T) {
	m := NewManager(factory(t), Options{})
	s := m.Create()
	ch, cancel := s.Shell.Subscribe(1)
	defer cancel()

	require.NoError(t, m.Delete(s.ID))
	_, open := <-ch
	assert.False(t, open)
	assert.Zero(t, s.Shell.Subscribers())
}

func TestSessionsAreIsolated(t *testing.T) {
	m := NewManager(factory(t), Options{})
	a, b := m.Create(), m.Create()

	_, err := a.Shell.Navigate("/", "/dashboard")
	require.NoError(t, err)

	assert.Equal(t, uint64(1), a.Info().Version)
	assert.Equal(t, "/dashboard", a.Info().Path)
	assert.Zero(t, b.Info().Version)
}

func TestListOrderedByCreation(t *testing.T) {
	m := NewManager(factory(t), Options{})
	var ids []string
	for i := 0; i < 5; i++ {
		ids = append(ids, m.Create().ID)
	}

	list := m.List()
	require.Len(t, list, 5)
	for i, info := range list {
		assert.Equal(t, ids[i], info.ID)
	}
}

func TestSweepEvictsIdle(t *testing.T) {
	clock := clockwork.NewFakeClock()
	var evicted []string
	m := NewManager(factory(t), Options{
		TTL:     time.Minute,
		Clock:   clock,
		OnEvict: func(id string) { evicted = append(evicted, id) },
	})

	idle := m.Create()
	busy := m.Create()
	idleSnaps, cancelIdle := idle.Shell.Subscribe(1)
	defer cancelIdle()
	busySnaps, cancelBusy := busy.Shell.Subscribe(1)
	defer cancelBusy()

	clock.Advance(45 * time.Second)
	_, err := m.Get(busy.ID)
	require.NoError(t, err)

	clock.Advance(30 * time.Second)
	assert.Equal(t, 1, m.Sweep())
	assert.Equal(t, []string{idle.ID}, evicted)

	_, err = m.Get(idle.ID)
	assert.ErrorIs(t, err, ErrSessionNotFound)
	_, err = m.Get(busy.ID)
	assert.NoError(t, err)

	_, open := <-idleSnaps
	assert.False(t, open, "evicted session streams are closed")
	assert.Equal(t, 1, busy.Shell.Subscribers())
	select {
	case <-busySnaps:
		t.Fatal("live session stream must stay open")
	default:
	}

	assert.Equal(t, uint64(1), m.Stats().Evicted)
	assert.Equal(t, 1, m.Len())
}

func TestSweepDisabledWithoutTTL(t *testing.T) {
	m := NewManager(factory(t), Options{})
	m.Create()
	assert.Zero(t, m.Sweep())
}

func TestRunSweepsOnTick(t *testing.T) {
	clock := clockwork.NewFakeClock()
	m := NewManager(factory(t), Options{TTL: time.Minute, Clock: clock})
	m.Create()

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		m.Run(ctx, 15*time.Second)
		close(done)
	}()

	require.NoError(t, clock.BlockUntilContext(ctx, 1))
	clock.Advance(30 * time.Second)
	assert.Equal(t, 1, m.Len(), "not idle long enough")

	clock.Advance(45 * time.Second)
	assert.Eventually(t, func() bool { return m.Len() == 0 }, time.Second, 5*time.Millisecond)
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("janitor did not stop")
	}
}
