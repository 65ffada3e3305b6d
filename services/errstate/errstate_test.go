package errstate

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"trafficdots-go/bus"
	"trafficdots-go/types"
)

type fakeLED struct {
	mu      sync.Mutex
	on      bool
	toggles int
}

func (l *fakeLED) Set(on bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if on != l.on {
		l.toggles++
	}
	l.on = on
}

func (l *fakeLED) state() (bool, int) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.on, l.toggles
}

func newState(t *testing.T) (*State, *fakeLED, *atomic.Int32) {
	t.Helper()
	led := &fakeLED{}
	var halts atomic.Int32
	s := New(Config{
		LED:         led,
		FlashPeriod: 2 * time.Millisecond,
		Halt:        func() { halts.Add(1) },
	})
	t.Cleanup(func() {
		s.mu.Lock()
		s.stopFlashLocked()
		s.mu.Unlock()
	})
	return s, led, &halts
}

func TestNoConnFlashesUntilResolved(t *testing.T) {
	s, led, halts := newState(t)

	s.ThrowNoConn()
	assert.Equal(t, types.NoConnErr, s.Level())
	assert.True(t, s.Flashing())
	require.Eventually(t, func() bool {
		_, n := led.state()
		return n >= 2
	}, time.Second, time.Millisecond)

	// Throwing again keeps the single flasher.
	s.ThrowNoConn()
	assert.Equal(t, types.NoConnErr, s.Level())

	s.ResolveNoConn(false)
	assert.Equal(t, types.NoError, s.Level())
	assert.False(t, s.Flashing())
	on, _ := led.state()
	assert.False(t, on)
	assert.Equal(t, int32(0), halts.Load())
}

func TestHandleableIsSolidAndSuppressesFlash(t *testing.T) {
	s, led, halts := newState(t)

	s.ThrowNoConn()
	s.ThrowHandleable()
	assert.Equal(t, types.HandleableAndNoConnErr, s.Level())
	assert.False(t, s.Flashing())
	on, _ := led.state()
	assert.True(t, on)

	// A no-conn while handleable does not restart flashing.
	s.ThrowNoConn()
	assert.Equal(t, types.HandleableAndNoConnErr, s.Level())
	assert.False(t, s.Flashing())

	s.ResolveHandleable(false)
	assert.Equal(t, types.NoConnErr, s.Level())
	assert.True(t, s.Flashing())

	s.ResolveNoConn(false)
	assert.Equal(t, types.NoError, s.Level())
	assert.Equal(t, int32(0), halts.Load())
}

func TestHandleableThenNoConnResolve(t *testing.T) {
	s, led, _ := newState(t)

	s.ThrowHandleable()
	assert.Equal(t, types.HandleableErr, s.Level())
	s.ThrowNoConn()
	assert.Equal(t, types.HandleableAndNoConnErr, s.Level())
	s.ResolveNoConn(false)
	assert.Equal(t, types.HandleableErr, s.Level())
	s.ResolveHandleable(false)
	assert.Equal(t, types.NoError, s.Level())
	on, _ := led.state()
	assert.False(t, on)
}

func TestResolveNone(t *testing.T) {
	s, _, halts := newState(t)

	s.ResolveNoConn(true)
	s.ResolveHandleable(true)
	assert.Equal(t, types.NoError, s.Level())
	assert.Equal(t, int32(0), halts.Load())

	s.ResolveHandleable(false)
	assert.Equal(t, types.FatalErr, s.Level())
	assert.Equal(t, int32(1), halts.Load())
}

func TestIllegalTransitionsEscalate(t *testing.T) {
	cases := map[string]func(*State){
		"second handleable":       func(s *State) { s.ThrowHandleable(); s.ThrowHandleable() },
		"resolve missing no_conn": func(s *State) { s.ResolveNoConn(false) },
		"throw fatal":             func(s *State) { s.ThrowFatal("test") },
	}
	for name, f := range cases {
		s, led, halts := newState(t)
		f(s)
		assert.Equal(t, types.FatalErr, s.Level(), name)
		assert.Equal(t, int32(1), halts.Load(), name)
		on, _ := led.state()
		assert.True(t, on, name)

		// Fatal is terminal.
		s.ThrowNoConn()
		assert.Equal(t, types.FatalErr, s.Level(), name)
		assert.False(t, s.Flashing(), name)
	}
}

func TestPublishesRetainedLevel(t *testing.T) {
	b := bus.NewBus(8)
	conn := b.NewConnection("errstate")
	s := New(Config{Conn: conn, FlashPeriod: time.Hour, Halt: func() {}})

	s.ThrowNoConn()
	sub := b.NewConnection("test").Subscribe(TopicError)
	select {
	case m := <-sub.Channel():
		st, ok := m.Payload.(types.ErrorStatus)
		require.True(t, ok)
		assert.Equal(t, types.NoConnErr, st.Level)
	case <-time.After(time.Second):
		t.Fatal("no retained status")
	}
	s.ResolveNoConn(false)
}
