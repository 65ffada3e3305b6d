package input

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"trafficdots-go/services/hal/gpioirq"
	"trafficdots-go/types"
)

type countingOTA struct{ n atomic.Int32 }

func (c *countingOTA) Trigger() { c.n.Add(1) }

func start(t *testing.T) (*Dispatcher, chan gpioirq.Event, *countingOTA) {
	ota := &countingOTA{}
	d := New(Config{LongPress: 30 * time.Millisecond}, ota)
	src := make(chan gpioirq.Event)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = d.Run(ctx, src)
	}()
	t.Cleanup(func() {
		cancel()
		<-done
	})
	return d, src, ota
}

func press(src chan gpioirq.Event, id string) {
	src <- gpioirq.Event{ID: id, Level: true, Edge: gpioirq.EdgeRising, TS: time.Now()}
}

func release(src chan gpioirq.Event, id string) {
	src <- gpioirq.Event{ID: id, Level: false, Edge: gpioirq.EdgeFalling, TS: time.Now()}
}

func nextEvent(t *testing.T, d *Dispatcher) types.InputEvent {
	t.Helper()
	select {
	case ev := <-d.Events():
		return ev
	case <-time.After(time.Second):
		t.Fatal("no input event")
	}
	return 0
}

func assertNoEvent(t *testing.T, d *Dispatcher) {
	t.Helper()
	select {
	case ev := <-d.Events():
		t.Fatalf("unexpected event %s", ev)
	case <-time.After(60 * time.Millisecond):
	}
}

func TestQuickPress(t *testing.T) {
	d, src, _ := start(t)
	press(src, PinDir)
	require.Eventually(t, d.Pending, time.Second, time.Millisecond)
	release(src, PinDir)
	assert.Equal(t, types.QuickDirPress, nextEvent(t, d))
	assert.False(t, d.Pending())
	assertNoEvent(t, d)
}

func TestHoldPress(t *testing.T) {
	d, src, _ := start(t)
	press(src, PinDir)
	assert.Equal(t, types.HoldDirPress, nextEvent(t, d))
	// Releasing after the hold fired is not a quick press.
	release(src, PinDir)
	assertNoEvent(t, d)
}

func TestOTAPressTriggers(t *testing.T) {
	d, src, ota := start(t)
	press(src, PinOTA)
	require.Eventually(t, func() bool { return ota.n.Load() == 1 }, time.Second, time.Millisecond)
	release(src, PinOTA)

	d.DisableOTA()
	press(src, PinOTA)
	time.Sleep(10 * time.Millisecond)
	assert.Equal(t, int32(1), ota.n.Load())
	d.EnableOTA()
	d.Emit(types.OTAPress)
	assert.Equal(t, int32(2), ota.n.Load())
	assertNoEvent(t, d)
}

func TestDisabledGesturesAreDropped(t *testing.T) {
	d, src, _ := start(t)
	d.DisableQuickDir()
	press(src, PinDir)
	release(src, PinDir)
	assertNoEvent(t, d)

	d.DisableHoldDir()
	press(src, PinDir)
	assertNoEvent(t, d)
	release(src, PinDir)

	d.EnableQuickDir()
	d.EnableHoldDir()
	press(src, PinDir)
	release(src, PinDir)
	assert.Equal(t, types.QuickDirPress, nextEvent(t, d))
}

func TestRegisterArmsBothButtons(t *testing.T) {
	w := gpioirq.New(4, 4)
	d := New(Config{}, &countingOTA{})
	ota, dir := &stubPin{}, &stubPin{}
	stop, err := d.Register(w, ota, dir)
	require.NoError(t, err)
	assert.Equal(t, gpioirq.EdgeFalling, ota.edge)
	assert.Equal(t, gpioirq.EdgeBoth, dir.edge)
	stop()
	assert.True(t, ota.cleared)
	assert.True(t, dir.cleared)
}

type stubPin struct {
	edge    gpioirq.Edge
	cleared bool
}

func (p *stubPin) Get() bool { return true }
func (p *stubPin) SetIRQ(e gpioirq.Edge, _ func()) error {
	p.edge = e
	return nil
}
func (p *stubPin) ClearIRQ() error {
	p.cleared = true
	return nil
}

// buttonPin is an active-low button: high at rest, low while held.
type buttonPin struct {
	mu      sync.Mutex
	level   bool
	handler func()
}

func (p *buttonPin) Get() bool { p.mu.Lock(); defer p.mu.Unlock(); return p.level }
func (p *buttonPin) SetIRQ(_ gpioirq.Edge, h func()) error {
	p.mu.Lock()
	p.handler = h
	p.mu.Unlock()
	return nil
}
func (p *buttonPin) ClearIRQ() error {
	p.mu.Lock()
	p.handler = nil
	p.mu.Unlock()
	return nil
}

func (p *buttonPin) sample(level bool) {
	p.mu.Lock()
	p.level = level
	h := p.handler
	p.mu.Unlock()
	if h != nil {
		h()
	}
}

// step is a pin sample, or a pause when wait is set.
type step struct {
	level bool
	wait  time.Duration
}

func TestDirectionButtonBounce(t *testing.T) {
	const (
		down = false
		up   = true
	)
	pause := func(d time.Duration) step { return step{wait: d} }
	cases := []struct {
		name  string
		steps []step
	}{
		{"clean", []step{{level: down}, pause(60 * time.Millisecond), {level: up}}},
		{"bounced press", []step{{level: down}, {level: up}, {level: down}, pause(60 * time.Millisecond), {level: up}}},
		{"bounced release", []step{{level: down}, pause(60 * time.Millisecond), {level: up}, {level: down}, {level: up}}},
		{"late low sample on release", []step{{level: down}, pause(60 * time.Millisecond), {level: down}, {level: up}}},
		{"release inside window", []step{{level: down}, {level: up}}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			d := New(Config{Debounce: 20 * time.Millisecond, LongPress: 250 * time.Millisecond}, &countingOTA{})
			w := gpioirq.New(16, 16)
			dir := &buttonPin{level: up}
			stop, err := d.Register(w, &stubPin{}, dir)
			require.NoError(t, err)
			defer stop()

			ctx, cancel := context.WithCancel(context.Background())
			defer cancel()
			go func() { _ = w.Run(ctx) }()
			go func() { _ = d.Run(ctx, w.Events()) }()

			for _, s := range tc.steps {
				if s.wait > 0 {
					time.Sleep(s.wait)
					continue
				}
				dir.sample(s.level)
			}
			assert.Equal(t, types.QuickDirPress, nextEvent(t, d))
			assert.False(t, d.Pending())
			assertNoEvent(t, d)
			assert.False(t, d.Pending())
		})
	}
}
