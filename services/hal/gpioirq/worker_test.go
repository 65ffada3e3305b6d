package gpioirq

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeIRQPin calls its handler synchronously from fire.
type fakeIRQPin struct {
	mu      sync.Mutex
	level   bool
	edge    Edge
	handler func()
}

func (p *fakeIRQPin) Get() bool { p.mu.Lock(); defer p.mu.Unlock(); return p.level }
func (p *fakeIRQPin) SetIRQ(e Edge, h func()) error {
	p.mu.Lock()
	p.edge, p.handler = e, h
	p.mu.Unlock()
	return nil
}
func (p *fakeIRQPin) ClearIRQ() error {
	p.mu.Lock()
	p.handler = nil
	p.mu.Unlock()
	return nil
}

func (p *fakeIRQPin) fire(level bool) {
	p.mu.Lock()
	p.level = level
	h := p.handler
	p.mu.Unlock()
	if h != nil {
		h()
	}
}

func start(t *testing.T) *Worker {
	w := New(8, 8)
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	go func() { _ = w.Run(ctx) }()
	return w
}

func next(t *testing.T, w *Worker) Event {
	t.Helper()
	select {
	case ev := <-w.Events():
		return ev
	case <-time.After(time.Second):
		t.Fatal("timeout waiting for event")
	}
	return Event{}
}

func expectNone(t *testing.T, w *Worker, d time.Duration) {
	t.Helper()
	select {
	case ev := <-w.Events():
		t.Fatalf("unexpected event: %+v", ev)
	case <-time.After(d):
	}
}

func TestDebounceAndEdges(t *testing.T) {
	w := start(t)
	pin := &fakeIRQPin{}
	cancel, err := w.RegisterInput("dir", pin, EdgeBoth, 20*time.Millisecond, false)
	require.NoError(t, err)
	defer cancel()

	pin.fire(true)
	ev := next(t, w)
	assert.Equal(t, "dir", ev.ID)
	assert.True(t, ev.Level)
	assert.Equal(t, EdgeRising, ev.Edge)

	// A bounce that ends where it started produces nothing.
	pin.fire(false)
	pin.fire(true)
	expectNone(t, w, 50*time.Millisecond)

	pin.fire(false)
	assert.Equal(t, EdgeFalling, next(t, w).Edge)
	pin.fire(true)
	pin.fire(false)
	expectNone(t, w, 50*time.Millisecond)
}

func TestEdgeInsideWindowIsReportedWhenSettled(t *testing.T) {
	w := start(t)
	pin := &fakeIRQPin{}
	cancel, err := w.RegisterInput("dir", pin, EdgeBoth, 20*time.Millisecond, false)
	require.NoError(t, err)
	defer cancel()

	pin.fire(true)
	assert.Equal(t, EdgeRising, next(t, w).Edge)
	// Released before the window closed.
	pin.fire(false)
	ev := next(t, w)
	assert.Equal(t, EdgeFalling, ev.Edge)
	assert.False(t, ev.Level)
	expectNone(t, w, 50*time.Millisecond)
}

func TestBouncedReleaseOfActiveLowButton(t *testing.T) {
	w := start(t)
	pin := &fakeIRQPin{level: true}
	cancel, err := w.RegisterInput("dir", pin, EdgeBoth, 50*time.Millisecond, true)
	require.NoError(t, err)
	defer cancel()

	pin.fire(false)
	assert.Equal(t, EdgeRising, next(t, w).Edge)
	time.Sleep(200 * time.Millisecond)

	// The release bounces: a last low sample, then the pin settles high.
	pin.fire(false)
	pin.fire(true)
	ev := next(t, w)
	assert.Equal(t, EdgeFalling, ev.Edge)
	assert.False(t, ev.Level)
	expectNone(t, w, 80*time.Millisecond)
}

func TestSettleAfterCancelIsIgnored(t *testing.T) {
	w := start(t)
	pin := &fakeIRQPin{}
	cancel, err := w.RegisterInput("dir", pin, EdgeBoth, 20*time.Millisecond, false)
	require.NoError(t, err)

	pin.fire(true)
	assert.Equal(t, EdgeRising, next(t, w).Edge)
	pin.fire(false)
	cancel()
	expectNone(t, w, 50*time.Millisecond)
}

func TestFallingAfterWindow(t *testing.T) {
	w := start(t)
	pin := &fakeIRQPin{}
	cancel, err := w.RegisterInput("dir", pin, EdgeBoth, 10*time.Millisecond, false)
	require.NoError(t, err)
	defer cancel()

	pin.fire(true)
	assert.Equal(t, EdgeRising, next(t, w).Edge)
	time.Sleep(15 * time.Millisecond)
	pin.fire(false)
	ev := next(t, w)
	assert.Equal(t, EdgeFalling, ev.Edge)
	assert.False(t, ev.Level)
}

func TestInvert(t *testing.T) {
	w := start(t)
	pin := &fakeIRQPin{level: true}
	cancel, err := w.RegisterInput("ota", pin, EdgeBoth, 0, true)
	require.NoError(t, err)
	defer cancel()

	// Physical low is logical high: a pressed active-low button.
	pin.fire(false)
	ev := next(t, w)
	assert.True(t, ev.Level)
	assert.Equal(t, EdgeRising, ev.Edge)
}

func TestSingleEdgeTrustsConfig(t *testing.T) {
	w := start(t)
	pin := &fakeIRQPin{}
	cancel, err := w.RegisterInput("ota", pin, EdgeFalling, 0, false)
	require.NoError(t, err)
	defer cancel()

	pin.fire(false)
	assert.Equal(t, EdgeFalling, next(t, w).Edge)
}

func TestInvertedSingleEdgeArmsOpposite(t *testing.T) {
	w := start(t)
	pin := &fakeIRQPin{level: true}
	cancel, err := w.RegisterInput("ota", pin, EdgeRising, 0, true)
	require.NoError(t, err)
	defer cancel()
	assert.Equal(t, EdgeFalling, pin.edge)

	pin.fire(false)
	ev := next(t, w)
	assert.Equal(t, EdgeRising, ev.Edge)
	assert.True(t, ev.Level)
}

func TestCancelDisarms(t *testing.T) {
	w := start(t)
	pin := &fakeIRQPin{}
	cancel, err := w.RegisterInput("dir", pin, EdgeBoth, 0, false)
	require.NoError(t, err)
	cancel()
	pin.fire(true)
	select {
	case ev := <-w.Events():
		t.Fatalf("unexpected event: %+v", ev)
	case <-time.After(10 * time.Millisecond):
	}

	noop, err := w.RegisterInput("none", pin, EdgeNone, 0, false)
	require.NoError(t, err)
	noop()
}
