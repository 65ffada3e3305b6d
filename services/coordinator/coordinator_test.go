package coordinator

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"trafficdots-go/bus"
	"trafficdots-go/services/config"
	"trafficdots-go/types"
)

type fakeQueue struct{ cmds chan types.RefreshCommand }

func (q *fakeQueue) Send(ctx context.Context, cmd types.RefreshCommand) error {
	select {
	case q.cmds <- cmd:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

type fakeLocker struct{ locked atomic.Bool }

func (l *fakeLocker) Lock()   { l.locked.Store(true) }
func (l *fakeLocker) Unlock() { l.locked.Store(false) }

type fakeOTA struct{ checks atomic.Int32 }

func (o *fakeOTA) RequestCheck() { o.checks.Add(1) }

type fakeInputs struct{ quick atomic.Bool }

func (i *fakeInputs) EnableQuickDir()  { i.quick.Store(true) }
func (i *fakeInputs) DisableQuickDir() { i.quick.Store(false) }

type rig struct {
	q      *fakeQueue
	lock   *fakeLocker
	ota    *fakeOTA
	inputs *fakeInputs
	events chan types.InputEvent
	status *bus.Subscription
}

var night = config.Night{Enabled: true, Start: config.Clock{Hour: 21}, End: config.Clock{Hour: 5}}

// clockAt runs a wall clock starting at h:m:s plus offset.
func clockAt(h, m, s int, offset time.Duration) func() time.Time {
	base := time.Date(2026, 5, 4, h, m, s, 0, time.UTC).Add(offset)
	t0 := time.Now()
	return func() time.Time { return base.Add(time.Since(t0)) }
}

func start(t *testing.T, cfg Config) *rig {
	t.Helper()
	conn := bus.NewBus(16).NewConnection("test")
	r := &rig{
		q:      &fakeQueue{cmds: make(chan types.RefreshCommand, 16)},
		lock:   &fakeLocker{},
		ota:    &fakeOTA{},
		inputs: &fakeInputs{},
		events: make(chan types.InputEvent, 8),
		status: conn.Subscribe(TopicDirection),
	}
	r.inputs.quick.Store(true)
	cfg.Conn = conn
	if cfg.Now == nil {
		cfg.Now = clockAt(12, 0, 0, 0)
	}
	c := New(cfg, r.q, r.lock, r.ota, r.inputs)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = c.Run(ctx, r.events)
	}()
	t.Cleanup(func() {
		cancel()
		<-done
	})
	return r
}

func (r *rig) expect(t *testing.T, want ...types.RefreshCommand) {
	t.Helper()
	for _, w := range want {
		select {
		case got := <-r.q.cmds:
			require.Equal(t, w, got)
		case <-time.After(time.Second):
			t.Fatalf("timed out waiting for %v", w)
		}
	}
}

func (r *rig) quiet(t *testing.T, d time.Duration) {
	t.Helper()
	select {
	case got := <-r.q.cmds:
		t.Fatalf("unexpected %v", got)
	case <-time.After(d):
	}
}

func (r *rig) waitStatus(t *testing.T, want types.DirectionStatus) {
	t.Helper()
	deadline := time.After(time.Second)
	for {
		select {
		case m := <-r.status.Channel():
			st := m.Payload.(types.DirectionStatus)
			if st.Dir == want.Dir && st.Night == want.Night {
				return
			}
		case <-deadline:
			t.Fatalf("no status %+v", want)
		}
	}
}

func TestFirstWakeOnlyRefreshes(t *testing.T) {
	r := start(t, Config{Period: time.Hour})
	r.expect(t, types.RefreshNorth)
	r.quiet(t, 20*time.Millisecond)
	r.waitStatus(t, types.DirectionStatus{Dir: types.North})
}

func TestTimerClearsThenRefreshes(t *testing.T) {
	r := start(t, Config{Period: 10 * time.Millisecond, Start: types.South})
	r.expect(t, types.RefreshSouth, types.ClearSouth, types.RefreshSouth, types.ClearSouth, types.RefreshSouth)
}

func TestQuickPressTogglesDirection(t *testing.T) {
	r := start(t, Config{Period: time.Hour})
	r.expect(t, types.RefreshNorth)

	r.events <- types.QuickDirPress
	r.expect(t, types.ClearSouth, types.RefreshSouth)
	r.waitStatus(t, types.DirectionStatus{Dir: types.South})

	r.events <- types.QuickDirPress
	r.expect(t, types.ClearNorth, types.RefreshNorth)
}

func TestHoldPressTogglesNight(t *testing.T) {
	r := start(t, Config{Period: time.Hour})
	r.expect(t, types.RefreshNorth)

	r.events <- types.HoldDirPress
	r.expect(t, types.QuickClear)
	r.waitStatus(t, types.DirectionStatus{Dir: types.North, Night: true})
	assert.True(t, r.lock.locked.Load())
	assert.False(t, r.inputs.quick.Load())

	r.events <- types.HoldDirPress
	r.expect(t, types.ClearNorth, types.RefreshNorth)
	assert.False(t, r.lock.locked.Load())
	assert.True(t, r.inputs.quick.Load())
}

func TestQuickPressAtNightOnlyTurns(t *testing.T) {
	r := start(t, Config{Period: time.Hour})
	r.expect(t, types.RefreshNorth)
	r.events <- types.HoldDirPress
	r.expect(t, types.QuickClear)

	r.events <- types.QuickDirPress
	r.waitStatus(t, types.DirectionStatus{Dir: types.South, Night: true})
	r.quiet(t, 20*time.Millisecond)
}

func TestStartsDarkInsideNightWindow(t *testing.T) {
	r := start(t, Config{Period: 5 * time.Millisecond, Night: night, Now: clockAt(23, 30, 0, 0)})
	r.expect(t, types.QuickClear)
	assert.True(t, r.lock.locked.Load())
	// The refresh timer keeps running but sends nothing.
	r.quiet(t, 30*time.Millisecond)
}

func TestScheduledNightEnd(t *testing.T) {
	r := start(t, Config{Period: time.Hour, Night: night, Now: clockAt(5, 0, 0, -30*time.Millisecond)})
	r.expect(t, types.QuickClear, types.RefreshNorth)
	assert.False(t, r.lock.locked.Load())
}

func TestScheduledNightStart(t *testing.T) {
	r := start(t, Config{Period: time.Hour, Night: night, Now: clockAt(21, 0, 0, -30*time.Millisecond)})
	r.expect(t, types.RefreshNorth, types.QuickClear)
	assert.True(t, r.lock.locked.Load())
}

func TestScheduledUpdateCheck(t *testing.T) {
	r := start(t, Config{
		Period:      time.Hour,
		OTASchedule: []config.Clock{{Hour: 11}, {Hour: 17}},
		Now:         clockAt(17, 0, 0, -20*time.Millisecond),
	})
	r.expect(t, types.RefreshNorth)
	require.Eventually(t, func() bool { return r.ota.checks.Load() == 1 }, time.Second, time.Millisecond)
	r.quiet(t, 20*time.Millisecond)
	assert.Equal(t, int32(1), r.ota.checks.Load())
}

func TestNextWake(t *testing.T) {
	c := New(Config{
		Night:       night,
		OTASchedule: []config.Clock{{Hour: 0}, {Hour: 11}, {Hour: 21}},
	}, nil, nil, nil, nil)
	at := func(h, m int) time.Time { return time.Date(2026, 5, 4, h, m, 0, 0, time.UTC) }

	next, due := c.nextWake(at(10, 0))
	assert.Equal(t, at(11, 0), next)
	assert.Equal(t, wakeOTA, due)

	next, due = c.nextWake(at(11, 0))
	assert.Equal(t, at(21, 0), next)
	assert.Equal(t, wakeOTA|wakeNightStart, due)

	next, due = c.nextWake(at(1, 0))
	assert.Equal(t, at(5, 0), next)
	assert.Equal(t, wakeNightEnd, due)

	next, due = c.nextWake(at(22, 0))
	assert.Equal(t, at(0, 0).AddDate(0, 0, 1), next)
	assert.Equal(t, wakeOTA, due)

	empty := New(Config{}, nil, nil, nil, nil)
	next, due = empty.nextWake(at(8, 0))
	assert.Equal(t, at(8, 0).Add(24*time.Hour), next)
	assert.Zero(t, due)
}

func TestInNight(t *testing.T) {
	at := func(h, m int) time.Time { return time.Date(2026, 5, 4, h, m, 0, 0, time.UTC) }
	wrap := New(Config{Night: night}, nil, nil, nil, nil)
	day := New(Config{Night: config.Night{Enabled: true, Start: config.Clock{Hour: 1}, End: config.Clock{Hour: 4}}}, nil, nil, nil, nil)
	off := New(Config{Night: config.Night{Start: config.Clock{Hour: 21}, End: config.Clock{Hour: 5}}}, nil, nil, nil, nil)

	cases := []struct {
		c    *Coordinator
		t    time.Time
		want bool
	}{
		{wrap, at(21, 0), true},
		{wrap, at(23, 59), true},
		{wrap, at(4, 59), true},
		{wrap, at(5, 0), false},
		{wrap, at(12, 0), false},
		{day, at(2, 0), true},
		{day, at(4, 0), false},
		{day, at(0, 30), false},
		{off, at(23, 0), false},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, tc.c.inNight(tc.t), tc.t.Format("15:04"))
	}
}
