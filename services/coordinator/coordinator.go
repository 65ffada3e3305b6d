// Package coordinator owns the displayed direction. It drives the refresh
// pipeline from the periodic timer and the direction button, and runs the
// wall-clock schedule for night mode and update checks.
package coordinator

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"trafficdots-go/bus"
	"trafficdots-go/services/config"
	"trafficdots-go/types"
)

var TopicDirection = bus.T("status", "direction")

// Sender queues refresh commands; *refresh.Queue satisfies it.
type Sender interface {
	Send(ctx context.Context, cmd types.RefreshCommand) error
}

// Locker gates the pipeline; *refresh.Pipeline satisfies it.
type Locker interface {
	Lock()
	Unlock()
}

type UpdateChecker interface {
	RequestCheck()
}

// Inputs lets night mode mute the direction button.
type Inputs interface {
	EnableQuickDir()
	DisableQuickDir()
}

type Config struct {
	Logger zerolog.Logger
	Conn   *bus.Connection
	// Period between refreshes. Default 10 min.
	Period time.Duration
	Start  types.Direction

	Night       config.Night
	OTASchedule []config.Clock
	// Now defaults to time.Now.
	Now func() time.Time
}

type wake uint8

const (
	wakeOTA wake = 1 << iota
	wakeNightStart
	wakeNightEnd
)

type Coordinator struct {
	cfg    Config
	log    zerolog.Logger
	q      Sender
	pipe   Locker
	ota    UpdateChecker
	inputs Inputs

	dir   types.Direction
	night bool
}

// New wires the coordinator. ota and inputs may be nil.
func New(cfg Config, q Sender, pipe Locker, ota UpdateChecker, inputs Inputs) *Coordinator {
	if cfg.Period <= 0 {
		cfg.Period = 10 * time.Minute
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	return &Coordinator{
		cfg:    cfg,
		log:    cfg.Logger.With().Str("svc", "coordinator").Logger(),
		q:      q,
		pipe:   pipe,
		ota:    ota,
		inputs: inputs,
		dir:    cfg.Start,
	}
}

// Direction returns the displayed direction. Only valid from Run's goroutine
// or before Run starts.
func (c *Coordinator) Direction() types.Direction { return c.dir }

// Run refreshes the board until ctx is cancelled. Each wake clears the
// previous walk (except the first), refreshes the current direction and
// restarts the timer.
func (c *Coordinator) Run(ctx context.Context, events <-chan types.InputEvent) error {
	if c.inNight(c.cfg.Now()) {
		c.enterNight(ctx)
	}
	first := true
	timer := time.NewTimer(c.cfg.Period)
	defer timer.Stop()
	sched := time.NewTimer(time.Hour)
	defer sched.Stop()

	for {
		if !c.night {
			if !first {
				if err := c.q.Send(ctx, types.ClearFor(c.dir)); err != nil {
					return err
				}
			}
			if err := c.q.Send(ctx, types.RefreshFor(c.dir)); err != nil {
				return err
			}
			first = false
		}
		resetTimer(timer, c.cfg.Period)
		c.publish()

		refresh := false
		for !refresh {
			next, due := c.nextWake(c.cfg.Now())
			resetTimer(sched, next.Sub(c.cfg.Now()))
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-timer.C:
				refresh = true
			case ev := <-events:
				refresh = c.onInput(ctx, ev)
			case <-sched.C:
				refresh = c.onSchedule(ctx, due)
			}
		}
	}
}

func (c *Coordinator) onInput(ctx context.Context, ev types.InputEvent) bool {
	switch ev {
	case types.QuickDirPress:
		c.dir = c.dir.Other()
		c.log.Info().Str("dir", c.dir.String()).Msg("direction toggled")
		if c.night {
			c.publish()
			return false
		}
		return true
	case types.HoldDirPress:
		if c.night {
			c.leaveNight()
			return true
		}
		c.enterNight(ctx)
		c.publish()
	}
	return false
}

func (c *Coordinator) onSchedule(ctx context.Context, due wake) bool {
	if due&wakeOTA != 0 && c.ota != nil {
		c.log.Info().Msg("scheduled update check")
		c.ota.RequestCheck()
	}
	switch {
	case due&wakeNightStart != 0 && !c.night:
		c.enterNight(ctx)
		c.publish()
	case due&wakeNightEnd != 0 && c.night:
		c.leaveNight()
		return true
	}
	return false
}

func (c *Coordinator) enterNight(ctx context.Context) {
	c.log.Info().Msg("night mode on")
	c.night = true
	c.pipe.Lock()
	if c.inputs != nil {
		c.inputs.DisableQuickDir()
	}
	if err := c.q.Send(ctx, types.QuickClear); err != nil {
		c.log.Warn().Err(err).Msg("quick clear")
	}
}

func (c *Coordinator) leaveNight() {
	c.log.Info().Msg("night mode off")
	c.night = false
	c.pipe.Unlock()
	if c.inputs != nil {
		c.inputs.EnableQuickDir()
	}
}

// inNight reports whether now falls in the configured night window. The
// window may wrap midnight; an empty window is never night.
func (c *Coordinator) inNight(now time.Time) bool {
	n := c.cfg.Night
	if !n.Enabled || n.Start == n.End {
		return false
	}
	h, m, _ := now.Clock()
	off := config.Clock{Hour: h, Minute: m}.Offset()
	start, end := n.Start.Offset(), n.End.Offset()
	if start < end {
		return off >= start && off < end
	}
	return off >= start || off < end
}

// nextWake returns the next scheduled instant after now and what is due
// then.
func (c *Coordinator) nextWake(now time.Time) (time.Time, wake) {
	var next time.Time
	var due wake
	add := func(clk config.Clock, w wake) {
		t := clk.Next(now)
		switch {
		case next.IsZero() || t.Before(next):
			next, due = t, w
		case t.Equal(next):
			due |= w
		}
	}
	for _, clk := range c.cfg.OTASchedule {
		add(clk, wakeOTA)
	}
	if n := c.cfg.Night; n.Enabled && n.Start != n.End {
		add(n.Start, wakeNightStart)
		add(n.End, wakeNightEnd)
	}
	if next.IsZero() {
		// Nothing scheduled; wake daily to recompute.
		next = now.Add(24 * time.Hour)
	}
	return next, due
}

func (c *Coordinator) publish() {
	if c.cfg.Conn == nil {
		return
	}
	st := types.DirectionStatus{Dir: c.dir, Night: c.night, TS: c.cfg.Now().UnixMilli()}
	c.cfg.Conn.Publish(c.cfg.Conn.NewMessage(TopicDirection, st, true))
}

func resetTimer(t *time.Timer, d time.Duration) {
	if !t.Stop() {
		select {
		case <-t.C:
		default:
		}
	}
	t.Reset(d)
}
