// Package refresh turns speed tables into LED colours. It owns the fetch of
// live and typical speeds, their NVS fallback, and the animated walks that
// paint or blank one direction of the board.
package refresh

import (
	"context"
	"errors"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"

	"trafficdots-go/bus"
	"trafficdots-go/drivers/is31fl3741"
	"trafficdots-go/drivers/is31fl3741/ledmap"
	"trafficdots-go/errcode"
	"trafficdots-go/services/apiconn"
	"trafficdots-go/services/dots"
	"trafficdots-go/types"
	"trafficdots-go/x/mathx"
)

var (
	TopicLED   = bus.T("leds", "led")
	TopicClear = bus.T("leds", "clear")
)

// DefaultScale is the current scaling of every lit LED; dimming is done
// with PWM only.
const DefaultScale = 0xFF

// LEDs is the subset of the LED command API the pipeline drives.
type LEDs interface {
	SetColor(ctx context.Context, led uint16, r, g, b uint8, m dots.Mode, n dots.NotifyMode) error
	SetScaling(ctx context.Context, led uint16, r, g, b uint8, m dots.Mode, n dots.NotifyMode) error
	Reset(ctx context.Context, m dots.Mode, n dots.NotifyMode) error
	SetGlobalCurrentControl(ctx context.Context, v uint8, m dots.Mode, n dots.NotifyMode) error
	SetOperatingMode(ctx context.Context, op is31fl3741.Operation, m dots.Mode, n dots.NotifyMode) error
	PollNotification() (uint32, bool)
}

type Fetcher interface {
	GetServerSpeeds(ctx context.Context, url string, table types.SpeedTable) error
}

type ErrorState interface {
	ThrowNoConn()
	ResolveNoConn(resolveNone bool)
}

type Config struct {
	Logger zerolog.Logger
	Map    *ledmap.Map

	DataServer string
	DataTag    string

	// Percent of typical speed below which a segment is slow or medium.
	SlowCutoff   int64
	MediumCutoff int64
	Slow         types.RGB
	Medium       types.RGB
	Fast         types.RGB

	GlobalCurrent   uint8
	MatrixRetries   int
	LEDUpdatePeriod time.Duration
	LEDClearPeriod  time.Duration

	// Busy reports a button press not yet handled; it aborts walks.
	Busy func() bool
	Conn *bus.Connection
}

func (c *Config) defaults() {
	if c.MatrixRetries <= 0 {
		c.MatrixRetries = 15
	}
	if c.LEDUpdatePeriod <= 0 {
		c.LEDUpdatePeriod = 25 * time.Millisecond
	}
	if c.LEDClearPeriod <= 0 {
		c.LEDClearPeriod = 10 * time.Millisecond
	}
	if c.SlowCutoff == 0 && c.MediumCutoff == 0 {
		c.SlowCutoff, c.MediumCutoff = 50, 80
	}
	if c.Slow == (types.RGB{}) && c.Medium == (types.RGB{}) && c.Fast == (types.RGB{}) {
		c.Slow = types.RGB{R: 0xFF}
		c.Medium = types.RGB{R: 0x25, G: 0x09}
		c.Fast = types.RGB{B: 0x10}
	}
	if c.Busy == nil {
		c.Busy = func() bool { return false }
	}
}

var errAbortNoClear = errors.New("aborted before first led")

type Pipeline struct {
	cfg    Config
	log    zerolog.Logger
	leds   LEDs
	fetch  Fetcher
	errs   ErrorState
	store  *Store
	tables *Tables
	q      *Queue

	locked        atomic.Bool
	suppressClear bool
}

// New builds a pipeline. store may be nil to disable persistence.
func New(cfg Config, leds LEDs, fetch Fetcher, errs ErrorState, store *Store) *Pipeline {
	cfg.defaults()
	return &Pipeline{
		cfg:    cfg,
		log:    cfg.Logger.With().Str("svc", "refresh").Logger(),
		leds:   leds,
		fetch:  fetch,
		errs:   errs,
		store:  store,
		tables: NewTables(cfg.Map.MaxLED()),
		q:      NewQueue(),
	}
}

// Commands is the queue the coordinator sends to.
func (p *Pipeline) Commands() *Queue { return p.q }

func (p *Pipeline) Tables() *Tables { return p.tables }

// Lock blanks nothing by itself; while locked refreshes only quick-clear.
func (p *Pipeline) Lock()        { p.locked.Store(true) }
func (p *Pipeline) Unlock()      { p.locked.Store(false) }
func (p *Pipeline) Locked() bool { return p.locked.Load() }

// Init loads typical and live speeds of both directions.
func (p *Pipeline) Init(ctx context.Context) error {
	for _, cat := range []types.SpeedCategory{types.Typical, types.Live} {
		for _, dir := range []types.Direction{types.North, types.South} {
			t, err := p.load(ctx, dir, cat)
			if err != nil {
				return err
			}
			p.tables.Update(dir, cat, t)
		}
	}
	return nil
}

// load fetches one table from the server, falling back to NVS. Only a
// cancelled ctx is an error; with no data at all the table stays empty.
func (p *Pipeline) load(ctx context.Context, dir types.Direction, cat types.SpeedCategory) (types.SpeedTable, error) {
	t := types.NewSpeedTable(p.tables.Len())
	url := apiconn.SpeedsURL(p.cfg.DataServer, dir, cat, p.cfg.DataTag)
	err := p.fetch.GetServerSpeeds(ctx, url, t)
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}
	if err == nil {
		p.errs.ResolveNoConn(true)
		if p.store != nil {
			if err := p.store.Save(dir, cat, t); err != nil {
				p.log.Error().Err(err).Str("key", Key(dir, cat)).Msg("persist speeds")
			}
		}
		return t, nil
	}

	p.log.Warn().Err(err).Str("key", Key(dir, cat)).Msg("searching nvs for data")
	p.errs.ThrowNoConn()
	if p.store == nil {
		return t, nil
	}
	stale, lerr := p.store.Load(dir, cat, p.tables.Len())
	if lerr != nil {
		p.log.Error().Err(lerr).Str("key", Key(dir, cat)).Msg("no stored speeds")
		return t, nil
	}
	return stale, nil
}

// Run executes queued commands until ctx is cancelled.
func (p *Pipeline) Run(ctx context.Context) error {
	for {
		cmd, err := p.q.Next(ctx)
		if err != nil {
			return err
		}
		if err := p.Handle(ctx, cmd); err != nil && ctx.Err() == nil {
			p.log.Warn().Err(err).Str("cmd", cmd.String()).Msg("command ended early")
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
	}
}

// Handle executes one command. An aborted walk quick-clears the board and
// suppresses the next clear.
func (p *Pipeline) Handle(ctx context.Context, cmd types.RefreshCommand) error {
	suppress := p.suppressClear
	p.suppressClear = false

	var err error
	switch cmd {
	case types.RefreshNorth, types.RefreshSouth:
		if p.Locked() {
			return p.QuickClear(ctx)
		}
		err = p.Refresh(ctx, dirOf(cmd))
	case types.ClearNorth, types.ClearSouth:
		if suppress || p.Locked() {
			p.log.Debug().Str("cmd", cmd.String()).Msg("clear suppressed")
			return nil
		}
		err = p.Clear(ctx, dirOf(cmd))
	case types.QuickClear:
		return p.QuickClear(ctx)
	default:
		return errcode.New(errcode.InvalidParams, "refresh.handle", cmd.String())
	}

	switch {
	case errors.Is(err, errAbortNoClear):
		return errcode.Wrap(errcode.Aborted, "refresh."+cmd.String(), err)
	case errcode.Is(err, errcode.Aborted):
		p.log.Info().Str("cmd", cmd.String()).Msg("aborted")
		if qerr := p.QuickClear(ctx); qerr != nil {
			p.log.Error().Err(qerr).Msg("quick clear")
		}
		p.suppressClear = true
	}
	return err
}

func dirOf(cmd types.RefreshCommand) types.Direction {
	if cmd == types.RefreshSouth || cmd == types.ClearSouth {
		return types.South
	}
	return types.North
}

// order is the walk order of dir: north descending, south ascending.
func (p *Pipeline) order(dir types.Direction) []int {
	n := p.tables.Len()
	out := make([]int, n)
	for i := range out {
		if dir == types.North {
			out[i] = n - i
		} else {
			out[i] = i + 1
		}
	}
	return out
}

// mustAbort peeks for pending work without consuming it. A clear is always
// followed by the refresh of its direction, which does not count.
func (p *Pipeline) mustAbort(current types.RefreshCommand) bool {
	if p.cfg.Busy() {
		return true
	}
	next, ok := p.q.Peek()
	if !ok {
		return false
	}
	if current == types.ClearFor(dirOf(current)) && next == types.RefreshFor(dirOf(current)) {
		return false
	}
	return true
}

// Color maps a percentage of typical speed to its bucket colour.
func (p *Pipeline) Color(percent int64) types.RGB {
	switch {
	case percent < p.cfg.SlowCutoff:
		return p.cfg.Slow
	case percent < p.cfg.MediumCutoff:
		return p.cfg.Medium
	default:
		return p.cfg.Fast
	}
}

// Refresh fetches live speeds for dir and paints the board.
func (p *Pipeline) Refresh(ctx context.Context, dir types.Direction) error {
	cmd := types.RefreshFor(dir)
	live, err := p.load(ctx, dir, types.Live)
	if err != nil {
		return err
	}
	p.tables.Update(dir, types.Live, live)
	typical := p.tables.Copy(dir, types.Typical)
	current := p.tables.Copy(dir, types.Live)

	if p.mustAbort(cmd) {
		return errAbortNoClear
	}
	p.log.Info().Str("dir", dir.String()).Msg("refreshing")
	for _, led := range p.order(dir) {
		if p.cfg.Map.NoRefresh(led) {
			continue
		}
		c, ok := p.colorFor(led, current, typical)
		if !ok {
			continue
		}
		if err := p.setLED(ctx, led, c, true); err != nil {
			return err
		}
		if p.mustAbort(cmd) {
			return errcode.New(errcode.Aborted, "refresh."+cmd.String(), "pending command")
		}
		if err := sleep(ctx, p.cfg.LEDUpdatePeriod); err != nil {
			return err
		}
		p.confirm(ctx, led, c, true)
	}
	return nil
}

func (p *Pipeline) colorFor(led int, current, typical types.SpeedTable) (types.RGB, bool) {
	if led < 1 || led > len(current) || led > len(typical) {
		p.log.Warn().Int("led", led).Msg("skipping out of bounds led")
		return types.RGB{}, false
	}
	cur, typ := current[led-1], typical[led-1]
	switch {
	case typ.Speed <= 0:
		p.log.Debug().Int("led", led).Msg("skipping led without typical speed")
		return types.RGB{}, false
	case int(cur.LEDNum) != led:
		p.log.Debug().Int("led", led).Uint16("got", cur.LEDNum).Msg("skipping bad index")
		return types.RGB{}, false
	case int(typ.LEDNum) != led:
		p.log.Warn().Int("led", led).Uint16("got", typ.LEDNum).Msg("skipping bad typical index")
		return types.RGB{}, false
	case cur.Speed < 0:
		p.log.Debug().Int("led", led).Int32("speed", cur.Speed).Msg("skipping led speed")
		return types.RGB{}, false
	}
	percent := 100 * int64(cur.Speed) / int64(typ.Speed)
	return p.Color(percent), true
}

// Clear blanks dir in its walk order, leaving indicator LEDs alone.
func (p *Pipeline) Clear(ctx context.Context, dir types.Direction) error {
	cmd := types.ClearFor(dir)
	p.log.Info().Str("dir", dir.String()).Msg("clearing")
	for _, led := range p.order(dir) {
		if p.cfg.Map.NoRefresh(led) {
			continue
		}
		if err := p.setLED(ctx, led, types.RGB{}, false); err != nil {
			return err
		}
		if p.mustAbort(cmd) {
			return errcode.New(errcode.Aborted, "refresh."+cmd.String(), "pending command")
		}
		if err := sleep(ctx, p.cfg.LEDClearPeriod); err != nil {
			return err
		}
		p.confirm(ctx, led, types.RGB{}, false)
	}
	return nil
}

// QuickClear blanks the board at once. Boards with chip-driven indicators
// are blanked LED by LED so the indicators survive; others are reset and
// re-armed.
func (p *Pipeline) QuickClear(ctx context.Context) error {
	defer p.publishClear()
	if _, ok := p.cfg.Map.Indicators(); ok {
		for _, led := range p.order(types.South) {
			if p.cfg.Map.NoRefresh(led) {
				continue
			}
			err := p.retry(ctx, func() error {
				return p.leds.SetColor(ctx, uint16(led), 0, 0, 0, dots.Blocking, dots.Notify)
			})
			if err != nil {
				return err
			}
		}
		return nil
	}
	p.log.Info().Msg("quick clearing matrices")
	steps := []func() error{
		func() error { return p.leds.Reset(ctx, dots.Blocking, dots.Notify) },
		func() error {
			return p.leds.SetGlobalCurrentControl(ctx, p.cfg.GlobalCurrent, dots.Blocking, dots.Notify)
		},
		func() error {
			return p.leds.SetOperatingMode(ctx, is31fl3741.NormalOperation, dots.Blocking, dots.Notify)
		},
	}
	for _, step := range steps {
		if err := p.retry(ctx, step); err != nil {
			return err
		}
	}
	return nil
}

func (p *Pipeline) retry(ctx context.Context, f func() error) error {
	var err error
	for i := 0; i < p.cfg.MatrixRetries; i++ {
		if err = f(); err == nil || ctx.Err() != nil {
			return err
		}
	}
	return err
}

// setLED queues colour (and full scaling) for one LED without waiting.
func (p *Pipeline) setLED(ctx context.Context, led int, c types.RGB, scaling bool) error {
	// Drop an outcome nobody looked at so confirm sees this LED's.
	p.leds.PollNotification()
	err := p.retry(ctx, func() error {
		return p.leds.SetColor(ctx, uint16(led), c.R, c.G, c.B, dots.Async, dots.Notify)
	})
	if err != nil {
		return err
	}
	if scaling {
		err = p.retry(ctx, func() error {
			return p.leds.SetScaling(ctx, uint16(led), DefaultScale, DefaultScale, DefaultScale, dots.Async, dots.Notify)
		})
		if err != nil {
			return err
		}
	}
	p.publishLED(led, c)
	return nil
}

// confirm resends an LED, blocking, when the gatekeeper reported failure.
func (p *Pipeline) confirm(ctx context.Context, led int, c types.RGB, scaling bool) {
	v, ok := p.leds.PollNotification()
	if !ok || v == dots.DotsOKVal {
		return
	}
	err := p.retry(ctx, func() error {
		if err := p.leds.SetColor(ctx, uint16(led), c.R, c.G, c.B, dots.Blocking, dots.Notify); err != nil {
			return err
		}
		if !scaling {
			return nil
		}
		return p.leds.SetScaling(ctx, uint16(led), DefaultScale, DefaultScale, DefaultScale, dots.Blocking, dots.Notify)
	})
	if err != nil {
		p.log.Error().Err(err).Int("led", led).Msg("failed to set matrix color")
	}
}

func (p *Pipeline) publishLED(led int, c types.RGB) {
	if p.cfg.Conn == nil {
		return
	}
	p.cfg.Conn.Publish(p.cfg.Conn.NewMessage(TopicLED,
		types.LEDColor{LED: uint16(mathx.Clamp(led, 0, 0xFFFF)), R: c.R, G: c.G, B: c.B}, false))
}

func (p *Pipeline) publishClear() {
	if p.cfg.Conn == nil {
		return
	}
	p.cfg.Conn.Publish(p.cfg.Conn.NewMessage(TopicClear, nil, false))
}

func sleep(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
