// Package dots owns the I2C bus and every IS31FL3741 chip on it. The rest of
// the firmware changes LEDs only by queueing commands through a Client; one
// goroutine executes them in FIFO order.
package dots

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"tinygo.org/x/drivers"

	"trafficdots-go/drivers/is31fl3741"
	"trafficdots-go/drivers/is31fl3741/ledmap"
	"trafficdots-go/errcode"
)

// Notification values posted to a client after a Notify command.
const (
	DotsOKVal  uint32 = 0x81
	DotsErrVal uint32 = 0x6A
)

type Config struct {
	Logger zerolog.Logger
	// QueueLen defaults to 20.
	QueueLen int
	// ProbeBackoff is the wait between failed probes. Default 500 ms.
	ProbeBackoff time.Duration
	// SendTimeout bounds how long a client waits for queue space. Default 1 s.
	SendTimeout time.Duration
	// Applied after the chips answer.
	GlobalCurrent uint8
	SWx           is31fl3741.SWx
}

// PageState is the gatekeeper's view of one chip's selected page.
type PageState struct {
	page  is31fl3741.Page
	valid bool
}

type chip struct {
	dev   is31fl3741.Device
	state PageState
}

type request struct {
	cmd  Command
	slot chan uint32 // client notification slot, overwritten
	done chan uint32 // blocking caller, one value
}

type Gatekeeper struct {
	cfg      Config
	log      zerolog.Logger
	m        *ledmap.Map
	chips    []chip
	q        chan request
	ready    chan struct{}
	released bool
}

// New creates a gatekeeper for the chips of m on bus. Nothing touches the
// bus until Run.
func New(bus drivers.I2C, m *ledmap.Map, cfg Config) *Gatekeeper {
	if cfg.QueueLen <= 0 {
		cfg.QueueLen = 20
	}
	if cfg.ProbeBackoff <= 0 {
		cfg.ProbeBackoff = 500 * time.Millisecond
	}
	if cfg.SendTimeout <= 0 {
		cfg.SendTimeout = time.Second
	}
	g := &Gatekeeper{
		cfg:   cfg,
		log:   cfg.Logger.With().Str("svc", "dots").Logger(),
		m:     m,
		q:     make(chan request, cfg.QueueLen),
		ready: make(chan struct{}),
	}
	for _, a := range m.Chips {
		g.chips = append(g.chips, chip{dev: is31fl3741.New(bus, a)})
	}
	return g
}

// Ready is closed once every chip has answered and been initialised.
func (g *Gatekeeper) Ready() <-chan struct{} { return g.ready }

// Map returns the LED map the gatekeeper validates against.
func (g *Gatekeeper) Map() *ledmap.Map { return g.m }

// Run probes the chips until they all answer, initialises them and then
// executes queued commands until ctx is cancelled.
func (g *Gatekeeper) Run(ctx context.Context) error {
	for {
		err := g.probeAll()
		if err == nil {
			break
		}
		g.log.Error().Err(err).Dur("backoff", g.cfg.ProbeBackoff).Msg("led drivers not connected")
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(g.cfg.ProbeBackoff):
		}
	}
	g.initChips()
	close(g.ready)
	g.log.Info().Int("chips", len(g.chips)).Msg("gatekeeper ready")

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case req := <-g.q:
			g.handle(req)
		}
	}
}

func (g *Gatekeeper) probeAll() error {
	for i := range g.chips {
		c := &g.chips[i]
		c.state = PageState{}
		if err := c.dev.Probe(); err != nil {
			return fmt.Errorf("chip 0x%02x: %w", c.dev.Address, err)
		}
	}
	return nil
}

func (g *Gatekeeper) initChips() {
	steps := []Command{
		ResetCmd{},
		SetGlobalCurrentCmd{Value: g.cfg.GlobalCurrent},
		SetSWxSettingCmd{Setting: g.cfg.SWx},
		SetOperatingModeCmd{Mode: is31fl3741.NormalOperation},
	}
	for _, c := range steps {
		if err := g.execute(c); err != nil {
			g.log.Warn().Err(err).Str("cmd", c.Name()).Msg("chip init")
		}
	}
}

func (g *Gatekeeper) handle(req request) {
	err := g.execute(req.cmd)
	v := DotsOKVal
	if err != nil {
		v = DotsErrVal
		g.log.Error().Err(err).Str("cmd", req.cmd.Name()).Msg("command failed")
	} else {
		g.log.Debug().Str("cmd", req.cmd.Name()).Msg("executed")
	}
	if req.done != nil {
		req.done <- v
	}
	if req.slot != nil {
		post(req.slot, v)
	}
}

// post stores v in a one-slot channel, replacing an unread value.
func post(slot chan uint32, v uint32) {
	for {
		select {
		case slot <- v:
			return
		default:
		}
		select {
		case <-slot:
		default:
		}
	}
}

func (g *Gatekeeper) execute(cmd Command) error {
	switch c := cmd.(type) {
	case NotifyOKCmd:
		return nil
	case NotifyErrCmd:
		return errcode.New(errcode.Fail, "dots."+c.Name(), "requested")
	case ReleaseBusCmd:
		g.released = true
		return nil
	case ReacquireBusCmd:
		g.released = false
		if err := g.probeAll(); err != nil {
			return errcode.Wrap(errcode.BusFault, "dots."+c.Name(), err)
		}
		return nil
	}
	if g.released {
		return errcode.New(errcode.BusFault, "dots."+cmd.Name(), "bus released")
	}

	switch c := cmd.(type) {
	case SetOperatingModeCmd:
		return g.updateAll(c, is31fl3741.MaskSoftwareShutdown, uint8(c.Mode))
	case SetOpenShortDetectionCmd:
		return g.updateAll(c, is31fl3741.MaskOpenShort, uint8(c.Mode))
	case SetLogicLevelCmd:
		return g.updateAll(c, is31fl3741.MaskLogicLevel, uint8(c.Level))
	case SetSWxSettingCmd:
		return g.updateAll(c, is31fl3741.MaskSWx, uint8(c.Setting))
	case SetResistorPullupCmd:
		return g.updateAllReg(c, is31fl3741.RegPullSelect, is31fl3741.MaskPullup, uint8(c.Setting))
	case SetResistorPulldownCmd:
		return g.updateAllReg(c, is31fl3741.RegPullSelect, is31fl3741.MaskPulldown, uint8(c.Setting))
	case SetGlobalCurrentCmd:
		return g.writeAll(c, is31fl3741.RegGlobalCurrent, c.Value)
	case SetPWMFrequencyCmd:
		return g.writeAll(c, is31fl3741.RegPWMFrequency, uint8(c.Freq))
	case ResetCmd:
		err := g.writeAll(c, is31fl3741.RegReset, is31fl3741.ResetKey)
		g.invalidateAll()
		return err
	case SetColorCmd:
		return g.writeLED(c, c.LED, false, [3]uint8{c.R, c.G, c.B})
	case SetScalingCmd:
		return g.writeLED(c, c.LED, true, [3]uint8{c.R, c.G, c.B})
	}
	return errcode.New(errcode.Unsupported, "dots.execute", fmt.Sprintf("%T", cmd))
}

func (g *Gatekeeper) invalidateAll() {
	for i := range g.chips {
		g.chips[i].state = PageState{}
	}
}

// setPage selects p unless the chip is known to be on it already.
func (g *Gatekeeper) setPage(c *chip, p is31fl3741.Page) error {
	if c.state.valid && c.state.page == p {
		return nil
	}
	if err := c.dev.SelectPage(p); err != nil {
		c.state = PageState{}
		return err
	}
	c.state = PageState{page: p, valid: true}
	return nil
}

func busErr(cmd Command, c *chip, err error) error {
	return &errcode.E{
		C:   errcode.Fail,
		Op:  "dots." + cmd.Name(),
		Msg: fmt.Sprintf("chip 0x%02x", c.dev.Address),
		Err: err,
	}
}

func (g *Gatekeeper) writeAll(cmd Command, reg, v uint8) error {
	for i := range g.chips {
		c := &g.chips[i]
		if err := g.setPage(c, is31fl3741.PageFunction); err != nil {
			return busErr(cmd, c, err)
		}
		if err := c.dev.WriteReg(reg, v); err != nil {
			c.state = PageState{}
			return busErr(cmd, c, err)
		}
	}
	return nil
}

func (g *Gatekeeper) updateAll(cmd Command, mask, v uint8) error {
	return g.updateAllReg(cmd, is31fl3741.RegConfig, mask, v)
}

func (g *Gatekeeper) updateAllReg(cmd Command, reg, mask, v uint8) error {
	for i := range g.chips {
		c := &g.chips[i]
		if err := g.setPage(c, is31fl3741.PageFunction); err != nil {
			return busErr(cmd, c, err)
		}
		if err := c.dev.UpdateField(reg, mask, v); err != nil {
			c.state = PageState{}
			return busErr(cmd, c, err)
		}
	}
	return nil
}

func (g *Gatekeeper) writeLED(cmd Command, led uint16, scaling bool, vals [3]uint8) error {
	loc, ok := g.m.Lookup(int(led))
	if !ok {
		return invalid(cmd, fmt.Sprintf("led %d", led))
	}
	c := &g.chips[loc.Chip]
	page := loc.Page
	if scaling {
		page = page.ScalingPage()
	}
	if err := g.setPage(c, page); err != nil {
		return busErr(cmd, c, err)
	}
	if err := c.dev.WriteRGB(loc.Regs(), vals); err != nil {
		c.state = PageState{}
		return busErr(cmd, c, err)
	}
	return nil
}
