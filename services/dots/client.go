package dots

import (
	"context"
	"time"

	"trafficdots-go/drivers/is31fl3741"
	"trafficdots-go/errcode"
)

// Mode selects whether a call waits for the command to execute.
type Mode uint8

const (
	Async Mode = iota
	Blocking
)

// NotifyMode selects whether the outcome is reported back.
type NotifyMode uint8

const (
	Silent NotifyMode = iota
	Notify
)

// Client queues commands on a gatekeeper. Each client owns one notification
// slot; Async+Notify outcomes overwrite an unread value.
type Client struct {
	g    *Gatekeeper
	slot chan uint32
}

// NewClient returns a client with its own notification slot.
func (g *Gatekeeper) NewClient() *Client {
	return &Client{g: g, slot: make(chan uint32, 1)}
}

// Notifications delivers DotsOKVal/DotsErrVal for Async+Notify commands.
func (c *Client) Notifications() <-chan uint32 { return c.slot }

// TakeNotification waits for the next notification value.
func (c *Client) TakeNotification(ctx context.Context) (uint32, error) {
	select {
	case v := <-c.slot:
		return v, nil
	case <-ctx.Done():
		return 0, ctx.Err()
	}
}

// PollNotification returns a pending notification without waiting.
func (c *Client) PollNotification() (uint32, bool) {
	select {
	case v := <-c.slot:
		return v, true
	default:
		return 0, false
	}
}

// Do validates cmd, queues it and, for Blocking+Notify, waits for and
// decodes its outcome. Blocking+Silent behaves as Async+Silent.
func (c *Client) Do(ctx context.Context, cmd Command, mode Mode, n NotifyMode) error {
	if err := cmd.validate(c.g.m); err != nil {
		return err
	}
	req := request{cmd: cmd}
	switch {
	case n == Notify && mode == Blocking:
		req.done = make(chan uint32, 1)
	case n == Notify:
		req.slot = c.slot
	}

	t := time.NewTimer(c.g.cfg.SendTimeout)
	defer t.Stop()
	select {
	case c.g.q <- req:
	case <-t.C:
		return errcode.New(errcode.QueueFull, "dots."+cmd.Name(), "send timeout")
	case <-ctx.Done():
		return errcode.Wrap(errcode.QueueFull, "dots."+cmd.Name(), ctx.Err())
	}
	if req.done == nil {
		return nil
	}
	select {
	case v := <-req.done:
		return decode(cmd, v)
	case <-ctx.Done():
		return ctx.Err()
	}
}

func decode(cmd Command, v uint32) error {
	switch v {
	case DotsOKVal:
		return nil
	case DotsErrVal:
		return errcode.New(errcode.Fail, "dots."+cmd.Name(), "gatekeeper reported failure")
	}
	return errcode.New(errcode.Error, "dots."+cmd.Name(), "unexpected notification")
}

// Pending reports how many commands are waiting in the gatekeeper queue.
func (c *Client) Pending() int { return len(c.g.q) }

func (c *Client) SetOperatingMode(ctx context.Context, op is31fl3741.Operation, m Mode, n NotifyMode) error {
	return c.Do(ctx, SetOperatingModeCmd{Mode: op}, m, n)
}

func (c *Client) SetOpenShortDetection(ctx context.Context, d is31fl3741.ShortDetection, m Mode, n NotifyMode) error {
	return c.Do(ctx, SetOpenShortDetectionCmd{Mode: d}, m, n)
}

func (c *Client) SetLogicLevel(ctx context.Context, l is31fl3741.LogicLevel, m Mode, n NotifyMode) error {
	return c.Do(ctx, SetLogicLevelCmd{Level: l}, m, n)
}

func (c *Client) SetSWxSetting(ctx context.Context, sw is31fl3741.SWx, m Mode, n NotifyMode) error {
	return c.Do(ctx, SetSWxSettingCmd{Setting: sw}, m, n)
}

func (c *Client) SetGlobalCurrentControl(ctx context.Context, v uint8, m Mode, n NotifyMode) error {
	return c.Do(ctx, SetGlobalCurrentCmd{Value: v}, m, n)
}

func (c *Client) SetResistorPullup(ctx context.Context, r is31fl3741.Resistor, m Mode, n NotifyMode) error {
	return c.Do(ctx, SetResistorPullupCmd{Setting: r}, m, n)
}

func (c *Client) SetResistorPulldown(ctx context.Context, r is31fl3741.Resistor, m Mode, n NotifyMode) error {
	return c.Do(ctx, SetResistorPulldownCmd{Setting: r}, m, n)
}

func (c *Client) SetPWMFrequency(ctx context.Context, f is31fl3741.PWMFrequency, m Mode, n NotifyMode) error {
	return c.Do(ctx, SetPWMFrequencyCmd{Freq: f}, m, n)
}

func (c *Client) Reset(ctx context.Context, m Mode, n NotifyMode) error {
	return c.Do(ctx, ResetCmd{}, m, n)
}

func (c *Client) SetColor(ctx context.Context, led uint16, r, g, b uint8, m Mode, n NotifyMode) error {
	return c.Do(ctx, SetColorCmd{LED: led, R: r, G: g, B: b}, m, n)
}

func (c *Client) SetScaling(ctx context.Context, led uint16, r, g, b uint8, m Mode, n NotifyMode) error {
	return c.Do(ctx, SetScalingCmd{LED: led, R: r, G: g, B: b}, m, n)
}

func (c *Client) ReleaseBus(ctx context.Context, m Mode, n NotifyMode) error {
	return c.Do(ctx, ReleaseBusCmd{}, m, n)
}

func (c *Client) ReacquireBus(ctx context.Context, m Mode, n NotifyMode) error {
	return c.Do(ctx, ReacquireBusCmd{}, m, n)
}

func (c *Client) NotifyOK(ctx context.Context, m Mode, n NotifyMode) error {
	return c.Do(ctx, NotifyOKCmd{}, m, n)
}

func (c *Client) NotifyErr(ctx context.Context, m Mode, n NotifyMode) error {
	return c.Do(ctx, NotifyErrCmd{}, m, n)
}
