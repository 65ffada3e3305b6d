// Package hal binds the firmware to Linux hardware through periph.io: the
// host drivers, the I2C bus of the LED drivers and the button and LED pins.
package hal

import (
	"fmt"
	"strings"
	"sync"

	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpioreg"
	"periph.io/x/conn/v3/i2c"
	"periph.io/x/conn/v3/i2c/i2creg"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/host/v3"

	"trafficdots-go/errcode"
	"trafficdots-go/services/hal/gpioirq"
)

// I2CSpeed is the bus clock of the LED drivers.
const I2CSpeed = 400 * physic.KiloHertz

var (
	initOnce sync.Once
	initErr  error
)

// Init loads the periph host drivers. It is safe to call more than once.
func Init() error {
	initOnce.Do(func() {
		if _, err := host.Init(); err != nil {
			initErr = errcode.Wrap(errcode.Uninitialized, "hal.init", err)
		}
	})
	return initErr
}

// OpenI2C opens the named bus ("" for the first one) at I2CSpeed.
func OpenI2C(name string) (i2c.BusCloser, error) {
	if err := Init(); err != nil {
		return nil, err
	}
	b, err := i2creg.Open(name)
	if err != nil {
		return nil, errcode.Wrap(errcode.BusFault, "hal.i2c", err)
	}
	if err := b.SetSpeed(I2CSpeed); err != nil {
		b.Close()
		return nil, errcode.Wrap(errcode.BusFault, "hal.i2c", err)
	}
	return b, nil
}

func pinByName(name string) (gpio.PinIO, error) {
	if err := Init(); err != nil {
		return nil, err
	}
	p := gpioreg.ByName(name)
	if p == nil {
		return nil, errcode.New(errcode.NotFound, "hal.pin", name)
	}
	return p, nil
}

// ButtonPin opens name as an input with pull.
func ButtonPin(name string, pull gpio.Pull) (*EdgePin, error) {
	p, err := pinByName(name)
	if err != nil {
		return nil, err
	}
	if err := p.In(pull, gpio.NoEdge); err != nil {
		return nil, errcode.Wrap(errcode.Fail, "hal.pin", err)
	}
	return NewEdgePin(p, pull), nil
}

// LEDPin drives an indicator LED.
type LEDPin struct {
	p         gpio.PinOut
	activeLow bool
}

func NewLEDPin(p gpio.PinOut, activeLow bool) *LEDPin {
	return &LEDPin{p: p, activeLow: activeLow}
}

// OpenLED opens name as an output, initially off.
func OpenLED(name string, activeLow bool) (*LEDPin, error) {
	p, err := pinByName(name)
	if err != nil {
		return nil, err
	}
	l := NewLEDPin(p, activeLow)
	l.Set(false)
	return l, nil
}

// Set switches the LED. Errors are dropped; a stuck LED is not fatal.
func (l *LEDPin) Set(on bool) {
	_ = l.p.Out(gpio.Level(on != l.activeLow))
}

// ParsePull accepts up, down or none.
func ParsePull(s string) (gpio.Pull, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "up", "pullup":
		return gpio.PullUp, nil
	case "down", "pulldown":
		return gpio.PullDown, nil
	case "", "none", "float":
		return gpio.Float, nil
	}
	return gpio.PullNoChange, errcode.New(errcode.InvalidParams, "hal.pull", fmt.Sprintf("%q", s))
}

// ParseEdge accepts rising, falling, both or none.
func ParseEdge(s string) gpioirq.Edge {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "rising":
		return gpioirq.EdgeRising
	case "falling":
		return gpioirq.EdgeFalling
	case "both":
		return gpioirq.EdgeBoth
	default:
		return gpioirq.EdgeNone
	}
}
