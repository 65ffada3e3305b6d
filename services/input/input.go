// Package input turns debounced button edges into user gestures. The OTA
// button triggers an update; the direction button is a quick press
// (toggle direction) or a hold (toggle night mode).
package input

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"

	"trafficdots-go/services/hal/gpioirq"
	"trafficdots-go/types"
)

// Pin IDs registered with the IRQ worker.
const (
	PinOTA = "ota"
	PinDir = "dir"
)

const eventQueueLen = 8

type OTATrigger interface {
	Trigger()
}

type Config struct {
	Logger zerolog.Logger
	// Debounce is applied to both edges. Default 50 ms.
	Debounce time.Duration
	// LongPress separates a quick press from a hold. Default 500 ms.
	LongPress time.Duration
}

type Dispatcher struct {
	cfg    Config
	log    zerolog.Logger
	ota    OTATrigger
	events chan types.InputEvent

	quickDir atomic.Bool
	holdDir  atomic.Bool
	otaOn    atomic.Bool
	pressing atomic.Bool
}

// New returns a dispatcher with every input enabled.
func New(cfg Config, ota OTATrigger) *Dispatcher {
	if cfg.Debounce <= 0 {
		cfg.Debounce = 50 * time.Millisecond
	}
	if cfg.LongPress <= 0 {
		cfg.LongPress = 500 * time.Millisecond
	}
	d := &Dispatcher{
		cfg:    cfg,
		log:    cfg.Logger.With().Str("svc", "input").Logger(),
		ota:    ota,
		events: make(chan types.InputEvent, eventQueueLen),
	}
	d.quickDir.Store(true)
	d.holdDir.Store(true)
	d.otaOn.Store(true)
	return d
}

// Register arms both active-low buttons on w. The returned function
// disarms them.
func (d *Dispatcher) Register(w *gpioirq.Worker, ota, dir gpioirq.IRQPin) (func(), error) {
	stopOTA, err := w.RegisterInput(PinOTA, ota, gpioirq.EdgeRising, d.cfg.Debounce, true)
	if err != nil {
		return nil, err
	}
	stopDir, err := w.RegisterInput(PinDir, dir, gpioirq.EdgeBoth, d.cfg.Debounce, true)
	if err != nil {
		stopOTA()
		return nil, err
	}
	return func() {
		stopOTA()
		stopDir()
	}, nil
}

// Events delivers quick and hold presses of the direction button.
func (d *Dispatcher) Events() <-chan types.InputEvent { return d.events }

// Pending reports a press in progress or not yet consumed.
func (d *Dispatcher) Pending() bool { return d.pressing.Load() || len(d.events) > 0 }

func (d *Dispatcher) EnableQuickDir()  { d.quickDir.Store(true) }
func (d *Dispatcher) DisableQuickDir() { d.quickDir.Store(false) }
func (d *Dispatcher) EnableHoldDir()   { d.holdDir.Store(true) }
func (d *Dispatcher) DisableHoldDir()  { d.holdDir.Store(false) }
func (d *Dispatcher) EnableOTA()       { d.otaOn.Store(true) }
func (d *Dispatcher) DisableOTA()      { d.otaOn.Store(false) }

// Run consumes edges from src until ctx is cancelled.
func (d *Dispatcher) Run(ctx context.Context, src <-chan gpioirq.Event) error {
	hold := time.NewTimer(time.Hour)
	hold.Stop()
	armed := false
	defer hold.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev := <-src:
			switch ev.ID {
			case PinOTA:
				if ev.Edge == gpioirq.EdgeRising {
					d.Emit(types.OTAPress)
				}
			case PinDir:
				switch ev.Edge {
				case gpioirq.EdgeRising:
					d.pressing.Store(true)
					hold.Reset(d.cfg.LongPress)
					armed = true
				case gpioirq.EdgeFalling:
					d.pressing.Store(false)
					if armed && hold.Stop() {
						d.Emit(types.QuickDirPress)
					}
					armed = false
				}
			}
		case <-hold.C:
			if armed {
				armed = false
				d.Emit(types.HoldDirPress)
			}
		}
	}
}

// Emit delivers ev as if its button had been used. Disabled inputs are
// dropped.
func (d *Dispatcher) Emit(ev types.InputEvent) {
	switch ev {
	case types.OTAPress:
		if !d.otaOn.Load() {
			d.log.Debug().Msg("ota press ignored")
			return
		}
		d.log.Info().Msg("ota button")
		d.ota.Trigger()
		return
	case types.QuickDirPress:
		if !d.quickDir.Load() {
			d.log.Debug().Msg("quick press ignored")
			return
		}
	case types.HoldDirPress:
		if !d.holdDir.Load() {
			d.log.Debug().Msg("hold ignored")
			return
		}
	default:
		return
	}
	select {
	case d.events <- ev:
		d.log.Debug().Stringer("event", ev).Msg("input")
	default:
		d.log.Warn().Stringer("event", ev).Msg("input queue full")
	}
}
