package hal

import (
	"sync"
	"time"

	"periph.io/x/conn/v3/gpio"

	"trafficdots-go/errcode"
	"trafficdots-go/services/hal/gpioirq"
)

// edgePoll bounds how long ClearIRQ waits for the edge goroutine.
const edgePoll = 100 * time.Millisecond

// EdgePin gives a periph input the callback shape of gpioirq.IRQPin. Linux
// has no user-space interrupts; a goroutine blocks in WaitForEdge instead.
type EdgePin struct {
	p    gpio.PinIn
	pull gpio.Pull

	mu   sync.Mutex
	stop chan struct{}
	done chan struct{}
}

func NewEdgePin(p gpio.PinIn, pull gpio.Pull) *EdgePin {
	return &EdgePin{p: p, pull: pull}
}

func (e *EdgePin) Get() bool { return bool(e.p.Read()) }

func toPeriph(edge gpioirq.Edge) gpio.Edge {
	switch edge {
	case gpioirq.EdgeRising:
		return gpio.RisingEdge
	case gpioirq.EdgeFalling:
		return gpio.FallingEdge
	case gpioirq.EdgeBoth:
		return gpio.BothEdges
	}
	return gpio.NoEdge
}

func (e *EdgePin) SetIRQ(edge gpioirq.Edge, handler func()) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.stop != nil {
		return errcode.New(errcode.InvalidParams, "hal.irq", "already armed")
	}
	if err := e.p.In(e.pull, toPeriph(edge)); err != nil {
		return errcode.Wrap(errcode.Fail, "hal.irq", err)
	}
	stop, done := make(chan struct{}), make(chan struct{})
	e.stop, e.done = stop, done
	go func() {
		defer close(done)
		for {
			select {
			case <-stop:
				return
			default:
			}
			if e.p.WaitForEdge(edgePoll) {
				handler()
			}
		}
	}()
	return nil
}

func (e *EdgePin) ClearIRQ() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.stop == nil {
		return nil
	}
	close(e.stop)
	<-e.done
	e.stop, e.done = nil, nil
	return e.p.In(e.pull, gpio.NoEdge)
}
