// Package gpioirq turns pin interrupts into debounced edge events. Handlers
// only sample the pin and post to a channel; one goroutine does the rest.
package gpioirq

import (
	"context"
	"sync"
	"sync/atomic"
	"time"
)

type Edge uint8

const (
	EdgeNone Edge = iota
	EdgeRising
	EdgeFalling
	EdgeBoth
)

func (e Edge) String() string {
	switch e {
	case EdgeRising:
		return "rising"
	case EdgeFalling:
		return "falling"
	case EdgeBoth:
		return "both"
	default:
		return "none"
	}
}

// IRQPin is a pin that can call back on an edge.
type IRQPin interface {
	Get() bool
	SetIRQ(edge Edge, handler func()) error
	ClearIRQ() error
}

// Event is one debounced edge. Level is logical, after inversion.
type Event struct {
	ID    string
	Level bool
	Edge  Edge
	TS    time.Time
}

type Worker struct {
	// Written by handlers, never blocks them.
	isrQ chan isrEvent
	outQ chan Event

	mu     sync.RWMutex
	inputs map[string]*watch

	drops atomic.Uint32
}

type isrEvent struct {
	id    string
	level bool
	ts    time.Time
	// settle marks a re-read of the pin at the end of a debounce window.
	settle *watch
}

type watch struct {
	pin       IRQPin
	edge      Edge
	debounce  time.Duration
	invert    bool
	lastLevel bool
	lastEvent time.Time
	cancelIRQ func()
	settling  atomic.Bool
}

func New(isrBuf, outBuf int) *Worker {
	if isrBuf <= 0 {
		isrBuf = 64
	}
	if outBuf <= 0 {
		outBuf = 64
	}
	return &Worker{
		isrQ:   make(chan isrEvent, isrBuf),
		outQ:   make(chan Event, outBuf),
		inputs: map[string]*watch{},
	}
}

// Run processes raw edges until ctx is cancelled.
func (w *Worker) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev := <-w.isrQ:
			w.handle(ev)
		}
	}
}

func (w *Worker) Events() <-chan Event { return w.outQ }

// RegisterInput arms pin and returns a function that disarms it.
func (w *Worker) RegisterInput(id string, pin IRQPin, edge Edge, debounce time.Duration, invert bool) (func(), error) {
	if edge == EdgeNone {
		return func() {}, nil
	}
	// Logical snapshot, so later comparisons are like for like.
	init := pin.Get()
	if invert {
		init = !init
	}
	wh := &watch{pin: pin, edge: edge, debounce: debounce, invert: invert, lastLevel: init}

	handler := func() {
		select {
		case w.isrQ <- isrEvent{id: id, level: pin.Get(), ts: time.Now()}:
		default:
			w.drops.Add(1)
		}
	}
	// Publish the watch before arming so the first edge finds it.
	w.mu.Lock()
	w.inputs[id] = wh
	w.mu.Unlock()
	if err := pin.SetIRQ(physical(edge, invert), handler); err != nil {
		w.mu.Lock()
		delete(w.inputs, id)
		w.mu.Unlock()
		return nil, err
	}
	wh.cancelIRQ = func() { _ = pin.ClearIRQ() }

	return func() {
		w.mu.Lock()
		cur, ok := w.inputs[id]
		if ok {
			delete(w.inputs, id)
		}
		w.mu.Unlock()
		if ok && cur.cancelIRQ != nil {
			cur.cancelIRQ()
		}
	}, nil
}

// physical maps a logical edge to the pin edge that produces it.
func physical(e Edge, invert bool) Edge {
	if !invert {
		return e
	}
	switch e {
	case EdgeRising:
		return EdgeFalling
	case EdgeFalling:
		return EdgeRising
	}
	return e
}

func (w *Worker) handle(ev isrEvent) {
	w.mu.RLock()
	wh := w.inputs[ev.id]
	w.mu.RUnlock()
	if wh == nil {
		return
	}
	level := ev.level
	if wh.invert {
		level = !level
	}

	if ev.settle != nil {
		if ev.settle != wh {
			return // re-registered since the timer was armed
		}
		wh.settling.Store(false)
		if level == wh.lastLevel {
			return
		}
		e := EdgeFalling
		if level {
			e = EdgeRising
		}
		wh.lastLevel = level
		wh.lastEvent = ev.ts
		if wh.edge == EdgeBoth || wh.edge == e {
			w.emit(Event{ID: ev.id, Level: level, Edge: e, TS: ev.ts})
		}
		w.armSettle(ev.id, wh)
		return
	}

	if !wh.lastEvent.IsZero() && ev.ts.Sub(wh.lastEvent) < wh.debounce {
		// The pin may have moved since the edge that opened the window.
		w.armSettle(ev.id, wh)
		return
	}

	var e Edge
	if wh.edge == EdgeBoth {
		switch {
		case !wh.lastLevel && level:
			e = EdgeRising
		case wh.lastLevel && !level:
			e = EdgeFalling
		}
	} else {
		// Only the configured edge fires the handler.
		e = wh.edge
	}

	wh.lastLevel = level
	wh.lastEvent = ev.ts
	if e != EdgeNone {
		w.emit(Event{ID: ev.id, Level: level, Edge: e, TS: ev.ts})
		w.armSettle(ev.id, wh)
	}
}

func (w *Worker) emit(ev Event) {
	select {
	case w.outQ <- ev:
	default:
		w.drops.Add(1)
	}
}

// armSettle re-reads the pin once the current debounce window closes, so a
// level that changed inside the window still produces its edge.
func (w *Worker) armSettle(id string, wh *watch) {
	if wh.debounce <= 0 || !wh.settling.CompareAndSwap(false, true) {
		return
	}
	delay := wh.debounce - time.Since(wh.lastEvent)
	if delay < 0 {
		delay = 0
	}
	time.AfterFunc(delay, func() {
		select {
		case w.isrQ <- isrEvent{id: id, level: wh.pin.Get(), ts: time.Now(), settle: wh}:
		default:
			w.drops.Add(1)
			wh.settling.Store(false)
		}
	})
}

// Drops counts edges lost to full queues.
func (w *Worker) Drops() uint32 { return w.drops.Load() }
