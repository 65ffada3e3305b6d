// Package errstate holds the process-wide error level and drives the error
// LED from it: flashing while the server is unreachable, solid for a
// handleable or fatal error.
package errstate

import (
	"sync"
	"time"

	"github.com/rs/zerolog"

	"trafficdots-go/bus"
	"trafficdots-go/types"
)

var TopicError = bus.T("status", "error")

// LED is the error indicator.
type LED interface {
	Set(on bool)
}

type nopLED struct{}

func (nopLED) Set(bool) {}

type Config struct {
	Logger zerolog.Logger
	LED    LED
	Conn   *bus.Connection
	// FlashPeriod is the half-period of the no-connection flash. Default 1 s.
	FlashPeriod time.Duration
	// Halt parks a goroutine after a fatal error. Default blocks forever.
	Halt func()
}

type State struct {
	cfg Config
	log zerolog.Logger

	mu    sync.Mutex
	level types.ErrorLevel
	flash *flasher // non-nil while flashing
}

type flasher struct {
	stop, done chan struct{}
}

func New(cfg Config) *State {
	if cfg.LED == nil {
		cfg.LED = nopLED{}
	}
	if cfg.FlashPeriod <= 0 {
		cfg.FlashPeriod = time.Second
	}
	if cfg.Halt == nil {
		cfg.Halt = func() { select {} }
	}
	return &State{cfg: cfg, log: cfg.Logger.With().Str("svc", "errstate").Logger()}
}

// Level samples the current error level.
func (s *State) Level() types.ErrorLevel {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.level
}

// ThrowNoConn records that the server could not be reached.
func (s *State) ThrowNoConn() {
	s.mu.Lock()
	switch s.level {
	case types.NoError, types.NoConnErr:
		s.setLocked(types.NoConnErr)
		s.startFlashLocked()
	case types.HandleableErr:
		// Solid takes priority over flashing.
		s.setLocked(types.HandleableAndNoConnErr)
	case types.HandleableAndNoConnErr:
	default:
		s.fatalLocked("no_conn thrown in fatal state")
		return
	}
	s.mu.Unlock()
}

// ThrowHandleable records a recoverable, user-visible error. Only one may be
// outstanding at a time.
func (s *State) ThrowHandleable() {
	s.mu.Lock()
	s.stopFlashLocked()
	s.cfg.LED.Set(true)
	switch s.level {
	case types.NoError:
		s.setLocked(types.HandleableErr)
	case types.NoConnErr:
		s.setLocked(types.HandleableAndNoConnErr)
	default:
		s.fatalLocked("multiple handleable errors thrown")
		return
	}
	s.mu.Unlock()
}

// ResolveNoConn clears a no-connection error. With resolveNone a call in a
// state without one is accepted; otherwise it is fatal.
func (s *State) ResolveNoConn(resolveNone bool) {
	s.mu.Lock()
	if s.flash != nil {
		s.stopFlashLocked()
		s.cfg.LED.Set(false)
	}
	switch s.level {
	case types.NoConnErr:
		s.setLocked(types.NoError)
	case types.HandleableAndNoConnErr:
		s.setLocked(types.HandleableErr)
	case types.NoError, types.HandleableErr:
		if !resolveNone {
			s.fatalLocked("no_conn resolved without its error state")
			return
		}
	default:
		s.fatalLocked("no_conn resolved in fatal state")
		return
	}
	s.mu.Unlock()
}

// ResolveHandleable clears the handleable error. With resolveNone a call in a
// state without one is accepted; otherwise it is fatal.
func (s *State) ResolveHandleable(resolveNone bool) {
	s.mu.Lock()
	switch s.level {
	case types.HandleableErr:
		s.setLocked(types.NoError)
		s.cfg.LED.Set(false)
	case types.HandleableAndNoConnErr:
		s.setLocked(types.NoConnErr)
		s.startFlashLocked()
	case types.NoError, types.NoConnErr:
		if !resolveNone {
			s.fatalLocked("handleable resolved without its error state")
			return
		}
	default:
		s.fatalLocked("handleable resolved in fatal state")
		return
	}
	s.mu.Unlock()
}

// ThrowFatal lights the error LED solid and parks the calling goroutine.
func (s *State) ThrowFatal(reason string) {
	s.mu.Lock()
	s.fatalLocked(reason)
}

// fatalLocked releases the mutex before halting so other callers can sample
// the level.
func (s *State) fatalLocked(reason string) {
	s.log.Error().Str("reason", reason).Str("from", s.level.String()).Msg("fatal error")
	s.stopFlashLocked()
	s.cfg.LED.Set(true)
	s.setLocked(types.FatalErr)
	s.mu.Unlock()
	s.cfg.Halt()
}

func (s *State) setLocked(l types.ErrorLevel) {
	if l != s.level {
		s.log.Warn().Str("from", s.level.String()).Str("to", l.String()).Msg("error level")
	}
	s.level = l
	if s.cfg.Conn != nil {
		s.cfg.Conn.Publish(s.cfg.Conn.NewMessage(TopicError,
			types.ErrorStatus{Level: l, TS: time.Now().UnixMilli()}, true))
	}
}

func (s *State) startFlashLocked() {
	if s.flash != nil {
		return
	}
	f := &flasher{stop: make(chan struct{}), done: make(chan struct{})}
	s.flash = f
	go func(led LED, period time.Duration) {
		defer close(f.done)
		t := time.NewTicker(period)
		defer t.Stop()
		on := false
		for {
			select {
			case <-f.stop:
				return
			case <-t.C:
				on = !on
				led.Set(on)
			}
		}
	}(s.cfg.LED, s.cfg.FlashPeriod)
}

func (s *State) stopFlashLocked() {
	if s.flash == nil {
		return
	}
	close(s.flash.stop)
	<-s.flash.done
	s.flash = nil
}

// Flashing reports whether the no-connection flash is running.
func (s *State) Flashing() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.flash != nil
}
