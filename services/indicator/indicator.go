// Package indicator drives the board's status LEDs from the retained status
// topics on the bus.
package indicator

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"trafficdots-go/bus"
	"trafficdots-go/services/coordinator"
	"trafficdots-go/services/ota"
	"trafficdots-go/services/wifi"
	"trafficdots-go/types"
)

// LED is a single on/off indicator.
type LED interface {
	Set(on bool)
}

// ColorLED is an indicator whose colour can be chosen per state.
type ColorLED interface {
	SetRGB(c types.RGB)
}

// Board is the set of indicators on one board. OTA is nil on boards
// without an OTA LED; those show an update on the direction LEDs.
type Board struct {
	North, South, East, West LED
	WiFi                     LED
	OTA                      ColorLED
}

type Colors struct {
	Available types.RGB `yaml:"available"`
	Updating  types.RGB `yaml:"updating"`
	Success   types.RGB `yaml:"success"`
	Failure   types.RGB `yaml:"failure"`
}

var DefaultColors = Colors{
	Available: types.RGB{G: 0x20},
	Updating:  types.RGB{B: 0x20},
	Success:   types.RGB{G: 0x20},
	Failure:   types.RGB{R: 0x20},
}

type Config struct {
	Logger zerolog.Logger
	Conn   *bus.Connection
	Board  Board
	Colors *Colors
	// FlashPeriod is the half-period of the update-available strobe.
	// Default 500 ms.
	FlashPeriod time.Duration
}

type nopLED struct{}

func (nopLED) Set(bool) {}

type Service struct {
	cfg    Config
	log    zerolog.Logger
	colors Colors

	dir      types.DirectionStatus
	haveDir  bool
	link     types.Link
	otaState types.OTAState
	flashOn  bool
}

func New(cfg Config) *Service {
	for _, l := range []*LED{&cfg.Board.North, &cfg.Board.South, &cfg.Board.East, &cfg.Board.West, &cfg.Board.WiFi} {
		if *l == nil {
			*l = nopLED{}
		}
	}
	if cfg.FlashPeriod <= 0 {
		cfg.FlashPeriod = 500 * time.Millisecond
	}
	colors := DefaultColors
	if cfg.Colors != nil {
		colors = *cfg.Colors
	}
	return &Service{
		cfg:      cfg,
		log:      cfg.Logger.With().Str("svc", "indicator").Logger(),
		colors:   colors,
		link:     types.LinkDown,
		otaState: types.OTAIdle,
	}
}

// Run applies status updates until ctx is cancelled. Retained status is
// replayed on subscribe, so the LEDs start from the current state.
func (s *Service) Run(ctx context.Context) error {
	dirSub := s.cfg.Conn.Subscribe(coordinator.TopicDirection)
	wifiSub := s.cfg.Conn.Subscribe(wifi.TopicWifi)
	otaSub := s.cfg.Conn.Subscribe(ota.TopicOTA)
	defer s.cfg.Conn.Unsubscribe(dirSub)
	defer s.cfg.Conn.Unsubscribe(wifiSub)
	defer s.cfg.Conn.Unsubscribe(otaSub)

	flash := time.NewTicker(s.cfg.FlashPeriod)
	defer flash.Stop()

	s.showWifi()
	s.showDirection()
	s.showOTA()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case m := <-dirSub.Channel():
			if st, ok := m.Payload.(types.DirectionStatus); ok {
				s.dir, s.haveDir = st, true
				s.showDirection()
			}
		case m := <-wifiSub.Channel():
			if st, ok := m.Payload.(types.WifiStatus); ok {
				s.link = st.Link
				s.showWifi()
			}
		case m := <-otaSub.Channel():
			if st, ok := m.Payload.(types.OTAStatus); ok {
				s.log.Debug().Str("state", string(st.State)).Msg("ota status")
				s.otaState = st.State
				s.flashOn = false
				s.showOTA()
				s.showDirection()
			}
		case <-flash.C:
			if s.otaState == types.OTAAvailable && s.cfg.Board.OTA != nil {
				s.flashOn = !s.flashOn
				s.showOTA()
			}
		}
	}
}

func (s *Service) showWifi() {
	s.cfg.Board.WiFi.Set(s.link == types.LinkUp)
}

func (s *Service) showDirection() {
	b := s.cfg.Board
	if b.OTA == nil {
		switch s.otaState {
		case types.OTAUpdating:
			setAll(true, b.North, b.South, b.East, b.West)
			return
		case types.OTAFailure:
			setAll(false, b.North, b.South, b.East, b.West)
			return
		}
	}
	if !s.haveDir || s.dir.Night {
		setAll(false, b.North, b.South, b.East, b.West)
		return
	}
	north := s.dir.Dir == types.North
	b.North.Set(north)
	b.West.Set(north)
	b.South.Set(!north)
	b.East.Set(!north)
}

func (s *Service) showOTA() {
	led := s.cfg.Board.OTA
	if led == nil {
		return
	}
	switch s.otaState {
	case types.OTAAvailable:
		if s.flashOn {
			led.SetRGB(s.colors.Available)
		} else {
			led.SetRGB(types.RGB{})
		}
	case types.OTAUpdating:
		led.SetRGB(s.colors.Updating)
	case types.OTASuccess:
		led.SetRGB(s.colors.Success)
	case types.OTAFailure:
		led.SetRGB(s.colors.Failure)
	default:
		led.SetRGB(types.RGB{})
	}
}

func setAll(on bool, leds ...LED) {
	for _, l := range leds {
		l.Set(on)
	}
}
