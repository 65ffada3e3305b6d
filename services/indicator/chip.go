package indicator

import (
	"context"

	"github.com/rs/zerolog"

	"trafficdots-go/drivers/is31fl3741/ledmap"
	"trafficdots-go/services/dots"
	"trafficdots-go/types"
)

// ChipLED is an indicator wired to an LED driver channel. Writes are queued
// Async+Silent; a failed write is only logged.
type ChipLED struct {
	c   *dots.Client
	led uint16
	on  types.RGB
	log zerolog.Logger
}

func NewChipLED(c *dots.Client, led uint16, on types.RGB, log zerolog.Logger) *ChipLED {
	return &ChipLED{c: c, led: led, on: on, log: log}
}

func (l *ChipLED) Set(on bool) {
	if on {
		l.SetRGB(l.on)
		return
	}
	l.SetRGB(types.RGB{})
}

func (l *ChipLED) SetRGB(v types.RGB) {
	if err := l.c.SetColor(context.Background(), l.led, v.R, v.G, v.B, dots.Async, dots.Silent); err != nil {
		l.log.Warn().Err(err).Uint16("led", l.led).Msg("indicator write")
	}
}

// ChipColors are the fixed colours of the chip-driven indicators.
type ChipColors struct {
	Direction types.RGB
	WiFi      types.RGB
	Error     types.RGB
	// Legend LEDs show the speed colours next to their labels.
	Light, Medium, Heavy types.RGB
}

var DefaultChipColors = ChipColors{
	Direction: types.RGB{R: 0x10, G: 0x10, B: 0x10},
	WiFi:      types.RGB{B: 0x20},
	Error:     types.RGB{R: 0x20},
	Light:     types.RGB{B: 0x10},
	Medium:    types.RGB{R: 0x25, G: 0x09},
	Heavy:     types.RGB{R: 0xFF},
}

// ChipBoard sets full scaling on the indicator LEDs of m, paints the legend
// and returns the board plus the error LED. ok is false when m has no
// chip-driven indicators.
func ChipBoard(ctx context.Context, c *dots.Client, m *ledmap.Map, colors ChipColors, log zerolog.Logger) (b Board, errLED *ChipLED, ok bool, err error) {
	ind, ok := m.Indicators()
	if !ok {
		return Board{}, nil, false, nil
	}
	for _, n := range []uint16{ind.WiFi, ind.Error, ind.OTA, ind.North, ind.South, ind.East, ind.West, ind.Light, ind.Medium, ind.Heavy} {
		if err := c.SetScaling(ctx, n, 0xFF, 0xFF, 0xFF, dots.Async, dots.Silent); err != nil {
			return Board{}, nil, true, err
		}
	}
	legend := []struct {
		led uint16
		rgb types.RGB
	}{{ind.Light, colors.Light}, {ind.Medium, colors.Medium}, {ind.Heavy, colors.Heavy}}
	for _, l := range legend {
		if err := c.SetColor(ctx, l.led, l.rgb.R, l.rgb.G, l.rgb.B, dots.Async, dots.Silent); err != nil {
			return Board{}, nil, true, err
		}
	}
	log = log.With().Str("svc", "indicator").Logger()
	b = Board{
		North: NewChipLED(c, ind.North, colors.Direction, log),
		South: NewChipLED(c, ind.South, colors.Direction, log),
		East:  NewChipLED(c, ind.East, colors.Direction, log),
		West:  NewChipLED(c, ind.West, colors.Direction, log),
		WiFi:  NewChipLED(c, ind.WiFi, colors.WiFi, log),
		OTA:   NewChipLED(c, ind.OTA, types.RGB{}, log),
	}
	return b, NewChipLED(c, ind.Error, colors.Error, log), true, nil
}
