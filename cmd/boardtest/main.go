// Command boardtest walks every LED of a board through red, green and blue
// so dead channels and swapped wiring show up on the bench.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
	"github.com/spf13/pflag"
	"tinygo.org/x/drivers"

	"trafficdots-go/drivers/is31fl3741/ledmap"
	"trafficdots-go/services/dots"
	"trafficdots-go/services/hal"
	"trafficdots-go/services/preview"
	"trafficdots-go/types"
)

var (
	hardware = 2
	i2cName  = ""
	sim      = false
	step     = 20 * time.Millisecond
	dwell    = 2 * time.Second
	level    = uint8(0x40)
	cycles   = 1
	only     = 0
)

func init() {
	pflag.IntVar(&hardware, "hardware", hardware, "board version (1 or 2)")
	pflag.StringVar(&i2cName, "i2c", i2cName, "I2C bus name; empty picks the first")
	pflag.BoolVar(&sim, "sim", sim, "run against the simulated LED bank")
	pflag.DurationVar(&step, "step", step, "delay between LEDs")
	pflag.DurationVar(&dwell, "dwell", dwell, "hold time once a colour is complete")
	pflag.Uint8Var(&level, "level", level, "PWM level of each channel")
	pflag.IntVar(&cycles, "cycles", cycles, "passes to run; 0 loops until interrupted")
	pflag.IntVarP(&only, "led", "l", only, "light only this LED number")
}

var colors = []struct {
	name string
	rgb  func(v uint8) types.RGB
}{
	{"red", func(v uint8) types.RGB { return types.RGB{R: v} }},
	{"green", func(v uint8) types.RGB { return types.RGB{G: v} }},
	{"blue", func(v uint8) types.RGB { return types.RGB{B: v} }},
}

func main() {
	pflag.Parse()
	var log zerolog.Logger
	if isatty.IsTerminal(os.Stderr.Fd()) {
		log = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen}).With().Timestamp().Logger()
	} else {
		log = zerolog.New(os.Stderr).With().Timestamp().Logger()
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()
	if err := run(ctx, log); err != nil && ctx.Err() == nil {
		log.Fatal().Err(err).Msg("boardtest")
	}
}

func run(ctx context.Context, log zerolog.Logger) error {
	var m *ledmap.Map
	switch hardware {
	case 1:
		m = ledmap.V1()
	case 2:
		m = ledmap.V2()
	default:
		return fmt.Errorf("unknown hardware version %d", hardware)
	}

	var bus drivers.I2C
	var simBus *preview.SimBus
	if sim {
		simBus = preview.NewSimBus(m.Chips...)
		bus = simBus
	} else {
		if err := hal.Init(); err != nil {
			return err
		}
		bc, err := hal.OpenI2C(i2cName)
		if err != nil {
			return err
		}
		defer bc.Close()
		bus = bc
	}

	gk := dots.New(bus, m, dots.Config{Logger: log, GlobalCurrent: 0x25})
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	go func() { _ = gk.Run(ctx) }()
	select {
	case <-gk.Ready():
	case <-time.After(5 * time.Second):
		return fmt.Errorf("led drivers did not answer")
	case <-ctx.Done():
		return ctx.Err()
	}

	c := gk.NewClient()
	leds := make([]int, 0, m.MaxLED())
	for n := 1; n <= m.MaxLED(); n++ {
		if _, ok := m.Lookup(n); ok && (only == 0 || only == n) {
			leds = append(leds, n)
		}
	}
	for _, n := range leds {
		if err := c.SetScaling(ctx, uint16(n), 0xFF, 0xFF, 0xFF, dots.Async, dots.Silent); err != nil {
			return err
		}
	}

	failed := 0
	for pass := 0; cycles == 0 || pass < cycles; pass++ {
		for _, col := range colors {
			v := col.rgb(level)
			log.Info().Int("pass", pass+1).Str("color", col.name).Int("leds", len(leds)).Msg("walking")
			for _, n := range leds {
				if err := c.SetColor(ctx, uint16(n), v.R, v.G, v.B, dots.Blocking, dots.Notify); err != nil {
					if ctx.Err() != nil {
						return ctx.Err()
					}
					failed++
					log.Warn().Err(err).Int("led", n).Msg("write failed")
				}
				if simBus != nil {
					if got, _ := simBus.Color(m, n); got.R != v.R || got.G != v.G || got.B != v.B {
						failed++
						log.Warn().Int("led", n).Msg("register mismatch")
					}
				}
				if err := pause(ctx, step); err != nil {
					return err
				}
			}
			if err := pause(ctx, dwell); err != nil {
				return err
			}
			for _, n := range leds {
				if err := c.SetColor(ctx, uint16(n), 0, 0, 0, dots.Async, dots.Silent); err != nil {
					return err
				}
			}
		}
	}
	if failed > 0 {
		return fmt.Errorf("%d led writes failed", failed)
	}
	log.Info().Msg("all leds passed")
	return nil
}

func pause(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
