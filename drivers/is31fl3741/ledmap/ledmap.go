// Package ledmap holds the compiled LED-number to register tables of each
// board revision. LED numbers start at 1; 0 is reserved.
package ledmap

import (
	"errors"
	"fmt"

	"trafficdots-go/drivers/is31fl3741"
)

var ErrUnknownHardware = errors.New("ledmap: unknown hardware version")

// Location is where one RGB LED lives: the chip index into Map.Chips, the PWM
// page, and the three register addresses on that page. The same addresses
// on Page.ScalingPage() hold the LED's current scaling.
type Location struct {
	Chip    uint8
	Page    is31fl3741.Page
	R, G, B uint8
}

// Regs returns the red, green and blue register addresses.
func (l Location) Regs() [3]uint8 { return [3]uint8{l.R, l.G, l.B} }

// Map is the table for one board.
type Map struct {
	Hardware uint8
	Chips    []uint16 // chip I2C addresses, by chip index
	leds     []Location
	aliases  map[int]int

	indicators *Indicators
	noRefresh  map[int]bool
}

// Indicators are the status LEDs of boards that drive them from the LED
// chips instead of GPIO.
type Indicators struct {
	WiFi, Error, OTA         uint16
	North, South, East, West uint16
	Light, Medium, Heavy     uint16
}

func (i Indicators) all() []uint16 {
	return []uint16{i.WiFi, i.Error, i.OTA, i.North, i.South, i.East, i.West, i.Light, i.Medium, i.Heavy}
}

// Indicators returns the chip-driven status LEDs, if the board has them.
func (m *Map) Indicators() (Indicators, bool) {
	if m.indicators == nil {
		return Indicators{}, false
	}
	return *m.indicators, true
}

// NoRefresh reports whether ledNum must be left alone by data refreshes and
// clears.
func (m *Map) NoRefresh(ledNum int) bool { return m.noRefresh[ledNum] }

// MaxLED is the highest valid LED number.
func (m *Map) MaxLED() int { return len(m.leds) }

// Lookup returns the location of ledNum.
func (m *Map) Lookup(ledNum int) (Location, bool) {
	if a, ok := m.aliases[ledNum]; ok {
		ledNum = a
	}
	if ledNum < 1 || ledNum > len(m.leds) {
		return Location{}, false
	}
	return m.leds[ledNum-1], true
}

// For returns the map of a hardware major version.
func For(hardware uint8) (*Map, error) {
	switch hardware {
	case 1:
		return V1(), nil
	case 2:
		return V2(), nil
	}
	return nil, fmt.Errorf("%w: %d", ErrUnknownHardware, hardware)
}

var v1Chips = []uint16{is31fl3741.AddressGND, is31fl3741.AddressVCC, is31fl3741.AddressSDA}

// V1 is the three-chip V1_0 board. Server data still uses the numbers of
// two LEDs that were renumbered on the board.
func V1() *Map {
	return &Map{
		Hardware: 1,
		Chips:    v1Chips,
		leds:     v1Locations[:],
		aliases:  map[int]int{329: 325, 330: 326},
	}
}

const (
	v2LEDsPerChip = 117
	v2PWM0Bytes   = 180
)

var v2Chips = []uint16{is31fl3741.AddressGND, is31fl3741.AddressVCC, is31fl3741.AddressSDA, is31fl3741.AddressSCL}

// v2Locations is filled in LED order: each chip carries 117 RGB LEDs wired
// to consecutive registers, 60 on PWM page 0 and the rest on page 1.
var v2Locations = func() []Location {
	out := make([]Location, 0, v2LEDsPerChip*len(v2Chips))
	for chip := range v2Chips {
		for k := 0; k < v2LEDsPerChip; k++ {
			base := 3 * k
			page := is31fl3741.PagePWM0
			if base >= v2PWM0Bytes {
				page = is31fl3741.PagePWM1
				base -= v2PWM0Bytes
			}
			out = append(out, Location{
				Chip: uint8(chip),
				Page: page,
				R:    uint8(base),
				G:    uint8(base + 1),
				B:    uint8(base + 2),
			})
		}
	}
	// The last chip is only partly populated.
	return out[:414]
}()

var v2Indicators = Indicators{
	WiFi: 414, Error: 413, OTA: 325,
	North: 411, South: 409, East: 412, West: 410,
	Light: 328, Medium: 326, Heavy: 327,
}

// v2Unpopulated are numbers inside the table with no LED fitted.
var v2Unpopulated = []int{46}

// V2 is the four-chip V2_0 board.
func V2() *Map {
	skip := map[int]bool{}
	for _, n := range v2Indicators.all() {
		skip[int(n)] = true
	}
	for _, n := range v2Unpopulated {
		skip[n] = true
	}
	ind := v2Indicators
	return &Map{Hardware: 2, Chips: v2Chips, leds: v2Locations, indicators: &ind, noRefresh: skip}
}
