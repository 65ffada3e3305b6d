package types

import (
	"encoding/binary"
	"errors"
)

// Direction is the direction of traffic currently shown on the board.
type Direction uint8

const (
	North Direction = iota
	South
)

func (d Direction) String() string {
	switch d {
	case North:
		return "north"
	case South:
		return "south"
	default:
		return "unknown"
	}
}

// Other returns the opposite direction.
func (d Direction) Other() Direction {
	if d == North {
		return South
	}
	return North
}

// SpeedCategory selects between live and historical speed data.
type SpeedCategory uint8

const (
	Live SpeedCategory = iota
	Typical
)

func (c SpeedCategory) String() string {
	if c == Typical {
		return "typical"
	}
	return "current"
}

// Special speed values carried in a CSV row.
const (
	SpeedNone    int32 = 0
	SpeedErrLED  int32 = -1 // row addresses an error indicator LED
	SpeedSpecial int32 = -2 // row addresses a special indicator LED
)

// LEDData is one road segment speed keyed by LED number.
// LEDNum 0 marks an empty slot.
type LEDData struct {
	LEDNum uint16 `yaml:"led"`
	Speed  int32  `yaml:"speed"`
}

// SpeedTable holds one record per LED, indexed by LEDNum-1.
type SpeedTable []LEDData

// NewSpeedTable returns an empty table for n LEDs.
func NewSpeedTable(n int) SpeedTable { return make(SpeedTable, n) }

// Reset clears every slot.
func (t SpeedTable) Reset() {
	for i := range t {
		t[i] = LEDData{}
	}
}

// Lookup returns the record for ledNum, if the slot is populated.
func (t SpeedTable) Lookup(ledNum int) (LEDData, bool) {
	if ledNum <= 0 || ledNum > len(t) {
		return LEDData{}, false
	}
	d := t[ledNum-1]
	return d, d.LEDNum != 0
}

const ledDataSize = 6

var errShortBlob = errors.New("types: speed table blob has wrong length")

// MarshalBinary encodes the table as little-endian {u16 led, i32 speed} records.
func (t SpeedTable) MarshalBinary() ([]byte, error) {
	b := make([]byte, len(t)*ledDataSize)
	for i, d := range t {
		o := i * ledDataSize
		binary.LittleEndian.PutUint16(b[o:], d.LEDNum)
		binary.LittleEndian.PutUint32(b[o+2:], uint32(d.Speed))
	}
	return b, nil
}

// UnmarshalBinary decodes records into t. The blob must hold exactly len(t)
// records; a nil table is sized from the blob.
func (t *SpeedTable) UnmarshalBinary(b []byte) error {
	if len(b)%ledDataSize != 0 {
		return errShortBlob
	}
	n := len(b) / ledDataSize
	if *t == nil {
		*t = make(SpeedTable, n)
	}
	if len(*t) != n {
		return errShortBlob
	}
	for i := range *t {
		o := i * ledDataSize
		(*t)[i] = LEDData{
			LEDNum: binary.LittleEndian.Uint16(b[o:]),
			Speed:  int32(binary.LittleEndian.Uint32(b[o+2:])),
		}
	}
	return nil
}

// RefreshCommand is sent from the coordinator to the refresh pipeline.
type RefreshCommand uint8

const (
	RefreshNorth RefreshCommand = iota
	RefreshSouth
	ClearNorth
	ClearSouth
	QuickClear
)

func (c RefreshCommand) String() string {
	switch c {
	case RefreshNorth:
		return "refresh_north"
	case RefreshSouth:
		return "refresh_south"
	case ClearNorth:
		return "clear_north"
	case ClearSouth:
		return "clear_south"
	case QuickClear:
		return "quick_clear"
	default:
		return "unknown"
	}
}

// RefreshFor returns the refresh command for d.
func RefreshFor(d Direction) RefreshCommand {
	if d == South {
		return RefreshSouth
	}
	return RefreshNorth
}

// ClearFor returns the clear command for d.
func ClearFor(d Direction) RefreshCommand {
	if d == South {
		return ClearSouth
	}
	return ClearNorth
}

// InputEvent is a resolved button gesture.
type InputEvent uint8

const (
	QuickDirPress InputEvent = iota + 1
	HoldDirPress
	OTAPress
)

func (e InputEvent) String() string {
	switch e {
	case QuickDirPress:
		return "quick_dir"
	case HoldDirPress:
		return "hold_dir"
	case OTAPress:
		return "ota"
	default:
		return "none"
	}
}

// RGB is one PWM colour triple.
type RGB struct {
	R uint8 `yaml:"r" json:"r"`
	G uint8 `yaml:"g" json:"g"`
	B uint8 `yaml:"b" json:"b"`
}
